package orchestrator

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/nxgdiet/agentcluster/internal/agent"
	xerrors "github.com/nxgdiet/agentcluster/internal/errors"
	"github.com/nxgdiet/agentcluster/internal/knowledge"
	"github.com/nxgdiet/agentcluster/internal/llm"
	"github.com/nxgdiet/agentcluster/pkg/logger"
)

// AgentUsedDirect 表示本次查询未经路由，由编排器直接回答。
const AgentUsedDirect = "direct"

// AgentUsedMultiple 表示本次查询被拆分给多个智能体。
const AgentUsedMultiple = "multiple"

// Outcome 记录一次子智能体执行的结果。成功与失败都会留档，
// 最终汇报的 agent_used 只依据这些显式标识，不再从回答文本中猜测。
type Outcome struct {
	Agent    string `json:"agent"`
	Query    string `json:"query"`
	Reason   string `json:"reason"`
	Success  bool   `json:"success"`
	Response string `json:"response,omitempty"`
	Err      string `json:"error,omitempty"`
}

// ChatResult 汇总一次编排执行。
type ChatResult struct {
	Response  string    `json:"response"`
	AgentUsed string    `json:"agent_used"`
	Query     string    `json:"query"`
	Reason    string    `json:"reason"`
	Outcomes  []Outcome `json:"outcomes,omitempty"`
}

// Orchestrator 把自由文本查询路由给专家智能体并综合它们的产出。
// 每次 Chat 都是独立的执行，编排器不跨请求保留任何状态。
type Orchestrator struct {
	llmClient  llm.Client
	agents     map[string]*agent.Agent
	order      []string
	routes     []route
	hints      knowledge.Provider
	llmTimeout time.Duration
}

// Option 定义可选的编排器配置。
type Option func(*Orchestrator)

// WithKnowledgeProvider 配置路由提示库，命中的条目会附加到系统提示之后。
// 路由决定始终由决策服务做出，提示只是参考。
func WithKnowledgeProvider(provider knowledge.Provider) Option {
	return func(o *Orchestrator) {
		o.hints = provider
	}
}

// WithLLMTimeout 设置编排器自身单次决策调用的超时时间。
func WithLLMTimeout(timeout time.Duration) Option {
	return func(o *Orchestrator) {
		if timeout <= 0 {
			o.llmTimeout = 0
			return
		}
		o.llmTimeout = timeout
	}
}

// New 装配编排器。agents 的顺序即路由操作的暴露顺序。
func New(llmClient llm.Client, agents []*agent.Agent, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		llmClient: llmClient,
		agents:    make(map[string]*agent.Agent, len(agents)),
	}
	for _, ag := range agents {
		o.agents[ag.ID()] = ag
		o.order = append(o.order, ag.ID())
	}
	o.routes = buildRoutes(o.order)
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// Agents 按装配顺序返回全部专家智能体。
func (o *Orchestrator) Agents() []*agent.Agent {
	agents := make([]*agent.Agent, 0, len(o.order))
	for _, id := range o.order {
		agents = append(agents, o.agents[id])
	}
	return agents
}

// Chat 处理一条查询：决策服务选择路由操作，编排器按给定顺序
// 逐个执行子智能体，再综合全部结果。子智能体的失败被记录在
// Outcome 中而不会中断编排；编排器自身的决策失败以错误返回。
func (o *Orchestrator) Chat(ctx context.Context, query string) (*ChatResult, error) {
	if o.llmClient == nil {
		return nil, xerrors.New(xerrors.CodeInitializationFailure, "未配置决策服务客户端")
	}
	if strings.TrimSpace(query) == "" {
		return nil, xerrors.New(xerrors.CodeInvalidArgument, "查询内容不能为空")
	}

	log := logger.Named("orchestrator")
	conv := llm.NewConversation(o.systemPrompt(query), query)

	decision, err := o.decide(ctx, conv)
	if err != nil {
		return nil, err
	}

	if decision.Direct() {
		log.Info("无需路由，直接回答", "query_len", len(query))
		return &ChatResult{
			Response:  decision.Text,
			AgentUsed: AgentUsedDirect,
			Query:     query,
		}, nil
	}

	conv.Append(llm.Turn{Role: llm.RoleAssistant, ToolCalls: decision.Calls})

	var outcomes []Outcome
	for _, call := range decision.Calls {
		payload, callOutcomes := o.executeRoute(ctx, call)
		outcomes = append(outcomes, callOutcomes...)
		conv.Append(llm.Turn{
			Role:       llm.RoleTool,
			ToolCallID: call.ID,
			Name:       call.Name,
			Content:    marshalPayload(payload),
		})
	}

	response, err := o.synthesize(ctx, conv)
	if err != nil {
		return nil, err
	}

	return &ChatResult{
		Response:  response,
		AgentUsed: agentUsed(outcomes),
		Query:     query,
		Reason:    firstReason(outcomes),
		Outcomes:  outcomes,
	}, nil
}

// executeRoute 执行一次路由调用，返回回写对话的载荷与执行档案。
// 组合路由会先后运行两个智能体，绝不交错。
func (o *Orchestrator) executeRoute(ctx context.Context, call llm.ToolCallRequest) (map[string]any, []Outcome) {
	if call.Name == opRouteBoth {
		return o.executeBoth(ctx, call)
	}

	agentID, ok := o.agentForRoute(call.Name)
	if !ok {
		logger.Named("orchestrator").Warn("未知的路由操作", "name", call.Name)
		return map[string]any{
			"error": "unknown routing operation: " + call.Name,
		}, nil
	}

	query := stringArg(call.Arguments, "query")
	reason := stringArg(call.Arguments, "reason")
	payload, outcome := o.runAgent(ctx, agentID, query, reason)
	return payload, []Outcome{outcome}
}

// executeBoth 处理 gaming 与 price 的组合路由：先把 gaming 子查询
// 执行完，再开始 price 子查询。
func (o *Orchestrator) executeBoth(ctx context.Context, call llm.ToolCallRequest) (map[string]any, []Outcome) {
	gamingQuery := stringArg(call.Arguments, "gaming_query")
	priceQuery := stringArg(call.Arguments, "price_query")
	reason := stringArg(call.Arguments, "reason")

	gamingPayload, gamingOutcome := o.runAgent(ctx, routeBothFirst, gamingQuery, reason)
	pricePayload, priceOutcome := o.runAgent(ctx, routeBothSecond, priceQuery, reason)

	payload := map[string]any{
		"agent":        "both",
		"gaming_query": gamingQuery,
		"price_query":  priceQuery,
		"reason":       reason,
		"gaming":       gamingPayload,
		"price":        pricePayload,
	}
	return payload, []Outcome{gamingOutcome, priceOutcome}
}

// runAgent 运行单个子智能体并把结果归档。任何失败都收敛在
// Outcome 里，编排继续推进。
func (o *Orchestrator) runAgent(ctx context.Context, agentID, query, reason string) (map[string]any, Outcome) {
	outcome := Outcome{Agent: agentID, Query: query, Reason: reason}
	payload := map[string]any{
		"agent":  agentID,
		"query":  query,
		"reason": reason,
	}

	ag, ok := o.agents[agentID]
	if !ok {
		outcome.Err = "agent not assembled: " + agentID
		payload["error"] = outcome.Err
		return payload, outcome
	}

	response, err := ag.Run(ctx, query)
	if err != nil {
		logger.Named("orchestrator").Warn("子智能体执行失败",
			"agent", agentID,
			"code", string(xerrors.CodeOf(err)),
		)
		outcome.Err = err.Error()
		payload["error"] = outcome.Err
		return payload, outcome
	}

	outcome.Success = true
	outcome.Response = response
	payload["response"] = response
	return payload, outcome
}

func (o *Orchestrator) decide(ctx context.Context, conv *llm.Conversation) (*llm.Decision, error) {
	callCtx, cancel := o.callContext(ctx)
	defer cancel()
	return o.llmClient.Decide(callCtx, conv, routingDefinitions(o.routes))
}

func (o *Orchestrator) synthesize(ctx context.Context, conv *llm.Conversation) (string, error) {
	callCtx, cancel := o.callContext(ctx)
	defer cancel()
	return o.llmClient.Synthesize(callCtx, conv)
}

func (o *Orchestrator) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.llmTimeout > 0 {
		return context.WithTimeout(ctx, o.llmTimeout)
	}
	return ctx, func() {}
}

// systemPrompt 在静态路由提示后附加知识库命中的条目。
func (o *Orchestrator) systemPrompt(query string) string {
	prompt := routingSystemPrompt
	if o.hints == nil {
		return prompt
	}
	snippets := o.hints.Query(query)
	if len(snippets) == 0 {
		return prompt
	}
	var builder strings.Builder
	builder.WriteString(prompt)
	builder.WriteString("\n\n**Additional routing hints:**\n")
	for _, snippet := range snippets {
		builder.WriteString("- ")
		if snippet.Title != "" {
			builder.WriteString(snippet.Title)
			builder.WriteString(": ")
		}
		builder.WriteString(snippet.Content)
		builder.WriteString("\n")
	}
	return builder.String()
}

func (o *Orchestrator) agentForRoute(op string) (string, bool) {
	for _, r := range o.routes {
		if r.op == op {
			return r.agentID, true
		}
	}
	return "", false
}

func agentUsed(outcomes []Outcome) string {
	switch len(outcomes) {
	case 0:
		return AgentUsedDirect
	case 1:
		return outcomes[0].Agent
	default:
		return AgentUsedMultiple
	}
}

func firstReason(outcomes []Outcome) string {
	for _, outcome := range outcomes {
		if outcome.Reason != "" {
			return outcome.Reason
		}
	}
	return ""
}

// stringArg 原样取出字符串参数。子查询文本不做任何修剪，
// 交给智能体时与决策服务给出的内容逐字一致。
func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func marshalPayload(payload map[string]any) string {
	raw, err := json.Marshal(payload)
	if err != nil {
		return `{"error":"failed to encode routing result"}`
	}
	return string(raw)
}
