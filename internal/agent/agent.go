package agent

import (
	"context"
	"strings"
	"time"

	xerrors "github.com/nxgdiet/agentcluster/internal/errors"
	"github.com/nxgdiet/agentcluster/internal/llm"
	"github.com/nxgdiet/agentcluster/internal/tool"
	"github.com/nxgdiet/agentcluster/pkg/logger"
)

// Config 描述一个专家智能体的静态装配信息。
type Config struct {
	ID           string
	Name         string
	Description  string
	Keywords     []string
	SystemPrompt string
	Registry     *tool.Registry
}

// Agent 是一个专家智能体：一次 决策 → 顺序派发 → 综合 的执行循环。
// 智能体不跨请求保留任何状态，每次 Run 都从全新的对话开始。
type Agent struct {
	id           string
	name         string
	description  string
	keywords     []string
	systemPrompt string
	registry     *tool.Registry
	dispatcher   *tool.Dispatcher
	llmClient    llm.Client
	llmTimeout   time.Duration
}

// Option 定义可选的智能体配置。
type Option func(*Agent)

// WithLLMTimeout 设置单次决策服务调用的超时时间。
func WithLLMTimeout(timeout time.Duration) Option {
	return func(a *Agent) {
		if timeout <= 0 {
			a.llmTimeout = 0
			return
		}
		a.llmTimeout = timeout
	}
}

// New 按配置装配一个智能体。
func New(cfg Config, llmClient llm.Client, opts ...Option) *Agent {
	registry := cfg.Registry
	if registry == nil {
		registry = tool.NewRegistry()
	}
	ag := &Agent{
		id:           cfg.ID,
		name:         cfg.Name,
		description:  cfg.Description,
		keywords:     cfg.Keywords,
		systemPrompt: cfg.SystemPrompt,
		registry:     registry,
		dispatcher:   tool.NewDispatcher(registry),
		llmClient:    llmClient,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(ag)
		}
	}
	return ag
}

// ID 返回智能体的稳定标识。
func (a *Agent) ID() string { return a.id }

// Name 返回展示名称。
func (a *Agent) Name() string { return a.name }

// Description 返回一句话描述。
func (a *Agent) Description() string { return a.description }

// Keywords 返回路由提示关键词。
func (a *Agent) Keywords() []string {
	keywords := make([]string, len(a.keywords))
	copy(keywords, a.keywords)
	return keywords
}

// Operations 返回该智能体可执行的全部操作定义。
func (a *Agent) Operations() []tool.Definition {
	return a.registry.Definitions()
}

// Run 处理一条查询：先让决策服务选择操作，顺序执行全部调用，
// 再交由决策服务综合出最终回答。单个调用失败不会中断批次，
// 失败信息会如实进入综合阶段；决策服务本身的失败对本次执行致命。
func (a *Agent) Run(ctx context.Context, query string) (string, error) {
	if a.llmClient == nil {
		return "", xerrors.New(xerrors.CodeInitializationFailure, "未配置决策服务客户端")
	}
	if strings.TrimSpace(query) == "" {
		return "", xerrors.New(xerrors.CodeInvalidArgument, "查询内容不能为空")
	}

	log := logger.Named("agent")
	conv := llm.NewConversation(a.systemPrompt, query)

	decision, err := a.decide(ctx, conv)
	if err != nil {
		return "", err
	}

	if decision.Direct() {
		log.Debug("决策为直接回答", "agent", a.id)
		return decision.Text, nil
	}

	conv.Append(llm.Turn{Role: llm.RoleAssistant, ToolCalls: decision.Calls})
	for _, call := range decision.Calls {
		result := a.dispatcher.Execute(ctx, call.ID, call.Name, call.Arguments)
		if !result.OK() {
			log.Warn("操作执行失败",
				"agent", a.id,
				"operation", call.Name,
				"kind", string(result.Failure.Kind),
			)
		}
		conv.Append(llm.Turn{
			Role:       llm.RoleTool,
			ToolCallID: call.ID,
			Name:       call.Name,
			Content:    result.Content(),
		})
	}

	return a.synthesize(ctx, conv)
}

func (a *Agent) decide(ctx context.Context, conv *llm.Conversation) (*llm.Decision, error) {
	callCtx, cancel := a.callContext(ctx)
	defer cancel()
	return a.llmClient.Decide(callCtx, conv, a.registry.Definitions())
}

func (a *Agent) synthesize(ctx context.Context, conv *llm.Conversation) (string, error) {
	callCtx, cancel := a.callContext(ctx)
	defer cancel()
	return a.llmClient.Synthesize(callCtx, conv)
}

func (a *Agent) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.llmTimeout > 0 {
		return context.WithTimeout(ctx, a.llmTimeout)
	}
	return ctx, func() {}
}
