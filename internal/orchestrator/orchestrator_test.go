package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nxgdiet/agentcluster/internal/agent"
	"github.com/nxgdiet/agentcluster/internal/knowledge"
	"github.com/nxgdiet/agentcluster/internal/llm"
	"github.com/nxgdiet/agentcluster/internal/tool"
)

// routerLLM 扮演编排器的决策服务，记录它收到的对话与操作列表。
type routerLLM struct {
	decision   *llm.Decision
	decideErr  error
	synthesis  string
	seenOps    []tool.Definition
	seenSystem string
}

func (r *routerLLM) Decide(_ context.Context, conv *llm.Conversation, ops []tool.Definition) (*llm.Decision, error) {
	r.seenOps = ops
	r.seenSystem = conv.Turns()[0].Content
	if r.decideErr != nil {
		return nil, r.decideErr
	}
	return r.decision, nil
}

func (r *routerLLM) Synthesize(_ context.Context, conv *llm.Conversation) (string, error) {
	var parts []string
	for _, turn := range conv.Turns() {
		if turn.Role == llm.RoleTool {
			parts = append(parts, turn.Content)
		}
	}
	if r.synthesis != "" {
		return r.synthesis, nil
	}
	return strings.Join(parts, "\n"), nil
}

// echoLLM 让子智能体直接回答，便于观察执行顺序。
// 配置 trace 后，每次决策的开始与结束都会被记录下来。
type echoLLM struct {
	prefix string
	err    error
	trace  *[]string
}

func (e *echoLLM) Decide(_ context.Context, conv *llm.Conversation, _ []tool.Definition) (*llm.Decision, error) {
	if e.trace != nil {
		*e.trace = append(*e.trace, e.prefix+"start")
		defer func() { *e.trace = append(*e.trace, e.prefix+"done") }()
	}
	if e.err != nil {
		return nil, e.err
	}
	query := conv.Turns()[1].Content
	return &llm.Decision{Text: e.prefix + query}, nil
}

func (e *echoLLM) Synthesize(context.Context, *llm.Conversation) (string, error) {
	return "", errors.New("unused")
}

func newTestAgents(gamingErr error) []*agent.Agent {
	gaming := agent.New(agent.Config{ID: "gaming", Name: "链游分析"}, &echoLLM{prefix: "gaming:", err: gamingErr})
	price := agent.New(agent.Config{ID: "price_estimation", Name: "价格评估"}, &echoLLM{prefix: "price:"})
	wallet := agent.New(agent.Config{ID: "wallet", Name: "钱包分析"}, &echoLLM{prefix: "wallet:"})
	return []*agent.Agent{gaming, price, wallet}
}

func TestChatDirectAnswer(t *testing.T) {
	router := &routerLLM{decision: &llm.Decision{Text: "直接回答"}}
	orch := New(router, newTestAgents(nil))

	result, err := orch.Chat(context.Background(), "你好")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AgentUsed != AgentUsedDirect {
		t.Fatalf("unexpected agent_used: %s", result.AgentUsed)
	}
	if result.Response != "直接回答" {
		t.Fatalf("unexpected response: %s", result.Response)
	}
	if len(result.Outcomes) != 0 {
		t.Fatalf("direct answers must not produce outcomes: %+v", result.Outcomes)
	}
}

func TestChatRoutesSingleAgent(t *testing.T) {
	router := &routerLLM{
		decision: &llm.Decision{Calls: []llm.ToolCallRequest{{
			ID:   "call-1",
			Name: "route_to_wallet_agent",
			Arguments: map[string]any{
				"query":  "分析这个钱包",
				"reason": "钱包画像问题",
			},
		}}},
		synthesis: "钱包分析完成",
	}
	orch := New(router, newTestAgents(nil))

	result, err := orch.Chat(context.Background(), "分析这个钱包")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AgentUsed != "wallet" {
		t.Fatalf("unexpected agent_used: %s", result.AgentUsed)
	}
	if result.Reason != "钱包画像问题" {
		t.Fatalf("unexpected reason: %s", result.Reason)
	}
	if len(result.Outcomes) != 1 || !result.Outcomes[0].Success {
		t.Fatalf("unexpected outcomes: %+v", result.Outcomes)
	}
	if result.Outcomes[0].Response != "wallet:分析这个钱包" {
		t.Fatalf("unexpected outcome response: %s", result.Outcomes[0].Response)
	}
}

func TestChatRoutesBothAgentsInOrder(t *testing.T) {
	router := &routerLLM{
		decision: &llm.Decision{Calls: []llm.ToolCallRequest{{
			ID:   "call-1",
			Name: "route_to_both_agents",
			Arguments: map[string]any{
				"gaming_query": "游戏资产表现",
				"price_query":  "地板价多少",
				"reason":       "同时涉及游戏与价格",
			},
		}}},
		synthesis: "综合回答",
	}
	orch := New(router, newTestAgents(nil))

	result, err := orch.Chat(context.Background(), "游戏资产表现和地板价")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AgentUsed != AgentUsedMultiple {
		t.Fatalf("unexpected agent_used: %s", result.AgentUsed)
	}
	if len(result.Outcomes) != 2 {
		t.Fatalf("expected two outcomes, got %d", len(result.Outcomes))
	}
	if result.Outcomes[0].Agent != "gaming" || result.Outcomes[1].Agent != "price_estimation" {
		t.Fatalf("outcomes out of order: %+v", result.Outcomes)
	}
	if result.Outcomes[0].Response != "gaming:游戏资产表现" {
		t.Fatalf("unexpected gaming response: %s", result.Outcomes[0].Response)
	}
	if result.Outcomes[1].Response != "price:地板价多少" {
		t.Fatalf("unexpected price response: %s", result.Outcomes[1].Response)
	}
}

func TestChatBothAgentsRunStrictlySequentially(t *testing.T) {
	var trace []string
	gaming := agent.New(agent.Config{ID: "gaming", Name: "链游分析"}, &echoLLM{prefix: "gaming:", trace: &trace})
	price := agent.New(agent.Config{ID: "price_estimation", Name: "价格评估"}, &echoLLM{prefix: "price:", trace: &trace})
	router := &routerLLM{
		decision: &llm.Decision{Calls: []llm.ToolCallRequest{{
			ID:   "call-1",
			Name: "route_to_both_agents",
			Arguments: map[string]any{
				"gaming_query": "游戏资产表现",
				"price_query":  "地板价多少",
			},
		}}},
		synthesis: "综合回答",
	}
	orch := New(router, []*agent.Agent{gaming, price})

	if _, err := orch.Chat(context.Background(), "游戏资产表现和地板价"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"gaming:start", "gaming:done", "price:start", "price:done"}
	if len(trace) != len(want) {
		t.Fatalf("unexpected trace: %v", trace)
	}
	for i, event := range want {
		if trace[i] != event {
			t.Fatalf("execution interleaved at %d: %v", i, trace)
		}
	}
}

func TestChatPreservesSubQueryVerbatim(t *testing.T) {
	const padded = "  分析这个钱包  "
	router := &routerLLM{
		decision: &llm.Decision{Calls: []llm.ToolCallRequest{{
			ID:   "call-1",
			Name: "route_to_wallet_agent",
			Arguments: map[string]any{
				"query":  padded,
				"reason": "钱包画像问题",
			},
		}}},
		synthesis: "钱包分析完成",
	}
	orch := New(router, newTestAgents(nil))

	result, err := orch.Chat(context.Background(), "帮我看看这个钱包")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Outcomes) != 1 {
		t.Fatalf("expected one outcome, got %d", len(result.Outcomes))
	}
	if result.Outcomes[0].Query != padded {
		t.Fatalf("sub-query mutated: %q", result.Outcomes[0].Query)
	}
	if result.Outcomes[0].Response != "wallet:"+padded {
		t.Fatalf("agent did not receive the verbatim sub-query: %q", result.Outcomes[0].Response)
	}
}

func TestChatAgentFailureDoesNotAbort(t *testing.T) {
	router := &routerLLM{
		decision: &llm.Decision{Calls: []llm.ToolCallRequest{{
			ID:   "call-1",
			Name: "route_to_gaming_agent",
			Arguments: map[string]any{
				"query":  "游戏数据",
				"reason": "链游问题",
			},
		}}},
		synthesis: "部分数据缺失",
	}
	orch := New(router, newTestAgents(errors.New("决策服务失败")))

	result, err := orch.Chat(context.Background(), "游戏数据")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Outcomes) != 1 {
		t.Fatalf("expected one outcome, got %d", len(result.Outcomes))
	}
	if result.Outcomes[0].Success || result.Outcomes[0].Err == "" {
		t.Fatalf("failure not recorded: %+v", result.Outcomes[0])
	}
	if result.AgentUsed != "gaming" {
		t.Fatalf("unexpected agent_used: %s", result.AgentUsed)
	}
}

func TestChatUnknownRouteOperation(t *testing.T) {
	router := &routerLLM{
		decision: &llm.Decision{Calls: []llm.ToolCallRequest{{
			ID:   "call-1",
			Name: "route_to_nowhere",
		}}},
	}
	orch := New(router, newTestAgents(nil))

	result, err := orch.Chat(context.Background(), "测试")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result.Response, "unknown routing operation") {
		t.Fatalf("unexpected response: %s", result.Response)
	}
	if result.AgentUsed != AgentUsedDirect {
		t.Fatalf("unexpected agent_used: %s", result.AgentUsed)
	}
}

func TestChatDecisionFailureIsFatal(t *testing.T) {
	router := &routerLLM{decideErr: errors.New("决策服务不可用")}
	orch := New(router, newTestAgents(nil))

	if _, err := orch.Chat(context.Background(), "测试"); err == nil {
		t.Fatal("expected error")
	}
}

func TestChatEmptyQuery(t *testing.T) {
	orch := New(&routerLLM{}, newTestAgents(nil))

	if _, err := orch.Chat(context.Background(), "   "); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestRoutingDefinitionsExposed(t *testing.T) {
	router := &routerLLM{decision: &llm.Decision{Text: "ok"}}
	orch := New(router, newTestAgents(nil))

	if _, err := orch.Chat(context.Background(), "测试"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names := make(map[string]bool, len(router.seenOps))
	for _, def := range router.seenOps {
		names[def.Name] = true
	}
	for _, want := range []string{"route_to_gaming_agent", "route_to_price_agent", "route_to_wallet_agent", "route_to_both_agents"} {
		if !names[want] {
			t.Fatalf("missing routing operation %q in %v", want, names)
		}
	}
}

func TestSystemPromptIncludesKnowledgeHints(t *testing.T) {
	provider := knowledge.NewStaticProvider([]knowledge.Snippet{
		{Title: "钱包画像", Content: "钱包问题路由到 wallet 智能体。", Keywords: []string{"钱包"}},
	}, 3)
	router := &routerLLM{decision: &llm.Decision{Text: "ok"}}
	orch := New(router, newTestAgents(nil), WithKnowledgeProvider(provider))

	if _, err := orch.Chat(context.Background(), "帮我看看这个钱包"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(router.seenSystem, "钱包问题路由到 wallet 智能体。") {
		t.Fatalf("hint missing from system prompt: %s", router.seenSystem)
	}
}
