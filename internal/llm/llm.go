package llm

import (
	"context"

	xerrors "github.com/nxgdiet/agentcluster/internal/errors"
	"github.com/nxgdiet/agentcluster/internal/tool"
)

// Role 标识对话轮次的发言方。
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Turn 是对话中的一个轮次。助手轮可能携带工具调用请求，
// 工具轮通过 ToolCallID 回指它响应的那次请求。
type Turn struct {
	Role       Role
	Content    string
	ToolCalls  []ToolCallRequest
	ToolCallID string
	Name       string
}

// ToolCallRequest 是决策服务要求执行的一次具体调用。
type ToolCallRequest struct {
	ID        string
	Name      string
	Arguments map[string]any
}

// Decision 是一次决策的结构化结果：直接回答或一组待执行的调用，二选一。
type Decision struct {
	Text  string
	Calls []ToolCallRequest
}

// Direct 判断决策是否为直接回答。
func (d *Decision) Direct() bool {
	return len(d.Calls) == 0
}

// Conversation 维护一次执行内的对话状态。轮次只增不改，
// 跨请求不保留任何状态。
type Conversation struct {
	turns []Turn
}

// NewConversation 以系统轮和用户轮初始化对话。
func NewConversation(systemPrompt, userQuery string) *Conversation {
	return &Conversation{turns: []Turn{
		{Role: RoleSystem, Content: systemPrompt},
		{Role: RoleUser, Content: userQuery},
	}}
}

// Append 追加一个轮次。
func (c *Conversation) Append(turn Turn) {
	c.turns = append(c.turns, turn)
}

// Turns 返回全部轮次的副本。
func (c *Conversation) Turns() []Turn {
	turns := make([]Turn, len(c.turns))
	copy(turns, c.turns)
	return turns
}

// Len 返回当前轮次数。
func (c *Conversation) Len() int {
	return len(c.turns)
}

// Client 定义决策服务的统一接口。
// Decide 暴露可选操作并返回结构化决策；Synthesize 不暴露任何操作，
// 只要求基于现有对话给出最终的自然语言回答。
type Client interface {
	Decide(ctx context.Context, conv *Conversation, operations []tool.Definition) (*Decision, error)
	Synthesize(ctx context.Context, conv *Conversation) (string, error)
}

// CodeDecisionFailure 标识决策服务调用失败。该失败对当前执行是致命的。
const CodeDecisionFailure xerrors.Code = "DECISION_SERVICE_FAILURE"

func init() {
	xerrors.Register(CodeDecisionFailure, xerrors.Attributes{
		Message:   "decision service call failed",
		Severity:  xerrors.SeverityWarning,
		Retryable: true,
		Alert:     true,
	})
}
