package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	gopenai "github.com/sashabaranov/go-openai"

	xerrors "github.com/nxgdiet/agentcluster/internal/errors"
	"github.com/nxgdiet/agentcluster/internal/llm"
	"github.com/nxgdiet/agentcluster/internal/tool"
)

const (
	defaultModelName = "gpt-4o-mini"
	defaultTimeout   = 60 * time.Second
)

// Config 描述调用 OpenAI 兼容 Chat Completions 接口所需的信息。
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client 基于 go-openai SDK 实现决策服务接口。
type Client struct {
	api   *gopenai.Client
	model string
}

var _ llm.Client = (*Client)(nil)

// NewClient 根据配置创建 OpenAI 决策客户端。
func NewClient(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("未提供 OpenAI API Key")
	}

	clientCfg := gopenai.DefaultConfig(apiKey)
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		clientCfg.BaseURL = strings.TrimRight(base, "/")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModelName
	}

	return &Client{
		api:   gopenai.NewClientWithConfig(clientCfg),
		model: model,
	}, nil
}

// Decide 暴露可选操作并取回结构化决策。模型给出工具调用即为派发决策，
// 否则把正文视为直接回答。
func (c *Client) Decide(ctx context.Context, conv *llm.Conversation, operations []tool.Definition) (*llm.Decision, error) {
	req := gopenai.ChatCompletionRequest{
		Model:    c.model,
		Messages: toMessages(conv.Turns()),
	}
	if len(operations) > 0 {
		req.Tools = toTools(operations)
		req.ToolChoice = "auto"
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, xerrors.Wrap(llm.CodeDecisionFailure, err, "调用决策服务失败")
	}
	if len(resp.Choices) == 0 {
		return nil, xerrors.New(llm.CodeDecisionFailure, "决策服务未返回任何候选")
	}

	msg := resp.Choices[0].Message
	if len(msg.ToolCalls) == 0 {
		return &llm.Decision{Text: strings.TrimSpace(msg.Content)}, nil
	}

	calls := make([]llm.ToolCallRequest, 0, len(msg.ToolCalls))
	for _, tc := range msg.ToolCalls {
		args := make(map[string]any)
		if raw := strings.TrimSpace(tc.Function.Arguments); raw != "" {
			if err := json.Unmarshal([]byte(raw), &args); err != nil {
				return nil, xerrors.Wrap(llm.CodeDecisionFailure, err, "解析调用实参失败",
					xerrors.WithMetadata("operation", tc.Function.Name))
			}
		}
		calls = append(calls, llm.ToolCallRequest{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: args,
		})
	}
	return &llm.Decision{Calls: calls}, nil
}

// Synthesize 在不暴露任何操作的前提下请求最终回答。
func (c *Client) Synthesize(ctx context.Context, conv *llm.Conversation) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, gopenai.ChatCompletionRequest{
		Model:    c.model,
		Messages: toMessages(conv.Turns()),
	})
	if err != nil {
		return "", xerrors.Wrap(llm.CodeDecisionFailure, err, "调用决策服务失败")
	}
	if len(resp.Choices) == 0 {
		return "", xerrors.New(llm.CodeDecisionFailure, "决策服务未返回任何候选")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", xerrors.New(llm.CodeDecisionFailure, "综合阶段返回空内容")
	}
	return content, nil
}

func toMessages(turns []llm.Turn) []gopenai.ChatCompletionMessage {
	messages := make([]gopenai.ChatCompletionMessage, 0, len(turns))
	for _, t := range turns {
		msg := gopenai.ChatCompletionMessage{
			Role:    string(t.Role),
			Content: t.Content,
		}
		for _, call := range t.ToolCalls {
			raw, err := json.Marshal(call.Arguments)
			if err != nil {
				raw = []byte("{}")
			}
			msg.ToolCalls = append(msg.ToolCalls, gopenai.ToolCall{
				ID:   call.ID,
				Type: gopenai.ToolTypeFunction,
				Function: gopenai.FunctionCall{
					Name:      call.Name,
					Arguments: string(raw),
				},
			})
		}
		if t.ToolCallID != "" {
			msg.ToolCallID = t.ToolCallID
			msg.Name = t.Name
		}
		messages = append(messages, msg)
	}
	return messages
}

func toTools(defs []tool.Definition) []gopenai.Tool {
	tools := make([]gopenai.Tool, 0, len(defs))
	for _, def := range defs {
		tools = append(tools, gopenai.Tool{
			Type: gopenai.ToolTypeFunction,
			Function: &gopenai.FunctionDefinition{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  def.Schema(),
			},
		})
	}
	return tools
}
