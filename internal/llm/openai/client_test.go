package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nxgdiet/agentcluster/internal/llm"
	"github.com/nxgdiet/agentcluster/internal/tool"
)

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatal("expected error when api key is missing")
	}
}

func newCompletionServer(t *testing.T, message map[string]any, capture *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			t.Fatalf("missing authorization header")
		}
		if capture != nil {
			defer r.Body.Close()
			if err := json.NewDecoder(r.Body).Decode(capture); err != nil {
				t.Fatalf("decode request: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": message}},
		})
	}))
}

func TestDecideDirectAnswer(t *testing.T) {
	var captured map[string]any
	srv := newCompletionServer(t, map[string]any{
		"role":    "assistant",
		"content": "  你好  ",
	}, &captured)
	defer srv.Close()

	client, err := NewClient(Config{APIKey: "test", BaseURL: srv.URL, Timeout: time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	conv := llm.NewConversation("系统提示", "你好")
	decision, err := client.Decide(context.Background(), conv, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decision.Direct() || decision.Text != "你好" {
		t.Fatalf("unexpected decision: %+v", decision)
	}
	if captured["model"] == "" {
		t.Fatal("model field missing in request")
	}
	if _, ok := captured["tools"]; ok {
		t.Fatal("tools must not be sent without operations")
	}
}

func TestDecideMapsToolCalls(t *testing.T) {
	var captured map[string]any
	srv := newCompletionServer(t, map[string]any{
		"role": "assistant",
		"tool_calls": []map[string]any{{
			"id":   "call-1",
			"type": "function",
			"function": map[string]any{
				"name":      "collection_metrics",
				"arguments": `{"contract_address":"0xabc","time_range":"24h"}`,
			},
		}},
	}, &captured)
	defer srv.Close()

	client, err := NewClient(Config{APIKey: "test", BaseURL: srv.URL, Timeout: time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	conv := llm.NewConversation("系统提示", "集合指标")
	operations := []tool.Definition{{
		Name: "collection_metrics",
		Params: []tool.Param{
			{Name: "contract_address", Type: "string", Required: true},
		},
	}}
	decision, err := client.Decide(context.Background(), conv, operations)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Direct() {
		t.Fatalf("expected tool calls: %+v", decision)
	}
	call := decision.Calls[0]
	if call.ID != "call-1" || call.Name != "collection_metrics" {
		t.Fatalf("unexpected call: %+v", call)
	}
	if call.Arguments["contract_address"] != "0xabc" {
		t.Fatalf("unexpected arguments: %+v", call.Arguments)
	}
	if _, ok := captured["tools"]; !ok {
		t.Fatal("operations were not exposed to the model")
	}
}

func TestDecideMalformedArguments(t *testing.T) {
	srv := newCompletionServer(t, map[string]any{
		"role": "assistant",
		"tool_calls": []map[string]any{{
			"id":   "call-1",
			"type": "function",
			"function": map[string]any{
				"name":      "collection_metrics",
				"arguments": `{not-json`,
			},
		}},
	}, nil)
	defer srv.Close()

	client, err := NewClient(Config{APIKey: "test", BaseURL: srv.URL, Timeout: time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	conv := llm.NewConversation("系统提示", "集合指标")
	if _, err := client.Decide(context.Background(), conv, nil); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestDecideHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadRequest)
	}))
	defer srv.Close()

	client, err := NewClient(Config{APIKey: "test", BaseURL: srv.URL, Timeout: time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	conv := llm.NewConversation("系统提示", "测试")
	if _, err := client.Decide(context.Background(), conv, nil); err == nil {
		t.Fatal("expected error when http status is not success")
	}
}

func TestSynthesize(t *testing.T) {
	srv := newCompletionServer(t, map[string]any{
		"role":    "assistant",
		"content": "综合回答",
	}, nil)
	defer srv.Close()

	client, err := NewClient(Config{APIKey: "test", BaseURL: srv.URL, Timeout: time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	conv := llm.NewConversation("系统提示", "测试")
	conv.Append(llm.Turn{Role: llm.RoleTool, ToolCallID: "call-1", Name: "collection_metrics", Content: `{"volume":1}`})

	reply, err := client.Synthesize(context.Background(), conv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "综合回答" {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestSynthesizeEmptyContent(t *testing.T) {
	srv := newCompletionServer(t, map[string]any{
		"role":    "assistant",
		"content": "   ",
	}, nil)
	defer srv.Close()

	client, err := NewClient(Config{APIKey: "test", BaseURL: srv.URL, Timeout: time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	conv := llm.NewConversation("系统提示", "测试")
	if _, err := client.Synthesize(context.Background(), conv); err == nil {
		t.Fatal("expected error on empty content")
	}
}
