package tool

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func newTestRegistry(t *testing.T, handler Handler) *Registry {
	t.Helper()
	registry := NewRegistry()
	registry.MustRegister(Definition{
		Name:        "collection_metrics",
		Description: "查询集合指标",
		Params: []Param{
			{Name: "contract_address", Type: "string", Required: true},
			{Name: "time_range", Type: "string", Default: "24h"},
		},
	}, handler)
	return registry
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	registry := newTestRegistry(t, func(context.Context, map[string]any) (any, error) {
		return nil, nil
	})
	err := registry.Register(Definition{Name: "collection_metrics"}, func(context.Context, map[string]any) (any, error) {
		return nil, nil
	})
	if err == nil {
		t.Fatal("expected duplicate registration error")
	}
}

func TestDispatcherMergesDefaults(t *testing.T) {
	var got map[string]any
	registry := newTestRegistry(t, func(_ context.Context, args map[string]any) (any, error) {
		got = args
		return map[string]any{"volume": 12.5}, nil
	})
	dispatcher := NewDispatcher(registry)

	result := dispatcher.Execute(context.Background(), "call-1", "collection_metrics", map[string]any{
		"contract_address": "0xabc",
	})
	if !result.OK() {
		t.Fatalf("unexpected failure: %+v", result.Failure)
	}
	if got["time_range"] != "24h" {
		t.Fatalf("expected default time_range, got %v", got["time_range"])
	}
	if got["contract_address"] != "0xabc" {
		t.Fatalf("expected contract_address, got %v", got["contract_address"])
	}
	if !strings.Contains(result.Content(), "volume") {
		t.Fatalf("unexpected content: %s", result.Content())
	}
}

func TestDispatcherArgumentOverridesDefault(t *testing.T) {
	var got map[string]any
	registry := newTestRegistry(t, func(_ context.Context, args map[string]any) (any, error) {
		got = args
		return nil, nil
	})
	dispatcher := NewDispatcher(registry)

	dispatcher.Execute(context.Background(), "call-1", "collection_metrics", map[string]any{
		"contract_address": "0xabc",
		"time_range":       "7d",
	})
	if got["time_range"] != "7d" {
		t.Fatalf("expected override to win, got %v", got["time_range"])
	}
}

func TestDispatcherRepeatedExecuteIsStable(t *testing.T) {
	registry := newTestRegistry(t, func(_ context.Context, args map[string]any) (any, error) {
		return map[string]any{"address": args["contract_address"], "volume": 12.5}, nil
	})
	dispatcher := NewDispatcher(registry)
	args := map[string]any{"contract_address": "0xabc"}

	first := dispatcher.Execute(context.Background(), "call-1", "collection_metrics", args)
	second := dispatcher.Execute(context.Background(), "call-1", "collection_metrics", args)
	if !first.OK() || !second.OK() {
		t.Fatalf("unexpected failure: %+v / %+v", first.Failure, second.Failure)
	}
	if first.Content() != second.Content() {
		t.Fatalf("repeated dispatch produced different payloads: %q vs %q", first.Content(), second.Content())
	}
}

func TestDispatcherUnknownOperation(t *testing.T) {
	dispatcher := NewDispatcher(NewRegistry())

	result := dispatcher.Execute(context.Background(), "call-1", "missing_op", nil)
	if result.OK() {
		t.Fatal("expected failure")
	}
	if result.Failure.Kind != CodeUnknownOperation {
		t.Fatalf("unexpected failure kind: %s", result.Failure.Kind)
	}
}

func TestDispatcherHandlerError(t *testing.T) {
	registry := newTestRegistry(t, func(context.Context, map[string]any) (any, error) {
		return nil, errors.New("连接超时")
	})
	dispatcher := NewDispatcher(registry)

	result := dispatcher.Execute(context.Background(), "call-1", "collection_metrics", map[string]any{
		"contract_address": "0xabc",
	})
	if result.OK() {
		t.Fatal("expected failure")
	}
	if result.Failure.Kind != CodeCollaboratorUnavailable {
		t.Fatalf("unexpected failure kind: %s", result.Failure.Kind)
	}
	if !strings.Contains(result.Content(), "COLLABORATOR_UNAVAILABLE") {
		t.Fatalf("unexpected content: %s", result.Content())
	}
}

func TestDispatcherRecoversFromPanic(t *testing.T) {
	registry := newTestRegistry(t, func(context.Context, map[string]any) (any, error) {
		panic("boom")
	})
	dispatcher := NewDispatcher(registry)

	result := dispatcher.Execute(context.Background(), "call-1", "collection_metrics", nil)
	if result.OK() {
		t.Fatal("expected failure")
	}
	if !strings.Contains(result.Failure.Message, "boom") {
		t.Fatalf("unexpected message: %s", result.Failure.Message)
	}
}

func TestDefinitionSchema(t *testing.T) {
	def := Definition{
		Name: "wallet_profile",
		Params: []Param{
			{Name: "wallet", Type: "string", Required: true, Description: "钱包地址"},
			{Name: "blockchain", Type: "string", Default: "ethereum"},
		},
	}
	schema := def.Schema()
	props, ok := schema["properties"].(map[string]any)
	if !ok {
		t.Fatalf("missing properties: %+v", schema)
	}
	if _, ok := props["wallet"]; !ok {
		t.Fatal("missing wallet property")
	}
	required, ok := schema["required"].([]string)
	if !ok || len(required) != 1 || required[0] != "wallet" {
		t.Fatalf("unexpected required list: %+v", schema["required"])
	}
}
