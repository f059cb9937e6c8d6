package task

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	xerrors "github.com/nxgdiet/agentcluster/internal/errors"
	"github.com/nxgdiet/agentcluster/internal/orchestrator"
)

type fakeExecutor struct {
	processed atomic.Int32
	latency   time.Duration
	err       error
}

func (f *fakeExecutor) Chat(ctx context.Context, query string) (*orchestrator.ChatResult, error) {
	if f.latency > 0 {
		select {
		case <-time.After(f.latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.processed.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return &orchestrator.ChatResult{Response: "ok", AgentUsed: "gaming", Query: query}, nil
}

func TestProcessorHandlesConcurrentTasks(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store := NewMemoryStore()
	queue := NewMemoryQueue(1024)
	executor := &fakeExecutor{latency: 10 * time.Millisecond}

	service := NewService(store, queue, 3)
	processor := NewProcessor(executor, store, queue, queue, WithWorkerCount(8))

	go func() {
		if err := processor.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("processor exited: %v", err)
		}
	}()

	total := 200
	for i := 0; i < total; i++ {
		query := fmt.Sprintf("query-%d", i)
		if _, err := service.Submit(ctx, SubmitRequest{Query: query}); err != nil {
			t.Fatalf("提交任务失败: %v", err)
		}
	}

	deadline := time.After(5 * time.Second)
	for {
		if int(executor.processed.Load()) >= total {
			cancel()
			break
		}
		select {
		case <-deadline:
			t.Fatalf("任务未能及时处理，已完成 %d", executor.processed.Load())
		case <-time.After(50 * time.Millisecond):
		}
	}
}

func TestProcessorRecordsSuccess(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	queue := NewMemoryQueue(8)
	executor := &fakeExecutor{}
	processor := NewProcessor(executor, store, queue, queue)

	if err := store.Create(ctx, &Task{ID: "t1", Query: "bored ape price", Status: StatusPending, MaxRetries: 3}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := processor.handle(ctx, "t1"); err != nil {
		t.Fatalf("handle: %v", err)
	}

	got, err := store.Get(ctx, "t1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusSucceeded {
		t.Fatalf("expected succeeded, got %s", got.Status)
	}
	if got.Result == nil || got.Result.Response != "ok" || got.Result.AgentUsed != "gaming" {
		t.Fatalf("unexpected result: %+v", got.Result)
	}
}

func TestProcessorRetriesRetryableFailure(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	queue := NewMemoryQueue(8)
	executor := &fakeExecutor{err: xerrors.New(CodeTaskProcessing, "暂时不可用", xerrors.WithRetryable(true))}
	processor := NewProcessor(executor, store, queue, queue)

	if err := store.Create(ctx, &Task{ID: "t1", Query: "q", Status: StatusPending, MaxRetries: 3}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := processor.handle(ctx, "t1"); err != nil {
		t.Fatalf("handle: %v", err)
	}

	got, err := store.Get(ctx, "t1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusFailed {
		t.Fatalf("expected failed, got %s", got.Status)
	}
	if got.ErrorCode != string(CodeTaskProcessing) {
		t.Fatalf("unexpected error code: %s", got.ErrorCode)
	}

	// 可重试失败会被重新入队。
	select {
	case id := <-queue.ch:
		if id != "t1" {
			t.Fatalf("unexpected requeued id: %s", id)
		}
	default:
		t.Fatal("expected task to be requeued")
	}
}

type fallbackRecovery struct{}

func (fallbackRecovery) Recover(_ context.Context, task *Task, _ error) (*ExecutionResult, error) {
	return &ExecutionResult{Response: "fallback for " + task.Query, AgentUsed: "direct"}, nil
}

func TestProcessorDegradesNonRetryableFailure(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	queue := NewMemoryQueue(8)
	executor := &fakeExecutor{err: xerrors.New(xerrors.CodeInvalidArgument, "坏请求")}
	processor := NewProcessor(executor, store, queue, queue, WithRecoveryHandler(fallbackRecovery{}))

	if err := store.Create(ctx, &Task{ID: "t1", Query: "q", Status: StatusPending, MaxRetries: 3}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := processor.handle(ctx, "t1"); err != nil {
		t.Fatalf("handle: %v", err)
	}

	got, err := store.Get(ctx, "t1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusSucceeded {
		t.Fatalf("expected degraded success, got %s", got.Status)
	}
	if got.Result == nil || got.Result.Response != "fallback for q" {
		t.Fatalf("unexpected fallback result: %+v", got.Result)
	}
}
