package task

import (
	"context"

	xerrors "github.com/nxgdiet/agentcluster/internal/errors"
)

// Store 抽象了任务状态的持久化接口。
type Store interface {
	// Create 保存新任务，ID 冲突时返回 ErrTaskConflict。
	Create(ctx context.Context, task *Task) error
	// Get 返回指定任务，不存在时返回 ErrTaskNotFound。
	Get(ctx context.Context, id string) (*Task, error)
	// Claim 以原子方式将任务置为运行中并累加尝试次数。
	// 已成功的任务返回 ErrTaskCompleted，正在运行的返回 ErrTaskConflict，
	// 重试耗尽的返回 ErrTaskExhausted。
	Claim(ctx context.Context, id string) (*Task, error)
	// MarkSucceeded 记录最终结果并清除错误信息。
	MarkSucceeded(ctx context.Context, id string, result ExecutionResult) error
	// MarkFailed 记录失败原因；terminal 为 true 表示不再重试。
	MarkFailed(ctx context.Context, id string, code xerrors.Code, lastError string, terminal bool) error
	// List 按过滤与排序条件返回任务。
	List(ctx context.Context, opts ListOptions) ([]*Task, error)
	// Stats 返回符合过滤条件的聚合统计。
	Stats(ctx context.Context, opts ListOptions) (TaskStats, error)
	// Close 释放底层资源。
	Close() error
}
