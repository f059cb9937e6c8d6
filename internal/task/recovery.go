package task

import "context"

// RecoveryHandler 定义对话任务失败后的补偿策略，例如在决策服务
// 长时间不可用时返回兜底回答。
type RecoveryHandler interface {
	// Recover 尝试根据失败原因生成降级结果。返回的 ExecutionResult
	// 会作为任务的最终回答写入；返回 nil 则继续按失败流程处理。
	Recover(ctx context.Context, task *Task, cause error) (*ExecutionResult, error)
}
