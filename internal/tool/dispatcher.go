package tool

import (
	"context"
	"encoding/json"
	"fmt"

	xerrors "github.com/nxgdiet/agentcluster/internal/errors"
	"github.com/nxgdiet/agentcluster/internal/observability/metrics"
	"github.com/nxgdiet/agentcluster/pkg/logger"
)

// Failure 描述一次调用失败的种类与原因。
type Failure struct {
	Kind    xerrors.Code `json:"kind"`
	Message string       `json:"message"`
}

// Result 是一次工具调用的结果：要么 Data，要么 Failure，二者互斥。
type Result struct {
	CallID  string   `json:"call_id,omitempty"`
	Name    string   `json:"name"`
	Data    any      `json:"data,omitempty"`
	Failure *Failure `json:"failure,omitempty"`
}

// OK 判断调用是否成功。
func (r Result) OK() bool {
	return r.Failure == nil
}

// Content 把结果渲染成可回写对话的文本。失败同样以结构化形式呈现，
// 让决策服务在综合阶段能够如实说明缺失的数据。
func (r Result) Content() string {
	if r.Failure != nil {
		raw, err := json.Marshal(map[string]string{
			"error":   string(r.Failure.Kind),
			"message": r.Failure.Message,
		})
		if err != nil {
			return fmt.Sprintf(`{"error":%q}`, r.Failure.Kind)
		}
		return string(raw)
	}
	raw, err := json.Marshal(r.Data)
	if err != nil {
		return fmt.Sprintf("%v", r.Data)
	}
	return string(raw)
}

// Dispatcher 把决策服务产出的调用请求落实到注册表中的处理函数。
type Dispatcher struct {
	registry *Registry
}

// NewDispatcher 创建绑定某个注册表的分发器。
func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Execute 执行一次调用。任何失败都收敛成 Result 里的 Failure，
// 不会中断同批次的后续调用。
func (d *Dispatcher) Execute(ctx context.Context, callID, name string, args map[string]any) Result {
	result := Result{CallID: callID, Name: name}

	def, handler, ok := d.registry.Lookup(name)
	if !ok {
		logger.Named("tool").Warn("未注册的操作", "name", name)
		metrics.ObserveToolCall(name, string(CodeUnknownOperation))
		result.Failure = &Failure{
			Kind:    CodeUnknownOperation,
			Message: fmt.Sprintf("operation %q is not registered", name),
		}
		return result
	}

	merged := mergeDefaults(def, args)

	data, err := safeInvoke(ctx, handler, merged)
	if err != nil {
		logger.Named("tool").Warn("工具调用失败", "name", name, "error", err)
		metrics.ObserveToolCall(name, string(CodeCollaboratorUnavailable))
		message := err.Error()
		if coded, ok := xerrors.From(err); ok {
			message = coded.Message()
		}
		result.Failure = &Failure{
			Kind:    CodeCollaboratorUnavailable,
			Message: message,
		}
		return result
	}

	metrics.ObserveToolCall(name, "ok")
	result.Data = data
	return result
}

// mergeDefaults 以定义中的默认值为底，覆盖上决策服务给出的实参。
// 入参 map 不会被修改。
func mergeDefaults(def Definition, args map[string]any) map[string]any {
	merged := make(map[string]any, len(def.Params))
	for _, p := range def.Params {
		if p.Default != nil {
			merged[p.Name] = p.Default
		}
	}
	for k, v := range args {
		merged[k] = v
	}
	return merged
}

// safeInvoke 保证处理函数的任何异常都转换为错误返回。
func safeInvoke(ctx context.Context, handler Handler, args map[string]any) (data any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = xerrors.New(CodeCollaboratorUnavailable, fmt.Sprintf("handler panic: %v", rec))
		}
	}()
	return handler(ctx, args)
}
