package tool

import (
	"context"

	xerrors "github.com/nxgdiet/agentcluster/internal/errors"
)

// Param 描述工具的一个参数。Type 取 JSON Schema 的基础类型名。
type Param struct {
	Name        string
	Type        string
	Description string
	Required    bool
	Default     any
	Enum        []any
}

// Definition 描述一个可被决策服务选择的工具。参数保持声明顺序。
type Definition struct {
	Name        string
	Description string
	Params      []Param
}

// Schema 把参数列表渲染成 JSON Schema 对象，供函数调用协议使用。
func (d Definition) Schema() map[string]any {
	properties := make(map[string]any, len(d.Params))
	var required []string
	for _, p := range d.Params {
		prop := map[string]any{"type": p.Type}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		if len(p.Enum) > 0 {
			prop["enum"] = p.Enum
		}
		if p.Default != nil {
			prop["default"] = p.Default
		}
		properties[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// Handler 执行一次工具调用，返回结构化结果或错误。
type Handler func(ctx context.Context, args map[string]any) (any, error)

const (
	CodeUnknownOperation        xerrors.Code = "UNKNOWN_OPERATION"
	CodeCollaboratorUnavailable xerrors.Code = "COLLABORATOR_UNAVAILABLE"
)

func init() {
	xerrors.Register(CodeUnknownOperation, xerrors.Attributes{
		Message:   "operation not registered",
		Severity:  xerrors.SeverityWarning,
		Retryable: false,
		Alert:     false,
	})
	xerrors.Register(CodeCollaboratorUnavailable, xerrors.Attributes{
		Message:   "data collaborator unavailable",
		Severity:  xerrors.SeverityWarning,
		Retryable: true,
		Alert:     false,
	})
}
