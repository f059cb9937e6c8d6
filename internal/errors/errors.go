// Package errors 定义全系统统一的带码错误类型。每个错误码在注册表里
// 携带默认文案、严重程度、可重试与告警属性，任务处理器据此决定
// 重试与告警行为；单个错误实例可以在构造时覆盖这些默认值。
package errors

import (
	stdErrors "errors"
	"fmt"
	"sync"
)

// Code 是系统内统一的错误码标识。
type Code string

// Severity 描述错误的严重程度，驱动告警与审计决策。
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Attributes 描述某错误码的默认行为。
type Attributes struct {
	Message   string
	Severity  Severity
	Retryable bool
	Alert     bool
}

// 基础错误码。协议层与业务层的专用错误码由各自包在 init 阶段注册。
const (
	CodeUnknown               Code = "UNKNOWN"
	CodeInvalidArgument       Code = "INVALID_ARGUMENT"
	CodeNotFound              Code = "NOT_FOUND"
	CodeConflict              Code = "CONFLICT"
	CodeInitializationFailure Code = "INITIALIZATION_FAILURE"
	CodeStorageFailure        Code = "STORAGE_FAILURE"
	CodeQueueFailure          Code = "QUEUE_FAILURE"
	CodeTimeout               Code = "TIMEOUT"
)

type codebook struct {
	mu    sync.RWMutex
	attrs map[Code]Attributes
}

var registry = &codebook{attrs: map[Code]Attributes{
	CodeUnknown:               {Message: "unknown error", Severity: SeverityCritical, Alert: true},
	CodeInvalidArgument:       {Message: "invalid argument", Severity: SeverityInfo},
	CodeNotFound:              {Message: "resource not found", Severity: SeverityInfo},
	CodeConflict:              {Message: "resource conflict", Severity: SeverityWarning},
	CodeInitializationFailure: {Message: "service not initialized", Severity: SeverityWarning, Retryable: true, Alert: true},
	CodeStorageFailure:        {Message: "storage failure", Severity: SeverityCritical, Retryable: true, Alert: true},
	CodeQueueFailure:          {Message: "queue failure", Severity: SeverityCritical, Retryable: true, Alert: true},
	CodeTimeout:               {Message: "operation timed out", Severity: SeverityWarning, Retryable: true, Alert: true},
}}

// Register 供业务包在初始化阶段登记自己的错误码及默认属性。
// 重复登记以最后一次为准。
func Register(code Code, attr Attributes) {
	registry.mu.Lock()
	registry.attrs[code] = attr
	registry.mu.Unlock()
}

// AttributesOf 返回错误码的注册属性，未注册时回退到 UNKNOWN。
func AttributesOf(code Code) Attributes {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	if attr, ok := registry.attrs[code]; ok {
		return attr
	}
	return registry.attrs[CodeUnknown]
}

// overrides 保存单个错误实例对注册属性的覆盖。nil 表示沿用默认。
type overrides struct {
	retryable *bool
	alert     *bool
	severity  *Severity
}

// Error 是系统内统一的错误类型。
type Error struct {
	code     Code
	message  string
	cause    error
	metadata map[string]string
	override overrides
}

// Option 在构造错误时覆盖错误码的默认属性。
type Option func(*Error)

// WithMetadata 附加键值形式的上下文信息。
func WithMetadata(key, value string) Option {
	return func(e *Error) {
		if e.metadata == nil {
			e.metadata = make(map[string]string)
		}
		e.metadata[key] = value
	}
}

// WithRetryable 覆盖错误码默认的重试属性。
func WithRetryable(retryable bool) Option {
	return func(e *Error) { e.override.retryable = &retryable }
}

// WithAlert 覆盖错误码默认的告警属性。
func WithAlert(alert bool) Option {
	return func(e *Error) { e.override.alert = &alert }
}

// WithSeverity 覆盖错误码默认的严重程度。
func WithSeverity(sev Severity) Option {
	return func(e *Error) { e.override.severity = &sev }
}

// New 创建一个带错误码的错误。message 为空时取错误码的默认文案。
func New(code Code, message string, opts ...Option) *Error {
	if message == "" {
		message = AttributesOf(code).Message
	}
	e := &Error{code: code, message: message}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Wrap 在底层错误之上包裹统一错误类型。
func Wrap(code Code, cause error, message string, opts ...Option) *Error {
	e := New(code, message, opts...)
	e.cause = cause
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is 按错误码比较，支持 errors.Is。
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return false
	}
	coded, ok := target.(*Error)
	return ok && e.code == coded.code
}

// Code 返回错误码。
func (e *Error) Code() Code {
	if e == nil {
		return CodeUnknown
	}
	return e.code
}

// Message 返回不含错误码前缀的文案。
func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

// Metadata 返回附加信息的副本。
func (e *Error) Metadata() map[string]string {
	if e == nil || len(e.metadata) == 0 {
		return nil
	}
	clone := make(map[string]string, len(e.metadata))
	for k, v := range e.metadata {
		clone[k] = v
	}
	return clone
}

// Retryable 判断该错误是否值得重试。
func (e *Error) Retryable() bool {
	if e == nil {
		return false
	}
	if e.override.retryable != nil {
		return *e.override.retryable
	}
	return AttributesOf(e.code).Retryable
}

// ShouldAlert 判断该错误是否需要触发告警。
func (e *Error) ShouldAlert() bool {
	if e == nil {
		return false
	}
	if e.override.alert != nil {
		return *e.override.alert
	}
	return AttributesOf(e.code).Alert
}

// Severity 返回错误的严重程度。
func (e *Error) Severity() Severity {
	if e == nil {
		return SeverityInfo
	}
	if e.override.severity != nil {
		return *e.override.severity
	}
	return AttributesOf(e.code).Severity
}

// From 尝试从任意 error 中提取统一错误类型。
func From(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	var coded *Error
	if stdErrors.As(err, &coded) {
		return coded, true
	}
	return nil, false
}

// CodeOf 返回任意 error 的错误码，非统一错误时为 UNKNOWN。
func CodeOf(err error) Code {
	if coded, ok := From(err); ok {
		return coded.Code()
	}
	return CodeUnknown
}

// RetryableError 判断任意 error 是否可重试。
func RetryableError(err error) bool {
	if coded, ok := From(err); ok {
		return coded.Retryable()
	}
	return false
}

// ShouldAlert 判断任意 error 是否需要触发告警。
func ShouldAlert(err error) bool {
	if coded, ok := From(err); ok {
		return coded.ShouldAlert()
	}
	return false
}

// SeverityOf 返回任意 error 的严重程度。
func SeverityOf(err error) Severity {
	if coded, ok := From(err); ok {
		return coded.Severity()
	}
	return AttributesOf(CodeUnknown).Severity
}
