package errors

import (
	stdErrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNewUsesRegisteredMessage(t *testing.T) {
	err := New(CodeNotFound, "")
	if err.Message() != "resource not found" {
		t.Fatalf("unexpected message: %q", err.Message())
	}
	if !strings.Contains(err.Error(), "NOT_FOUND") {
		t.Fatalf("code missing from error string: %s", err.Error())
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("底层失败")
	err := Wrap(CodeStorageFailure, cause, "写入失败")

	if !stdErrors.Is(err, cause) {
		t.Fatal("cause not reachable through Unwrap")
	}
	if CodeOf(err) != CodeStorageFailure {
		t.Fatalf("unexpected code: %s", CodeOf(err))
	}
	if !strings.Contains(err.Error(), "底层失败") {
		t.Fatalf("cause missing from error string: %s", err.Error())
	}
}

func TestIsComparesByCode(t *testing.T) {
	err := fmt.Errorf("外层: %w", New(CodeConflict, "冲突"))
	if !stdErrors.Is(err, New(CodeConflict, "")) {
		t.Fatal("expected code match")
	}
	if stdErrors.Is(err, New(CodeNotFound, "")) {
		t.Fatal("unexpected code match")
	}
}

func TestOptionOverrides(t *testing.T) {
	err := New(CodeInvalidArgument, "参数非法",
		WithRetryable(true),
		WithAlert(true),
		WithSeverity(SeverityCritical),
		WithMetadata("field", "query"),
	)

	if !err.Retryable() || !err.ShouldAlert() {
		t.Fatalf("overrides not applied: %+v", err)
	}
	if err.Severity() != SeverityCritical {
		t.Fatalf("unexpected severity: %s", err.Severity())
	}
	if err.Metadata()["field"] != "query" {
		t.Fatalf("metadata missing: %+v", err.Metadata())
	}
}

func TestDefaultsComeFromRegistry(t *testing.T) {
	err := New(CodeStorageFailure, "")
	if !err.Retryable() || !err.ShouldAlert() || err.Severity() != SeverityCritical {
		t.Fatalf("registry defaults not applied: %+v", err)
	}
}

func TestRegisterCustomCode(t *testing.T) {
	const code Code = "TEST_CUSTOM"
	Register(code, Attributes{Message: "自定义", Severity: SeverityWarning, Retryable: true})

	err := New(code, "")
	if err.Message() != "自定义" || !RetryableError(err) {
		t.Fatalf("registered attributes not applied: %+v", err)
	}
}

func TestHelpersOnForeignErrors(t *testing.T) {
	plain := stdErrors.New("普通错误")
	if CodeOf(plain) != CodeUnknown {
		t.Fatalf("unexpected code: %s", CodeOf(plain))
	}
	if RetryableError(plain) {
		t.Fatal("plain errors must not be retryable")
	}
	if SeverityOf(plain) != SeverityCritical {
		t.Fatalf("unexpected severity: %s", SeverityOf(plain))
	}
	if _, ok := From(plain); ok {
		t.Fatal("expected no coded error")
	}
}
