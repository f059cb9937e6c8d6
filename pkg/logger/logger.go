// Package logger wires the process-wide slog logger plus a dedicated,
// size-rotated audit channel. All subsystems log through L(), Named()
// or Audit(); Init is expected to run exactly once at startup.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Config describes how the process-wide logger behaves.
type Config struct {
	Level       string
	Format      string
	OutputPaths []string
	Audit       AuditConfig
}

// AuditConfig controls the dedicated audit log channel.
type AuditConfig struct {
	Enabled    bool
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

var state struct {
	once    sync.Once
	proc    *slog.Logger
	audit   *slog.Logger
	closers []io.Closer
	initErr error
}

// Init configures the global logger. Only the first call takes effect;
// later calls return the outcome of that first initialisation.
func Init(cfg Config) error {
	state.once.Do(func() {
		opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level), AddSource: true}

		handler, err := buildHandler(cfg.Format, cfg.OutputPaths, opts)
		if err != nil {
			state.initErr = err
			return
		}
		state.proc = slog.New(handler)
		state.audit = state.proc

		if cfg.Audit.Enabled {
			audit, err := buildAuditLogger(cfg.Audit)
			if err != nil {
				state.initErr = err
				return
			}
			state.audit = audit
		}
	})
	if state.initErr != nil {
		return state.initErr
	}
	if state.proc == nil {
		return errors.New("logger already initialised")
	}
	return nil
}

// L returns the process-wide structured logger. Calling it before Init
// sets up a default stdout JSON logger.
func L() *slog.Logger {
	if state.proc == nil {
		_ = Init(Config{})
	}
	return state.proc
}

// Audit returns the audit logger, falling back to the process logger.
func Audit() *slog.Logger {
	if state.audit == nil {
		return L()
	}
	return state.audit
}

// Named returns a child logger scoped to the given component.
func Named(name string) *slog.Logger {
	return L().WithGroup(name)
}

// Sync closes every file-backed output owned by the logger.
func Sync() error {
	var err error
	for _, closer := range state.closers {
		err = errors.Join(err, closer.Close())
	}
	state.closers = nil
	return err
}

func buildHandler(format string, outputs []string, opts *slog.HandlerOptions) (slog.Handler, error) {
	if len(outputs) == 0 {
		outputs = []string{"stdout"}
	}
	writers := make([]io.Writer, 0, len(outputs))
	for _, out := range outputs {
		writer, closer, err := openSink(out)
		if err != nil {
			return nil, err
		}
		if closer != nil {
			state.closers = append(state.closers, closer)
		}
		writers = append(writers, writer)
	}

	sink := writers[0]
	if len(writers) > 1 {
		sink = io.MultiWriter(writers...)
	}

	if strings.EqualFold(format, "text") {
		return slog.NewTextHandler(sink, opts), nil
	}
	return slog.NewJSONHandler(sink, opts), nil
}

// buildAuditLogger 为审计通道建立独立的滚动文件输出。审计日志
// 始终是 JSON 格式，级别固定为 Info。
func buildAuditLogger(cfg AuditConfig) (*slog.Logger, error) {
	if cfg.Path == "" {
		return nil, errors.New("audit log path cannot be empty when enabled")
	}
	writer, err := newRotatingWriter(cfg.Path, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
	if err != nil {
		return nil, err
	}
	state.closers = append(state.closers, writer)
	return slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: slog.LevelInfo})), nil
}

func openSink(path string) (io.Writer, io.Closer, error) {
	switch strings.ToLower(path) {
	case "stdout":
		return os.Stdout, nil, nil
	case "stderr":
		return os.Stderr, nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return file, file, nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
