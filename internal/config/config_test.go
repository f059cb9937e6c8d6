package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "agentcluster.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "server:\n  address: \":9000\"\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Address != ":9000" {
		t.Fatalf("unexpected address: %s", cfg.Server.Address)
	}
	if cfg.Server.MetricsAddress != ":9090" {
		t.Fatalf("missing metrics default: %s", cfg.Server.MetricsAddress)
	}
	if cfg.LLM.Provider != "openai" || cfg.LLM.OpenAI.APIKeyEnv != "OPENAI_API_KEY" {
		t.Fatalf("missing llm defaults: %+v", cfg.LLM)
	}
	if cfg.LLM.OpenAI.Timeout() != 60*time.Second {
		t.Fatalf("unexpected llm timeout: %v", cfg.LLM.OpenAI.Timeout())
	}
	if cfg.Collaborator.BaseURL != "https://api.unleashnfts.com" {
		t.Fatalf("missing collaborator default: %s", cfg.Collaborator.BaseURL)
	}
	if cfg.Storage.TaskStore.Driver != "memory" || cfg.Storage.ChatArchive.Driver != "memory" {
		t.Fatalf("missing storage defaults: %+v", cfg.Storage)
	}
	if cfg.TaskQueue.Driver != "memory" || cfg.TaskQueue.WorkerCount != 4 || cfg.TaskQueue.MaxRetries != 3 {
		t.Fatalf("missing queue defaults: %+v", cfg.TaskQueue)
	}
	if cfg.TaskQueue.Redis.QueueKey != "agentcluster:chat_tasks" {
		t.Fatalf("missing redis queue default: %s", cfg.TaskQueue.Redis.QueueKey)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Fatalf("missing logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadResolvesRelativePaths(t *testing.T) {
	path := writeConfig(t, `
knowledge:
  enabled: true
  source: "hints.json"
runtime:
  data_dir: "data"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	baseDir := filepath.Dir(path)
	if cfg.Knowledge.Source != filepath.Join(baseDir, "hints.json") {
		t.Fatalf("knowledge source not resolved: %s", cfg.Knowledge.Source)
	}
	if cfg.Runtime.DataDir != filepath.Join(baseDir, "data") {
		t.Fatalf("data dir not resolved: %s", cfg.Runtime.DataDir)
	}
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  address: ":8080"
  metrics_address: ":9091"
auth:
  enabled: true
  api_keys:
    - "key-1"
llm:
  provider: "openai"
  openai:
    api_key_env: "MY_OPENAI_KEY"
    model: "gpt-4o"
    timeout_seconds: 30
task_queue:
  driver: "redis"
  worker_count: 8
  redis:
    addr: "127.0.0.1:6379"
    queue_key: "custom:queue"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if !cfg.Auth.Enabled || len(cfg.Auth.APIKeys) != 1 {
		t.Fatalf("auth not parsed: %+v", cfg.Auth)
	}
	if cfg.LLM.OpenAI.Model != "gpt-4o" || cfg.LLM.OpenAI.Timeout() != 30*time.Second {
		t.Fatalf("llm not parsed: %+v", cfg.LLM.OpenAI)
	}
	if cfg.TaskQueue.Driver != "redis" || cfg.TaskQueue.WorkerCount != 8 {
		t.Fatalf("queue not parsed: %+v", cfg.TaskQueue)
	}
	if cfg.TaskQueue.Redis.QueueKey != "custom:queue" {
		t.Fatalf("redis queue key not parsed: %s", cfg.TaskQueue.Redis.QueueKey)
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadRejectsEmptyPath(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a map")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}
