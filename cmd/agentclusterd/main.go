package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/nxgdiet/agentcluster/internal/agent"
	"github.com/nxgdiet/agentcluster/internal/agent/catalog"
	"github.com/nxgdiet/agentcluster/internal/api"
	"github.com/nxgdiet/agentcluster/internal/auth"
	"github.com/nxgdiet/agentcluster/internal/collab"
	"github.com/nxgdiet/agentcluster/internal/config"
	"github.com/nxgdiet/agentcluster/internal/knowledge"
	"github.com/nxgdiet/agentcluster/internal/llm"
	"github.com/nxgdiet/agentcluster/internal/llm/openai"
	"github.com/nxgdiet/agentcluster/internal/observability/alerting"
	"github.com/nxgdiet/agentcluster/internal/observability/metrics"
	"github.com/nxgdiet/agentcluster/internal/orchestrator"
	"github.com/nxgdiet/agentcluster/internal/storage/mysql"
	"github.com/nxgdiet/agentcluster/internal/task"
	"github.com/nxgdiet/agentcluster/pkg/logger"
)

// main 是 agentcluster 守护进程的入口。
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("agentclusterd 运行失败: %v", err)
	}
}

func run(ctx context.Context) error {
	configPath := os.Getenv("AGENTCLUSTER_CONFIG")
	if configPath == "" {
		configPath = filepath.Join("configs", "agentcluster.yaml")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if err := logger.Init(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: cfg.Logging.OutputPaths,
		Audit: logger.AuditConfig{
			Enabled:    cfg.Logging.Audit.Enabled,
			Path:       cfg.Logging.Audit.Path,
			MaxSizeMB:  cfg.Logging.Audit.MaxSizeMB,
			MaxBackups: cfg.Logging.Audit.MaxBackups,
			MaxAgeDays: cfg.Logging.Audit.MaxAgeDays,
		},
	}); err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Runtime.DataDir, 0o755); err != nil {
		return err
	}

	llmClient, err := createLLMClient(cfg)
	if err != nil {
		return err
	}

	collabClient, err := collab.NewClient(collab.Config{
		BaseURL: cfg.Collaborator.BaseURL,
		APIKey:  cfg.Collaborator.ResolveAPIKey(),
		Timeout: cfg.Collaborator.Timeout(),
	})
	if err != nil {
		return err
	}

	agents := make([]*agent.Agent, 0, 8)
	for _, agentCfg := range catalog.All(collabClient) {
		agents = append(agents, agent.New(agentCfg, llmClient, agent.WithLLMTimeout(cfg.LLM.OpenAI.Timeout())))
	}

	orchOpts := []orchestrator.Option{
		orchestrator.WithLLMTimeout(cfg.LLM.OpenAI.Timeout()),
	}
	if cfg.Knowledge.Enabled && cfg.Knowledge.Source != "" {
		provider, err := knowledge.LoadStaticProvider(cfg.Knowledge.Source, cfg.Knowledge.MaxResults)
		if err != nil {
			return err
		}
		orchOpts = append(orchOpts, orchestrator.WithKnowledgeProvider(provider))
	}
	orch := orchestrator.New(llmClient, agents, orchOpts...)

	taskStore, err := createTaskStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = taskStore.Close()
	}()

	taskQueue, err := createTaskQueue(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := taskQueue.Close(); err != nil {
			logger.L().Warn("关闭任务队列失败", slog.Any("error", err))
		}
	}()

	archive, err := createChatArchive(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = archive.Close()
	}()

	taskService := task.NewService(taskStore, taskQueue, cfg.TaskQueue.MaxRetries)
	processor := task.NewProcessor(orch, taskStore, taskQueue, taskQueue,
		task.WithWorkerCount(cfg.TaskQueue.WorkerCount),
		task.WithProcessorLogger(logger.Named("task-processor")),
		task.WithAlertDispatcher(alerting.NewFanout(alerting.LogNotifier{})),
	)

	processorCtx, processorCancel := context.WithCancel(ctx)
	defer processorCancel()

	go func() {
		if err := processor.Start(processorCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.L().Error("任务处理器异常退出", slog.Any("error", err))
		}
	}()

	go func() {
		if err := metrics.StartServer(ctx, cfg.Server.MetricsAddress); err != nil && !errors.Is(err, context.Canceled) {
			logger.L().Error("指标服务异常退出", slog.Any("error", err))
		}
	}()

	serverOpts := []api.Option{
		api.WithTaskService(taskService),
		api.WithChatArchive(archive),
	}
	if cfg.Auth.Enabled {
		serverOpts = append(serverOpts, api.WithAuth(auth.NewService(true, cfg.Auth.APIKeys)))
	}
	server := api.NewServer(cfg.Server.Address, orch, serverOpts...)

	logger.L().Info("agentcluster 启动",
		slog.String("address", cfg.Server.Address),
		slog.String("metrics_address", cfg.Server.MetricsAddress),
		slog.Int("agents", len(agents)),
	)

	if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func createLLMClient(cfg *config.Config) (llm.Client, error) {
	switch cfg.LLM.Provider {
	case "", "openai":
		apiKey := strings.TrimSpace(cfg.LLM.OpenAI.ResolveAPIKey())
		if apiKey == "" {
			return nil, fmt.Errorf("决策服务需要通过环境变量 %s 注入 API Key", cfg.LLM.OpenAI.APIKeyEnv)
		}
		return openai.NewClient(openai.Config{
			APIKey:  apiKey,
			BaseURL: cfg.LLM.OpenAI.BaseURL,
			Model:   cfg.LLM.OpenAI.Model,
			Timeout: cfg.LLM.OpenAI.Timeout(),
		})
	default:
		return nil, fmt.Errorf("未知的决策服务 provider: %s", cfg.LLM.Provider)
	}
}

func createTaskStore(cfg *config.Config) (task.Store, error) {
	switch cfg.Storage.TaskStore.Driver {
	case "", "memory":
		return task.NewMemoryStore(), nil
	case "mysql":
		return task.NewMySQLStore(cfg.Storage.TaskStore.DSN)
	default:
		return nil, fmt.Errorf("未知的任务存储驱动: %s", cfg.Storage.TaskStore.Driver)
	}
}

func createTaskQueue(cfg *config.Config) (task.Queue, error) {
	switch cfg.TaskQueue.Driver {
	case "", "memory":
		return task.NewMemoryQueue(1024), nil
	case "redis":
		return task.NewRedisQueue(task.RedisQueueConfig{
			Address:  cfg.TaskQueue.Redis.Addr,
			Password: cfg.TaskQueue.Redis.Password,
			DB:       cfg.TaskQueue.Redis.DB,
			Queue:    cfg.TaskQueue.Redis.QueueKey,
		})
	case "rabbitmq":
		return task.NewRabbitMQQueue(task.RabbitMQConfig{
			URL:     cfg.TaskQueue.RabbitMQ.URL,
			Queue:   cfg.TaskQueue.RabbitMQ.QueueName,
			Durable: true,
		})
	default:
		return nil, fmt.Errorf("未知的队列驱动: %s", cfg.TaskQueue.Driver)
	}
}

func createChatArchive(ctx context.Context, cfg *config.Config) (mysql.ChatArchive, error) {
	switch cfg.Storage.ChatArchive.Driver {
	case "", "memory":
		return mysql.NewMemoryChatArchive(cfg.Runtime.DataDir)
	case "mysql":
		return mysql.NewSQLChatArchive(ctx, mysql.Config{DSN: cfg.Storage.ChatArchive.DSN})
	default:
		return nil, fmt.Errorf("未知的对话归档驱动: %s", cfg.Storage.ChatArchive.Driver)
	}
}
