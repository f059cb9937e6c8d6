package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 描述 agentcluster 启动阶段需要加载的全部配置。
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Auth         AuthConfig         `yaml:"auth"`
	LLM          LLMConfig          `yaml:"llm"`
	Collaborator CollaboratorConfig `yaml:"collaborator"`
	Storage      StorageConfig      `yaml:"storage"`
	TaskQueue    TaskQueueConfig    `yaml:"task_queue"`
	Knowledge    KnowledgeConfig    `yaml:"knowledge"`
	Logging      LoggingConfig      `yaml:"logging"`
	Runtime      RuntimeConfig      `yaml:"runtime"`
}

// ServerConfig 控制 API 与指标服务的监听地址。
type ServerConfig struct {
	Address        string `yaml:"address"`
	MetricsAddress string `yaml:"metrics_address"`
}

// AuthConfig 控制静态 API Key 鉴权。Enabled 为 false 时所有请求直接放行。
type AuthConfig struct {
	Enabled bool     `yaml:"enabled"`
	APIKeys []string `yaml:"api_keys"`
}

// LLMConfig 配置决策服务的调用方式。
type LLMConfig struct {
	Provider string       `yaml:"provider"`
	OpenAI   OpenAIConfig `yaml:"openai"`
}

// OpenAIConfig 描述 OpenAI 兼容接口的接入参数。
// API Key 不落盘，通过 APIKeyEnv 指定的环境变量注入。
type OpenAIConfig struct {
	APIKeyEnv      string `yaml:"api_key_env"`
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// ResolveAPIKey 从环境变量中读取 API Key。
func (c OpenAIConfig) ResolveAPIKey() string {
	return os.Getenv(c.APIKeyEnv)
}

// Timeout 返回单次决策调用的超时。
func (c OpenAIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CollaboratorConfig 描述 NFT 分析数据服务（UnleashNFTs）的接入参数。
type CollaboratorConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKeyEnv      string `yaml:"api_key_env"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// ResolveAPIKey 从环境变量中读取数据服务的 API Key。
func (c CollaboratorConfig) ResolveAPIKey() string {
	return os.Getenv(c.APIKeyEnv)
}

// Timeout 返回单次数据请求的超时。
func (c CollaboratorConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// StorageConfig 统一描述各持久化后端。
type StorageConfig struct {
	TaskStore   DriverConfig `yaml:"task_store"`
	ChatArchive DriverConfig `yaml:"chat_archive"`
}

// DriverConfig 是 driver + DSN 的通用组合。
type DriverConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// TaskQueueConfig 配置异步任务队列与工作协程。
type TaskQueueConfig struct {
	Driver      string         `yaml:"driver"`
	WorkerCount int            `yaml:"worker_count"`
	MaxRetries  int            `yaml:"max_retries"`
	Redis       RedisConfig    `yaml:"redis"`
	RabbitMQ    RabbitMQConfig `yaml:"rabbitmq"`
}

// RedisConfig 描述 Redis 队列后端的连接参数。
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	QueueKey string `yaml:"queue_key"`
}

// RabbitMQConfig 描述 RabbitMQ 队列后端的连接参数。
type RabbitMQConfig struct {
	URL       string `yaml:"url"`
	QueueName string `yaml:"queue_name"`
}

// KnowledgeConfig 配置可选的路由提示知识库。
type KnowledgeConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Source     string `yaml:"source"`
	MaxResults int    `yaml:"max_results"`
}

// LoggingConfig 控制进程日志与审计日志。
type LoggingConfig struct {
	Level       string      `yaml:"level"`
	Format      string      `yaml:"format"`
	OutputPaths []string    `yaml:"output_paths"`
	Audit       AuditConfig `yaml:"audit"`
}

// AuditConfig 控制审计日志文件的滚动策略。
type AuditConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// RuntimeConfig 放置运行时的通用参数。
type RuntimeConfig struct {
	DataDir string `yaml:"data_dir"`
}

// Load 解析指定路径的 YAML 配置文件并填充默认值。
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("配置文件路径为空")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	cfg.applyDefaults(filepath.Dir(path))

	return &cfg, nil
}

// applyDefaults 在用户未填写部分字段时设置合理默认值。
func (c *Config) applyDefaults(baseDir string) {
	if c.Server.Address == "" {
		c.Server.Address = ":8080"
	}
	if c.Server.MetricsAddress == "" {
		c.Server.MetricsAddress = ":9090"
	}

	if c.LLM.Provider == "" {
		c.LLM.Provider = "openai"
	}
	if c.LLM.OpenAI.APIKeyEnv == "" {
		c.LLM.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
	}
	if c.LLM.OpenAI.TimeoutSeconds <= 0 {
		c.LLM.OpenAI.TimeoutSeconds = 60
	}

	if c.Collaborator.BaseURL == "" {
		c.Collaborator.BaseURL = "https://api.unleashnfts.com"
	}
	if c.Collaborator.APIKeyEnv == "" {
		c.Collaborator.APIKeyEnv = "UNLEASH_NFTS_API_KEY"
	}
	if c.Collaborator.TimeoutSeconds <= 0 {
		c.Collaborator.TimeoutSeconds = 30
	}

	if c.Storage.TaskStore.Driver == "" {
		c.Storage.TaskStore.Driver = "memory"
	}
	if c.Storage.ChatArchive.Driver == "" {
		c.Storage.ChatArchive.Driver = "memory"
	}

	if c.TaskQueue.Driver == "" {
		c.TaskQueue.Driver = "memory"
	}
	if c.TaskQueue.WorkerCount <= 0 {
		c.TaskQueue.WorkerCount = 4
	}
	if c.TaskQueue.MaxRetries <= 0 {
		c.TaskQueue.MaxRetries = 3
	}
	if c.TaskQueue.Redis.QueueKey == "" {
		c.TaskQueue.Redis.QueueKey = "agentcluster:chat_tasks"
	}
	if c.TaskQueue.RabbitMQ.QueueName == "" {
		c.TaskQueue.RabbitMQ.QueueName = "agentcluster.chat_tasks"
	}

	if c.Knowledge.MaxResults <= 0 {
		c.Knowledge.MaxResults = 3
	}
	if c.Knowledge.Source != "" && !filepath.IsAbs(c.Knowledge.Source) {
		c.Knowledge.Source = filepath.Join(baseDir, c.Knowledge.Source)
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}

	if c.Runtime.DataDir == "" {
		c.Runtime.DataDir = filepath.Join(baseDir, "data")
	} else if !filepath.IsAbs(c.Runtime.DataDir) {
		c.Runtime.DataDir = filepath.Join(baseDir, c.Runtime.DataDir)
	}
}
