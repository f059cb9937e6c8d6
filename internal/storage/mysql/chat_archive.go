package mysql

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ChatRecord 表示一次对话的落库结构，仅用于审计与展示。
type ChatRecord struct {
	Query     string `json:"query"`
	Response  string `json:"response"`
	AgentUsed string `json:"agent_used"`
	Reason    string `json:"reason"`
	CreatedAt int64  `json:"created_at"`
}

// ChatArchive 抽象对话记录的持久化接口。
// 归档只做留存，历史记录不会回灌到后续对话上下文。
type ChatArchive interface {
	Save(ctx context.Context, record ChatRecord) error
	ListLatest(ctx context.Context, limit int) ([]ChatRecord, error)
	Close() error
}

const memoryArchiveCap = 512

// MemoryChatArchive 使用本地 JSON 行文件模拟 MySQL 的效果，方便迭代开发。
type MemoryChatArchive struct {
	mu       sync.RWMutex
	dataFile string
	records  []ChatRecord
}

// NewMemoryChatArchive 创建一个基于文件的内存归档。
func NewMemoryChatArchive(dataDir string) (*MemoryChatArchive, error) {
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("创建数据目录失败: %w", err)
	}
	path := filepath.Join(dataDir, "chats.log")
	archive := &MemoryChatArchive{dataFile: path}
	if err := archive.loadFromDisk(); err != nil {
		return nil, err
	}
	return archive, nil
}

// Save 以追加写的方式记录对话。
func (m *MemoryChatArchive) Save(_ context.Context, record ChatRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	file, err := os.OpenFile(m.dataFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("打开对话日志失败: %w", err)
	}
	defer file.Close()

	encoded, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("序列化对话记录失败: %w", err)
	}

	if _, err := file.Write(append(encoded, '\n')); err != nil {
		return fmt.Errorf("写入对话日志失败: %w", err)
	}

	m.records = append([]ChatRecord{record}, m.records...)
	if len(m.records) > memoryArchiveCap {
		m.records = m.records[:memoryArchiveCap]
	}
	return nil
}

// ListLatest 返回最近的对话记录，按时间倒序排列。
func (m *MemoryChatArchive) ListLatest(_ context.Context, limit int) ([]ChatRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit <= 0 || limit > len(m.records) {
		limit = len(m.records)
	}

	results := make([]ChatRecord, limit)
	copy(results, m.records[:limit])
	return results, nil
}

// Close 对基于文件的归档无需操作。
func (m *MemoryChatArchive) Close() error {
	return nil
}

func (m *MemoryChatArchive) loadFromDisk() error {
	file, err := os.OpenFile(m.dataFile, os.O_RDONLY|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("读取对话日志失败: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	var restored []ChatRecord
	for scanner.Scan() {
		var record ChatRecord
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			continue
		}
		restored = append([]ChatRecord{record}, restored...)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("解析对话日志失败: %w", err)
	}

	if len(restored) > memoryArchiveCap {
		restored = restored[:memoryArchiveCap]
	}
	if len(restored) > 0 {
		m.records = restored
	}
	return nil
}

// SQLChatArchive 使用真实的 MySQL 数据库存储对话记录。
type SQLChatArchive struct {
	db *sql.DB
}

// NewSQLChatArchive 创建连接池并初始化数据表。
func NewSQLChatArchive(ctx context.Context, cfg Config) (*SQLChatArchive, error) {
	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}

	archive := &SQLChatArchive{db: db}
	if err := archive.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return archive, nil
}

func (s *SQLChatArchive) initSchema(ctx context.Context) error {
	const schema = `CREATE TABLE IF NOT EXISTS chats (
        id BIGINT AUTO_INCREMENT PRIMARY KEY,
        query TEXT NOT NULL,
        response TEXT NOT NULL,
        agent_used VARCHAR(64) DEFAULT '',
        reason TEXT,
        created_at BIGINT NOT NULL,
        INDEX idx_chat_created_at (created_at)
)`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("初始化 chats 表失败: %w", err)
	}
	return nil
}

// Save 将对话记录写入 MySQL。
func (s *SQLChatArchive) Save(ctx context.Context, record ChatRecord) error {
	const stmt = `INSERT INTO chats (query, response, agent_used, reason, created_at)
        VALUES (?, ?, ?, ?, ?)`

	createdAt := record.CreatedAt
	if createdAt == 0 {
		createdAt = time.Now().Unix()
	}
	if _, err := s.db.ExecContext(ctx, stmt,
		record.Query,
		record.Response,
		record.AgentUsed,
		record.Reason,
		createdAt,
	); err != nil {
		return fmt.Errorf("写入 MySQL 失败: %w", err)
	}
	return nil
}

// ListLatest 查询最近的若干条对话记录。
func (s *SQLChatArchive) ListLatest(ctx context.Context, limit int) ([]ChatRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `SELECT query, response, agent_used, reason, created_at
        FROM chats ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("查询对话记录失败: %w", err)
	}
	defer rows.Close()

	var records []ChatRecord
	for rows.Next() {
		var record ChatRecord
		if err := rows.Scan(&record.Query, &record.Response, &record.AgentUsed, &record.Reason, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("解析对话记录失败: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("遍历对话记录失败: %w", err)
	}

	return records, nil
}

// Close 关闭底层数据库连接。
func (s *SQLChatArchive) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

var (
	_ ChatArchive = (*MemoryChatArchive)(nil)
	_ ChatArchive = (*SQLChatArchive)(nil)
)
