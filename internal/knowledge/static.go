package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Provider 定义路由提示检索的通用接口。
type Provider interface {
	Query(query string) []Snippet
}

// Snippet 描述一条可附加到路由系统提示中的指引。
// 不带任何关键词的条目对所有查询生效。
type Snippet struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Keywords []string `json:"keywords"`
	Tags     []string `json:"tags"`
}

// matches 判断条目是否命中查询。query 需要已转为小写。
func (s Snippet) matches(query string) bool {
	if len(s.Keywords) == 0 {
		return true
	}
	needles := make([]string, 0, len(s.Keywords)+len(s.Tags))
	needles = append(needles, s.Keywords...)
	needles = append(needles, s.Tags...)
	for _, needle := range needles {
		needle = strings.ToLower(strings.TrimSpace(needle))
		if needle != "" && strings.Contains(query, needle) {
			return true
		}
	}
	return false
}

// StaticProvider 从 JSON 文件加载静态提示条目，按关键词匹配查询。
type StaticProvider struct {
	items      []Snippet
	maxResults int
}

// NewStaticProvider 创建静态提示库实例。
func NewStaticProvider(items []Snippet, maxResults int) *StaticProvider {
	if maxResults <= 0 {
		maxResults = 3
	}
	return &StaticProvider{items: items, maxResults: maxResults}
}

// LoadStaticProvider 从 JSON 文件加载提示条目。
func LoadStaticProvider(path string, maxResults int) (*StaticProvider, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("知识库文件路径不能为空")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("解析知识库路径失败: %w", err)
	}

	raw, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("读取知识库文件失败: %w", err)
	}

	var entries []Snippet
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("解析知识库文件失败: %w", err)
	}

	return NewStaticProvider(entries, maxResults), nil
}

// Query 按条目声明顺序做关键词匹配，最多返回 maxResults 条。
func (p *StaticProvider) Query(query string) []Snippet {
	if p == nil {
		return nil
	}

	query = strings.ToLower(strings.TrimSpace(query))

	results := make([]Snippet, 0, p.maxResults)
	for _, item := range p.items {
		if !item.matches(query) {
			continue
		}
		results = append(results, item)
		if len(results) >= p.maxResults {
			break
		}
	}
	return results
}

var _ Provider = (*StaticProvider)(nil)
