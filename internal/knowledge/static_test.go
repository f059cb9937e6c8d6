package knowledge

import (
	"os"
	"path/filepath"
	"testing"
)

func testSnippets() []Snippet {
	return []Snippet{
		{Title: "价格问题", Content: "估值问题走 price_estimation。", Keywords: []string{"价格", "地板价", "floor"}},
		{Title: "钱包问题", Content: "钱包画像走 wallet。", Keywords: []string{"钱包", "wallet"}},
		{Title: "通用指引", Content: "无法判断时直接回答。"},
	}
}

func TestStaticProviderQueryMatchesKeywords(t *testing.T) {
	provider := NewStaticProvider(testSnippets(), 3)

	results := provider.Query("这个集合的地板价是多少")
	if len(results) != 2 {
		t.Fatalf("expected keyword hit plus keywordless snippet, got %d", len(results))
	}
	if results[0].Title != "价格问题" {
		t.Fatalf("unexpected first hit: %s", results[0].Title)
	}
}

func TestStaticProviderKeywordlessAlwaysMatches(t *testing.T) {
	provider := NewStaticProvider(testSnippets(), 3)

	results := provider.Query("完全无关的问题")
	if len(results) != 1 || results[0].Title != "通用指引" {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestStaticProviderHonorsMaxResults(t *testing.T) {
	provider := NewStaticProvider(testSnippets(), 1)

	results := provider.Query("钱包的地板价")
	if len(results) != 1 {
		t.Fatalf("expected single result, got %d", len(results))
	}
}

func TestStaticProviderCaseInsensitive(t *testing.T) {
	provider := NewStaticProvider(testSnippets(), 3)

	results := provider.Query("What is the FLOOR price")
	if len(results) == 0 || results[0].Title != "价格问题" {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestLoadStaticProvider(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hints.json")
	content := `[{"title":"价格问题","content":"估值问题走 price_estimation。","keywords":["价格"]}]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write hints: %v", err)
	}

	provider, err := LoadStaticProvider(path, 3)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if results := provider.Query("价格走势"); len(results) != 1 {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestLoadStaticProviderErrors(t *testing.T) {
	if _, err := LoadStaticProvider("", 3); err == nil {
		t.Fatal("expected error for empty path")
	}
	if _, err := LoadStaticProvider(filepath.Join(t.TempDir(), "missing.json"), 3); err == nil {
		t.Fatal("expected error for missing file")
	}
}
