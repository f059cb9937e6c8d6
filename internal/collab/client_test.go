package collab

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatal("expected error when api key is missing")
	}
}

func TestGetSendsHeadersAndQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/nft/collection/metrics" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("x-api-key"); got != "secret" {
			t.Fatalf("unexpected api key header: %q", got)
		}
		if got := r.Header.Get("accept"); got != "application/json" {
			t.Fatalf("unexpected accept header: %q", got)
		}
		if got := r.URL.Query().Get("contract_address"); got != "0xabc" {
			t.Fatalf("unexpected query: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"volume":12.5}]}`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL, APIKey: "secret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	query := url.Values{}
	query.Set("contract_address", "0xabc")
	payload, err := client.Get(context.Background(), "/api/v2/nft/collection/metrics", query)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body, ok := payload.(map[string]any)
	if !ok {
		t.Fatalf("unexpected payload type: %T", payload)
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("missing data field: %+v", body)
	}
}

func TestGetNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL, APIKey: "secret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = client.Get(context.Background(), "/api/v2/nft/wallet/score", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Fatalf("status missing from error: %v", err)
	}
}

func TestGetMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL, APIKey: "secret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := client.Get(context.Background(), "/api/v2/nft/market", nil); err == nil {
		t.Fatal("expected decode error")
	}
}
