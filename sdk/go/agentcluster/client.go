package agentcluster

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"sync"
	"time"
)

// DefaultHTTPTimeout defines the timeout used by clients created without a
// custom http.Client. It is intentionally short to avoid hanging network calls.
const DefaultHTTPTimeout = 30 * time.Second

// Client wraps the HTTP interactions with the agentcluster REST API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client

	mu     sync.RWMutex
	apiKey string
}

// ChatRequest represents the payload for a synchronous chat call.
type ChatRequest struct {
	Message string `json:"message"`
	Verbose bool   `json:"verbose,omitempty"`
}

// AgentOutcome mirrors a single agent execution reported on verbose chats.
// Field names follow the server's wire shape exactly.
type AgentOutcome struct {
	Agent    string `json:"agent"`
	Query    string `json:"query"`
	Reason   string `json:"reason"`
	Success  bool   `json:"success"`
	Response string `json:"response,omitempty"`
	Err      string `json:"error,omitempty"`
}

// ChatResult is the server response for a chat call.
type ChatResult struct {
	Response  string         `json:"response"`
	AgentUsed string         `json:"agent_used,omitempty"`
	Query     string         `json:"query,omitempty"`
	Reason    string         `json:"reason,omitempty"`
	Success   bool           `json:"success"`
	Error     string         `json:"error,omitempty"`
	Outcomes  []AgentOutcome `json:"outcomes,omitempty"`
}

// TaskSubmission represents the payload required to enqueue a new task.
type TaskSubmission struct {
	ID       string            `json:"id,omitempty"`
	Query    string            `json:"query"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// TaskResult carries the outcome of a completed task.
type TaskResult struct {
	Response  string `json:"response"`
	AgentUsed string `json:"agent_used,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// Task contains the server side view of an asynchronous chat task.
// CreatedAt and UpdatedAt are Unix seconds, matching the server's encoding.
type Task struct {
	ID         string            `json:"id"`
	Query      string            `json:"query"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Status     string            `json:"status"`
	Attempts   int               `json:"attempts"`
	MaxRetries int               `json:"max_retries"`
	LastError  string            `json:"last_error,omitempty"`
	ErrorCode  string            `json:"error_code,omitempty"`
	Result     *TaskResult       `json:"result,omitempty"`
	CreatedAt  int64             `json:"created_at"`
	UpdatedAt  int64             `json:"updated_at"`
}

// AgentInfo describes one routable agent exposed by the cluster.
type AgentInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords,omitempty"`
}

// APIError represents server side validation or internal errors.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("agentcluster api error (%d): %s", e.StatusCode, e.Message)
}

// NewClient instantiates a client for the agentcluster API. When httpClient is
// nil, a default client with a sensible timeout is used.
func NewClient(rawURL string, httpClient *http.Client) (*Client, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	return &Client{baseURL: parsed, httpClient: httpClient}, nil
}

// SetAPIKey stores the key sent in the X-API-Key header on subsequent calls.
func (c *Client) SetAPIKey(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.apiKey = key
}

// APIKey returns the currently stored key.
func (c *Client) APIKey() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiKey
}

// Chat performs a synchronous query against the cluster.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (ChatResult, error) {
	var result ChatResult
	if err := c.post(ctx, "/api/v1/chat", req, &result); err != nil {
		return ChatResult{}, err
	}
	return result, nil
}

// SubmitTask enqueues an asynchronous query and returns the accepted task.
func (c *Client) SubmitTask(ctx context.Context, submission TaskSubmission) (Task, error) {
	var created Task
	if err := c.post(ctx, "/api/v1/tasks", submission, &created); err != nil {
		return Task{}, err
	}
	return created, nil
}

// GetTask fetches a task by identifier.
func (c *Client) GetTask(ctx context.Context, taskID string) (Task, error) {
	var found Task
	endpoint := path.Join("/api/v1/tasks", url.PathEscape(taskID))
	if err := c.get(ctx, endpoint, &found); err != nil {
		return Task{}, err
	}
	return found, nil
}

// ListAgents returns the agents available for routing.
func (c *Client) ListAgents(ctx context.Context) ([]AgentInfo, error) {
	var payload struct {
		Agents []AgentInfo `json:"agents"`
	}
	if err := c.get(ctx, "/api/v1/agents", &payload); err != nil {
		return nil, err
	}
	return payload.Agents, nil
}

// Health reports whether the service answers its liveness endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.get(ctx, "/healthz", nil)
}

func (c *Client) post(ctx context.Context, endpoint string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	rel := &url.URL{Path: path.Join(c.baseURL.Path, endpoint)}
	u := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if key := c.APIKey(); key != "" {
		req.Header.Set("X-API-Key", key)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read error response: %w", err)
		}
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(bytes.TrimSpace(data)),
		}
	}

	if out == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
