package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nxgdiet/agentcluster/internal/auth"
	"github.com/nxgdiet/agentcluster/internal/observability/metrics"
	"github.com/nxgdiet/agentcluster/internal/orchestrator"
	"github.com/nxgdiet/agentcluster/internal/storage/mysql"
	"github.com/nxgdiet/agentcluster/internal/task"
	"github.com/nxgdiet/agentcluster/pkg/logger"
)

// Server 负责暴露 REST 接口，供外部驱动智能体集群。
type Server struct {
	addr         string
	orchestrator *orchestrator.Orchestrator
	tasks        *task.Service
	archive      mysql.ChatArchive
	auth         *auth.Service
}

// Option 配置 Server 的可选能力。
type Option func(*Server)

// WithTaskService 启用异步任务接口。
func WithTaskService(svc *task.Service) Option {
	return func(s *Server) {
		s.tasks = svc
	}
}

// WithChatArchive 启用对话归档。
func WithChatArchive(archive mysql.ChatArchive) Option {
	return func(s *Server) {
		s.archive = archive
	}
}

// WithAuth 启用 API Key 校验。
func WithAuth(svc *auth.Service) Option {
	return func(s *Server) {
		s.auth = svc
	}
}

// NewServer 构造 API 服务实例。
func NewServer(addr string, orch *orchestrator.Orchestrator, opts ...Option) *Server {
	s := &Server{addr: addr, orchestrator: orch}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Handler 返回完整的路由表，便于测试与复用。
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /", s.instrument("root", http.HandlerFunc(s.handleRoot)))
	mux.Handle("GET /healthz", s.instrument("healthz", http.HandlerFunc(s.handleHealth)))

	mux.Handle("POST /api/v1/chat", s.protect(s.instrument("chat", http.HandlerFunc(s.handleChat))))
	mux.Handle("GET /api/v1/agents", s.protect(s.instrument("agents", http.HandlerFunc(s.handleAgents))))
	mux.Handle("GET /api/v1/chats", s.protect(s.instrument("chats", http.HandlerFunc(s.handleListChats))))
	mux.Handle("POST /api/v1/tasks", s.protect(s.instrument("tasks", http.HandlerFunc(s.handleCreateTask))))
	mux.Handle("GET /api/v1/tasks", s.protect(s.instrument("tasks", http.HandlerFunc(s.handleListTasks))))
	mux.Handle("GET /api/v1/tasks/stats", s.protect(s.instrument("task_stats", http.HandlerFunc(s.handleTaskStats))))
	mux.Handle("GET /api/v1/tasks/{id}", s.protect(s.instrument("task_get", http.HandlerFunc(s.handleGetTask))))

	return mux
}

// Start 启动 HTTP 服务，直到上下文取消或出现错误。
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.addr,
		Handler:           withContext(ctx, s.Handler()),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// ChatRequest 是 POST /api/v1/chat 的请求体。
type ChatRequest struct {
	Message string `json:"message"`
	Verbose bool   `json:"verbose,omitempty"`
}

// ChatResponse 是 POST /api/v1/chat 的响应体。
type ChatResponse struct {
	Response  string                 `json:"response"`
	AgentUsed string                 `json:"agent_used,omitempty"`
	Query     string                 `json:"query,omitempty"`
	Reason    string                 `json:"reason,omitempty"`
	Success   bool                   `json:"success"`
	Error     string                 `json:"error,omitempty"`
	Outcomes  []orchestrator.Outcome `json:"outcomes,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.orchestrator == nil {
		http.Error(w, "编排器未初始化", http.StatusServiceUnavailable)
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "请求体解析失败", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, "message 不能为空", http.StatusBadRequest)
		return
	}

	result, err := s.orchestrator.Chat(r.Context(), req.Message)
	if err != nil {
		// 顶层决策失败时 response 保持为空，错误原因放在 error 字段。
		writeJSON(w, http.StatusOK, ChatResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	metrics.ObserveChatRouted(result.AgentUsed)
	if s.archive != nil {
		record := mysql.ChatRecord{
			Query:     req.Message,
			Response:  result.Response,
			AgentUsed: result.AgentUsed,
			Reason:    result.Reason,
			CreatedAt: time.Now().Unix(),
		}
		if err := s.archive.Save(r.Context(), record); err != nil {
			logger.L().Warn("写入对话归档失败", slog.Any("error", err))
		}
	}

	resp := ChatResponse{
		Response:  result.Response,
		AgentUsed: result.AgentUsed,
		Query:     result.Query,
		Reason:    result.Reason,
		Success:   true,
	}
	if req.Verbose {
		resp.Outcomes = result.Outcomes
	}
	writeJSON(w, http.StatusOK, resp)
}

// AgentInfo 描述一个可路由的智能体。
type AgentInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords,omitempty"`
}

func (s *Server) handleAgents(w http.ResponseWriter, _ *http.Request) {
	if s.orchestrator == nil {
		http.Error(w, "编排器未初始化", http.StatusServiceUnavailable)
		return
	}
	agents := s.orchestrator.Agents()
	infos := make([]AgentInfo, 0, len(agents))
	for _, ag := range agents {
		infos = append(infos, AgentInfo{
			ID:          ag.ID(),
			Name:        ag.Name(),
			Description: ag.Description(),
			Keywords:    ag.Keywords(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"agents": infos})
}

func (s *Server) handleListChats(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		http.Error(w, "对话归档未启用", http.StatusServiceUnavailable)
		return
	}
	limit := parseIntQuery(r, "limit", 20)
	records, err := s.archive.ListLatest(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"chats": records})
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	if s.tasks == nil {
		http.Error(w, "任务服务未启用", http.StatusServiceUnavailable)
		return
	}
	var req task.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "请求体解析失败", http.StatusBadRequest)
		return
	}
	created, err := s.tasks.Submit(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusAccepted, created)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	if s.tasks == nil {
		http.Error(w, "任务服务未启用", http.StatusServiceUnavailable)
		return
	}
	opts := listOptionsFromQuery(r)
	tasks, err := s.tasks.List(r.Context(), opts...)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	if s.tasks == nil {
		http.Error(w, "任务服务未启用", http.StatusServiceUnavailable)
		return
	}
	id := r.PathValue("id")
	found, err := s.tasks.Get(r.Context(), id)
	if err != nil {
		if task.IsTaskError(err, task.CodeTaskNotFound) {
			http.Error(w, "任务不存在", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, found)
}

func (s *Server) handleTaskStats(w http.ResponseWriter, r *http.Request) {
	if s.tasks == nil {
		http.Error(w, "任务服务未启用", http.StatusServiceUnavailable)
		return
	}
	opts := listOptionsFromQuery(r)
	stats, err := s.tasks.Stats(r.Context(), opts...)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "agentcluster",
		"message": "NFT 分析智能体集群已就绪",
	})
}

func (s *Server) protect(next http.Handler) http.Handler {
	if s.auth == nil {
		return next
	}
	return s.auth.Middleware(next)
}

func (s *Server) instrument(name string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		metrics.ObserveHTTPRequest(name, r.Method, recorder.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func listOptionsFromQuery(r *http.Request) []task.ListOption {
	var opts []task.ListOption
	if limit := parseIntQuery(r, "limit", 0); limit > 0 {
		opts = append(opts, task.WithLimit(limit))
	}
	if offset := parseIntQuery(r, "offset", 0); offset > 0 {
		opts = append(opts, task.WithOffset(offset))
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		var statuses []task.Status
		for _, part := range strings.Split(raw, ",") {
			statuses = append(statuses, task.Status(strings.TrimSpace(part)))
		}
		opts = append(opts, task.WithStatuses(statuses...))
	}
	if q := r.URL.Query().Get("q"); q != "" {
		opts = append(opts, task.WithQuery(q))
	}
	return opts
}

func parseIntQuery(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// withContext 确保请求处理能够感知根上下文取消。
func withContext(ctx context.Context, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-ctx.Done():
			http.Error(w, "服务已关闭", http.StatusServiceUnavailable)
			return
		default:
		}
		handler.ServeHTTP(w, r)
	})
}
