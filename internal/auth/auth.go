// Package auth 提供基于静态 API Key 的接口保护。
// 客户端通过 X-API-Key 请求头或 Authorization: Bearer 携带密钥。
package auth

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nxgdiet/agentcluster/pkg/logger"
)

// Service 校验请求携带的 API Key。
type Service struct {
	enabled bool
	keys    []string
	audit   *slog.Logger
}

// NewService 构造认证服务。keys 为空时即使 enabled 也放行所有请求。
func NewService(enabled bool, keys []string) *Service {
	cleaned := make([]string, 0, len(keys))
	for _, key := range keys {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return &Service{enabled: enabled && len(cleaned) > 0, keys: cleaned, audit: logger.Audit()}
}

// Enabled 返回认证是否生效。
func (s *Service) Enabled() bool {
	return s != nil && s.enabled
}

// Authorize 校验给定密钥是否有效。
func (s *Service) Authorize(key string) bool {
	if !s.Enabled() {
		return true
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return false
	}
	for _, candidate := range s.keys {
		if subtle.ConstantTimeCompare([]byte(candidate), []byte(key)) == 1 {
			return true
		}
	}
	return false
}

// Middleware 返回保护下游 handler 的 HTTP 中间件。
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.Enabled() {
			next.ServeHTTP(w, r)
			return
		}
		if !s.Authorize(extractKey(r)) {
			s.audit.Warn("access_denied",
				slog.String("path", r.URL.Path),
				slog.String("method", r.Method),
				slog.String("remote", r.RemoteAddr),
			)
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func extractKey(r *http.Request) string {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
