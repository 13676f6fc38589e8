package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/palemoky/booster-draft/internal/apperrors"
	"github.com/palemoky/booster-draft/internal/game/card"
	"github.com/palemoky/booster-draft/internal/logger"
	"github.com/palemoky/booster-draft/internal/protocol"
)

// Routes HTTP 路由
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/catalog", s.handleCatalog)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Get("/", s.handleListSessions)
		r.Get("/{id}", s.handleGetSession)
		r.Get("/{id}/snapshot", s.handleGetSnapshot)
	})
	return r
}

// handleCreateSession 创建会话，返回 201 和会话 ID
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	if s.IsMaintenanceMode() {
		writeError(w, http.StatusServiceUnavailable, protocol.ErrCodeMaintenance)
		return
	}
	if !s.originChecker.Check(r) {
		http.Error(w, "Origin not allowed", http.StatusForbidden)
		return
	}
	if !s.rateLimiter.Allow(GetClientIP(r)) {
		writeError(w, http.StatusTooManyRequests, protocol.ErrCodeRateLimit)
		return
	}

	sess, err := s.registry.Create(r.Context())
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, protocol.CreateSessionResponse{SessionID: sess.ID})
}

func (s *Server) handleListSessions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.List())
}

// handleGetSession 会话的大厅状态
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.registry.Lookup(chi.URLParam(r, "id"))
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.SessionState())
}

// handleGetSnapshot 从 Redis 读取最近保存的快照
func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotImplemented, protocol.ErrCodeUnknown)
		return
	}

	data, err := s.store.LoadSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		logger.L().Warnw("⚠️ 读取快照失败", "session", chi.URLParam(r, "id"), "error", err)
		writeError(w, http.StatusInternalServerError, protocol.ErrCodeUnknown)
		return
	}
	if data == nil {
		writeError(w, http.StatusNotFound, protocol.ErrCodeSessionInvalid)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// handleCatalog 当前卡表
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	cards, err := s.catalog.Load(r.Context())
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, protocol.CatalogResponse{Count: len(cards), Cards: card.Names(cards)})
}

// statusFor 业务错误对应的 HTTP 状态码
func statusFor(code int) int {
	switch code {
	case protocol.ErrCodeSessionInvalid:
		return http.StatusNotFound
	case protocol.ErrCodeInsufficientCards:
		return http.StatusUnprocessableEntity
	case protocol.ErrCodeCatalogUnavailable, protocol.ErrCodeMaintenance:
		return http.StatusServiceUnavailable
	case protocol.ErrCodeRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func writeGameError(w http.ResponseWriter, err error) {
	var gameErr *apperrors.GameError
	if errors.As(err, &gameErr) {
		writeError(w, statusFor(gameErr.Code), gameErr.Code)
		return
	}
	logger.L().Errorw("请求处理失败", "error", err)
	writeError(w, http.StatusInternalServerError, protocol.ErrCodeUnknown)
}

func writeError(w http.ResponseWriter, status, code int) {
	writeJSON(w, status, protocol.ErrorPayload{Code: code, Message: protocol.ErrorMessages[code]})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
