package server

import (
	"net/http"

	"github.com/palemoky/booster-draft/internal/logger"
	"github.com/palemoky/booster-draft/internal/protocol"
	"github.com/palemoky/booster-draft/internal/protocol/codec"
)

// handleWebSocket 处理 WebSocket 连接
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	clientIP := GetClientIP(r)

	// 维护模式检查（最优先）
	if s.IsMaintenanceMode() {
		logger.L().Infow("🔧 维护模式，拒绝新连接", "ip", clientIP)
		http.Error(w, "Server is under maintenance, please try again later", http.StatusServiceUnavailable)
		return
	}

	// 连接数限制，连接关闭时释放
	select {
	case s.semaphore <- struct{}{}:
	default:
		logger.L().Warnw("🚫 达到最大连接数限制", "max", s.maxConnections, "ip", clientIP)
		http.Error(w, "Server Full", http.StatusServiceUnavailable)
		return
	}
	release := func() { <-s.semaphore }

	if !s.originChecker.Check(r) {
		release()
		logger.L().Warnw("🚫 来源验证失败", "origin", r.Header.Get("Origin"), "ip", clientIP)
		http.Error(w, "Origin not allowed", http.StatusForbidden)
		return
	}

	if !s.rateLimiter.Allow(clientIP) {
		release()
		logger.L().Warnw("🚫 请求过于频繁", "ip", clientIP)
		http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		release()
		logger.L().Debugw("WebSocket 升级失败", "ip", clientIP, "error", err)
		return
	}

	client := NewClient(s, conn)
	client.IP = clientIP
	s.registerClient(client)

	client.SendMessage(codec.MustNewMessage(protocol.MsgConnected, protocol.ConnectedPayload{
		ConnectionID: client.ID,
	}))
	logger.L().Infow("✅ 新连接", "conn", client.ID, "ip", clientIP)

	go func() {
		defer release()
		client.ReadPump()
	}()
	go client.WritePump()
}

// handleHealth 健康检查接口
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) registerClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[client.ID] = client
}

func (s *Server) unregisterClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	if _, ok := s.clients[client.ID]; ok {
		delete(s.clients, client.ID)
		logger.L().Infow("❌ 连接断开", "conn", client.ID, "ip", client.IP)
	}
}
