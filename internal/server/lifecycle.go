package server

import (
	"context"
	"runtime"
	"time"

	"github.com/palemoky/booster-draft/internal/logger"
	"github.com/palemoky/booster-draft/internal/protocol"
	"github.com/palemoky/booster-draft/internal/protocol/codec"
)

const (
	monitorInterval       = 30 * time.Second
	shutdownCheckInterval = time.Second
)

// Run 启动后台监控，ctx 结束时返回
func (s *Server) Run(ctx context.Context) {
	ticker := time.NewTicker(monitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-ticker.C:
			s.logStats()
		}
	}
}

func (s *Server) logStats() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	logger.L().Infow("📊 监控",
		"online", s.GetOnlineCount(),
		"sessions", s.registry.Count(),
		"drafting", s.registry.ActiveDrafts(),
		"goroutines", runtime.NumGoroutine(),
		"conns", len(s.semaphore),
		"max_conns", s.maxConnections,
		"alloc_mb", float64(m.Alloc)/1024/1024)
}

// EnterMaintenanceMode 进入维护模式：拒绝新连接、新会话和新加入
func (s *Server) EnterMaintenanceMode() {
	s.maintenanceMu.Lock()
	s.maintenanceMode = true
	s.maintenanceMu.Unlock()

	s.broadcast(codec.NewErrorMessage(protocol.ErrCodeMaintenance))
	logger.L().Infow("🔧 进入维护模式")
}

// IsMaintenanceMode 检查是否在维护模式
func (s *Server) IsMaintenanceMode() bool {
	s.maintenanceMu.RLock()
	defer s.maintenanceMu.RUnlock()
	return s.maintenanceMode
}

// GracefulShutdown 进入维护模式并等待进行中的选牌结束，ctx 到期后不再等待
func (s *Server) GracefulShutdown(ctx context.Context) {
	s.EnterMaintenanceMode()

	ticker := time.NewTicker(shutdownCheckInterval)
	defer ticker.Stop()

	for {
		active := s.registry.ActiveDrafts()
		if active == 0 {
			logger.L().Infow("✅ 所有选牌已结束")
			break
		}
		logger.L().Infow("⏳ 等待选牌结束", "drafting", active)

		select {
		case <-ctx.Done():
			logger.L().Warnw("⚠️ 超时，强制关闭", "drafting", s.registry.ActiveDrafts())
			s.Shutdown()
			return
		case <-ticker.C:
		}
	}
	s.Shutdown()
}

// Shutdown 关闭所有连接并停止后台任务
func (s *Server) Shutdown() {
	s.closeOnce.Do(func() {
		close(s.done)

		s.clientsMu.RLock()
		clients := make([]*Client, 0, len(s.clients))
		for _, c := range s.clients {
			clients = append(clients, c)
		}
		s.clientsMu.RUnlock()

		for _, c := range clients {
			c.Close()
		}

		s.registry.Close()
		s.rateLimiter.Stop()
		logger.L().Infow("服务器已关闭")
	})
}

// broadcast 广播消息给所有连接
func (s *Server) broadcast(msg *protocol.Message) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	for _, c := range s.clients {
		c.SendMessage(msg)
	}
}
