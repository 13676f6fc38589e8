package server

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/palemoky/booster-draft/internal/auth"
	"github.com/palemoky/booster-draft/internal/config"
	"github.com/palemoky/booster-draft/internal/game/card"
	"github.com/palemoky/booster-draft/internal/game/draft"
	"github.com/palemoky/booster-draft/internal/logger"
	"github.com/palemoky/booster-draft/internal/protocol"
	"github.com/palemoky/booster-draft/internal/server/handler"
	"github.com/palemoky/booster-draft/internal/server/storage"
)

// Server WebSocket 与 HTTP 服务器
type Server struct {
	config   *config.Config
	store    *storage.RedisStore
	registry *draft.Registry
	catalog  card.Catalog
	tokens   *auth.Issuer
	handler  *handler.Handler
	upgrader websocket.Upgrader

	clients   map[string]*Client
	clientsMu sync.RWMutex

	// 安全组件
	rateLimiter    *RateLimiter
	originChecker  *OriginChecker
	messageLimiter *MessageRateLimiter

	// 连接控制
	maxConnections int
	semaphore      chan struct{}

	// 维护模式
	maintenanceMode bool
	maintenanceMu   sync.RWMutex

	done      chan struct{}
	closeOnce sync.Once
}

// NewServer 创建服务器实例，store 为 nil 时不保存会话快照
func NewServer(cfg *config.Config, catalog card.Catalog, store *storage.RedisStore) (*Server, error) {
	tokens, err := auth.NewIssuer(cfg.Auth.Secret, cfg.Auth.TokenTTLDuration())
	if err != nil {
		return nil, fmt.Errorf("create token issuer: %w", err)
	}

	s := &Server{
		config:  cfg,
		store:   store,
		catalog: catalog,
		tokens:  tokens,
		clients: make(map[string]*Client),
		rateLimiter: NewRateLimiter(
			cfg.Security.RateLimit.MaxPerSecond,
			cfg.Security.RateLimit.MaxPerMinute,
			cfg.Security.RateLimit.BanDurationTime(),
		),
		originChecker:  NewOriginChecker(cfg.Security.AllowedOrigins),
		messageLimiter: NewMessageRateLimiter(cfg.Security.MessageLimit.MaxPerSecond),
		maxConnections: cfg.Server.MaxConnections,
		semaphore:      make(chan struct{}, cfg.Server.MaxConnections),
		done:           make(chan struct{}),
	}

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.originChecker.Check,
	}

	// 接口值不能持有 nil 指针
	var snapshots draft.Store
	if store != nil {
		snapshots = store
	}
	s.registry = draft.NewRegistry(DraftConfig(cfg), catalog, s, snapshots)

	s.handler = handler.NewHandler(handler.HandlerDeps{
		Server:   s,
		Registry: s.registry,
		Tokens:   tokens,
	})

	logger.L().Infow("🔒 安全配置",
		"conn_per_second", cfg.Security.RateLimit.MaxPerSecond,
		"msg_per_second", cfg.Security.MessageLimit.MaxPerSecond,
		"max_connections", cfg.Server.MaxConnections)

	return s, nil
}

// DraftConfig 把服务端配置转换为选牌配置
func DraftConfig(cfg *config.Config) draft.Config {
	return draft.Config{
		PackSize:     cfg.Draft.PackSize,
		Rounds:       cfg.Draft.Rounds,
		MaxPlayers:   cfg.Draft.MaxPlayers,
		Seed:         cfg.Draft.Seed,
		Grace:        cfg.Draft.GraceDuration(),
		PrefillBots:  cfg.Draft.Prefill(),
		LobbyTimeout: cfg.Draft.LobbyTimeoutDuration(),
		FinishedTTL:  cfg.Draft.FinishedTTLDuration(),
	}
}

// Registry 会话注册表
func (s *Server) Registry() *draft.Registry {
	return s.registry
}

// HTTPServer 创建监听配置地址的 http.Server
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port),
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second, // 防止 Slowloris 攻击
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// Send 实现 draft.Notifier，向连接投递消息
func (s *Server) Send(connID string, msg *protocol.Message) {
	if c := s.client(connID); c != nil {
		c.SendMessage(msg)
	}
}

// Kick 实现 draft.Notifier，发送最后一条消息后断开连接
func (s *Server) Kick(connID string, msg *protocol.Message) {
	if c := s.client(connID); c != nil {
		c.SendMessage(msg)
		c.Close()
	}
}

func (s *Server) client(id string) *Client {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return s.clients[id]
}

// GetOnlineCount 在线连接数
func (s *Server) GetOnlineCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}
