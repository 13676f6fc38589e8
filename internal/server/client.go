package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/palemoky/booster-draft/internal/logger"
	"github.com/palemoky/booster-draft/internal/protocol"
	"github.com/palemoky/booster-draft/internal/protocol/codec"
)

const (
	// 写入超时
	writeWait = 10 * time.Second

	// 读取超时（pong 等待时间）
	pongWait = 60 * time.Second

	// ping 发送间隔（必须小于 pongWait）
	pingPeriod = (pongWait * 9) / 10

	// 消息最大大小
	maxMessageSize = 4096

	sendBufferSize = 256

	// 超速警告达到该次数后断开
	maxRateWarnings = 5
)

// Client 一个 WebSocket 连接
type Client struct {
	ID string // 连接 ID
	IP string

	server *Server
	conn   *websocket.Conn
	send   chan []byte

	mu     sync.RWMutex
	closed bool
}

// NewClient 创建新客户端
func NewClient(s *Server, conn *websocket.Conn) *Client {
	return &Client{
		ID:     uuid.New().String(),
		server: s,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
	}
}

// GetID 连接 ID
func (c *Client) GetID() string {
	return c.ID
}

// ReadPump 从 WebSocket 读取消息
func (c *Client) ReadPump() {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}
		c.handleDisconnect()
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.L().Debugw("读取错误", "conn", c.ID, "error", err)
			}
			return
		}

		// 消息速率限制检查
		allowed, warning := c.server.messageLimiter.AllowMessage(c.ID)
		if !allowed {
			logger.L().Warnw("⚠️ 消息过于频繁", "conn", c.ID, "ip", c.IP)
			c.SendMessage(codec.NewErrorMessage(protocol.ErrCodeRateLimit))
			if c.server.messageLimiter.GetWarningCount(c.ID) > maxRateWarnings {
				logger.L().Warnw("🚫 多次超速，断开连接", "conn", c.ID, "ip", c.IP)
				return
			}
			continue
		}
		if warning {
			c.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeRateLimit, "Slow down"))
		}

		msg := codec.GetMessage()
		if err := codec.DecodeInto(data, msg); err != nil {
			logger.L().Debugw("消息解析错误", "conn", c.ID, "error", err)
			c.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
			codec.PutMessage(msg)
			continue
		}

		c.server.handler.Handle(c, msg)
		codec.PutMessage(msg)
	}
}

// WritePump 向 WebSocket 写入消息
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// 通道已关闭
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendMessage 发送消息，不阻塞；缓冲区满时断开连接
func (c *Client) SendMessage(msg *protocol.Message) {
	data, err := codec.Encode(msg)
	if err != nil {
		logger.L().Errorw("消息编码错误", "type", msg.Type, "error", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	select {
	case c.send <- data:
	default:
		logger.L().Warnw("发送缓冲区已满", "conn", c.ID)
		c.closeLocked()
	}
}

// Close 关闭发送通道，已排队的消息仍会写出
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

func (c *Client) closeLocked() {
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// handleDisconnect 连接断开：所有绑定了该连接的座位进入宽限期
func (c *Client) handleDisconnect() {
	c.Close()
	c.server.unregisterClient(c)
	c.server.messageLimiter.RemoveClient(c.ID)
	c.server.registry.Disconnect(c.ID)
}
