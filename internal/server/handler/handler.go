package handler

import (
	"errors"

	"github.com/palemoky/booster-draft/internal/apperrors"
	"github.com/palemoky/booster-draft/internal/auth"
	"github.com/palemoky/booster-draft/internal/game/draft"
	"github.com/palemoky/booster-draft/internal/logger"
	"github.com/palemoky/booster-draft/internal/protocol"
	"github.com/palemoky/booster-draft/internal/protocol/codec"
	"github.com/palemoky/booster-draft/internal/types"
)

// HandlerDeps 处理器依赖
type HandlerDeps struct {
	Server   types.ServerInterface
	Registry *draft.Registry
	Tokens   *auth.Issuer
}

// Handler 消息处理器
type Handler struct {
	server   types.ServerInterface
	registry *draft.Registry
	tokens   *auth.Issuer
	handlers map[protocol.MessageType]handlerFunc
}

// handlerFunc 统一的处理器函数签名
type handlerFunc func(client types.ClientInterface, msg *protocol.Message)

// NewHandler 创建处理器
func NewHandler(deps HandlerDeps) *Handler {
	h := &Handler{
		server:   deps.Server,
		registry: deps.Registry,
		tokens:   deps.Tokens,
	}
	h.initHandlers()
	return h
}

// initHandlers 初始化消息处理器映射
func (h *Handler) initHandlers() {
	h.handlers = map[protocol.MessageType]handlerFunc{
		// 连接操作
		protocol.MsgPing:         h.handlePing,
		protocol.MsgAuthenticate: h.handleAuthenticate,

		// 大厅操作
		protocol.MsgJoinSession:   h.handleJoin,
		protocol.MsgReady:         h.handleReady,
		protocol.MsgLeaveSession:  h.handleLeave,
		protocol.MsgKickPlayer:    h.handleKick,
		protocol.MsgReorderPlayer: h.handleReorder,
		protocol.MsgStartDraft:    h.handleStart,

		// 选牌操作
		protocol.MsgPickCard: h.handlePick,
	}
}

// Handle 处理消息
func (h *Handler) Handle(client types.ClientInterface, msg *protocol.Message) {
	if handler, ok := h.handlers[msg.Type]; ok {
		handler(client, msg)
		return
	}

	logger.L().Debugw("⚠️ 未知消息类型", "type", msg.Type, "conn", client.GetID(), "payload_bytes", len(msg.Payload))
	client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
}

// sendError 业务错误按错误码回复，其他错误统一为未知错误
func sendError(client types.ClientInterface, err error) {
	var gameErr *apperrors.GameError
	if errors.As(err, &gameErr) {
		client.SendMessage(codec.NewErrorMessage(gameErr.Code))
		return
	}
	logger.L().Errorw("处理消息失败", "conn", client.GetID(), "error", err)
	client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeUnknown))
}

// parse 解析负载，失败时回复 InvalidMsg
func parse[T any](client types.ClientInterface, msg *protocol.Message) (*T, bool) {
	payload, err := codec.ParsePayload[T](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return nil, false
	}
	return payload, true
}

// lookup 按 ID 查找会话，失败时回复错误
func (h *Handler) lookup(client types.ClientInterface, sessionID string) (*draft.Session, bool) {
	s, err := h.registry.Lookup(sessionID)
	if err != nil {
		sendError(client, err)
		return nil, false
	}
	return s, true
}
