package handler

import (
	"time"

	"github.com/palemoky/booster-draft/internal/logger"
	"github.com/palemoky/booster-draft/internal/protocol"
	"github.com/palemoky/booster-draft/internal/protocol/codec"
	"github.com/palemoky/booster-draft/internal/types"
)

// handlePing 心跳
func (h *Handler) handlePing(client types.ClientInterface, msg *protocol.Message) {
	payload, ok := parse[protocol.PingPayload](client, msg)
	if !ok {
		return
	}
	client.SendMessage(codec.MustNewMessage(protocol.MsgPong, protocol.PongPayload{
		ClientTimestamp: payload.Timestamp,
		ServerTimestamp: time.Now().UnixMilli(),
	}))
}

// handleAuthenticate 用令牌把新连接绑定回原来的座位
func (h *Handler) handleAuthenticate(client types.ClientInterface, msg *protocol.Message) {
	payload, ok := parse[protocol.AuthenticatePayload](client, msg)
	if !ok {
		return
	}

	claims, err := h.tokens.Verify(payload.Token)
	if err != nil {
		logger.L().Debugw("令牌校验失败", "conn", client.GetID(), "error", err)
		sendError(client, err)
		return
	}

	s, ok := h.lookup(client, claims.SessionID)
	if !ok {
		return
	}
	if err := s.Authenticate(claims.PlayerName, client.GetID()); err != nil {
		sendError(client, err)
		return
	}
	h.sendToken(client, claims.SessionID, claims.PlayerName)
}

// sendToken 签发新令牌并回复 authenticated
func (h *Handler) sendToken(client types.ClientInterface, sessionID, name string) {
	token, err := h.tokens.Issue(sessionID, name)
	if err != nil {
		logger.L().Errorw("签发令牌失败", "session", sessionID, "player", name, "error", err)
		return
	}
	client.SendMessage(codec.MustNewMessage(protocol.MsgAuthenticated, protocol.AuthenticatedPayload{
		Token:      token,
		SessionID:  sessionID,
		PlayerName: name,
	}))
}
