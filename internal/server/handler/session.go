package handler

import (
	"strings"
	"unicode/utf8"

	"github.com/palemoky/booster-draft/internal/protocol"
	"github.com/palemoky/booster-draft/internal/protocol/codec"
	"github.com/palemoky/booster-draft/internal/types"
)

const maxNameLength = 32

// validName 名字去掉首尾空白后非空且不超过长度限制
func validName(name string) (string, bool) {
	name = strings.TrimSpace(name)
	return name, name != "" && utf8.RuneCountInString(name) <= maxNameLength
}

// handleJoin 加入会话，成功后下发重连令牌
func (h *Handler) handleJoin(client types.ClientInterface, msg *protocol.Message) {
	if h.server.IsMaintenanceMode() {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeMaintenance))
		return
	}

	payload, ok := parse[protocol.JoinSessionPayload](client, msg)
	if !ok {
		return
	}
	name, ok := validName(payload.PlayerName)
	if !ok {
		client.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeInvalidMsg, "Invalid player name"))
		return
	}

	s, ok := h.lookup(client, payload.SessionID)
	if !ok {
		return
	}
	if err := s.Join(name, client.GetID()); err != nil {
		sendError(client, err)
		return
	}
	h.sendToken(client, s.ID, name)
}

func (h *Handler) handleReady(client types.ClientInterface, msg *protocol.Message) {
	payload, ok := parse[protocol.SessionRefPayload](client, msg)
	if !ok {
		return
	}
	if s, ok := h.lookup(client, payload.SessionID); ok {
		if err := s.ToggleReady(client.GetID()); err != nil {
			sendError(client, err)
		}
	}
}

func (h *Handler) handleLeave(client types.ClientInterface, msg *protocol.Message) {
	payload, ok := parse[protocol.SessionRefPayload](client, msg)
	if !ok {
		return
	}
	if s, ok := h.lookup(client, payload.SessionID); ok {
		if err := s.Leave(client.GetID()); err != nil {
			sendError(client, err)
		}
	}
}

func (h *Handler) handleKick(client types.ClientInterface, msg *protocol.Message) {
	payload, ok := parse[protocol.KickPlayerPayload](client, msg)
	if !ok {
		return
	}
	if s, ok := h.lookup(client, payload.SessionID); ok {
		if err := s.Kick(client.GetID(), payload.PlayerName); err != nil {
			sendError(client, err)
		}
	}
}

func (h *Handler) handleReorder(client types.ClientInterface, msg *protocol.Message) {
	payload, ok := parse[protocol.ReorderPlayerPayload](client, msg)
	if !ok {
		return
	}
	if payload.Direction != protocol.DirectionUp && payload.Direction != protocol.DirectionDown {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}
	if s, ok := h.lookup(client, payload.SessionID); ok {
		if err := s.Reorder(client.GetID(), payload.PlayerName, payload.Direction); err != nil {
			sendError(client, err)
		}
	}
}

func (h *Handler) handleStart(client types.ClientInterface, msg *protocol.Message) {
	payload, ok := parse[protocol.SessionRefPayload](client, msg)
	if !ok {
		return
	}
	if s, ok := h.lookup(client, payload.SessionID); ok {
		if err := s.Start(client.GetID()); err != nil {
			sendError(client, err)
		}
	}
}
