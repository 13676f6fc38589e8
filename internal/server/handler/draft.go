package handler

import (
	"errors"

	"github.com/palemoky/booster-draft/internal/apperrors"
	"github.com/palemoky/booster-draft/internal/protocol"
	"github.com/palemoky/booster-draft/internal/protocol/codec"
	"github.com/palemoky/booster-draft/internal/types"
)

// handlePick 选牌，失败以 draftError 回复
func (h *Handler) handlePick(client types.ClientInterface, msg *protocol.Message) {
	payload, ok := parse[protocol.PickCardPayload](client, msg)
	if !ok {
		return
	}
	s, err := h.registry.Lookup(payload.SessionID)
	if err != nil {
		sendDraftError(client, err)
		return
	}
	if err := s.Pick(client.GetID(), payload.CardID); err != nil {
		sendDraftError(client, err)
	}
}

// sendDraftError 选牌路径的业务错误一律以 draftError 回复
func sendDraftError(client types.ClientInterface, err error) {
	var gameErr *apperrors.GameError
	if errors.As(err, &gameErr) {
		client.SendMessage(codec.NewDraftErrorMessage(gameErr.Code))
		return
	}
	sendError(client, err)
}
