package draft

import (
	"math"

	"github.com/palemoky/booster-draft/internal/apperrors"
	"github.com/palemoky/booster-draft/internal/protocol"
)

// SessionState 当前大厅状态
func (s *Session) SessionState() protocol.SessionStatePayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionState()
}

// DraftStateFor 指定玩家的选牌状态
func (s *Session) DraftStateFor(name string) (protocol.DraftStatePayload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seat := s.seatByName(name)
	if seat == nil {
		return protocol.DraftStatePayload{}, apperrors.ErrPlayerNotFound
	}
	return s.draftState(seat), nil
}

func (s *Session) sessionState() protocol.SessionStatePayload {
	now := s.now()
	payload := protocol.SessionStatePayload{
		SessionID: s.ID,
		Players:   make([]protocol.PlayerInfo, 0, len(s.seats)),
		CanStart:  s.state == StateLobby && s.canStart(),
		Started:   s.state != StateLobby,
	}

	for _, seat := range s.seats {
		info := protocol.PlayerInfo{
			Name:      seat.Name(),
			Ready:     seat.Ready(),
			Connected: seat.Connected(),
			IsOwner:   seat.IsOwner(),
			Bot:       seat.IsBot(),
		}
		if gt, ok := s.timers[seat.ID]; ok {
			remaining := max(int(math.Ceil(gt.expiresAt.Sub(now).Seconds())), 0)
			info.Disconnected = &remaining
		}
		if info.IsOwner {
			name := info.Name
			payload.Owner = &name
		}
		payload.Players = append(payload.Players, info)
	}
	return payload
}

func (s *Session) draftState(seat *Seat) protocol.DraftStatePayload {
	_, picked := s.picked[seat.ID]
	finished := s.state == StateFinished

	payload := protocol.DraftStatePayload{
		CurrentRound:     s.round,
		CurrentPick:      s.pick,
		TotalRounds:      s.cfg.Rounds,
		PackSize:         s.cfg.PackSize,
		DraftFinished:    finished,
		Pack:             []protocol.CardInfo{},
		Picks:            make([]protocol.PickInfo, 0, len(seat.Picks)),
		WaitingForOthers: picked && !finished,
	}

	if pack := s.held[seat.ID]; pack != nil && !picked && !finished {
		for _, i := range pack.Remaining() {
			payload.Pack = append(payload.Pack, protocol.CardInfo{ID: i, Name: pack.Cards[i].Name})
		}
	}
	for _, c := range seat.Picks {
		payload.Picks = append(payload.Picks, protocol.PickInfo{
			ID:         c.IndexInPack,
			Name:       c.Name,
			PackNumber: c.PackID,
			PickNumber: c.PickNo,
		})
	}
	return payload
}
