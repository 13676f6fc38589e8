package draft

import (
	"github.com/palemoky/booster-draft/internal/apperrors"
	"github.com/palemoky/booster-draft/internal/game/card"
	"github.com/palemoky/booster-draft/internal/logger"
)

// Pick 玩家从手上的牌包中选一张牌，cardID 为牌在包内的位置
//
// 失败时不修改任何状态。
func (s *Session) Pick(connID string, cardID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return apperrors.ErrSessionInvalid
	}
	switch s.state {
	case StateLobby:
		return apperrors.ErrDraftNotStarted
	case StateFinished:
		return apperrors.ErrDraftFinished
	}

	seat := s.seatByConn(connID)
	if seat == nil {
		return apperrors.ErrPlayerNotFound
	}
	if _, done := s.picked[seat.ID]; done {
		return apperrors.ErrAlreadyPicked
	}
	pack := s.held[seat.ID]
	if pack == nil {
		return apperrors.ErrNoPackAssigned
	}
	if !pack.Available(cardID) {
		return apperrors.ErrCardNotAvailable
	}

	s.take(seat, pack, cardID)
	s.resolve()
	s.commit()
	return nil
}

// take 记录一次选牌，调用方已校验
func (s *Session) take(seat *Seat, pack *card.Pack, index int) {
	c, err := pack.Take(index)
	if err != nil {
		return
	}
	seat.Picks = append(seat.Picks, c)
	c.Owner = seat.ID
	c.PackID = s.round + 1
	c.PickNo = len(seat.Picks)
	s.picked[seat.ID] = struct{}{}
}

// resolve 机器人补选，整步完成后推进；重复直到有真人需要选牌或选牌结束
func (s *Session) resolve() {
	for s.state == StateDrafting {
		s.pickForBots()
		if len(s.picked) < len(s.seats) {
			return
		}
		s.advance()
	}
}

// pickForBots 本步还没选的机器人随机选一张
func (s *Session) pickForBots() {
	for _, seat := range s.seats {
		if !seat.IsBot() {
			continue
		}
		if _, done := s.picked[seat.ID]; done {
			continue
		}
		pack := s.held[seat.ID]
		if pack == nil {
			continue
		}
		remaining := pack.Remaining()
		if len(remaining) == 0 {
			continue
		}
		s.take(seat, pack, remaining[s.rng.IntN(len(remaining))])
	}
}

// advance 清空本步记录并传牌；一轮结束后换新牌包，最后一轮结束后选牌完成
func (s *Session) advance() {
	clear(s.picked)
	s.pick++

	if s.pick < s.cfg.PackSize {
		s.rotate()
		return
	}

	s.round++
	s.pick = 0
	if s.round >= s.cfg.Rounds {
		s.state = StateFinished
		s.finishedAt = s.now()
		logger.L().Infow("🏁 选牌结束", "session", s.ID)
		return
	}
	s.assignRound()
	logger.L().Debugw("🔄 新一轮", "session", s.ID, "round", s.round)
}

// rotate 偶数轮向左传（座位 i 的牌包交给 i-1），奇数轮向右传
func (s *Session) rotate() {
	n := len(s.seats)
	current := make([]*card.Pack, n)
	for i, seat := range s.seats {
		current[i] = s.held[seat.ID]
	}

	for i, seat := range s.seats {
		from := (i + 1) % n
		if s.round%2 == 1 {
			from = (i - 1 + n) % n
		}
		s.held[seat.ID] = current[from]
	}
}

// assignRound 按座位顺序分配本轮的初始牌包
func (s *Session) assignRound() {
	n := len(s.seats)
	for i, seat := range s.seats {
		s.held[seat.ID] = s.packs[s.round*n+i]
	}
}
