package draft

import (
	"github.com/palemoky/booster-draft/internal/apperrors"
	"github.com/palemoky/booster-draft/internal/game/card"
	"github.com/palemoky/booster-draft/internal/logger"
	"github.com/palemoky/booster-draft/internal/protocol"
	"github.com/palemoky/booster-draft/internal/protocol/codec"
)

// Join 玩家加入或重连
//
// 同名真人座位视为重连；否则接管同名机器人或第一个机器人座位；
// 没有机器人时在容量内追加座位。
func (s *Session) Join(name, connID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return apperrors.ErrSessionInvalid
	}
	if _, kicked := s.kicked[name]; kicked {
		return apperrors.ErrSessionInvalid
	}

	seat := s.seatByName(name)
	switch {
	case seat != nil && !seat.IsBot():
		s.rebind(seat, connID)
		logger.L().Infow("📶 玩家重连", "session", s.ID, "player", name, "seat", seat.ID)
		s.commit()
		return nil
	case seat == nil:
		seat = s.firstBot()
	}

	if seat == nil {
		if len(s.seats) >= s.cfg.MaxPlayers {
			return apperrors.ErrSessionFull
		}
		s.unbindConn(connID, nil)
		seat = s.addSeat(&Human{Name: name, ConnID: connID})
	} else {
		s.unbindConn(connID, nil)
		s.cancelGraceTimer(seat.ID)
		seat.Occupant = &Human{Name: name, ConnID: connID}
	}
	s.ensureOwner(seat)

	logger.L().Infow("👤 玩家加入", "session", s.ID, "player", name, "seat", seat.ID, "owner", seat.IsOwner())
	s.commit()
	return nil
}

// Authenticate 用已验证的身份把连接绑定到已有的真人座位，不会创建座位
func (s *Session) Authenticate(name, connID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return apperrors.ErrSessionInvalid
	}
	if _, kicked := s.kicked[name]; kicked {
		return apperrors.ErrSessionInvalid
	}
	seat := s.seatByName(name)
	if seat == nil || seat.IsBot() {
		return apperrors.ErrSessionInvalid
	}

	s.rebind(seat, connID)
	logger.L().Infow("🔑 令牌认证", "session", s.ID, "player", name, "seat", seat.ID)
	s.commit()
	return nil
}

// rebind 把连接绑到真人座位并取消其断线计时
func (s *Session) rebind(seat *Seat, connID string) {
	s.unbindConn(connID, seat)
	s.cancelGraceTimer(seat.ID)
	h, _ := seat.Human()
	h.ConnID = connID
	s.ensureOwner(seat)
}

func (s *Session) firstBot() *Seat {
	for _, seat := range s.seats {
		if seat.IsBot() {
			return seat
		}
	}
	return nil
}

// ToggleReady 切换准备状态，机器人或未绑定的连接忽略
func (s *Session) ToggleReady(connID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return apperrors.ErrSessionInvalid
	}
	seat := s.seatByConn(connID)
	if seat == nil {
		return nil
	}
	h, _ := seat.Human()
	h.Ready = !h.Ready

	s.commit()
	return nil
}

// Leave 主动离开，座位在宽限期内保留给同名玩家重新加入
func (s *Session) Leave(connID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return apperrors.ErrSessionInvalid
	}
	seat := s.seatByConn(connID)
	if seat == nil {
		return nil
	}

	h, _ := seat.Human()
	h.ConnID = ""
	h.Ready = false
	if h.Owner {
		s.transferOwnership()
	}
	logger.L().Infow("👋 玩家离开", "session", s.ID, "player", h.Name, "seat", seat.ID)

	if s.state == StateLobby && s.connectedHumans() == 0 {
		logger.L().Infow("🏠 会话已解散", "session", s.ID, "reason", "all players left")
		s.close()
		return nil
	}
	s.startGraceTimer(seat.ID)

	s.commit()
	return nil
}

// Kick 房主踢出真人玩家，座位交给机器人，名字永久禁止加入
func (s *Session) Kick(connID, target string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return apperrors.ErrSessionInvalid
	}
	if !s.isOwnerConn(connID) {
		return nil
	}

	seat := s.seatByName(target)
	if seat == nil || seat.IsBot() || seat.IsOwner() {
		return nil
	}

	h, _ := seat.Human()
	s.kicked[h.Name] = struct{}{}
	if h.ConnID != "" {
		s.notifier.Kick(h.ConnID, codec.NewErrorMessage(protocol.ErrCodeKicked))
	}
	s.cancelGraceTimer(seat.ID)
	s.convertToBot(seat)

	logger.L().Infow("🦶 玩家被踢出", "session", s.ID, "player", target, "seat", seat.ID, "bot", seat.Name())

	if s.state == StateDrafting {
		s.resolve()
	}
	s.commit()
	return nil
}

// Reorder 房主把玩家与相邻座位交换，边界处不变
func (s *Session) Reorder(connID, target, direction string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return apperrors.ErrSessionInvalid
	}
	if s.state != StateLobby || !s.isOwnerConn(connID) {
		return nil
	}

	seat := s.seatByName(target)
	if seat == nil {
		return nil
	}
	i := s.indexOf(seat)
	j := i
	switch direction {
	case protocol.DirectionUp:
		j = i - 1
	case protocol.DirectionDown:
		j = i + 1
	}
	if j == i || j < 0 || j >= len(s.seats) {
		return nil
	}

	s.seats[i], s.seats[j] = s.seats[j], s.seats[i]
	s.commit()
	return nil
}

// Start 房主开始选牌
func (s *Session) Start(connID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return apperrors.ErrSessionInvalid
	}
	if s.state != StateLobby || !s.isOwnerConn(connID) {
		return nil
	}
	if len(s.packs) == 0 {
		return apperrors.ErrInsufficientCards
	}
	if !s.canStart() {
		return apperrors.ErrCannotStart
	}

	s.fillWithBots()
	s.state = StateDrafting
	s.round = 0
	s.pick = 0
	s.held = make(map[int]*card.Pack, len(s.seats))
	s.assignRound()

	logger.L().Infow("🎴 选牌开始", "session", s.ID, "seats", len(s.seats), "humans", s.humans())

	s.resolve()
	s.commit()
	return nil
}
