package draft

import (
	"time"

	"github.com/palemoky/booster-draft/internal/logger"
)

// graceTimer 断线宽限计时器，按座位 ID 存放
type graceTimer struct {
	timer     *time.Timer
	expiresAt time.Time
}

// Disconnect 连接断开：解除绑定并开始宽限计时，返回连接是否在本会话中
func (s *Session) Disconnect(connID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	seat := s.seatByConn(connID)
	if seat == nil {
		return false
	}

	h, _ := seat.Human()
	h.ConnID = ""
	s.startGraceTimer(seat.ID)

	logger.L().Infow("📴 玩家掉线", "session", s.ID, "player", h.Name, "seat", seat.ID, "grace", s.cfg.Grace)
	s.commit()
	return true
}

func (s *Session) startGraceTimer(seatID int) {
	s.cancelGraceTimer(seatID)

	gt := &graceTimer{expiresAt: s.now().Add(s.cfg.Grace)}
	gt.timer = time.AfterFunc(s.cfg.Grace, func() { s.expireGrace(seatID, gt) })
	s.timers[seatID] = gt
}

// cancelGraceTimer 调用方持有锁；已触发但还在等锁的回调会发现计时器已被替换而直接返回
func (s *Session) cancelGraceTimer(seatID int) {
	gt, ok := s.timers[seatID]
	if !ok {
		return
	}
	gt.timer.Stop()
	delete(s.timers, seatID)
}

func (s *Session) stopAllTimers() {
	for id := range s.timers {
		s.cancelGraceTimer(id)
	}
}

// expireGrace 宽限到期：座位交给机器人
func (s *Session) expireGrace(seatID int, gt *graceTimer) {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}
	}()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.timers[seatID] != gt {
		return
	}
	delete(s.timers, seatID)

	seat := s.seatByID(seatID)
	if seat == nil {
		return
	}
	h, ok := seat.Human()
	if !ok || h.ConnID != "" {
		return
	}

	wasOwner := h.Owner
	s.convertToBot(seat)
	logger.L().Infow("⏰ 断线超时，座位交给机器人", "session", s.ID, "player", h.Name, "seat", seatID, "bot", seat.Name())

	if wasOwner {
		s.transferOwnership()
	}

	switch s.state {
	case StateLobby:
		if s.connectedHumans() == 0 {
			logger.L().Infow("🏠 会话已解散", "session", s.ID, "reason", "no connected players")
			s.close()
			return
		}
	case StateDrafting:
		s.resolve()
	}
	s.commit()
}

// PendingTimers 等待中的宽限计时器数量
func (s *Session) PendingTimers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
