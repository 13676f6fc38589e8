package draft

import "github.com/palemoky/booster-draft/internal/game/card"

// Occupant 座位上的占用者：*Human 或 *Bot
type Occupant interface {
	occupantName() string
}

// Human 真人玩家
type Human struct {
	Name   string
	ConnID string // 当前绑定的连接，空表示未连接
	Ready  bool
	Owner  bool
}

// Bot 机器人，总是视为已准备
type Bot struct {
	Name string
}

func (h *Human) occupantName() string { return h.Name }
func (b *Bot) occupantName() string   { return b.Name }

// Seat 座位
//
// 座位 ID 在会话内稳定不变，选牌记录跟随座位而不是占用者。
type Seat struct {
	ID       int
	Occupant Occupant
	Picks    []*card.Card
}

// Name 占用者名字
func (s *Seat) Name() string {
	return s.Occupant.occupantName()
}

// Human 返回真人占用者
func (s *Seat) Human() (*Human, bool) {
	h, ok := s.Occupant.(*Human)
	return h, ok
}

// IsBot 是否由机器人占用
func (s *Seat) IsBot() bool {
	_, ok := s.Occupant.(*Bot)
	return ok
}

// Connected 真人且当前有连接
func (s *Seat) Connected() bool {
	h, ok := s.Human()
	return ok && h.ConnID != ""
}

// Ready 机器人总是就绪
func (s *Seat) Ready() bool {
	if h, ok := s.Human(); ok {
		return h.Ready
	}
	return true
}

// IsOwner 是否房主
func (s *Seat) IsOwner() bool {
	h, ok := s.Human()
	return ok && h.Owner
}
