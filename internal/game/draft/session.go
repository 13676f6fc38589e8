package draft

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/palemoky/booster-draft/internal/game/card"
)

// Config 选牌会话配置
type Config struct {
	PackSize    int
	Rounds      int
	MaxPlayers  int
	Seed        uint64        // 洗牌种子，所有会话共用
	Grace       time.Duration // 断线宽限
	PrefillBots bool          // 创建时用机器人占满座位

	LobbyTimeout time.Duration // 无人连接的大厅保留时长
	FinishedTTL  time.Duration // 已结束会话保留时长，0 表示一直保留
}

// Session 一场选牌
//
// 所有字段由 mu 保护；每个对外操作在持锁期间完成校验、修改和广播。
type Session struct {
	ID        string
	CreatedAt time.Time

	cfg     Config
	catalog []card.Card
	pool    []card.Card  // 洗牌后截取的牌池
	packs   []*card.Pack // 下标 round*len(seats) + 座位位置

	seats      []*Seat
	nextSeatID int

	held   map[int]*card.Pack // 座位 ID → 当前手上的牌包，开始前为 nil
	picked map[int]struct{}   // 本步已选的座位 ID
	round  int
	pick   int
	state  State
	kicked map[string]struct{} // 被踢出的名字，永久禁止加入
	timers map[int]*graceTimer // 座位 ID → 断线宽限计时器

	finishedAt time.Time
	closed     bool

	rng      *rand.Rand
	now      func() time.Time
	notifier Notifier
	persist  func(*Session)
	teardown func(*Session)

	mu sync.Mutex
}

func newSession(id string, cfg Config, catalog, pool []card.Card, packs []*card.Pack) *Session {
	s := &Session{
		ID:        id,
		CreatedAt: time.Now(),
		cfg:       cfg,
		catalog:   catalog,
		pool:      pool,
		packs:     packs,
		seats:     make([]*Seat, 0, cfg.MaxPlayers),
		picked:    make(map[int]struct{}),
		kicked:    make(map[string]struct{}),
		timers:    make(map[int]*graceTimer),
		rng:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:       time.Now,
		notifier:  nopNotifier{},
		persist:   func(*Session) {},
		teardown:  func(*Session) {},
	}
	if cfg.PrefillBots {
		s.fillWithBots()
	}
	return s
}

// State 当前状态
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Catalog 完整卡表
func (s *Session) Catalog() []card.Card {
	return s.catalog
}

// PoolSize 牌池大小
func (s *Session) PoolSize() int {
	return len(s.pool)
}

// Packs 所有牌包
func (s *Session) Packs() []*card.Pack {
	return s.packs
}

// Closed 是否已解散
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// fillWithBots 用机器人补满座位
func (s *Session) fillWithBots() {
	for len(s.seats) < s.cfg.MaxPlayers {
		s.addSeat(&Bot{Name: s.nextBotName(len(s.seats) + 1)})
	}
}

func (s *Session) addSeat(o Occupant) *Seat {
	seat := &Seat{ID: s.nextSeatID, Occupant: o}
	s.nextSeatID++
	s.seats = append(s.seats, seat)
	return seat
}

func (s *Session) seatByName(name string) *Seat {
	for _, seat := range s.seats {
		if seat.Name() == name {
			return seat
		}
	}
	return nil
}

func (s *Session) seatByID(id int) *Seat {
	for _, seat := range s.seats {
		if seat.ID == id {
			return seat
		}
	}
	return nil
}

func (s *Session) seatByConn(connID string) *Seat {
	if connID == "" {
		return nil
	}
	for _, seat := range s.seats {
		if h, ok := seat.Human(); ok && h.ConnID == connID {
			return seat
		}
	}
	return nil
}

func (s *Session) indexOf(seat *Seat) int {
	for i, other := range s.seats {
		if other == seat {
			return i
		}
	}
	return -1
}

func (s *Session) humans() int {
	n := 0
	for _, seat := range s.seats {
		if !seat.IsBot() {
			n++
		}
	}
	return n
}

func (s *Session) connectedHumans() int {
	n := 0
	for _, seat := range s.seats {
		if seat.Connected() {
			n++
		}
	}
	return n
}

// canStart 至少两名真人且所有真人已准备
func (s *Session) canStart() bool {
	if s.humans() < 2 {
		return false
	}
	for _, seat := range s.seats {
		if !seat.Ready() {
			return false
		}
	}
	return true
}

func (s *Session) owner() *Seat {
	for _, seat := range s.seats {
		if seat.IsOwner() {
			return seat
		}
	}
	return nil
}

// isOwnerConn 连接是否绑定在房主座位上
func (s *Session) isOwnerConn(connID string) bool {
	seat := s.seatByConn(connID)
	return seat != nil && seat.IsOwner()
}

// ensureOwner 没有房主时让 seat 成为房主
func (s *Session) ensureOwner(seat *Seat) {
	if s.owner() != nil {
		return
	}
	if h, ok := seat.Human(); ok {
		h.Owner = true
	}
}

// transferOwnership 把房主交给第一个在线的真人，没有则空缺
func (s *Session) transferOwnership() {
	for _, seat := range s.seats {
		if h, ok := seat.Human(); ok {
			h.Owner = false
		}
	}
	for _, seat := range s.seats {
		if h, ok := seat.Human(); ok && h.ConnID != "" {
			h.Owner = true
			return
		}
	}
}

// convertToBot 座位交给机器人，保留选牌记录
func (s *Session) convertToBot(seat *Seat) {
	seat.Occupant = &Bot{Name: s.syntheticBotName()}
}

// unbindConn 解除连接在本会话中除 keep 以外座位上的绑定
//
// 被放弃的座位和掉线一样进入宽限计时，到期交给机器人。
func (s *Session) unbindConn(connID string, keep *Seat) {
	for _, seat := range s.seats {
		if seat == keep {
			continue
		}
		if h, ok := seat.Human(); ok && h.ConnID == connID {
			h.ConnID = ""
			h.Ready = false
			if h.Owner {
				s.transferOwnership()
			}
			s.startGraceTimer(seat.ID)
		}
	}
}

// close 解散会话，调用方持有锁
func (s *Session) close() {
	if s.closed {
		return
	}
	s.closed = true
	s.stopAllTimers()
	s.teardown(s)
}

// expired 是否应被清理，调用方持有锁
func (s *Session) expired(now time.Time) bool {
	if s.closed {
		return false
	}
	switch s.state {
	case StateLobby:
		return s.cfg.LobbyTimeout > 0 && s.connectedHumans() == 0 && len(s.timers) == 0 &&
			now.Sub(s.CreatedAt) > s.cfg.LobbyTimeout
	case StateFinished:
		return s.cfg.FinishedTTL > 0 && now.Sub(s.finishedAt) > s.cfg.FinishedTTL
	default:
		return false
	}
}
