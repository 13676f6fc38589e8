package draft

import (
	"context"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/palemoky/booster-draft/internal/apperrors"
	"github.com/palemoky/booster-draft/internal/game/card"
	"github.com/palemoky/booster-draft/internal/logger"
	"github.com/palemoky/booster-draft/internal/protocol"
	"github.com/palemoky/booster-draft/internal/server/storage"
)

const (
	sessionIDLength = 6
	sessionIDChars  = "0123456789abcdefghijklmnopqrstuvwxyz"

	cleanupInterval = time.Minute
	persistTimeout  = 2 * time.Second
	persistBacklog  = 256
)

// Store 会话快照存储
type Store interface {
	SaveSession(ctx context.Context, data *storage.SessionData) error
	DeleteSession(ctx context.Context, id string) error
}

type persistJob struct {
	id   string
	data *storage.SessionData // nil 表示删除
}

// Registry 进程内所有会话
type Registry struct {
	cfg      Config
	catalog  card.Catalog
	notifier Notifier
	store    Store

	sessions map[string]*Session
	mu       sync.RWMutex

	jobs      chan persistJob
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewRegistry 创建会话注册表，store 为 nil 时不保存快照
func NewRegistry(cfg Config, catalog card.Catalog, notifier Notifier, store Store) *Registry {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	r := &Registry{
		cfg:      cfg,
		catalog:  catalog,
		notifier: notifier,
		store:    store,
		sessions: make(map[string]*Session),
		jobs:     make(chan persistJob, persistBacklog),
		done:     make(chan struct{}),
	}

	r.wg.Add(2)
	go r.persistLoop()
	go r.cleanupLoop()

	return r
}

// Create 加载卡表、洗牌、切分牌包并注册新会话
func (r *Registry) Create(ctx context.Context) (*Session, error) {
	cards, err := r.catalog.Load(ctx)
	if err != nil {
		logger.L().Warnw("⚠️ 卡表加载失败", "error", err)
		return nil, err
	}

	shuffled := card.Shuffle(cards, r.cfg.Seed)
	packs, err := card.BuildPacks(shuffled, r.cfg.MaxPlayers, r.cfg.Rounds, r.cfg.PackSize)
	if err != nil {
		logger.L().Warnw("⚠️ 卡牌数量不足", "catalog", len(cards), "error", err)
		return nil, err
	}
	pool := shuffled[:card.PoolSize(r.cfg.MaxPlayers, r.cfg.Rounds, r.cfg.PackSize)]

	r.mu.Lock()
	s := newSession(r.generateID(), r.cfg, cards, pool, packs)
	s.notifier = r.notifier
	s.persist = r.save
	s.teardown = r.remove
	r.sessions[s.ID] = s
	r.mu.Unlock()

	s.mu.Lock()
	r.save(s)
	s.mu.Unlock()

	logger.L().Infow("🏠 会话已创建", "session", s.ID, "packs", len(packs), "pool", len(pool))
	return s, nil
}

// Get 按 ID 获取会话
func (r *Registry) Get(id string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[id]
}

// Lookup 按 ID 获取会话，不存在返回 ErrSessionInvalid
func (r *Registry) Lookup(id string) (*Session, error) {
	s := r.Get(id)
	if s == nil {
		return nil, apperrors.ErrSessionInvalid
	}
	return s, nil
}

// Count 会话数量
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// snapshot 复制会话列表，避免持有注册表锁时获取会话锁
func (r *Registry) snapshot() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}

// List 会话摘要，按创建时间排序
func (r *Registry) List() []protocol.SessionSummary {
	sessions := r.snapshot()
	slices.SortFunc(sessions, func(a, b *Session) int { return a.CreatedAt.Compare(b.CreatedAt) })

	out := make([]protocol.SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		s.mu.Lock()
		if !s.closed {
			out = append(out, protocol.SessionSummary{
				SessionID:  s.ID,
				State:      s.state.String(),
				Humans:     s.humans(),
				Connected:  s.connectedHumans(),
				MaxPlayers: s.cfg.MaxPlayers,
				CreatedAt:  s.CreatedAt.Unix(),
			})
		}
		s.mu.Unlock()
	}
	return out
}

// ActiveDrafts 进行中的选牌数量
func (r *Registry) ActiveDrafts() int {
	n := 0
	for _, s := range r.snapshot() {
		if s.State() == StateDrafting {
			n++
		}
	}
	return n
}

// Disconnect 连接断开，通知所有绑定了该连接的会话
func (r *Registry) Disconnect(connID string) {
	for _, s := range r.snapshot() {
		s.Disconnect(connID)
	}
}

// remove 由会话在持有自身锁时调用
func (r *Registry) remove(s *Session) {
	r.mu.Lock()
	if r.sessions[s.ID] == s {
		delete(r.sessions, s.ID)
	}
	r.mu.Unlock()

	r.enqueue(persistJob{id: s.ID})
}

// save 由会话在持有自身锁时调用
func (r *Registry) save(s *Session) {
	r.enqueue(persistJob{id: s.ID, data: s.toSessionData()})
}

func (r *Registry) enqueue(job persistJob) {
	if r.store == nil {
		return
	}
	select {
	case <-r.done:
	case r.jobs <- job:
	default:
		logger.L().Warnw("⚠️ 快照队列已满，丢弃", "session", job.id)
	}
}

// persistLoop 按顺序写入快照，保证删除不会被更早的保存覆盖
func (r *Registry) persistLoop() {
	defer r.wg.Done()
	for {
		select {
		case <-r.done:
			return
		case job := <-r.jobs:
			r.persistOne(job)
		}
	}
}

func (r *Registry) persistOne(job persistJob) {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	var err error
	if job.data == nil {
		err = r.store.DeleteSession(ctx, job.id)
	} else {
		err = r.store.SaveSession(ctx, job.data)
	}
	if err != nil {
		logger.L().Warnw("⚠️ 会话快照写入失败", "session", job.id, "error", err)
	}
}

// cleanupLoop 定期清理过期会话
func (r *Registry) cleanupLoop() {
	defer r.wg.Done()
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case now := <-ticker.C:
			r.cleanup(now)
		}
	}
}

// cleanup 清理无人大厅和超过保留期的已结束会话
func (r *Registry) cleanup(now time.Time) int {
	n := 0
	for _, s := range r.snapshot() {
		s.mu.Lock()
		if s.expired(now) {
			s.close()
			logger.L().Infow("🧹 会话过期已清理", "session", s.ID, "state", s.state.String())
			n++
		}
		s.mu.Unlock()
	}
	return n
}

// Close 停止后台协程并解散所有会话的计时器
func (r *Registry) Close() {
	r.closeOnce.Do(func() {
		for _, s := range r.snapshot() {
			s.mu.Lock()
			s.stopAllTimers()
			s.mu.Unlock()
		}
		close(r.done)
		r.wg.Wait()
	})
}

// generateID 生成会话 ID，调用方持有写锁
func (r *Registry) generateID() string {
	for {
		id := make([]byte, sessionIDLength)
		for i := range id {
			id[i] = sessionIDChars[rand.IntN(len(sessionIDChars))]
		}
		if _, exists := r.sessions[string(id)]; !exists {
			return string(id)
		}
	}
}
