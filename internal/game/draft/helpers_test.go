package draft

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/palemoky/booster-draft/internal/game/card"
	"github.com/palemoky/booster-draft/internal/testutil"
)

// scenarioConfig 两人、每包三张、一轮
func scenarioConfig() Config {
	return Config{
		PackSize:    3,
		Rounds:      1,
		MaxPlayers:  2,
		Seed:        50292030,
		Grace:       time.Hour,
		PrefillBots: true,
	}
}

func newTestRegistry(t *testing.T, cfg Config, catalogSize int) (*Registry, *testutil.RecordingNotifier) {
	t.Helper()
	notifier := testutil.NewRecordingNotifier()
	reg := NewRegistry(cfg, testutil.NewStaticCatalog(catalogSize), notifier, nil)
	t.Cleanup(reg.Close)
	return reg, notifier
}

func newTestSession(t *testing.T, cfg Config) (*Session, *testutil.RecordingNotifier, *Registry) {
	t.Helper()
	reg, notifier := newTestRegistry(t, cfg, card.PoolSize(cfg.MaxPlayers, cfg.Rounds, cfg.PackSize))
	s, err := reg.Create(context.Background())
	require.NoError(t, err)
	return s, notifier, reg
}

func mustJoin(t *testing.T, s *Session, name, connID string) {
	t.Helper()
	require.NoError(t, s.Join(name, connID))
}

// startWith 加入玩家、全部准备并由第一个玩家开始
func startWith(t *testing.T, s *Session, players map[string]string, order ...string) {
	t.Helper()
	for _, name := range order {
		mustJoin(t, s, name, players[name])
	}
	for _, name := range order {
		require.NoError(t, s.ToggleReady(players[name]))
	}
	require.NoError(t, s.Start(players[order[0]]))
	require.Equal(t, StateDrafting, s.State())
}

func seatNames(s *Session) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, len(s.seats))
	for i, seat := range s.seats {
		names[i] = seat.Name()
	}
	return names
}

func seatAt(s *Session, i int) *Seat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seats[i]
}

func heldPackID(s *Session, name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	seat := s.seatByName(name)
	if seat == nil || s.held[seat.ID] == nil {
		return -1
	}
	return s.held[seat.ID].ID
}

func cursor(s *Session) (round, pick int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.round, s.pick
}

// firstAvailable 玩家手上牌包里第一张可选的位置
func firstAvailable(t *testing.T, s *Session, name string) int {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	seat := s.seatByName(name)
	require.NotNil(t, seat)
	pack := s.held[seat.ID]
	require.NotNil(t, pack)
	remaining := pack.Remaining()
	require.NotEmpty(t, remaining)
	return remaining[0]
}
