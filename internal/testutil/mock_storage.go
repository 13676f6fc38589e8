//go:build !production

package testutil

import (
	"context"
	"fmt"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/booster-draft/internal/game/card"
	"github.com/palemoky/booster-draft/internal/server/storage"
)

// MockStore 会话快照存储 mock
type MockStore struct {
	mock.Mock
}

func (m *MockStore) SaveSession(ctx context.Context, data *storage.SessionData) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockStore) DeleteSession(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// StaticCatalog 内存卡表
type StaticCatalog struct {
	Cards []card.Card
	Err   error
}

// NewStaticCatalog 生成 n 张名为 "Card i" 的牌
func NewStaticCatalog(n int) *StaticCatalog {
	cards := make([]card.Card, n)
	for i := range cards {
		cards[i] = card.Card{ID: i, Name: fmt.Sprintf("Card %d", i)}
	}
	return &StaticCatalog{Cards: cards}
}

func (c *StaticCatalog) Load(context.Context) ([]card.Card, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	return c.Cards, nil
}
