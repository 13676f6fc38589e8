package card

import (
	"fmt"

	"github.com/palemoky/booster-draft/internal/apperrors"
)

// Pack 一个牌包，成员在创建后不变，只记录哪些牌已被选走
type Pack struct {
	ID     int // 全局序号
	Round  int // 所属轮次（从 0 开始）
	Cards  []*Card
	chosen []bool
}

// NewPack 创建牌包
func NewPack(id, round int, cards []*Card) *Pack {
	return &Pack{
		ID:     id,
		Round:  round,
		Cards:  cards,
		chosen: make([]bool, len(cards)),
	}
}

// Available 判断某个位置的牌是否还能被选
func (p *Pack) Available(index int) bool {
	return index >= 0 && index < len(p.Cards) && !p.chosen[index]
}

// Take 选走某个位置的牌
func (p *Pack) Take(index int) (*Card, error) {
	if !p.Available(index) {
		return nil, apperrors.ErrCardNotAvailable
	}
	p.chosen[index] = true
	return p.Cards[index], nil
}

// Remaining 返回剩余牌在包内的位置
func (p *Pack) Remaining() []int {
	out := make([]int, 0, len(p.Cards))
	for i, chosen := range p.chosen {
		if !chosen {
			out = append(out, i)
		}
	}
	return out
}

// ChosenCount 已被选走的数量
func (p *Pack) ChosenCount() int {
	n := 0
	for _, chosen := range p.chosen {
		if chosen {
			n++
		}
	}
	return n
}

// PoolSize 一场选牌需要的牌数
func PoolSize(players, rounds, packSize int) int {
	return players * rounds * packSize
}

// BuildPacks 按顺序把牌池切成 players*rounds 个牌包
//
// 第 r 轮第 s 个座位的牌包下标为 r*players + s。
func BuildPacks(cards []Card, players, rounds, packSize int) ([]*Pack, error) {
	need := PoolSize(players, rounds, packSize)
	if len(cards) < need {
		return nil, fmt.Errorf("%w: need %d, have %d", apperrors.ErrInsufficientCards, need, len(cards))
	}

	packs := make([]*Pack, 0, players*rounds)
	for i := range players * rounds {
		pool := cards[i*packSize : (i+1)*packSize]
		packCards := make([]*Card, packSize)
		for j := range pool {
			c := pool[j]
			c.IndexInPack = j
			c.Owner = NoOwner
			packCards[j] = &c
		}
		packs = append(packs, NewPack(i, i/players, packCards))
	}
	return packs, nil
}
