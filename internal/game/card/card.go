package card

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/palemoky/booster-draft/internal/apperrors"
)

// Card 定义一张牌
//
// ID 与 Name 来自卡表；其余字段在被选中时写入一次。
type Card struct {
	ID   int    // 在卡表中的位置
	Name string // 卡名

	Owner       int // 选中该牌的座位 ID，未选中时为 NoOwner
	PackID      int // 来源牌包所在轮次（从 1 开始）
	IndexInPack int // 在来源牌包中的位置
	PickNo      int // 该座位的第几张选牌（从 1 开始）
}

// NoOwner 尚未被选中的牌的 Owner
const NoOwner = -1

// Picked 是否已被某个座位选中
func (c *Card) Picked() bool {
	return c.Owner != NoOwner
}

// Catalog 卡表来源
type Catalog interface {
	Load(ctx context.Context) ([]Card, error)
}

// FileCatalog 从文本文件读取卡表，每行一张牌
type FileCatalog struct {
	Path string
}

// NewFileCatalog 创建文件卡表
func NewFileCatalog(path string) *FileCatalog {
	return &FileCatalog{Path: path}
}

// Load 读取卡表，读取失败返回 ErrCatalogUnavailable
func (c *FileCatalog) Load(ctx context.Context) ([]Card, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(c.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrCatalogUnavailable, err)
	}
	defer func() { _ = f.Close() }()

	cards, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrCatalogUnavailable, err)
	}
	return cards, nil
}

// Parse 解析卡表，跳过空行，ID 按出现顺序从 0 开始
func Parse(r io.Reader) ([]Card, error) {
	var cards []Card
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			continue
		}
		cards = append(cards, Card{ID: len(cards), Name: name})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cards, nil
}

// Names 返回卡名列表
func Names(cards []Card) []string {
	names := make([]string, len(cards))
	for i, c := range cards {
		names[i] = c.Name
	}
	return names
}
