package card

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func makeCards(n int) []Card {
	cards := make([]Card, n)
	for i := range cards {
		cards[i] = Card{ID: i, Name: fmt.Sprintf("Card %d", i)}
	}
	return cards
}

func TestShuffle_Deterministic(t *testing.T) {
	t.Parallel()

	cards := makeCards(360)

	first := Shuffle(cards, 50292030)
	second := Shuffle(cards, 50292030)
	assert.Equal(t, first, second)
	assert.NotEqual(t, cards, first)
}

func TestShuffle_DifferentSeeds(t *testing.T) {
	t.Parallel()

	cards := makeCards(100)
	assert.NotEqual(t, Shuffle(cards, 1), Shuffle(cards, 2))
}

func TestShuffle_IsPermutation(t *testing.T) {
	t.Parallel()

	cards := makeCards(50)
	shuffled := Shuffle(cards, 7)

	assert.Len(t, shuffled, len(cards))
	assert.ElementsMatch(t, cards, shuffled)
	// Input left untouched
	assert.Equal(t, makeCards(50), cards)
}

func TestShuffle_Small(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Shuffle(nil, 1))
	assert.Equal(t, []Card{{ID: 0, Name: "Card 0"}}, Shuffle(makeCards(1), 1))
}
