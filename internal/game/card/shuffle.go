package card

import "math/rand/v2"

// Shuffle 用固定种子打乱牌序，相同种子总是得到相同顺序
func Shuffle(cards []Card, seed uint64) []Card {
	out := make([]Card, len(cards))
	copy(out, cards)

	r := rand.New(rand.NewPCG(seed, seed))
	for i := len(out) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
