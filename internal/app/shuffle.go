package app

import "math/rand/v2"

// Randomizer is the source of uniform integers in [0, n).
type Randomizer interface {
	IntN(n int) int
}

// globalRand uses the runtime-seeded top-level math/rand/v2 source, which is safe for concurrent use.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// shuffle returns a Fisher-Yates shuffled copy of items; the input is left untouched.
func shuffle[T any](rnd Randomizer, items []T) []T {
	shuffled := make([]T, len(items))
	copy(shuffled, items)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rnd.IntN(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

// selectRandom shuffles items and keeps at most limit of them. A non-positive limit keeps all.
func selectRandom[T any](rnd Randomizer, items []T, limit int) []T {
	shuffled := shuffle(rnd, items)
	if limit <= 0 || limit > len(shuffled) {
		limit = len(shuffled)
	}
	return shuffled[:limit]
}
