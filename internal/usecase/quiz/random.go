package quiz

import (
	"math/rand"
	"time"
)

// Rand is the randomness the engine consumes. *rand.Rand satisfies it, so tests can pin a
// sequence with rand.New(rand.NewSource(seed)).
type Rand interface {
	Intn(n int) int
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// NewRand returns a time-seeded source.
func NewRand() Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func shuffle[T any](rnd Rand, items []T) []T {
	out := append([]T(nil), items...)
	rnd.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
