package generator

import (
	"hash/fnv"
	"math/rand"
	"strconv"

	"github.com/shopspring/decimal"
)

// Source derives independent, reproducible random streams from one seed.
// The same seed and key always yield the same sequence, whatever else was drawn before.
type Source struct {
	seed int64
}

// NewSource creates a source for the run seed.
func NewSource(seed int64) Source {
	return Source{seed: seed}
}

// For returns a fresh generator for the stream named by key.
func (s Source) For(key ...string) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(strconv.FormatInt(s.seed, 10)))
	for _, k := range key {
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(k))
	}
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

// intBetween draws uniformly from [lo, hi].
func intBetween(r *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.Intn(hi-lo+1)
}

// amountBetween draws uniformly from [lo, hi] and rounds to cents.
func amountBetween(r *rand.Rand, lo, hi float64) decimal.Decimal {
	return decimal.NewFromFloat(lo + r.Float64()*(hi-lo)).Round(2)
}

func pick[T any](r *rand.Rand, items []T) T {
	return items[r.Intn(len(items))]
}
