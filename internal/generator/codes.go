package generator

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// Codes issues time-sortable business codes for entries and trades.
// Entropy comes from the run's random source, so codes repeat exactly for the same seed.
type Codes struct {
	entropy io.Reader
}

// NewCodes creates a code factory over a seeded generator.
func NewCodes(r *rand.Rand) *Codes {
	return &Codes{entropy: ulid.Monotonic(r, 0)}
}

// Next returns prefix-ULID with the ULID timestamped at t. It fails when t is past the
// ULID time range or the monotonic entropy overflows within one millisecond.
func (c *Codes) Next(prefix string, t time.Time) (string, error) {
	id, err := ulid.New(ulid.Timestamp(t.UTC()), c.entropy)
	if err != nil {
		return "", fmt.Errorf("failed to issue %s code at %s: %w", prefix, t.UTC().Format(time.RFC3339), err)
	}
	return prefix + "-" + id.String(), nil
}
