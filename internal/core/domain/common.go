package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// idNamespace roots every surrogate identifier issued by the engine.
var idNamespace = uuid.MustParse("6f1c2e9a-3d4b-4f0e-9a51-2b7c8d0e1f23")

// NewID derives a stable surrogate identifier from an entity kind and its natural key.
// The same key always yields the same ID, independent of processing order.
func NewID(kind string, naturalKey ...string) string {
	name := kind + ":" + strings.Join(naturalKey, "|")
	return uuid.NewSHA1(idNamespace, []byte(name)).String()
}

// DateOf truncates t to its UTC calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
