package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency represents a supported currency in the domain.
type Currency struct {
	Code     string `json:"code"`     // ISO 4217, e.g. "EUR"
	Name     string `json:"name"`     // e.g. "Euro"
	Exponent int32  `json:"exponent"` // Minor-unit digits, 2 for EUR, 0 for JPY
}

// FxRate is the value of one unit of Base expressed in Quote on a given date.
type FxRate struct {
	ID    string          `json:"id"`
	Base  string          `json:"base"`
	Quote string          `json:"quote"`
	Date  time.Time       `json:"date"`
	Rate  decimal.Decimal `json:"rate"`
}

// PairKey renders the currency pair as "BASE/QUOTE".
func (r FxRate) PairKey() string { return r.Base + "/" + r.Quote }

// Stale reports whether the rate is older than maxAge as seen from asOf.
func (r FxRate) Stale(asOf time.Time, maxAge time.Duration) bool {
	return asOf.Sub(r.Date) > maxAge
}
