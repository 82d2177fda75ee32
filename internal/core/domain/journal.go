package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry represents a single, balanced financial event composed of journal lines.
// Entries are append-only; corrections are new offsetting entries.
type JournalEntry struct {
	ID                  string        `json:"id"`
	Code                string        `json:"code"`    // Unique
	TxnDate             time.Time     `json:"txnDate"` // Economic date
	PostedAt            time.Time     `json:"postedAt"`
	Description         string        `json:"description"`
	Currency            string        `json:"currency"` // Every line shares it
	ChannelCode         string        `json:"channelCode"`
	CounterpartyPartyID string        `json:"counterpartyPartyID"` // Optional
	TransferReference   string        `json:"transferReference"`   // Links the legs of an internal transfer
	ExternalReference   string        `json:"externalReference"`   // e.g. trade code
	ContractID          string        `json:"contractID"`          // Payroll tag
	Lines               []JournalLine `json:"lines"`
}

// JournalLine is one signed amount against one account.
type JournalLine struct {
	ID         string          `json:"id"`
	EntryID    string          `json:"entryID"`
	LineNo     int             `json:"lineNo"`
	AccountID  string          `json:"accountID"`
	Amount     decimal.Decimal `json:"amount"` // Positive = inflow to the account
	Currency   string          `json:"currency"`
	CategoryID string          `json:"categoryID"` // Optional
	Memo       string          `json:"memo"`
}

// Sum returns the signed total of the entry's lines.
func (e JournalEntry) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range e.Lines {
		sum = sum.Add(l.Amount)
	}
	return sum
}

// IsPayroll reports whether the entry is tagged with an employment contract.
func (e JournalEntry) IsPayroll() bool { return e.ContractID != "" }

// SameContent reports whether two entries describe the same economic event.
// Posting time and surrogate IDs are ignored; amounts compare numerically.
func (e JournalEntry) SameContent(o JournalEntry) bool {
	if e.Code != o.Code ||
		!e.TxnDate.Equal(o.TxnDate) ||
		e.Description != o.Description ||
		e.Currency != o.Currency ||
		e.ChannelCode != o.ChannelCode ||
		e.CounterpartyPartyID != o.CounterpartyPartyID ||
		e.TransferReference != o.TransferReference ||
		e.ExternalReference != o.ExternalReference ||
		e.ContractID != o.ContractID ||
		len(e.Lines) != len(o.Lines) {
		return false
	}
	for i := range e.Lines {
		a, b := e.Lines[i], o.Lines[i]
		if a.AccountID != b.AccountID ||
			!a.Amount.Equal(b.Amount) ||
			a.Currency != b.Currency ||
			a.CategoryID != b.CategoryID ||
			a.Memo != b.Memo {
			return false
		}
	}
	return true
}
