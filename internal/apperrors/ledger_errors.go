package apperrors

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// UnbalancedEntryError is returned when the signed sum of an entry's lines is not zero.
type UnbalancedEntryError struct {
	EntryCode string
	Currency  string
	Residue   decimal.Decimal
}

func (e *UnbalancedEntryError) Error() string {
	return fmt.Sprintf("journal entry %s does not balance: residue %s %s", e.EntryCode, e.Residue.String(), e.Currency)
}

func (e *UnbalancedEntryError) Is(target error) bool { return target == ErrInvariantViolation }

// ClosedAccountError is returned when a line or trade references an account closed on the given date.
type ClosedAccountError struct {
	AccountID string
	ClosedAt  time.Time
	On        time.Time
}

func (e *ClosedAccountError) Error() string {
	return fmt.Sprintf("account %s is closed since %s and cannot be used on %s",
		e.AccountID, e.ClosedAt.Format(dateLayout), e.On.Format(dateLayout))
}

func (e *ClosedAccountError) Is(target error) bool { return target == ErrInvariantViolation }

// DuplicateEntryCodeError is returned when a code is reused with different content.
type DuplicateEntryCodeError struct {
	Kind string
	Code string
}

func (e *DuplicateEntryCodeError) Error() string {
	return fmt.Sprintf("%s code %s already exists with different content", e.Kind, e.Code)
}

func (e *DuplicateEntryCodeError) Is(target error) bool {
	return target == ErrInvariantViolation || target == ErrDuplicate
}

// CurrencyMismatchError is returned when a line's currency differs from its entry or account.
type CurrencyMismatchError struct {
	EntryCode string
	AccountID string
	Expected  string
	Got       string
}

func (e *CurrencyMismatchError) Error() string {
	if e.AccountID == "" {
		return fmt.Sprintf("journal entry %s mixes currencies: expected %s, got %s", e.EntryCode, e.Expected, e.Got)
	}
	return fmt.Sprintf("journal entry %s: account %s is held in %s, line is in %s", e.EntryCode, e.AccountID, e.Expected, e.Got)
}

func (e *CurrencyMismatchError) Is(target error) bool { return target == ErrInvariantViolation }

// InsufficientHoldingError is returned when a sell exceeds the open quantity.
type InsufficientHoldingError struct {
	AccountID    string
	InstrumentID string
	Held         decimal.Decimal
	Requested    decimal.Decimal
}

func (e *InsufficientHoldingError) Error() string {
	return fmt.Sprintf("cannot sell %s of instrument %s in account %s: only %s held",
		e.Requested.String(), e.InstrumentID, e.AccountID, e.Held.String())
}

func (e *InsufficientHoldingError) Is(target error) bool { return target == ErrInvariantViolation }

// NegativeQuantityOrPriceError is returned for non-positive quantities or prices and negative fees or taxes.
type NegativeQuantityOrPriceError struct {
	Field string
	Value decimal.Decimal
}

func (e *NegativeQuantityOrPriceError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Value.String())
}

func (e *NegativeQuantityOrPriceError) Is(target error) bool {
	return target == ErrInvariantViolation || target == ErrValidation
}

// MissingPriceDataError is returned when no quote or rate exists at or before the requested date.
type MissingPriceDataError struct {
	Kind string // "price" or "fx"
	Key  string
	AsOf time.Time
}

func (e *MissingPriceDataError) Error() string {
	return fmt.Sprintf("no %s data for %s on or before %s", e.Kind, e.Key, e.AsOf.Format(dateLayout))
}

func (e *MissingPriceDataError) Is(target error) bool { return target == ErrMissingReference }

// MissingReferenceDataError is returned when an account, party, instrument or lookup value is unknown.
type MissingReferenceDataError struct {
	Entity string
	Key    string
}

func (e *MissingReferenceDataError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Entity, e.Key)
}

func (e *MissingReferenceDataError) Is(target error) bool {
	return target == ErrMissingReference || target == ErrNotFound
}

// PeriodNotClosedError is returned when facts are requested before the data cutoff reaches the period end.
type PeriodNotClosedError struct {
	Label           string
	End             time.Time
	CompleteThrough time.Time
}

func (e *PeriodNotClosedError) Error() string {
	return fmt.Sprintf("period %s ends %s but data is only complete through %s",
		e.Label, e.End.Format(dateLayout), e.CompleteThrough.Format(dateLayout))
}

func (e *PeriodNotClosedError) Is(target error) bool { return target == ErrPeriodNotClosed }
