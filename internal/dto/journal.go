package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PostEntryRequest defines the data needed to post a journal entry.
type PostEntryRequest struct {
	Code                string             `json:"code" validate:"required,max=64"`
	TxnDate             time.Time          `json:"txnDate" validate:"required"`
	PostedAt            time.Time          `json:"postedAt"` // Defaults to TxnDate
	Description         string             `json:"description" validate:"max=255"`
	Currency            string             `json:"currency" validate:"required,len=3"`
	ChannelCode         string             `json:"channelCode" validate:"omitempty,oneof=SEPA CARD INTERNAL BROKER PAYROLL"`
	CounterpartyPartyID string             `json:"counterpartyPartyID"`
	TransferReference   string             `json:"transferReference"`
	ExternalReference   string             `json:"externalReference"`
	ContractID          string             `json:"contractID"`
	Lines               []EntryLineRequest `json:"lines" validate:"dive"`
}

// EntryLineRequest is one line of a PostEntryRequest.
type EntryLineRequest struct {
	AccountID  string          `json:"accountID" validate:"required"`
	Amount     decimal.Decimal `json:"amount"` // Signed; positive is an inflow to the account
	Currency   string          `json:"currency" validate:"required,len=3"`
	CategoryID string          `json:"categoryID"`
	Memo       string          `json:"memo" validate:"max=255"`
}
