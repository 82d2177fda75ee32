package domain

import (
	"time"
)

// AccountPurpose marks the engine-owned clearing accounts that absorb the
// other leg of external cash movements. Customer accounts have no purpose.
type AccountPurpose string

const (
	PurposeCustomer   AccountPurpose = ""
	PurposeSettlement AccountPurpose = "SETTLEMENT"
	PurposeFees       AccountPurpose = "FEES"
	PurposeExternal   AccountPurpose = "EXTERNAL"
	PurposeTax        AccountPurpose = "TAX"
)

// Account represents a financial account within the core domain.
// Ownership is expressed through AccountPartyRole rows, never on the account itself.
type Account struct {
	ID       string         `json:"id"`
	Code     string         `json:"code"`     // Unique, human-readable
	Name     string         `json:"name"`     // Display name
	TypeCode string         `json:"typeCode"` // FK -> AccountTypeInfo.Code
	Currency string         `json:"currency"` // FK -> Currency.Code
	IBAN     string         `json:"iban"`
	Purpose  AccountPurpose `json:"purpose"`
	OpenedAt time.Time      `json:"openedAt"`
	ClosedAt *time.Time     `json:"closedAt"` // Nil while open
}

// IsClosedOn reports whether the account no longer accepts postings dated on.
func (a Account) IsClosedOn(on time.Time) bool {
	return a.ClosedAt != nil && !on.Before(*a.ClosedAt)
}

// SystemAccountCode is the code of the clearing account for a purpose and currency.
func SystemAccountCode(purpose AccountPurpose, currency string) string {
	return "SYS-" + string(purpose) + "-" + currency
}

// Account type codes the engine relies on; the catalog must define them.
const (
	AccountTypeChecking  = "checking"
	AccountTypeSavings   = "savings"
	AccountTypeBrokerage = "brokerage"
	AccountTypeOperating = "operating"
	AccountTypeClearing  = "clearing"
)

// ClearingHouseName is the display name of the company party that owns every system account.
const ClearingHouseName = "Clearing House"

// SystemPurposes lists the clearing account purposes opened per currency.
var SystemPurposes = []AccountPurpose{PurposeSettlement, PurposeFees, PurposeExternal, PurposeTax}
