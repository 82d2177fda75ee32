package dto

import (
	"time"
)

// CreatePartyRequest defines the data needed to create a party.
type CreatePartyRequest struct {
	Type        string    `json:"type" validate:"required,oneof=INDIVIDUAL COMPANY"`
	DisplayName string    `json:"displayName" validate:"required,max=255"`
	Country     string    `json:"country" validate:"omitempty,len=2"`
	CreatedAt   time.Time `json:"createdAt"`
}

// OpenAccountRequest defines the data needed to open an account.
type OpenAccountRequest struct {
	Code     string                `json:"code" validate:"required,max=64"`
	Name     string                `json:"name" validate:"required"`
	TypeCode string                `json:"typeCode" validate:"required"`
	Currency string                `json:"currency" validate:"required,len=3"`
	IBAN     string                `json:"iban" validate:"omitempty,max=34"`
	Purpose  string                `json:"purpose" validate:"omitempty,oneof=SETTLEMENT FEES EXTERNAL TAX"`
	OpenedAt time.Time             `json:"openedAt" validate:"required"`
	Owners   []AccountOwnerRequest `json:"owners" validate:"required,min=1,dive"`
}

// AccountOwnerRequest links a party to an account being opened or granted access.
type AccountOwnerRequest struct {
	PartyID   string    `json:"partyID" validate:"required"`
	Role      string    `json:"role" validate:"required,oneof=OWNER JOINT_OWNER AUTHORIZED"`
	StartDate time.Time `json:"startDate"` // Defaults to the account's OpenedAt
	IsPrimary bool      `json:"isPrimary"`
}

// CreateContractRequest defines the data needed to record an employment contract.
type CreateContractRequest struct {
	EmployeeID    string     `json:"employeeID" validate:"required"`
	EmployerID    string     `json:"employerID" validate:"required,nefield=EmployeeID"`
	PositionTitle string     `json:"positionTitle" validate:"max=128"`
	StartDate     time.Time  `json:"startDate" validate:"required"`
	EndDate       *time.Time `json:"endDate"`
	IsPrimary     bool       `json:"isPrimary"`
}
