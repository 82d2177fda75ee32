package domain

import "time"

// PartyType distinguishes people from organisations.
type PartyType string

const (
	PartyIndividual PartyType = "INDIVIDUAL"
	PartyCompany    PartyType = "COMPANY"
)

// Party is the identity root that accounts, contracts and facts hang off.
// DisplayName is unique per Type.
type Party struct {
	ID          string    `json:"id"`
	Type        PartyType `json:"type"`
	DisplayName string    `json:"displayName"`
	Country     string    `json:"country"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AccountRole is the capacity in which a party relates to an account.
type AccountRole string

const (
	RoleOwner      AccountRole = "OWNER"
	RoleJointOwner AccountRole = "JOINT_OWNER"
	RoleAuthorized AccountRole = "AUTHORIZED" // access grant, e.g. a company admin on an employee account
)

// AccountPartyRole links an account to a party through an explicit role.
type AccountPartyRole struct {
	ID        string      `json:"id"`
	AccountID string      `json:"accountID"`
	PartyID   string      `json:"partyID"`
	Role      AccountRole `json:"role"`
	StartDate time.Time   `json:"startDate"`
	EndDate   *time.Time  `json:"endDate"`
	IsPrimary bool        `json:"isPrimary"`
}

// ActiveDuring reports whether the role overlaps the half-open range [start, end).
func (r AccountPartyRole) ActiveDuring(start, end time.Time) bool {
	if !r.StartDate.Before(end) {
		return false
	}
	return r.EndDate == nil || r.EndDate.After(start)
}

// EmploymentContract ties an employee to an employer; payroll entries reference it.
type EmploymentContract struct {
	ID            string     `json:"id"`
	EmployeeID    string     `json:"employeeID"`
	EmployerID    string     `json:"employerID"`
	PositionTitle string     `json:"positionTitle"`
	StartDate     time.Time  `json:"startDate"`
	EndDate       *time.Time `json:"endDate"`
	IsPrimary     bool       `json:"isPrimary"`
}

// ActiveOn reports whether the contract covers the given date.
func (c EmploymentContract) ActiveOn(date time.Time) bool {
	if date.Before(c.StartDate) {
		return false
	}
	return c.EndDate == nil || date.Before(*c.EndDate)
}
