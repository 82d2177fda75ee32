package services

import (
	"context"
	"time"

	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
	"github.com/SscSPs/portfolio_ledger/internal/dto"
)

// PartySvc defines operations on parties and employment contracts
type PartySvc interface {
	CreateParty(ctx context.Context, req dto.CreatePartyRequest) (*domain.Party, error)
	GetParty(ctx context.Context, partyID string) (*domain.Party, error)
	CreateContract(ctx context.Context, req dto.CreateContractRequest) (*domain.EmploymentContract, error)
}

// AccountSvc defines operations on accounts and their party roles
type AccountSvc interface {
	// OpenAccount creates an account and its initial party roles in one step.
	OpenAccount(ctx context.Context, req dto.OpenAccountRequest) (*domain.Account, error)

	// GrantAccess adds a role for a party on an existing account.
	GrantAccess(ctx context.Context, accountID string, req dto.AccountOwnerRequest) error

	// CloseAccount stops the account from accepting postings dated on or after closedAt.
	CloseAccount(ctx context.Context, accountID string, closedAt time.Time) error

	GetAccount(ctx context.Context, accountID string) (*domain.Account, error)

	// SystemAccount returns the clearing account for a purpose and currency.
	SystemAccount(ctx context.Context, purpose domain.AccountPurpose, currency string) (*domain.Account, error)

	// EnsureSystemAccounts opens every clearing account for the currency if missing.
	EnsureSystemAccounts(ctx context.Context, currency string, openedAt time.Time) error

	// PartyAccounts returns the accounts a party holds any role on during [start, end).
	PartyAccounts(ctx context.Context, partyID string, start, end time.Time) ([]domain.Account, error)
}

// AccountSvcFacade combines all party and account service interfaces
type AccountSvcFacade interface {
	PartySvc
	AccountSvc
}
