package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
)

// PartyReader defines read operations for party data
type PartyReader interface {
	// FindPartyByID retrieves a party by its surrogate ID.
	FindPartyByID(ctx context.Context, partyID string) (*domain.Party, error)

	// FindPartyByName retrieves a party by its type and display name.
	FindPartyByName(ctx context.Context, partyType domain.PartyType, name string) (*domain.Party, error)

	// ListParties returns every party ordered by ID.
	ListParties(ctx context.Context) ([]domain.Party, error)
}

// PartyWriter defines write operations for party data
type PartyWriter interface {
	// SaveParty persists a new party. A second party with the same type and name is ErrDuplicate.
	SaveParty(ctx context.Context, party domain.Party) error
}

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its ID.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves several accounts at once, keyed by ID. Unknown IDs are omitted.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// FindAccountByCode retrieves an account by its unique code.
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// ListAccounts returns every account ordered by code.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// ListRolesByParty returns every account role held by a party.
	ListRolesByParty(ctx context.Context, partyID string) ([]domain.AccountPartyRole, error)

	// ListRolesByAccount returns every party role on an account.
	ListRolesByAccount(ctx context.Context, accountID string) ([]domain.AccountPartyRole, error)
}

// PartyAccountReader is the read side needed to resolve a party's accounts.
type PartyAccountReader interface {
	PartyReader
	AccountReader
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account together with its initial roles, atomically.
	SaveAccount(ctx context.Context, account domain.Account, roles []domain.AccountPartyRole) error

	// SaveAccountRole adds a role to an existing account.
	SaveAccountRole(ctx context.Context, role domain.AccountPartyRole) error

	// CloseAccount sets the account's close timestamp.
	CloseAccount(ctx context.Context, accountID string, closedAt time.Time) error
}

// ContractRepository defines operations for employment contracts
type ContractRepository interface {
	SaveContract(ctx context.Context, contract domain.EmploymentContract) error
	FindContractByID(ctx context.Context, contractID string) (*domain.EmploymentContract, error)
	ListContracts(ctx context.Context) ([]domain.EmploymentContract, error)
}

// AccountRepositoryFacade combines all party and account repository interfaces
type AccountRepositoryFacade interface {
	PartyReader
	PartyWriter
	AccountReader
	AccountWriter
	ContractRepository
}
