package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/portfolio_ledger/internal/apperrors"
	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/portfolio_ledger/internal/core/ports/repositories"
)

// PgxAccountRepository reads accounts and roles back out of a loaded dataset.
type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

var (
	_ portsrepo.AccountReader      = (*PgxAccountRepository)(nil)
	_ portsrepo.PartyReader        = (*PgxAccountRepository)(nil)
	_ portsrepo.PartyAccountReader = (*PgxAccountRepository)(nil)
)

// NewPgxAccountRepository creates a new read repository for account data.
func NewPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{pool: pool}
}

const accountColumns = `id, code, name, type_code, currency, iban, purpose, opened_at, closed_at`

func scanAccount(row pgx.Row) (domain.Account, error) {
	var acc domain.Account
	var iban, purpose *string
	err := row.Scan(
		&acc.ID,
		&acc.Code,
		&acc.Name,
		&acc.TypeCode,
		&acc.Currency,
		&iban, // Nullable
		&purpose,
		&acc.OpenedAt,
		&acc.ClosedAt,
	)
	if iban != nil {
		acc.IBAN = *iban
	}
	if purpose != nil {
		acc.Purpose = domain.AccountPurpose(*purpose)
	}
	return acc, err
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1;`
	acc, err := scanAccount(r.pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	return &acc, nil
}

// FindAccountByCode retrieves an account by its unique code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE code = $1;`
	acc, err := scanAccount(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by code %s: %w", code, err)
	}
	return &acc, nil
}

// FindAccountsByIDs retrieves several accounts at once. Unknown IDs are omitted.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = ANY($1);`
	accounts, err := r.queryAccounts(ctx, query, accountIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		out[a.ID] = a
	}
	return out, nil
}

// ListAccounts returns every account ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return r.queryAccounts(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY code;`)
}

func (r *PgxAccountRepository) queryAccounts(ctx context.Context, query string, args ...any) ([]domain.Account, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	accounts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Account, error) {
		return scanAccount(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan accounts: %w", err)
	}
	return accounts, nil
}

// ListRolesByParty returns every account role held by a party.
func (r *PgxAccountRepository) ListRolesByParty(ctx context.Context, partyID string) ([]domain.AccountPartyRole, error) {
	return r.queryRoles(ctx, "party_id", partyID)
}

// ListRolesByAccount returns every party role on an account.
func (r *PgxAccountRepository) ListRolesByAccount(ctx context.Context, accountID string) ([]domain.AccountPartyRole, error) {
	return r.queryRoles(ctx, "account_id", accountID)
}

func (r *PgxAccountRepository) queryRoles(ctx context.Context, column, value string) ([]domain.AccountPartyRole, error) {
	query := `
		SELECT id, account_id, party_id, role, start_date, end_date, is_primary
		FROM account_party_roles
		WHERE ` + column + ` = $1
		ORDER BY id;
	`
	rows, err := r.pool.Query(ctx, query, value)
	if err != nil {
		return nil, fmt.Errorf("failed to query roles by %s %s: %w", column, value, err)
	}
	defer rows.Close()

	roles, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.AccountPartyRole, error) {
		var role domain.AccountPartyRole
		var name string
		err := row.Scan(
			&role.ID,
			&role.AccountID,
			&role.PartyID,
			&name,
			&role.StartDate,
			&role.EndDate,
			&role.IsPrimary,
		)
		role.Role = domain.AccountRole(name)
		return role, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan roles by %s %s: %w", column, value, err)
	}
	return roles, nil
}

const partyColumns = `id, type, display_name, COALESCE(country, ''), created_at`

func scanParty(row pgx.Row) (domain.Party, error) {
	var p domain.Party
	var partyType string
	err := row.Scan(&p.ID, &partyType, &p.DisplayName, &p.Country, &p.CreatedAt)
	p.Type = domain.PartyType(partyType)
	return p, err
}

// FindPartyByID retrieves a party by its surrogate ID.
func (r *PgxAccountRepository) FindPartyByID(ctx context.Context, partyID string) (*domain.Party, error) {
	query := `SELECT ` + partyColumns + ` FROM parties WHERE id = $1;`
	p, err := scanParty(r.pool.QueryRow(ctx, query, partyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find party by ID %s: %w", partyID, err)
	}
	return &p, nil
}

// FindPartyByName retrieves a party by its type and display name.
func (r *PgxAccountRepository) FindPartyByName(ctx context.Context, partyType domain.PartyType, name string) (*domain.Party, error) {
	query := `SELECT ` + partyColumns + ` FROM parties WHERE type = $1 AND display_name = $2;`
	p, err := scanParty(r.pool.QueryRow(ctx, query, string(partyType), name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find party %s %q: %w", partyType, name, err)
	}
	return &p, nil
}

// ListParties returns every party ordered by ID.
func (r *PgxAccountRepository) ListParties(ctx context.Context) ([]domain.Party, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+partyColumns+` FROM parties ORDER BY id;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query parties: %w", err)
	}
	defer rows.Close()

	parties, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Party, error) {
		return scanParty(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan parties: %w", err)
	}
	return parties, nil
}
