package memory

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/portfolio_ledger/internal/core/ports/repositories"
)

var _ portsrepo.AccountRepositoryFacade = (*Store)(nil)

func partyNameKey(t domain.PartyType, name string) string { return string(t) + "|" + name }

func (s *Store) SaveParty(ctx context.Context, party domain.Party) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := partyNameKey(party.Type, party.DisplayName)
	if _, ok := s.partyByName[key]; ok {
		return duplicate("party", party.DisplayName)
	}
	if _, ok := s.parties[party.ID]; ok {
		return duplicate("party", party.ID)
	}
	s.parties[party.ID] = party
	s.partyByName[key] = party.ID
	return nil
}

func (s *Store) FindPartyByID(ctx context.Context, partyID string) (*domain.Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.parties[partyID]
	if !ok {
		return nil, notFound("party", partyID)
	}
	return &p, nil
}

func (s *Store) FindPartyByName(ctx context.Context, partyType domain.PartyType, name string) (*domain.Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.partyByName[partyNameKey(partyType, name)]
	if !ok {
		return nil, notFound("party", name)
	}
	p := s.parties[id]
	return &p, nil
}

func (s *Store) ListParties(ctx context.Context) ([]domain.Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Party, 0, len(s.parties))
	for _, p := range s.parties {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) SaveAccount(ctx context.Context, account domain.Account, roles []domain.AccountPartyRole) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accountByCode[account.Code]; ok {
		return duplicate("account", account.Code)
	}
	for _, r := range roles {
		if _, ok := s.parties[r.PartyID]; !ok {
			return notFound("party", r.PartyID)
		}
	}
	s.accounts[account.ID] = account
	s.accountByCode[account.Code] = account.ID
	for _, r := range roles {
		s.putRole(r)
	}
	return nil
}

func (s *Store) putRole(r domain.AccountPartyRole) {
	if _, ok := s.roles[r.ID]; !ok {
		s.rolesByParty[r.PartyID] = append(s.rolesByParty[r.PartyID], r.ID)
		s.rolesByAccount[r.AccountID] = append(s.rolesByAccount[r.AccountID], r.ID)
	}
	s.roles[r.ID] = r
}

func (s *Store) SaveAccountRole(ctx context.Context, role domain.AccountPartyRole) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[role.AccountID]; !ok {
		return notFound("account", role.AccountID)
	}
	if _, ok := s.parties[role.PartyID]; !ok {
		return notFound("party", role.PartyID)
	}
	s.putRole(role)
	return nil
}

func (s *Store) CloseAccount(ctx context.Context, accountID string, closedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[accountID]
	if !ok {
		return notFound("account", accountID)
	}
	acc.ClosedAt = &closedAt
	s.accounts[accountID] = acc
	return nil
}

func (s *Store) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[accountID]
	if !ok {
		return nil, notFound("account", accountID)
	}
	return &acc, nil
}

func (s *Store) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if acc, ok := s.accounts[id]; ok {
			out[id] = acc
		}
	}
	return out, nil
}

func (s *Store) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.accountByCode[code]
	if !ok {
		return nil, notFound("account", code)
	}
	acc := s.accounts[id]
	return &acc, nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		out = append(out, acc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (s *Store) rolesFor(ids []string) []domain.AccountPartyRole {
	out := make([]domain.AccountPartyRole, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.roles[id])
	}
	return out
}

func (s *Store) ListRolesByParty(ctx context.Context, partyID string) ([]domain.AccountPartyRole, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rolesFor(s.rolesByParty[partyID]), nil
}

func (s *Store) ListRolesByAccount(ctx context.Context, accountID string) ([]domain.AccountPartyRole, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rolesFor(s.rolesByAccount[accountID]), nil
}

func (s *Store) SaveContract(ctx context.Context, contract domain.EmploymentContract) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contracts[contract.ID]; ok {
		return duplicate("contract", contract.ID)
	}
	s.contracts[contract.ID] = contract
	return nil
}

func (s *Store) FindContractByID(ctx context.Context, contractID string) (*domain.EmploymentContract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.contracts[contractID]
	if !ok {
		return nil, notFound("contract", contractID)
	}
	return &c, nil
}

func (s *Store) ListContracts(ctx context.Context) ([]domain.EmploymentContract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.EmploymentContract, 0, len(s.contracts))
	for _, c := range s.contracts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
