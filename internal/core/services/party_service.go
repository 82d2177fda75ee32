package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/portfolio_ledger/internal/apperrors"
	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/portfolio_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/portfolio_ledger/internal/core/ports/services"
	"github.com/SscSPs/portfolio_ledger/internal/dto"
)

// accountService implements portssvc.AccountSvcFacade over parties, accounts, roles and contracts.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	refSvc      portssvc.ReferenceReaderSvc
}

// NewAccountService creates a new party and account service.
func NewAccountService(repo portsrepo.AccountRepositoryFacade, refSvc portssvc.ReferenceReaderSvc) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: repo, refSvc: refSvc}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateParty(ctx context.Context, req dto.CreatePartyRequest) (*domain.Party, error) {
	if err := s.ValidateRequest(req); err != nil {
		return nil, err
	}
	party := domain.Party{
		ID:          domain.NewID("party", req.Type, req.DisplayName),
		Type:        domain.PartyType(req.Type),
		DisplayName: req.DisplayName,
		Country:     req.Country,
		CreatedAt:   req.CreatedAt.UTC(),
	}
	if err := s.accountRepo.SaveParty(ctx, party); err != nil {
		s.LogError(ctx, err, "Failed to save party", slog.String("display_name", req.DisplayName))
		return nil, fmt.Errorf("failed to save party: %w", err)
	}
	s.LogDebug(ctx, "Party created", slog.String("party_id", party.ID), slog.String("type", req.Type))
	return &party, nil
}

func (s *accountService) GetParty(ctx context.Context, partyID string) (*domain.Party, error) {
	p, err := s.accountRepo.FindPartyByID(ctx, partyID)
	if err != nil {
		return nil, missingRef(err, "party", partyID)
	}
	return p, nil
}

func (s *accountService) CreateContract(ctx context.Context, req dto.CreateContractRequest) (*domain.EmploymentContract, error) {
	if err := s.ValidateRequest(req); err != nil {
		return nil, err
	}
	if _, err := s.GetParty(ctx, req.EmployeeID); err != nil {
		return nil, err
	}
	employer, err := s.GetParty(ctx, req.EmployerID)
	if err != nil {
		return nil, err
	}
	if employer.Type != domain.PartyCompany {
		return nil, fmt.Errorf("%w: employer %s is not a company", apperrors.ErrValidation, employer.ID)
	}
	if req.EndDate != nil && !req.EndDate.After(req.StartDate) {
		return nil, fmt.Errorf("%w: contract ends before it starts", apperrors.ErrValidation)
	}

	start := domain.DateOf(req.StartDate)
	contract := domain.EmploymentContract{
		ID:            domain.NewID("contract", req.EmployeeID, req.EmployerID, start.Format("2006-01-02")),
		EmployeeID:    req.EmployeeID,
		EmployerID:    req.EmployerID,
		PositionTitle: req.PositionTitle,
		StartDate:     start,
		EndDate:       req.EndDate,
		IsPrimary:     req.IsPrimary,
	}
	if err := s.accountRepo.SaveContract(ctx, contract); err != nil {
		return nil, fmt.Errorf("failed to save contract: %w", err)
	}
	return &contract, nil
}

func (s *accountService) OpenAccount(ctx context.Context, req dto.OpenAccountRequest) (*domain.Account, error) {
	if err := s.ValidateRequest(req); err != nil {
		return nil, err
	}
	if _, err := s.refSvc.GetCurrency(ctx, req.Currency); err != nil {
		return nil, err
	}
	if _, err := s.refSvc.GetAccountType(ctx, req.TypeCode); err != nil {
		return nil, err
	}

	opened := req.OpenedAt.UTC()
	account := domain.Account{
		ID:       domain.NewID("account", req.Code),
		Code:     req.Code,
		Name:     req.Name,
		TypeCode: req.TypeCode,
		Currency: req.Currency,
		IBAN:     req.IBAN,
		Purpose:  domain.AccountPurpose(req.Purpose),
		OpenedAt: opened,
	}

	roles := make([]domain.AccountPartyRole, 0, len(req.Owners))
	for _, o := range req.Owners {
		if _, err := s.GetParty(ctx, o.PartyID); err != nil {
			return nil, err
		}
		roles = append(roles, newRole(account, o, opened))
	}

	if err := s.accountRepo.SaveAccount(ctx, account, roles); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}
	s.LogDebug(ctx, "Account opened",
		slog.String("account_id", account.ID),
		slog.String("code", account.Code),
		slog.Int("roles", len(roles)))
	return &account, nil
}

func newRole(account domain.Account, o dto.AccountOwnerRequest, defaultStart time.Time) domain.AccountPartyRole {
	start := o.StartDate
	if start.IsZero() {
		start = defaultStart
	}
	start = start.UTC()
	return domain.AccountPartyRole{
		ID:        domain.NewID("account_role", account.ID, o.PartyID, o.Role, start.Format(time.RFC3339)),
		AccountID: account.ID,
		PartyID:   o.PartyID,
		Role:      domain.AccountRole(o.Role),
		StartDate: start,
		IsPrimary: o.IsPrimary,
	}
}

func (s *accountService) GrantAccess(ctx context.Context, accountID string, req dto.AccountOwnerRequest) error {
	if err := s.ValidateRequest(req); err != nil {
		return err
	}
	account, err := s.GetAccount(ctx, accountID)
	if err != nil {
		return err
	}
	if _, err := s.GetParty(ctx, req.PartyID); err != nil {
		return err
	}
	role := newRole(*account, req, account.OpenedAt)
	if err := s.accountRepo.SaveAccountRole(ctx, role); err != nil {
		return fmt.Errorf("failed to grant access: %w", err)
	}
	return nil
}

func (s *accountService) CloseAccount(ctx context.Context, accountID string, closedAt time.Time) error {
	account, err := s.GetAccount(ctx, accountID)
	if err != nil {
		return err
	}
	if closedAt.Before(account.OpenedAt) {
		return fmt.Errorf("%w: account %s cannot close before it opened", apperrors.ErrValidation, account.Code)
	}
	if err := s.accountRepo.CloseAccount(ctx, accountID, closedAt.UTC()); err != nil {
		return fmt.Errorf("failed to close account: %w", err)
	}
	s.LogInfo(ctx, "Account closed", slog.String("code", account.Code), slog.Time("closed_at", closedAt))
	return nil
}

func (s *accountService) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	a, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, missingRef(err, "account", accountID)
	}
	return a, nil
}

func (s *accountService) SystemAccount(ctx context.Context, purpose domain.AccountPurpose, currency string) (*domain.Account, error) {
	code := domain.SystemAccountCode(purpose, currency)
	a, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		return nil, missingRef(err, "system account", code)
	}
	return a, nil
}

func (s *accountService) EnsureSystemAccounts(ctx context.Context, currency string, openedAt time.Time) error {
	house, err := s.accountRepo.FindPartyByName(ctx, domain.PartyCompany, domain.ClearingHouseName)
	if errors.Is(err, apperrors.ErrNotFound) {
		house, err = s.CreateParty(ctx, dto.CreatePartyRequest{
			Type:        string(domain.PartyCompany),
			DisplayName: domain.ClearingHouseName,
			CreatedAt:   openedAt,
		})
	}
	if err != nil {
		return err
	}

	for _, purpose := range domain.SystemPurposes {
		code := domain.SystemAccountCode(purpose, currency)
		if _, err := s.accountRepo.FindAccountByCode(ctx, code); err == nil {
			continue
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		_, err := s.OpenAccount(ctx, dto.OpenAccountRequest{
			Code:     code,
			Name:     fmt.Sprintf("%s clearing (%s)", purpose, currency),
			TypeCode: domain.AccountTypeClearing,
			Currency: currency,
			Purpose:  string(purpose),
			OpenedAt: openedAt,
			Owners:   []dto.AccountOwnerRequest{{PartyID: house.ID, Role: string(domain.RoleOwner), IsPrimary: true}},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *accountService) PartyAccounts(ctx context.Context, partyID string, start, end time.Time) ([]domain.Account, error) {
	roles, err := s.accountRepo.ListRolesByParty(ctx, partyID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(roles))
	ids := make([]string, 0, len(roles))
	for _, r := range roles {
		if r.ActiveDuring(start, end) && !seen[r.AccountID] {
			seen[r.AccountID] = true
			ids = append(ids, r.AccountID)
		}
	}
	byID, err := s.accountRepo.FindAccountsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	accounts := make([]domain.Account, 0, len(byID))
	for _, a := range byID {
		accounts = append(accounts, a)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })
	return accounts, nil
}
