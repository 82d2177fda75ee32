package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/portfolio_ledger/internal/apperrors"
	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/portfolio_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/portfolio_ledger/internal/core/ports/services"
	"github.com/SscSPs/portfolio_ledger/internal/core/services"
	"github.com/SscSPs/portfolio_ledger/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock JournalRepository ---
type MockJournalRepository struct {
	mock.Mock
}

// Ensure MockJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) (domain.JournalEntry, bool, error) {
	args := m.Called(ctx, entry)
	if fn, ok := args.Get(0).(func(context.Context, domain.JournalEntry) domain.JournalEntry); ok {
		return fn(ctx, entry), args.Bool(1), args.Error(2)
	}
	return args.Get(0).(domain.JournalEntry), args.Bool(1), args.Error(2)
}

func (m *MockJournalRepository) FindEntryByCode(ctx context.Context, code string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListEntries(ctx context.Context, from, to time.Time) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListLinesByAccount(ctx context.Context, accountID string, asOf time.Time) ([]domain.JournalLine, error) {
	args := m.Called(ctx, accountID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

// --- Mock EntryPublisher ---
type MockEntryPublisher struct {
	mock.Mock
}

var _ portsrepo.EntryPublisher = (*MockEntryPublisher)(nil)

func (m *MockEntryPublisher) PublishEntry(ctx context.Context, entry domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// --- Test Suite Setup ---
type JournalServiceTestSuite struct {
	suite.Suite
	fx        *fixture
	mockRepo  *MockJournalRepository
	publisher *MockEntryPublisher
	service   portssvc.JournalSvcFacade
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.fx = newFixture(suite.T())
	suite.mockRepo = new(MockJournalRepository)
	suite.publisher = new(MockEntryPublisher)
	suite.service = services.NewJournalService(
		suite.mockRepo,
		suite.fx.repos.AccountRepo,
		suite.fx.svc.Reference,
		services.WithJournalPublisher(suite.publisher),
	)
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}

func (suite *JournalServiceTestSuite) simpleEntry(amountB string) dto.PostEntryRequest {
	return dto.PostEntryRequest{
		Code:     "E-1",
		TxnDate:  day(5),
		Currency: "EUR",
		Lines: []dto.EntryLineRequest{
			{AccountID: suite.fx.checkingA.ID, Amount: d("-100.00"), Currency: "EUR"},
			{AccountID: suite.fx.checkingB.ID, Amount: d(amountB), Currency: "EUR"},
		},
	}
}

// --- Test Cases ---

func (suite *JournalServiceTestSuite) TestPost_BalancedEntryCommits() {
	ctx := suite.fx.ctx
	suite.mockRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry")).
		Return(func(_ context.Context, e domain.JournalEntry) domain.JournalEntry { return e }, true, nil).Once()
	suite.publisher.On("PublishEntry", ctx, mock.AnythingOfType("domain.JournalEntry")).Return(nil).Once()

	entry, err := suite.service.Post(ctx, suite.simpleEntry("100.00"))

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.Equal(services.EntryID("E-1"), entry.ID)
	suite.Require().Len(entry.Lines, 2)
	suite.Equal(1, entry.Lines[0].LineNo)
	suite.Equal(entry.ID, entry.Lines[1].EntryID)
	suite.True(entry.Sum().IsZero())
	suite.Equal(day(5), entry.PostedAt)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.publisher.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPost_UnbalancedEntryRejected() {
	_, err := suite.service.Post(suite.fx.ctx, suite.simpleEntry("99.99"))

	var unbalanced *apperrors.UnbalancedEntryError
	suite.Require().ErrorAs(err, &unbalanced)
	suite.True(unbalanced.Residue.Equal(d("-0.01")), "residue %s", unbalanced.Residue)
	suite.ErrorIs(err, apperrors.ErrInvariantViolation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
	suite.publisher.AssertNotCalled(suite.T(), "PublishEntry", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPrepare_Rejections() {
	fx := suite.fx
	closedAt := day(3)
	closed := fx.openAccount(suite.T(), "CHK-OLD", domain.AccountTypeChecking, fx.alice.ID)
	suite.Require().NoError(fx.svc.Account.CloseAccount(fx.ctx, closed.ID, closedAt))

	tests := []struct {
		name   string
		mutate func(r *dto.PostEntryRequest)
		target error
		check  func(err error)
	}{
		{
			name:   "single line",
			mutate: func(r *dto.PostEntryRequest) { r.Lines = r.Lines[:1] },
			target: apperrors.ErrValidation,
		},
		{
			name:   "line currency differs from entry",
			mutate: func(r *dto.PostEntryRequest) { r.Lines[1].Currency = "USD" },
			check: func(err error) {
				var mismatch *apperrors.CurrencyMismatchError
				suite.ErrorAs(err, &mismatch)
			},
		},
		{
			name: "account currency differs from entry",
			mutate: func(r *dto.PostEntryRequest) {
				r.Currency = "USD"
				r.Lines[0].Currency, r.Lines[1].Currency = "USD", "USD"
			},
			check: func(err error) {
				var mismatch *apperrors.CurrencyMismatchError
				suite.Require().ErrorAs(err, &mismatch)
				suite.Equal(fx.checkingA.ID, mismatch.AccountID)
			},
		},
		{
			name:   "closed account",
			mutate: func(r *dto.PostEntryRequest) { r.Lines[1].AccountID = closed.ID },
			check: func(err error) {
				var closedErr *apperrors.ClosedAccountError
				suite.ErrorAs(err, &closedErr)
			},
		},
		{
			name:   "unknown account",
			mutate: func(r *dto.PostEntryRequest) { r.Lines[1].AccountID = "nope" },
			target: apperrors.ErrMissingReference,
		},
		{
			name: "sub-cent amount",
			mutate: func(r *dto.PostEntryRequest) {
				r.Lines[0].Amount = d("-100.005")
				r.Lines[1].Amount = d("100.005")
			},
			target: apperrors.ErrValidation,
		},
		{
			name:   "unknown category",
			mutate: func(r *dto.PostEntryRequest) { r.Lines[0].CategoryID = "missing" },
			target: apperrors.ErrMissingReference,
		},
		{
			name:   "missing code",
			mutate: func(r *dto.PostEntryRequest) { r.Code = "" },
			target: apperrors.ErrValidation,
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			req := suite.simpleEntry("100.00")
			tc.mutate(&req)
			_, err := suite.service.Prepare(fx.ctx, req)
			suite.Require().Error(err)
			if tc.target != nil {
				suite.ErrorIs(err, tc.target)
			}
			if tc.check != nil {
				tc.check(err)
			}
		})
	}
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPrepare_ClosedAccountComparesTimeOfDay() {
	fx := suite.fx
	closed := fx.openAccount(suite.T(), "CHK-EOD", domain.AccountTypeChecking, fx.alice.ID)
	suite.Require().NoError(fx.svc.Account.CloseAccount(fx.ctx, closed.ID, day(10).Add(15*time.Hour)))

	req := suite.simpleEntry("100.00")
	req.Lines[1].AccountID = closed.ID

	req.TxnDate = day(10).Add(16 * time.Hour)
	_, err := suite.service.Prepare(fx.ctx, req)
	var closedErr *apperrors.ClosedAccountError
	suite.Require().ErrorAs(err, &closedErr)
	suite.Equal(closed.ID, closedErr.AccountID)

	req.TxnDate = day(10).Add(14 * time.Hour)
	entry, err := suite.service.Prepare(fx.ctx, req)
	suite.Require().NoError(err)
	suite.Equal(day(10), entry.TxnDate)
}

func (suite *JournalServiceTestSuite) TestPost_ReplayWithIdenticalContentIsNoop() {
	ctx := suite.fx.ctx
	prepared, err := suite.service.Prepare(ctx, suite.simpleEntry("100.00"))
	suite.Require().NoError(err)
	prepared.PostedAt = day(1)

	suite.mockRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry")).Return(prepared, false, nil).Once()

	entry, err := suite.service.Post(ctx, suite.simpleEntry("100.00"))

	suite.Require().NoError(err)
	suite.Equal(day(1), entry.PostedAt, "stored entry is returned unchanged")
	suite.publisher.AssertNotCalled(suite.T(), "PublishEntry", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPost_ReusedCodeWithDifferentContentFails() {
	ctx := suite.fx.ctx
	stored, err := suite.service.Prepare(ctx, suite.simpleEntry("100.00"))
	suite.Require().NoError(err)
	stored.Description = "something else"

	suite.mockRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry")).Return(stored, false, nil).Once()

	_, err = suite.service.Post(ctx, suite.simpleEntry("100.00"))

	var dup *apperrors.DuplicateEntryCodeError
	suite.Require().ErrorAs(err, &dup)
	suite.Equal("E-1", dup.Code)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *JournalServiceTestSuite) TestPost_RepositoryFailureIsWrapped() {
	ctx := suite.fx.ctx
	dbErr := errors.New("disk full")
	suite.mockRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry")).Return(domain.JournalEntry{}, false, dbErr).Once()

	_, err := suite.service.Post(ctx, suite.simpleEntry("100.00"))

	suite.Require().Error(err)
	suite.ErrorIs(err, dbErr)
}

func (suite *JournalServiceTestSuite) TestPost_PublishFailureDoesNotFailCommit() {
	ctx := suite.fx.ctx
	suite.mockRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry")).
		Return(func(_ context.Context, e domain.JournalEntry) domain.JournalEntry { return e }, true, nil).Once()
	suite.publisher.On("PublishEntry", ctx, mock.AnythingOfType("domain.JournalEntry")).Return(errors.New("redis down")).Once()

	entry, err := suite.service.Post(ctx, suite.simpleEntry("100.00"))

	suite.Require().NoError(err)
	suite.NotNil(entry)
}
