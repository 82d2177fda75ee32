package generator_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/portfolio_ledger/internal/adapters/database/memory"
	"github.com/SscSPs/portfolio_ledger/internal/adapters/refdata"
	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
	"github.com/SscSPs/portfolio_ledger/internal/core/services"
	"github.com/SscSPs/portfolio_ledger/internal/generator"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishEntry(ctx context.Context, entry domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

type GeneratorTestSuite struct {
	suite.Suite
	ctx  context.Context
	opts generator.Options
}

func TestGeneratorSuite(t *testing.T) {
	suite.Run(t, new(GeneratorTestSuite))
}

func (s *GeneratorTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.opts = generator.Options{
		Seed:          42,
		Start:         time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		Months:        3,
		Individuals:   6,
		Companies:     2,
		InvestorShare: 0.5,
		Currency:      "EUR",
	}
}

// newRun wires a fresh in-memory store loaded with the default catalog.
func (s *GeneratorTestSuite) newRun(opts generator.Options, options ...services.ContainerOption) (*generator.Generator, *memory.Store) {
	store := memory.NewStore()
	svc := services.NewContainer(memory.NewRepositoryProvider(store), options...)
	catalog, err := refdata.Default()
	s.Require().NoError(err)
	s.Require().NoError(svc.Reference.LoadCatalog(s.ctx, catalog))
	return generator.New(svc, opts), store
}

func (s *GeneratorTestSuite) TestRun_ProducesCleanHistory() {
	gen, store := s.newRun(s.opts)

	result, err := gen.Run(s.ctx)
	s.Require().NoError(err)

	s.True(result.Audit.Clean(), "audit: %+v", result.Audit)
	s.Len(result.Periods, 3)
	s.Equal(8, result.Stats.Parties)
	s.Equal(0, result.Stats.FailedEvents, "failed: %v", result.Stats.FailedByKind)
	s.Equal(0, result.Stats.FactErrors)
	s.Positive(result.Stats.Entries)
	s.Positive(result.Stats.Trades)
	s.Positive(result.Stats.Quotes)
	s.Positive(result.Stats.FactRows)

	data, err := store.Snapshot(s.ctx)
	s.Require().NoError(err)
	s.Len(data.Trades, result.Stats.Trades)
	s.Len(data.Periods, 3)
	s.NotEmpty(data.CashFlowFacts)
	s.NotEmpty(data.PayrollFacts)
	s.NotEmpty(data.HoldingPerformances)

	sums := map[string]decimal.Decimal{}
	for _, l := range data.Lines {
		sums[l.EntryID] = sums[l.EntryID].Add(l.Amount)
	}
	s.Len(sums, len(data.Entries))
	for id, sum := range sums {
		s.True(sum.IsZero(), "entry %s sums to %s", id, sum)
	}
}

func (s *GeneratorTestSuite) TestRun_SameSeedSameDataset() {
	first, firstStore := s.newRun(s.opts)
	_, err := first.Run(s.ctx)
	s.Require().NoError(err)

	second, secondStore := s.newRun(s.opts)
	_, err = second.Run(s.ctx)
	s.Require().NoError(err)

	a, err := firstStore.Snapshot(s.ctx)
	s.Require().NoError(err)
	b, err := secondStore.Snapshot(s.ctx)
	s.Require().NoError(err)
	s.Equal(a, b)
}

func (s *GeneratorTestSuite) TestRun_DifferentSeedDiffers() {
	first, firstStore := s.newRun(s.opts)
	_, err := first.Run(s.ctx)
	s.Require().NoError(err)

	opts := s.opts
	opts.Seed = 7
	second, secondStore := s.newRun(opts)
	_, err = second.Run(s.ctx)
	s.Require().NoError(err)

	a, err := firstStore.Snapshot(s.ctx)
	s.Require().NoError(err)
	b, err := secondStore.Snapshot(s.ctx)
	s.Require().NoError(err)
	s.NotEqual(a.Entries, b.Entries)
}

func (s *GeneratorTestSuite) TestRun_IndividualsNeedCompanies() {
	opts := s.opts
	opts.Companies = 0
	gen, _ := s.newRun(opts)

	_, err := gen.Run(s.ctx)
	s.Error(err)
}

func (s *GeneratorTestSuite) TestRun_PublishesEveryCommittedEntry() {
	pub := new(MockPublisher)
	pub.On("PublishEntry", mock.Anything, mock.AnythingOfType("domain.JournalEntry")).Return(nil)
	gen, _ := s.newRun(s.opts, services.WithEntryPublisher(pub))

	result, err := gen.Run(s.ctx)
	s.Require().NoError(err)

	pub.AssertNumberOfCalls(s.T(), "PublishEntry", result.Stats.Entries+result.Stats.Trades)
}

func (s *GeneratorTestSuite) TestStream_RequiresRun() {
	gen, _ := s.newRun(s.opts)

	_, err := gen.Stream(s.ctx, time.Millisecond, 2, 1)
	s.Error(err)
}

func (s *GeneratorTestSuite) TestStream_PostsAfterRunRange() {
	gen, store := s.newRun(s.opts)
	result, err := gen.Run(s.ctx)
	s.Require().NoError(err)
	before := result.Stats.Entries

	posted, err := gen.Stream(s.ctx, time.Millisecond, 2, 3)
	s.Require().NoError(err)
	s.Equal(6, posted)
	s.Equal(before+6, gen.Stats().Entries)

	data, err := store.Snapshot(s.ctx)
	s.Require().NoError(err)
	end := result.Periods[len(result.Periods)-1].End
	streamed := 0
	for _, e := range data.Entries {
		if !e.TxnDate.Before(end) {
			streamed++
			s.Equal(domain.ChannelCard, e.ChannelCode)
		}
	}
	s.Equal(6, streamed)
}

func (s *GeneratorTestSuite) TestStream_StopsOnCancel() {
	gen, _ := s.newRun(s.opts)
	_, err := gen.Run(s.ctx)
	s.Require().NoError(err)

	ctx, cancel := context.WithCancel(s.ctx)
	cancel()
	posted, err := gen.Stream(ctx, time.Hour, 5, 0)
	s.NoError(err)
	s.Zero(posted)
}
