package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/SscSPs/portfolio_ledger/internal/apperrors"
	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
)

// Store is the working store for one generation run. Every write takes the
// single write lock, which is the serializing boundary around entry codes,
// holdings and fact replacement; reads return copies.
type Store struct {
	mu sync.RWMutex

	currencies         map[string]domain.Currency
	accountTypes       map[string]domain.AccountTypeInfo
	markets            map[string]domain.Market
	categories         map[string]domain.Category
	categoryByName     map[string]string
	channels           map[string]domain.Channel
	instruments        map[string]domain.Instrument
	instrumentBySymbol map[string]string
	prices             map[string][]domain.PriceQuote // instrument ID -> ascending by date
	fxRates            map[string][]domain.FxRate     // "BASE/QUOTE" -> ascending by date

	parties        map[string]domain.Party
	partyByName    map[string]string
	accounts       map[string]domain.Account
	accountByCode  map[string]string
	roles          map[string]domain.AccountPartyRole
	rolesByParty   map[string][]string
	rolesByAccount map[string][]string
	contracts      map[string]domain.EmploymentContract

	entries        map[string]domain.JournalEntry
	entryByCode    map[string]string
	linesByAccount map[string][]datedLine

	trades      map[string]domain.Trade
	tradeByCode map[string]string
	positions   map[string]domain.Position // holding ID

	periods       map[string]domain.ReportingPeriod
	periodByLabel map[string]string
	cashFlowFacts map[string][]domain.CashFlowFact
	payrollFacts  map[string][]domain.PayrollFact
	holdingFacts  map[string][]domain.HoldingPerformanceFact
}

type datedLine struct {
	date time.Time
	line domain.JournalLine
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		currencies:         make(map[string]domain.Currency),
		accountTypes:       make(map[string]domain.AccountTypeInfo),
		markets:            make(map[string]domain.Market),
		categories:         make(map[string]domain.Category),
		categoryByName:     make(map[string]string),
		channels:           make(map[string]domain.Channel),
		instruments:        make(map[string]domain.Instrument),
		instrumentBySymbol: make(map[string]string),
		prices:             make(map[string][]domain.PriceQuote),
		fxRates:            make(map[string][]domain.FxRate),
		parties:            make(map[string]domain.Party),
		partyByName:        make(map[string]string),
		accounts:           make(map[string]domain.Account),
		accountByCode:      make(map[string]string),
		roles:              make(map[string]domain.AccountPartyRole),
		rolesByParty:       make(map[string][]string),
		rolesByAccount:     make(map[string][]string),
		contracts:          make(map[string]domain.EmploymentContract),
		entries:            make(map[string]domain.JournalEntry),
		entryByCode:        make(map[string]string),
		linesByAccount:     make(map[string][]datedLine),
		trades:             make(map[string]domain.Trade),
		tradeByCode:        make(map[string]string),
		positions:          make(map[string]domain.Position),
		periods:            make(map[string]domain.ReportingPeriod),
		periodByLabel:      make(map[string]string),
		cashFlowFacts:      make(map[string][]domain.CashFlowFact),
		payrollFacts:       make(map[string][]domain.PayrollFact),
		holdingFacts:       make(map[string][]domain.HoldingPerformanceFact),
	}
}

func notFound(entity, key string) error {
	return fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, entity, key)
}

func duplicate(entity, key string) error {
	return fmt.Errorf("%w: %s %s", apperrors.ErrDuplicate, entity, key)
}

func cloneEntry(e domain.JournalEntry) domain.JournalEntry {
	lines := make([]domain.JournalLine, len(e.Lines))
	copy(lines, e.Lines)
	e.Lines = lines
	return e
}

func clonePosition(p domain.Position) domain.Position {
	lots := make([]domain.Lot, len(p.Lots))
	copy(lots, p.Lots)
	p.Lots = lots
	return p
}
