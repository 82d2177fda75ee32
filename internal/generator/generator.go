// Package generator drives the ledger with a reproducible synthetic history:
// parties, accounts, monthly cash events and trades, then period facts and a final audit.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/portfolio_ledger/internal/apperrors"
	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
	"github.com/SscSPs/portfolio_ledger/internal/core/services"
	"github.com/SscSPs/portfolio_ledger/internal/dto"
	"github.com/SscSPs/portfolio_ledger/internal/platform/logging"
)

// Options controls the size and shape of a run.
type Options struct {
	Seed          int64
	Start         time.Time // First generated month
	Months        int
	Individuals   int
	Companies     int
	InvestorShare float64 // Fraction of individuals given a brokerage account
	Currency      string  // Currency of every cash account
}

// Stats counts what a run produced.
type Stats struct {
	Parties      int
	Accounts     int
	Entries      int
	Trades       int
	Quotes       int
	FailedEvents int
	FailedByKind map[string]int
	FactRows     int
	FactErrors   int
}

// Result is the outcome of a batch run.
type Result struct {
	Stats   Stats
	Periods []domain.ReportingPeriod
	Audit   domain.AuditReport
}

type company struct {
	party     *domain.Party
	operating *domain.Account
}

type person struct {
	party     *domain.Party
	employer  *company
	contract  *domain.EmploymentContract
	checking  *domain.Account
	savings   *domain.Account
	brokerage *domain.Account // Nil for non-investors
	salary    decimal.Decimal
	rent      decimal.Decimal
	landlord  string
}

// Generator owns one run's state. It is not safe for concurrent use.
type Generator struct {
	svc   *services.Container
	opts  Options
	src   Source
	codes *Codes

	categories  map[string]string // name -> ID
	instruments []domain.Instrument
	fxQuotes    []string // Currencies with a rate against opts.Currency
	external    *domain.Account
	tax         *domain.Account

	companies []*company
	people    []*person

	stats Stats
	seq   int
	end   time.Time // End of the last generated period; zero until Run succeeds
}

// New creates a generator over a service container.
func New(svc *services.Container, opts Options) *Generator {
	if opts.Currency == "" {
		opts.Currency = "EUR"
	}
	opts.Start = time.Date(opts.Start.Year(), opts.Start.Month(), 1, 0, 0, 0, 0, time.UTC)
	src := NewSource(opts.Seed)
	return &Generator{
		svc:   svc,
		opts:  opts,
		src:   src,
		codes: NewCodes(src.For("codes")),
		stats: Stats{FailedByKind: map[string]int{}},
	}
}

// Run generates the full history, closes every month and audits the result.
// Failed events are logged and counted; only setup failures abort the run.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	logger := logging.FromContext(ctx)

	if err := g.setup(ctx); err != nil {
		return nil, fmt.Errorf("generator setup: %w", err)
	}
	if err := g.buildParties(ctx); err != nil {
		return nil, fmt.Errorf("generator parties: %w", err)
	}

	periods := domain.MonthlyPeriods(g.opts.Start, g.opts.Months)
	if err := g.svc.Fact.RegisterPeriods(ctx, periods); err != nil {
		return nil, fmt.Errorf("generator periods: %w", err)
	}

	for _, period := range periods {
		events := g.planMonth(period)
		g.execute(ctx, events)
		g.closePeriod(ctx, period)
		logger.Info("Month generated",
			slog.String("period", period.Label),
			slog.Int("events", len(events)),
			slog.Int("failed", g.stats.FailedEvents),
		)
	}

	if len(periods) > 0 {
		g.end = periods[len(periods)-1].End
	}

	report, err := g.svc.Audit.Audit(ctx)
	if err != nil {
		return nil, fmt.Errorf("final audit: %w", err)
	}
	if !report.Clean() {
		logger.Error("Final audit found violations",
			slog.Int("unbalanced", len(report.UnbalancedEntries)),
			slog.Int("negative_holdings", len(report.NegativeHoldings)),
			slog.Int("inconsistent_holdings", len(report.InconsistentHolding)),
		)
	}

	return &Result{Stats: g.stats, Periods: periods, Audit: report}, nil
}

func (g *Generator) setup(ctx context.Context) error {
	ccy := g.opts.Currency
	if err := g.svc.Account.EnsureSystemAccounts(ctx, ccy, g.opts.Start); err != nil {
		return err
	}
	var err error
	if g.external, err = g.svc.Account.SystemAccount(ctx, domain.PurposeExternal, ccy); err != nil {
		return err
	}
	if g.tax, err = g.svc.Account.SystemAccount(ctx, domain.PurposeTax, ccy); err != nil {
		return err
	}

	cats, err := g.svc.Reference.ListCategories(ctx)
	if err != nil {
		return err
	}
	g.categories = make(map[string]string, len(cats))
	for _, c := range cats {
		g.categories[c.Name] = c.ID
	}
	for _, required := range []string{domain.CategorySalary, domain.CategoryPayroll, domain.CategoryWageTaxWithheld} {
		if _, ok := g.categories[required]; !ok {
			return &apperrors.MissingReferenceDataError{Entity: "category", Key: required}
		}
	}

	// Only instruments with a seed price and a usable FX path are traded.
	instruments, err := g.svc.Reference.ListInstruments(ctx)
	if err != nil {
		return err
	}
	logger := logging.FromContext(ctx)
	for _, ins := range instruments {
		if _, ok, err := g.svc.MarketData.PriceAsOf(ctx, ins.ID, g.opts.Start); err != nil {
			return err
		} else if !ok {
			logger.Warn("Instrument has no seed price, not traded", slog.String("symbol", ins.Symbol))
			continue
		}
		if _, ok, err := g.svc.MarketData.RateAsOf(ctx, ins.Currency, ccy, g.opts.Start); err != nil {
			return err
		} else if !ok {
			logger.Warn("Instrument currency has no rate, not traded", slog.String("symbol", ins.Symbol))
			continue
		}
		g.instruments = append(g.instruments, ins)
	}

	currencies, err := g.svc.Reference.ListCurrencies(ctx)
	if err != nil {
		return err
	}
	for _, c := range currencies {
		if c.Code == ccy {
			continue
		}
		if _, ok, err := g.svc.MarketData.RateAsOf(ctx, c.Code, ccy, g.opts.Start); err != nil {
			return err
		} else if ok {
			g.fxQuotes = append(g.fxQuotes, c.Code)
		}
	}
	return nil
}

func (g *Generator) buildParties(ctx context.Context) error {
	start := g.opts.Start
	ccy := g.opts.Currency

	r := g.src.For("companies")
	used := map[string]bool{}
	for i := 0; i < g.opts.Companies; i++ {
		name := uniqueName(used, pick(r, companyPrefixes)+" "+pick(r, companySuffixes), i)
		party, err := g.svc.Account.CreateParty(ctx, dto.CreatePartyRequest{
			Type:        string(domain.PartyCompany),
			DisplayName: name,
			Country:     "NL",
			CreatedAt:   start,
		})
		if err != nil {
			return err
		}
		ops, err := g.openAccount(ctx, fmt.Sprintf("OPS-%03d", i+1), name+" operating", domain.AccountTypeOperating, iban(r), party.ID)
		if err != nil {
			return err
		}
		g.companies = append(g.companies, &company{party: party, operating: ops})
		g.stats.Parties++
	}
	if len(g.companies) == 0 && g.opts.Individuals > 0 {
		return fmt.Errorf("%w: individuals need at least one employer company", apperrors.ErrValidation)
	}

	r = g.src.For("individuals")
	used = map[string]bool{}
	for i := 0; i < g.opts.Individuals; i++ {
		name := uniqueName(used, pick(r, firstNames)+" "+pick(r, lastNames), i)
		party, err := g.svc.Account.CreateParty(ctx, dto.CreatePartyRequest{
			Type:        string(domain.PartyIndividual),
			DisplayName: name,
			Country:     "NL",
			CreatedAt:   start,
		})
		if err != nil {
			return err
		}
		employer := pick(r, g.companies)
		salary := amountBetween(r, 2800, 9200)
		p := &person{
			party:    party,
			employer: employer,
			salary:   salary,
			rent:     salary.Mul(decimal.NewFromFloat(0.24 + r.Float64()*0.08)).Round(2),
			landlord: pick(r, propertyManagers),
		}
		if p.contract, err = g.svc.Account.CreateContract(ctx, dto.CreateContractRequest{
			EmployeeID:    party.ID,
			EmployerID:    employer.party.ID,
			PositionTitle: pick(r, positionTitles),
			StartDate:     start,
			IsPrimary:     true,
		}); err != nil {
			return err
		}
		if p.checking, err = g.openAccount(ctx, fmt.Sprintf("CHK-%04d", i+1), name+" checking", domain.AccountTypeChecking, iban(r), party.ID); err != nil {
			return err
		}
		if p.savings, err = g.openAccount(ctx, fmt.Sprintf("SAV-%04d", i+1), name+" savings", domain.AccountTypeSavings, iban(r), party.ID); err != nil {
			return err
		}
		g.people = append(g.people, p)
		g.stats.Parties++
	}

	// Investors are a fixed sample; order follows party index so it is seed-stable.
	investors := int(math.Round(float64(len(g.people)) * g.opts.InvestorShare))
	if investors == 0 && g.opts.InvestorShare > 0 && len(g.people) > 0 {
		investors = 1
	}
	if len(g.instruments) == 0 {
		investors = 0
	}
	picked := r.Perm(len(g.people))[:investors]
	sort.Ints(picked)
	for _, idx := range picked {
		p := g.people[idx]
		acc, err := g.openAccount(ctx, fmt.Sprintf("BRK-%04d", idx+1), p.party.DisplayName+" brokerage", domain.AccountTypeBrokerage, "", p.party.ID)
		if err != nil {
			return err
		}
		p.brokerage = acc
	}

	logging.FromContext(ctx).Info("Parties created",
		slog.String("currency", ccy),
		slog.Int("companies", len(g.companies)),
		slog.Int("individuals", len(g.people)),
		slog.Int("investors", investors),
	)
	return nil
}

func (g *Generator) openAccount(ctx context.Context, code, name, typeCode, ibanCode, ownerID string) (*domain.Account, error) {
	acc, err := g.svc.Account.OpenAccount(ctx, dto.OpenAccountRequest{
		Code:     code,
		Name:     name,
		TypeCode: typeCode,
		Currency: g.opts.Currency,
		IBAN:     ibanCode,
		OpenedAt: g.opts.Start,
		Owners:   []dto.AccountOwnerRequest{{PartyID: ownerID, Role: string(domain.RoleOwner), IsPrimary: true}},
	})
	if err != nil {
		return nil, err
	}
	g.stats.Accounts++
	return acc, nil
}

// execute runs events in (time, sequence) order. A failing event never stops the run.
func (g *Generator) execute(ctx context.Context, events []event) {
	logger := logging.FromContext(ctx)
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].at.Equal(events[j].at) {
			return events[i].at.Before(events[j].at)
		}
		return events[i].seq < events[j].seq
	})
	for _, ev := range events {
		if err := ev.run(ctx); err != nil {
			g.stats.FailedEvents++
			g.stats.FailedByKind[ev.kind]++
			logger.Warn("Event failed",
				slog.String("kind", ev.kind),
				slog.String("code", ev.code),
				slog.Time("at", ev.at),
				slog.String("error", err.Error()),
			)
			continue
		}
		switch ev.kind {
		case kindTrade:
			g.stats.Trades++
		case kindPrice, kindFxRate:
			g.stats.Quotes++
		default:
			g.stats.Entries++
		}
	}
}

// closePeriod computes the month's facts. A failing fact type blocks only its own rows.
func (g *Generator) closePeriod(ctx context.Context, period domain.ReportingPeriod) {
	logger := logging.FromContext(ctx)
	result, err := g.svc.Fact.ComputePeriod(ctx, period.ID, period.End)
	if err != nil {
		g.stats.FactErrors++
		logger.Error("Period close failed", slog.String("period", period.Label), slog.String("error", err.Error()))
		return
	}
	for _, n := range result.Rows {
		g.stats.FactRows += n
	}
	for factType, ferr := range result.Errors {
		g.stats.FactErrors++
		logger.Warn("Fact type skipped",
			slog.String("period", period.Label),
			slog.String("fact", string(factType)),
			slog.String("error", ferr.Error()),
		)
	}
}

func uniqueName(used map[string]bool, name string, i int) string {
	if used[name] {
		name = name + " " + strconv.Itoa(i+1)
	}
	used[name] = true
	return name
}

func iban(r *rand.Rand) string {
	return fmt.Sprintf("NL%02dLDGR%010d", 10+r.Int63n(90), r.Int63n(10_000_000_000))
}
