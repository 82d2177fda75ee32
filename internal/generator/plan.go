package generator

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/portfolio_ledger/internal/apperrors"
	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
	"github.com/SscSPs/portfolio_ledger/internal/dto"
)

const (
	kindPayroll    = "payroll"
	kindRent       = "rent"
	kindUtility    = "utility"
	kindSavings    = "savings_transfer"
	kindCard       = "card_purchase"
	kindDeposit    = "brokerage_deposit"
	kindTrade      = "trade"
	kindOfficeRent = "office_rent"
	kindVendor     = "vendor_payment"
	kindCustomer   = "customer_payment"
	kindVAT        = "vat"
	kindPrice      = "price"
	kindFxRate     = "fx_rate"
)

// event is one planned operation. All randomness is drawn at planning time.
type event struct {
	at   time.Time
	seq  int
	kind string
	code string
	run  func(ctx context.Context) error
}

func (g *Generator) add(events []event, at time.Time, kind, code string, run func(ctx context.Context) error) []event {
	g.seq++
	return append(events, event{at: at, seq: g.seq, kind: kind, code: code, run: run})
}

// planMonth draws every event of one month. Streams are keyed by party and month,
// so adding a party never shifts another party's draws.
func (g *Generator) planMonth(period domain.ReportingPeriod) []event {
	var events []event
	events = g.planMarket(events, period)
	for _, c := range g.companies {
		events = g.planCompany(events, period, c)
	}
	for _, p := range g.people {
		events = g.planPerson(events, period, p)
	}
	return events
}

// at places an event on day offset (0-based) of the month at the given clock time.
func at(period domain.ReportingPeriod, dayOffset, hour, minute int) time.Time {
	t := period.Start.AddDate(0, 0, dayOffset).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
	if !t.Before(period.End) {
		t = period.End.Add(-time.Hour)
	}
	return t
}

func daysIn(period domain.ReportingPeriod) int {
	return int(period.End.Sub(period.Start).Hours() / 24)
}

func (g *Generator) planMarket(events []event, period domain.ReportingPeriod) []event {
	r := g.src.For("market", period.Label)

	// FX first: moves of about one percent a month.
	for _, ccy := range g.fxQuotes {
		base, move := ccy, 1+0.01*r.NormFloat64()
		events = g.add(events, period.Start, kindFxRate, base+"/"+g.opts.Currency, func(ctx context.Context) error {
			prev, ok, err := g.svc.MarketData.RateAsOf(ctx, base, g.opts.Currency, period.Start)
			if err != nil {
				return err
			}
			if !ok {
				return &apperrors.MissingPriceDataError{Kind: "fx", Key: base + "/" + g.opts.Currency, AsOf: period.Start}
			}
			return g.svc.MarketData.RecordFxRate(ctx, domain.FxRate{
				Base:  base,
				Quote: g.opts.Currency,
				Date:  period.Start,
				Rate:  prev.Rate.Mul(decimal.NewFromFloat(move)).Round(4),
			})
		})
	}

	// Closes mid-month and on the last day, so every period has a price inside it.
	last := daysIn(period) - 1
	for _, offset := range []int{14, last} {
		quoteDate := period.Start.AddDate(0, 0, offset)
		for _, ins := range g.instruments {
			ins, move := ins, 1+0.005+0.05*r.NormFloat64()
			events = g.add(events, quoteDate, kindPrice, ins.Symbol, func(ctx context.Context) error {
				prev, ok, err := g.svc.MarketData.PriceAsOf(ctx, ins.ID, quoteDate)
				if err != nil {
					return err
				}
				if !ok {
					return &apperrors.MissingPriceDataError{Kind: "price", Key: ins.Symbol, AsOf: quoteDate}
				}
				next := prev.Close.Mul(decimal.NewFromFloat(move)).Round(2)
				if next.LessThan(decimal.NewFromInt(1)) {
					next = decimal.NewFromInt(1)
				}
				return g.svc.MarketData.RecordPrice(ctx, domain.PriceQuote{
					InstrumentID: ins.ID,
					Date:         quoteDate,
					Close:        next,
					Currency:     ins.Currency,
				})
			})
		}
	}
	return events
}

func (g *Generator) planCompany(events []event, period domain.ReportingPeriod, c *company) []event {
	r := g.src.For("company", c.party.ID, period.Label)
	days := daysIn(period)

	t := at(period, intBetween(r, 1, 5), 9, 12)
	events = g.addPosting(events, t, kindOfficeRent, "RNT", dto.PostEntryRequest{
		Description: "Office rent to " + pick(r, propertyManagers),
		ChannelCode: domain.ChannelSEPA,
		Lines:       g.pair(c.operating, g.external, amountBetween(r, 4500, 11000), categoryRent, ""),
	})

	for n := intBetween(r, 1, 3); n > 0; n-- {
		t := at(period, intBetween(r, 8, 20), intBetween(r, 9, 14), intBetween(r, 0, 59))
		vendor := pick(r, businessVendors)
		events = g.addPosting(events, t, kindVendor, "VND", dto.PostEntryRequest{
			Description: "Invoice from " + vendor,
			ChannelCode: domain.ChannelSEPA,
			Lines:       g.pair(c.operating, g.external, amountBetween(r, 600, 4200), categoryVendorPayment, vendor),
		})
	}

	for n := intBetween(r, 12, 24); n > 0; n-- {
		t := at(period, intBetween(r, 1, days-1), intBetween(r, 8, 17), intBetween(r, 0, 59))
		client := pick(r, customers)
		events = g.addPosting(events, t, kindCustomer, "INV", dto.PostEntryRequest{
			Description: "Invoice settlement from " + client,
			ChannelCode: domain.ChannelSEPA,
			Lines:       g.pair(g.external, c.operating, amountBetween(r, 8500, 97500), categoryCustomerPayment, client),
		})
	}

	if (int(period.Start.Month())-1)%3 == 0 {
		t := at(period, intBetween(r, 20, 27), 11, intBetween(r, 0, 59))
		events = g.addPosting(events, t, kindVAT, "VAT", dto.PostEntryRequest{
			Description: "Quarterly VAT remittance",
			ChannelCode: domain.ChannelSEPA,
			Lines:       g.pair(c.operating, g.tax, amountBetween(r, 18000, 42000), categoryVAT, ""),
		})
	}
	return events
}

func (g *Generator) planPerson(events []event, period domain.ReportingPeriod, p *person) []event {
	r := g.src.For("individual", p.party.ID, period.Label)
	days := daysIn(period)
	ccy := g.opts.Currency

	// Payroll: one entry per month tagged with the contract.
	payday := at(period, intBetween(r, 24, 27), intBetween(r, 8, 11), intBetween(r, 0, 59))
	withheld := p.salary.Mul(decimal.NewFromFloat(0.18 + r.Float64()*0.14)).Round(2)
	net := p.salary.Sub(withheld)
	events = g.addPosting(events, payday, kindPayroll, "PAY", dto.PostEntryRequest{
		Description:         "Salary from " + p.employer.party.DisplayName,
		ChannelCode:         domain.ChannelPayroll,
		CounterpartyPartyID: p.employer.party.ID,
		ContractID:          p.contract.ID,
		Lines: []dto.EntryLineRequest{
			{AccountID: p.employer.operating.ID, Amount: p.salary.Neg(), Currency: ccy, CategoryID: g.categories[domain.CategoryPayroll], Memo: p.party.DisplayName},
			{AccountID: p.checking.ID, Amount: net, Currency: ccy, CategoryID: g.categories[domain.CategorySalary]},
			{AccountID: g.tax.ID, Amount: withheld, Currency: ccy, CategoryID: g.categories[domain.CategoryWageTaxWithheld]},
		},
	})

	t := at(period, intBetween(r, 0, 4), intBetween(r, 6, 9), intBetween(r, 0, 59))
	events = g.addPosting(events, t, kindRent, "RNT", dto.PostEntryRequest{
		Description: "Rent " + period.Start.Format("January 2006"),
		ChannelCode: domain.ChannelSEPA,
		Lines:       g.pair(p.checking, g.external, p.rent, categoryRent, p.landlord),
	})

	for _, bill := range []string{"Energy bill", "Fiber internet"} {
		t := at(period, intBetween(r, 10, 20), intBetween(r, 8, 11), intBetween(r, 0, 59))
		events = g.addPosting(events, t, kindUtility, "UTL", dto.PostEntryRequest{
			Description: bill,
			ChannelCode: domain.ChannelSEPA,
			Lines:       g.pair(p.checking, g.external, amountBetween(r, 70, 160), categoryUtilities, pick(r, propertyManagers)),
		})
	}

	t = at(period, intBetween(r, 3, 6), intBetween(r, 7, 9), intBetween(r, 0, 59))
	savings := p.salary.Mul(decimal.NewFromFloat(0.08 + r.Float64()*0.10)).Round(2)
	events = g.addTransfer(events, t, kindSavings, "SAV", dto.PostEntryRequest{
		Description: "Monthly savings transfer",
		ChannelCode: domain.ChannelInternal,
		Lines:       g.pair(p.checking, p.savings, savings, categorySavingsTransfer, ""),
	})

	for n := intBetween(r, 6, 10); n > 0; n-- {
		t := at(period, intBetween(r, 0, days-1), intBetween(r, 7, 22), intBetween(r, 0, 59))
		m := pick(r, cardMerchants)
		events = g.addPosting(events, t, kindCard, "CRD", dto.PostEntryRequest{
			Description: "Card payment at " + m.name,
			ChannelCode: domain.ChannelCard,
			Lines:       g.pair(p.checking, g.external, amountBetween(r, 8, 220), m.category, m.name),
		})
	}

	if p.brokerage != nil {
		events = g.planInvestor(events, period, p, r)
	}
	return events
}

// planInvestor funds the brokerage account and draws up to three trades.
func (g *Generator) planInvestor(events []event, period domain.ReportingPeriod, p *person, r *rand.Rand) []event {
	days := daysIn(period)

	t := at(period, intBetween(r, 0, 2), 8, intBetween(r, 0, 59))
	events = g.addTransfer(events, t, kindDeposit, "DEP", dto.PostEntryRequest{
		Description: "Brokerage top-up",
		ChannelCode: domain.ChannelInternal,
		Lines:       g.pair(p.checking, p.brokerage, amountBetween(r, 300, 1500), categoryBrokerageDeposit, ""),
	})

	for n := intBetween(r, 0, 3); n > 0; n-- {
		plan := tradePlan{
			account:    p.brokerage,
			instrument: pick(r, g.instruments),
			wantSell:   r.Intn(3) == 0,
			quantity:   decimal.NewFromInt(int64(intBetween(r, 1, 25))),
			slippage:   decimal.NewFromFloat(1 + 0.01*r.NormFloat64()),
			fees:       amountBetween(r, 0.5, 4.5),
			tax:        amountBetween(r, 0, 2),
		}
		t := at(period, intBetween(r, 1, days-3), intBetween(r, 10, 16), intBetween(r, 0, 59))
		code, err := g.codes.Next("T", t)
		if err != nil {
			events = g.addFailed(events, t, kindTrade, "T", err)
			continue
		}
		events = g.add(events, t, kindTrade, code, func(ctx context.Context) error {
			return g.executeTrade(ctx, code, t, plan)
		})
	}
	return events
}

type tradePlan struct {
	account    *domain.Account
	instrument domain.Instrument
	wantSell   bool
	quantity   decimal.Decimal
	slippage   decimal.Decimal
	fees       decimal.Decimal
	tax        decimal.Decimal
}

// executeTrade prices the trade off the latest close and caps sells at the open quantity.
// A sell is only attempted while more than two units are held; otherwise it becomes a buy.
func (g *Generator) executeTrade(ctx context.Context, code string, t time.Time, plan tradePlan) error {
	ins := plan.instrument
	quote, ok, err := g.svc.MarketData.PriceAsOf(ctx, ins.ID, t)
	if err != nil {
		return err
	}
	if !ok {
		return &apperrors.MissingPriceDataError{Kind: "price", Key: ins.Symbol, AsOf: t}
	}
	price := quote.Close.Mul(plan.slippage).Round(2)
	if !price.IsPositive() {
		price = quote.Close
	}

	side, qty := domain.Buy, plan.quantity
	if plan.wantSell {
		holding, err := g.svc.Trade.GetHolding(ctx, plan.account.ID, ins.ID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		if holding != nil && holding.Quantity.GreaterThan(decimal.NewFromInt(2)) {
			side = domain.Sell
			qty = decimal.Min(qty, holding.Quantity)
		}
	}

	settle := domain.DateOf(t).AddDate(0, 0, 2)
	_, err = g.svc.Trade.ExecuteTrade(ctx, dto.ExecuteTradeRequest{
		Code:           code,
		AccountID:      plan.account.ID,
		InstrumentID:   ins.ID,
		Side:           string(side),
		Quantity:       qty,
		Price:          price,
		Fees:           plan.fees,
		Tax:            plan.tax,
		Currency:       ins.Currency,
		TradeTime:      t,
		SettlementDate: &settle,
	})
	if err != nil {
		return fmt.Errorf("trade %s %s %s: %w", side, qty.String(), ins.Symbol, err)
	}
	return nil
}

// addFailed schedules an event that could not be built, so the run counts it as failed.
func (g *Generator) addFailed(events []event, t time.Time, kind, code string, err error) []event {
	return g.add(events, t, kind, code, func(context.Context) error { return err })
}

// addTransfer issues a transfer reference for both legs and schedules the post.
func (g *Generator) addTransfer(events []event, t time.Time, kind, prefix string, req dto.PostEntryRequest) []event {
	ref, err := g.codes.Next("XFER", t)
	if err != nil {
		return g.addFailed(events, t, kind, prefix, err)
	}
	req.TransferReference = ref
	return g.addPosting(events, t, kind, prefix, req)
}

// addPosting assigns the entry code and date, then schedules the post.
func (g *Generator) addPosting(events []event, t time.Time, kind, prefix string, req dto.PostEntryRequest) []event {
	code, err := g.codes.Next(prefix, t)
	if err != nil {
		return g.addFailed(events, t, kind, prefix, err)
	}
	req.Code = code
	req.TxnDate = t
	req.PostedAt = t
	req.Currency = g.opts.Currency
	return g.add(events, t, kind, req.Code, func(ctx context.Context) error {
		_, err := g.svc.Journal.Post(ctx, req)
		return err
	})
}

// pair moves amount from one account to another under a single category.
func (g *Generator) pair(from, to *domain.Account, amount decimal.Decimal, category, memo string) []dto.EntryLineRequest {
	catID := g.categories[category]
	return []dto.EntryLineRequest{
		{AccountID: from.ID, Amount: amount.Neg(), Currency: g.opts.Currency, CategoryID: catID, Memo: memo},
		{AccountID: to.ID, Amount: amount, Currency: g.opts.Currency, CategoryID: catID, Memo: memo},
	}
}
