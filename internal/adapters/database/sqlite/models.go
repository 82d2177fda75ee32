package sqlite

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
)

// Decimal columns are stored as text so SQLite never coerces them to REAL.

type Currency struct {
	Code     string `gorm:"column:code;primaryKey"`
	Name     string `gorm:"column:name;not null"`
	Exponent int32  `gorm:"column:exponent;not null"`
}

type AccountType struct {
	Code        string `gorm:"column:code;primaryKey"`
	Description string `gorm:"column:description"`
	IsCash      bool   `gorm:"column:is_cash"`
	IsBrokerage bool   `gorm:"column:is_brokerage"`
}

type Market struct {
	MIC      string `gorm:"column:mic;primaryKey"`
	Name     string `gorm:"column:name"`
	Country  string `gorm:"column:country"`
	Currency string `gorm:"column:currency"`
}

type Category struct {
	ID      string `gorm:"column:id;primaryKey"`
	Name    string `gorm:"column:name;not null;uniqueIndex"`
	Section string `gorm:"column:section;not null"`
}

type Channel struct {
	Code        string `gorm:"column:code;primaryKey"`
	Description string `gorm:"column:description"`
}

type Instrument struct {
	ID       string `gorm:"column:id;primaryKey"`
	Symbol   string `gorm:"column:symbol;not null;uniqueIndex"`
	Name     string `gorm:"column:name"`
	Type     string `gorm:"column:type"`
	ISIN     string `gorm:"column:isin"`
	MIC      string `gorm:"column:mic"`
	Currency string `gorm:"column:currency;not null"`
}

type PriceQuote struct {
	ID           string          `gorm:"column:id;primaryKey"`
	InstrumentID string          `gorm:"column:instrument_id;not null;index:idx_price_instrument_date,unique"`
	Date         time.Time       `gorm:"column:date;not null;index:idx_price_instrument_date,unique"`
	Close        decimal.Decimal `gorm:"column:close;type:text;not null"`
	Currency     string          `gorm:"column:currency;not null"`
}

type FxRate struct {
	ID    string          `gorm:"column:id;primaryKey"`
	Base  string          `gorm:"column:base;not null;index:idx_fx_pair_date,unique"`
	Quote string          `gorm:"column:quote;not null;index:idx_fx_pair_date,unique"`
	Date  time.Time       `gorm:"column:date;not null;index:idx_fx_pair_date,unique"`
	Rate  decimal.Decimal `gorm:"column:rate;type:text;not null"`
}

type Party struct {
	ID          string    `gorm:"column:id;primaryKey"`
	Type        string    `gorm:"column:type;not null;index:idx_party_type_name,unique"`
	DisplayName string    `gorm:"column:display_name;not null;index:idx_party_type_name,unique"`
	Country     string    `gorm:"column:country"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime:false"`
}

type Account struct {
	ID       string     `gorm:"column:id;primaryKey"`
	Code     string     `gorm:"column:code;not null;uniqueIndex"`
	Name     string     `gorm:"column:name"`
	TypeCode string     `gorm:"column:type_code;not null"`
	Currency string     `gorm:"column:currency;not null"`
	IBAN     string     `gorm:"column:iban"`
	Purpose  string     `gorm:"column:purpose"`
	OpenedAt time.Time  `gorm:"column:opened_at"`
	ClosedAt *time.Time `gorm:"column:closed_at"`
}

type AccountPartyRole struct {
	ID        string     `gorm:"column:id;primaryKey"`
	AccountID string     `gorm:"column:account_id;not null;index"`
	PartyID   string     `gorm:"column:party_id;not null;index"`
	Role      string     `gorm:"column:role;not null"`
	StartDate time.Time  `gorm:"column:start_date"`
	EndDate   *time.Time `gorm:"column:end_date"`
	IsPrimary bool       `gorm:"column:is_primary"`
}

type EmploymentContract struct {
	ID            string     `gorm:"column:id;primaryKey"`
	EmployeeID    string     `gorm:"column:employee_id;not null"`
	EmployerID    string     `gorm:"column:employer_id;not null"`
	PositionTitle string     `gorm:"column:position_title"`
	StartDate     time.Time  `gorm:"column:start_date"`
	EndDate       *time.Time `gorm:"column:end_date"`
	IsPrimary     bool       `gorm:"column:is_primary"`
}

type JournalEntry struct {
	ID                  string    `gorm:"column:id;primaryKey"`
	Code                string    `gorm:"column:code;not null;uniqueIndex"`
	TxnDate             time.Time `gorm:"column:txn_date;not null;index"`
	PostedAt            time.Time `gorm:"column:posted_at"`
	Description         string    `gorm:"column:description"`
	Currency            string    `gorm:"column:currency;not null"`
	ChannelCode         string    `gorm:"column:channel_code"`
	CounterpartyPartyID string    `gorm:"column:counterparty_party_id"`
	TransferReference   string    `gorm:"column:transfer_reference"`
	ExternalReference   string    `gorm:"column:external_reference"`
	ContractID          string    `gorm:"column:contract_id"`
}

type JournalLine struct {
	ID         string          `gorm:"column:id;primaryKey"`
	EntryID    string          `gorm:"column:entry_id;not null;index"`
	LineNo     int             `gorm:"column:line_no"`
	AccountID  string          `gorm:"column:account_id;not null;index"`
	Amount     decimal.Decimal `gorm:"column:amount;type:text;not null"`
	Currency   string          `gorm:"column:currency;not null"`
	CategoryID string          `gorm:"column:category_id"`
	Memo       string          `gorm:"column:memo"`
}

type Trade struct {
	ID             string          `gorm:"column:id;primaryKey"`
	Code           string          `gorm:"column:code;not null;uniqueIndex"`
	AccountID      string          `gorm:"column:account_id;not null"`
	InstrumentID   string          `gorm:"column:instrument_id;not null"`
	Side           string          `gorm:"column:side;not null"`
	Quantity       decimal.Decimal `gorm:"column:quantity;type:text"`
	Price          decimal.Decimal `gorm:"column:price;type:text"`
	Fees           decimal.Decimal `gorm:"column:fees;type:text"`
	Tax            decimal.Decimal `gorm:"column:tax;type:text"`
	Currency       string          `gorm:"column:currency"`
	TradeTime      time.Time       `gorm:"column:trade_time"`
	SettlementDate *time.Time      `gorm:"column:settlement_date"`
	EntryID        string          `gorm:"column:entry_id"`
}

type Holding struct {
	ID           string          `gorm:"column:id;primaryKey"`
	AccountID    string          `gorm:"column:account_id;not null"`
	InstrumentID string          `gorm:"column:instrument_id;not null"`
	Currency     string          `gorm:"column:currency"`
	Quantity     decimal.Decimal `gorm:"column:quantity;type:text"`
	AverageCost  decimal.Decimal `gorm:"column:average_cost;type:text"`
	RealizedPL   decimal.Decimal `gorm:"column:realized_pl;type:text"`
	LastTradeID  string          `gorm:"column:last_trade_id"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime:false"`
}

type Lot struct {
	ID              string          `gorm:"column:id;primaryKey"`
	HoldingID       string          `gorm:"column:holding_id;not null;index"`
	AccountID       string          `gorm:"column:account_id"`
	InstrumentID    string          `gorm:"column:instrument_id"`
	TradeID         string          `gorm:"column:trade_id"`
	ParentLotID     string          `gorm:"column:parent_lot_id"`
	Sequence        int             `gorm:"column:sequence"`
	OpenedOn        time.Time       `gorm:"column:opened_on"`
	Quantity        decimal.Decimal `gorm:"column:quantity;type:text"`
	CostBasis       decimal.Decimal `gorm:"column:cost_basis;type:text"`
	Status          string          `gorm:"column:status"`
	ClosedByTradeID string          `gorm:"column:closed_by_trade_id"`
	ClosedOn        *time.Time      `gorm:"column:closed_on"`
	Proceeds        decimal.Decimal `gorm:"column:proceeds;type:text"`
	RealizedPL      decimal.Decimal `gorm:"column:realized_pl;type:text"`
}

type ReportingPeriod struct {
	ID    string    `gorm:"column:id;primaryKey"`
	Label string    `gorm:"column:label;not null;uniqueIndex"`
	Start time.Time `gorm:"column:period_start"`
	End   time.Time `gorm:"column:period_end"`
}

type CashFlowFact struct {
	ID       string          `gorm:"column:id;primaryKey"`
	PeriodID string          `gorm:"column:period_id;not null;index"`
	PartyID  string          `gorm:"column:party_id;not null"`
	Section  string          `gorm:"column:section"`
	Currency string          `gorm:"column:currency"`
	Inflow   decimal.Decimal `gorm:"column:inflow;type:text"`
	Outflow  decimal.Decimal `gorm:"column:outflow;type:text"`
	Net      decimal.Decimal `gorm:"column:net;type:text"`
}

type PayrollFact struct {
	ID         string          `gorm:"column:id;primaryKey"`
	PeriodID   string          `gorm:"column:period_id;not null;index"`
	ContractID string          `gorm:"column:contract_id;not null"`
	Currency   string          `gorm:"column:currency"`
	Gross      decimal.Decimal `gorm:"column:gross;type:text"`
	Net        decimal.Decimal `gorm:"column:net;type:text"`
	Withheld   decimal.Decimal `gorm:"column:withheld;type:text"`
}

type HoldingPerformanceFact struct {
	ID           string              `gorm:"column:id;primaryKey"`
	PeriodID     string              `gorm:"column:period_id;not null;index"`
	PartyID      string              `gorm:"column:party_id;not null"`
	InstrumentID string              `gorm:"column:instrument_id;not null"`
	Currency     string              `gorm:"column:currency"`
	Quantity     decimal.Decimal     `gorm:"column:quantity;type:text"`
	CostBasis    decimal.Decimal     `gorm:"column:cost_basis;type:text"`
	MarketValue  decimal.NullDecimal `gorm:"column:market_value;type:text"`
	UnrealizedPL decimal.NullDecimal `gorm:"column:unrealized_pl;type:text"`
	PriceDate    *time.Time          `gorm:"column:price_date"`
}

// allModels is the AutoMigrate and load order.
func allModels() []any {
	return []any{
		&Currency{}, &AccountType{}, &Market{}, &Category{}, &Channel{}, &Instrument{},
		&PriceQuote{}, &FxRate{}, &Party{}, &Account{}, &AccountPartyRole{}, &EmploymentContract{},
		&JournalEntry{}, &JournalLine{}, &Trade{}, &Holding{}, &Lot{}, &ReportingPeriod{},
		&CashFlowFact{}, &PayrollFact{}, &HoldingPerformanceFact{},
	}
}

// mapSlice converts rows and returns a pointer so gorm can address each element.
func mapSlice[S any, D any](in []S, f func(S) D) *[]D {
	out := make([]D, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return &out
}

func fromCurrency(c domain.Currency) Currency { return Currency(c) }

func fromAccountType(t domain.AccountTypeInfo) AccountType { return AccountType(t) }

func fromMarket(m domain.Market) Market { return Market(m) }

func fromCategory(c domain.Category) Category {
	return Category{ID: c.ID, Name: c.Name, Section: string(c.Section)}
}

func fromChannel(c domain.Channel) Channel { return Channel(c) }

func fromInstrument(i domain.Instrument) Instrument {
	return Instrument{ID: i.ID, Symbol: i.Symbol, Name: i.Name, Type: string(i.Type), ISIN: i.ISIN, MIC: i.MIC, Currency: i.Currency}
}

func fromPrice(p domain.PriceQuote) PriceQuote { return PriceQuote(p) }

func fromFxRate(r domain.FxRate) FxRate { return FxRate(r) }

func fromParty(p domain.Party) Party {
	return Party{ID: p.ID, Type: string(p.Type), DisplayName: p.DisplayName, Country: p.Country, CreatedAt: p.CreatedAt}
}

func fromAccount(a domain.Account) Account {
	return Account{
		ID: a.ID, Code: a.Code, Name: a.Name, TypeCode: a.TypeCode, Currency: a.Currency,
		IBAN: a.IBAN, Purpose: string(a.Purpose), OpenedAt: a.OpenedAt, ClosedAt: a.ClosedAt,
	}
}

func fromRole(r domain.AccountPartyRole) AccountPartyRole {
	return AccountPartyRole{
		ID: r.ID, AccountID: r.AccountID, PartyID: r.PartyID, Role: string(r.Role),
		StartDate: r.StartDate, EndDate: r.EndDate, IsPrimary: r.IsPrimary,
	}
}

func fromContract(c domain.EmploymentContract) EmploymentContract { return EmploymentContract(c) }

func fromEntry(e domain.JournalEntry) JournalEntry {
	return JournalEntry{
		ID: e.ID, Code: e.Code, TxnDate: e.TxnDate, PostedAt: e.PostedAt, Description: e.Description,
		Currency: e.Currency, ChannelCode: e.ChannelCode, CounterpartyPartyID: e.CounterpartyPartyID,
		TransferReference: e.TransferReference, ExternalReference: e.ExternalReference, ContractID: e.ContractID,
	}
}

func fromLine(l domain.JournalLine) JournalLine { return JournalLine(l) }

func fromTrade(t domain.Trade) Trade {
	return Trade{
		ID: t.ID, Code: t.Code, AccountID: t.AccountID, InstrumentID: t.InstrumentID, Side: string(t.Side),
		Quantity: t.Quantity, Price: t.Price, Fees: t.Fees, Tax: t.Tax, Currency: t.Currency,
		TradeTime: t.TradeTime, SettlementDate: t.SettlementDate, EntryID: t.EntryID,
	}
}

func fromHolding(h domain.Holding) Holding { return Holding(h) }

func fromLot(l domain.Lot) Lot {
	return Lot{
		ID: l.ID, HoldingID: l.HoldingID, AccountID: l.AccountID, InstrumentID: l.InstrumentID,
		TradeID: l.TradeID, ParentLotID: l.ParentLotID, Sequence: l.Sequence, OpenedOn: l.OpenedOn,
		Quantity: l.Quantity, CostBasis: l.CostBasis, Status: string(l.Status),
		ClosedByTradeID: l.ClosedByTradeID, ClosedOn: l.ClosedOn, Proceeds: l.Proceeds, RealizedPL: l.RealizedPL,
	}
}

func fromPeriod(p domain.ReportingPeriod) ReportingPeriod { return ReportingPeriod(p) }

func fromCashFlowFact(f domain.CashFlowFact) CashFlowFact {
	return CashFlowFact{
		ID: f.ID, PeriodID: f.PeriodID, PartyID: f.PartyID, Section: string(f.Section),
		Currency: f.Currency, Inflow: f.Inflow, Outflow: f.Outflow, Net: f.Net,
	}
}

func fromPayrollFact(f domain.PayrollFact) PayrollFact { return PayrollFact(f) }

func fromHoldingPerformance(f domain.HoldingPerformanceFact) HoldingPerformanceFact {
	return HoldingPerformanceFact(f)
}
