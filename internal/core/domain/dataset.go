package domain

// Dataset is the flat, surrogate-keyed record set handed to the bulk-load layer.
// Every slice is sorted by a stable key so two runs with the same seed export
// byte-identical data.
type Dataset struct {
	Currencies          []Currency
	AccountTypes        []AccountTypeInfo
	Markets             []Market
	Categories          []Category
	Channels            []Channel
	Instruments         []Instrument
	Prices              []PriceQuote
	FxRates             []FxRate
	Parties             []Party
	Accounts            []Account
	AccountPartyRoles   []AccountPartyRole
	Contracts           []EmploymentContract
	Entries             []JournalEntry // Lines are exported separately
	Lines               []JournalLine
	Trades              []Trade
	Holdings            []Holding
	Lots                []Lot
	Periods             []ReportingPeriod
	CashFlowFacts       []CashFlowFact
	PayrollFacts        []PayrollFact
	HoldingPerformances []HoldingPerformanceFact
}
