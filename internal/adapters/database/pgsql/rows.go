package pgsql

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
)

// table describes one target table and how to flatten its rows out of a dataset.
type table struct {
	name    string
	columns []string
	rows    func(ds domain.Dataset) [][]any
}

// tables lists every exported table in foreign-key order.
var tables = []table{
	{
		name:    "currencies",
		columns: []string{"code", "name", "exponent"},
		rows: func(ds domain.Dataset) [][]any {
			out := make([][]any, 0, len(ds.Currencies))
			for _, c := range ds.Currencies {
				out = append(out, []any{c.Code, c.Name, c.Exponent})
			}
			return out
		},
	},
	{
		name:    "account_types",
		columns: []string{"code", "description", "is_cash", "is_brokerage"},
		rows: func(ds domain.Dataset) [][]any {
			out := make([][]any, 0, len(ds.AccountTypes))
			for _, t := range ds.AccountTypes {
				out = append(out, []any{t.Code, t.Description, t.IsCash, t.IsBrokerage})
			}
			return out
		},
	},
	{
		name:    "markets",
		columns: []string{"mic", "name", "country", "currency"},
		rows: func(ds domain.Dataset) [][]any {
			out := make([][]any, 0, len(ds.Markets))
			for _, m := range ds.Markets {
				out = append(out, []any{m.MIC, m.Name, m.Country, m.Currency})
			}
			return out
		},
	},
	{
		name:    "categories",
		columns: []string{"id", "name", "section"},
		rows: func(ds domain.Dataset) [][]any {
			out := make([][]any, 0, len(ds.Categories))
			for _, c := range ds.Categories {
				out = append(out, []any{c.ID, c.Name, string(c.Section)})
			}
			return out
		},
	},
	{
		name:    "channels",
		columns: []string{"code", "description"},
		rows: func(ds domain.Dataset) [][]any {
			out := make([][]any, 0, len(ds.Channels))
			for _, c := range ds.Channels {
				out = append(out, []any{c.Code, c.Description})
			}
			return out
		},
	},
	{
		name:    "instruments",
		columns: []string{"id", "symbol", "name", "type", "isin", "mic", "currency"},
		rows: func(ds domain.Dataset) [][]any {
			out := make([][]any, 0, len(ds.Instruments))
			for _, i := range ds.Instruments {
				out = append(out, []any{i.ID, i.Symbol, i.Name, string(i.Type), text(i.ISIN), text(i.MIC), i.Currency})
			}
			return out
		},
	},
	{
		name:    "price_quotes",
		columns: []string{"id", "instrument_id", "date", "close", "currency"},
		rows: func(ds domain.Dataset) [][]any {
			out := make([][]any, 0, len(ds.Prices))
			for _, p := range ds.Prices {
				out = append(out, []any{p.ID, p.InstrumentID, date(p.Date), numeric(p.Close), p.Currency})
			}
			return out
		},
	},
	{
		name:    "fx_rates",
		columns: []string{"id", "base", "quote", "date", "rate"},
		rows: func(ds domain.Dataset) [][]any {
			out := make([][]any, 0, len(ds.FxRates))
			for _, r := range ds.FxRates {
				out = append(out, []any{r.ID, r.Base, r.Quote, date(r.Date), numeric(r.Rate)})
			}
			return out
		},
	},
	{
		name:    "parties",
		columns: []string{"id", "type", "display_name", "country", "created_at"},
		rows: func(ds domain.Dataset) [][]any {
			out := make([][]any, 0, len(ds.Parties))
			for _, p := range ds.Parties {
				out = append(out, []any{p.ID, string(p.Type), p.DisplayName, text(p.Country), p.CreatedAt})
			}
			return out
		},
	},
	{
		name:    "accounts",
		columns: []string{"id", "code", "name", "type_code", "currency", "iban", "purpose", "opened_at", "closed_at"},
		rows: func(ds domain.Dataset) [][]any {
			out := make([][]any, 0, len(ds.Accounts))
			for _, a := range ds.Accounts {
				out = append(out, []any{
					a.ID, a.Code, a.Name, a.TypeCode, a.Currency,
					text(a.IBAN), text(string(a.Purpose)), a.OpenedAt, a.ClosedAt,
				})
			}
			return out
		},
	},
	{
		name:    "account_party_roles",
		columns: []string{"id", "account_id", "party_id", "role", "start_date", "end_date", "is_primary"},
		rows: func(ds domain.Dataset) [][]any {
			out := make([][]any, 0, len(ds.AccountPartyRoles))
			for _, r := range ds.AccountPartyRoles {
				out = append(out, []any{r.ID, r.AccountID, r.PartyID, string(r.Role), r.StartDate, r.EndDate, r.IsPrimary})
			}
			return out
		},
	},
	{
		name:    "employment_contracts",
		columns: []string{"id", "employee_id", "employer_id", "position_title", "start_date", "end_date", "is_primary"},
		rows: func(ds domain.Dataset) [][]any {
			out := make([][]any, 0, len(ds.Contracts))
			for _, c := range ds.Contracts {
				out = append(out, []any{
					c.ID, c.EmployeeID, c.EmployerID, text(c.PositionTitle),
					date(c.StartDate), nullDate(c.EndDate), c.IsPrimary,
				})
			}
			return out
		},
	},
	{
		name: "journal_entries",
		columns: []string{
			"id", "code", "txn_date", "posted_at", "description", "currency", "channel_code",
			"counterparty_party_id", "transfer_reference", "external_reference", "contract_id",
		},
		rows: func(ds domain.Dataset) [][]any {
			out := make([][]any, 0, len(ds.Entries))
			for _, e := range ds.Entries {
				out = append(out, []any{
					e.ID, e.Code, date(e.TxnDate), e.PostedAt, e.Description, e.Currency, text(e.ChannelCode),
					text(e.CounterpartyPartyID), text(e.TransferReference), text(e.ExternalReference), text(e.ContractID),
				})
			}
			return out
		},
	},
	{
		name:    "journal_lines",
		columns: []string{"id", "entry_id", "line_no", "account_id", "amount", "currency", "category_id", "memo"},
		rows: func(ds domain.Dataset) [][]any {
			out := make([][]any, 0, len(ds.Lines))
			for _, l := range ds.Lines {
				out = append(out, []any{
					l.ID, l.EntryID, l.LineNo, l.AccountID, numeric(l.Amount),
					l.Currency, text(l.CategoryID), text(l.Memo),
				})
			}
			return out
		},
	},
	{
		name: "trades",
		columns: []string{
			"id", "code", "account_id", "instrument_id", "side", "quantity", "price",
			"fees", "tax", "currency", "trade_time", "settlement_date", "entry_id",
		},
		rows: func(ds domain.Dataset) [][]any {
			out := make([][]any, 0, len(ds.Trades))
			for _, t := range ds.Trades {
				out = append(out, []any{
					t.ID, t.Code, t.AccountID, t.InstrumentID, string(t.Side),
					numeric(t.Quantity), numeric(t.Price), numeric(t.Fees), numeric(t.Tax),
					t.Currency, t.TradeTime, nullDate(t.SettlementDate), t.EntryID,
				})
			}
			return out
		},
	},
	{
		name: "holdings",
		columns: []string{
			"id", "account_id", "instrument_id", "currency", "quantity",
			"average_cost", "realized_pl", "last_trade_id", "updated_at",
		},
		rows: func(ds domain.Dataset) [][]any {
			out := make([][]any, 0, len(ds.Holdings))
			for _, h := range ds.Holdings {
				out = append(out, []any{
					h.ID, h.AccountID, h.InstrumentID, h.Currency, numeric(h.Quantity),
					numeric(h.AverageCost), numeric(h.RealizedPL), text(h.LastTradeID), h.UpdatedAt,
				})
			}
			return out
		},
	},
	{
		name: "lots",
		columns: []string{
			"id", "holding_id", "account_id", "instrument_id", "trade_id", "parent_lot_id", "sequence",
			"opened_on", "quantity", "cost_basis", "status", "closed_by_trade_id", "closed_on",
			"proceeds", "realized_pl",
		},
		rows: func(ds domain.Dataset) [][]any {
			out := make([][]any, 0, len(ds.Lots))
			for _, l := range ds.Lots {
				out = append(out, []any{
					l.ID, l.HoldingID, l.AccountID, l.InstrumentID, l.TradeID, text(l.ParentLotID), l.Sequence,
					l.OpenedOn, numeric(l.Quantity), numeric(l.CostBasis), string(l.Status),
					text(l.ClosedByTradeID), l.ClosedOn, numeric(l.Proceeds), numeric(l.RealizedPL),
				})
			}
			return out
		},
	},
	{
		name:    "reporting_periods",
		columns: []string{"id", "label", "start", "end"},
		rows: func(ds domain.Dataset) [][]any {
			out := make([][]any, 0, len(ds.Periods))
			for _, p := range ds.Periods {
				out = append(out, []any{p.ID, p.Label, date(p.Start), date(p.End)})
			}
			return out
		},
	},
	{
		name:    "cash_flow_facts",
		columns: []string{"id", "period_id", "party_id", "section", "currency", "inflow", "outflow", "net"},
		rows: func(ds domain.Dataset) [][]any {
			out := make([][]any, 0, len(ds.CashFlowFacts))
			for _, f := range ds.CashFlowFacts {
				out = append(out, []any{
					f.ID, f.PeriodID, f.PartyID, string(f.Section), f.Currency,
					numeric(f.Inflow), numeric(f.Outflow), numeric(f.Net),
				})
			}
			return out
		},
	},
	{
		name:    "payroll_facts",
		columns: []string{"id", "period_id", "contract_id", "currency", "gross", "net", "withheld"},
		rows: func(ds domain.Dataset) [][]any {
			out := make([][]any, 0, len(ds.PayrollFacts))
			for _, f := range ds.PayrollFacts {
				out = append(out, []any{
					f.ID, f.PeriodID, f.ContractID, f.Currency,
					numeric(f.Gross), numeric(f.Net), numeric(f.Withheld),
				})
			}
			return out
		},
	},
	{
		name: "holding_performance_facts",
		columns: []string{
			"id", "period_id", "party_id", "instrument_id", "currency", "quantity",
			"cost_basis", "market_value", "unrealized_pl", "price_date",
		},
		rows: func(ds domain.Dataset) [][]any {
			out := make([][]any, 0, len(ds.HoldingPerformances))
			for _, f := range ds.HoldingPerformances {
				out = append(out, []any{
					f.ID, f.PeriodID, f.PartyID, f.InstrumentID, f.Currency, numeric(f.Quantity),
					numeric(f.CostBasis), nullNumeric(f.MarketValue), nullNumeric(f.UnrealizedPL), nullDate(f.PriceDate),
				})
			}
			return out
		},
	},
}

// numeric encodes a decimal without going through float64.
func numeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

func nullNumeric(d decimal.NullDecimal) pgtype.Numeric {
	if !d.Valid {
		return pgtype.Numeric{}
	}
	return numeric(d.Decimal)
}

// text maps an empty optional string to NULL.
func text(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func date(t time.Time) pgtype.Date {
	return pgtype.Date{Time: domain.DateOf(t), Valid: true}
}

func nullDate(t *time.Time) pgtype.Date {
	if t == nil {
		return pgtype.Date{}
	}
	return date(*t)
}
