package domain

import (
	"time"

	"github.com/SscSPs/portfolio_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Position is a holding together with its full lot ledger, open and closed, in FIFO order.
// Its methods are pure: they return a new Position and never modify the receiver.
type Position struct {
	Holding Holding
	Lots    []Lot
}

// SaleResult describes what a SELL did to the lot ledger.
type SaleResult struct {
	Realized     decimal.Decimal
	ConsumedCost decimal.Decimal
	Closed       []Lot // Closed portions, in consumption order
	Remainders   []Lot // New open children created by partial consumption
}

// NewPosition returns an empty position for an account and instrument.
func NewPosition(accountID, instrumentID, currency string) Position {
	return Position{Holding: Holding{
		ID:           HoldingID(accountID, instrumentID),
		AccountID:    accountID,
		InstrumentID: instrumentID,
		Currency:     currency,
		Quantity:     decimal.Zero,
		AverageCost:  decimal.Zero,
		RealizedPL:   decimal.Zero,
	}}
}

// OpenLots returns the lots that still carry quantity, oldest first.
func (p Position) OpenLots() []Lot {
	open := make([]Lot, 0, len(p.Lots))
	for _, l := range p.Lots {
		if l.Status == LotOpen {
			open = append(open, l)
		}
	}
	return open
}

// OpenCostOf sums the cost basis of the open lots. It is exact, unlike
// quantity times the average cost.
func OpenCostOf(lots []Lot) decimal.Decimal {
	cost := decimal.Zero
	for _, l := range lots {
		if l.Status == LotOpen {
			cost = cost.Add(l.CostBasis)
		}
	}
	return cost
}

// OpenCost is the book value of the open quantity.
func (p Position) OpenCost() decimal.Decimal { return OpenCostOf(p.Lots) }

// AverageCostOf is the quantity-weighted unit cost of the open lots, zero when flat.
func AverageCostOf(lots []Lot) decimal.Decimal {
	qty, cost := decimal.Zero, decimal.Zero
	for _, l := range lots {
		if l.Status != LotOpen {
			continue
		}
		qty = qty.Add(l.Quantity)
		cost = cost.Add(l.CostBasis)
	}
	if qty.IsZero() {
		return decimal.Zero
	}
	return cost.Div(qty)
}

// OpenQuantityOf sums the quantity of the open lots.
func OpenQuantityOf(lots []Lot) decimal.Decimal {
	qty := decimal.Zero
	for _, l := range lots {
		if l.Status == LotOpen {
			qty = qty.Add(l.Quantity)
		}
	}
	return qty
}

// Consistent reports whether the stored quantity and average cost equal what the lots imply.
func (p Position) Consistent() bool {
	return p.Holding.Quantity.Equal(OpenQuantityOf(p.Lots)) &&
		p.Holding.AverageCost.Equal(AverageCostOf(p.Lots))
}

func (p Position) clone() Position {
	lots := make([]Lot, len(p.Lots))
	copy(lots, p.Lots)
	return Position{Holding: p.Holding, Lots: lots}
}

func (p Position) nextSequence() int {
	next := 1
	for _, l := range p.Lots {
		if l.Sequence >= next {
			next = l.Sequence + 1
		}
	}
	return next
}

// resync recomputes the derived holding fields from the lot ledger.
func (p *Position) resync(tradeID string, at time.Time) {
	p.Holding.Quantity = OpenQuantityOf(p.Lots)
	p.Holding.AverageCost = AverageCostOf(p.Lots)
	p.Holding.LastTradeID = tradeID
	p.Holding.UpdatedAt = at
}

// Buy opens a new lot of qty units costing cost in total (price times quantity plus fees,
// already in the holding currency).
func (p Position) Buy(tradeID string, at time.Time, qty, cost decimal.Decimal) (Position, Lot, error) {
	if !qty.IsPositive() {
		return p, Lot{}, &apperrors.NegativeQuantityOrPriceError{Field: "quantity", Value: qty}
	}
	if cost.IsNegative() {
		return p, Lot{}, &apperrors.NegativeQuantityOrPriceError{Field: "cost basis", Value: cost}
	}
	next := p.clone()
	lot := Lot{
		ID:           NewID("lot", tradeID),
		HoldingID:    p.Holding.ID,
		AccountID:    p.Holding.AccountID,
		InstrumentID: p.Holding.InstrumentID,
		TradeID:      tradeID,
		Sequence:     p.nextSequence(),
		OpenedOn:     at,
		Quantity:     qty,
		CostBasis:    cost,
		Status:       LotOpen,
		Proceeds:     decimal.Zero,
		RealizedPL:   decimal.Zero,
	}
	next.Lots = append(next.Lots, lot)
	next.resync(tradeID, at)
	return next, lot, nil
}

// Sell consumes qty units FIFO against net proceeds (after fees, in the holding currency).
// Proceeds are spread over the consumed portions pro rata by quantity; the last portion
// takes the remainder so the portions sum exactly to proceeds.
func (p Position) Sell(tradeID string, at time.Time, qty, proceeds decimal.Decimal) (Position, SaleResult, error) {
	if !qty.IsPositive() {
		return p, SaleResult{}, &apperrors.NegativeQuantityOrPriceError{Field: "quantity", Value: qty}
	}
	if qty.GreaterThan(p.Holding.Quantity) {
		return p, SaleResult{}, &apperrors.InsufficientHoldingError{
			AccountID:    p.Holding.AccountID,
			InstrumentID: p.Holding.InstrumentID,
			Held:         p.Holding.Quantity,
			Requested:    qty,
		}
	}

	res := SaleResult{Realized: decimal.Zero, ConsumedCost: decimal.Zero}
	lots := make([]Lot, 0, len(p.Lots)+1)
	remaining := qty
	allocated := decimal.Zero
	closedOn := at

	for _, l := range p.Lots {
		if l.Status != LotOpen || remaining.IsZero() {
			lots = append(lots, l)
			continue
		}

		take := decimal.Min(l.Quantity, remaining)
		consumedCost := l.CostBasis
		var remainder *Lot
		if take.LessThan(l.Quantity) {
			consumedCost = l.CostBasis.Mul(take).Div(l.Quantity)
			remainder = &Lot{
				ID:           NewID("lot", l.ID, tradeID),
				HoldingID:    l.HoldingID,
				AccountID:    l.AccountID,
				InstrumentID: l.InstrumentID,
				TradeID:      l.TradeID,
				ParentLotID:  l.ID,
				Sequence:     l.Sequence,
				OpenedOn:     l.OpenedOn,
				Quantity:     l.Quantity.Sub(take),
				CostBasis:    l.CostBasis.Sub(consumedCost),
				Status:       LotOpen,
				Proceeds:     decimal.Zero,
				RealizedPL:   decimal.Zero,
			}
		}
		remaining = remaining.Sub(take)

		share := proceeds.Sub(allocated)
		if !remaining.IsZero() {
			share = proceeds.Mul(take).Div(qty)
		}
		allocated = allocated.Add(share)

		l.Quantity = take
		l.CostBasis = consumedCost
		l.Status = LotClosed
		l.ClosedByTradeID = tradeID
		l.ClosedOn = &closedOn
		l.Proceeds = share
		l.RealizedPL = share.Sub(consumedCost)

		res.Closed = append(res.Closed, l)
		res.ConsumedCost = res.ConsumedCost.Add(consumedCost)
		res.Realized = res.Realized.Add(l.RealizedPL)
		lots = append(lots, l)
		if remainder != nil {
			res.Remainders = append(res.Remainders, *remainder)
			lots = append(lots, *remainder)
		}
	}

	next := Position{Holding: p.Holding, Lots: lots}
	next.Holding.RealizedPL = p.Holding.RealizedPL.Add(res.Realized)
	next.resync(tradeID, at)
	return next, res, nil
}

// Snapshot is a position's open quantity, cost and cumulative realized P&L at a point in time.
type Snapshot struct {
	Quantity  decimal.Decimal
	CostBasis decimal.Decimal
	Realized  decimal.Decimal
}

// AverageCost is the snapshot's cost per unit, zero when flat.
func (s Snapshot) AverageCost() decimal.Decimal {
	if s.Quantity.IsZero() {
		return decimal.Zero
	}
	return s.CostBasis.Div(s.Quantity)
}

// AsOf reconstructs the position at t from the lot ledger alone. A lot record counts as
// open at t when it was opened on or before t and was not closed by then; split records
// (closed portion plus remainder) add back up to the original lot before the split.
func (p Position) AsOf(t time.Time) Snapshot {
	snap := Snapshot{Quantity: decimal.Zero, CostBasis: decimal.Zero, Realized: decimal.Zero}
	for _, l := range p.Lots {
		if l.OpenedOn.After(t) {
			continue
		}
		if l.Status == LotClosed && l.ClosedOn != nil && !l.ClosedOn.After(t) {
			snap.Realized = snap.Realized.Add(l.RealizedPL)
			continue
		}
		snap.Quantity = snap.Quantity.Add(l.Quantity)
		snap.CostBasis = snap.CostBasis.Add(l.CostBasis)
	}
	return snap
}
