package services_test

import (
	"testing"
	"time"

	"github.com/SscSPs/portfolio_ledger/internal/apperrors"
	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
	"github.com/SscSPs/portfolio_ledger/internal/core/services"
	"github.com/stretchr/testify/suite"
)

type TradeServiceTestSuite struct {
	suite.Suite
	fx *fixture
}

func (suite *TradeServiceTestSuite) SetupTest() {
	suite.fx = newFixture(suite.T())
}

func TestTradeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TradeServiceTestSuite))
}

func (suite *TradeServiceTestSuite) execute(code string, n int, side, qty, price string) (*domain.Trade, error) {
	fx := suite.fx
	return fx.svc.Trade.ExecuteTrade(fx.ctx, trade(code, day(n).Add(10*time.Hour), fx.brokerage.ID, fx.acme.ID, side, qty, price))
}

func (suite *TradeServiceTestSuite) TestAverageCostScenario() {
	fx := suite.fx
	_, err := suite.execute("T-1", 2, "BUY", "10", "100")
	suite.Require().NoError(err)
	h, err := fx.svc.Trade.GetHolding(fx.ctx, fx.brokerage.ID, fx.acme.ID)
	suite.Require().NoError(err)
	suite.True(h.AverageCost.Equal(d("100")))
	suite.True(h.Quantity.Equal(d("10")))

	_, err = suite.execute("T-2", 3, "BUY", "10", "120")
	suite.Require().NoError(err)
	h, err = fx.svc.Trade.GetHolding(fx.ctx, fx.brokerage.ID, fx.acme.ID)
	suite.Require().NoError(err)
	suite.True(h.AverageCost.Equal(d("110")), "avg %s", h.AverageCost)
	suite.True(h.Quantity.Equal(d("20")))

	_, err = suite.execute("T-3", 4, "SELL", "15", "130")
	suite.Require().NoError(err)
	h, err = fx.svc.Trade.GetHolding(fx.ctx, fx.brokerage.ID, fx.acme.ID)
	suite.Require().NoError(err)
	suite.True(h.RealizedPL.Equal(d("350")), "realized %s", h.RealizedPL)
	suite.True(h.Quantity.Equal(d("5")))
	suite.True(h.AverageCost.Equal(d("120")), "avg %s", h.AverageCost)

	lots, err := fx.svc.Trade.ListLots(fx.ctx, fx.brokerage.ID, fx.acme.ID)
	suite.Require().NoError(err)
	suite.Len(lots, 3)
	suite.True(domain.Position{Holding: *h, Lots: lots}.Consistent())

	// Brokerage cash: -1000 -1200 +1950
	bal, err := fx.svc.Reporting.AccountBalance(fx.ctx, fx.brokerage.ID, day(31))
	suite.Require().NoError(err)
	suite.True(bal.Balance.Equal(d("-250")), "balance %s", bal.Balance)
}

func (suite *TradeServiceTestSuite) TestOversellLeavesHoldingUntouched() {
	fx := suite.fx
	_, err := suite.execute("T-1", 2, "BUY", "10", "100")
	suite.Require().NoError(err)
	_, err = suite.execute("T-2", 3, "BUY", "10", "120")
	suite.Require().NoError(err)
	before, err := fx.svc.Trade.GetHolding(fx.ctx, fx.brokerage.ID, fx.acme.ID)
	suite.Require().NoError(err)

	_, err = suite.execute("T-3", 4, "SELL", "25", "130")

	var insufficient *apperrors.InsufficientHoldingError
	suite.Require().ErrorAs(err, &insufficient)
	suite.True(insufficient.Held.Equal(d("20")))
	after, err := fx.svc.Trade.GetHolding(fx.ctx, fx.brokerage.ID, fx.acme.ID)
	suite.Require().NoError(err)
	suite.Equal(*before, *after)
	_, err = fx.svc.Journal.GetEntry(fx.ctx, services.TradeEntryCode("T-3"))
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *TradeServiceTestSuite) TestFeesAndTaxLayout() {
	fx := suite.fx
	req := trade("T-F", day(2), fx.brokerage.ID, fx.acme.ID, "BUY", "10", "100")
	req.Fees, req.Tax = d("5"), d("2")
	t, err := fx.svc.Trade.ExecuteTrade(fx.ctx, req)
	suite.Require().NoError(err)

	lots, err := fx.svc.Trade.ListLots(fx.ctx, fx.brokerage.ID, fx.acme.ID)
	suite.Require().NoError(err)
	suite.Require().Len(lots, 1)
	suite.True(lots[0].CostBasis.Equal(d("1005")), "tax stays out of cost basis")

	entry, err := fx.svc.Journal.GetEntry(fx.ctx, services.TradeEntryCode("T-F"))
	suite.Require().NoError(err)
	suite.Equal(t.EntryID, entry.ID)
	suite.Equal("T-F", entry.ExternalReference)
	suite.Require().Len(entry.Lines, 3)
	suite.True(entry.Lines[0].Amount.Equal(d("-1007")))
	suite.True(entry.Lines[1].Amount.Equal(d("1000")))
	suite.True(entry.Lines[2].Amount.Equal(d("7")))
	suite.True(entry.Sum().IsZero())
}

func (suite *TradeServiceTestSuite) TestForeignCurrencyTradeBooksRoundingPlug() {
	fx := suite.fx
	req := trade("T-USD", day(5), fx.brokerage.ID, fx.globex.ID, "BUY", "1", "10.05")
	req.Currency = "USD"
	req.Fees = d("0.05")
	_, err := fx.svc.Trade.ExecuteTrade(fx.ctx, req)
	suite.Require().NoError(err)

	h, err := fx.svc.Trade.GetHolding(fx.ctx, fx.brokerage.ID, fx.globex.ID)
	suite.Require().NoError(err)
	suite.Equal("USD", h.Currency)
	suite.True(h.AverageCost.Equal(d("10.10")), "avg %s", h.AverageCost)

	entry, err := fx.svc.Journal.GetEntry(fx.ctx, services.TradeEntryCode("T-USD"))
	suite.Require().NoError(err)
	suite.Equal("EUR", entry.Currency)
	suite.Require().Len(entry.Lines, 4)
	suite.True(entry.Lines[0].Amount.Equal(d("-9.09")))
	suite.True(entry.Lines[1].Amount.Equal(d("9.05")))
	suite.True(entry.Lines[2].Amount.Equal(d("0.05")))
	suite.True(entry.Lines[3].Amount.Equal(d("-0.01")))
	suite.Equal(fx.categoryID(suite.T(), domain.CategoryFXRounding), entry.Lines[3].CategoryID)
	suite.True(entry.Sum().IsZero())
}

func (suite *TradeServiceTestSuite) TestMissingRateRejectsTrade() {
	fx := suite.fx
	req := trade("T-OLD", time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), fx.brokerage.ID, fx.globex.ID, "BUY", "1", "10")
	req.Currency = "USD"

	_, err := fx.svc.Trade.ExecuteTrade(fx.ctx, req)

	var missing *apperrors.MissingPriceDataError
	suite.Require().ErrorAs(err, &missing)
	suite.Equal("fx", missing.Kind)
	_, err = fx.svc.Trade.GetHolding(fx.ctx, fx.brokerage.ID, fx.globex.ID)
	suite.ErrorIs(err, apperrors.ErrMissingReference)
}

func (suite *TradeServiceTestSuite) TestTradeCodeIdempotency() {
	fx := suite.fx
	first, err := suite.execute("T-1", 2, "BUY", "10", "100")
	suite.Require().NoError(err)
	again, err := suite.execute("T-1", 2, "BUY", "10", "100")
	suite.Require().NoError(err)
	suite.Equal(first.ID, again.ID)

	h, err := fx.svc.Trade.GetHolding(fx.ctx, fx.brokerage.ID, fx.acme.ID)
	suite.Require().NoError(err)
	suite.True(h.Quantity.Equal(d("10")), "replay must not double the position")

	_, err = suite.execute("T-1", 2, "BUY", "11", "100")
	var dup *apperrors.DuplicateEntryCodeError
	suite.Require().ErrorAs(err, &dup)
	suite.Equal("trade", dup.Kind)
}

func (suite *TradeServiceTestSuite) TestValidationFailures() {
	fx := suite.fx
	_, err := fx.svc.Trade.ExecuteTrade(fx.ctx, trade("T-N", day(2), fx.brokerage.ID, fx.acme.ID, "BUY", "10", "-1"))
	var neg *apperrors.NegativeQuantityOrPriceError
	suite.ErrorAs(err, &neg)

	_, err = fx.svc.Trade.ExecuteTrade(fx.ctx, trade("T-Q", day(2), fx.brokerage.ID, fx.acme.ID, "SELL", "0", "10"))
	suite.ErrorAs(err, &neg)

	_, err = fx.svc.Trade.ExecuteTrade(fx.ctx, trade("T-C", day(2), fx.checkingA.ID, fx.acme.ID, "BUY", "1", "10"))
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = fx.svc.Trade.ExecuteTrade(fx.ctx, trade("T-S", day(2), fx.brokerage.ID, fx.acme.ID, "SHORT", "1", "10"))
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = fx.svc.Trade.ExecuteTrade(fx.ctx, trade("T-I", day(2), fx.brokerage.ID, "unknown", "BUY", "1", "10"))
	suite.ErrorIs(err, apperrors.ErrMissingReference)

	suite.Require().NoError(fx.svc.Account.CloseAccount(fx.ctx, fx.brokerage.ID, day(10)))
	_, err = fx.svc.Trade.ExecuteTrade(fx.ctx, trade("T-X", day(11), fx.brokerage.ID, fx.acme.ID, "BUY", "1", "10"))
	var closed *apperrors.ClosedAccountError
	suite.ErrorAs(err, &closed)
}

func (suite *TradeServiceTestSuite) TestValuate() {
	fx := suite.fx
	_, err := suite.execute("T-1", 2, "BUY", "10", "100")
	suite.Require().NoError(err)
	_, err = suite.execute("T-2", 3, "BUY", "10", "120")
	suite.Require().NoError(err)

	v, err := fx.svc.Trade.Valuate(fx.ctx, fx.brokerage.ID, fx.acme.ID, day(25))
	suite.Require().NoError(err)
	suite.True(v.Available)
	suite.True(v.LastPrice.Decimal.Equal(d("140")))
	suite.True(v.UnrealizedPL.Decimal.Equal(d("600")), "unrealized %s", v.UnrealizedPL.Decimal)

	_, err = fx.svc.Trade.Valuate(fx.ctx, fx.brokerage.ID, fx.acme.ID, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	var missing *apperrors.MissingPriceDataError
	suite.ErrorAs(err, &missing)
}
