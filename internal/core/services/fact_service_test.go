package services_test

import (
	"testing"
	"time"

	"github.com/SscSPs/portfolio_ledger/internal/apperrors"
	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
	"github.com/SscSPs/portfolio_ledger/internal/dto"
	"github.com/stretchr/testify/suite"
)

type FactServiceTestSuite struct {
	suite.Suite
	fx       *fixture
	period   domain.ReportingPeriod
	external *domain.Account
}

func (suite *FactServiceTestSuite) SetupTest() {
	suite.fx = newFixture(suite.T())
	suite.period = domain.MonthlyPeriods(day(1), 1)[0]
	suite.Require().NoError(suite.fx.svc.Fact.RegisterPeriods(suite.fx.ctx, []domain.ReportingPeriod{suite.period}))
	var err error
	suite.external, err = suite.fx.svc.Account.SystemAccount(suite.fx.ctx, domain.PurposeExternal, "EUR")
	suite.Require().NoError(err)
}

func TestFactServiceTestSuite(t *testing.T) {
	suite.Run(t, new(FactServiceTestSuite))
}

func (suite *FactServiceTestSuite) post(req dto.PostEntryRequest) {
	_, err := suite.fx.svc.Journal.Post(suite.fx.ctx, req)
	suite.Require().NoError(err)
}

func (suite *FactServiceTestSuite) postCashFlowScenario() {
	fx := suite.fx
	salary := fx.categoryID(suite.T(), domain.CategorySalary)
	groceries := fx.categoryID(suite.T(), "Groceries")
	suite.post(transfer("CF-1", day(5), suite.external.ID, fx.checkingA.ID, d("500"), salary))
	suite.post(transfer("CF-2", day(9), fx.checkingA.ID, suite.external.ID, d("200"), groceries))
	// Outside the period on both sides
	suite.post(transfer("CF-0", time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC), fx.checkingA.ID, suite.external.ID, d("999"), groceries))
	suite.post(transfer("CF-9", time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), fx.checkingA.ID, suite.external.ID, d("999"), groceries))
}

func (suite *FactServiceTestSuite) TestCashFlowScenario() {
	fx := suite.fx
	suite.postCashFlowScenario()

	facts, err := fx.svc.Fact.ComputeCashFlow(fx.ctx, suite.period)
	suite.Require().NoError(err)

	rows := map[domain.Section]domain.CashFlowFact{}
	for _, f := range facts {
		suite.Equal(fx.alice.ID, f.PartyID, "clearing accounts are not attributed to parties")
		rows[f.Section] = f
	}
	suite.Require().Len(rows, 2)
	expense := rows[domain.SectionExpense]
	suite.True(expense.Inflow.IsZero())
	suite.True(expense.Outflow.Equal(d("200")))
	suite.True(expense.Net.Equal(d("-200")))
	income := rows[domain.SectionIncome]
	suite.True(income.Inflow.Equal(d("500")))
	suite.True(income.Net.Equal(d("500")))
	suite.Equal(domain.CashFlowFactID(suite.period.ID, fx.alice.ID, domain.SectionExpense, "EUR"), expense.ID)
}

func (suite *FactServiceTestSuite) TestUncategorizedLinesGetOwnSection() {
	fx := suite.fx
	suite.post(transfer("U-1", day(5), fx.checkingB.ID, fx.checkingA.ID, d("10"), ""))

	facts, err := fx.svc.Fact.ComputeCashFlow(fx.ctx, suite.period)
	suite.Require().NoError(err)
	suite.Require().Len(facts, 2)
	for _, f := range facts {
		suite.Equal(domain.SectionUncategorized, f.Section)
	}
}

func (suite *FactServiceTestSuite) TestComputePeriodIsIdempotent() {
	fx := suite.fx
	suite.postCashFlowScenario()
	completeThrough := suite.period.End

	_, err := fx.svc.Fact.ComputePeriod(fx.ctx, suite.period.ID, completeThrough)
	suite.Require().NoError(err)
	first, err := fx.store.ListCashFlowFacts(fx.ctx, suite.period.ID)
	suite.Require().NoError(err)

	result, err := fx.svc.Fact.ComputePeriod(fx.ctx, suite.period.ID, completeThrough)
	suite.Require().NoError(err)
	second, err := fx.store.ListCashFlowFacts(fx.ctx, suite.period.ID)
	suite.Require().NoError(err)

	suite.Equal(first, second)
	suite.Equal(2, result.Rows[domain.FactCashFlow])
	suite.Empty(result.Errors)
}

func (suite *FactServiceTestSuite) TestPeriodNotClosed() {
	fx := suite.fx
	_, err := fx.svc.Fact.ComputePeriod(fx.ctx, suite.period.ID, day(15))

	var notClosed *apperrors.PeriodNotClosedError
	suite.Require().ErrorAs(err, &notClosed)
	suite.ErrorIs(err, apperrors.ErrPeriodNotClosed)

	_, err = fx.svc.Fact.ComputePeriod(fx.ctx, "missing", suite.period.End)
	suite.ErrorIs(err, apperrors.ErrMissingReference)
}

func (suite *FactServiceTestSuite) payrollSetup() (*domain.EmploymentContract, *domain.Account) {
	fx := suite.fx
	employer, err := fx.svc.Account.CreateParty(fx.ctx, dto.CreatePartyRequest{Type: "COMPANY", DisplayName: "Initech", CreatedAt: day(1)})
	suite.Require().NoError(err)
	operating := fx.openAccount(suite.T(), "OP-INITECH", domain.AccountTypeOperating, employer.ID)
	contract, err := fx.svc.Account.CreateContract(fx.ctx, dto.CreateContractRequest{
		EmployeeID: fx.alice.ID,
		EmployerID: employer.ID,
		StartDate:  day(1),
		IsPrimary:  true,
	})
	suite.Require().NoError(err)
	return contract, operating
}

func (suite *FactServiceTestSuite) payrollEntry(code, contractID string, operating *domain.Account) dto.PostEntryRequest {
	fx := suite.fx
	taxAcc, err := fx.svc.Account.SystemAccount(fx.ctx, domain.PurposeTax, "EUR")
	suite.Require().NoError(err)
	return dto.PostEntryRequest{
		Code:        code,
		TxnDate:     day(25),
		Currency:    "EUR",
		ChannelCode: domain.ChannelPayroll,
		ContractID:  contractID,
		Lines: []dto.EntryLineRequest{
			{AccountID: operating.ID, Amount: d("-3000"), Currency: "EUR", CategoryID: fx.categoryID(suite.T(), domain.CategoryPayroll)},
			{AccountID: fx.checkingA.ID, Amount: d("2400"), Currency: "EUR", CategoryID: fx.categoryID(suite.T(), domain.CategorySalary)},
			{AccountID: taxAcc.ID, Amount: d("600"), Currency: "EUR", CategoryID: fx.categoryID(suite.T(), domain.CategoryWageTaxWithheld)},
		},
	}
}

func (suite *FactServiceTestSuite) TestPayrollFact() {
	fx := suite.fx
	contract, operating := suite.payrollSetup()
	suite.post(suite.payrollEntry("PAY-1", contract.ID, operating))

	facts, err := fx.svc.Fact.ComputePayroll(fx.ctx, suite.period)
	suite.Require().NoError(err)
	suite.Require().Len(facts, 1)
	suite.Equal(contract.ID, facts[0].ContractID)
	suite.True(facts[0].Gross.Equal(d("3000")))
	suite.True(facts[0].Net.Equal(d("2400")))
	suite.True(facts[0].Withheld.Equal(d("600")))
}

func (suite *FactServiceTestSuite) TestMissingReferenceAbortsOnlyThatFactType() {
	fx := suite.fx
	_, operating := suite.payrollSetup()
	suite.postCashFlowScenario()
	suite.post(suite.payrollEntry("PAY-X", "no-such-contract", operating))

	result, err := fx.svc.Fact.ComputePeriod(fx.ctx, suite.period.ID, suite.period.End)
	suite.Require().NoError(err)

	suite.ErrorIs(result.Errors[domain.FactPayroll], apperrors.ErrMissingReference)
	suite.Positive(result.Rows[domain.FactCashFlow])
	payroll, err := fx.store.ListPayrollFacts(fx.ctx, suite.period.ID)
	suite.Require().NoError(err)
	suite.Empty(payroll)
}

func (suite *FactServiceTestSuite) TestHoldingPerformance() {
	fx := suite.fx
	for _, req := range []dto.ExecuteTradeRequest{
		trade("T-1", day(2), fx.brokerage.ID, fx.acme.ID, "BUY", "10", "100"),
		trade("T-2", day(3), fx.brokerage.ID, fx.acme.ID, "BUY", "10", "120"),
		trade("T-3", day(4), fx.brokerage.ID, fx.acme.ID, "SELL", "15", "130"),
		// After the period: must not leak in
		trade("T-4", time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC), fx.brokerage.ID, fx.acme.ID, "SELL", "5", "150"),
	} {
		_, err := fx.svc.Trade.ExecuteTrade(fx.ctx, req)
		suite.Require().NoError(err)
	}

	facts, err := fx.svc.Fact.ComputeHoldingPerformance(fx.ctx, suite.period)
	suite.Require().NoError(err)
	suite.Require().Len(facts, 1)
	f := facts[0]
	suite.Equal(fx.alice.ID, f.PartyID)
	suite.True(f.Quantity.Equal(d("5")))
	suite.True(f.CostBasis.Equal(d("600")))
	suite.Require().True(f.MarketValue.Valid)
	suite.True(f.MarketValue.Decimal.Equal(d("700")))
	suite.True(f.UnrealizedPL.Decimal.Equal(d("100")))
	suite.Equal(day(20), *f.PriceDate)

	next := domain.MonthlyPeriods(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), 1)[0]
	later, err := fx.svc.Fact.ComputeHoldingPerformance(fx.ctx, next)
	suite.Require().NoError(err)
	suite.Empty(later, "flat positions produce no rows")
}

func (suite *FactServiceTestSuite) TestHoldingPerformanceCostBasisIsExact() {
	fx := suite.fx
	req := trade("T-1", day(2), fx.brokerage.ID, fx.acme.ID, "BUY", "3", "33.33")
	req.Fees = d("0.01")
	_, err := fx.svc.Trade.ExecuteTrade(fx.ctx, req)
	suite.Require().NoError(err)

	facts, err := fx.svc.Fact.ComputeHoldingPerformance(fx.ctx, suite.period)
	suite.Require().NoError(err)
	suite.Require().Len(facts, 1)
	f := facts[0]
	suite.True(f.CostBasis.Equal(d("100")), "got %s", f.CostBasis)
	suite.Require().True(f.UnrealizedPL.Valid)
	suite.True(f.MarketValue.Decimal.Equal(d("420")))
	suite.True(f.UnrealizedPL.Decimal.Equal(d("320")), "got %s", f.UnrealizedPL.Decimal)
}
