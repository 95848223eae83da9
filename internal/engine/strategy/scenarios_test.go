// internal/engine/strategy/scenarios_test.go
package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/propscout/dealengine/internal/domain"
)

// BRRRR reference deal: $285k purchase, 10% down, 12% hard money over a
// four-month hold, $2,800 rent, refinance at 75% of a $425k ARV.
func TestBRRRR_ReferenceScenario(t *testing.T) {
	calc, err := Get(domain.StrategyBRRRR, domain.DefaultParams(), zap.NewNop())
	require.NoError(t, err)

	p := domain.PropertySnapshot{
		ListPrice:       285000,
		Bedrooms:        3,
		MonthlyRent:     2800,
		AnnualTaxes:     5700,
		AnnualInsurance: 2850, // 1% of price
		ARV:             425000,
	}
	a := testAssumptions()

	res, err := calc.Calculate(285000, a, p)
	require.NoError(t, err)

	detail, ok := res.Detail.(domain.BRRRRDetail)
	require.True(t, ok, "BRRRR result must carry a BRRRRDetail")

	t.Logf("acquisition=%.2f holding_interest=%.2f refi=%.2f cash_out=%.2f cash_left=%.2f",
		detail.AcquisitionLoan, detail.HoldingInterest, detail.RefinanceLoanAmount,
		detail.CashOut, detail.CashLeftInDeal)

	assert.InDelta(t, 318750, detail.RefinanceLoanAmount, 0.01, "refinance loan must be 75%% of ARV")
	assert.Greater(t, detail.HoldingInterest, 0.0)
	assert.InDelta(t, 256500, detail.AcquisitionLoan, 0.01)
	assert.InDelta(t, 256500*0.12*4/12, detail.HoldingInterest, 0.01)

	// cash_left_in_deal keeps its raw sign; recovery percent is capped.
	assert.InDelta(t, res.Metrics.TotalCashInvested-detail.CashOut, detail.CashLeftInDeal, 0.01)
	assert.LessOrEqual(t, detail.CashRecoveryPercent, 100.0)
	assert.Equal(t, detail.CashLeftInDeal <= 0, detail.InfiniteROIAchieved)
}

// Flip reference deal: MAO = ARV*0.70 - rehab, with the 70% rule flipping
// exactly at the MAO boundary.
func TestFlip_SeventyPercentRule(t *testing.T) {
	calc, err := Get(domain.StrategyFixAndFlip, domain.DefaultParams(), zap.NewNop())
	require.NoError(t, err)

	p := domain.PropertySnapshot{ListPrice: 200000, ARV: 300000}
	a := testAssumptions()
	a.RehabBudget = 40000

	atMAO, err := calc.Calculate(170000, a, p)
	require.NoError(t, err)
	detail := atMAO.Detail.(domain.FlipDetail)
	assert.InDelta(t, 170000, detail.MAO, 0.01, "MAO = 300000*0.70 - 40000")
	assert.True(t, detail.MeetsSeventyPctRule, "price at MAO satisfies the rule")

	above, err := calc.Calculate(175000, a, p)
	require.NoError(t, err)
	assert.False(t, above.Detail.(domain.FlipDetail).MeetsSeventyPctRule)
}

func TestFlip_ProfitBreakdown(t *testing.T) {
	calc, err := Get(domain.StrategyFixAndFlip, domain.DefaultParams(), zap.NewNop())
	require.NoError(t, err)

	p := domain.PropertySnapshot{ListPrice: 200000, ARV: 300000}
	a := testAssumptions()
	a.RehabBudget = 40000

	res, err := calc.Calculate(170000, a, p)
	require.NoError(t, err)
	d := res.Detail.(domain.FlipDetail)

	assert.InDelta(t, 300000-d.TotalProjectCost, d.NetProfit, 0.01)
	assert.InDelta(t, res.Metrics.ROI*12/float64(d.ProjectMonths), d.AnnualizedROI, 1e-9)
	assert.Equal(t, 4, d.ProjectMonths)
	assert.Greater(t, d.HoldingInterest, 0.0)
	assert.InDelta(t, 300000*0.06, d.SellingCosts, 0.01)
}

// Wholesale reference deal: assignment fee is the spread between investor
// and contract price.
func TestWholesale_AssignmentFee(t *testing.T) {
	calc, err := Get(domain.StrategyWholesale, domain.DefaultParams(), zap.NewNop())
	require.NoError(t, err)

	p := domain.PropertySnapshot{ListPrice: 30000, ARV: 90000}
	a := testAssumptions()
	a.ContractPrice = 12000
	a.InvestorPrice = 24000

	res, err := calc.Calculate(12000, a, p)
	require.NoError(t, err)
	d := res.Detail.(domain.WholesaleDetail)

	assert.InDelta(t, 12000, d.AssignmentFee, 0.01)
	assert.InDelta(t, 90000*0.70-12000, d.MAO, 0.01, "MAO nets out rehab and the fee")
	assert.InDelta(t, d.InvestorNetProfit, res.Metrics.MonthlyCashFlow*4, 0.01)
}

func TestWholesale_DerivedPrices(t *testing.T) {
	calc, err := Get(domain.StrategyWholesale, domain.DefaultParams(), zap.NewNop())
	require.NoError(t, err)

	res, err := calc.Calculate(100000, testAssumptions(), domain.PropertySnapshot{ListPrice: 140000, ARV: 200000})
	require.NoError(t, err)
	d := res.Detail.(domain.WholesaleDetail)

	// Contract defaults to the probed price, investor price to contract
	// plus the platform fee percentage.
	assert.InDelta(t, 100000, d.ContractPrice, 0.01)
	assert.InDelta(t, 110000, d.InvestorPrice, 0.01)
	assert.InDelta(t, 10000, d.AssignmentFee, 0.01)
}

func TestHouseHack_RoomSplit(t *testing.T) {
	calc, err := Get(domain.StrategyHouseHack, domain.DefaultParams(), zap.NewNop())
	require.NoError(t, err)

	res, err := calc.Calculate(285000, testAssumptions(), testProperty())
	require.NoError(t, err)
	d := res.Detail.(domain.HouseHackDetail)

	assert.Equal(t, 2, d.RoomsRented, "owner keeps one of three bedrooms")
	assert.InDelta(t, 2800*2.0/3.0, d.RoomRentCollected, 0.01)
	assert.InDelta(t, d.MarketRentEquivalent-d.EffectiveHousingCost, d.MonthlySavings, 0.01)
	assert.Equal(t, d.EffectiveHousingCost <= 0, d.LivesForFree)
}

func TestHouseHack_ExpenseShapeMatchesRentalFamily(t *testing.T) {
	calc, err := Get(domain.StrategyHouseHack, domain.DefaultParams(), zap.NewNop())
	require.NoError(t, err)

	a := testAssumptions()
	res, err := calc.Calculate(285000, a, testProperty())
	require.NoError(t, err)

	// Collected room rent carries the full rental expense stack:
	// management, maintenance and capex, on top of taxes and insurance.
	effectiveRoomRent := 2800 * 2.0 / 3.0 * (1 - a.VacancyRate)
	fixed := (5700.0 + 2850.0) / 12
	operating := effectiveRoomRent * (a.ManagementPct + a.MaintenancePct + a.CapExPct)
	wantNOI := (effectiveRoomRent - fixed - operating) * 12

	assert.InDelta(t, wantNOI, res.Metrics.NOI, 0.01)
	assert.InDelta(t, 8899.60, res.Metrics.NOI, 0.01)
	t.Logf("house-hack NOI=%.2f (management charge %.2f/mo)", res.Metrics.NOI, effectiveRoomRent*a.ManagementPct)
}

func TestSTR_RevenueDerivation(t *testing.T) {
	calc, err := Get(domain.StrategyShortTermRental, domain.DefaultParams(), zap.NewNop())
	require.NoError(t, err)

	res, err := calc.Calculate(285000, testAssumptions(), testProperty())
	require.NoError(t, err)
	d := res.Detail.(domain.STRDetail)

	assert.InDelta(t, 365*0.65, d.NightsOccupied, 0.01)
	assert.InDelta(t, d.NightsOccupied/3, d.EstimatedBookings, 0.01)
	assert.InDelta(t, 185*0.65, d.RevPAR, 0.01)
	assert.InDelta(t, 185*365*0.65, d.GrossAnnualIncome, 0.01)
}

func TestLTR_OnePercentRule(t *testing.T) {
	calc, err := Get(domain.StrategyLongTermRental, domain.DefaultParams(), zap.NewNop())
	require.NoError(t, err)

	res, err := calc.Calculate(280000, testAssumptions(), testProperty())
	require.NoError(t, err)
	assert.True(t, res.Detail.(domain.RentalDetail).OnePercentRule, "2800 rent on 280000")

	res, err = calc.Calculate(285000, testAssumptions(), testProperty())
	require.NoError(t, err)
	assert.False(t, res.Detail.(domain.RentalDetail).OnePercentRule)
}
