// internal/engine/solver/solver_test.go
package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/propscout/dealengine/internal/domain"
	"github.com/propscout/dealengine/internal/engine/strategy"
)

func solverProperty() domain.PropertySnapshot {
	return domain.PropertySnapshot{
		ListPrice:        285000,
		Bedrooms:         3,
		MonthlyRent:      2800,
		AnnualTaxes:      5700,
		AnnualInsurance:  2850,
		ARV:              425000,
		AverageDailyRate: 185,
		OccupancyRate:    0.65,
	}
}

func solverAssumptions() domain.Assumptions {
	a := domain.DefaultParams().Defaults
	a.DownPaymentPct = 0.10
	a.HoldingMonths = 4
	return a
}

// Feeding the solved breakeven price back into its calculator must yield a
// cash flow within a dollar a month of zero.
func TestSolve_BreakevenFeedback(t *testing.T) {
	params := domain.DefaultParams()
	s := New(params, zap.NewNop())

	for _, id := range []domain.StrategyID{
		domain.StrategyLongTermRental,
		domain.StrategyShortTermRental,
		domain.StrategyBRRRR,
		domain.StrategyHouseHack,
	} {
		calc, err := strategy.Get(id, params, zap.NewNop())
		require.NoError(t, err)

		targets, err := s.Solve(calc, solverAssumptions(), solverProperty())
		require.NoError(t, err, "%s", id)
		if !targets.Achievable || targets.BreakevenPrice >= solverProperty().ListPrice {
			continue // clamped or unachievable ladder has no interior crossing
		}

		res, err := calc.Calculate(targets.BreakevenPrice, solverAssumptions(), solverProperty())
		require.NoError(t, err)

		t.Logf("%s breakeven=%.0f cash_flow_at_breakeven=%.4f", id, targets.BreakevenPrice, res.Metrics.MonthlyCashFlow)
		assert.InDelta(t, 0, res.Metrics.MonthlyCashFlow, 1.0, "%s", id)
		assert.GreaterOrEqual(t, res.Metrics.MonthlyCashFlow, -0.0, "breakeven side must not be negative: %s", id)
	}
}

// breakeven >= targetBuy >= wholesale >= 0 for every strategy.
func TestSolve_LadderOrdering(t *testing.T) {
	params := domain.DefaultParams()
	s := New(params, zap.NewNop())

	for _, id := range domain.AllStrategies {
		calc, err := strategy.Get(id, params, zap.NewNop())
		require.NoError(t, err)

		targets, err := s.Solve(calc, solverAssumptions(), solverProperty())
		require.NoError(t, err, "%s", id)

		t.Logf("%s breakeven=%.0f target=%.0f wholesale=%.0f achievable=%v",
			id, targets.BreakevenPrice, targets.TargetBuyPrice, targets.WholesalePrice, targets.Achievable)

		assert.GreaterOrEqual(t, targets.BreakevenPrice, targets.TargetBuyPrice, "%s", id)
		assert.GreaterOrEqual(t, targets.TargetBuyPrice, targets.WholesalePrice, "%s", id)
		assert.GreaterOrEqual(t, targets.WholesalePrice, 0.0, "%s", id)
		assert.InDelta(t, targets.TargetBuyPrice*params.WholesaleDiscount, targets.WholesalePrice, 0.01)
	}
}

// A deal that cannot reach the threshold even at a token price returns a
// zero ladder flagged not achievable instead of extrapolating negative.
func TestSolve_NotAchievable(t *testing.T) {
	params := domain.DefaultParams()
	s := New(params, zap.NewNop())

	calc, err := strategy.Get(domain.StrategyLongTermRental, params, zap.NewNop())
	require.NoError(t, err)

	// Rent far below carrying costs: taxes alone swamp the income.
	p := solverProperty()
	p.MonthlyRent = 100
	p.AnnualTaxes = 60000

	targets, err := s.Solve(calc, solverAssumptions(), p)
	require.NoError(t, err)

	assert.False(t, targets.Achievable)
	assert.Zero(t, targets.BreakevenPrice)
	assert.Zero(t, targets.TargetBuyPrice)
	assert.Zero(t, targets.WholesalePrice)
}

func TestSolve_TargetBelowBreakeven(t *testing.T) {
	params := domain.DefaultParams()
	s := New(params, zap.NewNop())

	calc, err := strategy.Get(domain.StrategyLongTermRental, params, zap.NewNop())
	require.NoError(t, err)

	targets, err := s.Solve(calc, solverAssumptions(), solverProperty())
	require.NoError(t, err)
	require.True(t, targets.Achievable)

	// the target-buy price must still clear the configured cash-flow target
	res, err := calc.Calculate(targets.TargetBuyPrice, solverAssumptions(), solverProperty())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.Metrics.MonthlyCashFlow, params.TargetMonthlyCashFlow-1.0)
}

func TestSolve_FlipAnchorsToARV(t *testing.T) {
	params := domain.DefaultParams()
	s := New(params, zap.NewNop())

	calc, err := strategy.Get(domain.StrategyFixAndFlip, params, zap.NewNop())
	require.NoError(t, err)

	// List far below ARV: the flip breakeven can sit above list price.
	p := domain.PropertySnapshot{ListPrice: 150000, ARV: 425000}
	a := solverAssumptions()

	targets, err := s.Solve(calc, a, p)
	require.NoError(t, err)

	assert.Greater(t, targets.BreakevenPrice, p.ListPrice, "breakeven should be allowed above list when ARV supports it")
	assert.GreaterOrEqual(t, targets.BreakevenPrice, targets.TargetBuyPrice)
}

func TestSolve_MissingListPrice(t *testing.T) {
	params := domain.DefaultParams()
	s := New(params, zap.NewNop())

	calc, err := strategy.Get(domain.StrategyLongTermRental, params, zap.NewNop())
	require.NoError(t, err)

	p := solverProperty()
	p.ListPrice = 0
	_, err = s.Solve(calc, solverAssumptions(), p)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSolve_CalculatorErrorPropagates(t *testing.T) {
	params := domain.DefaultParams()
	s := New(params, zap.NewNop())

	calc, err := strategy.Get(domain.StrategyBRRRR, params, zap.NewNop())
	require.NoError(t, err)

	p := solverProperty()
	p.ARV = 0
	_, err = s.Solve(calc, solverAssumptions(), p)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
