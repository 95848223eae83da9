// internal/engine/score/scorer_test.go
package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/propscout/dealengine/internal/domain"
)

func scoreProperty() domain.PropertySnapshot {
	return domain.PropertySnapshot{
		ListPrice:      285000,
		DaysOnMarket:   75,
		MarketTemp:     domain.MarketCool,
		ListingStatus:  domain.StatusPriceDrop,
		MotivationTags: []string{"estate_sale", "relocation"},
	}
}

func goodTargets() *domain.PriceTargets {
	return &domain.PriceTargets{
		Strategy:       domain.StrategyLongTermRental,
		BreakevenPrice: 270000,
		TargetBuyPrice: 245000,
		WholesalePrice: 171500,
		Achievable:     true,
	}
}

func goodResult() *domain.StrategyResult {
	return &domain.StrategyResult{
		Strategy: domain.StrategyLongTermRental,
		Price:    285000,
		Metrics: domain.CoreMetrics{
			NOI:               18000,
			AnnualDebtService: 15000,
			CapRate:           0.063,
			CashOnCashReturn:  0.075,
			DSCR:              1.2,
		},
	}
}

func TestScore_Bounds(t *testing.T) {
	s := New(domain.DefaultParams(), nil, zap.NewNop())

	// Even absurdly good inputs never reach 100.
	great := goodResult()
	great.Metrics.CashOnCashReturn = 5
	great.Metrics.CapRate = 1
	great.Metrics.DSCR = 10
	targets := goodTargets()
	targets.BreakevenPrice = 280000
	targets.TargetBuyPrice = 280000

	ds := s.Score(Inputs{Property: scoreProperty(), Best: great, Targets: targets})
	t.Logf("composite=%.2f grade=%s", ds.Score, ds.Grade)
	assert.GreaterOrEqual(t, ds.Score, 0.0)
	assert.Less(t, ds.Score, 100.0)

	// And rock-bottom inputs clamp at zero, not below.
	bad := goodResult()
	bad.Metrics = domain.CoreMetrics{NOI: 1, AnnualDebtService: 50000}
	badTargets := &domain.PriceTargets{Achievable: false}
	ds = s.Score(Inputs{Property: domain.PropertySnapshot{ListPrice: 285000, DaysOnMarket: 3, MarketTemp: domain.MarketHot}, Best: bad, Targets: badTargets})
	assert.GreaterOrEqual(t, ds.Score, 0.0)
	assert.Less(t, ds.Score, 100.0)
}

func TestScore_GradeMatchesSharedTable(t *testing.T) {
	params := domain.DefaultParams()
	s := New(params, nil, zap.NewNop())

	ds := s.Score(Inputs{Property: scoreProperty(), Best: goodResult(), Targets: goodTargets()})
	band := params.GradeFor(ds.Score)
	assert.Equal(t, band.Grade, ds.Grade)
	assert.Equal(t, band.Label, ds.Label)
	assert.Equal(t, band.Color, ds.Color)
}

func TestGradeFor_ThresholdTable(t *testing.T) {
	params := domain.DefaultParams()
	cases := []struct {
		score float64
		grade string
	}{
		{97, "A+"}, {85, "A+"}, {84.9, "A"}, {70, "A"}, {69.9, "B"},
		{55, "B"}, {54.9, "C"}, {40, "C"}, {39.9, "D"}, {25, "D"},
		{24.9, "F"}, {0, "F"},
	}
	for _, c := range cases {
		assert.Equal(t, c.grade, params.GradeFor(c.score).Grade, "score %.1f", c.score)
	}
}

func TestScore_MissingInputsFallBackToNeutral(t *testing.T) {
	s := New(domain.DefaultParams(), nil, zap.NewNop())

	// No ladder, no best strategy, no market signals: all four components
	// run on neutral defaults and the score still completes.
	ds := s.Score(Inputs{Property: domain.PropertySnapshot{ListPrice: 285000}})

	require.ElementsMatch(t, ds.Fallbacks, []string{
		ComponentDealGap, ComponentReturnQuality, ComponentMarketAlignment, ComponentDealProbability,
	})
	assert.InDelta(t, neutralScore, ds.Components.DealGap, 0.001)
	assert.InDelta(t, neutralScore, ds.Components.ReturnQuality, 0.001)
	assert.InDelta(t, 50-domain.DefaultParams().IrreducibleRiskMargin, ds.Score, 0.001)
}

func TestScore_DealGapRewardsUpside(t *testing.T) {
	s := New(domain.DefaultParams(), nil, zap.NewNop())
	p := scoreProperty()

	below := goodTargets()
	below.BreakevenPrice = 310000 // breakeven above list: buyer upside
	above := goodTargets()
	above.BreakevenPrice = 230000 // deep discount required

	dsBelow := s.Score(Inputs{Property: p, Best: goodResult(), Targets: below})
	dsAbove := s.Score(Inputs{Property: p, Best: goodResult(), Targets: above})

	assert.Greater(t, dsBelow.Components.DealGap, dsAbove.Components.DealGap)
}

func TestHeuristicSignals_MarketAlignment(t *testing.T) {
	sig := HeuristicSignals{}

	_, ok := sig.MarketAlignment(domain.PropertySnapshot{})
	assert.False(t, ok, "no signals means fallback, not a fabricated score")

	stale, ok := sig.MarketAlignment(domain.PropertySnapshot{
		DaysOnMarket: 120, MarketTemp: domain.MarketCold, MotivationTags: []string{"divorce", "estate_sale"},
	})
	require.True(t, ok)
	fresh, ok := sig.MarketAlignment(domain.PropertySnapshot{
		DaysOnMarket: 5, MarketTemp: domain.MarketHot,
	})
	require.True(t, ok)

	assert.Greater(t, stale, fresh, "stale listing in a cold market aligns better for buyers")
	assert.GreaterOrEqual(t, fresh, 0.0)
	assert.LessOrEqual(t, stale, 100.0)
}

func TestHeuristicSignals_DealProbability(t *testing.T) {
	sig := HeuristicSignals{}
	p := domain.PropertySnapshot{ListPrice: 300000}

	small, ok := sig.DealProbability(p, &domain.PriceTargets{TargetBuyPrice: 290000, Achievable: true})
	require.True(t, ok)
	deep, ok := sig.DealProbability(p, &domain.PriceTargets{TargetBuyPrice: 200000, Achievable: true})
	require.True(t, ok)

	assert.Greater(t, small, deep, "a shallow discount is more likely to be accepted")

	_, ok = sig.DealProbability(p, nil)
	assert.False(t, ok)

	zero, ok := sig.DealProbability(p, &domain.PriceTargets{Achievable: false})
	require.True(t, ok)
	assert.Zero(t, zero)
}
