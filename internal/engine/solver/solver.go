// internal/engine/solver/solver.go
package solver

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/propscout/dealengine/internal/domain"
	"github.com/propscout/dealengine/internal/engine/strategy"
)

// Solver root-finds the price ladder for one strategy: the price where
// profitability crosses zero (breakeven) and the price that still clears the
// configured profitability target (target buy). Both come from bisection
// over a profitability-vs-price function the calculators guarantee to be
// non-increasing.
type Solver struct {
	params domain.EngineParams
	logger *zap.Logger
}

func New(params domain.EngineParams, logger *zap.Logger) *Solver {
	return &Solver{params: params, logger: logger}
}

// lowPrice is the smallest probe price. Calculators reject zero, so the
// bottom of the bracket sits one tolerance above it.
const lowPrice = 1.0

// Solve computes the full price ladder for calc against the given property
// and assumptions. Calculator failures and precondition violations surface
// as errors; the orchestrator turns them into an unavailable ladder rather
// than failing the verdict.
func (s *Solver) Solve(calc strategy.Calculator, a domain.Assumptions, p domain.PropertySnapshot) (domain.PriceTargets, error) {
	id := calc.ID()
	if p.ListPrice <= 0 {
		return domain.PriceTargets{}, domain.NewInputError(id, "list_price", "must be positive")
	}

	metric := s.metricFor(id)
	f := func(price float64) (float64, error) {
		res, err := calc.Calculate(price, a, p)
		if err != nil {
			return 0, err
		}
		return metric(res), nil
	}

	hi := s.upperBound(id, p)
	threshold := s.targetThreshold(id)

	fLo, err := f(lowPrice)
	if err != nil {
		return domain.PriceTargets{}, err
	}
	fHi, err := f(hi)
	if err != nil {
		return domain.PriceTargets{}, err
	}
	// Monotonicity precheck: a non-increasing profitability function cannot
	// be worth less at the bottom of the bracket than at the top.
	if fLo < fHi-1e-9 {
		return domain.PriceTargets{}, fmt.Errorf("%w: %s: profitability not non-increasing over [%.0f, %.0f]",
			domain.ErrUnsolvableObjective, id, lowPrice, hi)
	}

	breakeven, beAchievable, err := s.bisect(f, fLo, fHi, hi, 0)
	if err != nil {
		return domain.PriceTargets{}, err
	}
	targetBuy, tbAchievable, err := s.bisect(f, fLo, fHi, hi, threshold)
	if err != nil {
		return domain.PriceTargets{}, err
	}

	// Non-increasing f with threshold >= 0 already implies the ordering;
	// clamp anyway so rounding never leaks an inverted ladder.
	if targetBuy > breakeven {
		targetBuy = breakeven
	}
	wholesale := targetBuy * s.params.WholesaleDiscount

	if s.logger != nil {
		s.logger.Debug("Price ladder solved",
			zap.String("strategy", string(id)),
			zap.Float64("breakeven", breakeven),
			zap.Float64("target_buy", targetBuy),
			zap.Float64("wholesale", wholesale),
			zap.Bool("achievable", tbAchievable))
	}

	return domain.PriceTargets{
		Strategy:           id,
		BreakevenPrice:     breakeven,
		TargetBuyPrice:     targetBuy,
		WholesalePrice:     wholesale,
		BreakevenPctOfList: breakeven / p.ListPrice,
		TargetPctOfList:    targetBuy / p.ListPrice,
		Achievable:         beAchievable && tbAchievable,
	}, nil
}

// bisect finds the largest price in [lowPrice, hi] with f(price) >= threshold.
// Returns achievable=false with price 0 when even the bottom of the bracket
// misses the threshold, per the no-extrapolation rule.
func (s *Solver) bisect(f func(float64) (float64, error), fLo, fHi, hi, threshold float64) (float64, bool, error) {
	if fLo < threshold {
		return 0, false, nil
	}
	if fHi >= threshold {
		// The objective holds across the whole bracket; the crossing sits
		// above the anchor price, so the ladder clamps there.
		return hi, true, nil
	}

	lo := lowPrice
	for i := 0; i < s.params.SolverIterations && hi-lo > s.params.PriceTolerance; i++ {
		mid := (lo + hi) / 2
		fMid, err := f(mid)
		if err != nil {
			return 0, false, err
		}
		if fMid >= threshold {
			lo = mid
		} else {
			hi = mid
		}
	}
	if hi-lo > s.params.PriceTolerance {
		return 0, false, fmt.Errorf("%w: bisection did not converge within %d iterations",
			domain.ErrUnsolvableObjective, s.params.SolverIterations)
	}
	return math.Floor(lo), true, nil
}

// upperBound anchors the search range: list price for the rental family,
// the higher of list and ARV for exit-at-ARV strategies.
func (s *Solver) upperBound(id domain.StrategyID, p domain.PropertySnapshot) float64 {
	switch id {
	case domain.StrategyFixAndFlip, domain.StrategyWholesale:
		return math.Max(p.ListPrice, p.ARV)
	default:
		return p.ListPrice
	}
}

// metricFor selects the profitability function being solved: monthly cash
// flow for recurring-income strategies, project ROI for exit strategies.
func (s *Solver) metricFor(id domain.StrategyID) func(domain.StrategyResult) float64 {
	switch id {
	case domain.StrategyFixAndFlip, domain.StrategyWholesale:
		return func(r domain.StrategyResult) float64 { return r.Metrics.ROI }
	default:
		return func(r domain.StrategyResult) float64 { return r.Metrics.MonthlyCashFlow }
	}
}

func (s *Solver) targetThreshold(id domain.StrategyID) float64 {
	switch id {
	case domain.StrategyFixAndFlip, domain.StrategyWholesale:
		return s.params.TargetFlipROI
	default:
		return s.params.TargetMonthlyCashFlow
	}
}
