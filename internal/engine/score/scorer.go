// internal/engine/score/scorer.go
package score

import (
	"go.uber.org/zap"

	"github.com/propscout/dealengine/internal/domain"
)

// Component names used in fallback flags.
const (
	ComponentDealGap         = "deal_gap"
	ComponentReturnQuality   = "return_quality"
	ComponentMarketAlignment = "market_alignment"
	ComponentDealProbability = "deal_probability"
)

// Return-quality normalization anchors: full marks at a 12% cash-on-cash,
// an 8% cap rate and a 1.5x DSCR.
const (
	fullMarksCoC  = 0.12
	fullMarksCap  = 0.08
	fullMarksDSCR = 1.5
)

// neutralScore is what a component reports when its inputs are missing;
// scoring still completes, flagged as a partial-data fallback.
const neutralScore = 50.0

// Inputs is everything the scorer consumes: the snapshot, the
// best-performing strategy's result at list price, and the primary
// strategy's solved price ladder. Nil members degrade to neutral components.
type Inputs struct {
	Property domain.PropertySnapshot
	Best     *domain.StrategyResult
	Targets  *domain.PriceTargets
}

// Scorer folds strategy outcomes and market signals into the composite
// 0–100 deal score.
type Scorer struct {
	params  domain.EngineParams
	signals SignalScorer
	logger  *zap.Logger
}

// New builds a Scorer. A nil signals falls back to the heuristic default.
func New(params domain.EngineParams, signals SignalScorer, logger *zap.Logger) *Scorer {
	if signals == nil {
		signals = HeuristicSignals{}
	}
	return &Scorer{params: params, signals: signals, logger: logger}
}

// Score computes the weighted composite. Every component lands in [0,100];
// the composite subtracts the irreducible-risk margin and is clamped so a
// perfect 100 is never reported.
func (s *Scorer) Score(in Inputs) domain.DealScore {
	var fallbacks []string

	dealGap, ok := s.dealGapScore(in)
	if !ok {
		dealGap = neutralScore
		fallbacks = append(fallbacks, ComponentDealGap)
	}

	returnQuality, ok := s.returnQualityScore(in)
	if !ok {
		returnQuality = neutralScore
		fallbacks = append(fallbacks, ComponentReturnQuality)
	}

	marketAlignment, ok := s.signals.MarketAlignment(in.Property)
	if !ok {
		marketAlignment = neutralScore
		fallbacks = append(fallbacks, ComponentMarketAlignment)
	}

	dealProbability, ok := s.signals.DealProbability(in.Property, in.Targets)
	if !ok {
		dealProbability = neutralScore
		fallbacks = append(fallbacks, ComponentDealProbability)
	}

	w := s.params.Weights
	composite := dealGap*w.DealGap +
		returnQuality*w.ReturnQuality +
		marketAlignment*w.MarketAlignment +
		dealProbability*w.DealProbability

	composite -= s.params.IrreducibleRiskMargin
	composite = clamp(composite, 0, 100-s.params.IrreducibleRiskMargin)

	band := s.params.GradeFor(composite)

	if s.logger != nil {
		s.logger.Debug("Deal scored",
			zap.Float64("composite", composite),
			zap.String("grade", band.Grade),
			zap.Float64("deal_gap", dealGap),
			zap.Float64("return_quality", returnQuality),
			zap.Float64("market_alignment", marketAlignment),
			zap.Float64("deal_probability", dealProbability),
			zap.Strings("fallbacks", fallbacks))
	}

	return domain.DealScore{
		Score: composite,
		Grade: band.Grade,
		Label: band.Label,
		Color: band.Color,
		Components: domain.ComponentScores{
			DealGap:         dealGap,
			ReturnQuality:   returnQuality,
			MarketAlignment: marketAlignment,
			DealProbability: dealProbability,
		},
		Fallbacks: fallbacks,
	}
}

// dealGapScore measures how far list price sits above breakeven. A listing
// 20% above its breakeven scores 0; one 20% below scores 100; at breakeven,
// 50.
func (s *Scorer) dealGapScore(in Inputs) (float64, bool) {
	t := in.Targets
	if t == nil || t.Unavailable || in.Property.ListPrice <= 0 {
		return 0, false
	}
	if !t.Achievable {
		return 0, true
	}
	gap := (in.Property.ListPrice - t.BreakevenPrice) / in.Property.ListPrice
	// Note gap is positive when list is ABOVE breakeven, i.e. bad for the
	// buyer; invert so upside scores high.
	return clamp(50-gap*250, 0, 100), true
}

// returnQualityScore blends the best strategy's cash-on-cash, cap rate and
// DSCR against the full-marks anchors.
func (s *Scorer) returnQualityScore(in Inputs) (float64, bool) {
	if in.Best == nil {
		return 0, false
	}
	m := in.Best.Metrics

	coc := clamp(m.CashOnCashReturn/fullMarksCoC, 0, 1)
	capr := clamp(m.CapRate/fullMarksCap, 0, 1)
	dscr := clamp(m.DSCR/fullMarksDSCR, 0, 1)

	// Exit strategies report no recurring debt service; weight what exists.
	if m.AnnualDebtService == 0 && m.NOI == 0 {
		roi := clamp(m.ROI/0.30, 0, 1)
		return roi * 100, true
	}
	return (coc*0.45 + capr*0.30 + dscr*0.25) * 100, true
}
