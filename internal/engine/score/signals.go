// internal/engine/score/signals.go
package score

import (
	"github.com/propscout/dealengine/internal/domain"
)

// SignalScorer computes the two qualitative components of the deal score.
// These depend on market data sources that vary by deployment, so the
// component is pluggable: the default heuristic below can be swapped for a
// data-backed implementation without touching the scorer core.
type SignalScorer interface {
	// MarketAlignment scores how favorable the listing's market posture is
	// for a buyer. ok=false means the snapshot carries no usable signals.
	MarketAlignment(p domain.PropertySnapshot) (score float64, ok bool)

	// DealProbability scores how likely the required discount is to be
	// accepted. ok=false means no solved ladder was available.
	DealProbability(p domain.PropertySnapshot, targets *domain.PriceTargets) (score float64, ok bool)
}

// HeuristicSignals is the default SignalScorer: days-on-market decay,
// seller-motivation tags, market temperature bands and listing status for
// alignment; required-discount aggressiveness for probability.
type HeuristicSignals struct{}

func (HeuristicSignals) MarketAlignment(p domain.PropertySnapshot) (float64, bool) {
	if p.DaysOnMarket == 0 && p.MarketTemp == domain.MarketUnknown &&
		p.ListingStatus == domain.StatusUnknownStat && len(p.MotivationTags) == 0 {
		return 0, false
	}

	score := 50.0

	switch {
	case p.DaysOnMarket >= 90:
		score += 20
	case p.DaysOnMarket >= 60:
		score += 15
	case p.DaysOnMarket >= 30:
		score += 8
	case p.DaysOnMarket > 0 && p.DaysOnMarket < 14:
		score -= 5
	}

	// Each motivation signal nudges the seller toward accepting a discount.
	bonus := float64(len(p.MotivationTags)) * 6
	if bonus > 18 {
		bonus = 18
	}
	score += bonus

	switch p.MarketTemp {
	case domain.MarketCold:
		score += 15
	case domain.MarketCool:
		score += 8
	case domain.MarketWarm:
		score -= 8
	case domain.MarketHot:
		score -= 15
	}

	switch p.ListingStatus {
	case domain.StatusPriceDrop, domain.StatusBackOnline:
		score += 10
	case domain.StatusPending, domain.StatusContingent:
		score -= 10
	}

	return clamp(score, 0, 100), true
}

func (HeuristicSignals) DealProbability(p domain.PropertySnapshot, targets *domain.PriceTargets) (float64, bool) {
	if targets == nil || targets.Unavailable || p.ListPrice <= 0 {
		return 0, false
	}
	if !targets.Achievable {
		// No price makes the deal work; probability bottoms out.
		return 0, true
	}

	// The deeper the discount the offer needs, the less likely it lands.
	discount := (p.ListPrice - targets.TargetBuyPrice) / p.ListPrice
	return clamp(100-discount*400, 0, 100), true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
