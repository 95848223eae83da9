// internal/domain/verdict.go
package domain

// PriceTargets carries the solved price ladder for one strategy.
// Invariant: Breakeven ≥ TargetBuy ≥ Wholesale ≥ 0 whenever all three are
// available.
type PriceTargets struct {
	Strategy           StrategyID `json:"strategy"`
	BreakevenPrice     float64    `json:"breakeven_price"`
	TargetBuyPrice     float64    `json:"target_buy_price"`
	WholesalePrice     float64    `json:"wholesale_price"`
	BreakevenPctOfList float64    `json:"breakeven_pct_of_list"` // fraction
	TargetPctOfList    float64    `json:"target_pct_of_list"`
	Achievable         bool       `json:"achievable"`
	Unavailable        bool       `json:"unavailable"`
	UnavailableReason  string     `json:"unavailable_reason,omitempty"`
}

// ComponentScores are the four normalized sub-scores feeding the composite.
type ComponentScores struct {
	DealGap         float64 `json:"deal_gap_score"`
	ReturnQuality   float64 `json:"return_quality_score"`
	MarketAlignment float64 `json:"market_alignment_score"`
	DealProbability float64 `json:"deal_probability_score"`
}

// DealScore is the composite 0–100 score with its grade metadata. Score is
// strictly below 100. Fallbacks names the components that ran on neutral
// defaults because their inputs were missing.
type DealScore struct {
	Score      float64         `json:"score"`
	Grade      string          `json:"grade"`
	Label      string          `json:"label"`
	Color      string          `json:"color"`
	Components ComponentScores `json:"components"`
	Fallbacks  []string        `json:"fallbacks,omitempty"`
}

// StrategyOutcome pairs a strategy's result at list price with its result at
// the solved target-buy price, plus the price ladder itself.
type StrategyOutcome struct {
	Strategy      StrategyID      `json:"strategy"`
	AtListPrice   *StrategyResult `json:"at_list_price,omitempty"`
	AtTargetPrice *StrategyResult `json:"at_target_price,omitempty"`
	Targets       *PriceTargets   `json:"price_targets,omitempty"`
	Error         string          `json:"error,omitempty"`
	Rank          int             `json:"rank"`
}

// Verdict is the engine's single structured answer for one property.
type Verdict struct {
	Property PropertySnapshot  `json:"property"`
	Primary  StrategyID        `json:"primary_strategy"`
	Outcomes []StrategyOutcome `json:"strategies"`
	Targets  PriceTargets      `json:"price_targets"` // primary strategy's ladder
	Score    DealScore         `json:"deal_score"`
	Partial  bool              `json:"partial"` // true when any strategy or solve degraded
}
