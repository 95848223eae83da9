// internal/domain/params.go
package domain

// GradeBand maps a minimum composite score to a letter grade with its display
// metadata. Bands are ordered descending by Min; the first band whose Min the
// score meets wins.
type GradeBand struct {
	Min   float64 `json:"min" mapstructure:"min"`
	Grade string  `json:"grade" mapstructure:"grade"`
	Label string  `json:"label" mapstructure:"label"`
	Color string  `json:"color" mapstructure:"color"`
}

// ScoreWeights are the four component weights of the composite score. They
// must sum to 1.
type ScoreWeights struct {
	DealGap         float64 `json:"deal_gap" mapstructure:"deal_gap"`
	ReturnQuality   float64 `json:"return_quality" mapstructure:"return_quality"`
	MarketAlignment float64 `json:"market_alignment" mapstructure:"market_alignment"`
	DealProbability float64 `json:"deal_probability" mapstructure:"deal_probability"`
}

// EngineParams is the versioned bundle of every tunable constant the engine
// uses. One immutable value is built at startup and passed explicitly into
// every calculator, solver and scorer call; there is no package-level
// mutable configuration anywhere in the engine.
type EngineParams struct {
	Version string `json:"version" mapstructure:"version"`

	Defaults Assumptions `json:"defaults" mapstructure:"defaults"`

	// Underwriting constants.
	SeventyPercentRule float64 `json:"seventy_percent_rule" mapstructure:"seventy_percent_rule"`
	WholesaleDiscount  float64 `json:"wholesale_discount" mapstructure:"wholesale_discount"`

	// Target-buy objectives per strategy family.
	TargetMonthlyCashFlow float64 `json:"target_monthly_cash_flow" mapstructure:"target_monthly_cash_flow"`
	TargetFlipROI         float64 `json:"target_flip_roi" mapstructure:"target_flip_roi"`

	// Solver budget.
	PriceTolerance   float64 `json:"price_tolerance" mapstructure:"price_tolerance"` // dollars
	SolverIterations int     `json:"solver_iterations" mapstructure:"solver_iterations"`

	// Scoring.
	Weights               ScoreWeights `json:"weights" mapstructure:"weights"`
	IrreducibleRiskMargin float64      `json:"irreducible_risk_margin" mapstructure:"irreducible_risk_margin"`
	GradeBands            []GradeBand  `json:"grade_bands" mapstructure:"grade_bands"`
}

// DefaultParams returns the platform default parameter table. Callers that
// want different behavior copy and adjust; the returned value is never
// mutated by the engine.
func DefaultParams() EngineParams {
	return EngineParams{
		Version: "2025.2",
		Defaults: Assumptions{
			DownPaymentPct:     0.20,
			InterestRate:       0.07,
			LoanTermYears:      30,
			ClosingCostPct:     0.03,
			VacancyRate:        0.05,
			ManagementPct:      0.08,
			MaintenancePct:     0.05,
			CapExPct:           0.05,
			RehabBudget:        0,
			HoldingMonths:      6,
			SellingCostPct:     0.06,
			HardMoneyRate:      0.12,
			HardMoneyPoints:    0.02,
			RefinanceLTV:       0.75,
			RefinanceRate:      0.065,
			RefinanceTermYears: 30,
			RoomsRented:        0, // resolved against bedrooms at calc time
			PlatformFeePct:     0.03,
			MonthlyCleaning:    0,
			WholesaleFeePct:    0.10,
		},
		SeventyPercentRule:    0.70,
		WholesaleDiscount:     0.70,
		TargetMonthlyCashFlow: 200,
		TargetFlipROI:         0.15,
		PriceTolerance:        1.0,
		SolverIterations:      60,
		Weights: ScoreWeights{
			DealGap:         0.35,
			ReturnQuality:   0.30,
			MarketAlignment: 0.20,
			DealProbability: 0.15,
		},
		IrreducibleRiskMargin: 2.5,
		GradeBands: []GradeBand{
			{Min: 85, Grade: "A+", Label: "Exceptional Deal", Color: "emerald"},
			{Min: 70, Grade: "A", Label: "Strong Deal", Color: "green"},
			{Min: 55, Grade: "B", Label: "Good Deal", Color: "lime"},
			{Min: 40, Grade: "C", Label: "Fair Deal", Color: "amber"},
			{Min: 25, Grade: "D", Label: "Weak Deal", Color: "orange"},
			{Min: 0, Grade: "F", Label: "Pass", Color: "red"},
		},
	}
}

// GradeFor resolves a composite score against the shared grade table. Every
// place a score becomes a grade goes through here.
func (p EngineParams) GradeFor(score float64) GradeBand {
	for _, b := range p.GradeBands {
		if score >= b.Min {
			return b
		}
	}
	// Score below every band floor; the table always ends at Min 0, so this
	// only triggers for negative input.
	return p.GradeBands[len(p.GradeBands)-1]
}
