// internal/server/response.go
package server

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/propscout/dealengine/internal/domain"
)

// flattenResult merges a strategy result's core metrics and per-strategy
// detail into one flat map with stable snake_case keys. Clients bind to
// these keys directly; renaming one is a breaking change.
func flattenResult(res *domain.StrategyResult) map[string]any {
	out := map[string]any{
		"strategy":        string(res.Strategy),
		"purchase_price":  res.Price,
		"down_payment":    res.Loan.DownPayment,
		"loan_amount":     res.Loan.LoanAmount,
		"interest_rate":   res.Loan.AnnualRate,
		"loan_term_years": res.Loan.TermYears,
		"monthly_payment": res.Loan.MonthlyPayment,
	}
	mergeJSON(out, res.Metrics)
	if res.Detail != nil {
		mergeJSON(out, res.Detail)
	}
	return out
}

// mergeJSON flattens v's exported JSON fields into dst. Keys already in dst
// win; the loan and identity fields above are authoritative.
func mergeJSON(dst map[string]any, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return
	}
	for k, val := range fields {
		if _, exists := dst[k]; !exists {
			dst[k] = val
		}
	}
}

// buildVerdictResponse shapes a verdict for the wire: the four component
// scores flattened at top level, human-readable factor lists and the ranked
// strategy outcomes.
func buildVerdictResponse(v *domain.Verdict, params domain.EngineParams) map[string]any {
	return map[string]any{
		"deal_score": v.Score.Score,
		"grade":      v.Score.Grade,
		"label":      v.Score.Label,
		"color":      v.Score.Color,

		"deal_gap_score":         v.Score.Components.DealGap,
		"return_quality_score":   v.Score.Components.ReturnQuality,
		"market_alignment_score": v.Score.Components.MarketAlignment,
		"deal_probability_score": v.Score.Components.DealProbability,
		"score_fallbacks":        v.Score.Fallbacks,

		"opportunity_factors": opportunityFactors(v),
		"return_factors":      returnFactors(v),

		"primary_strategy": string(v.Primary),
		"strategies":       v.Outcomes,

		"list_price":      v.Property.ListPrice,
		"purchase_price":  v.Targets.TargetBuyPrice,
		"breakeven_price": v.Targets.BreakevenPrice,
		"wholesale_price": v.Targets.WholesalePrice,

		"partial":        v.Partial,
		"engine_version": params.Version,
	}
}

// opportunityFactors describes why this listing may be negotiable, in
// display-ready strings derived from the snapshot and the price ladder.
func opportunityFactors(v *domain.Verdict) []string {
	p := v.Property
	factors := make([]string, 0, 4)

	switch {
	case p.DaysOnMarket >= 90:
		factors = append(factors, fmt.Sprintf("%d days on market, seller likely fatigued", p.DaysOnMarket))
	case p.DaysOnMarket >= 60:
		factors = append(factors, fmt.Sprintf("%d days on market", p.DaysOnMarket))
	case p.DaysOnMarket >= 30:
		factors = append(factors, fmt.Sprintf("%d days on market, above-average exposure", p.DaysOnMarket))
	}

	for _, tag := range p.MotivationTags {
		factors = append(factors, "Seller motivation: "+strings.ReplaceAll(tag, "_", " "))
	}

	switch p.ListingStatus {
	case domain.StatusPriceDrop:
		factors = append(factors, "Recent price reduction")
	case domain.StatusBackOnline:
		factors = append(factors, "Back on market after a failed contract")
	}

	switch p.MarketTemp {
	case domain.MarketCold, domain.MarketCool:
		factors = append(factors, "Buyer's market conditions")
	}

	if p.ListPrice > 0 && v.Targets.BreakevenPrice > 0 && v.Targets.BreakevenPrice < p.ListPrice {
		gap := (p.ListPrice - v.Targets.BreakevenPrice) / p.ListPrice
		factors = append(factors, fmt.Sprintf("List price %.0f%% above breakeven", gap*100))
	}

	return factors
}

// returnFactors describes the primary strategy's economics at list price.
func returnFactors(v *domain.Verdict) []string {
	var best *domain.StrategyResult
	for _, o := range v.Outcomes {
		if o.Strategy == v.Primary && o.AtListPrice != nil {
			best = o.AtListPrice
			break
		}
	}
	if best == nil {
		return nil
	}

	m := best.Metrics
	factors := make([]string, 0, 4)

	if m.MonthlyCashFlow != 0 {
		factors = append(factors, fmt.Sprintf("Monthly cash flow $%.0f at list price", m.MonthlyCashFlow))
	}
	if m.CapRate > 0 {
		factors = append(factors, fmt.Sprintf("Cap rate %.1f%%", m.CapRate*100))
	}
	if m.CashOnCashReturn != 0 {
		factors = append(factors, fmt.Sprintf("Cash-on-cash return %.1f%%", m.CashOnCashReturn*100))
	}
	if m.DSCR > 0 {
		factors = append(factors, fmt.Sprintf("DSCR %.2f", m.DSCR))
	}
	if m.ROI != 0 && m.AnnualDebtService == 0 {
		factors = append(factors, fmt.Sprintf("Project ROI %.1f%%", m.ROI*100))
	}

	return factors
}
