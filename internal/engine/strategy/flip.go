// internal/engine/strategy/flip.go
package strategy

import (
	"go.uber.org/zap"

	"github.com/propscout/dealengine/internal/domain"
)

// flipCalculator evaluates a fix-and-flip financed with hard money.
type flipCalculator struct {
	params domain.EngineParams
	logger *zap.Logger
}

func (c *flipCalculator) ID() domain.StrategyID { return domain.StrategyFixAndFlip }

func (c *flipCalculator) Calculate(price float64, a domain.Assumptions, p domain.PropertySnapshot) (domain.StrategyResult, error) {
	if err := validatePrice(c.ID(), price); err != nil {
		return domain.StrategyResult{}, err
	}
	if p.ARV <= 0 {
		return domain.StrategyResult{}, domain.NewInputError(c.ID(), "arv", "required for flip analysis")
	}

	mao := p.ARV*c.params.SeventyPercentRule - a.RehabBudget
	projectMonths := holdingMonthsOrDefault(a.HoldingMonths)

	down := price * a.DownPaymentPct
	loanAmount := price - down
	purchaseCosts := price * a.ClosingCostPct
	holdingInterest := loanAmount * a.HardMoneyRate * float64(projectMonths) / 12
	financingCosts := loanAmount * a.HardMoneyPoints
	sellingCosts := p.ARV * a.SellingCostPct

	totalCost := price + purchaseCosts + a.RehabBudget + holdingInterest + financingCosts + sellingCosts
	netProfit := p.ARV - totalCost

	cashRequired := down + purchaseCosts + a.RehabBudget + holdingInterest + financingCosts

	var roi float64
	if cashRequired > 0 {
		roi = netProfit / cashRequired
	}
	annualizedROI := roi * 12 / float64(projectMonths)

	if c.logger != nil {
		c.logger.Debug("Flip calculation",
			zap.Float64("price", price),
			zap.Float64("arv", p.ARV),
			zap.Float64("mao", mao),
			zap.Float64("net_profit", netProfit),
			zap.Float64("roi", roi))
	}

	metrics := domain.CoreMetrics{
		// Flips have no recurring income; the cash-flow slot carries profit
		// per project month so price ladders stay comparable across
		// strategies.
		MonthlyCashFlow:   netProfit / float64(projectMonths),
		AnnualCashFlow:    netProfit * 12 / float64(projectMonths),
		TotalCashInvested: cashRequired,
		ROI:               roi,
	}
	if cashRequired > 0 {
		metrics.CashOnCashReturn = clampCoC(annualizedROI)
	}

	return domain.StrategyResult{
		Strategy: c.ID(),
		Price:    price,
		Loan: domain.LoanTerms{
			Price:       price,
			DownPayment: down,
			LoanAmount:  loanAmount,
			AnnualRate:  a.HardMoneyRate,
			TermYears:   0, // interest-only bridge, no amortizing term
		},
		Metrics: metrics,
		Detail: domain.FlipDetail{
			ARV:                 p.ARV,
			RehabCosts:          a.RehabBudget,
			MAO:                 mao,
			MeetsSeventyPctRule: price <= mao,
			TotalProjectCost:    totalCost,
			HoldingInterest:     holdingInterest,
			SellingCosts:        sellingCosts,
			NetProfit:           netProfit,
			AnnualizedROI:       annualizedROI,
			ProjectMonths:       projectMonths,
		},
	}, nil
}
