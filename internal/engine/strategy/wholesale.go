// internal/engine/strategy/wholesale.go
package strategy

import (
	"go.uber.org/zap"

	"github.com/propscout/dealengine/internal/domain"
)

// wholesaleCalculator evaluates a contract assignment: the wholesaler locks
// the property up at contract price and assigns it to an investor for a fee.
// The deal only works if the investor's end of it still pencils, so the
// investor side runs through a flip-style calculation at the marked-up
// price.
type wholesaleCalculator struct {
	params domain.EngineParams
	logger *zap.Logger
}

func (c *wholesaleCalculator) ID() domain.StrategyID { return domain.StrategyWholesale }

func (c *wholesaleCalculator) Calculate(price float64, a domain.Assumptions, p domain.PropertySnapshot) (domain.StrategyResult, error) {
	if err := validatePrice(c.ID(), price); err != nil {
		return domain.StrategyResult{}, err
	}
	if p.ARV <= 0 {
		return domain.StrategyResult{}, domain.NewInputError(c.ID(), "arv", "required for wholesale analysis")
	}

	contractPrice := a.ContractPrice
	if contractPrice <= 0 {
		contractPrice = price
	}
	investorPrice := a.InvestorPrice
	if investorPrice <= 0 {
		investorPrice = contractPrice * (1 + a.WholesaleFeePct)
	}
	assignmentFee := investorPrice - contractPrice

	mao := p.ARV*c.params.SeventyPercentRule - a.RehabBudget - assignmentFee

	// Investor side: flip economics at the assigned price.
	projectMonths := holdingMonthsOrDefault(a.HoldingMonths)
	investorDown := investorPrice * a.DownPaymentPct
	investorLoan := investorPrice - investorDown
	purchaseCosts := investorPrice * a.ClosingCostPct
	holdingInterest := investorLoan * a.HardMoneyRate * float64(projectMonths) / 12
	holdingTaxes := p.AnnualTaxes * float64(projectMonths) / 12
	sellingCosts := p.ARV * a.SellingCostPct

	investorTotalCost := investorPrice + purchaseCosts + a.RehabBudget + holdingInterest + holdingTaxes + sellingCosts
	investorProfit := p.ARV - investorTotalCost
	investorCash := investorDown + purchaseCosts + a.RehabBudget + holdingInterest + holdingTaxes

	var investorROI float64
	if investorCash > 0 {
		investorROI = investorProfit / investorCash
	}

	if c.logger != nil {
		c.logger.Debug("Wholesale calculation",
			zap.Float64("contract_price", contractPrice),
			zap.Float64("investor_price", investorPrice),
			zap.Float64("assignment_fee", assignmentFee),
			zap.Float64("mao", mao),
			zap.Float64("investor_profit", investorProfit))
	}

	metrics := domain.CoreMetrics{
		MonthlyCashFlow:   investorProfit / float64(projectMonths),
		AnnualCashFlow:    investorProfit * 12 / float64(projectMonths),
		TotalCashInvested: investorCash,
		ROI:               investorROI,
	}
	if investorCash > 0 {
		metrics.CashOnCashReturn = clampCoC(investorROI * 12 / float64(projectMonths))
	}

	return domain.StrategyResult{
		Strategy: c.ID(),
		Price:    price,
		Loan: domain.LoanTerms{
			Price:       investorPrice,
			DownPayment: investorDown,
			LoanAmount:  investorLoan,
			AnnualRate:  a.HardMoneyRate,
		},
		Metrics: metrics,
		Detail: domain.WholesaleDetail{
			ContractPrice:     contractPrice,
			InvestorPrice:     investorPrice,
			AssignmentFee:     assignmentFee,
			MAO:               mao,
			InvestorNetProfit: investorProfit,
			InvestorROI:       investorROI,
		},
	}, nil
}
