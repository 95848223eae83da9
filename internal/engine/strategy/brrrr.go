// internal/engine/strategy/brrrr.go
package strategy

import (
	"go.uber.org/zap"

	"github.com/propscout/dealengine/internal/domain"
	"github.com/propscout/dealengine/internal/engine/amort"
)

// brrrrCalculator evaluates the buy-rehab-rent-refinance-repeat strategy as
// two phases: an interest-only hard-money acquisition, then a cash-out
// refinance against ARV.
type brrrrCalculator struct {
	params domain.EngineParams
	logger *zap.Logger
}

func (c *brrrrCalculator) ID() domain.StrategyID { return domain.StrategyBRRRR }

func (c *brrrrCalculator) Calculate(price float64, a domain.Assumptions, p domain.PropertySnapshot) (domain.StrategyResult, error) {
	if err := validatePrice(c.ID(), price); err != nil {
		return domain.StrategyResult{}, err
	}
	if p.ARV <= 0 {
		return domain.StrategyResult{}, domain.NewInputError(c.ID(), "arv", "required for BRRRR analysis")
	}
	if p.MonthlyRent <= 0 {
		return domain.StrategyResult{}, domain.NewInputError(c.ID(), "monthly_rent", "required for BRRRR analysis")
	}

	// Phase 1: acquisition. Hard money is interest-only, so the payoff at
	// refinance equals the original loan.
	down := price * a.DownPaymentPct
	acquisitionLoan := price - down
	points := acquisitionLoan * a.HardMoneyPoints
	holdingMonths := holdingMonthsOrDefault(a.HoldingMonths)
	holdingInterest := acquisitionLoan * a.HardMoneyRate * float64(holdingMonths) / 12

	totalCashInvested := down + price*a.ClosingCostPct + a.RehabBudget + points + holdingInterest

	// Phase 2: refinance against ARV.
	refiLoanAmount := p.ARV * a.RefinanceLTV
	refiCosts := refiLoanAmount * a.ClosingCostPct
	refiLoan, err := amort.ComputeLoan(refiLoanAmount, a.RefinanceRate, a.RefinanceTermYears)
	if err != nil {
		return domain.StrategyResult{}, err
	}

	cashOut := refiLoanAmount - acquisitionLoan - refiCosts
	cashLeftInDeal := totalCashInvested - cashOut // raw signed value, preserved
	cashRecoveryPct := 0.0
	if totalCashInvested > 0 {
		cashRecoveryPct = cashOut / totalCashInvested * 100
		if cashRecoveryPct > 100 {
			cashRecoveryPct = 100
		}
	}
	infiniteROI := cashLeftInDeal <= 0

	// Stabilized rental phase on the refinanced loan. Cash flow charges the
	// refinance rate against cash still trapped in the deal (signed: surplus
	// cash-out is credited), so profitability keeps falling as price rises.
	costs := rentalOperatingCosts(p.MonthlyRent, a, p)
	noi := costs.NOI()
	annualDebt := refiLoan.MonthlyPayment * 12
	capitalCharge := cashLeftInDeal * a.RefinanceRate / 12
	postRefiCF := noi/12 - refiLoan.MonthlyPayment
	monthlyCF := postRefiCF - capitalCharge

	metrics := domain.CoreMetrics{
		MonthlyCashFlow:    monthlyCF,
		AnnualCashFlow:     monthlyCF * 12,
		NOI:                noi,
		AnnualDebtService:  annualDebt,
		TotalCashInvested:  totalCashInvested,
		EffectiveMonthlyIn: costs.EffectiveIncome,
	}
	metrics.CapRate = noi / price
	if annualDebt > 0 {
		metrics.DSCR = noi / annualDebt
	}
	// Cash-on-cash is measured against cash still in the deal; a full
	// recovery with positive cash flow is reported at the cap.
	annualPostRefiCF := postRefiCF * 12
	switch {
	case cashLeftInDeal > 0:
		metrics.CashOnCashReturn = clampCoC(annualPostRefiCF / cashLeftInDeal)
	case annualPostRefiCF > 0:
		metrics.CashOnCashReturn = cashOnCashCap
	}
	if totalCashInvested > 0 {
		metrics.ROI = clampCoC(annualPostRefiCF / totalCashInvested)
	}

	if c.logger != nil {
		c.logger.Debug("BRRRR calculation",
			zap.Float64("price", price),
			zap.Float64("acquisition_loan", acquisitionLoan),
			zap.Float64("holding_interest", holdingInterest),
			zap.Float64("refinance_loan", refiLoanAmount),
			zap.Float64("cash_out", cashOut),
			zap.Float64("cash_left_in_deal", cashLeftInDeal),
			zap.Bool("infinite_roi", infiniteROI))
	}

	return domain.StrategyResult{
		Strategy: c.ID(),
		Price:    price,
		Loan: domain.LoanTerms{
			Price:          price,
			DownPayment:    down,
			LoanAmount:     refiLoanAmount,
			AnnualRate:     a.RefinanceRate,
			TermYears:      a.RefinanceTermYears,
			MonthlyPayment: refiLoan.MonthlyPayment,
		},
		Metrics: metrics,
		Detail: domain.BRRRRDetail{
			AcquisitionLoan:     acquisitionLoan,
			HoldingInterest:     holdingInterest,
			HardMoneyPoints:     points,
			RefinanceLoanAmount: refiLoanAmount,
			RefinanceCosts:      refiCosts,
			CashOut:             cashOut,
			CashLeftInDeal:      cashLeftInDeal,
			CashRecoveryPercent: cashRecoveryPct,
			InfiniteROIAchieved: infiniteROI,
			PostRefiCashFlow:    postRefiCF,
		},
	}, nil
}
