// internal/engine/strategy/rental.go
package strategy

import (
	"go.uber.org/zap"

	"github.com/propscout/dealengine/internal/domain"
)

// rentalCalculator evaluates a conventional long-term rental.
type rentalCalculator struct {
	params domain.EngineParams
	logger *zap.Logger
}

func (c *rentalCalculator) ID() domain.StrategyID { return domain.StrategyLongTermRental }

func (c *rentalCalculator) Calculate(price float64, a domain.Assumptions, p domain.PropertySnapshot) (domain.StrategyResult, error) {
	if err := validatePrice(c.ID(), price); err != nil {
		return domain.StrategyResult{}, err
	}
	if p.MonthlyRent <= 0 {
		return domain.StrategyResult{}, domain.NewInputError(c.ID(), "monthly_rent", "required for long-term rental analysis")
	}

	loan, err := conventionalLoan(price, a)
	if err != nil {
		return domain.StrategyResult{}, err
	}

	costs := rentalOperatingCosts(p.MonthlyRent, a, p)
	noi := costs.NOI()
	annualDebt := loan.MonthlyPayment * 12
	cashInvested := loan.DownPayment + price*a.ClosingCostPct + a.RehabBudget

	metrics := coreMetrics(price, noi, annualDebt, cashInvested, costs.EffectiveIncome)

	if c.logger != nil {
		c.logger.Debug("LTR calculation",
			zap.Float64("price", price),
			zap.Float64("noi", noi),
			zap.Float64("monthly_cash_flow", metrics.MonthlyCashFlow),
			zap.Float64("cap_rate", metrics.CapRate))
	}

	return domain.StrategyResult{
		Strategy: c.ID(),
		Price:    price,
		Loan:     loan,
		Metrics:  metrics,
		Detail: domain.RentalDetail{
			GrossMonthlyRent:  p.MonthlyRent,
			VacancyLoss:       p.MonthlyRent * a.VacancyRate,
			OperatingExpenses: costs.Total(),
			ExpenseRatio:      expenseRatio(costs),
			OnePercentRule:    p.MonthlyRent >= price*0.01,
		},
	}, nil
}

func expenseRatio(c operatingCosts) float64 {
	if c.EffectiveIncome <= 0 {
		return 0
	}
	return c.Total() / c.EffectiveIncome
}
