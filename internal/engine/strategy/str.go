// internal/engine/strategy/str.go
package strategy

import (
	"go.uber.org/zap"

	"github.com/propscout/dealengine/internal/domain"
)

// avgStayNights is the assumed average booking length used to estimate the
// number of bookings from nights occupied.
const avgStayNights = 3.0

// strCalculator evaluates a short-term (nightly) rental.
type strCalculator struct {
	params domain.EngineParams
	logger *zap.Logger
}

func (c *strCalculator) ID() domain.StrategyID { return domain.StrategyShortTermRental }

func (c *strCalculator) Calculate(price float64, a domain.Assumptions, p domain.PropertySnapshot) (domain.StrategyResult, error) {
	if err := validatePrice(c.ID(), price); err != nil {
		return domain.StrategyResult{}, err
	}
	if !p.HasSTRData() {
		return domain.StrategyResult{}, domain.NewInputError(c.ID(), "average_daily_rate", "ADR and occupancy_rate required for STR analysis")
	}

	loan, err := conventionalLoan(price, a)
	if err != nil {
		return domain.StrategyResult{}, err
	}

	nightsOccupied := 365 * p.OccupancyRate
	grossAnnual := p.AverageDailyRate * nightsOccupied
	grossMonthly := grossAnnual / 12

	costs := rentalOperatingCosts(grossMonthly, a, p)
	platformFees := grossMonthly * a.PlatformFeePct
	costs.Extra = platformFees + a.MonthlyCleaning

	noi := costs.NOI()
	annualDebt := loan.MonthlyPayment * 12
	cashInvested := loan.DownPayment + price*a.ClosingCostPct + a.RehabBudget

	metrics := coreMetrics(price, noi, annualDebt, cashInvested, costs.EffectiveIncome)

	if c.logger != nil {
		c.logger.Debug("STR calculation",
			zap.Float64("price", price),
			zap.Float64("adr", p.AverageDailyRate),
			zap.Float64("occupancy", p.OccupancyRate),
			zap.Float64("gross_annual", grossAnnual),
			zap.Float64("monthly_cash_flow", metrics.MonthlyCashFlow))
	}

	return domain.StrategyResult{
		Strategy: c.ID(),
		Price:    price,
		Loan:     loan,
		Metrics:  metrics,
		Detail: domain.STRDetail{
			AverageDailyRate:  p.AverageDailyRate,
			OccupancyRate:     p.OccupancyRate,
			NightsOccupied:    nightsOccupied,
			EstimatedBookings: nightsOccupied / avgStayNights,
			RevPAR:            p.AverageDailyRate * p.OccupancyRate,
			PlatformFees:      platformFees * 12,
			CleaningCosts:     a.MonthlyCleaning * 12,
			GrossAnnualIncome: grossAnnual,
		},
	}, nil
}
