// internal/engine/strategy/common.go
package strategy

import (
	"math"

	"github.com/propscout/dealengine/internal/domain"
	"github.com/propscout/dealengine/internal/engine/amort"
)

// cashOnCashCap bounds the reported cash-on-cash fraction when the invested
// cash approaches zero (BRRRR full recovery). 9.99 == 999%.
const cashOnCashCap = 9.99

// validatePrice rejects non-finite or non-positive prices. Price never falls
// back to a default.
func validatePrice(id domain.StrategyID, price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return domain.NewInputError(id, "purchase_price", "must be finite")
	}
	if price <= 0 {
		return domain.NewInputError(id, "purchase_price", "must be positive")
	}
	return nil
}

// conventionalLoan derives LoanTerms for a conventional purchase at price.
func conventionalLoan(price float64, a domain.Assumptions) (domain.LoanTerms, error) {
	down := price * a.DownPaymentPct
	loan, err := amort.ComputeLoan(price-down, a.InterestRate, a.LoanTermYears)
	if err != nil {
		return domain.LoanTerms{}, err
	}
	return domain.LoanTerms{
		Price:          price,
		DownPayment:    down,
		LoanAmount:     loan.Principal,
		AnnualRate:     a.InterestRate,
		TermYears:      a.LoanTermYears,
		MonthlyPayment: loan.MonthlyPayment,
	}, nil
}

// operatingCosts is the monthly non-debt expense breakdown shared by the
// rental-family calculators.
type operatingCosts struct {
	EffectiveIncome float64 // $/month after vacancy
	Fixed           float64 // taxes + insurance, $/month
	Variable        float64 // management + maintenance + capex, $/month
	Extra           float64 // strategy-specific (STR fees, cleaning), $/month
}

func (c operatingCosts) Total() float64 { return c.Fixed + c.Variable + c.Extra }

// NOI returns the annual net operating income implied by the breakdown.
func (c operatingCosts) NOI() float64 { return (c.EffectiveIncome - c.Total()) * 12 }

// rentalOperatingCosts applies the shared expense model: effective income is
// gross less vacancy; variable costs are ratios of effective income; fixed
// costs come straight off the snapshot.
func rentalOperatingCosts(grossMonthly float64, a domain.Assumptions, p domain.PropertySnapshot) operatingCosts {
	effective := grossMonthly * (1 - a.VacancyRate)
	return operatingCosts{
		EffectiveIncome: effective,
		Fixed:           p.AnnualTaxes/12 + p.AnnualInsurance/12,
		Variable:        effective * (a.ManagementPct + a.MaintenancePct + a.CapExPct),
	}
}

// coreMetrics assembles the cross-strategy metric block from one consistent
// set of NOI / debt-service / invested-cash figures.
func coreMetrics(price, noi, annualDebtService, totalCashInvested, effectiveMonthly float64) domain.CoreMetrics {
	monthlyCF := noi/12 - annualDebtService/12
	annualCF := monthlyCF * 12

	m := domain.CoreMetrics{
		MonthlyCashFlow:    monthlyCF,
		AnnualCashFlow:     annualCF,
		NOI:                noi,
		AnnualDebtService:  annualDebtService,
		TotalCashInvested:  totalCashInvested,
		EffectiveMonthlyIn: effectiveMonthly,
	}
	if price > 0 {
		m.CapRate = noi / price
	}
	if annualDebtService > 0 {
		m.DSCR = noi / annualDebtService
	}
	if totalCashInvested > 0 {
		m.CashOnCashReturn = clampCoC(annualCF / totalCashInvested)
		m.ROI = m.CashOnCashReturn
	} else if annualCF > 0 {
		m.CashOnCashReturn = cashOnCashCap
		m.ROI = cashOnCashCap
	}
	return m
}

func clampCoC(v float64) float64 {
	if v > cashOnCashCap {
		return cashOnCashCap
	}
	if v < -cashOnCashCap {
		return -cashOnCashCap
	}
	return v
}

// holdingMonthsOrDefault guards against a zero project length in ROI
// annualization.
func holdingMonthsOrDefault(months int) int {
	if months <= 0 {
		return 1
	}
	return months
}
