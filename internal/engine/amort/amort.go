// internal/engine/amort/amort.go
package amort

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/propscout/dealengine/internal/domain"
)

// Loan is a fixed-rate amortizing loan with its solved monthly payment.
// Schedule construction is lazy: nothing is materialized until a caller
// walks the iterator.
type Loan struct {
	Principal      float64
	AnnualRate     float64 // fraction, e.g. 0.07
	TermYears      int
	MonthlyPayment float64
}

// Row is one period of an amortization schedule. Balance is the remaining
// principal after this period's payment.
type Row struct {
	Period    int
	Payment   float64
	Principal float64
	Interest  float64
	Balance   float64
}

// ComputeLoan solves the fixed-payment annuity for the given terms.
//
// principal <= 0 yields a zero loan with an empty schedule and no error: a
// fully cash purchase is a legitimate input, not a failure. termYears <= 0
// or a non-finite payment is ErrInvalidLoanTerm.
func ComputeLoan(principal, annualRate float64, termYears int) (Loan, error) {
	if termYears <= 0 {
		return Loan{}, domain.ErrInvalidLoanTerm
	}
	if principal <= 0 {
		return Loan{AnnualRate: annualRate, TermYears: termYears}, nil
	}

	termMonths := float64(termYears * 12)
	var payment float64
	if annualRate == 0 {
		payment = principal / termMonths
	} else {
		monthlyRate := annualRate / 12
		payment = principal * (monthlyRate / (1 - math.Pow(1+monthlyRate, -termMonths)))
	}
	if math.IsNaN(payment) || math.IsInf(payment, 0) {
		return Loan{}, domain.ErrInvalidLoanTerm
	}

	return Loan{
		Principal:      principal,
		AnnualRate:     annualRate,
		TermYears:      termYears,
		MonthlyPayment: payment,
	}, nil
}

// Schedule returns a fresh iterator over the loan's periods. Each call
// restarts from period 1, so one Loan can be walked any number of times.
func (l Loan) Schedule() *Schedule {
	s := &Schedule{loan: l}
	s.Reset()
	return s
}

// Schedule walks a loan's periods one row at a time. Balances are tracked in
// cent-exact decimals; the final payment absorbs the rounding drift so the
// closing balance is exactly zero.
type Schedule struct {
	loan        Loan
	period      int
	termMonths  int
	balance     decimal.Decimal
	payment     decimal.Decimal
	monthlyRate decimal.Decimal
}

// Reset rewinds the iterator to period 1.
func (s *Schedule) Reset() {
	s.period = 0
	s.termMonths = s.loan.TermYears * 12
	s.balance = decimal.NewFromFloat(s.loan.Principal).Round(2)
	s.payment = decimal.NewFromFloat(s.loan.MonthlyPayment).Round(2)
	s.monthlyRate = decimal.NewFromFloat(s.loan.AnnualRate / 12)
}

// Next returns the next row, or ok=false when the schedule is exhausted.
func (s *Schedule) Next() (Row, bool) {
	if s.loan.Principal <= 0 || s.period >= s.termMonths || s.balance.Sign() <= 0 {
		return Row{}, false
	}
	s.period++

	interest := s.balance.Mul(s.monthlyRate).Round(2)
	principal := s.payment.Sub(interest)

	// Final period, or rounding pushed the split past what is owed: close
	// out the remaining balance exactly.
	if s.period == s.termMonths || principal.GreaterThanOrEqual(s.balance) {
		principal = s.balance
	}
	s.balance = s.balance.Sub(principal)

	row := Row{
		Period:    s.period,
		Payment:   principal.Add(interest).InexactFloat64(),
		Principal: principal.InexactFloat64(),
		Interest:  interest.InexactFloat64(),
		Balance:   s.balance.InexactFloat64(),
	}
	return row, true
}

// Rows materializes the whole schedule. Intended for small terms and tests;
// production paths walk the iterator.
func (s *Schedule) Rows() []Row {
	s.Reset()
	rows := make([]Row, 0, s.termMonths)
	for {
		row, ok := s.Next()
		if !ok {
			return rows
		}
		rows = append(rows, row)
	}
}

// RemainingBalance returns the principal still owed after monthsPaid
// payments, using the same cent-exact walk as the schedule.
func (l Loan) RemainingBalance(monthsPaid int) float64 {
	if l.Principal <= 0 {
		return 0
	}
	s := l.Schedule()
	balance := l.Principal
	for i := 0; i < monthsPaid; i++ {
		row, ok := s.Next()
		if !ok {
			return 0
		}
		balance = row.Balance
	}
	return balance
}
