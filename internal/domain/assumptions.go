// internal/domain/assumptions.go
package domain

// Assumptions is the fully-resolved user overlay over the platform defaults.
// Every field is concrete by the time a calculator sees it; resolution of
// unspecified fields happens once, in Resolve. Percentages are fractions
// (0.20 == 20%) unless the field name says otherwise.
type Assumptions struct {
	DownPaymentPct float64 `json:"down_payment_pct"`
	InterestRate   float64 `json:"interest_rate"` // annual, fraction
	LoanTermYears  int     `json:"loan_term_years"`
	ClosingCostPct float64 `json:"closing_cost_pct"`
	VacancyRate    float64 `json:"vacancy_rate"`
	ManagementPct  float64 `json:"management_pct"`  // of effective income
	MaintenancePct float64 `json:"maintenance_pct"` // of effective income
	CapExPct       float64 `json:"capex_pct"`       // of effective income
	RehabBudget    float64 `json:"rehab_budget"`    // dollars
	HoldingMonths  int     `json:"holding_months"`
	SellingCostPct float64 `json:"selling_cost_pct"` // of ARV / sale price

	// Acquisition financing for BRRRR and flips.
	HardMoneyRate   float64 `json:"hard_money_rate"`   // annual, fraction
	HardMoneyPoints float64 `json:"hard_money_points"` // fraction of loan

	// Refinance leg for BRRRR.
	RefinanceLTV       float64 `json:"refinance_ltv"` // of ARV
	RefinanceRate      float64 `json:"refinance_rate"`
	RefinanceTermYears int     `json:"refinance_term_years"`

	// House hack room split.
	RoomsRented int `json:"rooms_rented"` // 0 means "all but one bedroom"

	// Short-term rental operating extras.
	PlatformFeePct  float64 `json:"platform_fee_pct"` // of gross STR income
	MonthlyCleaning float64 `json:"monthly_cleaning"` // dollars

	// Wholesale.
	WholesaleFeePct float64 `json:"wholesale_fee_pct"` // of contract price
	ContractPrice   float64 `json:"contract_price"`    // 0 means derive from price
	InvestorPrice   float64 `json:"investor_price"`    // 0 means derive from contract + fee
}

// AssumptionOverrides is the wire-side shape of Assumptions: every field is a
// pointer so an absent field is distinguishable from an explicit zero. Only
// absent fields fall back to the platform defaults; price never does.
type AssumptionOverrides struct {
	DownPaymentPct  *float64 `json:"down_payment_pct"`
	InterestRate    *float64 `json:"interest_rate"`
	LoanTermYears   *int     `json:"loan_term_years"`
	ClosingCostPct  *float64 `json:"closing_cost_pct"`
	VacancyRate     *float64 `json:"vacancy_rate"`
	ManagementPct   *float64 `json:"management_pct"`
	MaintenancePct  *float64 `json:"maintenance_pct"`
	CapExPct        *float64 `json:"capex_pct"`
	RehabBudget     *float64 `json:"rehab_budget"`
	HoldingMonths   *int     `json:"holding_months"`
	SellingCostPct  *float64 `json:"selling_cost_pct"`
	HardMoneyRate   *float64 `json:"hard_money_rate"`
	HardMoneyPoints *float64 `json:"hard_money_points"`

	RefinanceLTV       *float64 `json:"refinance_ltv"`
	RefinanceRate      *float64 `json:"refinance_rate"`
	RefinanceTermYears *int     `json:"refinance_term_years"`

	RoomsRented *int `json:"rooms_rented"`

	PlatformFeePct  *float64 `json:"platform_fee_pct"`
	MonthlyCleaning *float64 `json:"monthly_cleaning"`

	WholesaleFeePct *float64 `json:"wholesale_fee_pct"`
	ContractPrice   *float64 `json:"contract_price"`
	InvestorPrice   *float64 `json:"investor_price"`
}

// Resolve merges user overrides onto the default table, producing the
// concrete Assumptions handed to calculators.
func Resolve(o *AssumptionOverrides, defaults Assumptions) Assumptions {
	a := defaults
	if o == nil {
		return a
	}
	setF := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setI := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	setF(&a.DownPaymentPct, o.DownPaymentPct)
	setF(&a.InterestRate, o.InterestRate)
	setI(&a.LoanTermYears, o.LoanTermYears)
	setF(&a.ClosingCostPct, o.ClosingCostPct)
	setF(&a.VacancyRate, o.VacancyRate)
	setF(&a.ManagementPct, o.ManagementPct)
	setF(&a.MaintenancePct, o.MaintenancePct)
	setF(&a.CapExPct, o.CapExPct)
	setF(&a.RehabBudget, o.RehabBudget)
	setI(&a.HoldingMonths, o.HoldingMonths)
	setF(&a.SellingCostPct, o.SellingCostPct)
	setF(&a.HardMoneyRate, o.HardMoneyRate)
	setF(&a.HardMoneyPoints, o.HardMoneyPoints)
	setF(&a.RefinanceLTV, o.RefinanceLTV)
	setF(&a.RefinanceRate, o.RefinanceRate)
	setI(&a.RefinanceTermYears, o.RefinanceTermYears)
	setI(&a.RoomsRented, o.RoomsRented)
	setF(&a.PlatformFeePct, o.PlatformFeePct)
	setF(&a.MonthlyCleaning, o.MonthlyCleaning)
	setF(&a.WholesaleFeePct, o.WholesaleFeePct)
	setF(&a.ContractPrice, o.ContractPrice)
	setF(&a.InvestorPrice, o.InvestorPrice)
	return a
}
