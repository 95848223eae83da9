// internal/domain/strategy.go
package domain

// StrategyID identifies one of the six supported investment strategies.
type StrategyID string

const (
	StrategyLongTermRental  StrategyID = "long_term_rental"
	StrategyShortTermRental StrategyID = "short_term_rental"
	StrategyBRRRR           StrategyID = "brrrr"
	StrategyFixAndFlip      StrategyID = "fix_and_flip"
	StrategyHouseHack       StrategyID = "house_hack"
	StrategyWholesale       StrategyID = "wholesale"
)

// AllStrategies lists every strategy in ranking-stable order.
var AllStrategies = []StrategyID{
	StrategyLongTermRental,
	StrategyShortTermRental,
	StrategyBRRRR,
	StrategyFixAndFlip,
	StrategyHouseHack,
	StrategyWholesale,
}

// Valid reports whether id names a known strategy.
func (id StrategyID) Valid() bool {
	for _, s := range AllStrategies {
		if s == id {
			return true
		}
	}
	return false
}

// LoanTerms is the financing derived for a given price. It is recomputed for
// every price the solver probes; nothing caches it across differing prices.
type LoanTerms struct {
	Price          float64 `json:"price"`
	DownPayment    float64 `json:"down_payment"`
	LoanAmount     float64 `json:"loan_amount"`
	AnnualRate     float64 `json:"annual_rate"`
	TermYears      int     `json:"term_years"`
	MonthlyPayment float64 `json:"monthly_payment"`
}

// CoreMetrics are the metrics every strategy reports with consistent
// semantics: cash flow, NOI, debt service, cap rate, cash-on-cash and DSCR
// all derive from the same NOI/debt values.
type CoreMetrics struct {
	MonthlyCashFlow    float64 `json:"monthly_cash_flow"`
	AnnualCashFlow     float64 `json:"annual_cash_flow"`
	NOI                float64 `json:"noi"` // $/year
	AnnualDebtService  float64 `json:"annual_debt_service"`
	CapRate            float64 `json:"cap_rate"`             // fraction
	CashOnCashReturn   float64 `json:"cash_on_cash_return"`  // fraction
	DSCR               float64 `json:"dscr"`                 // ratio
	ROI                float64 `json:"roi"`                  // fraction
	TotalCashInvested  float64 `json:"total_cash_invested"`  // dollars
	EffectiveMonthlyIn float64 `json:"effective_monthly_income"`
}

// StrategyDetail is the per-variant payload of a StrategyResult. Exactly one
// concrete detail type exists per strategy.
type StrategyDetail interface {
	DetailStrategy() StrategyID
}

// StrategyResult is a tagged variant: the strategy id selects which detail
// type Detail holds. Results are pure values; two results computed from the
// same inputs are interchangeable.
type StrategyResult struct {
	Strategy StrategyID     `json:"strategy"`
	Price    float64        `json:"purchase_price"`
	Loan     LoanTerms      `json:"loan_terms"`
	Metrics  CoreMetrics    `json:"metrics"`
	Detail   StrategyDetail `json:"detail,omitempty"`
}

// RentalDetail covers long-term rentals.
type RentalDetail struct {
	GrossMonthlyRent  float64 `json:"gross_monthly_rent"`
	VacancyLoss       float64 `json:"vacancy_loss"` // $/month
	OperatingExpenses float64 `json:"operating_expenses"`
	ExpenseRatio      float64 `json:"expense_ratio"` // fraction of effective income
	OnePercentRule    bool    `json:"meets_one_percent_rule"`
}

func (RentalDetail) DetailStrategy() StrategyID { return StrategyLongTermRental }

// STRDetail covers short-term rentals.
type STRDetail struct {
	AverageDailyRate  float64 `json:"average_daily_rate"`
	OccupancyRate     float64 `json:"occupancy_rate"`
	NightsOccupied    float64 `json:"nights_occupied"` // per year
	EstimatedBookings float64 `json:"estimated_bookings"`
	RevPAR            float64 `json:"revpar"`
	PlatformFees      float64 `json:"platform_fees"` // $/year
	CleaningCosts     float64 `json:"cleaning_costs"`
	GrossAnnualIncome float64 `json:"gross_annual_income"`
}

func (STRDetail) DetailStrategy() StrategyID { return StrategyShortTermRental }

// BRRRRDetail covers the buy-rehab-rent-refinance-repeat path. CashLeftInDeal
// keeps its raw sign; flooring at zero is a display concern.
type BRRRRDetail struct {
	AcquisitionLoan     float64 `json:"acquisition_loan"`
	HoldingInterest     float64 `json:"holding_interest"`
	HardMoneyPoints     float64 `json:"hard_money_points_paid"`
	RefinanceLoanAmount float64 `json:"refinance_loan_amount"`
	RefinanceCosts      float64 `json:"refinance_costs"`
	CashOut             float64 `json:"cash_out"`
	CashLeftInDeal      float64 `json:"cash_left_in_deal"`
	CashRecoveryPercent float64 `json:"cash_recovery_percent"` // 0..100, capped
	InfiniteROIAchieved bool    `json:"infinite_roi_achieved"`
	PostRefiCashFlow    float64 `json:"post_refi_monthly_cash_flow"`
}

func (BRRRRDetail) DetailStrategy() StrategyID { return StrategyBRRRR }

// FlipDetail covers fix-and-flip.
type FlipDetail struct {
	ARV                 float64 `json:"arv"`
	RehabCosts          float64 `json:"rehab_costs"`
	MAO                 float64 `json:"mao"` // maximum allowable offer
	MeetsSeventyPctRule bool    `json:"meets_seventy_percent_rule"`
	TotalProjectCost    float64 `json:"total_project_cost"`
	HoldingInterest     float64 `json:"holding_interest"`
	SellingCosts        float64 `json:"selling_costs"`
	NetProfit           float64 `json:"net_profit"`
	AnnualizedROI       float64 `json:"annualized_roi"`
	ProjectMonths       int     `json:"project_months"`
}

func (FlipDetail) DetailStrategy() StrategyID { return StrategyFixAndFlip }

// HouseHackDetail covers owner-occupied room rentals.
type HouseHackDetail struct {
	RoomsRented          int     `json:"rooms_rented"`
	TotalBedrooms        int     `json:"total_bedrooms"`
	RoomRentCollected    float64 `json:"room_rent_collected"` // $/month
	PITI                 float64 `json:"piti"`                // $/month
	EffectiveHousingCost float64 `json:"effective_housing_cost"`
	MarketRentEquivalent float64 `json:"market_rent_equivalent"`
	MonthlySavings       float64 `json:"monthly_savings"`
	LivesForFree         bool    `json:"lives_for_free"`
}

func (HouseHackDetail) DetailStrategy() StrategyID { return StrategyHouseHack }

// WholesaleDetail covers contract assignment.
type WholesaleDetail struct {
	ContractPrice     float64 `json:"contract_price"`
	InvestorPrice     float64 `json:"investor_price"`
	AssignmentFee     float64 `json:"assignment_fee"`
	MAO               float64 `json:"mao"`
	InvestorNetProfit float64 `json:"investor_net_profit"`
	InvestorROI       float64 `json:"investor_roi"`
}

func (WholesaleDetail) DetailStrategy() StrategyID { return StrategyWholesale }
