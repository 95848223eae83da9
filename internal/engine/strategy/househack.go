// internal/engine/strategy/househack.go
package strategy

import (
	"go.uber.org/zap"

	"github.com/propscout/dealengine/internal/domain"
)

// houseHackCalculator evaluates an owner-occupied purchase with spare
// bedrooms rented out. The headline number is what the owner saves versus
// renting a comparable place.
type houseHackCalculator struct {
	params domain.EngineParams
	logger *zap.Logger
}

func (c *houseHackCalculator) ID() domain.StrategyID { return domain.StrategyHouseHack }

func (c *houseHackCalculator) Calculate(price float64, a domain.Assumptions, p domain.PropertySnapshot) (domain.StrategyResult, error) {
	if err := validatePrice(c.ID(), price); err != nil {
		return domain.StrategyResult{}, err
	}
	if p.MonthlyRent <= 0 {
		return domain.StrategyResult{}, domain.NewInputError(c.ID(), "monthly_rent", "market rent required for house-hack analysis")
	}
	if p.Bedrooms < 2 {
		return domain.StrategyResult{}, domain.NewInputError(c.ID(), "bedrooms", "at least two bedrooms required to house hack")
	}

	roomsRented := a.RoomsRented
	if roomsRented <= 0 || roomsRented >= p.Bedrooms {
		roomsRented = p.Bedrooms - 1 // owner keeps one room
	}

	loan, err := conventionalLoan(price, a)
	if err != nil {
		return domain.StrategyResult{}, err
	}

	// Room rent scales the whole-house market rent by the rented fraction.
	roomRent := p.MonthlyRent * float64(roomsRented) / float64(p.Bedrooms)
	effectiveRoomRent := roomRent * (1 - a.VacancyRate)

	// Same expense shape as the rental family: management, maintenance and
	// capex all charge against the collected room rent.
	fixed := p.AnnualTaxes/12 + p.AnnualInsurance/12
	reserves := effectiveRoomRent * (a.ManagementPct + a.MaintenancePct + a.CapExPct)

	piti := loan.MonthlyPayment + fixed
	effectiveHousingCost := piti + reserves - effectiveRoomRent
	monthlySavings := p.MonthlyRent - effectiveHousingCost

	noi := (effectiveRoomRent - fixed - reserves) * 12
	annualDebt := loan.MonthlyPayment * 12
	cashInvested := loan.DownPayment + price*a.ClosingCostPct

	metrics := coreMetrics(price, noi, annualDebt, cashInvested, effectiveRoomRent)

	if c.logger != nil {
		c.logger.Debug("House-hack calculation",
			zap.Float64("price", price),
			zap.Int("rooms_rented", roomsRented),
			zap.Float64("room_rent", roomRent),
			zap.Float64("effective_housing_cost", effectiveHousingCost),
			zap.Float64("monthly_savings", monthlySavings))
	}

	return domain.StrategyResult{
		Strategy: c.ID(),
		Price:    price,
		Loan:     loan,
		Metrics:  metrics,
		Detail: domain.HouseHackDetail{
			RoomsRented:          roomsRented,
			TotalBedrooms:        p.Bedrooms,
			RoomRentCollected:    roomRent,
			PITI:                 piti,
			EffectiveHousingCost: effectiveHousingCost,
			MarketRentEquivalent: p.MonthlyRent,
			MonthlySavings:       monthlySavings,
			LivesForFree:         effectiveHousingCost <= 0,
		},
	}, nil
}
