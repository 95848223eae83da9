// internal/domain/property.go
package domain

// ListingStatus describes where a listing sits in its sales lifecycle.
type ListingStatus string

const (
	StatusActive      ListingStatus = "active"
	StatusPending     ListingStatus = "pending"
	StatusContingent  ListingStatus = "contingent"
	StatusPriceDrop   ListingStatus = "price_drop"
	StatusBackOnline  ListingStatus = "back_on_market"
	StatusOffMarket   ListingStatus = "off_market"
	StatusUnknownStat ListingStatus = ""
)

// MarketTemperature is a coarse qualitative classification of the local market.
type MarketTemperature string

const (
	MarketHot     MarketTemperature = "hot"
	MarketWarm    MarketTemperature = "warm"
	MarketNeutral MarketTemperature = "neutral"
	MarketCool    MarketTemperature = "cool"
	MarketCold    MarketTemperature = "cold"
	MarketUnknown MarketTemperature = ""
)

// PropertySnapshot holds the immutable facts about a listing at the moment a
// request is made. Everything the engine derives is a pure function of this
// snapshot plus the caller's assumptions; the snapshot itself is never
// mutated after construction.
type PropertySnapshot struct {
	ListPrice        float64           `json:"list_price"`
	Bedrooms         int               `json:"bedrooms"`
	Bathrooms        float64           `json:"bathrooms"`
	SquareFeet       int               `json:"square_feet"`
	MonthlyRent      float64           `json:"monthly_rent"`      // market rent estimate
	AnnualTaxes      float64           `json:"property_taxes"`    // $/year
	AnnualInsurance  float64           `json:"insurance"`         // $/year
	ARV              float64           `json:"arv"`               // after-repair value
	AverageDailyRate float64           `json:"average_daily_rate"`
	OccupancyRate    float64           `json:"occupancy_rate"` // fraction, 0..1
	ListingStatus    ListingStatus     `json:"listing_status"`
	DaysOnMarket     int               `json:"days_on_market"`
	MotivationTags   []string          `json:"seller_motivation"` // e.g. "estate_sale", "relocation"
	MarketTemp       MarketTemperature `json:"market_temperature"`
}

// HasSTRData reports whether the snapshot carries enough short-term-rental
// market data to run the STR calculator on real numbers.
func (p PropertySnapshot) HasSTRData() bool {
	return p.AverageDailyRate > 0 && p.OccupancyRate > 0
}
