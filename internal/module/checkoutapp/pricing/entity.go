package pricing

// Traveler pricing tiers as the pricing backend names them.
const (
	AgeGroupAdult  = "Adultos"
	AgeGroupChild  = "Niños"
	AgeGroupInfant = "Bebés"
)

type PriceData struct {
	ID                string  `json:"id"`
	Value             float64 `json:"value"`
	ValueWithCampaign float64 `json:"value_with_campaign"`
	Campaign          bool    `json:"campaign"`
	AgeGroupName      string  `json:"age_group_name"`
	CategoryName      string  `json:"category_name"`
	PeriodProduct     string  `json:"period_product"`
}

type ProductPrices struct {
	PriceData    []PriceData `json:"priceData"`
	Availability int64       `json:"availability"`
}

// PeriodPrices maps product id to its priced entries for one period.
type PeriodPrices map[string]ProductPrices
