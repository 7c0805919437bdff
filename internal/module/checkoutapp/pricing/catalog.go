package pricing

import (
	"math"
	"strconv"
)

// Catalog is a pure lookup over one period's prices. Lookups that find no
// matching entry return zero rather than an error; the summary builder drops
// zero priced items instead of rendering them.
type Catalog struct {
	prices PeriodPrices
}

func NewCatalog(prices PeriodPrices) *Catalog {
	return &Catalog{prices: prices}
}

// Price returns the unit value for a product and age group. The campaign
// price wins whenever the entry carries an active campaign.
func (c *Catalog) Price(productID string, ageGroup string) float64 {
	product, ok := c.prices[productID]
	if !ok {
		return 0
	}

	for _, pd := range product.PriceData {
		if pd.AgeGroupName != ageGroup {
			continue
		}
		if pd.Campaign {
			return pd.ValueWithCampaign
		}
		return pd.Value
	}

	return 0
}

// FlatPrice returns the first priced entry regardless of age group, for
// products that are not priced per tier.
func (c *Catalog) FlatPrice(productID string) float64 {
	product, ok := c.prices[productID]
	if !ok {
		return 0
	}

	for _, pd := range product.PriceData {
		if pd.Campaign {
			return pd.ValueWithCampaign
		}
		return pd.Value
	}

	return 0
}

func (c *Catalog) Availability(productID string) int64 {
	product, ok := c.prices[productID]
	if !ok {
		return 0
	}

	return product.Availability
}

// PriceWithMarkup applies the flight provider markup percentage and rounds
// half up to two decimals.
func PriceWithMarkup(value float64, markupPercentage float64) float64 {
	raw := value * (1 + markupPercentage/100)

	return math.Round(raw*100) / 100
}

// ParsePriceWithMarkup accepts provider prices serialized as numeric strings.
func ParsePriceWithMarkup(value string, markupPercentage float64) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}

	return PriceWithMarkup(v, markupPercentage), nil
}
