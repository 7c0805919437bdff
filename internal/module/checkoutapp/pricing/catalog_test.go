package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceWithMarkup(t *testing.T) {
	assert.Equal(t, 112.00, PriceWithMarkup(100, 12))
	assert.Equal(t, 0.0, PriceWithMarkup(0, 12))
	// rounds half up to two decimals
	assert.Equal(t, 111.99, PriceWithMarkup(99.995, 12))
}

func TestParsePriceWithMarkup(t *testing.T) {
	v, err := ParsePriceWithMarkup("100", 12)
	require.NoError(t, err)
	assert.Equal(t, 112.00, v)

	v, err = ParsePriceWithMarkup("99.995", 12)
	require.NoError(t, err)
	assert.Equal(t, 111.99, v)

	_, err = ParsePriceWithMarkup("not-a-price", 12)
	assert.Error(t, err)
}

func TestCatalogPrice(t *testing.T) {
	catalog := NewCatalog(PeriodPrices{
		"TOUR1": {
			PriceData: []PriceData{
				{AgeGroupName: AgeGroupAdult, Value: 1000},
				{AgeGroupName: AgeGroupChild, Value: 800, ValueWithCampaign: 700, Campaign: true},
			},
			Availability: 12,
		},
	})

	assert.Equal(t, 1000.0, catalog.Price("TOUR1", AgeGroupAdult))
	// campaign price wins when the campaign is active
	assert.Equal(t, 700.0, catalog.Price("TOUR1", AgeGroupChild))
	// missing data is a zero, never an error
	assert.Equal(t, 0.0, catalog.Price("TOUR1", AgeGroupInfant))
	assert.Equal(t, 0.0, catalog.Price("UNKNOWN", AgeGroupAdult))

	assert.Equal(t, 1000.0, catalog.FlatPrice("TOUR1"))
	assert.Equal(t, 0.0, catalog.FlatPrice("UNKNOWN"))

	assert.Equal(t, int64(12), catalog.Availability("TOUR1"))
	assert.Equal(t, int64(0), catalog.Availability("UNKNOWN"))
}
