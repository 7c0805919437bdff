package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/differentroads/dr-checkout/internal/module/checkoutapp/pricing"
)

func TestRegenerateTravelersFromEmpty(t *testing.T) {
	travelers := RegenerateTravelers(nil, TravelerCounts{Adults: 1, Children: 1})

	require.Len(t, travelers, 2)
	assert.True(t, travelers[0].Lead)
	assert.Equal(t, pricing.AgeGroupAdult, travelers[0].TravelerData.AgeGroup)
	assert.False(t, travelers[1].Lead)
	assert.Equal(t, pricing.AgeGroupChild, travelers[1].TravelerData.AgeGroup)
	assert.Empty(t, travelers[1].TravelerData.GivenName)
}

func TestRegenerateTravelersPreservesByPosition(t *testing.T) {
	existing := RegenerateTravelers(nil, TravelerCounts{Adults: 2})
	existing[0].TravelerData.GivenName = "Ana"
	existing[1].TravelerData.GivenName = "Luis"

	travelers := RegenerateTravelers(existing, TravelerCounts{Adults: 2, Children: 1})

	require.Len(t, travelers, 3)
	assert.Equal(t, "Ana", travelers[0].TravelerData.GivenName)
	assert.Equal(t, "Luis", travelers[1].TravelerData.GivenName)
	assert.Equal(t, pricing.AgeGroupChild, travelers[2].TravelerData.AgeGroup)
	assert.Empty(t, travelers[2].TravelerData.GivenName)
}

func TestRegenerateTravelersDropsSurplus(t *testing.T) {
	existing := RegenerateTravelers(nil, TravelerCounts{Adults: 3})
	existing[2].TravelerData.GivenName = "Carlos"

	travelers := RegenerateTravelers(existing, TravelerCounts{Adults: 2})

	require.Len(t, travelers, 2)
	for _, tr := range travelers {
		assert.NotEqual(t, "Carlos", tr.TravelerData.GivenName)
	}
}

func TestRegenerateTravelersLeadOnFirstAdult(t *testing.T) {
	existing := RegenerateTravelers(nil, TravelerCounts{Adults: 1, Infants: 1})
	existing[0].TravelerData.GivenName = "Marta"

	travelers := RegenerateTravelers(existing, TravelerCounts{Adults: 2, Infants: 1})

	require.Len(t, travelers, 3)
	assert.True(t, travelers[0].Lead)
	assert.Equal(t, "Marta", travelers[0].TravelerData.GivenName)
	assert.False(t, travelers[1].Lead)
	assert.False(t, travelers[2].Lead)
	assert.Equal(t, pricing.AgeGroupInfant, travelers[2].TravelerData.AgeGroup)
}
