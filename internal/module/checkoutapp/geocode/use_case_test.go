package geocode

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/differentroads/dr-checkout/pkg/errors"
	"github.com/differentroads/dr-checkout/pkg/status"
)

type fakeGeocodeRepository struct {
	resolveCalls int
	lastCity     string
	err          error
}

func (f *fakeGeocodeRepository) Resolve(ctx context.Context, city string) (Coordinates, error) {
	f.resolveCalls++
	f.lastCity = city
	if f.err != nil {
		return Coordinates{}, f.err
	}

	return Coordinates{Latitude: 37.18, Longitude: -3.6}, nil
}

func newGeocodeFixture(repo *fakeGeocodeRepository) GeocodeUseCase {
	return NewGeocodeUseCase(GeocodeUseCaseProperty{
		Logger:      logrus.New(),
		Repository:  repo,
		MinInterval: time.Millisecond,
		MaxAttempts: 3,
	})
}

func TestNormalizeCity(t *testing.T) {
	assert.Equal(t, "granada", normalizeCity("  Granada "))
	assert.Equal(t, "malaga", normalizeCity("Málaga"))
	assert.Equal(t, "a coruna", normalizeCity("A Coruña"))
}

func TestResolveCityCachesByNormalizedName(t *testing.T) {
	repo := &fakeGeocodeRepository{}
	useCase := newGeocodeFixture(repo)

	coords, err := useCase.ResolveCity(context.Background(), "Málaga")
	require.NoError(t, err)
	assert.Equal(t, 37.18, coords.Latitude)
	assert.Equal(t, "malaga", repo.lastCity)

	// accent and case variants hit the same cache entry
	_, err = useCase.ResolveCity(context.Background(), "  MALAGA ")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.resolveCalls)
}

func TestResolveCityRetriesBoundedAttempts(t *testing.T) {
	repo := &fakeGeocodeRepository{
		err: errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while resolving the city"),
	}
	useCase := newGeocodeFixture(repo)

	_, err := useCase.ResolveCity(context.Background(), "Granada")

	require.Error(t, err)
	assert.Equal(t, 3, repo.resolveCalls)

	// failures are not cached, the next call goes upstream again
	repo.err = nil
	_, err = useCase.ResolveCity(context.Background(), "Granada")
	require.NoError(t, err)
	assert.Equal(t, 4, repo.resolveCalls)
}

func TestResolveCityFloorsConfiguredAttempts(t *testing.T) {
	repo := &fakeGeocodeRepository{
		err: errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while resolving the city"),
	}
	useCase := NewGeocodeUseCase(GeocodeUseCaseProperty{
		Logger:      logrus.New(),
		Repository:  repo,
		MinInterval: time.Millisecond,
		MaxAttempts: 0,
	})

	// a zero attempt budget still performs one lookup and surfaces its error
	// instead of caching an empty result
	_, err := useCase.ResolveCity(context.Background(), "Granada")
	require.Error(t, err)
	assert.Equal(t, 1, repo.resolveCalls)

	repo.err = nil
	coords, err := useCase.ResolveCity(context.Background(), "Granada")
	require.NoError(t, err)
	assert.Equal(t, 37.18, coords.Latitude)
}

func TestResolveCityStopsRetryingOnSuccess(t *testing.T) {
	repo := &fakeGeocodeRepository{}
	useCase := newGeocodeFixture(repo)

	_, err := useCase.ResolveCity(context.Background(), "Sevilla")

	require.NoError(t, err)
	assert.Equal(t, 1, repo.resolveCalls)
}
