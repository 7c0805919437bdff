package geocode

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type GeocodeUseCase interface {
	ResolveCity(ctx context.Context, city string) (Coordinates, error)
}

type geocodeUseCase struct {
	logger      *logrus.Logger
	repository  GeocodeRepository
	minInterval time.Duration
	maxAttempts int

	mu       sync.Mutex
	lastCall time.Time
	cache    map[string]Coordinates
}

type GeocodeUseCaseProperty struct {
	Logger      *logrus.Logger
	Repository  GeocodeRepository
	MinInterval time.Duration
	MaxAttempts int
}

func NewGeocodeUseCase(props GeocodeUseCaseProperty) GeocodeUseCase {
	maxAttempts := props.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	return &geocodeUseCase{
		logger:      props.Logger,
		repository:  props.Repository,
		minInterval: props.MinInterval,
		maxAttempts: maxAttempts,
		cache:       make(map[string]Coordinates),
	}
}

var accentFolder = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
)

func normalizeCity(city string) string {
	return accentFolder.Replace(strings.ToLower(strings.TrimSpace(city)))
}

// ResolveCity implements GeocodeUseCase. Lookups are throttled to one
// upstream request per minInterval and retried up to maxAttempts per city;
// successful results are cached by normalized city name for the process
// lifetime.
func (u *geocodeUseCase) ResolveCity(ctx context.Context, city string) (Coordinates, error) {
	key := normalizeCity(city)

	u.mu.Lock()
	if coords, ok := u.cache[key]; ok {
		u.mu.Unlock()
		return coords, nil
	}
	u.mu.Unlock()

	var coords Coordinates
	var err error

	for attempt := 0; attempt < u.maxAttempts; attempt++ {
		if err := u.throttle(ctx); err != nil {
			return Coordinates{}, err
		}

		coords, err = u.repository.Resolve(ctx, key)
		if err == nil {
			break
		}

		u.logger.WithContext(ctx).WithField("city", key).WithError(err).Warn("geocode attempt failed")
	}

	if err != nil {
		return Coordinates{}, err
	}

	u.mu.Lock()
	u.cache[key] = coords
	u.mu.Unlock()

	return coords, nil
}

func (u *geocodeUseCase) throttle(ctx context.Context) error {
	u.mu.Lock()
	wait := u.minInterval - time.Since(u.lastCall)
	u.lastCall = time.Now().Add(wait)
	u.mu.Unlock()

	if wait <= 0 {
		return nil
	}

	select {
	case <-time.After(wait):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
