package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/differentroads/dr-checkout/pkg/errors"
	"github.com/differentroads/dr-checkout/pkg/status"
)

type PricingRepository interface {
	GetPeriodPrices(ctx context.Context, periodID string) (PeriodPrices, error)
}

type pricingRepository struct {
	baseURL  string
	apiKey   string
	cacheTTL time.Duration
	logger   *logrus.Logger
	hc       *http.Client
	rc       *goredis.Client
}

func NewPricingRepository(baseURL, apiKey string, cacheTTL time.Duration, logger *logrus.Logger, hc *http.Client, rc *goredis.Client) PricingRepository {
	return &pricingRepository{
		baseURL:  baseURL,
		apiKey:   apiKey,
		cacheTTL: cacheTTL,
		logger:   logger,
		hc:       hc,
		rc:       rc,
	}
}

func periodPricesCacheKey(periodID string) string {
	return fmt.Sprintf("pricing:period:%s", periodID)
}

// GetPeriodPrices implements PricingRepository.
func (r *pricingRepository) GetPeriodPrices(ctx context.Context, periodID string) (PeriodPrices, error) {
	if buff, err := r.rc.Get(ctx, periodPricesCacheKey(periodID)).Bytes(); err == nil {
		var cached PeriodPrices
		if err := json.Unmarshal(buff, &cached); err == nil {
			return cached, nil
		}
	}

	url := fmt.Sprintf("%s/periods/%s/prices", r.baseURL, periodID)

	hr, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting period's prices")
	}

	hr.Header.Add("Accept", "application/json")
	hr.Header.Add("Authorization", fmt.Sprintf("Bearer %s", r.apiKey))

	hresp, err := r.hc.Do(hr)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting period's prices")
	}

	defer hresp.Body.Close()

	respBody, err := io.ReadAll(hresp.Body)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting period's prices")
	}

	if hresp.StatusCode < 200 || hresp.StatusCode > 299 {
		err := fmt.Errorf("pricing api responded with status %d: %s", hresp.StatusCode, string(respBody))
		r.logger.WithContext(ctx).WithError(err).Error()
		return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting period's prices")
	}

	var prices PeriodPrices
	if err := json.Unmarshal(respBody, &prices); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting period's prices")
	}

	if buff, err := json.Marshal(prices); err == nil {
		r.rc.Set(ctx, periodPricesCacheKey(periodID), buff, r.cacheTTL)
	}

	return prices, nil
}
