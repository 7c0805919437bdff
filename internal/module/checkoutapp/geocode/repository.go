package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/differentroads/dr-checkout/pkg/errors"
	"github.com/differentroads/dr-checkout/pkg/status"
)

type GeocodeRepository interface {
	Resolve(ctx context.Context, city string) (Coordinates, error)
}

type geocodeRepository struct {
	baseURL string
	logger  *logrus.Logger
	hc      *http.Client
}

func NewGeocodeRepository(baseURL string, logger *logrus.Logger, hc *http.Client) GeocodeRepository {
	return &geocodeRepository{
		baseURL: baseURL,
		logger:  logger,
		hc:      hc,
	}
}

// Resolve implements GeocodeRepository.
func (r *geocodeRepository) Resolve(ctx context.Context, city string) (Coordinates, error) {
	u := fmt.Sprintf("%s/search?q=%s&format=json&limit=1", r.baseURL, url.QueryEscape(city))

	hr, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return Coordinates{}, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while geocoding the city")
	}

	hr.Header.Add("Accept", "application/json")

	hresp, err := r.hc.Do(hr)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return Coordinates{}, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while geocoding the city")
	}

	defer hresp.Body.Close()

	respBody, err := io.ReadAll(hresp.Body)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return Coordinates{}, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while geocoding the city")
	}

	if hresp.StatusCode < 200 || hresp.StatusCode > 299 {
		err := fmt.Errorf("geocoder responded with status %d", hresp.StatusCode)
		r.logger.WithContext(ctx).WithError(err).Error()
		return Coordinates{}, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while geocoding the city")
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.Unmarshal(respBody, &results); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return Coordinates{}, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while geocoding the city")
	}

	if len(results) == 0 {
		return Coordinates{}, errors.New(http.StatusNotFound, status.NOT_FOUND, fmt.Sprintf("no coordinates found for city '%s'", city))
	}

	var coords Coordinates
	fmt.Sscanf(results[0].Lat, "%f", &coords.Latitude)
	fmt.Sscanf(results[0].Lon, "%f", &coords.Longitude)

	return coords, nil
}
