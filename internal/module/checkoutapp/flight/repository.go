package flight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/differentroads/dr-checkout/pkg/errors"
	"github.com/differentroads/dr-checkout/pkg/status"
)

type FlightRepository interface {
	SearchOffers(ctx context.Context, req SearchOffersRequest) ([]Offer, error)
	GetOfferPrice(ctx context.Context, offerID string) (Offer, error)
	CreateOrder(ctx context.Context, req CreateOrderRequest) (OrderConfirmation, error)
}

type flightRepository struct {
	baseURL string
	apiKey  string
	logger  *logrus.Logger
	hc      *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewFlightRepository(baseURL, apiKey string, logger *logrus.Logger, hc *http.Client) FlightRepository {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "flight-provider",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &flightRepository{
		baseURL: baseURL,
		apiKey:  apiKey,
		logger:  logger,
		hc:      hc,
		breaker: breaker,
	}
}

func (r *flightRepository) do(ctx context.Context, method, path string, payload interface{}, out interface{}) error {
	var body io.Reader
	if payload != nil {
		buff, _ := json.Marshal(payload)
		body = bytes.NewBuffer(buff)
	}

	_, err := r.breaker.Execute(func() (interface{}, error) {
		hr, err := http.NewRequestWithContext(ctx, method, fmt.Sprintf("%s%s", r.baseURL, path), body)
		if err != nil {
			return nil, err
		}

		hr.Header.Add("Content-Type", "application/json")
		hr.Header.Add("Accept", "application/json")
		hr.Header.Add("Authorization", fmt.Sprintf("Bearer %s", r.apiKey))

		hresp, err := r.hc.Do(hr)
		if err != nil {
			return nil, err
		}

		defer hresp.Body.Close()

		respBody, err := io.ReadAll(hresp.Body)
		if err != nil {
			return nil, err
		}

		if hresp.StatusCode < 200 || hresp.StatusCode > 299 {
			return nil, fmt.Errorf("flight provider responded with status %d: %s", hresp.StatusCode, string(respBody))
		}

		if out != nil {
			if err := json.Unmarshal(respBody, out); err != nil {
				return nil, err
			}
		}

		return nil, nil
	})

	return err
}

// SearchOffers implements FlightRepository.
func (r *flightRepository) SearchOffers(ctx context.Context, req SearchOffersRequest) ([]Offer, error) {
	var offers []Offer

	if err := r.do(ctx, http.MethodPost, "/offers/search", req, &offers); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while searching flight offers")
	}

	return offers, nil
}

// GetOfferPrice implements FlightRepository.
func (r *flightRepository) GetOfferPrice(ctx context.Context, offerID string) (Offer, error) {
	var offer Offer

	if err := r.do(ctx, http.MethodGet, fmt.Sprintf("/offers/%s/price", offerID), nil, &offer); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return Offer{}, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while pricing the flight offer")
	}

	return offer, nil
}

// CreateOrder implements FlightRepository. Provider failures are wrapped with
// the FLIGHT_BOOKING_FAILED status so the UI can branch its messaging.
func (r *flightRepository) CreateOrder(ctx context.Context, req CreateOrderRequest) (OrderConfirmation, error) {
	var confirmation OrderConfirmation

	if err := r.do(ctx, http.MethodPost, "/orders", req, &confirmation); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return OrderConfirmation{}, errors.New(http.StatusBadGateway, status.FLIGHT_BOOKING_FAILED, "the flight provider rejected the ticketing request")
	}

	return confirmation, nil
}
