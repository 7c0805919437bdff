package booking

import (
	"bytes"
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

type BookingRepository interface {
	Create(ctx context.Context, req CreateBookingRequest) (CreateBookingResponse, error)
	Update(ctx context.Context, bookingID string, req UpdateBookingRequest) (UpdateBookingResponse, error)
	SaveTravelers(ctx context.Context, bookingID string, req SaveTravelersRequest) error
	Confirm(ctx context.Context, bookingID string, req ConfirmBookingRequest) error
	FindByID(ctx context.Context, bookingID string) (Booking, error)
	FindMany(ctx context.Context, page, size int64) ([]Booking, error)
	FindManyPayments(ctx context.Context, bookingID string) ([]Payment, error)
	UploadVoucher(ctx context.Context, bookingID string, req UploadVoucherRequest) error
	ReviewVoucher(ctx context.Context, bookingID, paymentID string, req ReviewVoucherRequest) error
}

type bookingRepository struct {
	baseURL string
	apiKey  string
	logger  *logrus.Logger
	hc      *http.Client
}

func NewBookingRepository(baseURL, apiKey string, logger *logrus.Logger, hc *http.Client) BookingRepository {
	return &bookingRepository{
		baseURL: baseURL,
		apiKey:  apiKey,
		logger:  logger,
		hc:      hc,
	}
}

func (r *bookingRepository) do(ctx context.Context, method, path string, payload interface{}, out interface{}, failureMessage string) error {
	var body io.Reader
	if payload != nil {
		buff, _ := json.Marshal(payload)
		body = bytes.NewBuffer(buff)
	}

	hr, err := http.NewRequestWithContext(ctx, method, fmt.Sprintf("%s%s", r.baseURL, path), body)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, failureMessage)
	}

	hr.Header.Add("Content-Type", "application/json")
	hr.Header.Add("Accept", "application/json")
	hr.Header.Add("Authorization", fmt.Sprintf("Bearer %s", r.apiKey))

	hresp, err := r.hc.Do(hr)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, failureMessage)
	}

	defer hresp.Body.Close()

	respBody, err := io.ReadAll(hresp.Body)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, failureMessage)
	}

	if hresp.StatusCode == http.StatusNotFound {
		return errors.New(http.StatusNotFound, status.NOT_FOUND, failureMessage)
	}

	if hresp.StatusCode < 200 || hresp.StatusCode > 299 {
		err := fmt.Errorf("booking api responded with status %d: %s", hresp.StatusCode, string(respBody))
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, failureMessage)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			r.logger.WithContext(ctx).WithError(err).Error()
			return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, failureMessage)
		}
	}

	return nil
}

// Create implements BookingRepository.
func (r *bookingRepository) Create(ctx context.Context, req CreateBookingRequest) (CreateBookingResponse, error) {
	var resp CreateBookingResponse

	if err := r.do(ctx, http.MethodPost, "/bookings", req, &resp, "an error occurred while creating the booking"); err != nil {
		return CreateBookingResponse{}, err
	}

	return resp, nil
}

// Update implements BookingRepository.
func (r *bookingRepository) Update(ctx context.Context, bookingID string, req UpdateBookingRequest) (UpdateBookingResponse, error) {
	var resp UpdateBookingResponse

	path := fmt.Sprintf("/bookings/%s", url.PathEscape(bookingID))
	if err := r.do(ctx, http.MethodPut, path, req, &resp, "an error occurred while updating the booking"); err != nil {
		return UpdateBookingResponse{}, err
	}

	return resp, nil
}

// SaveTravelers implements BookingRepository.
func (r *bookingRepository) SaveTravelers(ctx context.Context, bookingID string, req SaveTravelersRequest) error {
	path := fmt.Sprintf("/bookings/%s/travelers", url.PathEscape(bookingID))

	return r.do(ctx, http.MethodPut, path, req, nil, "an error occurred while saving the booking's travelers")
}

// Confirm implements BookingRepository.
func (r *bookingRepository) Confirm(ctx context.Context, bookingID string, req ConfirmBookingRequest) error {
	path := fmt.Sprintf("/bookings/%s/confirm", url.PathEscape(bookingID))

	return r.do(ctx, http.MethodPost, path, req, nil, "an error occurred while confirming the booking")
}

// FindByID implements BookingRepository.
func (r *bookingRepository) FindByID(ctx context.Context, bookingID string) (Booking, error) {
	var resp Booking

	path := fmt.Sprintf("/bookings/%s", url.PathEscape(bookingID))
	if err := r.do(ctx, http.MethodGet, path, nil, &resp, fmt.Sprintf("booking with id '%s' is not found", bookingID)); err != nil {
		return Booking{}, err
	}

	return resp, nil
}

// FindMany implements BookingRepository.
func (r *bookingRepository) FindMany(ctx context.Context, page, size int64) ([]Booking, error) {
	var resp []Booking

	path := fmt.Sprintf("/bookings?page=%d&size=%d", page, size)
	if err := r.do(ctx, http.MethodGet, path, nil, &resp, "an error occurred while getting bunch of bookings"); err != nil {
		return nil, err
	}

	return resp, nil
}

// FindManyPayments implements BookingRepository.
func (r *bookingRepository) FindManyPayments(ctx context.Context, bookingID string) ([]Payment, error) {
	var resp []Payment

	path := fmt.Sprintf("/bookings/%s/payments", url.PathEscape(bookingID))
	if err := r.do(ctx, http.MethodGet, path, nil, &resp, "an error occurred while getting the booking's payments"); err != nil {
		return nil, err
	}

	return resp, nil
}

// UploadVoucher implements BookingRepository.
func (r *bookingRepository) UploadVoucher(ctx context.Context, bookingID string, req UploadVoucherRequest) error {
	path := fmt.Sprintf("/bookings/%s/payments", url.PathEscape(bookingID))

	return r.do(ctx, http.MethodPost, path, req, nil, "an error occurred while uploading the payment's voucher")
}

// ReviewVoucher implements BookingRepository.
func (r *bookingRepository) ReviewVoucher(ctx context.Context, bookingID, paymentID string, req ReviewVoucherRequest) error {
	path := fmt.Sprintf("/bookings/%s/payments/%s/review", url.PathEscape(bookingID), url.PathEscape(paymentID))

	return r.do(ctx, http.MethodPost, path, req, nil, "an error occurred while reviewing the payment's voucher")
}
