package notification

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

type NotificationRepository interface {
	TriggerEmail(ctx context.Context, req TriggerEmailRequest) error
	GetDocumentURL(ctx context.Context, bookingID string) (string, error)
}

type notificationRepository struct {
	baseURL string
	apiKey  string
	logger  *logrus.Logger
	hc      *http.Client
}

func NewNotificationRepository(baseURL, apiKey string, logger *logrus.Logger, hc *http.Client) NotificationRepository {
	return &notificationRepository{
		baseURL: baseURL,
		apiKey:  apiKey,
		logger:  logger,
		hc:      hc,
	}
}

// TriggerEmail implements NotificationRepository.
func (r *notificationRepository) TriggerEmail(ctx context.Context, req TriggerEmailRequest) error {
	reqBuff, _ := json.Marshal(req)
	body := bytes.NewBuffer(reqBuff)

	hr, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/emails", r.baseURL), body)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while triggering the notification email")
	}

	hr.Header.Add("Content-Type", "application/json")
	hr.Header.Add("Authorization", fmt.Sprintf("Bearer %s", r.apiKey))

	hresp, err := r.hc.Do(hr)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while triggering the notification email")
	}

	defer hresp.Body.Close()
	io.Copy(io.Discard, hresp.Body)

	if hresp.StatusCode < 200 || hresp.StatusCode > 299 {
		err := fmt.Errorf("notification api responded with status %d", hresp.StatusCode)
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while triggering the notification email")
	}

	return nil
}

// GetDocumentURL implements NotificationRepository.
func (r *notificationRepository) GetDocumentURL(ctx context.Context, bookingID string) (string, error) {
	u := fmt.Sprintf("%s/documents/%s", r.baseURL, url.PathEscape(bookingID))

	hr, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return "", errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting the booking's document")
	}

	hr.Header.Add("Accept", "application/json")
	hr.Header.Add("Authorization", fmt.Sprintf("Bearer %s", r.apiKey))

	hresp, err := r.hc.Do(hr)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return "", errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting the booking's document")
	}

	defer hresp.Body.Close()

	respBody, err := io.ReadAll(hresp.Body)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return "", errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting the booking's document")
	}

	if hresp.StatusCode == http.StatusNotFound {
		return "", errors.New(http.StatusNotFound, status.NOT_FOUND, fmt.Sprintf("document for booking '%s' is not found", bookingID))
	}

	if hresp.StatusCode < 200 || hresp.StatusCode > 299 {
		err := fmt.Errorf("notification api responded with status %d: %s", hresp.StatusCode, string(respBody))
		r.logger.WithContext(ctx).WithError(err).Error()
		return "", errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting the booking's document")
	}

	var doc DocumentResponse
	if err := json.Unmarshal(respBody, &doc); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return "", errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting the booking's document")
	}

	return doc.URL, nil
}
