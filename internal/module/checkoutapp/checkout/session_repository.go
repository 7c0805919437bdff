package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/differentroads/dr-checkout/pkg/errors"
	"github.com/differentroads/dr-checkout/pkg/status"
)

// SessionRepository keeps checkout sessions, including booking progress, in
// redis so a resumed booking run survives a process restart.
type SessionRepository interface {
	Save(ctx context.Context, session CheckoutSession) error
	FindByID(ctx context.Context, sessionID string) (CheckoutSession, error)
	Delete(ctx context.Context, sessionID string) error
}

type sessionRepository struct {
	logger     *logrus.Logger
	rc         *goredis.Client
	expiration time.Duration
}

func NewSessionRepository(logger *logrus.Logger, rc *goredis.Client, expiration time.Duration) SessionRepository {
	return &sessionRepository{
		logger:     logger,
		rc:         rc,
		expiration: expiration,
	}
}

func checkoutSessionKey(sessionID string) string {
	return fmt.Sprintf("checkout:session:%s", sessionID)
}

// Save implements SessionRepository.
func (r *sessionRepository) Save(ctx context.Context, session CheckoutSession) error {
	buff, _ := json.Marshal(session)

	if err := r.rc.Set(ctx, checkoutSessionKey(session.ID), buff, r.expiration).Err(); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while saving the checkout session")
	}

	return nil
}

// FindByID implements SessionRepository.
func (r *sessionRepository) FindByID(ctx context.Context, sessionID string) (CheckoutSession, error) {
	buff, err := r.rc.Get(ctx, checkoutSessionKey(sessionID)).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return CheckoutSession{}, errors.New(http.StatusNotFound, status.NOT_FOUND, fmt.Sprintf("checkout session with id '%s' is not found", sessionID))
		}
		r.logger.WithContext(ctx).WithError(err).Error()
		return CheckoutSession{}, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting the checkout session")
	}

	var session CheckoutSession
	if err := json.Unmarshal(buff, &session); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return CheckoutSession{}, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting the checkout session")
	}

	return session, nil
}

// Delete implements SessionRepository.
func (r *sessionRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.rc.Del(ctx, checkoutSessionKey(sessionID)).Err(); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while deleting the checkout session")
	}

	return nil
}
