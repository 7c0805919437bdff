package session

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

type contextKey string

const accountContextKey contextKey = "session.account"

// Account is the identity-provider backed customer or admin account attached
// to a verified session.
type Account struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type Store interface {
	Get(ctx context.Context, subject string) (Account, error)
	Set(ctx context.Context, subject string, account Account, expiration time.Duration) error
	Delete(ctx context.Context, subject string) error
}

type redisSessionStore struct {
	logger *logrus.Logger
	rc     *goredis.Client
}

func NewRedisSessionStore(logger *logrus.Logger, rc *goredis.Client) Store {
	return &redisSessionStore{
		logger: logger,
		rc:     rc,
	}
}

func sessionKey(subject string) string {
	return fmt.Sprintf("session:account:%s", subject)
}

func (s *redisSessionStore) Get(ctx context.Context, subject string) (Account, error) {
	buff, err := s.rc.Get(ctx, sessionKey(subject)).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return Account{}, errors.New(http.StatusUnauthorized, status.UNAUTHORIZED, "session has expired")
		}
		s.logger.WithContext(ctx).WithError(err).Error()
		return Account{}, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting session's account")
	}

	var account Account
	if err := json.Unmarshal(buff, &account); err != nil {
		s.logger.WithContext(ctx).WithError(err).Error()
		return Account{}, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting session's account")
	}

	return account, nil
}

func (s *redisSessionStore) Set(ctx context.Context, subject string, account Account, expiration time.Duration) error {
	buff, _ := json.Marshal(account)

	if err := s.rc.Set(ctx, sessionKey(subject), buff, expiration).Err(); err != nil {
		s.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while saving session's account")
	}

	return nil
}

func (s *redisSessionStore) Delete(ctx context.Context, subject string) error {
	if err := s.rc.Del(ctx, sessionKey(subject)).Err(); err != nil {
		s.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while deleting session's account")
	}

	return nil
}

// SetAccountToCtx attaches the verified account to the request context.
func SetAccountToCtx(ctx context.Context, account Account) context.Context {
	return context.WithValue(ctx, accountContextKey, account)
}

// GetAccountFromCtx returns the account attached by the session middleware.
func GetAccountFromCtx(ctx context.Context) (Account, error) {
	account, ok := ctx.Value(accountContextKey).(Account)
	if !ok {
		return Account{}, errors.New(http.StatusUnauthorized, status.UNAUTHORIZED, "account's session is not found")
	}

	return account, nil
}
