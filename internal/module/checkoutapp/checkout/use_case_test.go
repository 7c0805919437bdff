package checkout

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/differentroads/dr-checkout/internal/module/checkoutapp/notification"
	"github.com/differentroads/dr-checkout/internal/pkg/session"
	"github.com/differentroads/dr-checkout/pkg/errors"
)

func accountCtx(accountID, email string) context.Context {
	return session.SetAccountToCtx(context.Background(), session.Account{
		ID:    accountID,
		Email: email,
	})
}

func TestSendBudgetEmail(t *testing.T) {
	s := bookableSession()
	s.AccountID = "acc-1"
	sessionRepo := newFakeSessionRepository(s)
	notificationRepo := &fakeNotificationRepository{}

	useCase := NewCheckoutUseCase(CheckoutUseCaseProperty{
		Logger:                 logrus.New(),
		Timeout:                5 * time.Second,
		SessionRepository:      sessionRepo,
		NotificationRepository: notificationRepo,
	})

	err := useCase.SendBudgetEmail(accountCtx("acc-1", "ana@example.com"), s.ID)

	require.NoError(t, err)
	assert.Equal(t, 1, notificationRepo.emailCalls)
	assert.Equal(t, notification.EmailBudget, notificationRepo.lastEmail.Kind)
	assert.Equal(t, s.OrderID, notificationRepo.lastEmail.BookingID)
	assert.Equal(t, "ana@example.com", notificationRepo.lastEmail.Recipient)
}

func TestSendBudgetEmailRejectsExpiredBudget(t *testing.T) {
	s := bookableSession()
	s.AccountID = "acc-1"
	s.Status = OrderStatusExpired
	sessionRepo := newFakeSessionRepository(s)
	notificationRepo := &fakeNotificationRepository{}

	useCase := NewCheckoutUseCase(CheckoutUseCaseProperty{
		Logger:                 logrus.New(),
		Timeout:                5 * time.Second,
		SessionRepository:      sessionRepo,
		NotificationRepository: notificationRepo,
	})

	err := useCase.SendBudgetEmail(accountCtx("acc-1", "ana@example.com"), s.ID)

	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, errors.Destruct(err).HTTPStatusCode)
	assert.Equal(t, 0, notificationRepo.emailCalls)
}

func TestSendBudgetEmailRejectsForeignSession(t *testing.T) {
	s := bookableSession()
	s.AccountID = "acc-1"
	sessionRepo := newFakeSessionRepository(s)
	notificationRepo := &fakeNotificationRepository{}

	useCase := NewCheckoutUseCase(CheckoutUseCaseProperty{
		Logger:                 logrus.New(),
		Timeout:                5 * time.Second,
		SessionRepository:      sessionRepo,
		NotificationRepository: notificationRepo,
	})

	err := useCase.SendBudgetEmail(accountCtx("acc-2", "luis@example.com"), s.ID)

	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, errors.Destruct(err).HTTPStatusCode)
	assert.Equal(t, 0, notificationRepo.emailCalls)
}
