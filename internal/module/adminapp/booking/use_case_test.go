package booking

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customerbooking "github.com/differentroads/dr-checkout/internal/module/checkoutapp/booking"
	"github.com/differentroads/dr-checkout/internal/module/checkoutapp/notification"
)

type fakeBookingRepository struct {
	customerbooking.BookingRepository

	booking customerbooking.Booking
}

func (f *fakeBookingRepository) FindByID(ctx context.Context, bookingID string) (customerbooking.Booking, error) {
	return f.booking, nil
}

type fakeNotificationRepository struct {
	documentURL string
	emailCalls  int
	lastEmail   notification.TriggerEmailRequest
}

func (f *fakeNotificationRepository) TriggerEmail(ctx context.Context, req notification.TriggerEmailRequest) error {
	f.emailCalls++
	f.lastEmail = req

	return nil
}

func (f *fakeNotificationRepository) GetDocumentURL(ctx context.Context, bookingID string) (string, error) {
	return f.documentURL, nil
}

func newUseCase(bookingRepo *fakeBookingRepository, notificationRepo *fakeNotificationRepository) BookingUseCase {
	return NewBookingUseCase(BookingUseCaseProperty{
		Logger:                 logrus.New(),
		Timeout:                5 * time.Second,
		BookingRepository:      bookingRepo,
		NotificationRepository: notificationRepo,
	})
}

func TestGetDocument(t *testing.T) {
	notificationRepo := &fakeNotificationRepository{documentURL: "https://files.example.com/booking.pdf"}
	useCase := newUseCase(&fakeBookingRepository{}, notificationRepo)

	resp, err := useCase.GetDocument(context.Background(), "BK-1")

	require.NoError(t, err)
	assert.Equal(t, "https://files.example.com/booking.pdf", resp.URL)
}

func TestTriggerCancelNotification(t *testing.T) {
	bookingRepo := &fakeBookingRepository{
		booking: customerbooking.Booking{ID: "BK-1", CustomerEmail: "ana@example.com"},
	}
	notificationRepo := &fakeNotificationRepository{}
	useCase := newUseCase(bookingRepo, notificationRepo)

	err := useCase.TriggerCancelNotification(context.Background(), "BK-1")

	require.NoError(t, err)
	assert.Equal(t, 1, notificationRepo.emailCalls)
	assert.Equal(t, notification.EmailCancelBooking, notificationRepo.lastEmail.Kind)
	assert.Equal(t, "ana@example.com", notificationRepo.lastEmail.Recipient)
}
