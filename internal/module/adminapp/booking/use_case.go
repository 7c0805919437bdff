package booking

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	customerbooking "github.com/differentroads/dr-checkout/internal/module/checkoutapp/booking"
	"github.com/differentroads/dr-checkout/internal/module/checkoutapp/notification"
)

// BookingUseCase is the back-office surface over the booking backend:
// listings, payment review and cancellation notices.
type BookingUseCase interface {
	GetManyBooking(ctx context.Context, req GetManyBookingRequest) (GetManyBookingResponse, error)
	GetBooking(ctx context.Context, bookingID string) (BookingResponse, error)
	GetManyPayment(ctx context.Context, bookingID string) (GetManyPaymentResponse, error)
	GetDocument(ctx context.Context, bookingID string) (DocumentResponse, error)
	ReviewVoucher(ctx context.Context, bookingID, paymentID string, req ReviewVoucherRequest) error
	TriggerCancelNotification(ctx context.Context, bookingID string) error
}

type bookingUseCase struct {
	logger                 *logrus.Logger
	timeout                time.Duration
	bookingRepository      customerbooking.BookingRepository
	notificationRepository notification.NotificationRepository
}

type BookingUseCaseProperty struct {
	Logger                 *logrus.Logger
	Timeout                time.Duration
	BookingRepository      customerbooking.BookingRepository
	NotificationRepository notification.NotificationRepository
}

func NewBookingUseCase(props BookingUseCaseProperty) BookingUseCase {
	return &bookingUseCase{
		logger:                 props.Logger,
		timeout:                props.Timeout,
		bookingRepository:      props.BookingRepository,
		notificationRepository: props.NotificationRepository,
	}
}

// GetManyBooking implements BookingUseCase.
func (u *bookingUseCase) GetManyBooking(ctx context.Context, req GetManyBookingRequest) (GetManyBookingResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	bookings, err := u.bookingRepository.FindMany(ctx, req.Page, req.Size)
	if err != nil {
		return nil, err
	}

	resp := make(GetManyBookingResponse, len(bookings))
	for k, b := range bookings {
		resp[k].PopulateFromEntity(b)
	}

	return resp, nil
}

// GetBooking implements BookingUseCase.
func (u *bookingUseCase) GetBooking(ctx context.Context, bookingID string) (BookingResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	b, err := u.bookingRepository.FindByID(ctx, bookingID)
	if err != nil {
		return BookingResponse{}, err
	}

	resp := BookingResponse{}
	resp.PopulateFromEntity(b)

	return resp, nil
}

// GetManyPayment implements BookingUseCase.
func (u *bookingUseCase) GetManyPayment(ctx context.Context, bookingID string) (GetManyPaymentResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	payments, err := u.bookingRepository.FindManyPayments(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	resp := make(GetManyPaymentResponse, len(payments))
	for k, p := range payments {
		resp[k] = PaymentResponse(p)
	}

	return resp, nil
}

// GetDocument implements BookingUseCase.
func (u *bookingUseCase) GetDocument(ctx context.Context, bookingID string) (DocumentResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	url, err := u.notificationRepository.GetDocumentURL(ctx, bookingID)
	if err != nil {
		return DocumentResponse{}, err
	}

	return DocumentResponse{URL: url}, nil
}

// ReviewVoucher implements BookingUseCase.
func (u *bookingUseCase) ReviewVoucher(ctx context.Context, bookingID, paymentID string, req ReviewVoucherRequest) error {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	return u.bookingRepository.ReviewVoucher(ctx, bookingID, paymentID, customerbooking.ReviewVoucherRequest{
		Approved: req.Approved,
		Comment:  req.Comment,
	})
}

// TriggerCancelNotification implements BookingUseCase.
func (u *bookingUseCase) TriggerCancelNotification(ctx context.Context, bookingID string) error {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	b, err := u.bookingRepository.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}

	return u.notificationRepository.TriggerEmail(ctx, notification.TriggerEmailRequest{
		Kind:      notification.EmailCancelBooking,
		BookingID: b.ID,
		Recipient: b.CustomerEmail,
	})
}
