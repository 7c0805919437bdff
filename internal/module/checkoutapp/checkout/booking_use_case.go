package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/differentroads/dr-checkout/config"
	"github.com/differentroads/dr-checkout/internal/module/checkoutapp/booking"
	"github.com/differentroads/dr-checkout/internal/module/checkoutapp/flight"
	"github.com/differentroads/dr-checkout/internal/module/checkoutapp/notification"
	"github.com/differentroads/dr-checkout/pkg/errors"
	"github.com/differentroads/dr-checkout/pkg/pubsub"
	"github.com/differentroads/dr-checkout/pkg/status"
)

// BookingUseCase turns a priced checkout session into a confirmed booking.
//
// The steps run strictly in order and each completed step is recorded on the
// session's BookingProgress before the next one starts, so a failed run can
// be re-invoked and resumes at the first incomplete step without repeating
// side effects. The method does not defend against two concurrent calls for
// the same session; callers keep at most one booking call in flight.
type BookingUseCase interface {
	ProcessBooking(ctx context.Context, sessionID string) (BookResponse, error)
	GetManyPayment(ctx context.Context, sessionID string) (GetManyPaymentResponse, error)
	UploadVoucher(ctx context.Context, sessionID string, req UploadVoucherRequest) error
}

type bookingUseCase struct {
	logger                 *logrus.Logger
	timeout                time.Duration
	defaultPassenger       config.DefaultPassenger
	bookingRepository      booking.BookingRepository
	flightRepository       flight.FlightRepository
	sessionRepository      SessionRepository
	snapshotRepository     OrderSnapshotRepository
	notificationRepository notification.NotificationRepository
	publisher              pubsub.Publisher
}

type BookingUseCaseProperty struct {
	Logger                 *logrus.Logger
	Timeout                time.Duration
	DefaultPassenger       config.DefaultPassenger
	BookingRepository      booking.BookingRepository
	FlightRepository       flight.FlightRepository
	SessionRepository      SessionRepository
	SnapshotRepository     OrderSnapshotRepository
	NotificationRepository notification.NotificationRepository
	Publisher              pubsub.Publisher
}

func NewBookingUseCase(props BookingUseCaseProperty) BookingUseCase {
	return &bookingUseCase{
		logger:                 props.Logger,
		timeout:                props.Timeout,
		defaultPassenger:       props.DefaultPassenger,
		bookingRepository:      props.BookingRepository,
		flightRepository:       props.FlightRepository,
		sessionRepository:      props.SessionRepository,
		snapshotRepository:     props.SnapshotRepository,
		notificationRepository: props.NotificationRepository,
		publisher:              props.Publisher,
	}
}

// ProcessBooking implements BookingUseCase.
func (u *bookingUseCase) ProcessBooking(ctx context.Context, sessionID string) (BookResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	s, err := u.sessionRepository.FindByID(ctx, sessionID)
	if err != nil {
		return BookResponse{}, err
	}

	// Completed runs short-circuit on the cached identifiers without any
	// network call. Progress resets with the next checkout session.
	if s.Progress.OrderBooked {
		return BookResponse{BookingID: s.Progress.BookingID, Code: s.Progress.BookingCode}, nil
	}

	if s.Status == OrderStatusExpired {
		return BookResponse{}, errors.New(http.StatusConflict, status.CONFLICT, "the checkout session's budget has expired")
	}

	if err := u.createOrUpdateBooking(ctx, &s); err != nil {
		return BookResponse{}, err
	}

	if err := u.handleFlight(ctx, &s); err != nil {
		return BookResponse{}, err
	}

	if err := u.saveTravelers(ctx, &s); err != nil {
		return BookResponse{}, err
	}

	if err := u.confirmBooking(ctx, &s); err != nil {
		return BookResponse{}, err
	}

	return BookResponse{BookingID: s.Progress.BookingID, Code: s.Progress.BookingCode}, nil
}

// createOrUpdateBooking creates the remote booking on the first run and
// refreshes it with the current selections on resumed runs.
func (u *bookingUseCase) createOrUpdateBooking(ctx context.Context, s *CheckoutSession) error {
	summaryBuff, _ := json.Marshal(s.Summary.LineItems)

	if s.Progress.BookingID == "" {
		resp, err := u.bookingRepository.Create(ctx, booking.CreateBookingRequest{
			OrderID:       s.OrderID,
			TourID:        s.TourID,
			TourName:      s.TourName,
			PeriodID:      s.PeriodID,
			DepartureDate: s.DepartureDate,
			ReturnDate:    s.ReturnDate,
			PaymentOption: s.PaymentOption,
			Subtotal:      s.Summary.Subtotal,
			Total:         s.Summary.Total,
			Summary:       summaryBuff,
		})
		if err != nil {
			return err
		}

		s.Progress.BookingID = resp.BookingID
		s.Progress.BookingCode = resp.Code
		s.Progress.BookingCreated = true

		return u.persistProgress(ctx, s)
	}

	_, err := u.bookingRepository.Update(ctx, s.Progress.BookingID, booking.UpdateBookingRequest{
		PeriodID:      s.PeriodID,
		DepartureDate: s.DepartureDate,
		ReturnDate:    s.ReturnDate,
		ActivityIDs:   s.ActivityIDs(),
		FlightID:      s.FlightID(),
		Summary:       summaryBuff,
		Total:         s.Summary.Total,
	})

	return err
}

// handleFlight tickets provider-integrated flights. Traveler identity fields
// are validated before any network call; a provider rejection leaves the
// step retryable.
func (u *bookingUseCase) handleFlight(ctx context.Context, s *CheckoutSession) error {
	if s.Flight == nil || !s.Flight.Provider || s.Flight.IsNoFlight() || s.Progress.FlightHandled {
		return nil
	}

	for i, t := range s.Travelers {
		if t.TravelerData.DocumentID == "" || t.TravelerData.GivenName == "" || t.TravelerData.Surname == "" {
			return errors.New(http.StatusBadRequest, status.BAD_REQUEST,
				fmt.Sprintf("traveler %d is missing the document id, given name or surname required for flight ticketing", i+1))
		}
	}

	passengers := make([]flight.Passenger, len(s.Travelers))
	for i, t := range s.Travelers {
		passengers[i] = u.passengerFromTraveler(t)
	}

	if _, err := u.flightRepository.CreateOrder(ctx, flight.CreateOrderRequest{
		OfferID:    s.Flight.OfferID,
		Passengers: passengers,
	}); err != nil {
		return err
	}

	s.Progress.FlightHandled = true

	return u.persistProgress(ctx, s)
}

// passengerFromTraveler fills the optional passenger fields from the
// configured default template when the checkout did not collect them.
func (u *bookingUseCase) passengerFromTraveler(t Traveler) flight.Passenger {
	p := flight.Passenger{
		GivenName:      t.TravelerData.GivenName,
		Surname:        t.TravelerData.Surname,
		DocumentNumber: t.TravelerData.DocumentID,
		DocumentType:   u.defaultPassenger.DocumentType,
		Nationality:    u.defaultPassenger.Nationality,
		BirthDate:      t.TravelerData.BirthDate,
		PhoneNumber:    t.TravelerData.Phone,
		Email:          t.TravelerData.Email,
	}

	if p.BirthDate == "" {
		p.BirthDate = u.defaultPassenger.BirthDate
	}
	if p.PhoneNumber == "" {
		p.PhoneNumber = u.defaultPassenger.PhoneNumber
	}
	if p.Email == "" {
		p.Email = u.defaultPassenger.Email
	}

	return p
}

func (u *bookingUseCase) saveTravelers(ctx context.Context, s *CheckoutSession) error {
	if s.Progress.TravelersSaved {
		return nil
	}

	travelersBuff, _ := json.Marshal(s.Travelers)

	if err := u.bookingRepository.SaveTravelers(ctx, s.Progress.BookingID, booking.SaveTravelersRequest{
		BookingSID: s.Progress.BookingCode,
		BookingID:  s.Progress.BookingID,
		Travelers:  travelersBuff,
	}); err != nil {
		return err
	}

	s.Progress.TravelersSaved = true

	return u.persistProgress(ctx, s)
}

func (u *bookingUseCase) confirmBooking(ctx context.Context, s *CheckoutSession) error {
	if s.Progress.OrderBooked {
		return nil
	}

	orderBuff, _ := json.Marshal(s)

	if err := u.bookingRepository.Confirm(ctx, s.Progress.BookingID, booking.ConfirmBookingRequest{
		Order: orderBuff,
		Code:  s.Progress.BookingCode,
	}); err != nil {
		return err
	}

	s.Progress.OrderBooked = true
	s.Status = OrderStatusBooked

	if err := u.persistProgress(ctx, s); err != nil {
		return err
	}

	snapshot, err := u.snapshotRepository.FindByID(ctx, s.OrderID, nil)
	if err == nil {
		snapshot.Status = OrderStatusBooked
		snapshot.BookingID = s.Progress.BookingID
		snapshot.BookingCode = s.Progress.BookingCode
		if err := u.snapshotRepository.Update(ctx, snapshot.ID, snapshot, nil); err != nil {
			u.logger.WithContext(ctx).WithError(err).Error()
		}
	}

	eventBuff, _ := json.Marshal(BookingConfirmedEvent{
		BookingID: s.Progress.BookingID,
		Code:      s.Progress.BookingCode,
		OrderID:   s.OrderID,
		AccountID: s.AccountID,
		TourID:    s.TourID,
		Total:     s.Summary.Total,
	})
	u.publisher.Publish(ctx, "booking-confirmed", s.Progress.BookingID, nil, eventBuff)

	// The confirmation email is best effort; the booking is already final.
	if err := u.notificationRepository.TriggerEmail(ctx, notification.TriggerEmailRequest{
		Kind:      notification.EmailNewBooking,
		BookingID: s.Progress.BookingID,
	}); err != nil {
		u.logger.WithContext(ctx).WithError(err).Error()
	}

	return nil
}

// GetManyPayment implements BookingUseCase. Payments exist only once the
// session's booking has been created on the backend.
func (u *bookingUseCase) GetManyPayment(ctx context.Context, sessionID string) (GetManyPaymentResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	bookingID, err := u.sessionBookingID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

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

// UploadVoucher implements BookingUseCase.
func (u *bookingUseCase) UploadVoucher(ctx context.Context, sessionID string, req UploadVoucherRequest) error {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	bookingID, err := u.sessionBookingID(ctx, sessionID)
	if err != nil {
		return err
	}

	return u.bookingRepository.UploadVoucher(ctx, bookingID, booking.UploadVoucherRequest{
		Method:     req.Method,
		Amount:     req.Amount,
		VoucherURL: req.VoucherURL,
	})
}

func (u *bookingUseCase) sessionBookingID(ctx context.Context, sessionID string) (string, error) {
	s, err := u.sessionRepository.FindByID(ctx, sessionID)
	if err != nil {
		return "", err
	}

	if s.Progress.BookingID == "" {
		return "", errors.New(http.StatusNotFound, status.NOT_FOUND, "the checkout session has no booking yet")
	}

	return s.Progress.BookingID, nil
}

func (u *bookingUseCase) persistProgress(ctx context.Context, s *CheckoutSession) error {
	s.UpdatedAt = time.Now()

	return u.sessionRepository.Save(ctx, *s)
}
