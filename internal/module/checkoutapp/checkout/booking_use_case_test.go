package checkout

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/differentroads/dr-checkout/config"
	"github.com/differentroads/dr-checkout/internal/module/checkoutapp/booking"
	"github.com/differentroads/dr-checkout/internal/module/checkoutapp/flight"
	"github.com/differentroads/dr-checkout/internal/module/checkoutapp/notification"
	"github.com/differentroads/dr-checkout/internal/module/checkoutapp/pricing"
	"github.com/differentroads/dr-checkout/pkg/errors"
	"github.com/differentroads/dr-checkout/pkg/status"
)

type fakeBookingRepository struct {
	createCalls        int
	updateCalls        int
	saveTravelersCalls int
	confirmCalls       int
	uploadVoucherCalls int
	findPaymentsCalls  int

	createErr        error
	updateErr        error
	saveTravelersErr error
	confirmErr       error

	lastUpdateID  string
	lastVoucherID string
	lastVoucher   booking.UploadVoucherRequest
	payments      []booking.Payment
}

func (f *fakeBookingRepository) Create(ctx context.Context, req booking.CreateBookingRequest) (booking.CreateBookingResponse, error) {
	f.createCalls++
	if f.createErr != nil {
		return booking.CreateBookingResponse{}, f.createErr
	}

	return booking.CreateBookingResponse{BookingID: "BK-1", Code: "DRC-0001"}, nil
}

func (f *fakeBookingRepository) Update(ctx context.Context, bookingID string, req booking.UpdateBookingRequest) (booking.UpdateBookingResponse, error) {
	f.updateCalls++
	f.lastUpdateID = bookingID
	if f.updateErr != nil {
		return booking.UpdateBookingResponse{}, f.updateErr
	}

	return booking.UpdateBookingResponse{Code: "DRC-0001"}, nil
}

func (f *fakeBookingRepository) SaveTravelers(ctx context.Context, bookingID string, req booking.SaveTravelersRequest) error {
	f.saveTravelersCalls++

	return f.saveTravelersErr
}

func (f *fakeBookingRepository) Confirm(ctx context.Context, bookingID string, req booking.ConfirmBookingRequest) error {
	f.confirmCalls++

	return f.confirmErr
}

func (f *fakeBookingRepository) FindByID(ctx context.Context, bookingID string) (booking.Booking, error) {
	return booking.Booking{}, nil
}

func (f *fakeBookingRepository) FindMany(ctx context.Context, page, size int64) ([]booking.Booking, error) {
	return nil, nil
}

func (f *fakeBookingRepository) FindManyPayments(ctx context.Context, bookingID string) ([]booking.Payment, error) {
	f.findPaymentsCalls++

	return f.payments, nil
}

func (f *fakeBookingRepository) UploadVoucher(ctx context.Context, bookingID string, req booking.UploadVoucherRequest) error {
	f.uploadVoucherCalls++
	f.lastVoucherID = bookingID
	f.lastVoucher = req

	return nil
}

func (f *fakeBookingRepository) ReviewVoucher(ctx context.Context, bookingID, paymentID string, req booking.ReviewVoucherRequest) error {
	return nil
}

type fakeFlightRepository struct {
	createOrderCalls int
	createOrderErr   error
	lastOrder        flight.CreateOrderRequest
}

func (f *fakeFlightRepository) SearchOffers(ctx context.Context, req flight.SearchOffersRequest) ([]flight.Offer, error) {
	return nil, nil
}

func (f *fakeFlightRepository) GetOfferPrice(ctx context.Context, offerID string) (flight.Offer, error) {
	return flight.Offer{}, nil
}

func (f *fakeFlightRepository) CreateOrder(ctx context.Context, req flight.CreateOrderRequest) (flight.OrderConfirmation, error) {
	f.createOrderCalls++
	f.lastOrder = req
	if f.createOrderErr != nil {
		return flight.OrderConfirmation{}, f.createOrderErr
	}

	return flight.OrderConfirmation{OrderID: "FO-1", BookingReference: "PNR1"}, nil
}

type fakeSessionRepository struct {
	sessions  map[string]CheckoutSession
	saveCalls int
	findCalls int
}

func newFakeSessionRepository(sessions ...CheckoutSession) *fakeSessionRepository {
	f := &fakeSessionRepository{sessions: map[string]CheckoutSession{}}
	for _, s := range sessions {
		f.sessions[s.ID] = s
	}

	return f
}

func (f *fakeSessionRepository) Save(ctx context.Context, session CheckoutSession) error {
	f.saveCalls++
	f.sessions[session.ID] = session

	return nil
}

func (f *fakeSessionRepository) FindByID(ctx context.Context, sessionID string) (CheckoutSession, error) {
	f.findCalls++

	s, ok := f.sessions[sessionID]
	if !ok {
		return CheckoutSession{}, errors.New(http.StatusNotFound, status.NOT_FOUND, "checkout session is not found")
	}

	return s, nil
}

func (f *fakeSessionRepository) Delete(ctx context.Context, sessionID string) error {
	delete(f.sessions, sessionID)

	return nil
}

type fakeSnapshotRepository struct {
	snapshot    OrderSnapshot
	findErr     error
	updateCalls int
	lastUpdate  OrderSnapshot
}

func (f *fakeSnapshotRepository) Save(ctx context.Context, snapshot OrderSnapshot, tx *sql.Tx) error {
	return nil
}

func (f *fakeSnapshotRepository) Update(ctx context.Context, ID string, snapshot OrderSnapshot, tx *sql.Tx) error {
	f.updateCalls++
	f.lastUpdate = snapshot

	return nil
}

func (f *fakeSnapshotRepository) FindByID(ctx context.Context, ID string, tx *sql.Tx) (OrderSnapshot, error) {
	if f.findErr != nil {
		return OrderSnapshot{}, f.findErr
	}

	return f.snapshot, nil
}

type fakeNotificationRepository struct {
	emailCalls int
	lastEmail  notification.TriggerEmailRequest
}

func (f *fakeNotificationRepository) TriggerEmail(ctx context.Context, req notification.TriggerEmailRequest) error {
	f.emailCalls++
	f.lastEmail = req

	return nil
}

func (f *fakeNotificationRepository) GetDocumentURL(ctx context.Context, bookingID string) (string, error) {
	return "", nil
}

type fakePublisher struct {
	publishCalls int
	lastTopic    string
	lastKey      string
}

func (f *fakePublisher) Publish(ctx context.Context, topic string, key string, headers map[string]string, value []byte) error {
	f.publishCalls++
	f.lastTopic = topic
	f.lastKey = key

	return nil
}

func (f *fakePublisher) Close() {}

type bookingFixture struct {
	bookingRepo      *fakeBookingRepository
	flightRepo       *fakeFlightRepository
	sessionRepo      *fakeSessionRepository
	snapshotRepo     *fakeSnapshotRepository
	notificationRepo *fakeNotificationRepository
	publisher        *fakePublisher
	useCase          BookingUseCase
}

func newBookingFixture(sessions ...CheckoutSession) *bookingFixture {
	f := &bookingFixture{
		bookingRepo:      &fakeBookingRepository{},
		flightRepo:       &fakeFlightRepository{},
		sessionRepo:      newFakeSessionRepository(sessions...),
		snapshotRepo:     &fakeSnapshotRepository{},
		notificationRepo: &fakeNotificationRepository{},
		publisher:        &fakePublisher{},
	}

	f.useCase = NewBookingUseCase(BookingUseCaseProperty{
		Logger:  logrus.New(),
		Timeout: 5 * time.Second,
		DefaultPassenger: config.DefaultPassenger{
			DocumentType: "passport",
			Nationality:  "ES",
			BirthDate:    "1990-01-01",
			PhoneNumber:  "+34000000000",
			Email:        "reservas@differentroads.es",
		},
		BookingRepository:      f.bookingRepo,
		FlightRepository:       f.flightRepo,
		SessionRepository:      f.sessionRepo,
		SnapshotRepository:     f.snapshotRepo,
		NotificationRepository: f.notificationRepo,
		Publisher:              f.publisher,
	})

	return f
}

func bookableSession() CheckoutSession {
	return CheckoutSession{
		ID:       "sess-1",
		OrderID:  "DR100",
		TourID:   "TOUR1",
		TourName: "Ruta Andalucía",
		PeriodID: "PER1",
		Counts:   TravelerCounts{Adults: 1},
		Travelers: []Traveler{
			{
				Lead: true,
				TravelerData: TravelerData{
					AgeGroup:   pricing.AgeGroupAdult,
					GivenName:  "Ana",
					Surname:    "García",
					DocumentID: "12345678Z",
				},
			},
		},
		Summary: Summary{
			LineItems: []LineItem{{Description: "Ruta Andalucía (Adultos)", Quantity: 1, Value: 1200}},
			Subtotal:  1200,
			Total:     1200,
		},
		Status: OrderStatusBudget,
	}
}

func TestProcessBookingFullRun(t *testing.T) {
	s := bookableSession()
	f := newBookingFixture(s)

	resp, err := f.useCase.ProcessBooking(context.Background(), s.ID)

	require.NoError(t, err)
	assert.Equal(t, "BK-1", resp.BookingID)
	assert.Equal(t, "DRC-0001", resp.Code)

	assert.Equal(t, 1, f.bookingRepo.createCalls)
	assert.Equal(t, 0, f.bookingRepo.updateCalls)
	assert.Equal(t, 1, f.bookingRepo.saveTravelersCalls)
	assert.Equal(t, 1, f.bookingRepo.confirmCalls)
	// no provider flight selected, the ticketing step is skipped
	assert.Equal(t, 0, f.flightRepo.createOrderCalls)

	saved := f.sessionRepo.sessions[s.ID]
	assert.True(t, saved.Progress.BookingCreated)
	assert.True(t, saved.Progress.TravelersSaved)
	assert.True(t, saved.Progress.OrderBooked)
	assert.Equal(t, OrderStatusBooked, saved.Status)

	assert.Equal(t, 1, f.publisher.publishCalls)
	assert.Equal(t, "booking-confirmed", f.publisher.lastTopic)
	assert.Equal(t, "BK-1", f.publisher.lastKey)

	assert.Equal(t, 1, f.notificationRepo.emailCalls)
	assert.Equal(t, notification.EmailNewBooking, f.notificationRepo.lastEmail.Kind)
}

func TestProcessBookingShortCircuitsWhenBooked(t *testing.T) {
	s := bookableSession()
	s.Progress = BookingProgress{
		BookingCreated: true,
		FlightHandled:  true,
		TravelersSaved: true,
		OrderBooked:    true,
		BookingID:      "BK-9",
		BookingCode:    "DRC-0009",
	}
	f := newBookingFixture(s)

	resp, err := f.useCase.ProcessBooking(context.Background(), s.ID)

	require.NoError(t, err)
	assert.Equal(t, "BK-9", resp.BookingID)
	assert.Equal(t, "DRC-0009", resp.Code)

	// cached identifiers only, nothing is re-executed
	assert.Equal(t, 0, f.bookingRepo.createCalls)
	assert.Equal(t, 0, f.bookingRepo.updateCalls)
	assert.Equal(t, 0, f.bookingRepo.saveTravelersCalls)
	assert.Equal(t, 0, f.bookingRepo.confirmCalls)
	assert.Equal(t, 0, f.flightRepo.createOrderCalls)
	assert.Equal(t, 0, f.publisher.publishCalls)
	assert.Equal(t, 0, f.sessionRepo.saveCalls)
}

func TestProcessBookingResumesAfterFlightFailure(t *testing.T) {
	s := bookableSession()
	s.Flight = &FlightSelection{
		ID:       "FL1",
		OfferID:  "OFF1",
		Name:     "MAD-GRX",
		Provider: true,
	}
	f := newBookingFixture(s)
	f.flightRepo.createOrderErr = errors.New(http.StatusBadGateway, status.FLIGHT_BOOKING_FAILED, "the flight provider rejected the ticketing request")

	_, err := f.useCase.ProcessBooking(context.Background(), s.ID)
	require.Error(t, err)

	ae := errors.Destruct(err)
	assert.Equal(t, status.FLIGHT_BOOKING_FAILED, ae.Status)

	// the booking was created and its identifiers cached before the failure
	assert.Equal(t, 1, f.bookingRepo.createCalls)
	saved := f.sessionRepo.sessions[s.ID]
	assert.True(t, saved.Progress.BookingCreated)
	assert.Equal(t, "BK-1", saved.Progress.BookingID)
	assert.False(t, saved.Progress.FlightHandled)
	assert.Equal(t, 0, f.bookingRepo.saveTravelersCalls)
	assert.Equal(t, 0, f.bookingRepo.confirmCalls)

	// the retry resumes: refresh instead of create, then the remaining steps
	f.flightRepo.createOrderErr = nil

	resp, err := f.useCase.ProcessBooking(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, "BK-1", resp.BookingID)

	assert.Equal(t, 1, f.bookingRepo.createCalls)
	assert.Equal(t, 1, f.bookingRepo.updateCalls)
	assert.Equal(t, "BK-1", f.bookingRepo.lastUpdateID)
	assert.Equal(t, 2, f.flightRepo.createOrderCalls)
	assert.Equal(t, 1, f.bookingRepo.saveTravelersCalls)
	assert.Equal(t, 1, f.bookingRepo.confirmCalls)

	saved = f.sessionRepo.sessions[s.ID]
	assert.True(t, saved.Progress.FlightHandled)
	assert.True(t, saved.Progress.OrderBooked)
}

func TestProcessBookingSkipsHandledFlight(t *testing.T) {
	s := bookableSession()
	s.Flight = &FlightSelection{ID: "FL1", OfferID: "OFF1", Name: "MAD-GRX", Provider: true}
	s.Progress = BookingProgress{
		BookingCreated: true,
		FlightHandled:  true,
		BookingID:      "BK-1",
		BookingCode:    "DRC-0001",
	}
	f := newBookingFixture(s)

	_, err := f.useCase.ProcessBooking(context.Background(), s.ID)

	require.NoError(t, err)
	assert.Equal(t, 0, f.flightRepo.createOrderCalls)
	assert.Equal(t, 1, f.bookingRepo.updateCalls)
	assert.Equal(t, 1, f.bookingRepo.saveTravelersCalls)
	assert.Equal(t, 1, f.bookingRepo.confirmCalls)
}

func TestProcessBookingRejectsIncompleteTravelerBeforeTicketing(t *testing.T) {
	s := bookableSession()
	s.Flight = &FlightSelection{ID: "FL1", OfferID: "OFF1", Name: "MAD-GRX", Provider: true}
	s.Travelers[0].TravelerData.DocumentID = ""
	f := newBookingFixture(s)

	_, err := f.useCase.ProcessBooking(context.Background(), s.ID)

	require.Error(t, err)
	ae := errors.Destruct(err)
	assert.Equal(t, http.StatusBadRequest, ae.HTTPStatusCode)
	assert.Equal(t, status.BAD_REQUEST, ae.Status)

	// validation happens before any provider call
	assert.Equal(t, 0, f.flightRepo.createOrderCalls)
	assert.False(t, f.sessionRepo.sessions[s.ID].Progress.FlightHandled)
}

func TestProcessBookingSkipsNoFlightOption(t *testing.T) {
	s := bookableSession()
	s.Flight = &FlightSelection{ID: "NOFL", Name: "Viaje sin vuelo", Provider: true}
	f := newBookingFixture(s)

	_, err := f.useCase.ProcessBooking(context.Background(), s.ID)

	require.NoError(t, err)
	assert.Equal(t, 0, f.flightRepo.createOrderCalls)
}

func TestProcessBookingFillsPassengerDefaults(t *testing.T) {
	s := bookableSession()
	s.Flight = &FlightSelection{ID: "FL1", OfferID: "OFF1", Name: "MAD-GRX", Provider: true}
	f := newBookingFixture(s)

	_, err := f.useCase.ProcessBooking(context.Background(), s.ID)
	require.NoError(t, err)

	require.Len(t, f.flightRepo.lastOrder.Passengers, 1)
	p := f.flightRepo.lastOrder.Passengers[0]
	assert.Equal(t, "OFF1", f.flightRepo.lastOrder.OfferID)
	assert.Equal(t, "Ana", p.GivenName)
	assert.Equal(t, "12345678Z", p.DocumentNumber)
	// the template only fills what the checkout did not collect
	assert.Equal(t, "passport", p.DocumentType)
	assert.Equal(t, "ES", p.Nationality)
	assert.Equal(t, "1990-01-01", p.BirthDate)
	assert.Equal(t, "reservas@differentroads.es", p.Email)
}

func TestProcessBookingRejectsExpiredBudget(t *testing.T) {
	s := bookableSession()
	s.Status = OrderStatusExpired
	f := newBookingFixture(s)

	_, err := f.useCase.ProcessBooking(context.Background(), s.ID)

	require.Error(t, err)
	ae := errors.Destruct(err)
	assert.Equal(t, http.StatusConflict, ae.HTTPStatusCode)
	assert.Equal(t, status.CONFLICT, ae.Status)

	// an expired budget never reaches the booking backend
	assert.Equal(t, 0, f.bookingRepo.createCalls)
	assert.Equal(t, 0, f.bookingRepo.confirmCalls)
	assert.Equal(t, 0, f.sessionRepo.saveCalls)
}

func TestGetManyPaymentRequiresBooking(t *testing.T) {
	s := bookableSession()
	f := newBookingFixture(s)

	_, err := f.useCase.GetManyPayment(context.Background(), s.ID)

	require.Error(t, err)
	ae := errors.Destruct(err)
	assert.Equal(t, http.StatusNotFound, ae.HTTPStatusCode)
	assert.Equal(t, 0, f.bookingRepo.findPaymentsCalls)
}

func TestGetManyPayment(t *testing.T) {
	s := bookableSession()
	s.Progress.BookingCreated = true
	s.Progress.BookingID = "BK-1"
	f := newBookingFixture(s)
	f.bookingRepo.payments = []booking.Payment{
		{ID: "PAY-1", BookingID: "BK-1", Method: "transfer", Amount: 600, Status: "pending"},
	}

	resp, err := f.useCase.GetManyPayment(context.Background(), s.ID)

	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, "PAY-1", resp[0].ID)
	assert.Equal(t, 600.0, resp[0].Amount)
}

func TestUploadVoucher(t *testing.T) {
	s := bookableSession()
	s.Progress.BookingCreated = true
	s.Progress.BookingID = "BK-1"
	f := newBookingFixture(s)

	err := f.useCase.UploadVoucher(context.Background(), s.ID, UploadVoucherRequest{
		Method:     "transfer",
		Amount:     600,
		VoucherURL: "https://files.example.com/voucher.pdf",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, f.bookingRepo.uploadVoucherCalls)
	assert.Equal(t, "BK-1", f.bookingRepo.lastVoucherID)
	assert.Equal(t, "transfer", f.bookingRepo.lastVoucher.Method)
	assert.Equal(t, 600.0, f.bookingRepo.lastVoucher.Amount)
}

func TestProcessBookingConfirmUpdatesSnapshot(t *testing.T) {
	s := bookableSession()
	f := newBookingFixture(s)
	f.snapshotRepo.snapshot = OrderSnapshot{ID: s.OrderID, Status: OrderStatusBudget}

	_, err := f.useCase.ProcessBooking(context.Background(), s.ID)

	require.NoError(t, err)
	assert.Equal(t, 1, f.snapshotRepo.updateCalls)
	assert.Equal(t, OrderStatusBooked, f.snapshotRepo.lastUpdate.Status)
	assert.Equal(t, "BK-1", f.snapshotRepo.lastUpdate.BookingID)
	assert.Equal(t, "DRC-0001", f.snapshotRepo.lastUpdate.BookingCode)
}
