package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"cloud.google.com/go/cloudtasks/apiv2/cloudtaskspb"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/differentroads/dr-checkout/internal/module/checkoutapp/flight"
	"github.com/differentroads/dr-checkout/internal/module/checkoutapp/notification"
	"github.com/differentroads/dr-checkout/internal/module/checkoutapp/pricing"
	"github.com/differentroads/dr-checkout/internal/pkg/session"
	"github.com/differentroads/dr-checkout/internal/pkg/util"
	"github.com/differentroads/dr-checkout/pkg/errors"
	"github.com/differentroads/dr-checkout/pkg/gctasks"
	"github.com/differentroads/dr-checkout/pkg/status"
)

type CheckoutUseCase interface {
	StartSession(ctx context.Context, req StartSessionRequest) (SessionResponse, error)
	GetSession(ctx context.Context, sessionID string) (SessionResponse, error)
	SetTravelerCounts(ctx context.Context, sessionID string, req SetTravelerCountsRequest) (SessionResponse, error)
	SetTravelerData(ctx context.Context, sessionID string, index int, req SetTravelerDataRequest) (SessionResponse, error)
	SetRooms(ctx context.Context, sessionID string, req SetRoomsRequest) (SessionResponse, error)
	SetActivities(ctx context.Context, sessionID string, req SetActivitiesRequest) (SessionResponse, error)
	SetInsurances(ctx context.Context, sessionID string, req SetInsurancesRequest) (SessionResponse, error)
	SetFlight(ctx context.Context, sessionID string, req SetFlightRequest) (SessionResponse, error)
	SetDiscounts(ctx context.Context, sessionID string, req SetDiscountsRequest) (SessionResponse, error)
	SetPaymentOption(ctx context.Context, sessionID string, req SetPaymentOptionRequest) (SessionResponse, error)
	SendBudgetEmail(ctx context.Context, sessionID string) error
	OnExpireBudget(ctx context.Context, e ExpireBudgetEvent) error
}

type checkoutUseCase struct {
	logger                 *logrus.Logger
	timeout                time.Duration
	baseURL                string
	budgetExpiration       time.Duration
	flightMarkup           float64
	pricingRepository      pricing.PricingRepository
	flightRepository       flight.FlightRepository
	sessionRepository      SessionRepository
	snapshotRepository     OrderSnapshotRepository
	notificationRepository notification.NotificationRepository
	cloudTask              gctasks.Client
}

type CheckoutUseCaseProperty struct {
	Logger                 *logrus.Logger
	Timeout                time.Duration
	BaseURL                string
	BudgetExpiration       time.Duration
	FlightMarkup           float64
	PricingRepository      pricing.PricingRepository
	FlightRepository       flight.FlightRepository
	SessionRepository      SessionRepository
	SnapshotRepository     OrderSnapshotRepository
	NotificationRepository notification.NotificationRepository
	CloudTask              gctasks.Client
}

func NewCheckoutUseCase(props CheckoutUseCaseProperty) CheckoutUseCase {
	return &checkoutUseCase{
		logger:                 props.Logger,
		timeout:                props.Timeout,
		baseURL:                props.BaseURL,
		budgetExpiration:       props.BudgetExpiration,
		flightMarkup:           props.FlightMarkup,
		pricingRepository:      props.PricingRepository,
		flightRepository:       props.FlightRepository,
		sessionRepository:      props.SessionRepository,
		snapshotRepository:     props.SnapshotRepository,
		notificationRepository: props.NotificationRepository,
		cloudTask:              props.CloudTask,
	}
}

// StartSession implements CheckoutUseCase. A fresh session starts with one
// adult traveler and zero booking progress, and persists its order snapshot
// as a budget with a deferred expiry callback.
func (u *checkoutUseCase) StartSession(ctx context.Context, req StartSessionRequest) (SessionResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	acc, err := session.GetAccountFromCtx(ctx)
	if err != nil {
		return SessionResponse{}, err
	}

	now := time.Now()
	s := CheckoutSession{
		ID:            uuid.NewString(),
		AccountID:     acc.ID,
		OrderID:       util.GenerateTimestampWithPrefix("DR"),
		TourID:        req.TourID,
		TourName:      req.TourName,
		PeriodID:      req.PeriodID,
		DepartureDate: req.DepartureDate,
		ReturnDate:    req.ReturnDate,
		Counts:        TravelerCounts{Adults: 1},
		Status:        OrderStatusBudget,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.Travelers = RegenerateTravelers(nil, s.Counts)

	if err := u.rebuildAndPersist(ctx, &s); err != nil {
		return SessionResponse{}, err
	}

	eventBuff, _ := json.Marshal(ExpireBudgetEvent{SessionID: s.ID, OrderID: s.OrderID})
	u.cloudTask.DeferCreateTaskInDuration("expire-budget", gctasks.Request{
		URL:    fmt.Sprintf("%s/dr-checkout/v1/checkoutapp/budgets/on-expire", u.baseURL),
		Method: cloudtaskspb.HttpMethod_POST,
		Body:   eventBuff,
	}, u.budgetExpiration)

	resp := SessionResponse{}
	resp.PopulateFromEntity(s)

	return resp, nil
}

// GetSession implements CheckoutUseCase.
func (u *checkoutUseCase) GetSession(ctx context.Context, sessionID string) (SessionResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	s, err := u.loadOwnedSession(ctx, sessionID)
	if err != nil {
		return SessionResponse{}, err
	}

	resp := SessionResponse{}
	resp.PopulateFromEntity(s)

	return resp, nil
}

// SetTravelerCounts implements CheckoutUseCase. Counts never drop below one
// adult; the traveler list is reconciled preserving entries by position
// within each age group bucket.
func (u *checkoutUseCase) SetTravelerCounts(ctx context.Context, sessionID string, req SetTravelerCountsRequest) (SessionResponse, error) {
	if req.Adults < 1 {
		return SessionResponse{}, errors.New(http.StatusBadRequest, status.BAD_REQUEST, "a checkout needs at least one adult traveler")
	}

	return u.mutate(ctx, sessionID, func(s *CheckoutSession) error {
		s.Counts = TravelerCounts{Adults: req.Adults, Children: req.Children, Infants: req.Infants}
		s.Travelers = RegenerateTravelers(s.Travelers, s.Counts)
		return nil
	})
}

// SetTravelerData implements CheckoutUseCase. The age group tag is owned by
// the count reconciliation and cannot be edited here.
func (u *checkoutUseCase) SetTravelerData(ctx context.Context, sessionID string, index int, req SetTravelerDataRequest) (SessionResponse, error) {
	return u.mutate(ctx, sessionID, func(s *CheckoutSession) error {
		if index < 0 || index >= len(s.Travelers) {
			return errors.New(http.StatusBadRequest, status.BAD_REQUEST, fmt.Sprintf("traveler index %d is out of range", index))
		}

		t := &s.Travelers[index]
		t.TravelerData.GivenName = req.GivenName
		t.TravelerData.Surname = req.Surname
		t.TravelerData.DocumentID = req.DocumentID
		t.TravelerData.BirthDate = req.BirthDate
		t.TravelerData.Email = req.Email
		t.TravelerData.Phone = req.Phone
		t.RoomID = req.RoomID

		return nil
	})
}

// SetRooms implements CheckoutUseCase.
func (u *checkoutUseCase) SetRooms(ctx context.Context, sessionID string, req SetRoomsRequest) (SessionResponse, error) {
	return u.mutate(ctx, sessionID, func(s *CheckoutSession) error {
		s.Rooms = req.Rooms
		return nil
	})
}

// SetActivities implements CheckoutUseCase.
func (u *checkoutUseCase) SetActivities(ctx context.Context, sessionID string, req SetActivitiesRequest) (SessionResponse, error) {
	return u.mutate(ctx, sessionID, func(s *CheckoutSession) error {
		s.Activities = req.Activities
		return nil
	})
}

// SetInsurances implements CheckoutUseCase.
func (u *checkoutUseCase) SetInsurances(ctx context.Context, sessionID string, req SetInsurancesRequest) (SessionResponse, error) {
	return u.mutate(ctx, sessionID, func(s *CheckoutSession) error {
		s.Insurances = req.Insurances
		return nil
	})
}

// SetFlight implements CheckoutUseCase. Provider offers are re-priced
// through the flight integration and surfaced with the agency markup before
// entering the summary.
func (u *checkoutUseCase) SetFlight(ctx context.Context, sessionID string, req SetFlightRequest) (SessionResponse, error) {
	return u.mutate(ctx, sessionID, func(s *CheckoutSession) error {
		if req.Flight != nil && req.Flight.Provider && req.Flight.OfferID != "" && len(req.Flight.PricePerAge) == 0 {
			offer, err := u.flightRepository.GetOfferPrice(ctx, req.Flight.OfferID)
			if err != nil {
				return err
			}

			pricePerAge := make(map[string]float64, len(offer.PricePerAge))
			for _, tier := range offer.PricePerAge {
				value, err := pricing.ParsePriceWithMarkup(tier.Value, u.flightMarkup)
				if err != nil {
					u.logger.WithContext(ctx).WithError(err).Error()
					continue
				}
				pricePerAge[tier.AgeGroupName] = value
			}
			req.Flight.PricePerAge = pricePerAge

			if total, err := pricing.ParsePriceWithMarkup(offer.TotalPrice, u.flightMarkup); err == nil {
				req.Flight.Price = total
			}
		}

		s.Flight = req.Flight

		return nil
	})
}

// SetDiscounts implements CheckoutUseCase.
func (u *checkoutUseCase) SetDiscounts(ctx context.Context, sessionID string, req SetDiscountsRequest) (SessionResponse, error) {
	return u.mutate(ctx, sessionID, func(s *CheckoutSession) error {
		s.Discounts = req.Discounts
		return nil
	})
}

// SetPaymentOption implements CheckoutUseCase.
func (u *checkoutUseCase) SetPaymentOption(ctx context.Context, sessionID string, req SetPaymentOptionRequest) (SessionResponse, error) {
	return u.mutate(ctx, sessionID, func(s *CheckoutSession) error {
		s.PaymentOption = req.PaymentOption
		return nil
	})
}

// SendBudgetEmail implements CheckoutUseCase. Sends the current budget to the
// session owner's email through the notification service.
func (u *checkoutUseCase) SendBudgetEmail(ctx context.Context, sessionID string) error {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	acc, err := session.GetAccountFromCtx(ctx)
	if err != nil {
		return err
	}

	s, err := u.loadOwnedSession(ctx, sessionID)
	if err != nil {
		return err
	}

	if s.Status == OrderStatusExpired {
		return errors.New(http.StatusConflict, status.CONFLICT, "the checkout session's budget has expired")
	}

	return u.notificationRepository.TriggerEmail(ctx, notification.TriggerEmailRequest{
		Kind:      notification.EmailBudget,
		BookingID: s.OrderID,
		Recipient: acc.Email,
	})
}

// OnExpireBudget implements CheckoutUseCase. Snapshots already booked or
// expired are left untouched, so the deferred callback is safe to redeliver.
func (u *checkoutUseCase) OnExpireBudget(ctx context.Context, e ExpireBudgetEvent) error {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	snapshot, err := u.snapshotRepository.FindByID(ctx, e.OrderID, nil)
	if err != nil {
		if errors.Destruct(err).HTTPStatusCode == http.StatusNotFound {
			return nil
		}
		return err
	}

	if snapshot.Status != OrderStatusBudget {
		return nil
	}

	snapshot.Status = OrderStatusExpired
	if err := u.snapshotRepository.Update(ctx, snapshot.ID, snapshot, nil); err != nil {
		return err
	}

	if s, err := u.sessionRepository.FindByID(ctx, e.SessionID); err == nil {
		s.Status = OrderStatusExpired
		s.UpdatedAt = time.Now()
		u.sessionRepository.Save(ctx, s)
	}

	return nil
}

func (u *checkoutUseCase) loadOwnedSession(ctx context.Context, sessionID string) (CheckoutSession, error) {
	acc, err := session.GetAccountFromCtx(ctx)
	if err != nil {
		return CheckoutSession{}, err
	}

	s, err := u.sessionRepository.FindByID(ctx, sessionID)
	if err != nil {
		return CheckoutSession{}, err
	}

	if s.AccountID != acc.ID {
		return CheckoutSession{}, errors.New(http.StatusForbidden, status.FORBIDDEN, "the checkout session belongs to another account")
	}

	return s, nil
}

// mutate applies one selection change and recomputes the summary wholesale
// before persisting the session and its order snapshot.
func (u *checkoutUseCase) mutate(ctx context.Context, sessionID string, apply func(*CheckoutSession) error) (SessionResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	s, err := u.loadOwnedSession(ctx, sessionID)
	if err != nil {
		return SessionResponse{}, err
	}

	if s.Status == OrderStatusExpired {
		return SessionResponse{}, errors.New(http.StatusConflict, status.CONFLICT, "the checkout session's budget has expired")
	}

	if err := apply(&s); err != nil {
		return SessionResponse{}, err
	}

	if err := u.rebuildAndPersist(ctx, &s); err != nil {
		return SessionResponse{}, err
	}

	resp := SessionResponse{}
	resp.PopulateFromEntity(s)

	return resp, nil
}

func (u *checkoutUseCase) rebuildAndPersist(ctx context.Context, s *CheckoutSession) error {
	prices, err := u.pricingRepository.GetPeriodPrices(ctx, s.PeriodID)
	if err != nil {
		return err
	}

	builder := NewSummaryBuilder(pricing.NewCatalog(prices))
	s.Summary = builder.Build(s)
	s.UpdatedAt = time.Now()

	if err := u.sessionRepository.Save(ctx, *s); err != nil {
		return err
	}

	snapshot := OrderSnapshot{
		ID:          s.OrderID,
		SessionID:   s.ID,
		AccountID:   s.AccountID,
		TourID:      s.TourID,
		TourName:    s.TourName,
		PeriodID:    s.PeriodID,
		Status:      s.Status,
		BookingID:   s.Progress.BookingID,
		BookingCode: s.Progress.BookingCode,
		Subtotal:    s.Summary.Subtotal,
		Total:       s.Summary.Total,
		Summary:     s.Summary.LineItems,
		Travelers:   s.Travelers,
	}

	return u.snapshotRepository.Save(ctx, snapshot, nil)
}
