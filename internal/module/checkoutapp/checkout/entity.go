package checkout

import (
	"strings"
	"time"

	"github.com/differentroads/dr-checkout/internal/module/checkoutapp/pricing"
)

const (
	OrderStatusBudget  = "BUDGET"
	OrderStatusBooked  = "BOOKED"
	OrderStatusExpired = "EXPIRED"
)

type TravelerCounts struct {
	Adults   int64 `json:"adults"`
	Children int64 `json:"children"`
	Infants  int64 `json:"infants"`
}

func (c TravelerCounts) Total() int64 {
	return c.Adults + c.Children + c.Infants
}

type TravelerData struct {
	AgeGroup   string `json:"age_group"`
	GivenName  string `json:"given_name"`
	Surname    string `json:"surname"`
	DocumentID string `json:"document_id"`
	BirthDate  string `json:"birth_date"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
}

type Traveler struct {
	Lead         bool         `json:"lead"`
	TravelerData TravelerData `json:"traveler_data"`
	RoomID       string       `json:"room_id"`
	ActivityIDs  []string     `json:"activity_ids"`
}

type RoomSelection struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity int64   `json:"quantity"`
	Price    float64 `json:"price"`
}

type ActivitySelection struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type InsuranceSelection struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity int64   `json:"quantity"`
	Price    float64 `json:"price"`
}

// FlightSelection is the flight chosen for the order. Provider offers carry
// per age group prices already marked up at catalog ingestion; manual flights
// carry a flat price, with the price catalog as fallback.
type FlightSelection struct {
	ID          string             `json:"id"`
	OfferID     string             `json:"offer_id"`
	Name        string             `json:"name"`
	Price       float64            `json:"price"`
	Provider    bool               `json:"provider"`
	PricePerAge map[string]float64 `json:"price_per_age"`
}

const noFlightMarker = "sin vuelo"

// IsNoFlight reports whether the selection is the "travel without flight"
// placeholder option, which never contributes a line item.
func (f FlightSelection) IsNoFlight() bool {
	return strings.Contains(strings.ToLower(f.Name), noFlightMarker)
}

type Discount struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Coupon      bool    `json:"coupon"`
}

type LineItem struct {
	Description string  `json:"description"`
	Quantity    int64   `json:"quantity"`
	Value       float64 `json:"value"`
}

type Summary struct {
	LineItems []LineItem `json:"line_items"`
	Subtotal  float64    `json:"subtotal"`
	Total     float64    `json:"total"`
}

// BookingProgress tracks the guarded booking steps. Completed flags are never
// cleared by a failure; a fresh checkout session starts from zero progress.
type BookingProgress struct {
	BookingCreated bool   `json:"booking_created"`
	FlightHandled  bool   `json:"flight_handled"`
	TravelersSaved bool   `json:"travelers_saved"`
	OrderBooked    bool   `json:"order_booked"`
	BookingID      string `json:"booking_id"`
	BookingCode    string `json:"booking_code"`
}

// CheckoutSession owns one customer's in-progress order: the current
// selections, the derived summary and the booking progress. One active
// session per checkout; selections are last value wins.
type CheckoutSession struct {
	ID            string               `json:"id"`
	AccountID     string               `json:"account_id"`
	OrderID       string               `json:"order_id"`
	TourID        string               `json:"tour_id"`
	TourName      string               `json:"tour_name"`
	PeriodID      string               `json:"period_id"`
	DepartureDate string               `json:"departure_date"`
	ReturnDate    string               `json:"return_date"`
	Counts        TravelerCounts       `json:"counts"`
	Travelers     []Traveler           `json:"travelers"`
	Rooms         []RoomSelection      `json:"rooms"`
	Activities    []ActivitySelection  `json:"activities"`
	Insurances    []InsuranceSelection `json:"insurances"`
	Flight        *FlightSelection     `json:"flight"`
	Discounts     []Discount           `json:"discounts"`
	PaymentOption string               `json:"payment_option"`
	Summary       Summary              `json:"summary"`
	Status        string               `json:"status"`
	Progress      BookingProgress      `json:"progress"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

func (s *CheckoutSession) ActivityIDs() []string {
	ids := make([]string, len(s.Activities))
	for k, a := range s.Activities {
		ids[k] = a.ID
	}

	return ids
}

func (s *CheckoutSession) FlightID() string {
	if s.Flight == nil {
		return ""
	}

	return s.Flight.ID
}

func countByAgeGroup(counts TravelerCounts, ageGroup string) int64 {
	switch ageGroup {
	case pricing.AgeGroupAdult:
		return counts.Adults
	case pricing.AgeGroupChild:
		return counts.Children
	case pricing.AgeGroupInfant:
		return counts.Infants
	}

	return 0
}
