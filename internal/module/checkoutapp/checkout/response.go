package checkout

import "time"

type SessionResponse struct {
	ID            string               `json:"id"`
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
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

func (r *SessionResponse) PopulateFromEntity(s CheckoutSession) {
	r.ID = s.ID
	r.OrderID = s.OrderID
	r.TourID = s.TourID
	r.TourName = s.TourName
	r.PeriodID = s.PeriodID
	r.DepartureDate = s.DepartureDate
	r.ReturnDate = s.ReturnDate
	r.Counts = s.Counts
	r.Travelers = s.Travelers
	r.Rooms = s.Rooms
	r.Activities = s.Activities
	r.Insurances = s.Insurances
	r.Flight = s.Flight
	r.Discounts = s.Discounts
	r.PaymentOption = s.PaymentOption
	r.Summary = s.Summary
	r.Status = s.Status
	r.CreatedAt = s.CreatedAt
	r.UpdatedAt = s.UpdatedAt
}

type BookResponse struct {
	BookingID string `json:"booking_id"`
	Code      string `json:"code"`
}

type GetManyPaymentResponse []PaymentResponse

type PaymentResponse struct {
	ID         string  `json:"id"`
	BookingID  string  `json:"booking_id"`
	Method     string  `json:"method"`
	Amount     float64 `json:"amount"`
	Status     string  `json:"status"`
	VoucherURL string  `json:"voucher_url"`
	CreatedAt  string  `json:"created_at"`
}
