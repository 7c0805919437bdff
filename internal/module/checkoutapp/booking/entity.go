package booking

import "encoding/json"

// CreateBookingRequest is the payload the booking backend expects when a
// checkout session first materializes as a booking.
type CreateBookingRequest struct {
	OrderID       string          `json:"order_id"`
	TourID        string          `json:"tour_id"`
	TourName      string          `json:"tour_name"`
	PeriodID      string          `json:"period_id"`
	DepartureDate string          `json:"departure_date"`
	ReturnDate    string          `json:"return_date"`
	PaymentOption string          `json:"payment_option"`
	Subtotal      float64         `json:"subtotal"`
	Total         float64         `json:"total"`
	Summary       json.RawMessage `json:"summary"`
}

type CreateBookingResponse struct {
	BookingID string          `json:"booking_id"`
	Code      string          `json:"code"`
	Order     json.RawMessage `json:"order"`
}

type UpdateBookingRequest struct {
	PeriodID      string          `json:"period_id"`
	DepartureDate string          `json:"departure_date"`
	ReturnDate    string          `json:"return_date"`
	ActivityIDs   []string        `json:"activity_ids"`
	FlightID      string          `json:"flight_id"`
	Summary       json.RawMessage `json:"summary"`
	Total         float64         `json:"total"`
}

type UpdateBookingResponse struct {
	Code string `json:"code"`
}

type SaveTravelersRequest struct {
	BookingSID string          `json:"booking_sid"`
	BookingID  string          `json:"booking_id"`
	Travelers  json.RawMessage `json:"travelers"`
}

type ConfirmBookingRequest struct {
	Order json.RawMessage `json:"order"`
	Code  string          `json:"code"`
}

// Booking is the backend's view of a booking, used by the listing surface.
type Booking struct {
	ID            string  `json:"id"`
	Code          string  `json:"code"`
	TourName      string  `json:"tour_name"`
	Status        string  `json:"status"`
	CustomerEmail string  `json:"customer_email"`
	DepartureDate string  `json:"departure_date"`
	Total         float64 `json:"total"`
	CreatedAt     string  `json:"created_at"`
}

type Payment struct {
	ID         string  `json:"id"`
	BookingID  string  `json:"booking_id"`
	Method     string  `json:"method"`
	Amount     float64 `json:"amount"`
	Status     string  `json:"status"`
	VoucherURL string  `json:"voucher_url"`
	CreatedAt  string  `json:"created_at"`
}

type ReviewVoucherRequest struct {
	Approved bool   `json:"approved"`
	Comment  string `json:"comment"`
}

// UploadVoucherRequest registers a customer's transfer payment against a
// booking; the voucher stays pending until an admin reviews it.
type UploadVoucherRequest struct {
	Method     string  `json:"method"`
	Amount     float64 `json:"amount"`
	VoucherURL string  `json:"voucher_url"`
}
