package booking

import customerbooking "github.com/differentroads/dr-checkout/internal/module/checkoutapp/booking"

type GetManyBookingResponse []BookingResponse

type BookingResponse struct {
	ID            string  `json:"id"`
	Code          string  `json:"code"`
	TourName      string  `json:"tour_name"`
	Status        string  `json:"status"`
	CustomerEmail string  `json:"customer_email"`
	DepartureDate string  `json:"departure_date"`
	Total         float64 `json:"total"`
	CreatedAt     string  `json:"created_at"`
}

func (r *BookingResponse) PopulateFromEntity(b customerbooking.Booking) {
	r.ID = b.ID
	r.Code = b.Code
	r.TourName = b.TourName
	r.Status = b.Status
	r.CustomerEmail = b.CustomerEmail
	r.DepartureDate = b.DepartureDate
	r.Total = b.Total
	r.CreatedAt = b.CreatedAt
}

type DocumentResponse struct {
	URL string `json:"url"`
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
