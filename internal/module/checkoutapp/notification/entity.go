package notification

type EmailKind string

const (
	EmailBudget        EmailKind = "budget"
	EmailNewBooking    EmailKind = "new-booking"
	EmailCancelBooking EmailKind = "cancel-booking"
)

type TriggerEmailRequest struct {
	Kind      EmailKind `json:"kind"`
	BookingID string    `json:"booking_id"`
	Recipient string    `json:"recipient"`
}

type DocumentResponse struct {
	URL string `json:"url"`
}
