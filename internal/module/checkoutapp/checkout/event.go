package checkout

type ExpireBudgetEvent struct {
	SessionID string `json:"session_id"`
	OrderID   string `json:"order_id"`
}

type BookingConfirmedEvent struct {
	BookingID string  `json:"booking_id"`
	Code      string  `json:"code"`
	OrderID   string  `json:"order_id"`
	AccountID string  `json:"account_id"`
	TourID    string  `json:"tour_id"`
	Total     float64 `json:"total"`
}
