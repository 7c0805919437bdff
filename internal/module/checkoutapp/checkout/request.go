package checkout

type StartSessionRequest struct {
	TourID        string `json:"tour_id" validate:"required"`
	TourName      string `json:"tour_name" validate:"required"`
	PeriodID      string `json:"period_id" validate:"required"`
	DepartureDate string `json:"departure_date" validate:"required"`
	ReturnDate    string `json:"return_date"`
}

type SetTravelerCountsRequest struct {
	Adults   int64 `json:"adults" validate:"min=1"`
	Children int64 `json:"children" validate:"min=0"`
	Infants  int64 `json:"infants" validate:"min=0"`
}

type SetTravelerDataRequest struct {
	GivenName  string `json:"given_name"`
	Surname    string `json:"surname"`
	DocumentID string `json:"document_id"`
	BirthDate  string `json:"birth_date"`
	Email      string `json:"email" validate:"omitempty,email"`
	Phone      string `json:"phone"`
	RoomID     string `json:"room_id"`
}

type SetRoomsRequest struct {
	Rooms []RoomSelection `json:"rooms" validate:"dive"`
}

type SetActivitiesRequest struct {
	Activities []ActivitySelection `json:"activities" validate:"dive"`
}

type SetInsurancesRequest struct {
	Insurances []InsuranceSelection `json:"insurances" validate:"dive"`
}

type SetFlightRequest struct {
	Flight *FlightSelection `json:"flight"`
}

type SetDiscountsRequest struct {
	Discounts []Discount `json:"discounts" validate:"dive"`
}

type SetPaymentOptionRequest struct {
	PaymentOption string `json:"payment_option" validate:"required"`
}

type UploadVoucherRequest struct {
	Method     string  `json:"method" validate:"required"`
	Amount     float64 `json:"amount" validate:"gt=0"`
	VoucherURL string  `json:"voucher_url" validate:"required,url"`
}
