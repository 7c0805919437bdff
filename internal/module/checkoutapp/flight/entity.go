package flight

// Offer is one bookable flight offer returned by the external provider.
type Offer struct {
	ID            string         `json:"id"`
	Origin        string         `json:"origin"`
	Destination   string         `json:"destination"`
	DepartureDate string         `json:"departure_date"`
	ReturnDate    string         `json:"return_date"`
	Carrier       string         `json:"carrier"`
	TotalPrice    string         `json:"total_price"`
	Currency      string         `json:"currency"`
	PricePerAge   []AgeTierPrice `json:"price_per_age"`
}

// AgeTierPrice carries the provider's raw price for one traveler tier, before
// the agency markup is applied.
type AgeTierPrice struct {
	AgeGroupName string `json:"age_group_name"`
	Value        string `json:"value"`
}

type SearchOffersRequest struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departure_date"`
	ReturnDate    string `json:"return_date"`
	Adults        int64  `json:"adults"`
	Children      int64  `json:"children"`
	Infants       int64  `json:"infants"`
}

type Passenger struct {
	GivenName      string `json:"given_name"`
	Surname        string `json:"surname"`
	BirthDate      string `json:"birth_date"`
	DocumentType   string `json:"document_type"`
	DocumentNumber string `json:"document_number"`
	Nationality    string `json:"nationality"`
	PhoneNumber    string `json:"phone_number"`
	Email          string `json:"email"`
}

type CreateOrderRequest struct {
	OfferID    string      `json:"offer_id"`
	Passengers []Passenger `json:"passengers"`
}

type OrderConfirmation struct {
	OrderID           string `json:"order_id"`
	BookingReference  string `json:"booking_reference"`
	TicketingDeadline string `json:"ticketing_deadline"`
}
