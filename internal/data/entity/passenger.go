package entity

// PassengerForm is everything the customer typed into the checkout form.
// It travels to the gateway as four metadata chunks, one per group.
type PassengerForm struct {
	Passenger PassengerInfo `json:"passenger"`
	Travel    TravelInfo    `json:"travel"`
	Delivery  DeliveryInfo  `json:"delivery"`
	Billing   BillingInfo   `json:"billing"`
}

type PassengerInfo struct {
	FirstName   string `json:"first_name" validate:"required,max=60"`
	LastName    string `json:"last_name" validate:"required,max=60"`
	Email       string `json:"email" validate:"required,email,max=120"`
	Phone       string `json:"phone,omitempty" validate:"max=30"`
	Passport    string `json:"passport,omitempty" validate:"max=20"`
	DateOfBirth string `json:"date_of_birth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Gender      string `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	Nationality string `json:"nationality,omitempty" validate:"max=60"`
}

// FullName joins first and last name.
func (p PassengerInfo) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

type TripType string

const (
	TripTypeOneWay    TripType = "one_way"
	TripTypeRoundTrip TripType = "round_trip"
)

type TravelInfo struct {
	DepartureCity string   `json:"departure_city" validate:"required,max=80"`
	ArrivalCity   string   `json:"arrival_city" validate:"required,max=80"`
	DepartureDate string   `json:"departure_date" validate:"required,datetime=2006-01-02"`
	ReturnDate    string   `json:"return_date,omitempty" validate:"required_if=TripType round_trip,omitempty,datetime=2006-01-02"`
	TravelClass   string   `json:"travel_class,omitempty" validate:"omitempty,oneof=economy premium_economy business first"`
	TripType      TripType `json:"trip_type" validate:"required,oneof=one_way round_trip"`
}

type DeliveryInfo struct {
	Method string `json:"method,omitempty" validate:"omitempty,oneof=email whatsapp"`
	Target string `json:"target,omitempty" validate:"max=120"`
}

// BillingInfo limits keep the whole group inside one 500 character metadata
// value for any text without quotes, backslashes or control characters.
type BillingInfo struct {
	Name       string `json:"name,omitempty" validate:"max=80"`
	Email      string `json:"email,omitempty" validate:"omitempty,email,max=80"`
	Address    string `json:"address,omitempty" validate:"max=120"`
	City       string `json:"city,omitempty" validate:"max=60"`
	State      string `json:"state,omitempty" validate:"max=40"`
	PostalCode string `json:"postal_code,omitempty" validate:"max=16"`
	Country    string `json:"country,omitempty" validate:"max=40"`
}
