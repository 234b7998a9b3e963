package metadata

// Wire shapes of the four groups. Keys are kept short because every
// character counts against the gateway limit; do not rename them, sessions
// created by older releases are still decoded with these keys.

type passengerChunk struct {
	FirstName   string `json:"fn,omitempty"`
	LastName    string `json:"ln,omitempty"`
	Email       string `json:"em,omitempty"`
	Phone       string `json:"ph,omitempty"`
	Passport    string `json:"pp,omitempty"`
	DateOfBirth string `json:"db,omitempty"`
	Gender      string `json:"g,omitempty"`
	Nationality string `json:"na,omitempty"`
}

type travelChunk struct {
	DepartureCity string `json:"fr,omitempty"`
	ArrivalCity   string `json:"to,omitempty"`
	DepartureDate string `json:"dd,omitempty"`
	ReturnDate    string `json:"rd,omitempty"`
	TravelClass   string `json:"cl,omitempty"`
	TripType      string `json:"tt,omitempty"`
}

type deliveryChunk struct {
	Method string `json:"m,omitempty"`
	Target string `json:"t,omitempty"`
}

type billingChunk struct {
	Name       string `json:"n,omitempty"`
	Email      string `json:"em,omitempty"`
	Address    string `json:"a,omitempty"`
	City       string `json:"c,omitempty"`
	State      string `json:"s,omitempty"`
	PostalCode string `json:"z,omitempty"`
	Country    string `json:"co,omitempty"`
}
