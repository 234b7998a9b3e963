package response

import (
	"time"

	"flight-reservation/internal/data/entity"
)

type BookingResponse struct {
	ID               string            `json:"id"`
	PlanID           string            `json:"plan_id"`
	PlanName         string            `json:"plan_name"`
	Amount           string            `json:"amount"`
	Currency         string            `json:"currency"`
	AmountDisplay    string            `json:"amount_display"`
	PaymentReference string            `json:"payment_reference"`
	PaymentMethod    string            `json:"payment_method"`
	Status           string            `json:"status"`
	Guest            bool              `json:"guest"`
	PassengerName    string            `json:"passenger_name"`
	PassengerEmail   string            `json:"passenger_email"`
	Travel           entity.TravelInfo `json:"travel"`
	ReceiptURL       string            `json:"receipt_url"`
	CreatedAt        time.Time         `json:"created_at"`
}

// ReceiptFile is a rendered reservation document.
type ReceiptFile struct {
	Filename    string
	ContentType string
	Content     []byte
}
