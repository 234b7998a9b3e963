package request

import (
	"encoding/json"

	"flight-reservation/internal/data/entity"
)

type CheckoutRequest struct {
	PlanID        string `json:"plan_id" validate:"required,max=64"`
	Currency      string `json:"currency" validate:"omitempty,len=3,alpha"`
	PaymentMethod string `json:"payment_method" validate:"max=32"`
	// Amount is accepted for older clients and ignored; the price always
	// comes from the plan catalog.
	Amount json.Number          `json:"amount,omitempty"`
	Form   entity.PassengerForm `json:"form"`
}

type VerifyPaymentRequest struct {
	SessionHandle string `json:"session_handle" validate:"required,max=255"`
}
