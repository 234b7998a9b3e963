package adaptor

import (
	"flight-reservation/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Plan     *PlanHandler
	Checkout *CheckoutHandler
	Booking  *BookingHandler
	Webhook  *WebhookHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Plan:     NewPlanHandler(service.Plan, log),
		Checkout: NewCheckoutHandler(service.Checkout, service.Payment, log),
		Booking:  NewBookingHandler(service.Booking, service.Receipt, log),
		Webhook:  NewWebhookHandler(service.Payment, log),
	}
}
