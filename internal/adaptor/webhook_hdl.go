package adaptor

import (
	"errors"
	"io"
	"net/http"

	"flight-reservation/internal/usecase"
	"flight-reservation/pkg/utils"

	"go.uber.org/zap"
)

const maxWebhookBody = 64 << 10

type WebhookHandler struct {
	payment usecase.PaymentService
	log     *zap.Logger
}

func NewWebhookHandler(payment usecase.PaymentService, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		payment: payment,
		log:     log.With(zap.String("handler", "webhook")),
	}
}

// StripeEvent handles POST /api/webhooks/stripe (signed)
func (h *WebhookHandler) StripeEvent(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	err = h.payment.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	switch {
	case err == nil:
		utils.ResponseSuccess(w, "success", nil)

	case errors.Is(err, usecase.ErrInvalidSignature):
		utils.ResponseBadRequest(w, "Invalid signature", nil)

	default:
		// a non-2xx makes Stripe redeliver the event later
		h.log.Error("Failed to process webhook", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error", nil)
	}
}
