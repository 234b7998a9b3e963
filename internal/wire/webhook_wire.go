package wire

import (
	"flight-reservation/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireWebhook(r chi.Router, webhookHandler *adaptor.WebhookHandler) {
	// POST /api/webhooks/stripe - Signed gateway events, no session auth
	r.Post("/api/webhooks/stripe", webhookHandler.StripeEvent)
}
