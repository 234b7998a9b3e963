package wire

import (
	"flight-reservation/internal/adaptor"
	"flight-reservation/internal/data/repository"
	"flight-reservation/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCheckout(
	r chi.Router,
	checkoutHandler *adaptor.CheckoutHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	r.Route("/api/checkout", func(r chi.Router) {
		// Guests can check out; a signed-in user is attached to the booking
		r.Use(middleware.OptionalAuth(repo.Session, log))

		// POST /api/checkout - Price the plan and open a payment session
		r.Post("/", checkoutHandler.Checkout)

		// POST /api/checkout/verify - Confirm payment and create the booking
		r.Post("/verify", checkoutHandler.VerifyPayment)
	})
}
