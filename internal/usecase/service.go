package usecase

import (
	"flight-reservation/internal/currency"
	"flight-reservation/internal/data/repository"
	"flight-reservation/internal/gateway"
	"flight-reservation/internal/metadata"
	"flight-reservation/internal/notify"
	"flight-reservation/internal/receipt"
	"flight-reservation/pkg/utils"

	"go.uber.org/zap"
)

// Dependencies are the collaborators outside the database.
type Dependencies struct {
	Gateway   gateway.Gateway
	Converter currency.Converter
	Notifier  notify.Notifier
	// ReceiptFonts falls back to the embedded fonts when empty.
	ReceiptFonts receipt.Fonts
}

type Service struct {
	Plan     PlanService
	Checkout CheckoutService
	Payment  PaymentService
	Booking  BookingService
	Receipt  ReceiptService
}

func NewService(repo *repository.Repository, deps Dependencies, config *utils.Config, log *zap.Logger) *Service {
	denoms := currency.NewDenominations(config.Checkout.ZeroDecimalCurrencies)
	codec := metadata.NewCodec(config.Checkout.MetadataMaxLen)
	renderer := receipt.NewRenderer(config.App.Brand, config.App.SupportEmail, denoms)

	return &Service{
		Plan:     NewPlanService(repo.Plan, log),
		Checkout: NewCheckoutService(repo.Plan, deps.Converter, denoms, codec, deps.Gateway, config, log),
		Payment:  NewPaymentService(repo.Booking, repo.Plan, deps.Gateway, codec, denoms, deps.Notifier, config, log),
		Booking:  NewBookingService(repo.Booking, denoms, config.App.PublicURL, log),
		Receipt:  NewReceiptService(repo.Booking, renderer, deps.ReceiptFonts, log),
	}
}
