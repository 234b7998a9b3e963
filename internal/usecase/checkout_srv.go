package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"flight-reservation/internal/currency"
	"flight-reservation/internal/data/entity"
	"flight-reservation/internal/data/repository"
	"flight-reservation/internal/dto/request"
	"flight-reservation/internal/dto/response"
	"flight-reservation/internal/gateway"
	"flight-reservation/internal/metadata"
	"flight-reservation/internal/observability"
	"flight-reservation/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Metadata keys stored on the gateway session next to the form chunks.
const (
	metaBookingID     = "booking_id"
	metaUserID        = "user_id"
	metaPlanID        = "plan_id"
	metaPlanName      = "plan_name"
	metaPaymentMethod = "payment_method"

	guestUser = "guest"
)

type CheckoutService interface {
	// Initiate prices the plan and opens a gateway session. Nothing is
	// persisted; the booking is created once payment is verified.
	Initiate(ctx context.Context, userID *uuid.UUID, req *request.CheckoutRequest) (*response.CheckoutResponse, error)
}

type checkoutService struct {
	plans     repository.PlanRepository
	converter currency.Converter
	denoms    *currency.Denominations
	codec     *metadata.Codec
	gateway   gateway.Gateway
	config    *utils.Config
	now       func() time.Time
	newID     func(time.Time) string
	log       *zap.Logger
}

func NewCheckoutService(
	plans repository.PlanRepository,
	converter currency.Converter,
	denoms *currency.Denominations,
	codec *metadata.Codec,
	gw gateway.Gateway,
	config *utils.Config,
	log *zap.Logger,
) CheckoutService {
	return &checkoutService{
		plans:     plans,
		converter: converter,
		denoms:    denoms,
		codec:     codec,
		gateway:   gw,
		config:    config,
		now:       time.Now,
		newID:     utils.GenerateBookingID,
		log:       log.With(zap.String("service", "checkout")),
	}
}

func (s *checkoutService) Initiate(ctx context.Context, userID *uuid.UUID, req *request.CheckoutRequest) (*response.CheckoutResponse, error) {
	planID := strings.TrimSpace(req.PlanID)
	if planID == "" {
		observability.CheckoutsTotal.WithLabelValues(observability.OutcomeRejected).Inc()
		return nil, ErrInvalidPlan
	}

	plan, err := s.plans.FindByID(ctx, planID)
	if err != nil {
		observability.CheckoutsTotal.WithLabelValues(observability.OutcomeError).Inc()
		return nil, fmt.Errorf("load plan %s: %w", planID, err)
	}
	if plan == nil {
		s.log.Warn("Checkout for unknown plan", zap.String("plan_id", planID))
		observability.CheckoutsTotal.WithLabelValues(observability.OutcomeRejected).Inc()
		return nil, ErrInvalidPlan
	}

	// collisions are resolved when the booking is stored
	bookingID := s.newID(s.now())

	base := entity.PlanPriceCurrency
	target := strings.ToUpper(strings.TrimSpace(req.Currency))
	if target == "" {
		target = base
	}

	amount, fallback := plan.BasePriceUSD, false
	if target != base {
		converted, err := s.converter.Convert(ctx, plan.BasePriceUSD, base, target)
		if err != nil {
			s.log.Warn("Currency conversion failed, charging in base currency",
				zap.String("booking_id", bookingID),
				zap.String("currency", target),
				zap.Error(err),
			)
			observability.FXFallbacks.Inc()
			target, fallback = base, true
		} else {
			amount = converted
		}
	}
	minor := s.denoms.ToMinorUnits(amount, target)

	chunks, err := s.codec.Encode(req.Form)
	if err != nil {
		observability.CheckoutsTotal.WithLabelValues(observability.OutcomeRejected).Inc()
		return nil, err
	}

	meta := make(map[string]string, len(chunks)+5)
	for k, v := range chunks {
		meta[k] = v
	}
	meta[metaBookingID] = bookingID
	meta[metaUserID] = guestUser
	if userID != nil {
		meta[metaUserID] = userID.String()
	}
	meta[metaPlanID] = plan.ID
	meta[metaPlanName] = plan.Name
	meta[metaPaymentMethod] = gateway.MethodLabel(req.PaymentMethod)

	session, err := s.gateway.CreateSession(ctx, gateway.SessionRequest{
		ClientReferenceID: bookingID,
		ProductName:       plan.Name,
		Description:       plan.Description,
		AmountMinorUnits:  minor,
		Currency:          target,
		MethodKinds:       gateway.MethodKinds(req.PaymentMethod),
		CustomerEmail:     req.Form.Passenger.Email,
		Metadata:          meta,
		SuccessURL:        s.config.App.PublicURL + s.config.Checkout.SuccessPath,
		CancelURL:         s.config.App.PublicURL + s.config.Checkout.CancelPath,
	})
	if err != nil {
		observability.CheckoutsTotal.WithLabelValues(observability.OutcomeError).Inc()
		return nil, &GatewayError{Op: "create checkout session", Message: gatewayMessage(err), Err: err}
	}

	s.log.Info("Checkout session created",
		zap.String("booking_id", bookingID),
		zap.String("session_id", session.ID),
		zap.String("plan_id", plan.ID),
		zap.String("currency", target),
		zap.Int64("amount_minor_units", minor),
	)
	observability.CheckoutsTotal.WithLabelValues(observability.OutcomeOK).Inc()

	return &response.CheckoutResponse{
		SessionHandle:    session.ID,
		RedirectURL:      session.URL,
		BookingID:        bookingID,
		Currency:         target,
		AmountMinorUnits: minor,
		Amount:           s.denoms.FromMinorUnits(minor, target).StringFixed(decimalPlaces(s.denoms, target)),
		CurrencyFallback: fallback,
	}, nil
}

func decimalPlaces(d *currency.Denominations, code string) int32 {
	if d.IsZeroDecimal(code) {
		return 0
	}
	return 2
}

func gatewayMessage(err error) string {
	var gerr *gateway.Error
	if errors.As(err, &gerr) && gerr.Message != "" {
		return gerr.Message
	}
	return err.Error()
}
