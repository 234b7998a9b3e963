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
	"flight-reservation/internal/dto/response"
	"flight-reservation/internal/gateway"
	"flight-reservation/internal/metadata"
	"flight-reservation/internal/notify"
	"flight-reservation/internal/observability"
	"flight-reservation/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const sideEffectTimeout = 30 * time.Second

type PaymentService interface {
	// Verify confirms the session with the gateway and returns the booking
	// for it, creating the booking on first success. Safe to call any number
	// of times, concurrently, for the same session.
	Verify(ctx context.Context, sessionHandle string) (*response.BookingResponse, error)
	// HandleWebhook verifies signed gateway events about completed sessions.
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type paymentService struct {
	bookings repository.BookingRepository
	plans    repository.PlanRepository
	gateway  gateway.Gateway
	codec    *metadata.Codec
	denoms   *currency.Denominations
	notifier notify.Notifier
	config   *utils.Config
	now      func() time.Time
	newID    func(time.Time) string
	dispatch func(func())
	log      *zap.Logger
}

func NewPaymentService(
	bookings repository.BookingRepository,
	plans repository.PlanRepository,
	gw gateway.Gateway,
	codec *metadata.Codec,
	denoms *currency.Denominations,
	notifier notify.Notifier,
	config *utils.Config,
	log *zap.Logger,
) PaymentService {
	return &paymentService{
		bookings: bookings,
		plans:    plans,
		gateway:  gw,
		codec:    codec,
		denoms:   denoms,
		notifier: notifier,
		config:   config,
		now:      time.Now,
		newID:    utils.GenerateBookingID,
		dispatch: func(f func()) { go f() },
		log:      log.With(zap.String("service", "payment")),
	}
}

func (s *paymentService) Verify(ctx context.Context, sessionHandle string) (*response.BookingResponse, error) {
	booking, err := s.verify(ctx, sessionHandle)
	if err != nil {
		return nil, err
	}
	return toBookingResponse(booking, s.denoms, s.config.App.PublicURL), nil
}

func (s *paymentService) verify(ctx context.Context, sessionHandle string) (*entity.Booking, error) {
	sessionHandle = strings.TrimSpace(sessionHandle)
	if sessionHandle == "" {
		return nil, ErrMissingSession
	}
	log := s.log.With(zap.String("session_id", sessionHandle))

	session, err := s.gateway.RetrieveSession(ctx, sessionHandle)
	if err != nil {
		observability.VerificationsTotal.WithLabelValues(observability.OutcomeError).Inc()
		return nil, &VerificationError{
			SessionHandle: sessionHandle,
			Err: &GatewayError{
				Op:            "retrieve checkout session",
				SessionHandle: sessionHandle,
				Message:       gatewayMessage(err),
				Err:           err,
			},
		}
	}

	if !session.IsPaid() {
		log.Info("Session not paid",
			zap.String("status", string(session.Status)),
			zap.String("payment_status", string(session.PaymentStatus)),
		)
		observability.VerificationsTotal.WithLabelValues(observability.OutcomeNotPaid).Inc()
		return nil, ErrNotPaid
	}

	existing, err := s.bookings.FindByPaymentReference(ctx, session.PaymentReference)
	if err != nil {
		observability.VerificationsTotal.WithLabelValues(observability.OutcomeError).Inc()
		return nil, &VerificationError{SessionHandle: sessionHandle, Err: err}
	}
	if existing != nil {
		observability.VerificationsTotal.WithLabelValues(observability.OutcomeExisting).Inc()
		return existing, nil
	}

	booking := s.buildBooking(ctx, session, log)

	stored, inserted, err := s.bookings.InsertIfAbsent(ctx, booking)
	if errors.Is(err, repository.ErrDuplicateBookingID) {
		previous := booking.ID
		booking.ID = s.newID(s.now())
		log.Warn("Booking id taken, retrying with a new one",
			zap.String("previous_id", previous),
			zap.String("booking_id", booking.ID),
		)
		stored, inserted, err = s.bookings.InsertIfAbsent(ctx, booking)
	}
	if err != nil {
		observability.VerificationsTotal.WithLabelValues(observability.OutcomeError).Inc()
		return nil, &VerificationError{SessionHandle: sessionHandle, Err: fmt.Errorf("store booking: %w", err)}
	}

	if !inserted {
		observability.VerificationsTotal.WithLabelValues(observability.OutcomeExisting).Inc()
		return stored, nil
	}

	log.Info("Booking created",
		zap.String("booking_id", stored.ID),
		zap.String("payment_reference", stored.PaymentReference),
		zap.String("amount", stored.Amount.String()),
		zap.String("currency", stored.Currency),
	)
	observability.VerificationsTotal.WithLabelValues(observability.OutcomeOK).Inc()

	paid := *stored
	s.dispatch(func() {
		notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
		defer cancel()
		s.notifier.BookingPaid(notifyCtx, &paid)
	})

	return stored, nil
}

func (s *paymentService) buildBooking(ctx context.Context, session *gateway.Session, log *zap.Logger) *entity.Booking {
	meta := session.Metadata

	form, failed := s.codec.Decode(meta)
	if len(failed) > 0 {
		log.Warn("Session metadata incomplete, storing booking with partial details",
			zap.Strings("groups", failed),
		)
	}

	bookingID := meta[metaBookingID]
	if bookingID == "" {
		bookingID = s.newID(s.now())
	}

	var userID *uuid.UUID
	if raw := meta[metaUserID]; raw != "" && raw != guestUser {
		if id, err := uuid.Parse(raw); err == nil {
			userID = &id
		} else {
			log.Warn("Ignoring malformed user id in metadata", zap.String("user_id", raw))
		}
	}

	planName := meta[metaPlanName]
	if planName == "" && meta[metaPlanID] != "" {
		if plan, err := s.plans.FindByID(ctx, meta[metaPlanID]); err == nil && plan != nil {
			planName = plan.Name
		}
	}

	return &entity.Booking{
		ID:               bookingID,
		UserID:           userID,
		PlanID:           meta[metaPlanID],
		PlanNameSnapshot: planName,
		Amount:           s.denoms.FromMinorUnits(session.AmountMinorUnits, session.Currency),
		Currency:         session.Currency,
		PaymentReference: session.PaymentReference,
		SessionHandle:    session.ID,
		PaymentMethod:    meta[metaPaymentMethod],
		PassengerDetails: form,
		Status:           entity.BookingStatusPaid,
		CreatedAt:        s.now().UTC(),
	}
}

func (s *paymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		s.log.Warn("Rejected webhook", zap.Error(err))
		return ErrInvalidSignature
	}

	switch event.Type {
	case gateway.EventSessionCompleted, gateway.EventSessionAsyncPaymentSucceeded:
	default:
		s.log.Debug("Ignoring webhook event", zap.String("event_id", event.ID), zap.String("type", string(event.Type)))
		return nil
	}

	_, err = s.verify(ctx, event.SessionID)
	if errors.Is(err, ErrNotPaid) {
		// async methods complete the session before the money settles
		return nil
	}
	return err
}
