package notify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"flight-reservation/internal/currency"
	"flight-reservation/internal/data/entity"
	"flight-reservation/internal/observability"
)

type Notifier interface {
	// BookingPaid runs every side effect of a new paid booking. Failures are
	// logged and counted, never returned.
	BookingPaid(ctx context.Context, booking *entity.Booking)
}

type NotifierConfig struct {
	Brand        string
	SupportEmail string
	AdminEmail   string
	PublicURL    string
}

type notifier struct {
	email  EmailSender
	events EventPublisher
	denoms *currency.Denominations
	cfg    NotifierConfig
	log    *zap.Logger
}

func NewNotifier(email EmailSender, events EventPublisher, denoms *currency.Denominations, cfg NotifierConfig, log *zap.Logger) Notifier {
	return &notifier{
		email:  email,
		events: events,
		denoms: denoms,
		cfg:    cfg,
		log:    log.With(zap.String("service", "notifier")),
	}
}

type bookingEmail struct {
	Brand            string
	SupportEmail     string
	BookingID        string
	PlanName         string
	Amount           string
	PaymentReference string
	PassengerName    string
	PassengerEmail   string
	From             string
	To               string
	DepartureDate    string
	ReturnDate       string
	ReceiptURL       string
	Guest            bool
}

func (n *notifier) BookingPaid(ctx context.Context, b *entity.Booking) {
	log := n.log.With(zap.String("booking_id", b.ID))
	data := n.emailData(b)

	if to := recipient(b); to != "" {
		if err := n.email.Send(ctx, to, TemplateBookingConfirmation, data); err != nil {
			observability.SideEffectFailures.WithLabelValues("confirmation_email").Inc()
			log.Warn("confirmation email failed", zap.Error(err))
		}
	} else {
		log.Warn("no recipient for confirmation email")
	}

	if n.cfg.AdminEmail != "" {
		if err := n.email.Send(ctx, n.cfg.AdminEmail, TemplateAdminBookingNotice, data); err != nil {
			observability.SideEffectFailures.WithLabelValues("admin_email").Inc()
			log.Warn("admin notice failed", zap.Error(err))
		}
	}

	event := BookingEvent{
		Type:             EventBookingPaid,
		BookingID:        b.ID,
		PlanID:           b.PlanID,
		Amount:           b.Amount.String(),
		Currency:         b.Currency,
		PaymentReference: b.PaymentReference,
		Guest:            b.IsGuest(),
		Email:            recipient(b),
		OccurredAt:       time.Now().UTC(),
	}
	if err := n.events.Publish(ctx, event); err != nil {
		observability.SideEffectFailures.WithLabelValues("booking_event").Inc()
		log.Warn("booking event failed", zap.Error(err))
	}
}

func (n *notifier) emailData(b *entity.Booking) bookingEmail {
	p := b.PassengerDetails.Passenger
	t := b.PassengerDetails.Travel

	return bookingEmail{
		Brand:            n.cfg.Brand,
		SupportEmail:     n.cfg.SupportEmail,
		BookingID:        b.ID,
		PlanName:         b.PlanNameSnapshot,
		Amount:           n.denoms.FormatAmount(b.Amount, b.Currency),
		PaymentReference: b.PaymentReference,
		PassengerName:    p.FullName(),
		PassengerEmail:   p.Email,
		From:             t.DepartureCity,
		To:               t.ArrivalCity,
		DepartureDate:    t.DepartureDate,
		ReturnDate:       t.ReturnDate,
		ReceiptURL:       n.cfg.PublicURL + "/api/receipt/" + b.ID,
		Guest:            b.IsGuest(),
	}
}

// recipient prefers the passenger address and falls back to billing.
func recipient(b *entity.Booking) string {
	if email := b.PassengerDetails.Passenger.Email; email != "" {
		return email
	}
	return b.PassengerDetails.Billing.Email
}
