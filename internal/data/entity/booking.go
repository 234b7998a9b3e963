package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPendingVerification BookingStatus = "pending_verification"
	BookingStatusPaid                BookingStatus = "paid"
	BookingStatusFailed              BookingStatus = "failed"
)

// Booking is one paid reservation document. PaymentReference is unique.
type Booking struct {
	ID               string          `db:"id"`
	UserID           *uuid.UUID      `db:"user_id"`
	PlanID           string          `db:"plan_id"`
	PlanNameSnapshot string          `db:"plan_name_snapshot"`
	Amount           decimal.Decimal `db:"amount"`
	Currency         string          `db:"currency"`
	PaymentReference string          `db:"payment_reference"`
	SessionHandle    string          `db:"session_handle"`
	PaymentMethod    string          `db:"payment_method"`
	PassengerDetails PassengerForm   `db:"passenger_details"`
	Status           BookingStatus   `db:"status"`
	CreatedAt        time.Time       `db:"created_at"`
}

// IsGuest reports whether the booking was made without a signed-in user.
func (b *Booking) IsGuest() bool {
	return b.UserID == nil
}
