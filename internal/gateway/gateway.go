// Package gateway hides the payment provider behind a small session API.
package gateway

import (
	"context"
	"fmt"
)

// Session template token the provider substitutes in redirect URLs.
const SessionIDToken = "{CHECKOUT_SESSION_ID}"

type Gateway interface {
	// CreateSession is never retried automatically, a retry could open a
	// second session for the same customer.
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
	RetrieveSession(ctx context.Context, id string) (*Session, error)
	// ParseWebhook checks the signature and extracts the session the
	// event is about.
	ParseWebhook(payload []byte, signature string) (*Event, error)
}

type SessionRequest struct {
	ClientReferenceID string
	ProductName       string
	Description       string
	AmountMinorUnits  int64
	Currency          string
	MethodKinds       []string
	CustomerEmail     string
	Metadata          map[string]string
	SuccessURL        string
	CancelURL         string
}

type SessionStatus string

const (
	SessionOpen     SessionStatus = "open"
	SessionComplete SessionStatus = "complete"
	SessionExpired  SessionStatus = "expired"
)

type PaymentStatus string

const (
	PaymentPaid   PaymentStatus = "paid"
	PaymentUnpaid PaymentStatus = "unpaid"
)

type Session struct {
	ID               string
	URL              string
	Status           SessionStatus
	PaymentStatus    PaymentStatus
	PaymentReference string
	AmountMinorUnits int64
	Currency         string
	Metadata         map[string]string
}

// IsPaid reports whether the customer finished checkout and the charge settled.
func (s *Session) IsPaid() bool {
	return s.Status == SessionComplete && s.PaymentStatus == PaymentPaid
}

type EventType string

const (
	EventSessionCompleted             EventType = "checkout.session.completed"
	EventSessionAsyncPaymentSucceeded EventType = "checkout.session.async_payment_succeeded"
)

type Event struct {
	ID        string
	Type      EventType
	SessionID string
}

// Error is a provider failure with the message safe to show the caller.
type Error struct {
	Op         string
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Op, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}
