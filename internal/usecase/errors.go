package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPlan      = errors.New("invalid plan")
	ErrNotPaid          = errors.New("payment not completed")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrPlanNotFound     = errors.New("plan not found")
	ErrMissingSession   = errors.New("session handle is required")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// GatewayError is a payment provider failure. Message is safe to show.
type GatewayError struct {
	Op            string
	SessionHandle string
	Message       string
	Err           error
}

func (e *GatewayError) Error() string {
	if e.SessionHandle != "" {
		return fmt.Sprintf("%s for session %s: %s", e.Op, e.SessionHandle, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// VerificationError means the customer may have been charged but the booking
// could not be confirmed; support needs the session handle.
type VerificationError struct {
	SessionHandle string
	Err           error
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("verify session %s: %v", e.SessionHandle, e.Err)
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}

// UserMessage is what the customer sees.
func (e *VerificationError) UserMessage() string {
	return fmt.Sprintf("Payment verification failed. Please contact support with reference %s.", e.SessionHandle)
}
