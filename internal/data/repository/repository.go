package repository

import (
	"flight-reservation/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Session SessionRepository
	Plan    PlanRepository
	Booking BookingRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Session: NewSessionRepository(db, log),
		Plan:    NewPlanRepository(db, log),
		Booking: NewBookingRepository(db, log),
	}
}
