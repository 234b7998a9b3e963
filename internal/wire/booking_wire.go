package wire

import (
	"flight-reservation/internal/adaptor"
	"flight-reservation/internal/data/repository"
	"flight-reservation/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// GET /api/user/bookings - Booking history of the signed-in user
		r.Get("/api/user/bookings", bookingHandler.GetUserBookings)
	})

	// ==================== PUBLIC ROUTES ====================
	// GET /api/bookings/{bookingId} - Booking by reference for the success page
	r.Get("/api/bookings/{bookingId}", bookingHandler.GetBookingByID)

	// GET /api/receipt/{bookingId} - Reservation document as PDF
	r.Get("/api/receipt/{bookingId}", bookingHandler.DownloadReceipt)
}
