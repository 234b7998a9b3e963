package adaptor

import (
	"errors"
	"net/http"

	"flight-reservation/internal/dto/request"
	"flight-reservation/internal/usecase"
	"flight-reservation/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	receipt usecase.ReceiptService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, receipt usecase.ReceiptService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		receipt: receipt,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// GetBookingByID handles GET /api/bookings/{bookingId} (public)
func (h *BookingHandler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	booking, err := h.service.GetBookingByID(r.Context(), bookingID)
	if err != nil {
		h.handleServiceError(w, err, "get booking by ID")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// GetUserBookings handles GET /api/user/bookings (protected)
func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	bookings, err := h.service.GetUserBookings(r.Context(), userID, req)
	if err != nil {
		h.handleServiceError(w, err, "get user bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// DownloadReceipt handles GET /api/receipt/{bookingId} (public)
func (h *BookingHandler) DownloadReceipt(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	file, err := h.receipt.GenerateReceipt(r.Context(), bookingID)
	if err != nil {
		h.handleServiceError(w, err, "generate receipt")
		return
	}

	utils.ResponseFile(w, file.ContentType, file.Filename, file.Content)
}

func (h *BookingHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, usecase.ErrBookingNotFound):
		h.log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, "Booking not found")

	default:
		h.log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error", nil)
	}
}
