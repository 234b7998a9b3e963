package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"flight-reservation/internal/dto/request"
	"flight-reservation/internal/metadata"
	"flight-reservation/internal/usecase"
	"flight-reservation/pkg/utils"

	"go.uber.org/zap"
)

type CheckoutHandler struct {
	checkout usecase.CheckoutService
	payment  usecase.PaymentService
	log      *zap.Logger
}

func NewCheckoutHandler(checkout usecase.CheckoutService, payment usecase.PaymentService, log *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		payment:  payment,
		log:      log.With(zap.String("handler", "checkout")),
	}
}

// Checkout handles POST /api/checkout (optional auth)
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req request.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		h.log.Debug("Checkout validation failed", zap.String("errors", utils.FormatValidationErrors(validationErrors)))
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	// guests have no user in context
	session, err := h.checkout.Initiate(r.Context(), utils.CurrentUser(r.Context()), &req)
	if err != nil {
		h.handleServiceError(w, err, "create checkout session")
		return
	}

	utils.ResponseCreated(w, "success", session)
}

// VerifyPayment handles POST /api/checkout/verify (public)
func (h *CheckoutHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	booking, err := h.payment.Verify(r.Context(), req.SessionHandle)
	if err != nil {
		h.handleServiceError(w, err, "verify payment")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

func (h *CheckoutHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	var (
		tooLarge     *metadata.ChunkTooLargeError
		verification *usecase.VerificationError
		gatewayErr   *usecase.GatewayError
	)

	switch {
	case errors.Is(err, usecase.ErrInvalidPlan):
		h.log.Warn(operation+" failed - invalid plan", zap.Error(err))
		utils.ResponseBadRequest(w, "Invalid plan selected", nil)

	case errors.Is(err, usecase.ErrMissingSession):
		utils.ResponseBadRequest(w, "Session handle is required", nil)

	case errors.As(err, &tooLarge):
		h.log.Warn(operation+" failed - form too large",
			zap.String("group", tooLarge.Group),
			zap.Int("length", tooLarge.Length))
		utils.ResponseBadRequest(w, "Validation failed", map[string]string{
			tooLarge.Group: tooLarge.Error(),
		})

	case errors.Is(err, usecase.ErrNotPaid):
		utils.ResponsePaymentRequired(w, "Payment has not been completed", nil)

	// checked before GatewayError, which it may wrap
	case errors.As(err, &verification):
		h.log.Error(operation+" failed after payment",
			zap.String("session_id", verification.SessionHandle),
			zap.Error(err))
		utils.ResponseInternalError(w, verification.UserMessage(), map[string]string{
			"session_handle": verification.SessionHandle,
		})

	case errors.As(err, &gatewayErr):
		h.log.Error(operation+" failed - payment gateway", zap.Error(err))
		utils.ResponseInternalError(w, gatewayErr.Message, nil)

	default:
		h.log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error", nil)
	}
}
