package adaptor

import (
	"errors"
	"net/http"

	"flight-reservation/internal/usecase"
	"flight-reservation/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PlanHandler struct {
	service usecase.PlanService
	log     *zap.Logger
}

func NewPlanHandler(service usecase.PlanService, log *zap.Logger) *PlanHandler {
	return &PlanHandler{
		service: service,
		log:     log.With(zap.String("handler", "plan")),
	}
}

// GetPlans handles GET /api/plans (public)
func (h *PlanHandler) GetPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.service.GetPlans(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "get plans")
		return
	}

	utils.ResponseSuccess(w, "success", plans)
}

// GetPlanByID handles GET /api/plans/{id} (public)
func (h *PlanHandler) GetPlanByID(w http.ResponseWriter, r *http.Request) {
	planID := chi.URLParam(r, "id")
	if planID == "" {
		utils.ResponseBadRequest(w, "Plan ID is required", nil)
		return
	}

	plan, err := h.service.GetPlanByID(r.Context(), planID)
	if err != nil {
		h.handleServiceError(w, err, "get plan by ID")
		return
	}

	utils.ResponseSuccess(w, "success", plan)
}

func (h *PlanHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, usecase.ErrPlanNotFound):
		h.log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, "Plan not found")

	default:
		h.log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error", nil)
	}
}
