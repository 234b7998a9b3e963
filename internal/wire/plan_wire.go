package wire

import (
	"flight-reservation/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wirePlan(r chi.Router, planHandler *adaptor.PlanHandler) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/plans - Active plans ordered by price
	r.Get("/api/plans", planHandler.GetPlans)

	// GET /api/plans/{id} - Plan details
	r.Get("/api/plans/{id}", planHandler.GetPlanByID)
}
