package usecase

import (
	"context"
	"fmt"

	"flight-reservation/internal/data/entity"
	"flight-reservation/internal/data/repository"
	"flight-reservation/internal/dto/response"

	"go.uber.org/zap"
)

type PlanService interface {
	GetPlans(ctx context.Context) ([]*response.PlanResponse, error)
	GetPlanByID(ctx context.Context, planID string) (*response.PlanResponse, error)
}

type planService struct {
	plans repository.PlanRepository
	log   *zap.Logger
}

func NewPlanService(plans repository.PlanRepository, log *zap.Logger) PlanService {
	return &planService{
		plans: plans,
		log:   log.With(zap.String("service", "plan")),
	}
}

func (s *planService) GetPlans(ctx context.Context) ([]*response.PlanResponse, error) {
	plans, err := s.plans.FindAllActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("get plans: %w", err)
	}

	out := make([]*response.PlanResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, toPlanResponse(p))
	}
	return out, nil
}

func (s *planService) GetPlanByID(ctx context.Context, planID string) (*response.PlanResponse, error) {
	plan, err := s.plans.FindByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("get plan %s: %w", planID, err)
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	return toPlanResponse(plan), nil
}

func toPlanResponse(p *entity.ServicePlan) *response.PlanResponse {
	features := p.Features
	if features == nil {
		features = []string{}
	}
	return &response.PlanResponse{
		ID:           p.ID,
		Name:         p.Name,
		BasePriceUSD: p.BasePriceUSD.StringFixed(2),
		Description:  p.Description,
		Features:     features,
	}
}
