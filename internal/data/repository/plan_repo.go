package repository

import (
	"context"
	"errors"
	"fmt"

	"flight-reservation/internal/data/entity"
	"flight-reservation/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type PlanRepository interface {
	FindByID(ctx context.Context, id string) (*entity.ServicePlan, error)
	FindAllActive(ctx context.Context) ([]*entity.ServicePlan, error)
}

type planRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPlanRepository(db database.PgxIface, log *zap.Logger) PlanRepository {
	return &planRepository{
		db:  db,
		log: log.With(zap.String("repository", "plan")),
	}
}

const planColumns = `
	id, name, base_price_usd::text, description, features, is_active,
	sort_order, created_at, updated_at`

// FindByID returns active plans only; a retired plan cannot be bought.
func (r *planRepository) FindByID(ctx context.Context, id string) (*entity.ServicePlan, error) {
	query := `SELECT ` + planColumns + ` FROM service_plans WHERE id = $1 AND is_active`

	plan, err := scanPlan(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find plan by ID",
			zap.Error(err),
			zap.String("plan_id", id),
		)
		return nil, fmt.Errorf("find plan by ID %s: %w", id, err)
	}

	return plan, nil
}

func (r *planRepository) FindAllActive(ctx context.Context) ([]*entity.ServicePlan, error) {
	query := `SELECT ` + planColumns + `
		FROM service_plans
		WHERE is_active
		ORDER BY sort_order, base_price_usd
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list plans", zap.Error(err))
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	var plans []*entity.ServicePlan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			r.log.Error("Failed to scan plan row", zap.Error(err))
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		plans = append(plans, plan)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plans: %w", err)
	}

	return plans, nil
}

func scanPlan(row pgx.Row) (*entity.ServicePlan, error) {
	var (
		plan  entity.ServicePlan
		price string
	)
	err := row.Scan(
		&plan.ID,
		&plan.Name,
		&price,
		&plan.Description,
		&plan.Features,
		&plan.IsActive,
		&plan.SortOrder,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	plan.BasePriceUSD, err = decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("parse price %q: %w", price, err)
	}

	return &plan, nil
}
