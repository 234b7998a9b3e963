package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlanPriceCurrency is the currency of ServicePlan.BasePriceUSD.
const PlanPriceCurrency = "USD"

// ServicePlan is read-only here; plans are managed by the admin tooling.
type ServicePlan struct {
	ID           string          `db:"id"`
	Name         string          `db:"name"`
	BasePriceUSD decimal.Decimal `db:"base_price_usd"`
	Description  string          `db:"description"`
	Features     []string        `db:"features"`
	IsActive     bool            `db:"is_active"`
	SortOrder    int             `db:"sort_order"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}
