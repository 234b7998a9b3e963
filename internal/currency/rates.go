// Package currency converts plan prices into the customer's currency and
// turns decimal amounts into the integer minor units the gateway charges.
package currency

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrNegativeAmount      = errors.New("amount must not be negative")
)

// RateTable holds the rates of every known currency relative to Base.
type RateTable struct {
	Base      string                     `json:"base"`
	Rates     map[string]decimal.Decimal `json:"rates"`
	FetchedAt time.Time                  `json:"fetched_at"`
}

// Rate returns the multiplier that turns one unit of Base into target.
func (t *RateTable) Rate(target string) (decimal.Decimal, bool) {
	if target == t.Base {
		return decimal.NewFromInt(1), true
	}
	rate, ok := t.Rates[target]
	if !ok || !rate.IsPositive() {
		return decimal.Zero, false
	}
	return rate, true
}

type RateProvider interface {
	FetchRates(ctx context.Context, base string) (*RateTable, error)
}

// RateCache returns (nil, nil) on a miss or an expired entry.
type RateCache interface {
	Get(ctx context.Context, base string) (*RateTable, error)
	Set(ctx context.Context, table *RateTable) error
}
