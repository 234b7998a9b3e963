package currency

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type Converter interface {
	// Convert returns amount expressed in to. The result is not rounded.
	Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error)
}

type converter struct {
	provider RateProvider
	caches   []RateCache
	group    singleflight.Group
	timeout  time.Duration
	log      *zap.Logger
}

// NewConverter looks up tables in caches, fastest first, before asking the
// provider. A fetched table is written back to every cache.
func NewConverter(provider RateProvider, log *zap.Logger, caches ...RateCache) Converter {
	return &converter{
		provider: provider,
		caches:   caches,
		timeout:  10 * time.Second,
		log:      log.With(zap.String("service", "currency")),
	}
}

func (c *converter) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}

	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if from == to {
		return amount, nil
	}

	table, err := c.rates(ctx, from)
	if err != nil {
		return decimal.Zero, err
	}

	rate, ok := table.Rate(to)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnsupportedCurrency, to)
	}

	return amount.Mul(rate), nil
}

func (c *converter) rates(ctx context.Context, base string) (*RateTable, error) {
	for i, cache := range c.caches {
		table, err := cache.Get(ctx, base)
		if err != nil {
			c.log.Warn("rate cache read failed", zap.String("base", base), zap.Error(err))
			continue
		}
		if table != nil {
			c.fill(ctx, c.caches[:i], table)
			return table, nil
		}
	}

	// waiters share this fetch, so it is detached from the first caller's cancellation
	v, err, _ := c.group.Do(base, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		table, err := c.provider.FetchRates(fetchCtx, base)
		if err != nil {
			return nil, err
		}
		c.fill(fetchCtx, c.caches, table)
		return table, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*RateTable), nil
}

func (c *converter) fill(ctx context.Context, caches []RateCache, table *RateTable) {
	for _, cache := range caches {
		if err := cache.Set(ctx, table); err != nil {
			c.log.Warn("rate cache write failed", zap.String("base", table.Base), zap.Error(err))
		}
	}
}
