package currency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"flight-reservation/internal/observability"
)

// fetchAttempts covers the first request plus one retry.
const fetchAttempts = 2

var errBadPayload = errors.New("malformed rates payload")

type HTTPRateProvider struct {
	baseURL string
	client  *http.Client
	backoff time.Duration
	log     *zap.Logger
}

// NewHTTPRateProvider reads tables from {baseURL}/{base}, the layout of
// exchangerate-api.com and its open mirrors.
func NewHTTPRateProvider(baseURL string, timeout time.Duration, log *zap.Logger) *HTTPRateProvider {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPRateProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		backoff: 200 * time.Millisecond,
		log:     log.With(zap.String("component", "fx_provider")),
	}
}

type ratesPayload struct {
	Base  string                     `json:"base"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("fx provider responded with status %d", e.code)
}

func (p *HTTPRateProvider) FetchRates(ctx context.Context, base string) (*RateTable, error) {
	var lastErr error
	for attempt := 1; attempt <= fetchAttempts; attempt++ {
		table, err := p.fetch(ctx, base)
		if err == nil {
			observability.FXRateFetches.WithLabelValues("ok").Inc()
			return table, nil
		}
		lastErr = err
		p.log.Warn("fetch rates failed",
			zap.String("base", base),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		if !retryable(ctx, err) || attempt == fetchAttempts {
			break
		}
		select {
		case <-ctx.Done():
			observability.FXRateFetches.WithLabelValues("error").Inc()
			return nil, ctx.Err()
		case <-time.After(p.backoff):
		}
	}

	observability.FXRateFetches.WithLabelValues("error").Inc()
	return nil, fmt.Errorf("fetch %s rates: %w", base, lastErr)
}

func (p *HTTPRateProvider) fetch(ctx context.Context, base string) (*RateTable, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/"+base, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &statusError{code: resp.StatusCode}
	}

	var payload ratesPayload
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", errBadPayload, err)
	}
	if len(payload.Rates) == 0 {
		return nil, fmt.Errorf("%w: no rates for %s", errBadPayload, base)
	}

	rates := make(map[string]decimal.Decimal, len(payload.Rates))
	for code, rate := range payload.Rates {
		rates[strings.ToUpper(code)] = rate
	}

	return &RateTable{Base: base, Rates: rates, FetchedAt: time.Now().UTC()}, nil
}

// retryable reports whether a second attempt can help: transport failures and
// server errors yes, client errors and bad payloads no.
func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errors.Is(err, errBadPayload) {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= http.StatusInternalServerError || se.code == http.StatusTooManyRequests
	}
	return true
}
