package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
	"go.uber.org/zap"
)

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	Timeout       time.Duration
	// BaseURL overrides the API host, used against stripe-mock.
	BaseURL string
}

type StripeGateway struct {
	// creates never retry, lookups retry once
	writer        *client.API
	reader        *client.API
	webhookSecret string
	log           *zap.Logger
}

func NewStripeGateway(cfg StripeConfig, log *zap.Logger) *StripeGateway {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	return &StripeGateway{
		writer:        newStripeAPI(cfg, 0),
		reader:        newStripeAPI(cfg, 1),
		webhookSecret: cfg.WebhookSecret,
		log:           log.With(zap.String("component", "stripe")),
	}
}

func newStripeAPI(cfg StripeConfig, retries int64) *client.API {
	backendCfg := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: cfg.Timeout},
		MaxNetworkRetries: stripe.Int64(retries),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelError},
	}
	if cfg.BaseURL != "" {
		backendCfg.URL = stripe.String(cfg.BaseURL)
	}

	sc := &client.API{}
	sc.Init(cfg.SecretKey, &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, backendCfg),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, backendCfg),
	})
	return sc
}

func (g *StripeGateway) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice(req.MethodKinds),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(strings.ToLower(req.Currency)),
					UnitAmount: stripe.Int64(req.AmountMinorUnits),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.ProductName),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
		ClientReferenceID: stripe.String(req.ClientReferenceID),
	}
	if req.Description != "" {
		params.LineItems[0].PriceData.ProductData.Description = stripe.String(req.Description)
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	params.Context = ctx

	s, err := g.writer.CheckoutSessions.New(params)
	if err != nil {
		g.log.Error("create checkout session failed",
			zap.String("client_reference_id", req.ClientReferenceID),
			zap.Error(err),
		)
		return nil, wrapStripeError("create checkout session", err)
	}

	return toSession(s), nil
}

func (g *StripeGateway) RetrieveSession(ctx context.Context, id string) (*Session, error) {
	params := &stripe.CheckoutSessionParams{}
	params.AddExpand("payment_intent")
	params.Context = ctx

	s, err := g.reader.CheckoutSessions.Get(id, params)
	if err != nil {
		g.log.Error("retrieve checkout session failed", zap.String("session_id", id), zap.Error(err))
		return nil, wrapStripeError("retrieve checkout session", err)
	}

	return toSession(s), nil
}

func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		return nil, fmt.Errorf("verify webhook signature: %w", err)
	}

	out := &Event{ID: event.ID, Type: EventType(event.Type)}
	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted, stripe.EventTypeCheckoutSessionAsyncPaymentSucceeded:
		var s stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
			return nil, fmt.Errorf("decode checkout session event: %w", err)
		}
		out.SessionID = s.ID
	}

	return out, nil
}

func toSession(s *stripe.CheckoutSession) *Session {
	out := &Session{
		ID:               s.ID,
		URL:              s.URL,
		Status:           SessionStatus(s.Status),
		PaymentStatus:    PaymentStatus(s.PaymentStatus),
		AmountMinorUnits: s.AmountTotal,
		Currency:         strings.ToUpper(string(s.Currency)),
		Metadata:         s.Metadata,
	}
	// payment-mode sessions always carry an intent once paid
	if s.PaymentIntent != nil && s.PaymentIntent.ID != "" {
		out.PaymentReference = s.PaymentIntent.ID
	} else {
		out.PaymentReference = s.ID
	}
	return out
}

func wrapStripeError(op string, err error) error {
	var serr *stripe.Error
	if errors.As(err, &serr) {
		msg := serr.Msg
		if msg == "" {
			msg = "payment provider error"
		}
		return &Error{
			Op:         op,
			Code:       string(serr.Code),
			Message:    msg,
			HTTPStatus: serr.HTTPStatusCode,
			Err:        err,
		}
	}
	return &Error{Op: op, Message: err.Error(), Err: err}
}
