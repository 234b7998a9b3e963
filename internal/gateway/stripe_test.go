package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79/webhook"
	"go.uber.org/zap"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) *StripeGateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewStripeGateway(StripeConfig{
		SecretKey:     "sk_test_123",
		WebhookSecret: "whsec_test",
		Timeout:       time.Second,
		BaseURL:       srv.URL,
	}, zap.NewNop())
}

func TestStripeGateway_CreateSession(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		require.NoError(t, r.ParseForm())

		assert.Equal(t, "payment", r.PostForm.Get("mode"))
		assert.Equal(t, "eur", r.PostForm.Get("line_items[0][price_data][currency]"))
		assert.Equal(t, "1748", r.PostForm.Get("line_items[0][price_data][unit_amount]"))
		assert.Equal(t, "Standard", r.PostForm.Get("line_items[0][price_data][product_data][name]"))
		assert.Equal(t, "1", r.PostForm.Get("line_items[0][quantity]"))
		assert.Equal(t, "klarna", r.PostForm.Get("payment_method_types[0]"))
		assert.Equal(t, "TKT-2026-ABC123", r.PostForm.Get("client_reference_id"))
		assert.Equal(t, "TKT-2026-ABC123", r.PostForm.Get("metadata[booking_id]"))
		assert.Equal(t, "https://app.test/ok?session_id={CHECKOUT_SESSION_ID}", r.PostForm.Get("success_url"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_test_1","object":"checkout.session","url":"https://checkout.stripe.com/c/pay/cs_test_1","status":"open","payment_status":"unpaid","amount_total":1748,"currency":"eur"}`))
	})

	s, err := g.CreateSession(context.Background(), SessionRequest{
		ClientReferenceID: "TKT-2026-ABC123",
		ProductName:       "Standard",
		AmountMinorUnits:  1748,
		Currency:          "EUR",
		MethodKinds:       []string{"klarna"},
		Metadata:          map[string]string{"booking_id": "TKT-2026-ABC123"},
		SuccessURL:        "https://app.test/ok?session_id=" + SessionIDToken,
		CancelURL:         "https://app.test/cancel?session_id=" + SessionIDToken,
	})
	require.NoError(t, err)

	assert.Equal(t, "cs_test_1", s.ID)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_1", s.URL)
	assert.Equal(t, "EUR", s.Currency)
	assert.False(t, s.IsPaid())
}

func TestStripeGateway_CreateSessionProviderError(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","code":"amount_too_small","message":"Amount must be at least 50 cents"}}`))
	})

	_, err := g.CreateSession(context.Background(), SessionRequest{
		ProductName: "Basic", AmountMinorUnits: 10, Currency: "USD", MethodKinds: []string{"card"},
	})
	require.Error(t, err)

	var gerr *Error
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, "amount_too_small", gerr.Code)
	assert.Equal(t, "Amount must be at least 50 cents", gerr.Message)
	assert.Equal(t, http.StatusBadRequest, gerr.HTTPStatus)
}

func TestStripeGateway_RetrieveSession(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/checkout/sessions/cs_test_1", r.URL.Path)
		assert.Equal(t, "payment_intent", r.URL.Query().Get("expand[0]"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id":"cs_test_1","object":"checkout.session","status":"complete","payment_status":"paid",
			"amount_total":1748,"currency":"eur",
			"payment_intent":{"id":"pi_123","object":"payment_intent"},
			"metadata":{"booking_id":"TKT-2026-ABC123","plan_id":"standard"}
		}`))
	})

	s, err := g.RetrieveSession(context.Background(), "cs_test_1")
	require.NoError(t, err)

	assert.True(t, s.IsPaid())
	assert.Equal(t, "pi_123", s.PaymentReference)
	assert.Equal(t, int64(1748), s.AmountMinorUnits)
	assert.Equal(t, "standard", s.Metadata["plan_id"])
}

func TestStripeGateway_RetrieveSessionWithoutIntent(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_test_2","object":"checkout.session","status":"open","payment_status":"unpaid"}`))
	})

	s, err := g.RetrieveSession(context.Background(), "cs_test_2")
	require.NoError(t, err)
	assert.Equal(t, "cs_test_2", s.PaymentReference)
	assert.False(t, s.IsPaid())
}

func TestStripeGateway_ParseWebhook(t *testing.T) {
	g := NewStripeGateway(StripeConfig{SecretKey: "sk_test_123", WebhookSecret: "whsec_test"}, zap.NewNop())
	payload := []byte(`{
		"id":"evt_1","object":"event","type":"checkout.session.completed",
		"data":{"object":{"id":"cs_test_1","object":"checkout.session"}}
	}`)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    "whsec_test",
		Timestamp: time.Now(),
	})

	event, err := g.ParseWebhook(signed.Payload, signed.Header)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, EventSessionCompleted, event.Type)
	assert.Equal(t, "cs_test_1", event.SessionID)

	_, err = g.ParseWebhook(payload, "t=1,v1=bad")
	assert.Error(t, err)
}
