package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"flight-reservation/internal/data/entity"
	"flight-reservation/internal/observability"
	"flight-reservation/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) FindValidSession(ctx context.Context, token uuid.UUID) (*entity.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Session), args.Error(1)
}

// echoUser writes the user id found in the context, or "guest".
var echoUser = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	if userID := utils.CurrentUser(r.Context()); userID != nil {
		w.Write([]byte(userID.String()))
		return
	}
	w.Write([]byte("guest"))
})

func TestAuthSession(t *testing.T) {
	userID := uuid.New()
	valid := uuid.New()
	expired := uuid.New()
	broken := uuid.New()

	repo := new(MockSessionRepository)
	repo.On("FindValidSession", mock.Anything, valid).Return(&entity.Session{UserID: userID, Token: valid}, nil)
	repo.On("FindValidSession", mock.Anything, expired).Return(nil, nil)
	repo.On("FindValidSession", mock.Anything, broken).Return(nil, errors.New("conn closed"))

	handler := AuthSession(repo, zap.NewNop())(echoUser)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "valid", header: "Bearer " + valid.String(), wantStatus: http.StatusOK, wantBody: userID.String()},
		{name: "lowercase scheme", header: "bearer " + valid.String(), wantStatus: http.StatusOK, wantBody: userID.String()},
		{name: "missing", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + valid.String(), wantStatus: http.StatusUnauthorized},
		{name: "not a uuid", header: "Bearer abc", wantStatus: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + expired.String(), wantStatus: http.StatusUnauthorized},
		{name: "lookup failure", header: "Bearer " + broken.String(), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/user/bookings", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	userID := uuid.New()
	valid := uuid.New()
	expired := uuid.New()
	broken := uuid.New()

	repo := new(MockSessionRepository)
	repo.On("FindValidSession", mock.Anything, valid).Return(&entity.Session{UserID: userID, Token: valid}, nil)
	repo.On("FindValidSession", mock.Anything, expired).Return(nil, nil)
	repo.On("FindValidSession", mock.Anything, broken).Return(nil, errors.New("conn closed"))

	handler := OptionalAuth(repo, zap.NewNop())(echoUser)

	tests := []struct {
		name     string
		header   string
		wantBody string
	}{
		{name: "signed in", header: "Bearer " + valid.String(), wantBody: userID.String()},
		{name: "no header", header: "", wantBody: "guest"},
		{name: "garbage token", header: "Bearer nope", wantBody: "guest"},
		{name: "expired", header: "Bearer " + expired.String(), wantBody: "guest"},
		{name: "lookup failure", header: "Bearer " + broken.String(), wantBody: "guest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/checkout", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestCORS(t *testing.T) {
	handler := CORS([]string{"https://flyproof.example/"})(echoUser)

	t.Run("preflight from allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/checkout", nil)
		req.Header.Set("Origin", "https://flyproof.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "https://flyproof.example", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("other origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/plans", nil)
		req.Header.Set("Origin", "https://evil.example")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestCORS_Wildcard(t *testing.T) {
	handler := CORS([]string{"*", "https://flyproof.example"})(echoUser)

	t.Run("unlisted origin gets anonymous wildcard", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/checkout", nil)
		req.Header.Set("Origin", "https://other.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("listed origin keeps credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/plans", nil)
		req.Header.Set("Origin", "https://flyproof.example")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "https://flyproof.example", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	})
}

func TestRecover(t *testing.T) {
	handler := Recover(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/api/bookings/{bookingId}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/bookings/TKT-2026-0A1B2C", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, float64(1), testutil.ToFloat64(
		observability.RequestsTotal.WithLabelValues("/api/bookings/{bookingId}", "404", http.MethodGet),
	))
}
