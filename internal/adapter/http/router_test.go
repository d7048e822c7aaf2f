package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/debtledger/internal/adapter/http/handler"
	apimiddleware "github.com/iho/debtledger/internal/adapter/http/middleware"
	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/infrastructure/auth"
	"github.com/iho/debtledger/internal/usecase/mocks"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterGuardsWebhook(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	send := func(path string) int {
		method := http.MethodGet
		var body *strings.Reader
		if path == "/webhook" {
			method = http.MethodPost
			body = strings.NewReader(`{"event":"onack"}`)
		} else {
			body = strings.NewReader("")
		}
		req := httptest.NewRequest(method, path, body)
		req.RemoteAddr = "1.2.3.4:1234"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send("/webhook"); code != http.StatusOK {
		t.Fatalf("expected first webhook to succeed, got %d", code)
	}
	if code := send("/webhook"); code != http.StatusTooManyRequests {
		t.Fatalf("expected second webhook to be throttled, got %d", code)
	}
	if code := send("/health"); code != http.StatusOK {
		t.Fatalf("health must not be rate limited, got %d", code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := mocks.NewFakeIdempotencyStore()
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	put := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, "/api/v1/accounts/5511999990000/due-date", strings.NewReader(`{"due_date":"10/03"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	if rec := put(); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	replay := put()
	if replay.Header().Get(apimiddleware.IdempotencyReplayHeader) != "true" {
		t.Fatalf("expected replayed response, got headers %v", replay.Header())
	}
}

func TestNewRouter_MetricsEndpoint(t *testing.T) {
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.Registry = prometheus.NewRegistry()
	}))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/debtors", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "http_requests_total") {
		t.Fatalf("expected http metrics to be exposed, got %d", rec.Code)
	}
}

func TestNewRouter_AuthProtectsAdminAPI(t *testing.T) {
	manager := auth.NewJWTManager("secret", time.Minute)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.TokenVerifier = manager
	}))

	viewer, err := manager.Generate(&domain.Operator{ID: "viewer", Role: domain.RoleViewer})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	admin, err := manager.Generate(&domain.Operator{ID: "admin", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{name: "anonymous read", method: http.MethodGet, path: "/api/v1/debtors", status: http.StatusUnauthorized},
		{name: "viewer read", method: http.MethodGet, path: "/api/v1/debtors", token: viewer, status: http.StatusOK},
		{name: "viewer delete", method: http.MethodDelete, path: "/api/v1/accounts/5511999990000", token: viewer, status: http.StatusForbidden},
		{name: "admin delete", method: http.MethodDelete, path: "/api/v1/accounts/5511999990000", token: admin, status: http.StatusNoContent},
		{name: "webhook stays open", method: http.MethodPost, path: "/webhook", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := ""
			if tt.path == "/webhook" {
				body = `{"event":"onack"}`
			}
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(body))
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
		})
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+strings.TrimSuffix(route, "/")] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /webhook",
		"GET /api/v1/debtors",
		"GET /api/v1/accounts/{id}",
		"GET /api/v1/accounts/{id}/transactions",
		"PUT /api/v1/accounts/{id}/balance",
		"PUT /api/v1/accounts/{id}/due-date",
		"DELETE /api/v1/accounts/{id}",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered, got %v", route, seen)
		}
	}
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	cfg := RouterConfig{
		HealthHandler:  handler.NewHealthHandler(),
		AccountHandler: handler.NewAccountHandler(stubLedger{}),
		WebhookHandler: handler.NewWebhookHandler(handler.WebhookConfig{Events: stubEvents{}, Logger: zerolog.Nop()}),
		Logger:         zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type stubEvents struct{}

func (stubEvents) Handle(ctx context.Context, ev *domain.InboundEvent) error { return nil }

type stubLedger struct{}

func (stubLedger) GetBalance(ctx context.Context, accountID string) (*domain.Account, error) {
	return &domain.Account{ID: accountID, Balance: decimal.NewFromInt(10)}, nil
}

func (stubLedger) History(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error) {
	return []*domain.Transaction{}, nil
}

func (stubLedger) SetBalance(ctx context.Context, accountID string, value decimal.Decimal) (decimal.Decimal, error) {
	return value.Ceil(), nil
}

func (stubLedger) SetDueDate(ctx context.Context, accountID, rawDate string) (string, error) {
	return rawDate, nil
}

func (stubLedger) Purge(ctx context.Context, accountID string) error { return nil }

func (stubLedger) ListDebtors(ctx context.Context) ([]domain.Debtor, error) {
	return []domain.Debtor{}, nil
}
