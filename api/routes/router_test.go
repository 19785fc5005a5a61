package routes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/revendedor/painel-backend/internal/packages"
	"github.com/revendedor/painel-backend/internal/resellers"
	pkgAuth "github.com/revendedor/painel-backend/pkg/auth"
	"github.com/revendedor/painel-backend/pkg/config"
	pkgerrors "github.com/revendedor/painel-backend/pkg/errors"
	"github.com/revendedor/painel-backend/pkg/metrics"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

type stubResellers struct{}

func (stubResellers) Resolve(_ context.Context, userID int64) (*resellers.Identity, error) {
	if userID != 42 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user/session not found")
	}
	return &resellers.Identity{UserID: userID, ResellerID: 9, StoreName: "Loja da Ana"}, nil
}

func (stubResellers) GetFreight(_ context.Context, resellerID int64) (*resellers.Freight, error) {
	return &resellers.Freight{ResellerID: resellerID, Fee: decimal.NewFromInt(12)}, nil
}

func (stubResellers) UpdateFreight(context.Context, int64, decimal.Decimal) (*resellers.Freight, error) {
	panic("not implemented")
}

type stubPackages struct{}

func (stubPackages) List(context.Context) ([]packages.PackageDTO, error) {
	return []packages.PackageDTO{{ID: 7, Description: "Esfera X"}}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "painel", ExpirationMinutes: 10},
	}
}

func newTestRouter(cfg *config.Config, dbErr error) http.Handler {
	reg := prometheus.NewRegistry()
	metrics.NewOrderMetrics(reg).Observe("accept", metrics.OutcomeSuccess, time.Millisecond)
	return NewRouter(RouterParams{
		Config:    cfg,
		DB:        stubPinger{err: dbErr},
		Redis:     stubPinger{},
		Gatherer:  reg,
		Resellers: stubResellers{},
		Packages:  stubPackages{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, userID int64) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{UserID: userID})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(testConfig(), nil)

	live := httptest.NewRecorder()
	router.ServeHTTP(live, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if live.Code != http.StatusOK {
		t.Fatalf("expected live 200 got %d", live.Code)
	}
	if live.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected request id header")
	}

	ready := httptest.NewRecorder()
	router.ServeHTTP(ready, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if ready.Code != http.StatusOK {
		t.Fatalf("expected ready 200 got %d", ready.Code)
	}
}

func TestReadinessFailsWhenDatabaseUnreachable(t *testing.T) {
	router := newTestRouter(testConfig(), errors.New("connection refused"))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if resp.Code < http.StatusInternalServerError {
		t.Fatalf("expected 5xx got %d", resp.Code)
	}
}

func TestMetricsEndpointExposesOrderMetrics(t *testing.T) {
	router := newTestRouter(testConfig(), nil)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "painel_order_actions_total") {
		t.Fatalf("expected order metrics in output")
	}
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig(), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPrivateGroupRejectsUserWithoutReseller(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/packages", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, 77))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for user without reseller got %d", resp.Code)
	}
}

func TestPrivateGroupServesResellerRoutes(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, nil)

	for _, path := range []string{"/api/ping", "/api/v1/packages", "/api/v1/reseller/freight"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, 42))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d: %s", path, resp.Code, resp.Body.String())
		}
	}
}
