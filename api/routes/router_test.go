package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solenne-shop/solenne-backend/api/controllers"
	catalogsvc "github.com/solenne-shop/solenne-backend/internal/catalog"
	ordersvc "github.com/solenne-shop/solenne-backend/internal/orders"
	statssvc "github.com/solenne-shop/solenne-backend/internal/stats"
	storefrontsvc "github.com/solenne-shop/solenne-backend/internal/storefront"
	pkgauth "github.com/solenne-shop/solenne-backend/pkg/auth"
	"github.com/solenne-shop/solenne-backend/pkg/config"
	"github.com/solenne-shop/solenne-backend/pkg/logger"
	"github.com/solenne-shop/solenne-backend/pkg/pagination"
	"github.com/solenne-shop/solenne-backend/pkg/types"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubStorefront struct{}

func (stubStorefront) ListProducts(context.Context, pagination.Params, catalogsvc.ProductListFilters) (*catalogsvc.ProductListResult, error) {
	return &catalogsvc.ProductListResult{Products: []catalogsvc.ProductSummary{}, Total: 0}, nil
}

func (stubStorefront) GetProduct(context.Context, string) (*catalogsvc.ProductDetail, error) {
	return &catalogsvc.ProductDetail{Slug: "wool-coat"}, nil
}

func (stubStorefront) Match(context.Context, string, storefrontsvc.MatchInput) (*storefrontsvc.MatchResult, error) {
	return &storefrontsvc.MatchResult{}, nil
}

type stubStats struct{}

func (stubStats) Dashboard(context.Context) (*statssvc.Dashboard, error) {
	return &statssvc.Dashboard{}, nil
}

type stubOrders struct{}

func (stubOrders) List(context.Context, pagination.Params, ordersvc.ListFilters) (*ordersvc.OrderList, error) {
	return &ordersvc.OrderList{Orders: []ordersvc.OrderSummary{}}, nil
}

func (stubOrders) Get(context.Context, uuid.UUID) (*ordersvc.OrderDetail, error) {
	return &ordersvc.OrderDetail{}, nil
}

func (stubOrders) UpdateStatus(context.Context, uuid.UUID, *uuid.UUID, ordersvc.UpdateStatusInput) (*ordersvc.OrderDetail, error) {
	return &ordersvc.OrderDetail{}, nil
}

func (stubOrders) Delete(context.Context, uuid.UUID) error { return nil }

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{}
	cfg.JWT = config.JWTConfig{Secret: "router-test-secret", Issuer: "solenne-admin", ExpirationMinutes: 30}
	logg := logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard})

	return NewRouter(Deps{
		Config:     cfg,
		Logger:     logg,
		Pingers:    map[string]controllers.Pinger{"db": stubPinger{}},
		Storefront: stubStorefront{},
		Orders:     stubOrders{},
		Stats:      stubStats{},
	})
}

func TestHealthRoutes(t *testing.T) {
	router := testRouter(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestStorefrontRoutesArePublic(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var envelope types.SuccessEnvelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&envelope))
	require.NotNil(t, envelope.Meta)
	assert.Equal(t, int64(0), envelope.Meta.Total)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products/wool-coat", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/wool-coat/match",
		strings.NewReader(`{"selection":{"color":"Navy"}}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRoutesAcceptMintedToken(t *testing.T) {
	router := testRouter(t)

	cfg := config.JWTConfig{Secret: "router-test-secret", Issuer: "solenne-admin", ExpirationMinutes: 30}
	token, err := pkgauth.MintAdminToken(cfg, time.Now(), uuid.New(), "ops@solenne.shop")
	require.NoError(t, err)

	for _, path := range []string{"/api/v1/admin/stats", "/api/v1/admin/orders"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestUnknownRouteReturns404(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
