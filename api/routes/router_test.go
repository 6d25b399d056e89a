package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quanganhtapcode/store/internal/activity"
	"github.com/quanganhtapcode/store/internal/imports"
	"github.com/quanganhtapcode/store/internal/inventory"
	"github.com/quanganhtapcode/store/internal/orders"
	"github.com/quanganhtapcode/store/internal/stats"
	"github.com/quanganhtapcode/store/pkg/config"
	"github.com/quanganhtapcode/store/pkg/db"
	"github.com/quanganhtapcode/store/pkg/db/models"
	"github.com/quanganhtapcode/store/pkg/logger"
	"github.com/quanganhtapcode/store/pkg/metrics"
)

func newTestRouter(t *testing.T) (http.Handler, *db.Client, config.AuthConfig) {
	t.Helper()

	client, err := db.New(context.Background(), config.DBConfig{
		Driver:      config.DriverSQLite,
		Path:        filepath.Join(t.TempDir(), "router_test.db"),
		BusyTimeout: time.Second,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.DB().AutoMigrate(
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.ImportNote{},
		&models.ActivityLog{},
	))

	logg := logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard})
	engineMetrics := metrics.NewEngineMetrics(nil)
	recorder := activity.NewRecorder(client.DB(), logg)
	inventoryRepo := inventory.NewRepository(client.DB())

	ordersSvc, err := orders.NewService(
		orders.NewRepository(client.DB()), inventoryRepo, client, recorder, engineMetrics, logg)
	require.NoError(t, err)

	importsSvc, err := imports.NewService(
		imports.NewRepository(client.DB()), inventoryRepo, client, recorder, engineMetrics, logg)
	require.NoError(t, err)

	statsSvc, err := stats.NewService(client.DB(), inventoryRepo, stats.NewMemoryCache(), time.Minute, logg)
	require.NoError(t, err)

	authCfg := config.AuthConfig{JWTSecret: "router-test-secret", Issuer: "store"}
	cfg := &config.Config{
		App:  config.AppConfig{Env: "dev", Port: "0"},
		Auth: authCfg,
	}

	router := NewRouter(Deps{
		Config:   cfg,
		Logger:   logg,
		DB:       client.DB(),
		DBPinger: client,
		Orders:   ordersSvc,
		Imports:  importsSvc,
		Stats:    statsSvc,
		Registry: prometheus.NewRegistry(),
	})
	return router, client, authCfg
}

func signTestToken(t *testing.T, cfg config.AuthConfig) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": cfg.Issuer,
		"sub": "tester",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)
	return signed
}

func TestHealthEndpoints(t *testing.T) {
	router, _, _ := newTestRouter(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCheckoutThroughRouter(t *testing.T) {
	router, client, _ := newTestRouter(t)

	require.NoError(t, client.DB().Create(&models.Product{ID: "P1", Stock: 100}).Error)

	body := `{"items":[{"id":"P1","quantity":3,"finalPrice":1000}],"total":3000}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var product models.Product
	require.NoError(t, client.DB().Where("id = ?", "P1").First(&product).Error)
	assert.Equal(t, 97, product.Stock)
}

func TestDeleteOrderRequiresAuth(t *testing.T) {
	router, client, authCfg := newTestRouter(t)

	require.NoError(t, client.DB().Create(&models.Product{ID: "P1", Stock: 100}).Error)
	body := `{"items":[{"id":"P1","quantity":1,"finalPrice":1000}],"total":1000}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/orders/1", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	r := httptest.NewRequest(http.MethodDelete, "/api/orders/1", nil)
	r.Header.Set("Authorization", "Bearer "+signTestToken(t, authCfg))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestAuthRejectsForeignIssuer(t *testing.T) {
	router, _, _ := newTestRouter(t)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": "someone-else",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("router-test-secret"))
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodDelete, "/api/orders/1", nil)
	r.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStatsEndpoint(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "todayRevenue")
}

func TestActivityEndpoint(t *testing.T) {
	router, client, _ := newTestRouter(t)

	require.NoError(t, client.DB().Create(&models.Product{ID: "P1", Stock: 10}).Error)
	body := `{"items":[{"id":"P1","quantity":1,"finalPrice":1000}],"total":1000}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/activity", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "CREATE_ORDER")
}
