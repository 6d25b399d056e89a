package orders

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quanganhtapcode/store/internal/activity"
	"github.com/quanganhtapcode/store/internal/inventory"
	"github.com/quanganhtapcode/store/pkg/config"
	"github.com/quanganhtapcode/store/pkg/db"
	"github.com/quanganhtapcode/store/pkg/db/models"
	"github.com/quanganhtapcode/store/pkg/logger"
	"github.com/quanganhtapcode/store/pkg/metrics"
)

func openTestDB(t *testing.T) *db.Client {
	t.Helper()

	client, err := db.New(context.Background(), config.DBConfig{
		Driver:      config.DriverSQLite,
		Path:        filepath.Join(t.TempDir(), "orders_test.db"),
		BusyTimeout: time.Second,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.DB().AutoMigrate(
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.ActivityLog{},
	))
	return client
}

func newTestService(t *testing.T, client *db.Client) Service {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "orders-test", Output: io.Discard})
	svc, err := NewService(
		NewRepository(client.DB()),
		inventory.NewRepository(client.DB()),
		client,
		activity.NewRecorder(client.DB(), logg),
		metrics.NewEngineMetrics(nil),
		logg,
	)
	require.NoError(t, err)
	return svc
}

func mustCreateTestProduct(t *testing.T, client *db.Client, p models.Product) {
	t.Helper()
	require.NoError(t, client.DB().Create(&p).Error)
}

func loadProduct(t *testing.T, client *db.Client, id string) models.Product {
	t.Helper()
	var p models.Product
	require.NoError(t, client.DB().Where("id = ?", id).First(&p).Error)
	return p
}
