package backfill

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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
		Path:        filepath.Join(t.TempDir(), "backfill_test.db"),
		BusyTimeout: time.Second,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.DB().AutoMigrate(&models.Order{}, &models.OrderItem{}))
	return client
}

func newTestJob(t *testing.T, client *db.Client) *Job {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "backfill-test", Output: io.Discard})
	job, err := NewJob(client.DB(), client, metrics.NewEngineMetrics(nil), logg)
	require.NoError(t, err)
	return job
}

func seedOrder(t *testing.T, client *db.Client, items string) int64 {
	t.Helper()
	order := models.Order{
		OrderCode: "ORD-20240101-0001",
		Total:     100,
		Timestamp: 1700000000000,
		Items:     items,
		Status:    "completed",
	}
	require.NoError(t, client.DB().Create(&order).Error)
	return order.ID
}

func TestRunMigratesLegacyBlobs(t *testing.T) {
	client := openTestDB(t)
	job := newTestJob(t, client)

	id := seedOrder(t, client,
		`[{"id":"P1","quantity":2,"finalPrice":240000},{"id":"P2","quantity":1,"price":5000}]`)

	result, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Ran)
	assert.Equal(t, 2, result.Migrated)
	assert.Zero(t, result.Skipped)

	var items []models.OrderItem
	require.NoError(t, client.DB().Where("order_id = ?", id).Order("product_id").Find(&items).Error)
	require.Len(t, items, 2)
	assert.Equal(t, "P1", items[0].ProductID)
	assert.Equal(t, 240000, items[0].Price)
	assert.Equal(t, "P2", items[1].ProductID)
	assert.Equal(t, 5000, items[1].Price)
}

func TestRunSkipsUnreadableBlobs(t *testing.T) {
	client := openTestDB(t)
	job := newTestJob(t, client)

	seedOrder(t, client, `not json at all`)
	good := seedOrder(t, client, `[{"id":"P1","quantity":1,"finalPrice":100}]`)

	result, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Migrated)
	assert.Equal(t, 1, result.Skipped)

	var count int64
	require.NoError(t, client.DB().Model(&models.OrderItem{}).Where("order_id = ?", good).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRunIsIdempotent(t *testing.T) {
	client := openTestDB(t)
	job := newTestJob(t, client)

	seedOrder(t, client, `[{"id":"P1","quantity":1,"finalPrice":100}]`)

	first, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, first.Ran)

	second, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, second.Ran)

	var count int64
	require.NoError(t, client.DB().Model(&models.OrderItem{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRunAfterHonorsCancelledContext(t *testing.T) {
	client := openTestDB(t)
	job := newTestJob(t, client)

	seedOrder(t, client, `[{"id":"P1","quantity":1,"finalPrice":100}]`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	job.RunAfter(ctx, time.Hour)

	var count int64
	require.NoError(t, client.DB().Model(&models.OrderItem{}).Count(&count).Error)
	assert.Zero(t, count)
}
