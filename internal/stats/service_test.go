package stats

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quanganhtapcode/store/internal/inventory"
	"github.com/quanganhtapcode/store/pkg/config"
	"github.com/quanganhtapcode/store/pkg/db"
	"github.com/quanganhtapcode/store/pkg/db/models"
	"github.com/quanganhtapcode/store/pkg/enums"
	"github.com/quanganhtapcode/store/pkg/logger"
)

func openTestDB(t *testing.T) *db.Client {
	t.Helper()
	client, err := db.New(context.Background(), config.DBConfig{
		Driver:      config.DriverSQLite,
		Path:        filepath.Join(t.TempDir(), "stats_test.db"),
		BusyTimeout: time.Second,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.DB().AutoMigrate(&models.Product{}, &models.Order{}))
	return client
}

func newTestService(t *testing.T, client *db.Client, ttl time.Duration) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "stats-test", Output: io.Discard})
	svc, err := NewService(client.DB(), inventory.NewRepository(client.DB()), NewMemoryCache(), ttl, logg)
	require.NoError(t, err)
	return svc
}

func seedOrder(t *testing.T, client *db.Client, total int, ts int64, status string, items string) {
	t.Helper()
	if items == "" {
		items = "[]"
	}
	require.NoError(t, client.DB().Create(&models.Order{
		Total:     total,
		Timestamp: ts,
		Status:    enums.OrderStatus(status),
		Items:     items,
	}).Error)
}

func TestGetStatsAggregates(t *testing.T) {
	client := openTestDB(t)
	svc := newTestService(t, client, time.Minute)
	ctx := context.Background()

	require.NoError(t, client.DB().Create(&models.Product{ID: "P1", Name: "Cola", TotalSold: 48}).Error)
	require.NoError(t, client.DB().Create(&models.Product{ID: "P2", Name: "Chips", TotalSold: 12}).Error)

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	seedOrder(t, client, 1000, now.UnixMilli(), "completed", "")
	seedOrder(t, client, 2000, now.UnixMilli(), "completed", "")
	// Cancelled orders carry no revenue.
	seedOrder(t, client, 9999, now.UnixMilli(), "cancelled", "")
	// Earlier in the month but before today.
	if monthStart.Before(now.Add(-25 * time.Hour)) {
		seedOrder(t, client, 500, now.Add(-25*time.Hour).UnixMilli(), "completed", "")
	}

	snapshot, err := svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3000, snapshot.TodayRevenue)
	assert.Equal(t, 2, snapshot.TodayOrderCount)
	assert.GreaterOrEqual(t, snapshot.MonthRevenue, 3000)
	require.NotEmpty(t, snapshot.TopProducts)
	assert.Equal(t, "P1", snapshot.TopProducts[0].ID)
}

func TestGetStatsServesCachedSnapshotWithinTTL(t *testing.T) {
	client := openTestDB(t)
	svc := newTestService(t, client, time.Minute)
	ctx := context.Background()

	require.NoError(t, client.DB().Create(&models.Product{ID: "P1"}).Error)
	seedOrder(t, client, 1000, time.Now().UnixMilli(), "completed", "")

	first, err := svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1000, first.TodayRevenue)

	// A write after the snapshot stays invisible until the TTL lapses.
	seedOrder(t, client, 5000, time.Now().UnixMilli(), "completed", "")

	second, err := svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1000, second.TodayRevenue)
}

func TestMemoryCacheExpires(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", "v", 10*time.Millisecond))

	got, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	time.Sleep(25 * time.Millisecond)
	_, err = cache.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMonthlyProductsAggregatesSnapshots(t *testing.T) {
	client := openTestDB(t)
	svc := newTestService(t, client, time.Minute)
	ctx := context.Background()

	now := time.Now().UnixMilli()
	seedOrder(t, client, 0, now, "completed",
		`[{"id":"P1","displayName":"Cola","quantity":2,"finalPrice":1000},{"id":"P2","quantity":1,"finalPrice":500}]`)
	seedOrder(t, client, 0, now, "completed",
		`[{"id":"P1","quantity":3,"finalPrice":1000}]`)
	seedOrder(t, client, 0, now, "cancelled",
		`[{"id":"P1","quantity":100,"finalPrice":1000}]`)
	// Unreadable blobs are skipped, not fatal.
	seedOrder(t, client, 0, now, "completed", `garbage`)

	rows, err := svc.MonthlyProducts(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "P1", rows[0].ProductID)
	assert.Equal(t, "Cola", rows[0].DisplayName)
	assert.Equal(t, 5, rows[0].Quantity)
	assert.Equal(t, 5000, rows[0].Revenue)
	assert.Equal(t, "P2", rows[1].ProductID)
	assert.Equal(t, 500, rows[1].Revenue)
}
