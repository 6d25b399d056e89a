package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/quanganhtapcode/store/internal/inventory"
	"github.com/quanganhtapcode/store/pkg/db/models"
	"github.com/quanganhtapcode/store/pkg/enums"
	pkgerrors "github.com/quanganhtapcode/store/pkg/errors"
	"github.com/quanganhtapcode/store/pkg/logger"
	"github.com/quanganhtapcode/store/pkg/redis"
)

const topProductCount = 5

// Snapshot is the dashboard payload. Cancelled orders are excluded from
// every figure since their inventory effect has been reversed.
type Snapshot struct {
	TodayRevenue    int              `json:"todayRevenue"`
	TodayOrderCount int              `json:"todayOrderCount"`
	MonthRevenue    int              `json:"monthRevenue"`
	TopProducts     []models.Product `json:"topProducts"`
}

// MonthlyProduct is one per-product row of the current month's sales.
type MonthlyProduct struct {
	ProductID   string `json:"id"`
	DisplayName string `json:"displayName,omitempty"`
	Quantity    int    `json:"quantity"`
	Revenue     int    `json:"revenue"`
}

// Service serves read-only aggregates over the ledger. Snapshots sit behind
// a TTL cache and may lag writes by up to the TTL window.
type Service interface {
	GetStats(ctx context.Context) (*Snapshot, error)
	MonthlyProducts(ctx context.Context) ([]MonthlyProduct, error)
}

type service struct {
	db    *gorm.DB
	inv   inventory.Repository
	cache Cache
	ttl   time.Duration
	logg  *logger.Logger
	now   func() time.Time
}

// NewService builds the stats aggregator. A nil cache falls back to the
// in-process TTL store.
func NewService(db *gorm.DB, inv inventory.Repository, cache Cache, ttl time.Duration, logg *logger.Logger) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db handle required")
	}
	if inv == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cache == nil {
		cache = NewMemoryCache()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &service{
		db:    db,
		inv:   inv,
		cache: cache,
		ttl:   ttl,
		logg:  logg,
		now:   time.Now,
	}, nil
}

func (s *service) GetStats(ctx context.Context) (*Snapshot, error) {
	key := redis.Key("stats", "snapshot")
	if cached, err := s.cache.Get(ctx, key); err == nil {
		var snapshot Snapshot
		if err := json.Unmarshal([]byte(cached), &snapshot); err == nil {
			return &snapshot, nil
		}
		s.logg.Warn(ctx, "discarding unreadable stats cache entry")
	}

	snapshot, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(snapshot); err == nil {
		// Cache write failures only cost the next caller a recompute.
		if err := s.cache.Set(ctx, key, string(raw), s.ttl); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "stats cache write failed")
		}
	}
	return snapshot, nil
}

func (s *service) compute(ctx context.Context) (*Snapshot, error) {
	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).UnixMilli()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).UnixMilli()

	var today struct {
		Revenue int
		Count   int
	}
	err := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COALESCE(SUM(total), 0) AS revenue, COUNT(*) AS count").
		Where("timestamp >= ? AND status <> ?", dayStart, enums.OrderStatusCancelled).
		Scan(&today).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate today")
	}

	var monthRevenue int
	err = s.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COALESCE(SUM(total), 0)").
		Where("timestamp >= ? AND status <> ?", monthStart, enums.OrderStatusCancelled).
		Scan(&monthRevenue).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate month")
	}

	topProducts, err := s.inv.TopProducts(ctx, topProductCount)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load top products")
	}

	return &Snapshot{
		TodayRevenue:    today.Revenue,
		TodayOrderCount: today.Count,
		MonthRevenue:    monthRevenue,
		TopProducts:     topProducts,
	}, nil
}

// MonthlyProducts aggregates the current month's item snapshots per product.
// It reads the denormalized blobs rather than the order_items index so the
// figures include displayName and survive a not-yet-backfilled index.
func (s *service) MonthlyProducts(ctx context.Context) ([]MonthlyProduct, error) {
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).UnixMilli()

	var orders []models.Order
	err := s.db.WithContext(ctx).
		Where("timestamp >= ? AND status <> ?", monthStart, enums.OrderStatusCancelled).
		Find(&orders).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load month ledger")
	}

	byProduct := make(map[string]*MonthlyProduct)
	for _, order := range orders {
		items, err := order.Snapshots()
		if err != nil {
			s.logg.Warn(s.logg.WithOrderID(ctx, order.ID), "skipping order with unreadable items blob")
			continue
		}
		for _, item := range items {
			row, ok := byProduct[item.ID]
			if !ok {
				row = &MonthlyProduct{ProductID: item.ID, DisplayName: item.DisplayName}
				byProduct[item.ID] = row
			}
			row.Quantity += item.Quantity
			row.Revenue += item.UnitPrice() * item.Quantity
			if row.DisplayName == "" {
				row.DisplayName = item.DisplayName
			}
		}
	}

	rows := make([]MonthlyProduct, 0, len(byProduct))
	for _, row := range byProduct {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Revenue > rows[j].Revenue })
	return rows, nil
}
