package backfill

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/quanganhtapcode/store/pkg/db/models"
	"github.com/quanganhtapcode/store/pkg/logger"
	"github.com/quanganhtapcode/store/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Result summarizes one backfill run.
type Result struct {
	// Ran is false when the index was already populated and nothing moved.
	Ran      bool
	Migrated int
	Skipped  int
}

// Job rebuilds the order_items index from the ledger's legacy JSON blobs.
// It is idempotent: any pre-existing index row suppresses the whole run, so
// a restart never duplicates line items.
type Job struct {
	db      *gorm.DB
	tx      txRunner
	metrics *metrics.EngineMetrics
	logg    *logger.Logger
}

// NewJob builds the backfill job.
func NewJob(db *gorm.DB, tx txRunner, engineMetrics *metrics.EngineMetrics, logg *logger.Logger) (*Job, error) {
	if db == nil {
		return nil, fmt.Errorf("db handle required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Job{db: db, tx: tx, metrics: engineMetrics, logg: logg}, nil
}

// Run executes the backfill. The whole rebuild commits as one transaction;
// a failure part way leaves the index exactly as it was.
func (j *Job) Run(ctx context.Context) (*Result, error) {
	var existing int64
	if err := j.db.WithContext(ctx).Model(&models.OrderItem{}).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("counting line items: %w", err)
	}
	if existing > 0 {
		j.logg.Debug(j.logg.WithField(ctx, "existing_items", existing), "line-item index already populated")
		return &Result{Ran: false}, nil
	}

	result := &Result{Ran: true}
	start := time.Now()
	err := j.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var orders []models.Order
		if err := tx.WithContext(ctx).Find(&orders).Error; err != nil {
			return fmt.Errorf("loading ledger: %w", err)
		}

		for _, order := range orders {
			snapshots, err := order.Snapshots()
			if err != nil {
				// A corrupt blob skips its order; the rest still migrate.
				warnCtx := j.logg.WithFields(ctx, map[string]any{
					"order_id": order.ID,
					"error":    err.Error(),
				})
				j.logg.Warn(warnCtx, "skipping order with unreadable items blob")
				result.Skipped++
				continue
			}

			items := make([]models.OrderItem, 0, len(snapshots))
			for _, item := range snapshots {
				items = append(items, models.OrderItem{
					OrderID:   order.ID,
					ProductID: item.ID,
					Quantity:  item.Quantity,
					Price:     item.UnitPrice(),
				})
			}
			if len(items) == 0 {
				continue
			}
			if err := tx.WithContext(ctx).Create(&items).Error; err != nil {
				return fmt.Errorf("inserting line items for order %d: %w", order.ID, err)
			}
			result.Migrated += len(items)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	j.metrics.AddBackfillRows("migrated", result.Migrated)
	j.metrics.AddBackfillRows("skipped", result.Skipped)

	doneCtx := j.logg.WithFields(ctx, map[string]any{
		"migrated":    result.Migrated,
		"skipped":     result.Skipped,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	j.logg.Info(doneCtx, "line-item backfill complete")

	return result, nil
}

// RunAfter waits for the delay and then runs the job once. It is meant to be
// launched on its own goroutine at process start so boot is never blocked.
func (j *Job) RunAfter(ctx context.Context, delay time.Duration) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(delay):
	}
	if _, err := j.Run(ctx); err != nil {
		j.logg.Error(ctx, "line-item backfill failed", err)
	}
}
