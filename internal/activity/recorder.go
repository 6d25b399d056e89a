package activity

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/quanganhtapcode/store/pkg/db/models"
	"github.com/quanganhtapcode/store/pkg/enums"
	"github.com/quanganhtapcode/store/pkg/logger"
)

// Recorder appends audit-trail entries. Writes are best effort: a failure is
// logged and swallowed so it can never fail the operation being audited.
// Callers must invoke it outside their atomic unit of work.
type Recorder interface {
	Record(ctx context.Context, action enums.ActivityAction, details string)
}

type recorder struct {
	db   *gorm.DB
	logg *logger.Logger
	now  func() time.Time
}

// NewRecorder builds the audit sink on the shared connection.
func NewRecorder(db *gorm.DB, logg *logger.Logger) Recorder {
	return &recorder{db: db, logg: logg, now: time.Now}
}

func (r *recorder) Record(ctx context.Context, action enums.ActivityAction, details string) {
	entry := models.ActivityLog{
		Action:    action.String(),
		Details:   details,
		Timestamp: r.now().UnixMilli(),
	}
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil && r.logg != nil {
		ctx = r.logg.WithField(ctx, "action", action.String())
		r.logg.Warn(r.logg.WithField(ctx, "error", err.Error()), "activity log write failed")
	}
}

// Recent returns the newest audit entries, capped at limit.
func Recent(ctx context.Context, db *gorm.DB, limit int) ([]models.ActivityLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var entries []models.ActivityLog
	err := db.WithContext(ctx).
		Order("timestamp DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
