package imports

import (
	"context"

	"gorm.io/gorm"

	"github.com/quanganhtapcode/store/pkg/db/models"
)

// Repository persists import notes.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, note *models.ImportNote) error
	FindByID(ctx context.Context, id string) (*models.ImportNote, error)
	List(ctx context.Context, limit, offset int) ([]models.ImportNote, int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an import-note repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, note *models.ImportNote) error {
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*models.ImportNote, error) {
	var note models.ImportNote
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&note).Error
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]models.ImportNote, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.ImportNote{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var notes []models.ImportNote
	err := r.db.WithContext(ctx).
		Order("timestamp DESC").
		Limit(limit).
		Offset(offset).
		Find(&notes).Error
	return notes, total, err
}
