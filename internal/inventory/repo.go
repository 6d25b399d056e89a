package inventory

import (
	"context"

	"gorm.io/gorm"

	"github.com/quanganhtapcode/store/pkg/db/models"
	pkgerrors "github.com/quanganhtapcode/store/pkg/errors"
)

// Repository mutates per-product stock and the cumulative units-sold counter.
// All mutations are relative updates; absolute stock writes belong to catalog
// management, which does not go through this package.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindProduct(ctx context.Context, id string) (*models.Product, error)
	// Adjust applies stock += deltaStock and total_sold += deltaSold in a
	// single statement. It fails with CodeValidation when the product does
	// not exist, which aborts the surrounding transaction.
	Adjust(ctx context.Context, productID string, deltaStock, deltaSold int) error
	TopProducts(ctx context.Context, limit int) ([]models.Product, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an inventory repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) Adjust(ctx context.Context, productID string, deltaStock, deltaSold int) error {
	if deltaStock == 0 && deltaSold == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Exec(
		`UPDATE products SET stock = stock + ?, total_sold = total_sold + ? WHERE id = ?`,
		deltaStock, deltaSold, productID,
	)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "adjust inventory")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown product id "+productID)
	}
	return nil
}

func (r *repository) TopProducts(ctx context.Context, limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = 5
	}
	var products []models.Product
	err := r.db.WithContext(ctx).
		Order("total_sold DESC").
		Limit(limit).
		Find(&products).Error
	return products, err
}
