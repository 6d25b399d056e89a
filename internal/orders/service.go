package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/quanganhtapcode/store/internal/activity"
	"github.com/quanganhtapcode/store/internal/inventory"
	"github.com/quanganhtapcode/store/pkg/db/models"
	"github.com/quanganhtapcode/store/pkg/enums"
	pkgerrors "github.com/quanganhtapcode/store/pkg/errors"
	"github.com/quanganhtapcode/store/pkg/logger"
	"github.com/quanganhtapcode/store/pkg/metrics"
	"github.com/quanganhtapcode/store/pkg/pagination"
)

const (
	defaultCustomerName  = "walk-in"
	defaultPaymentMethod = "cash"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service orchestrates every order mutation across the ledger, the inventory
// store, and the line-item index inside one atomic unit of work.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error)
	Get(ctx context.Context, id int64) (*models.Order, error)
	GetItems(ctx context.Context, id int64) ([]models.OrderItem, error)
	List(ctx context.Context, input ListOrdersInput) (*OrderList, error)
	Update(ctx context.Context, id int64, patch UpdateOrderInput) error
	Cancel(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo    Repository
	inv     inventory.Repository
	tx      txRunner
	audit   activity.Recorder
	metrics *metrics.EngineMetrics
	logg    *logger.Logger
	now     func() time.Time
}

// NewService builds the order transaction manager with its dependencies.
func NewService(
	repo Repository,
	inv inventory.Repository,
	tx txRunner,
	audit activity.Recorder,
	engineMetrics *metrics.EngineMetrics,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if inv == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:    repo,
		inv:     inv,
		tx:      tx,
		audit:   audit,
		metrics: engineMetrics,
		logg:    logg,
		now:     time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error) {
	if verrs := validateCreate(input); len(verrs) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, strings.Join(verrs, ", "))
	}

	now := s.now()
	timestamp := input.Timestamp
	if timestamp == 0 {
		timestamp = now.UnixMilli()
	}

	snapshot, err := models.EncodeItemSnapshots(input.Items)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode items snapshot")
	}

	// The caller-supplied total stays authoritative for backward
	// compatibility, but a disagreement with the recomputed sum is a data
	// integrity signal worth surfacing.
	if expected := expectedTotal(input.Items); expected != input.Total {
		warnCtx := s.logg.WithFields(ctx, map[string]any{
			"caller_total":   input.Total,
			"expected_total": expected,
		})
		s.logg.Warn(warnCtx, "order total does not match line items")
	}

	var created *models.Order
	start := time.Now()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		inv := s.inv.WithTx(tx)

		count, err := repo.Count(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
		}

		order := &models.Order{
			OrderCode:     FormatOrderCode(now, int(count)+1),
			Total:         input.Total,
			Timestamp:     timestamp,
			Items:         snapshot,
			CustomerName:  orDefault(input.CustomerName, defaultCustomerName),
			PaymentMethod: orDefault(input.PaymentMethod, defaultPaymentMethod),
			Status:        enums.OrderStatusCompleted,
			Note:          input.Note,
		}
		if err := repo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert ledger row")
		}

		items := make([]models.OrderItem, 0, len(input.Items))
		for _, item := range input.Items {
			baseUnits := ResolveBaseUnits(item)
			if err := inv.Adjust(ctx, item.ID, -baseUnits, baseUnits); err != nil {
				return err
			}
			items = append(items, models.OrderItem{
				OrderID:   order.ID,
				ProductID: item.ID,
				Quantity:  item.Quantity,
				Price:     item.UnitPrice(),
			})
		}
		if err := repo.CreateItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert line items")
		}

		created = order
		return nil
	})
	s.metrics.ObserveTx("create_order", time.Since(start), err)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order creation failed")
	}

	if s.audit != nil {
		s.audit.Record(ctx, enums.ActionCreateOrder,
			fmt.Sprintf("order %s total %d", created.OrderCode, created.Total))
	}
	s.logg.Info(s.logg.WithOrderCode(s.logg.WithOrderID(ctx, created.ID), created.OrderCode), "order created")

	return &CreateOrderResult{ID: created.ID, OrderCode: created.OrderCode}, nil
}

func (s *service) Get(ctx context.Context, id int64) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// GetItems returns the order's normalized line items from the reporting index.
func (s *service) GetItems(ctx context.Context, id int64) ([]models.OrderItem, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	items, err := s.repo.FindItemsByOrder(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load line items")
	}
	return items, nil
}

func (s *service) List(ctx context.Context, input ListOrdersInput) (*OrderList, error) {
	input.Page = input.Page.Normalize()
	rows, total, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return &OrderList{
		Data:       rows,
		Pagination: pagination.BuildMeta(input.Page, total, len(rows)),
	}, nil
}

func (s *service) Update(ctx context.Context, id int64, patch UpdateOrderInput) error {
	if patch.Status != nil {
		if !patch.Status.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
		}
		// Cancellation reverses inventory exactly once and must go through
		// Cancel; a plain status write would skip the reversal.
		if *patch.Status == enums.OrderStatusCancelled {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "use the cancel operation to cancel an order")
		}
	}
	if patch.Items != nil && len(patch.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "replacement items must not be empty")
	}
	for _, item := range patch.Items {
		if item.ID == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "replacement item missing product id")
		}
		if item.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "replacement item quantity must be positive")
		}
	}

	start := time.Now()
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		inv := s.inv.WithTx(tx)

		order, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		updates := map[string]any{}
		if patch.CustomerName != nil {
			updates["customer_name"] = *patch.CustomerName
		}
		if patch.PaymentMethod != nil {
			updates["payment_method"] = *patch.PaymentMethod
		}
		if patch.Status != nil {
			if order.Status == enums.OrderStatusCancelled {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "cancelled orders cannot change status")
			}
			updates["status"] = *patch.Status
		}
		if patch.Note != nil {
			updates["note"] = *patch.Note
		}

		if patch.Items != nil {
			if order.Status == enums.OrderStatusCancelled {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "cancelled orders cannot change items")
			}
			oldItems, err := order.Snapshots()
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode items snapshot")
			}
			if err := s.reconcileItems(ctx, inv, oldItems, patch.Items); err != nil {
				return err
			}

			snapshot, err := models.EncodeItemSnapshots(patch.Items)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode items snapshot")
			}
			updates["items"] = snapshot

			if err := repo.DeleteItemsByOrder(ctx, order.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete line items")
			}
			items := make([]models.OrderItem, 0, len(patch.Items))
			for _, item := range patch.Items {
				items = append(items, models.OrderItem{
					OrderID:   order.ID,
					ProductID: item.ID,
					Quantity:  item.Quantity,
					Price:     item.UnitPrice(),
				})
			}
			if err := repo.CreateItems(ctx, items); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert line items")
			}
		}
		if patch.Total != nil {
			updates["total"] = *patch.Total
		}

		if err := repo.Update(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update ledger row")
		}
		return nil
	})
	s.metrics.ObserveTx("update_order", time.Since(start), err)
	if err != nil {
		return err
	}

	if s.audit != nil {
		s.audit.Record(ctx, enums.ActionUpdateOrder, fmt.Sprintf("order #%d updated", id))
	}
	return nil
}

// reconcileItems applies the per-product base-unit delta between the old and
// new item sets, so an item-replacing update moves inventory exactly as a
// delete followed by a re-create would.
func (s *service) reconcileItems(ctx context.Context, inv inventory.Repository, oldItems, newItems []models.ItemSnapshot) error {
	oldBase := baseUnitsByProduct(oldItems)
	newBase := baseUnitsByProduct(newItems)

	seen := make(map[string]struct{}, len(oldBase)+len(newBase))
	for productID := range oldBase {
		seen[productID] = struct{}{}
	}
	for productID := range newBase {
		seen[productID] = struct{}{}
	}

	for productID := range seen {
		delta := newBase[productID] - oldBase[productID]
		if delta == 0 {
			continue
		}
		if err := inv.Adjust(ctx, productID, -delta, delta); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) Cancel(ctx context.Context, id int64) error {
	var code string
	start := time.Now()
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		inv := s.inv.WithTx(tx)

		order, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.Status == enums.OrderStatusCancelled {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order already cancelled")
		}

		if err := s.reverseInventory(ctx, inv, order); err != nil {
			return err
		}
		if err := repo.Update(ctx, order.ID, map[string]any{"status": enums.OrderStatusCancelled}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update ledger row")
		}
		code = order.OrderCode
		return nil
	})
	s.metrics.ObserveTx("cancel_order", time.Since(start), err)
	if err != nil {
		return err
	}

	if s.audit != nil {
		s.audit.Record(ctx, enums.ActionCancelOrder, fmt.Sprintf("cancelled order %s", code))
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	var code string
	start := time.Now()
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		inv := s.inv.WithTx(tx)

		order, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		// A cancelled order already had its inventory effect reversed;
		// reversing again on erase would double-restock.
		if order.Status != enums.OrderStatusCancelled {
			if err := s.reverseInventory(ctx, inv, order); err != nil {
				return err
			}
		}

		if err := repo.DeleteItemsByOrder(ctx, order.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete line items")
		}
		if err := repo.Delete(ctx, order.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete ledger row")
		}
		code = order.OrderCode
		return nil
	})
	s.metrics.ObserveTx("delete_order", time.Since(start), err)
	if err != nil {
		return err
	}

	if s.audit != nil {
		s.audit.Record(ctx, enums.ActionDeleteOrder, fmt.Sprintf("deleted order %s", code))
	}
	return nil
}

// reverseInventory restores stock and unwinds the sold counters for every
// line of the order's snapshot, symmetric to the create path.
func (s *service) reverseInventory(ctx context.Context, inv inventory.Repository, order *models.Order) error {
	items, err := order.Snapshots()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode items snapshot")
	}
	for _, item := range items {
		baseUnits := ResolveBaseUnits(item)
		if err := inv.Adjust(ctx, item.ID, baseUnits, -baseUnits); err != nil {
			return err
		}
	}
	return nil
}

func validateCreate(input CreateOrderInput) []string {
	var verrs []string
	if len(input.Items) == 0 {
		verrs = append(verrs, "order must contain at least one item")
	}
	for _, item := range input.Items {
		if item.ID == "" {
			verrs = append(verrs, "item missing product id")
		}
		if item.Quantity <= 0 {
			verrs = append(verrs, "item quantity must be positive")
		}
	}
	if input.Total < 0 {
		verrs = append(verrs, "total must not be negative")
	}
	return verrs
}

func expectedTotal(items []models.ItemSnapshot) int {
	total := 0
	for _, item := range items {
		total += item.UnitPrice() * item.Quantity
	}
	return total
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
