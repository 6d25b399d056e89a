package imports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
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

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CreateImportInput captures one restock delivery.
type CreateImportInput struct {
	Items     []models.ImportItem
	TotalCost int
	Note      string
	// Timestamp is epoch milliseconds; zero means "now".
	Timestamp int64
}

// ImportList is one page of import notes plus its pagination block.
type ImportList struct {
	Data       []models.ImportNote `json:"data"`
	Pagination pagination.Meta     `json:"pagination"`
}

// Service records restock deliveries. A delivery writes its note and bumps
// stock for every line in one atomic unit; total_sold never moves here.
type Service interface {
	Create(ctx context.Context, input CreateImportInput) (*models.ImportNote, error)
	Get(ctx context.Context, id string) (*models.ImportNote, error)
	List(ctx context.Context, page pagination.Params) (*ImportList, error)
}

type service struct {
	repo    Repository
	inv     inventory.Repository
	tx      txRunner
	audit   activity.Recorder
	metrics *metrics.EngineMetrics
	logg    *logger.Logger
	now     func() time.Time
	newID   func() string
}

// NewService builds the import service with its dependencies.
func NewService(
	repo Repository,
	inv inventory.Repository,
	tx txRunner,
	audit activity.Recorder,
	engineMetrics *metrics.EngineMetrics,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("imports repository required")
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
		newID:   newImportID,
	}, nil
}

func newImportID() string {
	return "IMP-" + strings.ToUpper(uuid.NewString()[:8])
}

func (s *service) Create(ctx context.Context, input CreateImportInput) (*models.ImportNote, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "import must contain at least one item")
	}
	for _, item := range input.Items {
		if item.ID == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "import item missing product id")
		}
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "import item quantity must be positive")
		}
	}
	if input.TotalCost < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "total cost must not be negative")
	}

	blob, err := json.Marshal(input.Items)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode import items")
	}

	timestamp := input.Timestamp
	if timestamp == 0 {
		timestamp = s.now().UnixMilli()
	}
	note := &models.ImportNote{
		ID:        s.newID(),
		Timestamp: timestamp,
		TotalCost: input.TotalCost,
		Note:      input.Note,
		Items:     string(blob),
	}

	start := time.Now()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		inv := s.inv.WithTx(tx)

		if err := repo.Create(ctx, note); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert import note")
		}
		for _, item := range input.Items {
			// Restocks raise stock only; sold counters belong to sales.
			if err := inv.Adjust(ctx, item.ID, item.Quantity, 0); err != nil {
				return err
			}
		}
		return nil
	})
	s.metrics.ObserveTx("create_import", time.Since(start), err)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "import creation failed")
	}

	if s.audit != nil {
		s.audit.Record(ctx, enums.ActionCreateImport,
			fmt.Sprintf("import %s cost %d", note.ID, note.TotalCost))
	}
	s.logg.Info(s.logg.WithField(ctx, "import_id", note.ID), "import recorded")

	return note, nil
}

func (s *service) Get(ctx context.Context, id string) (*models.ImportNote, error) {
	note, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "import not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load import note")
	}
	return note, nil
}

func (s *service) List(ctx context.Context, page pagination.Params) (*ImportList, error) {
	page = page.Normalize()
	notes, total, err := s.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list import notes")
	}
	return &ImportList{
		Data:       notes,
		Pagination: pagination.BuildMeta(page, total, len(notes)),
	}, nil
}
