package orders

import (
	"github.com/quanganhtapcode/store/pkg/db/models"
	"github.com/quanganhtapcode/store/pkg/enums"
	"github.com/quanganhtapcode/store/pkg/pagination"
)

// CreateOrderInput captures one checkout request.
type CreateOrderInput struct {
	Items         []models.ItemSnapshot
	Total         int
	CustomerName  string
	PaymentMethod string
	Note          string
	// Timestamp is epoch milliseconds; zero means "now".
	Timestamp int64
}

// CreateOrderResult is what checkout callers get back.
type CreateOrderResult struct {
	ID        int64  `json:"id"`
	OrderCode string `json:"order_code"`
}

// UpdateOrderInput is a partial patch. Nil fields are left untouched. When
// Items is non-nil the whole item set (and, if given, Total) is replaced and
// inventory is reconciled against the per-product delta.
type UpdateOrderInput struct {
	CustomerName  *string
	PaymentMethod *string
	Status        *enums.OrderStatus
	Note          *string
	Items         []models.ItemSnapshot
	Total         *int
}

// ListOrdersInput bounds a ledger page by time window.
type ListOrdersInput struct {
	// StartTS/EndTS are inclusive epoch-millisecond bounds; nil means open.
	StartTS *int64
	EndTS   *int64
	Page    pagination.Params
}

// OrderList is one ledger page plus its pagination block.
type OrderList struct {
	Data       []models.Order  `json:"data"`
	Pagination pagination.Meta `json:"pagination"`
}
