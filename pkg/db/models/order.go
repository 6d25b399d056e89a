package models

import (
	"encoding/json"

	"github.com/quanganhtapcode/store/pkg/enums"
)

// Order is a sales-ledger row. Items carries the denormalized JSON snapshot
// kept for older readers; the normalized order_items table is derived from it.
type Order struct {
	ID        int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderCode string `gorm:"column:order_code" json:"order_code"`
	Total     int    `gorm:"column:total" json:"total"`
	// Timestamp is epoch milliseconds, the unit the historical data uses.
	Timestamp     int64             `gorm:"column:timestamp" json:"timestamp"`
	Items         string            `gorm:"column:items" json:"items"`
	CustomerName  string            `gorm:"column:customer_name" json:"customer_name"`
	PaymentMethod string            `gorm:"column:payment_method" json:"payment_method"`
	Status        enums.OrderStatus `gorm:"column:status" json:"status"`
	Note          string            `gorm:"column:note" json:"note"`
}

// TableName pins the legacy table name.
func (Order) TableName() string { return "orders" }

// ItemSnapshot is one entry of the denormalized items blob. Field names match
// the historical wire format, so older readers keep working.
type ItemSnapshot struct {
	ID           string         `json:"id"`
	DisplayName  string         `json:"displayName,omitempty"`
	Quantity     int            `json:"quantity"`
	SaleType     enums.SaleType `json:"saleType,omitempty"`
	UnitsPerCase int            `json:"units_per_case,omitempty"`
	// FinalPrice is the unit price actually charged; Price is the catalog
	// price recorded as a fallback by older writers.
	FinalPrice int `json:"finalPrice,omitempty"`
	Price      int `json:"price,omitempty"`
}

// UnitPrice returns the charged unit price, falling back to the catalog price
// for snapshots written before finalPrice existed.
func (s ItemSnapshot) UnitPrice() int {
	if s.FinalPrice != 0 {
		return s.FinalPrice
	}
	return s.Price
}

// EncodeItemSnapshots serializes line items into the ledger blob format.
func EncodeItemSnapshots(items []ItemSnapshot) (string, error) {
	raw, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// DecodeItemSnapshots parses a ledger blob back into line items.
func DecodeItemSnapshots(raw string) ([]ItemSnapshot, error) {
	var items []ItemSnapshot
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Snapshots decodes the order's own items blob.
func (o *Order) Snapshots() ([]ItemSnapshot, error) {
	return DecodeItemSnapshots(o.Items)
}
