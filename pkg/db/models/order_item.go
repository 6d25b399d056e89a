package models

// OrderItem is the normalized one-row-per-(order, product) index used by
// reporting. Quantity is stored as sold (cases are not pre-multiplied),
// mirroring the display semantics of the ledger snapshot.
type OrderItem struct {
	ID        int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderID   int64  `gorm:"column:order_id" json:"order_id"`
	ProductID string `gorm:"column:product_id" json:"product_id"`
	Quantity  int    `gorm:"column:quantity" json:"quantity"`
	Price     int    `gorm:"column:price" json:"price"`
}

// TableName pins the legacy table name.
func (OrderItem) TableName() string { return "order_items" }
