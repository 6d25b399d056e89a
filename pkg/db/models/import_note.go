package models

// ImportNote records a restock delivery. It mirrors Order minus the
// inventory-decrement side: applying one only ever increases stock.
type ImportNote struct {
	ID        string `gorm:"column:id;primaryKey" json:"id"`
	Timestamp int64  `gorm:"column:timestamp" json:"timestamp"`
	TotalCost int    `gorm:"column:total_cost" json:"total_cost"`
	Note      string `gorm:"column:note" json:"note"`
	Items     string `gorm:"column:items" json:"items"`
}

// TableName pins the legacy table name.
func (ImportNote) TableName() string { return "import_notes" }

// ImportItem is one entry of an import note's items blob.
type ImportItem struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}
