package models

// Product is catalog plus inventory state. Stock and TotalSold are in base
// units and are mutated only through relative updates inside transactions.
type Product struct {
	ID       string `gorm:"column:id;primaryKey" json:"id"`
	Name     string `gorm:"column:name" json:"name"`
	Brand    string `gorm:"column:brand" json:"brand"`
	Category string `gorm:"column:category" json:"category"`
	// Price and CasePrice are currency minor units. CasePrice 0 means the
	// product is not sold by the case.
	Price        int    `gorm:"column:price" json:"price"`
	CasePrice    int    `gorm:"column:case_price" json:"case_price"`
	UnitsPerCase int    `gorm:"column:units_per_case" json:"units_per_case"`
	Stock        int    `gorm:"column:stock" json:"stock"`
	Code         string `gorm:"column:code" json:"code"`
	Image        string `gorm:"column:image" json:"image"`
	TotalSold    int    `gorm:"column:total_sold" json:"total_sold"`
}

// TableName pins the legacy table name.
func (Product) TableName() string { return "products" }
