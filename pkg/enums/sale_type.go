package enums

// SaleType distinguishes a base-unit sale from a case-lot sale.
type SaleType string

const (
	SaleTypeUnit SaleType = "unit"
	SaleTypeCase SaleType = "case"
)

// String implements fmt.Stringer.
func (s SaleType) String() string {
	return string(s)
}

// IsCase reports whether the line was sold by the case. Anything that is not
// explicitly a case sale is treated as a unit sale, matching the historical
// snapshot format where saleType may be absent.
func (s SaleType) IsCase() bool {
	return s == SaleTypeCase
}
