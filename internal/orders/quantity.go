package orders

import "github.com/quanganhtapcode/store/pkg/db/models"

// ResolveBaseUnits maps a cart line to the number of base units it moves.
// Case sales multiply by the case size frozen on the line at add-to-cart
// time; the catalog's current case size is never consulted. A non-positive
// case size is clamped to 1 so a bad snapshot cannot zero out or invert an
// inventory swing.
func ResolveBaseUnits(item models.ItemSnapshot) int {
	if !item.SaleType.IsCase() {
		return item.Quantity
	}
	unitsPerCase := item.UnitsPerCase
	if unitsPerCase < 1 {
		unitsPerCase = 1
	}
	return item.Quantity * unitsPerCase
}

// baseUnitsByProduct folds a snapshot down to per-product base-unit totals.
// Used by the update path to diff old and new item sets.
func baseUnitsByProduct(items []models.ItemSnapshot) map[string]int {
	totals := make(map[string]int, len(items))
	for _, item := range items {
		totals[item.ID] += ResolveBaseUnits(item)
	}
	return totals
}
