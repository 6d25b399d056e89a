package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quanganhtapcode/store/pkg/db/models"
	"github.com/quanganhtapcode/store/pkg/enums"
)

func TestResolveBaseUnits(t *testing.T) {
	tests := []struct {
		name string
		item models.ItemSnapshot
		want int
	}{
		{
			name: "unit sale passes quantity through",
			item: models.ItemSnapshot{Quantity: 3, SaleType: enums.SaleTypeUnit},
			want: 3,
		},
		{
			name: "case sale multiplies by case size",
			item: models.ItemSnapshot{Quantity: 2, SaleType: enums.SaleTypeCase, UnitsPerCase: 24},
			want: 48,
		},
		{
			name: "missing sale type treated as unit",
			item: models.ItemSnapshot{Quantity: 5},
			want: 5,
		},
		{
			name: "zero case size clamped to one",
			item: models.ItemSnapshot{Quantity: 4, SaleType: enums.SaleTypeCase},
			want: 4,
		},
		{
			name: "negative case size clamped to one",
			item: models.ItemSnapshot{Quantity: 4, SaleType: enums.SaleTypeCase, UnitsPerCase: -6},
			want: 4,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ResolveBaseUnits(tc.item))
		})
	}
}

func TestBaseUnitsByProductAggregatesDuplicates(t *testing.T) {
	items := []models.ItemSnapshot{
		{ID: "P1", Quantity: 2, SaleType: enums.SaleTypeCase, UnitsPerCase: 10},
		{ID: "P1", Quantity: 3, SaleType: enums.SaleTypeUnit},
		{ID: "P2", Quantity: 1, SaleType: enums.SaleTypeUnit},
	}

	totals := baseUnitsByProduct(items)
	assert.Equal(t, 23, totals["P1"])
	assert.Equal(t, 1, totals["P2"])
}
