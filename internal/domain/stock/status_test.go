package stock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/stock"
)

func TestDeriveStatus(t *testing.T) {
	cases := []struct {
		name    string
		current int
		min     int
		want    entity.AccountStatus
	}{
		{"sin stock", 0, 5, entity.StatusOutOfStock},
		{"sin stock con minimo cero", 0, 0, entity.StatusOutOfStock},
		{"bajo el minimo", 2, 5, entity.StatusLowStock},
		{"igual al minimo", 5, 5, entity.StatusLowStock},
		{"sobre el minimo", 10, 5, entity.StatusActive},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			acc := &entity.StockAccount{CurrentStock: tc.current, MinStock: tc.min}
			assert.Equal(t, tc.want, stock.DeriveStatus(acc))
		})
	}
}

// DISCONTINUED nunca se recalcula automáticamente, tenga el stock que tenga.
func TestNextStatus_DiscontinuedEsPegajoso(t *testing.T) {
	acc := &entity.StockAccount{CurrentStock: 50, MinStock: 5, Status: entity.StatusDiscontinued}
	assert.Equal(t, entity.StatusDiscontinued, stock.NextStatus(acc))

	acc.CurrentStock = 0
	assert.Equal(t, entity.StatusDiscontinued, stock.NextStatus(acc))
}

func TestNextStatus_RecalculaLosDemas(t *testing.T) {
	acc := &entity.StockAccount{CurrentStock: 1, MinStock: 5, Status: entity.StatusActive}
	assert.Equal(t, entity.StatusLowStock, stock.NextStatus(acc))

	acc.Status = entity.StatusOutOfStock
	acc.CurrentStock = 20
	assert.Equal(t, entity.StatusActive, stock.NextStatus(acc))
}
