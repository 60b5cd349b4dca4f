package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

func TestGenerateStockReport_GeneraPDF(t *testing.T) {
	report := &ledger.StockReport{
		Title:       "Reporte de stock",
		GeneratedAt: time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC),
		Stats: &ledger.Statistics{
			TotalProducts: 2, TotalStock: 1500, TotalValue: decimal.NewFromInt(1250000),
			ActiveCount: 1, OutOfStockCount: 1,
		},
		LowStock: []*entity.StockAccount{
			{ProductID: "P-2", ProductName: "Tuerca", CurrentStock: 0, MinStock: 5, Status: entity.StatusOutOfStock},
		},
		OutOfStock: []*entity.StockAccount{
			{ProductID: "P-2", ProductName: "Tuerca", CurrentStock: 0, MinStock: 5, Status: entity.StatusOutOfStock},
		},
		Recent: []*entity.StockTransaction{
			{ID: 1, ProductID: "P-1", Type: entity.TransactionInbound, Quantity: 10, BeforeStock: 0, AfterStock: 10, CreatedAt: time.Now()},
		},
	}

	doc, err := NewStockReportGenerator().GenerateStockReport(context.Background(), report)
	require.NoError(t, err)
	require.NotEmpty(t, doc)
	assert.Equal(t, "%PDF", string(doc[:4]))
}

func TestGenerateStockReport_SinDatos(t *testing.T) {
	report := &ledger.StockReport{GeneratedAt: time.Now(), Stats: &ledger.Statistics{}}

	doc, err := NewStockReportGenerator().GenerateStockReport(context.Background(), report)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(doc[:4]))
}

func TestFormatThousands(t *testing.T) {
	assert.Equal(t, "0", formatThousands("0"))
	assert.Equal(t, "999", formatThousands("999"))
	assert.Equal(t, "25.000", formatThousands("25000"))
	assert.Equal(t, "1.000.000", formatThousands("1000000"))
	assert.Equal(t, "-1.500", formatThousands("-1500"))
}
