package ledger_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

func TestGetStatistics_ConteosPorEstado(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.create(t, "P-1", 10, 2) // ACTIVE
	f.create(t, "P-2", 2, 2)  // LOW_STOCK
	f.create(t, "P-3", 0, 2)  // OUT_OF_STOCK
	_, err := f.ledger.CreateAccount(ctx, ledger.CreateAccountInput{
		ProductID: "P-4", ProductName: "Viejo", CurrentStock: 4, MaxStock: 10,
		UnitPrice: decimal.NewFromInt(1), Status: entity.StatusDiscontinued,
	})
	require.NoError(t, err)
	_, err = f.ledger.Reserve(ctx, "P-1", 3, "ORD-1")
	require.NoError(t, err)

	stats, err := ledger.NewStatisticsUseCase(f.store.Accounts()).GetStatistics(ctx)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalProducts)
	assert.Equal(t, int64(16), stats.TotalStock)
	assert.Equal(t, int64(3), stats.TotalReserved)
	// (10 + 2 + 0) * 2.50 + 4 * 1
	assert.True(t, decimal.RequireFromString("34").Equal(stats.TotalValue), stats.TotalValue.String())
	assert.Equal(t, 1, stats.ActiveCount)
	assert.Equal(t, 1, stats.LowStockCount)
	assert.Equal(t, 1, stats.OutOfStockCount)
	assert.Equal(t, 1, stats.DiscontinuedCount)
}

func TestGetStatistics_StoreVacio(t *testing.T) {
	f := newFixture(t)
	stats, err := ledger.NewStatisticsUseCase(f.store.Accounts()).GetStatistics(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalProducts)
	assert.True(t, stats.TotalValue.IsZero())
}

func TestQuery_Filtros(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.create(t, "P-1", 10, 2)
	f.create(t, "P-2", 1, 2)
	f.create(t, "P-3", 0, 2)

	low, err := f.query.ListLowStock(ctx)
	require.NoError(t, err)
	assert.Len(t, low, 2, "bajo stock incluye sin stock")

	out, err := f.query.ListOutOfStock(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "P-3", out[0].ProductID)

	active, err := f.query.ListByStatus(ctx, entity.StatusActive)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	found, err := f.query.Search(ctx, "producto p-2")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "P-2", found[0].ProductID)

	byCategory, err := f.query.ListByCategory(ctx, "ferretería")
	require.NoError(t, err)
	assert.Len(t, byCategory, 3)

	byLocation, err := f.query.ListByLocation(ctx, "B-99")
	require.NoError(t, err)
	assert.Empty(t, byLocation)

	_, err = f.query.Search(ctx, "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.query.ListByStatus(ctx, "FROZEN")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestQuery_TransaccionesPorTipo(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.create(t, "P-1", 10, 2)
	_, err := f.ledger.Reserve(ctx, "P-1", 2, "ORD-1")
	require.NoError(t, err)
	_, err = f.ledger.Inbound(ctx, "P-1", 2, "PO-1")
	require.NoError(t, err)

	reserves, err := f.query.ListTransactions(ctx, repository.TransactionFilter{Type: "reserve"})
	require.NoError(t, err)
	require.Len(t, reserves, 1)
	assert.Equal(t, "ORD-1", reserves[0].ReferenceID)

	_, err = f.query.ListTransactions(ctx, repository.TransactionFilter{Type: "TRANSFER"})
	assert.ErrorIs(t, err, domain.ErrUnknownTransactionType)

	_, err = f.query.GetTransaction(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQuery_TransaccionesPaginacionNegativa(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.create(t, "P-1", 10, 2)
	_, err := f.ledger.Inbound(ctx, "P-1", 2, "PO-1")
	require.NoError(t, err)

	_, err = f.query.ListTransactions(ctx, repository.TransactionFilter{Offset: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.query.ListTransactions(ctx, repository.TransactionFilter{Limit: -5})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	txs, err := f.query.ListTransactions(ctx, repository.TransactionFilter{ProductID: " P-1 ", Limit: 1})
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}
