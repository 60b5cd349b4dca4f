package ledger

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// Reconciliation totales del log de un producto comparados con su cuenta.
// ReservedMatches = (RESERVE - RELEASE) == ReservedStock. Se informa, no se corrige.
// Solo cuentan los registros desde Since (alta de la cuenta actual): el log conserva
// los movimientos de cuentas borradas con el mismo product_id.
type Reconciliation struct {
	ProductID        string
	Since            time.Time
	CurrentStock     int
	ReservedStock    int
	Totals           map[entity.TransactionType]int64
	NetReserved      int64
	ReservedMatches  bool
	TransactionCount int
}

// Reconcile suma las cantidades del log por tipo para productID.
// Sin lock de escritura: es una foto de lectura.
func (uc *LedgerUseCase) Reconcile(ctx context.Context, productID string) (*Reconciliation, error) {
	acc, err := uc.GetAccountByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	since := acc.CreatedAt
	rec := &Reconciliation{
		ProductID:     acc.ProductID,
		Since:         since,
		CurrentStock:  acc.CurrentStock,
		ReservedStock: acc.ReservedStock,
		Totals:        make(map[entity.TransactionType]int64, len(entity.AllTransactionTypes())),
	}
	for _, typ := range entity.AllTransactionTypes() {
		sum, err := uc.txRepo.SumQuantity(ctx, acc.ProductID, typ, since)
		if err != nil {
			return nil, err
		}
		rec.Totals[typ] = sum
	}
	rec.NetReserved = rec.Totals[entity.TransactionReserve] - rec.Totals[entity.TransactionRelease]
	rec.ReservedMatches = rec.NetReserved == int64(acc.ReservedStock)

	txs, err := uc.txRepo.List(ctx, repository.TransactionFilter{ProductID: acc.ProductID, From: &since})
	if err != nil {
		return nil, err
	}
	rec.TransactionCount = len(txs)
	return rec, nil
}
