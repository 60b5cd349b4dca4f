package memory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks sobre un unitOfWork del Store.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn con repos atados a un unitOfWork nuevo. Si fn falla se descarta (Rollback);
// si no, se aplica todo junto (Commit).
func (r *TxRunner) Run(ctx context.Context, fn func(
	accountRepo repository.StockAccountRepository,
	txRepo repository.StockTransactionRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	u := newUnitOfWork()
	if err := fn(&StockAccountRepo{s: r.s, uow: u}, &StockTransactionRepo{s: r.s, uow: u}); err != nil {
		return err
	}
	return r.s.commit(ctx, u)
}
