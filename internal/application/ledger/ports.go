package ledger

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de almacenamiento, pasando repositorios
// atados a esa transacción. Si fn devuelve error no queda nada visible (Rollback); si no, todo
// queda visible a la vez (Commit). Garantiza la atomicidad cuenta + registro del log.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		accountRepo repository.StockAccountRepository,
		txRepo repository.StockTransactionRepository,
	) error) error
}
