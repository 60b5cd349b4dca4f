package stock

import (
	"math"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// MaxQuantity tope de los contadores de stock. Coincide con las columnas INTEGER.
const MaxQuantity = math.MaxInt32

// Change son las cantidades resultantes de un movimiento.
// Before/After son CurrentStock antes y después; Reserved es el nuevo ReservedStock.
type Change struct {
	Before   int
	After    int
	Reserved int
}

// ApplyTo escribe el cambio en la cuenta y recalcula el disponible.
func (c Change) ApplyTo(a *entity.StockAccount) {
	a.CurrentStock = c.After
	a.ReservedStock = c.Reserved
	a.Recompute()
}

// Apply valida las precondiciones de t sobre a y devuelve las nuevas cantidades.
// No modifica a. Los rechazos vienen como *domain.StockError.
func Apply(a *entity.StockAccount, t entity.TransactionType, quantity int) (Change, error) {
	if quantity <= 0 || quantity > MaxQuantity {
		return Change{}, reject(domain.ErrInvalidQuantity, a, quantity)
	}
	switch t {
	case entity.TransactionInbound, entity.TransactionReturn:
		return applyReceipt(a, quantity)
	case entity.TransactionOutbound:
		return applyOutbound(a, quantity)
	case entity.TransactionDamage:
		return applyDamage(a, quantity)
	case entity.TransactionReserve:
		return applyReserve(a, quantity)
	case entity.TransactionRelease:
		return applyRelease(a, quantity)
	case entity.TransactionAdjustment:
		return applyAdjustment(a, quantity)
	default:
		return Change{}, domain.ErrUnknownTransactionType
	}
}

func applyReceipt(a *entity.StockAccount, quantity int) (Change, error) {
	if a.CurrentStock > MaxQuantity-quantity {
		return Change{}, reject(domain.ErrInvalidQuantity, a, quantity)
	}
	return Change{Before: a.CurrentStock, After: a.CurrentStock + quantity, Reserved: a.ReservedStock}, nil
}

func applyOutbound(a *entity.StockAccount, quantity int) (Change, error) {
	if available(a) < quantity {
		return Change{}, reject(domain.ErrInsufficientStock, a, quantity)
	}
	return Change{Before: a.CurrentStock, After: a.CurrentStock - quantity, Reserved: a.ReservedStock}, nil
}

// applyDamage exige CurrentStock >= quantity. Además la baja no puede dejar
// reservas por encima del físico: hay que liberar antes.
func applyDamage(a *entity.StockAccount, quantity int) (Change, error) {
	if a.CurrentStock < quantity || a.CurrentStock-quantity < a.ReservedStock {
		return Change{}, reject(domain.ErrInsufficientStock, a, quantity)
	}
	return Change{Before: a.CurrentStock, After: a.CurrentStock - quantity, Reserved: a.ReservedStock}, nil
}

func applyReserve(a *entity.StockAccount, quantity int) (Change, error) {
	if available(a) < quantity {
		return Change{}, reject(domain.ErrInsufficientAvailableStock, a, quantity)
	}
	return Change{Before: a.CurrentStock, After: a.CurrentStock, Reserved: a.ReservedStock + quantity}, nil
}

func applyRelease(a *entity.StockAccount, quantity int) (Change, error) {
	if a.ReservedStock < quantity {
		return Change{}, reject(domain.ErrInsufficientReservedStock, a, quantity)
	}
	return Change{Before: a.CurrentStock, After: a.CurrentStock, Reserved: a.ReservedStock - quantity}, nil
}

// applyAdjustment fija CurrentStock = quantity (valor absoluto, conteo físico).
// No puede quedar por debajo de lo reservado.
func applyAdjustment(a *entity.StockAccount, quantity int) (Change, error) {
	if quantity < a.ReservedStock {
		return Change{}, reject(domain.ErrInsufficientStock, a, quantity)
	}
	return Change{Before: a.CurrentStock, After: quantity, Reserved: a.ReservedStock}, nil
}

// available no confía en el campo persistido.
func available(a *entity.StockAccount) int {
	return a.CurrentStock - a.ReservedStock
}

func reject(err error, a *entity.StockAccount, quantity int) *domain.StockError {
	return &domain.StockError{
		Err:       err,
		ProductID: a.ProductID,
		Requested: quantity,
		Current:   a.CurrentStock,
		Reserved:  a.ReservedStock,
		Available: available(a),
	}
}
