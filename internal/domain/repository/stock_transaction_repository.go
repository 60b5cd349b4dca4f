package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// TransactionFilter filtros del log de transacciones. Campos vacíos no filtran.
type TransactionFilter struct {
	ProductID     string
	Type          entity.TransactionType
	ReferenceID   string
	ReferenceType string
	OperatorID    string
	From          *time.Time // inclusive
	To            *time.Time // inclusive
	Limit         int        // 0 = sin límite
	Offset        int
}

// Matches evalúa el filtro en memoria.
func (f TransactionFilter) Matches(t *entity.StockTransaction) bool {
	if f.ProductID != "" && t.ProductID != f.ProductID {
		return false
	}
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.ReferenceID != "" && t.ReferenceID != f.ReferenceID {
		return false
	}
	if f.ReferenceType != "" && t.ReferenceType != f.ReferenceType {
		return false
	}
	if f.OperatorID != "" && t.OperatorID != f.OperatorID {
		return false
	}
	if f.From != nil && t.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && t.CreatedAt.After(*f.To) {
		return false
	}
	return true
}

// StockTransactionRepository puerto del log de transacciones: solo se agrega, nunca se modifica.
type StockTransactionRepository interface {
	// Append asigna ID y CreatedAt (si viene vacío) al registro.
	Append(ctx context.Context, tx *entity.StockTransaction) error
	GetByID(ctx context.Context, id int64) (*entity.StockTransaction, error)
	// List devuelve los más recientes primero (ID descendente).
	List(ctx context.Context, filter TransactionFilter) ([]*entity.StockTransaction, error)
	// SumQuantity suma Quantity por producto y tipo (conciliación), solo registros con
	// CreatedAt >= since. since cero no filtra.
	SumQuantity(ctx context.Context, productID string, typ entity.TransactionType, since time.Time) (int64, error)
}
