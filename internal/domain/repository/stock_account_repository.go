package repository

import (
	"context"
	"strings"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// AccountFilter filtros de lectura sobre cuentas de stock. Campos vacíos no filtran.
type AccountFilter struct {
	ProductID    string
	Category     string
	Status       entity.AccountStatus
	NameContains string // sin distinguir mayúsculas
	Location     string
	LowStock     bool // CurrentStock <= MinStock
	OutOfStock   bool // CurrentStock == 0
	Limit        int  // 0 = sin límite
	Offset       int
}

// Matches evalúa el filtro en memoria (lo usan los adaptadores sin motor de consultas).
func (f AccountFilter) Matches(a *entity.StockAccount) bool {
	if f.ProductID != "" && a.ProductID != f.ProductID {
		return false
	}
	if f.Category != "" && a.Category != f.Category {
		return false
	}
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.NameContains != "" && !containsFold(a.ProductName, f.NameContains) {
		return false
	}
	if f.Location != "" && a.WarehouseLocation != f.Location {
		return false
	}
	if f.LowStock && !a.IsLowStock() {
		return false
	}
	if f.OutOfStock && !a.IsOutOfStock() {
		return false
	}
	return true
}

// StockAccountRepository puerto de persistencia de cuentas de stock (DIP).
// GetByID/GetByProductID devuelven (nil, nil) si no existe.
type StockAccountRepository interface {
	Create(ctx context.Context, account *entity.StockAccount) error
	GetByID(ctx context.Context, id string) (*entity.StockAccount, error)
	GetByProductID(ctx context.Context, productID string) (*entity.StockAccount, error)
	// GetForUpdate bloquea la cuenta hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, productID string) (*entity.StockAccount, error)
	Update(ctx context.Context, account *entity.StockAccount) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter AccountFilter) ([]*entity.StockAccount, error)
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
