package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountStatus estado derivado de una cuenta de stock.
type AccountStatus string

const (
	StatusActive       AccountStatus = "ACTIVE"
	StatusLowStock     AccountStatus = "LOW_STOCK"
	StatusOutOfStock   AccountStatus = "OUT_OF_STOCK"
	StatusDiscontinued AccountStatus = "DISCONTINUED"
)

// Valid indica si s es uno de los estados conocidos.
func (s AccountStatus) Valid() bool {
	switch s {
	case StatusActive, StatusLowStock, StatusOutOfStock, StatusDiscontinued:
		return true
	}
	return false
}

// StockAccount representa el stock de un producto: físico, reservado y disponible.
// Una sola cuenta por ProductID. AvailableStock nunca se escribe a mano; lo recalcula Recompute.
type StockAccount struct {
	ID                string
	ProductID         string
	ProductName       string
	Category          string
	CurrentStock      int
	ReservedStock     int
	AvailableStock    int
	MinStock          int
	MaxStock          int
	UnitPrice         decimal.Decimal
	WarehouseLocation string
	Status            AccountStatus
	Version           int64 // se incrementa en cada escritura confirmada
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Recompute recalcula AvailableStock = CurrentStock - ReservedStock.
func (a *StockAccount) Recompute() {
	a.AvailableStock = a.CurrentStock - a.ReservedStock
}

// Value devuelve CurrentStock * UnitPrice.
func (a *StockAccount) Value() decimal.Decimal {
	return a.UnitPrice.Mul(decimal.NewFromInt(int64(a.CurrentStock)))
}

// IsLowStock incluye las cuentas sin stock (CurrentStock <= MinStock).
func (a *StockAccount) IsLowStock() bool {
	return a.CurrentStock <= a.MinStock
}

// IsOutOfStock indica CurrentStock == 0.
func (a *StockAccount) IsOutOfStock() bool {
	return a.CurrentStock == 0
}

// Clone devuelve una copia independiente (los lectores nunca comparten el puntero del store).
func (a *StockAccount) Clone() *StockAccount {
	c := *a
	return &c
}
