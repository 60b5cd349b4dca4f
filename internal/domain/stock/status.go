// Package stock contiene los servicios de dominio puros del ledger:
// derivación de estado y reglas de cantidad por tipo de movimiento.
package stock

import "github.com/jhoicas/stock-ledger/internal/domain/entity"

// DeriveStatus calcula el estado a partir de las cantidades:
//
//	CurrentStock == 0         → OUT_OF_STOCK
//	CurrentStock <= MinStock  → LOW_STOCK
//	resto                     → ACTIVE
func DeriveStatus(a *entity.StockAccount) entity.AccountStatus {
	switch {
	case a.CurrentStock == 0:
		return entity.StatusOutOfStock
	case a.CurrentStock <= a.MinStock:
		return entity.StatusLowStock
	default:
		return entity.StatusActive
	}
}

// NextStatus es el estado que debe quedar tras una escritura. DISCONTINUED solo
// lo pone o lo quita el caller de forma explícita, nunca se deriva.
func NextStatus(a *entity.StockAccount) entity.AccountStatus {
	if a.Status == entity.StatusDiscontinued {
		return entity.StatusDiscontinued
	}
	return DeriveStatus(a)
}
