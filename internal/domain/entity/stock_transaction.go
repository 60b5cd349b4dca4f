package entity

import (
	"strings"
	"time"
)

// TransactionType tipo de movimiento de stock. Conjunto cerrado: ver AllTransactionTypes.
type TransactionType string

const (
	TransactionInbound    TransactionType = "INBOUND"    // entrada de mercancía
	TransactionOutbound   TransactionType = "OUTBOUND"   // salida (despacho)
	TransactionReserve    TransactionType = "RESERVE"    // reserva contra un pedido
	TransactionRelease    TransactionType = "RELEASE"    // liberación de reserva
	TransactionAdjustment TransactionType = "ADJUSTMENT" // conteo físico, valor absoluto
	TransactionReturn     TransactionType = "RETURN"     // devolución de cliente
	TransactionDamage     TransactionType = "DAMAGE"     // baja por daño
)

// Tipos de referencia convencionales usados por los atajos del ledger.
const (
	ReferenceOrder      = "ORDER"
	ReferenceInbound    = "INBOUND"
	ReferenceOutbound   = "OUTBOUND"
	ReferenceCorrection = "CORRECTION"
)

// AllTransactionTypes enumera el conjunto cerrado de tipos.
func AllTransactionTypes() []TransactionType {
	return []TransactionType{
		TransactionInbound,
		TransactionOutbound,
		TransactionReserve,
		TransactionRelease,
		TransactionAdjustment,
		TransactionReturn,
		TransactionDamage,
	}
}

// ParseTransactionType normaliza s (sin distinguir mayúsculas) y valida que pertenezca al conjunto.
func ParseTransactionType(s string) (TransactionType, bool) {
	t := TransactionType(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range AllTransactionTypes() {
		if t == known {
			return t, true
		}
	}
	return "", false
}

// StockTransaction registro inmutable de un movimiento. Nunca se actualiza ni se borra.
// BeforeStock/AfterStock son fotos de CurrentStock antes y después de la operación.
type StockTransaction struct {
	ID            int64
	ProductID     string
	ProductName   string
	Type          TransactionType
	Quantity      int
	BeforeStock   int
	AfterStock    int
	ReferenceID   string
	ReferenceType string
	OperatorID    string
	OperatorName  string
	Notes         string
	CreatedAt     time.Time
}

// Clone devuelve una copia independiente.
func (t *StockTransaction) Clone() *StockTransaction {
	c := *t
	return &c
}
