package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// CreateAccountRequest body para POST /api/stock/accounts.
type CreateAccountRequest struct {
	ProductID         string          `json:"product_id"`
	ProductName       string          `json:"product_name"`
	Category          string          `json:"category"`
	CurrentStock      int             `json:"current_stock"`
	MinStock          int             `json:"min_stock"`
	MaxStock          int             `json:"max_stock"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	WarehouseLocation string          `json:"warehouse_location"`
	Status            string          `json:"status,omitempty"` // vacío = ACTIVE
}

// ToInput convierte el body al input del caso de uso.
func (r CreateAccountRequest) ToInput() ledger.CreateAccountInput {
	return ledger.CreateAccountInput{
		ProductID:         r.ProductID,
		ProductName:       r.ProductName,
		Category:          r.Category,
		CurrentStock:      r.CurrentStock,
		MinStock:          r.MinStock,
		MaxStock:          r.MaxStock,
		UnitPrice:         r.UnitPrice,
		WarehouseLocation: r.WarehouseLocation,
		Status:            entity.AccountStatus(r.Status),
	}
}

// UpdateAccountRequest body para PUT /api/stock/accounts/:id.
type UpdateAccountRequest struct {
	ProductName       string          `json:"product_name"`
	Category          string          `json:"category"`
	CurrentStock      int             `json:"current_stock"`
	MinStock          int             `json:"min_stock"`
	MaxStock          int             `json:"max_stock"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	WarehouseLocation string          `json:"warehouse_location"`
	Status            string          `json:"status,omitempty"` // DISCONTINUED se respeta; el resto se recalcula
}

// MutationRequest body para POST /api/stock/transactions.
type MutationRequest struct {
	ProductID     string `json:"product_id"`
	Type          string `json:"type"` // INBOUND | OUTBOUND | RESERVE | RELEASE | ADJUSTMENT | RETURN | DAMAGE
	Quantity      int    `json:"quantity"`
	ReferenceID   string `json:"reference_id,omitempty"`
	ReferenceType string `json:"reference_type,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// QuantityRequest body de los atajos reserve/release/inbound/outbound.
type QuantityRequest struct {
	Quantity    int    `json:"quantity"`
	ReferenceID string `json:"reference_id,omitempty"`
}

// StockAccountResponse cuenta de stock en respuestas.
type StockAccountResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	ProductName       string          `json:"product_name"`
	Category          string          `json:"category"`
	CurrentStock      int             `json:"current_stock"`
	ReservedStock     int             `json:"reserved_stock"`
	AvailableStock    int             `json:"available_stock"`
	MinStock          int             `json:"min_stock"`
	MaxStock          int             `json:"max_stock"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	WarehouseLocation string          `json:"warehouse_location"`
	Status            string          `json:"status"`
	Version           int64           `json:"version"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// NewStockAccountResponse mapea la entidad.
func NewStockAccountResponse(a *entity.StockAccount) StockAccountResponse {
	return StockAccountResponse{
		ID:                a.ID,
		ProductID:         a.ProductID,
		ProductName:       a.ProductName,
		Category:          a.Category,
		CurrentStock:      a.CurrentStock,
		ReservedStock:     a.ReservedStock,
		AvailableStock:    a.AvailableStock,
		MinStock:          a.MinStock,
		MaxStock:          a.MaxStock,
		UnitPrice:         a.UnitPrice,
		WarehouseLocation: a.WarehouseLocation,
		Status:            string(a.Status),
		Version:           a.Version,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

// NewStockAccountList mapea una lista de cuentas.
func NewStockAccountList(accounts []*entity.StockAccount) []StockAccountResponse {
	out := make([]StockAccountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, NewStockAccountResponse(a))
	}
	return out
}

// StockTransactionResponse registro del log en respuestas.
type StockTransactionResponse struct {
	ID            int64     `json:"id"`
	ProductID     string    `json:"product_id"`
	ProductName   string    `json:"product_name"`
	Type          string    `json:"type"`
	Quantity      int       `json:"quantity"`
	BeforeStock   int       `json:"before_stock"`
	AfterStock    int       `json:"after_stock"`
	ReferenceID   string    `json:"reference_id,omitempty"`
	ReferenceType string    `json:"reference_type,omitempty"`
	OperatorID    string    `json:"operator_id,omitempty"`
	OperatorName  string    `json:"operator_name,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewStockTransactionResponse mapea la entidad.
func NewStockTransactionResponse(t *entity.StockTransaction) StockTransactionResponse {
	return StockTransactionResponse{
		ID:            t.ID,
		ProductID:     t.ProductID,
		ProductName:   t.ProductName,
		Type:          string(t.Type),
		Quantity:      t.Quantity,
		BeforeStock:   t.BeforeStock,
		AfterStock:    t.AfterStock,
		ReferenceID:   t.ReferenceID,
		ReferenceType: t.ReferenceType,
		OperatorID:    t.OperatorID,
		OperatorName:  t.OperatorName,
		Notes:         t.Notes,
		CreatedAt:     t.CreatedAt,
	}
}

// NewStockTransactionList mapea una lista de registros.
func NewStockTransactionList(txs []*entity.StockTransaction) []StockTransactionResponse {
	out := make([]StockTransactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, NewStockTransactionResponse(t))
	}
	return out
}

// StatisticsResponse agregados de GET /api/stock/statistics.
type StatisticsResponse struct {
	TotalProducts     int             `json:"total_products"`
	TotalStock        int64           `json:"total_stock"`
	TotalReserved     int64           `json:"total_reserved"`
	TotalValue        decimal.Decimal `json:"total_value"`
	ActiveCount       int             `json:"active_count"`
	LowStockCount     int             `json:"low_stock_count"`
	OutOfStockCount   int             `json:"out_of_stock_count"`
	DiscontinuedCount int             `json:"discontinued_count"`
}

// NewStatisticsResponse mapea las estadísticas.
func NewStatisticsResponse(s *ledger.Statistics) StatisticsResponse {
	return StatisticsResponse{
		TotalProducts:     s.TotalProducts,
		TotalStock:        s.TotalStock,
		TotalReserved:     s.TotalReserved,
		TotalValue:        s.TotalValue,
		ActiveCount:       s.ActiveCount,
		LowStockCount:     s.LowStockCount,
		OutOfStockCount:   s.OutOfStockCount,
		DiscontinuedCount: s.DiscontinuedCount,
	}
}

// ReconciliationResponse resultado de GET /api/stock/accounts/product/:productId/reconcile.
type ReconciliationResponse struct {
	ProductID        string           `json:"product_id"`
	Since            time.Time        `json:"since"`
	CurrentStock     int              `json:"current_stock"`
	ReservedStock    int              `json:"reserved_stock"`
	Totals           map[string]int64 `json:"totals"`
	NetReserved      int64            `json:"net_reserved"`
	ReservedMatches  bool             `json:"reserved_matches"`
	TransactionCount int              `json:"transaction_count"`
}

// NewReconciliationResponse mapea la conciliación.
func NewReconciliationResponse(r *ledger.Reconciliation) ReconciliationResponse {
	totals := make(map[string]int64, len(r.Totals))
	for typ, v := range r.Totals {
		totals[string(typ)] = v
	}
	return ReconciliationResponse{
		ProductID:        r.ProductID,
		Since:            r.Since,
		CurrentStock:     r.CurrentStock,
		ReservedStock:    r.ReservedStock,
		Totals:           totals,
		NetReserved:      r.NetReserved,
		ReservedMatches:  r.ReservedMatches,
		TransactionCount: r.TransactionCount,
	}
}
