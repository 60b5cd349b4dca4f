package dto

import (
	"errors"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

// Límites de paginación de los listados de cuentas y del log.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PageRequest limit/offset leídos del query string.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// Normalize rechaza negativos, aplica DefaultPageLimit si Limit es cero y recorta a MaxPageLimit.
func (p *PageRequest) Normalize() error {
	if p.Limit < 0 || p.Offset < 0 {
		return fmt.Errorf("limit/offset negativos: limit=%d offset=%d", p.Limit, p.Offset)
	}
	if p.Limit == 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return nil
}

// PageResponse página servida. Count = items de esta página.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
}

func NewPageResponse(p PageRequest, count int) PageResponse {
	return PageResponse{Limit: p.Limit, Offset: p.Offset, Count: count}
}

// ErrorResponse cuerpo de error HTTP. Stock solo viene en rechazos de movimientos.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Stock   *StockErrorDetail `json:"stock,omitempty"`
}

// StockErrorDetail foto de la cuenta al momento del rechazo.
type StockErrorDetail struct {
	ProductID      string `json:"product_id"`
	Requested      int    `json:"requested"`
	CurrentStock   int    `json:"current_stock"`
	ReservedStock  int    `json:"reserved_stock"`
	AvailableStock int    `json:"available_stock"`
}

func NewErrorResponse(code string, err error) ErrorResponse {
	resp := ErrorResponse{Code: code, Message: err.Error()}
	var stockErr *domain.StockError
	if errors.As(err, &stockErr) {
		resp.Stock = &StockErrorDetail{
			ProductID:      stockErr.ProductID,
			Requested:      stockErr.Requested,
			CurrentStock:   stockErr.Current,
			ReservedStock:  stockErr.Reserved,
			AvailableStock: stockErr.Available,
		}
	}
	return resp
}
