package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound                   = errors.New("recurso no encontrado")
	ErrAccountNotFound            = errors.New("cuenta de stock no encontrada")
	ErrDuplicateAccount           = errors.New("el producto ya tiene cuenta de stock")
	ErrInvalidQuantity            = errors.New("cantidad inválida")
	ErrInsufficientStock          = errors.New("stock insuficiente")
	ErrInsufficientAvailableStock = errors.New("stock disponible insuficiente para reservar")
	ErrInsufficientReservedStock  = errors.New("stock reservado insuficiente para liberar")
	ErrUnknownTransactionType     = errors.New("tipo de transacción desconocido")
	ErrInvalidInput               = errors.New("entrada inválida")
	ErrUnauthorized               = errors.New("no autorizado")

	// ErrTransientStorage lo usan los adaptadores para marcar fallos reintentables
	// (contención de locks, conexión caída antes del commit).
	ErrTransientStorage = errors.New("fallo transitorio de almacenamiento")
	// ErrStorageUnavailable se devuelve al caller cuando se agotan los reintentos.
	ErrStorageUnavailable = errors.New("almacenamiento no disponible")
)

// StockError explica un rechazo de negocio con la foto de cantidades del momento,
// para que el caller no necesite una lectura adicional.
type StockError struct {
	Err       error
	ProductID string
	Requested int
	Current   int
	Reserved  int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("%v: product_id=%s solicitado=%d actual=%d reservado=%d disponible=%d",
		e.Err, e.ProductID, e.Requested, e.Current, e.Reserved, e.Available)
}

// Unwrap permite errors.Is contra el centinela.
func (e *StockError) Unwrap() error {
	return e.Err
}
