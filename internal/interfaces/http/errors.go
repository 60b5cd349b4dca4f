package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
)

// errorMapping código HTTP y código de error por centinela de dominio. El orden importa:
// se usa el primero que coincida con errors.Is.
var errorMapping = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrAccountNotFound, fiber.StatusNotFound, "ACCOUNT_NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrDuplicateAccount, fiber.StatusConflict, "DUPLICATE_ACCOUNT"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrInsufficientAvailableStock, fiber.StatusConflict, "INSUFFICIENT_AVAILABLE_STOCK"},
	{domain.ErrInsufficientReservedStock, fiber.StatusConflict, "INSUFFICIENT_RESERVED_STOCK"},
	{domain.ErrInvalidQuantity, fiber.StatusBadRequest, "INVALID_QUANTITY"},
	{domain.ErrUnknownTransactionType, fiber.StatusBadRequest, "UNKNOWN_TRANSACTION_TYPE"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrStorageUnavailable, fiber.StatusServiceUnavailable, "STORAGE_UNAVAILABLE"},
	{domain.ErrTransientStorage, fiber.StatusServiceUnavailable, "STORAGE_UNAVAILABLE"},
}

// writeError traduce err a respuesta HTTP. Lo no reconocido es 500.
func writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorMapping {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.NewErrorResponse(m.code, err))
		}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func badRequest(c *fiber.Ctx, code, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: message})
}
