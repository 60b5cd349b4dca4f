package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// LedgerHandler maneja las peticiones HTTP del ledger de stock (protegido).
type LedgerHandler struct {
	ledger *ledger.LedgerUseCase
	query  *ledger.QueryUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(ledgerUC *ledger.LedgerUseCase, queryUC *ledger.QueryUseCase) *LedgerHandler {
	return &LedgerHandler{ledger: ledgerUC, query: queryUC}
}

// CreateAccount godoc
// @Summary      Crear cuenta de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAccountRequest  true  "Datos de la cuenta"
// @Success      201   {object}  dto.StockAccountResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/accounts [post]
func (h *LedgerHandler) CreateAccount(c *fiber.Ctx) error {
	var in dto.CreateAccountRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	acc, err := h.ledger.CreateAccount(c.UserContext(), in.ToInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewStockAccountResponse(acc))
}

// UpdateAccount godoc
// @Summary      Corregir cuenta de stock
// @Description  Reemplaza los campos descriptivos y el stock actual. Un cambio de stock queda en el log como ADJUSTMENT/CORRECTION.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la cuenta"
// @Param        body  body  dto.UpdateAccountRequest  true  "Datos de la cuenta"
// @Success      200   {object}  dto.StockAccountResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/accounts/{id} [put]
func (h *LedgerHandler) UpdateAccount(c *fiber.Ctx) error {
	var in dto.UpdateAccountRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	acc, err := h.ledger.UpdateAccount(c.UserContext(), c.Params("id"), ledger.UpdateAccountInput{
		ProductName:       in.ProductName,
		Category:          in.Category,
		CurrentStock:      in.CurrentStock,
		MinStock:          in.MinStock,
		MaxStock:          in.MaxStock,
		UnitPrice:         in.UnitPrice,
		WarehouseLocation: in.WarehouseLocation,
		Status:            entity.AccountStatus(in.Status),
		OperatorID:        GetUserID(c),
		OperatorName:      GetUserName(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewStockAccountResponse(acc))
}

// DeleteAccount godoc
// @Summary      Eliminar cuenta de stock
// @Tags         stock
// @Security     Bearer
// @Param        id  path  string  true  "ID de la cuenta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/accounts/{id} [delete]
func (h *LedgerHandler) DeleteAccount(c *fiber.Ctx) error {
	if err := h.ledger.DeleteAccount(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetAccount godoc
// @Summary      Obtener cuenta por ID
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cuenta"
// @Success      200  {object}  dto.StockAccountResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/accounts/{id} [get]
func (h *LedgerHandler) GetAccount(c *fiber.Ctx) error {
	acc, err := h.query.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewStockAccountResponse(acc))
}

// GetAccountByProduct godoc
// @Summary      Obtener cuenta por producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.StockAccountResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/products/{productId} [get]
func (h *LedgerHandler) GetAccountByProduct(c *fiber.Ctx) error {
	acc, err := h.query.GetByProductID(c.UserContext(), c.Params("productId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewStockAccountResponse(acc))
}

// ListAccounts godoc
// @Summary      Listar cuentas de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        category      query  string  false  "Categoría"
// @Param        status        query  string  false  "ACTIVE | LOW_STOCK | OUT_OF_STOCK | DISCONTINUED"
// @Param        name          query  string  false  "Búsqueda por nombre (sin distinguir mayúsculas)"
// @Param        location      query  string  false  "Ubicación en bodega"
// @Param        low_stock     query  bool    false  "Solo stock <= mínimo"
// @Param        out_of_stock  query  bool    false  "Solo stock = 0"
// @Param        limit         query  int     false  "Límite (máx 100)"
// @Param        offset        query  int     false  "Desplazamiento"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/accounts [get]
func (h *LedgerHandler) ListAccounts(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return badRequest(c, "INVALID_PAGE", "limit/offset inválidos")
	}
	filter := repository.AccountFilter{
		Category:     c.Query("category"),
		Status:       entity.AccountStatus(c.Query("status")),
		NameContains: c.Query("name"),
		Location:     c.Query("location"),
		LowStock:     c.QueryBool("low_stock"),
		OutOfStock:   c.QueryBool("out_of_stock"),
		Limit:        page.Limit,
		Offset:       page.Offset,
	}
	list, err := h.query.List(c.UserContext(), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"items": dto.NewStockAccountList(list),
		"page":  dto.NewPageResponse(page, len(list)),
	})
}

// Mutate godoc
// @Summary      Registrar movimiento de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MutationRequest  true  "product_id, type, quantity, reference"
// @Success      201   {object}  dto.StockTransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/stock/transactions [post]
func (h *LedgerHandler) Mutate(c *fiber.Ctx) error {
	var in dto.MutationRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	return h.mutate(c, ledger.MutationInput{
		ProductID:     in.ProductID,
		Type:          entity.TransactionType(in.Type),
		Quantity:      in.Quantity,
		ReferenceID:   in.ReferenceID,
		ReferenceType: in.ReferenceType,
		Notes:         in.Notes,
	})
}

// Shortcut devuelve el handler de un atajo (reserve, release, inbound, outbound) sobre
// /api/stock/products/{productId}/<atajo>.
func (h *LedgerHandler) Shortcut(typ entity.TransactionType, referenceType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in dto.QuantityRequest
		if err := c.BodyParser(&in); err != nil {
			return badRequest(c, "INVALID_BODY", "cuerpo inválido")
		}
		return h.mutate(c, ledger.MutationInput{
			ProductID:     c.Params("productId"),
			Type:          typ,
			Quantity:      in.Quantity,
			ReferenceID:   in.ReferenceID,
			ReferenceType: referenceType,
		})
	}
}

func (h *LedgerHandler) mutate(c *fiber.Ctx, in ledger.MutationInput) error {
	in.OperatorID = GetUserID(c)
	in.OperatorName = GetUserName(c)
	tx, err := h.ledger.Mutate(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewStockTransactionResponse(tx))
}

// RefreshStatus godoc
// @Summary      Recalcular estado de la cuenta
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.StockAccountResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/products/{productId}/refresh-status [post]
func (h *LedgerHandler) RefreshStatus(c *fiber.Ctx) error {
	acc, err := h.ledger.RefreshStatus(c.UserContext(), c.Params("productId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewStockAccountResponse(acc))
}

// Reconcile godoc
// @Summary      Conciliar cuenta contra el log
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.ReconciliationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/products/{productId}/reconcile [get]
func (h *LedgerHandler) Reconcile(c *fiber.Ctx) error {
	rec, err := h.ledger.Reconcile(c.UserContext(), c.Params("productId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewReconciliationResponse(rec))
}

// ListTransactions godoc
// @Summary      Listar transacciones de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id      query  string  false  "ID del producto"
// @Param        type            query  string  false  "Tipo de transacción"
// @Param        reference_id    query  string  false  "Referencia (pedido, orden de compra)"
// @Param        reference_type  query  string  false  "Tipo de referencia"
// @Param        operator_id     query  string  false  "Operador"
// @Param        from            query  string  false  "Desde (RFC3339)"
// @Param        to              query  string  false  "Hasta (RFC3339)"
// @Param        limit           query  int     false  "Límite (máx 100)"
// @Param        offset          query  int     false  "Desplazamiento"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/transactions [get]
func (h *LedgerHandler) ListTransactions(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return badRequest(c, "INVALID_PAGE", "limit/offset inválidos")
	}
	filter := repository.TransactionFilter{
		ProductID:     c.Query("product_id"),
		Type:          entity.TransactionType(c.Query("type")),
		ReferenceID:   c.Query("reference_id"),
		ReferenceType: c.Query("reference_type"),
		OperatorID:    c.Query("operator_id"),
		Limit:         page.Limit,
		Offset:        page.Offset,
	}
	if filter.From, err = parseTime(c.Query("from")); err != nil {
		return badRequest(c, "INVALID_DATE", "from debe ser RFC3339")
	}
	if filter.To, err = parseTime(c.Query("to")); err != nil {
		return badRequest(c, "INVALID_DATE", "to debe ser RFC3339")
	}
	list, err := h.query.ListTransactions(c.UserContext(), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"items": dto.NewStockTransactionList(list),
		"page":  dto.NewPageResponse(page, len(list)),
	})
}

// GetTransaction godoc
// @Summary      Obtener transacción por ID
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la transacción"
// @Success      200  {object}  dto.StockTransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/transactions/{id} [get]
func (h *LedgerHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return badRequest(c, "INVALID_ID", "id debe ser un entero positivo")
	}
	tx, err := h.query.GetTransaction(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewStockTransactionResponse(tx))
}

func parsePage(c *fiber.Ctx) (dto.PageRequest, error) {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return page, err
	}
	return page, page.Normalize()
}

func parseTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
