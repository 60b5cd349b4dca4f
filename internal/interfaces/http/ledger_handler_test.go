package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/stock-ledger/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// buildLedgerApp arma la API completa sobre el store en memoria.
func buildLedgerApp(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	cfg := ledger.DefaultConfig()
	cfg.RetryInitialInterval = time.Millisecond

	ledgerUC := ledger.NewLedgerUseCase(memory.NewTxRunner(store), store.Accounts(), store.Transactions(), cfg, zerolog.Nop())
	queryUC := ledger.NewQueryUseCase(store.Accounts(), store.Transactions())
	statsUC := ledger.NewStatisticsUseCase(store.Accounts())
	reportUC := ledger.NewReportUseCase(queryUC, statsUC, pdf.NewStockReportGenerator(), "Reporte de prueba")

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Ledger:    ledgerUC,
		Query:     queryUC,
		Stats:     statsUC,
		Report:    reportUC,
		JWTSecret: testJWTSecret,
		Log:       zerolog.Nop(),
	})
	return app
}

// call lanza una petición con el rol indicado; body se serializa a JSON si no es nil.
func call(t *testing.T, app *fiber.App, method, path, role string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func createAccount(t *testing.T, app *fiber.App, productID string, current, min int) dto.StockAccountResponse {
	t.Helper()
	resp := call(t, app, http.MethodPost, "/api/stock/accounts", pkgjwt.RoleAdmin, map[string]any{
		"product_id":         productID,
		"product_name":       "Producto " + productID,
		"category":           "ferretería",
		"current_stock":      current,
		"min_stock":          min,
		"max_stock":          500,
		"unit_price":         "3.25",
		"warehouse_location": "B-02",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.StockAccountResponse](t, resp)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cuentas
// ──────────────────────────────────────────────────────────────────────────────

func TestLedgerAPI_CrearYConsultarCuenta(t *testing.T) {
	app := buildLedgerApp(t)
	created := createAccount(t, app, "SKU-1", 40, 5)

	assert.Equal(t, "ACTIVE", created.Status)
	assert.Equal(t, 0, created.ReservedStock)
	assert.Equal(t, 40, created.AvailableStock)

	resp := call(t, app, http.MethodGet, "/api/stock/accounts/"+created.ID, pkgjwt.RoleViewer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	byID := decode[dto.StockAccountResponse](t, resp)
	assert.Equal(t, "SKU-1", byID.ProductID)

	resp = call(t, app, http.MethodGet, "/api/stock/products/SKU-1", pkgjwt.RoleViewer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	byProduct := decode[dto.StockAccountResponse](t, resp)
	assert.Equal(t, created.ID, byProduct.ID)
}

func TestLedgerAPI_CuentaDuplicadaRetorna409(t *testing.T) {
	app := buildLedgerApp(t)
	createAccount(t, app, "SKU-1", 10, 1)

	resp := call(t, app, http.MethodPost, "/api/stock/accounts", pkgjwt.RoleAdmin, map[string]any{
		"product_id": "SKU-1", "product_name": "Otro", "current_stock": 1, "max_stock": 10, "unit_price": "1",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestLedgerAPI_CuentaInexistenteRetorna404(t *testing.T) {
	app := buildLedgerApp(t)
	resp := call(t, app, http.MethodGet, "/api/stock/products/NO-EXISTE", pkgjwt.RoleViewer, nil)
	body := decode[dto.ErrorResponse](t, resp)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "ACCOUNT_NOT_FOUND", body.Code)
}

func TestLedgerAPI_OperadorNoPuedeCrearCuentas(t *testing.T) {
	app := buildLedgerApp(t)
	resp := call(t, app, http.MethodPost, "/api/stock/accounts", pkgjwt.RoleOperator, map[string]any{
		"product_id": "SKU-1", "product_name": "X", "current_stock": 1, "unit_price": "1",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLedgerAPI_SinTokenRetorna401(t *testing.T) {
	app := buildLedgerApp(t)
	resp := call(t, app, http.MethodGet, "/api/stock/accounts", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLedgerAPI_CorreccionQuedaEnElLog(t *testing.T) {
	app := buildLedgerApp(t)
	created := createAccount(t, app, "SKU-1", 20, 5)

	resp := call(t, app, http.MethodPut, "/api/stock/accounts/"+created.ID, pkgjwt.RoleAdmin, map[string]any{
		"product_name": "Producto corregido", "category": "ferretería",
		"current_stock": 12, "min_stock": 5, "max_stock": 500, "unit_price": "3.25",
		"warehouse_location": "B-02",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[dto.StockAccountResponse](t, resp)
	assert.Equal(t, 12, updated.CurrentStock)

	resp = call(t, app, http.MethodGet, "/api/stock/transactions?product_id=SKU-1", pkgjwt.RoleViewer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decode[struct {
		Items []dto.StockTransactionResponse `json:"items"`
	}](t, resp)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "ADJUSTMENT", page.Items[0].Type)
	assert.Equal(t, "CORRECTION", page.Items[0].ReferenceType)
	assert.Equal(t, 20, page.Items[0].BeforeStock)
	assert.Equal(t, 12, page.Items[0].AfterStock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestLedgerAPI_ReservaRegistraOperador(t *testing.T) {
	app := buildLedgerApp(t)
	createAccount(t, app, "SKU-1", 10, 2)

	resp := call(t, app, http.MethodPost, "/api/stock/products/SKU-1/reserve", pkgjwt.RoleOperator, map[string]any{
		"quantity": 4, "reference_id": "PED-77",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	tx := decode[dto.StockTransactionResponse](t, resp)

	assert.Equal(t, "RESERVE", tx.Type)
	assert.Equal(t, 4, tx.Quantity)
	assert.Equal(t, 10, tx.BeforeStock)
	assert.Equal(t, 10, tx.AfterStock)
	assert.Equal(t, "PED-77", tx.ReferenceID)
	assert.Equal(t, "ORDER", tx.ReferenceType)
	assert.Equal(t, testUserID, tx.OperatorID)
	assert.Equal(t, testUserName, tx.OperatorName)

	resp = call(t, app, http.MethodGet, "/api/stock/products/SKU-1", pkgjwt.RoleViewer, nil)
	acc := decode[dto.StockAccountResponse](t, resp)
	assert.Equal(t, 4, acc.ReservedStock)
	assert.Equal(t, 6, acc.AvailableStock)
}

func TestLedgerAPI_ReservaSinDisponibleRetorna409(t *testing.T) {
	app := buildLedgerApp(t)
	createAccount(t, app, "SKU-1", 3, 0)

	resp := call(t, app, http.MethodPost, "/api/stock/products/SKU-1/reserve", pkgjwt.RoleOperator, map[string]any{"quantity": 5})
	body := decode[dto.ErrorResponse](t, resp)

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_AVAILABLE_STOCK", body.Code)
	require.NotNil(t, body.Stock)
	assert.Equal(t, "SKU-1", body.Stock.ProductID)
	assert.Equal(t, 5, body.Stock.Requested)
	assert.Equal(t, 3, body.Stock.AvailableStock)
}

func TestLedgerAPI_PaginacionNegativaRetorna400(t *testing.T) {
	app := buildLedgerApp(t)
	createAccount(t, app, "SKU-1", 3, 0)

	for _, path := range []string{
		"/api/stock/transactions?offset=-1",
		"/api/stock/transactions?limit=-3",
		"/api/stock/accounts?offset=-2",
	} {
		resp := call(t, app, http.MethodGet, path, pkgjwt.RoleViewer, nil)
		body := decode[dto.ErrorResponse](t, resp)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
		assert.Equal(t, "INVALID_PAGE", body.Code, path)
	}
}

func TestLedgerAPI_MutateValidaEntrada(t *testing.T) {
	app := buildLedgerApp(t)
	createAccount(t, app, "SKU-1", 3, 0)

	tests := []struct {
		name     string
		body     map[string]any
		wantCode string
	}{
		{"cantidad cero", map[string]any{"product_id": "SKU-1", "type": "INBOUND", "quantity": 0}, "INVALID_QUANTITY"},
		{"tipo desconocido", map[string]any{"product_id": "SKU-1", "type": "TRANSFER", "quantity": 1}, "UNKNOWN_TRANSACTION_TYPE"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := call(t, app, http.MethodPost, "/api/stock/transactions", pkgjwt.RoleAdmin, tc.body)
			body := decode[dto.ErrorResponse](t, resp)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tc.wantCode, body.Code)
		})
	}
}

func TestLedgerAPI_ConsultaNoPuedeMover(t *testing.T) {
	app := buildLedgerApp(t)
	createAccount(t, app, "SKU-1", 3, 0)

	resp := call(t, app, http.MethodPost, "/api/stock/products/SKU-1/inbound", pkgjwt.RoleViewer, map[string]any{"quantity": 1})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLedgerAPI_TransaccionPorID(t *testing.T) {
	app := buildLedgerApp(t)
	createAccount(t, app, "SKU-1", 3, 0)

	resp := call(t, app, http.MethodPost, "/api/stock/products/SKU-1/inbound", pkgjwt.RoleOperator, map[string]any{"quantity": 7})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.StockTransactionResponse](t, resp)

	resp = call(t, app, http.MethodGet, "/api/stock/transactions/"+strconv.FormatInt(created.ID, 10), pkgjwt.RoleViewer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[dto.StockTransactionResponse](t, resp)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, 10, got.AfterStock)

	resp = call(t, app, http.MethodGet, "/api/stock/transactions/abc", pkgjwt.RoleViewer, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reportes
// ──────────────────────────────────────────────────────────────────────────────

func TestLedgerAPI_EstadisticasYConciliacion(t *testing.T) {
	app := buildLedgerApp(t)
	createAccount(t, app, "SKU-1", 10, 2)
	createAccount(t, app, "SKU-2", 0, 1)

	resp := call(t, app, http.MethodPost, "/api/stock/products/SKU-1/reserve", pkgjwt.RoleOperator, map[string]any{"quantity": 3})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/stock/statistics", pkgjwt.RoleViewer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats := decode[dto.StatisticsResponse](t, resp)
	assert.Equal(t, 2, stats.TotalProducts)
	assert.Equal(t, int64(10), stats.TotalStock)
	assert.Equal(t, int64(3), stats.TotalReserved)
	assert.Equal(t, 1, stats.OutOfStockCount)

	resp = call(t, app, http.MethodGet, "/api/stock/products/SKU-1/reconcile", pkgjwt.RoleViewer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rec := decode[dto.ReconciliationResponse](t, resp)
	assert.True(t, rec.ReservedMatches)
	assert.Equal(t, int64(3), rec.NetReserved)
	assert.Equal(t, 1, rec.TransactionCount)
}

func TestLedgerAPI_ReportePDF(t *testing.T) {
	app := buildLedgerApp(t)
	createAccount(t, app, "SKU-1", 1, 5)

	resp := call(t, app, http.MethodGet, "/api/stock/report.pdf", pkgjwt.RoleViewer, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "stock-report-")

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}
