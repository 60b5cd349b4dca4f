package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger    *ledger.LedgerUseCase
	Query     *ledger.QueryUseCase
	Stats     *ledger.StatisticsUseCase
	Report    *ledger.ReportUseCase
	JWTSecret string
	Log       zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", RequestLogger(deps.Log))

	// Todo /api/stock requiere Bearer Token; la escritura se restringe por rol.
	stock := api.Group("/stock", AuthMiddleware(deps.JWTSecret))
	readers := RequireRole(jwt.RoleAdmin, jwt.RoleOperator, jwt.RoleViewer)
	writers := RequireRole(jwt.RoleAdmin, jwt.RoleOperator)
	admins := RequireRole(jwt.RoleAdmin)

	ledgerHandler := NewLedgerHandler(deps.Ledger, deps.Query)

	// Cuentas de stock
	stock.Get("/accounts", readers, ledgerHandler.ListAccounts)
	stock.Post("/accounts", admins, ledgerHandler.CreateAccount)
	stock.Get("/accounts/:id", readers, ledgerHandler.GetAccount)
	stock.Put("/accounts/:id", admins, ledgerHandler.UpdateAccount)
	stock.Delete("/accounts/:id", admins, ledgerHandler.DeleteAccount)

	// Operaciones por producto
	products := stock.Group("/products/:productId")
	products.Get("/", readers, ledgerHandler.GetAccountByProduct)
	products.Get("/reconcile", readers, ledgerHandler.Reconcile)
	products.Post("/refresh-status", writers, ledgerHandler.RefreshStatus)
	products.Post("/reserve", writers, ledgerHandler.Shortcut(entity.TransactionReserve, entity.ReferenceOrder))
	products.Post("/release", writers, ledgerHandler.Shortcut(entity.TransactionRelease, entity.ReferenceOrder))
	products.Post("/inbound", writers, ledgerHandler.Shortcut(entity.TransactionInbound, entity.ReferenceInbound))
	products.Post("/outbound", writers, ledgerHandler.Shortcut(entity.TransactionOutbound, entity.ReferenceOutbound))

	// Log de transacciones
	stock.Post("/transactions", writers, ledgerHandler.Mutate)
	stock.Get("/transactions", readers, ledgerHandler.ListTransactions)
	stock.Get("/transactions/:id", readers, ledgerHandler.GetTransaction)

	// Reportes
	reportHandler := NewReportHandler(deps.Stats, deps.Report)
	stock.Get("/statistics", readers, reportHandler.GetStatistics)
	stock.Get("/report.pdf", readers, reportHandler.DownloadPDF)
}
