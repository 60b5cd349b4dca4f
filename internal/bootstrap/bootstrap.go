// Package bootstrap arma los casos de uso del ledger sobre el almacenamiento configurado.
// Lo comparten la API y ledgerctl.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/stock-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// Services casos de uso listos para usar.
type Services struct {
	Ledger *ledger.LedgerUseCase
	Query  *ledger.QueryUseCase
	Stats  *ledger.StatisticsUseCase
	Report *ledger.ReportUseCase

	driver string
	pool   *pgxpool.Pool
}

// New conecta el almacenamiento de cfg.Store.Driver. Con postgres aplica las migraciones
// si migrate es true.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger, migrate bool) (*Services, error) {
	s := &Services{driver: cfg.Store.Driver}

	var (
		runner      ledger.TxRunner
		accountRepo repository.StockAccountRepository
		txRepo      repository.StockTransactionRepository
	)
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		s.pool = pool
		if migrate {
			applied, err := postgres.Migrate(ctx, pool)
			if err != nil {
				pool.Close()
				return nil, fmt.Errorf("migraciones: %w", err)
			}
			log.Info().Strs("migrations", applied).Msg("migraciones aplicadas")
		}
		runner = postgres.NewTxRunner(pool)
		accountRepo = postgres.NewStockAccountRepository(pool)
		txRepo = postgres.NewStockTransactionRepository(pool)
	default:
		store := memory.NewStore()
		runner = memory.NewTxRunner(store)
		accountRepo = store.Accounts()
		txRepo = store.Transactions()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	}

	ledgerCfg := ledger.DefaultConfig()
	ledgerCfg.AuditCorrections = cfg.Ledger.AuditCorrections
	ledgerCfg.RetryMaxRetries = cfg.Ledger.RetryMaxRetries()
	ledgerCfg.RetryInitialInterval = cfg.Ledger.RetryInitialInterval

	s.Ledger = ledger.NewLedgerUseCase(runner, accountRepo, txRepo, ledgerCfg, log.Zerolog())
	s.Query = ledger.NewQueryUseCase(accountRepo, txRepo)
	s.Stats = ledger.NewStatisticsUseCase(accountRepo)
	s.Report = ledger.NewReportUseCase(s.Query, s.Stats, infrapdf.NewStockReportGenerator(), cfg.Report.Title)

	log.Info().Str("store", cfg.Store.Driver).Msg("ledger listo")
	return s, nil
}

// Driver almacenamiento en uso.
func (s *Services) Driver() string { return s.driver }

// Ping verifica el almacenamiento (health check). En memoria siempre responde.
func (s *Services) Ping(ctx context.Context) error {
	if s.pool == nil {
		return nil
	}
	return s.pool.Ping(ctx)
}

// Close libera el pool si lo hay.
func (s *Services) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
