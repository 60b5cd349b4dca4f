package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// StockReport datos del reporte de estado de stock.
type StockReport struct {
	Title       string
	GeneratedAt time.Time
	Stats       *Statistics
	LowStock    []*entity.StockAccount // incluye las cuentas sin stock
	OutOfStock  []*entity.StockAccount
	Recent      []*entity.StockTransaction
}

// StockReportGenerator puerto para renderizar el reporte (PDF).
type StockReportGenerator interface {
	GenerateStockReport(ctx context.Context, report *StockReport) ([]byte, error)
}

const reportRecentTransactions = 20

// ReportUseCase arma el reporte de stock a partir de las lecturas y lo delega al generador.
type ReportUseCase struct {
	query     *QueryUseCase
	stats     *StatisticsUseCase
	generator StockReportGenerator
	title     string
	now       func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(query *QueryUseCase, stats *StatisticsUseCase, generator StockReportGenerator, title string) *ReportUseCase {
	return &ReportUseCase{query: query, stats: stats, generator: generator, title: title, now: time.Now}
}

// Build reúne los datos del reporte sin renderizarlo.
func (uc *ReportUseCase) Build(ctx context.Context) (*StockReport, error) {
	stats, err := uc.stats.GetStatistics(ctx)
	if err != nil {
		return nil, fmt.Errorf("reporte: estadísticas: %w", err)
	}
	low, err := uc.query.ListLowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("reporte: bajo stock: %w", err)
	}
	out, err := uc.query.ListOutOfStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("reporte: sin stock: %w", err)
	}
	recent, err := uc.query.ListTransactions(ctx, repository.TransactionFilter{Limit: reportRecentTransactions})
	if err != nil {
		return nil, fmt.Errorf("reporte: transacciones: %w", err)
	}
	return &StockReport{
		Title:       uc.title,
		GeneratedAt: uc.now(),
		Stats:       stats,
		LowStock:    low,
		OutOfStock:  out,
		Recent:      recent,
	}, nil
}

// GeneratePDF devuelve el PDF y un nombre de archivo sugerido.
func (uc *ReportUseCase) GeneratePDF(ctx context.Context) ([]byte, string, error) {
	report, err := uc.Build(ctx)
	if err != nil {
		return nil, "", err
	}
	doc, err := uc.generator.GenerateStockReport(ctx, report)
	if err != nil {
		return nil, "", fmt.Errorf("reporte: generar: %w", err)
	}
	return doc, fmt.Sprintf("stock-report-%s.pdf", report.GeneratedAt.Format("20060102-150405")), nil
}
