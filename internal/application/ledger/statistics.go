package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

const statisticsPageSize = 500

// Statistics agregado de todas las cuentas. Los conteos son por estado almacenado.
type Statistics struct {
	TotalProducts     int
	TotalStock        int64
	TotalReserved     int64
	TotalValue        decimal.Decimal
	ActiveCount       int
	LowStockCount     int
	OutOfStockCount   int
	DiscontinuedCount int
}

// StatisticsUseCase calcula agregados sin efectos secundarios.
type StatisticsUseCase struct {
	accountRepo repository.StockAccountRepository
	pageSize    int
}

// NewStatisticsUseCase construye el caso de uso.
func NewStatisticsUseCase(accountRepo repository.StockAccountRepository) *StatisticsUseCase {
	return &StatisticsUseCase{accountRepo: accountRepo, pageSize: statisticsPageSize}
}

// GetStatistics recorre el store por páginas en una sola pasada.
func (uc *StatisticsUseCase) GetStatistics(ctx context.Context) (*Statistics, error) {
	stats := &Statistics{TotalValue: decimal.Zero}
	for offset := 0; ; offset += uc.pageSize {
		page, err := uc.accountRepo.List(ctx, repository.AccountFilter{Limit: uc.pageSize, Offset: offset})
		if err != nil {
			return nil, err
		}
		for _, a := range page {
			stats.add(a)
		}
		if len(page) < uc.pageSize {
			break
		}
	}
	return stats, nil
}

func (s *Statistics) add(a *entity.StockAccount) {
	s.TotalProducts++
	s.TotalStock += int64(a.CurrentStock)
	s.TotalReserved += int64(a.ReservedStock)
	s.TotalValue = s.TotalValue.Add(a.Value())
	switch a.Status {
	case entity.StatusActive:
		s.ActiveCount++
	case entity.StatusLowStock:
		s.LowStockCount++
	case entity.StatusOutOfStock:
		s.OutOfStockCount++
	case entity.StatusDiscontinued:
		s.DiscontinuedCount++
	}
}
