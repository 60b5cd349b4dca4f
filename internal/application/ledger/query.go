package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// QueryUseCase lecturas de cuentas y del log. No toma locks del ledger.
type QueryUseCase struct {
	accountRepo repository.StockAccountRepository
	txRepo      repository.StockTransactionRepository
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(accountRepo repository.StockAccountRepository, txRepo repository.StockTransactionRepository) *QueryUseCase {
	return &QueryUseCase{accountRepo: accountRepo, txRepo: txRepo}
}

// GetByID devuelve la cuenta o ErrAccountNotFound.
func (uc *QueryUseCase) GetByID(ctx context.Context, id string) (*entity.StockAccount, error) {
	acc, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, fmt.Errorf("%w: id=%s", domain.ErrAccountNotFound, id)
	}
	return acc, nil
}

// GetByProductID devuelve la cuenta del producto o ErrAccountNotFound.
func (uc *QueryUseCase) GetByProductID(ctx context.Context, productID string) (*entity.StockAccount, error) {
	productID = normalizeProductID(productID)
	acc, err := uc.accountRepo.GetByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, fmt.Errorf("%w: product_id=%s", domain.ErrAccountNotFound, productID)
	}
	return acc, nil
}

// List lista cuentas con filtro y paginación.
func (uc *QueryUseCase) List(ctx context.Context, filter repository.AccountFilter) ([]*entity.StockAccount, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, filter.Status)
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, fmt.Errorf("%w: paginación negativa", domain.ErrInvalidInput)
	}
	return uc.accountRepo.List(ctx, filter)
}

func (uc *QueryUseCase) ListByCategory(ctx context.Context, category string) ([]*entity.StockAccount, error) {
	return uc.List(ctx, repository.AccountFilter{Category: category})
}

func (uc *QueryUseCase) ListByStatus(ctx context.Context, status entity.AccountStatus) ([]*entity.StockAccount, error) {
	return uc.List(ctx, repository.AccountFilter{Status: status})
}

// ListLowStock incluye las cuentas sin stock.
func (uc *QueryUseCase) ListLowStock(ctx context.Context) ([]*entity.StockAccount, error) {
	return uc.List(ctx, repository.AccountFilter{LowStock: true})
}

func (uc *QueryUseCase) ListOutOfStock(ctx context.Context) ([]*entity.StockAccount, error) {
	return uc.List(ctx, repository.AccountFilter{OutOfStock: true})
}

// Search busca por nombre sin distinguir mayúsculas.
func (uc *QueryUseCase) Search(ctx context.Context, name string) ([]*entity.StockAccount, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: texto de búsqueda vacío", domain.ErrInvalidInput)
	}
	return uc.List(ctx, repository.AccountFilter{NameContains: name})
}

func (uc *QueryUseCase) ListByLocation(ctx context.Context, location string) ([]*entity.StockAccount, error) {
	return uc.List(ctx, repository.AccountFilter{Location: location})
}

// ListTransactions lista el log, más recientes primero.
func (uc *QueryUseCase) ListTransactions(ctx context.Context, filter repository.TransactionFilter) ([]*entity.StockTransaction, error) {
	if filter.Type != "" {
		typ, ok := entity.ParseTransactionType(string(filter.Type))
		if !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownTransactionType, filter.Type)
		}
		filter.Type = typ
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, fmt.Errorf("%w: rango de fechas invertido", domain.ErrInvalidInput)
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, fmt.Errorf("%w: paginación negativa", domain.ErrInvalidInput)
	}
	filter.ProductID = normalizeProductID(filter.ProductID)
	return uc.txRepo.List(ctx, filter)
}

// GetTransaction devuelve un registro del log por id.
func (uc *QueryUseCase) GetTransaction(ctx context.Context, id int64) (*entity.StockTransaction, error) {
	tx, err := uc.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, fmt.Errorf("%w: transacción %d", domain.ErrNotFound, id)
	}
	return tx, nil
}
