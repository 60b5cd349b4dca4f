package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/domain/stock"
)

// Config parámetros del ledger.
type Config struct {
	// AuditCorrections: UpdateAccount registra un ADJUSTMENT cuando cambia CurrentStock.
	AuditCorrections     bool
	RetryMaxRetries      uint64
	RetryInitialInterval time.Duration
	// Now reloj para CreatedAt/UpdatedAt. nil = time.Now.
	Now func() time.Time
}

// DefaultConfig valores por defecto.
func DefaultConfig() Config {
	return Config{
		AuditCorrections:     true,
		RetryMaxRetries:      3,
		RetryInitialInterval: 50 * time.Millisecond,
	}
}

// LedgerUseCase es la única autoridad para crear, mutar y borrar cuentas de stock.
// Toda escritura sobre un producto corre bajo el lock de ese productID y dentro de una
// transacción de TxRunner (cuenta + registro del log se confirman juntos).
type LedgerUseCase struct {
	txRunner    TxRunner
	accountRepo repository.StockAccountRepository
	txRepo      repository.StockTransactionRepository
	locks       *keyLocks
	cfg         Config
	now         func() time.Time
	log         zerolog.Logger
}

// NewLedgerUseCase construye el caso de uso. Los repositorios sueltos son solo de lectura
// (resolver id → productID, conciliación); las lecturas que deciden se hacen dentro de la transacción.
func NewLedgerUseCase(
	txRunner TxRunner,
	accountRepo repository.StockAccountRepository,
	txRepo repository.StockTransactionRepository,
	cfg Config,
	log zerolog.Logger,
) *LedgerUseCase {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	if cfg.RetryInitialInterval <= 0 {
		cfg.RetryInitialInterval = DefaultConfig().RetryInitialInterval
	}
	return &LedgerUseCase{
		txRunner:    txRunner,
		accountRepo: accountRepo,
		txRepo:      txRepo,
		locks:       newKeyLocks(),
		cfg:         cfg,
		now:         now,
		log:         log.With().Str("component", "ledger").Logger(),
	}
}

// CreateAccountInput entrada para crear una cuenta. Status vacío = ACTIVE.
type CreateAccountInput struct {
	ProductID         string
	ProductName       string
	Category          string
	CurrentStock      int
	MinStock          int
	MaxStock          int
	UnitPrice         decimal.Decimal
	WarehouseLocation string
	Status            entity.AccountStatus
}

// UpdateAccountInput reemplaza los campos descriptivos y CurrentStock. ProductID no cambia.
// Status DISCONTINUED se respeta; cualquier otro valor (o vacío) se recalcula.
type UpdateAccountInput struct {
	ProductName       string
	Category          string
	CurrentStock      int
	MinStock          int
	MaxStock          int
	UnitPrice         decimal.Decimal
	WarehouseLocation string
	Status            entity.AccountStatus
	OperatorID        string
	OperatorName      string
}

// MutationInput entrada de Mutate.
type MutationInput struct {
	ProductID     string
	Type          entity.TransactionType
	Quantity      int
	ReferenceID   string
	ReferenceType string
	OperatorID    string
	OperatorName  string
	Notes         string
}

// CreateAccount crea la cuenta de un producto con ReservedStock = 0.
func (uc *LedgerUseCase) CreateAccount(ctx context.Context, in CreateAccountInput) (*entity.StockAccount, error) {
	in.ProductID = normalizeProductID(in.ProductID)
	if in.ProductID == "" {
		return nil, fmt.Errorf("%w: product_id requerido", domain.ErrInvalidInput)
	}
	if err := validateAccountFields(in.ProductName, in.CurrentStock, in.MinStock, in.MaxStock, in.UnitPrice, in.Status); err != nil {
		return nil, err
	}

	unlock, err := uc.locks.Lock(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var created *entity.StockAccount
	err = uc.withRetry(ctx, "create_account", func() error {
		return uc.txRunner.Run(ctx, func(accountRepo repository.StockAccountRepository, _ repository.StockTransactionRepository) error {
			existing, err := accountRepo.GetByProductID(ctx, in.ProductID)
			if err != nil {
				return err
			}
			if existing != nil {
				return fmt.Errorf("%w: product_id=%s", domain.ErrDuplicateAccount, in.ProductID)
			}
			now := uc.now()
			acc := &entity.StockAccount{
				ID:                uuid.New().String(),
				ProductID:         in.ProductID,
				ProductName:       in.ProductName,
				Category:          in.Category,
				CurrentStock:      in.CurrentStock,
				ReservedStock:     0,
				MinStock:          in.MinStock,
				MaxStock:          in.MaxStock,
				UnitPrice:         in.UnitPrice,
				WarehouseLocation: in.WarehouseLocation,
				Status:            in.Status,
				Version:           1,
				CreatedAt:         now,
				UpdatedAt:         now,
			}
			if acc.Status == "" {
				acc.Status = entity.StatusActive
			}
			acc.Recompute()
			acc.Status = stock.NextStatus(acc)
			if err := accountRepo.Create(ctx, acc); err != nil {
				return err
			}
			created = acc
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("product_id", created.ProductID).
		Str("account_id", created.ID).
		Int("current_stock", created.CurrentStock).
		Str("status", string(created.Status)).
		Msg("cuenta de stock creada")
	return created.Clone(), nil
}

// UpdateAccount es una corrección directa (no un movimiento). Con AuditCorrections activo,
// un cambio de CurrentStock deja un ADJUSTMENT con ReferenceType CORRECTION en el log.
func (uc *LedgerUseCase) UpdateAccount(ctx context.Context, id string, in UpdateAccountInput) (*entity.StockAccount, error) {
	if err := validateAccountFields(in.ProductName, in.CurrentStock, in.MinStock, in.MaxStock, in.UnitPrice, in.Status); err != nil {
		return nil, err
	}
	productID, err := uc.productIDFor(ctx, id)
	if err != nil {
		return nil, err
	}

	unlock, err := uc.locks.Lock(ctx, productID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var (
		updated *entity.StockAccount
		audit   *entity.StockTransaction
	)
	err = uc.withRetry(ctx, "update_account", func() error {
		audit = nil
		return uc.txRunner.Run(ctx, func(accountRepo repository.StockAccountRepository, txRepo repository.StockTransactionRepository) error {
			acc, err := accountRepo.GetForUpdate(ctx, productID)
			if err != nil {
				return err
			}
			if acc == nil || acc.ID != id {
				return fmt.Errorf("%w: id=%s", domain.ErrAccountNotFound, id)
			}
			if in.CurrentStock < acc.ReservedStock {
				return &domain.StockError{
					Err:       domain.ErrInvalidQuantity,
					ProductID: acc.ProductID,
					Requested: in.CurrentStock,
					Current:   acc.CurrentStock,
					Reserved:  acc.ReservedStock,
					Available: acc.CurrentStock - acc.ReservedStock,
				}
			}

			before := acc.CurrentStock
			now := uc.now()
			acc.ProductName = in.ProductName
			acc.Category = in.Category
			acc.CurrentStock = in.CurrentStock
			acc.MinStock = in.MinStock
			acc.MaxStock = in.MaxStock
			acc.UnitPrice = in.UnitPrice
			acc.WarehouseLocation = in.WarehouseLocation
			acc.Recompute()
			if in.Status == entity.StatusDiscontinued {
				acc.Status = entity.StatusDiscontinued
			} else {
				acc.Status = stock.DeriveStatus(acc)
			}
			acc.Version++
			acc.UpdatedAt = now
			if err := accountRepo.Update(ctx, acc); err != nil {
				return err
			}

			if uc.cfg.AuditCorrections && before != acc.CurrentStock {
				audit = &entity.StockTransaction{
					ProductID:     acc.ProductID,
					ProductName:   acc.ProductName,
					Type:          entity.TransactionAdjustment,
					Quantity:      acc.CurrentStock,
					BeforeStock:   before,
					AfterStock:    acc.CurrentStock,
					ReferenceID:   acc.ID,
					ReferenceType: entity.ReferenceCorrection,
					OperatorID:    in.OperatorID,
					OperatorName:  in.OperatorName,
					Notes:         "corrección directa de la cuenta",
					CreatedAt:     now,
				}
				if err := txRepo.Append(ctx, audit); err != nil {
					return err
				}
			}
			updated = acc
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	ev := uc.log.Info().
		Str("product_id", updated.ProductID).
		Str("account_id", updated.ID).
		Int("current_stock", updated.CurrentStock).
		Str("status", string(updated.Status))
	if audit != nil {
		ev = ev.Int64("tx_id", audit.ID)
	}
	ev.Msg("cuenta de stock actualizada")
	return updated.Clone(), nil
}

// DeleteAccount elimina la cuenta. Su historial en el log se conserva.
func (uc *LedgerUseCase) DeleteAccount(ctx context.Context, id string) error {
	productID, err := uc.productIDFor(ctx, id)
	if err != nil {
		return err
	}

	unlock, err := uc.locks.Lock(ctx, productID)
	if err != nil {
		return err
	}
	defer unlock()

	err = uc.withRetry(ctx, "delete_account", func() error {
		return uc.txRunner.Run(ctx, func(accountRepo repository.StockAccountRepository, _ repository.StockTransactionRepository) error {
			acc, err := accountRepo.GetForUpdate(ctx, productID)
			if err != nil {
				return err
			}
			if acc == nil || acc.ID != id {
				return fmt.Errorf("%w: id=%s", domain.ErrAccountNotFound, id)
			}
			return accountRepo.Delete(ctx, id)
		})
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("product_id", productID).Str("account_id", id).Msg("cuenta de stock eliminada")
	return nil
}

// Mutate aplica un movimiento: bloquea el producto, valida, calcula cantidades, recalcula el
// estado, persiste la cuenta y agrega el registro al log en la misma transacción.
// Devuelve el registro solo después del commit.
func (uc *LedgerUseCase) Mutate(ctx context.Context, in MutationInput) (*entity.StockTransaction, error) {
	in.ProductID = normalizeProductID(in.ProductID)
	typ, ok := entity.ParseTransactionType(string(in.Type))
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownTransactionType, in.Type)
	}
	if in.Quantity <= 0 {
		return nil, &domain.StockError{Err: domain.ErrInvalidQuantity, ProductID: in.ProductID, Requested: in.Quantity}
	}

	unlock, err := uc.locks.Lock(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var record *entity.StockTransaction
	err = uc.withRetry(ctx, "mutate", func() error {
		return uc.txRunner.Run(ctx, func(accountRepo repository.StockAccountRepository, txRepo repository.StockTransactionRepository) error {
			acc, err := accountRepo.GetForUpdate(ctx, in.ProductID)
			if err != nil {
				return err
			}
			if acc == nil {
				return fmt.Errorf("%w: product_id=%s", domain.ErrAccountNotFound, in.ProductID)
			}
			change, err := stock.Apply(acc, typ, in.Quantity)
			if err != nil {
				return err
			}

			now := uc.now()
			change.ApplyTo(acc)
			acc.Status = stock.NextStatus(acc)
			acc.Version++
			acc.UpdatedAt = now
			if err := accountRepo.Update(ctx, acc); err != nil {
				return err
			}

			tx := &entity.StockTransaction{
				ProductID:     acc.ProductID,
				ProductName:   acc.ProductName,
				Type:          typ,
				Quantity:      in.Quantity,
				BeforeStock:   change.Before,
				AfterStock:    change.After,
				ReferenceID:   in.ReferenceID,
				ReferenceType: in.ReferenceType,
				OperatorID:    in.OperatorID,
				OperatorName:  in.OperatorName,
				Notes:         in.Notes,
				CreatedAt:     now,
			}
			if err := txRepo.Append(ctx, tx); err != nil {
				return err
			}
			record = tx
			return nil
		})
	})
	if err != nil {
		uc.log.Debug().Err(err).
			Str("product_id", in.ProductID).
			Str("type", string(typ)).
			Int("quantity", in.Quantity).
			Msg("movimiento rechazado")
		return nil, err
	}

	uc.log.Info().
		Int64("tx_id", record.ID).
		Str("product_id", record.ProductID).
		Str("type", string(record.Type)).
		Int("quantity", record.Quantity).
		Int("before", record.BeforeStock).
		Int("after", record.AfterStock).
		Str("reference_id", record.ReferenceID).
		Msg("movimiento registrado")
	return record, nil
}

// Reserve reserva stock disponible contra un pedido.
func (uc *LedgerUseCase) Reserve(ctx context.Context, productID string, quantity int, referenceID string) (*entity.StockTransaction, error) {
	return uc.Mutate(ctx, MutationInput{
		ProductID: productID, Type: entity.TransactionReserve, Quantity: quantity,
		ReferenceID: referenceID, ReferenceType: entity.ReferenceOrder,
	})
}

// Release libera una reserva de un pedido.
func (uc *LedgerUseCase) Release(ctx context.Context, productID string, quantity int, referenceID string) (*entity.StockTransaction, error) {
	return uc.Mutate(ctx, MutationInput{
		ProductID: productID, Type: entity.TransactionRelease, Quantity: quantity,
		ReferenceID: referenceID, ReferenceType: entity.ReferenceOrder,
	})
}

// Inbound registra una entrada de mercancía.
func (uc *LedgerUseCase) Inbound(ctx context.Context, productID string, quantity int, referenceID string) (*entity.StockTransaction, error) {
	return uc.Mutate(ctx, MutationInput{
		ProductID: productID, Type: entity.TransactionInbound, Quantity: quantity,
		ReferenceID: referenceID, ReferenceType: entity.ReferenceInbound,
	})
}

// Outbound registra una salida de mercancía.
func (uc *LedgerUseCase) Outbound(ctx context.Context, productID string, quantity int, referenceID string) (*entity.StockTransaction, error) {
	return uc.Mutate(ctx, MutationInput{
		ProductID: productID, Type: entity.TransactionOutbound, Quantity: quantity,
		ReferenceID: referenceID, ReferenceType: entity.ReferenceOutbound,
	})
}

// RefreshStatus recalcula el estado de la cuenta. No escribe si ya es correcto y nunca
// toca DISCONTINUED.
func (uc *LedgerUseCase) RefreshStatus(ctx context.Context, productID string) (*entity.StockAccount, error) {
	productID = normalizeProductID(productID)
	unlock, err := uc.locks.Lock(ctx, productID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var (
		result  *entity.StockAccount
		changed bool
	)
	err = uc.withRetry(ctx, "refresh_status", func() error {
		changed = false
		return uc.txRunner.Run(ctx, func(accountRepo repository.StockAccountRepository, _ repository.StockTransactionRepository) error {
			acc, err := accountRepo.GetForUpdate(ctx, productID)
			if err != nil {
				return err
			}
			if acc == nil {
				return fmt.Errorf("%w: product_id=%s", domain.ErrAccountNotFound, productID)
			}
			result = acc
			next := stock.NextStatus(acc)
			if next == acc.Status {
				return nil
			}
			acc.Status = next
			acc.Version++
			acc.UpdatedAt = uc.now()
			changed = true
			return accountRepo.Update(ctx, acc)
		})
	})
	if err != nil {
		return nil, err
	}
	if changed {
		uc.log.Info().Str("product_id", productID).Str("status", string(result.Status)).Msg("estado de stock actualizado")
	}
	return result.Clone(), nil
}

// GetAccount devuelve la cuenta por id.
func (uc *LedgerUseCase) GetAccount(ctx context.Context, id string) (*entity.StockAccount, error) {
	acc, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, fmt.Errorf("%w: id=%s", domain.ErrAccountNotFound, id)
	}
	return acc, nil
}

// GetAccountByProduct devuelve la cuenta de un producto.
func (uc *LedgerUseCase) GetAccountByProduct(ctx context.Context, productID string) (*entity.StockAccount, error) {
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

func (uc *LedgerUseCase) productIDFor(ctx context.Context, id string) (string, error) {
	acc, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if acc == nil {
		return "", fmt.Errorf("%w: id=%s", domain.ErrAccountNotFound, id)
	}
	return acc.ProductID, nil
}

// normalizeProductID se aplica en cada entrada que recibe un product_id.
func normalizeProductID(productID string) string {
	return strings.TrimSpace(productID)
}

func validateAccountFields(name string, current, min, max int, price decimal.Decimal, status entity.AccountStatus) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	case current < 0:
		return fmt.Errorf("%w: current_stock negativo", domain.ErrInvalidQuantity)
	case current > stock.MaxQuantity:
		return fmt.Errorf("%w: current_stock supera %d", domain.ErrInvalidQuantity, stock.MaxQuantity)
	case min < 0:
		return fmt.Errorf("%w: min_stock negativo", domain.ErrInvalidInput)
	case max < 1:
		return fmt.Errorf("%w: max_stock debe ser >= 1", domain.ErrInvalidInput)
	case min > stock.MaxQuantity || max > stock.MaxQuantity:
		return fmt.Errorf("%w: umbral supera %d", domain.ErrInvalidInput, stock.MaxQuantity)
	case price.IsNegative():
		return fmt.Errorf("%w: unit_price negativo", domain.ErrInvalidInput)
	case status != "" && !status.Valid():
		return fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
	}
	return nil
}
