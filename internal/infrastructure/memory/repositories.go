package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.StockAccountRepository     = (*StockAccountRepo)(nil)
	_ repository.StockTransactionRepository = (*StockTransactionRepo)(nil)
)

// unitOfWork escrituras pendientes de una transacción.
type unitOfWork struct {
	created     []*entity.StockAccount
	updated     map[string]*entity.StockAccount
	deleted     map[string]bool
	readVersion map[string]int64
	appended    []*entity.StockTransaction
}

func newUnitOfWork() *unitOfWork {
	return &unitOfWork{
		updated:     make(map[string]*entity.StockAccount),
		deleted:     make(map[string]bool),
		readVersion: make(map[string]int64),
	}
}

func (u *unitOfWork) isCreated(id string) bool {
	for _, a := range u.created {
		if a.ID == id {
			return true
		}
	}
	return false
}

// pending devuelve la versión pendiente de la cuenta si la transacción la tocó.
// found=true con nil significa borrada en esta transacción.
func (u *unitOfWork) pending(match func(*entity.StockAccount) bool) (acc *entity.StockAccount, found bool) {
	for id, a := range u.updated {
		if match(a) {
			if u.deleted[id] {
				return nil, true
			}
			return a.Clone(), true
		}
	}
	for _, a := range u.created {
		if match(a) {
			if u.deleted[a.ID] {
				return nil, true
			}
			return a.Clone(), true
		}
	}
	return nil, false
}

// StockAccountRepo repositorio de cuentas. Con uow nil cada escritura se confirma sola.
type StockAccountRepo struct {
	s   *Store
	uow *unitOfWork
}

// run ejecuta una escritura suelta en su propio unitOfWork.
func (r *StockAccountRepo) run(ctx context.Context, fn func(u *unitOfWork)) error {
	if r.uow != nil {
		fn(r.uow)
		return nil
	}
	u := newUnitOfWork()
	fn(u)
	return r.s.commit(ctx, u)
}

func (r *StockAccountRepo) Create(ctx context.Context, a *entity.StockAccount) error {
	if r.uow != nil {
		if existing, _ := r.GetByProductID(ctx, a.ProductID); existing != nil {
			return fmt.Errorf("%w: product_id=%s", domain.ErrDuplicateAccount, a.ProductID)
		}
	}
	return r.run(ctx, func(u *unitOfWork) {
		u.created = append(u.created, a.Clone())
	})
}

func (r *StockAccountRepo) GetByID(ctx context.Context, id string) (*entity.StockAccount, error) {
	if r.uow != nil {
		if a, found := r.uow.pending(func(a *entity.StockAccount) bool { return a.ID == id }); found {
			return a, nil
		}
		if r.uow.deleted[id] {
			return nil, nil
		}
	}
	return r.s.getByID(id), nil
}

func (r *StockAccountRepo) GetByProductID(ctx context.Context, productID string) (*entity.StockAccount, error) {
	if r.uow != nil {
		if a, found := r.uow.pending(func(a *entity.StockAccount) bool { return a.ProductID == productID }); found {
			return a, nil
		}
	}
	a := r.s.getByProductID(productID)
	if a != nil && r.uow != nil && r.uow.deleted[a.ID] {
		return nil, nil
	}
	return a, nil
}

// GetForUpdate registra la versión leída; el commit falla con ErrTransientStorage si
// otra escritura la cambió entre medio.
func (r *StockAccountRepo) GetForUpdate(ctx context.Context, productID string) (*entity.StockAccount, error) {
	a, err := r.GetByProductID(ctx, productID)
	if err != nil || a == nil || r.uow == nil {
		return a, err
	}
	if _, seen := r.uow.readVersion[a.ID]; !seen && !r.uow.isCreated(a.ID) {
		r.uow.readVersion[a.ID] = a.Version
	}
	return a, nil
}

func (r *StockAccountRepo) Update(ctx context.Context, a *entity.StockAccount) error {
	if r.uow == nil && r.s.getByID(a.ID) == nil {
		return fmt.Errorf("%w: id=%s", domain.ErrAccountNotFound, a.ID)
	}
	return r.run(ctx, func(u *unitOfWork) {
		if u.isCreated(a.ID) {
			for i, c := range u.created {
				if c.ID == a.ID {
					u.created[i] = a.Clone()
				}
			}
			return
		}
		u.updated[a.ID] = a.Clone()
	})
}

func (r *StockAccountRepo) Delete(ctx context.Context, id string) error {
	return r.run(ctx, func(u *unitOfWork) {
		u.deleted[id] = true
	})
}

// List dentro de una transacción no ve las escrituras pendientes; el ledger no lista
// dentro de sus transacciones.
func (r *StockAccountRepo) List(ctx context.Context, filter repository.AccountFilter) ([]*entity.StockAccount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.s.listAccounts(filter), nil
}

// StockTransactionRepo repositorio del log.
type StockTransactionRepo struct {
	s   *Store
	uow *unitOfWork
}

// Append dentro de una transacción deja el registro pendiente; el ID se asigna en el commit.
func (r *StockTransactionRepo) Append(ctx context.Context, t *entity.StockTransaction) error {
	if r.uow != nil {
		r.uow.appended = append(r.uow.appended, t)
		return nil
	}
	u := newUnitOfWork()
	u.appended = append(u.appended, t)
	return r.s.commit(ctx, u)
}

func (r *StockTransactionRepo) GetByID(ctx context.Context, id int64) (*entity.StockTransaction, error) {
	return r.s.getTransaction(id), nil
}

func (r *StockTransactionRepo) List(ctx context.Context, filter repository.TransactionFilter) ([]*entity.StockTransaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.s.listTransactions(filter), nil
}

func (r *StockTransactionRepo) SumQuantity(ctx context.Context, productID string, typ entity.TransactionType, since time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return r.s.sumQuantity(productID, typ, since), nil
}
