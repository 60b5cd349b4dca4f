// Package memory implementa el almacenamiento del ledger en memoria de proceso.
// Las escrituras de una transacción se acumulan en un unitOfWork y se aplican de
// una vez en el commit; los lectores nunca ven un estado intermedio.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// Store datos compartidos. mu solo protege el acceso a los mapas; no se mantiene
// durante la lógica de negocio.
type Store struct {
	mu        sync.RWMutex
	accounts  map[string]*entity.StockAccount // por ID
	byProduct map[string]string               // ProductID → ID
	txs       []*entity.StockTransaction      // orden de ID ascendente
	nextTxID  int64
	now       func() time.Time
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		accounts:  make(map[string]*entity.StockAccount),
		byProduct: make(map[string]string),
		nextTxID:  1,
		now:       time.Now,
	}
}

// Accounts repositorio de cuentas fuera de transacción (cada escritura se confirma sola).
func (s *Store) Accounts() *StockAccountRepo {
	return &StockAccountRepo{s: s}
}

// Transactions repositorio del log fuera de transacción.
func (s *Store) Transactions() *StockTransactionRepo {
	return &StockTransactionRepo{s: s}
}

func (s *Store) getByID(id string) *entity.StockAccount {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.accounts[id]; ok {
		return a.Clone()
	}
	return nil
}

func (s *Store) getByProductID(productID string) *entity.StockAccount {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id, ok := s.byProduct[productID]; ok {
		return s.accounts[id].Clone()
	}
	return nil
}

func (s *Store) listAccounts(filter repository.AccountFilter) []*entity.StockAccount {
	s.mu.RLock()
	out := make([]*entity.StockAccount, 0, len(s.accounts))
	for _, a := range s.accounts {
		if filter.Matches(a) {
			out = append(out, a.Clone())
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return page(out, filter.Limit, filter.Offset)
}

func (s *Store) getTransaction(id int64) *entity.StockTransaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	// IDs consecutivos desde 1: posición = id-1.
	if id < 1 || id > int64(len(s.txs)) {
		return nil
	}
	return s.txs[id-1].Clone()
}

func (s *Store) listTransactions(filter repository.TransactionFilter) []*entity.StockTransaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.StockTransaction, 0)
	for i := len(s.txs) - 1; i >= 0; i-- {
		if filter.Matches(s.txs[i]) {
			out = append(out, s.txs[i].Clone())
		}
	}
	return page(out, filter.Limit, filter.Offset)
}

func (s *Store) sumQuantity(productID string, typ entity.TransactionType, since time.Time) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var sum int64
	for _, t := range s.txs {
		if t.ProductID == productID && t.Type == typ && !t.CreatedAt.Before(since) {
			sum += int64(t.Quantity)
		}
	}
	return sum
}

// commit valida y aplica el unitOfWork bajo el lock de escritura. Si algo no valida,
// no se aplica nada.
func (s *Store) commit(ctx context.Context, u *unitOfWork) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range u.created {
		if _, ok := s.byProduct[a.ProductID]; ok {
			return fmt.Errorf("%w: product_id=%s", domain.ErrDuplicateAccount, a.ProductID)
		}
	}
	for id, a := range u.updated {
		if u.isCreated(id) {
			continue
		}
		cur, ok := s.accounts[id]
		if !ok {
			return fmt.Errorf("%w: id=%s", domain.ErrAccountNotFound, id)
		}
		// Otra escritura confirmó sobre la misma cuenta desde que se leyó.
		if v, read := u.readVersion[id]; read && cur.Version != v {
			return fmt.Errorf("%w: conflicto de versión en cuenta %s (%d != %d)", domain.ErrTransientStorage, a.ProductID, cur.Version, v)
		}
	}
	for id := range u.deleted {
		if _, ok := s.accounts[id]; !ok && !u.isCreated(id) {
			return fmt.Errorf("%w: id=%s", domain.ErrAccountNotFound, id)
		}
	}

	for _, a := range u.created {
		s.accounts[a.ID] = a.Clone()
		s.byProduct[a.ProductID] = a.ID
	}
	for id, a := range u.updated {
		s.accounts[id] = a.Clone()
	}
	for id := range u.deleted {
		if a, ok := s.accounts[id]; ok {
			delete(s.byProduct, a.ProductID)
			delete(s.accounts, id)
		}
	}
	for _, t := range u.appended {
		t.ID = s.nextTxID
		s.nextTxID++
		if t.CreatedAt.IsZero() {
			t.CreatedAt = s.now()
		}
		s.txs = append(s.txs, t.Clone())
	}
	return nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return items[:0]
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
