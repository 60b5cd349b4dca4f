package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.StockTransactionRepository = (*StockTransactionRepo)(nil)

const transactionColumns = `id, product_id, product_name, type, quantity, before_stock, after_stock,
	reference_id, reference_type, operator_id, operator_name, notes, created_at`

// StockTransactionRepo log de transacciones sobre PostgreSQL (usable con pool o tx). Solo INSERT y SELECT.
type StockTransactionRepo struct {
	q Querier
}

// NewStockTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockTransactionRepository(q Querier) *StockTransactionRepo {
	return &StockTransactionRepo{q: q}
}

// Append inserta el registro; el ID sale de la secuencia (BIGSERIAL).
func (r *StockTransactionRepo) Append(ctx context.Context, t *entity.StockTransaction) error {
	query := `
		INSERT INTO stock_transactions (product_id, product_name, type, quantity, before_stock, after_stock,
			reference_id, reference_type, operator_id, operator_name, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, COALESCE($12, now()))
		RETURNING id, created_at`
	var createdAt any
	if !t.CreatedAt.IsZero() {
		createdAt = t.CreatedAt
	}
	err := r.q.QueryRow(ctx, query,
		t.ProductID, t.ProductName, string(t.Type), t.Quantity, t.BeforeStock, t.AfterStock,
		t.ReferenceID, t.ReferenceType, t.OperatorID, t.OperatorName, t.Notes, createdAt,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return wrapErr("append stock transaction", err)
	}
	return nil
}

// GetByID obtiene un registro por ID. (nil, nil) si no existe.
func (r *StockTransactionRepo) GetByID(ctx context.Context, id int64) (*entity.StockTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM stock_transactions WHERE id = $1`
	t, err := scanTransaction(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get stock transaction", err)
	}
	return t, nil
}

// List lista registros del log, más recientes primero.
func (r *StockTransactionRepo) List(ctx context.Context, filter repository.TransactionFilter) ([]*entity.StockTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM stock_transactions WHERE 1=1`
	args := []any{}
	pos := 1
	add := func(cond string, v any) {
		query += fmt.Sprintf(" AND "+cond, pos)
		args = append(args, v)
		pos++
	}
	if filter.ProductID != "" {
		add("product_id = $%d", filter.ProductID)
	}
	if filter.Type != "" {
		add("type = $%d", string(filter.Type))
	}
	if filter.ReferenceID != "" {
		add("reference_id = $%d", filter.ReferenceID)
	}
	if filter.ReferenceType != "" {
		add("reference_type = $%d", filter.ReferenceType)
	}
	if filter.OperatorID != "" {
		add("operator_id = $%d", filter.OperatorID)
	}
	if filter.From != nil {
		add("created_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("created_at <= $%d", *filter.To)
	}
	query += " ORDER BY id DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", pos)
		args = append(args, filter.Limit)
		pos++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", pos)
		args = append(args, filter.Offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list stock transactions", err)
	}
	defer rows.Close()
	var list []*entity.StockTransaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock transaction: %w", err)
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list stock transactions", err)
	}
	return list, nil
}

// SumQuantity suma quantity por producto y tipo desde since.
func (r *StockTransactionRepo) SumQuantity(ctx context.Context, productID string, typ entity.TransactionType, since time.Time) (int64, error) {
	var sum int64
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0)::BIGINT FROM stock_transactions
		 WHERE product_id = $1 AND type = $2 AND created_at >= $3`,
		productID, string(typ), since,
	).Scan(&sum)
	if err != nil {
		return 0, wrapErr("sum stock transactions", err)
	}
	return sum, nil
}

func scanTransaction(row pgx.Row) (*entity.StockTransaction, error) {
	var t entity.StockTransaction
	var typ string
	err := row.Scan(
		&t.ID, &t.ProductID, &t.ProductName, &typ, &t.Quantity, &t.BeforeStock, &t.AfterStock,
		&t.ReferenceID, &t.ReferenceType, &t.OperatorID, &t.OperatorName, &t.Notes, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Type = entity.TransactionType(typ)
	return &t, nil
}
