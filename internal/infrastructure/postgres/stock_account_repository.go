package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.StockAccountRepository = (*StockAccountRepo)(nil)

const accountColumns = `id, product_id, product_name, category, current_stock, reserved_stock, available_stock,
	min_stock, max_stock, unit_price, warehouse_location, status, version, created_at, updated_at`

// StockAccountRepo implementación de StockAccountRepository sobre PostgreSQL (usable con pool o tx).
type StockAccountRepo struct {
	q Querier
}

// NewStockAccountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockAccountRepository(q Querier) *StockAccountRepo {
	return &StockAccountRepo{q: q}
}

// Create inserta la cuenta. El índice único de product_id garantiza una cuenta por producto.
func (r *StockAccountRepo) Create(ctx context.Context, a *entity.StockAccount) error {
	query := `
		INSERT INTO stock_accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.ProductID, a.ProductName, a.Category, a.CurrentStock, a.ReservedStock, a.AvailableStock,
		a.MinStock, a.MaxStock, a.UnitPrice, a.WarehouseLocation, string(a.Status), a.Version, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: product_id=%s", domain.ErrDuplicateAccount, a.ProductID)
		}
		return wrapErr("create stock account", err)
	}
	return nil
}

// GetByID obtiene una cuenta por ID. (nil, nil) si no existe.
func (r *StockAccountRepo) GetByID(ctx context.Context, id string) (*entity.StockAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM stock_accounts WHERE id = $1`
	return r.getOne(ctx, "get stock account", query, id)
}

// GetByProductID obtiene la cuenta de un producto. (nil, nil) si no existe.
func (r *StockAccountRepo) GetByProductID(ctx context.Context, productID string) (*entity.StockAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM stock_accounts WHERE product_id = $1`
	return r.getOne(ctx, "get stock account by product", query, productID)
}

// GetForUpdate obtiene la cuenta y bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
func (r *StockAccountRepo) GetForUpdate(ctx context.Context, productID string) (*entity.StockAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM stock_accounts WHERE product_id = $1 FOR UPDATE`
	return r.getOne(ctx, "get stock account for update", query, productID)
}

// Update persiste todas las columnas mutables. ErrAccountNotFound si la fila no existe.
func (r *StockAccountRepo) Update(ctx context.Context, a *entity.StockAccount) error {
	query := `
		UPDATE stock_accounts SET
			product_name = $2, category = $3, current_stock = $4, reserved_stock = $5, available_stock = $6,
			min_stock = $7, max_stock = $8, unit_price = $9, warehouse_location = $10, status = $11,
			version = $12, updated_at = $13
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		a.ID, a.ProductName, a.Category, a.CurrentStock, a.ReservedStock, a.AvailableStock,
		a.MinStock, a.MaxStock, a.UnitPrice, a.WarehouseLocation, string(a.Status), a.Version, a.UpdatedAt,
	)
	if err != nil {
		return wrapErr("update stock account", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: id=%s", domain.ErrAccountNotFound, a.ID)
	}
	return nil
}

// Delete elimina la cuenta. El log de transacciones no tiene FK y se conserva.
func (r *StockAccountRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM stock_accounts WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete stock account", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: id=%s", domain.ErrAccountNotFound, id)
	}
	return nil
}

// List lista cuentas con filtros opcionales, ordenadas por product_id.
func (r *StockAccountRepo) List(ctx context.Context, filter repository.AccountFilter) ([]*entity.StockAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM stock_accounts WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.ProductID != "" {
		query += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, filter.ProductID)
		pos++
	}
	if filter.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", pos)
		args = append(args, filter.Category)
		pos++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, string(filter.Status))
		pos++
	}
	if filter.NameContains != "" {
		query += fmt.Sprintf(" AND product_name ILIKE '%%' || $%d || '%%'", pos)
		args = append(args, filter.NameContains)
		pos++
	}
	if filter.Location != "" {
		query += fmt.Sprintf(" AND warehouse_location = $%d", pos)
		args = append(args, filter.Location)
		pos++
	}
	if filter.LowStock {
		query += " AND current_stock <= min_stock"
	}
	if filter.OutOfStock {
		query += " AND current_stock = 0"
	}
	query += " ORDER BY product_id"
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
		return nil, wrapErr("list stock accounts", err)
	}
	defer rows.Close()
	var list []*entity.StockAccount
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock account: %w", err)
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list stock accounts", err)
	}
	return list, nil
}

func (r *StockAccountRepo) getOne(ctx context.Context, op, query string, arg any) (*entity.StockAccount, error) {
	a, err := scanAccount(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr(op, err)
	}
	return a, nil
}

func scanAccount(row pgx.Row) (*entity.StockAccount, error) {
	var a entity.StockAccount
	var status string
	err := row.Scan(
		&a.ID, &a.ProductID, &a.ProductName, &a.Category, &a.CurrentStock, &a.ReservedStock, &a.AvailableStock,
		&a.MinStock, &a.MaxStock, &a.UnitPrice, &a.WarehouseLocation, &status, &a.Version, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Status = entity.AccountStatus(status)
	return &a, nil
}
