package sales

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/stockpos/stockpos/internal/platform/db"
	"github.com/stockpos/stockpos/internal/shared"
)

// BatchRef is the slice of batch state sale recording needs.
type BatchRef struct {
	ID           int64
	Quantity     int64
	CostPrice    decimal.Decimal
	SellingPrice decimal.Decimal
}

// ErrNoCurrentBatch means the product unit has no batch with stock left.
var ErrNoCurrentBatch = errors.New("sales: no current batch")

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Transaction, int, error)
	Get(ctx context.Context, id int64) (Transaction, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes the operations that must share the one transaction a
// sale is recorded in: line inserts and their batch decrements commit or roll
// back together.
type TxRepository interface {
	InsertTransaction(ctx context.Context, code string, percentageDiscount decimal.Decimal) (Transaction, error)
	ProductUnitDisplay(ctx context.Context, productUnitID int64) (string, error)
	CurrentBatch(ctx context.Context, productUnitID int64) (BatchRef, error)
	InsertLine(ctx context.Context, line SaleLine) (SaleLine, error)
	DecrementBatch(ctx context.Context, batchID, quantity int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

type txRepo struct {
	tx pgx.Tx
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Transaction, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM sale_transactions WHERE status = 'active'`,
	).Scan(&total); err != nil {
		return nil, 0, shared.MapPgError(err)
	}

	query := `SELECT id, code, percentage_discount, created_at, updated_at
		FROM sale_transactions WHERE status = 'active' ORDER BY id DESC`
	args := []any{}
	if filters.Limit > 0 {
		query += ` LIMIT $1 OFFSET $2`
		args = append(args, filters.Limit, filters.Offset())
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, shared.MapPgError(err)
	}
	defer rows.Close()

	var txs []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.Code, &t.PercentageDiscount, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, err
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range txs {
		lines, err := r.loadLines(ctx, txs[i].ID)
		if err != nil {
			return nil, 0, err
		}
		txs[i].Lines = lines
	}
	return txs, total, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Transaction, error) {
	var t Transaction
	err := r.pool.QueryRow(ctx,
		`SELECT id, code, percentage_discount, created_at, updated_at
		 FROM sale_transactions WHERE id = $1 AND status = 'active'`,
		id,
	).Scan(&t.ID, &t.Code, &t.PercentageDiscount, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return Transaction{}, shared.MapPgError(err)
	}
	t.Lines, err = r.loadLines(ctx, t.ID)
	if err != nil {
		return Transaction{}, err
	}
	return t, nil
}

func (r *repository) loadLines(ctx context.Context, saleID int64) ([]SaleLine, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.id, s.sale_id, s.product_unit_id, u.name || '(s) of ' || p.name,
			s.quantity, s.cost_price, s.selling_price, s.created_at
		 FROM product_sales s
		 JOIN product_units pu ON pu.id = s.product_unit_id
		 JOIN products p ON p.id = pu.product_id
		 JOIN units u ON u.id = pu.unit_id
		 WHERE s.sale_id = $1 AND s.status = 'active'
		 ORDER BY s.id`,
		saleID,
	)
	if err != nil {
		return nil, shared.MapPgError(err)
	}
	defer rows.Close()

	var lines []SaleLine
	for rows.Next() {
		var l SaleLine
		if err := rows.Scan(&l.ID, &l.TransactionID, &l.ProductUnitID, &l.ProductUnit,
			&l.Quantity, &l.CostPrice, &l.SellingPrice, &l.CreatedAt); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *txRepo) InsertTransaction(ctx context.Context, code string, percentageDiscount decimal.Decimal) (Transaction, error) {
	var t Transaction
	err := r.tx.QueryRow(ctx,
		`INSERT INTO sale_transactions (code, percentage_discount) VALUES ($1, $2)
		 RETURNING id, code, percentage_discount, created_at, updated_at`,
		code, percentageDiscount,
	).Scan(&t.ID, &t.Code, &t.PercentageDiscount, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return Transaction{}, shared.MapPgError(err)
	}
	return t, nil
}

func (r *txRepo) ProductUnitDisplay(ctx context.Context, productUnitID int64) (string, error) {
	var display string
	err := r.tx.QueryRow(ctx,
		`SELECT u.name || '(s) of ' || p.name
		 FROM product_units pu
		 JOIN products p ON p.id = pu.product_id
		 JOIN units u ON u.id = pu.unit_id
		 WHERE pu.id = $1 AND pu.status = 'active'`,
		productUnitID,
	).Scan(&display)
	if err != nil {
		return "", shared.MapPgError(err)
	}
	return display, nil
}

func (r *txRepo) CurrentBatch(ctx context.Context, productUnitID int64) (BatchRef, error) {
	var b BatchRef
	err := r.tx.QueryRow(ctx,
		`SELECT id, quantity, cost_price, selling_price
		 FROM product_batches
		 WHERE product_unit_id = $1 AND quantity > 0 AND status = 'active'
		 ORDER BY created_at, id
		 LIMIT 1`,
		productUnitID,
	).Scan(&b.ID, &b.Quantity, &b.CostPrice, &b.SellingPrice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return BatchRef{}, ErrNoCurrentBatch
		}
		return BatchRef{}, shared.MapPgError(err)
	}
	return b, nil
}

func (r *txRepo) InsertLine(ctx context.Context, line SaleLine) (SaleLine, error) {
	err := r.tx.QueryRow(ctx,
		`INSERT INTO product_sales (sale_id, product_unit_id, quantity, cost_price, selling_price)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		line.TransactionID, line.ProductUnitID, line.Quantity, line.CostPrice, line.SellingPrice,
	).Scan(&line.ID, &line.CreatedAt)
	if err != nil {
		return SaleLine{}, shared.MapPgError(err)
	}
	return line, nil
}

// DecrementBatch applies the stock decrement as a single relative update so
// concurrent sales against the same batch cannot lose a write. The stored
// total_profit follows the new quantity in the same statement.
func (r *txRepo) DecrementBatch(ctx context.Context, batchID, quantity int64) error {
	tag, err := r.tx.Exec(ctx,
		`UPDATE product_batches
		 SET quantity = quantity - $2,
		     total_profit = profit * (quantity - $2),
		     updated_at = now()
		 WHERE id = $1 AND status = 'active'`,
		batchID, quantity,
	)
	if err != nil {
		return shared.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
