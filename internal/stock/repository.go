package stock

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/stockpos/stockpos/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Batch, int, error)
	Get(ctx context.Context, id int64) (Batch, error)
	Create(ctx context.Context, batch Batch) (Batch, error)
	UpdatePrices(ctx context.Context, id int64, costPrice, sellingPrice, profit, totalProfit decimal.Decimal) (Batch, error)
	SoftDelete(ctx context.Context, id int64) error
	CurrentBatch(ctx context.Context, productUnitID int64) (Batch, error)
	ProductUnitExists(ctx context.Context, productUnitID int64) (bool, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const batchColumns = `b.id, b.product_unit_id, p.name, u.name, b.quantity,
	b.cost_price, b.selling_price, b.profit, b.total_profit, b.created_at, b.updated_at`

const batchJoin = ` FROM product_batches b
	JOIN product_units pu ON pu.id = b.product_unit_id
	JOIN products p ON p.id = pu.product_id
	JOIN units u ON u.id = pu.unit_id`

func scanBatch(row pgx.Row) (Batch, error) {
	var b Batch
	err := row.Scan(&b.ID, &b.ProductUnitID, &b.Product, &b.Unit, &b.Quantity,
		&b.CostPrice, &b.SellingPrice, &b.Profit, &b.TotalProfit, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return Batch{}, shared.MapPgError(err)
	}
	return b, nil
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Batch, int, error) {
	where := ` WHERE b.status = 'active'`
	args := []any{}
	argCount := 0

	if filters.ProductID != nil {
		argCount++
		where += ` AND pu.product_id = $` + strconv.Itoa(argCount)
		args = append(args, *filters.ProductID)
	}
	if filters.UnitID != nil {
		argCount++
		where += ` AND pu.unit_id = $` + strconv.Itoa(argCount)
		args = append(args, *filters.UnitID)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+batchJoin+where, args...).Scan(&total); err != nil {
		return nil, 0, shared.MapPgError(err)
	}

	query := `SELECT ` + batchColumns + batchJoin + where + ` ORDER BY b.id DESC`
	if filters.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filters.Limit)

		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		args = append(args, filters.Offset())
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, shared.MapPgError(err)
	}
	defer rows.Close()

	var batches []Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, 0, err
		}
		batches = append(batches, b)
	}
	return batches, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Batch, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+batchColumns+batchJoin+` WHERE b.id = $1 AND b.status = 'active'`, id)
	return scanBatch(row)
}

func (r *repository) Create(ctx context.Context, batch Batch) (Batch, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO product_batches (product_unit_id, quantity, cost_price, selling_price, profit, total_profit)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		batch.ProductUnitID, batch.Quantity, batch.CostPrice, batch.SellingPrice, batch.Profit, batch.TotalProfit,
	).Scan(&id)
	if err != nil {
		return Batch{}, shared.MapPgError(err)
	}
	return r.Get(ctx, id)
}

func (r *repository) UpdatePrices(ctx context.Context, id int64, costPrice, sellingPrice, profit, totalProfit decimal.Decimal) (Batch, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE product_batches
		 SET cost_price = $1, selling_price = $2, profit = $3, total_profit = $4, updated_at = now()
		 WHERE id = $5 AND status = 'active'`,
		costPrice, sellingPrice, profit, totalProfit, id,
	)
	if err != nil {
		return Batch{}, shared.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return Batch{}, shared.ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *repository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE product_batches SET status = 'deleted', deleted_at = now(), updated_at = now()
		 WHERE id = $1 AND status = 'active'`,
		id,
	)
	if err != nil {
		return shared.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CurrentBatch returns the earliest-created batch that still has stock.
func (r *repository) CurrentBatch(ctx context.Context, productUnitID int64) (Batch, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+batchColumns+batchJoin+`
		 WHERE b.product_unit_id = $1 AND b.quantity > 0 AND b.status = 'active'
		 ORDER BY b.created_at, b.id
		 LIMIT 1`,
		productUnitID,
	)
	b, err := scanBatch(row)
	if errors.Is(err, shared.ErrNotFound) {
		return Batch{}, ErrNoCurrentBatch
	}
	return b, err
}

func (r *repository) ProductUnitExists(ctx context.Context, productUnitID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM product_units WHERE id = $1 AND status = 'active')`,
		productUnitID,
	).Scan(&exists)
	if err != nil {
		return false, shared.MapPgError(err)
	}
	return exists, nil
}
