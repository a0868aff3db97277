package products

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockpos/stockpos/internal/platform/db"
	"github.com/stockpos/stockpos/internal/shared"
)

// ProductUnitRow is the raw join row behind the product-unit list view.
type ProductUnitRow struct {
	ID        int64
	ProductID int64
	UnitID    int64
	Product   string
	Unit      string
	Archived  bool
}

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Product, int, error)
	Get(ctx context.Context, id int64) (Product, error)
	SoftDelete(ctx context.Context, id int64) error
	ListProductUnits(ctx context.Context, filters shared.ListFilters) ([]ProductUnitRow, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes the mutations that must share one transaction.
type TxRepository interface {
	InsertProduct(ctx context.Context, name string, categoryID *int64) (Product, error)
	UpdateProduct(ctx context.Context, id int64, name string, categoryID *int64) (Product, error)
	UpsertProductUnit(ctx context.Context, productID, unitID int64) error
	ArchiveUnitsNotIn(ctx context.Context, productID int64, unitIDs []int64) error
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

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Product, int, error) {
	where := ` WHERE p.status = 'active'`
	args := []any{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		ph := `$` + strconv.Itoa(argCount)
		where += ` AND (p.name ILIKE ` + ph +
			` OR EXISTS (SELECT 1 FROM categories c WHERE c.id = p.category_id AND c.name ILIKE ` + ph + `)` +
			` OR EXISTS (SELECT 1 FROM product_units pu JOIN units u ON u.id = pu.unit_id` +
			` WHERE pu.product_id = p.id AND pu.status = 'active' AND u.name ILIKE ` + ph + `))`
		args = append(args, "%"+filters.Search+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products p`+where, args...).Scan(&total); err != nil {
		return nil, 0, shared.MapPgError(err)
	}

	query := `SELECT p.id, p.name, p.category_id, p.created_at, p.updated_at FROM products p` + where + ` ORDER BY p.name`
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

	var items []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Product, error) {
	var p Product
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, category_id, created_at, updated_at FROM products WHERE id = $1 AND status = 'active'`,
		id,
	).Scan(&p.ID, &p.Name, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, shared.MapPgError(err)
	}
	return p, nil
}

// SoftDelete marks the product deleted and cascades the soft state to its
// product units, all inside one transaction.
func (r *repository) SoftDelete(ctx context.Context, id int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE products SET status = 'deleted', deleted_at = now(), updated_at = now()
			 WHERE id = $1 AND status = 'active'`,
			id,
		)
		if err != nil {
			return shared.MapPgError(err)
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}

		_, err = tx.Exec(ctx,
			`UPDATE product_units SET status = 'deleted', deleted_at = now(), updated_at = now()
			 WHERE product_id = $1 AND status = 'active'`,
			id,
		)
		return shared.MapPgError(err)
	})
}

func (r *repository) ListProductUnits(ctx context.Context, filters shared.ListFilters) ([]ProductUnitRow, error) {
	query := `SELECT pu.id, pu.product_id, pu.unit_id, p.name, u.name, pu.archived
		FROM product_units pu
		JOIN products p ON p.id = pu.product_id
		JOIN units u ON u.id = pu.unit_id
		WHERE pu.status = 'active' AND p.status = 'active'`
	args := []any{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		ph := `$` + strconv.Itoa(argCount)
		query += ` AND (p.name ILIKE ` + ph + ` OR u.name ILIKE ` + ph + `)`
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.ProductID != nil {
		argCount++
		query += ` AND pu.product_id = $` + strconv.Itoa(argCount)
		args = append(args, *filters.ProductID)
	}
	if filters.UnitID != nil {
		argCount++
		query += ` AND pu.unit_id = $` + strconv.Itoa(argCount)
		args = append(args, *filters.UnitID)
	}

	query += ` ORDER BY pu.product_id, pu.id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, shared.MapPgError(err)
	}
	defer rows.Close()

	var items []ProductUnitRow
	for rows.Next() {
		var row ProductUnitRow
		if err := rows.Scan(&row.ID, &row.ProductID, &row.UnitID, &row.Product, &row.Unit, &row.Archived); err != nil {
			return nil, err
		}
		items = append(items, row)
	}
	return items, rows.Err()
}

func (r *txRepo) InsertProduct(ctx context.Context, name string, categoryID *int64) (Product, error) {
	var p Product
	err := r.tx.QueryRow(ctx,
		`INSERT INTO products (name, category_id) VALUES ($1, $2)
		 RETURNING id, name, category_id, created_at, updated_at`,
		name, categoryID,
	).Scan(&p.ID, &p.Name, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, shared.MapPgError(err)
	}
	return p, nil
}

func (r *txRepo) UpdateProduct(ctx context.Context, id int64, name string, categoryID *int64) (Product, error) {
	var p Product
	err := r.tx.QueryRow(ctx,
		`UPDATE products SET name = $1, category_id = $2, updated_at = now()
		 WHERE id = $3 AND status = 'active'
		 RETURNING id, name, category_id, created_at, updated_at`,
		name, categoryID, id,
	).Scan(&p.ID, &p.Name, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, shared.MapPgError(err)
	}
	return p, nil
}

// UpsertProductUnit creates the pairing or revives an archived one. The
// partial unique index keeps at most one active row per (product, unit).
func (r *txRepo) UpsertProductUnit(ctx context.Context, productID, unitID int64) error {
	_, err := r.tx.Exec(ctx,
		`INSERT INTO product_units (product_id, unit_id)
		 VALUES ($1, $2)
		 ON CONFLICT (product_id, unit_id) WHERE status = 'active'
		 DO UPDATE SET archived = FALSE, updated_at = now()`,
		productID, unitID,
	)
	return shared.MapPgError(err)
}

func (r *txRepo) ArchiveUnitsNotIn(ctx context.Context, productID int64, unitIDs []int64) error {
	_, err := r.tx.Exec(ctx,
		`UPDATE product_units SET archived = TRUE, updated_at = now()
		 WHERE product_id = $1 AND status = 'active' AND NOT (unit_id = ANY($2))`,
		productID, unitIDs,
	)
	return shared.MapPgError(err)
}
