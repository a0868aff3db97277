package products

import (
	"context"

	"github.com/stockpos/stockpos/internal/shared"
)

// StockReader resolves current-batch state for a product unit. It is consulted
// on every read so the view always reflects the latest quantities.
type StockReader interface {
	ProductUnitStock(ctx context.Context, productUnitID int64) (StockInfo, error)
}

type Service struct {
	repo  Repository
	stock StockReader
}

func NewService(repo Repository, stock StockReader) *Service {
	return &Service{repo: repo, stock: stock}
}

// MutateProductInput carries the fields shared by create and update.
type MutateProductInput struct {
	Name       string
	CategoryID *int64
	UnitIDs    []int64
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Product, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, id)
}

// Create persists the product and one product unit per requested unit, in a
// single transaction.
func (s *Service) Create(ctx context.Context, input MutateProductInput) (Product, error) {
	normalized, err := validateInput(input)
	if err != nil {
		return Product{}, err
	}

	var created Product
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		created, err = tx.InsertProduct(ctx, normalized.Name, normalized.CategoryID)
		if err != nil {
			return err
		}
		for _, unitID := range normalized.UnitIDs {
			if err := tx.UpsertProductUnit(ctx, created.ID, unitID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Product{}, err
	}
	return created, nil
}

// Update rewrites the product fields and synchronises its unit set: units
// absent from the request are archived, the rest are created or revived.
func (s *Service) Update(ctx context.Context, id int64, input MutateProductInput) (Product, error) {
	if id <= 0 {
		return Product{}, shared.ErrInvalidID
	}
	normalized, err := validateInput(input)
	if err != nil {
		return Product{}, err
	}

	var updated Product
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		updated, err = tx.UpdateProduct(ctx, id, normalized.Name, normalized.CategoryID)
		if err != nil {
			return err
		}
		if err := tx.ArchiveUnitsNotIn(ctx, id, normalized.UnitIDs); err != nil {
			return err
		}
		for _, unitID := range normalized.UnitIDs {
			if err := tx.UpsertProductUnit(ctx, id, unitID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Product{}, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	return s.repo.SoftDelete(ctx, id)
}

// ListProductUnits returns the POS view rows with per-request stock state.
func (s *Service) ListProductUnits(ctx context.Context, filters shared.ListFilters) ([]ProductUnitView, error) {
	rows, err := s.repo.ListProductUnits(ctx, filters)
	if err != nil {
		return nil, err
	}

	views := make([]ProductUnitView, 0, len(rows))
	for _, row := range rows {
		view := ProductUnitView{
			ID:         row.ID,
			Product:    row.Product,
			Unit:       row.Unit,
			ProductID:  row.ProductID,
			UnitID:     row.UnitID,
			Archived:   row.Archived,
			OutOfStock: true,
		}
		info, err := s.stock.ProductUnitStock(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		if !info.OutOfStock {
			cost := info.CostPrice
			sell := info.SellingPrice
			qty := info.QuantityLeft
			view.OutOfStock = false
			view.CostPrice = &cost
			view.SellingPrice = &sell
			view.QuantityLeft = &qty
		}
		views = append(views, view)
	}
	return views, nil
}
