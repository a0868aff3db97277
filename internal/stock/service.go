package stock

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/stockpos/stockpos/internal/shared"
)

// Service owns the batch ledger: creation, repricing and the current-batch
// selection every stock-dependent read goes through.
type Service struct {
	repo   Repository
	guard  SubmissionGuard
	logger *slog.Logger
}

func NewService(repo Repository, guard SubmissionGuard, logger *slog.Logger) *Service {
	return &Service{repo: repo, guard: guard, logger: logger}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Batch, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Batch, error) {
	if id <= 0 {
		return Batch{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, id)
}

// Create validates and persists a new batch with its derived profit columns.
func (s *Service) Create(ctx context.Context, input CreateBatchInput) (Batch, error) {
	if input.Quantity < 1 {
		return Batch{}, shared.NewValidationError("quantity", "must be greater than or equal to 1")
	}
	if input.CostPrice.IsNegative() || input.SellingPrice.IsNegative() {
		return Batch{}, shared.NewValidationError("cost_price", "prices cannot be negative")
	}
	if input.SellingPrice.LessThan(input.CostPrice) {
		return Batch{}, ErrPriceOrdering
	}

	exists, err := s.repo.ProductUnitExists(ctx, input.ProductUnitID)
	if err != nil {
		return Batch{}, err
	}
	if !exists {
		return Batch{}, shared.NewValidationError("product_unit", "product unit does not exist")
	}

	if err := s.guard.Check(ctx, input); err != nil {
		return Batch{}, err
	}

	profit, totalProfit := ComputeDerived(input.CostPrice, input.SellingPrice, input.Quantity)
	created, err := s.repo.Create(ctx, Batch{
		ProductUnitID: input.ProductUnitID,
		Quantity:      input.Quantity,
		CostPrice:     input.CostPrice,
		SellingPrice:  input.SellingPrice,
		Profit:        profit,
		TotalProfit:   totalProfit,
	})
	if err != nil {
		return Batch{}, err
	}

	// The guard must not undo a batch that is already persisted; a failed arm
	// only shortens the duplicate window, so surface it in the logs and move on.
	if err := s.guard.Arm(ctx, input); err != nil {
		s.logger.Warn("arming duplicate guard failed", "error", err, "product_unit", input.ProductUnitID)
	}
	return created, nil
}

// UpdatePrices mutates cost and selling price of an existing batch; quantity
// only ever changes through sales.
func (s *Service) UpdatePrices(ctx context.Context, id int64, costPrice, sellingPrice decimal.Decimal) (Batch, error) {
	if id <= 0 {
		return Batch{}, shared.ErrInvalidID
	}
	if costPrice.IsNegative() || sellingPrice.IsNegative() {
		return Batch{}, shared.NewValidationError("cost_price", "prices cannot be negative")
	}
	if sellingPrice.LessThan(costPrice) {
		return Batch{}, ErrPriceOrdering
	}

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Batch{}, err
	}
	profit, totalProfit := ComputeDerived(costPrice, sellingPrice, current.Quantity)
	return s.repo.UpdatePrices(ctx, id, costPrice, sellingPrice, profit, totalProfit)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	return s.repo.SoftDelete(ctx, id)
}

// CurrentBatch picks the batch serving the next sale for the product unit.
func (s *Service) CurrentBatch(ctx context.Context, productUnitID int64) (Batch, error) {
	return s.repo.CurrentBatch(ctx, productUnitID)
}

// ProductUnitStock reports the read-view stock state of a product unit.
func (s *Service) ProductUnitStock(ctx context.Context, productUnitID int64) (UnitStock, error) {
	batch, err := s.repo.CurrentBatch(ctx, productUnitID)
	if errors.Is(err, ErrNoCurrentBatch) {
		return UnitStock{OutOfStock: true}, nil
	}
	if err != nil {
		return UnitStock{}, err
	}
	return UnitStock{
		CostPrice:    batch.CostPrice,
		SellingPrice: batch.SellingPrice,
		QuantityLeft: batch.Quantity,
	}, nil
}
