package sales

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockpos/stockpos/internal/shared"
)

// Service records sale transactions. Recording a sale validates each line
// against the current batch, freezes the batch prices onto the line and
// decrements the batch, all inside one database transaction.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Transaction, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Transaction, error) {
	if id <= 0 {
		return Transaction{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, id)
}

// Create records a sale transaction with all its lines atomically: either
// every line passes validation and its stock is decremented, or nothing is
// persisted.
func (s *Service) Create(ctx context.Context, input CreateTransactionInput) (Transaction, error) {
	if err := validateDiscount(input.PercentageDiscount); err != nil {
		return Transaction{}, err
	}
	if len(input.Lines) == 0 {
		return Transaction{}, shared.NewValidationError("sales", "this field is required")
	}
	for _, line := range input.Lines {
		if line.ProductUnitID <= 0 {
			return Transaction{}, shared.NewValidationError("product_unit", "product unit does not exist")
		}
		if line.Quantity < 1 {
			return Transaction{}, shared.NewValidationError("quantity", "must be greater than or equal to 1")
		}
	}

	var created Transaction
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		code := fmt.Sprintf("SALE-%s", uuid.NewString())
		var err error
		created, err = tx.InsertTransaction(ctx, code, input.PercentageDiscount)
		if err != nil {
			return err
		}

		for _, req := range input.Lines {
			line, err := s.recordLine(ctx, tx, created.ID, req)
			if err != nil {
				return err
			}
			created.Lines = append(created.Lines, line)
		}
		return nil
	})
	if err != nil {
		return Transaction{}, err
	}
	return created, nil
}

// recordLine validates one line against its current batch, snapshots the
// batch prices and fires the stock decrement.
func (s *Service) recordLine(ctx context.Context, tx TxRepository, saleID int64, req CreateLineInput) (SaleLine, error) {
	display, err := tx.ProductUnitDisplay(ctx, req.ProductUnitID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return SaleLine{}, shared.NewValidationError("product_unit", "product unit does not exist")
		}
		return SaleLine{}, err
	}

	batch, err := tx.CurrentBatch(ctx, req.ProductUnitID)
	if err != nil {
		if errors.Is(err, ErrNoCurrentBatch) {
			return SaleLine{}, shared.NewValidationError("", fmt.Sprintf("%s is out of stock", display))
		}
		return SaleLine{}, err
	}
	if batch.Quantity < req.Quantity {
		return SaleLine{}, shared.NewValidationError("", fmt.Sprintf("Only %d %s is available", batch.Quantity, display))
	}

	line, err := tx.InsertLine(ctx, SaleLine{
		TransactionID: saleID,
		ProductUnitID: req.ProductUnitID,
		ProductUnit:   display,
		Quantity:      req.Quantity,
		CostPrice:     batch.CostPrice,
		SellingPrice:  batch.SellingPrice,
	})
	if err != nil {
		return SaleLine{}, err
	}

	// Stock-decrement reaction: fires exactly once, right after the line is
	// durably created, inside the same transaction.
	if err := tx.DecrementBatch(ctx, batch.ID, req.Quantity); err != nil {
		return SaleLine{}, err
	}
	return line, nil
}

var maxDiscount = decimal.NewFromInt(100)

func validateDiscount(d decimal.Decimal) error {
	if d.IsNegative() || d.GreaterThan(maxDiscount) {
		return shared.NewValidationError("percentage_discount", "must be between 0 and 100")
	}
	if !d.Equal(d.Round(1)) {
		return shared.NewValidationError("percentage_discount", "must have at most 1 decimal place")
	}
	return nil
}
