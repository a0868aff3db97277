package stock

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stockpos/stockpos/internal/shared"
)

// Batch is a priced lot of stock for one product unit. Profit fields are
// derived from the prices and quantity and stored alongside them.
type Batch struct {
	ID            int64           `json:"id"`
	ProductUnitID int64           `json:"product_unit"`
	Product       string          `json:"product,omitempty"`
	Unit          string          `json:"unit,omitempty"`
	Quantity      int64           `json:"quantity"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	Profit        decimal.Decimal `json:"profit"`
	TotalProfit   decimal.Decimal `json:"total_profit"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// UnitStock summarises the current batch of a product unit for read views.
type UnitStock struct {
	OutOfStock   bool
	CostPrice    decimal.Decimal
	SellingPrice decimal.Decimal
	QuantityLeft int64
}

// CreateBatchInput is a batch creation request.
type CreateBatchInput struct {
	ProductUnitID int64
	Quantity      int64
	CostPrice     decimal.Decimal
	SellingPrice  decimal.Decimal
}

// ComputeDerived recomputes the stored profit columns. It runs on every
// mutating write so the persisted values never drift from the inputs.
func ComputeDerived(costPrice, sellingPrice decimal.Decimal, quantity int64) (profit, totalProfit decimal.Decimal) {
	profit = sellingPrice.Sub(costPrice)
	totalProfit = profit.Mul(decimal.NewFromInt(quantity))
	return profit, totalProfit
}

// ErrNoCurrentBatch means every batch of the product unit is exhausted;
// out-of-stock is exactly this condition.
var ErrNoCurrentBatch = errors.New("stock: no current batch")

// Validation failures surfaced to the request boundary.
var (
	ErrPriceOrdering   = shared.NewValidationError("", "Selling price cannot be less than cost price")
	ErrDuplicateWindow = shared.NewValidationError("", "Try again in 2 minutes")
)
