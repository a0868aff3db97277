package sales

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLine is one product-unit/quantity entry within a sale transaction.
// CostPrice and SellingPrice are frozen from the serving batch at creation
// time, so repricing a batch never rewrites sales history.
type SaleLine struct {
	ID            int64
	TransactionID int64
	ProductUnitID int64
	ProductUnit   string // display name, e.g. "kg(s) of rice"
	Quantity      int64
	CostPrice     decimal.Decimal
	SellingPrice  decimal.Decimal
	CreatedAt     time.Time
}

// Profit is the margin earned by this line.
func (l SaleLine) Profit() decimal.Decimal {
	return l.SellingPrice.Sub(l.CostPrice).Mul(decimal.NewFromInt(l.Quantity))
}

// TotalSellingPrice is the revenue of this line.
func (l SaleLine) TotalSellingPrice() decimal.Decimal {
	return l.SellingPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// TotalCostPrice is the stock cost consumed by this line.
func (l SaleLine) TotalCostPrice() decimal.Decimal {
	return l.CostPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// Transaction groups sale lines and applies a percentage discount.
type Transaction struct {
	ID                 int64
	Code               string
	PercentageDiscount decimal.Decimal
	Lines              []SaleLine
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Totals returns the derived transaction amounts.
func (t Transaction) Totals() Totals {
	return CalculateTotals(t.Lines, t.PercentageDiscount)
}

// CreateLineInput is one requested sale line.
type CreateLineInput struct {
	ProductUnitID int64
	Quantity      int64
}

// CreateTransactionInput is a sale-transaction creation request.
type CreateTransactionInput struct {
	Lines              []CreateLineInput
	PercentageDiscount decimal.Decimal
}
