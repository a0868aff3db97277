package sales

import "github.com/shopspring/decimal"

// Totals holds the derived amounts of a sale transaction.
type Totals struct {
	ActualSellingPrice decimal.Decimal
	TotalCostPrice     decimal.Decimal
	ActualProfit       decimal.Decimal
	FinalSellingPrice  decimal.Decimal
	FinalProfit        decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// CalculateTotals sums the line totals and applies the percentage discount to
// the selling side only; cost is never discounted.
func CalculateTotals(lines []SaleLine, percentageDiscount decimal.Decimal) Totals {
	var selling, cost decimal.Decimal
	for _, line := range lines {
		selling = selling.Add(line.TotalSellingPrice())
		cost = cost.Add(line.TotalCostPrice())
	}

	discountAmount := selling.Mul(percentageDiscount.Div(hundred))
	final := selling.Sub(discountAmount).Round(2)

	return Totals{
		ActualSellingPrice: selling,
		TotalCostPrice:     cost,
		ActualProfit:       selling.Sub(cost),
		FinalSellingPrice:  final,
		FinalProfit:        final.Sub(cost),
	}
}
