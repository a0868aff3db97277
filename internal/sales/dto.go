package sales

import (
	"time"

	"github.com/shopspring/decimal"
)

type createSaleItemRequest struct {
	ProductUnit int64 `json:"product_unit" validate:"required"`
	Quantity    int64 `json:"quantity" validate:"required,min=1"`
}

type createSaleTransactionRequest struct {
	Sales              []createSaleItemRequest `json:"sales" validate:"required,min=1,dive"`
	PercentageDiscount *decimal.Decimal        `json:"percentage_discount"`
}

// SaleLineResponse serialises one line with its snapshot-derived values.
type SaleLineResponse struct {
	ID                int64           `json:"id"`
	ProductUnit       string          `json:"product_unit"`
	Quantity          int64           `json:"quantity"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	SellingPrice      decimal.Decimal `json:"selling_price"`
	Profit            decimal.Decimal `json:"profit"`
	TotalSellingPrice decimal.Decimal `json:"total_selling_price"`
	TotalCostPrice    decimal.Decimal `json:"total_cost_price"`
	CreatedAt         time.Time       `json:"created_at"`
}

// TransactionResponse serialises a transaction with its derived totals.
type TransactionResponse struct {
	ID                 int64              `json:"id"`
	Code               string             `json:"code"`
	PercentageDiscount decimal.Decimal    `json:"percentage_discount"`
	Sales              []SaleLineResponse `json:"sales"`
	ActualSellingPrice decimal.Decimal    `json:"actual_selling_price"`
	TotalCostPrice     decimal.Decimal    `json:"total_cost_price"`
	ActualProfit       decimal.Decimal    `json:"actual_profit"`
	FinalSellingPrice  decimal.Decimal    `json:"final_selling_price"`
	FinalProfit        decimal.Decimal    `json:"final_profit"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// NewTransactionResponse maps a transaction and its computed totals.
func NewTransactionResponse(t Transaction) TransactionResponse {
	totals := t.Totals()
	lines := make([]SaleLineResponse, 0, len(t.Lines))
	for _, l := range t.Lines {
		lines = append(lines, SaleLineResponse{
			ID:                l.ID,
			ProductUnit:       l.ProductUnit,
			Quantity:          l.Quantity,
			CostPrice:         l.CostPrice,
			SellingPrice:      l.SellingPrice,
			Profit:            l.Profit(),
			TotalSellingPrice: l.TotalSellingPrice(),
			TotalCostPrice:    l.TotalCostPrice(),
			CreatedAt:         l.CreatedAt,
		})
	}
	return TransactionResponse{
		ID:                 t.ID,
		Code:               t.Code,
		PercentageDiscount: t.PercentageDiscount,
		Sales:              lines,
		ActualSellingPrice: totals.ActualSellingPrice,
		TotalCostPrice:     totals.TotalCostPrice,
		ActualProfit:       totals.ActualProfit,
		FinalSellingPrice:  totals.FinalSellingPrice,
		FinalProfit:        totals.FinalProfit,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
}
