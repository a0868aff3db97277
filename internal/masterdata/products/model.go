package products

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable item, optionally grouped under a category.
type Product struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	CategoryID *int64    `json:"category"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ProductUnit pairs a product with a unit of measure it is sold in.
// Archived soft-disables the pairing without touching history.
type ProductUnit struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	UnitID    int64     `json:"unit_id"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductUnitView is the read model served to the POS frontend. Stock fields
// come from the current batch and are resolved per request, never cached.
type ProductUnitView struct {
	ID           int64            `json:"id"`
	Product      string           `json:"product"`
	Unit         string           `json:"unit"`
	ProductID    int64            `json:"product_id"`
	UnitID       int64            `json:"unit_id"`
	Archived     bool             `json:"archived"`
	OutOfStock   bool             `json:"out_of_stock"`
	CostPrice    *decimal.Decimal `json:"cost_price"`
	SellingPrice *decimal.Decimal `json:"selling_price"`
	QuantityLeft *int64           `json:"quantity_left"`
}

// StockInfo is the slice of batch state the product-unit view needs.
type StockInfo struct {
	OutOfStock   bool
	CostPrice    decimal.Decimal
	SellingPrice decimal.Decimal
	QuantityLeft int64
}
