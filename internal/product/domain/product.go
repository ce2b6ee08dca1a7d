package domain

import (
	"github.com/shopspring/decimal"
)

// Product is the one entity the order engine mutates: its stock is
// decremented inside the placement transaction. Version is the optimistic
// concurrency token checked on every stock update.
type Product struct {
	ProductID    int64           `json:"product_id"`
	ProductName  string          `json:"product_name"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	UnitsInStock *int            `json:"units_in_stock"` // nil means untracked
	ReorderLevel int             `json:"reorder_level"`
	Discontinued bool            `json:"discontinued"`
	Version      int64           `json:"-"`
}

// Sellable reports whether the product may appear on a new order: not
// discontinued, with known positive stock.
func (p *Product) Sellable() bool {
	return !p.Discontinued && p.UnitsInStock != nil && *p.UnitsInStock > 0
}

type CreateProductRequest struct {
	ProductName  string          `json:"product_name" binding:"required"`
	UnitPrice    decimal.Decimal `json:"unit_price" binding:"required"`
	UnitsInStock *int            `json:"units_in_stock"`
	ReorderLevel int             `json:"reorder_level"`
	Discontinued bool            `json:"discontinued"`
}

type AdjustStockRequest struct {
	UnitsInStock int `json:"units_in_stock" binding:"min=0"`
}
