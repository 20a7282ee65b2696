package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            int64
	Name          string
	SKU           *string
	Barcode       string
	CategoryID    *int64
	SupplierID    *int64
	UnitCost      decimal.Decimal
	SellingPrice  decimal.Decimal
	StockQuantity int
	MinStockLevel int
	Description   string
	IsDeleted     bool
	CreatedAt     time.Time
}

// IsLowStock matches the low stock report: at or below the minimum level.
func (p Product) IsLowStock() bool {
	return p.StockQuantity <= p.MinStockLevel
}

func (p Product) InStock() bool {
	return p.StockQuantity > 0
}

func (p Product) CanFulfil(quantity int) bool {
	return quantity <= p.StockQuantity
}

// StockValue is the on-hand quantity valued at the selling price.
func (p Product) StockValue() decimal.Decimal {
	return p.SellingPrice.Mul(decimal.NewFromInt(int64(p.StockQuantity)))
}

// ProductFilter narrows product listings. Search matches name, sku or barcode.
type ProductFilter struct {
	Search     string
	CategoryID *int64
	SupplierID *int64
}
