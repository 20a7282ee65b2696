package dto

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"stockroom/internal/domain"
	apperrors "stockroom/internal/errors"
)

// ProductRequest is the body of product create and update calls. A nil
// StockQuantity on update leaves stock unchanged.
type ProductRequest struct {
	Name          string          `json:"name"`
	SKU           string          `json:"sku"`
	Barcode       string          `json:"barcode"`
	CategoryID    *int64          `json:"category_id"`
	SupplierID    *int64          `json:"supplier_id"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	StockQuantity *int            `json:"stock_quantity"`
	MinStockLevel int             `json:"min_stock_level"`
	Description   string          `json:"description"`
}

func (r ProductRequest) Validate() error {
	var details []apperrors.ValidationDetail

	if strings.TrimSpace(r.Name) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "name", Message: "name is required"})
	}
	if r.UnitCost.IsNegative() {
		details = append(details, apperrors.ValidationDetail{Field: "unit_cost", Message: "unit_cost must be non-negative"})
	} else if !domain.IsMoney(r.UnitCost) {
		details = append(details, apperrors.ValidationDetail{Field: "unit_cost", Message: "unit_cost must have at most 2 decimal places"})
	}
	if r.SellingPrice.IsNegative() {
		details = append(details, apperrors.ValidationDetail{Field: "selling_price", Message: "selling_price must be non-negative"})
	} else if !domain.IsMoney(r.SellingPrice) {
		details = append(details, apperrors.ValidationDetail{Field: "selling_price", Message: "selling_price must have at most 2 decimal places"})
	}
	if r.StockQuantity != nil && (*r.StockQuantity < 0 || *r.StockQuantity > domain.MaxQuantity) {
		details = append(details, apperrors.ValidationDetail{Field: "stock_quantity", Message: "stock_quantity must be between 0 and the maximum stock level"})
	}
	if r.MinStockLevel < 0 || r.MinStockLevel > domain.MaxQuantity {
		details = append(details, apperrors.ValidationDetail{Field: "min_stock_level", Message: "min_stock_level must be between 0 and the maximum stock level"})
	}
	if r.CategoryID != nil && *r.CategoryID <= 0 {
		details = append(details, apperrors.ValidationDetail{Field: "category_id", Message: "category_id must be a positive integer"})
	}
	if r.SupplierID != nil && *r.SupplierID <= 0 {
		details = append(details, apperrors.ValidationDetail{Field: "supplier_id", Message: "supplier_id must be a positive integer"})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}

// Product maps the request onto a product without its stock. A blank SKU is
// stored as NULL so several products may omit it.
func (r ProductRequest) Product() domain.Product {
	p := domain.Product{
		Name:          strings.TrimSpace(r.Name),
		Barcode:       strings.TrimSpace(r.Barcode),
		CategoryID:    r.CategoryID,
		SupplierID:    r.SupplierID,
		UnitCost:      r.UnitCost,
		SellingPrice:  r.SellingPrice,
		MinStockLevel: r.MinStockLevel,
		Description:   strings.TrimSpace(r.Description),
	}
	if sku := strings.TrimSpace(r.SKU); sku != "" {
		p.SKU = &sku
	}
	return p
}

type ProductDTO struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	SKU           *string         `json:"sku"`
	Barcode       string          `json:"barcode"`
	CategoryID    *int64          `json:"category_id"`
	SupplierID    *int64          `json:"supplier_id"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	StockQuantity int             `json:"stock_quantity"`
	MinStockLevel int             `json:"min_stock_level"`
	Description   string          `json:"description"`
	LowStock      bool            `json:"low_stock"`
	CreatedAt     time.Time       `json:"created_at"`
}

func NewProductDTO(p domain.Product) ProductDTO {
	return ProductDTO{
		ID:            p.ID,
		Name:          p.Name,
		SKU:           p.SKU,
		Barcode:       p.Barcode,
		CategoryID:    p.CategoryID,
		SupplierID:    p.SupplierID,
		UnitCost:      p.UnitCost,
		SellingPrice:  p.SellingPrice,
		StockQuantity: p.StockQuantity,
		MinStockLevel: p.MinStockLevel,
		Description:   p.Description,
		LowStock:      p.IsLowStock(),
		CreatedAt:     p.CreatedAt,
	}
}
