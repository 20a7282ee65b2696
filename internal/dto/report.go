package dto

import "github.com/shopspring/decimal"

const DateLayout = "2006-01-02"

type LowStockItemDTO struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	SKU           *string `json:"sku"`
	StockQuantity int     `json:"stock_quantity"`
	MinStockLevel int     `json:"min_stock_level"`
	CategoryName  *string `json:"category_name"`
}

type DailySalesDTO struct {
	Date             string          `json:"date"`
	TransactionCount int             `json:"transaction_count"`
	TotalSales       decimal.Decimal `json:"total_sales"`
}

type InventoryStatsDTO struct {
	TotalProducts   int             `json:"total_products"`
	InStock         int             `json:"in_stock"`
	OutOfStock      int             `json:"out_of_stock"`
	LowStock        int             `json:"low_stock"`
	TotalStockValue decimal.Decimal `json:"total_stock_value"`
	AvgProductValue decimal.Decimal `json:"avg_product_value"`
	CategoriesCount int             `json:"categories_count"`
	SuppliersCount  int             `json:"suppliers_count"`
}

type ReconciliationDTO struct {
	ProductID     int64  `json:"product_id"`
	Name          string `json:"name"`
	StockQuantity int    `json:"stock_quantity"`
	LedgerBalance int    `json:"ledger_balance"`
}
