package dto

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"stockroom/internal/domain"
	apperrors "stockroom/internal/errors"
)

const MaxLineItems = 100

type LineItemRequest struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type RecordSaleRequest struct {
	CustomerID      *int64            `json:"customer_id"`
	ReferenceNumber string            `json:"reference_number"`
	Notes           string            `json:"notes"`
	Items           []LineItemRequest `json:"items"`
}

func (r RecordSaleRequest) Validate() error {
	details := validateLineItems(r.Items)
	if r.CustomerID != nil && *r.CustomerID <= 0 {
		details = append(details, apperrors.ValidationDetail{Field: "customer_id", Message: "customer_id must be a positive integer"})
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}

type RecordPurchaseRequest struct {
	SupplierID      *int64            `json:"supplier_id"`
	ReferenceNumber string            `json:"reference_number"`
	Notes           string            `json:"notes"`
	Items           []LineItemRequest `json:"items"`
}

func (r RecordPurchaseRequest) Validate() error {
	details := validateLineItems(r.Items)
	if r.SupplierID != nil && *r.SupplierID <= 0 {
		details = append(details, apperrors.ValidationDetail{Field: "supplier_id", Message: "supplier_id must be a positive integer"})
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}

func validateLineItems(items []LineItemRequest) []apperrors.ValidationDetail {
	var details []apperrors.ValidationDetail

	if len(items) == 0 {
		return append(details, apperrors.ValidationDetail{Field: "items", Message: "items must not be empty"})
	}
	if len(items) > MaxLineItems {
		details = append(details, apperrors.ValidationDetail{Field: "items", Message: "items exceeds maximum of " + strconv.Itoa(MaxLineItems)})
	}

	seen := make(map[int64]bool, len(items))
	for idx, item := range items {
		prefix := "items[" + strconv.Itoa(idx) + "]"
		if item.ProductID <= 0 {
			details = append(details, apperrors.ValidationDetail{Field: prefix + ".product_id", Message: "each product_id must be a positive integer"})
		}
		if seen[item.ProductID] {
			details = append(details, apperrors.ValidationDetail{Field: prefix + ".product_id", Message: "product_id must not be duplicated"})
		}
		seen[item.ProductID] = true

		if item.Quantity < 1 {
			details = append(details, apperrors.ValidationDetail{Field: prefix + ".quantity", Message: "quantity must be a positive integer"})
		} else if item.Quantity > domain.MaxQuantity {
			details = append(details, apperrors.ValidationDetail{Field: prefix + ".quantity", Message: "quantity exceeds the maximum stock level"})
		}
		if item.UnitPrice.IsNegative() {
			details = append(details, apperrors.ValidationDetail{Field: prefix + ".unit_price", Message: "unit_price must be non-negative"})
		} else if !domain.IsMoney(item.UnitPrice) {
			details = append(details, apperrors.ValidationDetail{Field: prefix + ".unit_price", Message: "unit_price must have at most 2 decimal places"})
		}
	}

	return details
}

// TransactionDraft is a validated sale or purchase ready to be written.
type TransactionDraft struct {
	Type            domain.TransactionType
	ReferenceNumber string
	CustomerID      *int64
	SupplierID      *int64
	Notes           string
	Items           []LineItemRequest
}

type RecordResult struct {
	TransactionID int64
	TotalAmount   decimal.Decimal
	Items         []domain.TransactionItem
}

type TransactionItemDTO struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

type RecordTransactionResponse struct {
	ID              int64                `json:"id"`
	Type            string               `json:"type"`
	ReferenceNumber string               `json:"reference_number"`
	TotalAmount     decimal.Decimal      `json:"total_amount"`
	Items           []TransactionItemDTO `json:"items"`
}

type ReturnItemRequest struct {
	TransactionID int64 `json:"transaction_id"`
	ProductID     int64 `json:"product_id"`
	Quantity      int   `json:"quantity"`
}

func (r ReturnItemRequest) Validate() error {
	var details []apperrors.ValidationDetail
	if r.TransactionID <= 0 {
		details = append(details, apperrors.ValidationDetail{Field: "transaction_id", Message: "transaction_id must be a positive integer"})
	}
	if r.ProductID <= 0 {
		details = append(details, apperrors.ValidationDetail{Field: "product_id", Message: "product_id must be a positive integer"})
	}
	if r.Quantity < 1 {
		details = append(details, apperrors.ValidationDetail{Field: "quantity", Message: "quantity must be a positive integer"})
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}

type ReturnResult struct {
	NewTotalAmount decimal.Decimal
	NewQuantity    int
}

type ReturnItemResponse struct {
	Success        bool            `json:"success"`
	NewTotalAmount decimal.Decimal `json:"new_total_amount"`
	NewQuantity    int             `json:"new_quantity"`
}

type TransactionDetailsResponse struct {
	ID              int64                `json:"id"`
	Type            string               `json:"type"`
	ReferenceNumber string               `json:"reference_number"`
	CustomerID      *int64               `json:"customer_id"`
	CustomerName    *string              `json:"customer_name"`
	SupplierID      *int64               `json:"supplier_id"`
	SupplierName    *string              `json:"supplier_name"`
	TotalAmount     decimal.Decimal      `json:"total_amount"`
	Notes           string               `json:"notes"`
	TransactionDate time.Time            `json:"transaction_date"`
	Items           []TransactionItemDTO `json:"items"`
}

type TransactionSummaryDTO struct {
	ID               int64           `json:"id"`
	Type             string          `json:"type"`
	ReferenceNumber  string          `json:"reference_number"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	TransactionDate  time.Time       `json:"transaction_date"`
	CounterpartyName *string         `json:"counterparty_name"`
}
