package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeSale     TransactionType = "sale"
	TransactionTypePurchase TransactionType = "purchase"
)

func (t TransactionType) Valid() bool {
	return t == TransactionTypeSale || t == TransactionTypePurchase
}

// StockEffect is the movement each line item of a new transaction applies:
// sales consume stock, purchases receive it. Returns and deletions apply the
// reverse.
func (t TransactionType) StockEffect() MovementType {
	if t == TransactionTypePurchase {
		return MovementIn
	}
	return MovementOut
}

func (t TransactionType) Note() string {
	if t == TransactionTypePurchase {
		return NotePurchase
	}
	return NoteSale
}

type Transaction struct {
	ID              int64
	Type            TransactionType
	ReferenceNumber string
	CustomerID      *int64
	SupplierID      *int64
	TotalAmount     decimal.Decimal
	Notes           string
	TransactionDate time.Time
}

type TransactionItem struct {
	ID            int64
	TransactionID int64
	ProductID     int64
	Quantity      int
	UnitPrice     decimal.Decimal
	TotalPrice    decimal.Decimal
}

// MoneyPlaces is the scale every stored amount is kept at.
const MoneyPlaces = 2

// IsMoney reports whether d can be stored without rounding. Line totals of
// such amounts are exact, so stored totals always add up.
func IsMoney(d decimal.Decimal) bool {
	return d.Equal(d.Round(MoneyPlaces))
}

func LineTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

func NewTransactionItem(productID int64, quantity int, unitPrice decimal.Decimal) TransactionItem {
	return TransactionItem{
		ProductID:  productID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		TotalPrice: LineTotal(quantity, unitPrice),
	}
}

// Reduce removes quantity units from the line and recomputes its total from
// the snapshotted unit price.
func (i *TransactionItem) Reduce(quantity int) {
	i.Quantity -= quantity
	i.TotalPrice = LineTotal(i.Quantity, i.UnitPrice)
}

func (i TransactionItem) Exhausted() bool {
	return i.Quantity <= 0
}

// SumTotals returns zero for an empty slice.
func SumTotals(items []TransactionItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.TotalPrice)
	}
	return total
}

// TransactionDetails is the read model behind the transaction detail view.
type TransactionDetails struct {
	Transaction
	CustomerName *string
	SupplierName *string
	Items        []TransactionItemDetails
}

type TransactionItemDetails struct {
	TransactionItem
	ProductName string
}

type TransactionSummary struct {
	Transaction
	CounterpartyName *string
}
