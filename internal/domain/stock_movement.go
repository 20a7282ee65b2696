package domain

import (
	"math"
	"time"

	apperrors "stockroom/internal/errors"
)

// MaxQuantity is the largest quantity a stock column can hold.
const MaxQuantity = math.MaxInt32

// MovementType encodes the direction of a ledger entry. Quantities are always
// positive; the sign comes from the type.
type MovementType string

const (
	MovementIn            MovementType = "in"
	MovementOut           MovementType = "out"
	MovementAdjustmentIn  MovementType = "adjustment-in"
	MovementAdjustmentOut MovementType = "adjustment-out"
)

const (
	NoteSale             = "sale"
	NotePurchase         = "purchase"
	NoteReturn           = "return"
	NoteDeletionReversal = "deletion reversal"
	NoteInitialStock     = "initial stock"
	NoteProductEdit      = "product edit"
)

func (m MovementType) Valid() bool {
	switch m {
	case MovementIn, MovementOut, MovementAdjustmentIn, MovementAdjustmentOut:
		return true
	}
	return false
}

func (m MovementType) IsAdjustment() bool {
	return m == MovementAdjustmentIn || m == MovementAdjustmentOut
}

// Sign is +1 for movements that add stock and -1 for those that remove it.
func (m MovementType) Sign() int {
	if m == MovementOut || m == MovementAdjustmentOut {
		return -1
	}
	return 1
}

// Delta converts a positive ledger quantity into the signed stock change.
func (m MovementType) Delta(quantity int) int {
	return m.Sign() * quantity
}

// Reverse returns the movement type that offsets m.
func (m MovementType) Reverse() MovementType {
	switch m {
	case MovementIn:
		return MovementOut
	case MovementOut:
		return MovementIn
	case MovementAdjustmentIn:
		return MovementAdjustmentOut
	case MovementAdjustmentOut:
		return MovementAdjustmentIn
	}
	return m
}

// AdjustmentFor picks the adjustment type that moves stock by delta.
func AdjustmentFor(delta int) (MovementType, int) {
	if delta < 0 {
		return MovementAdjustmentOut, -delta
	}
	return MovementAdjustmentIn, delta
}

type StockMovement struct {
	ID          int64
	ProductID   int64
	Type        MovementType
	Quantity    int
	ReferenceID *int64
	Notes       string
	CreatedAt   time.Time
}

func (m StockMovement) Validate() error {
	var details []apperrors.ValidationDetail
	if m.ProductID <= 0 {
		details = append(details, apperrors.ValidationDetail{Field: "product_id", Message: "product_id must be a positive integer"})
	}
	if !m.Type.Valid() {
		details = append(details, apperrors.ValidationDetail{Field: "movement_type", Message: "movement_type must be one of in, out, adjustment-in, adjustment-out"})
	}
	if m.Quantity <= 0 {
		details = append(details, apperrors.ValidationDetail{Field: "quantity", Message: "quantity must be a positive integer"})
	} else if m.Quantity > MaxQuantity {
		details = append(details, apperrors.ValidationDetail{Field: "quantity", Message: "quantity exceeds the maximum stock level"})
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid stock movement", details...)
	}
	return nil
}

// Delta is the signed effect of the movement on stock_quantity.
func (m StockMovement) Delta() int {
	return m.Type.Delta(m.Quantity)
}

// LedgerBalance sums the signed effect of movements.
func LedgerBalance(movements []StockMovement) int {
	balance := 0
	for _, m := range movements {
		balance += m.Delta()
	}
	return balance
}
