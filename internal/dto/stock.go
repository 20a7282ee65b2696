package dto

import (
	"time"

	"stockroom/internal/domain"
)

const (
	DefaultMovementLimit = 50
	MaxMovementLimit     = 500
)

type AdjustStockRequest struct {
	ProductID    int64  `json:"product_id"`
	Quantity     int    `json:"quantity"`
	MovementType string `json:"movement_type"`
	Notes        string `json:"notes"`
}

// Movement converts the request into the ledger entry it would append.
// Validation happens on the entry itself.
func (r AdjustStockRequest) Movement() domain.StockMovement {
	return domain.StockMovement{
		ProductID: r.ProductID,
		Type:      domain.MovementType(r.MovementType),
		Quantity:  r.Quantity,
		Notes:     r.Notes,
	}
}

type StockMovementDTO struct {
	ID           int64     `json:"id"`
	ProductID    int64     `json:"product_id"`
	MovementType string    `json:"movement_type"`
	Quantity     int       `json:"quantity"`
	ReferenceID  *int64    `json:"reference_id"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewStockMovementDTO(m domain.StockMovement) StockMovementDTO {
	return StockMovementDTO{
		ID:           m.ID,
		ProductID:    m.ProductID,
		MovementType: string(m.Type),
		Quantity:     m.Quantity,
		ReferenceID:  m.ReferenceID,
		Notes:        m.Notes,
		CreatedAt:    m.CreatedAt,
	}
}
