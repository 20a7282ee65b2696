package dto

import (
	"time"

	apperrors "stockroom/internal/errors"
)

type SuccessResponse struct {
	Success bool `json:"success"`
}

type ErrorResponse struct {
	TraceID   string                       `json:"traceId"`
	Status    int                          `json:"status"`
	Code      string                       `json:"code"`
	Message   string                       `json:"message"`
	Details   []apperrors.ValidationDetail `json:"details,omitempty"`
	Stock     *InsufficientStockDetails    `json:"stock,omitempty"`
	Timestamp time.Time                    `json:"timestamp"`
}

type InsufficientStockDetails struct {
	ProductID int64 `json:"product_id"`
	Requested int   `json:"requested"`
	Available int   `json:"available"`
}
