package respond

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"stockroom/internal/dto"
	apperrors "stockroom/internal/errors"
)

func JSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

// Error writes the response for err. Every error keeps its message, cause
// included, so a storage failure reaches the caller as the store reported it.
func Error(w http.ResponseWriter, logger *zap.Logger, traceID string, err error) {
	resp := dto.ErrorResponse{
		TraceID:   traceID,
		Message:   err.Error(),
		Timestamp: time.Now().UTC(),
	}

	if ve, ok := apperrors.IsValidationError(err); ok {
		resp.Status, resp.Code, resp.Details = http.StatusBadRequest, "VALIDATION_ERROR", ve.Details
	} else if ise, ok := apperrors.IsInsufficientStockError(err); ok {
		resp.Status, resp.Code = http.StatusUnprocessableEntity, "INSUFFICIENT_STOCK"
		resp.Stock = &dto.InsufficientStockDetails{
			ProductID: ise.ProductID,
			Requested: ise.Requested,
			Available: ise.Available,
		}
	} else if _, ok := apperrors.IsNotFoundError(err); ok {
		resp.Status, resp.Code = http.StatusNotFound, "NOT_FOUND"
	} else if _, ok := apperrors.IsConflictError(err); ok {
		resp.Status, resp.Code = http.StatusConflict, "CONFLICT"
	} else if _, ok := apperrors.IsInvalidStateError(err); ok {
		resp.Status, resp.Code = http.StatusConflict, "INVALID_STATE"
	} else if se, ok := apperrors.IsStorageError(err); ok && se.Retryable {
		logger.Warn("retryable storage failure", zap.Error(err))
		resp.Status, resp.Code = http.StatusConflict, "DEADLOCK"
		resp.Message = "the request conflicted with another write, please retry"
	} else {
		logger.Error("unexpected error", zap.Error(err))
		resp.Status, resp.Code = http.StatusInternalServerError, "STORAGE_FAILURE"
	}

	JSON(w, logger, resp.Status, resp)
}

// Decode reads a JSON body into dst, returning a ValidationError on malformed
// input.
func Decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.NewValidationError("invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
	}
	return nil
}

// PathID parses a positive integer URL parameter.
func PathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid "+name, apperrors.ValidationDetail{
			Field:   name,
			Message: name + " must be a positive integer",
		})
	}
	return id, nil
}

// QueryID parses an optional positive integer query parameter.
func QueryID(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, apperrors.NewValidationError("invalid "+name, apperrors.ValidationDetail{
			Field:   name,
			Message: name + " must be a positive integer",
		})
	}
	return &id, nil
}
