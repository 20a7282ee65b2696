package errors

import (
	stderrors "errors"
	"fmt"
)

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if stderrors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	var nf *NotFoundError
	if stderrors.As(err, &nf) {
		return nf, true
	}
	return nil, false
}

// ConflictError reports a write rejected because of existing rows, such as a
// duplicate unique name or a delete of a still referenced entity.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

func IsConflictError(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if stderrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

type InsufficientStockError struct {
	ProductID int64
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d", e.ProductID, e.Requested, e.Available)
}

func NewInsufficientStockError(productID int64, requested, available int) *InsufficientStockError {
	return &InsufficientStockError{
		ProductID: productID,
		Requested: requested,
		Available: available,
	}
}

func IsInsufficientStockError(err error) (*InsufficientStockError, bool) {
	var ise *InsufficientStockError
	if stderrors.As(err, &ise) {
		return ise, true
	}
	return nil, false
}

// InvalidStateError is returned when a write would drive stock below zero.
type InvalidStateError struct {
	Message string
}

func (e *InvalidStateError) Error() string {
	return e.Message
}

func NewInvalidStateError(message string) *InvalidStateError {
	return &InvalidStateError{Message: message}
}

func IsInvalidStateError(err error) (*InvalidStateError, bool) {
	var ise *InvalidStateError
	if stderrors.As(err, &ise) {
		return ise, true
	}
	return nil, false
}

// StorageError wraps a failure of the underlying store. Retryable is set for
// deadlocks and lock wait timeouts; callers decide whether to resubmit.
type StorageError struct {
	Message   string
	Cause     error
	Retryable bool
}

func (e *StorageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

func NewStorageError(message string, cause error) *StorageError {
	return &StorageError{
		Message: message,
		Cause:   cause,
	}
}

func NewRetryableStorageError(message string, cause error) *StorageError {
	return &StorageError{
		Message:   message,
		Cause:     cause,
		Retryable: true,
	}
}

func IsStorageError(err error) (*StorageError, bool) {
	var se *StorageError
	if stderrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsDomainError reports whether err is one of the typed errors above, as
// opposed to a raw driver or transport error.
func IsDomainError(err error) bool {
	if _, ok := IsValidationError(err); ok {
		return true
	}
	if _, ok := IsNotFoundError(err); ok {
		return true
	}
	if _, ok := IsConflictError(err); ok {
		return true
	}
	if _, ok := IsInsufficientStockError(err); ok {
		return true
	}
	if _, ok := IsInvalidStateError(err); ok {
		return true
	}
	if _, ok := IsStorageError(err); ok {
		return true
	}
	return false
}
