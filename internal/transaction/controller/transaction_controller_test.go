package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stockroom/internal/dto"
	apperrors "stockroom/internal/errors"
)

type mockTransactionUseCase struct {
	RecordSaleFunc            func(ctx context.Context, req dto.RecordSaleRequest) (*dto.RecordTransactionResponse, error)
	RecordPurchaseFunc        func(ctx context.Context, req dto.RecordPurchaseRequest) (*dto.RecordTransactionResponse, error)
	ReturnItemFunc            func(ctx context.Context, req dto.ReturnItemRequest) (*dto.ReturnItemResponse, error)
	DeleteTransactionFunc     func(ctx context.Context, id int64) (*dto.SuccessResponse, error)
	GetTransactionDetailsFunc func(ctx context.Context, id int64) (*dto.TransactionDetailsResponse, error)
	ListTransactionsFunc      func(ctx context.Context, txType string) ([]dto.TransactionSummaryDTO, error)
}

func (m *mockTransactionUseCase) RecordSale(ctx context.Context, req dto.RecordSaleRequest) (*dto.RecordTransactionResponse, error) {
	return m.RecordSaleFunc(ctx, req)
}

func (m *mockTransactionUseCase) RecordPurchase(ctx context.Context, req dto.RecordPurchaseRequest) (*dto.RecordTransactionResponse, error) {
	return m.RecordPurchaseFunc(ctx, req)
}

func (m *mockTransactionUseCase) ReturnItem(ctx context.Context, req dto.ReturnItemRequest) (*dto.ReturnItemResponse, error) {
	return m.ReturnItemFunc(ctx, req)
}

func (m *mockTransactionUseCase) DeleteTransaction(ctx context.Context, id int64) (*dto.SuccessResponse, error) {
	return m.DeleteTransactionFunc(ctx, id)
}

func (m *mockTransactionUseCase) GetTransactionDetails(ctx context.Context, id int64) (*dto.TransactionDetailsResponse, error) {
	return m.GetTransactionDetailsFunc(ctx, id)
}

func (m *mockTransactionUseCase) ListTransactions(ctx context.Context, txType string) ([]dto.TransactionSummaryDTO, error) {
	return m.ListTransactionsFunc(ctx, txType)
}

func serve(uc TransactionUseCase, req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	NewTransactionController(uc, zap.NewNop()).RegisterRoutes(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRecordSale_Created(t *testing.T) {
	var got dto.RecordSaleRequest
	uc := &mockTransactionUseCase{
		RecordSaleFunc: func(ctx context.Context, req dto.RecordSaleRequest) (*dto.RecordTransactionResponse, error) {
			got = req
			return &dto.RecordTransactionResponse{ID: 1, Type: "sale", TotalAmount: decimal.NewFromInt(15), Items: []dto.TransactionItemDTO{}}, nil
		},
	}

	body := `{"reference_number": "INV-1", "items": [{"product_id": 1, "quantity": 3, "unit_price": 5}]}`
	rec := serve(uc, httptest.NewRequest(http.MethodPost, "/api/v1/sales", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, got.Items, 1)
	assert.True(t, decimal.NewFromInt(5).Equal(got.Items[0].UnitPrice))

	var resp dto.RecordTransactionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.ID)
}

func TestRecordSale_InsufficientStock(t *testing.T) {
	uc := &mockTransactionUseCase{
		RecordSaleFunc: func(ctx context.Context, req dto.RecordSaleRequest) (*dto.RecordTransactionResponse, error) {
			return nil, apperrors.NewInsufficientStockError(2, 5, 2)
		},
	}

	body := `{"items": [{"product_id": 2, "quantity": 5, "unit_price": 1}]}`
	rec := serve(uc, httptest.NewRequest(http.MethodPost, "/api/v1/sales", strings.NewReader(body)))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Stock)
	assert.Equal(t, 2, resp.Stock.Available)
}

func TestRecordSale_MalformedBody(t *testing.T) {
	rec := serve(&mockTransactionUseCase{}, httptest.NewRequest(http.MethodPost, "/api/v1/sales", strings.NewReader(`{"items":`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDetails_UnknownIsNull(t *testing.T) {
	uc := &mockTransactionUseCase{
		GetTransactionDetailsFunc: func(ctx context.Context, id int64) (*dto.TransactionDetailsResponse, error) {
			return nil, nil
		},
	}

	rec := serve(uc, httptest.NewRequest(http.MethodGet, "/api/v1/transactions/7", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))
}

func TestDetails_EmptyItemsIsArray(t *testing.T) {
	uc := &mockTransactionUseCase{
		GetTransactionDetailsFunc: func(ctx context.Context, id int64) (*dto.TransactionDetailsResponse, error) {
			return &dto.TransactionDetailsResponse{ID: id, Type: "sale", Items: []dto.TransactionItemDTO{}}, nil
		},
	}

	rec := serve(uc, httptest.NewRequest(http.MethodGet, "/api/v1/transactions/7", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []interface{}{}, body["items"])
}

func TestReturnItem_UsesPathTransaction(t *testing.T) {
	var got dto.ReturnItemRequest
	uc := &mockTransactionUseCase{
		ReturnItemFunc: func(ctx context.Context, req dto.ReturnItemRequest) (*dto.ReturnItemResponse, error) {
			got = req
			return &dto.ReturnItemResponse{Success: true, NewTotalAmount: decimal.NewFromInt(10), NewQuantity: 2}, nil
		},
	}

	rec := serve(uc, httptest.NewRequest(http.MethodPost, "/api/v1/transactions/4/returns",
		strings.NewReader(`{"product_id": 1, "quantity": 1}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, dto.ReturnItemRequest{TransactionID: 4, ProductID: 1, Quantity: 1}, got)
	assert.JSONEq(t, `{"success": true, "new_total_amount": "10", "new_quantity": 2}`, rec.Body.String())
}

func TestDelete_NotFound(t *testing.T) {
	uc := &mockTransactionUseCase{
		DeleteTransactionFunc: func(ctx context.Context, id int64) (*dto.SuccessResponse, error) {
			return nil, apperrors.NewNotFoundError("transaction with id 4 not found")
		},
	}

	rec := serve(uc, httptest.NewRequest(http.MethodDelete, "/api/v1/transactions/4", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestList_PassesType(t *testing.T) {
	var got string
	uc := &mockTransactionUseCase{
		ListTransactionsFunc: func(ctx context.Context, txType string) ([]dto.TransactionSummaryDTO, error) {
			got = txType
			return []dto.TransactionSummaryDTO{}, nil
		},
	}

	rec := serve(uc, httptest.NewRequest(http.MethodGet, "/api/v1/transactions?type=sale", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sale", got)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
