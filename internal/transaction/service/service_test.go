package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stockroom/internal/domain"
	"stockroom/internal/dto"
	apperrors "stockroom/internal/errors"
)

func newTestService(store *memStore) *TransactionService {
	return NewTransactionService(
		store,
		memProducts{store},
		memMovements{store},
		memTransactions{store},
		memItems{store},
		zap.NewNop(),
	)
}

func line(productID int64, quantity int, price int64) dto.LineItemRequest {
	return dto.LineItemRequest{ProductID: productID, Quantity: quantity, UnitPrice: decimal.NewFromInt(price)}
}

func sale(items ...dto.LineItemRequest) dto.TransactionDraft {
	return dto.TransactionDraft{Type: domain.TransactionTypeSale, ReferenceNumber: "INV-1", Items: items}
}

func purchase(items ...dto.LineItemRequest) dto.TransactionDraft {
	return dto.TransactionDraft{Type: domain.TransactionTypePurchase, ReferenceNumber: "PO-1", Items: items}
}

func assertLedgerMatchesStock(t *testing.T, store *memStore) {
	t.Helper()
	for id := range store.products {
		assert.Equal(t, store.stock(id), store.ledger(id), "ledger balance of product %d", id)
	}
}

func assertTotalsMatchItems(t *testing.T, store *memStore) {
	t.Helper()
	for id, tr := range store.transactions {
		assert.True(t, domain.SumTotals(store.itemsOf(id)).Equal(tr.TotalAmount), "total of transaction %d", id)
	}
}

func TestSaleReturnLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.seedProduct(1, 10)
	svc := newTestService(store)

	result, err := svc.Record(ctx, sale(line(1, 3, 5)))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(15).Equal(result.TotalAmount))
	assert.Equal(t, 7, store.stock(1))
	require.Len(t, result.Items, 1)
	assert.NotZero(t, result.Items[0].ID)

	last := store.movements[len(store.movements)-1]
	assert.Equal(t, domain.MovementOut, last.Type)
	assert.Equal(t, 3, last.Quantity)
	require.NotNil(t, last.ReferenceID)
	assert.Equal(t, result.TransactionID, *last.ReferenceID)
	assert.Equal(t, domain.NoteSale, last.Notes)

	ret, err := svc.ReturnItem(ctx, dto.ReturnItemRequest{TransactionID: result.TransactionID, ProductID: 1, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, ret.NewQuantity)
	assert.True(t, decimal.NewFromInt(10).Equal(ret.NewTotalAmount))
	assert.Equal(t, 8, store.stock(1))
	items := store.itemsOf(result.TransactionID)
	require.Len(t, items, 1)
	assert.True(t, decimal.NewFromInt(10).Equal(items[0].TotalPrice))

	last = store.movements[len(store.movements)-1]
	assert.Equal(t, domain.MovementIn, last.Type)
	assert.Equal(t, 1, last.Quantity)
	assert.Equal(t, domain.NoteReturn, last.Notes)

	ret, err = svc.ReturnItem(ctx, dto.ReturnItemRequest{TransactionID: result.TransactionID, ProductID: 1, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 0, ret.NewQuantity)
	assert.True(t, ret.NewTotalAmount.IsZero())
	assert.Equal(t, 10, store.stock(1))
	assert.Empty(t, store.itemsOf(result.TransactionID))

	// The emptied transaction stays in place.
	tr, ok := store.transactions[result.TransactionID]
	require.True(t, ok)
	assert.True(t, tr.TotalAmount.IsZero())

	assertLedgerMatchesStock(t, store)
	assertTotalsMatchItems(t, store)
}

func TestRecord_InsufficientStockWritesNothing(t *testing.T) {
	store := newMemStore()
	store.seedProduct(1, 10)
	store.seedProduct(2, 2)
	svc := newTestService(store)
	movementsBefore := len(store.movements)

	_, err := svc.Record(context.Background(), sale(line(1, 1, 3), line(2, 5, 1)))

	ise, ok := apperrors.IsInsufficientStockError(err)
	require.True(t, ok)
	assert.Equal(t, int64(2), ise.ProductID)
	assert.Equal(t, 5, ise.Requested)
	assert.Equal(t, 2, ise.Available)

	assert.Equal(t, 10, store.stock(1))
	assert.Equal(t, 2, store.stock(2))
	assert.Empty(t, store.transactions)
	assert.Empty(t, store.items)
	assert.Len(t, store.movements, movementsBefore)
	assert.Zero(t, store.calls["transaction.insert"])
}

func TestRecord_LocksProductsInAscendingOrder(t *testing.T) {
	store := newMemStore()
	store.seedProduct(1, 5)
	store.seedProduct(2, 5)
	store.seedProduct(3, 5)
	svc := newTestService(store)

	result, err := svc.Record(context.Background(), sale(line(3, 1, 1), line(1, 1, 1), line(2, 1, 1)))
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2, 3}, store.locked)
	// Line items keep the order of the request.
	assert.Equal(t, int64(3), result.Items[0].ProductID)
	assert.Equal(t, int64(1), result.Items[1].ProductID)
}

func TestRecord_MidWayFailureRollsBackEverything(t *testing.T) {
	tests := []struct {
		name string
		op   string
		call int
	}{
		{"second ledger entry", "movement.record", 2},
		{"second item insert", "item.insert", 2},
		{"first stock adjustment", "product.adjust", 1},
		{"transaction insert", "transaction.insert", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			store.seedProduct(1, 10)
			store.seedProduct(2, 10)
			movementsBefore := len(store.movements)
			store.failAt(tt.op, tt.call)
			svc := newTestService(store)

			_, err := svc.Record(context.Background(), sale(line(1, 2, 4), line(2, 3, 1)))

			assert.ErrorIs(t, err, errInjected)
			assert.Equal(t, 10, store.stock(1))
			assert.Equal(t, 10, store.stock(2))
			assert.Empty(t, store.transactions)
			assert.Empty(t, store.items)
			assert.Len(t, store.movements, movementsBefore)
		})
	}
}

func TestRecord_UnknownProduct(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	_, err := svc.Record(context.Background(), sale(line(42, 1, 1)))

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
	assert.Empty(t, store.transactions)
}

func TestRecord_EmptyCart(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	_, err := svc.Record(context.Background(), sale())

	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
	assert.Zero(t, store.doCalls)
}

func TestRecord_SubCentPriceWritesNothing(t *testing.T) {
	store := newMemStore()
	store.seedProduct(1, 10)
	store.seedProduct(2, 10)
	svc := newTestService(store)

	third := decimal.RequireFromString("0.333")
	_, err := svc.Record(context.Background(), sale(
		dto.LineItemRequest{ProductID: 1, Quantity: 1, UnitPrice: third},
		dto.LineItemRequest{ProductID: 2, Quantity: 1, UnitPrice: third},
	))

	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "items[0].unit_price", ve.Details[0].Field)
	assert.Zero(t, store.doCalls)
	assert.Equal(t, 10, store.stock(1))
}

func TestRecord_CentPricesKeepStoredTotalsConsistent(t *testing.T) {
	store := newMemStore()
	store.seedProduct(1, 10)
	store.seedProduct(2, 10)
	svc := newTestService(store)

	res, err := svc.Record(context.Background(), sale(
		dto.LineItemRequest{ProductID: 1, Quantity: 3, UnitPrice: decimal.RequireFromString("0.33")},
		dto.LineItemRequest{ProductID: 2, Quantity: 1, UnitPrice: decimal.RequireFromString("0.34")},
	))
	require.NoError(t, err)

	// Every amount must survive the two-place columns unchanged.
	assert.True(t, res.TotalAmount.Equal(res.TotalAmount.Round(domain.MoneyPlaces)))
	for _, item := range res.Items {
		assert.True(t, item.TotalPrice.Equal(item.TotalPrice.Round(domain.MoneyPlaces)))
	}
	assert.Equal(t, "1.33", res.TotalAmount.StringFixed(2))
	assertTotalsMatchItems(t, store)
}

func TestRecord_PurchaseAddsStock(t *testing.T) {
	store := newMemStore()
	store.seedProduct(1, 0)
	svc := newTestService(store)

	result, err := svc.Record(context.Background(), purchase(line(1, 12, 2)))
	require.NoError(t, err)

	assert.Equal(t, 12, store.stock(1))
	assert.True(t, decimal.NewFromInt(24).Equal(result.TotalAmount))
	last := store.movements[len(store.movements)-1]
	assert.Equal(t, domain.MovementIn, last.Type)
	assert.Equal(t, domain.NotePurchase, last.Notes)
	assertLedgerMatchesStock(t, store)
}

func TestDelete_RestoresStock(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.seedProduct(1, 10)
	store.seedProduct(2, 4)
	svc := newTestService(store)

	result, err := svc.Record(ctx, sale(line(1, 3, 5), line(2, 4, 1)))
	require.NoError(t, err)
	assert.Equal(t, 0, store.stock(2))

	require.NoError(t, svc.Delete(ctx, result.TransactionID))

	assert.Equal(t, 10, store.stock(1))
	assert.Equal(t, 4, store.stock(2))
	assert.Empty(t, store.transactions)
	assert.Empty(t, store.items)

	last := store.movements[len(store.movements)-1]
	assert.Equal(t, domain.MovementIn, last.Type)
	assert.Equal(t, domain.NoteDeletionReversal, last.Notes)
	require.NotNil(t, last.ReferenceID)
	assert.Equal(t, result.TransactionID, *last.ReferenceID)
	assertLedgerMatchesStock(t, store)
}

func TestDelete_NotFound(t *testing.T) {
	svc := newTestService(newMemStore())

	err := svc.Delete(context.Background(), 999)

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestDelete_ConsumedPurchaseIsRejected(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.seedProduct(1, 0)
	svc := newTestService(store)

	bought, err := svc.Record(ctx, purchase(line(1, 5, 2)))
	require.NoError(t, err)
	_, err = svc.Record(ctx, sale(line(1, 4, 3)))
	require.NoError(t, err)

	err = svc.Delete(ctx, bought.TransactionID)

	_, ok := apperrors.IsInvalidStateError(err)
	assert.True(t, ok)
	assert.Equal(t, 1, store.stock(1))
	assert.Contains(t, store.transactions, bought.TransactionID)
	assertLedgerMatchesStock(t, store)
}

func TestDelete_FailureKeepsTransaction(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.seedProduct(1, 10)
	svc := newTestService(store)

	result, err := svc.Record(ctx, sale(line(1, 3, 5)))
	require.NoError(t, err)

	store.failAt("transaction.delete", 1)
	err = svc.Delete(ctx, result.TransactionID)

	assert.ErrorIs(t, err, errInjected)
	assert.Equal(t, 7, store.stock(1))
	assert.Len(t, store.itemsOf(result.TransactionID), 1)
	assertLedgerMatchesStock(t, store)
}

func TestReturnItem_Errors(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.seedProduct(1, 10)
	store.seedProduct(2, 10)
	svc := newTestService(store)

	result, err := svc.Record(ctx, sale(line(1, 3, 5)))
	require.NoError(t, err)

	_, err = svc.ReturnItem(ctx, dto.ReturnItemRequest{TransactionID: result.TransactionID, ProductID: 1, Quantity: 4})
	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "quantity", ve.Details[0].Field)

	_, err = svc.ReturnItem(ctx, dto.ReturnItemRequest{TransactionID: result.TransactionID, ProductID: 1, Quantity: 0})
	_, ok = apperrors.IsValidationError(err)
	assert.True(t, ok)

	_, err = svc.ReturnItem(ctx, dto.ReturnItemRequest{TransactionID: result.TransactionID, ProductID: 2, Quantity: 1})
	_, ok = apperrors.IsNotFoundError(err)
	assert.True(t, ok)

	_, err = svc.ReturnItem(ctx, dto.ReturnItemRequest{TransactionID: 999, ProductID: 1, Quantity: 1})
	_, ok = apperrors.IsNotFoundError(err)
	assert.True(t, ok)

	assert.Equal(t, 7, store.stock(1))
	assertLedgerMatchesStock(t, store)
	assertTotalsMatchItems(t, store)
}

func TestReturnItem_FailureRollsBack(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.seedProduct(1, 10)
	svc := newTestService(store)

	result, err := svc.Record(ctx, sale(line(1, 3, 5)))
	require.NoError(t, err)

	store.failAt("movement.record", store.calls["movement.record"]+1)
	_, err = svc.ReturnItem(ctx, dto.ReturnItemRequest{TransactionID: result.TransactionID, ProductID: 1, Quantity: 3})

	assert.ErrorIs(t, err, errInjected)
	assert.Equal(t, 7, store.stock(1))
	require.Len(t, store.itemsOf(result.TransactionID), 1)
	assert.True(t, decimal.NewFromInt(15).Equal(store.transactions[result.TransactionID].TotalAmount))
}

func TestReturnItem_FullQuantityReducesTotalByLine(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.seedProduct(1, 10)
	store.seedProduct(2, 10)
	svc := newTestService(store)

	result, err := svc.Record(ctx, sale(line(1, 3, 5), line(2, 2, 7)))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(29).Equal(result.TotalAmount))

	ret, err := svc.ReturnItem(ctx, dto.ReturnItemRequest{TransactionID: result.TransactionID, ProductID: 2, Quantity: 2})
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(15).Equal(ret.NewTotalAmount))
	assert.Len(t, store.itemsOf(result.TransactionID), 1)
	assert.Equal(t, 10, store.stock(2))
	assertTotalsMatchItems(t, store)
}

func TestDetails_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.seedProduct(1, 10)
	svc := newTestService(store)

	result, err := svc.Record(ctx, sale(line(1, 3, 5)))
	require.NoError(t, err)

	first, err := svc.Details(ctx, result.TransactionID)
	require.NoError(t, err)
	second, err := svc.Details(ctx, result.TransactionID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
