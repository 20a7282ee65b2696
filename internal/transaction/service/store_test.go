package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"stockroom/internal/domain"
	apperrors "stockroom/internal/errors"
)

var errInjected = errors.New("injected storage failure")

// memStore is an in-memory stand-in for the MySQL repositories. Do snapshots
// the state and restores it when the workflow fails, like a rollback.
type memStore struct {
	products     map[int64]domain.Product
	transactions map[int64]domain.Transaction
	items        map[int64]domain.TransactionItem
	movements    []domain.StockMovement

	nextID   int64
	locked   []int64
	failOn   string
	failFrom int
	calls    map[string]int
	doCalls  int
}

func newMemStore() *memStore {
	return &memStore{
		products:     map[int64]domain.Product{},
		transactions: map[int64]domain.Transaction{},
		items:        map[int64]domain.TransactionItem{},
		calls:        map[string]int{},
		nextID:       100,
	}
}

// seedProduct adds a product with stock and a matching opening entry.
func (m *memStore) seedProduct(id int64, stock int) {
	m.products[id] = domain.Product{ID: id, Name: fmt.Sprintf("P%d", id), StockQuantity: stock}
	if stock > 0 {
		m.movements = append(m.movements, domain.StockMovement{
			ProductID: id, Type: domain.MovementIn, Quantity: stock, Notes: domain.NoteInitialStock,
		})
	}
}

// failAt makes the n-th call (1-based) of op, and every later one, fail.
func (m *memStore) failAt(op string, n int) {
	m.failOn = op
	m.failFrom = n
}

func (m *memStore) hit(op string) error {
	m.calls[op]++
	if op == m.failOn && m.calls[op] >= m.failFrom {
		return errInjected
	}
	return nil
}

func (m *memStore) stock(id int64) int {
	return m.products[id].StockQuantity
}

func (m *memStore) ledger(id int64) int {
	var ms []domain.StockMovement
	for _, mv := range m.movements {
		if mv.ProductID == id {
			ms = append(ms, mv)
		}
	}
	return domain.LedgerBalance(ms)
}

func (m *memStore) itemsOf(transactionID int64) []domain.TransactionItem {
	out := []domain.TransactionItem{}
	for _, item := range m.items {
		if item.TransactionID == transactionID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

func (m *memStore) Do(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	m.doCalls++
	m.locked = nil

	products := make(map[int64]domain.Product, len(m.products))
	for k, v := range m.products {
		products[k] = v
	}
	transactions := make(map[int64]domain.Transaction, len(m.transactions))
	for k, v := range m.transactions {
		transactions[k] = v
	}
	items := make(map[int64]domain.TransactionItem, len(m.items))
	for k, v := range m.items {
		items[k] = v
	}
	movements := append([]domain.StockMovement(nil), m.movements...)

	if err := fn(ctx, nil); err != nil {
		m.products, m.transactions, m.items, m.movements = products, transactions, items, movements
		return err
	}
	return nil
}

type memProducts struct{ *memStore }

func (m memProducts) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.Product, error) {
	if err := m.hit("product.find"); err != nil {
		return nil, err
	}
	p, ok := m.products[id]
	if !ok || p.IsDeleted {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("product with id %d not found", id))
	}
	m.locked = append(m.locked, id)
	return &p, nil
}

func (m memProducts) AdjustStock(ctx context.Context, tx *sql.Tx, id int64, delta int) error {
	if err := m.hit("product.adjust"); err != nil {
		return err
	}
	p, ok := m.products[id]
	if !ok || p.IsDeleted {
		return apperrors.NewNotFoundError(fmt.Sprintf("product with id %d not found", id))
	}
	if p.StockQuantity+delta < 0 {
		return apperrors.NewInvalidStateError("stock cannot go below zero")
	}
	p.StockQuantity += delta
	m.products[id] = p
	return nil
}

type memMovements struct{ *memStore }

func (m memMovements) Record(ctx context.Context, tx *sql.Tx, mv domain.StockMovement) (int64, error) {
	if err := mv.Validate(); err != nil {
		return 0, err
	}
	if err := m.hit("movement.record"); err != nil {
		return 0, err
	}
	m.nextID++
	mv.ID = m.nextID
	if mv.ReferenceID != nil {
		ref := *mv.ReferenceID
		mv.ReferenceID = &ref
	}
	m.movements = append(m.movements, mv)
	return mv.ID, nil
}

type memTransactions struct{ *memStore }

func (m memTransactions) Insert(ctx context.Context, tx *sql.Tx, t domain.Transaction) (int64, error) {
	if err := m.hit("transaction.insert"); err != nil {
		return 0, err
	}
	m.nextID++
	t.ID = m.nextID
	m.transactions[t.ID] = t
	return t.ID, nil
}

func (m memTransactions) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.Transaction, error) {
	t, ok := m.transactions[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("transaction with id %d not found", id))
	}
	return &t, nil
}

func (m memTransactions) UpdateTotalAmount(ctx context.Context, tx *sql.Tx, id int64, total decimal.Decimal) error {
	if err := m.hit("transaction.total"); err != nil {
		return err
	}
	t := m.transactions[id]
	t.TotalAmount = total
	m.transactions[id] = t
	return nil
}

func (m memTransactions) Delete(ctx context.Context, tx *sql.Tx, id int64) error {
	if err := m.hit("transaction.delete"); err != nil {
		return err
	}
	if _, ok := m.transactions[id]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("transaction with id %d not found", id))
	}
	delete(m.transactions, id)
	return nil
}

func (m memTransactions) FindDetails(ctx context.Context, id int64) (*domain.TransactionDetails, error) {
	t, ok := m.transactions[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("transaction with id %d not found", id))
	}
	details := &domain.TransactionDetails{Transaction: t, Items: []domain.TransactionItemDetails{}}
	for _, item := range m.itemsOf(id) {
		details.Items = append(details.Items, domain.TransactionItemDetails{
			TransactionItem: item, ProductName: m.products[item.ProductID].Name,
		})
	}
	return details, nil
}

func (m memTransactions) List(ctx context.Context, txType *domain.TransactionType) ([]domain.TransactionSummary, error) {
	out := []domain.TransactionSummary{}
	for _, t := range m.transactions {
		if txType == nil || t.Type == *txType {
			out = append(out, domain.TransactionSummary{Transaction: t})
		}
	}
	return out, nil
}

type memItems struct{ *memStore }

func (m memItems) Insert(ctx context.Context, tx *sql.Tx, item domain.TransactionItem) (int64, error) {
	if err := m.hit("item.insert"); err != nil {
		return 0, err
	}
	for _, existing := range m.items {
		if existing.TransactionID == item.TransactionID && existing.ProductID == item.ProductID {
			return 0, errors.New("duplicate (transaction_id, product_id)")
		}
	}
	m.nextID++
	item.ID = m.nextID
	m.items[item.ID] = item
	return item.ID, nil
}

func (m memItems) FindByTransaction(ctx context.Context, tx *sql.Tx, transactionID int64) ([]domain.TransactionItem, error) {
	return m.itemsOf(transactionID), nil
}

func (m memItems) FindByTransactionAndProductForUpdate(ctx context.Context, tx *sql.Tx, transactionID, productID int64) (*domain.TransactionItem, error) {
	for _, item := range m.items {
		if item.TransactionID == transactionID && item.ProductID == productID {
			return &item, nil
		}
	}
	return nil, apperrors.NewNotFoundError("item not found")
}

func (m memItems) Update(ctx context.Context, tx *sql.Tx, item domain.TransactionItem) error {
	if err := m.hit("item.update"); err != nil {
		return err
	}
	m.items[item.ID] = item
	return nil
}

func (m memItems) Delete(ctx context.Context, tx *sql.Tx, id int64) error {
	if err := m.hit("item.delete"); err != nil {
		return err
	}
	delete(m.items, id)
	return nil
}

func (m memItems) DeleteByTransaction(ctx context.Context, tx *sql.Tx, transactionID int64) error {
	if err := m.hit("item.deleteAll"); err != nil {
		return err
	}
	for id, item := range m.items {
		if item.TransactionID == transactionID {
			delete(m.items, id)
		}
	}
	return nil
}

func (m memItems) SumTotals(ctx context.Context, tx *sql.Tx, transactionID int64) (decimal.Decimal, error) {
	return domain.SumTotals(m.itemsOf(transactionID)), nil
}
