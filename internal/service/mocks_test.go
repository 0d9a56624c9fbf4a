package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Zeeion12/Gudang-Hoda-Plafon/internal/model"
	"github.com/Zeeion12/Gudang-Hoda-Plafon/internal/repository"

	"github.com/google/uuid"
)

// memDB is an in-memory stand-in for the postgres-backed repositories.
// All repository calls take the store mutex; transactions additionally
// serialize on txMu and restore a snapshot when the callback fails, so the
// all-or-nothing behavior of the real transaction manager is preserved.
type memDB struct {
	mu           sync.Mutex
	txMu         sync.Mutex
	products     map[uuid.UUID]model.Product
	transactions []model.Transaction
	clock        time.Time

	failTxCreate    error
	failStockUpdate error
}

func newMemDB() *memDB {
	return &memDB{
		products: make(map[uuid.UUID]model.Product),
		clock:    time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC),
	}
}

func (d *memDB) tick() time.Time {
	d.clock = d.clock.Add(time.Second)
	return d.clock
}

func (d *memDB) addProduct(p model.Product) uuid.UUID {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = d.tick()
	d.products[p.ID] = p
	return p.ID
}

func (d *memDB) stockOf(id uuid.UUID) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.products[id].CurrentStock
}

func (d *memDB) ledgerLen() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.transactions)
}

func (d *memDB) snapshot() ([]model.Transaction, map[uuid.UUID]model.Product) {
	txs := make([]model.Transaction, len(d.transactions))
	copy(txs, d.transactions)
	products := make(map[uuid.UUID]model.Product, len(d.products))
	for id, p := range d.products {
		products[id] = p
	}
	return txs, products
}

// --- ProductRepository ---

type memProductRepo struct{ db *memDB }

func (r *memProductRepo) Create(ctx context.Context, product *model.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	product.CreatedAt = r.db.tick()
	r.db.products[product.ID] = *product
	return nil
}

func (r *memProductRepo) FindAll(ctx context.Context, category string) ([]model.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []model.Product
	for _, p := range r.db.products {
		if category == "" || p.Category == category {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := p
	return &cp, nil
}

func (r *memProductRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return r.FindByID(ctx, id)
}

func (r *memProductRepo) FindByCode(ctx context.Context, code string) (*model.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, p := range r.db.products {
		if p.Code == code {
			cp := p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memProductRepo) Update(ctx context.Context, product *model.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.products[product.ID]; !ok {
		return repository.ErrNotFound
	}
	r.db.products[product.ID] = *product
	return nil
}

func (r *memProductRepo) UpdateStock(ctx context.Context, id uuid.UUID, newStock int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.failStockUpdate != nil {
		return r.db.failStockUpdate
	}
	p, ok := r.db.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.CurrentStock = newStock
	r.db.products[id] = p
	return nil
}

func (r *memProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.products, id)
	return nil
}

func (r *memProductRepo) Categories(ctx context.Context) ([]string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, p := range r.db.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *memProductRepo) GetCatalogStats(ctx context.Context) (*repository.CatalogStats, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stats := &repository.CatalogStats{}
	for _, p := range r.db.products {
		stats.TotalProducts++
		if p.CurrentStock == 0 {
			stats.OutOfStock++
		} else if p.CurrentStock <= p.MinStock {
			stats.LowStockCount++
		}
		if p.LastBuyPrice != nil {
			stats.TotalValuation += int64(p.CurrentStock) * *p.LastBuyPrice
		}
	}
	return stats, nil
}

// --- TransactionRepository ---

type memTransactionRepo struct{ db *memDB }

func (r *memTransactionRepo) Create(ctx context.Context, tx *model.Transaction) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.failTxCreate != nil {
		return r.db.failTxCreate
	}
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	tx.CreatedAt = r.db.tick()
	r.db.transactions = append(r.db.transactions, *tx)
	return nil
}

func (r *memTransactionRepo) list(filter func(model.Transaction) bool) []model.Transaction {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []model.Transaction
	for _, tx := range r.db.transactions {
		if filter(tx) {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].TransactionDate.Equal(out[j].TransactionDate) {
			return out[i].TransactionDate.After(out[j].TransactionDate)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *memTransactionRepo) FindAll(ctx context.Context) ([]model.Transaction, error) {
	return r.list(func(model.Transaction) bool { return true }), nil
}

func (r *memTransactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, tx := range r.db.transactions {
		if tx.ID == id {
			cp := tx
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memTransactionRepo) FindByProduct(ctx context.Context, productID uuid.UUID) ([]model.Transaction, error) {
	return r.list(func(tx model.Transaction) bool { return tx.ProductID == productID }), nil
}

func (r *memTransactionRepo) FindByDateRange(ctx context.Context, from, to time.Time) ([]model.Transaction, error) {
	return r.list(func(tx model.Transaction) bool {
		return !tx.TransactionDate.Before(from) && !tx.TransactionDate.After(to)
	}), nil
}

func (r *memTransactionRepo) FindByType(ctx context.Context, txType model.TransactionType) ([]model.Transaction, error) {
	return r.list(func(tx model.Transaction) bool { return tx.Type == txType }), nil
}

func (r *memTransactionRepo) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	return int64(len(r.list(func(tx model.Transaction) bool { return tx.ProductID == productID }))), nil
}

func (r *memTransactionRepo) CountByTypeSince(ctx context.Context, txType model.TransactionType, since time.Time) (int64, error) {
	return int64(len(r.list(func(tx model.Transaction) bool {
		return tx.Type == txType && !tx.CreatedAt.Before(since)
	}))), nil
}

func (r *memTransactionRepo) GetStockMovement(ctx context.Context, from, to time.Time) ([]repository.StockMovementData, error) {
	byDate := map[string]*repository.StockMovementData{}
	for _, tx := range r.list(func(model.Transaction) bool { return true }) {
		if tx.TransactionDate.Before(from) || tx.TransactionDate.After(to) {
			continue
		}
		key := tx.TransactionDate.Format("2006-01-02")
		data, ok := byDate[key]
		if !ok {
			data = &repository.StockMovementData{Date: key}
			byDate[key] = data
		}
		if tx.Type == model.TxIn {
			data.Inbound += tx.Quantity
		} else {
			data.Outbound += tx.Quantity
		}
	}
	var out []repository.StockMovementData
	for _, data := range byDate {
		out = append(out, *data)
	}
	sort.Slice(out, func(i, j int) bool { return strings.Compare(out[i].Date, out[j].Date) < 0 })
	return out, nil
}

func (r *memTransactionRepo) GetTotals(ctx context.Context, from, to time.Time) (*repository.TransactionTotals, error) {
	totals := &repository.TransactionTotals{}
	entries, _ := r.FindByDateRange(ctx, from, to)
	for _, tx := range entries {
		if tx.Type == model.TxIn {
			totals.InCount++
			totals.InQuantity += int64(tx.Quantity)
			totals.InValue += tx.TotalPrice
		} else {
			totals.OutCount++
			totals.OutQuantity += int64(tx.Quantity)
			totals.OutValue += tx.TotalPrice
		}
	}
	return totals, nil
}

// --- TransactionManager ---

type memTxRepos struct {
	products     *memProductRepo
	transactions *memTransactionRepo
}

func (r *memTxRepos) Products() repository.ProductRepository         { return r.products }
func (r *memTxRepos) Transactions() repository.TransactionRepository { return r.transactions }

type memTxManager struct{ db *memDB }

func (tm *memTxManager) WithinTx(ctx context.Context, fn func(r repository.TxRepos) error) error {
	tm.db.txMu.Lock()
	defer tm.db.txMu.Unlock()

	tm.db.mu.Lock()
	txSnap, productSnap := tm.db.snapshot()
	tm.db.mu.Unlock()

	err := fn(&memTxRepos{
		products:     &memProductRepo{db: tm.db},
		transactions: &memTransactionRepo{db: tm.db},
	})
	if err != nil {
		tm.db.mu.Lock()
		tm.db.transactions = txSnap
		tm.db.products = productSnap
		tm.db.mu.Unlock()
	}
	return err
}
