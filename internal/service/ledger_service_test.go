package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Zeeion12/Gudang-Hoda-Plafon/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newLedgerFixture() (*memDB, LedgerService) {
	db := newMemDB()
	svc := NewLedgerService(&memTxManager{db: db}, &memTransactionRepo{db: db}, nil, zap.NewNop())
	return db, svc
}

func seedProduct(db *memDB, stock, minStock int) uuid.UUID {
	return db.addProduct(model.Product{
		Code:         "PLF-001",
		Name:         "Plafon PVC Putih 6m",
		Category:     "Plafon PVC",
		Unit:         "batang",
		CurrentStock: stock,
		MinStock:     minStock,
	})
}

func txDate() time.Time {
	return time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
}

func TestSubmit_OutAndInFlow(t *testing.T) {
	ctx := context.Background()
	db, svc := newLedgerFixture()
	productID := seedProduct(db, 10, 5)

	// OUT 3 from 10: plenty left
	res, err := svc.Submit(ctx, SubmitInput{
		Type: model.TxOut, ProductID: productID, Quantity: 3, UnitPrice: 55000, Date: txDate(),
	})
	require.NoError(t, err)
	assert.Equal(t, 7, res.ResultingStock)
	assert.Equal(t, model.StockSafe, res.StockStatus)
	assert.Equal(t, int64(165000), res.Transaction.TotalPrice)

	// OUT 5 more: 2 left, at or below the reorder threshold
	res, err = svc.Submit(ctx, SubmitInput{
		Type: model.TxOut, ProductID: productID, Quantity: 5, UnitPrice: 55000, Date: txDate(),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.ResultingStock)
	assert.Equal(t, model.StockLow, res.StockStatus)

	// OUT the remaining 2: out of stock
	res, err = svc.Submit(ctx, SubmitInput{
		Type: model.TxOut, ProductID: productID, Quantity: 2, UnitPrice: 55000, Date: txDate(),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.ResultingStock)
	assert.Equal(t, model.StockOut, res.StockStatus)

	// OUT from zero stock must be rejected with the available/requested detail
	_, err = svc.Submit(ctx, SubmitInput{
		Type: model.TxOut, ProductID: productID, Quantity: 1, UnitPrice: 55000, Date: txDate(),
	})
	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 0, insufficient.Available)
	assert.Equal(t, 1, insufficient.Requested)
	assert.Equal(t, 0, db.stockOf(productID))

	// IN 20 restocks and snapshots the total price
	res, err = svc.Submit(ctx, SubmitInput{
		Type: model.TxIn, ProductID: productID, Quantity: 20, UnitPrice: 1000, Date: txDate(),
	})
	require.NoError(t, err)
	assert.Equal(t, 20, res.ResultingStock)
	assert.Equal(t, int64(20000), res.Transaction.TotalPrice)
	assert.Equal(t, model.StockSafe, res.StockStatus)
}

func TestSubmit_ValidationRejectsBeforeAnyWrite(t *testing.T) {
	ctx := context.Background()
	db, svc := newLedgerFixture()
	productID := seedProduct(db, 10, 5)

	longNotes := make([]byte, maxNotesLength+1)
	for i := range longNotes {
		longNotes[i] = 'a'
	}

	cases := []struct {
		name string
		in   SubmitInput
		want error
	}{
		{"zero quantity", SubmitInput{Type: model.TxIn, ProductID: productID, Quantity: 0, Date: txDate()}, ErrInvalidQuantity},
		{"negative quantity", SubmitInput{Type: model.TxOut, ProductID: productID, Quantity: -4, Date: txDate()}, ErrInvalidQuantity},
		{"negative price", SubmitInput{Type: model.TxIn, ProductID: productID, Quantity: 1, UnitPrice: -1, Date: txDate()}, ErrInvalidPrice},
		{"bad type", SubmitInput{Type: "TRANSFER", ProductID: productID, Quantity: 1, Date: txDate()}, ErrInvalidType},
		{"missing date", SubmitInput{Type: model.TxIn, ProductID: productID, Quantity: 1}, ErrInvalidDate},
		{"notes too long", SubmitInput{Type: model.TxIn, ProductID: productID, Quantity: 1, Date: txDate(), Notes: string(longNotes)}, ErrNotesTooLong},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Submit(ctx, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	assert.Equal(t, 0, db.ledgerLen(), "rejected submissions must not append ledger entries")
	assert.Equal(t, 10, db.stockOf(productID), "rejected submissions must not change stock")
}

func TestSubmit_UnknownProduct(t *testing.T) {
	_, svc := newLedgerFixture()

	_, err := svc.Submit(context.Background(), SubmitInput{
		Type: model.TxIn, ProductID: uuid.New(), Quantity: 1, Date: txDate(),
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestSubmit_StockWriteFailureRollsBackLedger(t *testing.T) {
	ctx := context.Background()
	db, svc := newLedgerFixture()
	productID := seedProduct(db, 10, 5)

	db.failStockUpdate = errors.New("connection reset")

	_, err := svc.Submit(ctx, SubmitInput{
		Type: model.TxIn, ProductID: productID, Quantity: 5, UnitPrice: 100, Date: txDate(),
	})
	require.Error(t, err)

	assert.Equal(t, 0, db.ledgerLen(), "ledger entry must roll back with the failed stock write")
	assert.Equal(t, 10, db.stockOf(productID))
}

func TestSubmit_NoDeduplication(t *testing.T) {
	ctx := context.Background()
	db, svc := newLedgerFixture()
	productID := seedProduct(db, 0, 5)

	in := SubmitInput{Type: model.TxIn, ProductID: productID, Quantity: 4, UnitPrice: 100, Date: txDate()}

	_, err := svc.Submit(ctx, in)
	require.NoError(t, err)
	_, err = svc.Submit(ctx, in)
	require.NoError(t, err)

	// Identical submissions both count: dedup is the caller's concern
	assert.Equal(t, 2, db.ledgerLen())
	assert.Equal(t, 8, db.stockOf(productID))
}

func TestSubmit_ConcurrentOutExactlyOneSucceeds(t *testing.T) {
	ctx := context.Background()
	db, svc := newLedgerFixture()

	const stock = 5
	const workers = 10
	productID := seedProduct(db, stock, 2)

	var successCount, insufficientCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Submit(ctx, SubmitInput{
				Type: model.TxOut, ProductID: productID, Quantity: stock, UnitPrice: 100, Date: txDate(),
			})
			if err == nil {
				successCount.Add(1)
				return
			}
			var insufficient *InsufficientStockError
			if errors.As(err, &insufficient) {
				insufficientCount.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), successCount.Load())
	assert.Equal(t, int32(workers-1), insufficientCount.Load())
	assert.Equal(t, 0, db.stockOf(productID))
	assert.Equal(t, 1, db.ledgerLen())
}

func TestSubmit_StockMatchesLedgerSums(t *testing.T) {
	ctx := context.Background()
	db, svc := newLedgerFixture()
	productID := seedProduct(db, 0, 5)

	moves := []struct {
		txType model.TransactionType
		qty    int
	}{
		{model.TxIn, 50}, {model.TxOut, 12}, {model.TxIn, 7},
		{model.TxOut, 30}, {model.TxOut, 15}, {model.TxIn, 3},
	}

	for _, m := range moves {
		_, err := svc.Submit(ctx, SubmitInput{
			Type: m.txType, ProductID: productID, Quantity: m.qty, UnitPrice: 10, Date: txDate(),
		})
		require.NoError(t, err)

		// Running invariant: stock always equals sum IN minus sum OUT
		entries, err := svc.TransactionsByProduct(ctx, productID)
		require.NoError(t, err)
		sum := 0
		for _, e := range entries {
			if e.Type == model.TxIn {
				sum += e.Quantity
			} else {
				sum -= e.Quantity
			}
		}
		assert.Equal(t, sum, db.stockOf(productID))
		assert.GreaterOrEqual(t, db.stockOf(productID), 0)
	}
}

func TestTransactions_OrderedByDateThenInsertion(t *testing.T) {
	ctx := context.Background()
	db, svc := newLedgerFixture()
	productID := seedProduct(db, 100, 5)

	day1 := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)

	first, err := svc.Submit(ctx, SubmitInput{Type: model.TxOut, ProductID: productID, Quantity: 1, Date: day2})
	require.NoError(t, err)
	second, err := svc.Submit(ctx, SubmitInput{Type: model.TxOut, ProductID: productID, Quantity: 2, Date: day1})
	require.NoError(t, err)
	third, err := svc.Submit(ctx, SubmitInput{Type: model.TxOut, ProductID: productID, Quantity: 3, Date: day2})
	require.NoError(t, err)

	entries, err := svc.Transactions(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// day2 entries first (latest insertion first), then day1
	assert.Equal(t, third.Transaction.ID, entries[0].ID)
	assert.Equal(t, first.Transaction.ID, entries[1].ID)
	assert.Equal(t, second.Transaction.ID, entries[2].ID)
}

func TestGetTransaction_NotFound(t *testing.T) {
	_, svc := newLedgerFixture()

	_, err := svc.GetTransaction(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}
