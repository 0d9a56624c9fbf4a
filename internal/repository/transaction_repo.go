package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Zeeion12/Gudang-Hoda-Plafon/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockMovementData feeds the dashboard chart: aggregate quantities per day.
type StockMovementData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

// TransactionTotals aggregates accepted entries over a date range.
type TransactionTotals struct {
	InCount     int64 `json:"in_count"`
	InQuantity  int64 `json:"in_quantity"`
	InValue     int64 `json:"in_value"`
	OutCount    int64 `json:"out_count"`
	OutQuantity int64 `json:"out_quantity"`
	OutValue    int64 `json:"out_value"`
}

type TransactionRepository interface {
	Create(ctx context.Context, tx *model.Transaction) error
	FindAll(ctx context.Context) ([]model.Transaction, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]model.Transaction, error)
	FindByDateRange(ctx context.Context, from, to time.Time) ([]model.Transaction, error)
	FindByType(ctx context.Context, txType model.TransactionType) ([]model.Transaction, error)
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
	CountByTypeSince(ctx context.Context, txType model.TransactionType, since time.Time) (int64, error)
	GetStockMovement(ctx context.Context, from, to time.Time) ([]StockMovementData, error)
	GetTotals(ctx context.Context, from, to time.Time) (*TransactionTotals, error)
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) Create(ctx context.Context, tx *model.Transaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// ordered returns the base query with the ledger read ordering:
// newest transaction date first, insertion order breaking ties.
func (r *transactionRepo) ordered(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Product").
		Order("transaction_date DESC, created_at DESC")
}

func (r *transactionRepo) FindAll(ctx context.Context) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.ordered(ctx).Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.WithContext(ctx).Preload("Product").First(&transaction, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &transaction, err
}

func (r *transactionRepo) FindByProduct(ctx context.Context, productID uuid.UUID) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.ordered(ctx).Where("product_id = ?", productID).Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindByDateRange(ctx context.Context, from, to time.Time) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.ordered(ctx).
		Where("transaction_date BETWEEN ? AND ?", from, to).
		Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindByType(ctx context.Context, txType model.TransactionType) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.ordered(ctx).Where("type = ?", txType).Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count, err
}

func (r *transactionRepo) CountByTypeSince(ctx context.Context, txType model.TransactionType, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("type = ? AND created_at >= ?", txType, since).
		Count(&count).Error
	return count, err
}

func (r *transactionRepo) GetStockMovement(ctx context.Context, from, to time.Time) ([]StockMovementData, error) {
	var results []StockMovementData

	rows, err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Select(`
			TO_CHAR(transaction_date, 'YYYY-MM-DD') as date,
			COALESCE(SUM(CASE WHEN type = 'IN' THEN quantity ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN type = 'OUT' THEN quantity ELSE 0 END), 0) as outbound
		`).
		Where("transaction_date BETWEEN ? AND ?", from, to).
		Group("transaction_date").
		Order("transaction_date ASC").
		Rows()

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data StockMovementData
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, rows.Err()
}

func (r *transactionRepo) GetTotals(ctx context.Context, from, to time.Time) (*TransactionTotals, error) {
	var totals TransactionTotals

	type row struct {
		Count    int64
		Quantity int64
		Value    int64
	}

	query := func(txType model.TransactionType) (row, error) {
		var out row
		err := r.db.WithContext(ctx).Model(&model.Transaction{}).
			Select("COUNT(*) as count, COALESCE(SUM(quantity), 0) as quantity, COALESCE(SUM(total_price), 0) as value").
			Where("type = ? AND transaction_date BETWEEN ? AND ?", txType, from, to).
			Scan(&out).Error
		return out, err
	}

	in, err := query(model.TxIn)
	if err != nil {
		return nil, err
	}
	out, err := query(model.TxOut)
	if err != nil {
		return nil, err
	}

	totals.InCount, totals.InQuantity, totals.InValue = in.Count, in.Quantity, in.Value
	totals.OutCount, totals.OutQuantity, totals.OutValue = out.Count, out.Quantity, out.Value
	return &totals, nil
}
