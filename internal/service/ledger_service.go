package service

import (
	"context"
	"errors"
	"time"

	"github.com/Zeeion12/Gudang-Hoda-Plafon/internal/model"
	"github.com/Zeeion12/Gudang-Hoda-Plafon/internal/repository"
	"github.com/Zeeion12/Gudang-Hoda-Plafon/internal/ws"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxNotesLength = 500

// SubmitInput is one proposed stock movement.
type SubmitInput struct {
	Type      model.TransactionType
	ProductID uuid.UUID
	Quantity  int
	UnitPrice int64
	Date      time.Time
	Notes     string
}

// SubmitResult carries the accepted entry plus the stock level after it, so
// callers can render the new level and low-stock warnings directly.
type SubmitResult struct {
	Transaction    *model.Transaction `json:"transaction"`
	ResultingStock int                `json:"resulting_stock"`
	StockStatus    model.StockStatus  `json:"stock_status"`
}

type LedgerService interface {
	Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error)
	Transactions(ctx context.Context) ([]model.Transaction, error)
	TransactionsByProduct(ctx context.Context, productID uuid.UUID) ([]model.Transaction, error)
	TransactionsByDateRange(ctx context.Context, from, to time.Time) ([]model.Transaction, error)
	TransactionsByType(ctx context.Context, txType model.TransactionType) ([]model.Transaction, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
}

type ledgerService struct {
	tx     repository.TransactionManager
	txRepo repository.TransactionRepository
	locks  *productLocks
	hub    *ws.Hub
	log    *zap.Logger
}

func NewLedgerService(tx repository.TransactionManager, txRepo repository.TransactionRepository, hub *ws.Hub, log *zap.Logger) LedgerService {
	return &ledgerService{
		tx:     tx,
		txRepo: txRepo,
		locks:  newProductLocks(),
		hub:    hub,
		log:    log,
	}
}

// Submit validates the proposed movement against current stock and applies the
// ledger append and the stock update as one atomic unit. A rejected submission
// leaves no trace: no ledger entry, no stock change.
func (s *ledgerService) Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	if in.Type != model.TxIn && in.Type != model.TxOut {
		return nil, ErrInvalidType
	}
	if in.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if in.UnitPrice < 0 {
		return nil, ErrInvalidPrice
	}
	if in.Date.IsZero() {
		return nil, ErrInvalidDate
	}
	if len(in.Notes) > maxNotesLength {
		return nil, ErrNotesTooLong
	}

	// Serialize the check-then-update sequence per product. Two concurrent OUT
	// submissions must not both pass the sufficiency check on the same stock.
	lock := s.locks.get(in.ProductID)
	lock.Lock()
	defer lock.Unlock()

	var result *SubmitResult
	err := s.tx.WithinTx(ctx, func(r repository.TxRepos) error {
		product, err := r.Products().FindByIDForUpdate(ctx, in.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		newStock := product.CurrentStock
		switch in.Type {
		case model.TxIn:
			newStock += in.Quantity
		case model.TxOut:
			if in.Quantity > product.CurrentStock {
				return &InsufficientStockError{
					Available: product.CurrentStock,
					Requested: in.Quantity,
				}
			}
			newStock -= in.Quantity
		}

		entry := &model.Transaction{
			ProductID:       product.ID,
			Type:            in.Type,
			Quantity:        in.Quantity,
			UnitPrice:       in.UnitPrice,
			TotalPrice:      int64(in.Quantity) * in.UnitPrice,
			TransactionDate: in.Date,
			Notes:           in.Notes,
		}

		if err := r.Transactions().Create(ctx, entry); err != nil {
			return err
		}
		if err := r.Products().UpdateStock(ctx, product.ID, newStock); err != nil {
			return err
		}

		entry.Product = product
		result = &SubmitResult{
			Transaction:    entry,
			ResultingStock: newStock,
			StockStatus:    model.StockStatusFor(newStock, product.MinStock),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("transaction accepted",
		zap.String("transaction_id", result.Transaction.ID.String()),
		zap.String("product_id", in.ProductID.String()),
		zap.String("type", string(in.Type)),
		zap.Int("quantity", in.Quantity),
		zap.Int("resulting_stock", result.ResultingStock),
	)

	s.broadcastStockUpdate(result)
	return result, nil
}

func (s *ledgerService) broadcastStockUpdate(result *SubmitResult) {
	if s.hub == nil {
		return
	}
	entry := result.Transaction
	go s.hub.Publish(map[string]interface{}{
		"type":   "stock_update",
		"action": "transaction_created",
		"transaction": map[string]interface{}{
			"id":         entry.ID,
			"type":       entry.Type,
			"quantity":   entry.Quantity,
			"product_id": entry.ProductID,
			"new_stock":  result.ResultingStock,
		},
		"stock_status": result.StockStatus,
	})
}

func (s *ledgerService) Transactions(ctx context.Context) ([]model.Transaction, error) {
	return s.txRepo.FindAll(ctx)
}

func (s *ledgerService) TransactionsByProduct(ctx context.Context, productID uuid.UUID) ([]model.Transaction, error) {
	return s.txRepo.FindByProduct(ctx, productID)
}

func (s *ledgerService) TransactionsByDateRange(ctx context.Context, from, to time.Time) ([]model.Transaction, error) {
	return s.txRepo.FindByDateRange(ctx, from, to)
}

func (s *ledgerService) TransactionsByType(ctx context.Context, txType model.TransactionType) ([]model.Transaction, error) {
	return s.txRepo.FindByType(ctx, txType)
}

func (s *ledgerService) GetTransaction(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	tx, err := s.txRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return tx, nil
}
