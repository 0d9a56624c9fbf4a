package service

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrDuplicateCode       = errors.New("product code already exists")
	ErrHasTransactions     = errors.New("product has recorded transactions and cannot be deleted")
	ErrInvalidQuantity     = errors.New("quantity must be greater than zero")
	ErrInvalidPrice        = errors.New("unit price must not be negative")
	ErrInvalidType         = errors.New("transaction type must be IN or OUT")
	ErrInvalidDate         = errors.New("transaction date is required")
	ErrNotesTooLong        = errors.New("notes must be at most 500 characters")
)

// InsufficientStockError rejects an OUT submission that would drive stock
// negative. It carries both sides of the comparison for the caller's message.
type InsufficientStockError struct {
	Available int `json:"available"`
	Requested int `json:"requested"`
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: %d available, %d requested", e.Available, e.Requested)
}
