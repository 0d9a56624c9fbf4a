package model

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TxIn  TransactionType = "IN"
	TxOut TransactionType = "OUT"
)

// Transaction is one accepted stock movement. Rows are append-only: corrections
// are recorded as new offsetting entries, never as edits.
type Transaction struct {
	BaseModel
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_tx_product_date" json:"product_id" validate:"uuid_required"`
	Product         *Product        `json:"product,omitempty" validate:"-"` // Relasi - skip validation
	Type            TransactionType `gorm:"type:varchar(10);not null" json:"type" validate:"required,oneof=IN OUT"`
	Quantity        int             `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	UnitPrice       int64           `gorm:"not null" json:"unit_price" validate:"gte=0"`
	TotalPrice      int64           `gorm:"not null" json:"total_price"` // Snapshot quantity * unit_price
	TransactionDate time.Time       `gorm:"type:date;not null;index:idx_tx_product_date" json:"transaction_date" validate:"required"`
	Notes           string          `gorm:"type:varchar(500)" json:"notes,omitempty" validate:"max=500"`
}
