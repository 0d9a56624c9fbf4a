package model

// StockStatus classifies a product's stock level against its reorder threshold.
// It is derived on read and never stored.
type StockStatus string

const (
	StockSafe StockStatus = "safe"
	StockLow  StockStatus = "low"
	StockOut  StockStatus = "out"
)

// StockStatusFor returns the classification for a stock level given a reorder threshold.
func StockStatusFor(currentStock, minStock int) StockStatus {
	switch {
	case currentStock == 0:
		return StockOut
	case currentStock <= minStock:
		return StockLow
	default:
		return StockSafe
	}
}

type Product struct {
	BaseModel
	Code          string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code" validate:"required,product_code,max=50"`
	Name          string `gorm:"type:varchar(255);not null" json:"name" validate:"required,max=255"`
	Category      string `gorm:"type:varchar(100);not null" json:"category" validate:"required"`
	Unit          string `gorm:"type:varchar(20);not null" json:"unit" validate:"required"`
	CurrentStock  int    `gorm:"not null;default:0" json:"current_stock" validate:"gte=0"`
	MinStock      int    `gorm:"not null;default:0" json:"min_stock" validate:"gte=0"`
	LastBuyPrice  *int64 `json:"last_buy_price,omitempty" validate:"omitempty,gte=0"`
	LastSellPrice *int64 `json:"last_sell_price,omitempty" validate:"omitempty,gte=0"`
	Description   string `gorm:"type:text" json:"description,omitempty" validate:"max=1000"`

	// Relasi
	Transactions []Transaction `json:"transactions,omitempty"`
}

// StockStatus reports whether the product is safe, low, or out of stock.
func (p *Product) StockStatus() StockStatus {
	return StockStatusFor(p.CurrentStock, p.MinStock)
}
