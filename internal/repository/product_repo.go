package repository

import (
	"context"
	"errors"

	"github.com/Zeeion12/Gudang-Hoda-Plafon/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned by repositories when a record does not exist.
var ErrNotFound = errors.New("record not found")

// CatalogStats holds product-level aggregates for the dashboard.
type CatalogStats struct {
	TotalProducts  int64 `json:"total_products"`
	LowStockCount  int64 `json:"low_stock_count"`
	OutOfStock     int64 `json:"out_of_stock_count"`
	TotalValuation int64 `json:"total_valuation"`
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindAll(ctx context.Context, category string) ([]model.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	// FindByIDForUpdate loads the row with a row-level lock; only meaningful
	// inside a transaction started by the TransactionManager.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByCode(ctx context.Context, code string) (*model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	UpdateStock(ctx context.Context, id uuid.UUID, newStock int) error
	Delete(ctx context.Context, id uuid.UUID) error
	Categories(ctx context.Context) ([]string, error)
	GetCatalogStats(ctx context.Context) (*CatalogStats, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepo) FindAll(ctx context.Context, category string) ([]model.Product, error) {
	var products []model.Product
	q := r.db.WithContext(ctx).Order("name ASC")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	err := q.Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &product, err
}

func (r *productRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &product, err
}

func (r *productRepo) FindByCode(ctx context.Context, code string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).First(&product, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &product, err
}

func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// UpdateStock writes the new stock level only. Callers mutate stock exclusively
// through the ledger service, which wraps this in a transaction.
func (r *productRepo) UpdateStock(ctx context.Context, id uuid.UUID, newStock int) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", id).
		Update("current_stock", newStock).Error
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Product{}, "id = ?", id).Error
}

func (r *productRepo) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	return categories, err
}

func (r *productRepo) GetCatalogStats(ctx context.Context) (*CatalogStats, error) {
	var stats CatalogStats
	db := r.db.WithContext(ctx)

	if err := db.Model(&model.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Product{}).
		Where("current_stock > 0 AND current_stock <= min_stock").
		Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Product{}).
		Where("current_stock = 0").
		Count(&stats.OutOfStock).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Product{}).
		Select("COALESCE(SUM(current_stock * COALESCE(last_buy_price, 0)), 0)").
		Scan(&stats.TotalValuation).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}
