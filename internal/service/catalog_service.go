package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Zeeion12/Gudang-Hoda-Plafon/internal/model"
	"github.com/Zeeion12/Gudang-Hoda-Plafon/internal/repository"
	"github.com/Zeeion12/Gudang-Hoda-Plafon/internal/ws"
	"github.com/Zeeion12/Gudang-Hoda-Plafon/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CatalogService interface {
	CreateProduct(ctx context.Context, req *model.Product) error
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	ListProducts(ctx context.Context, category string) ([]model.Product, error)
	Categories(ctx context.Context) ([]string, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *model.Product) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	productRepo repository.ProductRepository
	txRepo      repository.TransactionRepository
	hub         *ws.Hub
	log         *zap.Logger
}

func NewCatalogService(pRepo repository.ProductRepository, tRepo repository.TransactionRepository, hub *ws.Hub, log *zap.Logger) CatalogService {
	return &catalogService{
		productRepo: pRepo,
		txRepo:      tRepo,
		hub:         hub,
		log:         log,
	}
}

// NormalizeCode trims and uppercases a product code before any comparison or
// persistence, so "plf-001" and "PLF-001" are the same product.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *catalogService) CreateProduct(ctx context.Context, req *model.Product) error {
	req.Code = NormalizeCode(req.Code)

	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}

	existing, err := s.productRepo.FindByCode(ctx, req.Code)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if existing != nil {
		return ErrDuplicateCode
	}

	if err := s.productRepo.Create(ctx, req); err != nil {
		return err
	}

	s.log.Info("product created",
		zap.String("product_id", req.ID.String()),
		zap.String("code", req.Code),
		zap.Int("initial_stock", req.CurrentStock),
	)

	s.publishProductEvent("product_created", req)
	return nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *catalogService) ListProducts(ctx context.Context, category string) ([]model.Product, error) {
	return s.productRepo.FindAll(ctx, category)
}

func (s *catalogService) Categories(ctx context.Context) ([]string, error) {
	return s.productRepo.Categories(ctx)
}

// UpdateProduct changes catalog fields. Current stock is deliberately not
// copied from the request: stock moves only through accepted ledger entries.
func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req *model.Product) (*model.Product, error) {
	existing, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	req.Code = NormalizeCode(req.Code)
	if req.Code != existing.Code {
		other, err := s.productRepo.FindByCode(ctx, req.Code)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if other != nil {
			return nil, ErrDuplicateCode
		}
	}

	existing.Code = req.Code
	existing.Name = req.Name
	existing.Category = req.Category
	existing.Unit = req.Unit
	existing.MinStock = req.MinStock
	existing.LastBuyPrice = req.LastBuyPrice
	existing.LastSellPrice = req.LastSellPrice
	existing.Description = req.Description

	if errs := validator.ValidateStruct(existing); len(errs) > 0 {
		first := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}

	if err := s.productRepo.Update(ctx, existing); err != nil {
		return nil, err
	}

	s.publishProductEvent("product_updated", existing)
	return existing, nil
}

// DeleteProduct soft-deletes a product. Products referenced by ledger entries
// are blocked from deletion so no entry is left dangling.
func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	count, err := s.txRepo.CountByProduct(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrHasTransactions
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("product deleted",
		zap.String("product_id", id.String()),
		zap.String("code", product.Code),
	)
	return nil
}

func (s *catalogService) publishProductEvent(action string, product *model.Product) {
	if s.hub == nil {
		return
	}
	go s.hub.Publish(map[string]interface{}{
		"type":   "stock_update",
		"action": action,
		"product": map[string]interface{}{
			"id":            product.ID,
			"code":          product.Code,
			"name":          product.Name,
			"current_stock": product.CurrentStock,
			"min_stock":     product.MinStock,
		},
	})
}
