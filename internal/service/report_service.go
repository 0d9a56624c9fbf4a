package service

import (
	"context"
	"time"

	"github.com/Zeeion12/Gudang-Hoda-Plafon/internal/model"
	"github.com/Zeeion12/Gudang-Hoda-Plafon/internal/repository"
)

// StockReportRow pairs a product with its derived stock status.
type StockReportRow struct {
	Product     model.Product     `json:"product"`
	StockStatus model.StockStatus `json:"stock_status"`
}

type StockReport struct {
	Items          []StockReportRow `json:"items"`
	TotalProducts  int              `json:"total_products"`
	SafeCount      int              `json:"safe_count"`
	LowCount       int              `json:"low_count"`
	OutCount       int              `json:"out_count"`
	TotalValuation int64            `json:"total_valuation"`
}

type TransactionSummary struct {
	From   string                       `json:"from"`
	To     string                       `json:"to"`
	Items  []model.Transaction          `json:"items"`
	Totals repository.TransactionTotals `json:"totals"`
}

type DashboardStats struct {
	TotalProducts  int64 `json:"total_products"`
	LowStockCount  int64 `json:"low_stock_count"`
	OutOfStock     int64 `json:"out_of_stock_count"`
	TotalValuation int64 `json:"total_valuation"`
	TodayInCount   int64 `json:"today_in_count"`
	TodayOutCount  int64 `json:"today_out_count"`
}

type ReportService interface {
	StockReport(ctx context.Context, category string) (*StockReport, error)
	TransactionSummary(ctx context.Context, from, to time.Time) (*TransactionSummary, error)
	DashboardStats(ctx context.Context) (*DashboardStats, error)
	StockMovement(ctx context.Context, days int) ([]repository.StockMovementData, error)
}

type reportService struct {
	productRepo repository.ProductRepository
	txRepo      repository.TransactionRepository
	now         func() time.Time
}

func NewReportService(pRepo repository.ProductRepository, tRepo repository.TransactionRepository) ReportService {
	return &reportService{
		productRepo: pRepo,
		txRepo:      tRepo,
		now:         time.Now,
	}
}

func (s *reportService) StockReport(ctx context.Context, category string) (*StockReport, error) {
	products, err := s.productRepo.FindAll(ctx, category)
	if err != nil {
		return nil, err
	}

	report := &StockReport{
		Items:         make([]StockReportRow, 0, len(products)),
		TotalProducts: len(products),
	}
	for _, p := range products {
		status := p.StockStatus()
		switch status {
		case model.StockSafe:
			report.SafeCount++
		case model.StockLow:
			report.LowCount++
		case model.StockOut:
			report.OutCount++
		}
		if p.LastBuyPrice != nil {
			report.TotalValuation += int64(p.CurrentStock) * *p.LastBuyPrice
		}
		report.Items = append(report.Items, StockReportRow{Product: p, StockStatus: status})
	}
	return report, nil
}

func (s *reportService) TransactionSummary(ctx context.Context, from, to time.Time) (*TransactionSummary, error) {
	items, err := s.txRepo.FindByDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	totals, err := s.txRepo.GetTotals(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return &TransactionSummary{
		From:   from.Format("2006-01-02"),
		To:     to.Format("2006-01-02"),
		Items:  items,
		Totals: *totals,
	}, nil
}

func (s *reportService) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	catalog, err := s.productRepo.GetCatalogStats(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	todayIn, err := s.txRepo.CountByTypeSince(ctx, model.TxIn, startOfDay)
	if err != nil {
		return nil, err
	}
	todayOut, err := s.txRepo.CountByTypeSince(ctx, model.TxOut, startOfDay)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TotalProducts:  catalog.TotalProducts,
		LowStockCount:  catalog.LowStockCount,
		OutOfStock:     catalog.OutOfStock,
		TotalValuation: catalog.TotalValuation,
		TodayInCount:   todayIn,
		TodayOutCount:  todayOut,
	}, nil
}

func (s *reportService) StockMovement(ctx context.Context, days int) ([]repository.StockMovementData, error) {
	if days <= 0 {
		days = 7
	}
	end := s.now()
	start := end.AddDate(0, 0, -days)
	return s.txRepo.GetStockMovement(ctx, start, end)
}
