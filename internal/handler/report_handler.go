package handler

import (
	"time"

	"github.com/Zeeion12/Gudang-Hoda-Plafon/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	reports service.ReportService
}

func NewReportHandler(reports service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

func (h *ReportHandler) GetStockReport(c *fiber.Ctx) error {
	report, err := h.reports.StockReport(c.UserContext(), c.Query("category"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(report)
}

func (h *ReportHandler) GetTransactionReport(c *fiber.Ctx) error {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now

	if fromParam := c.Query("from"); fromParam != "" {
		parsed, err := time.Parse(dateLayout, fromParam)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid 'from' date, use YYYY-MM-DD"})
		}
		from = parsed
	}
	if toParam := c.Query("to"); toParam != "" {
		parsed, err := time.Parse(dateLayout, toParam)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid 'to' date, use YYYY-MM-DD"})
		}
		to = parsed
	}

	summary, err := h.reports.TransactionSummary(c.UserContext(), from, to)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(summary)
}

func (h *ReportHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.reports.DashboardStats(c.UserContext())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(stats)
}

func (h *ReportHandler) GetStockMovement(c *fiber.Ctx) error {
	days := c.QueryInt("days", 7)
	movement, err := h.reports.StockMovement(c.UserContext(), days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(movement)
}
