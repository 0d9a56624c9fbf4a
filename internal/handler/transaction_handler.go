package handler

import (
	"time"

	"github.com/Zeeion12/Gudang-Hoda-Plafon/internal/model"
	"github.com/Zeeion12/Gudang-Hoda-Plafon/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type TransactionHandler struct {
	ledger service.LedgerService
}

func NewTransactionHandler(ledger service.LedgerService) *TransactionHandler {
	return &TransactionHandler{ledger: ledger}
}

// CreateTransactionRequest is the submit payload for one stock movement.
type CreateTransactionRequest struct {
	Type            string `json:"type"`
	ProductID       string `json:"product_id"`
	Quantity        int    `json:"quantity"`
	UnitPrice       int64  `json:"unit_price"`
	TransactionDate string `json:"transaction_date"`
	Notes           string `json:"notes"`
}

func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	var req CreateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	date, err := time.Parse(dateLayout, req.TransactionDate)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction date, use YYYY-MM-DD"})
	}

	result, err := h.ledger.Submit(c.UserContext(), service.SubmitInput{
		Type:      model.TransactionType(req.Type),
		ProductID: productID,
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
		Date:      date,
		Notes:     req.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Transaction recorded", "data": result})
}

// GetTransactions lists ledger entries, optionally filtered by product, type,
// or date range (one filter at a time, product taking precedence).
func (h *TransactionHandler) GetTransactions(c *fiber.Ctx) error {
	ctx := c.UserContext()

	if productParam := c.Query("product_id"); productParam != "" {
		productID, err := uuid.Parse(productParam)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
		}
		transactions, err := h.ledger.TransactionsByProduct(ctx, productID)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
		}
		return c.JSON(transactions)
	}

	if typeParam := c.Query("type"); typeParam != "" {
		txType := model.TransactionType(typeParam)
		if txType != model.TxIn && txType != model.TxOut {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction type, use IN or OUT"})
		}
		transactions, err := h.ledger.TransactionsByType(ctx, txType)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
		}
		return c.JSON(transactions)
	}

	if fromParam, toParam := c.Query("from"), c.Query("to"); fromParam != "" && toParam != "" {
		from, err := time.Parse(dateLayout, fromParam)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid 'from' date, use YYYY-MM-DD"})
		}
		to, err := time.Parse(dateLayout, toParam)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid 'to' date, use YYYY-MM-DD"})
		}
		transactions, err := h.ledger.TransactionsByDateRange(ctx, from, to)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
		}
		return c.JSON(transactions)
	}

	transactions, err := h.ledger.Transactions(ctx)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(transactions)
}

func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	tx, err := h.ledger.GetTransaction(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tx)
}
