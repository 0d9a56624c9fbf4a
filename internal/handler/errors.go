package handler

import (
	"errors"

	"github.com/Zeeion12/Gudang-Hoda-Plafon/internal/service"

	"github.com/gofiber/fiber/v2"
)

// respondError maps domain errors to HTTP statuses. Validation failures stay
// 400; conflicts 409; the insufficient-stock rejection carries its detail.
func respondError(c *fiber.Ctx, err error) error {
	var insufficient *service.InsufficientStockError
	if errors.As(err, &insufficient) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":     insufficient.Error(),
			"available": insufficient.Available,
			"requested": insufficient.Requested,
		})
	}

	status := fiber.StatusBadRequest
	switch {
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrTransactionNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, service.ErrDuplicateCode),
		errors.Is(err, service.ErrHasTransactions):
		status = fiber.StatusConflict
	}

	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
