package handler

import (
	"github.com/Zeeion12/Gudang-Hoda-Plafon/internal/model"
	"github.com/Zeeion12/Gudang-Hoda-Plafon/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ProductHandler struct {
	catalog service.CatalogService
}

func NewProductHandler(catalog service.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.catalog.ListProducts(c.UserContext(), c.Query("category"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(products)
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	product, err := h.catalog.GetProduct(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

func (h *ProductHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.catalog.Categories(c.UserContext())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(categories)
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.catalog.CreateProduct(c.UserContext(), &product); err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.catalog.UpdateProduct(c.UserContext(), id, &product)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Product updated", "data": updated})
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	if err := h.catalog.DeleteProduct(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Product deleted"})
}
