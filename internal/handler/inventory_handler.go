package handler

import (
	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type InventoryHandler struct {
	service service.InventoryService
	log     *logrus.Logger
}

func NewInventoryHandler(s service.InventoryService, log *logrus.Logger) *InventoryHandler {
	return &InventoryHandler{service: s, log: log}
}

type stockRequest struct {
	Type     model.TransactionType `json:"type"`
	Quantity int                   `json:"quantity"`
}

type saleRequest struct {
	Items map[uint]int `json:"items"`
}

func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts(c.UserContext())
	if err != nil {
		return fail(c, h.log, err, "")
	}
	return c.JSON(products)
}

func (h *InventoryHandler) GetProduct(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return fail(c, h.log, err, "Product not found")
	}
	return c.JSON(product)
}

func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	var in service.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.service.CreateProduct(c.UserContext(), in)
	if err != nil {
		return fail(c, h.log, err, "")
	}
	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *InventoryHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var in service.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.UpdateProduct(c.UserContext(), id, in)
	if err != nil {
		return fail(c, h.log, err, "Product not found")
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": updated})
}

func (h *InventoryHandler) PatchProduct(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var patch service.ProductPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.PatchProduct(c.UserContext(), id, patch)
	if err != nil {
		return fail(c, h.log, err, "Product not found")
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": updated})
}

func (h *InventoryHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	if err := h.service.DeleteProduct(c.UserContext(), id); err != nil {
		return fail(c, h.log, err, "Product not found")
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// AdjustStock handles POST /products/:id/stock.
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req stockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	adj, err := h.service.AdjustStock(c.UserContext(), id, req.Type, req.Quantity)
	if err != nil {
		return fail(c, h.log, err, "Product not found")
	}
	return c.JSON(fiber.Map{"message": "Stock updated", "data": adj})
}

func (h *InventoryHandler) Sell(c *fiber.Ctx) error {
	var req saleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	receipt, err := h.service.Sell(c.UserContext(), req.Items)
	if err != nil {
		return fail(c, h.log, err, "Product not found")
	}
	return c.Status(201).JSON(fiber.Map{"message": "Sale recorded", "data": receipt})
}

func (h *InventoryHandler) GetTransactions(c *fiber.Ctx) error {
	transactions, err := h.service.ListTransactions(c.UserContext())
	if err != nil {
		return fail(c, h.log, err, "")
	}
	return c.JSON(transactions)
}

func (h *InventoryHandler) GetTransaction(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	tx, err := h.service.GetTransaction(c.UserContext(), id)
	if err != nil {
		return fail(c, h.log, err, "Transaction not found")
	}
	return c.JSON(tx)
}

// CreateTransaction appends one ledger row and applies its stock effect.
// Price, total, id and date are always set server-side.
func (h *InventoryHandler) CreateTransaction(c *fiber.Ctx) error {
	var in service.TransactionInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	tx, err := h.service.RecordTransaction(c.UserContext(), in)
	if err != nil {
		return fail(c, h.log, err, "Product not found")
	}
	return c.Status(201).JSON(fiber.Map{"message": "Transaction recorded", "data": tx})
}
