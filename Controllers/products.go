package Controllers

import (
	"github.com/gofiber/fiber/v2"

	"Mandi/Models"
	"Mandi/Services"
)

type ProductController struct {
	svc      *Services.LedgerService
	validate *Validator
}

func NewProductController(svc *Services.LedgerService, validate *Validator) *ProductController {
	return &ProductController{svc: svc, validate: validate}
}

// GetProducts retrieves all products
func (c *ProductController) GetProducts(ctx *fiber.Ctx) error {
	products, err := c.svc.Store().ListProducts(ctx.UserContext())
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(products)
}

// GetProduct retrieves a product by ID
func (c *ProductController) GetProduct(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	product, err := c.svc.Store().GetProduct(ctx.UserContext(), id)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(product)
}

// CreateProduct creates a new product
func (c *ProductController) CreateProduct(ctx *fiber.Ctx) error {
	var req Models.ProductRequest
	if err := c.validate.bind(ctx, &req); err != nil {
		return respondError(ctx, err)
	}
	product := Models.Product{Name: req.Name, DefaultPrice: req.DefaultPrice}
	if err := c.svc.Store().CreateProduct(ctx.UserContext(), &product); err != nil {
		return respondError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(product)
}

// UpdateProduct renames a product or changes its default price
func (c *ProductController) UpdateProduct(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	var req Models.ProductRequest
	if err := c.validate.bind(ctx, &req); err != nil {
		return respondError(ctx, err)
	}
	product, err := c.svc.Store().UpdateProduct(ctx.UserContext(), id, req)
	if err != nil {
		return respondError(ctx, err)
	}
	c.svc.Invalidate(ctx.UserContext())
	return ctx.JSON(product)
}

// DeleteProduct deletes a product that never traded
func (c *ProductController) DeleteProduct(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	if err := c.svc.Store().DeleteProduct(ctx.UserContext(), id); err != nil {
		return respondError(ctx, err)
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

// RefreshStats recomputes the price statistics of every product, from
// items recorded since ?since= when given.
func (c *ProductController) RefreshStats(ctx *fiber.Ctx) error {
	since, err := queryDate(ctx, "since")
	if err != nil {
		return respondError(ctx, err)
	}
	n, err := c.svc.RefreshPriceStats(ctx.UserContext(), since)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(fiber.Map{"updated": n})
}
