package Controllers

import (
	"github.com/gofiber/fiber/v2"

	"Mandi/Ledger"
	"Mandi/Models"
	"Mandi/Services"
	"Mandi/middleware"
)

type PaymentController struct {
	svc      *Services.LedgerService
	validate *Validator
}

func NewPaymentController(svc *Services.LedgerService, validate *Validator) *PaymentController {
	return &PaymentController{svc: svc, validate: validate}
}

// GetPayments retrieves payments matching the query filters
func (c *PaymentController) GetPayments(ctx *fiber.Ctx) error {
	var f Models.PaymentFilter
	var err error
	if f.PartyID, err = queryUint(ctx, "party_id"); err != nil {
		return respondError(ctx, err)
	}
	if pt := Models.PartyType(ctx.Query("party_type")); pt != "" {
		if !pt.Valid() {
			return respondError(ctx, Ledger.Invalid("party_type", "must be kisan or vyapari"))
		}
		f.PartyType = pt
	}
	if f.From, err = queryDate(ctx, "from", "start_date"); err != nil {
		return respondError(ctx, err)
	}
	if f.To, err = queryDate(ctx, "to", "end_date"); err != nil {
		return respondError(ctx, err)
	}
	f.Limit = queryInt(ctx, "limit", 100)

	payments, err := c.svc.Store().ListPayments(ctx.UserContext(), f)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(payments)
}

// CreatePayment records a payment and moves the party's bakaya
func (c *PaymentController) CreatePayment(ctx *fiber.Ctx) error {
	var req Models.PaymentRequest
	if err := c.validate.bind(ctx, &req); err != nil {
		return respondError(ctx, err)
	}
	payment, err := c.svc.RecordPayment(ctx.UserContext(), req, middleware.UserID(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(payment)
}

// DeletePayment removes a payment and reverses its effect
func (c *PaymentController) DeletePayment(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	payment, err := c.svc.DeletePayment(ctx.UserContext(), id, middleware.UserID(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(payment)
}
