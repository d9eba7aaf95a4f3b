package Controllers

import (
	"github.com/gofiber/fiber/v2"

	"Mandi/Ledger"
	"Mandi/Models"
	"Mandi/Services"
	"Mandi/middleware"
)

type TransactionController struct {
	svc      *Services.LedgerService
	validate *Validator
}

func NewTransactionController(svc *Services.LedgerService, validate *Validator) *TransactionController {
	return &TransactionController{svc: svc, validate: validate}
}

// GetTransactions lists transactions, newest first. Filters: kisan_id,
// vyapari_id, from, to, status, limit, offset.
func (c *TransactionController) GetTransactions(ctx *fiber.Ctx) error {
	var f Models.TransactionFilter
	var err error
	if f.KisanID, err = queryUint(ctx, "kisan_id"); err != nil {
		return respondError(ctx, err)
	}
	if f.VyapariID, err = queryUint(ctx, "vyapari_id"); err != nil {
		return respondError(ctx, err)
	}
	if f.From, err = queryDate(ctx, "from", "start_date"); err != nil {
		return respondError(ctx, err)
	}
	if f.To, err = queryDate(ctx, "to", "end_date"); err != nil {
		return respondError(ctx, err)
	}
	if status := Models.TransactionStatus(ctx.Query("status")); status != "" {
		if !status.Valid() {
			return respondError(ctx, Ledger.Invalid("status", "unknown status %q", status))
		}
		f.Status = status
	}
	f.Limit = queryInt(ctx, "limit", 100)
	f.Offset = queryInt(ctx, "offset", 0)

	txns, err := c.svc.Store().ListTransactions(ctx.UserContext(), f)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(txns)
}

// GetTransaction retrieves a transaction with its items
func (c *TransactionController) GetTransaction(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	txn, err := c.svc.Store().GetTransaction(ctx.UserContext(), id)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(txn)
}

// CreateTransaction records a sale between a kisan and a vyapari
func (c *TransactionController) CreateTransaction(ctx *fiber.Ctx) error {
	var req Models.TransactionRequest
	if err := c.validate.bind(ctx, &req); err != nil {
		return respondError(ctx, err)
	}
	txn, err := c.svc.RecordTransaction(ctx.UserContext(), req, middleware.UserID(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(txn)
}

// PreviewTransaction returns the computed transaction without saving it.
func (c *TransactionController) PreviewTransaction(ctx *fiber.Ctx) error {
	var req Models.TransactionRequest
	if err := c.validate.bind(ctx, &req); err != nil {
		return respondError(ctx, err)
	}
	txn, err := c.svc.PreviewTransaction(ctx.UserContext(), req)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(txn)
}

// BatchEdit patches notes, status or type of many transactions.
func (c *TransactionController) BatchEdit(ctx *fiber.Ctx) error {
	var req Models.BatchEditRequest
	if err := c.validate.bind(ctx, &req); err != nil {
		return respondError(ctx, err)
	}
	n, err := c.svc.BatchEditTransactions(ctx.UserContext(), req, middleware.UserID(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(fiber.Map{"updated": n})
}

// DeleteTransaction deletes a transaction and reverses both balances
func (c *TransactionController) DeleteTransaction(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	txn, err := c.svc.DeleteTransaction(ctx.UserContext(), id, middleware.UserID(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(txn)
}
