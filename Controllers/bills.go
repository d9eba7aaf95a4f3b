package Controllers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"Mandi/Export"
	"Mandi/Ledger"
)

func (c *PartyController) statement(ctx *fiber.Ctx) (*Ledger.BillStatement, error) {
	id, err := parseID(ctx)
	if err != nil {
		return nil, err
	}
	start, err := queryDate(ctx, "start_date", "start")
	if err != nil {
		return nil, err
	}
	end, err := queryDate(ctx, "end_date", "end")
	if err != nil {
		return nil, err
	}
	return c.svc.Statement(ctx.UserContext(), c.partyType, id, start, end)
}

// GetStatement returns the bill statement as JSON.
func (c *PartyController) GetStatement(ctx *fiber.Ctx) error {
	st, err := c.statement(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(st)
}

// ExportStatement downloads the bill statement as an xlsx workbook.
func (c *PartyController) ExportStatement(ctx *fiber.Ctx) error {
	st, err := c.statement(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	settings, err := c.svc.Store().GetSettings(ctx.UserContext())
	if err != nil {
		return respondError(ctx, err)
	}

	buf, err := Export.StatementWorkbook(st, *settings)
	if err != nil {
		return respondError(ctx, err)
	}

	ctx.Set("Content-Type", Export.ContentType)
	ctx.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", Export.Filename(st)))
	ctx.Set("Content-Length", fmt.Sprintf("%d", buf.Len()))
	return ctx.Send(buf.Bytes())
}

// PrintStatement renders the printable HTML bill.
func (c *PartyController) PrintStatement(ctx *fiber.Ctx) error {
	st, err := c.statement(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	settings, err := c.svc.Store().GetSettings(ctx.UserContext())
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.Render("bill", Export.PrintView(st, *settings))
}
