package Controllers

import (
	"github.com/gofiber/fiber/v2"

	"Mandi/Ledger"
	"Mandi/Models"
	"Mandi/Services"
	"Mandi/middleware"
)

type DashboardController struct {
	svc   *Services.LedgerService
	rates Services.RateSource
}

// NewDashboardController takes the market rate source, nil when no board is
// configured.
func NewDashboardController(svc *Services.LedgerService, rates Services.RateSource) *DashboardController {
	return &DashboardController{svc: svc, rates: rates}
}

// GetDailySummary reports ?date= (default today).
func (c *DashboardController) GetDailySummary(ctx *fiber.Ctx) error {
	day, err := queryDate(ctx, "date")
	if err != nil {
		return respondError(ctx, err)
	}
	if day == nil {
		today := c.svc.Today()
		day = &today
	}
	summary, err := c.svc.DailySummary(ctx.UserContext(), *day)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(summary)
}

// GetBootstrap returns parties, products and settings in one response
func (c *DashboardController) GetBootstrap(ctx *fiber.Ctx) error {
	b, err := c.svc.Bootstrap(ctx.UserContext())
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(b)
}

// GetMonthly retrieves trade volume per month, ?months= back from today
func (c *DashboardController) GetMonthly(ctx *fiber.Ctx) error {
	months, err := c.svc.Store().MonthlyVolumes(ctx.UserContext(), c.svc.Today(), queryInt(ctx, "months", 12))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(months)
}

// GetTopParties ranks kisans or vyaparis by gross trade
func (c *DashboardController) GetTopParties(ctx *fiber.Ctx) error {
	pt := Models.PartyType(ctx.Query("type", string(Models.PartyKisan)))
	if !pt.Valid() {
		return respondError(ctx, Ledger.Invalid("type", "must be kisan or vyapari"))
	}
	parties, err := c.svc.Store().TopParties(ctx.UserContext(), pt, queryInt(ctx, "limit", 10))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(parties)
}

// GetRecentActivity retrieves the latest transactions and payments
func (c *DashboardController) GetRecentActivity(ctx *fiber.Ctx) error {
	activity, err := c.svc.Store().RecentActivity(ctx.UserContext(), queryInt(ctx, "limit", 20))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(activity)
}

// Reconcile checks every party's cached bakaya; ?fix=true writes the
// derived balances back.
func (c *DashboardController) Reconcile(ctx *fiber.Ctx) error {
	report, err := c.svc.Reconcile(ctx.UserContext(), queryBool(ctx, "fix"), middleware.UserID(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(report)
}

// GetMarketRates retrieves stored board rates, optionally for one ?commodity=
func (c *DashboardController) GetMarketRates(ctx *fiber.Ctx) error {
	rates, err := c.svc.Store().ListMarketRates(ctx.UserContext(), ctx.Query("commodity"), queryInt(ctx, "limit", 100))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(rates)
}

// RefreshMarketRates fetches today's rates from the configured board
func (c *DashboardController) RefreshMarketRates(ctx *fiber.Ctx) error {
	if c.rates == nil {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "market rates source is not configured"})
	}
	rates, err := c.svc.RefreshMarketRates(ctx.UserContext(), c.rates, c.svc.Today())
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(fiber.Map{"updated": len(rates), "rates": rates})
}

// Health pings the database
func (c *DashboardController) Health(ctx *fiber.Ctx) error {
	sqlDB, err := c.svc.Store().DB.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx.UserContext())
	}
	if err != nil {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "down", "retry": true})
	}
	return ctx.JSON(fiber.Map{"status": "ok"})
}
