package Controllers

import (
	"github.com/gofiber/fiber/v2"

	"Mandi/Models"
	"Mandi/Services"
	"Mandi/middleware"
)

type SettingsController struct {
	svc      *Services.LedgerService
	validate *Validator
}

func NewSettingsController(svc *Services.LedgerService, validate *Validator) *SettingsController {
	return &SettingsController{svc: svc, validate: validate}
}

// GetSettings retrieves the mandi settings
func (c *SettingsController) GetSettings(ctx *fiber.Ctx) error {
	settings, err := c.svc.Store().GetSettings(ctx.UserContext())
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(settings)
}

// UpdateSettings changes the default commission rates used by new
// transactions. Stored transactions keep the rates they were recorded with.
func (c *SettingsController) UpdateSettings(ctx *fiber.Ctx) error {
	var patch Models.SettingsPatch
	if err := c.validate.bind(ctx, &patch); err != nil {
		return respondError(ctx, err)
	}
	settings, err := c.svc.Store().UpdateSettings(ctx.UserContext(), patch, middleware.UserID(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(settings)
}
