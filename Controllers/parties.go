package Controllers

import (
	"github.com/gofiber/fiber/v2"

	"Mandi/Models"
	"Mandi/Services"
	"Mandi/middleware"
)

// PartyController serves one party type; kisans and vyaparis share it.
type PartyController struct {
	svc       *Services.LedgerService
	validate  *Validator
	partyType Models.PartyType
}

// NewPartyController serves the routes of one party type
func NewPartyController(svc *Services.LedgerService, validate *Validator, pt Models.PartyType) *PartyController {
	return &PartyController{svc: svc, validate: validate, partyType: pt}
}

// GetParties retrieves all parties, optionally filtered by ?search=
func (c *PartyController) GetParties(ctx *fiber.Ctx) error {
	parties, err := c.svc.Store().ListParties(ctx.UserContext(), c.partyType, ctx.Query("search"))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(parties)
}

// GetParty retrieves a party by ID
func (c *PartyController) GetParty(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	party, err := c.svc.Store().GetParty(ctx.UserContext(), c.partyType, id)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(party)
}

// CreateParty creates a new party
func (c *PartyController) CreateParty(ctx *fiber.Ctx) error {
	var req Models.PartyRequest
	if err := c.validate.bind(ctx, &req); err != nil {
		return respondError(ctx, err)
	}

	party := Models.Party{
		Type:     c.partyType,
		Name:     req.Name,
		Phone:    req.Phone,
		Village:  req.Village,
		FirmName: req.FirmName,
		Address:  req.Address,
		Notes:    req.Notes,
	}
	if err := c.svc.Store().CreateParty(ctx.UserContext(), &party); err != nil {
		return respondError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(party)
}

// UpdateParty updates the fields present in the body
func (c *PartyController) UpdateParty(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	var patch Models.PartyPatch
	if err := c.validate.bind(ctx, &patch); err != nil {
		return respondError(ctx, err)
	}

	party, err := c.svc.Store().UpdateParty(ctx.UserContext(), c.partyType, id, patch)
	if err != nil {
		return respondError(ctx, err)
	}
	// cached statements carry the party's details
	c.svc.Invalidate(ctx.UserContext())
	return ctx.JSON(party)
}

// DeleteParty soft deletes a party with no history
func (c *PartyController) DeleteParty(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	if err := c.svc.Store().DeleteParty(ctx.UserContext(), c.partyType, id); err != nil {
		return respondError(ctx, err)
	}
	c.svc.Invalidate(ctx.UserContext())
	return ctx.SendStatus(fiber.StatusNoContent)
}

// Reconcile compares the cached bakaya with the party's history and, with
// ?fix=true, writes the derived balance back.
func (c *PartyController) Reconcile(ctx *fiber.Ctx) error {
	id, err := parseID(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	report, err := c.svc.ReconcileParty(ctx.UserContext(), c.partyType, id, queryBool(ctx, "fix"), middleware.UserID(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(report)
}
