package Controllers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"Mandi/Ledger"
)

// respondError maps the ledger error taxonomy onto HTTP responses.
func respondError(ctx *fiber.Ctx, err error) error {
	var verr *Ledger.ValidationError
	var bad *badRequest
	switch {
	case errors.As(err, &bad):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": bad.message})
	case errors.As(err, &verr):
		body := fiber.Map{"error": verr.Message}
		if verr.Field != "" {
			body["field"] = verr.Field
		}
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(body)
	case errors.Is(err, Ledger.ErrNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, Ledger.ErrConflict):
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, Ledger.ErrStoreUnavailable):
		log.Error().Err(err).Str("path", ctx.Path()).Msg("store unavailable")
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "service temporarily unavailable, please retry",
			"retry": true,
		})
	}
	log.Error().Err(err).Str("path", ctx.Path()).Msg("unhandled error")
	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

func parseID(ctx *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(ctx.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, Ledger.Invalid("id", "must be a positive integer")
	}
	return uint(id), nil
}

// queryUint reads an optional id filter; zero means absent.
func queryUint(ctx *fiber.Ctx, key string) (uint, error) {
	raw := ctx.Query(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, Ledger.Invalid(key, "must be a positive integer")
	}
	return uint(v), nil
}

// queryDate reads an optional YYYY-MM-DD query value under any of the keys.
func queryDate(ctx *fiber.Ctx, keys ...string) (*time.Time, error) {
	for _, key := range keys {
		raw := ctx.Query(key)
		if raw == "" {
			continue
		}
		t, err := Ledger.ParseDate(key, raw)
		if err != nil {
			return nil, err
		}
		return &t, nil
	}
	return nil, nil
}

func queryInt(ctx *fiber.Ctx, key string, def int) int {
	v, err := strconv.Atoi(ctx.Query(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func queryBool(ctx *fiber.Ctx, key string) bool {
	v, _ := strconv.ParseBool(ctx.Query(key))
	return v
}
