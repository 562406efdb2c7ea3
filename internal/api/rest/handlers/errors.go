package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/schemeseva/scheme-service/internal/apperr"
	"github.com/schemeseva/scheme-service/internal/helper/utils"
)

// respondServiceError maps the service error taxonomy onto HTTP codes.
// Anything outside the taxonomy is logged and reported with the given
// generic message only; internal detail never reaches the caller.
func respondServiceError(ctx *fiber.Ctx, err error, generic string) error {
	if ve, ok := apperr.AsValidation(err); ok {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, ve.Error())
	}
	switch {
	case errors.Is(err, apperr.ErrDuplicateApplicationID):
		return utils.ResponseError(ctx, fiber.StatusBadRequest, apperr.ErrDuplicateApplicationID.Error())
	case errors.Is(err, apperr.ErrNotFound):
		return utils.ResponseError(ctx, fiber.StatusNotFound, "not found")
	case errors.Is(err, apperr.ErrForbidden):
		return utils.ResponseError(ctx, fiber.StatusForbidden, "permission denied")
	default:
		log.Printf("%s %s: %v", ctx.Method(), ctx.Path(), err)
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, generic)
	}
}
