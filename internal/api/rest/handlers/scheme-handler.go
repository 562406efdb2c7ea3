package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/schemeseva/scheme-service/internal/api/rest/middleware"
	"github.com/schemeseva/scheme-service/internal/dto"
	"github.com/schemeseva/scheme-service/internal/helper"
	"github.com/schemeseva/scheme-service/internal/helper/utils"
	"github.com/schemeseva/scheme-service/internal/services"
)

type SchemeHandler struct {
	svc  services.SchemeService
	auth helper.Auth
}

func NewSchemeHandler(svc services.SchemeService, auth helper.Auth) *SchemeHandler {
	return &SchemeHandler{svc: svc, auth: auth}
}

func (h *SchemeHandler) SetupRoutes(app *fiber.App) {
	schemes := app.Group("/api/schemes", middleware.AuthMiddleware(h.auth))

	schemes.Get("/", h.List)
	schemes.Get("/favorites", h.ListFavorites)

	// Admin routes must be registered before the :schemeID param route.
	admin := schemes.Group("/admin", middleware.AdminOnly())
	admin.Get("/", h.ListAllAdmin)
	admin.Post("/", h.Create)
	admin.Get("/:schemeID", h.Get)
	admin.Put("/:schemeID", h.Update)
	admin.Patch("/:schemeID", h.Update)
	admin.Delete("/:schemeID", h.Delete)

	schemes.Get("/:schemeID", h.Get)
	schemes.Post("/:schemeID/favorite", h.AddFavorite)
	schemes.Delete("/:schemeID/favorite", h.RemoveFavorite)
}

func (h *SchemeHandler) List(ctx *fiber.Ctx) error {
	caller, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	filters := dto.SchemeFilters{
		Category:   ctx.Query("category"),
		SchemeType: ctx.Query("scheme_type"),
		Search:     ctx.Query("search"),
	}

	schemes, err := h.svc.List(caller, filters)
	if err != nil {
		return respondServiceError(ctx, err, "could not load schemes")
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, schemes)
}

func (h *SchemeHandler) Get(ctx *fiber.Ctx) error {
	caller, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	schemeID, err := paramUint(ctx, "schemeID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid scheme id")
	}

	scheme, err := h.svc.Get(caller, schemeID)
	if err != nil {
		return respondServiceError(ctx, err, "could not load scheme")
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, scheme)
}

func (h *SchemeHandler) ListFavorites(ctx *fiber.Ctx) error {
	caller, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	schemes, err := h.svc.ListFavorites(caller)
	if err != nil {
		return respondServiceError(ctx, err, "could not load favorites")
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, schemes)
}

func (h *SchemeHandler) AddFavorite(ctx *fiber.Ctx) error {
	caller, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	schemeID, err := paramUint(ctx, "schemeID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid scheme id")
	}

	if err := h.svc.AddFavorite(caller, schemeID); err != nil {
		return respondServiceError(ctx, err, "could not add favorite")
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{"message": "scheme added to favorites"})
}

func (h *SchemeHandler) RemoveFavorite(ctx *fiber.Ctx) error {
	caller, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	schemeID, err := paramUint(ctx, "schemeID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid scheme id")
	}

	if err := h.svc.RemoveFavorite(caller, schemeID); err != nil {
		return respondServiceError(ctx, err, "could not remove favorite")
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{"message": "scheme removed from favorites"})
}

func (h *SchemeHandler) ListAllAdmin(ctx *fiber.Ctx) error {
	caller, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	schemes, err := h.svc.ListAllAdmin(caller)
	if err != nil {
		return respondServiceError(ctx, err, "could not load schemes")
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, schemes)
}

func (h *SchemeHandler) Create(ctx *fiber.Ctx) error {
	caller, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	var input dto.SchemeInput
	if err := ctx.BodyParser(&input); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	scheme, err := h.svc.Create(caller, input)
	if err != nil {
		return respondServiceError(ctx, err, "could not create scheme")
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, scheme)
}

func (h *SchemeHandler) Update(ctx *fiber.Ctx) error {
	caller, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	schemeID, err := paramUint(ctx, "schemeID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid scheme id")
	}

	var input dto.SchemeInput
	if err := ctx.BodyParser(&input); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	scheme, err := h.svc.Update(caller, schemeID, input)
	if err != nil {
		return respondServiceError(ctx, err, "could not update scheme")
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, scheme)
}

func (h *SchemeHandler) Delete(ctx *fiber.Ctx) error {
	caller, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	schemeID, err := paramUint(ctx, "schemeID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid scheme id")
	}

	if err := h.svc.Delete(caller, schemeID); err != nil {
		return respondServiceError(ctx, err, "could not delete scheme")
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{"message": "scheme deleted"})
}

func paramUint(ctx *fiber.Ctx, name string) (uint, error) {
	raw := ctx.Params(name)
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(parsed), nil
}
