package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/schemeseva/scheme-service/internal/api/rest/middleware"
	"github.com/schemeseva/scheme-service/internal/dto"
	"github.com/schemeseva/scheme-service/internal/helper"
	"github.com/schemeseva/scheme-service/internal/helper/utils"
	"github.com/schemeseva/scheme-service/internal/services"
)

type AdminHandler struct {
	svc  services.AdminService
	auth helper.Auth
}

func NewAdminHandler(svc services.AdminService, auth helper.Auth) *AdminHandler {
	return &AdminHandler{svc: svc, auth: auth}
}

func (h *AdminHandler) SetupRoutes(app *fiber.App) {
	admin := app.Group("/api/admin", middleware.AuthMiddleware(h.auth), middleware.AdminOnly())

	admin.Get("/stats", h.Stats)
	admin.Get("/users", h.ListUsers)
	admin.Get("/users/:userID", h.GetUser)
	admin.Patch("/users/:userID", h.UpdateUser)
	admin.Put("/users/:userID", h.UpdateUser)
}

func (h *AdminHandler) Stats(ctx *fiber.Ctx) error {
	caller, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	stats, err := h.svc.Stats(caller)
	if err != nil {
		return respondServiceError(ctx, err, "could not load dashboard stats")
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, stats)
}

func (h *AdminHandler) ListUsers(ctx *fiber.Ctx) error {
	caller, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	users, err := h.svc.ListUsers(caller, ctx.Query("search"))
	if err != nil {
		return respondServiceError(ctx, err, "could not load users")
	}

	out := make([]dto.UserProfileResponse, 0, len(users))
	for i := range users {
		out = append(out, toProfileResponse(&users[i]))
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, out)
}

func (h *AdminHandler) GetUser(ctx *fiber.Ctx) error {
	caller, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	userID, err := paramUint(ctx, "userID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid user id")
	}

	user, err := h.svc.GetUser(caller, userID)
	if err != nil {
		return respondServiceError(ctx, err, "could not load user")
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, toProfileResponse(user))
}

func (h *AdminHandler) UpdateUser(ctx *fiber.Ctx) error {
	caller, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	userID, err := paramUint(ctx, "userID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid user id")
	}

	var input dto.UpdateUserProfile
	if err := ctx.BodyParser(&input); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	user, err := h.svc.UpdateUser(caller, userID, input)
	if err != nil {
		return respondServiceError(ctx, err, "could not update user")
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, toProfileResponse(user))
}
