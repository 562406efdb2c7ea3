package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/schemeseva/scheme-service/internal/api/rest/middleware"
	"github.com/schemeseva/scheme-service/internal/domain"
	"github.com/schemeseva/scheme-service/internal/dto"
	"github.com/schemeseva/scheme-service/internal/helper"
	"github.com/schemeseva/scheme-service/internal/helper/utils"
	"github.com/schemeseva/scheme-service/internal/services"
)

type UserHandler struct {
	svc  services.UserService
	auth helper.Auth
}

func NewUserHandler(svc services.UserService, auth helper.Auth) *UserHandler {
	return &UserHandler{svc: svc, auth: auth}
}

func (h *UserHandler) SetupRoutes(app *fiber.App) {
	authGroup := app.Group("/api/auth")

	authGroup.Post("/register", h.Register)
	authGroup.Post("/login", h.Login)

	profile := authGroup.Group("/profile", middleware.AuthMiddleware(h.auth))
	profile.Get("/", h.GetProfile)
	profile.Put("/", h.UpdateProfile)
	profile.Patch("/", h.UpdateProfile)
}

func (h *UserHandler) Register(ctx *fiber.Ctx) error {
	var requestBody dto.RegisterRequest

	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	user, err := h.svc.Register(requestBody)
	if err != nil {
		return respondServiceError(ctx, err, "Registration failed. Please try again.")
	}

	// Immediate login: the fresh account gets a token right away.
	token, err := h.auth.GenerateToken(user.ID, user.Username, user.IsStaff)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, "could not generate token")
	}

	return utils.ResponseSuccess(ctx, fiber.StatusCreated, dto.LoginResponse{
		Message: "Account created successfully! Welcome to Scheme Seva.",
		Token:   token,
		User:    toProfileResponse(user),
	})
}

func (h *UserHandler) Login(ctx *fiber.Ctx) error {
	var requestBody dto.UserLogin
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "username and password are required")
	}

	user, err := h.svc.Login(requestBody)
	if err != nil {
		return respondServiceError(ctx, err, "Login failed. Please try again.")
	}

	token, err := h.auth.GenerateToken(user.ID, user.Username, user.IsStaff)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, "could not generate token")
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, dto.LoginResponse{
		Message: "Welcome back, " + displayName(user) + "! Login successful.",
		Token:   token,
		User:    toProfileResponse(user),
	})
}

func (h *UserHandler) GetProfile(ctx *fiber.Ctx) error {
	caller, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	user, err := h.svc.GetProfile(caller.UserID)
	if err != nil {
		return respondServiceError(ctx, err, "could not load profile")
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, toProfileResponse(user))
}

func (h *UserHandler) UpdateProfile(ctx *fiber.Ctx) error {
	caller, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	var requestBody dto.UpdateUserProfile
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	user, err := h.svc.UpdateProfile(caller.UserID, requestBody)
	if err != nil {
		return respondServiceError(ctx, err, "could not update profile")
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, toProfileResponse(user))
}

func displayName(user *domain.User) string {
	if user.FirstName != "" {
		return user.FirstName
	}
	return user.Username
}

func toProfileResponse(user *domain.User) dto.UserProfileResponse {
	return dto.UserProfileResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Phone:       user.Phone,
		IncomeGroup: user.IncomeGroup,
		State:       user.State,
		Age:         user.Age,
		Gender:      user.Gender,
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
		Status:      user.Status,
		CreatedAt:   user.CreatedAt.Format(time.RFC3339),
	}
}
