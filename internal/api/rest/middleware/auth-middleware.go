package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/schemeseva/scheme-service/internal/dto"
	"github.com/schemeseva/scheme-service/internal/helper"
)

func AuthMiddleware(auth helper.Auth) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		// 1) try cookie first
		tokenStr := strings.TrimSpace(ctx.Cookies("access_token"))

		// 2) fallback to Authorization header
		if tokenStr == "" {
			tokenStr = strings.TrimSpace(ctx.Get("Authorization"))
		}

		caller, err := auth.VerifyToken(tokenStr)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		ctx.Locals("userID", caller.UserID)
		ctx.Locals("auth", caller)
		return ctx.Next()
	}
}

// AdminOnly trusts the staff claim carried by the verified token; the
// claim is set at login from the user row.
func AdminOnly() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		caller, ok := ctx.Locals("auth").(dto.AuthContext)
		if !ok || caller.UserID == 0 {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		if !caller.Staff {
			return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "admin privileges required",
			})
		}

		return ctx.Next()
	}
}
