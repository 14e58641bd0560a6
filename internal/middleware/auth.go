package middleware

import (
	"errors"
	"strings"

	"taskms/internal/config"
	"taskms/internal/repository"
	"taskms/pkg/logger"
	"taskms/pkg/token"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Every failure mode maps to the same 401 body so clients cannot probe
// which check rejected them.
func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": "Could not validate credentials",
	})
}

// UseToken resolves the bearer token to a user and stores it in Locals.
// Handlers behind this middleware can rely on Locals("user") being a
// *models.User.
func UseToken(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return unauthorized(c)
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return unauthorized(c)
	}

	username, err := token.Verify(parts[1], config.SecretKey)
	if err != nil {
		if errors.Is(err, token.ErrExpiredToken) {
			logger.SecurityLogger.Warn("Expired token presented")
		} else {
			logger.SecurityLogger.Warn("Invalid token presented", zap.Error(err))
		}
		return unauthorized(c)
	}

	user, err := repository.FindUserByUsername(config.DB, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.SecurityLogger.Warn("Token subject not found", zap.String("username", username))
			return unauthorized(c)
		}
		logger.ErrorLogger.Error("Error resolving token subject", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Error resolving user",
		})
	}

	c.Locals("user", user)
	return c.Next()
}
