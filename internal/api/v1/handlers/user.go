package handlers

import (
	"taskms/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Me returns the authenticated user resolved by the auth middleware.
func Me(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	return c.JSON(user)
}
