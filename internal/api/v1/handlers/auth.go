package handlers

import (
	"errors"

	"taskms/internal/config"
	"taskms/internal/repository"
	"taskms/pkg/logger"
	"taskms/pkg/password"
	"taskms/pkg/token"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Register creates a new user account and returns its public fields.
func Register(c *fiber.Ctx) error {
	type RegisterRequest struct {
		Username string `json:"username" validate:"required,excludesall=@?"`
		Password string `json:"password" validate:"required,min=6"`
	}

	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in register", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
		})
	}

	if err := config.Validate.Struct(req); err != nil {
		logger.AuditLogger.Warn("Validation error during register", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation error",
			"errors":  err.Error(),
		})
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		logger.ErrorLogger.Error("Error hashing password", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error hashing password",
		})
	}

	user, err := repository.CreateUser(config.DB, req.Username, hashed)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			logger.SecurityLogger.Warn("Duplicate username", zap.String("username", req.Username))
			return c.Status(400).JSON(fiber.Map{
				"message": "username already exists",
			})
		}
		logger.ErrorLogger.Error("Error creating user", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error creating user",
		})
	}

	logger.AuditLogger.Info("User registered successfully", zap.Int("user_id", user.ID))
	return c.Status(201).JSON(user)
}

// Login checks form credentials and mints a bearer token for the user.
func Login(c *fiber.Ctx) error {
	type LoginRequest struct {
		Username string `form:"username" validate:"required"`
		Password string `form:"password" validate:"required"`
	}

	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in login", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
		})
	}

	if err := config.Validate.Struct(req); err != nil {
		logger.AuditLogger.Warn("Validation error during login", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation error",
			"errors":  err.Error(),
		})
	}

	// Same 401 for unknown user and wrong password
	user, err := repository.FindUserByUsername(config.DB, req.Username)
	if err != nil {
		logger.SecurityLogger.Warn("Login for unknown user", zap.String("username", req.Username))
		return c.Status(401).JSON(fiber.Map{
			"message": "Incorrect username or password",
		})
	}
	if !password.Verify(req.Password, user.PasswordHash) {
		logger.SecurityLogger.Warn("Invalid password", zap.String("username", req.Username))
		return c.Status(401).JSON(fiber.Map{
			"message": "Incorrect username or password",
		})
	}

	accessToken, err := token.Issue(user.Username, config.SecretKey)
	if err != nil {
		logger.ErrorLogger.Error("Error generating token", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error generating token",
		})
	}

	logger.AuditLogger.Info("Login success", zap.Int("user_id", user.ID))
	return c.JSON(fiber.Map{
		"access_token": accessToken,
		"token_type":   "bearer",
	})
}
