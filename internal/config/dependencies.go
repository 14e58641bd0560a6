package config

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
)

var (
	// Global dependencies shared across the application, set during startup
	DB          *sql.DB
	SecretKey   []byte
	Validate    = validator.New()
	Ctx         = context.Background()
	RedisClient *redis.Client
)
