package v1

import (
	"taskms/internal/api/v1/handlers"
	"taskms/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App) {
	// Auth (no token required)
	app.Post("/register", handlers.Register)
	app.Post("/login", handlers.Login)

	// Current user
	app.Get("/users/me/", middleware.UseToken, handlers.Me)

	// Tasks
	app.Get("/tasks", middleware.UseToken, handlers.ListTasks)
	app.Get("/tasks/search", middleware.UseToken, handlers.SearchTasks)
	app.Post("/task", middleware.UseToken, handlers.CreateTask)
	app.Get("/task/:id", middleware.UseToken, handlers.GetTask)
	app.Put("/task/:id", middleware.UseToken, handlers.UpdateTask)
	app.Delete("/task/:id", middleware.UseToken, handlers.DeleteTask)
}
