package handlers

import (
	"errors"

	"taskms/internal/config"
	"taskms/internal/models"
	"taskms/internal/repository"
	"taskms/pkg/logger"
	"taskms/pkg/taskdate"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SearchTasks filters the caller's tasks by priority, status, due date and
// keyword. Filters combine with AND; each is optional. The overdue
// reconcile runs first so search and list never disagree on status.
func SearchTasks(c *fiber.Ctx) error {
	user := currentUser(c)

	filter := repository.TaskFilter{
		Priority: c.Query("priority"),
		Status:   c.Query("status"),
		DueDate:  c.Query("due_date"),
		Keyword:  c.Query("keyword"),
	}

	if filter.Priority != "" && !validPriority(filter.Priority) {
		logger.ErrorLogger.Error("Invalid priority in search", zap.String("priority", filter.Priority))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid priority",
		})
	}
	if filter.Status != "" && !validSearchStatus(filter.Status) {
		logger.ErrorLogger.Error("Invalid status in search", zap.String("status", filter.Status))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid status",
		})
	}

	changed, err := repository.ReconcileOverdue(config.DB, user.ID, 0)
	if err != nil {
		logger.ErrorLogger.Error("Error reconciling overdue tasks", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error searching tasks",
		})
	}
	dropTaskCache(changed)

	tasks, err := repository.SearchTasks(config.DB, user.ID, filter)
	if err != nil {
		if errors.Is(err, taskdate.ErrInvalidDate) {
			return c.Status(400).JSON(fiber.Map{
				"message": "Invalid date format",
			})
		}
		logger.ErrorLogger.Error("Error searching tasks", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error searching tasks",
		})
	}

	logger.AuditLogger.Info("Task search", zap.Int("user_id", user.ID), zap.Int("count", len(tasks)))
	return c.JSON(tasks)
}

// validSearchStatus allows any stored status value, overdue included; the
// search filter matches what is persisted, unlike a client update.
func validSearchStatus(status string) bool {
	return validClientStatus(status) || status == models.StatusOverdue
}
