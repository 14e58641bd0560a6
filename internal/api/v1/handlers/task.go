package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"taskms/internal/config"
	"taskms/internal/models"
	"taskms/internal/repository"
	"taskms/pkg/logger"
	"taskms/pkg/taskdate"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// validClientStatus reports whether a status value may come from a client.
// Only pending and completed are accepted; overdue is derived on reads.
func validClientStatus(status string) bool {
	switch status {
	case models.StatusPending, models.StatusCompleted:
		return true
	default:
		return false
	}
}

func validPriority(priority string) bool {
	switch priority {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
		return true
	default:
		return false
	}
}

func currentUser(c *fiber.Ctx) *models.User {
	return c.Locals("user").(*models.User)
}

func taskCacheKey(taskID int) string {
	return fmt.Sprintf("task:%d", taskID)
}

// dropTaskCache removes cached copies of the given tasks, typically after
// the overdue reconcile has changed their status.
func dropTaskCache(taskIDs []int) {
	for _, id := range taskIDs {
		config.RedisClient.Del(config.Ctx, taskCacheKey(id))
	}
}

func cacheTask(task *models.Task) {
	jsonData, err := json.Marshal(task)
	if err == nil {
		config.RedisClient.SetEX(config.Ctx, taskCacheKey(task.ID), jsonData, time.Hour)
	}
}

// CreateTask inserts a new task for the caller. New tasks always start
// pending; the client cannot pick a status here.
func CreateTask(c *fiber.Ctx) error {
	user := currentUser(c)

	type TaskRequest struct {
		Title       string `json:"title" validate:"required"`
		Description string `json:"description"`
		DueDate     string `json:"due_date" validate:"required"`
		Priority    string `json:"priority" validate:"required,oneof=low medium high"`
	}

	var req TaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create task", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
		})
	}

	if err := config.Validate.Struct(req); err != nil {
		logger.ErrorLogger.Error("Validation error in create task", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation error",
			"errors":  err.Error(),
		})
	}

	dueDate, err := taskdate.ParseDueDate(req.DueDate)
	if err != nil {
		logger.ErrorLogger.Error("Invalid due date in create task", zap.String("due_date", req.DueDate))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid date format",
		})
	}

	task, err := repository.CreateTask(config.DB, user.ID, req.Title, req.Description, req.Priority, dueDate)
	if err != nil {
		logger.ErrorLogger.Error("Error creating task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error creating task",
		})
	}

	logger.AuditLogger.Info("Task created successfully", zap.Int("task_id", task.ID))
	return c.Status(201).JSON(task)
}

// ListTasks returns every task the caller owns, after the overdue
// reconcile has run over the full set.
func ListTasks(c *fiber.Ctx) error {
	user := currentUser(c)

	changed, err := repository.ReconcileOverdue(config.DB, user.ID, 0)
	if err != nil {
		logger.ErrorLogger.Error("Error reconciling overdue tasks", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching tasks",
		})
	}
	dropTaskCache(changed)

	tasks, err := repository.ListTasks(config.DB, user.ID)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching tasks", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching tasks",
		})
	}

	for i := range tasks {
		cacheTask(&tasks[i])
	}

	logger.AuditLogger.Info("Tasks fetched successfully", zap.Int("user_id", user.ID), zap.Int("count", len(tasks)))
	return c.JSON(tasks)
}

// GetTask returns one owned task by id, reconciling its status first. A
// task owned by someone else is reported as missing.
func GetTask(c *fiber.Ctx) error {
	user := currentUser(c)

	taskID, err := c.ParamsInt("id")
	if err != nil {
		logger.ErrorLogger.Error("Invalid task ID", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid task ID",
		})
	}

	changed, err := repository.ReconcileOverdue(config.DB, user.ID, taskID)
	if err != nil {
		logger.ErrorLogger.Error("Error reconciling overdue task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching task",
		})
	}
	dropTaskCache(changed)

	// Cache lookup after the reconcile so a stale pending status can never
	// be served. Ownership mismatch on a cached row masks as not found.
	if cached, err := config.RedisClient.Get(config.Ctx, taskCacheKey(taskID)).Result(); err == nil {
		var task models.Task
		if err = json.Unmarshal([]byte(cached), &task); err == nil {
			if task.UserID != user.ID {
				return c.Status(404).JSON(fiber.Map{
					"message": "Task not found",
				})
			}
			logger.AuditLogger.Info("Task found (from cache)", zap.Int("task_id", taskID))
			return c.JSON(task)
		}
	}

	task, err := repository.GetTask(config.DB, user.ID, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{
				"message": "Task not found",
			})
		}
		logger.ErrorLogger.Error("Error fetching task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching task",
		})
	}

	cacheTask(task)

	logger.AuditLogger.Info("Task found", zap.Int("task_id", taskID))
	return c.JSON(task)
}

// UpdateTask applies a partial update to title, description and status.
// Fields absent from the payload stay as they are.
func UpdateTask(c *fiber.Ctx) error {
	user := currentUser(c)

	taskID, err := c.ParamsInt("id")
	if err != nil {
		logger.ErrorLogger.Error("Invalid task ID", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid task ID",
		})
	}

	// Pointer fields distinguish "absent" from "present but empty"
	type UpdateTaskRequest struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Status      *string `json:"status"`
	}

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in update task", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
		})
	}

	if req.Status != nil && !validClientStatus(*req.Status) {
		logger.ErrorLogger.Error("Invalid status in update task", zap.String("status", *req.Status))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid status",
		})
	}

	task, err := repository.UpdateTask(config.DB, user.ID, taskID, repository.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{
				"message": "Task not found",
			})
		}
		logger.ErrorLogger.Error("Error updating task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error updating task",
		})
	}

	// Refresh the cache with the updated row
	config.RedisClient.Del(config.Ctx, taskCacheKey(taskID))
	cacheTask(task)

	logger.AuditLogger.Info("Task updated", zap.Int("task_id", taskID))
	return c.JSON(task)
}

// DeleteTask removes an owned task.
func DeleteTask(c *fiber.Ctx) error {
	user := currentUser(c)

	taskID, err := c.ParamsInt("id")
	if err != nil {
		logger.ErrorLogger.Error("Invalid task ID", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid task ID",
		})
	}

	if err := repository.DeleteTask(config.DB, user.ID, taskID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{
				"message": "Task not found",
			})
		}
		logger.ErrorLogger.Error("Error deleting task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error deleting task",
		})
	}

	config.RedisClient.Del(config.Ctx, taskCacheKey(taskID))

	logger.AuditLogger.Info("Task deleted", zap.Int("task_id", taskID))
	return c.JSON(fiber.Map{
		"message": "Task deleted successfully",
	})
}
