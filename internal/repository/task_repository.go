package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"taskms/internal/models"
	"taskms/pkg/taskdate"
)

const taskColumns = "id, user_id, title, description, priority, due_date, status, created_at, updated_at"

// TaskUpdate carries a partial update. A nil field was absent from the
// payload and must leave the stored value untouched.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *string
}

// TaskFilter holds the optional, conjunctive search filters.
type TaskFilter struct {
	Priority string
	Status   string
	DueDate  string
	Keyword  string
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner, task *models.Task) error {
	return row.Scan(
		&task.ID, &task.UserID, &task.Title, &task.Description,
		&task.Priority, &task.DueDate, &task.Status,
		&task.CreatedAt, &task.UpdatedAt,
	)
}

func CreateTask(db *sql.DB, ownerID int, title, description, priority string, dueDate time.Time) (*models.Task, error) {
	var task models.Task
	err := scanTask(db.QueryRow(
		"INSERT INTO tasks (user_id, title, description, priority, due_date, status) VALUES ($1, $2, $3, $4, $5, 'pending') RETURNING "+taskColumns,
		ownerID, title, description, priority, dueDate,
	), &task)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// GetTask returns the task only when it belongs to ownerID. A task owned by
// someone else yields the same ErrNotFound as a missing one.
func GetTask(db *sql.DB, ownerID, taskID int) (*models.Task, error) {
	var task models.Task
	err := scanTask(db.QueryRow(
		"SELECT "+taskColumns+" FROM tasks WHERE id = $1 AND user_id = $2",
		taskID, ownerID,
	), &task)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// UpdateTask applies only the fields present in upd. Nil pointers become SQL
// NULLs, so COALESCE keeps the stored value for absent fields.
func UpdateTask(db *sql.DB, ownerID, taskID int, upd TaskUpdate) (*models.Task, error) {
	var task models.Task
	err := scanTask(db.QueryRow(`
		UPDATE tasks
		SET title = COALESCE($1, title),
			description = COALESCE($2, description),
			status = COALESCE($3, status),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $4 AND user_id = $5
		RETURNING `+taskColumns,
		upd.Title, upd.Description, upd.Status, taskID, ownerID,
	), &task)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

func DeleteTask(db *sql.DB, ownerID, taskID int) error {
	res, err := db.Exec("DELETE FROM tasks WHERE id = $1 AND user_id = $2", taskID, ownerID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func ListTasks(db *sql.DB, ownerID int) ([]models.Task, error) {
	rows, err := db.Query("SELECT "+taskColumns+" FROM tasks WHERE user_id = $1 ORDER BY id", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

// SearchTasks applies the optional filters conjunctively. The due_date
// filter understands the Today / This week / Overdue keywords and explicit
// ISO dates; anything else is taskdate.ErrInvalidDate.
func SearchTasks(db *sql.DB, ownerID int, filter TaskFilter) ([]models.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks WHERE user_id = $1"
	args := []interface{}{ownerID}

	if filter.Priority != "" {
		args = append(args, filter.Priority)
		query += fmt.Sprintf(" AND priority = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.DueDate != "" {
		switch filter.DueDate {
		case taskdate.KeywordToday:
			query += " AND due_date::date = CURRENT_DATE"
		case taskdate.KeywordThisWeek:
			monday, sunday := taskdate.WeekRange(time.Now().UTC())
			args = append(args, monday)
			query += fmt.Sprintf(" AND due_date::date >= $%d::date", len(args))
			args = append(args, sunday)
			query += fmt.Sprintf(" AND due_date::date <= $%d::date", len(args))
		case taskdate.KeywordOverdue:
			query += " AND due_date::date < CURRENT_DATE"
		default:
			searchDate, err := taskdate.ParseSearchDate(filter.DueDate)
			if err != nil {
				return nil, err
			}
			args = append(args, searchDate)
			query += fmt.Sprintf(" AND due_date::date = $%d::date", len(args))
		}
	}
	if filter.Keyword != "" {
		args = append(args, "%"+filter.Keyword+"%")
		query += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d)", len(args), len(args))
	}
	query += " ORDER BY id"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

// ReconcileOverdue flips pending tasks whose due date has passed to overdue
// in a single conditional update and reports which rows changed. taskID > 0
// limits the reconcile to that one task. Completed tasks are never touched.
func ReconcileOverdue(db *sql.DB, ownerID, taskID int) ([]int, error) {
	query := `
		UPDATE tasks
		SET status = 'overdue', updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $1 AND status = 'pending'
		  AND due_date IS NOT NULL AND due_date::date < CURRENT_DATE`
	args := []interface{}{ownerID}
	if taskID > 0 {
		args = append(args, taskID)
		query += fmt.Sprintf(" AND id = $%d", len(args))
	}
	query += " RETURNING id"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func collectTasks(rows *sql.Rows) ([]models.Task, error) {
	tasks := []models.Task{}
	for rows.Next() {
		var task models.Task
		if err := scanTask(rows, &task); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}
