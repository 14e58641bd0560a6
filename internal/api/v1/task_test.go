package v1

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestCreateTask(t *testing.T) {
	app := createTestApp()
	tokenString := newTestUser(t, app, "taskuser")

	task := createTask(t, app, tokenString, map[string]string{
		"title":       "Write report",
		"description": "Quarterly report",
		"due_date":    "15-03-2024",
		"priority":    "high",
	})

	if task["id"] == nil {
		t.Error("Expected task id in response")
	}
	if task["status"] != "pending" {
		t.Errorf("New task must start pending, got %v", task["status"])
	}
	if task["priority"] != "high" {
		t.Errorf("Expected priority high, got %v", task["priority"])
	}
	// DD-MM-YYYY input must land on March 15 2024
	dueDate, _ := task["due_date"].(string)
	if !strings.HasPrefix(dueDate, "2024-03-15") {
		t.Errorf("Expected due_date 2024-03-15, got %v", dueDate)
	}
}

func TestCreateTaskISODate(t *testing.T) {
	app := createTestApp()
	tokenString := newTestUser(t, app, "isouser")

	task := createTask(t, app, tokenString, map[string]string{
		"title":    "ISO dated",
		"due_date": "2024-03-15",
		"priority": "low",
	})
	dueDate, _ := task["due_date"].(string)
	if !strings.HasPrefix(dueDate, "2024-03-15") {
		t.Errorf("Expected due_date 2024-03-15, got %v", dueDate)
	}
}

func TestCreateTaskInvalidDate(t *testing.T) {
	app := createTestApp()
	tokenString := newTestUser(t, app, "baddate")

	resp, result := doJSON(t, app, "POST", "/task", tokenString, map[string]string{
		"title":    "Bad date",
		"due_date": "someday",
		"priority": "low",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400 for malformed date, got %d", resp.StatusCode)
	}
	if result["message"] != "Invalid date format" {
		t.Errorf("Unexpected message: %v", result["message"])
	}
}

func TestCreateTaskMissingFields(t *testing.T) {
	app := createTestApp()
	tokenString := newTestUser(t, app, "missing")

	// No title
	resp, _ := doJSON(t, app, "POST", "/task", tokenString, map[string]string{
		"due_date": "2024-03-15",
		"priority": "low",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400 without title, got %d", resp.StatusCode)
	}

	// Bad priority
	resp, _ = doJSON(t, app, "POST", "/task", tokenString, map[string]string{
		"title":    "No such priority",
		"due_date": "2024-03-15",
		"priority": "urgent",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400 for bad priority, got %d", resp.StatusCode)
	}
}

func TestGetTask(t *testing.T) {
	app := createTestApp()
	tokenString := newTestUser(t, app, "getuser")

	created := createTask(t, app, tokenString, map[string]string{
		"title":    "Fetch me",
		"due_date": "2030-01-01",
		"priority": "medium",
	})
	taskID := int(created["id"].(float64))

	resp, result := doJSON(t, app, "GET", fmt.Sprintf("/task/%d", taskID), tokenString, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if result["title"] != "Fetch me" {
		t.Errorf("Expected title Fetch me, got %v", result["title"])
	}

	// Second fetch is served from cache and must agree
	resp, result = doJSON(t, app, "GET", fmt.Sprintf("/task/%d", taskID), tokenString, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200 on cached fetch, got %d", resp.StatusCode)
	}
	if result["title"] != "Fetch me" {
		t.Errorf("Cached fetch disagrees: %v", result["title"])
	}
}

func TestTaskOwnershipIsolation(t *testing.T) {
	app := createTestApp()
	tokenA := newTestUser(t, app, "owner_a")
	tokenB := newTestUser(t, app, "owner_b")

	created := createTask(t, app, tokenA, map[string]string{
		"title":    "A's private task",
		"due_date": "2030-01-01",
		"priority": "low",
	})
	taskID := int(created["id"].(float64))

	// B must not see A's task in a list
	for _, task := range listTasks(t, app, tokenB) {
		if int(task["id"].(float64)) == taskID {
			t.Error("User B's list contains user A's task")
		}
	}

	// Get, update and delete by B must all be indistinguishable from a
	// missing task
	resp, _ := doJSON(t, app, "GET", fmt.Sprintf("/task/%d", taskID), tokenB, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for B's get, got %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, app, "PUT", fmt.Sprintf("/task/%d", taskID), tokenB, map[string]string{"title": "stolen"})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for B's update, got %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, app, "DELETE", fmt.Sprintf("/task/%d", taskID), tokenB, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for B's delete, got %d", resp.StatusCode)
	}

	// A still owns an untouched task
	resp, result := doJSON(t, app, "GET", fmt.Sprintf("/task/%d", taskID), tokenA, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 for A's get, got %d", resp.StatusCode)
	}
	if result["title"] != "A's private task" {
		t.Errorf("A's task was modified: %v", result["title"])
	}
}

func TestUpdateTaskPartial(t *testing.T) {
	app := createTestApp()
	tokenString := newTestUser(t, app, "upduser")

	created := createTask(t, app, tokenString, map[string]string{
		"title":       "Original title",
		"description": "Original description",
		"due_date":    "2030-01-01",
		"priority":    "medium",
	})
	taskID := int(created["id"].(float64))

	// Only status in the payload: title and description stay untouched
	resp, result := doJSON(t, app, "PUT", fmt.Sprintf("/task/%d", taskID), tokenString, map[string]string{
		"status": "completed",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if result["status"] != "completed" {
		t.Errorf("Expected status completed, got %v", result["status"])
	}
	if result["title"] != "Original title" {
		t.Errorf("Title was nulled by partial update: %v", result["title"])
	}
	if result["description"] != "Original description" {
		t.Errorf("Description was nulled by partial update: %v", result["description"])
	}

	// Title-only update leaves the new status alone
	resp, result = doJSON(t, app, "PUT", fmt.Sprintf("/task/%d", taskID), tokenString, map[string]string{
		"title": "Renamed",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if result["title"] != "Renamed" {
		t.Errorf("Expected title Renamed, got %v", result["title"])
	}
	if result["status"] != "completed" {
		t.Errorf("Status reverted by unrelated update: %v", result["status"])
	}
}

func TestUpdateTaskRejectsOverdue(t *testing.T) {
	app := createTestApp()
	tokenString := newTestUser(t, app, "overduereq")

	created := createTask(t, app, tokenString, map[string]string{
		"title":    "Cannot force overdue",
		"due_date": "2030-01-01",
		"priority": "low",
	})
	taskID := int(created["id"].(float64))

	resp, _ := doJSON(t, app, "PUT", fmt.Sprintf("/task/%d", taskID), tokenString, map[string]string{
		"status": "overdue",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400 for client-set overdue, got %d", resp.StatusCode)
	}
}

func TestDeleteTask(t *testing.T) {
	app := createTestApp()
	tokenString := newTestUser(t, app, "deluser")

	created := createTask(t, app, tokenString, map[string]string{
		"title":    "Delete me",
		"due_date": "2030-01-01",
		"priority": "low",
	})
	taskID := int(created["id"].(float64))

	resp, result := doJSON(t, app, "DELETE", fmt.Sprintf("/task/%d", taskID), tokenString, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if result["message"] != "Task deleted successfully" {
		t.Errorf("Unexpected delete message: %v", result["message"])
	}

	resp, _ = doJSON(t, app, "GET", fmt.Sprintf("/task/%d", taskID), tokenString, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", resp.StatusCode)
	}
}

func TestOverdueDerivationOnList(t *testing.T) {
	app := createTestApp()
	tokenString := newTestUser(t, app, "overdue")

	pastDue := time.Now().UTC().AddDate(0, 0, -2).Format("2006-01-02")
	created := createTask(t, app, tokenString, map[string]string{
		"title":    "Already late",
		"due_date": pastDue,
		"priority": "high",
	})
	taskID := int(created["id"].(float64))
	if created["status"] != "pending" {
		t.Fatalf("Task must start pending, got %v", created["status"])
	}

	// Listing derives and persists overdue
	var found bool
	for _, task := range listTasks(t, app, tokenString) {
		if int(task["id"].(float64)) == taskID {
			found = true
			if task["status"] != "overdue" {
				t.Errorf("Expected overdue after list, got %v", task["status"])
			}
		}
	}
	if !found {
		t.Fatal("Created task missing from list")
	}

	// The transition persists across subsequent reads
	resp, result := doJSON(t, app, "GET", fmt.Sprintf("/task/%d", taskID), tokenString, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if result["status"] != "overdue" {
		t.Errorf("Overdue status did not persist, got %v", result["status"])
	}
}

func TestOverdueDerivationOnGet(t *testing.T) {
	app := createTestApp()
	tokenString := newTestUser(t, app, "overdueget")

	pastDue := time.Now().UTC().AddDate(0, 0, -2).Format("2006-01-02")
	created := createTask(t, app, tokenString, map[string]string{
		"title":    "Late and fetched directly",
		"due_date": pastDue,
		"priority": "low",
	})
	taskID := int(created["id"].(float64))

	resp, result := doJSON(t, app, "GET", fmt.Sprintf("/task/%d", taskID), tokenString, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if result["status"] != "overdue" {
		t.Errorf("Expected overdue after get, got %v", result["status"])
	}
}

func TestCompletedNeverBecomesOverdue(t *testing.T) {
	app := createTestApp()
	tokenString := newTestUser(t, app, "completed")

	pastDue := time.Now().UTC().AddDate(0, 0, -2).Format("2006-01-02")
	created := createTask(t, app, tokenString, map[string]string{
		"title":    "Done before the deadline check",
		"due_date": pastDue,
		"priority": "medium",
	})
	taskID := int(created["id"].(float64))

	// Mark completed before any status-deriving read
	resp, _ := doJSON(t, app, "PUT", fmt.Sprintf("/task/%d", taskID), tokenString, map[string]string{
		"status": "completed",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	for _, task := range listTasks(t, app, tokenString) {
		if int(task["id"].(float64)) == taskID && task["status"] != "completed" {
			t.Errorf("Completed task was overridden to %v", task["status"])
		}
	}
}
