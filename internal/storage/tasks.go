package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// TaskRecord represents a task row
type TaskRecord struct {
	ID                int64
	ProjectID         int64
	Title             string
	Description       string
	Status            string
	Priority          string
	AssignedTo        *int64
	Deadline          string
	PhaseName         string
	PhaseOrder        int
	TaskOrder         int
	EstimatedDuration string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CreateTask inserts a task and returns it with its assigned id.
func (s *Store) CreateTask(task *TaskRecord) (*TaskRecord, error) {
	if task.Status == "" {
		task.Status = "todo"
	}
	if task.Priority == "" {
		task.Priority = "medium"
	}
	task.CreatedAt = now()
	task.UpdatedAt = task.CreatedAt

	res, err := s.db.Exec(`
		INSERT INTO tasks (project_id, title, description, status, priority, assigned_to, deadline, phase_name, phase_order, task_order, estimated_duration, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, task.ProjectID, task.Title, task.Description, task.Status, task.Priority, task.AssignedTo,
		task.Deadline, task.PhaseName, task.PhaseOrder, task.TaskOrder, task.EstimatedDuration,
		task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return nil, err
	}

	task.ID, err = res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return task, nil
}

// ListTasks returns a project's tasks in roadmap order.
func (s *Store) ListTasks(projectID int64) ([]*TaskRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, project_id, title, description, status, priority, assigned_to, deadline, phase_name, phase_order, task_order, estimated_duration, created_at, updated_at
		FROM tasks
		WHERE project_id = ?
		ORDER BY phase_order ASC, task_order ASC, created_at ASC
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*TaskRecord
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// GetTask retrieves a task by id.
func (s *Store) GetTask(taskID int64) (*TaskRecord, error) {
	row := s.db.QueryRow(`
		SELECT id, project_id, title, description, status, priority, assigned_to, deadline, phase_name, phase_order, task_order, estimated_duration, created_at, updated_at
		FROM tasks WHERE id = ?
	`, taskID)

	var task TaskRecord
	err := row.Scan(&task.ID, &task.ProjectID, &task.Title, &task.Description, &task.Status,
		&task.Priority, &task.AssignedTo, &task.Deadline, &task.PhaseName, &task.PhaseOrder,
		&task.TaskOrder, &task.EstimatedDuration, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

func scanTask(rows *sql.Rows) (*TaskRecord, error) {
	var task TaskRecord
	err := rows.Scan(&task.ID, &task.ProjectID, &task.Title, &task.Description, &task.Status,
		&task.Priority, &task.AssignedTo, &task.Deadline, &task.PhaseName, &task.PhaseOrder,
		&task.TaskOrder, &task.EstimatedDuration, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// TaskUpdate holds the fields of a task update; nil fields are left
// unchanged.
type TaskUpdate struct {
	Title             *string
	Description       *string
	Status            *string
	Priority          *string
	AssignedTo        *int64
	ClearAssignedTo   bool
	Deadline          *string
	PhaseName         *string
	PhaseOrder        *int
	TaskOrder         *int
	EstimatedDuration *string
}

// UpdateTask applies a partial update and returns the new record.
func (s *Store) UpdateTask(taskID int64, update TaskUpdate) (*TaskRecord, error) {
	parts := []string{"updated_at = ?"}
	params := []any{now()}

	if update.Title != nil {
		parts = append(parts, "title = ?")
		params = append(params, *update.Title)
	}
	if update.Description != nil {
		parts = append(parts, "description = ?")
		params = append(params, *update.Description)
	}
	if update.Status != nil {
		parts = append(parts, "status = ?")
		params = append(params, *update.Status)
	}
	if update.Priority != nil {
		parts = append(parts, "priority = ?")
		params = append(params, *update.Priority)
	}
	if update.ClearAssignedTo {
		parts = append(parts, "assigned_to = NULL")
	} else if update.AssignedTo != nil {
		parts = append(parts, "assigned_to = ?")
		params = append(params, *update.AssignedTo)
	}
	if update.Deadline != nil {
		parts = append(parts, "deadline = ?")
		params = append(params, *update.Deadline)
	}
	if update.PhaseName != nil {
		parts = append(parts, "phase_name = ?")
		params = append(params, *update.PhaseName)
	}
	if update.PhaseOrder != nil {
		parts = append(parts, "phase_order = ?")
		params = append(params, *update.PhaseOrder)
	}
	if update.TaskOrder != nil {
		parts = append(parts, "task_order = ?")
		params = append(params, *update.TaskOrder)
	}
	if update.EstimatedDuration != nil {
		parts = append(parts, "estimated_duration = ?")
		params = append(params, *update.EstimatedDuration)
	}

	params = append(params, taskID)
	query := fmt.Sprintf("UPDATE tasks SET %s WHERE id = ?", strings.Join(parts, ", "))

	res, err := s.db.Exec(query, params...)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetTask(taskID)
}

// DeleteTask removes a task by id.
func (s *Store) DeleteTask(taskID int64) error {
	_, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, taskID)
	return err
}
