package core

import (
	"time"

	"github.com/pawan09032004/planwise/internal/storage"
)

// User is the API-facing account shape.
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// AuthResult is returned from signup and login.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Organization is the API-facing organization shape.
type Organization struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedBy   int64  `json:"created_by"`
}

// Project is the API-facing project shape. Tasks is only populated when the
// caller asks for it.
type Project struct {
	ID               int64  `json:"id"`
	OrganizationID   int64  `json:"organization_id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Deadline         string `json:"deadline"`
	Priority         string `json:"priority"`
	CreatedAt        string `json:"created_at"`
	RoadmapText      string `json:"roadmap_text"`
	TasksChecklist   string `json:"tasks_checklist"`
	OrganizationName string `json:"organization_name,omitempty"`
	Tasks            []Task `json:"tasks,omitempty"`
}

// Task is the API-facing task shape. Status and Completed are both always
// set and kept consistent so progress reads the same everywhere.
type Task struct {
	ID                int64  `json:"id"`
	ProjectID         int64  `json:"project_id"`
	Title             string `json:"title"`
	Description       string `json:"description"`
	Status            string `json:"status"`
	Completed         bool   `json:"completed"`
	Priority          string `json:"priority"`
	AssignedTo        *int64 `json:"assigned_to,omitempty"`
	Deadline          string `json:"deadline,omitempty"`
	PhaseName         string `json:"phase_name"`
	PhaseOrder        int    `json:"phase_order"`
	TaskOrder         int    `json:"task_order"`
	EstimatedDuration string `json:"estimated_duration,omitempty"`
	CreatedAt         string `json:"created_at"`
}

func userFromRecord(rec *storage.UserRecord) User {
	return User{
		ID:       rec.ID,
		Email:    rec.Email,
		FullName: rec.FullName,
		Role:     rec.Role,
	}
}

func orgFromRecord(rec *storage.OrganizationRecord) Organization {
	return Organization{
		ID:          rec.ID,
		Name:        rec.Name,
		Description: rec.Description,
		CreatedBy:   rec.CreatedBy,
	}
}

func projectFromRecord(rec *storage.ProjectRecord) Project {
	return Project{
		ID:               rec.ID,
		OrganizationID:   rec.OrganizationID,
		Title:            rec.Title,
		Description:      rec.Description,
		Deadline:         rec.Deadline,
		Priority:         rec.Priority,
		CreatedAt:        rec.CreatedAt.Format(time.RFC3339),
		RoadmapText:      rec.RoadmapText,
		TasksChecklist:   rec.TasksChecklist,
		OrganizationName: rec.OrganizationName,
	}
}

// taskFromRecord converts a task row, syncing the two completion signals:
// status "completed" implies the boolean and the boolean implies the status.
func taskFromRecord(rec *storage.TaskRecord) Task {
	task := Task{
		ID:                rec.ID,
		ProjectID:         rec.ProjectID,
		Title:             rec.Title,
		Description:       rec.Description,
		Status:            rec.Status,
		Priority:          rec.Priority,
		AssignedTo:        rec.AssignedTo,
		Deadline:          rec.Deadline,
		PhaseName:         rec.PhaseName,
		PhaseOrder:        rec.PhaseOrder,
		TaskOrder:         rec.TaskOrder,
		EstimatedDuration: rec.EstimatedDuration,
		CreatedAt:         rec.CreatedAt.Format(time.RFC3339),
	}
	if task.Status == "completed" {
		task.Completed = true
	}
	if task.Status == "" {
		task.Status = "pending"
	}
	return task
}
