package storage

import (
	"database/sql"
	"time"
)

// ProjectRecord represents a project
type ProjectRecord struct {
	ID               int64
	OrganizationID   int64
	Title            string
	Description      string
	Deadline         string
	Priority         string
	CreatedBy        int64
	RoadmapText      string
	TasksChecklist   string
	OrganizationName string
	CreatedAt        time.Time
}

// CreateProject inserts a project and enrolls the creator as its manager.
func (s *Store) CreateProject(project *ProjectRecord) (*ProjectRecord, error) {
	if project.Priority == "" {
		project.Priority = "medium"
	}
	project.CreatedAt = now()

	res, err := s.db.Exec(`
		INSERT INTO projects (organization_id, title, description, deadline, priority, created_by, roadmap_text, tasks_checklist, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, project.OrganizationID, project.Title, project.Description, project.Deadline,
		project.Priority, project.CreatedBy, project.RoadmapText, project.TasksChecklist, project.CreatedAt)
	if err != nil {
		return nil, err
	}

	project.ID, err = res.LastInsertId()
	if err != nil {
		return nil, err
	}

	_, err = s.db.Exec(`
		INSERT INTO project_members (project_id, user_id, role)
		VALUES (?, ?, 'manager')
	`, project.ID, project.CreatedBy)
	if err != nil {
		return nil, err
	}
	return project, nil
}

// ListProjects returns an organization's projects, newest first.
func (s *Store) ListProjects(orgID int64) ([]*ProjectRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, organization_id, title, description, deadline, priority, created_by, roadmap_text, tasks_checklist, created_at
		FROM projects
		WHERE organization_id = ?
		ORDER BY created_at DESC
	`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*ProjectRecord
	for rows.Next() {
		var p ProjectRecord
		err := rows.Scan(&p.ID, &p.OrganizationID, &p.Title, &p.Description, &p.Deadline,
			&p.Priority, &p.CreatedBy, &p.RoadmapText, &p.TasksChecklist, &p.CreatedAt)
		if err != nil {
			return nil, err
		}
		projects = append(projects, &p)
	}
	return projects, rows.Err()
}

// GetProject retrieves a project with its organization name.
func (s *Store) GetProject(projectID int64) (*ProjectRecord, error) {
	var p ProjectRecord
	err := s.db.QueryRow(`
		SELECT p.id, p.organization_id, p.title, p.description, p.deadline, p.priority,
		       p.created_by, p.roadmap_text, p.tasks_checklist, p.created_at, o.name
		FROM projects p
		JOIN organizations o ON p.organization_id = o.id
		WHERE p.id = ?
	`, projectID).Scan(&p.ID, &p.OrganizationID, &p.Title, &p.Description, &p.Deadline,
		&p.Priority, &p.CreatedBy, &p.RoadmapText, &p.TasksChecklist, &p.CreatedAt, &p.OrganizationName)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// IsProjectManager reports whether the user holds the manager role in the
// project.
func (s *Store) IsProjectManager(projectID, userID int64) (bool, error) {
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM project_members
		WHERE project_id = ? AND user_id = ? AND role = 'manager'
	`, projectID, userID).Scan(&n)
	return n > 0, err
}

// UserCanAccessProject reports whether the user belongs to the project's
// organization.
func (s *Store) UserCanAccessProject(projectID, userID int64) (bool, error) {
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM projects p
		JOIN organization_members om ON p.organization_id = om.organization_id
		WHERE p.id = ? AND om.user_id = ?
	`, projectID, userID).Scan(&n)
	return n > 0, err
}

// SaveChecklist replaces the project's stored checklist JSON.
func (s *Store) SaveChecklist(projectID int64, checklistJSON string) error {
	res, err := s.db.Exec(`
		UPDATE projects SET tasks_checklist = ? WHERE id = ?
	`, checklistJSON, projectID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveRoadmap replaces the project's stored roadmap text.
func (s *Store) SaveRoadmap(projectID int64, roadmapText string) error {
	res, err := s.db.Exec(`
		UPDATE projects SET roadmap_text = ? WHERE id = ?
	`, roadmapText, projectID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProject removes a project with its tasks and memberships.
func (s *Store) DeleteProject(projectID int64) error {
	return s.deleteProjectRows(projectID)
}

func (s *Store) deleteProjectRows(projectID int64) error {
	if _, err := s.db.Exec(`DELETE FROM tasks WHERE project_id = ?`, projectID); err != nil {
		return err
	}
	if _, err := s.db.Exec(`DELETE FROM project_members WHERE project_id = ?`, projectID); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM projects WHERE id = ?`, projectID)
	return err
}
