package storage

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Store handles SQLite persistence for users, organizations, projects and
// tasks.
type Store struct {
	db *sql.DB
}

// New opens (creating if needed) the database at dbPath and applies the
// schema.
func New(dbPath string) (*Store, error) {
	// Expand ~ in path
	if strings.HasPrefix(dbPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// migrate creates the necessary tables
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			full_name TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'project_manager',
			created_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS organizations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			description TEXT,
			created_by INTEGER NOT NULL,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (created_by) REFERENCES users(id)
		);

		CREATE TABLE IF NOT EXISTS organization_members (
			organization_id INTEGER NOT NULL,
			user_id INTEGER NOT NULL,
			role TEXT NOT NULL DEFAULT 'member',
			PRIMARY KEY (organization_id, user_id),
			FOREIGN KEY (organization_id) REFERENCES organizations(id),
			FOREIGN KEY (user_id) REFERENCES users(id)
		);

		CREATE TABLE IF NOT EXISTS projects (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			organization_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			deadline TEXT,
			priority TEXT DEFAULT 'medium',
			created_by INTEGER NOT NULL,
			roadmap_text TEXT NOT NULL DEFAULT '',
			tasks_checklist TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL,
			FOREIGN KEY (organization_id) REFERENCES organizations(id),
			FOREIGN KEY (created_by) REFERENCES users(id)
		);

		CREATE TABLE IF NOT EXISTS project_members (
			project_id INTEGER NOT NULL,
			user_id INTEGER NOT NULL,
			role TEXT NOT NULL DEFAULT 'member',
			PRIMARY KEY (project_id, user_id),
			FOREIGN KEY (project_id) REFERENCES projects(id),
			FOREIGN KEY (user_id) REFERENCES users(id)
		);

		CREATE TABLE IF NOT EXISTS tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			project_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			status TEXT NOT NULL DEFAULT 'todo',
			priority TEXT NOT NULL DEFAULT 'medium',
			assigned_to INTEGER,
			deadline TEXT,
			phase_name TEXT,
			phase_order INTEGER NOT NULL DEFAULT 0,
			task_order INTEGER NOT NULL DEFAULT 0,
			estimated_duration TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			FOREIGN KEY (project_id) REFERENCES projects(id),
			FOREIGN KEY (assigned_to) REFERENCES users(id)
		);

		CREATE INDEX IF NOT EXISTS idx_org_members_user ON organization_members(user_id);
		CREATE INDEX IF NOT EXISTS idx_projects_org ON projects(organization_id);
		CREATE INDEX IF NOT EXISTS idx_project_members_user ON project_members(user_id);
		CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func now() time.Time {
	return time.Now().UTC()
}
