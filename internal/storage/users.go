package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// UserRecord represents a user account
type UserRecord struct {
	ID           int64
	Email        string
	PasswordHash string
	FullName     string
	Role         string
	CreatedAt    time.Time
}

// CreateUser inserts a new user and returns it with its assigned id.
func (s *Store) CreateUser(user *UserRecord) (*UserRecord, error) {
	user.CreatedAt = now()
	res, err := s.db.Exec(`
		INSERT INTO users (email, password_hash, full_name, role, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, user.Email, user.PasswordHash, user.FullName, user.Role, user.CreatedAt)
	if err != nil {
		return nil, err
	}

	user.ID, err = res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email address.
func (s *Store) GetUserByEmail(email string) (*UserRecord, error) {
	return s.scanUser(s.db.QueryRow(`
		SELECT id, email, password_hash, full_name, role, created_at
		FROM users WHERE email = ?
	`, email))
}

// GetUser retrieves a user by id.
func (s *Store) GetUser(id int64) (*UserRecord, error) {
	return s.scanUser(s.db.QueryRow(`
		SELECT id, email, password_hash, full_name, role, created_at
		FROM users WHERE id = ?
	`, id))
}

func (s *Store) scanUser(row *sql.Row) (*UserRecord, error) {
	var user UserRecord
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.FullName, &user.Role, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// EmailTaken reports whether another user already uses the email.
func (s *Store) EmailTaken(email string, excludeUserID int64) (bool, error) {
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM users WHERE email = ? AND id != ?
	`, email, excludeUserID).Scan(&n)
	return n > 0, err
}

// UserUpdate holds the fields of a profile update; nil fields are left
// unchanged.
type UserUpdate struct {
	FullName     *string
	Email        *string
	PasswordHash *string
}

// UpdateUser applies a partial profile update and returns the new record.
func (s *Store) UpdateUser(id int64, update UserUpdate) (*UserRecord, error) {
	var parts []string
	var params []any

	if update.FullName != nil {
		parts = append(parts, "full_name = ?")
		params = append(params, *update.FullName)
	}
	if update.Email != nil {
		parts = append(parts, "email = ?")
		params = append(params, *update.Email)
	}
	if update.PasswordHash != nil {
		parts = append(parts, "password_hash = ?")
		params = append(params, *update.PasswordHash)
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	params = append(params, id)
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = ?", strings.Join(parts, ", "))
	if _, err := s.db.Exec(query, params...); err != nil {
		return nil, err
	}
	return s.GetUser(id)
}

// DeleteUser removes a user account and everything only they own: projects
// where they are the sole manager and organizations where they are the sole
// admin are deleted with their contents; other memberships are simply
// removed and assigned tasks unassigned.
func (s *Store) DeleteUser(id int64) error {
	if _, err := s.db.Exec(`UPDATE tasks SET assigned_to = NULL WHERE assigned_to = ?`, id); err != nil {
		return err
	}

	soloProjects, err := s.queryIDs(`
		SELECT p.id FROM projects p
		JOIN project_members pm ON p.id = pm.project_id
		WHERE pm.role = 'manager'
		GROUP BY p.id
		HAVING COUNT(pm.user_id) = 1 AND MAX(CASE WHEN pm.user_id = ? THEN 1 ELSE 0 END) = 1
	`, id)
	if err != nil {
		return err
	}
	for _, projectID := range soloProjects {
		if err := s.deleteProjectRows(projectID); err != nil {
			return err
		}
	}

	soloOrgs, err := s.queryIDs(`
		SELECT o.id FROM organizations o
		JOIN organization_members om ON o.id = om.organization_id
		WHERE om.role = 'admin'
		GROUP BY o.id
		HAVING COUNT(om.user_id) = 1 AND MAX(CASE WHEN om.user_id = ? THEN 1 ELSE 0 END) = 1
	`, id)
	if err != nil {
		return err
	}
	for _, orgID := range soloOrgs {
		if err := s.deleteOrganizationRows(orgID); err != nil {
			return err
		}
	}

	if _, err := s.db.Exec(`DELETE FROM project_members WHERE user_id = ?`, id); err != nil {
		return err
	}
	if _, err := s.db.Exec(`DELETE FROM organization_members WHERE user_id = ?`, id); err != nil {
		return err
	}
	_, err = s.db.Exec(`DELETE FROM users WHERE id = ?`, id)
	return err
}

func (s *Store) queryIDs(query string, args ...any) ([]int64, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
