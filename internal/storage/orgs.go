package storage

import (
	"database/sql"
	"time"
)

// OrganizationRecord represents an organization
type OrganizationRecord struct {
	ID          int64
	Name        string
	Description string
	CreatedBy   int64
	CreatedAt   time.Time
}

// CreateOrganization inserts an organization and enrolls the creator as its
// admin.
func (s *Store) CreateOrganization(org *OrganizationRecord) (*OrganizationRecord, error) {
	org.CreatedAt = now()
	res, err := s.db.Exec(`
		INSERT INTO organizations (name, description, created_by, created_at)
		VALUES (?, ?, ?, ?)
	`, org.Name, org.Description, org.CreatedBy, org.CreatedAt)
	if err != nil {
		return nil, err
	}

	org.ID, err = res.LastInsertId()
	if err != nil {
		return nil, err
	}

	_, err = s.db.Exec(`
		INSERT INTO organization_members (organization_id, user_id, role)
		VALUES (?, ?, 'admin')
	`, org.ID, org.CreatedBy)
	if err != nil {
		return nil, err
	}
	return org, nil
}

// ListOrganizations returns the organizations a user belongs to.
func (s *Store) ListOrganizations(userID int64) ([]*OrganizationRecord, error) {
	rows, err := s.db.Query(`
		SELECT o.id, o.name, o.description, o.created_by, o.created_at
		FROM organizations o
		JOIN organization_members om ON o.id = om.organization_id
		WHERE om.user_id = ?
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []*OrganizationRecord
	for rows.Next() {
		var org OrganizationRecord
		if err := rows.Scan(&org.ID, &org.Name, &org.Description, &org.CreatedBy, &org.CreatedAt); err != nil {
			return nil, err
		}
		orgs = append(orgs, &org)
	}
	return orgs, rows.Err()
}

// GetOrganization retrieves an organization, but only if the user is a
// member.
func (s *Store) GetOrganization(orgID, userID int64) (*OrganizationRecord, error) {
	var org OrganizationRecord
	err := s.db.QueryRow(`
		SELECT o.id, o.name, o.description, o.created_by, o.created_at
		FROM organizations o
		JOIN organization_members om ON o.id = om.organization_id
		WHERE o.id = ? AND om.user_id = ?
	`, orgID, userID).Scan(&org.ID, &org.Name, &org.Description, &org.CreatedBy, &org.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &org, nil
}

// IsOrgAdmin reports whether the user holds the admin role in the
// organization.
func (s *Store) IsOrgAdmin(orgID, userID int64) (bool, error) {
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM organization_members
		WHERE organization_id = ? AND user_id = ? AND role = 'admin'
	`, orgID, userID).Scan(&n)
	return n > 0, err
}

// IsOrgMember reports whether the user belongs to the organization.
func (s *Store) IsOrgMember(orgID, userID int64) (bool, error) {
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM organization_members
		WHERE organization_id = ? AND user_id = ?
	`, orgID, userID).Scan(&n)
	return n > 0, err
}

// UpdateOrganization replaces the name and description.
func (s *Store) UpdateOrganization(orgID int64, name, description string) (*OrganizationRecord, error) {
	res, err := s.db.Exec(`
		UPDATE organizations SET name = ?, description = ? WHERE id = ?
	`, name, description, orgID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}

	var org OrganizationRecord
	err = s.db.QueryRow(`
		SELECT id, name, description, created_by, created_at
		FROM organizations WHERE id = ?
	`, orgID).Scan(&org.ID, &org.Name, &org.Description, &org.CreatedBy, &org.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// DeleteOrganization removes an organization with all its projects, their
// tasks and memberships.
func (s *Store) DeleteOrganization(orgID int64) error {
	return s.deleteOrganizationRows(orgID)
}

func (s *Store) deleteOrganizationRows(orgID int64) error {
	projects, err := s.queryIDs(`SELECT id FROM projects WHERE organization_id = ?`, orgID)
	if err != nil {
		return err
	}
	for _, projectID := range projects {
		if err := s.deleteProjectRows(projectID); err != nil {
			return err
		}
	}

	if _, err := s.db.Exec(`DELETE FROM organization_members WHERE organization_id = ?`, orgID); err != nil {
		return err
	}
	_, err = s.db.Exec(`DELETE FROM organizations WHERE id = ?`, orgID)
	return err
}
