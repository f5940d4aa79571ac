// Package seed guarantees a usable default organization on first boot.
package seed

import (
	"time"

	"gorm.io/gorm"
)

const defaultOrgID = 1

// EnsureDefaultOrg creates the default organization if none exists.
func EnsureDefaultOrg(conn *gorm.DB, name, email string) error {
	return EnsureDefaultOrgWithID(conn, defaultOrgID, name, email)
}

// EnsureDefaultOrgWithID creates the organization with the given ID if missing.
func EnsureDefaultOrgWithID(conn *gorm.DB, id int64, name, email string) error {
	var count int64
	if err := conn.Raw(`SELECT COUNT(1) FROM organizations WHERE id = ?`, id).Scan(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if name == "" {
		name = "default"
	}
	now := time.Now().UTC()
	return conn.Exec(
		`INSERT INTO organizations (id, name, email, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id,
		name,
		email,
		now,
		now,
	).Error
}
