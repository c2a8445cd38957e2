// File: internal/common/model.go
package common

import (
	"time"

	"github.com/google/uuid"
)

// User types known to the profile store. Escalation may raise a profile to
// RoleAdmin but no flow ever lowers it.
const (
	RoleClient   = "client"
	RoleAdmin    = "admin"
	RoleStaff    = "staff"
	RoleAttorney = "attorney"
)

// IsValidUserType reports whether t is one of the four enumerated roles.
func IsValidUserType(t string) bool {
	switch t {
	case RoleClient, RoleAdmin, RoleStaff, RoleAttorney:
		return true
	}
	return false
}

// BaseModel defines common fields for GORM models. IDs are assigned in code
// (uuid.New or the identity backend's subject) rather than by a DB default, so
// the same models work against postgres and the sqlite test database.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}
