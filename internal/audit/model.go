// File: internal/audit/model.go
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Actions recorded by the authentication flows.
const (
	ActionSignup        = "SIGNUP"
	ActionSignin        = "SIGNIN"
	ActionOAuthLogin    = "OAUTH_LOGIN"
	ActionPasswordReset = "PASSWORD_RESET"
	ActionSignout       = "SIGNOUT"
)

// ActivityLog is an append-only audit row. Rows are never updated or deleted.
type ActivityLog struct {
	ID         uuid.UUID              `gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID              `gorm:"type:uuid;not null;index"`
	Action     string                 `gorm:"type:varchar(50);not null"`
	EntityType string                 `gorm:"type:varchar(50)"`
	EntityID   string                 `gorm:"type:varchar(64)"`
	Metadata   map[string]interface{} `gorm:"serializer:json"`
	CreatedAt  time.Time              `gorm:"column:created_at;not null"`
}

// TableName specifies the table name for the ActivityLog model.
func (ActivityLog) TableName() string {
	return "activity_logs"
}

// Entry is the transport-agnostic event emitted by domain logic.
type Entry struct {
	UserID     uuid.UUID
	Action     string
	EntityType string
	EntityID   string
	Metadata   map[string]interface{}
}
