// File: internal/profile/model.go
package profile

import (
	"time"

	"github.com/Schwifty101/arco-backend/internal/common"

	"github.com/google/uuid"
)

// UserProfile is the application-owned profile row, 1:1 with an identity
// backend record. The ID is the identity backend's stable user identifier,
// never generated locally.
type UserProfile struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName    string    `gorm:"type:varchar(150);not null"`
	UserType    string    `gorm:"type:varchar(20);not null;default:'client'"`
	PhoneNumber *string   `gorm:"type:varchar(32)"`
	CreatedAt   time.Time `gorm:"column:created_at;not null"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null"`
}

// TableName specifies the table name for the UserProfile model.
func (UserProfile) TableName() string {
	return "user_profiles"
}

// ClientProfile extends a client-typed UserProfile with intake attributes.
// Created once, alongside the UserProfile, and only for clients.
type ClientProfile struct {
	common.BaseModel
	UserProfileID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	CNIC             *string   `gorm:"type:varchar(20)"`
	Occupation       *string   `gorm:"type:varchar(100)"`
	EmergencyContact *string   `gorm:"type:varchar(32)"`
}

// TableName specifies the table name for the ClientProfile model.
func (ClientProfile) TableName() string {
	return "client_profiles"
}
