package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/divinobizcochito/storefront-backend/pkg/enums"
)

// Profile carries the public-facing account data shown in the app.
type Profile struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID      `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Name      string         `gorm:"column:nombre;not null"`
	Role      enums.UserRole `gorm:"column:rol;type:text;not null;default:'cliente'"`
	ImageURL  string         `gorm:"column:imagen;not null;default:''"`
	Phone     *string        `gorm:"column:telefono"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides the default pluralization.
func (Profile) TableName() string {
	return "perfiles"
}
