package models

import (
	"time"

	"github.com/google/uuid"
)

// DeviceToken registers a push notification token for a user's device.
// Tokens are upserted so re-registration refreshes LastSeenAt.
type DeviceToken struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Token      string    `gorm:"column:token;not null;uniqueIndex"`
	Platform   *string   `gorm:"column:platform"`
	LastSeenAt time.Time `gorm:"column:last_seen_at;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
