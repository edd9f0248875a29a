package devices

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/divinobizcochito/storefront-backend/pkg/db/models"
)

// Repository exposes push token persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a devices repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert inserts the device token or, when the token already exists,
// reassigns it to the user and refreshes last_seen_at.
func (r *Repository) Upsert(ctx context.Context, token *models.DeviceToken) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_id", "platform", "last_seen_at", "updated_at"}),
		}).
		Create(token).Error
}

// ListByUser returns the user's registered device tokens.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]models.DeviceToken, error) {
	var tokens []models.DeviceToken
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_seen_at DESC").
		Find(&tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}
