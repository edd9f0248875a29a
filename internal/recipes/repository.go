package recipes

import (
	"context"

	"gorm.io/gorm"

	"github.com/divinobizcochito/storefront-backend/pkg/db/models"
)

// Repository exposes receta persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a recipes repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// List returns recipes, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// Create inserts a new recipe row.
func (r *Repository) Create(ctx context.Context, recipe *models.Recipe) error {
	return r.db.WithContext(ctx).Create(recipe).Error
}
