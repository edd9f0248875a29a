package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/divinobizcochito/storefront-backend/pkg/db/models"
	"github.com/divinobizcochito/storefront-backend/pkg/enums"
)

// Repository exposes payment session persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a checkout repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new payment session in the created state.
func (r *Repository) Create(ctx context.Context, session *models.PaymentSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// FindByToken loads the payment session for a Webpay token.
func (r *Repository) FindByToken(ctx context.Context, token string) (*models.PaymentSession, error) {
	var session models.PaymentSession
	if err := r.db.WithContext(ctx).First(&session, "token = ?", token).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// MarkCommitting transitions created→committing. It reports false when
// the session was not in the created state, which means another request
// already claimed it.
func (r *Repository) MarkCommitting(ctx context.Context, token string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.PaymentSession{}).
		Where("token = ? AND status = ?", token, enums.PaymentSessionStatusCreated).
		Update("status", enums.PaymentSessionStatusCommitting)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// MarkApproved records the approved outcome together with the pedido it
// produced.
func (r *Repository) MarkApproved(ctx context.Context, token string, orderID uuid.UUID, authorizationCode string, responseCode int, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.PaymentSession{}).
		Where("token = ?", token).
		Updates(map[string]any{
			"status":             enums.PaymentSessionStatusApproved,
			"order_id":           orderID,
			"authorization_code": authorizationCode,
			"response_code":      responseCode,
			"committed_at":       at,
		}).Error
}

// MarkFailed records a failed commit outcome.
func (r *Repository) MarkFailed(ctx context.Context, token string, responseCode *int, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.PaymentSession{}).
		Where("token = ?", token).
		Updates(map[string]any{
			"status":        enums.PaymentSessionStatusFailed,
			"response_code": responseCode,
			"committed_at":  at,
		}).Error
}
