package devices

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/divinobizcochito/storefront-backend/pkg/db/models"
	pkgerrors "github.com/divinobizcochito/storefront-backend/pkg/errors"
	"github.com/divinobizcochito/storefront-backend/pkg/logger"
)

// RegisterRequest is the payload for registering an Expo push token.
type RegisterRequest struct {
	Token    string  `json:"token" validate:"required"`
	Platform *string `json:"platform,omitempty"`
}

// Service registers push tokens. Delivery is out of scope; tokens are
// only collected.
type Service interface {
	Register(ctx context.Context, userID uuid.UUID, req RegisterRequest) error
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService constructs a devices service instance.
func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("devices repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

// Register upserts the push token for the user.
func (s *service) Register(ctx context.Context, userID uuid.UUID, req RegisterRequest) error {
	token := strings.TrimSpace(req.Token)
	if token == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "token is required")
	}

	record := &models.DeviceToken{
		ID:         uuid.New(),
		UserID:     userID,
		Token:      token,
		Platform:   req.Platform,
		LastSeenAt: time.Now().UTC(),
	}
	if err := s.repo.Upsert(ctx, record); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "registering device token")
	}

	s.logg.Info(s.logg.WithUserID(ctx, userID.String()), "push token registered")
	return nil
}
