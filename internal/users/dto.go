package users

import (
	"github.com/google/uuid"

	"github.com/divinobizcochito/storefront-backend/pkg/db/models"
	"github.com/divinobizcochito/storefront-backend/pkg/enums"
)

// ProfileDTO is the perfil payload the app consumes.
type ProfileDTO struct {
	ID       uuid.UUID      `json:"id"`
	Name     string         `json:"nombre"`
	Role     enums.UserRole `json:"rol"`
	ImageURL string         `json:"imagen"`
	Phone    *string        `json:"telefono,omitempty"`
}

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID      uuid.UUID   `json:"id"`
	Email   string      `json:"email"`
	Profile *ProfileDTO `json:"perfil,omitempty"`
}

// FromModel converts a user, with an optional profile, to its DTO.
func FromModel(u *models.User, p *models.Profile) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:      u.ID,
		Email:   u.Email,
		Profile: ProfileFromModel(p),
	}
}

// ProfileFromModel converts a profile row to its DTO.
func ProfileFromModel(p *models.Profile) *ProfileDTO {
	if p == nil {
		return nil
	}
	return &ProfileDTO{
		ID:       p.ID,
		Name:     p.Name,
		Role:     p.Role,
		ImageURL: p.ImageURL,
		Phone:    p.Phone,
	}
}
