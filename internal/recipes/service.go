package recipes

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/divinobizcochito/storefront-backend/pkg/db/models"
	pkgerrors "github.com/divinobizcochito/storefront-backend/pkg/errors"
	"github.com/divinobizcochito/storefront-backend/pkg/logger"
)

// Service exposes the community recetario operations.
type Service interface {
	ListRecipes(ctx context.Context) ([]RecipeDTO, error)
	CreateRecipe(ctx context.Context, userID uuid.UUID, req CreateRecipeRequest) (*RecipeDTO, error)
}

type profileReader interface {
	GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
}

type service struct {
	repo     *Repository
	profiles profileReader
	logg     *logger.Logger
}

// NewService constructs a recipes service instance.
func NewService(repo *Repository, profiles profileReader, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("recipes repository required")
	}
	if profiles == nil {
		return nil, fmt.Errorf("profile reader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, profiles: profiles, logg: logg}, nil
}

// ListRecipes returns every recipe, newest first.
func (s *service) ListRecipes(ctx context.Context) ([]RecipeDTO, error) {
	recipes, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing recipes")
	}
	out := make([]RecipeDTO, 0, len(recipes))
	for _, recipe := range recipes {
		out = append(out, toRecipeDTO(recipe))
	}
	return out, nil
}

// CreateRecipe stores a recipe attributed to the submitting user's
// profile name.
func (s *service) CreateRecipe(ctx context.Context, userID uuid.UUID, req CreateRecipeRequest) (*RecipeDTO, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "titulo is required")
	}

	author := "Anónimo"
	profile, err := s.profiles.GetProfileByUserID(ctx, userID)
	if err != nil {
		s.logg.Warn(s.logg.WithUserID(ctx, userID.String()), "recipe author profile lookup failed")
	} else if name := strings.TrimSpace(profile.Name); name != "" {
		author = name
	}

	ingredients := make([]string, 0, len(req.Ingredients))
	for _, ingredient := range req.Ingredients {
		if trimmed := strings.TrimSpace(ingredient); trimmed != "" {
			ingredients = append(ingredients, trimmed)
		}
	}

	recipe := &models.Recipe{
		Title:       title,
		Author:      author,
		Description: strings.TrimSpace(req.Description),
		ImageURL:    strings.TrimSpace(req.ImageURL),
		Ingredients: pq.StringArray(ingredients),
	}
	if err := s.repo.Create(ctx, recipe); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating recipe")
	}

	dto := toRecipeDTO(*recipe)
	return &dto, nil
}
