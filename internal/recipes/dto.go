package recipes

import "github.com/divinobizcochito/storefront-backend/pkg/db/models"

// RecipeDTO is the receta payload the app consumes.
type RecipeDTO struct {
	ID          int64    `json:"id"`
	Title       string   `json:"titulo"`
	Author      string   `json:"autor"`
	Description string   `json:"descripcion"`
	ImageURL    string   `json:"imagenUrl"`
	Ingredients []string `json:"ingredientes"`
}

// CreateRecipeRequest is the payload for submitting a new recipe.
type CreateRecipeRequest struct {
	Title       string   `json:"titulo" validate:"required"`
	Description string   `json:"descripcion"`
	ImageURL    string   `json:"imagenUrl"`
	Ingredients []string `json:"ingredientes"`
}

func toRecipeDTO(recipe models.Recipe) RecipeDTO {
	ingredients := make([]string, 0, len(recipe.Ingredients))
	ingredients = append(ingredients, recipe.Ingredients...)
	return RecipeDTO{
		ID:          recipe.ID,
		Title:       recipe.Title,
		Author:      recipe.Author,
		Description: recipe.Description,
		ImageURL:    recipe.ImageURL,
		Ingredients: ingredients,
	}
}
