package catalog

import "github.com/divinobizcochito/storefront-backend/pkg/db/models"

// ProductDTO is the product payload the app consumes.
type ProductDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion"`
	Price       int64  `json:"precio"`
	ImageURL    string `json:"imagen"`
	CategoryID  *int64 `json:"categoriaId"`
	Sales       int64  `json:"ventas"`
}

// OptionDTO is the payload for toppings and fillings.
type OptionDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"nombre"`
}

func toProductDTO(product models.Product) ProductDTO {
	return ProductDTO{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		ImageURL:    product.ImageURL,
		CategoryID:  product.CategoryID,
		Sales:       product.Sales,
	}
}

func toToppingDTOs(toppings []models.Topping) []OptionDTO {
	out := make([]OptionDTO, 0, len(toppings))
	for _, topping := range toppings {
		out = append(out, OptionDTO{ID: topping.ID, Name: topping.Name})
	}
	return out
}

func toFillingDTOs(fillings []models.Filling) []OptionDTO {
	out := make([]OptionDTO, 0, len(fillings))
	for _, filling := range fillings {
		out = append(out, OptionDTO{ID: filling.ID, Name: filling.Name})
	}
	return out
}
