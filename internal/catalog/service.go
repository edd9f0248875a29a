package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	pkgerrors "github.com/divinobizcochito/storefront-backend/pkg/errors"
	"github.com/divinobizcochito/storefront-backend/pkg/logger"
)

// Service exposes the storefront catalog read operations.
type Service interface {
	ListProducts(ctx context.Context) ([]ProductDTO, error)
	GetProduct(ctx context.Context, id int64) (*ProductDTO, error)
	ListToppings(ctx context.Context) ([]OptionDTO, error)
	ListFillings(ctx context.Context) ([]OptionDTO, error)
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

// ListProducts returns the storefront catalog sorted by sales.
func (s *service) ListProducts(ctx context.Context) ([]ProductDTO, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}
	out := make([]ProductDTO, 0, len(products))
	for _, product := range products {
		out = append(out, toProductDTO(product))
	}
	return out, nil
}

// GetProduct returns one product by its numeric ID.
func (s *service) GetProduct(ctx context.Context, id int64) (*ProductDTO, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id must be positive")
	}
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	dto := toProductDTO(*product)
	return &dto, nil
}

// ListToppings returns the topping options.
func (s *service) ListToppings(ctx context.Context) ([]OptionDTO, error) {
	toppings, err := s.repo.ListToppings(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing toppings")
	}
	return toToppingDTOs(toppings), nil
}

// ListFillings returns the filling options.
func (s *service) ListFillings(ctx context.Context) ([]OptionDTO, error) {
	fillings, err := s.repo.ListFillings(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing fillings")
	}
	return toFillingDTOs(fillings), nil
}
