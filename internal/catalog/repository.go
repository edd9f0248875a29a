package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/divinobizcochito/storefront-backend/pkg/db/models"
)

// Repository wires together catalog persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListProducts returns active products, best sellers first.
func (r *Repository) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("ventas DESC, id ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// FindProductByID loads a single product.
func (r *Repository) FindProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// IncrementSales bumps the ventas counter by the quantity sold.
func (r *Repository) IncrementSales(ctx context.Context, productID int64, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("ventas", gorm.Expr("ventas + ?", quantity)).
		Error
}

// ListToppings returns active toppings ordered by name.
func (r *Repository) ListToppings(ctx context.Context) ([]models.Topping, error) {
	var toppings []models.Topping
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("nombre ASC").
		Find(&toppings).Error
	if err != nil {
		return nil, err
	}
	return toppings, nil
}

// ListFillings returns active fillings ordered by name.
func (r *Repository) ListFillings(ctx context.Context) ([]models.Filling, error) {
	var fillings []models.Filling
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("nombre ASC").
		Find(&fillings).Error
	if err != nil {
		return nil, err
	}
	return fillings, nil
}

// FindToppingByName loads an active topping by its exact name.
func (r *Repository) FindToppingByName(ctx context.Context, name string) (*models.Topping, error) {
	var topping models.Topping
	if err := r.db.WithContext(ctx).First(&topping, "nombre = ? AND is_active = ?", name, true).Error; err != nil {
		return nil, err
	}
	return &topping, nil
}

// FindFillingByName loads an active filling by its exact name.
func (r *Repository) FindFillingByName(ctx context.Context, name string) (*models.Filling, error) {
	var filling models.Filling
	if err := r.db.WithContext(ctx).First(&filling, "nombre = ? AND is_active = ?", name, true).Error; err != nil {
		return nil, err
	}
	return &filling, nil
}
