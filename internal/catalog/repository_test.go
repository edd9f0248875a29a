package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/divinobizcochito/storefront-backend/pkg/db/models"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	productos := `
CREATE TABLE IF NOT EXISTS productos (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  nombre TEXT NOT NULL,
  descripcion TEXT NOT NULL DEFAULT '',
  precio INTEGER NOT NULL,
  imagen TEXT NOT NULL DEFAULT '',
  categoria_id INTEGER,
  ventas INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	toppings := `
CREATE TABLE IF NOT EXISTS toppings (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  nombre TEXT NOT NULL UNIQUE,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	rellenos := `
CREATE TABLE IF NOT EXISTS rellenos (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  nombre TEXT NOT NULL UNIQUE,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`

	for _, stmt := range []string{productos, toppings, rellenos} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func mustCreateProduct(t *testing.T, db *gorm.DB, name string, price, sales int64) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:     name,
		Price:    price,
		Sales:    sales,
		IsActive: true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestListProductsOrdersBySales(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	mustCreateProduct(t, db, "Pie de limon", 12000, 5)
	best := mustCreateProduct(t, db, "Torta de chocolate", 15990, 42)
	mustCreateProduct(t, db, "Kuchen", 9900, 17)

	inactive := mustCreateProduct(t, db, "Descontinuado", 1000, 99)
	require.NoError(t, db.Model(inactive).UpdateColumn("is_active", false).Error)

	products, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, best.ID, products[0].ID)
	assert.Equal(t, int64(42), products[0].Sales)
	assert.Equal(t, int64(17), products[1].Sales)
	assert.Equal(t, int64(5), products[2].Sales)
}

func TestFindProductByID(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created := mustCreateProduct(t, db, "Brazo de reina", 8500, 3)

	found, err := repo.FindProductByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Brazo de reina", found.Name)

	_, err = repo.FindProductByID(ctx, 9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestIncrementSales(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := mustCreateProduct(t, db, "Tartaleta", 7000, 10)

	require.NoError(t, repo.IncrementSales(ctx, product.ID, 3))

	found, err := repo.FindProductByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(13), found.Sales)
}

func TestListToppingsAndFillings(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Topping{Name: "Nueces", IsActive: true}).Error)
	require.NoError(t, db.Create(&models.Topping{Name: "Canela", IsActive: true}).Error)
	require.NoError(t, db.Create(&models.Filling{Name: "Manjar", IsActive: true}).Error)

	toppings, err := repo.ListToppings(ctx)
	require.NoError(t, err)
	require.Len(t, toppings, 2)
	assert.Equal(t, "Canela", toppings[0].Name)

	fillings, err := repo.ListFillings(ctx)
	require.NoError(t, err)
	require.Len(t, fillings, 1)

	topping, err := repo.FindToppingByName(ctx, "Nueces")
	require.NoError(t, err)
	assert.Equal(t, "Nueces", topping.Name)

	_, err = repo.FindFillingByName(ctx, "Inexistente")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
