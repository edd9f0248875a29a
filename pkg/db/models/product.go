package models

import (
	"time"
)

// Product represents a storefront catalog listing. Prices are CLP
// integer amounts and Sales drives the default catalog ordering.
type Product struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string    `gorm:"column:nombre;not null"`
	Description string    `gorm:"column:descripcion;not null;default:''"`
	Price       int64     `gorm:"column:precio;not null"`
	ImageURL    string    `gorm:"column:imagen;not null;default:''"`
	CategoryID  *int64    `gorm:"column:categoria_id"`
	Sales       int64     `gorm:"column:ventas;not null;default:0"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides the default pluralization.
func (Product) TableName() string {
	return "productos"
}
