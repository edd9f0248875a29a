package models

import (
	"time"

	"github.com/lib/pq"
)

// Recipe is a community-submitted recipe shown in the recetario.
type Recipe struct {
	ID          int64          `gorm:"column:id;primaryKey;autoIncrement"`
	Title       string         `gorm:"column:titulo;not null"`
	Author      string         `gorm:"column:autor;not null"`
	Description string         `gorm:"column:descripcion;not null;default:''"`
	ImageURL    string         `gorm:"column:imagen_url;not null;default:''"`
	Ingredients pq.StringArray `gorm:"column:ingredientes;type:text[];not null;default:ARRAY[]::text[]"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides the default pluralization.
func (Recipe) TableName() string {
	return "recetas"
}
