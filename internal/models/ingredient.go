package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type IngredientStatus string

const (
	IngredientInStock    IngredientStatus = "in_stock"
	IngredientLowStock   IngredientStatus = "low_stock"
	IngredientOutOfStock IngredientStatus = "out_of_stock"
)

// Ingredient: master record for a raw material (beef, rice, fish sauce, ...).
// Current stock is never stored here; it is always the sum of
// quantity_remaining over the ingredient's lots. Status is the only cached
// projection of that sum and is refreshed inside the same transaction that
// mutates lots.
type Ingredient struct {
	ID         uint               `gorm:"primaryKey" json:"id"`
	Name       string             `gorm:"size:255;uniqueIndex;not null" json:"name"`
	CategoryID uint               `gorm:"index;not null" json:"category_id"`
	Category   IngredientCategory `json:"category"`
	UnitID     uint               `gorm:"index;not null" json:"unit_id"`
	Unit       Unit               `json:"unit"`

	MinStock decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0" json:"min_stock"`
	MaxStock decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0" json:"max_stock"`

	// Advisory only; the real price lives on each lot.
	ReferenceUnitPrice *decimal.Decimal `gorm:"type:decimal(14,2)" json:"reference_unit_price"`

	IsActive    bool             `gorm:"not null;default:true" json:"is_active"`
	Status      IngredientStatus `gorm:"size:20;not null;default:in_stock" json:"status"`
	LastUpdated time.Time        `gorm:"type:date" json:"last_updated"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
