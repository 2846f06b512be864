package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecipeItem: one recipe row, how much of an ingredient goes into a single
// serving of a menu item. (menu_item, ingredient) is unique; a menu item with
// no recipe rows simply consumes no tracked stock.
type RecipeItem struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	MenuItemID   uint       `gorm:"uniqueIndex:idx_recipe_menu_ingredient;not null" json:"menu_item_id"`
	MenuItem     MenuItem   `gorm:"constraint:OnDelete:CASCADE" json:"menu_item"`
	IngredientID uint       `gorm:"uniqueIndex:idx_recipe_menu_ingredient;not null" json:"ingredient_id"`
	Ingredient   Ingredient `json:"ingredient"`

	// Quantity per serving, in the ingredient's unit.
	Quantity decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"quantity"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
