package models

import "time"

// Unit: measurement unit for ingredients (kg, bottle, glass, ...)
type Unit struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Code      string `gorm:"size:50;uniqueIndex;not null" json:"code"` // 'kg', 'bottle'
	Name      string `gorm:"size:100;not null" json:"name"`            // 'Kilogram', 'Bottle'
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IngredientCategory: meat, grains, vegetables, spices, beverages...
type IngredientCategory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MenuCategory: mains, sides, drinks, desserts...
type MenuCategory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	SortOrder uint      `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DiningTable: a physical table, referenced by dine-in orders
type DiningTable struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:50;uniqueIndex;not null" json:"name"` // "Table 5"
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
