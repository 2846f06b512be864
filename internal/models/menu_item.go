package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MenuItem: a dish or drink on the menu ("Beef Noodle", "Iced Coffee", ...)
type MenuItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:255;uniqueIndex;not null" json:"name"`
	CategoryID  uint            `gorm:"index;not null" json:"category_id"`
	Category    MenuCategory    `json:"category"`
	Price       decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"price"`
	Description string          `json:"description"`
	Available   bool            `gorm:"not null;default:true" json:"available"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
