package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryLot: one received batch of an ingredient, with its own remaining
// quantity, price and expiry. quantity_remaining only moves down through
// order consumption or manual adjustment; it never goes negative and never
// exceeds quantity_received. Lots referenced by historical orders are kept
// for the audit trail.
type InventoryLot struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	IngredientID uint       `gorm:"index;not null" json:"ingredient_id"`
	Ingredient   Ingredient `json:"ingredient"`
	SupplierID   *uint      `json:"supplier_id"`
	Supplier     *Supplier  `gorm:"constraint:OnDelete:SET NULL" json:"supplier,omitempty"`

	QuantityReceived  decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"quantity_received"`
	QuantityRemaining decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"quantity_remaining"`
	UnitPrice         decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"unit_price"`

	ReceivedDate time.Time  `gorm:"type:date;index;not null" json:"received_date"`
	ExpiryDate   *time.Time `gorm:"type:date;index" json:"expiry_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
