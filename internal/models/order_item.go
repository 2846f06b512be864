package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem: one line of an order. Name and unit price are snapshots taken at
// creation time and never change afterwards, even if the menu item is
// repriced, renamed or deleted (menu_item_id goes NULL on deletion, the
// snapshot stays).
type OrderItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OrderID    uint      `gorm:"index;not null" json:"order_id"`
	MenuItemID *uint     `json:"menu_item_id"`
	MenuItem   *MenuItem `gorm:"constraint:OnDelete:SET NULL" json:"menu_item,omitempty"`

	Name      string          `gorm:"size:255;not null" json:"name"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"unit_price"`
	Quantity  int             `gorm:"not null" json:"quantity"`

	// Always unit_price × quantity; persisted for cheap order-level sums but
	// never settable independently.
	Total decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LineTotal computes a line total at currency scale. Prices carry two decimal
// places and quantities are whole servings, so the product is exact; RoundBank
// (half-even) is applied so any future fractional pricing rounds the same way
// everywhere.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).RoundBank(2)
}
