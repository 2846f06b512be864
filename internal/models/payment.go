package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodEWallet  PaymentMethod = "ewallet"
)

// Payment: one payment applied to an order. Several payments may settle a
// single order; the sum against the derived total drives payment_status.
type Payment struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	OrderID uint  `gorm:"index;not null" json:"order_id"`

	Method PaymentMethod   `gorm:"size:20;not null" json:"method"`
	Amount decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	PaidAt time.Time       `gorm:"index;not null" json:"paid_at"`
	Note   string          `gorm:"size:255" json:"note"`

	CreatedAt time.Time `json:"created_at"`
}
