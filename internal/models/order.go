package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderType string

const (
	OrderTypeDineIn   OrderType = "dine_in"
	OrderTypeTakeaway OrderType = "takeaway"
	OrderTypeDelivery OrderType = "delivery"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Order: the aggregate root. Subtotal/total are never stored; they are always
// recomputed from the persisted line totals so they cannot drift.
type Order struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	OrderNumber   string        `gorm:"size:50;uniqueIndex;not null" json:"order_number"`
	CustomerName  string        `gorm:"size:255" json:"customer_name"`
	CustomerPhone string        `gorm:"size:50" json:"customer_phone"`
	OrderType     OrderType     `gorm:"size:20;not null;default:dine_in" json:"order_type"`
	TableID       *uint         `json:"table_id"`
	Table         *DiningTable  `gorm:"constraint:OnDelete:SET NULL" json:"table,omitempty"`
	OrderStatus   OrderStatus   `gorm:"size:20;index;not null;default:pending" json:"order_status"`
	PaymentStatus PaymentStatus `gorm:"size:20;index;not null;default:unpaid" json:"payment_status"`
	CreatedAt     time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`

	// Set exactly once, the first time the order becomes completed.
	CompletedAt *time.Time `json:"completed_at"`

	Notes string `json:"notes"`

	Items    []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	Payments []Payment   `gorm:"constraint:OnDelete:CASCADE" json:"payments"`
}

// Subtotal sums the snapshot line totals. Requires Items to be loaded.
func (o *Order) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range o.Items {
		sum = sum.Add(it.Total)
	}
	return sum
}

// Total equals Subtotal: no tax or discount fields in this model. If they are
// ever added they must be explicit additive fields, never a settable total.
func (o *Order) Total() decimal.Decimal {
	return o.Subtotal()
}

// PaidAmount sums recorded payments. Requires Payments to be loaded.
func (o *Order) PaidAmount() decimal.Decimal {
	sum := decimal.Zero
	for _, p := range o.Payments {
		sum = sum.Add(p.Amount)
	}
	return sum
}
