package order

import (
	"fmt"
	"time"

	"foodshop-backend/internal/database"
	"foodshop-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentStatusFor derives the computed payment status from the amount paid
// so far against the order total. Refunded is never derived here; it is set
// explicitly through MarkRefunded.
func PaymentStatusFor(paid, total decimal.Decimal) models.PaymentStatus {
	switch {
	case paid.IsZero() || paid.IsNegative():
		return models.PaymentStatusUnpaid
	case paid.GreaterThanOrEqual(total) && total.IsPositive():
		return models.PaymentStatusPaid
	default:
		return models.PaymentStatusPending
	}
}

// AddPayment records a payment against an order and recalculates the order's
// payment status from the new payment sum. Returns the stored payment and the
// remaining balance (total − paid; negative means overpaid).
func AddPayment(orderID uint, method models.PaymentMethod, amount decimal.Decimal, note string) (*models.Payment, decimal.Decimal, error) {
	switch method {
	case models.PaymentMethodCash, models.PaymentMethodCard,
		models.PaymentMethodTransfer, models.PaymentMethodEWallet:
	default:
		return nil, decimal.Zero, validationErrorf("method must be cash, card, transfer or ewallet")
	}
	if amount.IsNegative() {
		return nil, decimal.Zero, validationErrorf("amount cannot be negative")
	}

	var payment models.Payment
	var balance decimal.Decimal

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Preload("Items").Preload("Payments").
			First(&order, "id = ?", orderID).Error; err != nil {
			return err
		}
		if order.OrderStatus == models.OrderStatusCancelled {
			return validationErrorf("cannot pay a cancelled order")
		}
		if order.PaymentStatus == models.PaymentStatusRefunded {
			return validationErrorf("cannot pay a refunded order")
		}

		payment = models.Payment{
			OrderID: order.ID,
			Method:  method,
			Amount:  amount,
			PaidAt:  time.Now(),
			Note:    note,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return fmt.Errorf("could not record payment: %w", err)
		}

		total := order.Total()
		paid := order.PaidAmount().Add(amount)
		balance = total.Sub(paid)

		status := PaymentStatusFor(paid, total)
		if status != order.PaymentStatus {
			if err := tx.Model(&models.Order{}).
				Where("id = ?", order.ID).
				Update("payment_status", status).Error; err != nil {
				return fmt.Errorf("could not update payment status: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, decimal.Zero, err
	}
	return &payment, balance, nil
}
