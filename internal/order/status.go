package order

import (
	"fmt"
	"time"

	"foodshop-backend/internal/database"
	"foodshop-backend/internal/models"

	"gorm.io/gorm"
)

// ValidOrderStatus reports whether s is one of the known order states.
func ValidOrderStatus(s models.OrderStatus) bool {
	switch s {
	case models.OrderStatusPending, models.OrderStatusPreparing,
		models.OrderStatusReady, models.OrderStatusCompleted,
		models.OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransition encodes the state machine: completed is terminal, cancelled
// is reachable from any non-completed state, and everything else just gets
// recorded. Re-asserting the current state is a no-op and allowed.
func CanTransition(from, to models.OrderStatus) bool {
	if from == to {
		return true
	}
	if from == models.OrderStatusCompleted {
		return false
	}
	return true
}

// UpdateStatus records a status change. completed_at is written exactly once,
// the first time the order reaches completed; it is never overwritten even if
// the status is re-asserted later.
func UpdateStatus(id uint, to models.OrderStatus) (*models.Order, error) {
	if !ValidOrderStatus(to) {
		return nil, validationErrorf("unknown order status %q", to)
	}

	var order models.Order
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, "id = ?", id).Error; err != nil {
			return err
		}

		if !CanTransition(order.OrderStatus, to) {
			return validationErrorf("cannot change a %s order to %s", order.OrderStatus, to)
		}

		updates := map[string]interface{}{"order_status": to}
		if to == models.OrderStatusCompleted && order.CompletedAt == nil {
			now := time.Now()
			updates["completed_at"] = now
			order.CompletedAt = &now
		}
		order.OrderStatus = to

		return tx.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// MarkRefunded flips payment_status to refunded. The computed transitions
// (unpaid/pending/paid) come from recalcPaymentStatus; refunds are the one
// manual override.
func MarkRefunded(id uint) (*models.Order, error) {
	var order models.Order
	if err := database.DB.First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if order.PaymentStatus != models.PaymentStatusPaid {
		return nil, validationErrorf("only a paid order can be refunded")
	}
	if err := database.DB.Model(&models.Order{}).
		Where("id = ?", id).
		Update("payment_status", models.PaymentStatusRefunded).Error; err != nil {
		return nil, fmt.Errorf("could not mark order refunded: %w", err)
	}
	order.PaymentStatus = models.PaymentStatusRefunded
	return &order, nil
}
