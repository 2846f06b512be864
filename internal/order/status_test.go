package order

import (
	"testing"

	"foodshop-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []models.OrderStatus{
		models.OrderStatusPending, models.OrderStatusPreparing,
		models.OrderStatusReady, models.OrderStatusCompleted,
		models.OrderStatusCancelled,
	} {
		assert.True(t, ValidOrderStatus(s), string(s))
	}
	assert.False(t, ValidOrderStatus("shipped"))
	assert.False(t, ValidOrderStatus(""))
}

func TestCanTransitionCompletedIsTerminal(t *testing.T) {
	assert.False(t, CanTransition(models.OrderStatusCompleted, models.OrderStatusPending))
	assert.False(t, CanTransition(models.OrderStatusCompleted, models.OrderStatusCancelled))

	// Re-asserting the terminal state is still a no-op, not an error.
	assert.True(t, CanTransition(models.OrderStatusCompleted, models.OrderStatusCompleted))
}

func TestCanTransitionEverythingElseFlows(t *testing.T) {
	assert.True(t, CanTransition(models.OrderStatusPending, models.OrderStatusPreparing))
	assert.True(t, CanTransition(models.OrderStatusPreparing, models.OrderStatusReady))
	assert.True(t, CanTransition(models.OrderStatusReady, models.OrderStatusCompleted))
	assert.True(t, CanTransition(models.OrderStatusPending, models.OrderStatusCancelled))
	assert.True(t, CanTransition(models.OrderStatusReady, models.OrderStatusPending))
}
