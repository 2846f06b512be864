package order

import (
	"testing"

	"foodshop-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestPaymentStatusFor(t *testing.T) {
	cases := []struct {
		paid, total string
		want        models.PaymentStatus
	}{
		{"0", "100", models.PaymentStatusUnpaid},
		{"-5", "100", models.PaymentStatusUnpaid},
		{"40", "100", models.PaymentStatusPending},
		{"100", "100", models.PaymentStatusPaid},
		{"120", "100", models.PaymentStatusPaid}, // overpayment still counts as paid
		{"0", "0", models.PaymentStatusUnpaid},   // zero-total order is never "paid"
	}
	for _, c := range cases {
		got := PaymentStatusFor(dec(c.paid), dec(c.total))
		assert.Equal(t, c.want, got, "paid=%s total=%s", c.paid, c.total)
	}
}
