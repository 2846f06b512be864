package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestLineTotal(t *testing.T) {
	assert.Equal(t, "130", LineTotal(dec("65.00"), 2).String())
	assert.Equal(t, "0", LineTotal(dec("12.50"), 0).String())

	// Half-even rounding at currency scale.
	assert.Equal(t, "0.1", LineTotal(dec("0.035"), 3).String()) // 0.105 -> 0.10
	assert.Equal(t, "0.08", LineTotal(dec("0.025"), 3).String()) // 0.075 -> 0.08
}

func TestOrderTotalsDeriveFromLines(t *testing.T) {
	o := Order{
		Items: []OrderItem{
			{UnitPrice: dec("65.00"), Quantity: 2, Total: LineTotal(dec("65.00"), 2)},
			{UnitPrice: dec("30.00"), Quantity: 1, Total: LineTotal(dec("30.00"), 1)},
		},
		Payments: []Payment{
			{Amount: dec("100.00")},
			{Amount: dec("60.00")},
		},
	}

	assert.Equal(t, "160", o.Subtotal().String())
	assert.True(t, o.Total().Equal(o.Subtotal()))
	assert.Equal(t, "160", o.PaidAmount().String())
}

func TestOrderTotalsEmptyOrder(t *testing.T) {
	var o Order
	assert.True(t, o.Subtotal().IsZero())
	assert.True(t, o.PaidAmount().IsZero())
}
