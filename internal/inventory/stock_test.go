package inventory

import (
	"testing"

	"foodshop-backend/internal/models"

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

func TestStatusFor(t *testing.T) {
	cases := []struct {
		stock, min string
		want       models.IngredientStatus
	}{
		{"0", "5", models.IngredientOutOfStock},
		{"0", "0", models.IngredientOutOfStock},
		{"2", "5", models.IngredientLowStock},
		{"4.999", "5", models.IngredientLowStock},
		{"5", "5", models.IngredientInStock},
		{"10", "5", models.IngredientInStock},
		{"0.001", "0", models.IngredientInStock}, // zero minimum disables the low band
	}
	for _, c := range cases {
		got := StatusFor(dec(c.stock), dec(c.min))
		assert.Equal(t, c.want, got, "stock=%s min=%s", c.stock, c.min)
	}
}
