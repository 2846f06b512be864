package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeNumber(t *testing.T) {
	assert.Equal(t, "2.5", normalizeNumber("2,5"))
	assert.Equal(t, "2.5", normalizeNumber(" 2.5 "))
	assert.Equal(t, "1250.75", normalizeNumber("1,250.75"))
	assert.Equal(t, "100", normalizeNumber("100"))
}

func TestIsHeaderRow(t *testing.T) {
	assert.True(t, isHeaderRow([]string{"Ingredient Name", "Qty"}))
	assert.True(t, isHeaderRow([]string{"PRODUCT"}))
	assert.False(t, isHeaderRow([]string{"Beef", "5"}))
	assert.False(t, isHeaderRow(nil))
}

func TestParseImportRow(t *testing.T) {
	byName := map[string]uint{
		"beef":       10,
		"fish sauce": 11,
	}

	r, reason := parseImportRow([]string{"Beef", "5,5", "120.00", "2026-08-28", "2026-09-10"}, byName)
	require.Empty(t, reason)
	assert.Equal(t, uint(10), r.ingredientID)
	assert.Equal(t, "5.5", r.quantity.String())
	assert.Equal(t, "120", r.unitPrice.String())
	assert.Equal(t, "2026-08-28", r.receivedDate.Format("2006-01-02"))
	require.NotNil(t, r.expiryDate)
	assert.Equal(t, "2026-09-10", r.expiryDate.Format("2006-01-02"))

	// Name matching is case and whitespace insensitive.
	r, reason = parseImportRow([]string{"  FISH   Sauce ", "1"}, byName)
	require.Empty(t, reason)
	assert.Equal(t, uint(11), r.ingredientID)
	assert.Nil(t, r.expiryDate)

	_, reason = parseImportRow([]string{"Chicken", "1"}, byName)
	assert.Contains(t, reason, "unknown ingredient")

	_, reason = parseImportRow([]string{"Beef"}, byName)
	assert.Contains(t, reason, "missing quantity")

	_, reason = parseImportRow([]string{"Beef", "-2"}, byName)
	assert.Contains(t, reason, "invalid quantity")

	_, reason = parseImportRow([]string{"Beef", "1", "abc"}, byName)
	assert.Contains(t, reason, "invalid unit price")

	_, reason = parseImportRow([]string{"Beef", "1", "10", "not-a-date"}, byName)
	assert.Contains(t, reason, "invalid received date")
}
