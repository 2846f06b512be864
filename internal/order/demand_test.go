package order

import (
	"testing"

	"foodshop-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestGroupLinesRejectsEmptyOrder(t *testing.T) {
	_, err := groupLines(nil)
	require.Error(t, err)
	assert.IsType(t, &ValidationError{}, err)

	_, err = groupLines([]OrderLine{})
	require.Error(t, err)
}

func TestGroupLinesRejectsBadLines(t *testing.T) {
	_, err := groupLines([]OrderLine{{MenuItemID: 0, Quantity: 1}})
	assert.IsType(t, &ValidationError{}, err)

	_, err = groupLines([]OrderLine{{MenuItemID: 1, Quantity: 0}})
	assert.IsType(t, &ValidationError{}, err)

	_, err = groupLines([]OrderLine{{MenuItemID: 1, Quantity: -3}})
	assert.IsType(t, &ValidationError{}, err)
}

func TestGroupLinesCollapsesDuplicates(t *testing.T) {
	servings, err := groupLines([]OrderLine{
		{MenuItemID: 7, Quantity: 2},
		{MenuItemID: 9, Quantity: 1},
		{MenuItemID: 7, Quantity: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, map[uint]int{7: 5, 9: 1}, servings)
}

func TestAggregateDemandExpandsRecipes(t *testing.T) {
	// Two dishes sharing beef: noodle soup uses 0.2 kg, steak uses 0.35 kg.
	recipes := []models.RecipeItem{
		{MenuItemID: 1, IngredientID: 10, Quantity: dec("0.2")},   // beef
		{MenuItemID: 1, IngredientID: 11, Quantity: dec("0.1")},   // noodles
		{MenuItemID: 2, IngredientID: 10, Quantity: dec("0.35")},  // beef
		{MenuItemID: 2, IngredientID: 12, Quantity: dec("0.015")}, // pepper
	}
	servings := map[uint]int{1: 4, 2: 2}

	demand := aggregateDemand(servings, recipes)

	assert.True(t, dec("1.5").Equal(demand[10]), "beef: 4*0.2 + 2*0.35, got %s", demand[10])
	assert.True(t, dec("0.4").Equal(demand[11]))
	assert.True(t, dec("0.03").Equal(demand[12]))
}

func TestAggregateDemandExactDecimal(t *testing.T) {
	// 3 * 0.1 must be exactly 0.3, not a float approximation.
	recipes := []models.RecipeItem{
		{MenuItemID: 1, IngredientID: 5, Quantity: dec("0.1")},
	}
	demand := aggregateDemand(map[uint]int{1: 3}, recipes)
	assert.Equal(t, "0.3", demand[5].String())
}

func TestAggregateDemandIgnoresUnorderedAndNonPositive(t *testing.T) {
	recipes := []models.RecipeItem{
		{MenuItemID: 1, IngredientID: 5, Quantity: dec("0.5")},
		{MenuItemID: 2, IngredientID: 6, Quantity: dec("1")},  // not ordered
		{MenuItemID: 1, IngredientID: 7, Quantity: dec("0")},  // zero row
		{MenuItemID: 1, IngredientID: 8, Quantity: dec("-1")}, // bad row
	}
	demand := aggregateDemand(map[uint]int{1: 2}, recipes)

	require.Len(t, demand, 1)
	assert.True(t, dec("1").Equal(demand[5]))
}

func TestAggregateDemandNoRecipeMeansNoDemand(t *testing.T) {
	// Bottled drinks: a menu item without recipe rows consumes nothing.
	demand := aggregateDemand(map[uint]int{3: 10}, nil)
	assert.Empty(t, demand)
}

func TestSortedIngredientIDsAscending(t *testing.T) {
	demand := map[uint]decimal.Decimal{
		42: dec("1"),
		7:  dec("2"),
		19: dec("3"),
	}
	assert.Equal(t, []uint{7, 19, 42}, sortedIngredientIDs(demand))
}
