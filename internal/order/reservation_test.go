package order

import (
	"testing"
	"time"

	"foodshop-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func dayPtr(s string) *time.Time {
	d := day(s)
	return &d
}

func TestFindShortagesReportsEveryFailingIngredient(t *testing.T) {
	demand := map[uint]decimal.Decimal{
		1: dec("5"),   // short
		2: dec("2"),   // covered
		3: dec("0.5"), // short, no lots at all
	}
	ingredients := map[uint]models.Ingredient{
		1: {ID: 1, Name: "Beef"},
		2: {ID: 2, Name: "Rice"},
		3: {ID: 3, Name: "Fish Sauce"},
	}
	available := map[uint]decimal.Decimal{
		1: dec("3.2"),
		2: dec("2"),
	}

	shortages := findShortages(demand, ingredients, available)

	require.Len(t, shortages, 2)
	assert.Equal(t, uint(1), shortages[0].IngredientID)
	assert.Equal(t, "Beef", shortages[0].Name)
	assert.True(t, dec("5").Equal(shortages[0].Required))
	assert.True(t, dec("3.2").Equal(shortages[0].Available))

	assert.Equal(t, uint(3), shortages[1].IngredientID)
	assert.True(t, shortages[1].Available.IsZero())
}

func TestFindShortagesExactCoverIsNotAShortage(t *testing.T) {
	demand := map[uint]decimal.Decimal{1: dec("2.000")}
	ingredients := map[uint]models.Ingredient{1: {ID: 1, Name: "Beef"}}
	available := map[uint]decimal.Decimal{1: dec("2")}

	assert.Empty(t, findShortages(demand, ingredients, available))
}

func TestFindShortagesUnknownIngredient(t *testing.T) {
	demand := map[uint]decimal.Decimal{99: dec("1")}

	shortages := findShortages(demand, map[uint]models.Ingredient{}, map[uint]decimal.Decimal{})

	require.Len(t, shortages, 1)
	assert.Equal(t, uint(99), shortages[0].IngredientID)
	assert.True(t, shortages[0].Available.IsZero())
}

func TestSortLotsFEFO(t *testing.T) {
	lots := []models.InventoryLot{
		{ID: 1, ReceivedDate: day("2026-08-01"), ExpiryDate: nil},
		{ID: 2, ReceivedDate: day("2026-08-02"), ExpiryDate: dayPtr("2026-09-10")},
		{ID: 3, ReceivedDate: day("2026-08-03"), ExpiryDate: dayPtr("2026-09-01")},
		{ID: 4, ReceivedDate: day("2026-07-20"), ExpiryDate: nil},
	}

	sortLotsFEFO(lots)

	// Earliest expiry first, no-expiry lots last ordered by received date.
	ids := []uint{lots[0].ID, lots[1].ID, lots[2].ID, lots[3].ID}
	assert.Equal(t, []uint{3, 2, 4, 1}, ids)
}

func TestSortLotsFEFOTieBreaks(t *testing.T) {
	lots := []models.InventoryLot{
		{ID: 8, ReceivedDate: day("2026-08-05"), ExpiryDate: dayPtr("2026-09-01")},
		{ID: 5, ReceivedDate: day("2026-08-05"), ExpiryDate: dayPtr("2026-09-01")},
		{ID: 6, ReceivedDate: day("2026-08-01"), ExpiryDate: dayPtr("2026-09-01")},
	}

	sortLotsFEFO(lots)

	// Same expiry: earlier received wins, then lower id.
	assert.Equal(t, uint(6), lots[0].ID)
	assert.Equal(t, uint(5), lots[1].ID)
	assert.Equal(t, uint(8), lots[2].ID)
}

func TestPlanLotDrawsSpansLots(t *testing.T) {
	// 5 kg of beef over three lots: 2.0 expiring first, then 1.5, then 3.0.
	lots := []models.InventoryLot{
		{ID: 1, QuantityRemaining: dec("3.0"), ReceivedDate: day("2026-08-03"), ExpiryDate: dayPtr("2026-09-20")},
		{ID: 2, QuantityRemaining: dec("2.0"), ReceivedDate: day("2026-08-01"), ExpiryDate: dayPtr("2026-09-01")},
		{ID: 3, QuantityRemaining: dec("1.5"), ReceivedDate: day("2026-08-02"), ExpiryDate: dayPtr("2026-09-10")},
	}

	draws, err := planLotDraws(10, lots, dec("5"))
	require.NoError(t, err)

	require.Len(t, draws, 3)
	assert.Equal(t, uint(2), draws[0].LotID)
	assert.True(t, dec("2.0").Equal(draws[0].Take))
	assert.Equal(t, uint(3), draws[1].LotID)
	assert.True(t, dec("1.5").Equal(draws[1].Take))
	assert.Equal(t, uint(1), draws[2].LotID)
	assert.True(t, dec("1.5").Equal(draws[2].Take), "only the remainder from the last lot")
}

func TestPlanLotDrawsStopsWhenCovered(t *testing.T) {
	lots := []models.InventoryLot{
		{ID: 1, QuantityRemaining: dec("10"), ReceivedDate: day("2026-08-01"), ExpiryDate: dayPtr("2026-09-01")},
		{ID: 2, QuantityRemaining: dec("10"), ReceivedDate: day("2026-08-02"), ExpiryDate: dayPtr("2026-09-02")},
	}

	draws, err := planLotDraws(10, lots, dec("0.2"))
	require.NoError(t, err)

	require.Len(t, draws, 1)
	assert.Equal(t, uint(1), draws[0].LotID)
	assert.True(t, dec("0.2").Equal(draws[0].Take))
}

func TestPlanLotDrawsSkipsEmptyLots(t *testing.T) {
	lots := []models.InventoryLot{
		{ID: 1, QuantityRemaining: dec("0"), ReceivedDate: day("2026-08-01"), ExpiryDate: dayPtr("2026-09-01")},
		{ID: 2, QuantityRemaining: dec("1"), ReceivedDate: day("2026-08-02"), ExpiryDate: dayPtr("2026-09-02")},
	}

	draws, err := planLotDraws(10, lots, dec("1"))
	require.NoError(t, err)

	require.Len(t, draws, 1)
	assert.Equal(t, uint(2), draws[0].LotID)
}

func TestPlanLotDrawsShortfallIsConsistencyError(t *testing.T) {
	lots := []models.InventoryLot{
		{ID: 1, QuantityRemaining: dec("1"), ReceivedDate: day("2026-08-01"), ExpiryDate: dayPtr("2026-09-01")},
	}

	_, err := planLotDraws(10, lots, dec("2"))

	require.Error(t, err)
	var cErr *ConsistencyError
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, uint(10), cErr.IngredientID)
}

func TestShortageErrorMessageListsAll(t *testing.T) {
	err := &ShortageError{Shortages: []Shortage{
		{Name: "Beef", Required: dec("5"), Available: dec("3.2")},
		{Name: "Rice", Required: dec("1"), Available: dec("0")},
	}}
	msg := err.Error()
	assert.Contains(t, msg, "Beef")
	assert.Contains(t, msg, "Rice")
}
