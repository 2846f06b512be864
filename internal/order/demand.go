package order

import (
	"sort"

	"foodshop-backend/internal/models"

	"github.com/shopspring/decimal"
)

// OrderLine: one requested (menu item, quantity) pair. UnitPrice and Name may
// override the menu item's current values in the snapshot; when nil/empty the
// snapshot is taken from the menu item.
type OrderLine struct {
	MenuItemID uint             `json:"menu_item_id"`
	Quantity   int              `json:"quantity"`
	UnitPrice  *decimal.Decimal `json:"unit_price,omitempty"`
	Name       string           `json:"name,omitempty"`
}

// groupLines validates the raw input lines and collapses duplicate menu items
// into total servings per menu item. This is the only place order-line input
// validation happens, for the real reservation and the dry run alike.
func groupLines(lines []OrderLine) (map[uint]int, error) {
	if len(lines) == 0 {
		return nil, validationErrorf("an order must contain at least one item")
	}

	servings := make(map[uint]int, len(lines))
	for _, line := range lines {
		if line.MenuItemID == 0 {
			return nil, validationErrorf("menu_item_id is required for every item")
		}
		if line.Quantity < 1 {
			return nil, validationErrorf("quantity must be at least 1 (menu item %d)", line.MenuItemID)
		}
		servings[line.MenuItemID] += line.Quantity
	}
	return servings, nil
}

// aggregateDemand expands per-menu-item servings through the recipe rows into
// total required quantity per ingredient. Menu items without recipe rows
// contribute nothing: bottled drinks and the like are not tracked at
// ingredient granularity. All arithmetic is exact decimal.
func aggregateDemand(servings map[uint]int, recipes []models.RecipeItem) map[uint]decimal.Decimal {
	demand := make(map[uint]decimal.Decimal)
	for _, ri := range recipes {
		count, ok := servings[ri.MenuItemID]
		if !ok || count == 0 || !ri.Quantity.IsPositive() {
			continue
		}
		need := ri.Quantity.Mul(decimal.NewFromInt(int64(count)))
		demand[ri.IngredientID] = demand[ri.IngredientID].Add(need)
	}
	return demand
}

// sortedIngredientIDs returns the demanded ingredient ids in ascending order.
// Every reservation locks rows in this order so that two concurrent orders
// sharing ingredients can never deadlock on each other.
func sortedIngredientIDs(demand map[uint]decimal.Decimal) []uint {
	ids := make([]uint, 0, len(demand))
	for id := range demand {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
