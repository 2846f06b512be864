package order

import (
	"fmt"
	"sort"

	"foodshop-backend/internal/inventory"
	"foodshop-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// reserveStock is the heart of the engine. Inside the caller's transaction it
// locks the demanded ingredient rows in ascending-id order, computes each
// ingredient's available stock as the sum of remaining lot quantities, and
// returns the complete shortage list (empty means the whole demand is
// covered). The locks are held until the transaction ends, so a concurrent
// reservation over an overlapping ingredient set waits here and then sees the
// post-commit stock.
func reserveStock(tx *gorm.DB, demand map[uint]decimal.Decimal) ([]Shortage, error) {
	if len(demand) == 0 {
		return nil, nil
	}

	ids := sortedIngredientIDs(demand)

	var ingredients []models.Ingredient
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&ingredients).Error; err != nil {
		if isLockTimeout(err) {
			return nil, ErrBusy
		}
		return nil, fmt.Errorf("could not lock ingredient rows: %w", err)
	}

	locked := make(map[uint]models.Ingredient, len(ingredients))
	for _, ing := range ingredients {
		locked[ing.ID] = ing
	}

	available, err := availableStock(tx, ids)
	if err != nil {
		return nil, err
	}

	return findShortages(demand, locked, available), nil
}

// availableStock sums quantity_remaining per ingredient over its lots.
// Ingredients with no lots are simply absent and count as zero.
func availableStock(tx *gorm.DB, ingredientIDs []uint) (map[uint]decimal.Decimal, error) {
	var rows []struct {
		IngredientID uint
		Total        decimal.Decimal
	}
	err := tx.Model(&models.InventoryLot{}).
		Select("ingredient_id, COALESCE(SUM(quantity_remaining), 0) AS total").
		Where("ingredient_id IN ?", ingredientIDs).
		Group("ingredient_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("could not aggregate lot stock: %w", err)
	}

	stock := make(map[uint]decimal.Decimal, len(rows))
	for _, r := range rows {
		stock[r.IngredientID] = r.Total
	}
	return stock, nil
}

// findShortages compares demand against available stock. The report covers
// every failing ingredient, in ascending-id order, so the caller gets the
// whole picture in one round trip. A demanded ingredient that does not exist
// at all is reported as a shortage with zero availability rather than
// silently dropped.
func findShortages(demand map[uint]decimal.Decimal, ingredients map[uint]models.Ingredient, available map[uint]decimal.Decimal) []Shortage {
	var shortages []Shortage
	for _, id := range sortedIngredientIDs(demand) {
		required := demand[id]
		ing, known := ingredients[id]
		if !known {
			shortages = append(shortages, Shortage{
				IngredientID: id,
				Name:         fmt.Sprintf("ingredient #%d", id),
				Required:     required,
				Available:    decimal.Zero,
			})
			continue
		}
		have := available[id] // zero value when no lots
		if required.GreaterThan(have) {
			shortages = append(shortages, Shortage{
				IngredientID: id,
				Name:         ing.Name,
				Required:     required,
				Available:    have,
			})
		}
	}
	return shortages
}

// lotDraw: take this much from this lot.
type lotDraw struct {
	LotID uint
	Take  decimal.Decimal
}

// sortLotsFEFO orders lots for consumption: earliest expiry first, lots
// without an expiry date last, ties broken by earliest received date, then by
// id so the order is total.
func sortLotsFEFO(lots []models.InventoryLot) {
	sort.SliceStable(lots, func(i, j int) bool {
		a, b := lots[i], lots[j]
		switch {
		case a.ExpiryDate != nil && b.ExpiryDate == nil:
			return true
		case a.ExpiryDate == nil && b.ExpiryDate != nil:
			return false
		case a.ExpiryDate != nil && b.ExpiryDate != nil && !a.ExpiryDate.Equal(*b.ExpiryDate):
			return a.ExpiryDate.Before(*b.ExpiryDate)
		}
		if !a.ReceivedDate.Equal(b.ReceivedDate) {
			return a.ReceivedDate.Before(b.ReceivedDate)
		}
		return a.ID < b.ID
	})
}

// planLotDraws walks FEFO-sorted lots and plans how much to take from each
// until the need is exhausted. A non-nil error means the lots cannot cover
// the need, which, after reserveStock passed under the same locks, is a
// consistency violation, not a user-facing shortage.
func planLotDraws(ingredientID uint, lots []models.InventoryLot, need decimal.Decimal) ([]lotDraw, error) {
	sortLotsFEFO(lots)

	draws := make([]lotDraw, 0, len(lots))
	remaining := need
	for _, lot := range lots {
		if !remaining.IsPositive() {
			break
		}
		if !lot.QuantityRemaining.IsPositive() {
			continue
		}
		take := decimal.Min(lot.QuantityRemaining, remaining)
		draws = append(draws, lotDraw{LotID: lot.ID, Take: take})
		remaining = remaining.Sub(take)
	}

	if remaining.IsPositive() {
		return nil, &ConsistencyError{
			IngredientID: ingredientID,
			Msg:          fmt.Sprintf("lots cover %s less than the approved demand %s", remaining, need),
		}
	}
	return draws, nil
}

// deductStock consumes the approved demand from each ingredient's lots, FEFO.
// Runs strictly after reserveStock in the same transaction, with the
// ingredient row locks still held. Every write is guarded so that a remaining
// quantity can never go negative even if something slipped past the plan.
func deductStock(tx *gorm.DB, demand map[uint]decimal.Decimal) error {
	for _, id := range sortedIngredientIDs(demand) {
		need := demand[id]
		if !need.IsPositive() {
			continue
		}

		var lots []models.InventoryLot
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("ingredient_id = ? AND quantity_remaining > 0", id).
			Order("id ASC").
			Find(&lots).Error; err != nil {
			if isLockTimeout(err) {
				return ErrBusy
			}
			return fmt.Errorf("could not load lots for ingredient %d: %w", id, err)
		}

		draws, err := planLotDraws(id, lots, need)
		if err != nil {
			return err
		}

		for _, d := range draws {
			res := tx.Model(&models.InventoryLot{}).
				Where("id = ? AND quantity_remaining >= ?", d.LotID, d.Take).
				UpdateColumn("quantity_remaining", gorm.Expr("quantity_remaining - ?", d.Take))
			if res.Error != nil {
				return fmt.Errorf("could not deduct lot %d: %w", d.LotID, res.Error)
			}
			if res.RowsAffected != 1 {
				return &ConsistencyError{
					IngredientID: id,
					Msg:          fmt.Sprintf("lot %d changed underneath the reservation", d.LotID),
				}
			}
		}

		if err := inventory.RefreshIngredientStatus(tx, id); err != nil {
			return err
		}
	}
	return nil
}
