package inventory

import (
	"fmt"
	"time"

	"foodshop-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CurrentStock derives an ingredient's stock as the sum of remaining
// quantities over its lots. This is never cached anywhere; every reader
// recomputes it from the lot ledger.
func CurrentStock(db *gorm.DB, ingredientID uint) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := db.Model(&models.InventoryLot{}).
		Select("COALESCE(SUM(quantity_remaining), 0)").
		Where("ingredient_id = ?", ingredientID).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("could not sum lots for ingredient %d: %w", ingredientID, err)
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// StatusFor classifies a stock level against the ingredient's minimum
// threshold: nothing left is out_of_stock, below the minimum is low_stock,
// otherwise in_stock. A zero minimum disables the low_stock band.
func StatusFor(stock, minStock decimal.Decimal) models.IngredientStatus {
	switch {
	case !stock.IsPositive():
		return models.IngredientOutOfStock
	case minStock.IsPositive() && stock.LessThan(minStock):
		return models.IngredientLowStock
	default:
		return models.IngredientInStock
	}
}

// RefreshIngredientStatus recomputes the cached status column from the lot
// ledger. Must run inside the same transaction as any lot mutation so the
// cached value can never disagree with the lots at commit time.
func RefreshIngredientStatus(tx *gorm.DB, ingredientID uint) error {
	var ing models.Ingredient
	if err := tx.First(&ing, "id = ?", ingredientID).Error; err != nil {
		return fmt.Errorf("could not load ingredient %d: %w", ingredientID, err)
	}

	stock, err := CurrentStock(tx, ingredientID)
	if err != nil {
		return err
	}

	status := StatusFor(stock, ing.MinStock)
	if status == ing.Status {
		return nil
	}

	return tx.Model(&models.Ingredient{}).
		Where("id = ?", ingredientID).
		Updates(map[string]interface{}{
			"status":       status,
			"last_updated": time.Now(),
		}).Error
}
