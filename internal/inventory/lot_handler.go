package inventory

import (
	"time"

	"foodshop-backend/internal/audit"
	"foodshop-backend/internal/auth"
	"foodshop-backend/internal/database"
	"foodshop-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateLotRequest struct {
	IngredientID      uint             `json:"ingredient_id"`
	SupplierID        *uint            `json:"supplier_id"`
	QuantityReceived  decimal.Decimal  `json:"quantity_received"`
	QuantityRemaining *decimal.Decimal `json:"quantity_remaining"` // defaults to received
	UnitPrice         decimal.Decimal  `json:"unit_price"`
	ReceivedDate      string           `json:"received_date"` // "2026-08-28", defaults to today
	ExpiryDate        *string          `json:"expiry_date"`
}

// POST /api/inventory-lots: stock receipt.
func CreateInventoryLotHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateLotRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.IngredientID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ingredient_id is required")
		}
		if !body.QuantityReceived.IsPositive() {
			return fiber.NewError(fiber.StatusBadRequest, "quantity_received must be positive")
		}
		if body.UnitPrice.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "unit_price cannot be negative")
		}

		remaining := body.QuantityReceived
		if body.QuantityRemaining != nil {
			remaining = *body.QuantityRemaining
			if remaining.IsNegative() || remaining.GreaterThan(body.QuantityReceived) {
				return fiber.NewError(fiber.StatusBadRequest, "quantity_remaining must be between 0 and quantity_received")
			}
		}

		receivedDate := time.Now()
		if body.ReceivedDate != "" {
			d, err := time.Parse("2006-01-02", body.ReceivedDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "received_date must be 'YYYY-MM-DD'")
			}
			receivedDate = d
		}

		var expiryDate *time.Time
		if body.ExpiryDate != nil && *body.ExpiryDate != "" {
			d, err := time.Parse("2006-01-02", *body.ExpiryDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "expiry_date must be 'YYYY-MM-DD'")
			}
			expiryDate = &d
		}

		var ingredient models.Ingredient
		if err := database.DB.First(&ingredient, "id = ?", body.IngredientID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ingredient not found")
		}
		if body.SupplierID != nil {
			var count int64
			database.DB.Model(&models.Supplier{}).Where("id = ?", *body.SupplierID).Count(&count)
			if count == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Supplier not found")
			}
		}

		lot := models.InventoryLot{
			IngredientID:      body.IngredientID,
			SupplierID:        body.SupplierID,
			QuantityReceived:  body.QuantityReceived,
			QuantityRemaining: remaining,
			UnitPrice:         body.UnitPrice,
			ReceivedDate:      receivedDate,
			ExpiryDate:        expiryDate,
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			// Take the ingredient row lock so receipt serializes against
			// order reservations over the same ingredient.
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&models.Ingredient{}, "id = ?", body.IngredientID).Error; err != nil {
				return err
			}
			if err := tx.Create(&lot).Error; err != nil {
				return err
			}
			return RefreshIngredientStatus(tx, body.IngredientID)
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create lot")
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "inventory_lot",
				EntityID:    lot.ID,
				Action:      models.AuditActionCreate,
				Description: "Lot received for " + ingredient.Name,
				After:       lot,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(lot)
	}
}

type AdjustLotRequest struct {
	QuantityRemaining decimal.Decimal `json:"quantity_remaining"`
	Reason            string          `json:"reason"`
}

// PUT /api/inventory-lots/:id/adjust: manual correction, including write-off
// (set remaining to 0 for a spoiled or expired lot). The only mutation path
// for a lot's remaining quantity besides order consumption.
func AdjustInventoryLotHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid lot id")
		}

		var body AdjustLotRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Reason == "" {
			return fiber.NewError(fiber.StatusBadRequest, "reason is required for a manual adjustment")
		}
		if body.QuantityRemaining.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "quantity_remaining cannot be negative")
		}

		var before, after models.InventoryLot

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&before, "id = ?", id).Error; err != nil {
				return err
			}
			if body.QuantityRemaining.GreaterThan(before.QuantityReceived) {
				return fiber.NewError(fiber.StatusBadRequest, "quantity_remaining cannot exceed quantity_received")
			}

			// Same lock order as the reservation engine: ingredient first.
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&models.Ingredient{}, "id = ?", before.IngredientID).Error; err != nil {
				return err
			}

			if err := tx.Model(&models.InventoryLot{}).
				Where("id = ?", id).
				Update("quantity_remaining", body.QuantityRemaining).Error; err != nil {
				return err
			}
			if err := tx.First(&after, "id = ?", id).Error; err != nil {
				return err
			}
			return RefreshIngredientStatus(tx, before.IngredientID)
		})
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				return fe
			}
			if err == gorm.ErrRecordNotFound {
				return fiber.NewError(fiber.StatusNotFound, "Lot not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not adjust lot")
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "inventory_lot",
				EntityID:    after.ID,
				Action:      models.AuditActionUpdate,
				Description: "Lot adjusted: " + body.Reason,
				Before:      before,
				After:       after,
			})
		}

		return c.JSON(after)
	}
}

// GET /api/inventory-lots?ingredient_id=&expiring_before=&with_stock=true
func ListInventoryLotsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.InventoryLot{}).
			Preload("Ingredient").
			Preload("Supplier")

		if s := c.Query("ingredient_id"); s != "" {
			dbq = dbq.Where("ingredient_id = ?", s)
		}
		if s := c.Query("expiring_before"); s != "" {
			d, err := time.Parse("2006-01-02", s)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "expiring_before must be 'YYYY-MM-DD'")
			}
			dbq = dbq.Where("expiry_date IS NOT NULL AND expiry_date <= ?", d)
		}
		if c.Query("with_stock") == "true" {
			dbq = dbq.Where("quantity_remaining > 0")
		}

		var lots []models.InventoryLot
		if err := dbq.Order("received_date ASC, id ASC").Find(&lots).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list lots")
		}
		return c.JSON(lots)
	}
}

// GET /api/ingredients/:id/stock
func GetIngredientStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid ingredient id")
		}

		var ingredient models.Ingredient
		if err := database.DB.First(&ingredient, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ingredient not found")
		}

		stock, err := CurrentStock(database.DB, uint(id))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute stock")
		}

		return c.JSON(fiber.Map{
			"ingredient_id": ingredient.ID,
			"name":          ingredient.Name,
			"current_stock": stock,
			"min_stock":     ingredient.MinStock,
			"max_stock":     ingredient.MaxStock,
			"status":        StatusFor(stock, ingredient.MinStock),
		})
	}
}

// GET /api/ingredients/low-stock: everything at or below its minimum.
func ListLowStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var rows []struct {
			ID           uint                    `json:"id"`
			Name         string                  `json:"name"`
			MinStock     decimal.Decimal         `json:"min_stock"`
			MaxStock     decimal.Decimal         `json:"max_stock"`
			Status       models.IngredientStatus `json:"status"`
			CurrentStock decimal.Decimal         `json:"current_stock"`
		}
		err := database.DB.Model(&models.Ingredient{}).
			Select("ingredients.id, ingredients.name, ingredients.min_stock, ingredients.max_stock, ingredients.status, COALESCE(SUM(inventory_lots.quantity_remaining), 0) AS current_stock").
			Joins("LEFT JOIN inventory_lots ON inventory_lots.ingredient_id = ingredients.id").
			Where("ingredients.is_active = true").
			Group("ingredients.id").
			Having("COALESCE(SUM(inventory_lots.quantity_remaining), 0) < ingredients.min_stock").
			Order("ingredients.name ASC").
			Scan(&rows).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list low stock")
		}
		return c.JSON(rows)
	}
}
