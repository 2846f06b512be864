package catalog

import (
	"strings"

	"foodshop-backend/internal/audit"
	"foodshop-backend/internal/auth"
	"foodshop-backend/internal/database"
	"foodshop-backend/internal/inventory"
	"foodshop-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type CreateIngredientRequest struct {
	Name               string           `json:"name"`
	CategoryID         uint             `json:"category_id"`
	UnitID             uint             `json:"unit_id"`
	MinStock           decimal.Decimal  `json:"min_stock"`
	MaxStock           decimal.Decimal  `json:"max_stock"`
	ReferenceUnitPrice *decimal.Decimal `json:"reference_unit_price"`
}

type UpdateIngredientRequest struct {
	Name               *string          `json:"name"`
	CategoryID         *uint            `json:"category_id"`
	UnitID             *uint            `json:"unit_id"`
	MinStock           *decimal.Decimal `json:"min_stock"`
	MaxStock           *decimal.Decimal `json:"max_stock"`
	ReferenceUnitPrice *decimal.Decimal `json:"reference_unit_price"`
	IsActive           *bool            `json:"is_active"`
}

// IngredientResponse carries the derived stock next to the master record.
type IngredientResponse struct {
	models.Ingredient
	CurrentStock decimal.Decimal `json:"current_stock"`
}

func validateIngredientBounds(minStock, maxStock decimal.Decimal) error {
	if minStock.IsNegative() || maxStock.IsNegative() {
		return fiber.NewError(fiber.StatusBadRequest, "min_stock and max_stock cannot be negative")
	}
	if maxStock.IsPositive() && maxStock.LessThan(minStock) {
		return fiber.NewError(fiber.StatusBadRequest, "max_stock cannot be below min_stock")
	}
	return nil
}

// POST /api/ingredients
func CreateIngredientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateIngredientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" || body.CategoryID == 0 || body.UnitID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "name, category_id and unit_id are required")
		}
		if err := validateIngredientBounds(body.MinStock, body.MaxStock); err != nil {
			return err
		}

		var count int64
		database.DB.Model(&models.IngredientCategory{}).Where("id = ?", body.CategoryID).Count(&count)
		if count == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Category not found")
		}
		database.DB.Model(&models.Unit{}).Where("id = ?", body.UnitID).Count(&count)
		if count == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Unit not found")
		}

		ingredient := models.Ingredient{
			Name:               body.Name,
			CategoryID:         body.CategoryID,
			UnitID:             body.UnitID,
			MinStock:           body.MinStock,
			MaxStock:           body.MaxStock,
			ReferenceUnitPrice: body.ReferenceUnitPrice,
			IsActive:           true,
			Status:             models.IngredientOutOfStock, // no lots yet
		}
		if err := database.DB.Create(&ingredient).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Ingredient name already exists")
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "ingredient",
				EntityID:    ingredient.ID,
				Action:      models.AuditActionCreate,
				Description: "Ingredient created: " + ingredient.Name,
				After:       ingredient,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(ingredient)
	}
}

// GET /api/ingredients?search=&category_id=&status=&active=true
func ListIngredientsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Ingredient{}).
			Preload("Category").
			Preload("Unit")

		if search := c.Query("search"); search != "" {
			dbq = dbq.Where("name ILIKE ?", "%"+search+"%")
		}
		if s := c.Query("category_id"); s != "" {
			dbq = dbq.Where("category_id = ?", s)
		}
		if s := c.Query("status"); s != "" {
			dbq = dbq.Where("status = ?", s)
		}
		if c.Query("active") == "true" {
			dbq = dbq.Where("is_active = true")
		}

		var ingredients []models.Ingredient
		if err := dbq.Order("name ASC").Find(&ingredients).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list ingredients")
		}

		res := make([]IngredientResponse, 0, len(ingredients))
		for _, ing := range ingredients {
			stock, err := inventory.CurrentStock(database.DB, ing.ID)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not compute stock")
			}
			res = append(res, IngredientResponse{Ingredient: ing, CurrentStock: stock})
		}
		return c.JSON(res)
	}
}

// GET /api/ingredients/:id
func GetIngredientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid ingredient id")
		}

		var ingredient models.Ingredient
		if err := database.DB.Preload("Category").Preload("Unit").
			First(&ingredient, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ingredient not found")
		}

		stock, err := inventory.CurrentStock(database.DB, ingredient.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute stock")
		}
		return c.JSON(IngredientResponse{Ingredient: ingredient, CurrentStock: stock})
	}
}

// PUT /api/ingredients/:id
func UpdateIngredientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid ingredient id")
		}

		var ingredient models.Ingredient
		if err := database.DB.First(&ingredient, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ingredient not found")
		}
		before := ingredient

		var body UpdateIngredientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "name cannot be empty")
			}
			ingredient.Name = name
		}
		if body.CategoryID != nil {
			var count int64
			database.DB.Model(&models.IngredientCategory{}).Where("id = ?", *body.CategoryID).Count(&count)
			if count == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Category not found")
			}
			ingredient.CategoryID = *body.CategoryID
		}
		if body.UnitID != nil {
			var count int64
			database.DB.Model(&models.Unit{}).Where("id = ?", *body.UnitID).Count(&count)
			if count == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Unit not found")
			}
			ingredient.UnitID = *body.UnitID
		}
		if body.MinStock != nil {
			ingredient.MinStock = *body.MinStock
		}
		if body.MaxStock != nil {
			ingredient.MaxStock = *body.MaxStock
		}
		if err := validateIngredientBounds(ingredient.MinStock, ingredient.MaxStock); err != nil {
			return err
		}
		if body.ReferenceUnitPrice != nil {
			ingredient.ReferenceUnitPrice = body.ReferenceUnitPrice
		}
		if body.IsActive != nil {
			ingredient.IsActive = *body.IsActive
		}

		if err := database.DB.Save(&ingredient).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Ingredient name already exists")
		}

		// min_stock moves the low-stock threshold, so the cached status may
		// need to change with it.
		if body.MinStock != nil {
			_ = inventory.RefreshIngredientStatus(database.DB, ingredient.ID)
			database.DB.First(&ingredient, "id = ?", ingredient.ID)
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "ingredient",
				EntityID:    ingredient.ID,
				Action:      models.AuditActionUpdate,
				Description: "Ingredient updated: " + ingredient.Name,
				Before:      before,
				After:       ingredient,
			})
		}

		return c.JSON(ingredient)
	}
}

// DELETE /api/ingredients/:id
// Ingredients used by recipes or lots are deactivated, not removed.
func DeleteIngredientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid ingredient id")
		}

		var ingredient models.Ingredient
		if err := database.DB.First(&ingredient, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ingredient not found")
		}
		before := ingredient

		var recipeCount, lotCount int64
		database.DB.Model(&models.RecipeItem{}).Where("ingredient_id = ?", id).Count(&recipeCount)
		database.DB.Model(&models.InventoryLot{}).Where("ingredient_id = ?", id).Count(&lotCount)

		if recipeCount > 0 || lotCount > 0 {
			ingredient.IsActive = false
			if err := database.DB.Save(&ingredient).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not deactivate ingredient")
			}
		} else {
			if err := database.DB.Delete(&models.Ingredient{}, "id = ?", id).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not delete ingredient")
			}
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			action := models.AuditActionDelete
			description := "Ingredient deleted: " + before.Name
			if recipeCount > 0 || lotCount > 0 {
				action = models.AuditActionUpdate
				description = "Ingredient deactivated (in use): " + before.Name
			}
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "ingredient",
				EntityID:    before.ID,
				Action:      action,
				Description: description,
				Before:      before,
			})
		}

		if recipeCount > 0 || lotCount > 0 {
			return c.JSON(fiber.Map{"message": "Ingredient is in use and was deactivated instead of deleted"})
		}
		return c.JSON(fiber.Map{"message": "Ingredient deleted"})
	}
}
