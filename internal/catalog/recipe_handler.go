package catalog

import (
	"foodshop-backend/internal/audit"
	"foodshop-backend/internal/auth"
	"foodshop-backend/internal/database"
	"foodshop-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RecipeItemRequest struct {
	IngredientID uint            `json:"ingredient_id"`
	Quantity     decimal.Decimal `json:"quantity"`
}

type SetRecipeRequest struct {
	Items []RecipeItemRequest `json:"items"`
}

// GET /api/menu-items/:id/recipe
func GetRecipeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid menu item id")
		}

		var count int64
		database.DB.Model(&models.MenuItem{}).Where("id = ?", id).Count(&count)
		if count == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Menu item not found")
		}

		var recipe []models.RecipeItem
		if err := database.DB.Preload("Ingredient").Preload("Ingredient.Unit").
			Where("menu_item_id = ?", id).
			Order("id ASC").
			Find(&recipe).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load recipe")
		}
		return c.JSON(recipe)
	}
}

// PUT /api/menu-items/:id/recipe
// Replaces the whole recipe in one transaction. Orders already placed are
// unaffected; the recipe is read per order at reservation time.
func SetRecipeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid menu item id")
		}

		var item models.MenuItem
		if err := database.DB.First(&item, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Menu item not found")
		}

		var body SetRecipeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		seen := make(map[uint]bool, len(body.Items))
		for _, it := range body.Items {
			if it.IngredientID == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "ingredient_id is required on every row")
			}
			if !it.Quantity.IsPositive() {
				return fiber.NewError(fiber.StatusBadRequest, "quantity must be positive on every row")
			}
			if seen[it.IngredientID] {
				return fiber.NewError(fiber.StatusBadRequest, "duplicate ingredient in recipe")
			}
			seen[it.IngredientID] = true

			var count int64
			database.DB.Model(&models.Ingredient{}).Where("id = ?", it.IngredientID).Count(&count)
			if count == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Ingredient not found")
			}
		}

		var before []models.RecipeItem
		database.DB.Where("menu_item_id = ?", id).Find(&before)

		var after []models.RecipeItem
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("menu_item_id = ?", id).Delete(&models.RecipeItem{}).Error; err != nil {
				return err
			}
			for _, it := range body.Items {
				row := models.RecipeItem{
					MenuItemID:   uint(id),
					IngredientID: it.IngredientID,
					Quantity:     it.Quantity,
				}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
				after = append(after, row)
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not save recipe")
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "recipe_item",
				EntityID:    uint(id),
				Action:      models.AuditActionUpdate,
				Description: "Recipe replaced for " + item.Name,
				Before:      before,
				After:       after,
			})
		}

		return c.JSON(after)
	}
}

// DELETE /api/menu-items/:id/recipe/:ingredientId
func DeleteRecipeItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid menu item id")
		}
		ingredientID, err := c.ParamsInt("ingredientId")
		if err != nil || ingredientID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid ingredient id")
		}

		var row models.RecipeItem
		if err := database.DB.
			Where("menu_item_id = ? AND ingredient_id = ?", id, ingredientID).
			First(&row).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Recipe row not found")
		}

		if err := database.DB.Delete(&models.RecipeItem{}, "id = ?", row.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete recipe row")
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "recipe_item",
				EntityID:    row.ID,
				Action:      models.AuditActionDelete,
				Description: "Recipe row removed",
				Before:      row,
			})
		}

		return c.JSON(fiber.Map{"message": "Recipe row deleted"})
	}
}
