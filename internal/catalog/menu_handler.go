package catalog

import (
	"strings"

	"foodshop-backend/internal/audit"
	"foodshop-backend/internal/auth"
	"foodshop-backend/internal/database"
	"foodshop-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type CreateMenuItemRequest struct {
	Name        string          `json:"name"`
	CategoryID  uint            `json:"category_id"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Available   *bool           `json:"available"`
}

type UpdateMenuItemRequest struct {
	Name        *string          `json:"name"`
	CategoryID  *uint            `json:"category_id"`
	Price       *decimal.Decimal `json:"price"`
	Description *string          `json:"description"`
	Available   *bool            `json:"available"`
}

// POST /api/menu-items
func CreateMenuItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateMenuItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" || body.CategoryID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "name and category_id are required")
		}
		if body.Price.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "price cannot be negative")
		}

		var count int64
		database.DB.Model(&models.MenuCategory{}).Where("id = ?", body.CategoryID).Count(&count)
		if count == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Category not found")
		}

		item := models.MenuItem{
			Name:        body.Name,
			CategoryID:  body.CategoryID,
			Price:       body.Price,
			Description: body.Description,
			Available:   true,
		}
		if body.Available != nil {
			item.Available = *body.Available
		}

		if err := database.DB.Create(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Menu item name already exists")
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "menu_item",
				EntityID:    item.ID,
				Action:      models.AuditActionCreate,
				Description: "Menu item created: " + item.Name,
				After:       item,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(item)
	}
}

// GET /api/menu-items?search=&category_id=&available=true
func ListMenuItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.MenuItem{}).Preload("Category")

		if search := c.Query("search"); search != "" {
			dbq = dbq.Where("name ILIKE ?", "%"+search+"%")
		}
		if s := c.Query("category_id"); s != "" {
			dbq = dbq.Where("category_id = ?", s)
		}
		if c.Query("available") == "true" {
			dbq = dbq.Where("available = true")
		}

		var items []models.MenuItem
		if err := dbq.
			Joins("LEFT JOIN menu_categories ON menu_categories.id = menu_items.category_id").
			Order("menu_categories.sort_order ASC, menu_items.name ASC").
			Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list menu items")
		}
		return c.JSON(items)
	}
}

// GET /api/menu-items/:id, includes the recipe.
func GetMenuItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid menu item id")
		}

		var item models.MenuItem
		if err := database.DB.Preload("Category").First(&item, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Menu item not found")
		}

		var recipe []models.RecipeItem
		if err := database.DB.Preload("Ingredient").Preload("Ingredient.Unit").
			Where("menu_item_id = ?", id).
			Order("id ASC").
			Find(&recipe).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load recipe")
		}

		return c.JSON(fiber.Map{
			"menu_item": item,
			"recipe":    recipe,
		})
	}
}

// PUT /api/menu-items/:id
func UpdateMenuItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid menu item id")
		}

		var item models.MenuItem
		if err := database.DB.First(&item, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Menu item not found")
		}
		before := item

		var body UpdateMenuItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "name cannot be empty")
			}
			item.Name = name
		}
		if body.CategoryID != nil {
			var count int64
			database.DB.Model(&models.MenuCategory{}).Where("id = ?", *body.CategoryID).Count(&count)
			if count == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Category not found")
			}
			item.CategoryID = *body.CategoryID
		}
		if body.Price != nil {
			if body.Price.IsNegative() {
				return fiber.NewError(fiber.StatusBadRequest, "price cannot be negative")
			}
			// Existing order items keep their snapshot price.
			item.Price = *body.Price
		}
		if body.Description != nil {
			item.Description = *body.Description
		}
		if body.Available != nil {
			item.Available = *body.Available
		}

		if err := database.DB.Save(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Menu item name already exists")
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "menu_item",
				EntityID:    item.ID,
				Action:      models.AuditActionUpdate,
				Description: "Menu item updated: " + item.Name,
				Before:      before,
				After:       item,
			})
		}

		return c.JSON(item)
	}
}

// DELETE /api/menu-items/:id
// The recipe rows cascade; historical order items keep their snapshot and
// their menu_item_id becomes NULL.
func DeleteMenuItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid menu item id")
		}

		var item models.MenuItem
		if err := database.DB.First(&item, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Menu item not found")
		}

		if err := database.DB.Where("menu_item_id = ?", id).Delete(&models.RecipeItem{}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete recipe")
		}
		if err := database.DB.Delete(&models.MenuItem{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete menu item")
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "menu_item",
				EntityID:    item.ID,
				Action:      models.AuditActionDelete,
				Description: "Menu item deleted: " + item.Name,
				Before:      item,
			})
		}

		return c.JSON(fiber.Map{"message": "Menu item deleted"})
	}
}
