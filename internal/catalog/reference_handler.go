package catalog

import (
	"strings"

	"foodshop-backend/internal/database"
	"foodshop-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Reference data (units, categories, tables) is small and admin-managed, so
// the handlers stay plain CRUD without audit logging.

type UnitRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func CreateUnitHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UnitRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.Code = strings.TrimSpace(body.Code)
		body.Name = strings.TrimSpace(body.Name)
		if body.Code == "" || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "code and name are required")
		}

		unit := models.Unit{Code: body.Code, Name: body.Name}
		if err := database.DB.Create(&unit).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Unit code already exists")
		}
		return c.Status(fiber.StatusCreated).JSON(unit)
	}
}

func ListUnitsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var units []models.Unit
		if err := database.DB.Order("code ASC").Find(&units).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list units")
		}
		return c.JSON(units)
	}
}

func DeleteUnitHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid unit id")
		}

		var count int64
		database.DB.Model(&models.Ingredient{}).Where("unit_id = ?", id).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Unit is used by ingredients")
		}
		if err := database.DB.Delete(&models.Unit{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete unit")
		}
		return c.JSON(fiber.Map{"message": "Unit deleted"})
	}
}

type NameRequest struct {
	Name string `json:"name"`
}

func CreateIngredientCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body NameRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}

		category := models.IngredientCategory{Name: body.Name}
		if err := database.DB.Create(&category).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Category name already exists")
		}
		return c.Status(fiber.StatusCreated).JSON(category)
	}
}

func ListIngredientCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var categories []models.IngredientCategory
		if err := database.DB.Order("name ASC").Find(&categories).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list categories")
		}
		return c.JSON(categories)
	}
}

func DeleteIngredientCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid category id")
		}

		var count int64
		database.DB.Model(&models.Ingredient{}).Where("category_id = ?", id).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Category is used by ingredients")
		}
		if err := database.DB.Delete(&models.IngredientCategory{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete category")
		}
		return c.JSON(fiber.Map{"message": "Category deleted"})
	}
}

type MenuCategoryRequest struct {
	Name      string `json:"name"`
	SortOrder *uint  `json:"sort_order"`
}

func CreateMenuCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body MenuCategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}

		category := models.MenuCategory{Name: body.Name}
		if body.SortOrder != nil {
			category.SortOrder = *body.SortOrder
		}
		if err := database.DB.Create(&category).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Category name already exists")
		}
		return c.Status(fiber.StatusCreated).JSON(category)
	}
}

func ListMenuCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var categories []models.MenuCategory
		if err := database.DB.Order("sort_order ASC, name ASC").Find(&categories).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list categories")
		}
		return c.JSON(categories)
	}
}

func UpdateMenuCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid category id")
		}

		var category models.MenuCategory
		if err := database.DB.First(&category, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Category not found")
		}

		var body MenuCategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if name := strings.TrimSpace(body.Name); name != "" {
			category.Name = name
		}
		if body.SortOrder != nil {
			category.SortOrder = *body.SortOrder
		}

		if err := database.DB.Save(&category).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Category name already exists")
		}
		return c.JSON(category)
	}
}

func DeleteMenuCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid category id")
		}

		var count int64
		database.DB.Model(&models.MenuItem{}).Where("category_id = ?", id).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Category is used by menu items")
		}
		if err := database.DB.Delete(&models.MenuCategory{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete category")
		}
		return c.JSON(fiber.Map{"message": "Category deleted"})
	}
}

func CreateDiningTableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body NameRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}

		table := models.DiningTable{Name: body.Name}
		if err := database.DB.Create(&table).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Table name already exists")
		}
		return c.Status(fiber.StatusCreated).JSON(table)
	}
}

func ListDiningTablesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var tables []models.DiningTable
		if err := database.DB.Order("name ASC").Find(&tables).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list tables")
		}
		return c.JSON(tables)
	}
}

func DeleteDiningTableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid table id")
		}

		var count int64
		database.DB.Model(&models.Order{}).Where("table_id = ?", id).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Table is referenced by orders")
		}
		if err := database.DB.Delete(&models.DiningTable{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete table")
		}
		return c.JSON(fiber.Map{"message": "Table deleted"})
	}
}
