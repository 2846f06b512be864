package hr

import (
	"strings"

	"foodshop-backend/internal/database"
	"foodshop-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type DepartmentRequest struct {
	Name string `json:"name"`
}

func CreateDepartmentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body DepartmentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}

		department := models.Department{Name: body.Name}
		if err := database.DB.Create(&department).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Department name already exists")
		}
		return c.Status(fiber.StatusCreated).JSON(department)
	}
}

func ListDepartmentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var departments []models.Department
		if err := database.DB.Order("name ASC").Find(&departments).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list departments")
		}
		return c.JSON(departments)
	}
}

func DeleteDepartmentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid department id")
		}

		var count int64
		database.DB.Model(&models.StaffProfile{}).Where("department_id = ?", id).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Department has staff assigned")
		}
		database.DB.Model(&models.Position{}).Where("department_id = ?", id).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Department has positions assigned")
		}

		if err := database.DB.Delete(&models.Department{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete department")
		}
		return c.JSON(fiber.Map{"message": "Department deleted"})
	}
}

type PositionRequest struct {
	Name         string `json:"name"`
	DepartmentID *uint  `json:"department_id"`
}

func CreatePositionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body PositionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}
		if body.DepartmentID != nil {
			var count int64
			database.DB.Model(&models.Department{}).Where("id = ?", *body.DepartmentID).Count(&count)
			if count == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Department not found")
			}
		}

		position := models.Position{Name: body.Name, DepartmentID: body.DepartmentID}
		if err := database.DB.Create(&position).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Position name already exists")
		}
		return c.Status(fiber.StatusCreated).JSON(position)
	}
}

func ListPositionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Position{}).Preload("Department")
		if s := c.Query("department_id"); s != "" {
			dbq = dbq.Where("department_id = ?", s)
		}

		var positions []models.Position
		if err := dbq.Order("name ASC").Find(&positions).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list positions")
		}
		return c.JSON(positions)
	}
}

func DeletePositionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid position id")
		}

		var count int64
		database.DB.Model(&models.StaffProfile{}).Where("position_id = ?", id).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Position has staff assigned")
		}

		if err := database.DB.Delete(&models.Position{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete position")
		}
		return c.JSON(fiber.Map{"message": "Position deleted"})
	}
}
