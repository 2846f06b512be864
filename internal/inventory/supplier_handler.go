package inventory

import (
	"foodshop-backend/internal/audit"
	"foodshop-backend/internal/auth"
	"foodshop-backend/internal/database"
	"foodshop-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SupplierRequest struct {
	Name        string `json:"name"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	Note        string `json:"note"`
	IsActive    *bool  `json:"is_active"`
}

func CreateSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}

		supplier := models.Supplier{
			Name:        body.Name,
			ContactName: body.ContactName,
			Phone:       body.Phone,
			Email:       body.Email,
			Address:     body.Address,
			Note:        body.Note,
			IsActive:    true,
		}
		if body.IsActive != nil {
			supplier.IsActive = *body.IsActive
		}

		if err := database.DB.Create(&supplier).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Supplier name already exists")
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "supplier",
				EntityID:    supplier.ID,
				Action:      models.AuditActionCreate,
				Description: "Supplier created: " + supplier.Name,
				After:       supplier,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(supplier)
	}
}

func ListSuppliersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Supplier{})
		if c.Query("active") == "true" {
			dbq = dbq.Where("is_active = true")
		}
		if search := c.Query("search"); search != "" {
			dbq = dbq.Where("name ILIKE ?", "%"+search+"%")
		}

		var suppliers []models.Supplier
		if err := dbq.Order("name ASC").Find(&suppliers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list suppliers")
		}
		return c.JSON(suppliers)
	}
}

func GetSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid supplier id")
		}

		var supplier models.Supplier
		if err := database.DB.First(&supplier, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Supplier not found")
		}
		return c.JSON(supplier)
	}
}

func UpdateSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid supplier id")
		}

		var supplier models.Supplier
		if err := database.DB.First(&supplier, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Supplier not found")
		}
		before := supplier

		var body SupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != "" {
			supplier.Name = body.Name
		}
		supplier.ContactName = body.ContactName
		supplier.Phone = body.Phone
		supplier.Email = body.Email
		supplier.Address = body.Address
		supplier.Note = body.Note
		if body.IsActive != nil {
			supplier.IsActive = *body.IsActive
		}

		if err := database.DB.Save(&supplier).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Supplier name already exists")
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "supplier",
				EntityID:    supplier.ID,
				Action:      models.AuditActionUpdate,
				Description: "Supplier updated: " + supplier.Name,
				Before:      before,
				After:       supplier,
			})
		}

		return c.JSON(supplier)
	}
}

// Suppliers referenced by lots are deactivated, never hard deleted, so the
// lot history keeps its provenance.
func DeleteSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid supplier id")
		}

		var supplier models.Supplier
		if err := database.DB.First(&supplier, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Supplier not found")
		}
		before := supplier

		var lotCount int64
		database.DB.Model(&models.InventoryLot{}).Where("supplier_id = ?", id).Count(&lotCount)

		action := models.AuditActionDelete
		description := "Supplier deleted: " + supplier.Name
		if lotCount > 0 {
			supplier.IsActive = false
			if err := database.DB.Save(&supplier).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not deactivate supplier")
			}
			action = models.AuditActionUpdate
			description = "Supplier deactivated (has lot history): " + supplier.Name
		} else {
			if err := database.DB.Delete(&models.Supplier{}, "id = ?", id).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not delete supplier")
			}
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "supplier",
				EntityID:    before.ID,
				Action:      action,
				Description: description,
				Before:      before,
			})
		}

		if lotCount > 0 {
			return c.JSON(fiber.Map{"message": "Supplier has lot history and was deactivated instead of deleted"})
		}
		return c.JSON(fiber.Map{"message": "Supplier deleted"})
	}
}
