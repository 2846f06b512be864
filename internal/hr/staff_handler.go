package hr

import (
	"strings"
	"time"

	"foodshop-backend/internal/audit"
	"foodshop-backend/internal/auth"
	"foodshop-backend/internal/database"
	"foodshop-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type StaffRequest struct {
	FullName        string           `json:"full_name"`
	Email           string           `json:"email"`
	Phone           string           `json:"phone"`
	PositionID      *uint            `json:"position_id"`
	DepartmentID    *uint            `json:"department_id"`
	Salary          *decimal.Decimal `json:"salary"`
	StartDate       *string          `json:"start_date"` // "2026-08-28"
	Status          *string          `json:"status"`
	Performance     *uint            `json:"performance"`
	ShiftsThisMonth *uint            `json:"shifts_this_month"`
	TotalHours      *uint            `json:"total_hours"`
}

func validStaffStatus(s string) bool {
	switch models.StaffStatus(s) {
	case models.StaffActive, models.StaffInactive, models.StaffOnLeave:
		return true
	}
	return false
}

func resolvePositionAndDepartment(body *StaffRequest, profile *models.StaffProfile) error {
	if body.PositionID != nil {
		var position models.Position
		if err := database.DB.First(&position, "id = ?", *body.PositionID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Position not found")
		}
		profile.PositionID = body.PositionID
		// Department follows the position unless given explicitly.
		if body.DepartmentID == nil && position.DepartmentID != nil {
			profile.DepartmentID = position.DepartmentID
		}
	}
	if body.DepartmentID != nil {
		var count int64
		database.DB.Model(&models.Department{}).Where("id = ?", *body.DepartmentID).Count(&count)
		if count == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Department not found")
		}
		profile.DepartmentID = body.DepartmentID
	}
	return nil
}

// POST /api/staff
func CreateStaffHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body StaffRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.FullName = strings.TrimSpace(body.FullName)
		if body.FullName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "full_name is required")
		}

		profile := models.StaffProfile{
			FullName: body.FullName,
			Email:    body.Email,
			Phone:    body.Phone,
			Status:   models.StaffActive,
		}
		if err := resolvePositionAndDepartment(&body, &profile); err != nil {
			return err
		}
		if body.Salary != nil {
			if body.Salary.IsNegative() {
				return fiber.NewError(fiber.StatusBadRequest, "salary cannot be negative")
			}
			profile.Salary = *body.Salary
		}
		if body.StartDate != nil && *body.StartDate != "" {
			d, err := time.Parse("2006-01-02", *body.StartDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "start_date must be 'YYYY-MM-DD'")
			}
			profile.StartDate = &d
		}
		if body.Status != nil {
			if !validStaffStatus(*body.Status) {
				return fiber.NewError(fiber.StatusBadRequest, "Invalid status")
			}
			profile.Status = models.StaffStatus(*body.Status)
		}
		if body.Performance != nil {
			if *body.Performance > 100 {
				return fiber.NewError(fiber.StatusBadRequest, "performance must be between 0 and 100")
			}
			profile.Performance = *body.Performance
		}
		if body.ShiftsThisMonth != nil {
			profile.ShiftsThisMonth = *body.ShiftsThisMonth
		}
		if body.TotalHours != nil {
			profile.TotalHours = *body.TotalHours
		}

		if err := database.DB.Create(&profile).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create staff profile")
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "staff_profile",
				EntityID:    profile.ID,
				Action:      models.AuditActionCreate,
				Description: "Staff profile created: " + profile.FullName,
				After:       profile,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(profile)
	}
}

// GET /api/staff?search=&department_id=&position_id=&status=
func ListStaffHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.StaffProfile{}).
			Preload("Position").
			Preload("Department")

		if search := c.Query("search"); search != "" {
			dbq = dbq.Where("full_name ILIKE ?", "%"+search+"%")
		}
		if s := c.Query("department_id"); s != "" {
			dbq = dbq.Where("department_id = ?", s)
		}
		if s := c.Query("position_id"); s != "" {
			dbq = dbq.Where("position_id = ?", s)
		}
		if s := c.Query("status"); s != "" {
			dbq = dbq.Where("status = ?", s)
		}

		var staff []models.StaffProfile
		if err := dbq.Order("full_name ASC").Find(&staff).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list staff")
		}
		return c.JSON(staff)
	}
}

// GET /api/staff/:id
func GetStaffHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid staff id")
		}

		var profile models.StaffProfile
		if err := database.DB.Preload("Position").Preload("Department").
			First(&profile, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Staff profile not found")
		}
		return c.JSON(profile)
	}
}

// PUT /api/staff/:id
func UpdateStaffHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid staff id")
		}

		var profile models.StaffProfile
		if err := database.DB.First(&profile, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Staff profile not found")
		}
		before := profile

		var body StaffRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if name := strings.TrimSpace(body.FullName); name != "" {
			profile.FullName = name
		}
		if body.Email != "" {
			profile.Email = body.Email
		}
		if body.Phone != "" {
			profile.Phone = body.Phone
		}
		if err := resolvePositionAndDepartment(&body, &profile); err != nil {
			return err
		}
		if body.Salary != nil {
			if body.Salary.IsNegative() {
				return fiber.NewError(fiber.StatusBadRequest, "salary cannot be negative")
			}
			profile.Salary = *body.Salary
		}
		if body.StartDate != nil && *body.StartDate != "" {
			d, err := time.Parse("2006-01-02", *body.StartDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "start_date must be 'YYYY-MM-DD'")
			}
			profile.StartDate = &d
		}
		if body.Status != nil {
			if !validStaffStatus(*body.Status) {
				return fiber.NewError(fiber.StatusBadRequest, "Invalid status")
			}
			profile.Status = models.StaffStatus(*body.Status)
		}
		if body.Performance != nil {
			if *body.Performance > 100 {
				return fiber.NewError(fiber.StatusBadRequest, "performance must be between 0 and 100")
			}
			profile.Performance = *body.Performance
		}
		if body.ShiftsThisMonth != nil {
			profile.ShiftsThisMonth = *body.ShiftsThisMonth
		}
		if body.TotalHours != nil {
			profile.TotalHours = *body.TotalHours
		}

		if err := database.DB.Save(&profile).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update staff profile")
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "staff_profile",
				EntityID:    profile.ID,
				Action:      models.AuditActionUpdate,
				Description: "Staff profile updated: " + profile.FullName,
				Before:      before,
				After:       profile,
			})
		}

		return c.JSON(profile)
	}
}

// DELETE /api/staff/:id
func DeleteStaffHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid staff id")
		}

		var profile models.StaffProfile
		if err := database.DB.First(&profile, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Staff profile not found")
		}

		if err := database.DB.Delete(&models.StaffProfile{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete staff profile")
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "staff_profile",
				EntityID:    profile.ID,
				Action:      models.AuditActionDelete,
				Description: "Staff profile deleted: " + profile.FullName,
				Before:      profile,
			})
		}

		return c.JSON(fiber.Map{"message": "Staff profile deleted"})
	}
}
