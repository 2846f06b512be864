package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"foodshop-backend/internal/database"
	"foodshop-backend/internal/models"
)

type LogOptions struct {
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

func WriteLog(opts LogOptions) error {
	// jsonb columns want the JSON literal "null", not an empty string.
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	entry := models.AuditLog{
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
		Undone:      false,
		IsUndone:    false,
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		return fmt.Errorf("could not write audit log: %w", err)
	}

	return nil
}

// UndoLog reverts the change recorded by one audit log entry. Order logs are
// never undoable: creating an order consumed lot stock, and silently putting
// quantities back would falsify the ledger.
func UndoLog(logID uint, userID uint, userName string) error {
	var entry models.AuditLog
	if err := database.DB.First(&entry, "id = ?", logID).Error; err != nil {
		return fmt.Errorf("log not found: %w", err)
	}

	if entry.IsUndone {
		return fmt.Errorf("this change has already been undone")
	}
	if entry.EntityType == "order" {
		return fmt.Errorf("order changes cannot be undone")
	}

	switch entry.Action {
	case models.AuditActionCreate:
		if err := deleteEntity(entry.EntityType, entry.EntityID); err != nil {
			return fmt.Errorf("could not delete entity: %w", err)
		}

	case models.AuditActionUpdate:
		if err := restoreEntity(entry.EntityType, entry.EntityID, entry.BeforeData); err != nil {
			return fmt.Errorf("could not restore entity: %w", err)
		}

	case models.AuditActionDelete:
		// Delete logs snapshot the entity in before_data.
		if err := recreateEntity(entry.EntityType, entry.BeforeData); err != nil {
			return fmt.Errorf("could not recreate entity: %w", err)
		}

	default:
		return fmt.Errorf("this action type cannot be undone")
	}

	now := time.Now()
	entry.IsUndone = true
	entry.UndoneBy = &userID
	entry.UndoneAt = &now

	if err := database.DB.Save(&entry).Error; err != nil {
		return fmt.Errorf("could not update log: %w", err)
	}

	undoEntry := models.AuditLog{
		UserID:      userID,
		UserName:    userName,
		EntityType:  entry.EntityType,
		EntityID:    entry.EntityID,
		Action:      models.AuditActionUndo,
		Description: fmt.Sprintf("Undone: %s", entry.Description),
		BeforeData:  entry.AfterData,
		AfterData:   entry.BeforeData,
		Undone:      true,
		IsUndone:    false,
	}

	if err := database.DB.Create(&undoEntry).Error; err != nil {
		return fmt.Errorf("could not write undo log: %w", err)
	}

	return nil
}

func deleteEntity(entityType string, entityID uint) error {
	switch entityType {
	case "ingredient":
		return database.DB.Delete(&models.Ingredient{}, "id = ?", entityID).Error
	case "inventory_lot":
		return database.DB.Delete(&models.InventoryLot{}, "id = ?", entityID).Error
	case "menu_item":
		return database.DB.Delete(&models.MenuItem{}, "id = ?", entityID).Error
	case "recipe_item":
		return database.DB.Delete(&models.RecipeItem{}, "id = ?", entityID).Error
	case "staff_profile":
		return database.DB.Delete(&models.StaffProfile{}, "id = ?", entityID).Error
	case "supplier":
		return database.DB.Delete(&models.Supplier{}, "id = ?", entityID).Error
	default:
		return fmt.Errorf("unknown entity type: %s", entityType)
	}
}

func recreateEntity(entityType string, dataJSON string) error {
	switch entityType {
	case "ingredient":
		var ing models.Ingredient
		if err := json.Unmarshal([]byte(dataJSON), &ing); err != nil {
			return err
		}
		ing.ID = 0
		return database.DB.Create(&ing).Error

	case "inventory_lot":
		var lot models.InventoryLot
		if err := json.Unmarshal([]byte(dataJSON), &lot); err != nil {
			return err
		}
		lot.ID = 0
		return database.DB.Create(&lot).Error

	case "menu_item":
		var mi models.MenuItem
		if err := json.Unmarshal([]byte(dataJSON), &mi); err != nil {
			return err
		}
		mi.ID = 0
		return database.DB.Create(&mi).Error

	case "recipe_item":
		var ri models.RecipeItem
		if err := json.Unmarshal([]byte(dataJSON), &ri); err != nil {
			return err
		}
		ri.ID = 0
		return database.DB.Create(&ri).Error

	case "staff_profile":
		var sp models.StaffProfile
		if err := json.Unmarshal([]byte(dataJSON), &sp); err != nil {
			return err
		}
		sp.ID = 0
		return database.DB.Create(&sp).Error

	case "supplier":
		var s models.Supplier
		if err := json.Unmarshal([]byte(dataJSON), &s); err != nil {
			return err
		}
		s.ID = 0
		return database.DB.Create(&s).Error

	default:
		return fmt.Errorf("unknown entity type: %s", entityType)
	}
}

func restoreEntity(entityType string, entityID uint, dataJSON string) error {
	switch entityType {
	case "ingredient":
		var ing models.Ingredient
		if err := json.Unmarshal([]byte(dataJSON), &ing); err != nil {
			return err
		}
		return database.DB.Model(&models.Ingredient{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"name":                 ing.Name,
			"category_id":          ing.CategoryID,
			"unit_id":              ing.UnitID,
			"min_stock":            ing.MinStock,
			"max_stock":            ing.MaxStock,
			"reference_unit_price": ing.ReferenceUnitPrice,
			"is_active":            ing.IsActive,
		}).Error

	case "inventory_lot":
		var lot models.InventoryLot
		if err := json.Unmarshal([]byte(dataJSON), &lot); err != nil {
			return err
		}
		return database.DB.Model(&models.InventoryLot{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"ingredient_id":      lot.IngredientID,
			"supplier_id":        lot.SupplierID,
			"quantity_received":  lot.QuantityReceived,
			"quantity_remaining": lot.QuantityRemaining,
			"unit_price":         lot.UnitPrice,
			"received_date":      lot.ReceivedDate,
			"expiry_date":        lot.ExpiryDate,
		}).Error

	case "menu_item":
		var mi models.MenuItem
		if err := json.Unmarshal([]byte(dataJSON), &mi); err != nil {
			return err
		}
		return database.DB.Model(&models.MenuItem{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"name":        mi.Name,
			"category_id": mi.CategoryID,
			"price":       mi.Price,
			"description": mi.Description,
			"available":   mi.Available,
		}).Error

	case "recipe_item":
		var ri models.RecipeItem
		if err := json.Unmarshal([]byte(dataJSON), &ri); err != nil {
			return err
		}
		return database.DB.Model(&models.RecipeItem{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"menu_item_id":  ri.MenuItemID,
			"ingredient_id": ri.IngredientID,
			"quantity":      ri.Quantity,
		}).Error

	case "staff_profile":
		var sp models.StaffProfile
		if err := json.Unmarshal([]byte(dataJSON), &sp); err != nil {
			return err
		}
		return database.DB.Model(&models.StaffProfile{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"full_name":     sp.FullName,
			"email":         sp.Email,
			"phone":         sp.Phone,
			"position_id":   sp.PositionID,
			"department_id": sp.DepartmentID,
			"salary":        sp.Salary,
			"start_date":    sp.StartDate,
			"status":        sp.Status,
		}).Error

	case "supplier":
		var s models.Supplier
		if err := json.Unmarshal([]byte(dataJSON), &s); err != nil {
			return err
		}
		return database.DB.Model(&models.Supplier{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"name":         s.Name,
			"contact_name": s.ContactName,
			"phone":        s.Phone,
			"email":        s.Email,
			"address":      s.Address,
			"note":         s.Note,
			"is_active":    s.IsActive,
		}).Error

	default:
		return fmt.Errorf("unknown entity type: %s", entityType)
	}
}
