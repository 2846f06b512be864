package order

import (
	"errors"
	"fmt"
	"time"

	"foodshop-backend/internal/database"
	"foodshop-backend/internal/models"

	"gorm.io/gorm"
)

// CreateOrderInput: everything a client sends to place an order.
type CreateOrderInput struct {
	CustomerName  string           `json:"customer_name"`
	CustomerPhone string           `json:"customer_phone"`
	OrderType     models.OrderType `json:"order_type"`
	TableID       *uint            `json:"table_id"`
	Notes         string           `json:"notes"`
	Items         []OrderLine      `json:"items"`
}

// errDryRun forces a rollback of a stock check that found no problem.
var errDryRun = errors.New("dry run, roll back")

// createAttempts: order-number generation is count-based, so two orders
// committing in the same instant can collide on the unique index; the losing
// transaction is replayed from scratch.
const createAttempts = 3

// CreateOrder runs the full reservation sequence in one transaction: expand
// the BOM demand, lock and check stock, create the order with snapshot lines,
// deduct the lots FEFO, commit. Any failure after lock acquisition rolls the
// whole transaction back: no partial deduction, no partial order.
func CreateOrder(in CreateOrderInput, lockTimeoutMS int) (*models.Order, error) {
	if err := validateOrderHeader(&in); err != nil {
		return nil, err
	}
	servings, err := groupLines(in.Items)
	if err != nil {
		return nil, err
	}

	var created *models.Order
	for attempt := 0; attempt < createAttempts; attempt++ {
		created = nil
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := applyLockTimeout(tx, lockTimeoutMS); err != nil {
				return err
			}

			menuItems, recipes, err := loadCatalog(tx, servings)
			if err != nil {
				return err
			}

			demand := aggregateDemand(servings, recipes)

			shortages, err := reserveStock(tx, demand)
			if err != nil {
				return err
			}
			if len(shortages) > 0 {
				return &ShortageError{Shortages: shortages}
			}

			order, err := insertOrder(tx, in, menuItems)
			if err != nil {
				return err
			}

			if err := deductStock(tx, demand); err != nil {
				return err
			}

			created = order
			return nil
		})
		if err == nil {
			return reloadOrder(created.ID)
		}
		if !isUniqueViolation(err) {
			break
		}
	}
	if isLockTimeout(err) || isUniqueViolation(err) {
		return nil, ErrBusy
	}
	return nil, err
}

// CheckStock is the dry run: identical demand aggregation, identical lock-
// based check, then an unconditional rollback. Nil shortages means the same
// CreateOrder call would have passed the stock gate.
func CheckStock(items []OrderLine, lockTimeoutMS int) ([]Shortage, error) {
	servings, err := groupLines(items)
	if err != nil {
		return nil, err
	}

	var shortages []Shortage
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := applyLockTimeout(tx, lockTimeoutMS); err != nil {
			return err
		}

		_, recipes, err := loadCatalog(tx, servings)
		if err != nil {
			return err
		}

		demand := aggregateDemand(servings, recipes)

		shortages, err = reserveStock(tx, demand)
		if err != nil {
			return err
		}
		return errDryRun
	})
	if errors.Is(err, errDryRun) {
		return shortages, nil
	}
	if isLockTimeout(err) {
		return nil, ErrBusy
	}
	return nil, err
}

func validateOrderHeader(in *CreateOrderInput) error {
	switch in.OrderType {
	case "":
		in.OrderType = models.OrderTypeDineIn
	case models.OrderTypeDineIn, models.OrderTypeTakeaway, models.OrderTypeDelivery:
	default:
		return validationErrorf("order_type must be dine_in, takeaway or delivery")
	}
	if in.TableID != nil {
		var count int64
		database.DB.Model(&models.DiningTable{}).Where("id = ?", *in.TableID).Count(&count)
		if count == 0 {
			return validationErrorf("table %d does not exist", *in.TableID)
		}
	}
	return nil
}

// applyLockTimeout bounds how long this transaction may wait on ingredient
// row locks. SET LOCAL only lives until the transaction ends.
func applyLockTimeout(tx *gorm.DB, lockTimeoutMS int) error {
	if lockTimeoutMS <= 0 {
		return nil
	}
	return tx.Exec(fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", lockTimeoutMS)).Error
}

// loadCatalog fetches the referenced menu items and their recipe rows inside
// the reservation transaction, so the BOM a reservation is priced and checked
// against cannot change mid-flight. Unknown or unavailable menu items fail
// validation before any lock is taken.
func loadCatalog(tx *gorm.DB, servings map[uint]int) (map[uint]models.MenuItem, []models.RecipeItem, error) {
	ids := make([]uint, 0, len(servings))
	for id := range servings {
		ids = append(ids, id)
	}

	var items []models.MenuItem
	if err := tx.Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, nil, fmt.Errorf("could not load menu items: %w", err)
	}

	menuItems := make(map[uint]models.MenuItem, len(items))
	for _, mi := range items {
		menuItems[mi.ID] = mi
	}
	for id := range servings {
		mi, ok := menuItems[id]
		if !ok {
			return nil, nil, validationErrorf("menu item %d does not exist", id)
		}
		if !mi.Available {
			return nil, nil, validationErrorf("menu item %q is not available", mi.Name)
		}
	}

	var recipes []models.RecipeItem
	if err := tx.Where("menu_item_id IN ?", ids).Find(&recipes).Error; err != nil {
		return nil, nil, fmt.Errorf("could not load recipe items: %w", err)
	}

	return menuItems, recipes, nil
}

// insertOrder writes the order row and its item rows. Each line snapshots the
// menu item's name and price at this moment (or the caller's explicit
// override); later menu edits never touch these rows.
func insertOrder(tx *gorm.DB, in CreateOrderInput, menuItems map[uint]models.MenuItem) (*models.Order, error) {
	number, err := generateOrderNumber(tx)
	if err != nil {
		return nil, err
	}

	order := models.Order{
		OrderNumber:   number,
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		OrderType:     in.OrderType,
		TableID:       in.TableID,
		OrderStatus:   models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusUnpaid,
		Notes:         in.Notes,
	}
	if err := tx.Create(&order).Error; err != nil {
		return nil, fmt.Errorf("could not create order: %w", err)
	}

	for _, line := range in.Items {
		mi := menuItems[line.MenuItemID]

		unitPrice := mi.Price
		if line.UnitPrice != nil && line.UnitPrice.IsPositive() {
			unitPrice = *line.UnitPrice
		}
		name := line.Name
		if name == "" {
			name = mi.Name
		}

		menuItemID := mi.ID
		item := models.OrderItem{
			OrderID:    order.ID,
			MenuItemID: &menuItemID,
			Name:       name,
			UnitPrice:  unitPrice,
			Quantity:   line.Quantity,
			Total:      models.LineTotal(unitPrice, line.Quantity),
		}
		if err := tx.Create(&item).Error; err != nil {
			return nil, fmt.Errorf("could not create order item: %w", err)
		}
	}

	return &order, nil
}

// generateOrderNumber builds "ORD-YYYYMMDD-NNNN" from the day's order count.
// The unique index on order_number catches the race between two simultaneous
// orders; CreateOrder retries the whole transaction on that conflict.
func generateOrderNumber(tx *gorm.DB) (string, error) {
	prefix := "ORD-" + time.Now().Format("20060102")
	var count int64
	if err := tx.Model(&models.Order{}).
		Where("order_number LIKE ?", prefix+"-%").
		Count(&count).Error; err != nil {
		return "", fmt.Errorf("could not count today's orders: %w", err)
	}
	return fmt.Sprintf("%s-%04d", prefix, count+1), nil
}

func reloadOrder(id uint) (*models.Order, error) {
	var order models.Order
	err := database.DB.
		Preload("Items").
		Preload("Payments").
		Preload("Table").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, fmt.Errorf("could not reload order %d: %w", id, err)
	}
	return &order, nil
}
