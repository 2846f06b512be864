package order

import (
	"errors"
	"log"

	"foodshop-backend/internal/audit"
	"foodshop-backend/internal/auth"
	"foodshop-backend/internal/config"
	"foodshop-backend/internal/database"
	"foodshop-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderResponse struct {
	ID            uint                 `json:"id"`
	OrderNumber   string               `json:"order_number"`
	CustomerName  string               `json:"customer_name"`
	CustomerPhone string               `json:"customer_phone"`
	OrderType     models.OrderType     `json:"order_type"`
	TableID       *uint                `json:"table_id"`
	OrderStatus   models.OrderStatus   `json:"order_status"`
	PaymentStatus models.PaymentStatus `json:"payment_status"`
	CreatedAt     string               `json:"created_at"`
	CompletedAt   *string              `json:"completed_at"`
	Notes         string               `json:"notes"`
	Items         []models.OrderItem   `json:"items"`
	Subtotal      decimal.Decimal      `json:"subtotal"`
	Total         decimal.Decimal      `json:"total"`
	Paid          decimal.Decimal      `json:"paid"`
	Balance       decimal.Decimal      `json:"balance"`
}

func toOrderResponse(o *models.Order) OrderResponse {
	var completedAt *string
	if o.CompletedAt != nil {
		s := o.CompletedAt.Format("2006-01-02 15:04:05")
		completedAt = &s
	}
	subtotal := o.Subtotal()
	total := o.Total()
	paid := o.PaidAmount()
	return OrderResponse{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		OrderType:     o.OrderType,
		TableID:       o.TableID,
		OrderStatus:   o.OrderStatus,
		PaymentStatus: o.PaymentStatus,
		CreatedAt:     o.CreatedAt.Format("2006-01-02 15:04:05"),
		CompletedAt:   completedAt,
		Notes:         o.Notes,
		Items:         o.Items,
		Subtotal:      subtotal,
		Total:         total,
		Paid:          paid,
		Balance:       total.Sub(paid),
	}
}

// renderError maps the domain error taxonomy onto HTTP. Consistency errors
// deliberately leak nothing to the caller.
func renderError(c *fiber.Ctx, err error) error {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return fiber.NewError(fiber.StatusBadRequest, vErr.Msg)
	}

	var sErr *ShortageError
	if errors.As(err, &sErr) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":     "Insufficient stock for this order",
			"shortages": sErr.Shortages,
		})
	}

	if errors.Is(err, ErrBusy) {
		return fiber.NewError(fiber.StatusServiceUnavailable, "Stock is busy, please retry")
	}

	var cErr *ConsistencyError
	if errors.As(err, &cErr) {
		log.Printf("[FAULT] %v", cErr)
		return fiber.NewError(fiber.StatusInternalServerError, "Internal error")
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Order not found")
	}

	return err
}

// POST /api/orders
func CreateOrderHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateOrderInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		order, err := CreateOrder(body, cfg.StockLockTimeoutMS)
		if err != nil {
			return renderError(c, err)
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "order",
				EntityID:    order.ID,
				Action:      models.AuditActionCreate,
				Description: "Order " + order.OrderNumber + " created",
				After:       order,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(toOrderResponse(order))
	}
}

// POST /api/orders/check-stock: dry run, persists nothing.
func CheckStockHandler(cfg *config.Config) fiber.Handler {
	type request struct {
		Items []OrderLine `json:"items"`
	}

	return func(c *fiber.Ctx) error {
		var body request
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		shortages, err := CheckStock(body.Items, cfg.StockLockTimeoutMS)
		if err != nil {
			return renderError(c, err)
		}

		if len(shortages) > 0 {
			return c.JSON(fiber.Map{"ok": false, "shortages": shortages})
		}
		return c.JSON(fiber.Map{"ok": true, "shortages": []Shortage{}})
	}
}

// GET /api/orders?search=&order_status=&payment_status=&order_type=&date_from=&date_to=
func ListOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Order{}).
			Preload("Items").
			Preload("Payments")

		if search := c.Query("search"); search != "" {
			like := "%" + search + "%"
			dbq = dbq.Where(
				"order_number ILIKE ? OR customer_name ILIKE ? OR customer_phone ILIKE ?",
				like, like, like,
			)
		}
		if s := c.Query("order_status"); s != "" {
			dbq = dbq.Where("order_status = ?", s)
		}
		if s := c.Query("payment_status"); s != "" {
			dbq = dbq.Where("payment_status = ?", s)
		}
		if s := c.Query("order_type"); s != "" {
			dbq = dbq.Where("order_type = ?", s)
		}
		if s := c.Query("date_from"); s != "" {
			dbq = dbq.Where("created_at >= ?", s)
		}
		if s := c.Query("date_to"); s != "" {
			dbq = dbq.Where("created_at <= ?", s)
		}

		var orders []models.Order
		if err := dbq.Order("created_at DESC").Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list orders")
		}

		resp := make([]OrderResponse, 0, len(orders))
		for i := range orders {
			resp = append(resp, toOrderResponse(&orders[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/orders/:id
func GetOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid order id")
		}

		order, err := reloadOrder(uint(id))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Order not found")
			}
			return renderError(c, err)
		}
		return c.JSON(toOrderResponse(order))
	}
}

// PUT /api/orders/:id/status
func UpdateOrderStatusHandler() fiber.Handler {
	type request struct {
		OrderStatus models.OrderStatus `json:"order_status"`
	}

	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid order id")
		}

		var body request
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		order, err := UpdateStatus(uint(id), body.OrderStatus)
		if err != nil {
			return renderError(c, err)
		}

		return c.JSON(fiber.Map{
			"id":           order.ID,
			"order_status": order.OrderStatus,
			"completed_at": order.CompletedAt,
		})
	}
}

// PUT /api/orders/:id/refund
func MarkRefundedHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid order id")
		}

		order, err := MarkRefunded(uint(id))
		if err != nil {
			return renderError(c, err)
		}
		return c.JSON(fiber.Map{
			"id":             order.ID,
			"payment_status": order.PaymentStatus,
		})
	}
}

// DELETE /api/orders/:id. Cascade removes items and payments. Lots are not
// restored; consumption is history.
func DeleteOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid order id")
		}

		var order models.Order
		if err := database.DB.First(&order, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Order not found")
		}

		if err := database.DB.Select("Items", "Payments").Delete(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete order")
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "order",
				EntityID:    order.ID,
				Action:      models.AuditActionDelete,
				Description: "Order " + order.OrderNumber + " deleted",
				Before:      order,
			})
		}

		return c.JSON(fiber.Map{"message": "Order deleted"})
	}
}

// POST /api/orders/:id/payments
func AddPaymentHandler() fiber.Handler {
	type request struct {
		Method models.PaymentMethod `json:"method"`
		Amount decimal.Decimal      `json:"amount"`
		Note   string               `json:"note"`
	}

	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid order id")
		}

		var body request
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		payment, balance, err := AddPayment(uint(id), body.Method, body.Amount, body.Note)
		if err != nil {
			return renderError(c, err)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"payment": payment,
			"balance": balance,
		})
	}
}

// GET /api/orders/:id/payments
func ListPaymentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid order id")
		}

		var payments []models.Payment
		if err := database.DB.
			Where("order_id = ?", id).
			Order("paid_at ASC").
			Find(&payments).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list payments")
		}
		return c.JSON(payments)
	}
}
