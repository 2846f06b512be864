package main

import (
	"log"
	"strings"

	"foodshop-backend/internal/audit"
	"foodshop-backend/internal/auth"
	"foodshop-backend/internal/catalog"
	"foodshop-backend/internal/config"
	"foodshop-backend/internal/database"
	"foodshop-backend/internal/hr"
	"foodshop-backend/internal/inventory"
	"foodshop-backend/internal/models"
	"foodshop-backend/internal/order"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Everything else requires a token
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Orders and payments
	protected.Post("/orders", order.CreateOrderHandler(cfg))
	protected.Post("/orders/check-stock", order.CheckStockHandler(cfg))
	protected.Get("/orders", order.ListOrdersHandler())
	protected.Get("/orders/:id", order.GetOrderHandler())
	protected.Put("/orders/:id/status", order.UpdateOrderStatusHandler())
	protected.Put("/orders/:id/refund", order.MarkRefundedHandler())
	protected.Delete("/orders/:id", auth.RequireRole(models.RoleAdmin), order.DeleteOrderHandler())
	protected.Post("/orders/:id/payments", order.AddPaymentHandler())
	protected.Get("/orders/:id/payments", order.ListPaymentsHandler())

	// Inventory lots and stock
	protected.Post("/inventory-lots", inventory.CreateInventoryLotHandler())
	protected.Post("/inventory-lots/import", inventory.ImportInventoryLotsHandler())
	protected.Get("/inventory-lots", inventory.ListInventoryLotsHandler())
	protected.Put("/inventory-lots/:id/adjust", inventory.AdjustInventoryLotHandler())
	protected.Get("/ingredients/low-stock", inventory.ListLowStockHandler())
	protected.Get("/ingredients/:id/stock", inventory.GetIngredientStockHandler())

	// Suppliers
	protected.Post("/suppliers", inventory.CreateSupplierHandler())
	protected.Get("/suppliers", inventory.ListSuppliersHandler())
	protected.Get("/suppliers/:id", inventory.GetSupplierHandler())
	protected.Put("/suppliers/:id", inventory.UpdateSupplierHandler())
	protected.Delete("/suppliers/:id", inventory.DeleteSupplierHandler())

	// Ingredients
	protected.Get("/ingredients", catalog.ListIngredientsHandler())
	protected.Get("/ingredients/:id", catalog.GetIngredientHandler())

	// Menu
	protected.Get("/menu-items", catalog.ListMenuItemsHandler())
	protected.Get("/menu-items/:id", catalog.GetMenuItemHandler())
	protected.Get("/menu-items/:id/recipe", catalog.GetRecipeHandler())

	// Reference data (read)
	protected.Get("/units", catalog.ListUnitsHandler())
	protected.Get("/ingredient-categories", catalog.ListIngredientCategoriesHandler())
	protected.Get("/menu-categories", catalog.ListMenuCategoriesHandler())
	protected.Get("/tables", catalog.ListDiningTablesHandler())

	// Staff (read)
	protected.Get("/staff", hr.ListStaffHandler())
	protected.Get("/staff/:id", hr.GetStaffHandler())
	protected.Get("/departments", hr.ListDepartmentsHandler())
	protected.Get("/positions", hr.ListPositionsHandler())

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())
	protected.Post("/audit-logs/:id/undo", audit.UndoAuditLogHandler())

	// Catalog, HR and user management mutations need manager or admin
	managed := protected.Group("")
	managed.Use(auth.RequireRole(models.RoleAdmin, models.RoleManager))

	managed.Post("/ingredients", catalog.CreateIngredientHandler())
	managed.Put("/ingredients/:id", catalog.UpdateIngredientHandler())
	managed.Delete("/ingredients/:id", catalog.DeleteIngredientHandler())

	managed.Post("/menu-items", catalog.CreateMenuItemHandler())
	managed.Put("/menu-items/:id", catalog.UpdateMenuItemHandler())
	managed.Delete("/menu-items/:id", catalog.DeleteMenuItemHandler())
	managed.Put("/menu-items/:id/recipe", catalog.SetRecipeHandler())
	managed.Delete("/menu-items/:id/recipe/:ingredientId", catalog.DeleteRecipeItemHandler())

	managed.Post("/units", catalog.CreateUnitHandler())
	managed.Delete("/units/:id", catalog.DeleteUnitHandler())
	managed.Post("/ingredient-categories", catalog.CreateIngredientCategoryHandler())
	managed.Delete("/ingredient-categories/:id", catalog.DeleteIngredientCategoryHandler())
	managed.Post("/menu-categories", catalog.CreateMenuCategoryHandler())
	managed.Put("/menu-categories/:id", catalog.UpdateMenuCategoryHandler())
	managed.Delete("/menu-categories/:id", catalog.DeleteMenuCategoryHandler())
	managed.Post("/tables", catalog.CreateDiningTableHandler())
	managed.Delete("/tables/:id", catalog.DeleteDiningTableHandler())

	managed.Post("/staff", hr.CreateStaffHandler())
	managed.Put("/staff/:id", hr.UpdateStaffHandler())
	managed.Delete("/staff/:id", hr.DeleteStaffHandler())
	managed.Post("/departments", hr.CreateDepartmentHandler())
	managed.Delete("/departments/:id", hr.DeleteDepartmentHandler())
	managed.Post("/positions", hr.CreatePositionHandler())
	managed.Delete("/positions/:id", hr.DeletePositionHandler())

	// Admin only
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))
	adminRoutes.Post("/users", auth.CreateUserHandler())

	log.Println("Server listening on port", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
