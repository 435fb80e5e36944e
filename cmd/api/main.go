package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"stockledger/internal/ai"
	"stockledger/internal/handler"
	"stockledger/internal/middleware"
	"stockledger/internal/model"
	"stockledger/internal/repository"
	"stockledger/internal/service"
	"stockledger/internal/ws"
	"stockledger/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(
		&model.Product{}, &model.Transaction{}, &model.Indent{},
		&model.User{}, &model.Permission{}, &model.Department{},
		&model.FormFieldSetting{}, &model.AppConfig{},
	)

	// 3. Seed catalog data and the first admin account
	seedDefaults(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	indentRepo := repository.NewIndentRepo(db)
	userRepo := repository.NewUserRepo(db)
	permissionRepo := repository.NewPermissionRepo(db)
	deptRepo := repository.NewDepartmentRepo(db)
	settingsRepo := repository.NewSettingsRepo(db)
	txManager := repository.NewGormTxManager(db)

	ledgerService := service.NewLedgerService(productRepo, txRepo, indentRepo, txManager, wsHub)
	indentService := service.NewIndentService(indentRepo, productRepo, wsHub)
	reportService := service.NewReportService(txRepo, productRepo)
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo, permissionRepo)
	settingsService := service.NewSettingsService(settingsRepo, deptRepo)
	exportService := service.NewExportService()
	aiClient := ai.NewClient(os.Getenv("AI_API_KEY"), os.Getenv("AI_BASE_URL"))

	invHandler := handler.NewInventoryHandler(ledgerService)
	indentHandler := handler.NewIndentHandler(indentService)
	dashHandler := handler.NewDashboardHandler(ledgerService, reportService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	exportHandler := handler.NewExportHandler(ledgerService, exportService)
	aiHandler := handler.NewAIHandler(aiClient, ledgerService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "InventoryPro v1.0",
	})

	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/validate-token", authHandler.ValidateToken)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	protected.Get("/auth/me", authHandler.Me)

	// Dashboard
	protected.Get("/dashboard/stats", middleware.RequirePermission(model.PermDashboardView), dashHandler.GetStats)
	protected.Get("/dashboard/low-stock", middleware.RequirePermission(model.PermDashboardView), dashHandler.GetLowStock)
	protected.Get("/dashboard/stock-movement", middleware.RequirePermission(model.PermDashboardView), dashHandler.GetStockMovement)
	protected.Get("/dashboard/cost-analysis", middleware.RequirePermission(model.PermPriceView), dashHandler.GetCostAnalysis)

	// Products and the stock ledger
	protected.Get("/products", middleware.RequirePermission(model.PermInvView), invHandler.GetProducts)
	protected.Post("/products", middleware.RequirePermission(model.PermInvAdd), invHandler.RegisterProduct)
	protected.Put("/products/:id", middleware.RequirePermission(model.PermInvEdit), invHandler.UpdateProduct)
	protected.Delete("/products/:id", middleware.RequirePermission(model.PermInvDelete), invHandler.DeleteProduct)
	protected.Post("/products/:id/movements", middleware.RequireAnyPermission(model.PermStockIn, model.PermStockOut), invHandler.ApplyMovement)
	protected.Get("/products/:id/transactions", middleware.RequirePermission(model.PermReportsView), invHandler.GetProductHistory)
	protected.Get("/transactions", middleware.RequirePermission(model.PermReportsView), invHandler.GetTransactions)
	protected.Delete("/data", middleware.RequirePermission(model.PermPurgeData), invHandler.PurgeAll)

	// Indents
	protected.Get("/indents", middleware.RequirePermission(model.PermIndView), indentHandler.GetIndents)
	protected.Post("/indents", middleware.RequirePermission(model.PermIndCreate), indentHandler.CreateIndent)
	protected.Patch("/indents/:id/status", middleware.RequireAnyPermission(model.PermIndApprove, model.PermIndReject, model.PermIndFulfill), indentHandler.UpdateIndentStatus)

	// Export
	protected.Get("/export", middleware.RequirePermission(model.PermReportsExport), exportHandler.ExportWorkbook)

	// AI collaborator
	protected.Post("/ai/description", middleware.RequirePermission(model.PermAIDescGen), aiHandler.GenerateDescription)
	protected.Get("/ai/insights", middleware.RequirePermission(model.PermAIInsights), aiHandler.GetInsights)

	// User Management
	protected.Get("/users", middleware.RequirePermission(model.PermUserManage), userHandler.GetUsers)
	protected.Get("/users/:id", middleware.RequirePermission(model.PermUserManage), userHandler.GetUser)
	protected.Post("/users", middleware.RequirePermission(model.PermUserManage), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePermission(model.PermUserManage), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePermission(model.PermUserManage), userHandler.DeleteUser)
	protected.Put("/users/:id/permissions", middleware.RequirePermission(model.PermUserManage), userHandler.UpdateUserPermissions)
	protected.Put("/users/:id/password", middleware.RequirePermission(model.PermUserPassReset), userHandler.ResetPassword)

	// Permission catalog (for the assignment UI)
	protected.Get("/permissions", middleware.RequirePermission(model.PermUserManage), func(c *fiber.Ctx) error {
		permissions, err := permissionRepo.FindAll(c.Context())
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch permissions"})
		}
		return c.JSON(permissions)
	})

	// Settings
	protected.Get("/settings/form-fields", middleware.RequirePermission(model.PermSettingsAccess), settingsHandler.GetFormFields)
	protected.Put("/settings/form-fields", middleware.RequirePermission(model.PermSettingsAccess), settingsHandler.UpdateFormField)
	protected.Get("/settings/app-config", settingsHandler.GetAppConfig)
	protected.Put("/settings/app-config", middleware.RequirePermission(model.PermSettingsAccess), settingsHandler.UpdateAppConfig)
	protected.Get("/departments", settingsHandler.GetDepartments)
	protected.Post("/departments", middleware.RequirePermission(model.PermDeptManage), settingsHandler.AddDepartment)
	protected.Delete("/departments/:name", middleware.RequirePermission(model.PermDeptManage), settingsHandler.DeleteDepartment)
	protected.Get("/meta", settingsHandler.GetMeta)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedDefaults creates the permission catalog, department list, form
// field settings, app config and the first admin account when missing.
func seedDefaults(db *gorm.DB) {
	ctx := context.Background()

	permissionRepo := repository.NewPermissionRepo(db)
	deptRepo := repository.NewDepartmentRepo(db)
	settingsRepo := repository.NewSettingsRepo(db)
	userRepo := repository.NewUserRepo(db)

	if err := permissionRepo.SeedDefaults(ctx); err != nil {
		log.Printf("Warning: Failed to seed permissions: %v", err)
	}
	if err := deptRepo.SeedDefaults(ctx); err != nil {
		log.Printf("Warning: Failed to seed departments: %v", err)
	}
	if err := settingsRepo.SeedDefaults(ctx); err != nil {
		log.Printf("Warning: Failed to seed settings: %v", err)
	}

	userService := service.NewUserService(userRepo, permissionRepo)
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "admin123"
	}
	if err := userService.SeedAdmin(ctx, adminPassword); err != nil {
		log.Printf("Warning: Failed to seed admin user: %v", err)
	}
}
