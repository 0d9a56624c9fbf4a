package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Zeeion12/Gudang-Hoda-Plafon/internal/config"
	"github.com/Zeeion12/Gudang-Hoda-Plafon/internal/handler"
	"github.com/Zeeion12/Gudang-Hoda-Plafon/internal/metrics"
	"github.com/Zeeion12/Gudang-Hoda-Plafon/internal/middleware"
	"github.com/Zeeion12/Gudang-Hoda-Plafon/internal/model"
	"github.com/Zeeion12/Gudang-Hoda-Plafon/internal/repository"
	"github.com/Zeeion12/Gudang-Hoda-Plafon/internal/service"
	"github.com/Zeeion12/Gudang-Hoda-Plafon/internal/ws"
	"github.com/Zeeion12/Gudang-Hoda-Plafon/pkg/database"
	jwtpkg "github.com/Zeeion12/Gudang-Hoda-Plafon/pkg/jwt"
	"github.com/Zeeion12/Gudang-Hoda-Plafon/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	zlog, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to build logger: ", err)
	}
	defer zlog.Sync()

	// 2. Setup Database
	db, err := database.Connect(cfg)
	if err != nil {
		zlog.Fatal("database connection failed", zap.Error(err))
	}
	if err := db.AutoMigrate(&model.Product{}, &model.Transaction{}, &model.User{}); err != nil {
		zlog.Fatal("migration failed", zap.Error(err))
	}

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub(zlog)
	go wsHub.Run()

	// 4. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	userRepo := repository.NewUserRepo(db)
	txManager := repository.NewTxManager(db)
	tokens := jwtpkg.NewManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)

	seedAdminUser(userRepo, cfg, zlog)

	catalogService := service.NewCatalogService(productRepo, txRepo, wsHub, zlog)
	ledgerService := service.NewLedgerService(txManager, txRepo, wsHub, zlog)
	reportService := service.NewReportService(productRepo, txRepo)
	authService := service.NewAuthService(userRepo, tokens, zlog)

	productHandler := handler.NewProductHandler(catalogService)
	txHandler := handler.NewTransactionHandler(ledgerService)
	reportHandler := handler.NewReportHandler(reportService)
	authHandler := handler.NewAuthHandler(authService)

	httpMetrics := metrics.NewHTTPMetrics("gudang-hoda-plafon")

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Gudang Hoda Plafon v1.0",
	})

	// Middleware
	app.Use(fiberlogger.New()) // Request logging
	app.Use(recover.New())     // Panic recovery
	app.Use(cors.New())        // CORS
	app.Use(httpMetrics.Middleware())

	app.Get("/metrics", metrics.Handler())

	// 6. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/change-password", authHandler.ChangePassword)
	auth.Post("/validate-token", authHandler.ValidateToken)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(tokens, userRepo))

	// Product Routes
	protected.Get("/products", productHandler.GetProducts)
	protected.Get("/products/categories", productHandler.GetCategories)
	protected.Get("/products/:id", productHandler.GetProduct)
	protected.Post("/products", productHandler.CreateProduct)
	protected.Put("/products/:id", productHandler.UpdateProduct)
	protected.Delete("/products/:id", productHandler.DeleteProduct)

	// Transaction Routes
	protected.Get("/transactions", txHandler.GetTransactions)
	protected.Get("/transactions/:id", txHandler.GetTransaction)
	protected.Post("/transactions", txHandler.CreateTransaction)

	// Report Routes
	protected.Get("/reports/stock", reportHandler.GetStockReport)
	protected.Get("/reports/transactions", reportHandler.GetTransactionReport)
	protected.Get("/dashboard/stats", reportHandler.GetDashboardStats)
	protected.Get("/dashboard/stock-movement", reportHandler.GetStockMovement)

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

	// 7. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()
	zlog.Info("server started", zap.String("port", cfg.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zlog.Fatal("server forced to shutdown", zap.Error(err))
	}
	zlog.Info("server exited")
}

// seedAdminUser creates the default admin account when it does not exist yet.
func seedAdminUser(userRepo repository.UserRepository, cfg *config.Config, zlog *zap.Logger) {
	ctx := context.Background()

	_, err := userRepo.FindByEmail(ctx, cfg.AdminEmail)
	if err == nil {
		return
	}
	if !errors.Is(err, repository.ErrNotFound) {
		zlog.Warn("failed to check admin user", zap.Error(err))
		return
	}

	admin := &model.User{
		Email:    cfg.AdminEmail,
		FullName: "Administrator",
		IsActive: true,
	}
	if err := admin.SetPassword(cfg.AdminPassword); err != nil {
		zlog.Warn("failed to hash admin password", zap.Error(err))
		return
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		zlog.Warn("failed to create admin user", zap.Error(err))
		return
	}
	zlog.Info("admin user created", zap.String("email", cfg.AdminEmail))
}
