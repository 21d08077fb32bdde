package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"garage-backend/internal/auth"
	"garage-backend/internal/cache"
	"garage-backend/internal/config"
	"garage-backend/internal/database"
	"garage-backend/internal/db"
	h "garage-backend/internal/http"
	"garage-backend/internal/handlers"
	"garage-backend/internal/health"
	"garage-backend/internal/middleware"
	"garage-backend/internal/scheduler"
	"garage-backend/internal/services"
	"garage-backend/internal/storage"
	"garage-backend/migrations"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	migrateOnly := flag.Bool("migrate", false, "Apply pending migrations and exit")
	flag.Parse()

	// Load configuration
	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	gw := db.NewGateway(pool)
	defer gw.Close()

	// Run migrations before anything touches the schema
	migrator := database.NewMigratorWithFS(pool, migrations.FS)
	if _, err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	if *migrateOnly {
		return
	}

	// Redis is optional; every cache call degrades to a miss without it
	redisCache, err := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Printf("[Redis] Cache disabled: %v", err)
		redisCache = cache.Disabled()
	}
	defer redisCache.Close()

	jwtManager := auth.NewJWTManager(cfg)

	// Services
	settingService := services.NewSystemSettingService(gw)
	catalogService := services.NewCatalogService(gw, redisCache)
	receptionService := services.NewReceptionService(gw, settingService, catalogService)
	repairService := services.NewRepairService(gw, redisCache, catalogService)
	receiptService := services.NewReceiptService(gw, settingService)
	vehicleService := services.NewVehicleLookupService(gw)
	revenueService := services.NewRevenueReportService(gw, redisCache)
	stockService := services.NewStockReportService(gw, redisCache)
	importService := services.NewSuppliesImportService(gw, redisCache, catalogService)
	userService := services.NewUserService(gw, jwtManager)

	archiver, err := storage.NewArchiver(ctx, cfg)
	if err != nil {
		log.Printf("[Archive] Report archiving disabled: %v", err)
		archiver = storage.Disabled()
	}
	exportService := services.NewExportService(revenueService, stockService, archiver)

	if err := userService.EnsureDefaultUsers(ctx); err != nil {
		log.Fatalf("Failed to seed default users: %v", err)
	}

	// Monthly reports are pre-generated for the month that just closed
	reportScheduler := scheduler.New(cfg.Reports.Schedule, map[string]scheduler.ReportJob{
		"revenue": func(ctx context.Context, month, year int) error {
			_, err := revenueService.GetOrCreateMonthlyReport(ctx, month, year)
			return err
		},
		"stock": func(ctx context.Context, month, year int) error {
			_, err := stockService.GetOrCreateMonthlyReport(ctx, month, year)
			return err
		},
	})
	if err := reportScheduler.Start(); err != nil {
		log.Fatalf("Failed to start report scheduler: %v", err)
	}
	defer reportScheduler.Stop()

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userService)
	loginLimit, err := middleware.NewRateLimit(cfg.Server.LoginRateLimit, cfg.Server.TrustProxy)
	if err != nil {
		log.Fatalf("Invalid login rate limit %q: %v", cfg.Server.LoginRateLimit, err)
	}
	corsMiddleware := middleware.NewCORS(cfg)

	router := h.NewRouter(h.Handlers{
		Auth:      handlers.NewAuthHandler(userService),
		Reception: handlers.NewReceptionHandler(receptionService),
		Repair:    handlers.NewRepairHandler(repairService),
		Receipt:   handlers.NewReceiptHandler(receiptService),
		Vehicle:   handlers.NewVehicleHandler(vehicleService),
		Catalog:   handlers.NewCatalogHandler(catalogService),
		Settings:  handlers.NewSystemSettingHandler(settingService),
		Imports:   handlers.NewSuppliesImportHandler(importService),
		Reports:   handlers.NewReportHandler(revenueService, stockService, exportService),
		Users:     handlers.NewUserHandler(userService),
		Health:    handlers.NewHealthHandler(health.NewHealthChecker(gw, redisCache), cfg.App.Version),
	}, authMiddleware, loginLimit)

	// Wrap with panic recovery, CORS and request logging
	handler := middleware.PanicRecovery(corsMiddleware(middleware.APILogging(router)))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server running on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}
