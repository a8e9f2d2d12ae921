package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tallerix/taller-backend/config"
	"github.com/tallerix/taller-backend/internal/app/controller"
	"github.com/tallerix/taller-backend/internal/app/repository"
	"github.com/tallerix/taller-backend/internal/app/service"
	"github.com/tallerix/taller-backend/internal/db"
	"github.com/tallerix/taller-backend/internal/router"
	"github.com/tallerix/taller-backend/internal/scheduler"
	"github.com/tallerix/taller-backend/pkg/cache"
	"github.com/tallerix/taller-backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting TALLERIX Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Pricing read cache (optional)
	var pricingCache service.PricingCache
	if cfg.Redis.Enabled {
		redisCache, err := cache.New(&cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, pricing cache disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			pricingCache = redisCache
			defer func() {
				if err := redisCache.Close(); err != nil {
					logger.Error("Failed to close redis connection", err)
				}
			}()
		}
	}

	// Initialize repositories
	ownerRepo := repository.NewOwnerCompanyRepository(db.GetDB())
	materialTypeRepo := repository.NewMaterialTypeRepository(db.GetDB())
	materialRepo := repository.NewMaterialRepository(db.GetDB())
	accessoryRepo := repository.NewAccessoryRepository(db.GetDB())
	linkRepo := repository.NewAccessoryMaterialRepository(db.GetDB())
	componentRepo := repository.NewAccessoryComponentRepository(db.GetDB())
	pricingRepo := repository.NewAccessoryPricingRepository(db.GetDB())

	// Initialize services
	costService := service.NewCostService(materialTypeRepo, ownerRepo)
	linkService := service.NewAccessoryMaterialService(linkRepo, materialRepo, accessoryRepo, costService)
	pricingService := service.NewPricingService(linkRepo, componentRepo, pricingRepo, ownerRepo, accessoryRepo, pricingCache)
	cascadeService := service.NewCascadeService(
		linkService,
		pricingService,
		linkRepo,
		componentRepo,
		accessoryRepo,
		cfg.Pricing.CascadeUpward,
	)
	materialService := service.NewMaterialService(materialRepo, materialTypeRepo, cascadeService)
	ownerService := service.NewOwnerCompanyService(ownerRepo, cascadeService)
	accessoryService := service.NewAccessoryService(accessoryRepo, ownerRepo, db.GetDB())
	componentService := service.NewComponentService(componentRepo, accessoryRepo, linkRepo, ownerRepo)
	reportService := service.NewReportService(accessoryService, linkService, componentService, pricingService)

	// Initialize controllers
	ownerController := controller.NewOwnerController(ownerService)
	materialController := controller.NewMaterialController(materialService)
	accessoryController := controller.NewAccessoryController(accessoryService, linkService, componentService)
	pricingController := controller.NewPricingController(pricingService, accessoryService, reportService)

	// Setup router
	r := router.NewRouter(
		ownerController,
		materialController,
		accessoryController,
		pricingController,
		cfg,
	)
	engine := r.Setup()

	// Nightly catalog repricing (optional)
	if cfg.Scheduler.Enabled {
		pricingScheduler := scheduler.NewPricingScheduler(pricingService, cfg.Scheduler.RepriceSpec)
		if err := pricingScheduler.Start(); err != nil {
			logger.Fatal("Failed to start pricing scheduler", err)
		}
		defer pricingScheduler.Stop()
	}

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
