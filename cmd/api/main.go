package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go-inventory-pos/internal/config"
	"go-inventory-pos/internal/metrics"
	"go-inventory-pos/internal/repository"
	"go-inventory-pos/internal/scheduler"
	"go-inventory-pos/internal/server"
	"go-inventory-pos/internal/service"
	"go-inventory-pos/internal/ws"
	"go-inventory-pos/pkg/database"
	"go-inventory-pos/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// 1. Load Env
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	if envErr != nil {
		log.Debug(".env file not found, using process environment")
	}

	// 2. Setup Database
	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			log.WithError(err).Fatal("migration failed")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	productRepo := repository.NewProductRepo(db)
	txRepo := repository.NewTransactionRepo(db)

	// 3. Seed demo catalogue
	if cfg.SeedDemo {
		n, err := productRepo.SeedDefaults(ctx)
		if err != nil {
			log.WithError(err).Warn("failed to seed demo products")
		} else if n > 0 {
			log.WithField("count", n).Info("demo products seeded")
		}
	}

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub(log)
	go wsHub.Run(ctx)

	// 5. Dependency Injection (Wiring Layers)
	m := metrics.New()
	invService := service.NewInventoryService(productRepo, txRepo, db, wsHub, m, log)
	reportService := service.NewReportService(productRepo, txRepo)

	var watcher *scheduler.LowStockWatcher
	if cfg.Scheduler.LowStockEnabled {
		watcher = scheduler.NewLowStockWatcher(reportService, wsHub, m, log)
		if _, err := watcher.Scan(ctx); err != nil {
			log.WithError(err).Warn("initial low-stock scan failed")
		}
		if err := watcher.Start(cfg.Scheduler.LowStockSpec); err != nil {
			log.WithError(err).Fatal("low-stock watcher")
		}
	}

	// 6. Setup Fiber
	app := server.New(server.Deps{
		Config:    cfg.Server,
		Log:       log,
		DB:        db,
		Inventory: invService,
		Reports:   reportService,
		Hub:       wsHub,
		Metrics:   m,
	})

	// 7. Graceful Shutdown
	go func() {
		if err := app.Listen(cfg.Server.Addr()); err != nil {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	if watcher != nil {
		watcher.Stop()
	}
	if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Info("Server exited")
}
