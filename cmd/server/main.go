package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"stockroom/internal/catalog"
	"stockroom/internal/config"
	"stockroom/internal/infrastructure/logger"
	"stockroom/internal/infrastructure/mysql"
	"stockroom/internal/product"
	"stockroom/internal/report"
	"stockroom/internal/server"
	"stockroom/internal/stock"
	"stockroom/internal/transaction"
)

const defaultConfigPath = "config/config.yaml"

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	path := os.Getenv("STOCKROOM_CONFIG")
	if path == "" {
		path = defaultConfigPath
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx := context.Background()

	db, err := mysql.NewConnection(ctx, cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	if cfg.Database.AutoMigrate {
		if err := mysql.Migrate(ctx, db); err != nil {
			zapLogger.Fatal("migrating schema", zap.Error(err))
		}
		zapLogger.Info("schema up to date")
	}

	uow := mysql.NewUnitOfWork(db, cfg.Transaction.Timeout, zapLogger)
	catalogModule := catalog.NewModule(db, zapLogger)

	router := server.NewRouter(zapLogger,
		product.NewModule(db, uow, zapLogger),
		stock.NewModule(db, uow, zapLogger),
		transaction.NewModule(db, uow, zapLogger),
		catalogModule.Categories,
		catalogModule.Suppliers,
		catalogModule.Customers,
		report.NewModule(db, zapLogger),
	)

	srv := server.New(cfg.Server.Port, router, cfg.Transaction.Timeout, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
