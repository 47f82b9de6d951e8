package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"mealdelivery/cmd"
	"mealdelivery/internal/adapters/out/postgres/migrations"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Warnf("no .env file loaded: %v", err)
	}

	configs, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: configs.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err = migrations.Up(configs.DSN()); err != nil {
		log.Fatalf("failed to apply migrations: %v", err)
	}

	gormDB := mustOpenDatabase(configs)

	broker, err := cmd.NewEventBroker(ctx, configs, logger)
	if err != nil {
		log.Fatalf("failed to connect event broker: %v", err)
	}
	publisher, closeSink, err := cmd.NewEventPublisher(configs, broker, logger)
	if err != nil {
		log.Fatalf("failed to connect kafka event log: %v", err)
	}

	app := cmd.NewCompositionRoot(configs, gormDB, broker, publisher, logger)
	closeBroker := sync.OnceValue(broker.Close)

	if err = run(ctx, app, configs.HTTPPort, closeBroker, logger); err != nil {
		logger.Error("service stopped with error", "error", err)
	}

	if err = closeSink(); err != nil {
		logger.Error("failed to close kafka event log", "error", err)
	}
	if err = closeBroker(); err != nil {
		logger.Error("failed to close event broker", "error", err)
	}
	if sqlDB, dbErr := gormDB.DB(); dbErr == nil {
		_ = sqlDB.Close()
	}
}

func mustOpenDatabase(configs cmd.Config) *gorm.DB {
	gormDB, err := gorm.Open(gormpostgres.Open(configs.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}
	if err = sqlDB.Ping(); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}
	return gormDB
}

// run serves HTTP and runs the background jobs until ctx is cancelled or
// one of them fails. Closing the broker on shutdown ends open notification
// streams so that Shutdown does not wait on them.
func run(ctx context.Context, app cmd.CompositionRoot, port string, closeBroker func() error, logger *slog.Logger) error {
	e, err := app.CreateHTTPRouter()
	if err != nil {
		return fmt.Errorf("build http router: %w", err)
	}
	e.Server.RegisterOnShutdown(func() { _ = closeBroker() })

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", "port", port)
		if serveErr := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			return serveErr
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
