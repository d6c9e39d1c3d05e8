package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"ghg-portal/reporting-portal-backend/internal/auth"
	"ghg-portal/reporting-portal-backend/internal/config"
	"ghg-portal/reporting-portal-backend/internal/reports"
)

// Periodic housekeeping: expired reset token cleanup and dashboard
// aggregate refresh.
func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(configPath())
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	dbURL := cfg.Database.GetDatabaseURL()
	db, err := gorm.Open(postgres.Open(dbURL), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	sqlxDB, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		logger.Fatal("Failed to open reporting connection", zap.Error(err))
	}
	defer sqlxDB.Close()

	authService := auth.NewService(db, auth.ServiceConfig{
		JWTSecret:     cfg.Security.JWTSecret,
		TokenLifetime: cfg.Security.TokenLifetime,
		ResetTokenTTL: cfg.Security.ResetTokenTTL,
		BcryptCost:    cfg.Security.BcryptCost,
	}, logger)
	reportsService := reports.NewService(reports.NewPostgresRepository(sqlxDB),
		5*time.Minute, logger)

	c := cron.New()

	if _, err := c.AddFunc("@hourly", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		purged, err := authService.PurgeExpiredResetTokens(ctx)
		if err != nil {
			logger.Error("Reset token cleanup failed", zap.Error(err))
			return
		}
		if purged > 0 {
			logger.Info("Expired reset tokens purged", zap.Int64("count", purged))
		}
	}); err != nil {
		logger.Fatal("Failed to schedule token cleanup", zap.Error(err))
	}

	if _, err := c.AddFunc("@every 5m", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := reportsService.RefreshDashboard(ctx); err != nil {
			logger.Error("Dashboard refresh failed", zap.Error(err))
		}
	}); err != nil {
		logger.Fatal("Failed to schedule dashboard refresh", zap.Error(err))
	}

	c.Start()
	logger.Info("Maintenance worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Maintenance worker stopping")
	<-c.Stop().Done()
}

func configPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "config.json"
}
