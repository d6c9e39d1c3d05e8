package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"ghg-portal/reporting-portal-backend/internal/config"
	"ghg-portal/reporting-portal-backend/internal/masterdata"
)

// Loads the master data the workflow depends on: the 23 GHG reporting
// categories, rejection reason codes, and the emission factor library.
// Safe to run repeatedly; populated tables are left alone.
func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(configPath())
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	db, err := gorm.Open(postgres.Open(cfg.Database.GetDatabaseURL()), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := db.AutoMigrate(
		&masterdata.Criteria{},
		&masterdata.ReasonCode{},
		&masterdata.EmissionFactor{},
	); err != nil {
		logger.Fatal("Failed to migrate master data tables", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	repo := masterdata.NewRepository(db)
	if err := repo.SeedCriteria(ctx, masterdata.DefaultCriteria()); err != nil {
		logger.Fatal("Failed to seed criteria", zap.Error(err))
	}
	if err := repo.SeedReasonCodes(ctx, masterdata.DefaultReasonCodes()); err != nil {
		logger.Fatal("Failed to seed reason codes", zap.Error(err))
	}
	if err := repo.SeedFactors(ctx, masterdata.DefaultFactors()); err != nil {
		logger.Fatal("Failed to seed emission factors", zap.Error(err))
	}

	logger.Info("Master data seeded")
}

func configPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "config.json"
}
