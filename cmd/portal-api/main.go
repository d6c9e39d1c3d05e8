package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"ghg-portal/reporting-portal-backend/internal/audit"
	"ghg-portal/reporting-portal-backend/internal/auth"
	"ghg-portal/reporting-portal-backend/internal/calculation"
	"ghg-portal/reporting-portal-backend/internal/collection"
	"ghg-portal/reporting-portal-backend/internal/config"
	"ghg-portal/reporting-portal-backend/internal/masterdata"
	"ghg-portal/reporting-portal-backend/internal/notifications"
	"ghg-portal/reporting-portal-backend/internal/projects"
	"ghg-portal/reporting-portal-backend/internal/reports"
	"ghg-portal/reporting-portal-backend/internal/review"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(configPath())
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	var logger *zap.Logger
	if cfg.Logging.Level == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	dbURL := cfg.Database.GetDatabaseURL()
	db, err := gorm.Open(postgres.Open(dbURL), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := migrate(db); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	// Separate read connection for the reporting queries.
	sqlxDB, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		logger.Fatal("Failed to open reporting connection", zap.Error(err))
	}
	defer sqlxDB.Close()

	ctx := context.Background()

	authService := auth.NewService(db, auth.ServiceConfig{
		JWTSecret:     cfg.Security.JWTSecret,
		TokenLifetime: cfg.Security.TokenLifetime,
		ResetTokenTTL: cfg.Security.ResetTokenTTL,
		BcryptCost:    cfg.Security.BcryptCost,
	}, logger)

	masterdataRepo := masterdata.NewRepository(db)
	auditRecorder := audit.NewRecorder(db, logger)

	objectStore, err := collection.NewS3Store(ctx, cfg.Storage.Region)
	if err != nil {
		logger.Fatal("Failed to initialize evidence storage", zap.Error(err))
	}

	projectRepo := projects.NewRepository(db)
	collectionRepo := collection.NewRepository(db)
	calcRepo := calculation.NewRepository(db)
	reviewRepo := review.NewRepository(db)

	collectionService := collection.NewService(collectionRepo, projectRepo,
		objectStore, cfg.Storage.EvidenceBucket, logger)
	calcService := calculation.NewService(calcRepo, masterdataRepo, projectRepo,
		collection.NewLineGateway(collectionRepo), logger)

	hub := notifications.NewHub(logger)
	defer hub.Close()

	var emailSender notifications.EmailSender
	if cfg.Email.Enabled {
		emailSender, err = notifications.NewSESChannel(ctx, cfg.Storage.Region, cfg.Email.Sender)
		if err != nil {
			logger.Fatal("Failed to initialize email channel", zap.Error(err))
		}
	}
	var smsSender notifications.SMSSender
	if cfg.SMS.Enabled {
		smsSender, err = notifications.NewSNSChannel(ctx, cfg.Storage.Region)
		if err != nil {
			logger.Fatal("Failed to initialize SMS channel", zap.Error(err))
		}
	}
	notifier := notifications.NewService(emailSender, smsSender, hub, authService, logger)

	projectService := projects.NewService(projects.NewTxManager(db), projectRepo,
		calcRepo, collectionRepo, reviewRepo, auditRecorder, notifier, logger)

	reportsService := reports.NewService(reports.NewPostgresRepository(sqlxDB),
		5*time.Minute, logger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
	})
	router.GET("/ws", func(c *gin.Context) {
		hub.HandleConnection(c.Writer, c.Request)
	})

	public := router.Group("/api/v1")
	authed := router.Group("/api/v1", auth.Middleware(authService))

	auth.NewHandler(authService, logger).RegisterRoutes(public, authed)
	masterdata.NewHandler(masterdataRepo, logger).RegisterRoutes(authed)
	projects.NewHandler(projectService, logger).RegisterRoutes(authed)
	collection.NewHandler(collectionService, logger).RegisterRoutes(authed)
	calculation.NewHandler(calcService, logger).RegisterRoutes(authed)
	review.NewHandler(reviewRepo, logger).RegisterRoutes(authed)
	reports.NewHandler(reportsService, logger).RegisterRoutes(authed)

	srv := &http.Server{
		Addr:         cfg.Server.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}
}

func configPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "config.json"
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&auth.User{},
		&auth.PasswordResetToken{},
		&masterdata.Criteria{},
		&masterdata.ReasonCode{},
		&masterdata.EmissionFactor{},
		&projects.Project{},
		&collection.ActivityData{},
		&collection.Evidence{},
		&calculation.Calculation{},
		&review.Review{},
		&review.Approval{},
		&audit.Entry{},
	)
}
