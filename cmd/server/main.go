package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tripcost/service-route/internal/application"
	"github.com/tripcost/service-route/internal/config"
	"github.com/tripcost/service-route/internal/domain/route"
	"github.com/tripcost/service-route/internal/events"
	"github.com/tripcost/service-route/internal/handler"
	"github.com/tripcost/service-route/internal/platform/auth"
	"github.com/tripcost/service-route/internal/platform/database"
	"github.com/tripcost/service-route/internal/platform/health"
	"github.com/tripcost/service-route/internal/platform/kafka"
	"github.com/tripcost/service-route/internal/platform/logger"
	"github.com/tripcost/service-route/internal/platform/middleware"
	"github.com/tripcost/service-route/internal/provider/electricity"
	"github.com/tripcost/service-route/internal/provider/fuel"
	"github.com/tripcost/service-route/internal/provider/google"
	"github.com/tripcost/service-route/internal/repository"
)

const serviceName = "service-route"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting "+serviceName, zap.String("port", cfg.Port))

	// Connect to database
	dbConfig := database.PostgresConfig{
		Host:     cfg.DBConfig.Host,
		Port:     cfg.DBConfig.Port,
		User:     cfg.DBConfig.User,
		Password: cfg.DBConfig.Password,
		DBName:   cfg.DBConfig.DBName,
		SSLMode:  cfg.DBConfig.SSLMode,
	}
	db, err := database.Connect(dbConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(&repository.JourneyModel{}, &repository.VehicleModel{}, &repository.InterestPointModel{}); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(dbConfig.DatabaseURL(), "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Tokens are issued by the account service; only validation happens here.
	jwtManager := auth.NewJWTManager(cfg.JWTConfig.Secret, cfg.JWTConfig.Issuer, 15*time.Minute)

	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Repositories
	journeyRepo := repository.NewGormJourneyRepository(db)
	vehicleRepo := repository.NewGormVehicleRepository(db)
	placeRepo := repository.NewGormInterestPointRepository(db)

	// External providers
	directions := google.NewDirectionsClient(cfg.GoogleConfig, log.Named("google-routes"))
	geocoder := google.NewGeocoder(cfg.GoogleConfig, log.Named("google-geocoding"))
	fuelPrices := fuel.NewClient(cfg.FuelConfig, log.Named("fuel"))
	electricityPrices := electricity.NewClient(cfg.ElectricityConfig, log.Named("electricity"))

	planner := route.NewPlanner(directions, fuelPrices, electricityPrices)

	// Application services
	routeService := application.NewRouteService(planner, vehicleRepo, placeRepo, log)
	journeyService := application.NewJourneyService(journeyRepo, kafkaProducer, log)
	vehicleService := application.NewVehicleService(vehicleRepo, log)
	placeService := application.NewPlaceService(placeRepo, geocoder, log)
	cleanupService := application.NewCleanupService(journeyRepo, vehicleRepo, placeRepo, log)

	// Start user event consumer in a goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	userConsumer := events.NewUserEventConsumer(
		cfg.KafkaConfig.Brokers,
		cfg.KafkaConfig.GroupPrefix+serviceName,
		cleanupService,
		log,
	)
	defer func() { _ = userConsumer.Close() }()

	go func() {
		log.Info("starting user event consumer")
		if err := userConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("user event consumer error", zap.Error(err))
		}
	}()

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	health.NewHandler(db, serviceName).RegisterRoutes(router)

	api := router.Group("")
	api.Use(middleware.Timeout(cfg.RequestTimeout))

	handler.NewRouteHandler(routeService).RegisterRoutes(api, jwtManager)
	handler.NewJourneyHandler(journeyService).RegisterRoutes(api, jwtManager)
	handler.NewVehicleHandler(vehicleService).RegisterRoutes(api, jwtManager)
	handler.NewPlaceHandler(placeService).RegisterRoutes(api, jwtManager)

	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down " + serviceName + "...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info(serviceName + " stopped")
}
