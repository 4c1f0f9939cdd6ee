package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kendall-kelly/reservations-api/config"
	"github.com/kendall-kelly/reservations-api/events"
	"github.com/kendall-kelly/reservations-api/router"
	"github.com/kendall-kelly/reservations-api/services"
	"github.com/kendall-kelly/reservations-api/store"
	"github.com/kendall-kelly/reservations-api/utils"
	"github.com/kendall-kelly/reservations-api/validation"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		utils.Logger.WithError(err).Fatal("Server stopped")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := utils.InitLogger(cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	utils.Logger.WithField("env", cfg.GoEnv).Info("Starting reservations API server...")

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		return err
	}
	if err := store.Migrate(db); err != nil {
		return err
	}
	utils.Logger.Info("Database migration completed successfully")

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	var publisher events.Publisher = events.Noop{}
	if cfg.EventsEnabled() {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.RabbitMQURL, cfg.EventsExchange)
		if err != nil {
			return err
		}
		publisher = amqpPublisher
		utils.Logger.WithField("exchange", cfg.EventsExchange).Info("Publishing events to RabbitMQ")
	}
	defer publisher.Close()

	var storage services.ObjectStorage
	if cfg.ManifestsEnabled() {
		s3Service, err := services.InitS3Service(context.Background(), cfg)
		if err != nil {
			return err
		}
		storage = s3Service
		utils.Logger.WithField("bucket", cfg.AWSS3Bucket).Info("Manifest export enabled")
	}

	engine := buildRouter(cfg, db, publisher, storage, validation.DefaultCalendar(loc))
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		utils.Logger.Infof("Server is running on http://localhost:%s", cfg.Port)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	utils.Logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildRouter assembles the services over db and returns the HTTP engine.
// A nil storage disables manifest export.
func buildRouter(cfg *config.Config, db *gorm.DB, pub events.Publisher, storage services.ObjectStorage, cal validation.Calendar) *gin.Engine {
	st := store.NewGormStore(db)

	deps := router.Dependencies{
		Store:        st,
		Reservations: services.NewReservationService(st, cal, pub),
		Tables:       services.NewTableService(st, pub),
		CORSOrigins:  cfg.CORSAllowedOrigins,
	}
	if storage != nil {
		deps.Manifests = services.NewManifestService(st, storage, cal)
	}
	return router.SetupRouter(deps)
}
