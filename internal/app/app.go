// Package app assembles the service from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"sehat-sathi-server/internal/booking"
	"sehat-sathi-server/internal/config"
	"sehat-sathi-server/internal/handlers"
	"sehat-sathi-server/internal/identity"
	"sehat-sathi-server/internal/jobs"
	"sehat-sathi-server/internal/metrics"
	"sehat-sathi-server/internal/middleware"
	"sehat-sathi-server/internal/models"
	"sehat-sathi-server/internal/pharmacy"
	"sehat-sathi-server/internal/records"
	"sehat-sathi-server/internal/repository"
	"sehat-sathi-server/internal/routes"
	"sehat-sathi-server/internal/session"
)

// App holds the wired components of a running service.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Router   *gin.Engine
	Booking  *booking.Service
	Registry *prometheus.Registry
	Location *time.Location

	db    *gorm.DB
	redis *redis.Client
}

type stores struct {
	consultations repository.ConsultationRepository
	prescriptions repository.PrescriptionRepository
	users         identity.UserStore
	sessions      session.Store
	positions     pharmacy.PositionCache
}

// New connects the configured backends and builds the HTTP router.
func New(cfg *config.Config, logger zerolog.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger, Registry: prometheus.NewRegistry()}
	a.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	st, err := a.openStores()
	if err != nil {
		a.Close()
		return nil, err
	}

	loc, err := time.LoadLocation(cfg.Booking.TimeZone)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("load time zone: %w", err)
	}
	a.Location = loc

	a.Booking = booking.NewService(st.consultations, booking.Options{
		Assigner: booking.FixedAssigner{
			EmergencyDoctor: cfg.Booking.EmergencyDoctor,
			GeneralDoctor:   cfg.Booking.GeneralDoctor,
		},
		Confirmer: booking.SimulatedConfirmer{Delay: cfg.Booking.ConfirmDelay},
		Links:     booking.RandomLinks{BaseURL: cfg.Booking.MeetingBaseURL},
		Metrics:   metrics.NewBookingMetrics(a.Registry),
		Logger:    logger.With().Str("component", "booking").Logger(),
		Location:  loc,
	})

	var provider identity.Provider
	switch cfg.IdentityProvider {
	case config.IdentityPassword:
		provider = identity.NewPasswordProvider(st.users)
	default:
		provider = identity.NewMockProvider(st.users)
	}

	sessions := session.NewManager(st.sessions, st.users, cfg, logger.With().Str("component", "session").Logger())
	recordStore := records.NewHealthRecordStore(loc)
	prescriptions := records.NewPrescriptionService(st.prescriptions, logger.With().Str("component", "prescriptions").Logger(), loc)
	pharmacies := pharmacy.NewService(st.positions, cfg.Location.HighAccuracy, cfg.Location.Timeout, cfg.Location.MaximumAge, logger.With().Str("component", "pharmacy").Logger())

	a.Router = a.newRouter()
	routes.SetupRoutes(a.Router, routes.Handlers{
		Auth:          handlers.NewAuthHandler(provider, st.users, sessions, recordStore, cfg),
		Consultations: handlers.NewConsultationHandler(a.Booking, cfg.Booking.SuccessDisplay),
		Prescriptions: handlers.NewPrescriptionHandler(prescriptions, st.users),
		HealthRecords: handlers.NewHealthRecordHandler(recordStore),
		Pharmacies:    handlers.NewPharmacyHandler(pharmacies),
	}, sessions, a.Registry)

	return a, nil
}

func (a *App) openStores() (*stores, error) {
	cfg := a.Config
	if cfg.StoreDriver == config.StoreMemory {
		a.Logger.Warn().Msg("using in-memory stores; data is lost on restart")
		return &stores{
			consultations: repository.NewMemoryConsultationRepository(),
			prescriptions: repository.NewMemoryPrescriptionRepository(),
			users:         identity.NewMemoryUserStore(),
			sessions:      session.NewMemoryStore(),
			positions:     pharmacy.NewMemoryPositionCache(cfg.Location.MaximumAge),
		}, nil
	}

	db, err := models.InitDB(models.DatabaseConfig{DSN: cfg.Database.DSN})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	a.db = db

	a.redis = redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.redis.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	st := &stores{
		users:     identity.NewGormUserStore(db),
		sessions:  session.NewRedisStore(a.redis),
		positions: pharmacy.NewRedisPositionCache(a.redis, cfg.Location.MaximumAge),
	}
	if cfg.StoreDriver == config.StoreRedis {
		st.consultations = repository.NewRedisConsultationRepository(a.redis)
		st.prescriptions = repository.NewRedisPrescriptionRepository(a.redis)
	} else {
		st.consultations = repository.NewGormConsultationRepository(db)
		st.prescriptions = repository.NewGormPrescriptionRepository(db)
	}
	return st, nil
}

func (a *App) newRouter() *gin.Engine {
	if !a.Config.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(a.Logger))
	router.Use(middleware.Metrics(metrics.NewHTTPMetrics(a.Registry)))

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{a.Config.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{"Content-Disposition", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))
	return router
}

// Scheduler returns the cron runner for the consultation completion job.
func (a *App) Scheduler() (*jobs.Scheduler, error) {
	job := jobs.NewCompletionJob(a.Booking, a.Logger.With().Str("component", "jobs").Logger())
	return jobs.NewScheduler(a.Config.Booking.CompletionSchedule, job, a.Location)
}

// Migrate creates or updates the MySQL schema.
func Migrate(cfg *config.Config) error {
	db, err := models.InitDB(models.DatabaseConfig{DSN: cfg.Database.DSN})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()
	return models.Migrate(db)
}

// Close releases the backend connections.
func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}
