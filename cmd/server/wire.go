package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	goredis "github.com/redis/go-redis/v9"

	"skyparcel/config"
	"skyparcel/internal/admin"
	"skyparcel/internal/delivery"
	"skyparcel/internal/drone"
	"skyparcel/internal/events"
	natspub "skyparcel/internal/events/nats"
	"skyparcel/internal/matching"
	"skyparcel/internal/order"
	"skyparcel/internal/redis"
	pg "skyparcel/internal/repo/postgres"
	"skyparcel/internal/tracking"
)

type AppContext struct {
	DB     *sqlx.DB
	Config *config.Config
	Redis  *goredis.Client
	Router *gin.Engine

	// Infrastructure
	Publisher        events.Publisher
	CatalogCache     *redis.CatalogCache
	IdempotencyStore *redis.IdempotencyStore
	RateLimiter      *redis.RateLimiter
	Tracker          *tracking.Manager

	OrderHandler    *order.Handler
	DroneHandler    *drone.Handler
	MatchingHandler *matching.Handler
	AdminHandler    *admin.Handler

	DroneService    drone.Service
	MatchingService matching.Service
	AdminService    admin.Service
}

func wireApp(cfg *config.Config) (*AppContext, error) {
	// ── Postgres ──
	db, err := pg.Connect(cfg.Postgres.DSN(), pg.DefaultPoolConfig())
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	if err := pg.RunMigrationsUp(db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	// ── Redis ──
	var rdb *goredis.Client
	if cfg.Redis.URL != "" {
		opts, err := goredis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("redis parse url: %w", err)
		}
		rdb = goredis.NewClient(opts)
	} else {
		rdb = goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	// ── Events ──
	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.NATS.URL != "" {
		p, err := natspub.New(cfg.NATS.URL, cfg.NATS.Subject)
		if err != nil {
			return nil, fmt.Errorf("nats: %w", err)
		}
		publisher = p
	}

	// ── Infrastructure ──
	catalogCache := redis.NewCatalogCache(rdb, cfg.Catalog.CacheTTLSec)
	idempotencyStore := redis.NewIdempotencyStore(rdb, cfg.Catalog.IdempotencyTTLSec)
	rateLimiter := redis.NewRateLimiter(rdb, cfg.RateLimiter.MaxRequests, cfg.RateLimiter.WindowSeconds)

	pricer := matching.Pricer{
		BaseFare:      cfg.Pricing.BaseFare,
		HomePickupFee: cfg.Pricing.HomePickupFee,
	}

	// ── Repositories ──
	droneRepo := drone.NewRepository()
	orderRepo := order.NewRepository()
	deliveryRepo := delivery.NewRepository(orderRepo, droneRepo)

	// ── Services ──
	droneService := drone.NewDroneService(droneRepo, db, catalogCache)
	deliveryService := delivery.NewService(db, deliveryRepo)
	matchingService := matching.NewService(droneService)

	orderService := order.NewOrderService(orderRepo, db, droneService, deliveryService, publisher, pricer, cfg.Order.MinLeadTime)

	trackingCfg := tracking.DefaultConfig()
	trackingCfg.Steps = cfg.Tracking.Steps
	trackingCfg.TickInterval = cfg.Tracking.TickInterval
	tracker := tracking.NewManager(orderService, droneService, tracking.RealClock(), trackingCfg)
	orderService.SetSimulator(tracker)

	adminService := admin.NewService(orderService, droneService)

	// ── Handlers ──
	orderHandler := order.NewHandler(orderService)
	droneHandler := drone.NewHandler(droneService)
	matchingHandler := matching.NewHandler(matchingService, pricer)
	adminHandler := admin.NewHandler(adminService)

	return &AppContext{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		Router: gin.Default(),

		Publisher:        publisher,
		CatalogCache:     catalogCache,
		IdempotencyStore: idempotencyStore,
		RateLimiter:      rateLimiter,
		Tracker:          tracker,

		OrderHandler:    orderHandler,
		DroneHandler:    droneHandler,
		MatchingHandler: matchingHandler,
		AdminHandler:    adminHandler,

		DroneService:    droneService,
		MatchingService: matchingService,
		AdminService:    adminService,
	}, nil
}

func (a *AppContext) Close() {
	a.Tracker.StopAll()
	a.Publisher.Close()
	a.DB.Close()
	a.Redis.Close()
}

func (a *AppContext) healthCheck(c *gin.Context) {
	ctx := c.Request.Context()
	checks := map[string]string{}
	healthy := true

	if err := a.DB.PingContext(ctx); err != nil {
		checks["postgres"] = err.Error()
		healthy = false
	} else {
		checks["postgres"] = "ok"
	}

	if err := a.Redis.Ping(ctx).Err(); err != nil {
		checks["redis"] = err.Error()
		healthy = false
	} else {
		checks["redis"] = "ok"
	}

	if a.Config.NATS.URL != "" {
		checks["events"] = "ok"
	} else {
		checks["events"] = "disabled"
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":  checks,
		"db_pool": pg.Stats(a.DB),
	})
}
