package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	goredis "github.com/redis/go-redis/v9"

	"skyparcel/internal/admin"
	"skyparcel/internal/delivery"
	"skyparcel/internal/drone"
	"skyparcel/internal/events"
	"skyparcel/internal/matching"
	"skyparcel/internal/middleware"
	"skyparcel/internal/order"
	"skyparcel/internal/redis"
)

// testApp holds the wired application for integration tests. The tracking
// simulator stays unwired so order state never changes under the test's feet;
// the simulator itself is covered by the unit suite.
type testApp struct {
	DB     *sqlx.DB
	Redis  *goredis.Client
	Router *gin.Engine
}

func skipIfNoInfra(t *testing.T) {
	t.Helper()
	if os.Getenv("INTEGRATION_TEST") == "" {
		t.Skip("skipping integration test; set INTEGRATION_TEST=1 and ensure Postgres/Redis are running")
	}
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	skipIfNoInfra(t)

	gin.SetMode(gin.TestMode)

	// Postgres
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost port=5432 user=skyparcel_admin password=secure_password dbname=skyparcel sslmode=disable"
	}
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Fatalf("postgres connect: %v", err)
	}

	// Redis
	redisAddr := os.Getenv("TEST_REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: redisAddr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		db.Close()
		t.Fatalf("redis connect: %v", err)
	}

	createTestSchema(t, db)

	// Infrastructure
	catalogCache := redis.NewCatalogCache(rdb, 60)
	idempotencyStore := redis.NewIdempotencyStore(rdb, 300)
	rateLimiter := redis.NewRateLimiter(rdb, 1000, 60) // generous for tests
	pricer := matching.Pricer{BaseFare: 50, HomePickupFee: 100}

	// Repositories
	droneRepo := drone.NewRepository()
	orderRepo := order.NewRepository()
	deliveryRepo := delivery.NewRepository(orderRepo, droneRepo)

	// Services
	droneService := drone.NewDroneService(droneRepo, db, catalogCache)
	deliveryService := delivery.NewService(db, deliveryRepo)
	matchingService := matching.NewService(droneService)
	orderService := order.NewOrderService(orderRepo, db, droneService, deliveryService, events.NoopPublisher{}, pricer, 30*time.Minute)
	adminService := admin.NewService(orderService, droneService)

	// Handlers
	orderHandler := order.NewHandler(orderService)
	droneHandler := drone.NewHandler(droneService)
	matchingHandler := matching.NewHandler(matchingService, pricer)
	adminHandler := admin.NewHandler(adminService)

	// Router
	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.RateLimit(rateLimiter))

	r.GET("/drones", droneHandler.ListAvailable)
	r.POST("/drones/recommend", matchingHandler.Recommend)

	orders := r.Group("/orders")
	orders.GET("/:orderId", orderHandler.GetOrder)
	mutations := orders.Group("")
	mutations.Use(middleware.Bulkhead(50))
	mutations.Use(middleware.Idempotency(idempotencyStore))
	mutations.POST("", orderHandler.CreateOrder)
	mutations.DELETE("/:orderId", orderHandler.CancelOrder)
	mutations.PATCH("/:orderId/position", orderHandler.UpdatePosition)
	mutations.PATCH("/:orderId/complete", orderHandler.CompleteOrder)

	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.Bulkhead(20))
	adminGroup.GET("/orders", adminHandler.ListOrders)
	adminGroup.GET("/drones", adminHandler.ListDrones)
	adminGroup.PATCH("/drones/:id/status", adminHandler.UpdateDroneStatus)

	app := &testApp{DB: db, Redis: rdb, Router: r}

	t.Cleanup(func() {
		cleanTestData(t, db)
		rdb.FlushDB(context.Background())
		db.Close()
		rdb.Close()
	})

	return app
}

func createTestSchema(t *testing.T, db *sqlx.DB) {
	t.Helper()

	db.MustExec(`DROP TABLE IF EXISTS orders CASCADE`)
	db.MustExec(`DROP TABLE IF EXISTS drones CASCADE`)

	db.MustExec(`CREATE TABLE drones (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		model TEXT NOT NULL,
		max_weight_kg DOUBLE PRECISION NOT NULL,
		max_range_km DOUBLE PRECISION NOT NULL,
		speed_kmh DOUBLE PRECISION NOT NULL,
		battery_life TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		rate_per_km DOUBLE PRECISION NOT NULL,
		categories TEXT[] NOT NULL,
		status TEXT NOT NULL DEFAULT 'available',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`)

	db.MustExec(`CREATE TABLE orders (
		id UUID PRIMARY KEY,
		order_id TEXT NOT NULL UNIQUE,
		parcel_title TEXT NOT NULL,
		parcel_category TEXT NOT NULL,
		parcel_weight_kg DOUBLE PRECISION NOT NULL,
		parcel_description TEXT NOT NULL DEFAULT '',
		pickup_address TEXT NOT NULL,
		pickup_lat DOUBLE PRECISION NOT NULL,
		pickup_lng DOUBLE PRECISION NOT NULL,
		delivery_address TEXT NOT NULL,
		delivery_lat DOUBLE PRECISION NOT NULL,
		delivery_lng DOUBLE PRECISION NOT NULL,
		drone_id UUID NOT NULL REFERENCES drones (id),
		pickup_mode TEXT NOT NULL,
		scheduled_at TIMESTAMPTZ NOT NULL,
		distance_km DOUBLE PRECISION NOT NULL,
		base_fare DOUBLE PRECISION NOT NULL,
		distance_fare DOUBLE PRECISION NOT NULL,
		pickup_fee DOUBLE PRECISION NOT NULL,
		total_fare DOUBLE PRECISION NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		drone_lat DOUBLE PRECISION NOT NULL,
		drone_lng DOUBLE PRECISION NOT NULL,
		estimated_minutes INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`)
}

func cleanTestData(t *testing.T, db *sqlx.DB) {
	t.Helper()
	db.Exec(`DELETE FROM orders`)
	db.Exec(`DELETE FROM drones`)
}

// --- Fixtures ---

func seedDrone(t *testing.T, app *testApp, name string, maxWeight, maxRange, speed, rate float64, categories ...string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := app.DB.Exec(`INSERT INTO drones
		(id, name, model, max_weight_kg, max_range_km, speed_kmh, rate_per_km, categories, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'available')`,
		id, name, "T-1", maxWeight, maxRange, speed, rate, pq.StringArray(categories))
	if err != nil {
		t.Fatalf("seed drone: %v", err)
	}

	// The catalog cache may hold a stale fleet from a previous seed.
	app.Redis.FlushDB(context.Background())

	return id
}

// --- HTTP request helpers ---

func doRequest(app *testApp, method, path string, body any) *httptest.ResponseRecorder {
	var bodyReader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Idempotency-Key", fmt.Sprintf("idem-%d", time.Now().UnixNano()))

	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)
	return w
}

func parseJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var result map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, w.Body.String())
	}
	return result
}

// --- Order helpers (Mumbai coordinates) ---

func validPickup() map[string]any {
	return map[string]any{
		"address":     "Lower Parel, Mumbai",
		"coordinates": map[string]float64{"lat": 19.0760, "lng": 72.8777},
	}
}

func validDelivery() map[string]any {
	return map[string]any{
		"address":     "Andheri East, Mumbai",
		"coordinates": map[string]float64{"lat": 19.1136, "lng": 72.8697},
	}
}

func orderBody(droneID uuid.UUID, mode string) map[string]any {
	return map[string]any{
		"parcel": map[string]any{
			"title":     "Insulin pack",
			"category":  "medicines",
			"weight_kg": 0.8,
		},
		"pickup":       validPickup(),
		"delivery":     validDelivery(),
		"drone_id":     droneID,
		"pickup_mode":  mode,
		"scheduled_at": time.Now().Add(2 * time.Hour).Format(time.RFC3339),
	}
}

func placeTestOrder(t *testing.T, app *testApp, droneID uuid.UUID, mode string) string {
	t.Helper()

	w := doRequest(app, http.MethodPost, "/orders", orderBody(droneID, mode))
	if w.Code != http.StatusCreated {
		t.Fatalf("place order: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseJSON(t, w)
	orderData := resp["order"].(map[string]any)
	return orderData["order_id"].(string)
}
