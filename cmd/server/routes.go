package main

import (
	"skyparcel/internal/middleware"
)

func (a *AppContext) setupRoutes() {
	r := a.Router

	// ── Global Middleware (outermost → innermost) ──
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.RateLimit(a.RateLimiter))
	r.Use(middleware.CircuitBreaker(a.Config.CircuitBreaker.FailureThreshold, a.Config.CircuitBreaker.CooldownSeconds))

	// ── Health (no rate limit concerns beyond global) ──
	r.GET("/health", a.healthCheck)

	// ── Catalog & Matching ──
	r.GET("/drones", a.DroneHandler.ListAvailable)
	r.POST("/drones/recommend", a.MatchingHandler.Recommend)

	// ── Orders ──
	orders := r.Group("/orders")
	{
		// Reads
		orders.GET("/:orderId", a.OrderHandler.GetOrder)

		// Mutations get the mutation pool and idempotency replay
		mutations := orders.Group("")
		mutations.Use(middleware.Bulkhead(a.Config.Bulkhead.MutationPool))
		mutations.Use(middleware.Idempotency(a.IdempotencyStore))
		{
			mutations.POST("", a.OrderHandler.CreateOrder)
			mutations.DELETE("/:orderId", a.OrderHandler.CancelOrder)
			mutations.PATCH("/:orderId/position", a.OrderHandler.UpdatePosition)
			mutations.PATCH("/:orderId/complete", a.OrderHandler.CompleteOrder)
		}
	}

	// ── Admin Routes ──
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.Bulkhead(a.Config.Bulkhead.AdminPool))
	{
		adminGroup.GET("/orders", a.AdminHandler.ListOrders)
		adminGroup.GET("/drones", a.AdminHandler.ListDrones)
		adminGroup.PATCH("/drones/:id/status", a.AdminHandler.UpdateDroneStatus)
	}
}
