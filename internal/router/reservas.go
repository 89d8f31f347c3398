// Package router wires HTTP routes for each service onto an Echo
// instance.  One registration function per service keeps the binaries
// thin: a main builds its handlers and hands them to the matching
// Register* function here.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/edusched/school-services/internal/config"
	"github.com/edusched/school-services/internal/handler"
	"github.com/edusched/school-services/internal/middleware"
)

// RegisterReservas mounts the reservas service routes.  The response
// cache and rate limiter degrade to pass-through middleware when the
// Redis client is nil, so the service runs fine without Redis.
func RegisterReservas(e *echo.Echo, h *handler.ReservaHandler, rdb *redis.Client) {
	e.Use(middleware.Metrics("reservas"))
	e.Use(middleware.RateLimit(config.LoadRateLimitConfig(), rdb))

	e.GET("/", h.Home)
	e.GET("/health", handler.Health("reservas"))
	e.GET("/metrics", middleware.MetricsHandler())

	v1 := e.Group("/api/v1")
	v1.Use(middleware.ResponseCache(config.LoadCacheConfig(), rdb))

	v1.GET("/reservas", h.List)
	v1.POST("/reservas", h.Create)
	v1.GET("/reservas/:id", h.Get)
	v1.PUT("/reservas/:id", h.Update)
	v1.DELETE("/reservas/:id", h.Delete)

	// Filtered listings mirror the lookup paths other services use.
	v1.GET("/turmas/:turma_id/reservas", h.ListByTurma)
	v1.GET("/salas/:num_sala/reservas", h.ListBySala)
}
