package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/edusched/school-services/internal/config"
	"github.com/edusched/school-services/internal/handler"
	"github.com/edusched/school-services/internal/middleware"
)

// RegisterAtividades mounts the atividades service routes, covering
// both the atividade CRUD surface and the nota sub-resource.
func RegisterAtividades(e *echo.Echo, h *handler.AtividadeHandler, rdb *redis.Client) {
	e.Use(middleware.Metrics("atividades"))
	e.Use(middleware.RateLimit(config.LoadRateLimitConfig(), rdb))

	e.GET("/health", handler.Health("atividades"))
	e.GET("/metrics", middleware.MetricsHandler())

	v1 := e.Group("/api/v1")
	v1.Use(middleware.ResponseCache(config.LoadCacheConfig(), rdb))

	v1.GET("/atividades", h.List)
	v1.POST("/atividades", h.Create)
	v1.GET("/atividades/:id", h.Get)
	v1.PUT("/atividades/:id", h.Update)
	v1.DELETE("/atividades/:id", h.Delete)

	v1.GET("/professores/:id/atividades", h.ListByProfessor)
	v1.GET("/turmas/:id/atividades", h.ListByTurma)

	v1.POST("/notas", h.CreateNota)
	v1.GET("/notas/:id", h.GetNota)
	v1.PUT("/notas/:id", h.UpdateNota)
	v1.DELETE("/notas/:id", h.DeleteNota)
	v1.GET("/atividades/:id/notas", h.NotasByAtividade)
	v1.GET("/alunos/:id/notas", h.NotasByAluno)
}
