package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/edusched/school-services/internal/config"
	"github.com/edusched/school-services/internal/handler"
	"github.com/edusched/school-services/internal/middleware"
)

// RegisterEscola mounts the escola service routes: alunos, professores
// and turmas, plus the activation toggles on turmas.
func RegisterEscola(e *echo.Echo, alunos *handler.AlunoHandler, professores *handler.ProfessorHandler, turmas *handler.TurmaHandler, rdb *redis.Client) {
	e.Use(middleware.Metrics("escola"))
	e.Use(middleware.RateLimit(config.LoadRateLimitConfig(), rdb))

	e.GET("/health", handler.Health("escola"))
	e.GET("/metrics", middleware.MetricsHandler())

	v1 := e.Group("/api/v1")
	// The by-id lookups double as the existence checks the reservas and
	// atividades services poll; caching them would let a deleted record
	// pass a reference check for up to CACHE_TTL.
	v1.Use(middleware.ResponseCache(config.LoadCacheConfig(), rdb,
		"/api/v1/alunos/:id",
		"/api/v1/professores/:id",
		"/api/v1/turmas/:id",
	))

	v1.GET("/alunos", alunos.List)
	v1.POST("/alunos", alunos.Create)
	v1.GET("/alunos/:id", alunos.Get)
	v1.PUT("/alunos/:id", alunos.Update)
	v1.DELETE("/alunos/:id", alunos.Delete)

	v1.GET("/professores", professores.List)
	v1.POST("/professores", professores.Create)
	v1.GET("/professores/:id", professores.Get)
	v1.PUT("/professores/:id", professores.Update)
	v1.DELETE("/professores/:id", professores.Delete)

	v1.GET("/turmas", turmas.List)
	v1.POST("/turmas", turmas.Create)
	v1.GET("/turmas/:id", turmas.Get)
	v1.PUT("/turmas/:id", turmas.Update)
	v1.DELETE("/turmas/:id", turmas.Delete)
	v1.POST("/turmas/:id/ativar", turmas.Ativar)
	v1.POST("/turmas/:id/desativar", turmas.Desativar)
	v1.GET("/turmas/:id/alunos", alunos.ListByTurma)
}
