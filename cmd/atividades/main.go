// Entry point for the atividades service: class activities and their
// notas, backed by in-memory stores and remote existence checks
// against the escola service.
package main

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/edusched/school-services/internal/config"
	"github.com/edusched/school-services/internal/handler"
	"github.com/edusched/school-services/internal/logger"
	"github.com/edusched/school-services/internal/refcheck"
	"github.com/edusched/school-services/internal/repository"
	"github.com/edusched/school-services/internal/router"
	"github.com/edusched/school-services/internal/service"
)

func main() {
	config.LoadEnvFile()
	cfg := config.LoadAtividades()

	log := logger.New(cfg.Env)
	defer log.Sync()

	atividades := repository.NewAtividadeStore()
	notas := repository.NewNotaStore()
	refs := refcheck.NewHTTPChecker(cfg.SchoolServiceURL)
	svc := service.NewAtividadeService(atividades, notas, refs, log)

	rdb := config.NewRedisClient()

	e := echo.New()
	e.HideBanner = true
	router.RegisterAtividades(e, handler.NewAtividadeHandler(svc), rdb)

	log.Info("atividades service listening",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
		zap.String("school_service", cfg.SchoolServiceURL))

	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
