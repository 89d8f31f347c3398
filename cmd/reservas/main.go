// Entry point for the reservas service: room reservations with
// conflict detection, backed by an in-memory store and a remote turma
// existence check against the escola service.
package main

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/edusched/school-services/internal/config"
	"github.com/edusched/school-services/internal/handler"
	"github.com/edusched/school-services/internal/logger"
	"github.com/edusched/school-services/internal/queue"
	"github.com/edusched/school-services/internal/refcheck"
	"github.com/edusched/school-services/internal/repository"
	"github.com/edusched/school-services/internal/router"
	"github.com/edusched/school-services/internal/service"
)

func main() {
	config.LoadEnvFile()
	cfg := config.LoadReservas()

	log := logger.New(cfg.Env)
	defer log.Sync()

	store := repository.NewReservaStore()
	refs := refcheck.NewHTTPChecker(cfg.SchoolServiceURL)
	events := queue.NewPublisher(cfg.RabbitMQURL, log)
	svc := service.NewReservaService(store, refs, events, log)

	// The audit consumer tails reservation events in the background.
	// It retries its broker connection on its own, so a dead RabbitMQ
	// never blocks the HTTP server.
	go queue.StartAuditConsumer(cfg.RabbitMQURL, log)

	rdb := config.NewRedisClient()

	e := echo.New()
	e.HideBanner = true
	router.RegisterReservas(e, handler.NewReservaHandler(svc), rdb)

	log.Info("reservas service listening",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
		zap.String("school_service", cfg.SchoolServiceURL))

	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
