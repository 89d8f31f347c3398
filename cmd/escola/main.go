// Entry point for the escola service: alunos, professores and turmas
// persisted in MySQL.  The other services resolve their cross-service
// references against this one.
package main

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/edusched/school-services/internal/config"
	"github.com/edusched/school-services/internal/database"
	"github.com/edusched/school-services/internal/handler"
	"github.com/edusched/school-services/internal/logger"
	"github.com/edusched/school-services/internal/repository"
	"github.com/edusched/school-services/internal/router"
)

func main() {
	config.LoadEnvFile()
	cfg := config.LoadEscola()

	log := logger.New(cfg.Env)
	defer log.Sync()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	alunos := handler.NewAlunoHandler(repository.NewAlunoRepo(db))
	professores := handler.NewProfessorHandler(repository.NewProfessorRepo(db))
	turmas := handler.NewTurmaHandler(repository.NewTurmaRepo(db))

	rdb := config.NewRedisClient()

	e := echo.New()
	e.HideBanner = true
	router.RegisterEscola(e, alunos, professores, turmas, rdb)

	log.Info("escola service listening",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
		zap.String("database", cfg.DBName))

	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
