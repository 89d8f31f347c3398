package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/edusched/school-services/internal/model"
	"github.com/edusched/school-services/internal/repository"
)

// TurmaHandler exposes class CRUD for the escola service.  Its GET by
// id endpoint doubles as the existence check consumed by the reservas
// and atividades services.
type TurmaHandler struct {
	Repo *repository.TurmaRepo
}

// NewTurmaHandler constructs a TurmaHandler.
func NewTurmaHandler(repo *repository.TurmaRepo) *TurmaHandler {
	if repo == nil {
		panic("nil repository passed to NewTurmaHandler")
	}
	return &TurmaHandler{Repo: repo}
}

type createTurmaRequest struct {
	Descricao   *string `json:"descricao"`
	ProfessorID *int    `json:"professor_id"`
	Ativo       *bool   `json:"ativo"`
}

// List handles GET /api/v1/turmas; ?ativo=true filters to active ones.
func (h *TurmaHandler) List(c echo.Context) error {
	activeOnly := c.QueryParam("ativo") == "true"
	turmas, err := h.Repo.List(c.Request().Context(), activeOnly)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, turmas)
}

// Get handles GET /api/v1/turmas/:id.
func (h *TurmaHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid turma id"})
	}
	turma, err := h.Repo.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, turma)
}

// Create handles POST /api/v1/turmas.  The referenced professor must
// exist locally; unlike the remote checks of the other services this
// is an in-database lookup.
func (h *TurmaHandler) Create(c echo.Context) error {
	var req createTurmaRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Descricao == nil || strings.TrimSpace(*req.Descricao) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "descricao is required"})
	}
	if req.ProfessorID == nil || *req.ProfessorID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "professor_id is required and must be positive"})
	}
	turma := model.Turma{
		Descricao:   strings.TrimSpace(*req.Descricao),
		ProfessorID: *req.ProfessorID,
		Ativo:       true,
	}
	if req.Ativo != nil {
		turma.Ativo = *req.Ativo
	}
	if err := h.Repo.Create(c.Request().Context(), &turma); err != nil {
		if errors.Is(err, repository.ErrInvalidReference) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "professor not found"})
		}
		return respondError(c, err)
	}
	created, err := h.Repo.GetByID(c.Request().Context(), turma.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// Update handles PUT /api/v1/turmas/:id with a partial body.
func (h *TurmaHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid turma id"})
	}
	var patch model.TurmaPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if patch.Descricao != nil {
		trimmed := strings.TrimSpace(*patch.Descricao)
		if trimmed == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "descricao must not be empty"})
		}
		patch.Descricao = &trimmed
	}
	turma, err := h.Repo.Update(c.Request().Context(), id, patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, turma)
}

// Delete handles DELETE /api/v1/turmas/:id.  Physical deletion is
// refused while alunos remain enrolled.
func (h *TurmaHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid turma id"})
	}
	if err := h.Repo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrHasDependents) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "turma still has alunos enrolled; transfer them first"})
		}
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "turma deleted"})
}

// Ativar handles POST /api/v1/turmas/:id/ativar.
func (h *TurmaHandler) Ativar(c echo.Context) error {
	return h.setAtivo(c, true)
}

// Desativar handles POST /api/v1/turmas/:id/desativar, the logical
// alternative to deletion.
func (h *TurmaHandler) Desativar(c echo.Context) error {
	return h.setAtivo(c, false)
}

func (h *TurmaHandler) setAtivo(c echo.Context, ativo bool) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid turma id"})
	}
	turma, err := h.Repo.SetAtivo(c.Request().Context(), id, ativo)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, turma)
}
