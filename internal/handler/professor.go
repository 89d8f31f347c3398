package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/edusched/school-services/internal/model"
	"github.com/edusched/school-services/internal/repository"
)

// ProfessorHandler exposes teacher CRUD for the escola service.
type ProfessorHandler struct {
	Repo *repository.ProfessorRepo
}

// NewProfessorHandler constructs a ProfessorHandler.
func NewProfessorHandler(repo *repository.ProfessorRepo) *ProfessorHandler {
	if repo == nil {
		panic("nil repository passed to NewProfessorHandler")
	}
	return &ProfessorHandler{Repo: repo}
}

type createProfessorRequest struct {
	Nome        *string `json:"nome"`
	Idade       *int    `json:"idade"`
	Materia     *string `json:"materia"`
	Observacoes *string `json:"observacoes"`
}

// List handles GET /api/v1/professores.
func (h *ProfessorHandler) List(c echo.Context) error {
	professores, err := h.Repo.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, professores)
}

// Get handles GET /api/v1/professores/:id.
func (h *ProfessorHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid professor id"})
	}
	professor, err := h.Repo.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, professor)
}

// Create handles POST /api/v1/professores.
func (h *ProfessorHandler) Create(c echo.Context) error {
	var req createProfessorRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Nome == nil || strings.TrimSpace(*req.Nome) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nome is required"})
	}
	if req.Idade == nil || *req.Idade <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "idade is required and must be positive"})
	}
	if req.Materia == nil || strings.TrimSpace(*req.Materia) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "materia is required"})
	}
	professor := model.Professor{
		Nome:        strings.TrimSpace(*req.Nome),
		Idade:       *req.Idade,
		Materia:     strings.TrimSpace(*req.Materia),
		Observacoes: req.Observacoes,
	}
	if err := h.Repo.Create(c.Request().Context(), &professor); err != nil {
		return respondError(c, err)
	}
	created, err := h.Repo.GetByID(c.Request().Context(), professor.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// Update handles PUT /api/v1/professores/:id with a partial body.
func (h *ProfessorHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid professor id"})
	}
	var patch model.ProfessorPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	professor, err := h.Repo.Update(c.Request().Context(), id, patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, professor)
}

// Delete handles DELETE /api/v1/professores/:id.  Professors that still
// own turmas cannot be removed.
func (h *ProfessorHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid professor id"})
	}
	if err := h.Repo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrHasDependents) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "professor still owns turmas"})
		}
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "professor deleted"})
}
