package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/edusched/school-services/internal/model"
	"github.com/edusched/school-services/internal/service"
)

// AtividadeHandler exposes the assignments and grades REST surface of
// the atividades service.
type AtividadeHandler struct {
	Service *service.AtividadeService
}

// NewAtividadeHandler constructs an AtividadeHandler.
func NewAtividadeHandler(svc *service.AtividadeService) *AtividadeHandler {
	if svc == nil {
		panic("nil service passed to NewAtividadeHandler")
	}
	return &AtividadeHandler{Service: svc}
}

// List handles GET /api/v1/atividades, due-date order.
func (h *AtividadeHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Service.List())
}

// Get handles GET /api/v1/atividades/:id.
func (h *AtividadeHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid atividade id"})
	}
	view, err := h.Service.Get(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// Create handles POST /api/v1/atividades.
func (h *AtividadeHandler) Create(c echo.Context) error {
	var in service.CreateAtividadeInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	view, err := h.Service.Create(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, view)
}

// Update handles PUT /api/v1/atividades/:id with a partial body.
func (h *AtividadeHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid atividade id"})
	}
	var patch model.AtividadePatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	view, err := h.Service.Update(c.Request().Context(), id, patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// Delete handles DELETE /api/v1/atividades/:id.  The assignment's notas
// are removed with it.
func (h *AtividadeHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid atividade id"})
	}
	if err := h.Service.Delete(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "atividade and related notas deleted"})
}

// ListByProfessor handles GET /api/v1/professores/:id/atividades.
func (h *AtividadeHandler) ListByProfessor(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid professor id"})
	}
	return c.JSON(http.StatusOK, h.Service.ListByProfessor(id))
}

// ListByTurma handles GET /api/v1/turmas/:id/atividades.
func (h *AtividadeHandler) ListByTurma(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid turma id"})
	}
	return c.JSON(http.StatusOK, h.Service.ListByTurma(id))
}

// CreateNota handles POST /api/v1/notas.
func (h *AtividadeHandler) CreateNota(c echo.Context) error {
	var in service.CreateNotaInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	nota, err := h.Service.CreateNota(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, nota)
}

// GetNota handles GET /api/v1/notas/:id.
func (h *AtividadeHandler) GetNota(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid nota id"})
	}
	nota, err := h.Service.GetNota(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, nota)
}

// UpdateNota handles PUT /api/v1/notas/:id.
func (h *AtividadeHandler) UpdateNota(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid nota id"})
	}
	var patch model.NotaPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	nota, err := h.Service.UpdateNota(id, patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, nota)
}

// DeleteNota handles DELETE /api/v1/notas/:id.
func (h *AtividadeHandler) DeleteNota(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid nota id"})
	}
	if err := h.Service.DeleteNota(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "nota deleted"})
}

// NotasByAtividade handles GET /api/v1/atividades/:id/notas.
func (h *AtividadeHandler) NotasByAtividade(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid atividade id"})
	}
	return c.JSON(http.StatusOK, h.Service.NotasByAtividade(id))
}

// NotasByAluno handles GET /api/v1/alunos/:id/notas.
func (h *AtividadeHandler) NotasByAluno(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid aluno id"})
	}
	return c.JSON(http.StatusOK, h.Service.NotasByAluno(id))
}
