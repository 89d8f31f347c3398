package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/edusched/school-services/internal/model"
	"github.com/edusched/school-services/internal/repository"
)

// AlunoHandler exposes student CRUD for the escola service.
type AlunoHandler struct {
	Repo *repository.AlunoRepo
}

// NewAlunoHandler constructs an AlunoHandler.
func NewAlunoHandler(repo *repository.AlunoRepo) *AlunoHandler {
	if repo == nil {
		panic("nil repository passed to NewAlunoHandler")
	}
	return &AlunoHandler{Repo: repo}
}

type createAlunoRequest struct {
	Nome                 *string  `json:"nome"`
	Idade                *int     `json:"idade"`
	TurmaID              *int     `json:"turma_id"`
	DataNascimento       *string  `json:"data_nascimento"`
	NotaPrimeiroSemestre *float64 `json:"nota_primeiro_semestre"`
	NotaSegundoSemestre  *float64 `json:"nota_segundo_semestre"`
	Ativo                *bool    `json:"ativo"`
}

// validGrade accepts a nil pointer (defaults to zero) or a value within
// the 0..10 scale.  Zero is a legitimate provided grade.
func validGrade(g *float64) bool {
	return g == nil || (*g >= 0 && *g <= 10)
}

// List handles GET /api/v1/alunos.
func (h *AlunoHandler) List(c echo.Context) error {
	alunos, err := h.Repo.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, alunos)
}

// Get handles GET /api/v1/alunos/:id.
func (h *AlunoHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid aluno id"})
	}
	aluno, err := h.Repo.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, aluno)
}

// ListByTurma handles GET /api/v1/turmas/:id/alunos.
func (h *AlunoHandler) ListByTurma(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid turma id"})
	}
	alunos, err := h.Repo.ListByTurma(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, alunos)
}

// Create handles POST /api/v1/alunos.  media_final is computed by the
// repository, never taken from the request.
func (h *AlunoHandler) Create(c echo.Context) error {
	var req createAlunoRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Nome == nil || strings.TrimSpace(*req.Nome) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nome is required"})
	}
	if req.Idade == nil || *req.Idade <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "idade is required and must be positive"})
	}
	if req.TurmaID == nil || *req.TurmaID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "turma_id is required and must be positive"})
	}
	if req.DataNascimento != nil {
		if _, err := time.Parse(model.DateLayout, *req.DataNascimento); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "data_nascimento must use the YYYY-MM-DD format"})
		}
	}
	if !validGrade(req.NotaPrimeiroSemestre) || !validGrade(req.NotaSegundoSemestre) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "grades must be between 0 and 10"})
	}
	aluno := model.Aluno{
		Nome:           strings.TrimSpace(*req.Nome),
		Idade:          *req.Idade,
		TurmaID:        *req.TurmaID,
		DataNascimento: req.DataNascimento,
		Ativo:          true,
	}
	if req.NotaPrimeiroSemestre != nil {
		aluno.NotaPrimeiroSemestre = *req.NotaPrimeiroSemestre
	}
	if req.NotaSegundoSemestre != nil {
		aluno.NotaSegundoSemestre = *req.NotaSegundoSemestre
	}
	if req.Ativo != nil {
		aluno.Ativo = *req.Ativo
	}
	if err := h.Repo.Create(c.Request().Context(), &aluno); err != nil {
		if errors.Is(err, repository.ErrInvalidReference) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "turma not found"})
		}
		return respondError(c, err)
	}
	created, err := h.Repo.GetByID(c.Request().Context(), aluno.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// Update handles PUT /api/v1/alunos/:id with a partial body.
func (h *AlunoHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid aluno id"})
	}
	var patch model.AlunoPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if patch.DataNascimento != nil {
		if _, err := time.Parse(model.DateLayout, *patch.DataNascimento); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "data_nascimento must use the YYYY-MM-DD format"})
		}
	}
	if !validGrade(patch.NotaPrimeiroSemestre) || !validGrade(patch.NotaSegundoSemestre) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "grades must be between 0 and 10"})
	}
	aluno, err := h.Repo.Update(c.Request().Context(), id, patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, aluno)
}

// Delete handles DELETE /api/v1/alunos/:id.
func (h *AlunoHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid aluno id"})
	}
	if err := h.Repo.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "aluno deleted"})
}
