package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/edusched/school-services/internal/model"
	"github.com/edusched/school-services/internal/service"
)

// ReservaHandler exposes the reservation REST surface.
type ReservaHandler struct {
	Service *service.ReservaService
}

// NewReservaHandler constructs a ReservaHandler.
func NewReservaHandler(svc *service.ReservaService) *ReservaHandler {
	if svc == nil {
		panic("nil service passed to NewReservaHandler")
	}
	return &ReservaHandler{Service: svc}
}

// List handles GET /api/v1/reservas.  Reservations come back ordered by
// date ascending with the derived dias_para_reserva field.
func (h *ReservaHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Service.List())
}

// Get handles GET /api/v1/reservas/:id.
func (h *ReservaHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	view, err := h.Service.Get(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// Create handles POST /api/v1/reservas.  All four fields are required;
// the service reports the first missing or malformed one.
func (h *ReservaHandler) Create(c echo.Context) error {
	var in service.CreateReservaInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	view, err := h.Service.Create(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, view)
}

// Update handles PUT /api/v1/reservas/:id with a partial body: absent
// fields keep their current values.
func (h *ReservaHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var patch model.ReservaPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	view, err := h.Service.Update(c.Request().Context(), id, patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// Delete handles DELETE /api/v1/reservas/:id and answers with a
// confirmation message on success.
func (h *ReservaHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	if err := h.Service.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "reservation deleted"})
}

// ListByTurma handles GET /api/v1/turmas/:turma_id/reservas.
func (h *ReservaHandler) ListByTurma(c echo.Context) error {
	turmaID, ok := pathID(c, "turma_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid turma id"})
	}
	return c.JSON(http.StatusOK, h.Service.ListByTurma(turmaID))
}

// ListBySala handles GET /api/v1/salas/:num_sala/reservas.
func (h *ReservaHandler) ListBySala(c echo.Context) error {
	numSala, ok := pathID(c, "num_sala")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room number"})
	}
	return c.JSON(http.StatusOK, h.Service.ListBySala(numSala))
}

// Home handles GET / with a short index of the service's endpoints.
func (h *ReservaHandler) Home(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Reservas service - room reservation management",
		"endpoints": echo.Map{
			"health":             "/health",
			"metrics":            "/metrics",
			"reservas":           "/api/v1/reservas",
			"reservas_por_turma": "/api/v1/turmas/{turma_id}/reservas",
			"reservas_por_sala":  "/api/v1/salas/{num_sala}/reservas",
		},
	})
}
