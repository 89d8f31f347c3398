// Package handler defines the HTTP handlers of the three services.
// Handlers are thin: they parse path parameters, bind bodies, call the
// service or repository layer, and translate the returned error kind
// into a status code.  No error here is fatal to the process; every
// request fails independently.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/edusched/school-services/internal/repository"
	"github.com/edusched/school-services/internal/service"
)

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// respondError maps an error to its HTTP representation.  Validation,
// reference and conflict failures are all client errors; only unknown
// errors surface as 500.
func respondError(c echo.Context, err error) error {
	var (
		validation *service.ValidationError
		conflict   *service.ConflictError
		reference  *service.ReferenceError
	)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.As(err, &validation), errors.As(err, &conflict), errors.As(err, &reference):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrDuplicate):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "record already exists"})
	case errors.Is(err, repository.ErrInvalidReference):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "referenced record does not exist"})
	case errors.Is(err, repository.ErrHasDependents):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "record still has dependent entries"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// Health reports service liveness for load balancers and monitors.
func Health(serviceName string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "healthy", "service": serviceName})
	}
}
