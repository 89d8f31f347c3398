package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/edusched/school-services/internal/repository"
	"github.com/edusched/school-services/internal/service"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", repository.ErrNotFound, http.StatusNotFound},
		{"duplicate", repository.ErrDuplicate, http.StatusBadRequest},
		{"has dependents", repository.ErrHasDependents, http.StatusBadRequest},
		// A request field naming a nonexistent record is the caller's
		// mistake, not a missing target: 400, never 404.
		{"invalid reference", repository.ErrInvalidReference, http.StatusBadRequest},
		{"validation", &service.ValidationError{Field: "data", Reason: "required"}, http.StatusBadRequest},
		{"conflict", &service.ConflictError{ID: 1, NumSala: 101, Data: "2030-01-01"}, http.StatusBadRequest},
		{"reference", &service.ReferenceError{Kind: "turmas", ID: 9}, http.StatusBadRequest},
		{"unknown", http.ErrBodyNotAllowed, http.StatusInternalServerError},
	}
	e := echo.New()
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if err := respondError(c, tc.err); err != nil {
			t.Fatalf("%s: respondError returned %v", tc.name, err)
		}
		if rec.Code != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.want, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "error") {
			t.Errorf("%s: body must carry an error key: %s", tc.name, rec.Body.String())
		}
	}
}
