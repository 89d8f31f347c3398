package refcheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPCheckerExists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		switch r.URL.Path {
		case "/api/v1/turmas/1":
			w.WriteHeader(http.StatusOK)
		case "/api/v1/turmas/77":
			w.WriteHeader(http.StatusNotFound)
		case "/api/v1/professores/3":
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewHTTPChecker(srv.URL)
	ctx := context.Background()

	ok, err := c.Exists(ctx, KindTurma, 1)
	if err != nil || !ok {
		t.Errorf("turma 1: expected (true, nil), got (%v, %v)", ok, err)
	}
	ok, err = c.Exists(ctx, KindTurma, 77)
	if err != nil {
		t.Errorf("turma 77: a 404 answer is not a transport error, got %v", err)
	}
	if ok {
		t.Error("turma 77: 404 must report not existing")
	}
	ok, err = c.Exists(ctx, KindProfessor, 3)
	if err != nil || !ok {
		t.Errorf("professor 3: expected (true, nil), got (%v, %v)", ok, err)
	}
}

func TestHTTPCheckerServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ok, err := NewHTTPChecker(srv.URL).Exists(context.Background(), KindAluno, 1)
	if err != nil {
		t.Errorf("a 500 answer is not a transport error, got %v", err)
	}
	if ok {
		t.Error("a 500 answer must not count as existing")
	}
}

func TestHTTPCheckerUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening anymore

	ok, err := NewHTTPChecker(srv.URL).Exists(context.Background(), KindTurma, 1)
	if err == nil {
		t.Fatal("expected a transport error from a dead server")
	}
	if ok {
		t.Error("an unreachable server must not report existence")
	}
}

func TestHTTPCheckerHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewHTTPChecker(srv.URL).Exists(ctx, KindTurma, 1); err == nil {
		t.Error("expected an error from a cancelled context")
	}
}
