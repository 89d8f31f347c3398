package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/edusched/school-services/internal/model"
	"github.com/edusched/school-services/internal/repository"
)

func escolaChecker() *fakeChecker {
	return &fakeChecker{known: map[string]map[int]bool{
		"turmas":      {1: true},
		"professores": {3: true},
		"alunos":      {5: true, 6: true},
	}}
}

func newAtividadeFixture(refs *fakeChecker) *AtividadeService {
	svc := NewAtividadeService(repository.NewAtividadeStore(), repository.NewNotaStore(), refs, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2030, time.January, 10, 12, 0, 0, 0, time.UTC) }
	return svc
}

func atividadeIn(nome string, peso int, data string, turma, professor int) CreateAtividadeInput {
	descricao := "entrega via portal"
	return CreateAtividadeInput{
		NomeAtividade: &nome,
		Descricao:     &descricao,
		PesoPorcento:  &peso,
		DataEntrega:   &data,
		TurmaID:       &turma,
		ProfessorID:   &professor,
	}
}

func notaIn(score float64, aluno, atividade int) CreateNotaInput {
	return CreateNotaInput{Nota: &score, AlunoID: &aluno, AtividadeID: &atividade}
}

func TestAtividadeCreate(t *testing.T) {
	svc := newAtividadeFixture(escolaChecker())

	view, err := svc.Create(context.Background(), atividadeIn("Trabalho 1", 30, "2030-01-20", 1, 3))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if view.ID != 1 {
		t.Errorf("expected id 1, got %d", view.ID)
	}
	if view.Status != model.AtividadePendente {
		t.Errorf("expected default status %q, got %q", model.AtividadePendente, view.Status)
	}
	if view.DiasParaEntrega == nil || *view.DiasParaEntrega != 10 {
		t.Errorf("expected dias_para_entrega 10, got %v", view.DiasParaEntrega)
	}
}

func TestAtividadeViewClampsOverdueDays(t *testing.T) {
	svc := newAtividadeFixture(escolaChecker())

	// Due dates are not restricted to the future; an already-overdue
	// assignment reports zero days, never a negative count.
	view, err := svc.Create(context.Background(), atividadeIn("Atrasada", 10, "2030-01-05", 1, 3))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if view.DiasParaEntrega == nil || *view.DiasParaEntrega != 0 {
		t.Errorf("overdue assignment must report 0 days, got %v", view.DiasParaEntrega)
	}
}

func TestAtividadeCreatePesoBounds(t *testing.T) {
	svc := newAtividadeFixture(escolaChecker())
	ctx := context.Background()

	var verr *ValidationError
	if _, err := svc.Create(ctx, atividadeIn("T", 0, "2030-01-20", 1, 3)); !errors.As(err, &verr) || verr.Field != "peso_porcento" {
		t.Errorf("peso 0: got %v", err)
	}
	if _, err := svc.Create(ctx, atividadeIn("T", 101, "2030-01-20", 1, 3)); !errors.As(err, &verr) || verr.Field != "peso_porcento" {
		t.Errorf("peso 101: got %v", err)
	}
	if _, err := svc.Create(ctx, atividadeIn("T", 1, "2030-01-20", 1, 3)); err != nil {
		t.Errorf("peso 1 must be accepted: %v", err)
	}
	if _, err := svc.Create(ctx, atividadeIn("T", 100, "2030-01-20", 1, 3)); err != nil {
		t.Errorf("peso 100 must be accepted: %v", err)
	}
}

func TestAtividadeCreateChecksBothReferences(t *testing.T) {
	svc := newAtividadeFixture(escolaChecker())
	ctx := context.Background()

	var rerr *ReferenceError
	if _, err := svc.Create(ctx, atividadeIn("T", 30, "2030-01-20", 9, 3)); !errors.As(err, &rerr) || rerr.Kind != "turmas" {
		t.Errorf("unknown turma: got %v", err)
	}
	if _, err := svc.Create(ctx, atividadeIn("T", 30, "2030-01-20", 1, 9)); !errors.As(err, &rerr) || rerr.Kind != "professores" {
		t.Errorf("unknown professor: got %v", err)
	}
}

func TestNotaCreateAndUniqueness(t *testing.T) {
	svc := newAtividadeFixture(escolaChecker())
	ctx := context.Background()

	a, err := svc.Create(ctx, atividadeIn("Trabalho 1", 30, "2030-01-20", 1, 3))
	if err != nil {
		t.Fatalf("create atividade: %v", err)
	}

	nota, err := svc.CreateNota(ctx, notaIn(8.5, 5, a.ID))
	if err != nil {
		t.Fatalf("create nota: %v", err)
	}
	if nota.Nota != 8.5 {
		t.Errorf("expected score 8.5, got %v", nota.Nota)
	}
	if nota.Conceito != model.ConceitoBom {
		t.Errorf("expected conceito %q, got %q", model.ConceitoBom, nota.Conceito)
	}

	// One grade per (aluno, atividade) pair.
	if _, err := svc.CreateNota(ctx, notaIn(7, 5, a.ID)); !errors.Is(err, repository.ErrDuplicate) {
		t.Errorf("duplicate pair: expected ErrDuplicate, got %v", err)
	}
	// A different student on the same assignment is fine.
	if _, err := svc.CreateNota(ctx, notaIn(7, 6, a.ID)); err != nil {
		t.Errorf("second student: %v", err)
	}
}

func TestNotaScoreBoundsIncludeZeroAndTen(t *testing.T) {
	svc := newAtividadeFixture(escolaChecker())
	ctx := context.Background()

	a, err := svc.Create(ctx, atividadeIn("Prova", 50, "2030-01-20", 1, 3))
	if err != nil {
		t.Fatalf("create atividade: %v", err)
	}

	// Zero is a provided grade, not a missing one.
	if _, err := svc.CreateNota(ctx, notaIn(0, 5, a.ID)); err != nil {
		t.Errorf("score 0 must be accepted: %v", err)
	}
	if _, err := svc.CreateNota(ctx, notaIn(10, 6, a.ID)); err != nil {
		t.Errorf("score 10 must be accepted: %v", err)
	}

	var verr *ValidationError
	if _, err := svc.CreateNota(ctx, notaIn(-0.5, 6, a.ID)); !errors.As(err, &verr) || verr.Field != "nota" {
		t.Errorf("score -0.5: got %v", err)
	}
	if _, err := svc.CreateNota(ctx, notaIn(10.5, 6, a.ID)); !errors.As(err, &verr) || verr.Field != "nota" {
		t.Errorf("score 10.5: got %v", err)
	}
}

func TestNotaRequiresLocalAtividadeAndRemoteAluno(t *testing.T) {
	svc := newAtividadeFixture(escolaChecker())
	ctx := context.Background()

	if _, err := svc.CreateNota(ctx, notaIn(8, 5, 424242)); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("unknown atividade: expected ErrNotFound, got %v", err)
	}

	a, err := svc.Create(ctx, atividadeIn("Prova", 50, "2030-01-20", 1, 3))
	if err != nil {
		t.Fatalf("create atividade: %v", err)
	}
	var rerr *ReferenceError
	if _, err := svc.CreateNota(ctx, notaIn(8, 99, a.ID)); !errors.As(err, &rerr) || rerr.Kind != "alunos" {
		t.Errorf("unknown aluno: got %v", err)
	}
}

func TestNotaUpdateScore(t *testing.T) {
	svc := newAtividadeFixture(escolaChecker())
	ctx := context.Background()

	a, _ := svc.Create(ctx, atividadeIn("Prova", 50, "2030-01-20", 1, 3))
	n, err := svc.CreateNota(ctx, notaIn(8, 5, a.ID))
	if err != nil {
		t.Fatalf("create nota: %v", err)
	}

	zero := 0.0
	updated, err := svc.UpdateNota(n.ID, model.NotaPatch{Nota: &zero})
	if err != nil {
		t.Fatalf("update to 0: %v", err)
	}
	if updated.Nota != 0 {
		t.Errorf("expected score 0, got %v", updated.Nota)
	}

	if _, err := svc.UpdateNota(n.ID, model.NotaPatch{}); err == nil {
		t.Error("a patch without nota must be rejected")
	}
}

func TestAtividadeDeleteCascadesNotas(t *testing.T) {
	svc := newAtividadeFixture(escolaChecker())
	ctx := context.Background()

	a, _ := svc.Create(ctx, atividadeIn("Prova", 50, "2030-01-20", 1, 3))
	other, _ := svc.Create(ctx, atividadeIn("Trabalho", 20, "2030-01-25", 1, 3))

	svc.CreateNota(ctx, notaIn(8, 5, a.ID))
	svc.CreateNota(ctx, notaIn(7, 6, a.ID))
	kept, err := svc.CreateNota(ctx, notaIn(9, 5, other.ID))
	if err != nil {
		t.Fatalf("create nota: %v", err)
	}

	if err := svc.Delete(a.ID); err != nil {
		t.Fatalf("delete atividade: %v", err)
	}
	if got := svc.NotasByAtividade(a.ID); len(got) != 0 {
		t.Errorf("notas of the deleted atividade must be gone, got %d", len(got))
	}
	// Grades of other assignments survive.
	if _, err := svc.GetNota(kept.ID); err != nil {
		t.Errorf("unrelated nota must survive the cascade: %v", err)
	}

	if err := svc.Delete(424242); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAtividadeFailsClosedWhenEscolaUnreachable(t *testing.T) {
	refs := escolaChecker()
	refs.unreachable = true
	svc := newAtividadeFixture(refs)

	_, err := svc.Create(context.Background(), atividadeIn("T", 30, "2030-01-20", 1, 3))
	var rerr *ReferenceError
	if !errors.As(err, &rerr) || !rerr.Unreachable {
		t.Errorf("expected unreachable reference error, got %v", err)
	}
	if got := svc.List(); len(got) != 0 {
		t.Errorf("fail-closed create must not write, got %d records", len(got))
	}
}
