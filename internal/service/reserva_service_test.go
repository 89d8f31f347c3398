package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/edusched/school-services/internal/model"
	"github.com/edusched/school-services/internal/repository"
)

// fakeChecker answers existence checks from a fixed set and can
// simulate an unreachable escola service.
type fakeChecker struct {
	known       map[string]map[int]bool
	unreachable bool
	calls       int
}

func (f *fakeChecker) Exists(_ context.Context, kind string, id int) (bool, error) {
	f.calls++
	if f.unreachable {
		return false, fmt.Errorf("connection refused")
	}
	return f.known[kind][id], nil
}

type recordingEvents struct {
	created   []model.Reserva
	cancelled []model.Reserva
}

func (r *recordingEvents) ReservaCreated(_ context.Context, res model.Reserva) {
	r.created = append(r.created, res)
}

func (r *recordingEvents) ReservaCancelled(_ context.Context, res model.Reserva) {
	r.cancelled = append(r.cancelled, res)
}

func checkerWithTurmas(ids ...int) *fakeChecker {
	turmas := make(map[int]bool, len(ids))
	for _, id := range ids {
		turmas[id] = true
	}
	return &fakeChecker{known: map[string]map[int]bool{"turmas": turmas}}
}

// newReservaFixture builds a service with a frozen clock so that
// past-date and dias_para_reserva behavior is deterministic.
func newReservaFixture(refs *fakeChecker) (*ReservaService, *repository.ReservaStore, *recordingEvents) {
	store := repository.NewReservaStore()
	events := &recordingEvents{}
	svc := NewReservaService(store, refs, events, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2030, time.January, 10, 12, 0, 0, 0, time.UTC) }
	return svc, store, events
}

func in(numSala int, lab bool, data string, turmaID int) CreateReservaInput {
	return CreateReservaInput{NumSala: &numSala, Lab: &lab, Data: &data, TurmaID: &turmaID}
}

func TestReservaCreate(t *testing.T) {
	svc, _, events := newReservaFixture(checkerWithTurmas(1))

	view, err := svc.Create(context.Background(), in(101, false, "2030-01-15", 1))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if view.ID != 1 {
		t.Errorf("expected id 1, got %d", view.ID)
	}
	if view.Status != model.ReservaAtiva {
		t.Errorf("expected status %q, got %q", model.ReservaAtiva, view.Status)
	}
	if view.DiasParaReserva == nil || *view.DiasParaReserva != 5 {
		t.Errorf("expected dias_para_reserva 5, got %v", view.DiasParaReserva)
	}
	if len(events.created) != 1 {
		t.Errorf("expected one created event, got %d", len(events.created))
	}
}

func TestReservaCreateMissingFields(t *testing.T) {
	svc, _, _ := newReservaFixture(checkerWithTurmas(1))

	numSala, lab, data, turma := 101, false, "2030-01-15", 1
	cases := []struct {
		field string
		input CreateReservaInput
	}{
		{"num_sala", CreateReservaInput{Lab: &lab, Data: &data, TurmaID: &turma}},
		{"lab", CreateReservaInput{NumSala: &numSala, Data: &data, TurmaID: &turma}},
		{"data", CreateReservaInput{NumSala: &numSala, Lab: &lab, TurmaID: &turma}},
		{"turma_id", CreateReservaInput{NumSala: &numSala, Lab: &lab, Data: &data}},
	}
	for _, tc := range cases {
		_, err := svc.Create(context.Background(), tc.input)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%s: expected ValidationError, got %v", tc.field, err)
			continue
		}
		if verr.Field != tc.field {
			t.Errorf("expected error on field %q, got %q", tc.field, verr.Field)
		}
	}
}

func TestReservaCreateRejectsInvalidValues(t *testing.T) {
	svc, _, _ := newReservaFixture(checkerWithTurmas(1))
	ctx := context.Background()

	var verr *ValidationError
	if _, err := svc.Create(ctx, in(0, false, "2030-01-15", 1)); !errors.As(err, &verr) || verr.Field != "num_sala" {
		t.Errorf("zero num_sala: got %v", err)
	}
	if _, err := svc.Create(ctx, in(101, false, "15/01/2030", 1)); !errors.As(err, &verr) || verr.Field != "data" {
		t.Errorf("bad date format: got %v", err)
	}
	if _, err := svc.Create(ctx, in(101, false, "2030-01-09", 1)); !errors.As(err, &verr) || verr.Field != "data" {
		t.Errorf("past date: got %v", err)
	}
}

func TestReservaCreateAcceptsToday(t *testing.T) {
	svc, _, _ := newReservaFixture(checkerWithTurmas(1))
	view, err := svc.Create(context.Background(), in(101, false, "2030-01-10", 1))
	if err != nil {
		t.Fatalf("today must be accepted: %v", err)
	}
	if view.DiasParaReserva == nil || *view.DiasParaReserva != 0 {
		t.Errorf("expected dias_para_reserva 0, got %v", view.DiasParaReserva)
	}
}

func TestReservaCreateConflictNamesFirstHolder(t *testing.T) {
	svc, store, _ := newReservaFixture(checkerWithTurmas(1, 2))
	ctx := context.Background()

	held, err := svc.Create(ctx, in(101, false, "2030-01-15", 1))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err = svc.Create(ctx, in(101, false, "2030-01-15", 2))
	var cerr *ConflictError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if cerr.ID != held.ID {
		t.Errorf("conflict must name reservation %d, got %d", held.ID, cerr.ID)
	}
	if n := len(store.FindAll()); n != 1 {
		t.Errorf("rejected create must not change the store, got %d records", n)
	}

	// Same number as a lab room is a different physical room.
	if _, err := svc.Create(ctx, in(101, true, "2030-01-15", 2)); err != nil {
		t.Errorf("lab variant of the same number must be free: %v", err)
	}
}

func TestReservaCreateUnknownTurma(t *testing.T) {
	svc, store, events := newReservaFixture(checkerWithTurmas(1))

	_, err := svc.Create(context.Background(), in(101, false, "2030-01-15", 77))
	var rerr *ReferenceError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected ReferenceError, got %v", err)
	}
	if rerr.Kind != "turmas" || rerr.ID != 77 || rerr.Unreachable {
		t.Errorf("unexpected reference error: %+v", rerr)
	}
	if n := len(store.FindAll()); n != 0 {
		t.Errorf("store must stay empty, got %d records", n)
	}
	if len(events.created) != 0 {
		t.Error("no event may be published for a rejected create")
	}
}

func TestReservaCreateFailsClosedWhenEscolaUnreachable(t *testing.T) {
	refs := checkerWithTurmas(1)
	refs.unreachable = true
	svc, store, _ := newReservaFixture(refs)

	_, err := svc.Create(context.Background(), in(101, false, "2030-01-15", 1))
	var rerr *ReferenceError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected ReferenceError, got %v", err)
	}
	if !rerr.Unreachable {
		t.Error("error must be marked unreachable")
	}
	if n := len(store.FindAll()); n != 0 {
		t.Errorf("fail-closed create must not write, got %d records", n)
	}
}

func TestReservaUpdateMovesRoomAndFreesOldTriple(t *testing.T) {
	svc, _, _ := newReservaFixture(checkerWithTurmas(1, 2))
	ctx := context.Background()

	first, err := svc.Create(ctx, in(101, false, "2030-01-15", 1))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	newSala := 105
	moved, err := svc.Update(ctx, first.ID, model.ReservaPatch{NumSala: &newSala})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if moved.NumSala != 105 {
		t.Errorf("expected num_sala 105, got %d", moved.NumSala)
	}
	// The vacated triple is free for a new reservation.
	if _, err := svc.Create(ctx, in(101, false, "2030-01-15", 2)); err != nil {
		t.Errorf("old triple must be free after the move: %v", err)
	}
}

func TestReservaUpdateOrderOfFailures(t *testing.T) {
	svc, _, _ := newReservaFixture(checkerWithTurmas(1, 2))
	ctx := context.Background()

	a, _ := svc.Create(ctx, in(101, false, "2030-01-15", 1))
	b, _ := svc.Create(ctx, in(102, false, "2030-01-15", 2))

	// Unknown id beats everything else.
	sala := 101
	if _, err := svc.Update(ctx, 424242, model.ReservaPatch{NumSala: &sala}); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("unknown id: expected ErrNotFound, got %v", err)
	}

	// The conflict on the effective key is reported before the turma
	// reference is consulted: the patch both collides with a and names
	// an unknown turma.
	unknownTurma := 77
	_, err := svc.Update(ctx, b.ID, model.ReservaPatch{NumSala: &sala, TurmaID: &unknownTurma})
	var cerr *ConflictError
	if !errors.As(err, &cerr) || cerr.ID != a.ID {
		t.Errorf("expected conflict with %d before the turma check, got %v", a.ID, err)
	}

	// With no conflict a malformed date is rejected.
	free := 103
	badDate := "not-a-date"
	_, err = svc.Update(ctx, b.ID, model.ReservaPatch{NumSala: &free, Data: &badDate})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "data" {
		t.Errorf("expected data validation error, got %v", err)
	}
}

func TestReservaUpdateSelfKeyNoFalseConflict(t *testing.T) {
	svc, _, _ := newReservaFixture(checkerWithTurmas(1))
	ctx := context.Background()

	r, err := svc.Create(ctx, in(101, false, "2030-01-15", 1))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	sameSala := 101
	if _, err := svc.Update(ctx, r.ID, model.ReservaPatch{NumSala: &sameSala}); err != nil {
		t.Errorf("re-asserting the record's own key must not conflict: %v", err)
	}
}

func TestReservaUpdateChecksNewTurma(t *testing.T) {
	refs := checkerWithTurmas(1)
	svc, _, _ := newReservaFixture(refs)
	ctx := context.Background()

	r, err := svc.Create(ctx, in(101, false, "2030-01-15", 1))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	calls := refs.calls

	unknown := 77
	_, err = svc.Update(ctx, r.ID, model.ReservaPatch{TurmaID: &unknown})
	var rerr *ReferenceError
	if !errors.As(err, &rerr) || rerr.ID != 77 {
		t.Errorf("expected reference error for turma 77, got %v", err)
	}

	// A patch that leaves turma_id alone must not consult escola.
	sala := 108
	if _, err := svc.Update(ctx, r.ID, model.ReservaPatch{NumSala: &sala}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if refs.calls != calls+1 {
		t.Errorf("only the turma-changing patch may call escola, got %d extra calls", refs.calls-calls)
	}
}

func TestReservaDelete(t *testing.T) {
	svc, store, events := newReservaFixture(checkerWithTurmas(1))
	ctx := context.Background()

	r, err := svc.Create(ctx, in(101, false, "2030-01-15", 1))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, r.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.FindByID(r.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("record must be gone, got %v", err)
	}
	if len(events.cancelled) != 1 {
		t.Errorf("expected one cancelled event, got %d", len(events.cancelled))
	}

	if err := svc.Delete(ctx, 424242); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestReservaListingsSortedByDate(t *testing.T) {
	svc, _, _ := newReservaFixture(checkerWithTurmas(1))
	ctx := context.Background()

	svc.Create(ctx, in(101, false, "2030-03-01", 1))
	svc.Create(ctx, in(102, false, "2030-01-15", 1))

	all := svc.List()
	if len(all) != 2 || all[0].Data != "2030-01-15" || all[1].Data != "2030-03-01" {
		t.Errorf("expected date ascending order, got %+v", all)
	}

	byTurma := svc.ListByTurma(1)
	if len(byTurma) != 2 {
		t.Errorf("expected 2 reservations for turma 1, got %d", len(byTurma))
	}
	if got := svc.ListByTurma(9); len(got) != 0 {
		t.Errorf("unknown turma must yield an empty list, got %d", len(got))
	}
}

func TestReservaServiceWorksWithoutEvents(t *testing.T) {
	store := repository.NewReservaStore()
	svc := NewReservaService(store, checkerWithTurmas(1), nil, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2030, time.January, 10, 12, 0, 0, 0, time.UTC) }

	r, err := svc.Create(context.Background(), in(101, false, "2030-01-15", 1))
	if err != nil {
		t.Fatalf("create without events: %v", err)
	}
	if err := svc.Delete(context.Background(), r.ID); err != nil {
		t.Fatalf("delete without events: %v", err)
	}
}
