package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/edusched/school-services/internal/model"
	"github.com/edusched/school-services/internal/refcheck"
	"github.com/edusched/school-services/internal/repository"
)

// ReservaEvents receives notifications after successful reservation
// mutations.  Implementations must be best-effort: a publish failure is
// the implementation's problem to log and swallow, never the request's.
type ReservaEvents interface {
	ReservaCreated(ctx context.Context, r model.Reserva)
	ReservaCancelled(ctx context.Context, r model.Reserva)
}

// CreateReservaInput carries the four required creation fields.
// Pointers distinguish absent fields from zero values so each missing
// field can be reported precisely.
type CreateReservaInput struct {
	NumSala *int    `json:"num_sala"`
	Lab     *bool   `json:"lab"`
	Data    *string `json:"data"`
	TurmaID *int    `json:"turma_id"`
}

// ReservaService orchestrates the reservation lifecycle: field and
// temporal validation, the remote turma existence check and the
// conflict-guarded store mutation, in that strict order.  The store
// serializes the conflict check with the mutation; the remote check
// deliberately happens outside any lock because it touches no shared
// state and may take up to refcheck.Timeout.
type ReservaService struct {
	store  *repository.ReservaStore
	refs   refcheck.Checker
	events ReservaEvents // nil disables event publishing
	log    *zap.Logger
	now    func() time.Time
}

// NewReservaService wires the service.  events may be nil.
func NewReservaService(store *repository.ReservaStore, refs refcheck.Checker, events ReservaEvents, log *zap.Logger) *ReservaService {
	return &ReservaService{
		store:  store,
		refs:   refs,
		events: events,
		log:    log,
		now:    time.Now,
	}
}

// List returns every reservation ordered by date.
func (s *ReservaService) List() []model.ReservaView {
	return s.views(s.store.FindAll())
}

// ListByTurma returns the reservations of one class, date order.
func (s *ReservaService) ListByTurma(turmaID int) []model.ReservaView {
	return s.views(s.store.FindByTurma(turmaID))
}

// ListBySala returns the reservations of one room, date order.
func (s *ReservaService) ListBySala(numSala int) []model.ReservaView {
	return s.views(s.store.FindBySala(numSala))
}

// Get returns one reservation or repository.ErrNotFound.
func (s *ReservaService) Get(id int) (model.ReservaView, error) {
	r, err := s.store.FindByID(id)
	if err != nil {
		return model.ReservaView{}, err
	}
	return r.View(s.now()), nil
}

// Create runs the creation protocol: required fields, date format,
// remote turma check, past-date rejection, then the conflict check and
// insert as one atomic store operation.  The cheapest checks run first
// and nothing is mutated before every check has passed.
func (s *ReservaService) Create(ctx context.Context, in CreateReservaInput) (model.ReservaView, error) {
	if in.NumSala == nil {
		return model.ReservaView{}, &ValidationError{Field: "num_sala", Reason: "required"}
	}
	if *in.NumSala <= 0 {
		return model.ReservaView{}, &ValidationError{Field: "num_sala", Reason: "must be positive"}
	}
	if in.Lab == nil {
		return model.ReservaView{}, &ValidationError{Field: "lab", Reason: "required"}
	}
	if in.Data == nil {
		return model.ReservaView{}, &ValidationError{Field: "data", Reason: "required"}
	}
	if in.TurmaID == nil {
		return model.ReservaView{}, &ValidationError{Field: "turma_id", Reason: "required"}
	}
	if *in.TurmaID <= 0 {
		return model.ReservaView{}, &ValidationError{Field: "turma_id", Reason: "must be positive"}
	}
	date, err := time.Parse(model.DateLayout, *in.Data)
	if err != nil {
		return model.ReservaView{}, &ValidationError{Field: "data", Reason: "use the YYYY-MM-DD format"}
	}
	if err := s.checkTurma(ctx, *in.TurmaID); err != nil {
		return model.ReservaView{}, err
	}
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return model.ReservaView{}, &ValidationError{Field: "data", Reason: "must not be in the past"}
	}
	stored, conflict := s.store.InsertIfFree(model.Reserva{
		NumSala: *in.NumSala,
		Lab:     *in.Lab,
		Data:    *in.Data,
		TurmaID: *in.TurmaID,
	})
	if conflict != nil {
		return model.ReservaView{}, conflictError(conflict)
	}
	s.log.Info("reservation created",
		zap.Int("id", stored.ID),
		zap.Int("num_sala", stored.NumSala),
		zap.Bool("lab", stored.Lab),
		zap.String("data", stored.Data),
		zap.Int("turma_id", stored.TurmaID))
	if s.events != nil {
		s.events.ReservaCreated(ctx, stored)
	}
	return stored.View(now), nil
}

// Update applies a partial update.  Order of failure: unknown id, then
// conflict on the effective key, then date validation, then the remote
// turma check.  Date and reference validation run before the store is
// touched; the conflict check and the field application then execute as
// one atomic store operation so no partial write is ever observable.
// Re-running the conflict check inside that unit keeps the invariant
// under concurrent updates, and the record's own id is excluded so
// re-asserting its current key never self-conflicts.
func (s *ReservaService) Update(ctx context.Context, id int, p model.ReservaPatch) (model.ReservaView, error) {
	current, err := s.store.FindByID(id)
	if err != nil {
		return model.ReservaView{}, err
	}
	if p.TouchesKey() {
		numSala, lab, data := current.NumSala, current.Lab, current.Data
		if p.NumSala != nil {
			numSala = *p.NumSala
		}
		if p.Lab != nil {
			lab = *p.Lab
		}
		if p.Data != nil {
			data = *p.Data
		}
		if c, found := s.store.FindConflict(numSala, lab, data, id); found {
			return model.ReservaView{}, conflictError(&c)
		}
	}
	if p.NumSala != nil && *p.NumSala <= 0 {
		return model.ReservaView{}, &ValidationError{Field: "num_sala", Reason: "must be positive"}
	}
	if p.Data != nil {
		date, err := time.Parse(model.DateLayout, *p.Data)
		if err != nil {
			return model.ReservaView{}, &ValidationError{Field: "data", Reason: "use the YYYY-MM-DD format"}
		}
		now := s.now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if date.Before(today) {
			return model.ReservaView{}, &ValidationError{Field: "data", Reason: "must not be in the past"}
		}
	}
	if p.TurmaID != nil {
		if *p.TurmaID <= 0 {
			return model.ReservaView{}, &ValidationError{Field: "turma_id", Reason: "must be positive"}
		}
		if err := s.checkTurma(ctx, *p.TurmaID); err != nil {
			return model.ReservaView{}, err
		}
	}
	updated, conflict, err := s.store.UpdateIfFree(id, p)
	if err != nil {
		return model.ReservaView{}, err
	}
	if conflict != nil {
		return model.ReservaView{}, conflictError(conflict)
	}
	s.log.Info("reservation updated", zap.Int("id", id))
	return updated.View(s.now()), nil
}

// Delete removes a reservation.  No cascading checks: reservations own
// no subordinate entities.
func (s *ReservaService) Delete(ctx context.Context, id int) error {
	removed, err := s.store.Delete(id)
	if err != nil {
		return err
	}
	s.log.Info("reservation deleted", zap.Int("id", id))
	if s.events != nil {
		s.events.ReservaCancelled(ctx, removed)
	}
	return nil
}

// checkTurma consults the escola service.  Any non-2xx answer and any
// transport failure both block the write; the ReferenceError keeps the
// distinction for logs.
func (s *ReservaService) checkTurma(ctx context.Context, turmaID int) error {
	ok, err := s.refs.Exists(ctx, refcheck.KindTurma, turmaID)
	if err != nil {
		s.log.Warn("turma check unreachable", zap.Int("turma_id", turmaID), zap.Error(err))
		return &ReferenceError{Kind: refcheck.KindTurma, ID: turmaID, Unreachable: true}
	}
	if !ok {
		return &ReferenceError{Kind: refcheck.KindTurma, ID: turmaID}
	}
	return nil
}

func (s *ReservaService) views(rs []model.Reserva) []model.ReservaView {
	now := s.now()
	out := make([]model.ReservaView, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.View(now))
	}
	return out
}

func conflictError(c *model.Reserva) *ConflictError {
	return &ConflictError{ID: c.ID, NumSala: c.NumSala, Lab: c.Lab, Data: c.Data}
}
