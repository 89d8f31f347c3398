package repository

import (
	"sort"
	"sync"

	"github.com/edusched/school-services/internal/model"
)

// ReservaStore owns every reservation record in the process.  All state
// lives in memory and is lost on restart; that is a documented property
// of the reservas service, not an accident.  The store is the sole
// writer of its records and serializes every read and write behind one
// mutex so that the conflict check and the mutation it guards always
// execute as a unit.  Ids come from a monotonic counter and are never
// reused, even after a delete.
type ReservaStore struct {
	mu     sync.Mutex
	items  []*model.Reserva // insertion order, the order conflicts are reported in
	nextID int
}

// NewReservaStore returns an empty store.  The first record gets id 1.
func NewReservaStore() *ReservaStore {
	return &ReservaStore{nextID: 1}
}

// Insert assigns the next id, appends the record and returns the stored
// copy.  It performs no conflict checking; callers that need the
// check-then-insert unit must use InsertIfFree.
func (s *ReservaStore) Insert(r model.Reserva) model.Reserva {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(r)
}

func (s *ReservaStore) insertLocked(r model.Reserva) model.Reserva {
	r.ID = s.nextID
	s.nextID++
	if r.Status == "" {
		r.Status = model.ReservaAtiva
	}
	stored := r
	s.items = append(s.items, &stored)
	return stored
}

// FindByID returns the record with the given id or ErrNotFound.
func (s *ReservaStore) FindByID(id int) (model.Reserva, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.items {
		if r.ID == id {
			return *r, nil
		}
	}
	return model.Reserva{}, ErrNotFound
}

// FindAll returns every reservation ordered by date ascending.  The
// sort is stable, so records sharing a date keep their insertion order.
func (s *ReservaStore) FindAll() []model.Reserva {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortByDate(s.copyLocked(func(model.Reserva) bool { return true }))
}

// FindByTurma returns the reservations of one class, date ascending.
func (s *ReservaStore) FindByTurma(turmaID int) []model.Reserva {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortByDate(s.copyLocked(func(r model.Reserva) bool { return r.TurmaID == turmaID }))
}

// FindBySala returns the reservations of one room number, date
// ascending.  The lab flag is deliberately ignored: the listing is by
// room number as printed on the door.
func (s *ReservaStore) FindBySala(numSala int) []model.Reserva {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortByDate(s.copyLocked(func(r model.Reserva) bool { return r.NumSala == numSala }))
}

// Delete removes the record with the given id.  Hard delete, no
// tombstone; the id is never handed out again.
func (s *ReservaStore) Delete(id int) (model.Reserva, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.items {
		if r.ID == id {
			removed := *r
			s.items = append(s.items[:i], s.items[i+1:]...)
			return removed, nil
		}
	}
	return model.Reserva{}, ErrNotFound
}

// FindConflict scans the store in insertion order and returns the first
// reservation holding the same (num_sala, lab, data) triple, skipping
// the record whose id equals excludeID (pass 0 to exclude nothing).
// Only the first match is reported even when several exist.
func (s *ReservaStore) FindConflict(numSala int, lab bool, data string, excludeID int) (model.Reserva, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c := s.findConflictLocked(numSala, lab, data, excludeID); c != nil {
		return *c, true
	}
	return model.Reserva{}, false
}

func (s *ReservaStore) findConflictLocked(numSala int, lab bool, data string, excludeID int) *model.Reserva {
	for _, r := range s.items {
		if excludeID != 0 && r.ID == excludeID {
			continue
		}
		if r.NumSala == numSala && r.Lab == lab && r.Data == data {
			return r
		}
	}
	return nil
}

// InsertIfFree runs the conflict check and the insert under one lock
// acquisition.  Without this unit two concurrent creates for the same
// (num_sala, lab, data) could both pass the check and both insert.  On
// success the stored record is returned; on conflict the conflicting
// record is returned instead and the store is untouched.
func (s *ReservaStore) InsertIfFree(r model.Reserva) (model.Reserva, *model.Reserva) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c := s.findConflictLocked(r.NumSala, r.Lab, r.Data, 0); c != nil {
		conflict := *c
		return model.Reserva{}, &conflict
	}
	return s.insertLocked(r), nil
}

// UpdateIfFree applies a patch to the record with the given id,
// checking the effective post-update key against every other record
// first.  Lookup, conflict check and field application happen under one
// lock acquisition, so no partial write is ever observable and no
// concurrent update can slip a conflicting key in between.  The record
// itself is excluded from the check so that re-asserting its own
// current key never reports a false self-conflict.
func (s *ReservaStore) UpdateIfFree(id int, p model.ReservaPatch) (model.Reserva, *model.Reserva, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var target *model.Reserva
	for _, r := range s.items {
		if r.ID == id {
			target = r
			break
		}
	}
	if target == nil {
		return model.Reserva{}, nil, ErrNotFound
	}
	if p.TouchesKey() {
		numSala, lab, data := target.NumSala, target.Lab, target.Data
		if p.NumSala != nil {
			numSala = *p.NumSala
		}
		if p.Lab != nil {
			lab = *p.Lab
		}
		if p.Data != nil {
			data = *p.Data
		}
		if c := s.findConflictLocked(numSala, lab, data, id); c != nil {
			conflict := *c
			return model.Reserva{}, &conflict, nil
		}
	}
	if p.NumSala != nil {
		target.NumSala = *p.NumSala
	}
	if p.Lab != nil {
		target.Lab = *p.Lab
	}
	if p.Data != nil {
		target.Data = *p.Data
	}
	if p.TurmaID != nil {
		target.TurmaID = *p.TurmaID
	}
	return *target, nil, nil
}

// copyLocked snapshots matching records so callers never see the
// internal slice.
func (s *ReservaStore) copyLocked(match func(model.Reserva) bool) []model.Reserva {
	out := make([]model.Reserva, 0, len(s.items))
	for _, r := range s.items {
		if match(*r) {
			out = append(out, *r)
		}
	}
	return out
}

func sortByDate(rs []model.Reserva) []model.Reserva {
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].Data < rs[j].Data })
	return rs
}
