package repository

import (
	"sort"
	"sync"

	"github.com/edusched/school-services/internal/model"
)

// AtividadeStore holds every assignment of the atividades service in
// memory behind one mutex, with the same monotonic-id contract as
// ReservaStore.
type AtividadeStore struct {
	mu     sync.Mutex
	items  []*model.Atividade
	nextID int
}

// NewAtividadeStore returns an empty store.
func NewAtividadeStore() *AtividadeStore {
	return &AtividadeStore{nextID: 1}
}

// Insert assigns the next id and appends the record.
func (s *AtividadeStore) Insert(a model.Atividade) model.Atividade {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.nextID
	s.nextID++
	if a.Status == "" {
		a.Status = model.AtividadePendente
	}
	stored := a
	s.items = append(s.items, &stored)
	return stored
}

// FindByID returns the record with the given id or ErrNotFound.
func (s *AtividadeStore) FindByID(id int) (model.Atividade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.items {
		if a.ID == id {
			return *a, nil
		}
	}
	return model.Atividade{}, ErrNotFound
}

// FindAll returns every assignment ordered by due date ascending,
// insertion order breaking ties.
func (s *AtividadeStore) FindAll() []model.Atividade {
	return s.filter(func(model.Atividade) bool { return true })
}

// FindByProfessor returns the assignments created by one teacher.
func (s *AtividadeStore) FindByProfessor(professorID int) []model.Atividade {
	return s.filter(func(a model.Atividade) bool { return a.ProfessorID == professorID })
}

// FindByTurma returns the assignments belonging to one class.
func (s *AtividadeStore) FindByTurma(turmaID int) []model.Atividade {
	return s.filter(func(a model.Atividade) bool { return a.TurmaID == turmaID })
}

// Update applies a patch in place.  No uniqueness key exists for
// assignments, so lookup and application under one lock acquisition is
// all the atomicity required.
func (s *AtividadeStore) Update(id int, p model.AtividadePatch) (model.Atividade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.items {
		if a.ID != id {
			continue
		}
		if p.NomeAtividade != nil {
			a.NomeAtividade = *p.NomeAtividade
		}
		if p.Descricao != nil {
			a.Descricao = *p.Descricao
		}
		if p.PesoPorcento != nil {
			a.PesoPorcento = *p.PesoPorcento
		}
		if p.DataEntrega != nil {
			a.DataEntrega = *p.DataEntrega
		}
		if p.Status != nil {
			a.Status = *p.Status
		}
		if p.TurmaID != nil {
			a.TurmaID = *p.TurmaID
		}
		return *a, nil
	}
	return model.Atividade{}, ErrNotFound
}

// Delete removes the assignment with the given id.
func (s *AtividadeStore) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.items {
		if a.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *AtividadeStore) filter(match func(model.Atividade) bool) []model.Atividade {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Atividade, 0, len(s.items))
	for _, a := range s.items {
		if match(*a) {
			out = append(out, *a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DataEntrega < out[j].DataEntrega })
	return out
}
