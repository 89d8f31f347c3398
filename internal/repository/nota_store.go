package repository

import (
	"sort"
	"sync"

	"github.com/edusched/school-services/internal/model"
)

// NotaStore holds grades in memory.  A student may hold only one nota
// per atividade; InsertUnique enforces that under the store lock so the
// existence check and the insert cannot interleave with another create.
type NotaStore struct {
	mu     sync.Mutex
	items  []*model.Nota
	nextID int
}

// NewNotaStore returns an empty store.
func NewNotaStore() *NotaStore {
	return &NotaStore{nextID: 1}
}

// InsertUnique appends the nota unless one already exists for the same
// (aluno_id, atividade_id) pair, in which case ErrDuplicate is returned
// and the store is untouched.
func (s *NotaStore) InsertUnique(n model.Nota) (model.Nota, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.items {
		if existing.AlunoID == n.AlunoID && existing.AtividadeID == n.AtividadeID {
			return model.Nota{}, ErrDuplicate
		}
	}
	n.ID = s.nextID
	s.nextID++
	stored := n
	s.items = append(s.items, &stored)
	return stored, nil
}

// FindByID returns the nota with the given id or ErrNotFound.
func (s *NotaStore) FindByID(id int) (model.Nota, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.items {
		if n.ID == id {
			return *n, nil
		}
	}
	return model.Nota{}, ErrNotFound
}

// FindByAtividade returns the notas of one assignment, ordered by
// aluno_id ascending.
func (s *NotaStore) FindByAtividade(atividadeID int) []model.Nota {
	out := s.filter(func(n model.Nota) bool { return n.AtividadeID == atividadeID })
	sort.SliceStable(out, func(i, j int) bool { return out[i].AlunoID < out[j].AlunoID })
	return out
}

// FindByAluno returns the notas of one student, ordered by atividade_id
// ascending.
func (s *NotaStore) FindByAluno(alunoID int) []model.Nota {
	out := s.filter(func(n model.Nota) bool { return n.AlunoID == alunoID })
	sort.SliceStable(out, func(i, j int) bool { return out[i].AtividadeID < out[j].AtividadeID })
	return out
}

// UpdateScore overwrites the score of one nota.
func (s *NotaStore) UpdateScore(id int, score float64) (model.Nota, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.items {
		if n.ID == id {
			n.Nota = score
			return *n, nil
		}
	}
	return model.Nota{}, ErrNotFound
}

// Delete removes the nota with the given id.
func (s *NotaStore) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, n := range s.items {
		if n.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// DeleteByAtividade removes every nota of one assignment and reports
// how many were dropped.  Used when deleting an atividade cascades.
func (s *NotaStore) DeleteByAtividade(atividadeID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	removed := 0
	for _, n := range s.items {
		if n.AtividadeID == atividadeID {
			removed++
			continue
		}
		kept = append(kept, n)
	}
	s.items = kept
	return removed
}

func (s *NotaStore) filter(match func(model.Nota) bool) []model.Nota {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Nota, 0, len(s.items))
	for _, n := range s.items {
		if match(*n) {
			out = append(out, *n)
		}
	}
	return out
}
