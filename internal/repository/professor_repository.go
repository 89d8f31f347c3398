package repository

import (
	"context"
	"database/sql"

	"github.com/edusched/school-services/internal/model"
)

// ProfessorRepo provides CRUD operations over the professor table for
// the escola service.  quantidade_turmas is derived with a correlated
// subquery so the wire shape never goes stale.
type ProfessorRepo struct {
	db *sql.DB
}

// NewProfessorRepo returns a new ProfessorRepo bound to the given database.
func NewProfessorRepo(db *sql.DB) *ProfessorRepo { return &ProfessorRepo{db: db} }

const professorCols = `p.id, p.nome, p.idade, p.materia, p.observacoes,
	(SELECT COUNT(*) FROM turma t WHERE t.professor_id = p.id)`

// Create inserts a new professor and returns the stored row.
func (r *ProfessorRepo) Create(ctx context.Context, p *model.Professor) error {
	const q = `INSERT INTO professor (nome, idade, materia, observacoes) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, p.Nome, p.Idade, p.Materia, p.Observacoes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = int(id)
	return nil
}

// GetByID returns one professor or ErrNotFound.
func (r *ProfessorRepo) GetByID(ctx context.Context, id int) (model.Professor, error) {
	const q = `SELECT ` + professorCols + ` FROM professor p WHERE p.id = ?`
	var p model.Professor
	var obs sql.NullString
	err := r.db.QueryRowContext(ctx, q, id).Scan(&p.ID, &p.Nome, &p.Idade, &p.Materia, &obs, &p.QuantidadeTurmas)
	if err == sql.ErrNoRows {
		return model.Professor{}, ErrNotFound
	}
	if err != nil {
		return model.Professor{}, err
	}
	if obs.Valid {
		p.Observacoes = &obs.String
	}
	return p, nil
}

// List returns every professor ordered by name.
func (r *ProfessorRepo) List(ctx context.Context) ([]model.Professor, error) {
	const q = `SELECT ` + professorCols + ` FROM professor p ORDER BY p.nome`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Professor, 0)
	for rows.Next() {
		var p model.Professor
		var obs sql.NullString
		if err := rows.Scan(&p.ID, &p.Nome, &p.Idade, &p.Materia, &obs, &p.QuantidadeTurmas); err != nil {
			return nil, err
		}
		if obs.Valid {
			p.Observacoes = &obs.String
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update applies the provided fields and returns the fresh row.
func (r *ProfessorRepo) Update(ctx context.Context, id int, patch model.ProfessorPatch) (model.Professor, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Professor{}, err
	}
	if patch.Nome != nil {
		current.Nome = *patch.Nome
	}
	if patch.Idade != nil {
		current.Idade = *patch.Idade
	}
	if patch.Materia != nil {
		current.Materia = *patch.Materia
	}
	if patch.Observacoes != nil {
		current.Observacoes = patch.Observacoes
	}
	const q = `UPDATE professor SET nome = ?, idade = ?, materia = ?, observacoes = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, current.Nome, current.Idade, current.Materia, current.Observacoes, id); err != nil {
		return model.Professor{}, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a professor.  Professors still owning turmas are
// protected by ErrHasDependents so turma references never dangle.
func (r *ProfessorRepo) Delete(ctx context.Context, id int) error {
	var turmas int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM turma WHERE professor_id = ?`, id).Scan(&turmas); err != nil {
		return err
	}
	if turmas > 0 {
		return ErrHasDependents
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM professor WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
