package repository

import (
	"context"
	"database/sql"

	"github.com/edusched/school-services/internal/model"
)

// TurmaRepo provides CRUD operations over the turma table.  The student
// counters on the wire shape are derived with correlated subqueries.
// Creating or re-pointing a turma verifies the professor locally; the
// professor table lives in the same database, so no remote check is
// involved here.
type TurmaRepo struct {
	db *sql.DB
}

// NewTurmaRepo returns a new TurmaRepo bound to the given database.
func NewTurmaRepo(db *sql.DB) *TurmaRepo { return &TurmaRepo{db: db} }

const turmaCols = `t.id, t.descricao, t.professor_id, t.ativo,
	(SELECT COUNT(*) FROM aluno a WHERE a.turma_id = t.id),
	(SELECT COUNT(*) FROM aluno a WHERE a.turma_id = t.id AND a.ativo = TRUE)`

// professorExists reports whether a professor row with the id exists.
func (r *TurmaRepo) professorExists(ctx context.Context, id int) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM professor WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Create inserts a new turma after verifying its professor exists.
func (r *TurmaRepo) Create(ctx context.Context, t *model.Turma) error {
	ok, err := r.professorExists(ctx, t.ProfessorID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidReference
	}
	const q = `INSERT INTO turma (descricao, professor_id, ativo) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.Descricao, t.ProfessorID, t.Ativo)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = int(id)
	return nil
}

// GetByID returns one turma or ErrNotFound.
func (r *TurmaRepo) GetByID(ctx context.Context, id int) (model.Turma, error) {
	const q = `SELECT ` + turmaCols + ` FROM turma t WHERE t.id = ?`
	var t model.Turma
	err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.Descricao, &t.ProfessorID, &t.Ativo, &t.QuantidadeAlunos, &t.AlunosAtivos)
	if err == sql.ErrNoRows {
		return model.Turma{}, ErrNotFound
	}
	if err != nil {
		return model.Turma{}, err
	}
	return t, nil
}

// List returns turmas ordered by description.  When activeOnly is true
// only turmas with ativo = TRUE are included.
func (r *TurmaRepo) List(ctx context.Context, activeOnly bool) ([]model.Turma, error) {
	q := `SELECT ` + turmaCols + ` FROM turma t`
	if activeOnly {
		q += ` WHERE t.ativo = TRUE`
	}
	q += ` ORDER BY t.descricao`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Turma, 0)
	for rows.Next() {
		var t model.Turma
		if err := rows.Scan(&t.ID, &t.Descricao, &t.ProfessorID, &t.Ativo, &t.QuantidadeAlunos, &t.AlunosAtivos); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update applies the provided fields, re-verifying the professor when
// the patch moves the turma to a different one.
func (r *TurmaRepo) Update(ctx context.Context, id int, patch model.TurmaPatch) (model.Turma, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Turma{}, err
	}
	if patch.ProfessorID != nil {
		ok, err := r.professorExists(ctx, *patch.ProfessorID)
		if err != nil {
			return model.Turma{}, err
		}
		if !ok {
			return model.Turma{}, ErrInvalidReference
		}
		current.ProfessorID = *patch.ProfessorID
	}
	if patch.Descricao != nil {
		current.Descricao = *patch.Descricao
	}
	if patch.Ativo != nil {
		current.Ativo = *patch.Ativo
	}
	const q = `UPDATE turma SET descricao = ?, professor_id = ?, ativo = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, current.Descricao, current.ProfessorID, current.Ativo, id); err != nil {
		return model.Turma{}, err
	}
	return r.GetByID(ctx, id)
}

// SetAtivo toggles the soft-enrollment flag.
func (r *TurmaRepo) SetAtivo(ctx context.Context, id int, ativo bool) (model.Turma, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE turma SET ativo = ? WHERE id = ?`, ativo, id)
	if err != nil {
		return model.Turma{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Turma{}, err
	}
	if n == 0 {
		// RowsAffected is also zero when the flag already held the
		// requested value, so confirm absence before reporting it.
		if _, err := r.GetByID(ctx, id); err != nil {
			return model.Turma{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes a turma.  Physical deletion is blocked while alunos
// remain enrolled; callers should transfer them first or use SetAtivo
// for a logical removal.
func (r *TurmaRepo) Delete(ctx context.Context, id int) error {
	var alunos int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM aluno WHERE turma_id = ?`, id).Scan(&alunos); err != nil {
		return err
	}
	if alunos > 0 {
		return ErrHasDependents
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM turma WHERE id = ?`, id)
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
