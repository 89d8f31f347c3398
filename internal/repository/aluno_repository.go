package repository

import (
	"context"
	"database/sql"

	"github.com/edusched/school-services/internal/model"
)

// AlunoRepo provides CRUD operations over the aluno table.  media_final
// is recomputed from the two semester grades on every insert and
// update; the column is never written with a client-supplied value.
type AlunoRepo struct {
	db *sql.DB
}

// NewAlunoRepo returns a new AlunoRepo bound to the given database.
func NewAlunoRepo(db *sql.DB) *AlunoRepo { return &AlunoRepo{db: db} }

const alunoCols = `id, nome, idade, turma_id, data_nascimento,
	nota_primeiro_semestre, nota_segundo_semestre, media_final, ativo`

func scanAluno(row interface{ Scan(...any) error }) (model.Aluno, error) {
	var a model.Aluno
	var nascimento sql.NullString
	err := row.Scan(&a.ID, &a.Nome, &a.Idade, &a.TurmaID, &nascimento,
		&a.NotaPrimeiroSemestre, &a.NotaSegundoSemestre, &a.MediaFinal, &a.Ativo)
	if err != nil {
		return model.Aluno{}, err
	}
	if nascimento.Valid {
		a.DataNascimento = &nascimento.String
	}
	return a, nil
}

// turmaExists reports whether a turma row with the id exists.
func (r *AlunoRepo) turmaExists(ctx context.Context, id int) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM turma WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Create inserts a new aluno after verifying its turma exists.
func (r *AlunoRepo) Create(ctx context.Context, a *model.Aluno) error {
	ok, err := r.turmaExists(ctx, a.TurmaID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidReference
	}
	a.MediaFinal = model.Media(a.NotaPrimeiroSemestre, a.NotaSegundoSemestre)
	const q = `INSERT INTO aluno (nome, idade, turma_id, data_nascimento,
		nota_primeiro_semestre, nota_segundo_semestre, media_final, ativo)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, a.Nome, a.Idade, a.TurmaID, a.DataNascimento,
		a.NotaPrimeiroSemestre, a.NotaSegundoSemestre, a.MediaFinal, a.Ativo)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = int(id)
	return nil
}

// GetByID returns one aluno or ErrNotFound.
func (r *AlunoRepo) GetByID(ctx context.Context, id int) (model.Aluno, error) {
	const q = `SELECT ` + alunoCols + ` FROM aluno WHERE id = ?`
	a, err := scanAluno(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return model.Aluno{}, ErrNotFound
	}
	return a, err
}

// List returns every aluno ordered by name.
func (r *AlunoRepo) List(ctx context.Context) ([]model.Aluno, error) {
	const q = `SELECT ` + alunoCols + ` FROM aluno ORDER BY nome`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Aluno, 0)
	for rows.Next() {
		a, err := scanAluno(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListByTurma returns the alunos of one turma ordered by name.
func (r *AlunoRepo) ListByTurma(ctx context.Context, turmaID int) ([]model.Aluno, error) {
	const q = `SELECT ` + alunoCols + ` FROM aluno WHERE turma_id = ? ORDER BY nome`
	rows, err := r.db.QueryContext(ctx, q, turmaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Aluno, 0)
	for rows.Next() {
		a, err := scanAluno(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Update applies the provided fields, re-verifying the turma when the
// patch moves the student, and recomputes media_final from the
// effective semester grades.
func (r *AlunoRepo) Update(ctx context.Context, id int, patch model.AlunoPatch) (model.Aluno, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Aluno{}, err
	}
	if patch.TurmaID != nil {
		ok, err := r.turmaExists(ctx, *patch.TurmaID)
		if err != nil {
			return model.Aluno{}, err
		}
		if !ok {
			return model.Aluno{}, ErrInvalidReference
		}
		current.TurmaID = *patch.TurmaID
	}
	if patch.Nome != nil {
		current.Nome = *patch.Nome
	}
	if patch.Idade != nil {
		current.Idade = *patch.Idade
	}
	if patch.DataNascimento != nil {
		current.DataNascimento = patch.DataNascimento
	}
	if patch.NotaPrimeiroSemestre != nil {
		current.NotaPrimeiroSemestre = *patch.NotaPrimeiroSemestre
	}
	if patch.NotaSegundoSemestre != nil {
		current.NotaSegundoSemestre = *patch.NotaSegundoSemestre
	}
	if patch.Ativo != nil {
		current.Ativo = *patch.Ativo
	}
	current.MediaFinal = model.Media(current.NotaPrimeiroSemestre, current.NotaSegundoSemestre)
	const q = `UPDATE aluno SET nome = ?, idade = ?, turma_id = ?, data_nascimento = ?,
		nota_primeiro_semestre = ?, nota_segundo_semestre = ?, media_final = ?, ativo = ?
		WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, current.Nome, current.Idade, current.TurmaID,
		current.DataNascimento, current.NotaPrimeiroSemestre, current.NotaSegundoSemestre,
		current.MediaFinal, current.Ativo, id); err != nil {
		return model.Aluno{}, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes an aluno.
func (r *AlunoRepo) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM aluno WHERE id = ?`, id)
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
