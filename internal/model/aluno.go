package model

// Aluno is a student enrolled in a turma.  The record is owned by the
// escola service and persisted in MySQL.
//
// Fields:
//  ID                   – aluno.id
//  Nome                 – aluno.nome
//  Idade                – aluno.idade
//  TurmaID              – aluno.turma_id, must reference an existing turma.
//  DataNascimento       – aluno.data_nascimento (nullable, DateLayout form).
//  NotaPrimeiroSemestre – first-semester grade, 0..10.
//  NotaSegundoSemestre  – second-semester grade, 0..10.
//  MediaFinal           – mean of the two semester grades; recomputed by
//                         the repository on every insert and update, never
//                         accepted from the client.
//  Ativo                – soft-enrollment flag.
type Aluno struct {
	ID                   int     `json:"id"`
	Nome                 string  `json:"nome"`
	Idade                int     `json:"idade"`
	TurmaID              int     `json:"turma_id"`
	DataNascimento       *string `json:"data_nascimento"`
	NotaPrimeiroSemestre float64 `json:"nota_primeiro_semestre"`
	NotaSegundoSemestre  float64 `json:"nota_segundo_semestre"`
	MediaFinal           float64 `json:"media_final"`
	Ativo                bool    `json:"ativo"`
}

// AlunoPatch is the optional-field shape for partial updates.  Grade
// fields are pointers so that an explicit 0.0 counts as provided.
type AlunoPatch struct {
	Nome                 *string  `json:"nome"`
	Idade                *int     `json:"idade"`
	TurmaID              *int     `json:"turma_id"`
	DataNascimento       *string  `json:"data_nascimento"`
	NotaPrimeiroSemestre *float64 `json:"nota_primeiro_semestre"`
	NotaSegundoSemestre  *float64 `json:"nota_segundo_semestre"`
	Ativo                *bool    `json:"ativo"`
}

// Media returns the mean of the two semester grades.
func Media(primeiro, segundo float64) float64 {
	return (primeiro + segundo) / 2
}
