package model

// Turma is a class owned by the escola service.  It references a local
// professor and is the entity the reservas and atividades services
// validate against before accepting writes.
//
// QuantidadeAlunos and AlunosAtivos are derived from the aluno table at
// read time and never stored.
type Turma struct {
	ID               int    `json:"id"`
	Descricao        string `json:"descricao"`
	ProfessorID      int    `json:"professor_id"`
	Ativo            bool   `json:"ativo"`
	QuantidadeAlunos int    `json:"quantidade_alunos"`
	AlunosAtivos     int    `json:"alunos_ativos"`
}

// TurmaPatch is the optional-field shape for partial updates.
type TurmaPatch struct {
	Descricao   *string `json:"descricao"`
	ProfessorID *int    `json:"professor_id"`
	Ativo       *bool   `json:"ativo"`
}
