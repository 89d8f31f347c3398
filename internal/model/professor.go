package model

// Professor is a teacher record owned by the escola service.
// QuantidadeTurmas is derived from the turma table at read time.
type Professor struct {
	ID               int     `json:"id"`
	Nome             string  `json:"nome"`
	Idade            int     `json:"idade"`
	Materia          string  `json:"materia"`
	Observacoes      *string `json:"observacoes"`
	QuantidadeTurmas int     `json:"quantidade_turmas"`
}

// ProfessorPatch is the optional-field shape for partial updates.
type ProfessorPatch struct {
	Nome        *string `json:"nome"`
	Idade       *int    `json:"idade"`
	Materia     *string `json:"materia"`
	Observacoes *string `json:"observacoes"`
}
