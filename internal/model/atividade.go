package model

import "time"

// Atividade status values.
const (
	AtividadePendente    = "pendente"
	AtividadeEmAndamento = "em_andamento"
	AtividadeConcluida   = "concluida"
)

// Atividade is a graded assignment owned by the atividades service.
// The referenced turma and professor live in the escola service and
// are validated remotely on create and on any update that touches them.
//
// Fields:
//  ID            – store-assigned identifier, monotonic, never reused.
//  NomeAtividade – assignment name, whitespace-trimmed on creation.
//  Descricao     – free-form description, trimmed on creation.
//  PesoPorcento  – weight of the assignment in the final grade, 1..100.
//  DataEntrega   – due date in DateLayout form.
//  TurmaID       – class the assignment belongs to (remote reference).
//  ProfessorID   – teacher who created it (remote reference).
//  Status        – one of the Atividade* constants, pendente by default.
type Atividade struct {
	ID            int    `json:"id"`
	NomeAtividade string `json:"nome_atividade"`
	Descricao     string `json:"descricao"`
	PesoPorcento  int    `json:"peso_porcento"`
	DataEntrega   string `json:"data_entrega"`
	TurmaID       int    `json:"turma_id"`
	ProfessorID   int    `json:"professor_id"`
	Status        string `json:"status"`
}

// AtividadeView adds the derived dias_para_entrega field.  Unlike a
// reservation's dias_para_reserva it is clamped at zero: an overdue
// assignment reports zero days remaining, never a negative count.
type AtividadeView struct {
	ID             int    `json:"id"`
	NomeAtividade  string `json:"nome_atividade"`
	Descricao      string `json:"descricao"`
	PesoPorcento   int    `json:"peso_porcento"`
	DataEntrega    string `json:"data_entrega"`
	TurmaID        int    `json:"turma_id"`
	ProfessorID    int    `json:"professor_id"`
	Status         string `json:"status"`
	DiasParaEntrega *int  `json:"dias_para_entrega"`
}

// AtividadePatch is the optional-field shape for partial updates.
type AtividadePatch struct {
	NomeAtividade *string `json:"nome_atividade"`
	Descricao     *string `json:"descricao"`
	PesoPorcento  *int    `json:"peso_porcento"`
	DataEntrega   *string `json:"data_entrega"`
	Status        *string `json:"status"`
	TurmaID       *int    `json:"turma_id"`
}

// View derives the wire representation at the given instant.
func (a Atividade) View(now time.Time) AtividadeView {
	v := AtividadeView{
		ID:            a.ID,
		NomeAtividade: a.NomeAtividade,
		Descricao:     a.Descricao,
		PesoPorcento:  a.PesoPorcento,
		DataEntrega:   a.DataEntrega,
		TurmaID:       a.TurmaID,
		ProfessorID:   a.ProfessorID,
		Status:        a.Status,
	}
	if days := DaysUntil(a.DataEntrega, now); days != nil {
		if *days < 0 {
			*days = 0
		}
		v.DiasParaEntrega = days
	}
	return v
}

// Atrasada reports whether the assignment is overdue: its due date has
// passed while the status is still pendente or em_andamento.
func (a Atividade) Atrasada(now time.Time) bool {
	days := DaysUntil(a.DataEntrega, now)
	if days == nil {
		return false
	}
	d, _ := time.Parse(DateLayout, a.DataEntrega)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !today.After(d) {
		return false
	}
	return a.Status == AtividadePendente || a.Status == AtividadeEmAndamento
}
