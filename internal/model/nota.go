package model

// Nota is a grade awarded to a student for one assignment.  Scores are
// clamped to [0, 10] and a student can hold at most one nota per
// atividade.  The aluno is owned by the escola service; the atividade
// is local to the atividades service.
type Nota struct {
	ID          int     `json:"id"`
	Nota        float64 `json:"nota"`
	AlunoID     int     `json:"aluno_id"`
	AtividadeID int     `json:"atividade_id"`
}

// NotaPatch allows updating the score only.  A pointer is used so that
// an explicit score of zero is never mistaken for an omitted field.
type NotaPatch struct {
	Nota *float64 `json:"nota"`
}

// Conceito bands.  The boundaries are inclusive on the lower edge: a
// 9.0 is Excelente, a 7.0 is Bom, a 5.0 is Regular.
const (
	ConceitoExcelente    = "Excelente"
	ConceitoBom          = "Bom"
	ConceitoRegular      = "Regular"
	ConceitoInsuficiente = "Insuficiente"
)

// NotaView is the wire representation of a grade.  conceito is derived
// from the score on every read and never stored.
type NotaView struct {
	ID          int     `json:"id"`
	Nota        float64 `json:"nota"`
	AlunoID     int     `json:"aluno_id"`
	AtividadeID int     `json:"atividade_id"`
	Conceito    string  `json:"conceito"`
}

// Conceito maps the score to its qualitative band.
func (n Nota) Conceito() string {
	switch {
	case n.Nota >= 9:
		return ConceitoExcelente
	case n.Nota >= 7:
		return ConceitoBom
	case n.Nota >= 5:
		return ConceitoRegular
	default:
		return ConceitoInsuficiente
	}
}

// View derives the wire representation.
func (n Nota) View() NotaView {
	return NotaView{
		ID:          n.ID,
		Nota:        n.Nota,
		AlunoID:     n.AlunoID,
		AtividadeID: n.AtividadeID,
		Conceito:    n.Conceito(),
	}
}
