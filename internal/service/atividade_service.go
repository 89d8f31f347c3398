package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/edusched/school-services/internal/model"
	"github.com/edusched/school-services/internal/refcheck"
	"github.com/edusched/school-services/internal/repository"
)

// CreateAtividadeInput carries the creation fields for an assignment.
type CreateAtividadeInput struct {
	NomeAtividade *string `json:"nome_atividade"`
	Descricao     *string `json:"descricao"`
	PesoPorcento  *int    `json:"peso_porcento"`
	DataEntrega   *string `json:"data_entrega"`
	TurmaID       *int    `json:"turma_id"`
	ProfessorID   *int    `json:"professor_id"`
	Status        *string `json:"status"`
}

// CreateNotaInput carries the creation fields for a grade.  Nota is a
// pointer so an explicit score of zero is a provided value, not an
// omission.
type CreateNotaInput struct {
	Nota        *float64 `json:"nota"`
	AlunoID     *int     `json:"aluno_id"`
	AtividadeID *int     `json:"atividade_id"`
}

// AtividadeService orchestrates assignments and their grades.  Turmas,
// professores and alunos are owned by the escola service and validated
// through the fail-closed refcheck contract; atividades referenced by
// notas are local and checked directly against the store.
type AtividadeService struct {
	atividades *repository.AtividadeStore
	notas      *repository.NotaStore
	refs       refcheck.Checker
	log        *zap.Logger
	now        func() time.Time
}

// NewAtividadeService wires the service.
func NewAtividadeService(atividades *repository.AtividadeStore, notas *repository.NotaStore, refs refcheck.Checker, log *zap.Logger) *AtividadeService {
	return &AtividadeService{
		atividades: atividades,
		notas:      notas,
		refs:       refs,
		log:        log,
		now:        time.Now,
	}
}

// List returns every assignment ordered by due date.
func (s *AtividadeService) List() []model.AtividadeView {
	return s.views(s.atividades.FindAll())
}

// ListByProfessor returns one teacher's assignments, due-date order.
func (s *AtividadeService) ListByProfessor(professorID int) []model.AtividadeView {
	return s.views(s.atividades.FindByProfessor(professorID))
}

// ListByTurma returns one class's assignments, due-date order.
func (s *AtividadeService) ListByTurma(turmaID int) []model.AtividadeView {
	return s.views(s.atividades.FindByTurma(turmaID))
}

// Get returns one assignment or repository.ErrNotFound.
func (s *AtividadeService) Get(id int) (model.AtividadeView, error) {
	a, err := s.atividades.FindByID(id)
	if err != nil {
		return model.AtividadeView{}, err
	}
	return a.View(s.now()), nil
}

// Create validates the fields, confirms turma and professor against the
// escola service and inserts.  Names and descriptions are trimmed on
// the way in.
func (s *AtividadeService) Create(ctx context.Context, in CreateAtividadeInput) (model.AtividadeView, error) {
	if in.NomeAtividade == nil || strings.TrimSpace(*in.NomeAtividade) == "" {
		return model.AtividadeView{}, &ValidationError{Field: "nome_atividade", Reason: "required"}
	}
	if in.Descricao == nil {
		return model.AtividadeView{}, &ValidationError{Field: "descricao", Reason: "required"}
	}
	if in.PesoPorcento == nil {
		return model.AtividadeView{}, &ValidationError{Field: "peso_porcento", Reason: "required"}
	}
	if *in.PesoPorcento < 1 || *in.PesoPorcento > 100 {
		return model.AtividadeView{}, &ValidationError{Field: "peso_porcento", Reason: "must be between 1 and 100"}
	}
	if in.DataEntrega == nil {
		return model.AtividadeView{}, &ValidationError{Field: "data_entrega", Reason: "required"}
	}
	if _, err := time.Parse(model.DateLayout, *in.DataEntrega); err != nil {
		return model.AtividadeView{}, &ValidationError{Field: "data_entrega", Reason: "use the YYYY-MM-DD format"}
	}
	if in.TurmaID == nil || *in.TurmaID <= 0 {
		return model.AtividadeView{}, &ValidationError{Field: "turma_id", Reason: "required and positive"}
	}
	if in.ProfessorID == nil || *in.ProfessorID <= 0 {
		return model.AtividadeView{}, &ValidationError{Field: "professor_id", Reason: "required and positive"}
	}
	if err := s.checkRef(ctx, refcheck.KindTurma, *in.TurmaID); err != nil {
		return model.AtividadeView{}, err
	}
	if err := s.checkRef(ctx, refcheck.KindProfessor, *in.ProfessorID); err != nil {
		return model.AtividadeView{}, err
	}
	status := model.AtividadePendente
	if in.Status != nil {
		status = *in.Status
	}
	stored := s.atividades.Insert(model.Atividade{
		NomeAtividade: strings.TrimSpace(*in.NomeAtividade),
		Descricao:     strings.TrimSpace(*in.Descricao),
		PesoPorcento:  *in.PesoPorcento,
		DataEntrega:   *in.DataEntrega,
		TurmaID:       *in.TurmaID,
		ProfessorID:   *in.ProfessorID,
		Status:        status,
	})
	s.log.Info("atividade created", zap.Int("id", stored.ID), zap.Int("turma_id", stored.TurmaID))
	return stored.View(s.now()), nil
}

// Update applies a partial update, re-validating whatever the patch
// touches before anything is written.
func (s *AtividadeService) Update(ctx context.Context, id int, p model.AtividadePatch) (model.AtividadeView, error) {
	if _, err := s.atividades.FindByID(id); err != nil {
		return model.AtividadeView{}, err
	}
	if p.PesoPorcento != nil && (*p.PesoPorcento < 1 || *p.PesoPorcento > 100) {
		return model.AtividadeView{}, &ValidationError{Field: "peso_porcento", Reason: "must be between 1 and 100"}
	}
	if p.DataEntrega != nil {
		if _, err := time.Parse(model.DateLayout, *p.DataEntrega); err != nil {
			return model.AtividadeView{}, &ValidationError{Field: "data_entrega", Reason: "use the YYYY-MM-DD format"}
		}
	}
	if p.TurmaID != nil {
		if *p.TurmaID <= 0 {
			return model.AtividadeView{}, &ValidationError{Field: "turma_id", Reason: "must be positive"}
		}
		if err := s.checkRef(ctx, refcheck.KindTurma, *p.TurmaID); err != nil {
			return model.AtividadeView{}, err
		}
	}
	updated, err := s.atividades.Update(id, p)
	if err != nil {
		return model.AtividadeView{}, err
	}
	return updated.View(s.now()), nil
}

// Delete removes an assignment and cascades deletion of its notas.
func (s *AtividadeService) Delete(id int) error {
	if err := s.atividades.Delete(id); err != nil {
		return err
	}
	dropped := s.notas.DeleteByAtividade(id)
	s.log.Info("atividade deleted", zap.Int("id", id), zap.Int("notas_dropped", dropped))
	return nil
}

// CreateNota validates the score range, confirms the atividade locally
// and the aluno remotely, and inserts under the uniqueness rule.
func (s *AtividadeService) CreateNota(ctx context.Context, in CreateNotaInput) (model.NotaView, error) {
	if in.Nota == nil {
		return model.NotaView{}, &ValidationError{Field: "nota", Reason: "required"}
	}
	if *in.Nota < 0 || *in.Nota > 10 {
		return model.NotaView{}, &ValidationError{Field: "nota", Reason: "must be between 0 and 10"}
	}
	if in.AlunoID == nil || *in.AlunoID <= 0 {
		return model.NotaView{}, &ValidationError{Field: "aluno_id", Reason: "required and positive"}
	}
	if in.AtividadeID == nil || *in.AtividadeID <= 0 {
		return model.NotaView{}, &ValidationError{Field: "atividade_id", Reason: "required and positive"}
	}
	if _, err := s.atividades.FindByID(*in.AtividadeID); err != nil {
		return model.NotaView{}, err
	}
	if err := s.checkRef(ctx, refcheck.KindAluno, *in.AlunoID); err != nil {
		return model.NotaView{}, err
	}
	stored, err := s.notas.InsertUnique(model.Nota{
		Nota:        *in.Nota,
		AlunoID:     *in.AlunoID,
		AtividadeID: *in.AtividadeID,
	})
	if err != nil {
		return model.NotaView{}, err
	}
	s.log.Info("nota created", zap.Int("id", stored.ID), zap.Int("aluno_id", stored.AlunoID))
	return stored.View(), nil
}

// GetNota returns one nota or repository.ErrNotFound.
func (s *AtividadeService) GetNota(id int) (model.NotaView, error) {
	n, err := s.notas.FindByID(id)
	if err != nil {
		return model.NotaView{}, err
	}
	return n.View(), nil
}

// NotasByAtividade lists the grades of one assignment.
func (s *AtividadeService) NotasByAtividade(atividadeID int) []model.NotaView {
	return notaViews(s.notas.FindByAtividade(atividadeID))
}

// NotasByAluno lists the grades of one student.
func (s *AtividadeService) NotasByAluno(alunoID int) []model.NotaView {
	return notaViews(s.notas.FindByAluno(alunoID))
}

// UpdateNota overwrites the score of one nota.  Zero is a legitimate
// score, so absence is detected through the pointer, never the value.
func (s *AtividadeService) UpdateNota(id int, p model.NotaPatch) (model.NotaView, error) {
	if p.Nota == nil {
		return model.NotaView{}, &ValidationError{Field: "nota", Reason: "required"}
	}
	if *p.Nota < 0 || *p.Nota > 10 {
		return model.NotaView{}, &ValidationError{Field: "nota", Reason: "must be between 0 and 10"}
	}
	updated, err := s.notas.UpdateScore(id, *p.Nota)
	if err != nil {
		return model.NotaView{}, err
	}
	return updated.View(), nil
}

// DeleteNota removes one nota.
func (s *AtividadeService) DeleteNota(id int) error {
	return s.notas.Delete(id)
}

func (s *AtividadeService) checkRef(ctx context.Context, kind string, id int) error {
	ok, err := s.refs.Exists(ctx, kind, id)
	if err != nil {
		s.log.Warn("reference check unreachable", zap.String("kind", kind), zap.Int("id", id), zap.Error(err))
		return &ReferenceError{Kind: kind, ID: id, Unreachable: true}
	}
	if !ok {
		return &ReferenceError{Kind: kind, ID: id}
	}
	return nil
}

func notaViews(ns []model.Nota) []model.NotaView {
	out := make([]model.NotaView, 0, len(ns))
	for _, n := range ns {
		out = append(out, n.View())
	}
	return out
}

func (s *AtividadeService) views(as []model.Atividade) []model.AtividadeView {
	now := s.now()
	out := make([]model.AtividadeView, 0, len(as))
	for _, a := range as {
		out = append(out, a.View(now))
	}
	return out
}
