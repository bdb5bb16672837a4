package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tfd-service/internal/audit"
	"tfd-service/internal/model"
	"tfd-service/internal/repository"
)

// descricaoAbertura is the fixed note of the opening history entry.
const descricaoAbertura = "Processo criado e encaminhado para regulação."

type ProcessoService struct {
	usuarioRepo  *repository.UsuarioRepository
	processoRepo *repository.ProcessoRepository
	cadastroRepo *repository.CadastroRepository
	recorder     *audit.Recorder
}

func NewProcessoService(
	usuarioRepo *repository.UsuarioRepository,
	processoRepo *repository.ProcessoRepository,
	cadastroRepo *repository.CadastroRepository,
	recorder *audit.Recorder,
) *ProcessoService {
	return &ProcessoService{
		usuarioRepo:  usuarioRepo,
		processoRepo: processoRepo,
		cadastroRepo: cadastroRepo,
		recorder:     recorder,
	}
}

type ListProcessosOptions struct {
	Statuses      []model.StatusProcesso
	Prioridade    *int
	UnidadeID     *uuid.UUID
	Especialidade string
	Search        string
	Limit         int
	Offset        int
}

type ProcessoPage struct {
	Total int64               `json:"total"`
	Items []model.ProcessoTFD `json:"items"`
}

func (s *ProcessoService) List(ctx context.Context, principal model.Principal, opts ListProcessosOptions) (*ProcessoPage, error) {
	filter := repository.ProcessoFilter{
		Statuses:      opts.Statuses,
		Prioridade:    opts.Prioridade,
		UnidadeID:     opts.UnidadeID,
		Especialidade: opts.Especialidade,
		Search:        opts.Search,
		Limit:         opts.Limit,
		Offset:        opts.Offset,
	}

	// UBS users only see cases opened by their own unit.
	unidadeID, err := s.usuarioRepo.ResolveUnidade(ctx, principal)
	if err != nil {
		return nil, err
	}
	if unidadeID != nil {
		filter.UnidadeID = unidadeID
	}

	processos, total, err := s.processoRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ProcessoPage{Total: total, Items: processos}, nil
}

func (s *ProcessoService) Get(ctx context.Context, id uuid.UUID) (*model.ProcessoTFD, error) {
	processo, err := s.processoRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return processo, nil
}

// Fila renders the waiting queue of one specialty: open cases, emergencies
// first, oldest request first within a tier. Position is derived from order.
func (s *ProcessoService) Fila(ctx context.Context, especialidade string) ([]model.FilaItem, error) {
	especialidade = strings.TrimSpace(especialidade)
	if especialidade == "" {
		return nil, fmt.Errorf("%w: especialidade is required", ErrInvalidInput)
	}
	processos, err := s.processoRepo.Fila(ctx, especialidade)
	if err != nil {
		return nil, err
	}
	fila := make([]model.FilaItem, 0, len(processos))
	for i, processo := range processos {
		fila = append(fila, model.FilaItem{Posicao: i + 1, Processo: processo})
	}
	return fila, nil
}

func (s *ProcessoService) Especialidades(ctx context.Context) ([]string, error) {
	return s.processoRepo.Especialidades(ctx)
}

func (s *ProcessoService) Dashboard(ctx context.Context, principal model.Principal) (*model.Dashboard, error) {
	unidadeID, err := s.usuarioRepo.ResolveUnidade(ctx, principal)
	if err != nil {
		return nil, err
	}

	counts, err := s.processoRepo.CountByStatus(ctx, unidadeID)
	if err != nil {
		return nil, err
	}
	stats := model.DashboardStats{
		Pendentes:  counts[model.StatusPendente],
		EmAnalise:  counts[model.StatusEmAnalise],
		Aprovados:  counts[model.StatusAprovado],
		Negados:    counts[model.StatusNegado],
		Agendados:  counts[model.StatusAgendado],
		Concluidos: counts[model.StatusConcluido],
		Cancelados: counts[model.StatusCancelado],
	}
	for _, total := range counts {
		stats.Total += total
	}

	recentes, err := s.processoRepo.Recentes(ctx, unidadeID, 10)
	if err != nil {
		return nil, err
	}
	return &model.Dashboard{Stats: stats, Recentes: recentes}, nil
}

type CreateProcessoInput struct {
	PacienteID        uuid.UUID
	UnidadeOrigemID   uuid.UUID
	Especialidade     string
	CID               string
	DescricaoClinica  string
	MedicoSolicitante string
	CRMMedico         string
	DataConsulta      *time.Time
	CidadeDestino     string
	UFDestino         string
	HospitalDestino   string
	MedicoDestino     string
	TipoTransporte    model.TipoTransporte
	Acompanhante      bool
	NomeAcompanhante  string
	CPFAcompanhante   string
	Prioridade        int
	Observacoes       string
}

func (in *CreateProcessoInput) validate() error {
	in.Especialidade = strings.TrimSpace(in.Especialidade)
	in.CID = strings.TrimSpace(in.CID)
	in.DescricaoClinica = strings.TrimSpace(in.DescricaoClinica)
	in.MedicoSolicitante = strings.TrimSpace(in.MedicoSolicitante)
	in.CidadeDestino = strings.TrimSpace(in.CidadeDestino)
	in.UFDestino = strings.ToUpper(strings.TrimSpace(in.UFDestino))

	switch {
	case len(in.Especialidade) < 3:
		return fmt.Errorf("%w: especialidade must have at least 3 characters", ErrInvalidInput)
	case len(in.CID) < 3:
		return fmt.Errorf("%w: cid must have at least 3 characters", ErrInvalidInput)
	case len(in.DescricaoClinica) < 10:
		return fmt.Errorf("%w: descricao_clinica must have at least 10 characters", ErrInvalidInput)
	case len(in.MedicoSolicitante) < 3:
		return fmt.Errorf("%w: medico_solicitante must have at least 3 characters", ErrInvalidInput)
	case len(in.CidadeDestino) < 2:
		return fmt.Errorf("%w: cidade_destino must have at least 2 characters", ErrInvalidInput)
	case len(in.UFDestino) != 2:
		return fmt.Errorf("%w: uf_destino must have exactly 2 characters", ErrInvalidInput)
	case !in.TipoTransporte.Valid():
		return fmt.Errorf("%w: unknown tipo_transporte", ErrInvalidInput)
	}
	if in.Prioridade == 0 {
		in.Prioridade = model.PrioridadeNormal
	}
	if in.Prioridade < model.PrioridadeNormal || in.Prioridade > model.PrioridadeEmergencia {
		return fmt.Errorf("%w: prioridade must be between 1 and 3", ErrInvalidInput)
	}
	return nil
}

// Create opens a new processo in PENDENTE with a fresh year-scoped case
// number and the opening history entry, all in one transaction.
func (s *ProcessoService) Create(ctx context.Context, principal model.Principal, input CreateProcessoInput) (*model.ProcessoTFD, error) {
	if !principal.CanCreateProcesso() {
		return nil, ErrPermissionDenied
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	if _, err := s.cadastroRepo.GetPaciente(ctx, input.PacienteID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: paciente", ErrNotFound)
		}
		return nil, err
	}
	if _, err := s.cadastroRepo.GetUnidade(ctx, input.UnidadeOrigemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: unidade", ErrNotFound)
		}
		return nil, err
	}

	processo := &model.ProcessoTFD{
		PacienteID:        input.PacienteID,
		UnidadeOrigemID:   input.UnidadeOrigemID,
		Especialidade:     input.Especialidade,
		CID:               input.CID,
		DescricaoClinica:  input.DescricaoClinica,
		MedicoSolicitante: input.MedicoSolicitante,
		CRMMedico:         input.CRMMedico,
		DataConsulta:      input.DataConsulta,
		CidadeDestino:     input.CidadeDestino,
		UFDestino:         input.UFDestino,
		HospitalDestino:   input.HospitalDestino,
		MedicoDestino:     input.MedicoDestino,
		TipoTransporte:    input.TipoTransporte,
		Acompanhante:      input.Acompanhante,
		NomeAcompanhante:  input.NomeAcompanhante,
		CPFAcompanhante:   soDigitos(input.CPFAcompanhante),
		Prioridade:        input.Prioridade,
		Status:            model.StatusPendente,
		Observacoes:       input.Observacoes,
		AbertoPorID:       principal.UserID,
	}
	historico := &model.HistoricoProcesso{
		UsuarioID:  principal.UserID,
		StatusNovo: model.StatusPendente,
		Descricao:  descricaoAbertura,
	}

	if err := s.processoRepo.Create(ctx, processo, historico); err != nil {
		return nil, err
	}

	s.recorder.Record(audit.Entry{
		UsuarioID:  &principal.UserID,
		Acao:       model.AcaoCreate,
		Entidade:   "PROCESSO",
		EntidadeID: &processo.ID,
		Detalhes:   fmt.Sprintf("Processo %s criado.", processo.Numero),
	})

	return s.processoRepo.GetByID(ctx, processo.ID)
}

type TransitionInput struct {
	StatusNovo       model.StatusProcesso
	Descricao        string
	DataAgendada     *time.Time
	LocalAtendimento string
	MotivoNegativa   string
}

// Transition moves a processo to a new status. Legality is checked against
// the freshly stored status, never against anything the caller claims, and
// the write itself is keyed on that status so a concurrent transition cannot
// slip through. The status change and its history entry commit atomically.
func (s *ProcessoService) Transition(ctx context.Context, principal model.Principal, processoID uuid.UUID, input TransitionInput) (*model.ProcessoTFD, error) {
	if !principal.CanRegulate() {
		return nil, ErrPermissionDenied
	}
	if !input.StatusNovo.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, input.StatusNovo)
	}
	input.Descricao = strings.TrimSpace(input.Descricao)
	if len(input.Descricao) < 3 {
		return nil, fmt.Errorf("%w: descricao must have at least 3 characters", ErrInvalidInput)
	}

	processo, err := s.processoRepo.GetByID(ctx, processoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !processo.Status.CanTransitionTo(input.StatusNovo) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, processo.Status, input.StatusNovo)
	}

	updates := map[string]interface{}{"status": input.StatusNovo}
	if input.DataAgendada != nil {
		updates["data_agendada"] = *input.DataAgendada
	}
	if input.LocalAtendimento != "" {
		updates["local_atendimento"] = input.LocalAtendimento
	}
	if input.MotivoNegativa != "" {
		updates["motivo_negativa"] = input.MotivoNegativa
	}
	// The acting regulator owns the decision; once set the field is never
	// cleared by later transitions.
	switch input.StatusNovo {
	case model.StatusEmAnalise, model.StatusAprovado, model.StatusNegado:
		updates["regulado_por_id"] = principal.UserID
	}

	statusAnterior := processo.Status
	historico := &model.HistoricoProcesso{
		UsuarioID:      principal.UserID,
		StatusAnterior: &statusAnterior,
		StatusNovo:     input.StatusNovo,
		Descricao:      input.Descricao,
	}

	if err := s.processoRepo.TransitionStatus(ctx, processo.ID, statusAnterior, updates, historico); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, ErrConflict
		}
		return nil, err
	}

	s.recorder.Record(audit.Entry{
		UsuarioID:  &principal.UserID,
		Acao:       model.AcaoUpdate,
		Entidade:   "PROCESSO",
		EntidadeID: &processo.ID,
		Detalhes:   fmt.Sprintf("Status alterado de %s para %s.", statusAnterior, input.StatusNovo),
	})

	return s.processoRepo.GetByID(ctx, processo.ID)
}

type EditProcessoInput struct {
	Especialidade     *string
	CID               *string
	DescricaoClinica  *string
	MedicoSolicitante *string
	CRMMedico         *string
	DataConsulta      *time.Time
	CidadeDestino     *string
	UFDestino         *string
	HospitalDestino   *string
	MedicoDestino     *string
	TipoTransporte    *model.TipoTransporte
	Acompanhante      *bool
	NomeAcompanhante  *string
	CPFAcompanhante   *string
	Prioridade        *int
	Observacoes       *string
}

// Edit corrects clinical and logistics fields directly; it does not touch
// the status and leaves no history entry.
func (s *ProcessoService) Edit(ctx context.Context, principal model.Principal, processoID uuid.UUID, input EditProcessoInput) (*model.ProcessoTFD, error) {
	if !principal.CanEditProcesso() {
		return nil, ErrPermissionDenied
	}

	processo, err := s.processoRepo.GetByID(ctx, processoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Especialidade != nil {
		v := strings.TrimSpace(*input.Especialidade)
		if len(v) < 3 {
			return nil, fmt.Errorf("%w: especialidade must have at least 3 characters", ErrInvalidInput)
		}
		updates["especialidade"] = v
	}
	if input.CID != nil {
		v := strings.TrimSpace(*input.CID)
		if len(v) < 3 {
			return nil, fmt.Errorf("%w: cid must have at least 3 characters", ErrInvalidInput)
		}
		updates["cid"] = v
	}
	if input.DescricaoClinica != nil {
		v := strings.TrimSpace(*input.DescricaoClinica)
		if len(v) < 10 {
			return nil, fmt.Errorf("%w: descricao_clinica must have at least 10 characters", ErrInvalidInput)
		}
		updates["descricao_clinica"] = v
	}
	if input.MedicoSolicitante != nil {
		v := strings.TrimSpace(*input.MedicoSolicitante)
		if len(v) < 3 {
			return nil, fmt.Errorf("%w: medico_solicitante must have at least 3 characters", ErrInvalidInput)
		}
		updates["medico_solicitante"] = v
	}
	if input.CRMMedico != nil {
		updates["crm_medico"] = strings.TrimSpace(*input.CRMMedico)
	}
	if input.DataConsulta != nil {
		updates["data_consulta"] = *input.DataConsulta
	}
	if input.CidadeDestino != nil {
		v := strings.TrimSpace(*input.CidadeDestino)
		if len(v) < 2 {
			return nil, fmt.Errorf("%w: cidade_destino must have at least 2 characters", ErrInvalidInput)
		}
		updates["cidade_destino"] = v
	}
	if input.UFDestino != nil {
		v := strings.ToUpper(strings.TrimSpace(*input.UFDestino))
		if len(v) != 2 {
			return nil, fmt.Errorf("%w: uf_destino must have exactly 2 characters", ErrInvalidInput)
		}
		updates["uf_destino"] = v
	}
	if input.HospitalDestino != nil {
		updates["hospital_destino"] = strings.TrimSpace(*input.HospitalDestino)
	}
	if input.MedicoDestino != nil {
		updates["medico_destino"] = strings.TrimSpace(*input.MedicoDestino)
	}
	if input.TipoTransporte != nil {
		if !input.TipoTransporte.Valid() {
			return nil, fmt.Errorf("%w: unknown tipo_transporte", ErrInvalidInput)
		}
		updates["tipo_transporte"] = *input.TipoTransporte
	}
	if input.Acompanhante != nil {
		updates["acompanhante"] = *input.Acompanhante
	}
	if input.NomeAcompanhante != nil {
		updates["nome_acompanhante"] = strings.TrimSpace(*input.NomeAcompanhante)
	}
	if input.CPFAcompanhante != nil {
		updates["cpf_acompanhante"] = soDigitos(*input.CPFAcompanhante)
	}
	if input.Prioridade != nil {
		if *input.Prioridade < model.PrioridadeNormal || *input.Prioridade > model.PrioridadeEmergencia {
			return nil, fmt.Errorf("%w: prioridade must be between 1 and 3", ErrInvalidInput)
		}
		updates["prioridade"] = *input.Prioridade
	}
	if input.Observacoes != nil {
		updates["observacoes"] = strings.TrimSpace(*input.Observacoes)
	}
	if len(updates) == 0 {
		return processo, nil
	}

	if err := s.processoRepo.UpdateFields(ctx, processo.ID, updates); err != nil {
		return nil, err
	}

	s.recorder.Record(audit.Entry{
		UsuarioID:  &principal.UserID,
		Acao:       model.AcaoUpdate,
		Entidade:   "PROCESSO",
		EntidadeID: &processo.ID,
		Detalhes:   fmt.Sprintf("Processo %s editado.", processo.Numero),
	})

	return s.processoRepo.GetByID(ctx, processo.ID)
}

type PassagemInput struct {
	Tipo           model.TipoPassagem
	DataViagem     time.Time
	NumeroPassagem string
	Empresa        string
	Valor          float64
	Observacoes    string
}

// AddPassagem attaches an intercity bus ticket to a processo.
func (s *ProcessoService) AddPassagem(ctx context.Context, principal model.Principal, processoID uuid.UUID, input PassagemInput) (*model.Passagem, error) {
	if !principal.CanEditProcesso() {
		return nil, ErrPermissionDenied
	}
	if input.Tipo != model.PassagemIda && input.Tipo != model.PassagemVolta {
		return nil, fmt.Errorf("%w: tipo must be IDA or VOLTA", ErrInvalidInput)
	}
	if input.DataViagem.IsZero() {
		return nil, fmt.Errorf("%w: data_viagem is required", ErrInvalidInput)
	}

	if _, err := s.processoRepo.GetByID(ctx, processoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	passagem := &model.Passagem{
		ProcessoID:     processoID,
		Tipo:           input.Tipo,
		DataViagem:     input.DataViagem,
		NumeroPassagem: input.NumeroPassagem,
		Empresa:        input.Empresa,
		Valor:          input.Valor,
		Observacoes:    input.Observacoes,
	}
	if err := s.processoRepo.CreatePassagem(ctx, passagem); err != nil {
		return nil, err
	}
	return passagem, nil
}

func soDigitos(valor string) string {
	var b strings.Builder
	for _, r := range valor {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
