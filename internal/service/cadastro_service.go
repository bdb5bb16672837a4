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

// CadastroService covers the supporting registries: patients, units,
// vehicles, drivers and bus lines. Plain field validation and persistence.
type CadastroService struct {
	cadastroRepo *repository.CadastroRepository
	recorder     *audit.Recorder
}

func NewCadastroService(cadastroRepo *repository.CadastroRepository, recorder *audit.Recorder) *CadastroService {
	return &CadastroService{cadastroRepo: cadastroRepo, recorder: recorder}
}

type PacientePage struct {
	Total int64            `json:"total"`
	Items []model.Paciente `json:"items"`
}

func (s *CadastroService) ListPacientes(ctx context.Context, search string, limit, offset int) (*PacientePage, error) {
	pacientes, total, err := s.cadastroRepo.ListPacientes(ctx, strings.TrimSpace(search), limit, offset)
	if err != nil {
		return nil, err
	}
	return &PacientePage{Total: total, Items: pacientes}, nil
}

type PacienteInput struct {
	Nome           string
	CPF            string
	DataNascimento time.Time
	Sexo           string
	NomeMae        string
	Telefone       string
	Endereco       string
	Bairro         string
	Cidade         string
	UF             string
	CEP            string
	CartaoSUS      string
}

func (in *PacienteInput) validate() error {
	in.Nome = strings.TrimSpace(in.Nome)
	in.CPF = soDigitos(in.CPF)
	in.UF = strings.ToUpper(strings.TrimSpace(in.UF))
	if len(in.Nome) < 3 {
		return fmt.Errorf("%w: nome must have at least 3 characters", ErrInvalidInput)
	}
	if len(in.CPF) != 11 {
		return fmt.Errorf("%w: cpf must have 11 digits", ErrInvalidInput)
	}
	if in.DataNascimento.IsZero() {
		return fmt.Errorf("%w: data_nascimento is required", ErrInvalidInput)
	}
	if in.UF == "" {
		in.UF = "AM"
	}
	return nil
}

func (s *CadastroService) CreatePaciente(ctx context.Context, principal model.Principal, input PacienteInput) (*model.Paciente, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	paciente := &model.Paciente{
		Nome:           input.Nome,
		CPF:            input.CPF,
		DataNascimento: input.DataNascimento,
		Sexo:           input.Sexo,
		NomeMae:        strings.TrimSpace(input.NomeMae),
		Telefone:       input.Telefone,
		Endereco:       input.Endereco,
		Bairro:         input.Bairro,
		Cidade:         input.Cidade,
		UF:             input.UF,
		CEP:            soDigitos(input.CEP),
		CartaoSUS:      strings.TrimSpace(input.CartaoSUS),
	}
	if err := s.cadastroRepo.CreatePaciente(ctx, paciente); err != nil {
		return nil, err
	}

	s.recorder.Record(audit.Entry{
		UsuarioID:  &principal.UserID,
		Acao:       model.AcaoCreate,
		Entidade:   "PACIENTE",
		EntidadeID: &paciente.ID,
		Detalhes:   fmt.Sprintf("Paciente %q cadastrado.", paciente.Nome),
	})
	return paciente, nil
}

func (s *CadastroService) UpdatePaciente(ctx context.Context, principal model.Principal, id uuid.UUID, input PacienteInput) (*model.Paciente, error) {
	if _, err := s.cadastroRepo.GetPaciente(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"nome":            input.Nome,
		"cpf":             input.CPF,
		"data_nascimento": input.DataNascimento,
		"sexo":            input.Sexo,
		"nome_mae":        strings.TrimSpace(input.NomeMae),
		"telefone":        input.Telefone,
		"endereco":        input.Endereco,
		"bairro":          input.Bairro,
		"cidade":          input.Cidade,
		"uf":              input.UF,
		"cep":             soDigitos(input.CEP),
		"cartao_sus":      strings.TrimSpace(input.CartaoSUS),
	}
	if err := s.cadastroRepo.UpdatePaciente(ctx, id, updates); err != nil {
		return nil, err
	}

	s.recorder.Record(audit.Entry{
		UsuarioID:  &principal.UserID,
		Acao:       model.AcaoUpdate,
		Entidade:   "PACIENTE",
		EntidadeID: &id,
		Detalhes:   fmt.Sprintf("Paciente %q atualizado.", input.Nome),
	})
	return s.cadastroRepo.GetPaciente(ctx, id)
}

func (s *CadastroService) ListUnidades(ctx context.Context, somenteAtivas bool) ([]model.Unidade, error) {
	return s.cadastroRepo.ListUnidades(ctx, somenteAtivas)
}

type UnidadeInput struct {
	Nome string
	CNES string
	Tipo string
}

func (s *CadastroService) CreateUnidade(ctx context.Context, principal model.Principal, input UnidadeInput) (*model.Unidade, error) {
	if !principal.IsSecAdm() {
		return nil, ErrPermissionDenied
	}
	input.Nome = strings.TrimSpace(input.Nome)
	input.CNES = strings.TrimSpace(input.CNES)
	if len(input.Nome) < 3 {
		return nil, fmt.Errorf("%w: nome must have at least 3 characters", ErrInvalidInput)
	}
	if len(input.CNES) < 6 {
		return nil, fmt.Errorf("%w: cnes must have at least 6 characters", ErrInvalidInput)
	}

	unidade := &model.Unidade{Nome: input.Nome, CNES: input.CNES, Tipo: input.Tipo, Ativo: true}
	if err := s.cadastroRepo.CreateUnidade(ctx, unidade); err != nil {
		return nil, err
	}

	s.recorder.Record(audit.Entry{
		UsuarioID:  &principal.UserID,
		Acao:       model.AcaoCreate,
		Entidade:   "UNIDADE",
		EntidadeID: &unidade.ID,
		Detalhes:   fmt.Sprintf("Unidade %q cadastrada.", unidade.Nome),
	})
	return unidade, nil
}

func (s *CadastroService) UpdateUnidade(ctx context.Context, principal model.Principal, id uuid.UUID, input UnidadeInput) (*model.Unidade, error) {
	if !principal.IsSecAdm() {
		return nil, ErrPermissionDenied
	}
	input.Nome = strings.TrimSpace(input.Nome)
	input.CNES = strings.TrimSpace(input.CNES)
	if len(input.Nome) < 3 {
		return nil, fmt.Errorf("%w: nome must have at least 3 characters", ErrInvalidInput)
	}
	if len(input.CNES) < 6 {
		return nil, fmt.Errorf("%w: cnes must have at least 6 characters", ErrInvalidInput)
	}
	if _, err := s.cadastroRepo.GetUnidade(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	updates := map[string]interface{}{"nome": input.Nome, "cnes": input.CNES, "tipo": input.Tipo}
	if err := s.cadastroRepo.UpdateUnidade(ctx, id, updates); err != nil {
		return nil, err
	}

	s.recorder.Record(audit.Entry{
		UsuarioID:  &principal.UserID,
		Acao:       model.AcaoUpdate,
		Entidade:   "UNIDADE",
		EntidadeID: &id,
		Detalhes:   fmt.Sprintf("Unidade %q atualizada.", input.Nome),
	})
	return s.cadastroRepo.GetUnidade(ctx, id)
}

func (s *CadastroService) DesativarUnidade(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if !principal.IsSecAdm() {
		return ErrPermissionDenied
	}
	if _, err := s.cadastroRepo.GetUnidade(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.cadastroRepo.UpdateUnidade(ctx, id, map[string]interface{}{"ativo": false})
}

func (s *CadastroService) ListVeiculos(ctx context.Context, somenteAtivos bool) ([]model.Veiculo, error) {
	return s.cadastroRepo.ListVeiculos(ctx, somenteAtivos)
}

type VeiculoInput struct {
	Placa      string
	Modelo     string
	Capacidade int
	Ativo      *bool
}

func (in *VeiculoInput) validate() error {
	in.Placa = strings.ToUpper(strings.TrimSpace(in.Placa))
	in.Modelo = strings.TrimSpace(in.Modelo)
	if len(in.Placa) < 7 || len(in.Placa) > 8 {
		return fmt.Errorf("%w: placa must have 7 or 8 characters", ErrInvalidInput)
	}
	if len(in.Modelo) < 2 {
		return fmt.Errorf("%w: modelo must have at least 2 characters", ErrInvalidInput)
	}
	if in.Capacidade < 1 {
		return fmt.Errorf("%w: capacidade must be positive", ErrInvalidInput)
	}
	return nil
}

func (s *CadastroService) CreateVeiculo(ctx context.Context, principal model.Principal, input VeiculoInput) (*model.Veiculo, error) {
	if !principal.CanDispatch() {
		return nil, ErrPermissionDenied
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	veiculo := &model.Veiculo{Placa: input.Placa, Modelo: input.Modelo, Capacidade: input.Capacidade, Ativo: true}
	if err := s.cadastroRepo.CreateVeiculo(ctx, veiculo); err != nil {
		return nil, err
	}
	return veiculo, nil
}

func (s *CadastroService) UpdateVeiculo(ctx context.Context, principal model.Principal, id uuid.UUID, input VeiculoInput) (*model.Veiculo, error) {
	if !principal.CanDispatch() {
		return nil, ErrPermissionDenied
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"placa": input.Placa, "modelo": input.Modelo, "capacidade": input.Capacidade}
	if input.Ativo != nil {
		updates["ativo"] = *input.Ativo
	}
	if err := s.cadastroRepo.UpdateVeiculo(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.cadastroRepo.GetVeiculo(ctx, id)
}

func (s *CadastroService) ListMotoristas(ctx context.Context, somenteAtivos bool) ([]model.Motorista, error) {
	return s.cadastroRepo.ListMotoristas(ctx, somenteAtivos)
}

type MotoristaInput struct {
	Nome     string
	CPF      string
	CNH      string
	Telefone string
	Ativo    *bool
}

func (in *MotoristaInput) validate() error {
	in.Nome = strings.TrimSpace(in.Nome)
	in.CPF = soDigitos(in.CPF)
	in.CNH = strings.TrimSpace(in.CNH)
	if len(in.Nome) < 3 {
		return fmt.Errorf("%w: nome must have at least 3 characters", ErrInvalidInput)
	}
	if len(in.CPF) != 11 {
		return fmt.Errorf("%w: cpf must have 11 digits", ErrInvalidInput)
	}
	if len(in.CNH) < 5 {
		return fmt.Errorf("%w: cnh must have at least 5 characters", ErrInvalidInput)
	}
	return nil
}

func (s *CadastroService) CreateMotorista(ctx context.Context, principal model.Principal, input MotoristaInput) (*model.Motorista, error) {
	if !principal.CanDispatch() {
		return nil, ErrPermissionDenied
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	motorista := &model.Motorista{Nome: input.Nome, CPF: input.CPF, CNH: input.CNH, Telefone: input.Telefone, Ativo: true}
	if err := s.cadastroRepo.CreateMotorista(ctx, motorista); err != nil {
		return nil, err
	}
	return motorista, nil
}

func (s *CadastroService) UpdateMotorista(ctx context.Context, principal model.Principal, id uuid.UUID, input MotoristaInput) (*model.Motorista, error) {
	if !principal.CanDispatch() {
		return nil, ErrPermissionDenied
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"nome": input.Nome, "cpf": input.CPF, "cnh": input.CNH, "telefone": input.Telefone}
	if input.Ativo != nil {
		updates["ativo"] = *input.Ativo
	}
	if err := s.cadastroRepo.UpdateMotorista(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.cadastroRepo.GetMotorista(ctx, id)
}

func (s *CadastroService) ListLinhas(ctx context.Context, somenteAtivas bool) ([]model.LinhaOnibus, error) {
	return s.cadastroRepo.ListLinhas(ctx, somenteAtivas)
}

type LinhaInput struct {
	Nome     string
	Empresa  string
	Origem   string
	Destino  string
	Horarios string
	Ativo    *bool
}

func (in *LinhaInput) validate() error {
	in.Nome = strings.TrimSpace(in.Nome)
	in.Empresa = strings.TrimSpace(in.Empresa)
	in.Origem = strings.TrimSpace(in.Origem)
	in.Destino = strings.TrimSpace(in.Destino)
	if len(in.Nome) < 3 {
		return fmt.Errorf("%w: nome must have at least 3 characters", ErrInvalidInput)
	}
	if len(in.Origem) < 2 || len(in.Destino) < 2 {
		return fmt.Errorf("%w: origem and destino are required", ErrInvalidInput)
	}
	return nil
}

func (s *CadastroService) CreateLinha(ctx context.Context, principal model.Principal, input LinhaInput) (*model.LinhaOnibus, error) {
	if !principal.CanDispatch() {
		return nil, ErrPermissionDenied
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	linha := &model.LinhaOnibus{
		Nome:     input.Nome,
		Empresa:  input.Empresa,
		Origem:   input.Origem,
		Destino:  input.Destino,
		Horarios: input.Horarios,
		Ativo:    true,
	}
	if err := s.cadastroRepo.CreateLinha(ctx, linha); err != nil {
		return nil, err
	}
	return linha, nil
}

func (s *CadastroService) UpdateLinha(ctx context.Context, principal model.Principal, id uuid.UUID, input LinhaInput) (*model.LinhaOnibus, error) {
	if !principal.CanDispatch() {
		return nil, ErrPermissionDenied
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"nome":     input.Nome,
		"empresa":  input.Empresa,
		"origem":   input.Origem,
		"destino":  input.Destino,
		"horarios": input.Horarios,
	}
	if input.Ativo != nil {
		updates["ativo"] = *input.Ativo
	}
	if err := s.cadastroRepo.UpdateLinha(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.cadastroRepo.GetLinha(ctx, id)
}
