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

type ValeService struct {
	valeRepo     *repository.ValeRepository
	processoRepo *repository.ProcessoRepository
	recorder     *audit.Recorder
}

func NewValeService(valeRepo *repository.ValeRepository, processoRepo *repository.ProcessoRepository, recorder *audit.Recorder) *ValeService {
	return &ValeService{valeRepo: valeRepo, processoRepo: processoRepo, recorder: recorder}
}

func (s *ValeService) ListCasas(ctx context.Context, somenteAtivas bool) ([]model.CasaApoioOcupacao, error) {
	return s.valeRepo.ListCasas(ctx, somenteAtivas)
}

type CasaApoioInput struct {
	Nome        string
	Endereco    string
	Cidade      string
	Telefone    string
	TotalLeitos int
}

func (s *ValeService) CreateCasa(ctx context.Context, principal model.Principal, input CasaApoioInput) (*model.CasaApoio, error) {
	if !principal.CanDispatch() {
		return nil, ErrPermissionDenied
	}
	input.Nome = strings.TrimSpace(input.Nome)
	input.Cidade = strings.TrimSpace(input.Cidade)
	if len(input.Nome) < 3 {
		return nil, fmt.Errorf("%w: nome must have at least 3 characters", ErrInvalidInput)
	}
	if len(input.Cidade) < 2 {
		return nil, fmt.Errorf("%w: cidade must have at least 2 characters", ErrInvalidInput)
	}
	if input.TotalLeitos <= 0 {
		input.TotalLeitos = 10
	}

	casa := &model.CasaApoio{
		Nome:        input.Nome,
		Endereco:    input.Endereco,
		Cidade:      input.Cidade,
		Telefone:    input.Telefone,
		TotalLeitos: input.TotalLeitos,
		Ativo:       true,
	}
	if err := s.valeRepo.CreateCasa(ctx, casa); err != nil {
		return nil, err
	}

	s.recorder.Record(audit.Entry{
		UsuarioID:  &principal.UserID,
		Acao:       model.AcaoCreate,
		Entidade:   "CASA_APOIO",
		EntidadeID: &casa.ID,
		Detalhes:   fmt.Sprintf("Casa de Apoio %q cadastrada.", casa.Nome),
	})
	return casa, nil
}

func (s *ValeService) DesativarCasa(ctx context.Context, principal model.Principal, casaID uuid.UUID) error {
	if !principal.IsSecAdm() {
		return ErrPermissionDenied
	}
	if _, err := s.valeRepo.GetCasa(ctx, casaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.valeRepo.UpdateCasa(ctx, casaID, map[string]interface{}{"ativo": false})
}

func (s *ValeService) ListVales(ctx context.Context, casaID *uuid.UUID, statuses []model.StatusVale) ([]model.ValeHospedagem, error) {
	return s.valeRepo.ListVales(ctx, casaID, statuses)
}

type ValeInput struct {
	ProcessoID   uuid.UUID
	CasaApoioID  uuid.UUID
	DataEntrada  time.Time
	DataSaida    *time.Time
	Acompanhante bool
	Observacoes  string
}

// CreateVale books a bed. Occupancy is checked against the casa's bed count;
// an ATIVO vale holds exactly one bed regardless of companion.
func (s *ValeService) CreateVale(ctx context.Context, principal model.Principal, input ValeInput) (*model.ValeHospedagem, error) {
	if !principal.CanDispatch() {
		return nil, ErrPermissionDenied
	}
	if input.DataEntrada.IsZero() {
		return nil, fmt.Errorf("%w: data_entrada is required", ErrInvalidInput)
	}

	if _, err := s.processoRepo.GetByID(ctx, input.ProcessoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: processo", ErrNotFound)
		}
		return nil, err
	}
	casa, err := s.valeRepo.GetCasa(ctx, input.CasaApoioID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: casa de apoio", ErrNotFound)
		}
		return nil, err
	}

	ocupados, err := s.valeRepo.CountAtivos(ctx, casa.ID)
	if err != nil {
		return nil, err
	}
	if ocupados >= int64(casa.TotalLeitos) {
		return nil, ErrSemLeitos
	}

	vale := &model.ValeHospedagem{
		ProcessoID:   input.ProcessoID,
		CasaApoioID:  casa.ID,
		DataEntrada:  input.DataEntrada,
		DataSaida:    input.DataSaida,
		Acompanhante: input.Acompanhante,
		Status:       model.ValeAtivo,
		Observacoes:  input.Observacoes,
	}
	if err := s.valeRepo.CreateVale(ctx, vale); err != nil {
		return nil, err
	}

	s.recorder.Record(audit.Entry{
		UsuarioID:  &principal.UserID,
		Acao:       model.AcaoCreate,
		Entidade:   "VALE_HOSPEDAGEM",
		EntidadeID: &vale.ID,
		Detalhes:   fmt.Sprintf("Vale de hospedagem emitido para a casa %q.", casa.Nome),
	})
	return vale, nil
}

// EncerrarVale releases the bed, marking the stay finished or canceled.
func (s *ValeService) EncerrarVale(ctx context.Context, principal model.Principal, valeID uuid.UUID, status model.StatusVale, dataSaida *time.Time) error {
	if !principal.CanDispatch() {
		return ErrPermissionDenied
	}
	if status != model.ValeEncerrado && status != model.ValeCancelado {
		return fmt.Errorf("%w: status must be ENCERRADO or CANCELADO", ErrInvalidInput)
	}

	vale, err := s.valeRepo.GetVale(ctx, valeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if vale.Status != model.ValeAtivo {
		return ErrConflict
	}

	updates := map[string]interface{}{"status": status}
	if dataSaida != nil {
		updates["data_saida"] = *dataSaida
	}
	if err := s.valeRepo.UpdateVale(ctx, vale.ID, updates); err != nil {
		return err
	}

	s.recorder.Record(audit.Entry{
		UsuarioID:  &principal.UserID,
		Acao:       model.AcaoUpdate,
		Entidade:   "VALE_HOSPEDAGEM",
		EntidadeID: &vale.ID,
		Detalhes:   fmt.Sprintf("Vale de hospedagem %s.", status),
	})
	return nil
}
