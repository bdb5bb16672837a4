package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tfd-service/internal/audit"
	"tfd-service/internal/model"
	"tfd-service/internal/repository"
)

type ViagemService struct {
	viagemRepo *repository.ViagemRepository
	recorder   *audit.Recorder
}

func NewViagemService(viagemRepo *repository.ViagemRepository, recorder *audit.Recorder) *ViagemService {
	return &ViagemService{viagemRepo: viagemRepo, recorder: recorder}
}

type ListViagensOptions struct {
	Statuses   []model.StatusViagem
	DataInicio *time.Time
	DataFim    *time.Time
	Limit      int
	Offset     int
}

func (s *ViagemService) List(ctx context.Context, opts ListViagensOptions) ([]model.Viagem, error) {
	return s.viagemRepo.List(ctx, repository.ViagemFilter{
		Statuses:   opts.Statuses,
		DataInicio: opts.DataInicio,
		DataFim:    opts.DataFim,
		Limit:      opts.Limit,
		Offset:     opts.Offset,
	})
}

func (s *ViagemService) Get(ctx context.Context, id uuid.UUID) (*model.Viagem, error) {
	viagem, err := s.viagemRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return viagem, nil
}

type CreateViagemInput struct {
	DataPartida time.Time
	DataRetorno *time.Time
	VeiculoID   *uuid.UUID
	MotoristaID *uuid.UUID
	LinhaID     *uuid.UUID
	Observacoes string
}

func (s *ViagemService) Create(ctx context.Context, principal model.Principal, input CreateViagemInput) (*model.Viagem, error) {
	if !principal.CanDispatch() {
		return nil, ErrPermissionDenied
	}
	if input.DataPartida.IsZero() {
		return nil, fmt.Errorf("%w: data_partida is required", ErrInvalidInput)
	}

	viagem := &model.Viagem{
		DataPartida: input.DataPartida,
		DataRetorno: input.DataRetorno,
		VeiculoID:   input.VeiculoID,
		MotoristaID: input.MotoristaID,
		LinhaID:     input.LinhaID,
		Status:      model.ViagemPlanejada,
		Observacoes: input.Observacoes,
	}
	if err := s.viagemRepo.Create(ctx, viagem); err != nil {
		return nil, err
	}

	s.recorder.Record(audit.Entry{
		UsuarioID:  &principal.UserID,
		Acao:       model.AcaoCreate,
		Entidade:   "VIAGEM",
		EntidadeID: &viagem.ID,
		Detalhes:   fmt.Sprintf("Viagem criada para %s.", viagem.DataPartida.Format("02/01/2006")),
	})

	return s.viagemRepo.GetByID(ctx, viagem.ID)
}

// AdvanceStatus moves the trip through its lifecycle. Only forward moves are
// legal; cancellation is possible only before departure. Freezing of the
// manifest after PLANEJADA is enforced by AddPassageiro/RemovePassageiro.
func (s *ViagemService) AdvanceStatus(ctx context.Context, principal model.Principal, viagemID uuid.UUID, target model.StatusViagem) (*model.Viagem, error) {
	if !principal.CanDispatch() {
		return nil, ErrPermissionDenied
	}

	viagem, err := s.viagemRepo.GetByID(ctx, viagemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !viagem.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, viagem.Status, target)
	}

	if err := s.viagemRepo.UpdateStatusFrom(ctx, viagem.ID, viagem.Status, target); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, ErrConflict
		}
		return nil, err
	}

	s.recorder.Record(audit.Entry{
		UsuarioID:  &principal.UserID,
		Acao:       model.AcaoUpdate,
		Entidade:   "VIAGEM",
		EntidadeID: &viagem.ID,
		Detalhes:   fmt.Sprintf("Status da viagem alterado para %s.", target),
	})

	return s.viagemRepo.GetByID(ctx, viagem.ID)
}

// AddPassageiro allocates a processo onto a planned trip. The candidate list
// shown to dispatchers is pre-filtered to APROVADO/AGENDADO cases; the
// operation itself does not re-check the case status (deliberate soft
// constraint, matching the regulation desk's workflow).
func (s *ViagemService) AddPassageiro(ctx context.Context, principal model.Principal, viagemID, processoID uuid.UUID, acompanhante bool) (*model.PassageiroViagem, error) {
	if !principal.CanDispatch() {
		return nil, ErrPermissionDenied
	}

	viagem, err := s.viagemRepo.GetByID(ctx, viagemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if viagem.Status != model.ViagemPlanejada {
		return nil, ErrViagemBloqueada
	}

	existentes, err := s.viagemRepo.CountAllocation(ctx, viagem.ID, processoID)
	if err != nil {
		return nil, err
	}
	if existentes > 0 {
		return nil, ErrPassageiroDuplicado
	}

	passageiro := &model.PassageiroViagem{
		ViagemID:     viagem.ID,
		ProcessoID:   processoID,
		Acompanhante: acompanhante,
	}
	if err := s.viagemRepo.AddPassageiro(ctx, passageiro); err != nil {
		return nil, err
	}

	s.recorder.Record(audit.Entry{
		UsuarioID:  &principal.UserID,
		Acao:       model.AcaoCreate,
		Entidade:   "VIAGEM",
		EntidadeID: &viagem.ID,
		Detalhes:   "Passageiro adicionado à viagem.",
	})

	return passageiro, nil
}

func (s *ViagemService) RemovePassageiro(ctx context.Context, principal model.Principal, viagemID, passageiroID uuid.UUID) error {
	if !principal.CanDispatch() {
		return ErrPermissionDenied
	}

	viagem, err := s.viagemRepo.GetByID(ctx, viagemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if viagem.Status != model.ViagemPlanejada {
		return ErrViagemBloqueada
	}

	if _, err := s.viagemRepo.GetPassageiro(ctx, viagem.ID, passageiroID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.viagemRepo.RemovePassageiro(ctx, passageiroID); err != nil {
		return err
	}

	s.recorder.Record(audit.Entry{
		UsuarioID:  &principal.UserID,
		Acao:       model.AcaoDelete,
		Entidade:   "VIAGEM",
		EntidadeID: &viagem.ID,
		Detalhes:   "Passageiro removido da viagem.",
	})

	return nil
}

func (s *ViagemService) ProcessosDisponiveis(ctx context.Context) ([]model.ProcessoTFD, error) {
	return s.viagemRepo.ProcessosDisponiveis(ctx)
}
