package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tfd-service/internal/model"
)

type ViagemRepository struct {
	db *gorm.DB
}

func NewViagemRepository(db *gorm.DB) *ViagemRepository {
	return &ViagemRepository{db: db}
}

type ViagemFilter struct {
	Statuses   []model.StatusViagem
	DataInicio *time.Time
	DataFim    *time.Time
	Limit      int
	Offset     int
}

func (r *ViagemRepository) List(ctx context.Context, filter ViagemFilter) ([]model.Viagem, error) {
	query := r.db.WithContext(ctx).Model(&model.Viagem{})

	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.DataInicio != nil {
		query = query.Where("data_partida >= ?", *filter.DataInicio)
	}
	if filter.DataFim != nil {
		query = query.Where("data_partida <= ?", *filter.DataFim)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	} else {
		query = query.Limit(200)
	}

	var viagens []model.Viagem
	if err := query.
		Order("data_partida DESC").
		Preload("Veiculo").
		Preload("Motorista").
		Preload("Linha").
		Preload("Passageiros").
		Preload("Passageiros.Processo").
		Preload("Passageiros.Processo.Paciente").
		Find(&viagens).Error; err != nil {
		return nil, err
	}
	return viagens, nil
}

func (r *ViagemRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Viagem, error) {
	var viagem model.Viagem
	err := r.db.WithContext(ctx).
		Preload("Veiculo").
		Preload("Motorista").
		Preload("Linha").
		Preload("Passageiros").
		Preload("Passageiros.Processo").
		Preload("Passageiros.Processo.Paciente").
		First(&viagem, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &viagem, nil
}

func (r *ViagemRepository) Create(ctx context.Context, viagem *model.Viagem) error {
	return r.db.WithContext(ctx).Create(viagem).Error
}

func (r *ViagemRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.Viagem{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// UpdateStatusFrom performs the lifecycle move keyed on the expected current
// status, so racing dispatchers cannot both advance the same viagem.
func (r *ViagemRepository) UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to model.StatusViagem) error {
	result := r.db.WithContext(ctx).
		Model(&model.Viagem{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

func (r *ViagemRepository) GetPassageiro(ctx context.Context, viagemID, passageiroID uuid.UUID) (*model.PassageiroViagem, error) {
	var passageiro model.PassageiroViagem
	err := r.db.WithContext(ctx).
		First(&passageiro, "id = ? AND viagem_id = ?", passageiroID, viagemID).Error
	if err != nil {
		return nil, err
	}
	return &passageiro, nil
}

func (r *ViagemRepository) CountAllocation(ctx context.Context, viagemID, processoID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.PassageiroViagem{}).
		Where("viagem_id = ? AND processo_id = ?", viagemID, processoID).
		Count(&count).Error
	return count, err
}

func (r *ViagemRepository) AddPassageiro(ctx context.Context, passageiro *model.PassageiroViagem) error {
	return r.db.WithContext(ctx).Create(passageiro).Error
}

func (r *ViagemRepository) RemovePassageiro(ctx context.Context, passageiroID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&model.PassageiroViagem{}, "id = ?", passageiroID).Error
}

// ProcessosDisponiveis lists cases ready to board: approved or scheduled.
func (r *ViagemRepository) ProcessosDisponiveis(ctx context.Context) ([]model.ProcessoTFD, error) {
	var processos []model.ProcessoTFD
	err := r.db.WithContext(ctx).
		Model(&model.ProcessoTFD{}).
		Where("status IN ?", []model.StatusProcesso{model.StatusAprovado, model.StatusAgendado}).
		Order("created_at DESC").
		Preload("Paciente").
		Preload("UnidadeOrigem").
		Find(&processos).Error
	if err != nil {
		return nil, err
	}
	return processos, nil
}
