package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tfd-service/internal/model"
)

type ValeRepository struct {
	db *gorm.DB
}

func NewValeRepository(db *gorm.DB) *ValeRepository {
	return &ValeRepository{db: db}
}

func (r *ValeRepository) ListCasas(ctx context.Context, somenteAtivas bool) ([]model.CasaApoioOcupacao, error) {
	query := r.db.WithContext(ctx).Model(&model.CasaApoio{})
	if somenteAtivas {
		query = query.Where("ativo = ?", true)
	}
	var casas []model.CasaApoio
	if err := query.Order("nome ASC").Find(&casas).Error; err != nil {
		return nil, err
	}

	out := make([]model.CasaApoioOcupacao, 0, len(casas))
	for _, casa := range casas {
		ocupados, err := r.CountAtivos(ctx, casa.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, model.CasaApoioOcupacao{CasaApoio: casa, LeitosOcupados: ocupados})
	}
	return out, nil
}

func (r *ValeRepository) GetCasa(ctx context.Context, id uuid.UUID) (*model.CasaApoio, error) {
	var casa model.CasaApoio
	if err := r.db.WithContext(ctx).First(&casa, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &casa, nil
}

func (r *ValeRepository) CreateCasa(ctx context.Context, casa *model.CasaApoio) error {
	return r.db.WithContext(ctx).Create(casa).Error
}

func (r *ValeRepository) UpdateCasa(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.CasaApoio{}).Where("id = ?", id).Updates(updates).Error
}

// CountAtivos is the casa's occupancy: one ATIVO vale holds one bed.
func (r *ValeRepository) CountAtivos(ctx context.Context, casaID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ValeHospedagem{}).
		Where("casa_apoio_id = ? AND status = ?", casaID, model.ValeAtivo).
		Count(&count).Error
	return count, err
}

func (r *ValeRepository) ListVales(ctx context.Context, casaID *uuid.UUID, statuses []model.StatusVale) ([]model.ValeHospedagem, error) {
	query := r.db.WithContext(ctx).Model(&model.ValeHospedagem{})
	if casaID != nil {
		query = query.Where("casa_apoio_id = ?", *casaID)
	}
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	var vales []model.ValeHospedagem
	err := query.
		Order("created_at DESC").
		Preload("Processo").
		Preload("Processo.Paciente").
		Preload("CasaApoio").
		Find(&vales).Error
	if err != nil {
		return nil, err
	}
	return vales, nil
}

func (r *ValeRepository) GetVale(ctx context.Context, id uuid.UUID) (*model.ValeHospedagem, error) {
	var vale model.ValeHospedagem
	if err := r.db.WithContext(ctx).First(&vale, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &vale, nil
}

func (r *ValeRepository) CreateVale(ctx context.Context, vale *model.ValeHospedagem) error {
	return r.db.WithContext(ctx).Create(vale).Error
}

func (r *ValeRepository) UpdateVale(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.ValeHospedagem{}).Where("id = ?", id).Updates(updates).Error
}
