package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tfd-service/internal/model"
)

// CadastroRepository backs the plain registries the core references:
// patients, origin units, fleet vehicles, drivers and intercity bus lines.
type CadastroRepository struct {
	db *gorm.DB
}

func NewCadastroRepository(db *gorm.DB) *CadastroRepository {
	return &CadastroRepository{db: db}
}

func (r *CadastroRepository) ListPacientes(ctx context.Context, search string, limit, offset int) ([]model.Paciente, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Paciente{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("(nome ILIKE ? OR cpf = ? OR cartao_sus = ?)", like, search, search)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit <= 0 {
		limit = 20
	}
	var pacientes []model.Paciente
	if err := query.Limit(limit).Order("nome ASC").Find(&pacientes).Error; err != nil {
		return nil, 0, err
	}
	return pacientes, total, nil
}

func (r *CadastroRepository) GetPaciente(ctx context.Context, id uuid.UUID) (*model.Paciente, error) {
	var paciente model.Paciente
	if err := r.db.WithContext(ctx).First(&paciente, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &paciente, nil
}

func (r *CadastroRepository) CreatePaciente(ctx context.Context, paciente *model.Paciente) error {
	return r.db.WithContext(ctx).Create(paciente).Error
}

func (r *CadastroRepository) UpdatePaciente(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Paciente{}).Where("id = ?", id).Updates(updates).Error
}

func (r *CadastroRepository) ListUnidades(ctx context.Context, somenteAtivas bool) ([]model.Unidade, error) {
	query := r.db.WithContext(ctx).Model(&model.Unidade{})
	if somenteAtivas {
		query = query.Where("ativo = ?", true)
	}
	var unidades []model.Unidade
	if err := query.Order("nome ASC").Find(&unidades).Error; err != nil {
		return nil, err
	}
	return unidades, nil
}

func (r *CadastroRepository) GetUnidade(ctx context.Context, id uuid.UUID) (*model.Unidade, error) {
	var unidade model.Unidade
	if err := r.db.WithContext(ctx).First(&unidade, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &unidade, nil
}

func (r *CadastroRepository) CreateUnidade(ctx context.Context, unidade *model.Unidade) error {
	return r.db.WithContext(ctx).Create(unidade).Error
}

func (r *CadastroRepository) UpdateUnidade(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Unidade{}).Where("id = ?", id).Updates(updates).Error
}

func (r *CadastroRepository) ListVeiculos(ctx context.Context, somenteAtivos bool) ([]model.Veiculo, error) {
	query := r.db.WithContext(ctx).Model(&model.Veiculo{})
	if somenteAtivos {
		query = query.Where("ativo = ?", true)
	}
	var veiculos []model.Veiculo
	if err := query.Order("placa ASC").Find(&veiculos).Error; err != nil {
		return nil, err
	}
	return veiculos, nil
}

func (r *CadastroRepository) CreateVeiculo(ctx context.Context, veiculo *model.Veiculo) error {
	return r.db.WithContext(ctx).Create(veiculo).Error
}

func (r *CadastroRepository) UpdateVeiculo(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.Veiculo{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CadastroRepository) GetVeiculo(ctx context.Context, id uuid.UUID) (*model.Veiculo, error) {
	var veiculo model.Veiculo
	if err := r.db.WithContext(ctx).First(&veiculo, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &veiculo, nil
}

func (r *CadastroRepository) ListMotoristas(ctx context.Context, somenteAtivos bool) ([]model.Motorista, error) {
	query := r.db.WithContext(ctx).Model(&model.Motorista{})
	if somenteAtivos {
		query = query.Where("ativo = ?", true)
	}
	var motoristas []model.Motorista
	if err := query.Order("nome ASC").Find(&motoristas).Error; err != nil {
		return nil, err
	}
	return motoristas, nil
}

func (r *CadastroRepository) CreateMotorista(ctx context.Context, motorista *model.Motorista) error {
	return r.db.WithContext(ctx).Create(motorista).Error
}

func (r *CadastroRepository) UpdateMotorista(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.Motorista{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CadastroRepository) GetMotorista(ctx context.Context, id uuid.UUID) (*model.Motorista, error) {
	var motorista model.Motorista
	if err := r.db.WithContext(ctx).First(&motorista, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &motorista, nil
}

func (r *CadastroRepository) ListLinhas(ctx context.Context, somenteAtivas bool) ([]model.LinhaOnibus, error) {
	query := r.db.WithContext(ctx).Model(&model.LinhaOnibus{})
	if somenteAtivas {
		query = query.Where("ativo = ?", true)
	}
	var linhas []model.LinhaOnibus
	if err := query.Order("nome ASC").Find(&linhas).Error; err != nil {
		return nil, err
	}
	return linhas, nil
}

func (r *CadastroRepository) CreateLinha(ctx context.Context, linha *model.LinhaOnibus) error {
	return r.db.WithContext(ctx).Create(linha).Error
}

func (r *CadastroRepository) UpdateLinha(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.LinhaOnibus{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CadastroRepository) GetLinha(ctx context.Context, id uuid.UUID) (*model.LinhaOnibus, error) {
	var linha model.LinhaOnibus
	if err := r.db.WithContext(ctx).First(&linha, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &linha, nil
}
