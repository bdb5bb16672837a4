package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tfd-service/internal/model"
)

// ErrStaleStatus is returned when the compare-and-update of a transition
// matched no row: the processo's stored status changed between the validation
// read and the write.
var ErrStaleStatus = errors.New("processo status changed concurrently")

type ProcessoRepository struct {
	db *gorm.DB
}

func NewProcessoRepository(db *gorm.DB) *ProcessoRepository {
	return &ProcessoRepository{db: db}
}

type ProcessoFilter struct {
	Statuses      []model.StatusProcesso
	Prioridade    *int
	UnidadeID     *uuid.UUID
	Especialidade string
	Search        string
	OrdemFila     bool
	Limit         int
	Offset        int
}

func (r *ProcessoRepository) List(ctx context.Context, filter ProcessoFilter) ([]model.ProcessoTFD, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.ProcessoTFD{})

	if len(filter.Statuses) > 0 {
		query = query.Where("processos_tfd.status IN ?", filter.Statuses)
	}
	if filter.Prioridade != nil {
		query = query.Where("processos_tfd.prioridade = ?", *filter.Prioridade)
	}
	if filter.UnidadeID != nil {
		query = query.Where("processos_tfd.unidade_origem_id = ?", *filter.UnidadeID)
	}
	if filter.Especialidade != "" {
		query = query.Where("processos_tfd.especialidade = ?", filter.Especialidade)
	}
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Joins("LEFT JOIN pacientes p ON p.id = processos_tfd.paciente_id").
			Where("(processos_tfd.numero ILIKE ? OR p.nome ILIKE ? OR processos_tfd.especialidade ILIKE ?)", search, search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	} else {
		query = query.Limit(20)
	}

	// The queue view is a literal waiting line: oldest first within a
	// priority tier. The management listing shows recent activity first.
	order := "processos_tfd.prioridade DESC, processos_tfd.created_at DESC"
	if filter.OrdemFila {
		order = "processos_tfd.prioridade DESC, processos_tfd.created_at ASC"
	}

	var processos []model.ProcessoTFD
	if err := query.
		Order(order).
		Preload("Paciente").
		Preload("UnidadeOrigem").
		Preload("AbertoPor").
		Preload("ReguladoPor").
		Find(&processos).Error; err != nil {
		return nil, 0, err
	}

	return processos, total, nil
}

// Fila lists the open cases of one specialty in service order.
func (r *ProcessoRepository) Fila(ctx context.Context, especialidade string) ([]model.ProcessoTFD, error) {
	var processos []model.ProcessoTFD
	err := r.db.WithContext(ctx).
		Model(&model.ProcessoTFD{}).
		Where("especialidade = ? AND status IN ?", especialidade, []model.StatusProcesso{model.StatusPendente, model.StatusEmAnalise}).
		Order("prioridade DESC, created_at ASC").
		Preload("Paciente").
		Preload("UnidadeOrigem").
		Find(&processos).Error
	if err != nil {
		return nil, err
	}
	return processos, nil
}

func (r *ProcessoRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ProcessoTFD, error) {
	var processo model.ProcessoTFD
	err := r.db.WithContext(ctx).
		Preload("Paciente").
		Preload("UnidadeOrigem").
		Preload("AbertoPor").
		Preload("ReguladoPor").
		Preload("Historico", func(db *gorm.DB) *gorm.DB {
			return db.Order("historico_processos.created_at DESC")
		}).
		Preload("Historico.Usuario").
		Preload("Passagens").
		First(&processo, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &processo, nil
}

// Create persists a new processo together with its opening history entry.
// The case number is allocated inside the same transaction from the per-year
// counter, so concurrent creations get distinct sequential numbers.
func (r *ProcessoRepository) Create(ctx context.Context, processo *model.ProcessoTFD, historico *model.HistoricoProcesso) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ano := time.Now().Year()
		seq, err := nextNumero(tx, ano)
		if err != nil {
			return err
		}
		if processo.ID == uuid.Nil {
			processo.ID = uuid.New()
		}
		processo.Numero = model.FormatNumero(ano, seq)
		processo.TokenVerificacao = model.TokenAutenticidade(processo.ID, processo.Numero)

		if err := tx.Create(processo).Error; err != nil {
			return err
		}
		historico.ProcessoID = processo.ID
		return tx.Create(historico).Error
	})
}

func nextNumero(tx *gorm.DB, ano int) (int, error) {
	counter := model.ProcessoCounter{Ano: ano, Ultimo: 1}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ano"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"ultimo": gorm.Expr("processo_counters.ultimo + 1")}),
	}).Create(&counter).Error
	if err != nil {
		return 0, err
	}
	var current model.ProcessoCounter
	if err := tx.First(&current, "ano = ?", ano).Error; err != nil {
		return 0, err
	}
	return current.Ultimo, nil
}

// TransitionStatus applies a validated status change. The update is keyed on
// the status the caller validated against, so a concurrent transition makes
// this one fail with ErrStaleStatus instead of silently applying on stale
// state. Status update and history entry commit as one unit.
func (r *ProcessoRepository) TransitionStatus(ctx context.Context, processoID uuid.UUID, from model.StatusProcesso, updates map[string]interface{}, historico *model.HistoricoProcesso) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.ProcessoTFD{}).
			Where("id = ? AND status = ?", processoID, from).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStaleStatus
		}
		historico.ProcessoID = processoID
		return tx.Create(historico).Error
	})
}

func (r *ProcessoRepository) UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.ProcessoTFD{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *ProcessoRepository) Especialidades(ctx context.Context) ([]string, error) {
	var nomes []string
	err := r.db.WithContext(ctx).
		Model(&model.ProcessoTFD{}).
		Distinct("especialidade").
		Order("especialidade ASC").
		Pluck("especialidade", &nomes).Error
	if err != nil {
		return nil, err
	}
	return nomes, nil
}

func (r *ProcessoRepository) CountByStatus(ctx context.Context, unidadeID *uuid.UUID) (map[model.StatusProcesso]int64, error) {
	query := r.db.WithContext(ctx).Model(&model.ProcessoTFD{})
	if unidadeID != nil {
		query = query.Where("unidade_origem_id = ?", *unidadeID)
	}
	var rows []struct {
		Status model.StatusProcesso
		Total  int64
	}
	if err := query.Select("status, COUNT(*) AS total").Group("status").Find(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[model.StatusProcesso]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

func (r *ProcessoRepository) Recentes(ctx context.Context, unidadeID *uuid.UUID, limit int) ([]model.ProcessoTFD, error) {
	query := r.db.WithContext(ctx).Model(&model.ProcessoTFD{})
	if unidadeID != nil {
		query = query.Where("unidade_origem_id = ?", *unidadeID)
	}
	var processos []model.ProcessoTFD
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Preload("Paciente").
		Preload("UnidadeOrigem").
		Find(&processos).Error
	if err != nil {
		return nil, err
	}
	return processos, nil
}

// FindByIdentificador resolves the public lookup: exact case number or the
// patient's CPF (digits only). Newest case wins when a CPF has several.
func (r *ProcessoRepository) FindByIdentificador(ctx context.Context, numero, cpf string) (*model.ProcessoTFD, error) {
	var processo model.ProcessoTFD
	err := r.db.WithContext(ctx).
		Model(&model.ProcessoTFD{}).
		Joins("LEFT JOIN pacientes p ON p.id = processos_tfd.paciente_id").
		Where("processos_tfd.numero = ? OR p.cpf = ?", numero, cpf).
		Order("processos_tfd.created_at DESC").
		Preload("Paciente").
		Preload("UnidadeOrigem").
		First(&processo).Error
	if err != nil {
		return nil, err
	}
	return &processo, nil
}

func (r *ProcessoRepository) FindByToken(ctx context.Context, token string) (*model.ProcessoTFD, error) {
	var processo model.ProcessoTFD
	err := r.db.WithContext(ctx).
		Preload("Paciente").
		Preload("UnidadeOrigem").
		First(&processo, "token_verificacao = ?", token).Error
	if err != nil {
		return nil, err
	}
	return &processo, nil
}

func (r *ProcessoRepository) CreatePassagem(ctx context.Context, passagem *model.Passagem) error {
	return r.db.WithContext(ctx).Create(passagem).Error
}
