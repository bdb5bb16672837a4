package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StatusProcesso string

const (
	StatusPendente  StatusProcesso = "PENDENTE"
	StatusEmAnalise StatusProcesso = "EM_ANALISE"
	StatusAprovado  StatusProcesso = "APROVADO"
	StatusNegado    StatusProcesso = "NEGADO"
	StatusAgendado  StatusProcesso = "AGENDADO"
	StatusConcluido StatusProcesso = "CONCLUIDO"
	StatusCancelado StatusProcesso = "CANCELADO"
	StatusRecurso   StatusProcesso = "RECURSO"
)

// StatusTransitions lists, for each status, the statuses a processo may move
// to next. CONCLUIDO and CANCELADO are terminal.
var StatusTransitions = map[StatusProcesso][]StatusProcesso{
	StatusPendente:  {StatusEmAnalise, StatusCancelado},
	StatusEmAnalise: {StatusAprovado, StatusNegado, StatusRecurso},
	StatusAprovado:  {StatusAgendado, StatusCancelado},
	StatusNegado:    {StatusRecurso, StatusCancelado},
	StatusRecurso:   {StatusEmAnalise, StatusCancelado},
	StatusAgendado:  {StatusConcluido, StatusCancelado},
	StatusConcluido: {},
	StatusCancelado: {},
}

func (s StatusProcesso) Valid() bool {
	_, ok := StatusTransitions[s]
	return ok
}

// CanTransitionTo reports whether target is a legal next status from s.
func (s StatusProcesso) CanTransitionTo(target StatusProcesso) bool {
	for _, allowed := range StatusTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

type TipoTransporte string

const (
	TransporteOnibus     TipoTransporte = "ONIBUS"
	TransporteVan        TipoTransporte = "VAN"
	TransporteAmbulancia TipoTransporte = "AMBULANCIA"
	TransporteAereo      TipoTransporte = "AEREO"
	TransporteProprio    TipoTransporte = "PROPRIO"
)

func (t TipoTransporte) Valid() bool {
	switch t {
	case TransporteOnibus, TransporteVan, TransporteAmbulancia, TransporteAereo, TransporteProprio:
		return true
	}
	return false
}

const (
	PrioridadeNormal     = 1
	PrioridadeUrgente    = 2
	PrioridadeEmergencia = 3
)

type ProcessoTFD struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Numero            string         `gorm:"type:varchar(16);not null;uniqueIndex" json:"numero"`
	PacienteID        uuid.UUID      `gorm:"type:uuid;not null" json:"paciente_id"`
	UnidadeOrigemID   uuid.UUID      `gorm:"type:uuid;not null" json:"unidade_origem_id"`
	Especialidade     string         `gorm:"type:varchar(128);not null" json:"especialidade"`
	CID               string         `gorm:"type:varchar(16);not null" json:"cid"`
	DescricaoClinica  string         `gorm:"type:text;not null" json:"descricao_clinica"`
	MedicoSolicitante string         `gorm:"type:varchar(255);not null" json:"medico_solicitante"`
	CRMMedico         string         `gorm:"type:varchar(32)" json:"crm_medico"`
	DataConsulta      *time.Time     `json:"data_consulta"`
	CidadeDestino     string         `gorm:"type:varchar(128);not null" json:"cidade_destino"`
	UFDestino         string         `gorm:"type:varchar(2);not null" json:"uf_destino"`
	HospitalDestino   string         `gorm:"type:varchar(255)" json:"hospital_destino"`
	MedicoDestino     string         `gorm:"type:varchar(255)" json:"medico_destino"`
	TipoTransporte    TipoTransporte `gorm:"type:varchar(16);not null" json:"tipo_transporte"`
	Acompanhante      bool           `gorm:"not null;default:false" json:"acompanhante"`
	NomeAcompanhante  string         `gorm:"type:varchar(255)" json:"nome_acompanhante"`
	CPFAcompanhante   string         `gorm:"type:varchar(11)" json:"cpf_acompanhante"`
	Prioridade        int            `gorm:"not null;default:1" json:"prioridade"`
	Status            StatusProcesso `gorm:"type:varchar(16);not null;default:'PENDENTE'" json:"status"`
	DataAgendada      *time.Time     `json:"data_agendada"`
	LocalAtendimento  string         `gorm:"type:varchar(255)" json:"local_atendimento"`
	MotivoNegativa    string         `gorm:"type:text" json:"motivo_negativa"`
	Observacoes       string         `gorm:"type:text" json:"observacoes"`
	TokenVerificacao  string         `gorm:"type:varchar(16);index" json:"-"`
	AbertoPorID       uuid.UUID      `gorm:"type:uuid;not null" json:"aberto_por_id"`
	ReguladoPorID     *uuid.UUID     `gorm:"type:uuid" json:"regulado_por_id"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	Paciente      *Paciente           `gorm:"foreignKey:PacienteID" json:"paciente,omitempty"`
	UnidadeOrigem *Unidade            `gorm:"foreignKey:UnidadeOrigemID" json:"unidade_origem,omitempty"`
	AbertoPor     *Usuario            `gorm:"foreignKey:AbertoPorID" json:"aberto_por,omitempty"`
	ReguladoPor   *Usuario            `gorm:"foreignKey:ReguladoPorID" json:"regulado_por,omitempty"`
	Historico     []HistoricoProcesso `gorm:"foreignKey:ProcessoID" json:"historico,omitempty"`
	Passagens     []Passagem          `gorm:"foreignKey:ProcessoID" json:"passagens,omitempty"`
}

func (ProcessoTFD) TableName() string {
	return "processos_tfd"
}

func (p *ProcessoTFD) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TokenAutenticidade derives the public document-verification token printed
// on case documents as a QR code. The derivation is stable across reissues of
// the same document: first 16 hex chars of SHA-256("<id>-<numero>-TFD").
func TokenAutenticidade(id uuid.UUID, numero string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s-%s-TFD", id, numero)))
	return hex.EncodeToString(sum[:])[:16]
}

// ProcessoCounter holds the last issued sequence per calendar year. The row
// is bumped with an atomic upsert so two concurrent creations can never read
// the same value.
type ProcessoCounter struct {
	Ano    int `gorm:"primaryKey"`
	Ultimo int `gorm:"not null"`
}

func (ProcessoCounter) TableName() string {
	return "processo_counters"
}

// FormatNumero renders the externally visible case number, e.g. TFD-2024-00001.
func FormatNumero(ano, seq int) string {
	return fmt.Sprintf("TFD-%04d-%05d", ano, seq)
}
