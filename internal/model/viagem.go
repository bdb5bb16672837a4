package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StatusViagem string

const (
	ViagemPlanejada StatusViagem = "PLANEJADA"
	ViagemEmCurso   StatusViagem = "EM_CURSO"
	ViagemConcluida StatusViagem = "CONCLUIDA"
	ViagemCancelada StatusViagem = "CANCELADA"
)

// CanTransitionTo reports whether a viagem may move from s to target.
// Only forward moves are allowed; cancellation is possible only before
// departure.
func (s StatusViagem) CanTransitionTo(target StatusViagem) bool {
	switch s {
	case ViagemPlanejada:
		return target == ViagemEmCurso || target == ViagemCancelada
	case ViagemEmCurso:
		return target == ViagemConcluida
	}
	return false
}

type Viagem struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	DataPartida time.Time    `gorm:"not null" json:"data_partida"`
	DataRetorno *time.Time   `json:"data_retorno"`
	VeiculoID   *uuid.UUID   `gorm:"type:uuid" json:"veiculo_id"`
	MotoristaID *uuid.UUID   `gorm:"type:uuid" json:"motorista_id"`
	LinhaID     *uuid.UUID   `gorm:"type:uuid" json:"linha_id"`
	Status      StatusViagem `gorm:"type:varchar(16);not null;default:'PLANEJADA'" json:"status"`
	Observacoes string       `gorm:"type:text" json:"observacoes"`
	CreatedAt   time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"autoUpdateTime" json:"updated_at"`

	Veiculo     *Veiculo           `gorm:"foreignKey:VeiculoID" json:"veiculo,omitempty"`
	Motorista   *Motorista         `gorm:"foreignKey:MotoristaID" json:"motorista,omitempty"`
	Linha       *LinhaOnibus       `gorm:"foreignKey:LinhaID" json:"linha,omitempty"`
	Passageiros []PassageiroViagem `gorm:"foreignKey:ViagemID" json:"passageiros,omitempty"`
}

func (Viagem) TableName() string {
	return "viagens"
}

func (v *Viagem) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// PassageiroViagem allocates one processo onto one viagem. A processo may
// appear at most once per viagem; rows exist only while the viagem is
// PLANEJADA or frozen with it afterwards.
type PassageiroViagem struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ViagemID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_viagem_processo" json:"viagem_id"`
	ProcessoID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_viagem_processo" json:"processo_id"`
	Acompanhante bool      `gorm:"not null;default:false" json:"acompanhante"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`

	Processo *ProcessoTFD `gorm:"foreignKey:ProcessoID" json:"processo,omitempty"`
}

func (PassageiroViagem) TableName() string {
	return "passageiros_viagem"
}

func (p *PassageiroViagem) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
