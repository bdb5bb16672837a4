package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CasaApoio struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Nome        string    `gorm:"type:varchar(255);not null" json:"nome"`
	Endereco    string    `gorm:"type:varchar(255)" json:"endereco"`
	Cidade      string    `gorm:"type:varchar(128);not null" json:"cidade"`
	Telefone    string    `gorm:"type:varchar(32)" json:"telefone"`
	TotalLeitos int       `gorm:"not null;default:10" json:"total_leitos"`
	Ativo       bool      `gorm:"not null;default:true" json:"ativo"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (CasaApoio) TableName() string {
	return "casas_apoio"
}

func (c *CasaApoio) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type StatusVale string

const (
	ValeAtivo     StatusVale = "ATIVO"
	ValeEncerrado StatusVale = "ENCERRADO"
	ValeCancelado StatusVale = "CANCELADO"
)

// ValeHospedagem books a bed in a casa de apoio for a processo's patient.
// Occupancy of a casa is the count of its ATIVO vales.
type ValeHospedagem struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProcessoID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"processo_id"`
	CasaApoioID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"casa_apoio_id"`
	DataEntrada  time.Time  `gorm:"not null" json:"data_entrada"`
	DataSaida    *time.Time `json:"data_saida"`
	Acompanhante bool       `gorm:"not null;default:false" json:"acompanhante"`
	Status       StatusVale `gorm:"type:varchar(16);not null;default:'ATIVO'" json:"status"`
	Observacoes  string     `gorm:"type:text" json:"observacoes"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`

	Processo  *ProcessoTFD `gorm:"foreignKey:ProcessoID" json:"processo,omitempty"`
	CasaApoio *CasaApoio   `gorm:"foreignKey:CasaApoioID" json:"casa_apoio,omitempty"`
}

func (ValeHospedagem) TableName() string {
	return "vales_hospedagem"
}

func (v *ValeHospedagem) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
