package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AcaoLog string

const (
	AcaoCreate AcaoLog = "CREATE"
	AcaoUpdate AcaoLog = "UPDATE"
	AcaoDelete AcaoLog = "DELETE"
)

// Log is a system-audit row written best-effort by the audit recorder. It is
// operational telemetry, distinct from HistoricoProcesso which is part of the
// business record.
type Log struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UsuarioID  *uuid.UUID `gorm:"type:uuid" json:"usuario_id"`
	Acao       AcaoLog    `gorm:"type:varchar(16);not null" json:"acao"`
	Entidade   string     `gorm:"type:varchar(32);not null" json:"entidade"`
	EntidadeID *uuid.UUID `gorm:"type:uuid" json:"entidade_id"`
	Detalhes   string     `gorm:"type:text" json:"detalhes"`
	IP         string     `gorm:"type:varchar(45)" json:"ip"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (Log) TableName() string {
	return "logs"
}

func (l *Log) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
