package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistoricoProcesso is the append-only audit trail of a processo's status
// changes. StatusAnterior is null only on the creation entry. Rows are never
// updated or deleted; replayed in order they reconstruct the exact status
// sequence the processo held.
type HistoricoProcesso struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ProcessoID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"processo_id"`
	UsuarioID      uuid.UUID       `gorm:"type:uuid;not null" json:"usuario_id"`
	StatusAnterior *StatusProcesso `gorm:"type:varchar(16)" json:"status_anterior"`
	StatusNovo     StatusProcesso  `gorm:"type:varchar(16);not null" json:"status_novo"`
	Descricao      string          `gorm:"type:text;not null" json:"descricao"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`

	Usuario *Usuario `gorm:"foreignKey:UsuarioID" json:"usuario,omitempty"`
}

func (HistoricoProcesso) TableName() string {
	return "historico_processos"
}

func (h *HistoricoProcesso) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
