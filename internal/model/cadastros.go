package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Paciente struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Nome           string    `gorm:"type:varchar(255);not null" json:"nome"`
	CPF            string    `gorm:"type:varchar(11);not null;uniqueIndex" json:"cpf"`
	DataNascimento time.Time `gorm:"not null" json:"data_nascimento"`
	Sexo           string    `gorm:"type:varchar(16)" json:"sexo"`
	NomeMae        string    `gorm:"type:varchar(255)" json:"nome_mae"`
	Telefone       string    `gorm:"type:varchar(32)" json:"telefone"`
	Endereco       string    `gorm:"type:varchar(255)" json:"endereco"`
	Bairro         string    `gorm:"type:varchar(128)" json:"bairro"`
	Cidade         string    `gorm:"type:varchar(128)" json:"cidade"`
	UF             string    `gorm:"type:varchar(2)" json:"uf"`
	CEP            string    `gorm:"type:varchar(8)" json:"cep"`
	CartaoSUS      string    `gorm:"type:varchar(20)" json:"cartao_sus"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Paciente) TableName() string {
	return "pacientes"
}

func (p *Paciente) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type Unidade struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Nome      string    `gorm:"type:varchar(255);not null" json:"nome"`
	CNES      string    `gorm:"type:varchar(16);not null" json:"cnes"`
	Tipo      string    `gorm:"type:varchar(32)" json:"tipo"`
	Ativo     bool      `gorm:"not null;default:true" json:"ativo"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Unidade) TableName() string {
	return "unidades"
}

func (u *Unidade) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type Usuario struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Nome      string     `gorm:"type:varchar(255);not null" json:"nome"`
	Login     string     `gorm:"type:varchar(64);not null;uniqueIndex" json:"login"`
	Perfil    Perfil     `gorm:"type:varchar(16);not null" json:"perfil"`
	Ativo     bool       `gorm:"not null;default:true" json:"ativo"`
	UnidadeID *uuid.UUID `gorm:"type:uuid" json:"unidade_id"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`

	Unidade *Unidade `gorm:"foreignKey:UnidadeID" json:"unidade,omitempty"`
}

func (Usuario) TableName() string {
	return "usuarios"
}

func (u *Usuario) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type Veiculo struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Placa      string    `gorm:"type:varchar(8);not null;uniqueIndex" json:"placa"`
	Modelo     string    `gorm:"type:varchar(64);not null" json:"modelo"`
	Capacidade int       `gorm:"not null" json:"capacidade"`
	Ativo      bool      `gorm:"not null;default:true" json:"ativo"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Veiculo) TableName() string {
	return "veiculos"
}

func (v *Veiculo) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

type Motorista struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Nome      string    `gorm:"type:varchar(255);not null" json:"nome"`
	CPF       string    `gorm:"type:varchar(11);not null" json:"cpf"`
	CNH       string    `gorm:"type:varchar(16);not null" json:"cnh"`
	Telefone  string    `gorm:"type:varchar(32)" json:"telefone"`
	Ativo     bool      `gorm:"not null;default:true" json:"ativo"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Motorista) TableName() string {
	return "motoristas"
}

func (m *Motorista) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type LinhaOnibus struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Nome      string    `gorm:"type:varchar(128);not null" json:"nome"`
	Empresa   string    `gorm:"type:varchar(128)" json:"empresa"`
	Origem    string    `gorm:"type:varchar(128);not null" json:"origem"`
	Destino   string    `gorm:"type:varchar(128);not null" json:"destino"`
	Horarios  string    `gorm:"type:text" json:"horarios"`
	Ativo     bool      `gorm:"not null;default:true" json:"ativo"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (LinhaOnibus) TableName() string {
	return "linhas_onibus"
}

func (l *LinhaOnibus) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

type TipoPassagem string

const (
	PassagemIda   TipoPassagem = "IDA"
	PassagemVolta TipoPassagem = "VOLTA"
)

// Passagem is an intercity bus ticket issued against an approved processo.
type Passagem struct {
	ID             uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	ProcessoID     uuid.UUID    `gorm:"type:uuid;not null;index" json:"processo_id"`
	Tipo           TipoPassagem `gorm:"type:varchar(8);not null" json:"tipo"`
	DataViagem     time.Time    `gorm:"not null" json:"data_viagem"`
	NumeroPassagem string       `gorm:"type:varchar(32)" json:"numero_passagem"`
	Empresa        string       `gorm:"type:varchar(128)" json:"empresa"`
	Valor          float64      `json:"valor"`
	Observacoes    string       `gorm:"type:text" json:"observacoes"`
	CreatedAt      time.Time    `gorm:"autoCreateTime" json:"created_at"`
}

func (Passagem) TableName() string {
	return "passagens"
}

func (p *Passagem) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
