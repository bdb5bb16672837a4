package model

import (
	"time"

	"github.com/google/uuid"
)

type UsuarioBrief struct {
	ID     uuid.UUID `json:"id"`
	Nome   string    `json:"nome"`
	Perfil Perfil    `json:"perfil"`
}

type PacienteBrief struct {
	ID        uuid.UUID `json:"id"`
	Nome      string    `json:"nome"`
	CPF       string    `json:"cpf"`
	CartaoSUS string    `json:"cartao_sus,omitempty"`
}

type UnidadeBrief struct {
	ID   uuid.UUID `json:"id"`
	Nome string    `json:"nome"`
	CNES string    `json:"cnes"`
}

type ProcessoBrief struct {
	ID       uuid.UUID      `json:"id"`
	Numero   string         `json:"numero"`
	Paciente string         `json:"paciente"`
	Status   StatusProcesso `json:"status"`
}

// FilaItem is one row of the per-specialty waiting queue. Posicao is derived
// from list order at read time and never stored.
type FilaItem struct {
	Posicao  int         `json:"posicao"`
	Processo ProcessoTFD `json:"processo"`
}

// ConsultaPublica is the unauthenticated status-lookup projection. Clinical
// description, documents and identifiers beyond the case number are never
// included. MotivoNegativa is present only while the case is NEGADO.
type ConsultaPublica struct {
	Numero           string         `json:"numero"`
	Paciente         string         `json:"paciente"`
	UnidadeOrigem    string         `json:"unidade_origem"`
	Especialidade    string         `json:"especialidade"`
	Status           StatusProcesso `json:"status"`
	DataAgendada     *time.Time     `json:"data_agendada"`
	LocalAtendimento string         `json:"local_atendimento"`
	MotivoNegativa   string         `json:"motivo_negativa,omitempty"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// ValidacaoDocumento is the public document-authenticity result. Processo is
// nil when the token matches nothing; the message stays neutral either way.
type ValidacaoDocumento struct {
	Valido   bool                 `json:"valido"`
	Mensagem string               `json:"mensagem"`
	Processo *ProcessoAutenticado `json:"processo,omitempty"`
}

// ProcessoAutenticado redacts the patient name down to its first characters.
type ProcessoAutenticado struct {
	Numero        string         `json:"numero"`
	Paciente      string         `json:"paciente"`
	Status        StatusProcesso `json:"status"`
	Especialidade string         `json:"especialidade"`
	Unidade       string         `json:"unidade"`
	CriadoEm      time.Time      `json:"criado_em"`
}

type DashboardStats struct {
	Total      int64 `json:"total"`
	Pendentes  int64 `json:"pendentes"`
	EmAnalise  int64 `json:"em_analise"`
	Aprovados  int64 `json:"aprovados"`
	Negados    int64 `json:"negados"`
	Agendados  int64 `json:"agendados"`
	Concluidos int64 `json:"concluidos"`
	Cancelados int64 `json:"cancelados"`
}

type Dashboard struct {
	Stats    DashboardStats `json:"stats"`
	Recentes []ProcessoTFD  `json:"recentes"`
}

// CasaApoioOcupacao pairs a casa with its current occupancy (ATIVO vales).
type CasaApoioOcupacao struct {
	CasaApoio
	LeitosOcupados int64 `json:"leitos_ocupados"`
}
