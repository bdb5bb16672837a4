package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tfd-service/internal/model"
	"tfd-service/internal/repository"
)

// PublicoService serves the two unauthenticated endpoints: status lookup by
// case number / patient CPF, and document-authenticity verification by QR
// token. Both return only redacted projections.
type PublicoService struct {
	processoRepo *repository.ProcessoRepository
	baseURL      string
}

func NewPublicoService(processoRepo *repository.ProcessoRepository, baseURL string) *PublicoService {
	return &PublicoService{processoRepo: processoRepo, baseURL: baseURL}
}

// Consulta resolves an identifier (case number or CPF) to the public status
// projection of the patient's most recent case.
func (s *PublicoService) Consulta(ctx context.Context, identificador string) (*model.ConsultaPublica, error) {
	identificador = strings.TrimSpace(identificador)
	if identificador == "" {
		return nil, fmt.Errorf("%w: identificador is required", ErrInvalidInput)
	}
	cpf := soDigitos(identificador)

	processo, err := s.processoRepo.FindByIdentificador(ctx, identificador, cpf)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	consulta := &model.ConsultaPublica{
		Numero:           processo.Numero,
		Especialidade:    processo.Especialidade,
		Status:           processo.Status,
		DataAgendada:     processo.DataAgendada,
		LocalAtendimento: processo.LocalAtendimento,
		UpdatedAt:        processo.UpdatedAt,
	}
	if processo.Paciente != nil {
		consulta.Paciente = processo.Paciente.Nome
	}
	if processo.UnidadeOrigem != nil {
		consulta.UnidadeOrigem = processo.UnidadeOrigem.Nome
	}
	// Denial reasons are public only while the case actually is denied.
	if processo.Status == model.StatusNegado {
		consulta.MotivoNegativa = processo.MotivoNegativa
	}
	return consulta, nil
}

// Validar checks a document token. Unknown and malformed tokens get the same
// neutral negative answer, so the endpoint leaks nothing about which tokens
// exist.
func (s *PublicoService) Validar(ctx context.Context, token string) (*model.ValidacaoDocumento, error) {
	token = strings.ToLower(strings.TrimSpace(token))

	negativa := &model.ValidacaoDocumento{
		Valido:   false,
		Mensagem: "Documento não reconhecido pelo sistema.",
	}
	if len(token) != 16 {
		return negativa, nil
	}

	processo, err := s.processoRepo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return negativa, nil
		}
		return nil, err
	}

	autenticado := &model.ProcessoAutenticado{
		Numero:        processo.Numero,
		Status:        processo.Status,
		Especialidade: processo.Especialidade,
		CriadoEm:      processo.CreatedAt,
	}
	if processo.Paciente != nil {
		autenticado.Paciente = mascararNome(processo.Paciente.Nome)
	}
	if processo.UnidadeOrigem != nil {
		autenticado.Unidade = processo.UnidadeOrigem.Nome
	}

	return &model.ValidacaoDocumento{
		Valido:   true,
		Mensagem: "Documento autêntico.",
		Processo: autenticado,
	}, nil
}

// QRCodePayload is what the authenticated document-print flow embeds in the
// QR image: the token and the public validation URL.
type QRCodePayload struct {
	Hash     string              `json:"hash"`
	URL      string              `json:"url"`
	Processo model.ProcessoBrief `json:"processo"`
}

func (s *PublicoService) QRCode(ctx context.Context, processoID uuid.UUID) (*QRCodePayload, error) {
	processo, err := s.processoRepo.GetByID(ctx, processoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	payload := &QRCodePayload{
		Hash: processo.TokenVerificacao,
		URL:  fmt.Sprintf("%s/validar/%s", s.baseURL, processo.TokenVerificacao),
		Processo: model.ProcessoBrief{
			ID:     processo.ID,
			Numero: processo.Numero,
			Status: processo.Status,
		},
	}
	if processo.Paciente != nil {
		payload.Processo.Paciente = processo.Paciente.Nome
	}
	return payload, nil
}

// mascararNome keeps the first three characters of the patient name.
func mascararNome(nome string) string {
	runes := []rune(nome)
	if len(runes) <= 3 {
		return nome + "***"
	}
	return string(runes[:3]) + "***"
}
