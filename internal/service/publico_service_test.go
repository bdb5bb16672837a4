package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tfd-service/internal/model"
)

func TestConsultaPublica(t *testing.T) {
	env := newTestEnv(t)
	paciente := env.seedPaciente(t, "Maria das Dores", "11122233344")
	unidade := env.seedUnidade(t, "UBS Centro")
	atendente := env.seedUsuario(t, "atendente", model.PerfilAtendente, nil)

	processo := env.seedProcesso(t, principalFor(atendente), paciente.ID, unidade.ID, model.PrioridadeNormal)
	ctx := context.Background()

	porNumero, err := env.publico.Consulta(ctx, processo.Numero)
	require.NoError(t, err)
	assert.Equal(t, processo.Numero, porNumero.Numero)
	assert.Equal(t, model.StatusPendente, porNumero.Status)
	assert.Equal(t, "UBS Centro", porNumero.UnidadeOrigem)
	assert.Empty(t, porNumero.MotivoNegativa)

	// CPF lookup works with punctuation, returning the newest case.
	porCPF, err := env.publico.Consulta(ctx, "111.222.333-44")
	require.NoError(t, err)
	assert.Equal(t, processo.Numero, porCPF.Numero)

	_, err = env.publico.Consulta(ctx, "TFD-1999-99999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConsultaPublica_MotivoNegativaOnlyWhileDenied(t *testing.T) {
	env := newTestEnv(t)
	paciente := env.seedPaciente(t, "Pedro Alves", "55566677788")
	unidade := env.seedUnidade(t, "UBS Centro")
	atendente := env.seedUsuario(t, "atendente", model.PerfilAtendente, nil)
	regulador := env.seedUsuario(t, "regulador", model.PerfilRegulacao, nil)
	reg := principalFor(regulador)
	ctx := context.Background()

	processo := env.seedProcesso(t, principalFor(atendente), paciente.ID, unidade.ID, model.PrioridadeNormal)

	_, err := env.processo.Transition(ctx, reg, processo.ID, TransitionInput{
		StatusNovo: model.StatusEmAnalise, Descricao: "Em análise.",
	})
	require.NoError(t, err)
	_, err = env.processo.Transition(ctx, reg, processo.ID, TransitionInput{
		StatusNovo:     model.StatusNegado,
		Descricao:      "Negado.",
		MotivoNegativa: "Documentação incompleta.",
	})
	require.NoError(t, err)

	consulta, err := env.publico.Consulta(ctx, processo.Numero)
	require.NoError(t, err)
	assert.Equal(t, model.StatusNegado, consulta.Status)
	assert.Equal(t, "Documentação incompleta.", consulta.MotivoNegativa)

	// Once the case moves on, the denial reason disappears from the
	// public view even though it stays stored.
	_, err = env.processo.Transition(ctx, reg, processo.ID, TransitionInput{
		StatusNovo: model.StatusRecurso, Descricao: "Recurso apresentado.",
	})
	require.NoError(t, err)

	consulta, err = env.publico.Consulta(ctx, processo.Numero)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRecurso, consulta.Status)
	assert.Empty(t, consulta.MotivoNegativa)
}

func TestValidarDocumento(t *testing.T) {
	env := newTestEnv(t)
	paciente := env.seedPaciente(t, "Maria das Dores", "11122233344")
	unidade := env.seedUnidade(t, "UBS Centro")
	atendente := env.seedUsuario(t, "atendente", model.PerfilAtendente, nil)

	processo := env.seedProcesso(t, principalFor(atendente), paciente.ID, unidade.ID, model.PrioridadeNormal)
	ctx := context.Background()

	resultado, err := env.publico.Validar(ctx, processo.TokenVerificacao)
	require.NoError(t, err)
	assert.True(t, resultado.Valido)
	assert.Equal(t, "Documento autêntico.", resultado.Mensagem)
	require.NotNil(t, resultado.Processo)
	assert.Equal(t, processo.Numero, resultado.Processo.Numero)
	assert.Equal(t, "Mar***", resultado.Processo.Paciente)
}

func TestValidarDocumento_NeutralNegative(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	malformado, err := env.publico.Validar(ctx, "abc")
	require.NoError(t, err)
	desconhecido, err2 := env.publico.Validar(ctx, "0123456789abcdef")
	require.NoError(t, err2)

	// Malformed and unknown tokens are indistinguishable to the caller.
	assert.False(t, malformado.Valido)
	assert.False(t, desconhecido.Valido)
	assert.Equal(t, malformado.Mensagem, desconhecido.Mensagem)
	assert.Nil(t, malformado.Processo)
	assert.Nil(t, desconhecido.Processo)
}

func TestQRCodePayload(t *testing.T) {
	env := newTestEnv(t)
	paciente := env.seedPaciente(t, "Maria das Dores", "11122233344")
	unidade := env.seedUnidade(t, "UBS Centro")
	atendente := env.seedUsuario(t, "atendente", model.PerfilAtendente, nil)

	processo := env.seedProcesso(t, principalFor(atendente), paciente.ID, unidade.ID, model.PrioridadeNormal)

	payload, err := env.publico.QRCode(context.Background(), processo.ID)
	require.NoError(t, err)
	assert.Equal(t, processo.TokenVerificacao, payload.Hash)
	assert.Equal(t, "https://tfd.example.gov.br/validar/"+processo.TokenVerificacao, payload.URL)
	assert.Equal(t, processo.Numero, payload.Processo.Numero)

	// Reissuing the document yields the same token: derivation is stable.
	again, err := env.publico.QRCode(context.Background(), processo.ID)
	require.NoError(t, err)
	assert.Equal(t, payload.Hash, again.Hash)
}
