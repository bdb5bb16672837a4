package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tfd-service/internal/model"
)

func TestCreatePaciente(t *testing.T) {
	env := newTestEnv(t)
	atendente := env.seedUsuario(t, "atendente", model.PerfilAtendente, nil)
	ctx := context.Background()

	paciente, err := env.cadastro.CreatePaciente(ctx, principalFor(atendente), PacienteInput{
		Nome:           "Maria das Dores",
		CPF:            "111.222.333-44",
		DataNascimento: time.Date(1975, 3, 2, 0, 0, 0, 0, time.UTC),
		Cidade:         "Manacapuru",
	})
	require.NoError(t, err)
	// CPF is normalized to digits, UF defaults to the home state.
	assert.Equal(t, "11122233344", paciente.CPF)
	assert.Equal(t, "AM", paciente.UF)

	_, err = env.cadastro.CreatePaciente(ctx, principalFor(atendente), PacienteInput{
		Nome: "X", CPF: "123",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdatePaciente(t *testing.T) {
	env := newTestEnv(t)
	atendente := env.seedUsuario(t, "atendente", model.PerfilAtendente, nil)
	paciente := env.seedPaciente(t, "Jose Maria", "22233344455")
	ctx := context.Background()

	atualizado, err := env.cadastro.UpdatePaciente(ctx, principalFor(atendente), paciente.ID, PacienteInput{
		Nome:           "José Maria da Silva",
		CPF:            paciente.CPF,
		DataNascimento: paciente.DataNascimento,
		Telefone:       "92 99999-0000",
	})
	require.NoError(t, err)
	assert.Equal(t, "José Maria da Silva", atualizado.Nome)
	assert.Equal(t, "92 99999-0000", atualizado.Telefone)
}

func TestCreateUnidade_RestrictedToSecAdm(t *testing.T) {
	env := newTestEnv(t)
	atendente := env.seedUsuario(t, "atendente", model.PerfilAtendente, nil)
	secadm := env.seedUsuario(t, "secadm", model.PerfilSecAdm, nil)
	ctx := context.Background()

	_, err := env.cadastro.CreateUnidade(ctx, principalFor(atendente), UnidadeInput{Nome: "UBS Nova", CNES: "7654321"})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	unidade, err := env.cadastro.CreateUnidade(ctx, principalFor(secadm), UnidadeInput{Nome: "UBS Nova", CNES: "7654321"})
	require.NoError(t, err)
	assert.True(t, unidade.Ativo)

	require.NoError(t, env.cadastro.DesativarUnidade(ctx, principalFor(secadm), unidade.ID))

	ativas, err := env.cadastro.ListUnidades(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, ativas)
}

func TestCreateVeiculo(t *testing.T) {
	env := newTestEnv(t)
	regulador := env.seedUsuario(t, "regulador", model.PerfilRegulacao, nil)
	ctx := context.Background()

	veiculo, err := env.cadastro.CreateVeiculo(ctx, principalFor(regulador), VeiculoInput{
		Placa:      "abc1d23",
		Modelo:     "Sprinter",
		Capacidade: 15,
	})
	require.NoError(t, err)
	assert.Equal(t, "ABC1D23", veiculo.Placa)

	_, err = env.cadastro.CreateVeiculo(ctx, principalFor(regulador), VeiculoInput{
		Placa: "ABC", Modelo: "Van", Capacidade: 10,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateLinha(t *testing.T) {
	env := newTestEnv(t)
	regulador := env.seedUsuario(t, "regulador", model.PerfilRegulacao, nil)
	ctx := context.Background()

	linha, err := env.cadastro.CreateLinha(ctx, principalFor(regulador), LinhaInput{
		Nome:    "Manacapuru - Manaus",
		Empresa: "Aruanã",
		Origem:  "Manacapuru",
		Destino: "Manaus",
	})
	require.NoError(t, err)
	assert.True(t, linha.Ativo)

	linhas, err := env.cadastro.ListLinhas(ctx, true)
	require.NoError(t, err)
	assert.Len(t, linhas, 1)
}
