package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tfd-service/internal/model"
)

func (e *testEnv) seedViagem(t *testing.T, dispatcher model.Principal) *model.Viagem {
	t.Helper()
	viagem, err := e.viagem.Create(context.Background(), dispatcher, CreateViagemInput{
		DataPartida: time.Now().Add(48 * time.Hour),
	})
	if err != nil {
		t.Fatalf("seed viagem: %v", err)
	}
	return viagem
}

func TestViagemCreate(t *testing.T) {
	env := newTestEnv(t)
	regulador := env.seedUsuario(t, "regulador", model.PerfilRegulacao, nil)

	viagem := env.seedViagem(t, principalFor(regulador))
	assert.Equal(t, model.ViagemPlanejada, viagem.Status)

	_, err := env.viagem.Create(context.Background(), principalFor(regulador), CreateViagemInput{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	atendente := env.seedUsuario(t, "atendente", model.PerfilAtendente, nil)
	_, err = env.viagem.Create(context.Background(), principalFor(atendente), CreateViagemInput{
		DataPartida: time.Now(),
	})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestViagemLifecycle(t *testing.T) {
	env := newTestEnv(t)
	regulador := env.seedUsuario(t, "regulador", model.PerfilRegulacao, nil)
	reg := principalFor(regulador)
	ctx := context.Background()

	viagem := env.seedViagem(t, reg)

	viagem, err := env.viagem.AdvanceStatus(ctx, reg, viagem.ID, model.ViagemEmCurso)
	require.NoError(t, err)
	assert.Equal(t, model.ViagemEmCurso, viagem.Status)

	// A trip underway can no longer be canceled.
	_, err = env.viagem.AdvanceStatus(ctx, reg, viagem.ID, model.ViagemCancelada)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	viagem, err = env.viagem.AdvanceStatus(ctx, reg, viagem.ID, model.ViagemConcluida)
	require.NoError(t, err)
	assert.Equal(t, model.ViagemConcluida, viagem.Status)

	_, err = env.viagem.AdvanceStatus(ctx, reg, viagem.ID, model.ViagemEmCurso)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestAddPassageiro_DuplicateRejected(t *testing.T) {
	env := newTestEnv(t)
	paciente := env.seedPaciente(t, "Maria das Dores", "11122233344")
	unidade := env.seedUnidade(t, "UBS Centro")
	atendente := env.seedUsuario(t, "atendente", model.PerfilAtendente, nil)
	regulador := env.seedUsuario(t, "regulador", model.PerfilRegulacao, nil)
	reg := principalFor(regulador)
	ctx := context.Background()

	processo := env.seedProcesso(t, principalFor(atendente), paciente.ID, unidade.ID, model.PrioridadeNormal)
	viagem := env.seedViagem(t, reg)

	passageiro, err := env.viagem.AddPassageiro(ctx, reg, viagem.ID, processo.ID, false)
	require.NoError(t, err)
	assert.Equal(t, processo.ID, passageiro.ProcessoID)

	_, err = env.viagem.AddPassageiro(ctx, reg, viagem.ID, processo.ID, true)
	assert.ErrorIs(t, err, ErrPassageiroDuplicado)

	// The same processo may board a different trip.
	outra := env.seedViagem(t, reg)
	_, err = env.viagem.AddPassageiro(ctx, reg, outra.ID, processo.ID, false)
	assert.NoError(t, err)
}

func TestManifest_FrozenAfterDeparture(t *testing.T) {
	env := newTestEnv(t)
	paciente := env.seedPaciente(t, "Maria das Dores", "11122233344")
	unidade := env.seedUnidade(t, "UBS Centro")
	atendente := env.seedUsuario(t, "atendente", model.PerfilAtendente, nil)
	regulador := env.seedUsuario(t, "regulador", model.PerfilRegulacao, nil)
	reg := principalFor(regulador)
	ctx := context.Background()

	processo := env.seedProcesso(t, principalFor(atendente), paciente.ID, unidade.ID, model.PrioridadeNormal)
	viagem := env.seedViagem(t, reg)

	passageiro, err := env.viagem.AddPassageiro(ctx, reg, viagem.ID, processo.ID, false)
	require.NoError(t, err)

	_, err = env.viagem.AdvanceStatus(ctx, reg, viagem.ID, model.ViagemEmCurso)
	require.NoError(t, err)

	outro := env.seedProcesso(t, principalFor(atendente), paciente.ID, unidade.ID, model.PrioridadeNormal)
	_, err = env.viagem.AddPassageiro(ctx, reg, viagem.ID, outro.ID, false)
	assert.ErrorIs(t, err, ErrViagemBloqueada)

	err = env.viagem.RemovePassageiro(ctx, reg, viagem.ID, passageiro.ID)
	assert.ErrorIs(t, err, ErrViagemBloqueada)
}

func TestRemovePassageiro(t *testing.T) {
	env := newTestEnv(t)
	paciente := env.seedPaciente(t, "Maria das Dores", "11122233344")
	unidade := env.seedUnidade(t, "UBS Centro")
	atendente := env.seedUsuario(t, "atendente", model.PerfilAtendente, nil)
	regulador := env.seedUsuario(t, "regulador", model.PerfilRegulacao, nil)
	reg := principalFor(regulador)
	ctx := context.Background()

	processo := env.seedProcesso(t, principalFor(atendente), paciente.ID, unidade.ID, model.PrioridadeNormal)
	viagem := env.seedViagem(t, reg)

	passageiro, err := env.viagem.AddPassageiro(ctx, reg, viagem.ID, processo.ID, false)
	require.NoError(t, err)

	require.NoError(t, env.viagem.RemovePassageiro(ctx, reg, viagem.ID, passageiro.ID))

	// Removal frees the slot for a fresh allocation.
	_, err = env.viagem.AddPassageiro(ctx, reg, viagem.ID, processo.ID, false)
	assert.NoError(t, err)

	err = env.viagem.RemovePassageiro(ctx, reg, viagem.ID, passageiro.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProcessosDisponiveis(t *testing.T) {
	env := newTestEnv(t)
	paciente := env.seedPaciente(t, "Maria das Dores", "11122233344")
	unidade := env.seedUnidade(t, "UBS Centro")
	atendente := env.seedUsuario(t, "atendente", model.PerfilAtendente, nil)
	regulador := env.seedUsuario(t, "regulador", model.PerfilRegulacao, nil)
	reg := principalFor(regulador)
	ctx := context.Background()

	pendente := env.seedProcesso(t, principalFor(atendente), paciente.ID, unidade.ID, model.PrioridadeNormal)
	aprovado := env.seedProcesso(t, principalFor(atendente), paciente.ID, unidade.ID, model.PrioridadeNormal)

	_, err := env.processo.Transition(ctx, reg, aprovado.ID, TransitionInput{
		StatusNovo: model.StatusEmAnalise, Descricao: "Em análise.",
	})
	require.NoError(t, err)
	_, err = env.processo.Transition(ctx, reg, aprovado.ID, TransitionInput{
		StatusNovo: model.StatusAprovado, Descricao: "Autorizado.",
	})
	require.NoError(t, err)

	disponiveis, err := env.viagem.ProcessosDisponiveis(ctx)
	require.NoError(t, err)
	require.Len(t, disponiveis, 1)
	assert.Equal(t, aprovado.ID, disponiveis[0].ID)
	assert.NotEqual(t, pendente.ID, disponiveis[0].ID)
}
