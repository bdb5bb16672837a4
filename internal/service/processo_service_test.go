package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tfd-service/internal/model"
)

func TestCreateProcesso(t *testing.T) {
	env := newTestEnv(t)
	paciente := env.seedPaciente(t, "Maria das Dores", "11122233344")
	unidade := env.seedUnidade(t, "UBS Centro")
	atendente := env.seedUsuario(t, "atendente", model.PerfilAtendente, nil)

	processo := env.seedProcesso(t, principalFor(atendente), paciente.ID, unidade.ID, model.PrioridadeNormal)

	year := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("TFD-%d-00001", year), processo.Numero)
	assert.Equal(t, model.StatusPendente, processo.Status)
	assert.Equal(t, atendente.ID, processo.AbertoPorID)
	assert.Nil(t, processo.ReguladoPorID)
	assert.Len(t, processo.TokenVerificacao, 16)
	assert.Equal(t, model.TokenAutenticidade(processo.ID, processo.Numero), processo.TokenVerificacao)

	require.Len(t, processo.Historico, 1)
	entrada := processo.Historico[0]
	assert.Nil(t, entrada.StatusAnterior)
	assert.Equal(t, model.StatusPendente, entrada.StatusNovo)
	assert.Equal(t, "Processo criado e encaminhado para regulação.", entrada.Descricao)
	assert.Equal(t, atendente.ID, entrada.UsuarioID)
}

func TestCreateProcesso_SequentialNumbers(t *testing.T) {
	env := newTestEnv(t)
	paciente := env.seedPaciente(t, "João Batista", "22233344455")
	unidade := env.seedUnidade(t, "UBS Norte")
	atendente := env.seedUsuario(t, "atendente", model.PerfilAtendente, nil)

	year := time.Now().Year()
	for i := 1; i <= 3; i++ {
		processo := env.seedProcesso(t, principalFor(atendente), paciente.ID, unidade.ID, model.PrioridadeNormal)
		assert.Equal(t, fmt.Sprintf("TFD-%d-%05d", year, i), processo.Numero)
	}
}

func TestCreateProcesso_NumberingRestartsEachYear(t *testing.T) {
	env := newTestEnv(t)
	paciente := env.seedPaciente(t, "João Batista", "22233344455")
	unidade := env.seedUnidade(t, "UBS Norte")
	atendente := env.seedUsuario(t, "atendente", model.PerfilAtendente, nil)

	year := time.Now().Year()
	require.NoError(t, env.db.Create(&model.ProcessoCounter{Ano: year - 1, Ultimo: 41}).Error)

	processo := env.seedProcesso(t, principalFor(atendente), paciente.ID, unidade.ID, model.PrioridadeNormal)
	assert.Equal(t, fmt.Sprintf("TFD-%d-%05d", year, 1), processo.Numero)

	// The previous year's counter stays untouched.
	var anterior model.ProcessoCounter
	require.NoError(t, env.db.First(&anterior, "ano = ?", year-1).Error)
	assert.Equal(t, 41, anterior.Ultimo)
}

func TestCreateProcesso_Validation(t *testing.T) {
	env := newTestEnv(t)
	paciente := env.seedPaciente(t, "Ana Lima", "33344455566")
	unidade := env.seedUnidade(t, "UBS Sul")
	atendente := env.seedUsuario(t, "atendente", model.PerfilAtendente, nil)

	base := CreateProcessoInput{
		PacienteID:        paciente.ID,
		UnidadeOrigemID:   unidade.ID,
		Especialidade:     "Cardiologia",
		CID:               "I20",
		DescricaoClinica:  "Angina instável em investigação.",
		MedicoSolicitante: "Dr. Paulo Neves",
		CidadeDestino:     "Manaus",
		UFDestino:         "AM",
		TipoTransporte:    model.TransporteVan,
	}

	cases := []struct {
		name   string
		mutate func(in *CreateProcessoInput)
	}{
		{"especialidade curta", func(in *CreateProcessoInput) { in.Especialidade = "Ca" }},
		{"cid curto", func(in *CreateProcessoInput) { in.CID = "I" }},
		{"descricao curta", func(in *CreateProcessoInput) { in.DescricaoClinica = "curta" }},
		{"uf invalida", func(in *CreateProcessoInput) { in.UFDestino = "AMA" }},
		{"transporte invalido", func(in *CreateProcessoInput) { in.TipoTransporte = "CARROCA" }},
		{"prioridade fora da faixa", func(in *CreateProcessoInput) { in.Prioridade = 9 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := base
			tc.mutate(&input)
			_, err := env.processo.Create(context.Background(), principalFor(atendente), input)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCreateProcesso_PermissionDenied(t *testing.T) {
	env := newTestEnv(t)
	paciente := env.seedPaciente(t, "Carlos Souza", "44455566677")
	unidade := env.seedUnidade(t, "UBS Leste")
	regulador := env.seedUsuario(t, "regulador", model.PerfilRegulacao, nil)

	_, err := env.processo.Create(context.Background(), principalFor(regulador), CreateProcessoInput{
		PacienteID:      paciente.ID,
		UnidadeOrigemID: unidade.ID,
	})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestTransition_HappyPath(t *testing.T) {
	env := newTestEnv(t)
	paciente := env.seedPaciente(t, "Maria das Dores", "11122233344")
	unidade := env.seedUnidade(t, "UBS Centro")
	atendente := env.seedUsuario(t, "atendente", model.PerfilAtendente, nil)
	regulador := env.seedUsuario(t, "regulador", model.PerfilRegulacao, nil)

	processo := env.seedProcesso(t, principalFor(atendente), paciente.ID, unidade.ID, model.PrioridadeNormal)
	ctx := context.Background()
	reg := principalFor(regulador)

	processo, err := env.processo.Transition(ctx, reg, processo.ID, TransitionInput{
		StatusNovo: model.StatusEmAnalise,
		Descricao:  "Documentação recebida pela regulação.",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusEmAnalise, processo.Status)
	require.NotNil(t, processo.ReguladoPorID)
	assert.Equal(t, regulador.ID, *processo.ReguladoPorID)

	processo, err = env.processo.Transition(ctx, reg, processo.ID, TransitionInput{
		StatusNovo: model.StatusAprovado,
		Descricao:  "Procedimento autorizado.",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusAprovado, processo.Status)

	agendada := time.Now().Add(72 * time.Hour)
	processo, err = env.processo.Transition(ctx, reg, processo.ID, TransitionInput{
		StatusNovo:       model.StatusAgendado,
		Descricao:        "Consulta marcada.",
		DataAgendada:     &agendada,
		LocalAtendimento: "FCECON - Manaus",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusAgendado, processo.Status)
	require.NotNil(t, processo.DataAgendada)
	assert.Equal(t, "FCECON - Manaus", processo.LocalAtendimento)
	require.NotNil(t, processo.ReguladoPorID)
	assert.Equal(t, regulador.ID, *processo.ReguladoPorID)

	processo, err = env.processo.Transition(ctx, reg, processo.ID, TransitionInput{
		StatusNovo: model.StatusConcluido,
		Descricao:  "Atendimento realizado.",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusConcluido, processo.Status)
	require.NotNil(t, processo.ReguladoPorID)
	assert.Equal(t, regulador.ID, *processo.ReguladoPorID)

	// Opening entry plus four transitions, newest first.
	require.Len(t, processo.Historico, 5)
	assert.Equal(t, model.StatusConcluido, processo.Historico[0].StatusNovo)
	require.NotNil(t, processo.Historico[0].StatusAnterior)
	assert.Equal(t, model.StatusAgendado, *processo.Historico[0].StatusAnterior)
}

func TestTransition_DenialAndAppeal(t *testing.T) {
	env := newTestEnv(t)
	paciente := env.seedPaciente(t, "Pedro Alves", "55566677788")
	unidade := env.seedUnidade(t, "UBS Oeste")
	atendente := env.seedUsuario(t, "atendente", model.PerfilAtendente, nil)
	regulador := env.seedUsuario(t, "regulador", model.PerfilRegulacao, nil)

	processo := env.seedProcesso(t, principalFor(atendente), paciente.ID, unidade.ID, model.PrioridadeNormal)
	ctx := context.Background()
	reg := principalFor(regulador)

	_, err := env.processo.Transition(ctx, reg, processo.ID, TransitionInput{
		StatusNovo: model.StatusEmAnalise, Descricao: "Em análise.",
	})
	require.NoError(t, err)

	processo, err = env.processo.Transition(ctx, reg, processo.ID, TransitionInput{
		StatusNovo:     model.StatusNegado,
		Descricao:      "Negado por falta de laudo.",
		MotivoNegativa: "Laudo médico ausente.",
	})
	require.NoError(t, err)
	assert.Equal(t, "Laudo médico ausente.", processo.MotivoNegativa)

	processo, err = env.processo.Transition(ctx, reg, processo.ID, TransitionInput{
		StatusNovo: model.StatusRecurso, Descricao: "Família apresentou recurso.",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusRecurso, processo.Status)

	processo, err = env.processo.Transition(ctx, reg, processo.ID, TransitionInput{
		StatusNovo: model.StatusEmAnalise, Descricao: "Reanálise com laudo anexado.",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusEmAnalise, processo.Status)
}

func TestTransition_Illegal(t *testing.T) {
	env := newTestEnv(t)
	paciente := env.seedPaciente(t, "Rita Campos", "66677788899")
	unidade := env.seedUnidade(t, "UBS Centro")
	atendente := env.seedUsuario(t, "atendente", model.PerfilAtendente, nil)
	regulador := env.seedUsuario(t, "regulador", model.PerfilRegulacao, nil)

	processo := env.seedProcesso(t, principalFor(atendente), paciente.ID, unidade.ID, model.PrioridadeNormal)
	ctx := context.Background()
	reg := principalFor(regulador)

	// PENDENTE cannot be approved without passing through EM_ANALISE.
	_, err := env.processo.Transition(ctx, reg, processo.ID, TransitionInput{
		StatusNovo: model.StatusAprovado, Descricao: "Tentativa de pulo.",
	})
	assert.ErrorIs(t, err, ErrIllegalTransition)

	_, err = env.processo.Transition(ctx, reg, processo.ID, TransitionInput{
		StatusNovo: model.StatusCancelado, Descricao: "Cancelado a pedido.",
	})
	require.NoError(t, err)

	// Terminal states accept nothing.
	_, err = env.processo.Transition(ctx, reg, processo.ID, TransitionInput{
		StatusNovo: model.StatusEmAnalise, Descricao: "Reabrir.",
	})
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestTransition_PermissionDenied(t *testing.T) {
	env := newTestEnv(t)
	paciente := env.seedPaciente(t, "Lucas Reis", "77788899900")
	unidade := env.seedUnidade(t, "UBS Centro")
	atendente := env.seedUsuario(t, "atendente", model.PerfilAtendente, nil)
	ubs := env.seedUsuario(t, "ubs", model.PerfilUBS, &unidade.ID)

	processo := env.seedProcesso(t, principalFor(atendente), paciente.ID, unidade.ID, model.PrioridadeNormal)

	_, err := env.processo.Transition(context.Background(), principalFor(ubs), processo.ID, TransitionInput{
		StatusNovo: model.StatusEmAnalise, Descricao: "Sem permissão.",
	})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestFila_Ordering(t *testing.T) {
	env := newTestEnv(t)
	paciente := env.seedPaciente(t, "Maria das Dores", "11122233344")
	unidade := env.seedUnidade(t, "UBS Centro")
	atendente := env.seedUsuario(t, "atendente", model.PerfilAtendente, nil)
	abertura := principalFor(atendente)

	antigo := env.seedProcesso(t, abertura, paciente.ID, unidade.ID, model.PrioridadeNormal)
	recente := env.seedProcesso(t, abertura, paciente.ID, unidade.ID, model.PrioridadeNormal)
	urgente := env.seedProcesso(t, abertura, paciente.ID, unidade.ID, model.PrioridadeEmergencia)

	// Pin creation times so intra-tier order is unambiguous.
	base := time.Now().Add(-48 * time.Hour)
	for i, id := range []string{antigo.ID.String(), recente.ID.String(), urgente.ID.String()} {
		err := env.db.Model(&model.ProcessoTFD{}).
			Where("id = ?", id).
			Update("created_at", base.Add(time.Duration(i)*time.Hour)).Error
		require.NoError(t, err)
	}

	fila, err := env.processo.Fila(context.Background(), "Oncologia")
	require.NoError(t, err)
	require.Len(t, fila, 3)

	// Emergency first regardless of age, then oldest first.
	assert.Equal(t, urgente.ID, fila[0].Processo.ID)
	assert.Equal(t, antigo.ID, fila[1].Processo.ID)
	assert.Equal(t, recente.ID, fila[2].Processo.ID)
	assert.Equal(t, 1, fila[0].Posicao)
	assert.Equal(t, 2, fila[1].Posicao)
	assert.Equal(t, 3, fila[2].Posicao)
}

func TestFila_PriorityEditReorders(t *testing.T) {
	env := newTestEnv(t)
	paciente := env.seedPaciente(t, "Maria das Dores", "11122233344")
	unidade := env.seedUnidade(t, "UBS Centro")
	atendente := env.seedUsuario(t, "atendente", model.PerfilAtendente, nil)
	abertura := principalFor(atendente)

	primeiro := env.seedProcesso(t, abertura, paciente.ID, unidade.ID, model.PrioridadeNormal)
	segundo := env.seedProcesso(t, abertura, paciente.ID, unidade.ID, model.PrioridadeNormal)

	base := time.Now().Add(-24 * time.Hour)
	require.NoError(t, env.db.Model(&model.ProcessoTFD{}).Where("id = ?", primeiro.ID).Update("created_at", base).Error)
	require.NoError(t, env.db.Model(&model.ProcessoTFD{}).Where("id = ?", segundo.ID).Update("created_at", base.Add(time.Hour)).Error)

	prioridade := model.PrioridadeEmergencia
	_, err := env.processo.Edit(context.Background(), abertura, segundo.ID, EditProcessoInput{Prioridade: &prioridade})
	require.NoError(t, err)

	fila, err := env.processo.Fila(context.Background(), "Oncologia")
	require.NoError(t, err)
	require.Len(t, fila, 2)
	assert.Equal(t, segundo.ID, fila[0].Processo.ID)
	assert.Equal(t, primeiro.ID, fila[1].Processo.ID)
}

func TestFila_RequiresEspecialidade(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.processo.Fila(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestList_UBSScopedToOwnUnit(t *testing.T) {
	env := newTestEnv(t)
	paciente := env.seedPaciente(t, "Maria das Dores", "11122233344")
	unidadeA := env.seedUnidade(t, "UBS Centro")
	unidadeB := env.seedUnidade(t, "UBS Norte")
	atendente := env.seedUsuario(t, "atendente", model.PerfilAtendente, nil)
	ubsUser := env.seedUsuario(t, "ubs", model.PerfilUBS, &unidadeA.ID)

	env.seedProcesso(t, principalFor(atendente), paciente.ID, unidadeA.ID, model.PrioridadeNormal)
	env.seedProcesso(t, principalFor(atendente), paciente.ID, unidadeB.ID, model.PrioridadeNormal)

	page, err := env.processo.List(context.Background(), principalFor(ubsUser), ListProcessosOptions{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, unidadeA.ID, page.Items[0].UnidadeOrigemID)

	// Regulation sees both units.
	regulador := env.seedUsuario(t, "regulador", model.PerfilRegulacao, nil)
	page, err = env.processo.List(context.Background(), principalFor(regulador), ListProcessosOptions{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
}

func TestDashboard_Counts(t *testing.T) {
	env := newTestEnv(t)
	paciente := env.seedPaciente(t, "Maria das Dores", "11122233344")
	unidade := env.seedUnidade(t, "UBS Centro")
	atendente := env.seedUsuario(t, "atendente", model.PerfilAtendente, nil)
	regulador := env.seedUsuario(t, "regulador", model.PerfilRegulacao, nil)
	ctx := context.Background()

	env.seedProcesso(t, principalFor(atendente), paciente.ID, unidade.ID, model.PrioridadeNormal)
	analisado := env.seedProcesso(t, principalFor(atendente), paciente.ID, unidade.ID, model.PrioridadeNormal)
	_, err := env.processo.Transition(ctx, principalFor(regulador), analisado.ID, TransitionInput{
		StatusNovo: model.StatusEmAnalise, Descricao: "Em análise.",
	})
	require.NoError(t, err)

	painel, err := env.processo.Dashboard(ctx, principalFor(regulador))
	require.NoError(t, err)
	assert.EqualValues(t, 2, painel.Stats.Total)
	assert.EqualValues(t, 1, painel.Stats.Pendentes)
	assert.EqualValues(t, 1, painel.Stats.EmAnalise)
	assert.Len(t, painel.Recentes, 2)
}

func TestEdit_DoesNotTouchStatusOrHistory(t *testing.T) {
	env := newTestEnv(t)
	paciente := env.seedPaciente(t, "Maria das Dores", "11122233344")
	unidade := env.seedUnidade(t, "UBS Centro")
	atendente := env.seedUsuario(t, "atendente", model.PerfilAtendente, nil)

	processo := env.seedProcesso(t, principalFor(atendente), paciente.ID, unidade.ID, model.PrioridadeNormal)

	cidade := "Belém"
	uf := "pa"
	editado, err := env.processo.Edit(context.Background(), principalFor(atendente), processo.ID, EditProcessoInput{
		CidadeDestino: &cidade,
		UFDestino:     &uf,
	})
	require.NoError(t, err)
	assert.Equal(t, "Belém", editado.CidadeDestino)
	assert.Equal(t, "PA", editado.UFDestino)
	assert.Equal(t, model.StatusPendente, editado.Status)
	assert.Len(t, editado.Historico, 1)
}

func TestAddPassagem(t *testing.T) {
	env := newTestEnv(t)
	paciente := env.seedPaciente(t, "Maria das Dores", "11122233344")
	unidade := env.seedUnidade(t, "UBS Centro")
	atendente := env.seedUsuario(t, "atendente", model.PerfilAtendente, nil)

	processo := env.seedProcesso(t, principalFor(atendente), paciente.ID, unidade.ID, model.PrioridadeNormal)

	passagem, err := env.processo.AddPassagem(context.Background(), principalFor(atendente), processo.ID, PassagemInput{
		Tipo:       model.PassagemIda,
		DataViagem: time.Now().Add(24 * time.Hour),
		Empresa:    "Eucatur",
		Valor:      180.50,
	})
	require.NoError(t, err)
	assert.Equal(t, processo.ID, passagem.ProcessoID)

	_, err = env.processo.AddPassagem(context.Background(), principalFor(atendente), processo.ID, PassagemInput{
		Tipo:       "TRANSFER",
		DataViagem: time.Now(),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestEspecialidades(t *testing.T) {
	env := newTestEnv(t)
	paciente := env.seedPaciente(t, "Maria das Dores", "11122233344")
	unidade := env.seedUnidade(t, "UBS Centro")
	atendente := env.seedUsuario(t, "atendente", model.PerfilAtendente, nil)
	abertura := principalFor(atendente)

	env.seedProcesso(t, abertura, paciente.ID, unidade.ID, model.PrioridadeNormal)
	_, err := env.processo.Create(context.Background(), abertura, CreateProcessoInput{
		PacienteID:        paciente.ID,
		UnidadeOrigemID:   unidade.ID,
		Especialidade:     "Cardiologia",
		CID:               "I20",
		DescricaoClinica:  "Avaliação de dor torácica recorrente.",
		MedicoSolicitante: "Dr. Paulo Neves",
		CidadeDestino:     "Manaus",
		UFDestino:         "AM",
		TipoTransporte:    model.TransporteVan,
	})
	require.NoError(t, err)

	especialidades, err := env.processo.Especialidades(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Cardiologia", "Oncologia"}, especialidades)
}
