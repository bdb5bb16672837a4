package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"tfd-service/internal/audit"
	"tfd-service/internal/model"
	"tfd-service/internal/repository"
)

type testEnv struct {
	db       *gorm.DB
	processo *ProcessoService
	viagem   *ViagemService
	cadastro *CadastroService
	vale     *ValeService
	publico  *PublicoService
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:mem_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	err = db.AutoMigrate(
		&model.Paciente{},
		&model.Unidade{},
		&model.Usuario{},
		&model.ProcessoTFD{},
		&model.HistoricoProcesso{},
		&model.ProcessoCounter{},
		&model.Viagem{},
		&model.PassageiroViagem{},
		&model.Veiculo{},
		&model.Motorista{},
		&model.LinhaOnibus{},
		&model.CasaApoio{},
		&model.ValeHospedagem{},
		&model.Passagem{},
		&model.Log{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)

	recorder := audit.NewRecorder(db, zerolog.Nop(), 64)
	t.Cleanup(recorder.Close)

	usuarioRepo := repository.NewUsuarioRepository(db)
	processoRepo := repository.NewProcessoRepository(db)
	viagemRepo := repository.NewViagemRepository(db)
	cadastroRepo := repository.NewCadastroRepository(db)
	valeRepo := repository.NewValeRepository(db)

	return &testEnv{
		db:       db,
		processo: NewProcessoService(usuarioRepo, processoRepo, cadastroRepo, recorder),
		viagem:   NewViagemService(viagemRepo, recorder),
		cadastro: NewCadastroService(cadastroRepo, recorder),
		vale:     NewValeService(valeRepo, processoRepo, recorder),
		publico:  NewPublicoService(processoRepo, "https://tfd.example.gov.br"),
	}
}

func (e *testEnv) seedPaciente(t *testing.T, nome, cpf string) *model.Paciente {
	t.Helper()
	paciente := &model.Paciente{
		Nome:           nome,
		CPF:            cpf,
		DataNascimento: time.Date(1980, 5, 10, 0, 0, 0, 0, time.UTC),
		Cidade:         "Manacapuru",
		UF:             "AM",
	}
	if err := e.db.Create(paciente).Error; err != nil {
		t.Fatalf("seed paciente: %v", err)
	}
	return paciente
}

func (e *testEnv) seedUnidade(t *testing.T, nome string) *model.Unidade {
	t.Helper()
	unidade := &model.Unidade{Nome: nome, CNES: "1234567", Tipo: "UBS", Ativo: true}
	if err := e.db.Create(unidade).Error; err != nil {
		t.Fatalf("seed unidade: %v", err)
	}
	return unidade
}

func (e *testEnv) seedUsuario(t *testing.T, nome string, perfil model.Perfil, unidadeID *uuid.UUID) *model.Usuario {
	t.Helper()
	usuario := &model.Usuario{
		Nome:      nome,
		Login:     nome + "_" + uuid.NewString()[:8],
		Perfil:    perfil,
		Ativo:     true,
		UnidadeID: unidadeID,
	}
	if err := e.db.Create(usuario).Error; err != nil {
		t.Fatalf("seed usuario: %v", err)
	}
	return usuario
}

func principalFor(usuario *model.Usuario) model.Principal {
	return model.Principal{UserID: usuario.ID, Nome: usuario.Nome, Perfil: usuario.Perfil}
}

// seedProcesso opens a case through the service so numbering, token and the
// opening history entry behave exactly as in production.
func (e *testEnv) seedProcesso(t *testing.T, abertoPor model.Principal, pacienteID, unidadeID uuid.UUID, prioridade int) *model.ProcessoTFD {
	t.Helper()
	processo, err := e.processo.Create(context.Background(), abertoPor, CreateProcessoInput{
		PacienteID:        pacienteID,
		UnidadeOrigemID:   unidadeID,
		Especialidade:     "Oncologia",
		CID:               "C50",
		DescricaoClinica:  "Paciente em investigação de neoplasia mamária.",
		MedicoSolicitante: "Dra. Helena Prado",
		CidadeDestino:     "Manaus",
		UFDestino:         "AM",
		TipoTransporte:    model.TransporteOnibus,
		Prioridade:        prioridade,
	})
	if err != nil {
		t.Fatalf("seed processo: %v", err)
	}
	return processo
}
