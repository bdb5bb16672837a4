package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`CREATE TABLE IF NOT EXISTS unidades (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		nome VARCHAR(255) NOT NULL,
		cnes VARCHAR(16) NOT NULL,
		tipo VARCHAR(32),
		ativo BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS usuarios (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		nome VARCHAR(255) NOT NULL,
		login VARCHAR(64) NOT NULL,
		perfil VARCHAR(16) NOT NULL,
		ativo BOOLEAN NOT NULL DEFAULT TRUE,
		unidade_id UUID REFERENCES unidades(id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_usuarios_login ON usuarios (login);`,
	`CREATE TABLE IF NOT EXISTS pacientes (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		nome VARCHAR(255) NOT NULL,
		cpf VARCHAR(11) NOT NULL,
		data_nascimento TIMESTAMPTZ NOT NULL,
		sexo VARCHAR(16),
		nome_mae VARCHAR(255),
		telefone VARCHAR(32),
		endereco VARCHAR(255),
		bairro VARCHAR(128),
		cidade VARCHAR(128),
		uf VARCHAR(2),
		cep VARCHAR(8),
		cartao_sus VARCHAR(20),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_pacientes_cpf ON pacientes (cpf);`,
	`CREATE INDEX IF NOT EXISTS idx_pacientes_nome ON pacientes (nome);`,
	`CREATE TABLE IF NOT EXISTS processo_counters (
		ano INTEGER PRIMARY KEY,
		ultimo INTEGER NOT NULL DEFAULT 0
	);`,
	`CREATE TABLE IF NOT EXISTS processos_tfd (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		numero VARCHAR(16) NOT NULL,
		paciente_id UUID NOT NULL REFERENCES pacientes(id) ON DELETE CASCADE,
		unidade_origem_id UUID NOT NULL REFERENCES unidades(id) ON DELETE CASCADE,
		aberto_por_id UUID NOT NULL REFERENCES usuarios(id) ON DELETE CASCADE,
		regulado_por_id UUID REFERENCES usuarios(id) ON DELETE SET NULL,
		especialidade VARCHAR(128) NOT NULL,
		cid VARCHAR(16) NOT NULL,
		descricao_clinica TEXT NOT NULL,
		medico_solicitante VARCHAR(255) NOT NULL,
		crm_medico VARCHAR(32),
		data_consulta TIMESTAMPTZ,
		cidade_destino VARCHAR(128) NOT NULL,
		uf_destino VARCHAR(2) NOT NULL,
		hospital_destino VARCHAR(255),
		medico_destino VARCHAR(255),
		tipo_transporte VARCHAR(16) NOT NULL,
		acompanhante BOOLEAN NOT NULL DEFAULT FALSE,
		nome_acompanhante VARCHAR(255),
		cpf_acompanhante VARCHAR(11),
		prioridade INTEGER NOT NULL DEFAULT 1,
		status VARCHAR(16) NOT NULL DEFAULT 'PENDENTE',
		data_agendada TIMESTAMPTZ,
		local_atendimento VARCHAR(255),
		motivo_negativa TEXT,
		observacoes TEXT,
		token_verificacao VARCHAR(16),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_processos_tfd_numero ON processos_tfd (numero);`,
	`CREATE INDEX IF NOT EXISTS idx_processos_tfd_status ON processos_tfd (status);`,
	`CREATE INDEX IF NOT EXISTS idx_processos_tfd_paciente_id ON processos_tfd (paciente_id);`,
	`CREATE INDEX IF NOT EXISTS idx_processos_tfd_unidade_origem_id ON processos_tfd (unidade_origem_id);`,
	`CREATE INDEX IF NOT EXISTS idx_processos_tfd_token_verificacao ON processos_tfd (token_verificacao);`,
	`CREATE INDEX IF NOT EXISTS idx_processos_tfd_fila ON processos_tfd (prioridade DESC, created_at ASC);`,
	`CREATE TABLE IF NOT EXISTS historico_processos (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		processo_id UUID NOT NULL REFERENCES processos_tfd(id) ON DELETE CASCADE,
		usuario_id UUID REFERENCES usuarios(id) ON DELETE SET NULL,
		status_anterior VARCHAR(16),
		status_novo VARCHAR(16) NOT NULL,
		descricao TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_historico_processos_processo_id ON historico_processos (processo_id);`,
	`CREATE TABLE IF NOT EXISTS veiculos (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		placa VARCHAR(8) NOT NULL,
		modelo VARCHAR(64) NOT NULL,
		capacidade INTEGER NOT NULL,
		ativo BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_veiculos_placa ON veiculos (placa);`,
	`CREATE TABLE IF NOT EXISTS motoristas (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		nome VARCHAR(255) NOT NULL,
		cpf VARCHAR(11) NOT NULL,
		cnh VARCHAR(16) NOT NULL,
		telefone VARCHAR(32),
		ativo BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS linhas_onibus (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		nome VARCHAR(128) NOT NULL,
		empresa VARCHAR(128),
		origem VARCHAR(128) NOT NULL,
		destino VARCHAR(128) NOT NULL,
		horarios TEXT,
		ativo BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS viagens (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		data_partida TIMESTAMPTZ NOT NULL,
		data_retorno TIMESTAMPTZ,
		veiculo_id UUID REFERENCES veiculos(id) ON DELETE SET NULL,
		motorista_id UUID REFERENCES motoristas(id) ON DELETE SET NULL,
		linha_id UUID REFERENCES linhas_onibus(id) ON DELETE SET NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'PLANEJADA',
		observacoes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_viagens_status ON viagens (status);`,
	`CREATE INDEX IF NOT EXISTS idx_viagens_data_partida ON viagens (data_partida);`,
	`CREATE TABLE IF NOT EXISTS passageiros_viagem (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		viagem_id UUID NOT NULL REFERENCES viagens(id) ON DELETE CASCADE,
		processo_id UUID NOT NULL REFERENCES processos_tfd(id) ON DELETE CASCADE,
		acompanhante BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_viagem_processo ON passageiros_viagem (viagem_id, processo_id);`,
	`CREATE TABLE IF NOT EXISTS passagens (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		processo_id UUID NOT NULL REFERENCES processos_tfd(id) ON DELETE CASCADE,
		tipo VARCHAR(8) NOT NULL,
		data_viagem TIMESTAMPTZ NOT NULL,
		numero_passagem VARCHAR(32),
		empresa VARCHAR(128),
		valor DOUBLE PRECISION,
		observacoes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_passagens_processo_id ON passagens (processo_id);`,
	`CREATE TABLE IF NOT EXISTS casas_apoio (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		nome VARCHAR(255) NOT NULL,
		cidade VARCHAR(128) NOT NULL,
		endereco VARCHAR(255),
		telefone VARCHAR(32),
		total_leitos INTEGER NOT NULL DEFAULT 10,
		ativo BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS vales_hospedagem (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		processo_id UUID NOT NULL REFERENCES processos_tfd(id) ON DELETE CASCADE,
		casa_apoio_id UUID NOT NULL REFERENCES casas_apoio(id) ON DELETE CASCADE,
		data_entrada TIMESTAMPTZ NOT NULL,
		data_saida TIMESTAMPTZ,
		acompanhante BOOLEAN NOT NULL DEFAULT FALSE,
		status VARCHAR(16) NOT NULL DEFAULT 'ATIVO',
		observacoes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_vales_hospedagem_casa_apoio_id ON vales_hospedagem (casa_apoio_id);`,
	`CREATE INDEX IF NOT EXISTS idx_vales_hospedagem_status ON vales_hospedagem (status);`,
	`CREATE TABLE IF NOT EXISTS logs (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		usuario_id UUID REFERENCES usuarios(id) ON DELETE SET NULL,
		acao VARCHAR(16) NOT NULL,
		entidade VARCHAR(32) NOT NULL,
		entidade_id UUID,
		detalhes TEXT,
		ip VARCHAR(64),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_logs_entidade ON logs (entidade, entidade_id);`,
	`CREATE OR REPLACE FUNCTION set_row_updated_at()
	RETURNS TRIGGER AS $$
	BEGIN
		NEW.updated_at = NOW();
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_processos_tfd_updated_at') THEN
			CREATE TRIGGER trg_processos_tfd_updated_at
				BEFORE UPDATE ON processos_tfd
				FOR EACH ROW
				EXECUTE PROCEDURE set_row_updated_at();
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_viagens_updated_at') THEN
			CREATE TRIGGER trg_viagens_updated_at
				BEFORE UPDATE ON viagens
				FOR EACH ROW
				EXECUTE PROCEDURE set_row_updated_at();
		END IF;
	END
	$$;`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
