package repository

import (
	"database/sql"
	"fmt"
)

// Esquema criado na inicialização. A recorrência é embutida na própria
// tabela de obrigações em colunas anuláveis: uma obrigação é recorrente
// quando recurrence_periodicity não é nula.
const schemaPostgres = `
CREATE TABLE IF NOT EXISTS obligations (
    id UUID PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    due_date TIMESTAMP NOT NULL,
    original_due_date TIMESTAMP NOT NULL,
    type TEXT NOT NULL,
    status TEXT NOT NULL,
    client_name TEXT NOT NULL DEFAULT '',
    company_name TEXT NOT NULL DEFAULT '',
    owner_name TEXT NOT NULL DEFAULT '',
    adjust_for_business_day BOOLEAN NOT NULL DEFAULT FALSE,
    adjustment_direction TEXT NOT NULL DEFAULT 'next',
    created_by TEXT NOT NULL DEFAULT '',
    recurrence_periodicity TEXT,
    recurrence_interval_months INTEGER,
    recurrence_day_of_month INTEGER,
    recurrence_end_date TIMESTAMP,
    recurrence_next_occurrence TIMESTAMP,
    recurrence_active BOOLEAN,
    recurrence_generation_day INTEGER,
    recurrence_last_generation TIMESTAMP,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_obligations_due_date ON obligations (due_date);
CREATE INDEX IF NOT EXISTS idx_obligations_status ON obligations (status);

CREATE TABLE IF NOT EXISTS obligation_history (
    id UUID PRIMARY KEY,
    obligation_id UUID NOT NULL,
    template_id UUID,
    action TEXT NOT NULL,
    details TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_history_obligation ON obligation_history (obligation_id);
`

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS obligations (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    due_date TIMESTAMP NOT NULL,
    original_due_date TIMESTAMP NOT NULL,
    type TEXT NOT NULL,
    status TEXT NOT NULL,
    client_name TEXT NOT NULL DEFAULT '',
    company_name TEXT NOT NULL DEFAULT '',
    owner_name TEXT NOT NULL DEFAULT '',
    adjust_for_business_day BOOLEAN NOT NULL DEFAULT FALSE,
    adjustment_direction TEXT NOT NULL DEFAULT 'next',
    created_by TEXT NOT NULL DEFAULT '',
    recurrence_periodicity TEXT,
    recurrence_interval_months INTEGER,
    recurrence_day_of_month INTEGER,
    recurrence_end_date TIMESTAMP,
    recurrence_next_occurrence TIMESTAMP,
    recurrence_active BOOLEAN,
    recurrence_generation_day INTEGER,
    recurrence_last_generation TIMESTAMP,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_obligations_due_date ON obligations (due_date);
CREATE INDEX IF NOT EXISTS idx_obligations_status ON obligations (status);

CREATE TABLE IF NOT EXISTS obligation_history (
    id TEXT PRIMARY KEY,
    obligation_id TEXT NOT NULL,
    template_id TEXT,
    action TEXT NOT NULL,
    details TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_history_obligation ON obligation_history (obligation_id);
`

// InitSchema cria as tabelas do sistema caso ainda não existam
func InitSchema(db *sql.DB, driver string) error {
	schema := schemaPostgres
	if driver == DriverSQLite {
		schema = schemaSQLite
	}
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("falha ao criar esquema do banco: %w", err)
	}
	return nil
}
