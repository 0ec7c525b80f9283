// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Database types
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// Open connects to the database and verifies the connection.
// SQLite connections get foreign keys enabled on every pooled connection;
// cascades and reference checks depend on it.
func Open(dbType, url string) (*sql.DB, error) {
	var driver, dsn string
	switch dbType {
	case TypePostgres:
		driver, dsn = "postgres", url
	case TypeSQLite:
		driver, dsn = "sqlite", sqliteDSN(url)
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dbType, err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", dbType, err)
	}

	return conn, nil
}

func sqliteDSN(url string) string {
	pragmas := []string{"foreign_keys(1)", "busy_timeout(5000)"}
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	for _, p := range pragmas {
		url += sep + "_pragma=" + p
		sep = "&"
	}
	return url
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dbType string) error {
	var stmts []string
	switch dbType {
	case TypePostgres:
		stmts = postgresSchema
	case TypeSQLite:
		stmts = sqliteSchema
	default:
		return fmt.Errorf("unsupported database type %q", dbType)
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS questionnaire (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS question (
		id BIGSERIAL PRIMARY KEY,
		questionnaire_id BIGINT NOT NULL REFERENCES questionnaire(id) ON DELETE CASCADE,
		question TEXT NOT NULL,
		sort_order INTEGER NOT NULL DEFAULT 0,
		question_type VARCHAR(8) NOT NULL DEFAULT 'text' CHECK (question_type IN ('text', 'single', 'multiple'))
	)`,
	`CREATE INDEX IF NOT EXISTS idx_question_questionnaire_id ON question(questionnaire_id)`,
	`CREATE TABLE IF NOT EXISTS answer_option (
		id BIGSERIAL PRIMARY KEY,
		question_id BIGINT NOT NULL REFERENCES question(id) ON DELETE CASCADE,
		text VARCHAR(255) NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_answer_option_question_id ON answer_option(question_id)`,
	`CREATE TABLE IF NOT EXISTS answer (
		id BIGSERIAL PRIMARY KEY,
		question_id BIGINT NOT NULL REFERENCES question(id) ON DELETE CASCADE,
		text_response TEXT,
		batch_id TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_answer_question_id ON answer(question_id)`,
	`CREATE TABLE IF NOT EXISTS answer_selected_option (
		answer_id BIGINT NOT NULL REFERENCES answer(id) ON DELETE CASCADE,
		option_id BIGINT NOT NULL REFERENCES answer_option(id) ON DELETE CASCADE,
		PRIMARY KEY (answer_id, option_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_answer_selected_option_option_id ON answer_selected_option(option_id)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS questionnaire (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name VARCHAR(100) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS question (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		questionnaire_id INTEGER NOT NULL REFERENCES questionnaire(id) ON DELETE CASCADE,
		question TEXT NOT NULL,
		sort_order INTEGER NOT NULL DEFAULT 0,
		question_type VARCHAR(8) NOT NULL DEFAULT 'text' CHECK (question_type IN ('text', 'single', 'multiple'))
	)`,
	`CREATE INDEX IF NOT EXISTS idx_question_questionnaire_id ON question(questionnaire_id)`,
	`CREATE TABLE IF NOT EXISTS answer_option (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		question_id INTEGER NOT NULL REFERENCES question(id) ON DELETE CASCADE,
		text VARCHAR(255) NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_answer_option_question_id ON answer_option(question_id)`,
	`CREATE TABLE IF NOT EXISTS answer (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		question_id INTEGER NOT NULL REFERENCES question(id) ON DELETE CASCADE,
		text_response TEXT,
		batch_id TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_answer_question_id ON answer(question_id)`,
	`CREATE TABLE IF NOT EXISTS answer_selected_option (
		answer_id INTEGER NOT NULL REFERENCES answer(id) ON DELETE CASCADE,
		option_id INTEGER NOT NULL REFERENCES answer_option(id) ON DELETE CASCADE,
		PRIMARY KEY (answer_id, option_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_answer_selected_option_option_id ON answer_selected_option(option_id)`,
}
