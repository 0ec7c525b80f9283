// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens connections and creates the schema.

	conn, err := db.Open(db.TypeSQLite, "file:quickly-ask.db")
	err = db.CreateSchema(conn, db.TypeSQLite)

SQLite (modernc.org/sqlite, no cgo) and PostgreSQL (lib/pq) are supported.
CreateSchema is safe to call multiple times.

# Tables

	questionnaire 1──* question
	question      1──* answer_option
	question      1──* answer
	answer        *──* answer_option (via answer_selected_option)

All foreign keys use ON DELETE CASCADE, so deleting a questionnaire removes
its questions, options, answers and selections.
*/
package db
