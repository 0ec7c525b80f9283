// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Ask API server.

Quickly Ask stores questionnaires made of ordered questions (free text,
single choice or multiple choice) and records batches of answers against
them.

# Starting the Server

The server reads a .env file when present, then flags and environment
variables:

	DATABASE_URL=file:quickly-ask.db go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..."

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file DSN or PostgreSQL connection string

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - OPTION_SELECTION_POLICY (-option-policy): reject or filter (default: reject)
  - LOG_LEVEL (-log-level), LOG_FORMAT (-log-format)
  - RATE_LIMIT (-rate), RATE_BURST (-burst): per-IP throttling, off by default

# Architecture

  - handlers: HTTP request handlers (questionnaires, questions, answers)
  - router: Route definitions using Go 1.22+ routing
  - middleware: Request ids, CORS, logging, metrics, rate limiting, JSON helpers
  - reconcile: Nested questionnaire create and update
  - answers: Answer batch validation and recording
  - projection: Read views
  - store: SQL access to all entities
  - models: Request, response and domain types
  - db: Connections and schema creation
  - cliparse: Configuration parsing
*/
package main
