// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Ask API.

# Handler Types

  - QuestionnaireHandler: nested questionnaire create, read, update, delete
  - QuestionHandler: flat question CRUD
  - AnswerHandler: answer batch submission and retrieval

Handlers are created via constructor functions that accept *sql.DB plus the
metrics or option policy they need:

	questionnaireHandler := handlers.NewQuestionnaireHandler(db, metrics)

# Errors

Missing rows map to 404, bad input and dangling references to 400, anything
else to 500 with the error logged. Rejected answer batches list every failed
item in the details field of the error body.
*/
package handlers
