// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

  - CreateQuestionnaireRequest: name, description, questions with option texts
  - UpdateQuestionnaireRequest: partial payload; questions with an id update,
    without one they are created
  - CreateQuestionRequest, UpdateQuestionRequest: flat question CRUD
  - SubmitAnswersRequest: {"answers": [...]}

Validate checks the validate struct tags and returns the first problem as
a message naming the JSON field path.

# Response Types

  - QuestionnaireView, QuestionnaireSummary
  - QuestionView, OptionView
  - AnswerView
  - ErrorResponse: error, message, details

# Question Types

	TypeText     = "text"
	TypeSingle   = "single"
	TypeMultiple = "multiple"
*/
package models
