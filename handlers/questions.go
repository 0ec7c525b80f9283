// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-ask/middleware"
	"github.com/danielhkuo/quickly-ask/models"
	"github.com/danielhkuo/quickly-ask/projection"
	"github.com/danielhkuo/quickly-ask/store"
)

type QuestionHandler struct {
	store *store.Store
}

func NewQuestionHandler(db *sql.DB) *QuestionHandler {
	return &QuestionHandler{store: store.New(db)}
}

// List handles GET /questions, optionally filtered by ?questionnaire=
func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	questionnaireID, ok := queryID(w, r, "questionnaire")
	if !ok {
		return
	}

	views, err := projection.Questions(r.Context(), h.store, questionnaireID)
	if err != nil {
		storeError(w, err, "Question not found")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, views)
}

// Create handles POST /questions
func (h *QuestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateQuestionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := models.Validate(req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	q, err := h.store.CreateQuestion(r.Context(), models.Question{
		QuestionnaireID: req.Questionnaire,
		Text:            req.Question,
		Order:           req.Order,
		Type:            req.QuestionType,
	})
	if err != nil {
		storeError(w, err, "Question not found")
		return
	}

	slog.Info("question created", "question_id", q.ID, "questionnaire_id", q.QuestionnaireID)

	h.respond(w, r, q.ID, http.StatusCreated)
}

// Get handles GET /questions/{id}
func (h *QuestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	h.respond(w, r, id, http.StatusOK)
}

// Update handles PUT and PATCH /questions/{id}. Absent fields keep their value.
func (h *QuestionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req models.UpdateQuestionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := models.Validate(req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	err := h.store.InTx(ctx, func(tx *store.Store) error {
		q, err := tx.GetQuestion(ctx, id)
		if err != nil {
			return err
		}
		if req.Question != nil {
			q.Text = *req.Question
		}
		if req.QuestionType != nil {
			q.Type = *req.QuestionType
		}
		if req.Order != nil {
			q.Order = *req.Order
		}
		return tx.UpdateQuestion(ctx, q)
	})
	if err != nil {
		storeError(w, err, "Question not found")
		return
	}

	slog.Info("question updated", "question_id", id)

	h.respond(w, r, id, http.StatusOK)
}

// Delete handles DELETE /questions/{id}
func (h *QuestionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteQuestion(r.Context(), id); err != nil {
		storeError(w, err, "Question not found")
		return
	}

	slog.Info("question deleted", "question_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *QuestionHandler) respond(w http.ResponseWriter, r *http.Request, id int64, status int) {
	view, err := projection.Question(r.Context(), h.store, id)
	if err != nil {
		storeError(w, err, "Question not found")
		return
	}

	middleware.JSONResponse(w, status, view)
}
