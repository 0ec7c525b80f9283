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
	"github.com/danielhkuo/quickly-ask/reconcile"
	"github.com/danielhkuo/quickly-ask/store"
)

type QuestionnaireHandler struct {
	store   *store.Store
	metrics *middleware.Metrics
}

func NewQuestionnaireHandler(db *sql.DB, metrics *middleware.Metrics) *QuestionnaireHandler {
	return &QuestionnaireHandler{store: store.New(db), metrics: metrics}
}

// List handles GET /questionnaires
func (h *QuestionnaireHandler) List(w http.ResponseWriter, r *http.Request) {
	summaries, err := projection.Summaries(r.Context(), h.store)
	if err != nil {
		storeError(w, err, "Questionnaire not found")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, summaries)
}

// Create handles POST /questionnaires
func (h *QuestionnaireHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateQuestionnaireRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := models.Validate(req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := reconcile.Create(r.Context(), h.store, req)
	if err != nil {
		storeError(w, err, "Questionnaire not found")
		return
	}
	h.recordMutations(res)

	slog.Info("questionnaire created", res.LogAttrs()...)

	h.respond(w, r, res.QuestionnaireID, http.StatusCreated)
}

// Get handles GET /questionnaires/{id}
func (h *QuestionnaireHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	h.respond(w, r, id, http.StatusOK)
}

// Update handles PUT and PATCH /questionnaires/{id}. Both verbs take the
// same partial payload.
func (h *QuestionnaireHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req models.UpdateQuestionnaireRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := models.Validate(req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := reconcile.Update(r.Context(), h.store, id, req)
	if err != nil {
		storeError(w, err, "Questionnaire not found")
		return
	}
	h.recordMutations(res)

	slog.Info("questionnaire updated", res.LogAttrs()...)

	h.respond(w, r, id, http.StatusOK)
}

// Delete handles DELETE /questionnaires/{id}. Questions, options and answers
// go with it.
func (h *QuestionnaireHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteQuestionnaire(r.Context(), id); err != nil {
		storeError(w, err, "Questionnaire not found")
		return
	}

	slog.Info("questionnaire deleted", "questionnaire_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *QuestionnaireHandler) respond(w http.ResponseWriter, r *http.Request, id int64, status int) {
	view, err := projection.Questionnaire(r.Context(), h.store, id)
	if err != nil {
		storeError(w, err, "Questionnaire not found")
		return
	}

	middleware.JSONResponse(w, status, view)
}

func (h *QuestionnaireHandler) recordMutations(res reconcile.Result) {
	if h.metrics == nil {
		return
	}
	m := h.metrics.TreeMutationsTotal
	m.WithLabelValues("question", "create").Add(float64(res.QuestionsCreated))
	m.WithLabelValues("question", "update").Add(float64(res.QuestionsUpdated))
	m.WithLabelValues("question", "skip").Add(float64(res.QuestionsSkipped))
	m.WithLabelValues("option", "create").Add(float64(res.OptionsCreated))
	m.WithLabelValues("option", "update").Add(float64(res.OptionsUpdated))
	m.WithLabelValues("option", "delete").Add(float64(res.OptionsDeleted))
}
