// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-ask/answers"
	"github.com/danielhkuo/quickly-ask/middleware"
	"github.com/danielhkuo/quickly-ask/models"
	"github.com/danielhkuo/quickly-ask/projection"
	"github.com/danielhkuo/quickly-ask/store"
)

type AnswerHandler struct {
	store    *store.Store
	recorder *answers.Recorder
	metrics  *middleware.Metrics
}

func NewAnswerHandler(db *sql.DB, policy models.OptionPolicy, metrics *middleware.Metrics) *AnswerHandler {
	st := store.New(db)
	return &AnswerHandler{
		store:    st,
		recorder: answers.NewRecorder(st, policy),
		metrics:  metrics,
	}
}

// Create handles POST /answers. The body is {"answers": [...]}; the batch is
// stored entirely or not at all.
func (h *AnswerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitAnswersRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	items, ok := decodeItems(w, req.Answers)
	if !ok {
		return
	}

	created, err := h.recorder.Record(r.Context(), items)
	if err != nil {
		h.recordError(w, err)
		return
	}
	h.count("recorded", len(created))

	views := make([]models.AnswerView, len(created))
	for i, a := range created {
		views[i] = projection.Answer(a)
	}
	if len(created) > 0 {
		slog.Info("answers recorded", "batch_id", created[0].BatchID, "count", len(created))
	}

	middleware.JSONResponse(w, http.StatusCreated, views)
}

// List handles GET /answers, optionally filtered by ?question=
func (h *AnswerHandler) List(w http.ResponseWriter, r *http.Request) {
	questionID, ok := queryID(w, r, "question")
	if !ok {
		return
	}

	list, err := h.store.ListAnswers(r.Context(), questionID)
	if err != nil {
		storeError(w, err, "Answer not found")
		return
	}

	views := make([]models.AnswerView, len(list))
	for i, a := range list {
		views[i] = projection.Answer(a)
	}
	middleware.JSONResponse(w, http.StatusOK, views)
}

// Get handles GET /answers/{id}
func (h *AnswerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	a, err := h.store.GetAnswer(r.Context(), id)
	if err != nil {
		storeError(w, err, "Answer not found")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, projection.Answer(a))
}

// decodeItems accepts a missing or null list as empty
func decodeItems(w http.ResponseWriter, raw json.RawMessage) ([]models.AnswerSubmission, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, true
	}
	if raw[0] != '[' {
		middleware.ErrorResponse(w, http.StatusBadRequest, "answers must be a list")
		return nil, false
	}

	var items []models.AnswerSubmission
	if err := json.Unmarshal(raw, &items); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid answer item")
		return nil, false
	}
	return items, true
}

func (h *AnswerHandler) recordError(w http.ResponseWriter, err error) {
	var notFound *answers.QuestionNotFoundError
	var batch *answers.BatchError
	switch {
	case errors.As(err, &notFound):
		h.count("rejected", 1)
		middleware.ErrorDetailsResponse(w, http.StatusBadRequest, notFound.Error(), []models.ItemError{{
			Index:    notFound.Index,
			Question: notFound.QuestionID,
			Message:  notFound.Error(),
		}})
	case errors.As(err, &batch):
		h.count("rejected", len(batch.Items))
		details := make([]models.ItemError, len(batch.Items))
		for i, item := range batch.Items {
			details[i] = models.ItemError{Index: item.Index, Question: item.QuestionID, Message: item.Message}
		}
		middleware.ErrorDetailsResponse(w, http.StatusBadRequest, "Invalid answers", details)
	default:
		storeError(w, err, "Answer not found")
	}
}

func (h *AnswerHandler) count(outcome string, n int) {
	if h.metrics == nil || n == 0 {
		return
	}
	h.metrics.AnswersTotal.WithLabelValues(outcome).Add(float64(n))
}
