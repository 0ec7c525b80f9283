// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/quickly-ask/middleware"
	"github.com/danielhkuo/quickly-ask/reconcile"
	"github.com/danielhkuo/quickly-ask/store"
)

// pathID reads the {id} path segment. It writes a 400 and returns false when
// the segment is not a positive integer.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

// queryID reads an optional integer filter. Absent means 0.
func queryID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}

// storeError maps store and reconcile errors onto HTTP responses
func storeError(w http.ResponseWriter, err error, notFound string) {
	var refErr *store.ReferenceError
	switch {
	case errors.Is(err, store.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, notFound)
	case errors.As(err, &refErr):
		middleware.ErrorResponse(w, http.StatusBadRequest, refErr.Error())
	case errors.Is(err, reconcile.ErrMissingQuestionText):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("database error", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
	}
}
