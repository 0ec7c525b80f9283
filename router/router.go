// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/quickly-ask/cliparse"
	"github.com/danielhkuo/quickly-ask/handlers"
	"github.com/danielhkuo/quickly-ask/middleware"
)

// NewRouter registers every route and wraps the mux in the request id, CORS
// and (when configured) rate limiting middleware.
func NewRouter(db *sql.DB, cfg cliparse.Config) http.Handler {
	mux := http.NewServeMux()
	metrics := middleware.NewMetrics()

	// Initialize handlers
	questionnaireHandler := handlers.NewQuestionnaireHandler(db, metrics)
	questionHandler := handlers.NewQuestionHandler(db)
	answerHandler := handlers.NewAnswerHandler(db, cfg.OptionPolicy, metrics)

	handle := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, middleware.WithLogging(metrics.Instrument(pattern, h)))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", metrics.Handler())

	// Questionnaires, nested create/update
	handle("GET /questionnaires", questionnaireHandler.List)
	handle("POST /questionnaires", questionnaireHandler.Create)
	handle("GET /questionnaires/{id}", questionnaireHandler.Get)
	handle("PUT /questionnaires/{id}", questionnaireHandler.Update)
	handle("PATCH /questionnaires/{id}", questionnaireHandler.Update)
	handle("DELETE /questionnaires/{id}", questionnaireHandler.Delete)

	// Questions, flat
	handle("GET /questions", questionHandler.List)
	handle("POST /questions", questionHandler.Create)
	handle("GET /questions/{id}", questionHandler.Get)
	handle("PUT /questions/{id}", questionHandler.Update)
	handle("PATCH /questions/{id}", questionHandler.Update)
	handle("DELETE /questions/{id}", questionHandler.Delete)

	// Answers
	handle("GET /answers", answerHandler.List)
	handle("POST /answers", answerHandler.Create)
	handle("GET /answers/{id}", answerHandler.Get)

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-ask API v1"))
	})

	var h http.Handler = mux
	if cfg.RateLimit > 0 {
		h = middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst).Middleware(h)
	}
	return middleware.RequestID(middleware.CORS(h))
}
