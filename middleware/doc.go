// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start at debug level and completion with status, duration_ms
and request_id.

# Request IDs

RequestID reuses an incoming X-Request-ID header or generates a UUID, echoes
it on the response and stores it in the context.

# Metrics

NewMetrics builds a private Prometheus registry. Instrument counts and times
a route; Handler serves the registry.

# Rate Limiting

RateLimiter keeps one token bucket per client IP (see GetClientIP) and
answers 429 once a client runs dry.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.ErrorDetailsResponse(w, http.StatusBadRequest, "message", details)
*/
package middleware
