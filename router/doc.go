// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Ask API.

	handler := router.NewRouter(db, cfg)

# Endpoints

	GET    /health
	GET    /metrics

	GET    /questionnaires
	POST   /questionnaires
	GET    /questionnaires/{id}
	PUT    /questionnaires/{id}
	PATCH  /questionnaires/{id}
	DELETE /questionnaires/{id}

	GET    /questions[?questionnaire=]
	POST   /questions
	GET    /questions/{id}
	PUT    /questions/{id}
	PATCH  /questions/{id}
	DELETE /questions/{id}

	GET    /answers[?question=]
	POST   /answers
	GET    /answers/{id}

Every API route is logged and instrumented. The whole mux sits behind
RequestID, CORS and, when RATE_LIMIT is set, the per-IP rate limiter.
*/
package router
