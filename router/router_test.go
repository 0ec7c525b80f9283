// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/danielhkuo/quickly-ask/models"
	"github.com/danielhkuo/quickly-ask/testutil"
)

func TestHealthEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "quickly-ask API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestRouteExistence(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	// 400 and 404 are valid responses here; the route only has to exist
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/metrics"},
		{"GET", "/"},

		{"GET", "/questionnaires"},
		{"POST", "/questionnaires"},
		{"GET", "/questionnaires/1"},
		{"PUT", "/questionnaires/1"},
		{"PATCH", "/questionnaires/1"},
		{"DELETE", "/questionnaires/1"},

		{"GET", "/questions"},
		{"POST", "/questions"},
		{"GET", "/questions/1"},
		{"PUT", "/questions/1"},
		{"PATCH", "/questions/1"},
		{"DELETE", "/questions/1"},

		{"GET", "/answers"},
		{"POST", "/answers"},
		{"GET", "/answers/1"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s returned 405, expected route handler to exist", tc.method, tc.path)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/health"},
		{"DELETE", "/answers/1"}, // answers are immutable
		{"PUT", "/answers/1"},
		{"DELETE", "/questionnaires"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405 for %s %s, got %d", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestPathParameterExtraction(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	qn := testutil.CreateTestQuestionnaire(t, db, "Routed")

	mux := NewRouter(db, cfg)

	req := httptest.NewRequest("GET", "/questionnaires/"+strconv.FormatInt(qn.ID, 10), nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d. Body: %s", w.Code, w.Body.String())
	}

	var view models.QuestionnaireView
	if err := json.NewDecoder(w.Body).Decode(&view); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if view.Name != "Routed" {
		t.Errorf("Expected name 'Routed', got '%s'", view.Name)
	}

	req = httptest.NewRequest("GET", "/questionnaires/not-a-number", nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a non-numeric id, got %d", w.Code)
	}
}

func TestRequestIDAndCORS(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mux := NewRouter(db, testutil.GetTestConfig())

	req := httptest.NewRequest("OPTIONS", "/questionnaires", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected preflight 200, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Expected origin echoed, got '%s'", got)
	}
	if got := w.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("Expected request id 'abc-123', got '%s'", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mux := NewRouter(db, testutil.GetTestConfig())

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/questionnaires", nil))

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `quickly_ask_http_requests_total{method="GET",route="GET /questionnaires",status="200"} 1`) {
		t.Errorf("Expected request counter in metrics output, got:\n%s", w.Body.String())
	}
}

func TestRateLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	cfg.RateLimit = 0.001
	cfg.RateBurst = 2
	mux := NewRouter(db, cfg)

	codes := make([]int, 3)
	for i := range codes {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
		codes[i] = w.Code
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("Expected the burst to pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("Expected 429 after the burst, got %d", codes[2])
	}
}
