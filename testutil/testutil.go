// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/danielhkuo/quickly-ask/cliparse"
	"github.com/danielhkuo/quickly-ask/db"
	"github.com/danielhkuo/quickly-ask/models"
	"github.com/danielhkuo/quickly-ask/store"
)

// SetupTestDB creates a fresh SQLite database with the full schema in a
// per-test temp directory
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "quickly-ask.db")
	conn, err := db.Open(db.TypeSQLite, "file:"+path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn, db.TypeSQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  "file::memory:",
		DatabaseType: db.TypeSQLite,
		OptionPolicy: models.PolicyReject,
		LogLevel:     "info",
		LogFormat:    "text",
		RateBurst:    20,
	}
}

// CreateTestQuestionnaire inserts a questionnaire row and returns it
func CreateTestQuestionnaire(t *testing.T, conn *sql.DB, name string) models.Questionnaire {
	t.Helper()

	qn, err := store.New(conn).CreateQuestionnaire(context.Background(), name, "")
	if err != nil {
		t.Fatalf("Failed to create test questionnaire: %v", err)
	}
	return qn
}

// CreateTestQuestion inserts a question with the given option texts and
// returns the question and its option ids in order
func CreateTestQuestion(t *testing.T, conn *sql.DB, questionnaireID int64, text, questionType string, options ...string) (models.Question, []int64) {
	t.Helper()

	ctx := context.Background()
	st := store.New(conn)

	q, err := st.CreateQuestion(ctx, models.Question{
		QuestionnaireID: questionnaireID,
		Text:            text,
		Type:            questionType,
	})
	if err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}

	ids := make([]int64, 0, len(options))
	for _, text := range options {
		opt, err := st.CreateOption(ctx, q.ID, text)
		if err != nil {
			t.Fatalf("Failed to create test option: %v", err)
		}
		ids = append(ids, opt.ID)
	}

	return q, ids
}

// CountRows returns the number of rows in a table
func CountRows(t *testing.T, conn *sql.DB, table string) int {
	t.Helper()

	var n int
	if err := conn.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		var jsonBody []byte
		if raw, ok := body.(string); ok {
			jsonBody = []byte(raw)
		} else {
			jsonBody, _ = json.Marshal(body)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
