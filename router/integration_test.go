// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/danielhkuo/quickly-ask/models"
	"github.com/danielhkuo/quickly-ask/testutil"
)

// TestFullQuestionnaireWorkflow walks the API end to end:
// 1. Create a questionnaire with nested questions
// 2. Reconcile the options of one question
// 3. Submit an answer batch
// 4. Reject an invalid batch without storing anything
// 5. Check the derived counters
// 6. Delete the questionnaire and everything under it
func TestFullQuestionnaireWorkflow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mux := NewRouter(db, testutil.GetTestConfig())

	do := func(method, path string, body interface{}) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, testutil.MakeRequest(method, path, body, nil))
		return w
	}

	// Step 1: Create
	w := do("POST", "/questionnaires", map[string]interface{}{
		"name": "Integration",
		"questions": []map[string]interface{}{
			{"question": "Favourite letter", "question_type": "single", "order": 1, "options": []string{"A", "B", "C"}},
			{"question": "Anything else?", "question_type": "text", "order": 2},
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 1 - Create failed: %d - %s", w.Code, w.Body.String())
	}
	var view models.QuestionnaireView
	json.NewDecoder(w.Body).Decode(&view)
	path := "/questionnaires/" + strconv.FormatInt(view.ID, 10)
	choice, text := view.Questions[0], view.Questions[1]

	// Step 2: Options {A,B,C} become {B,C,D}
	w = do("PATCH", path, map[string]interface{}{
		"questions": []map[string]interface{}{
			{"id": choice.ID, "options": []map[string]string{{"text": "B"}, {"text": "C"}, {"text": "D"}}},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Step 2 - Update failed: %d - %s", w.Code, w.Body.String())
	}
	var updated models.QuestionnaireView
	json.NewDecoder(w.Body).Decode(&updated)
	options := updated.Questions[0].Options
	if len(options) != 3 || options[0].ID != choice.Options[1].ID || options[2].Text != "D" {
		t.Fatalf("Step 2 - Unexpected options: %+v", options)
	}

	// Step 3: Valid batch
	w = do("POST", "/answers", map[string]interface{}{
		"answers": []map[string]interface{}{
			{"question": choice.ID, "selected_options": []int64{options[2].ID}},
			{"question": text.ID, "text_response": "no"},
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 3 - Submit failed: %d - %s", w.Code, w.Body.String())
	}

	// Step 4: A removed option no longer exists
	w = do("POST", "/answers", map[string]interface{}{
		"answers": []map[string]interface{}{
			{"question": text.ID, "text_response": "again"},
			{"question": choice.ID, "selected_options": []int64{choice.Options[0].ID}},
		},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Step 4 - Expected 400, got %d - %s", w.Code, w.Body.String())
	}
	if n := testutil.CountRows(t, db, "answer"); n != 2 {
		t.Errorf("Step 4 - Expected 2 stored answers, got %d", n)
	}

	// Step 5: Counters
	w = do("GET", path, nil)
	var current models.QuestionnaireView
	json.NewDecoder(w.Body).Decode(&current)
	if current.QuestionsAmount != 2 || current.CompletionsAmount != 1 {
		t.Errorf("Step 5 - Expected 2 questions and 1 completion, got %d and %d",
			current.QuestionsAmount, current.CompletionsAmount)
	}

	// Step 6: Delete cascades
	w = do("DELETE", path, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("Step 6 - Delete failed: %d - %s", w.Code, w.Body.String())
	}
	for _, table := range []string{"question", "answer_option", "answer", "answer_selected_option"} {
		if n := testutil.CountRows(t, db, table); n != 0 {
			t.Errorf("Step 6 - Expected %s to be empty, got %d rows", table, n)
		}
	}
}

func TestSingleChoiceRoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mux := NewRouter(db, testutil.GetTestConfig())

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/questionnaires", map[string]interface{}{
		"name":        "Q1",
		"description": "d",
		"questions": []map[string]interface{}{
			{"question": "Pick one", "question_type": "single", "order": 0, "options": []string{"A", "B"}},
		},
	}, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)
	var created models.QuestionnaireView
	testutil.AssertJSON(t, w, &created)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/questionnaires/"+strconv.FormatInt(created.ID, 10), nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var view models.QuestionnaireView
	testutil.AssertJSON(t, w, &view)

	if len(view.Questions) != 1 {
		t.Fatalf("Expected 1 question, got %d", len(view.Questions))
	}
	q := view.Questions[0]
	if len(q.Options) != 2 || q.Options[0].Text != "A" || q.Options[1].Text != "B" {
		t.Fatalf("Expected options A and B, got %+v", q.Options)
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/answers", map[string]interface{}{
		"answers": []map[string]interface{}{
			{"question": q.ID, "selected_options": []int64{q.Options[0].ID}},
		},
	}, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/answers?question="+strconv.FormatInt(q.ID, 10), nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var stored []models.AnswerView
	testutil.AssertJSON(t, w, &stored)

	if len(stored) != 1 {
		t.Fatalf("Expected 1 stored answer, got %d", len(stored))
	}
	if len(stored[0].SelectedOptions) != 1 || stored[0].SelectedOptions[0] != q.Options[0].ID {
		t.Errorf("Expected selected_options [%d], got %v", q.Options[0].ID, stored[0].SelectedOptions)
	}
	if stored[0].TextResponse != nil {
		t.Errorf("Expected null text_response, got %q", *stored[0].TextResponse)
	}
}
