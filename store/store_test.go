// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-ask/models"
	"github.com/danielhkuo/quickly-ask/store"
	"github.com/danielhkuo/quickly-ask/testutil"
)

func TestQuestionnaireCRUD(t *testing.T) {
	ctx := context.Background()
	st := store.New(testutil.SetupTestDB(t))

	qn, err := st.CreateQuestionnaire(ctx, "Team", "Weekly check-in")
	require.NoError(t, err)
	assert.NotZero(t, qn.ID)

	got, err := st.GetQuestionnaire(ctx, qn.ID)
	require.NoError(t, err)
	assert.Equal(t, "Team", got.Name)
	assert.Equal(t, "Weekly check-in", got.Description)
	assert.True(t, qn.CreatedAt.Equal(got.CreatedAt), "created_at %v != %v", qn.CreatedAt, got.CreatedAt)

	name := "Team sync"
	require.NoError(t, st.UpdateQuestionnaire(ctx, qn.ID, &name, nil))
	got, err = st.GetQuestionnaire(ctx, qn.ID)
	require.NoError(t, err)
	assert.Equal(t, "Team sync", got.Name)
	assert.Equal(t, "Weekly check-in", got.Description)

	list, err := st.ListQuestionnaires(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, st.DeleteQuestionnaire(ctx, qn.ID))
	_, err = st.GetQuestionnaire(ctx, qn.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, st.DeleteQuestionnaire(ctx, qn.ID), store.ErrNotFound)
	assert.ErrorIs(t, st.UpdateQuestionnaire(ctx, qn.ID, &name, nil), store.ErrNotFound)
}

func TestReferenceErrors(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	st := store.New(db)

	_, err := st.CreateQuestion(ctx, models.Question{QuestionnaireID: 42, Text: "orphan"})
	var refErr *store.ReferenceError
	require.True(t, errors.As(err, &refErr))
	assert.Equal(t, "questionnaire", refErr.Entity)
	assert.ErrorIs(t, err, store.ErrReferenceNotFound)

	_, err = st.CreateOption(ctx, 42, "orphan")
	assert.ErrorIs(t, err, store.ErrReferenceNotFound)

	_, err = st.CreateAnswer(ctx, models.Answer{QuestionID: 42, BatchID: "b"})
	assert.ErrorIs(t, err, store.ErrReferenceNotFound)

	qn := testutil.CreateTestQuestionnaire(t, db, "Refs")
	q, _ := testutil.CreateTestQuestion(t, db, qn.ID, "Pick", models.TypeSingle, "x")
	_, err = st.CreateAnswer(ctx, models.Answer{QuestionID: q.ID, BatchID: "b", SelectedOptions: []int64{999}})
	require.True(t, errors.As(err, &refErr))
	assert.Equal(t, "answer_option", refErr.Entity)
	assert.Equal(t, int64(999), refErr.ID)

	assert.Equal(t, 0, testutil.CountRows(t, db, "answer"))
}

func TestCascadeDelete(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	st := store.New(db)

	qn := testutil.CreateTestQuestionnaire(t, db, "Cascade")
	q, opts := testutil.CreateTestQuestion(t, db, qn.ID, "Pick", models.TypeMultiple, "a", "b")
	_, err := st.CreateAnswer(ctx, models.Answer{QuestionID: q.ID, BatchID: "b1", SelectedOptions: opts})
	require.NoError(t, err)

	other := testutil.CreateTestQuestionnaire(t, db, "Untouched")
	testutil.CreateTestQuestion(t, db, other.ID, "Still here", models.TypeSingle, "c")

	require.NoError(t, st.DeleteQuestionnaire(ctx, qn.ID))

	assert.Equal(t, 1, testutil.CountRows(t, db, "question"))
	assert.Equal(t, 1, testutil.CountRows(t, db, "answer_option"))
	assert.Equal(t, 0, testutil.CountRows(t, db, "answer"))
	assert.Equal(t, 0, testutil.CountRows(t, db, "answer_selected_option"))
}

func TestDeleteOptionDropsSelections(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	st := store.New(db)

	qn := testutil.CreateTestQuestionnaire(t, db, "Options")
	q, opts := testutil.CreateTestQuestion(t, db, qn.ID, "Pick", models.TypeMultiple, "a", "b")
	a, err := st.CreateAnswer(ctx, models.Answer{QuestionID: q.ID, BatchID: "b1", SelectedOptions: opts})
	require.NoError(t, err)

	require.NoError(t, st.DeleteOption(ctx, opts[0]))

	got, err := st.GetAnswer(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{opts[1]}, got.SelectedOptions)
}

func TestDerivedCounters(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	st := store.New(db)

	qn := testutil.CreateTestQuestionnaire(t, db, "Counters")
	q1, _ := testutil.CreateTestQuestion(t, db, qn.ID, "One", models.TypeText)
	q2, _ := testutil.CreateTestQuestion(t, db, qn.ID, "Two", models.TypeText)

	text := "hi"
	for _, batch := range []string{"b1", "b2"} {
		for _, q := range []models.Question{q1, q2} {
			_, err := st.CreateAnswer(ctx, models.Answer{QuestionID: q.ID, BatchID: batch, TextResponse: &text})
			require.NoError(t, err)
		}
	}

	got, err := st.GetQuestionnaire(ctx, qn.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.QuestionsAmount)
	assert.Equal(t, 2, got.CompletionsAmount)

	require.NoError(t, st.DeleteQuestion(ctx, q2.ID))
	got, err = st.GetQuestionnaire(ctx, qn.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.QuestionsAmount)
	assert.Equal(t, 2, got.CompletionsAmount)
}

func TestListQuestionsOrdering(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	st := store.New(db)

	qn := testutil.CreateTestQuestionnaire(t, db, "Order")
	for _, qs := range []struct {
		text  string
		order int
	}{{"third", 2}, {"first", 0}, {"second", 0}} {
		_, err := st.CreateQuestion(ctx, models.Question{QuestionnaireID: qn.ID, Text: qs.text, Order: qs.order})
		require.NoError(t, err)
	}

	list, err := st.ListQuestionsByQuestionnaire(ctx, qn.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	// Ties on order fall back to id
	assert.Equal(t, "first", list[0].Text)
	assert.Equal(t, "second", list[1].Text)
	assert.Equal(t, "third", list[2].Text)
	assert.Equal(t, models.TypeText, list[0].Type)
}

func TestInTxRollback(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	st := store.New(db)
	boom := errors.New("boom")

	err := st.InTx(ctx, func(tx *store.Store) error {
		if _, err := tx.CreateQuestionnaire(ctx, "Gone", ""); err != nil {
			return err
		}
		// Nested calls join the outer transaction
		return tx.InTx(ctx, func(inner *store.Store) error {
			if _, err := inner.CreateQuestionnaire(ctx, "Also gone", ""); err != nil {
				return err
			}
			return boom
		})
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, testutil.CountRows(t, db, "questionnaire"))
}

func TestAnswerSelectionsLoaded(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	st := store.New(db)

	qn := testutil.CreateTestQuestionnaire(t, db, "Answers")
	q, opts := testutil.CreateTestQuestion(t, db, qn.ID, "Pick", models.TypeMultiple, "a", "b", "c")
	text, _ := testutil.CreateTestQuestion(t, db, qn.ID, "Say", models.TypeText)

	_, err := st.CreateAnswer(ctx, models.Answer{QuestionID: q.ID, BatchID: "b", SelectedOptions: []int64{opts[0], opts[2]}})
	require.NoError(t, err)
	_, err = st.CreateAnswer(ctx, models.Answer{QuestionID: text.ID, BatchID: "b"})
	require.NoError(t, err)

	all, err := st.ListAnswers(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, []int64{opts[0], opts[2]}, all[0].SelectedOptions)
	assert.Equal(t, []int64{}, all[1].SelectedOptions)
	assert.Nil(t, all[1].TextResponse)

	byQuestion, err := st.ListAnswers(ctx, text.ID)
	require.NoError(t, err)
	assert.Len(t, byQuestion, 1)
}
