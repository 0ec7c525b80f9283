// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/quickly-ask/models"
)

const questionColumns = "id, questionnaire_id, question, sort_order, question_type"

func scanQuestion(row interface{ Scan(...any) error }) (models.Question, error) {
	var q models.Question
	err := row.Scan(&q.ID, &q.QuestionnaireID, &q.Text, &q.Order, &q.Type)
	return q, err
}

// CreateQuestion inserts a question under an existing questionnaire.
// An empty type defaults to text.
func (s *Store) CreateQuestion(ctx context.Context, q models.Question) (models.Question, error) {
	ok, err := s.exists(ctx, "questionnaire", q.QuestionnaireID)
	if err != nil {
		return models.Question{}, err
	}
	if !ok {
		return models.Question{}, &ReferenceError{Entity: "questionnaire", ID: q.QuestionnaireID}
	}

	if q.Type == "" {
		q.Type = models.TypeText
	}

	err = s.q.QueryRowContext(ctx, `
		INSERT INTO question (questionnaire_id, question, sort_order, question_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, q.QuestionnaireID, q.Text, q.Order, q.Type).Scan(&q.ID)
	if err != nil {
		return models.Question{}, fmt.Errorf("failed to insert question: %w", err)
	}

	return q, nil
}

func (s *Store) GetQuestion(ctx context.Context, id int64) (models.Question, error) {
	q, err := scanQuestion(s.q.QueryRowContext(ctx,
		"SELECT "+questionColumns+" FROM question WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Question{}, ErrNotFound
	}
	if err != nil {
		return models.Question{}, fmt.Errorf("failed to query question %d: %w", id, err)
	}
	return q, nil
}

// GetQuestions resolves a set of ids in one round trip. Missing ids are
// simply absent from the result.
func (s *Store) GetQuestions(ctx context.Context, ids []int64) (map[int64]models.Question, error) {
	out := make(map[int64]models.Question, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	list, err := s.queryQuestions(ctx,
		"SELECT "+questionColumns+" FROM question WHERE id IN ("+placeholders(1, len(ids))+")",
		int64Args(ids)...)
	if err != nil {
		return nil, err
	}
	for _, q := range list {
		out[q.ID] = q
	}
	return out, nil
}

// ListQuestions returns every question, or only those of one questionnaire
// when questionnaireID is non-zero.
func (s *Store) ListQuestions(ctx context.Context, questionnaireID int64) ([]models.Question, error) {
	if questionnaireID != 0 {
		return s.ListQuestionsByQuestionnaire(ctx, questionnaireID)
	}
	return s.queryQuestions(ctx,
		"SELECT "+questionColumns+" FROM question ORDER BY questionnaire_id, sort_order, id")
}

// ListQuestionsByQuestionnaire returns questions in display order (order, then id)
func (s *Store) ListQuestionsByQuestionnaire(ctx context.Context, questionnaireID int64) ([]models.Question, error) {
	return s.queryQuestions(ctx, `
		SELECT `+questionColumns+`
		FROM question
		WHERE questionnaire_id = $1
		ORDER BY sort_order, id
	`, questionnaireID)
}

func (s *Store) queryQuestions(ctx context.Context, query string, args ...any) ([]models.Question, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	list := []models.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		list = append(list, q)
	}
	return list, rows.Err()
}

// UpdateQuestion writes text, order and type. The owning questionnaire never changes.
func (s *Store) UpdateQuestion(ctx context.Context, q models.Question) error {
	err := affectedOne(s.q.ExecContext(ctx, `
		UPDATE question
		SET question = $1, sort_order = $2, question_type = $3
		WHERE id = $4
	`, q.Text, q.Order, q.Type, q.ID))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to update question %d: %w", q.ID, err)
	}
	return err
}

// DeleteQuestion removes the question together with its options and answers
func (s *Store) DeleteQuestion(ctx context.Context, id int64) error {
	err := affectedOne(s.q.ExecContext(ctx, "DELETE FROM question WHERE id = $1", id))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to delete question %d: %w", id, err)
	}
	return err
}
