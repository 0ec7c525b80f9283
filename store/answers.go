// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/danielhkuo/quickly-ask/models"
)

// CreateAnswer inserts an answer and its option selections. The question and
// every selected option must exist; whether the options belong to the question
// is the caller's rule, not the store's.
func (s *Store) CreateAnswer(ctx context.Context, a models.Answer) (models.Answer, error) {
	ok, err := s.exists(ctx, "question", a.QuestionID)
	if err != nil {
		return models.Answer{}, err
	}
	if !ok {
		return models.Answer{}, &ReferenceError{Entity: "question", ID: a.QuestionID}
	}

	opts, err := s.GetOptions(ctx, a.SelectedOptions)
	if err != nil {
		return models.Answer{}, err
	}
	for _, id := range a.SelectedOptions {
		if _, ok := opts[id]; !ok {
			return models.Answer{}, &ReferenceError{Entity: "answer_option", ID: id}
		}
	}

	a.CreatedAt = now()
	err = s.q.QueryRowContext(ctx, `
		INSERT INTO answer (question_id, text_response, batch_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, a.QuestionID, a.TextResponse, a.BatchID, a.CreatedAt).Scan(&a.ID)
	if err != nil {
		return models.Answer{}, fmt.Errorf("failed to insert answer: %w", err)
	}

	for _, optionID := range a.SelectedOptions {
		_, err := s.q.ExecContext(ctx, `
			INSERT INTO answer_selected_option (answer_id, option_id)
			VALUES ($1, $2)
		`, a.ID, optionID)
		if err != nil {
			return models.Answer{}, fmt.Errorf("failed to insert answer selection: %w", err)
		}
	}

	if a.SelectedOptions == nil {
		a.SelectedOptions = []int64{}
	}
	return a, nil
}

func (s *Store) GetAnswer(ctx context.Context, id int64) (models.Answer, error) {
	list, err := s.queryAnswers(ctx, `
		SELECT id, question_id, text_response, batch_id, created_at
		FROM answer
		WHERE id = $1
	`, id)
	if err != nil {
		return models.Answer{}, err
	}
	if len(list) == 0 {
		return models.Answer{}, ErrNotFound
	}
	return list[0], nil
}

// ListAnswers returns every answer, or only those of one question when
// questionID is non-zero, oldest first.
func (s *Store) ListAnswers(ctx context.Context, questionID int64) ([]models.Answer, error) {
	if questionID != 0 {
		return s.queryAnswers(ctx, `
			SELECT id, question_id, text_response, batch_id, created_at
			FROM answer
			WHERE question_id = $1
			ORDER BY id
		`, questionID)
	}
	return s.queryAnswers(ctx, `
		SELECT id, question_id, text_response, batch_id, created_at
		FROM answer
		ORDER BY id
	`)
}

func (s *Store) queryAnswers(ctx context.Context, query string, args ...any) ([]models.Answer, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query answers: %w", err)
	}

	list := []models.Answer{}
	for rows.Next() {
		var a models.Answer
		var text sql.NullString
		if err := rows.Scan(&a.ID, &a.QuestionID, &text, &a.BatchID, &a.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		if text.Valid {
			a.TextResponse = &text.String
		}
		a.SelectedOptions = []int64{}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	// Close before the next query; a transaction holds a single connection
	rows.Close()

	if err := s.loadSelections(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Store) loadSelections(ctx context.Context, answers []models.Answer) error {
	if len(answers) == 0 {
		return nil
	}

	index := make(map[int64]int, len(answers))
	ids := make([]int64, len(answers))
	for i, a := range answers {
		index[a.ID] = i
		ids[i] = a.ID
	}

	rows, err := s.q.QueryContext(ctx, `
		SELECT answer_id, option_id
		FROM answer_selected_option
		WHERE answer_id IN (`+placeholders(1, len(ids))+`)
		ORDER BY answer_id, option_id
	`, int64Args(ids)...)
	if err != nil {
		return fmt.Errorf("failed to query answer selections: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var answerID, optionID int64
		if err := rows.Scan(&answerID, &optionID); err != nil {
			return fmt.Errorf("failed to scan answer selection: %w", err)
		}
		i := index[answerID]
		answers[i].SelectedOptions = append(answers[i].SelectedOptions, optionID)
	}
	return rows.Err()
}
