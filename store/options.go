// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielhkuo/quickly-ask/models"
)

func (s *Store) CreateOption(ctx context.Context, questionID int64, text string) (models.AnswerOption, error) {
	ok, err := s.exists(ctx, "question", questionID)
	if err != nil {
		return models.AnswerOption{}, err
	}
	if !ok {
		return models.AnswerOption{}, &ReferenceError{Entity: "question", ID: questionID}
	}

	opt := models.AnswerOption{QuestionID: questionID, Text: text}
	err = s.q.QueryRowContext(ctx, `
		INSERT INTO answer_option (question_id, text)
		VALUES ($1, $2)
		RETURNING id
	`, questionID, text).Scan(&opt.ID)
	if err != nil {
		return models.AnswerOption{}, fmt.Errorf("failed to insert option: %w", err)
	}

	return opt, nil
}

// ListOptions returns a question's options in insertion order
func (s *Store) ListOptions(ctx context.Context, questionID int64) ([]models.AnswerOption, error) {
	return s.queryOptions(ctx, `
		SELECT id, question_id, text
		FROM answer_option
		WHERE question_id = $1
		ORDER BY id
	`, questionID)
}

// ListOptionsByQuestions loads the options of several questions at once,
// grouped by question id, each group in insertion order.
func (s *Store) ListOptionsByQuestions(ctx context.Context, questionIDs []int64) (map[int64][]models.AnswerOption, error) {
	out := make(map[int64][]models.AnswerOption, len(questionIDs))
	if len(questionIDs) == 0 {
		return out, nil
	}

	list, err := s.queryOptions(ctx, `
		SELECT id, question_id, text
		FROM answer_option
		WHERE question_id IN (`+placeholders(1, len(questionIDs))+`)
		ORDER BY id
	`, int64Args(questionIDs)...)
	if err != nil {
		return nil, err
	}
	for _, opt := range list {
		out[opt.QuestionID] = append(out[opt.QuestionID], opt)
	}
	return out, nil
}

// GetOptions resolves option ids. Unknown ids are absent from the result.
func (s *Store) GetOptions(ctx context.Context, ids []int64) (map[int64]models.AnswerOption, error) {
	out := make(map[int64]models.AnswerOption, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	list, err := s.queryOptions(ctx, `
		SELECT id, question_id, text
		FROM answer_option
		WHERE id IN (`+placeholders(1, len(ids))+`)
	`, int64Args(ids)...)
	if err != nil {
		return nil, err
	}
	for _, opt := range list {
		out[opt.ID] = opt
	}
	return out, nil
}

func (s *Store) queryOptions(ctx context.Context, query string, args ...any) ([]models.AnswerOption, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query options: %w", err)
	}
	defer rows.Close()

	list := []models.AnswerOption{}
	for rows.Next() {
		var opt models.AnswerOption
		if err := rows.Scan(&opt.ID, &opt.QuestionID, &opt.Text); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		list = append(list, opt)
	}
	return list, rows.Err()
}

func (s *Store) UpdateOption(ctx context.Context, opt models.AnswerOption) error {
	err := affectedOne(s.q.ExecContext(ctx,
		"UPDATE answer_option SET text = $1 WHERE id = $2", opt.Text, opt.ID))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to update option %d: %w", opt.ID, err)
	}
	return err
}

// DeleteOption removes the option and drops it from every answer that selected it
func (s *Store) DeleteOption(ctx context.Context, id int64) error {
	err := affectedOne(s.q.ExecContext(ctx, "DELETE FROM answer_option WHERE id = $1", id))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to delete option %d: %w", id, err)
	}
	return err
}
