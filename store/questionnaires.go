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

// Counters are derived from the question and answer tables on every read.
// One answer batch counts as one completion.
const questionnaireColumns = `
	q.id, q.name, q.description, q.created_at,
	(SELECT COUNT(*) FROM question qs WHERE qs.questionnaire_id = q.id),
	(SELECT COUNT(DISTINCT a.batch_id)
	   FROM answer a
	   JOIN question qa ON qa.id = a.question_id
	  WHERE qa.questionnaire_id = q.id)`

func scanQuestionnaire(row interface{ Scan(...any) error }) (models.Questionnaire, error) {
	var qn models.Questionnaire
	err := row.Scan(&qn.ID, &qn.Name, &qn.Description, &qn.CreatedAt,
		&qn.QuestionsAmount, &qn.CompletionsAmount)
	return qn, err
}

func (s *Store) CreateQuestionnaire(ctx context.Context, name, description string) (models.Questionnaire, error) {
	qn := models.Questionnaire{Name: name, Description: description, CreatedAt: now()}

	err := s.q.QueryRowContext(ctx, `
		INSERT INTO questionnaire (name, description, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, qn.Name, qn.Description, qn.CreatedAt).Scan(&qn.ID)
	if err != nil {
		return models.Questionnaire{}, fmt.Errorf("failed to insert questionnaire: %w", err)
	}

	return qn, nil
}

func (s *Store) GetQuestionnaire(ctx context.Context, id int64) (models.Questionnaire, error) {
	row := s.q.QueryRowContext(ctx,
		"SELECT "+questionnaireColumns+" FROM questionnaire q WHERE q.id = $1", id)

	qn, err := scanQuestionnaire(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Questionnaire{}, ErrNotFound
	}
	if err != nil {
		return models.Questionnaire{}, fmt.Errorf("failed to query questionnaire %d: %w", id, err)
	}
	return qn, nil
}

func (s *Store) ListQuestionnaires(ctx context.Context) ([]models.Questionnaire, error) {
	rows, err := s.q.QueryContext(ctx,
		"SELECT "+questionnaireColumns+" FROM questionnaire q ORDER BY q.id")
	if err != nil {
		return nil, fmt.Errorf("failed to query questionnaires: %w", err)
	}
	defer rows.Close()

	list := []models.Questionnaire{}
	for rows.Next() {
		qn, err := scanQuestionnaire(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan questionnaire: %w", err)
		}
		list = append(list, qn)
	}
	return list, rows.Err()
}

// UpdateQuestionnaire overwrites only the fields that are non-nil
func (s *Store) UpdateQuestionnaire(ctx context.Context, id int64, name, description *string) error {
	err := affectedOne(s.q.ExecContext(ctx, `
		UPDATE questionnaire
		SET name = COALESCE($1, name), description = COALESCE($2, description)
		WHERE id = $3
	`, name, description, id))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to update questionnaire %d: %w", id, err)
	}
	return err
}

// DeleteQuestionnaire removes the questionnaire; the schema cascades to its
// questions, their options and answers.
func (s *Store) DeleteQuestionnaire(ctx context.Context, id int64) error {
	err := affectedOne(s.q.ExecContext(ctx, "DELETE FROM questionnaire WHERE id = $1", id))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to delete questionnaire %d: %w", id, err)
	}
	return err
}
