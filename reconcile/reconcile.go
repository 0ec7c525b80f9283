// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package reconcile writes nested questionnaire payloads. Create stores a
// whole tree; Update merges a partial tree into the stored one without ever
// deleting questions, and converges each listed question's options onto the
// supplied texts.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/danielhkuo/quickly-ask/models"
	"github.com/danielhkuo/quickly-ask/store"
)

var ErrMissingQuestionText = errors.New("new question requires question text")

// Result counts the writes one create or update performed
type Result struct {
	QuestionnaireID  int64
	QuestionsCreated int
	QuestionsUpdated int
	QuestionsSkipped int // ids that matched no question of this questionnaire
	OptionsCreated   int
	OptionsUpdated   int
	OptionsDeleted   int
}

func (r Result) LogAttrs() []any {
	return []any{
		"questionnaire_id", r.QuestionnaireID,
		"questions_created", r.QuestionsCreated,
		"questions_updated", r.QuestionsUpdated,
		"questions_skipped", r.QuestionsSkipped,
		"options_created", r.OptionsCreated,
		"options_updated", r.OptionsUpdated,
		"options_deleted", r.OptionsDeleted,
	}
}

// Create stores a new questionnaire with its questions and, for single and
// multiple choice questions, one option per supplied text. All rows are
// written in one transaction.
func Create(ctx context.Context, st *store.Store, req models.CreateQuestionnaireRequest) (Result, error) {
	var res Result

	err := st.InTx(ctx, func(tx *store.Store) error {
		qn, err := tx.CreateQuestionnaire(ctx, req.Name, req.Description)
		if err != nil {
			return err
		}
		res.QuestionnaireID = qn.ID

		for _, qs := range req.Questions {
			q, err := tx.CreateQuestion(ctx, models.Question{
				QuestionnaireID: qn.ID,
				Text:            qs.Question,
				Order:           qs.Order,
				Type:            qs.QuestionType,
			})
			if err != nil {
				return err
			}
			res.QuestionsCreated++

			n, err := createOptions(ctx, tx, q, qs.Options)
			if err != nil {
				return err
			}
			res.OptionsCreated += n
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	return res, nil
}

// Update applies the desired state onto questionnaire id in one transaction.
//
// Name and description change only when present. Question patches with an id
// update that question (absent fields keep their value) and, when the patch
// carries an options list, reconcile its options by text. Patches whose id
// matches no question of this questionnaire are skipped without error. Patches
// without an id create a new question. Questions missing from the payload are
// never deleted.
func Update(ctx context.Context, st *store.Store, id int64, req models.UpdateQuestionnaireRequest) (Result, error) {
	for i, qs := range req.Questions {
		if qs.ID == nil && (qs.Question == nil || *qs.Question == "") {
			return Result{}, fmt.Errorf("questions[%d]: %w", i, ErrMissingQuestionText)
		}
	}

	res := Result{QuestionnaireID: id}

	err := st.InTx(ctx, func(tx *store.Store) error {
		if err := tx.UpdateQuestionnaire(ctx, id, req.Name, req.Description); err != nil {
			return err
		}

		current, err := tx.ListQuestionsByQuestionnaire(ctx, id)
		if err != nil {
			return err
		}
		byID := make(map[int64]models.Question, len(current))
		for _, q := range current {
			byID[q.ID] = q
		}

		for _, qs := range req.Questions {
			if qs.ID == nil {
				if err := addQuestion(ctx, tx, id, qs, &res); err != nil {
					return err
				}
				continue
			}

			q, ok := byID[*qs.ID]
			if !ok {
				slog.Debug("skipping unknown question id", "questionnaire_id", id, "question_id", *qs.ID)
				res.QuestionsSkipped++
				continue
			}

			q = mergeQuestion(q, qs)
			if err := tx.UpdateQuestion(ctx, q); err != nil {
				return err
			}
			byID[q.ID] = q
			res.QuestionsUpdated++

			if qs.Options == nil {
				continue
			}
			if err := reconcileOptions(ctx, tx, q.ID, optionTexts(qs.Options), &res); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	return res, nil
}

func addQuestion(ctx context.Context, tx *store.Store, questionnaireID int64, qs models.QuestionPatch, res *Result) error {
	q := mergeQuestion(models.Question{QuestionnaireID: questionnaireID, Type: models.TypeText}, qs)
	q, err := tx.CreateQuestion(ctx, q)
	if err != nil {
		return err
	}
	res.QuestionsCreated++

	n, err := createOptions(ctx, tx, q, optionTexts(qs.Options))
	if err != nil {
		return err
	}
	res.OptionsCreated += n
	return nil
}

func mergeQuestion(q models.Question, qs models.QuestionPatch) models.Question {
	if qs.Question != nil {
		q.Text = *qs.Question
	}
	if qs.QuestionType != nil {
		q.Type = *qs.QuestionType
	}
	if qs.Order != nil {
		q.Order = *qs.Order
	}
	return q
}

func reconcileOptions(ctx context.Context, tx *store.Store, questionID int64, desired []string, res *Result) error {
	existing, err := tx.ListOptions(ctx, questionID)
	if err != nil {
		return err
	}

	plan := PlanOptions(existing, desired)

	for _, opt := range plan.Delete {
		if err := tx.DeleteOption(ctx, opt.ID); err != nil {
			return err
		}
		res.OptionsDeleted++
	}
	for _, opt := range plan.Keep {
		if err := tx.UpdateOption(ctx, opt); err != nil {
			return err
		}
		res.OptionsUpdated++
	}
	for _, text := range plan.Create {
		if _, err := tx.CreateOption(ctx, questionID, text); err != nil {
			return err
		}
		res.OptionsCreated++
	}
	return nil
}

// createOptions stores the distinct option texts of a freshly created
// question. Text questions take no options, so their texts are dropped.
func createOptions(ctx context.Context, tx *store.Store, q models.Question, texts []string) (int, error) {
	if !models.IsChoiceType(q.Type) {
		return 0, nil
	}
	texts = distinct(texts)
	for _, text := range texts {
		if _, err := tx.CreateOption(ctx, q.ID, text); err != nil {
			return 0, err
		}
	}
	return len(texts), nil
}

func optionTexts(inputs []models.OptionInput) []string {
	texts := make([]string, len(inputs))
	for i, qs := range inputs {
		texts[i] = qs.Text
	}
	return texts
}
