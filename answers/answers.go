// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package answers validates and records answer batches.
package answers

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-ask/models"
	"github.com/danielhkuo/quickly-ask/store"
)

// Rule messages
const (
	MsgTextWithOptions   = "text question must not carry option selections"
	MsgChoiceWithoutOpts = "choice question requires at least one option"
	MsgSingleManyOptions = "single choice question accepts exactly one option"
)

var ErrQuestionNotFound = errors.New("question not found")

// QuestionNotFoundError aborts a whole batch
type QuestionNotFoundError struct {
	Index      int
	QuestionID int64
}

func (e *QuestionNotFoundError) Error() string {
	return fmt.Sprintf("question %d not found", e.QuestionID)
}

func (e *QuestionNotFoundError) Unwrap() error { return ErrQuestionNotFound }

// ValidationError is one rejected item of a batch
type ValidationError struct {
	Index      int
	QuestionID int64
	Message    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("answers[%d]: %s", e.Index, e.Message)
}

// BatchError carries every rejected item. Nothing of the batch is stored.
type BatchError struct {
	Items []*ValidationError
}

func (e *BatchError) Error() string {
	msgs := make([]string, len(e.Items))
	for i, item := range e.Items {
		msgs[i] = item.Error()
	}
	return strings.Join(msgs, "; ")
}

// Recorder validates answer batches against the question definitions and
// stores them.
type Recorder struct {
	store  *store.Store
	policy models.OptionPolicy
}

func NewRecorder(st *store.Store, policy models.OptionPolicy) *Recorder {
	return &Recorder{store: st, policy: policy}
}

// Record validates the whole batch and, if every item passes, stores one
// answer per item in a single transaction. All answers of the batch share a
// fresh batch id. Validation happens before the first write, so a rejected
// batch leaves no rows behind.
func (r *Recorder) Record(ctx context.Context, items []models.AnswerSubmission) ([]models.Answer, error) {
	if len(items) == 0 {
		return []models.Answer{}, nil
	}

	batchID := uuid.NewString()
	var created []models.Answer

	err := r.store.InTx(ctx, func(tx *store.Store) error {
		resolved, err := r.validate(ctx, tx, items)
		if err != nil {
			return err
		}

		created = make([]models.Answer, 0, len(resolved))
		for _, a := range resolved {
			a.BatchID = batchID
			a, err := tx.CreateAnswer(ctx, a)
			if err != nil {
				return err
			}
			created = append(created, a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (r *Recorder) validate(ctx context.Context, st *store.Store, items []models.AnswerSubmission) ([]models.Answer, error) {
	questionIDs := make([]int64, 0, len(items))
	var optionIDs []int64
	for _, item := range items {
		questionIDs = append(questionIDs, item.Question)
		optionIDs = append(optionIDs, item.SelectedOptions...)
	}

	questions, err := st.GetQuestions(ctx, unique(questionIDs))
	if err != nil {
		return nil, err
	}
	for i, item := range items {
		if _, ok := questions[item.Question]; !ok {
			return nil, &QuestionNotFoundError{Index: i, QuestionID: item.Question}
		}
	}

	options, err := st.GetOptions(ctx, unique(optionIDs))
	if err != nil {
		return nil, err
	}

	var rejected []*ValidationError
	resolved := make([]models.Answer, 0, len(items))
	for i, item := range items {
		q := questions[item.Question]
		selected, msg := r.checkItem(q, unique(item.SelectedOptions), options)
		if msg != "" {
			rejected = append(rejected, &ValidationError{Index: i, QuestionID: q.ID, Message: msg})
			continue
		}
		resolved = append(resolved, models.Answer{
			QuestionID:      q.ID,
			TextResponse:    item.TextResponse,
			SelectedOptions: selected,
		})
	}

	if len(rejected) > 0 {
		return nil, &BatchError{Items: rejected}
	}
	return resolved, nil
}

// checkItem applies the question type rules and the ownership policy to one
// item and returns the selection to store, or a rule message.
func (r *Recorder) checkItem(q models.Question, selected []int64, options map[int64]models.AnswerOption) ([]int64, string) {
	if q.Type == models.TypeText {
		if len(selected) > 0 {
			return nil, MsgTextWithOptions
		}
		return []int64{}, ""
	}

	if len(selected) == 0 {
		return nil, MsgChoiceWithoutOpts
	}

	own := make([]int64, 0, len(selected))
	for _, id := range selected {
		opt, ok := options[id]
		if ok && opt.QuestionID == q.ID {
			own = append(own, id)
			continue
		}
		if r.policy != models.PolicyFilter {
			return nil, fmt.Sprintf("option %d does not belong to question %d", id, q.ID)
		}
	}

	if len(own) == 0 {
		return nil, fmt.Sprintf("none of the selected options belong to question %d", q.ID)
	}
	if q.Type == models.TypeSingle && len(own) > 1 {
		return nil, MsgSingleManyOptions
	}
	return own, ""
}

// unique returns the ids sorted without duplicates
func unique(ids []int64) []int64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
