// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package projection

import (
	"context"

	"github.com/danielhkuo/quickly-ask/models"
	"github.com/danielhkuo/quickly-ask/store"
)

// Questionnaire assembles the nested view of a questionnaire: its fields,
// its questions ordered by order then id, and each question's options in
// insertion order. Options are loaded in one query for all questions.
func Questionnaire(ctx context.Context, st *store.Store, id int64) (models.QuestionnaireView, error) {
	qn, err := st.GetQuestionnaire(ctx, id)
	if err != nil {
		return models.QuestionnaireView{}, err
	}

	questions, err := st.ListQuestionsByQuestionnaire(ctx, id)
	if err != nil {
		return models.QuestionnaireView{}, err
	}

	ids := make([]int64, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	options, err := st.ListOptionsByQuestions(ctx, ids)
	if err != nil {
		return models.QuestionnaireView{}, err
	}

	view := models.QuestionnaireView{
		ID:                qn.ID,
		Name:              qn.Name,
		Description:       qn.Description,
		QuestionsAmount:   qn.QuestionsAmount,
		CompletionsAmount: qn.CompletionsAmount,
		CreatedAt:         qn.CreatedAt,
		Questions:         make([]models.QuestionView, 0, len(questions)),
	}
	for _, q := range questions {
		view.Questions = append(view.Questions, questionView(q, options[q.ID], false))
	}

	return view, nil
}

// Question returns one question with its options and owning questionnaire id
func Question(ctx context.Context, st *store.Store, id int64) (models.QuestionView, error) {
	q, err := st.GetQuestion(ctx, id)
	if err != nil {
		return models.QuestionView{}, err
	}

	options, err := st.ListOptions(ctx, id)
	if err != nil {
		return models.QuestionView{}, err
	}

	return questionView(q, options, true), nil
}

// Questions projects a flat list of questions, options included
func Questions(ctx context.Context, st *store.Store, questionnaireID int64) ([]models.QuestionView, error) {
	questions, err := st.ListQuestions(ctx, questionnaireID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	options, err := st.ListOptionsByQuestions(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]models.QuestionView, 0, len(questions))
	for _, q := range questions {
		views = append(views, questionView(q, options[q.ID], true))
	}
	return views, nil
}

// Summaries lists questionnaires without their questions
func Summaries(ctx context.Context, st *store.Store) ([]models.QuestionnaireSummary, error) {
	list, err := st.ListQuestionnaires(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.QuestionnaireSummary, 0, len(list))
	for _, qn := range list {
		out = append(out, models.QuestionnaireSummary{
			ID:                qn.ID,
			Name:              qn.Name,
			Description:       qn.Description,
			QuestionsAmount:   qn.QuestionsAmount,
			CompletionsAmount: qn.CompletionsAmount,
			CreatedAt:         qn.CreatedAt,
		})
	}
	return out, nil
}

// Answer reduces a stored answer to its response shape
func Answer(a models.Answer) models.AnswerView {
	selected := a.SelectedOptions
	if selected == nil {
		selected = []int64{}
	}
	return models.AnswerView{
		ID:              a.ID,
		Question:        a.QuestionID,
		SelectedOptions: selected,
		TextResponse:    a.TextResponse,
		CreatedAt:       a.CreatedAt,
	}
}

func questionView(q models.Question, options []models.AnswerOption, withOwner bool) models.QuestionView {
	view := models.QuestionView{
		ID:           q.ID,
		Question:     q.Text,
		QuestionType: q.Type,
		Order:        q.Order,
		Options:      make([]models.OptionView, 0, len(options)),
	}
	if withOwner {
		view.Questionnaire = q.QuestionnaireID
	}
	for _, opt := range options {
		view.Options = append(view.Options, models.OptionView{ID: opt.ID, Text: opt.Text})
	}
	return view
}
