package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Question type constants
const (
	TypeText     = "text"
	TypeSingle   = "single"
	TypeMultiple = "multiple"
)

// IsChoiceType reports whether answers to the question type select options
func IsChoiceType(questionType string) bool {
	return questionType == TypeSingle || questionType == TypeMultiple
}

// OptionPolicy decides what happens to selected options that belong to
// another question (or to no question at all).
type OptionPolicy string

const (
	PolicyReject OptionPolicy = "reject" // fail the batch
	PolicyFilter OptionPolicy = "filter" // drop the foreign ids silently
)

func ParseOptionPolicy(s string) (OptionPolicy, error) {
	switch p := OptionPolicy(s); p {
	case PolicyReject, PolicyFilter:
		return p, nil
	default:
		return "", fmt.Errorf("unsupported option selection policy %q", s)
	}
}

// Request types

type CreateQuestionnaireRequest struct {
	Name        string        `json:"name" validate:"required,max=100"`
	Description string        `json:"description" validate:"max=200"`
	Questions   []NewQuestion `json:"questions" validate:"dive"`
}

// Options are plain texts; they are only stored for single/multiple questions.
type NewQuestion struct {
	Question     string   `json:"question" validate:"required"`
	QuestionType string   `json:"question_type" validate:"omitempty,oneof=text single multiple"`
	Order        int      `json:"order"`
	Options      []string `json:"options" validate:"dive,required,max=255"`
}

// Nil fields keep their stored value.
type UpdateQuestionnaireRequest struct {
	Name        *string         `json:"name" validate:"omitnil,min=1,max=100"`
	Description *string         `json:"description" validate:"omitnil,max=200"`
	Questions   []QuestionPatch `json:"questions" validate:"dive"`
}

// A patch without ID describes a new question. A nil Options slice leaves the
// stored options alone; an empty one removes them all.
type QuestionPatch struct {
	ID           *int64        `json:"id"`
	Question     *string       `json:"question" validate:"omitnil,min=1"`
	QuestionType *string       `json:"question_type" validate:"omitnil,oneof=text single multiple"`
	Order        *int          `json:"order"`
	Options      []OptionInput `json:"options" validate:"dive"`
}

// ID is accepted for compatibility with retrieve payloads but options are
// matched by text.
type OptionInput struct {
	ID   *int64 `json:"id,omitempty"`
	Text string `json:"text" validate:"required,max=255"`
}

// Plain question rows; options are managed through the questionnaire endpoints.
type CreateQuestionRequest struct {
	Questionnaire int64  `json:"questionnaire" validate:"required"`
	Question      string `json:"question" validate:"required"`
	QuestionType  string `json:"question_type" validate:"omitempty,oneof=text single multiple"`
	Order         int    `json:"order"`
}

type UpdateQuestionRequest struct {
	Question     *string `json:"question" validate:"omitnil,min=1"`
	QuestionType *string `json:"question_type" validate:"omitnil,oneof=text single multiple"`
	Order        *int    `json:"order"`
}

// Answers is kept raw so a non-list value can be told apart from a bad item.
type SubmitAnswersRequest struct {
	Answers json.RawMessage `json:"answers"`
}

type AnswerSubmission struct {
	Question        int64   `json:"question"`
	SelectedOptions []int64 `json:"selected_options"`
	TextResponse    *string `json:"text_response"`
}

// Response types

type OptionView struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

type QuestionView struct {
	ID            int64        `json:"id"`
	Questionnaire int64        `json:"questionnaire,omitempty"`
	Question      string       `json:"question"`
	QuestionType  string       `json:"question_type"`
	Order         int          `json:"order"`
	Options       []OptionView `json:"options"`
}

type QuestionnaireView struct {
	ID                int64          `json:"id"`
	Name              string         `json:"name"`
	Description       string         `json:"description"`
	QuestionsAmount   int            `json:"questions_amount"`
	CompletionsAmount int            `json:"completions_amount"`
	CreatedAt         time.Time      `json:"created_at"`
	Questions         []QuestionView `json:"questions"`
}

type QuestionnaireSummary struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	QuestionsAmount   int       `json:"questions_amount"`
	CompletionsAmount int       `json:"completions_amount"`
	CreatedAt         time.Time `json:"created_at"`
}

type AnswerView struct {
	ID              int64     `json:"id"`
	Question        int64     `json:"question"`
	SelectedOptions []int64   `json:"selected_options"`
	TextResponse    *string   `json:"text_response"`
	CreatedAt       time.Time `json:"created_at"`
}

// Domain types

type Questionnaire struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time

	// Derived on read, never stored
	QuestionsAmount   int
	CompletionsAmount int
}

type Question struct {
	ID              int64
	QuestionnaireID int64
	Text            string
	Order           int
	Type            string
}

type AnswerOption struct {
	ID         int64
	QuestionID int64
	Text       string
}

type Answer struct {
	ID              int64
	QuestionID      int64
	TextResponse    *string
	BatchID         string
	SelectedOptions []int64
	CreatedAt       time.Time
}

// Error response

type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message,omitempty"`
	Details []ItemError `json:"details,omitempty"`
}

// ItemError points at one entry of a batch request
type ItemError struct {
	Index    int    `json:"index"`
	Question int64  `json:"question,omitempty"`
	Message  string `json:"message"`
}
