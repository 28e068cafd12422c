package content

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/scholar/internal/quiz"
)

// Validator checks one generated question. Implementations are stateless.
type Validator interface {
	// Name identifies the validator in errors and logs.
	Name() string

	// Validate inspects q, the question at position index of set.
	Validate(q *quiz.Question, index int, set []quiz.Question) *ValidationError
}

// ValidationError describes why a question failed validation.
type ValidationError struct {
	Validator string
	Question  string
	Message   string
}

func (e *ValidationError) Error() string {
	if e.Question == "" {
		return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
	}
	return fmt.Sprintf("validator %q: question %q: %s", e.Validator, e.Question, e.Message)
}

// IDValidator assigns q1..qN to questions with no id and rejects duplicates.
// It must run first since answers are keyed by id.
type IDValidator struct{}

func (v *IDValidator) Name() string { return "id" }

func (v *IDValidator) Validate(q *quiz.Question, index int, set []quiz.Question) *ValidationError {
	q.ID = strings.TrimSpace(q.ID)
	if q.ID == "" {
		q.ID = fmt.Sprintf("q%d", index+1)
	}
	for i := range index {
		if set[i].ID == q.ID {
			return &ValidationError{Validator: v.Name(), Question: q.ID, Message: "duplicate id"}
		}
	}
	return nil
}

// Length limits for generated text.
const (
	maxPromptLen      = 2000
	maxOptionLen      = 400
	maxExplanationLen = 4000
)

// StructuralValidator applies quiz.Question.Validate plus length limits.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *quiz.Question, _ int, _ []quiz.Question) *ValidationError {
	if q.Category == "" {
		q.Category = quiz.CategoryStandard
	}
	if err := q.Validate(); err != nil {
		return &ValidationError{Validator: v.Name(), Question: q.ID, Message: err.Error()}
	}
	if utf8.RuneCountInString(q.Prompt) > maxPromptLen {
		return &ValidationError{Validator: v.Name(), Question: q.ID,
			Message: fmt.Sprintf("question text exceeds %d characters", maxPromptLen)}
	}
	return nil
}

// optionsPerQuestion matches the quiz prompt, which asks for NEET's
// four-choice format. quiz.Question itself accepts any count from two up;
// this validator is the stricter gate for generated sets.
const optionsPerQuestion = 4

// OptionsValidator requires exactly optionsPerQuestion distinct, non-empty
// options.
type OptionsValidator struct{}

func (v *OptionsValidator) Name() string { return "options" }

func (v *OptionsValidator) Validate(q *quiz.Question, _ int, _ []quiz.Question) *ValidationError {
	if len(q.Options) != optionsPerQuestion {
		return &ValidationError{Validator: v.Name(), Question: q.ID,
			Message: fmt.Sprintf("expected %d options, got %d", optionsPerQuestion, len(q.Options))}
	}
	seen := make(map[string]bool, len(q.Options))
	for i, opt := range q.Options {
		norm := strings.ToLower(strings.TrimSpace(opt))
		switch {
		case norm == "":
			return &ValidationError{Validator: v.Name(), Question: q.ID,
				Message: fmt.Sprintf("option %d is empty", i)}
		case utf8.RuneCountInString(opt) > maxOptionLen:
			return &ValidationError{Validator: v.Name(), Question: q.ID,
				Message: fmt.Sprintf("option %d exceeds %d characters", i, maxOptionLen)}
		case seen[norm]:
			return &ValidationError{Validator: v.Name(), Question: q.ID,
				Message: fmt.Sprintf("option %d duplicates an earlier option", i)}
		}
		seen[norm] = true
	}
	return nil
}

// ExplanationValidator requires an explanation and trims the reference.
type ExplanationValidator struct{}

func (v *ExplanationValidator) Name() string { return "explanation" }

func (v *ExplanationValidator) Validate(q *quiz.Question, _ int, _ []quiz.Question) *ValidationError {
	q.Explanation = strings.TrimSpace(q.Explanation)
	q.Reference = strings.TrimSpace(q.Reference)
	if q.Explanation == "" {
		return &ValidationError{Validator: v.Name(), Question: q.ID, Message: "explanation is empty"}
	}
	if utf8.RuneCountInString(q.Explanation) > maxExplanationLen {
		return &ValidationError{Validator: v.Name(), Question: q.ID,
			Message: fmt.Sprintf("explanation exceeds %d characters", maxExplanationLen)}
	}
	return nil
}
