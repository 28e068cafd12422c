package quiz

import "fmt"

// Category tags the style of a question.
type Category string

const (
	CategoryStandard        Category = "standard"
	CategoryAssertionReason Category = "assertion-reason"
	CategoryStatementBased  Category = "statement-based"
	CategoryMatchFollowing  Category = "match-following"
)

// AllCategories returns all categories in display order.
func AllCategories() []Category {
	return []Category{
		CategoryStandard,
		CategoryAssertionReason,
		CategoryStatementBased,
		CategoryMatchFollowing,
	}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryStandard, CategoryAssertionReason, CategoryStatementBased, CategoryMatchFollowing:
		return true
	}
	return false
}

// DisplayName returns a human-readable label for the category.
func (c Category) DisplayName() string {
	switch c {
	case CategoryStandard:
		return "Standard"
	case CategoryAssertionReason:
		return "Assertion-Reason"
	case CategoryStatementBased:
		return "Statement-Based"
	case CategoryMatchFollowing:
		return "Match the Following"
	default:
		return string(c)
	}
}

// Question is a single multiple-choice question. Immutable once loaded.
type Question struct {
	ID          string   `json:"id"`
	Prompt      string   `json:"question"`
	Options     []string `json:"options"`
	Correct     int      `json:"correctAnswer"`
	Explanation string   `json:"explanation"`
	Reference   string   `json:"ncertReference"`
	Category    Category `json:"type"`
}

// Validate rejects questions that could not be scored correctly.
func (q Question) Validate() error {
	switch {
	case q.ID == "":
		return fmt.Errorf("question has empty id")
	case q.Prompt == "":
		return fmt.Errorf("question %q has empty prompt", q.ID)
	case len(q.Options) < 2:
		return fmt.Errorf("question %q has %d options, need at least 2", q.ID, len(q.Options))
	case q.Correct < 0 || q.Correct >= len(q.Options):
		return fmt.Errorf("question %q: correct index %d out of range [0,%d)", q.ID, q.Correct, len(q.Options))
	case !q.Category.Valid():
		return fmt.Errorf("question %q: unknown category %q", q.ID, q.Category)
	}
	return nil
}

// IsCorrect reports whether option is the correct answer.
func (q Question) IsCorrect(option int) bool {
	return option == q.Correct
}
