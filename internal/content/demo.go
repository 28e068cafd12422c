package content

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/abhisek/scholar/internal/llm"
	"github.com/abhisek/scholar/internal/quiz"
)

var quotedTopic = regexp.MustCompile(`"([^"]+)"`)

// DemoContent answers content requests offline with fixed sample material.
// It is installed as the mock provider's fallback so the app can run with
// no API key.
func DemoContent(ctx context.Context, req llm.Request) (json.RawMessage, error) {
	topic := "this topic"
	if len(req.Messages) > 0 {
		if m := quotedTopic.FindStringSubmatch(req.Messages[0].Content); m != nil {
			topic = m[1]
		}
	}

	var v any
	switch purpose := llm.PurposeFrom(ctx); purpose {
	case PurposeNotes:
		v = demoNotes(topic)
	case PurposeQuiz:
		v = quizOutput{Questions: demoQuestions(topic)}
	case PurposeRemedial:
		v = RemedialPlan{
			Plan: "Re-read the NCERT summary for each missed question, then retry a 5-question quiz on the same topic within 24 hours.",
			SimplifiedNotes: []string{
				"Read every statement in a statement-based question twice before counting.",
				"In assertion-reason questions, first judge A and R independently.",
			},
		}
	default:
		return nil, fmt.Errorf("demo content: unknown purpose %q", purpose)
	}
	return json.Marshal(v)
}

func demoNotes(topic string) NoteModule {
	return NoteModule{
		Topic:             topic,
		ConceptOverview:   fmt.Sprintf("Offline sample notes for %s. Configure an LLM provider for real content.", topic),
		DeepDiveMechanism: "Step 1: identify the governing principle. Step 2: apply it to the NCERT example.",
		KeyNCERTLines:     []string{"Sample NCERT line one.", "Sample NCERT line two."},
		ConfusedTerms:     []ConfusedTerm{{Term1: "Term A", Term2: "Term B", Difference: "A is general, B is a special case."}},
		Mnemonics:         []string{"Sample mnemonic"},
		ExamTraps:         []string{"Options that differ by a single qualifier."},
		CriticalData:      []CriticalDatum{{Label: "Sample constant", Value: "42"}},
	}
}

func demoQuestions(topic string) []quiz.Question {
	return []quiz.Question{
		{
			ID:          "q1",
			Prompt:      fmt.Sprintf("Which statement about %s is correct?", topic),
			Options:     []string{"Statement one", "Statement two", "Statement three", "Statement four"},
			Correct:     1,
			Explanation: "Statement two matches the NCERT text; the others change a key qualifier.",
			Reference:   "NCERT sample reference",
			Category:    quiz.CategoryStandard,
		},
		{
			ID:          "q2",
			Prompt:      "Assertion (A): The sample assertion holds. Reason (R): The sample reason explains it.",
			Options:     []string{"Both A and R are true and R explains A", "Both A and R are true but R does not explain A", "A is true but R is false", "A is false but R is true"},
			Correct:     0,
			Explanation: "Both statements are true and R is the direct cause of A.",
			Reference:   "NCERT sample reference",
			Category:    quiz.CategoryAssertionReason,
		},
	}
}
