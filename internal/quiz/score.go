package quiz

import (
	"math"
	"time"

	"github.com/abhisek/scholar/internal/history"
)

// Marking scheme.
const (
	MarksCorrect = 4
	MarksWrong   = -1

	missedPromptLen = 50
	missedSuffix    = "..."
)

// Answers maps a question ID to the chosen option index.
type Answers map[string]int

// Breakdown is the scored outcome of a session.
type Breakdown struct {
	Correct      int
	Wrong        int
	Unanswered   int
	Score        int
	MaxScore     int
	MissedTopics []string
}

// Accuracy is the share of attempted questions answered correctly, as a
// rounded percentage. Zero when nothing was attempted.
func (b Breakdown) Accuracy() int {
	attempted := b.Correct + b.Wrong
	if attempted == 0 {
		return 0
	}
	return int(math.Floor(float64(b.Correct)/float64(attempted)*100 + 0.5))
}

// Score applies the marking scheme. Score may be negative; it is never
// clamped.
func Score(questions []Question, answers Answers) Breakdown {
	b := Breakdown{
		MaxScore:     MarksCorrect * len(questions),
		MissedTopics: []string{},
	}

	for _, q := range questions {
		chosen, ok := answers[q.ID]
		switch {
		case !ok:
			b.Unanswered++
		case q.IsCorrect(chosen):
			b.Correct++
		default:
			b.Wrong++
		}
		if !ok || !q.IsCorrect(chosen) {
			b.MissedTopics = append(b.MissedTopics, missedSummary(q.Prompt))
		}
	}

	b.Score = MarksCorrect*b.Correct + MarksWrong*b.Wrong
	return b
}

// BuildResult scores a session into a history record.
func BuildResult(id, topic string, questions []Question, answers Answers, now time.Time) history.Result {
	return resultFrom(id, topic, Score(questions, answers), now)
}

func resultFrom(id, topic string, b Breakdown, now time.Time) history.Result {
	return history.Result{
		ID:           id,
		Score:        b.Score,
		Total:        b.MaxScore,
		Topic:        topic,
		MissedTopics: b.MissedTopics,
		Timestamp:    now.UnixMilli(),
	}
}

func missedSummary(prompt string) string {
	r := []rune(prompt)
	if len(r) > missedPromptLen {
		r = r[:missedPromptLen]
	}
	return string(r) + missedSuffix
}
