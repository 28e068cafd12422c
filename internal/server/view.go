package server

import (
	"github.com/abhisek/scholar/internal/history"
	"github.com/abhisek/scholar/internal/quiz"
)

// QuestionView is a question as shown to a client. The answer key and
// explanation are withheld until the question is revealed.
type QuestionView struct {
	ID          string   `json:"id"`
	Prompt      string   `json:"question"`
	Options     []string `json:"options"`
	Category    string   `json:"type"`
	Selected    *int     `json:"selected,omitempty"`
	Correct     *int     `json:"correctAnswer,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
	Reference   string   `json:"ncertReference,omitempty"`
}

// ResultView is the finished-session summary.
type ResultView struct {
	history.Result
	Percent    int `json:"percent"`
	Accuracy   int `json:"accuracy"`
	Correct    int `json:"correct"`
	Wrong      int `json:"wrong"`
	Unanswered int `json:"unanswered"`
}

// Snapshot is the client view of a session.
type Snapshot struct {
	ID       string        `json:"id"`
	Topic    string        `json:"topic"`
	State    string        `json:"state"`
	Index    int           `json:"index"`
	Total    int           `json:"total"`
	Question *QuestionView `json:"question,omitempty"`
	Result   *ResultView   `json:"result,omitempty"`
	Error    string        `json:"error,omitempty"`
}

func snapshot(s *quiz.Session) Snapshot {
	cur := s.Snapshot()
	snap := Snapshot{
		ID:    cur.ID,
		Topic: cur.Topic,
		State: cur.State.Phase.String(),
		Index: cur.State.Index,
		Total: cur.Len,
	}

	if q := cur.Question; q != nil {
		qv := &QuestionView{
			ID:       q.ID,
			Prompt:   q.Prompt,
			Options:  q.Options,
			Category: string(q.Category),
		}
		if cur.HasSelected {
			opt := cur.Selected
			qv.Selected = &opt
		}
		if cur.State.Phase == quiz.PhaseRevealing {
			correct := q.Correct
			qv.Correct = &correct
			qv.Explanation = q.Explanation
			qv.Reference = q.Reference
		}
		snap.Question = qv
	}

	if cur.Finished {
		snap.Result = &ResultView{
			Result:     cur.Result,
			Percent:    history.Percent(cur.Result),
			Accuracy:   cur.Breakdown.Accuracy(),
			Correct:    cur.Breakdown.Correct,
			Wrong:      cur.Breakdown.Wrong,
			Unanswered: cur.Breakdown.Unanswered,
		}
	}
	if cur.Err != nil {
		snap.Error = cur.Err.Error()
	}
	return snap
}

// HistoryEntry is a stored result with its percentage.
type HistoryEntry struct {
	history.Result
	Percent int `json:"percent"`
}
