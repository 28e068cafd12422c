package quiz

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/scholar/internal/history"
	"github.com/abhisek/scholar/internal/quiz"
)

type stubGenerator struct {
	questions []quiz.Question
	err       error
}

func (g stubGenerator) GenerateQuiz(context.Context, string, int) ([]quiz.Question, error) {
	return g.questions, g.err
}

type stubRecorder struct {
	mu      sync.Mutex
	results []history.Result
	err     error
}

func (r *stubRecorder) Append(_ context.Context, res history.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
	return r.err
}

func questions() []quiz.Question {
	return []quiz.Question{
		{ID: "q1", Prompt: "Which enzyme fixes CO2 in C4 mesophyll cells?", Options: []string{"RuBisCO", "PEP carboxylase", "Catalase", "Amylase"}, Correct: 1, Explanation: "PEPcase fixes CO2 first.", Category: quiz.CategoryStandard},
		{ID: "q2", Prompt: "Site of the light reaction?", Options: []string{"Stroma", "Thylakoid", "Cytosol", "Matrix"}, Correct: 1, Explanation: "Thylakoid membranes.", Reference: "Class 11, Ch 13", Category: quiz.CategoryStandard},
	}
}

func press(s *QuizScreen, keys ...string) tea.Cmd {
	var last tea.Cmd
	for _, k := range keys {
		var msg tea.KeyPressMsg
		switch k {
		case "enter":
			msg = tea.KeyPressMsg{Code: tea.KeyEnter}
		case "up":
			msg = tea.KeyPressMsg{Code: tea.KeyUp}
		case "down":
			msg = tea.KeyPressMsg{Code: tea.KeyDown}
		default:
			msg = tea.KeyPressMsg{Code: rune(k[0]), Text: k}
		}
		_, last = s.Update(msg)
	}
	return last
}

func loaded(t *testing.T, gen Generator, rec Recorder) *QuizScreen {
	t.Helper()
	s := New(gen, rec, "Photosynthesis in Higher Plants", 2, nil)
	s.Init()
	qs, err := gen.GenerateQuiz(context.Background(), "", 0)
	s.Update(questionsLoadedMsg{token: s.token, questions: qs, err: err})
	return s
}

func TestQuizScreen_FullRun(t *testing.T) {
	rec := &stubRecorder{}
	s := loaded(t, stubGenerator{questions: questions()}, rec)

	if got := s.Session().State().Phase; got != quiz.PhasePresenting {
		t.Fatalf("phase = %v, want presenting", got)
	}

	// Enter with nothing selected is ignored.
	press(s, "enter")
	if got := s.Session().State().Phase; got != quiz.PhasePresenting {
		t.Fatalf("enter without a choice moved to %v", got)
	}

	press(s, "2", "enter")
	if got := s.Session().State().Phase; got != quiz.PhaseRevealing {
		t.Fatalf("phase = %v, want revealing", got)
	}
	if view := s.View(100, 40); !strings.Contains(view, "Correct") || !strings.Contains(view, "PEPcase") {
		t.Errorf("reveal view missing verdict or explanation:\n%s", view)
	}

	// Selection is closed while revealing.
	press(s, "1")
	if opt, _ := s.Session().Selected(); opt != 1 {
		t.Errorf("selection changed during reveal: %d", opt)
	}

	press(s, "enter", "down", "enter")
	cmd := press(s, "enter")
	if got := s.Session().State().Phase; got != quiz.PhaseFinished {
		t.Fatalf("phase = %v, want finished", got)
	}
	if cmd == nil {
		t.Fatal("finishing should issue a record command")
	}
	s.Update(cmd())

	if len(rec.results) != 1 {
		t.Fatalf("recorded %d results, want 1", len(rec.results))
	}
	r := rec.results[0]
	if r.Score != 3 || r.Total != 8 {
		t.Errorf("score = %d/%d, want 3/8", r.Score, r.Total)
	}
	if len(r.MissedTopics) != 1 {
		t.Errorf("missed = %v, want one entry", r.MissedTopics)
	}

	view := s.View(100, 40)
	for _, want := range []string{"Score 3 / 8", "1 correct", "1 wrong", "Saved"} {
		if !strings.Contains(view, want) {
			t.Errorf("finished view missing %q", want)
		}
	}

	// Further input never records again.
	if cmd := press(s, "enter"); cmd != nil {
		t.Error("finished screen should not issue commands")
	}
	if len(rec.results) != 1 {
		t.Errorf("recorded %d results after extra input, want 1", len(rec.results))
	}
}

func TestQuizScreen_ArrowSelection(t *testing.T) {
	s := loaded(t, stubGenerator{questions: questions()}, nil)
	press(s, "down", "down")
	if opt, ok := s.Session().Selected(); !ok || opt != 1 {
		t.Errorf("selected = %d,%v, want 1,true", opt, ok)
	}
}

func TestQuizScreen_LoadFailure(t *testing.T) {
	s := loaded(t, stubGenerator{err: errors.New("rate limited")}, nil)
	if got := s.Session().State().Phase; got != quiz.PhaseFailed {
		t.Fatalf("phase = %v, want failed", got)
	}
	if !strings.Contains(s.View(100, 40), "Could not generate a quiz") {
		t.Error("failed view missing message")
	}
}

func TestQuizScreen_InvalidSetFails(t *testing.T) {
	bad := questions()
	bad[1].ID = "q1"
	s := loaded(t, stubGenerator{questions: bad}, nil)
	if got := s.Session().State().Phase; got != quiz.PhaseFailed {
		t.Errorf("phase = %v, want failed", got)
	}
}

func TestQuizScreen_DropsStaleResult(t *testing.T) {
	s := New(stubGenerator{}, nil, "Optics", 2, nil)
	s.Init()
	s.Update(questionsLoadedMsg{token: s.token - 1, questions: questions()})
	if got := s.Session().State().Phase; got != quiz.PhaseLoading {
		t.Errorf("stale questions were applied: phase %v", got)
	}
}

func TestQuizScreen_RecordFailureShown(t *testing.T) {
	rec := &stubRecorder{err: errors.New("disk full")}
	s := loaded(t, stubGenerator{questions: questions()[:1]}, rec)

	press(s, "1", "enter")
	cmd := press(s, "enter")
	if cmd == nil {
		t.Fatal("expected record command")
	}
	s.Update(cmd())
	if !strings.Contains(s.View(100, 40), "Result not saved") {
		t.Error("save failure not shown")
	}
}
