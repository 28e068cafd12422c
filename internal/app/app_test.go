package app

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/scholar/internal/content"
	"github.com/abhisek/scholar/internal/history"
	"github.com/abhisek/scholar/internal/quiz"
	"github.com/abhisek/scholar/internal/router"
)

type stubContent struct{}

func (stubContent) GenerateNotes(_ context.Context, topic string) (*content.NoteModule, error) {
	return &content.NoteModule{Topic: topic, ConceptOverview: "overview"}, nil
}

func (stubContent) GenerateQuiz(context.Context, string, int) ([]quiz.Question, error) {
	return nil, quiz.ErrNoQuestions
}

func (stubContent) GenerateRemedialPlan(context.Context, history.Result) (*content.RemedialPlan, error) {
	return &content.RemedialPlan{Plan: "plan", SimplifiedNotes: []string{}}, nil
}

func newModel(t *testing.T) (AppModel, *history.Store) {
	t.Helper()
	store := history.NewStore(history.NewMemoryKV())
	return newAppModel(Options{Content: stubContent{}, History: store}), store
}

func update(m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(AppModel), cmd
}

func TestApp_InitLoadsStats(t *testing.T) {
	m, store := newModel(t)
	ctx := context.Background()
	if err := store.Append(ctx, history.Result{ID: "a", Score: 6, Total: 20, Topic: "Evolution", Timestamp: 1}); err != nil {
		t.Fatal(err)
	}

	m, _ = update(m, m.Init()())
	if m.stats.Attempts != 1 || m.stats.Accuracy != 30 {
		t.Errorf("stats = %+v, want 1 attempt at 30%%", m.stats)
	}
}

func TestApp_NavigateAndBack(t *testing.T) {
	m, _ := newModel(t)
	m, _ = update(m, tea.WindowSizeMsg{Width: 120, Height: 40})

	// Enter on the first menu item opens the syllabus.
	m, cmd := update(m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected push command")
	}
	m, _ = update(m, cmd())
	if m.router.Depth() != 2 || m.router.Active().Title() != "Syllabus" {
		t.Fatalf("active = %q depth %d", m.router.Active().Title(), m.router.Depth())
	}

	if !strings.Contains(m.router.View(120, 30), "Biology") {
		t.Errorf("syllabus view missing subjects")
	}

	m, cmd = update(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Fatal("esc should pop")
	}
	m, _ = update(m, router.PopScreenMsg{})
	if m.router.Depth() != 1 {
		t.Errorf("depth = %d after pop, want 1", m.router.Depth())
	}
}
