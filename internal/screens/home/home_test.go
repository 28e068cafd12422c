package home

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/scholar/internal/router"
	"github.com/abhisek/scholar/internal/screen"
	"github.com/abhisek/scholar/internal/ui/layout"
)

type stubScreen struct{ title string }

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title }
func (s *stubScreen) Title() string                           { return s.title }

func newHome() *HomeScreen {
	return New(Options{
		Syllabus:    func() screen.Screen { return &stubScreen{title: "Syllabus"} },
		Performance: func() screen.Screen { return &stubScreen{title: "Performance"} },
		Topics:      95,
	})
}

func TestHome_MenuPushesScreens(t *testing.T) {
	tests := []struct {
		name  string
		keys  []tea.KeyPressMsg
		title string
	}{
		{"syllabus", []tea.KeyPressMsg{{Code: tea.KeyEnter}}, "Syllabus"},
		{"performance", []tea.KeyPressMsg{{Code: tea.KeyDown}, {Code: tea.KeyEnter}}, "Performance"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHome()
			var cmd tea.Cmd
			for _, k := range tt.keys {
				_, cmd = h.Update(k)
			}
			if cmd == nil {
				t.Fatal("expected a command")
			}
			push, ok := cmd().(router.PushScreenMsg)
			if !ok {
				t.Fatalf("expected PushScreenMsg, got %T", cmd())
			}
			if push.Screen.Title() != tt.title {
				t.Errorf("pushed %q, want %q", push.Screen.Title(), tt.title)
			}
		})
	}
}

func TestHome_QuitItem(t *testing.T) {
	h := newHome()
	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected QuitMsg, got %T", cmd())
	}
}

func TestHome_StatsAndBanner(t *testing.T) {
	h := newHome()
	h.Update(screen.StatsMsg{Stats: layout.Stats{Attempts: 4, Accuracy: 72}})

	view := h.View(120, 40)
	for _, want := range []string{"72% ACCURACY", "4 QUIZZES", "95 CHAPTERS", "Syllabus", "Performance", "Quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "Offline demo") {
		t.Error("banner shown without demo mode")
	}

	h.opts.Demo = true
	if !strings.Contains(h.View(120, 40), "Offline demo") {
		t.Error("demo banner missing")
	}
}
