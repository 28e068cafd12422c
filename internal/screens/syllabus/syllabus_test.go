package syllabus

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/scholar/internal/router"
	"github.com/abhisek/scholar/internal/screen"
	syl "github.com/abhisek/scholar/internal/syllabus"
)

type stubScreen struct{ topic string }

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.topic }
func (s *stubScreen) Title() string                           { return s.topic }

func keyMsg(k string) tea.KeyPressMsg {
	switch k {
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	}
	return tea.KeyPressMsg{Code: rune(k[0]), Text: k}
}

func send(s *SyllabusScreen, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = s.Update(keyMsg(k))
	}
	return cmd
}

func typeText(s *SyllabusScreen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func newScreen() (*SyllabusScreen, *[]string) {
	var opened []string
	open := Openers{
		Notes: func(topic string) screen.Screen {
			opened = append(opened, "notes:"+topic)
			return &stubScreen{topic: topic}
		},
		Quiz: func(topic string) screen.Screen {
			opened = append(opened, "quiz:"+topic)
			return &stubScreen{topic: topic}
		},
	}
	return New(syl.Default(), open), &opened
}

func TestSyllabusScreen_ShowsEverything(t *testing.T) {
	s, _ := newScreen()
	if s.Subject() != syl.All {
		t.Errorf("initial filter = %q, want %q", s.Subject(), syl.All)
	}
	if s.Visible() != syl.Default().TopicCount() {
		t.Errorf("visible = %d, want %d", s.Visible(), syl.Default().TopicCount())
	}
}

func TestSyllabusScreen_TabCyclesSubjects(t *testing.T) {
	s, _ := newScreen()
	filters := syl.Default().Filters()
	for i := 1; i <= len(filters); i++ {
		send(s, "tab")
		want := filters[i%len(filters)]
		if s.Subject() != want {
			t.Fatalf("after %d tabs filter = %q, want %q", i, s.Subject(), want)
		}
	}

	send(s, "tab") // Biology
	bio := syl.Default().Filter(s.Subject(), "").TopicCount()
	if s.Visible() != bio {
		t.Errorf("visible = %d, want %d", s.Visible(), bio)
	}
}

func TestSyllabusScreen_Search(t *testing.T) {
	s, _ := newScreen()
	send(s, "/")
	typeText(s, "thermo")
	send(s, "enter")

	if s.Visible() != 2 {
		t.Errorf("visible = %d, want 2 (Physics and Chemistry)", s.Visible())
	}
	if got, _ := s.Selected(); got != "Thermodynamics" {
		t.Errorf("selected = %q", got)
	}

	// Typing after blur navigates instead of searching.
	send(s, "down")
	if s.selected != 1 {
		t.Errorf("selected index = %d, want 1", s.selected)
	}

	send(s, "/")
	typeText(s, "zzz")
	if s.Visible() != 0 {
		t.Errorf("visible = %d, want 0", s.Visible())
	}
	if !strings.Contains(s.View(100, 30), "No chapters match") {
		t.Error("empty view missing message")
	}
	if cmd := send(s, "enter", "q"); cmd != nil {
		t.Error("no topic selected, quiz should not open")
	}
}

func TestSyllabusScreen_OpensNotesAndQuiz(t *testing.T) {
	s, opened := newScreen()
	first, ok := s.Selected()
	if !ok {
		t.Fatal("no topic selected")
	}

	cmd := send(s, "n")
	if cmd == nil {
		t.Fatal("n should open notes")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok || push.Screen.Title() != first {
		t.Errorf("push = %+v", push)
	}

	send(s, "down")
	second, _ := s.Selected()
	send(s, "q")

	want := []string{"notes:" + first, "quiz:" + second}
	if strings.Join(*opened, ",") != strings.Join(want, ",") {
		t.Errorf("opened = %v, want %v", *opened, want)
	}
}

func TestSyllabusScreen_ViewScrollsToSelection(t *testing.T) {
	s, _ := newScreen()
	for range 40 {
		send(s, "down")
	}
	topic, _ := s.Selected()
	if !strings.Contains(s.View(100, 30), topic) {
		t.Errorf("view does not show selected topic %q", topic)
	}
}
