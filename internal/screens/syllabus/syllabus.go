// Package syllabus browses the NEET chapter list.
package syllabus

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/scholar/internal/router"
	"github.com/abhisek/scholar/internal/screen"
	syl "github.com/abhisek/scholar/internal/syllabus"
	"github.com/abhisek/scholar/internal/ui/components"
	"github.com/abhisek/scholar/internal/ui/layout"
	"github.com/abhisek/scholar/internal/ui/theme"
)

// Openers build the screens reachable from a topic.
type Openers struct {
	Notes func(topic string) screen.Screen
	Quiz  func(topic string) screen.Screen
}

// row is one rendered line of the topic list. Headers carry no topic.
type row struct {
	subject string
	unit    string
	topic   string
}

// SyllabusScreen lists topics with a subject filter and a search box.
type SyllabusScreen struct {
	full    *syl.Syllabus
	open    Openers
	filters []string
	filter  int
	search  components.TextInput

	rows     []row
	topics   []int // indexes into rows
	selected int
	offset   int
}

var _ screen.Screen = (*SyllabusScreen)(nil)
var _ screen.KeyHintProvider = (*SyllabusScreen)(nil)

// New creates the syllabus browser.
func New(s *syl.Syllabus, open Openers) *SyllabusScreen {
	scr := &SyllabusScreen{
		full:    s,
		open:    open,
		filters: s.Filters(),
		search:  components.NewTextInput("Search: ", "chapter name", 60),
	}
	scr.rebuild()
	return scr
}

func (s *SyllabusScreen) Init() tea.Cmd { return nil }

func (s *SyllabusScreen) Title() string { return "Syllabus" }

func (s *SyllabusScreen) KeyHints() []layout.KeyHint {
	if s.search.Focused() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Done"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Subject"},
		{Key: "/", Description: "Search"},
		{Key: "n", Description: "Notes"},
		{Key: "q", Description: "Quiz"},
		{Key: "Esc", Description: "Back"},
	}
}

// Subject returns the active subject filter.
func (s *SyllabusScreen) Subject() string { return s.filters[s.filter] }

// Selected returns the highlighted topic, if any.
func (s *SyllabusScreen) Selected() (string, bool) {
	if len(s.topics) == 0 {
		return "", false
	}
	return s.rows[s.topics[s.selected]].topic, true
}

// Visible returns the number of topics passing the filters.
func (s *SyllabusScreen) Visible() int { return len(s.topics) }

func (s *SyllabusScreen) rebuild() {
	view := s.full.Filter(s.Subject(), s.search.Value())
	s.rows = s.rows[:0]
	s.topics = s.topics[:0]
	for _, sub := range view.Subjects {
		for _, u := range sub.Units {
			s.rows = append(s.rows, row{subject: sub.Name, unit: u.Name})
			for _, t := range u.Topics {
				s.topics = append(s.topics, len(s.rows))
				s.rows = append(s.rows, row{subject: sub.Name, unit: u.Name, topic: t})
			}
		}
	}
	s.selected = max(0, min(s.selected, len(s.topics)-1))
}

func (s *SyllabusScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if s.search.Focused() {
			var cmd tea.Cmd
			s.search, cmd = s.search.Update(msg)
			return s, cmd
		}
		return s, nil
	}

	if s.search.Focused() {
		switch kmsg.String() {
		case "enter", "tab":
			s.search.Blur()
			return s, nil
		}
		var cmd tea.Cmd
		s.search, cmd = s.search.Update(msg)
		s.selected = 0
		s.rebuild()
		return s, cmd
	}

	switch kmsg.String() {
	case "tab":
		s.filter = (s.filter + 1) % len(s.filters)
		s.selected = 0
		s.rebuild()
	case "shift+tab":
		s.filter = (s.filter + len(s.filters) - 1) % len(s.filters)
		s.selected = 0
		s.rebuild()
	case "/":
		return s, s.search.Focus()
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.topics)-1 {
			s.selected++
		}
	case "n", "enter":
		return s, s.push(s.open.Notes)
	case "q":
		return s, s.push(s.open.Quiz)
	}
	return s, nil
}

func (s *SyllabusScreen) push(build func(string) screen.Screen) tea.Cmd {
	topic, ok := s.Selected()
	if !ok || build == nil {
		return nil
	}
	next := build(topic)
	return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func (s *SyllabusScreen) View(width, height int) string {
	var b strings.Builder

	var tabs []string
	for i, f := range s.filters {
		style := lipgloss.NewStyle().Padding(0, 1).Foreground(theme.TextDim)
		if i == s.filter {
			style = style.Bold(true).Foreground(theme.BgDark).Background(theme.SubjectColor(f))
		}
		tabs = append(tabs, style.Render(f))
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n")
	b.WriteString(s.search.View())
	b.WriteString("   ")
	b.WriteString(theme.Hint.Render(syl.ChapterLabel(len(s.topics))))
	b.WriteString("\n\n")

	if len(s.topics) == 0 {
		b.WriteString(theme.Hint.Render("No chapters match."))
		return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
	}

	avail := max(height-7, 3)
	sel := s.topics[s.selected]
	if sel < s.offset {
		s.offset = sel
	}
	if sel >= s.offset+avail {
		s.offset = sel - avail + 1
	}
	if s.offset > 0 && s.offset == sel {
		s.offset-- // keep the unit header in view
	}

	end := min(len(s.rows), s.offset+avail)
	for i := s.offset; i < end; i++ {
		r := s.rows[i]
		if r.topic == "" {
			header := fmt.Sprintf("%s · %s", r.subject, r.unit)
			b.WriteString(lipgloss.NewStyle().Foreground(theme.SubjectColor(r.subject)).Bold(true).Render(header))
		} else if i == sel {
			b.WriteString(theme.Selected.Render("  ▸ " + r.topic))
		} else {
			b.WriteString(theme.Unselected.Render("    " + r.topic))
		}
		b.WriteString("\n")
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
