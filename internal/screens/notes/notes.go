// Package notes shows the generated study note for one topic.
package notes

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"golang.org/x/text/cases"

	"github.com/abhisek/scholar/internal/content"
	"github.com/abhisek/scholar/internal/llm"
	"github.com/abhisek/scholar/internal/router"
	"github.com/abhisek/scholar/internal/screen"
	"github.com/abhisek/scholar/internal/ui/components"
	"github.com/abhisek/scholar/internal/ui/layout"
	"github.com/abhisek/scholar/internal/ui/theme"
)

const generateTimeout = 2 * time.Minute

// Generator produces a note module for a topic.
type Generator interface {
	GenerateNotes(ctx context.Context, topic string) (*content.NoteModule, error)
}

var requests atomic.Uint64

type notesLoadedMsg struct {
	token uint64
	note  *content.NoteModule
	err   error
}

// Section is one titled block of a note.
type Section struct {
	Title string
	Lines []string
}

// Sections splits a note into its display blocks, skipping empty ones.
func Sections(n *content.NoteModule) []Section {
	var out []Section
	add := func(title string, lines ...string) {
		var kept []string
		for _, l := range lines {
			if strings.TrimSpace(l) != "" {
				kept = append(kept, l)
			}
		}
		if len(kept) > 0 {
			out = append(out, Section{Title: title, Lines: kept})
		}
	}

	add("Concept Overview", n.ConceptOverview)
	add("Deep Dive: Mechanism", n.DeepDiveMechanism)
	add("Key NCERT Lines", n.KeyNCERTLines...)

	terms := make([]string, 0, len(n.ConfusedTerms))
	for _, t := range n.ConfusedTerms {
		terms = append(terms, fmt.Sprintf("%s vs %s: %s", t.Term1, t.Term2, t.Difference))
	}
	add("Commonly Confused", terms...)
	add("Mnemonics", n.Mnemonics...)
	add("Exam Traps", n.ExamTraps...)

	data := make([]string, 0, len(n.CriticalData))
	for _, d := range n.CriticalData {
		data = append(data, fmt.Sprintf("%s: %s", d.Label, d.Value))
	}
	add("Critical Data", data...)
	return out
}

// FilterSections keeps sections whose title or any line contains query,
// ignoring case.
func FilterSections(sections []Section, query string) []Section {
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(query))
	if q == "" {
		return sections
	}
	var out []Section
	for _, s := range sections {
		if strings.Contains(fold.String(s.Title), q) {
			out = append(out, s)
			continue
		}
		for _, l := range s.Lines {
			if strings.Contains(fold.String(l), q) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// NotesScreen loads and renders a note module.
type NotesScreen struct {
	gen    Generator
	logger *slog.Logger
	topic  string
	quiz   func(topic string) screen.Screen

	token    uint64
	spinner  spinner.Model
	note     *content.NoteModule
	sections []Section
	filter   components.TextInput
	offset   int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*NotesScreen)(nil)
var _ screen.KeyHintProvider = (*NotesScreen)(nil)

// New creates a notes screen for topic.
func New(gen Generator, topic string, logger *slog.Logger) *NotesScreen {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotesScreen{
		gen:     gen,
		logger:  logger,
		topic:   topic,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		filter:  components.NewTextInput("/ ", "filter sections", 40),
	}
}

// WithQuiz lets the t key swap these notes for a quiz on the same topic.
func (s *NotesScreen) WithQuiz(open func(topic string) screen.Screen) *NotesScreen {
	s.quiz = open
	return s
}

func (s *NotesScreen) Init() tea.Cmd {
	s.token = requests.Add(1)
	token, gen, topic := s.token, s.gen, s.topic
	load := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
		defer cancel()
		note, err := gen.GenerateNotes(ctx, topic)
		return notesLoadedMsg{token: token, note: note, err: err}
	}
	return tea.Batch(s.spinner.Tick, load)
}

func (s *NotesScreen) Title() string {
	return s.topic
}

func (s *NotesScreen) KeyHints() []layout.KeyHint {
	if s.filter.Focused() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Apply"},
			{Key: "Esc", Description: "Back"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "/", Description: "Filter"},
	}
	if s.quiz != nil {
		hints = append(hints, layout.KeyHint{Key: "t", Description: "Take quiz"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

// Loaded reports whether the load finished, successfully or not.
func (s *NotesScreen) Loaded() bool { return s.loaded }

// Failed reports whether the load failed.
func (s *NotesScreen) Failed() bool { return s.errMsg != "" }

// Visible returns the sections that pass the current filter.
func (s *NotesScreen) Visible() []Section {
	return FilterSections(s.sections, s.filter.Value())
}

func (s *NotesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case notesLoadedMsg:
		if msg.token != s.token {
			return s, nil
		}
		s.loaded = true
		if msg.err != nil {
			s.logger.Error("notes load failed", "topic", s.topic, "error", msg.err)
			s.errMsg = llm.Describe(msg.err)
			return s, nil
		}
		s.note = msg.note
		s.sections = Sections(msg.note)
		return s, nil

	case spinner.TickMsg:
		if s.loaded {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		if s.filter.Focused() {
			if msg.String() == "enter" {
				s.filter.Blur()
				return s, nil
			}
			var cmd tea.Cmd
			s.filter, cmd = s.filter.Update(msg)
			s.offset = 0
			return s, cmd
		}
		if !s.loaded || s.note == nil {
			return s, nil
		}
		switch msg.String() {
		case "/":
			return s, s.filter.Focus()
		case "t":
			if s.quiz == nil {
				return s, nil
			}
			next := s.quiz(s.topic)
			return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
		case "up", "k":
			if s.offset > 0 {
				s.offset--
			}
		case "down", "j":
			s.offset++
		}
	}
	return s, nil
}

func (s *NotesScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if !s.loaded {
		return center.Foreground(theme.TextDim).
			Render(fmt.Sprintf("\n\n%s Preparing notes for %s...", s.spinner.View(), s.topic))
	}
	if s.errMsg != "" {
		return center.Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nCould not generate notes.\n\n%s", s.errMsg))
	}

	cw := min(width-4, 100)
	var lines []string
	for _, sec := range s.Visible() {
		lines = append(lines, theme.Section.Render(sec.Title))
		for _, l := range sec.Lines {
			wrapped := lipgloss.NewStyle().Width(cw - 2).Foreground(theme.Text).Render("• " + l)
			lines = append(lines, strings.Split(wrapped, "\n")...)
		}
		lines = append(lines, "")
	}
	if len(lines) == 0 {
		lines = []string{theme.Hint.Render("No section matches the filter.")}
	}

	bar := ""
	if s.filter.Focused() || s.filter.Value() != "" {
		bar = s.filter.View()
	}
	avail := height - 2
	if bar != "" {
		avail--
	}
	avail = max(avail, 1)
	s.offset = max(0, min(s.offset, len(lines)-avail))
	end := min(len(lines), s.offset+avail)

	body := strings.Join(lines[s.offset:end], "\n")
	if bar != "" {
		body = bar + "\n" + body
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(body)
}
