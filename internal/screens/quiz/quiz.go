// Package quiz runs a practice quiz in the terminal.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/scholar/internal/history"
	"github.com/abhisek/scholar/internal/llm"
	"github.com/abhisek/scholar/internal/quiz"
	"github.com/abhisek/scholar/internal/screen"
	"github.com/abhisek/scholar/internal/ui/components"
	"github.com/abhisek/scholar/internal/ui/layout"
	"github.com/abhisek/scholar/internal/ui/theme"
)

const (
	generateTimeout = 2 * time.Minute
	recordTimeout   = 10 * time.Second
)

// Generator produces a question set for a topic.
type Generator interface {
	GenerateQuiz(ctx context.Context, topic string, count int) ([]quiz.Question, error)
}

// Recorder persists a finished result.
type Recorder interface {
	Append(ctx context.Context, r history.Result) error
}

var requests atomic.Uint64

type questionsLoadedMsg struct {
	token     uint64
	questions []quiz.Question
	err       error
}

type resultRecordedMsg struct {
	token uint64
	err   error
}

// QuizScreen drives one quiz.Session.
type QuizScreen struct {
	gen      Generator
	recorder Recorder
	logger   *slog.Logger
	topic    string
	count    int

	token   uint64
	session *quiz.Session
	spinner spinner.Model
	choice  components.MultiChoice
	pending *history.Result
	saveErr string
	saved   bool
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New creates a quiz screen. count <= 0 lets the generator choose.
func New(gen Generator, recorder Recorder, topic string, count int, logger *slog.Logger) *QuizScreen {
	if logger == nil {
		logger = slog.Default()
	}
	s := &QuizScreen{
		gen:      gen,
		recorder: recorder,
		logger:   logger,
		topic:    topic,
		count:    count,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	s.session = quiz.NewSession(topic, quiz.WithOnFinish(func(r history.Result) {
		s.pending = &r
	}))
	return s
}

// Session exposes the underlying quiz session.
func (s *QuizScreen) Session() *quiz.Session { return s.session }

func (s *QuizScreen) Init() tea.Cmd {
	s.token = requests.Add(1)
	token, gen, topic, count := s.token, s.gen, s.topic, s.count
	load := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
		defer cancel()
		qs, err := gen.GenerateQuiz(ctx, topic, count)
		return questionsLoadedMsg{token: token, questions: qs, err: err}
	}
	return tea.Batch(s.spinner.Tick, load)
}

func (s *QuizScreen) Title() string {
	return "Quiz: " + s.topic
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch s.session.State().Phase {
	case quiz.PhasePresenting:
		return []layout.KeyHint{
			{Key: "↑↓/1-4", Description: "Choose"},
			{Key: "Enter", Description: "Check"},
			{Key: "Esc", Description: "Quit quiz"},
		}
	case quiz.PhaseRevealing:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "Esc", Description: "Quit quiz"},
		}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionsLoadedMsg:
		if msg.token != s.token {
			return s, nil
		}
		if msg.err != nil {
			s.logger.Error("quiz load failed", "topic", s.topic, "error", msg.err)
			s.session.Fail(msg.err)
			return s, nil
		}
		if err := s.session.Load(msg.questions); err != nil {
			s.logger.Error("quiz rejected", "topic", s.topic, "error", err)
			return s, nil
		}
		s.resetChoice()
		return s, nil

	case resultRecordedMsg:
		if msg.token != s.token {
			return s, nil
		}
		if msg.err != nil {
			s.logger.Error("recording quiz result failed", "topic", s.topic, "error", msg.err)
			s.saveErr = msg.err.Error()
			return s, nil
		}
		s.saved = true
		return s, nil

	case spinner.TickMsg:
		if s.session.State().Phase != quiz.PhaseLoading {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		return s, s.handleKey(msg)
	}
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch s.session.State().Phase {
	case quiz.PhasePresenting:
		if msg.String() == "enter" {
			return s.advance()
		}
		var picked int
		s.choice, picked = s.choice.Update(msg)
		if picked >= 0 {
			if err := s.session.Select(picked); err != nil {
				s.logger.Debug("selection rejected", "option", picked, "error", err)
			}
		}
	case quiz.PhaseRevealing:
		if msg.String() == "enter" {
			return s.advance()
		}
	}
	return nil
}

func (s *QuizScreen) advance() tea.Cmd {
	state, err := s.session.Advance()
	if errors.Is(err, quiz.ErrNoAnswer) {
		return nil
	}
	switch state.Phase {
	case quiz.PhasePresenting:
		s.resetChoice()
	case quiz.PhaseRevealing:
		if q, ok := s.session.Current(); ok {
			s.choice = s.choice.Reveal(q.Correct)
		}
	case quiz.PhaseFinished:
		return s.record()
	}
	return nil
}

// record takes the result handed over by the finish hook. The hook fires
// once per session, so at most one append is ever issued.
func (s *QuizScreen) record() tea.Cmd {
	r := s.pending
	s.pending = nil
	if r == nil || s.recorder == nil {
		return nil
	}
	token, recorder, result := s.token, s.recorder, *r
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		return resultRecordedMsg{token: token, err: recorder.Append(ctx, result)}
	}
}

func (s *QuizScreen) resetChoice() {
	q, ok := s.session.Current()
	if !ok {
		return
	}
	s.choice = components.NewMultiChoice(q.Options)
}

func (s *QuizScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	state := s.session.State()

	switch state.Phase {
	case quiz.PhaseLoading:
		return center.Foreground(theme.TextDim).
			Render(fmt.Sprintf("\n\n%s Setting an AIIMS-level paper on %s...", s.spinner.View(), s.topic))
	case quiz.PhaseFailed:
		return center.Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nCould not generate a quiz.\n\n%s", llm.Describe(s.session.Err())))
	case quiz.PhaseFinished:
		return s.renderFinished(width)
	}
	return s.renderQuestion(state, width)
}

func (s *QuizScreen) renderQuestion(state quiz.State, width int) string {
	q, ok := s.session.Current()
	if !ok {
		return ""
	}
	cw := min(width-4, 100)

	var b strings.Builder
	info := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("Question %d/%d", state.Index+1, s.session.Len()))
	kind := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render("  " + q.Category.DisplayName())
	b.WriteString(info + kind + "\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cw)))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(cw).Foreground(theme.Text).Bold(true).Render(q.Prompt))
	b.WriteString("\n\n")
	b.WriteString(s.choice.View(cw))

	if state.Phase == quiz.PhaseRevealing {
		b.WriteString("\n")
		chosen, _ := s.session.Selected()
		if q.IsCorrect(chosen) {
			b.WriteString(theme.Correct.Render(fmt.Sprintf("Correct  +%d", quiz.MarksCorrect)))
		} else {
			b.WriteString(theme.Incorrect.Render(fmt.Sprintf("Incorrect  %d", quiz.MarksWrong)))
		}
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Width(cw).Foreground(theme.Text).Render(q.Explanation))
		if q.Reference != "" {
			b.WriteString("\n")
			b.WriteString(theme.Hint.Render("NCERT: " + q.Reference))
		}
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (s *QuizScreen) renderFinished(width int) string {
	r, _ := s.session.Finish()
	bd := s.session.Breakdown()
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(theme.Title.Render("Quiz Complete"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true).
		Render(fmt.Sprintf("Score %d / %d", r.Score, r.Total)))
	b.WriteString("\n\n")
	b.WriteString(components.NewProgressBar("Accuracy", bd.Accuracy(), true, cw-6).View())
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s  %s  %s",
		theme.Correct.Render(fmt.Sprintf("✓ %d correct", bd.Correct)),
		theme.Incorrect.Render(fmt.Sprintf("✗ %d wrong", bd.Wrong)),
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("– %d skipped", bd.Unanswered)),
	))

	if len(r.MissedTopics) > 0 {
		b.WriteString("\n\n")
		b.WriteString(theme.Section.Render("Review these"))
		for _, m := range r.MissedTopics {
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render("• " + m))
		}
	}

	b.WriteString("\n\n")
	switch {
	case s.saveErr != "":
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render("Result not saved: " + s.saveErr))
	case s.saved:
		b.WriteString(theme.Hint.Render("Saved to your performance history."))
	}

	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
		Render(components.ArcadeCard(b.String(), cw))
}
