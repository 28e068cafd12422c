// Package performance shows quiz history and remedial plans.
package performance

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

	"github.com/abhisek/scholar/internal/content"
	"github.com/abhisek/scholar/internal/history"
	"github.com/abhisek/scholar/internal/screen"
	"github.com/abhisek/scholar/internal/ui/components"
	"github.com/abhisek/scholar/internal/ui/layout"
	"github.com/abhisek/scholar/internal/ui/theme"
)

const planTimeout = 2 * time.Minute

// Loader reads the stored history.
type Loader interface {
	LoadAll(ctx context.Context) ([]history.Result, error)
}

// Planner builds a remedial plan from a result.
type Planner interface {
	GenerateRemedialPlan(ctx context.Context, result history.Result) (*content.RemedialPlan, error)
}

var requests atomic.Uint64

type historyLoadedMsg struct {
	token   uint64
	results []history.Result
	err     error
}

type planReadyMsg struct {
	token uint64
	plan  *content.RemedialPlan
	err   error
}

// PerformanceScreen lists past results, most recent first.
type PerformanceScreen struct {
	loader  Loader
	planner Planner
	logger  *slog.Logger

	token    uint64
	results  []history.Result
	ordered  []history.Result
	selected int
	loaded   bool
	errMsg   string

	spinner  spinner.Model
	planning bool
	plan     *content.RemedialPlan
	planNote string
}

var _ screen.Screen = (*PerformanceScreen)(nil)
var _ screen.KeyHintProvider = (*PerformanceScreen)(nil)

// New creates the performance screen.
func New(loader Loader, planner Planner, logger *slog.Logger) *PerformanceScreen {
	if logger == nil {
		logger = slog.Default()
	}
	return &PerformanceScreen{
		loader:  loader,
		planner: planner,
		logger:  logger,
		spinner: spinner.New(spinner.WithSpinner(spinner.MiniDot)),
	}
}

func (s *PerformanceScreen) Init() tea.Cmd {
	s.token = requests.Add(1)
	token, loader := s.token, s.loader
	return func() tea.Msg {
		results, err := loader.LoadAll(context.Background())
		return historyLoadedMsg{token: token, results: results, err: err}
	}
}

func (s *PerformanceScreen) Title() string { return "Performance" }

func (s *PerformanceScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "↑↓", Description: "Navigate"}}
	if history.CanPlanRemedial(s.results) {
		hints = append(hints, layout.KeyHint{Key: "r", Description: "Remedial plan"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

// Plan returns the last generated remedial plan.
func (s *PerformanceScreen) Plan() *content.RemedialPlan { return s.plan }

// Planning reports whether a remedial request is in flight.
func (s *PerformanceScreen) Planning() bool { return s.planning }

func (s *PerformanceScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.token != s.token {
			return s, nil
		}
		s.loaded = true
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.results = msg.results
		s.ordered = history.MostRecentFirst(msg.results)
		return s, nil

	case planReadyMsg:
		if msg.token != s.token {
			return s, nil
		}
		s.planning = false
		if msg.err != nil {
			s.logger.Error("remedial plan failed", "error", msg.err)
			s.planNote = "Could not build a plan right now. Try again later."
			return s, nil
		}
		s.plan = msg.plan
		s.planNote = ""
		return s, nil

	case spinner.TickMsg:
		if !s.planning {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.ordered)-1 {
				s.selected++
			}
		case "r":
			return s, s.requestPlan()
		}
	}
	return s, nil
}

// requestPlan asks for a plan built from the latest result. It is a no-op
// without history or while a request is running.
func (s *PerformanceScreen) requestPlan() tea.Cmd {
	latest, ok := history.Latest(s.results)
	if !ok || s.planning || s.planner == nil {
		return nil
	}
	s.planning = true
	token, planner := s.token, s.planner
	gen := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), planTimeout)
		defer cancel()
		plan, err := planner.GenerateRemedialPlan(ctx, latest)
		return planReadyMsg{token: token, plan: plan, err: err}
	}
	return tea.Batch(s.spinner.Tick, gen)
}

func (s *PerformanceScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if s.errMsg != "" {
		return center.Foreground(theme.Error).Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return center.Foreground(theme.TextDim).Render("\n\n  Loading history...")
	}
	if len(s.ordered) == 0 {
		return center.Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No quizzes yet. Pick a chapter from the syllabus to start!")
	}

	cw := min(width-4, 90)
	var b strings.Builder
	b.WriteString(components.NewProgressBar(
		fmt.Sprintf("Average accuracy over %d quizzes", len(s.results)),
		history.AverageAccuracy(s.results), true, cw).View())
	b.WriteString("\n\n")

	listHeight := max(height/2-3, 3)
	start := max(0, min(s.selected-listHeight+1, len(s.ordered)-listHeight))
	end := min(len(s.ordered), start+listHeight)
	for i := start; i < end; i++ {
		r := s.ordered[i]
		pct := history.Percent(r)
		line := fmt.Sprintf("%s  %-36s  %4d/%-4d %4d%%",
			r.Time().Format("Jan 02 15:04"), truncate(r.Topic, 36), r.Score, r.Total, pct)
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "▸ "
			style = style.Foreground(theme.AccuracyColor(pct)).Bold(true)
		}
		b.WriteString(style.Render(prefix + line))
		b.WriteString("\n")
	}

	if sel := s.ordered[s.selected]; len(sel.MissedTopics) > 0 {
		b.WriteString("\n")
		b.WriteString(theme.Section.Render("Missed"))
		for _, m := range sel.MissedTopics {
			b.WriteString("\n")
			b.WriteString(theme.Hint.Render("  • " + m))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(s.renderPlan(cw))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (s *PerformanceScreen) renderPlan(width int) string {
	var b strings.Builder
	if s.planning {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(s.spinner.View() + " Analysing your last attempt..."))
		b.WriteString("\n")
	}
	if s.planNote != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render(s.planNote))
		b.WriteString("\n")
	}
	if s.plan != nil {
		b.WriteString(theme.Section.Render("Remedial Plan"))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(width).Foreground(theme.Text).Render(s.plan.Plan))
		for _, n := range s.plan.SimplifiedNotes {
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().Width(width).Foreground(theme.Secondary).Render("• " + n))
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
