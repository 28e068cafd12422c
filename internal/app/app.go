package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/scholar/internal/content"
	"github.com/abhisek/scholar/internal/history"
	"github.com/abhisek/scholar/internal/quiz"
	"github.com/abhisek/scholar/internal/router"
	"github.com/abhisek/scholar/internal/screen"
	"github.com/abhisek/scholar/internal/screens/home"
	"github.com/abhisek/scholar/internal/screens/notes"
	"github.com/abhisek/scholar/internal/screens/performance"
	quizscreen "github.com/abhisek/scholar/internal/screens/quiz"
	syllabusscreen "github.com/abhisek/scholar/internal/screens/syllabus"
	"github.com/abhisek/scholar/internal/syllabus"
	"github.com/abhisek/scholar/internal/ui/layout"
)

// Generator produces all study content. *content.Service implements it.
type Generator interface {
	GenerateNotes(ctx context.Context, topic string) (*content.NoteModule, error)
	GenerateQuiz(ctx context.Context, topic string, count int) ([]quiz.Question, error)
	GenerateRemedialPlan(ctx context.Context, result history.Result) (*content.RemedialPlan, error)
}

// Options are the collaborators of the terminal UI.
type Options struct {
	Content   Generator
	History   *history.Store
	Syllabus  *syllabus.Syllabus
	QuizCount int
	Demo      bool
	Logger    *slog.Logger
}

type statsLoadedMsg struct {
	stats layout.Stats
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	opts   Options
	router *router.Router
	stats  layout.Stats
	width  int
	height int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(opts Options) AppModel {
	if opts.Syllabus == nil {
		opts.Syllabus = syllabus.Default()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	m := AppModel{opts: opts}
	m.router = router.New(home.New(home.Options{
		Syllabus:    m.syllabusScreen,
		Performance: m.performanceScreen,
		Topics:      opts.Syllabus.TopicCount(),
		Demo:        opts.Demo,
	}))
	return m
}

func (m AppModel) syllabusScreen() screen.Screen {
	return syllabusscreen.New(m.opts.Syllabus, syllabusscreen.Openers{
		Notes: func(topic string) screen.Screen {
			return notes.New(m.opts.Content, topic, m.opts.Logger).WithQuiz(m.openQuiz)
		},
		Quiz: m.openQuiz,
	})
}

func (m AppModel) openQuiz(topic string) screen.Screen {
	return quizscreen.New(m.opts.Content, m.opts.History, topic, m.opts.QuizCount, m.opts.Logger)
}

func (m AppModel) performanceScreen() screen.Screen {
	return performance.New(m.opts.History, m.opts.Content, m.opts.Logger)
}

// loadStats reads the history for the header summary.
func (m AppModel) loadStats() tea.Msg {
	if m.opts.History == nil {
		return statsLoadedMsg{}
	}
	results, err := m.opts.History.LoadAll(context.Background())
	if err != nil {
		m.opts.Logger.Warn("loading history for header", "error", err)
		return statsLoadedMsg{}
	}
	return statsLoadedMsg{stats: layout.Stats{
		Attempts: len(results),
		Accuracy: history.AverageAccuracy(results),
	}}
}

func (m AppModel) Init() tea.Cmd {
	return m.loadStats
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case statsLoadedMsg:
		m.stats = msg.stats
		return m, m.router.Update(screen.StatsMsg{Stats: msg.stats})

	case router.PopScreenMsg:
		// Results may have been recorded on the popped screen.
		return m, tea.Batch(m.router.Update(msg), m.loadStats)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.stats, m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = append(p.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
