// Package home is the landing screen.
package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/scholar/internal/router"
	"github.com/abhisek/scholar/internal/screen"
	"github.com/abhisek/scholar/internal/ui/components"
	"github.com/abhisek/scholar/internal/ui/layout"
)

// Options configure the home screen. The screen factories are called each
// time their menu item is chosen.
type Options struct {
	Syllabus    func() screen.Screen
	Performance func() screen.Screen
	Topics      int
	Demo        bool
}

// HomeScreen is the main menu.
type HomeScreen struct {
	opts  Options
	menu  components.Menu
	stats layout.Stats
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(opts Options) *HomeScreen {
	h := &HomeScreen{opts: opts}
	h.menu = components.NewMenu([]components.MenuItem{
		{Label: "Syllabus", Action: h.push(opts.Syllabus), Disabled: opts.Syllabus == nil},
		{Label: "Performance", Action: h.push(opts.Performance), Disabled: opts.Performance == nil},
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	})
	return h
}

func (h *HomeScreen) push(build func() screen.Screen) func() tea.Cmd {
	return func() tea.Cmd {
		if build == nil {
			return nil
		}
		next := build()
		return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
	}
}

func (h *HomeScreen) Init() tea.Cmd { return nil }

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.StatsMsg:
		h.stats = msg.Stats
		return h, nil
	case tea.KeyMsg:
		if msg.String() == "q" {
			return h, tea.Quit
		}
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompactHeight(height+layout.HeaderHeight+layout.FooterHeight+2) ||
		layout.IsCompactWidth(width)
	cw := components.ContentWidth(width)

	sections := []string{
		renderTitle(cw, compact),
		renderStatsBar(h.stats, h.opts.Topics, cw),
		renderMenu(h.labels(), h.menu.Selected, cw, compact),
	}
	if h.opts.Demo {
		sections = append(sections, renderDemoBanner(cw))
	}
	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) labels() []string {
	labels := make([]string, len(h.menu.Items))
	for i, it := range h.menu.Items {
		labels[i] = it.Label
	}
	return labels
}

func (h *HomeScreen) Title() string {
	return "Home"
}
