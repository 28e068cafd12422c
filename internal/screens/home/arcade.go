package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/scholar/internal/ui/components"
	"github.com/abhisek/scholar/internal/ui/layout"
	"github.com/abhisek/scholar/internal/ui/theme"
)

const titleFull = ` ███████╗ ██████╗██╗  ██╗ ██████╗ ██╗      █████╗ ██████╗
 ██╔════╝██╔════╝██║  ██║██╔═══██╗██║     ██╔══██╗██╔══██╗
 ███████╗██║     ███████║██║   ██║██║     ███████║██████╔╝
 ╚════██║██║     ██╔══██║██║   ██║██║     ██╔══██║██╔══██╗
 ███████║╚██████╗██║  ██║╚██████╔╝███████╗██║  ██║██║  ██║
 ╚══════╝ ╚═════╝╚═╝  ╚═╝ ╚═════╝ ╚══════╝╚═╝  ╚═╝╚═╝  ╚═╝`

const titleCompact = "S · C · H · O · L · A · R"

const tagline = "NEET prep: NCERT notes, AIIMS-level MCQs"

func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true)
	box := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center)

	art := titleFull
	if compact || cw < lipgloss.Width(titleFull) {
		art = titleCompact
	}
	return box.Render(style.Render(art)) + "\n" +
		box.Render(theme.Hint.Render(tagline))
}

// renderStatsBar renders the performance summary in a bordered box.
func renderStatsBar(stats layout.Stats, topics, cw int) string {
	accStyle := lipgloss.NewStyle().Foreground(theme.AccuracyColor(stats.Accuracy)).Bold(true)
	quizStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	topicStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	acc := dimStyle.Render("● --%")
	if stats.Attempts > 0 {
		acc = accStyle.Render(fmt.Sprintf("● %d%% ACCURACY", stats.Accuracy))
	}
	line := fmt.Sprintf("%s  %s  %s",
		acc,
		quizStyle.Render(fmt.Sprintf("✎ %d QUIZZES", stats.Attempts)),
		topicStyle.Render(fmt.Sprintf("☰ %d CHAPTERS", topics)),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(line)
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 22

func renderMenu(items []string, selected, cw int, compact bool) string {
	var rows []string
	for i, label := range items {
		if compact {
			if i == selected {
				rows = append(rows, lipgloss.NewStyle().
					Foreground(theme.BgDark).
					Background(theme.Highlight).
					Bold(true).
					Render(" ▸ "+label+" "))
			} else {
				rows = append(rows, lipgloss.NewStyle().Foreground(theme.Text).Render("   "+label))
			}
			continue
		}
		rows = append(rows, components.ArcadeButton(label, i == selected, buttonWidth))
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(rows, "\n"))
}

// renderDemoBanner warns that no provider key is configured.
func renderDemoBanner(cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ Offline demo content. Set GEMINI_API_KEY for real notes (see scholar --help)")
}
