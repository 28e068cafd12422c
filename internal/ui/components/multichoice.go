package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/scholar/internal/ui/theme"
)

// OptionLabels letters the first four options.
var OptionLabels = []string{"A", "B", "C", "D"}

// MultiChoice renders a question's options and tracks the cursor. The
// component never decides correctness; the owning screen feeds it the
// selection and, once revealed, the correct index.
type MultiChoice struct {
	Options []string
	Cursor  int

	// Chosen is the recorded selection, -1 when none.
	Chosen   int
	Correct  int
	Revealed bool
}

// NewMultiChoice creates a selector with no recorded choice.
func NewMultiChoice(options []string) MultiChoice {
	return MultiChoice{
		Options: options,
		Chosen:  -1,
		Correct: -1,
	}
}

// Update moves the cursor and records the choice under it. It returns the
// picked option, or -1 when the key picked nothing. The first arrow press
// picks the option under the cursor without moving.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, int) {
	if m.Revealed {
		return m, -1
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, -1
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Chosen >= 0 && m.Cursor > 0 {
			m.Cursor--
		}
		m.Chosen = m.Cursor
		return m, m.Cursor
	case "down", "j":
		if m.Chosen >= 0 && m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
		m.Chosen = m.Cursor
		return m, m.Cursor
	}

	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		i := int(key[0] - '1')
		if i < len(m.Options) {
			m.Cursor = i
			m.Chosen = i
			return m, i
		}
	}
	return m, -1
}

// Reveal freezes the selector and marks the correct option.
func (m MultiChoice) Reveal(correct int) MultiChoice {
	m.Revealed = true
	m.Correct = correct
	return m
}

// View renders the options.
func (m MultiChoice) View(width int) string {
	var b strings.Builder
	for i, opt := range m.Options {
		label := fmt.Sprint(i + 1)
		if i < len(OptionLabels) {
			label = OptionLabels[i]
		}

		prefix := "  "
		if i == m.Chosen && !m.Revealed {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, label, opt)

		style := lipgloss.NewStyle().Width(width)
		switch {
		case m.Revealed && i == m.Correct:
			style = style.Foreground(theme.Success).Bold(true)
			line += "  ✓"
		case m.Revealed && i == m.Chosen:
			style = style.Foreground(theme.Error).Bold(true)
			line += "  ✗"
		case m.Revealed:
			style = style.Foreground(theme.TextDim)
		case i == m.Chosen:
			style = style.Foreground(theme.Primary).Bold(true)
		default:
			style = style.Foreground(theme.Text)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
