// ABOUTME: Single-choice list model used for picking a default social set and yes/no prompts.
// ABOUTME: Supports arrow keys, j/k, digit shortcuts, and an optional skip.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Option is one selectable line.
type Option struct {
	Value string
	Label string
}

// ChooserModel is a bubbletea model for picking one Option.
type ChooserModel struct {
	title     string
	options   []Option
	cursor    int
	chosen    int
	skippable bool
	done      bool
}

// NewChooser creates a chooser. When skippable, Esc or 's' finishes without
// a choice instead of cancelling.
func NewChooser(title string, options []Option, skippable bool) ChooserModel {
	return ChooserModel{title: title, options: options, chosen: -1, skippable: skippable}
}

// Init implements tea.Model.
func (m ChooserModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ChooserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEscape:
		m.done = true
		return m, tea.Quit
	case tea.KeyUp:
		m.move(-1)
	case tea.KeyDown:
		m.move(1)
	case tea.KeyEnter:
		if len(m.options) > 0 {
			m.chosen = m.cursor
		}
		m.done = true
		return m, tea.Quit
	case tea.KeyRunes:
		r := key.Runes[0]
		switch {
		case r == 'k':
			m.move(-1)
		case r == 'j':
			m.move(1)
		case r == 's' && m.skippable, r == 'q':
			m.done = true
			return m, tea.Quit
		case r >= '1' && r <= '9':
			if idx := int(r - '1'); idx < len(m.options) {
				m.cursor = idx
			}
		}
	}
	return m, nil
}

func (m *ChooserModel) move(delta int) {
	next := m.cursor + delta
	if next >= 0 && next < len(m.options) {
		m.cursor = next
	}
}

// View implements tea.Model.
func (m ChooserModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")
	for i, o := range m.options {
		line := fmt.Sprintf("%3s %s", fmt.Sprintf("%d.", i+1), o.Label)
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	hint := "(↑/↓ to move, Enter to select"
	if m.skippable {
		hint += ", s to skip"
	}
	b.WriteString(promptStyle.Render(hint + ")"))
	b.WriteString("\n")
	return b.String()
}

// Result returns the chosen option, or ok=false when skipped or cancelled.
func (m ChooserModel) Result() (Option, bool) {
	if m.chosen < 0 || m.chosen >= len(m.options) {
		return Option{}, false
	}
	return m.options[m.chosen], true
}
