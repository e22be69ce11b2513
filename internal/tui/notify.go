// ABOUTME: Styled one-line status messages for humans, written to stderr.
// ABOUTME: Colour is decided by the renderer bound to the writer, not to stdout.
package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Notifier prints progress and hints alongside machine-readable output.
type Notifier struct {
	w       io.Writer
	success lipgloss.Style
	warn    lipgloss.Style
	info    lipgloss.Style
	dim     lipgloss.Style
}

// NewNotifier binds styles to w's colour profile.
func NewNotifier(w io.Writer) *Notifier {
	r := lipgloss.NewRenderer(w)
	return &Notifier{
		w:       w,
		success: r.NewStyle().Foreground(lipgloss.Color("82")),
		warn:    r.NewStyle().Foreground(lipgloss.Color("214")),
		info:    r.NewStyle().Foreground(lipgloss.Color("39")),
		dim:     r.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

func (n *Notifier) line(style lipgloss.Style, prefix, format string, args ...any) {
	_, _ = fmt.Fprintln(n.w, style.Render(prefix+fmt.Sprintf(format, args...)))
}

// Success prints a check-marked line.
func (n *Notifier) Success(format string, args ...any) {
	n.line(n.success, "✓ ", format, args...)
}

// Warn prints a warning line.
func (n *Notifier) Warn(format string, args ...any) {
	n.line(n.warn, "! ", format, args...)
}

// Info prints an informational line.
func (n *Notifier) Info(format string, args ...any) {
	n.line(n.info, "→ ", format, args...)
}

// Dim prints a de-emphasized line.
func (n *Notifier) Dim(format string, args ...any) {
	n.line(n.dim, "", format, args...)
}
