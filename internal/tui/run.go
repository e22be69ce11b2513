// ABOUTME: Runs bubbletea programs on stderr so stdout stays reserved for JSON.
// ABOUTME: Wraps the setup wizard and chooser with typed results.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrCancelled is returned when the user quits a prompt.
var ErrCancelled = errors.New("cancelled")

// Terminal is where interactive programs read keys and draw.
type Terminal struct {
	In  io.Reader
	Out io.Writer
}

func (t Terminal) run(ctx context.Context, m tea.Model) (tea.Model, error) {
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(t.In),
		tea.WithOutput(t.Out),
	)
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to run prompt: %w", err)
	}
	return final, nil
}

// RunSetup drives the setup wizard.
func (t Terminal) RunSetup(ctx context.Context, location string, validate ValidateFn) (SetupResult, error) {
	final, err := t.run(ctx, NewSetupModel(location, validate))
	if err != nil {
		return SetupResult{}, err
	}
	m, ok := final.(SetupModel)
	if !ok || !m.ShouldSave() {
		return SetupResult{}, ErrCancelled
	}
	return m.Result(), nil
}

// Choose shows a list and returns the selection. ok is false when the user skipped.
func (t Terminal) Choose(ctx context.Context, title string, options []Option, skippable bool) (Option, bool, error) {
	final, err := t.run(ctx, NewChooser(title, options, skippable))
	if err != nil {
		return Option{}, false, err
	}
	m, ok := final.(ChooserModel)
	if !ok {
		return Option{}, false, ErrCancelled
	}
	opt, chosen := m.Result()
	return opt, chosen, nil
}

// Confirm asks a yes/no question with yes as the default.
func (t Terminal) Confirm(ctx context.Context, question string) (bool, error) {
	opt, ok, err := t.Choose(ctx, question, []Option{
		{Value: "yes", Label: "Yes"},
		{Value: "no", Label: "No"},
	}, false)
	if err != nil {
		return false, err
	}
	return ok && opt.Value == "yes", nil
}
