// ABOUTME: Interactive TUI wizard for connecting a Typefully account.
// ABOUTME: Bubbletea model collecting the API key and storage location, then validating the key.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// APIKeyURL is where users create an API key.
const APIKeyURL = "https://typefully.com/?settings=api"

// Step represents the current wizard step.
type Step int

const (
	StepAPIKey Step = iota
	StepLocation
	StepValidating
	StepDone
	StepFailed
)

// Location choices offered by the wizard.
const (
	LocationGlobal = "global"
	LocationLocal  = "local"
)

var locationChoices = []Option{
	{Value: LocationGlobal, Label: "Global (~/.config/typefully/) - Available to all projects"},
	{Value: LocationLocal, Label: "Local (./.typefully/) - Only this project"},
}

// LocationOptions returns the storage locations in menu order.
func LocationOptions() []Option {
	return append([]Option(nil), locationChoices...)
}

// validationResultMsg carries the result of an async validation attempt.
type validationResultMsg struct {
	sets []Option
	err  error
}

// ValidateFn checks an API key and returns the account's social sets as
// chooser options.
type ValidateFn func(ctx context.Context, apiKey string) ([]Option, error)

// cancelHolder shares a cancel function across bubbletea model copies.
// This MUST be stored as a pointer field on SetupModel so that value-receiver
// methods (required by tea.Model) can store the cancel func and have it
// visible to all copies of the model.
type cancelHolder struct {
	cancel context.CancelFunc
}

// SetupModel is the bubbletea model for the setup wizard.
type SetupModel struct {
	step          Step
	keyInput      textinput.Model
	location      string
	cursor        int
	askLocation   bool
	spinner       spinner.Model
	validateFn    ValidateFn
	cancelCtx     *cancelHolder
	socialSets    []Option
	validated     bool
	validationErr error
	quitting      bool
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	brandStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	cursorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
)

// NewSetupModel creates the wizard. A non-empty location skips the location step.
func NewSetupModel(location string, validate ValidateFn) SetupModel {
	keyInput := textinput.New()
	keyInput.Placeholder = "your-api-key"
	keyInput.EchoMode = textinput.EchoPassword
	keyInput.Width = 50
	keyInput.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot

	return SetupModel{
		step:        StepAPIKey,
		keyInput:    keyInput,
		location:    location,
		askLocation: location == "",
		spinner:     s,
		validateFn:  validate,
		cancelCtx:   &cancelHolder{},
	}
}

// Init implements tea.Model.
func (m SetupModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEscape:
			m.quitting = true
			if m.cancelCtx.cancel != nil {
				m.cancelCtx.cancel()
			}
			return m, tea.Quit
		}

		switch m.step {
		case StepAPIKey:
			return m.updateKey(msg)
		case StepLocation:
			return m.updateLocation(msg)
		case StepFailed:
			return m.updateFailed(msg)
		}

	case validationResultMsg:
		m.cancelCtx.cancel = nil
		if msg.err == nil {
			m.socialSets = msg.sets
			m.validated = true
			m.step = StepDone
			return m, tea.Quit
		}
		m.validationErr = msg.err
		m.step = StepFailed
		return m, nil

	case spinner.TickMsg:
		if m.step == StepValidating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m SetupModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		val := strings.TrimSpace(m.keyInput.Value())
		if val == "" {
			return m, nil
		}
		m.keyInput.SetValue(val)
		m.keyInput.Blur()
		if m.askLocation {
			m.step = StepLocation
			return m, nil
		}
		m.step = StepValidating
		return m, tea.Batch(m.startValidation(), m.spinner.Tick)
	}

	var cmd tea.Cmd
	m.keyInput, cmd = m.keyInput.Update(msg)
	return m, cmd
}

func (m SetupModel) updateLocation(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case tea.KeyDown:
		if m.cursor < len(locationChoices)-1 {
			m.cursor++
		}
		return m, nil
	case tea.KeyEnter:
		m.location = locationChoices[m.cursor].Value
		m.step = StepValidating
		return m, tea.Batch(m.startValidation(), m.spinner.Tick)
	case tea.KeyRunes:
		switch msg.Runes[0] {
		case '1':
			m.cursor = 0
		case '2':
			m.cursor = 1
		case 'k':
			if m.cursor > 0 {
				m.cursor--
			}
		case 'j':
			if m.cursor < len(locationChoices)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

func (m SetupModel) updateFailed(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyRunes {
		switch msg.Runes[0] {
		case 'r':
			m.step = StepValidating
			m.validationErr = nil
			return m, tea.Batch(m.startValidation(), m.spinner.Tick)
		case 's':
			m.step = StepDone
			return m, tea.Quit
		case 'q':
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m SetupModel) startValidation() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelCtx.cancel = cancel
	apiKey := m.keyInput.Value()
	fn := m.validateFn
	return func() tea.Msg {
		sets, err := fn(ctx, apiKey)
		return validationResultMsg{sets: sets, err: err}
	}
}

func (m SetupModel) locationLabel() string {
	for _, c := range locationChoices {
		if c.Value == m.location {
			return c.Label
		}
	}
	return m.location
}

// View implements tea.Model.
func (m SetupModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(brandStyle.Render("   Typefully"))
	b.WriteString(titleStyle.Render(" - Setup"))
	b.WriteString("\n\n")
	b.WriteString(promptStyle.Render("Sign up free at typefully.com if you don't have an account."))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Get your API key at: %s\n\n", APIKeyURL))

	total := 2
	if !m.askLocation {
		total = 1
	}

	switch m.step {
	case StepAPIKey:
		b.WriteString(stepStyle.Render(fmt.Sprintf("Step 1 of %d: API Key", total)))
		b.WriteString("\n")
		b.WriteString(m.keyInput.View())
		b.WriteString("\n")

	case StepLocation:
		b.WriteString(fmt.Sprintf("  API Key: %s\n\n", strings.Repeat("*", len(m.keyInput.Value()))))
		b.WriteString(stepStyle.Render("Step 2 of 2: Where should the API key be stored?"))
		b.WriteString("\n")
		for i, c := range locationChoices {
			prefix := "  "
			line := fmt.Sprintf("%d. %s", i+1, c.Label)
			if i == m.cursor {
				prefix = cursorStyle.Render("> ")
				line = cursorStyle.Render(line)
			}
			b.WriteString(prefix + line + "\n")
		}
		b.WriteString(promptStyle.Render("(↑/↓ or 1/2, Enter to confirm)"))
		b.WriteString("\n")

	case StepValidating:
		b.WriteString(fmt.Sprintf("  API Key: %s\n", strings.Repeat("*", len(m.keyInput.Value()))))
		b.WriteString(fmt.Sprintf("  Location: %s\n\n", m.locationLabel()))
		b.WriteString(m.spinner.View())
		b.WriteString(" Validating API key...")
		b.WriteString("\n")

	case StepDone:
		if m.validated {
			b.WriteString(successStyle.Render("✓ API key verified"))
		} else {
			b.WriteString(promptStyle.Render("Saving without verification"))
		}
		b.WriteString("\n")

	case StepFailed:
		errMsg := "unknown error"
		if m.validationErr != nil {
			errMsg = m.validationErr.Error()
		}
		b.WriteString(errorStyle.Render(fmt.Sprintf("✗ Validation failed: %s", errMsg)))
		b.WriteString("\n\n")
		b.WriteString(promptStyle.Render("[r]etry  [s]ave anyway  [q]uit"))
		b.WriteString("\n")
	}

	return b.String()
}

// SetupResult is what the wizard collected.
type SetupResult struct {
	APIKey     string
	Location   string
	SocialSets []Option
	Validated  bool
}

// Result returns the entered values.
func (m SetupModel) Result() SetupResult {
	return SetupResult{
		APIKey:     m.keyInput.Value(),
		Location:   m.location,
		SocialSets: m.socialSets,
		Validated:  m.validated,
	}
}

// ShouldSave returns true if the wizard completed (via validation success or
// "save anyway") and the user did not cancel with Ctrl+C, Escape, or 'q'.
func (m SetupModel) ShouldSave() bool {
	return m.step == StepDone && !m.quitting
}
