// Package newsession provides the create-session form view for the TUI.
package newsession

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/marketsight-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/marketsight-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/marketsight-cli/internal/core/ports/driving"
)

// field identifies which form input has focus.
type field int

const (
	fieldTitle field = iota
	fieldTicker
)

// View is the create-session form.
type View struct {
	styles         *styles.Styles
	sessionService driving.SessionService

	titleInput  textinput.Model
	tickerInput textinput.Model
	focused     field
	width       int
	height      int
	ready       bool
	err         error
	submitting  bool
}

// NewView creates a new create-session form view.
func NewView(s *styles.Styles, sessionService driving.SessionService) *View {
	titleInput := textinput.New()
	titleInput.Placeholder = "e.g. Q2 earnings deep dive"
	titleInput.CharLimit = 120
	titleInput.Width = 40

	tickerInput := textinput.New()
	tickerInput.Placeholder = "e.g. AAPL"
	tickerInput.CharLimit = 10
	tickerInput.Width = 12

	return &View{
		styles:         s,
		sessionService: sessionService,
		titleInput:     titleInput,
		tickerInput:    tickerInput,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return textinput.Blink
}

// Reset clears the form for a fresh entry.
func (v *View) Reset() {
	v.titleInput.Reset()
	v.tickerInput.Reset()
	v.focused = fieldTitle
	v.titleInput.Focus()
	v.tickerInput.Blur()
	v.err = nil
	v.submitting = false
}

// Update handles messages for the form.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SessionCreated:
		v.submitting = false
		if msg.Err != nil {
			v.err = msg.Err
		}
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewSessions}
		}
	case "tab", "shift+tab":
		v.toggleFocus()
		return v, nil
	case "enter":
		if v.focused == fieldTitle {
			v.toggleFocus()
			return v, nil
		}
		return v, v.submit()
	}

	var cmd tea.Cmd
	if v.focused == fieldTitle {
		v.titleInput, cmd = v.titleInput.Update(msg)
	} else {
		v.tickerInput, cmd = v.tickerInput.Update(msg)
	}
	return v, cmd
}

// toggleFocus moves focus between the title and ticker inputs.
func (v *View) toggleFocus() {
	if v.focused == fieldTitle {
		v.focused = fieldTicker
		v.titleInput.Blur()
		v.tickerInput.Focus()
	} else {
		v.focused = fieldTitle
		v.tickerInput.Blur()
		v.titleInput.Focus()
	}
}

// submit returns a command that creates the session.
func (v *View) submit() tea.Cmd {
	title := strings.TrimSpace(v.titleInput.Value())
	ticker := strings.TrimSpace(v.tickerInput.Value())
	if title == "" || ticker == "" {
		v.err = fmt.Errorf("title and ticker are both required")
		return nil
	}

	v.err = nil
	v.submitting = true
	return func() tea.Msg {
		if v.sessionService == nil {
			return messages.SessionCreated{Err: fmt.Errorf("session service not available")}
		}
		id, err := v.sessionService.CreateSession(context.Background(), title, ticker)
		return messages.SessionCreated{ID: id, Err: err}
	}
}

// View renders the create-session form.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("New Session"))
	b.WriteString("\n\n")

	b.WriteString(v.styles.Subtitle.Render("Title"))
	b.WriteString("\n")
	b.WriteString(v.styles.InputField.Render(v.titleInput.View()))
	b.WriteString("\n\n")

	b.WriteString(v.styles.Subtitle.Render("Ticker"))
	b.WriteString("\n")
	b.WriteString(v.styles.InputField.Render(v.tickerInput.View()))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}
	if v.submitting {
		b.WriteString(v.styles.Muted.Render("Creating..."))
		b.WriteString("\n\n")
	}

	b.WriteString(v.renderHelp())
	return b.String()
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[tab] switch field  [enter] create  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Title returns the entered title.
func (v *View) Title() string {
	return v.titleInput.Value()
}

// Ticker returns the entered ticker.
func (v *View) Ticker() string {
	return v.tickerInput.Value()
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
