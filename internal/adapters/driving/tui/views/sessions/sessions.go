// Package sessions provides the session list view component for the TUI.
package sessions

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/marketsight-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/marketsight-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/marketsight-cli/internal/core/domain"
	"github.com/custodia-labs/marketsight-cli/internal/core/ports/driving"
)

// View is the session list view.
type View struct {
	styles         *styles.Styles
	sessionService driving.SessionService

	sessions []domain.ResearchSession
	selected int
	width    int
	height   int
	ready    bool
	err      error
}

// NewView creates a new session list view.
func NewView(s *styles.Styles, sessionService driving.SessionService) *View {
	return &View{
		styles:         s,
		sessionService: sessionService,
		sessions:       []domain.ResearchSession{},
	}
}

// Init initialises the view and loads sessions.
func (v *View) Init() tea.Cmd {
	v.Refresh()
	return nil
}

// Refresh reloads the session list from the service and clamps the
// selection.
func (v *View) Refresh() {
	if v.sessionService == nil {
		return
	}
	v.sessions = v.sessionService.Sessions()
	if v.selected >= len(v.sessions) {
		v.selected = len(v.sessions) - 1
	}
	if v.selected < 0 {
		v.selected = 0
	}
}

// Update handles messages for the session list view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SessionDeleted:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.err = nil
			v.Refresh()
		}
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.sessions)-1 {
			v.selected++
		}
	case "enter":
		if len(v.sessions) > 0 && v.selected < len(v.sessions) {
			id := v.sessions[v.selected].ID
			return v, func() tea.Msg {
				return messages.SessionSelected{ID: id}
			}
		}
	case "n":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewNewSession}
		}
	case "d", "delete", "backspace":
		if len(v.sessions) > 0 && v.selected < len(v.sessions) {
			cmd := v.deleteSession(v.sessions[v.selected].ID)
			return v, cmd
		}
	case "q":
		return v, func() tea.Msg {
			return messages.Quit{}
		}
	}

	return v, nil
}

// deleteSession returns a command that deletes a session.
func (v *View) deleteSession(id string) tea.Cmd {
	return func() tea.Msg {
		if v.sessionService == nil {
			return messages.SessionDeleted{ID: id, Err: fmt.Errorf("session service not available")}
		}

		err := v.sessionService.DeleteSession(context.Background(), id)
		return messages.SessionDeleted{ID: id, Err: err}
	}
}

// View renders the session list view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Research Sessions"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	if len(v.sessions) == 0 {
		b.WriteString(v.styles.Muted.Render("No sessions yet. Press 'n' to start one."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	active := ""
	if v.sessionService != nil {
		active = v.sessionService.ActiveSessionID()
	}

	for i := range v.sessions {
		b.WriteString(v.renderSession(i, &v.sessions[i], active))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderSession renders a single session line.
func (v *View) renderSession(index int, session *domain.ResearchSession, activeID string) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	marker := " "
	if session.ID == activeID {
		marker = "*"
	}

	title := session.Title
	maxTitleLen := v.width - 24
	if maxTitleLen < 10 {
		maxTitleLen = 10
	}
	if len(title) > maxTitleLen {
		title = title[:maxTitleLen-3] + "..."
	}

	count := fmt.Sprintf("%d msgs", len(session.Messages))

	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("%s%s %-8s %s (%s)",
			indicator, marker, session.Ticker, title, count))
	}
	return v.styles.Normal.Render(indicator+marker+" ") +
		v.styles.Ticker.Render(fmt.Sprintf("%-8s ", session.Ticker)) +
		v.styles.Normal.Render(title) +
		v.styles.Muted.Render(" ("+count+")")
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[n] new  [enter] open  [d] delete  [q] quit")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Sessions returns the current list of sessions.
func (v *View) Sessions() []domain.ResearchSession {
	return v.sessions
}

// SelectedIndex returns the currently selected session index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
