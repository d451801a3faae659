// Package chat provides the transcript and question input view for the TUI.
package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/marketsight-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/marketsight-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/marketsight-cli/internal/core/domain"
	"github.com/custodia-labs/marketsight-cli/internal/core/ports/driving"
)

// revealRefresh is how often the transcript re-reads the session store
// while an answer is being revealed.
const revealRefresh = 100 * time.Millisecond

// View is the chat view for a single research session.
type View struct {
	styles         *styles.Styles
	sessionService driving.SessionService
	chatService    driving.ChatService

	sessionID    string
	input        textinput.Model
	lines        []string
	scrollOffset int
	stick        bool
	width        int
	height       int
	ready        bool
	err          error
	asking       bool
}

// NewView creates a new chat view.
func NewView(s *styles.Styles, sessionService driving.SessionService, chatService driving.ChatService) *View {
	input := textinput.New()
	input.Placeholder = "Ask about this company..."
	input.CharLimit = 500
	input.Width = 60

	return &View{
		styles:         s,
		sessionService: sessionService,
		chatService:    chatService,
		input:          input,
		stick:          true,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return textinput.Blink
}

// SetSession points the view at a session and rebuilds the transcript.
func (v *View) SetSession(id string) {
	v.sessionID = id
	v.input.Reset()
	v.input.Focus()
	v.err = nil
	v.asking = false
	v.stick = true
	v.rebuildTranscript()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		v.rebuildTranscript()
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AskCompleted:
		if msg.SessionID != v.sessionID {
			return v, nil
		}
		v.asking = false
		if msg.Err != nil {
			v.err = msg.Err
		}
		v.rebuildTranscript()
		return v, nil

	case messages.RevealTick:
		v.rebuildTranscript()
		if v.asking {
			return v, v.tick()
		}
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewSessions}
		}
	case "enter":
		return v, v.submit()
	case "up":
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
		v.stick = false
		return v, nil
	case "down":
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
		v.stick = v.scrollOffset == v.maxScrollOffset()
		return v, nil
	case "pgup", "ctrl+u":
		v.scrollOffset -= v.visibleLines()
		if v.scrollOffset < 0 {
			v.scrollOffset = 0
		}
		v.stick = false
		return v, nil
	case "pgdown", "ctrl+d":
		v.scrollOffset += v.visibleLines()
		if v.scrollOffset > v.maxScrollOffset() {
			v.scrollOffset = v.maxScrollOffset()
		}
		v.stick = v.scrollOffset == v.maxScrollOffset()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// submit sends the typed question to the chat service. The service call
// blocks until the reveal finishes, so it runs inside a command while
// a tick loop keeps the transcript fresh.
func (v *View) submit() tea.Cmd {
	question := strings.TrimSpace(v.input.Value())
	if question == "" || v.asking {
		return nil
	}

	v.input.Reset()
	v.err = nil
	v.asking = true
	v.stick = true

	sessionID := v.sessionID
	ask := func() tea.Msg {
		if v.chatService == nil {
			return messages.AskCompleted{SessionID: sessionID, Err: fmt.Errorf("chat service not available")}
		}
		err := v.chatService.Ask(context.Background(), sessionID, question)
		return messages.AskCompleted{SessionID: sessionID, Err: err}
	}

	return tea.Batch(ask, v.tick())
}

// tick schedules the next transcript refresh.
func (v *View) tick() tea.Cmd {
	return tea.Tick(revealRefresh, func(time.Time) tea.Msg {
		return messages.RevealTick{}
	})
}

// rebuildTranscript re-reads the session and re-wraps the transcript.
func (v *View) rebuildTranscript() {
	v.lines = nil
	session := v.session()
	if session == nil {
		return
	}

	for i := range session.Messages {
		if i > 0 {
			v.lines = append(v.lines, "")
		}
		v.appendMessage(&session.Messages[i])
	}

	if v.stick {
		v.scrollOffset = v.maxScrollOffset()
	} else if v.scrollOffset > v.maxScrollOffset() {
		v.scrollOffset = v.maxScrollOffset()
	}
}

// appendMessage renders one message into the line buffer.
func (v *View) appendMessage(msg *domain.Message) {
	switch msg.Role {
	case domain.RoleUser:
		v.lines = append(v.lines, v.styles.UserLabel.Render("You"))
	case domain.RoleAssistant:
		v.lines = append(v.lines, v.styles.AssistantLabel.Render("Assistant"))
	}

	content := msg.Content
	if msg.IsStreaming {
		content += " ▌"
	}
	if content == "" {
		content = "▌"
	}
	for _, line := range v.wrap(content) {
		v.lines = append(v.lines, v.styles.Normal.Render(line))
	}

	for _, src := range msg.Sources {
		cite := fmt.Sprintf("  [%s] %s", src.ID, src.Title)
		if src.Snippet != "" {
			cite += " - " + src.Snippet
		}
		for _, line := range v.wrap(cite) {
			v.lines = append(v.lines, v.styles.Muted.Render(line))
		}
	}
}

// wrap splits text into lines fitting the view width.
func (v *View) wrap(text string) []string {
	contentWidth := v.width - 4
	if contentWidth < 20 {
		contentWidth = 20
	}

	var out []string
	for _, line := range strings.Split(text, "\n") {
		for len(line) > contentWidth {
			cut := strings.LastIndex(line[:contentWidth], " ")
			if cut <= 0 {
				cut = contentWidth
			}
			out = append(out, strings.TrimRight(line[:cut], " "))
			line = strings.TrimLeft(line[cut:], " ")
		}
		out = append(out, line)
	}
	return out
}

// visibleLines returns how many transcript lines fit on screen.
func (v *View) visibleLines() int {
	// Reserve lines for title, separator, input, and help.
	reserved := 8
	available := v.height - reserved
	if available < 1 {
		available = 1
	}
	return available
}

// maxScrollOffset returns the maximum scroll offset.
func (v *View) maxScrollOffset() int {
	maxOffset := len(v.lines) - v.visibleLines()
	if maxOffset < 0 {
		maxOffset = 0
	}
	return maxOffset
}

// session returns the session this view is bound to, or nil.
func (v *View) session() *domain.ResearchSession {
	if v.sessionService == nil || v.sessionID == "" {
		return nil
	}
	return v.sessionService.Session(v.sessionID)
}

// View renders the chat view.
func (v *View) View() string {
	var b strings.Builder

	session := v.session()
	title := "Chat"
	if session != nil {
		title = fmt.Sprintf("%s (%s)", session.Title, session.Ticker)
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")
	sepWidth := minInt(v.width-4, 60)
	if sepWidth < 1 {
		sepWidth = 1
	}
	b.WriteString(strings.Repeat("─", sepWidth))
	b.WriteString("\n\n")

	if session == nil {
		b.WriteString(v.styles.Muted.Render("Session not found."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	if len(v.lines) == 0 {
		b.WriteString(v.styles.Muted.Render("No messages yet. Ask a question below."))
		b.WriteString("\n")
	} else {
		visible := v.visibleLines()
		for i := v.scrollOffset; i < len(v.lines) && i < v.scrollOffset+visible; i++ {
			b.WriteString(v.lines[i])
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n")
	}

	b.WriteString(v.styles.InputField.Render(v.input.View()))
	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	if v.asking {
		return v.styles.Help.Render("revealing answer...  [↑/↓] scroll  [esc] back")
	}
	return v.styles.Help.Render("[enter] ask  [↑/↓] scroll  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.rebuildTranscript()
}

// SessionID returns the session this view is bound to.
func (v *View) SessionID() string {
	return v.sessionID
}

// Asking reports whether a question is in flight.
func (v *View) Asking() bool {
	return v.asking
}

// Lines returns the wrapped transcript lines.
func (v *View) Lines() []string {
	return v.lines
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
