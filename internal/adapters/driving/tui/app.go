package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/marketsight-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/marketsight-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/marketsight-cli/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/marketsight-cli/internal/adapters/driving/tui/views/newsession"
	"github.com/custodia-labs/marketsight-cli/internal/adapters/driving/tui/views/sessions"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// sessionsView is the session list view component.
	sessionsView *sessions.View

	// newSessionView is the create-session form component.
	newSessionView *newsession.View

	// chatView is the transcript and input view component.
	chatView *chat.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	sessionsView := sessions.NewView(s, ports.Session)
	newSessionView := newsession.NewView(s, ports.Session)
	chatView := chat.NewView(s, ports.Session, ports.Chat)

	return &App{
		ports:          ports,
		ctx:            context.Background(),
		styles:         s,
		sessionsView:   sessionsView,
		newSessionView: newSessionView,
		chatView:       chatView,
		currentView:    messages.ViewSessions,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("marketsight - Financial Research"),
		a.sessionsView.Init(),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		// Forward to all views for proper sizing
		a.sessionsView.SetDimensions(msg.Width, msg.Height)
		a.newSessionView.SetDimensions(msg.Width, msg.Height)
		a.chatView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.currentView {
		case messages.ViewSessions:
			a.sessionsView, cmd = a.sessionsView.Update(msg)
			return a, cmd
		case messages.ViewNewSession:
			a.newSessionView, cmd = a.newSessionView.Update(msg)
			return a, cmd
		case messages.ViewChat:
			a.chatView, cmd = a.chatView.Update(msg)
			return a, cmd
		}
		return a, nil

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewSessions:
			return a, a.sessionsView.Init()
		case messages.ViewNewSession:
			a.newSessionView.Reset()
			return a, a.newSessionView.Init()
		case messages.ViewChat:
			return a, a.chatView.Init()
		}
		return a, nil

	case messages.SessionSelected:
		if err := a.ports.Session.SetActiveSessionID(a.ctx, msg.ID); err != nil {
			a.err = err
		}
		a.chatView.SetSession(msg.ID)
		a.currentView = messages.ViewChat
		return a, a.chatView.Init()

	case messages.SessionCreated:
		if msg.Err != nil {
			a.err = msg.Err
			a.newSessionView, cmd = a.newSessionView.Update(msg)
			return a, cmd
		}
		// CreateSession already made it active.
		a.chatView.SetSession(msg.ID)
		a.currentView = messages.ViewChat
		return a, a.chatView.Init()

	case messages.SessionDeleted:
		a.sessionsView, cmd = a.sessionsView.Update(msg)
		return a, cmd

	case messages.AskCompleted, messages.RevealTick:
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		switch a.currentView {
		case messages.ViewChat:
			a.chatView, cmd = a.chatView.Update(msg)
		case messages.ViewSessions, messages.ViewNewSession:
			// List and form views surface errors via their own state.
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages to the active view
	switch a.currentView {
	case messages.ViewSessions:
		a.sessionsView, cmd = a.sessionsView.Update(msg)
	case messages.ViewNewSession:
		a.newSessionView, cmd = a.newSessionView.Update(msg)
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	}

	return a, cmd
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewSessions:
		return a.sessionsView.View()
	case messages.ViewNewSession:
		return a.newSessionView.View()
	case messages.ViewChat:
		return a.chatView.View()
	default:
		return a.sessionsView.View()
	}
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.sessionsView.SetDimensions(width, height)
	a.newSessionView.SetDimensions(width, height)
	a.chatView.SetDimensions(width, height)
}
