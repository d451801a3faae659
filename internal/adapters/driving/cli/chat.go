package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/marketsight-cli/internal/adapters/driving/tui"
)

// chatCmd launches the interactive terminal UI.
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Launch the interactive research chat",
	Long: `Launch the interactive terminal user interface for MarketSight.

The TUI shows your research sessions, lets you start new ones, and
reveals backend answers word by word as they arrive.

Controls:
  ↑/k, ↓/j - Navigate sessions / scroll transcript
  Enter    - Open session / Ask question
  n        - New session
  Esc      - Back
  q        - Quit`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	ports := &tui.Ports{
		Session: sessionService,
		Chat:    chatService,
		Auth:    authService,
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
