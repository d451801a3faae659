package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/marketsight-cli/internal/core/domain"
)

var (
	sessionsJSON     bool
	exportFormat     string
	newSessionTicker string
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage research sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions, most recent first",
	RunE:  runSessionsList,
}

var sessionsNewCmd = &cobra.Command{
	Use:   "new [title]",
	Short: "Create a session and make it active",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsNew,
}

var sessionsRenameCmd = &cobra.Command{
	Use:   "rename [id] [title]",
	Short: "Rename a session",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if sessionService == nil {
			return errors.New("session service not configured")
		}
		if sessionService.Session(args[0]) == nil {
			return fmt.Errorf("session %s: %w", args[0], domain.ErrNotFound)
		}
		return sessionService.UpdateSessionTitle(context.Background(), args[0], args[1])
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a session and its messages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if sessionService == nil {
			return errors.New("session service not configured")
		}
		if err := sessionService.DeleteSession(context.Background(), args[0]); err != nil {
			return fmt.Errorf("delete failed: %w", err)
		}
		cmd.Println("Deleted.")
		return nil
	},
}

var sessionsUseCmd = &cobra.Command{
	Use:   "use [id]",
	Short: "Make a session active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if sessionService == nil {
			return errors.New("session service not configured")
		}
		if sessionService.Session(args[0]) == nil {
			return fmt.Errorf("session %s: %w", args[0], domain.ErrNotFound)
		}
		return sessionService.SetActiveSessionID(context.Background(), args[0])
	},
}

var sessionsExportCmd = &cobra.Command{
	Use:   "export [id]",
	Short: "Export a session transcript",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsExport,
}

func init() {
	sessionsListCmd.Flags().BoolVar(&sessionsJSON, "json", false, "output sessions as JSON")
	sessionsNewCmd.Flags().StringVarP(&newSessionTicker, "ticker", "t", "", "stock ticker the session is scoped to (required)")
	sessionsExportCmd.Flags().StringVar(&exportFormat, "format", "markdown", "export format: markdown or json")
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsNewCmd)
	sessionsCmd.AddCommand(sessionsRenameCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	sessionsCmd.AddCommand(sessionsUseCmd)
	sessionsCmd.AddCommand(sessionsExportCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func runSessionsList(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	sessions := sessionService.Sessions()
	if sessionsJSON {
		data, err := json.MarshalIndent(sessions, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal sessions: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(sessions) == 0 {
		cmd.Println("No sessions. Create one with 'marketsight sessions new'.")
		return nil
	}

	active := sessionService.ActiveSessionID()
	cmd.Println("Sessions:")
	cmd.Println()
	for i := range sessions {
		marker := " "
		if sessions[i].ID == active {
			marker = "*"
		}
		cmd.Printf("  %s [%s] %s (%s) - %d messages\n",
			marker, sessions[i].ID, sessions[i].Title, sessions[i].Ticker, len(sessions[i].Messages))
	}
	return nil
}

func runSessionsNew(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}
	if strings.TrimSpace(newSessionTicker) == "" {
		return errors.New("--ticker is required")
	}

	id, err := sessionService.CreateSession(context.Background(), args[0], newSessionTicker)
	if err != nil {
		return fmt.Errorf("create failed: %w", err)
	}

	session := sessionService.Session(id)
	cmd.Printf("Created session %s (%s), now active.\n", id, session.Ticker)
	return nil
}

func runSessionsExport(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	session := sessionService.Session(args[0])
	if session == nil {
		return fmt.Errorf("session %s: %w", args[0], domain.ErrNotFound)
	}

	switch exportFormat {
	case "json":
		data, err := json.MarshalIndent(session, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}
		cmd.Println(string(data))
		return nil
	case "markdown":
		cmd.Print(exportMarkdown(session))
		return nil
	default:
		return fmt.Errorf("unknown format %q", exportFormat)
	}
}

// exportMarkdown renders a session transcript as markdown.
func exportMarkdown(session *domain.ResearchSession) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s (%s)\n\n", session.Title, session.Ticker)
	fmt.Fprintf(&b, "Created %s\n\n", session.CreatedAt.Format("2006-01-02 15:04"))

	for i := range session.Messages {
		msg := &session.Messages[i]
		switch msg.Role {
		case domain.RoleUser:
			fmt.Fprintf(&b, "## You\n\n%s\n\n", msg.Content)
		case domain.RoleAssistant:
			fmt.Fprintf(&b, "## Assistant\n\n%s\n\n", msg.Content)
			if len(msg.Sources) > 0 {
				b.WriteString("Sources:\n\n")
				for _, src := range msg.Sources {
					fmt.Fprintf(&b, "- %s (%s)\n", src.Title, src.Snippet)
				}
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}
