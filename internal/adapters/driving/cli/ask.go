package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	askSessionID string
	askSources   bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a research question in the active session",
	Long: `Submits a question to the research backend and prints the answer.
The question and the answer are appended to the active session (or the
session named with --session).`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askSessionID, "session", "s", "", "target session ID (defaults to the active session)")
	askCmd.Flags().BoolVar(&askSources, "sources", false, "print the answer's citations")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if chatService == nil || sessionService == nil {
		return errors.New("chat service not configured")
	}

	sessionID := askSessionID
	if sessionID == "" {
		sessionID = sessionService.ActiveSessionID()
	}
	if sessionID == "" {
		return errors.New("no active session; create one with 'marketsight sessions new'")
	}

	question := strings.TrimSpace(args[0])
	if question == "" {
		return errors.New("question is empty")
	}

	if err := chatService.Ask(context.Background(), sessionID, question); err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	session := sessionService.Session(sessionID)
	if session == nil || len(session.Messages) == 0 {
		return errors.New("no answer recorded")
	}

	answer := session.Messages[len(session.Messages)-1]
	cmd.Println(answer.Content)

	if askSources && len(answer.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for _, src := range answer.Sources {
			cmd.Printf("  [%s] %s", src.ID, src.Title)
			if src.Snippet != "" {
				cmd.Printf(" - %s", src.Snippet)
			}
			cmd.Println()
		}
	}
	return nil
}
