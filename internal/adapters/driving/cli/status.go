package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/marketsight-cli/internal/core/domain"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check backend reachability and token validity",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if researchAPI == nil || authService == nil {
		return errors.New("services not configured")
	}
	ctx := context.Background()

	if err := researchAPI.Ping(ctx); err != nil {
		cmd.Println("Backend:  unreachable")
		return err
	}
	cmd.Println("Backend:  ok")

	switch err := authService.Validate(ctx); {
	case err == nil:
		cmd.Println("Auth:     valid token")
	case errors.Is(err, domain.ErrAuthRequired):
		cmd.Println("Auth:     not signed in")
	default:
		cmd.Println("Auth:     token invalid or expired")
	}
	return nil
}
