// Package cli provides the cobra command tree for the MarketSight CLI.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/marketsight-cli/internal/core/ports/driven"
	"github.com/custodia-labs/marketsight-cli/internal/core/ports/driving"
	"github.com/custodia-labs/marketsight-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services used by the commands, injected from main before Execute.
var (
	authService    driving.AuthService
	sessionService driving.SessionService
	chatService    driving.ChatService
	researchAPI    driven.ResearchAPI
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "marketsight",
	Short: "Terminal client for the MarketSight research backend",
	Long: `MarketSight is a financial-research assistant. Ask questions about
public companies and get answers synthesised from official filings,
with citations. Sessions and messages are stored locally.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// SetServices injects the core services the commands run against.
// Called from main after wiring; tests inject fakes the same way.
func SetServices(
	auth driving.AuthService,
	sessions driving.SessionService,
	chat driving.ChatService,
	api driven.ResearchAPI,
) {
	authService = auth
	sessionService = sessions
	chatService = chat
	researchAPI = api
}

// SetVersion sets the version string printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// RootCmd returns the root command. Useful for tests.
func RootCmd() *cobra.Command {
	return rootCmd
}
