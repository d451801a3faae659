// Command marketsight is the terminal client for the MarketSight
// financial-research backend.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/custodia-labs/marketsight-cli/internal/adapters/driven/auth"
	"github.com/custodia-labs/marketsight-cli/internal/adapters/driven/backend"
	"github.com/custodia-labs/marketsight-cli/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/marketsight-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/marketsight-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/marketsight-cli/internal/core/ports/driven"
	"github.com/custodia-labs/marketsight-cli/internal/core/services"
)

// Version info set via ldflags at build time.
var Version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configDir, err := resolveConfigDir()
	if err != nil {
		return err
	}

	state, err := newStateStore(configDir)
	if err != nil {
		return fmt.Errorf("opening state store: %w", err)
	}

	tokens, err := auth.NewFileTokenStore(configDir)
	if err != nil {
		return fmt.Errorf("opening token store: %w", err)
	}

	api := backend.NewClient(backend.Config{
		BaseURL: os.Getenv("MARKETSIGHT_API_URL"),
		Timeout: 60 * time.Second,
	}, tokens)

	ctx := context.Background()
	sessions, err := services.NewSessionService(ctx, state)
	if err != nil {
		return fmt.Errorf("initialising sessions: %w", err)
	}

	chat := services.NewChatService(sessions, api)
	authSvc := services.NewAuthService(api, tokens, sessions)

	cli.SetVersion(Version)
	cli.SetServices(authSvc, sessions, chat, api)

	return cli.Execute()
}

// resolveConfigDir returns the directory holding local state, honouring
// MARKETSIGHT_CONFIG_DIR, defaulting to ~/.marketsight.
func resolveConfigDir() (string, error) {
	if dir := os.Getenv("MARKETSIGHT_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".marketsight"), nil
}

// newStateStore picks the persistence backend. The TOML file store is
// the default; MARKETSIGHT_STORE=sqlite selects the SQLite store.
func newStateStore(configDir string) (driven.StateStore, error) {
	if os.Getenv("MARKETSIGHT_STORE") == "sqlite" {
		return sqlite.NewStateStore(configDir)
	}
	return file.NewStateStore(configDir)
}
