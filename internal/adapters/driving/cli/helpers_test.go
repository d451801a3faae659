package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/marketsight-cli/internal/adapters/driven/auth"
	"github.com/custodia-labs/marketsight-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/marketsight-cli/internal/core/domain"
	"github.com/custodia-labs/marketsight-cli/internal/core/ports/driven"
	"github.com/custodia-labs/marketsight-cli/internal/core/services"
)

// stubAPI answers every query with a fixed payload.
type stubAPI struct {
	answer  string
	sources []domain.QuerySource
}

var _ driven.ResearchAPI = (*stubAPI)(nil)

func (s *stubAPI) Query(_ context.Context, question string, _ int) (*domain.QueryResult, error) {
	return &domain.QueryResult{Question: question, Answer: s.answer, Sources: s.sources}, nil
}

func (s *stubAPI) Signup(context.Context, driven.SignupRequest) (*driven.SignupResult, error) {
	return &driven.SignupResult{Message: "created"}, nil
}

func (s *stubAPI) Login(context.Context, string, string) (*domain.TokenResponse, error) {
	return &domain.TokenResponse{AccessToken: "tok"}, nil
}

func (s *stubAPI) Profile(context.Context) (*domain.Profile, error) {
	return &domain.Profile{Sub: "sub", Email: "test@example.com"}, nil
}

func (s *stubAPI) Validate(context.Context) error { return nil }

func (s *stubAPI) GoogleAuthURL(context.Context, string) (string, error) {
	return "https://example.com/auth", nil
}

func (s *stubAPI) Ping(context.Context) error { return nil }

// setupTestServices wires real services over in-memory adapters and
// injects them into the command tree. The returned cleanup detaches
// them again.
func setupTestServices(t *testing.T, api driven.ResearchAPI) (*services.SessionService, func()) {
	t.Helper()

	if api == nil {
		api = &stubAPI{answer: "stub answer"}
	}

	sessions, err := services.NewSessionService(context.Background(), memory.NewStateStore())
	require.NoError(t, err)

	tokens := auth.NewStaticTokenStore("tok")
	chat := services.NewChatService(sessions, api).WithRevealInterval(0)
	authSvc := services.NewAuthService(api, tokens, sessions)

	SetServices(authSvc, sessions, chat, api)
	return sessions, func() {
		SetServices(nil, nil, nil, nil)
		resetFlags()
	}
}

// resetFlags restores the package-level flag values that cobra keeps
// between executions.
func resetFlags() {
	sessionsJSON = false
	exportFormat = "markdown"
	newSessionTicker = ""
	askSessionID = ""
	askSources = false
	loginEmail = ""
	loginGoogle = false
	signupEmail = ""
	signupName = ""
}

// executeCommand runs the root command with args and captures output.
func executeCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
