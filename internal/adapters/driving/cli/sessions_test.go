package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/marketsight-cli/internal/core/domain"
)

func TestSessionsCmd_Use(t *testing.T) {
	assert.Equal(t, "sessions", sessionsCmd.Use)
}

func TestSessionsNewCmd_RequiresTicker(t *testing.T) {
	_, cleanup := setupTestServices(t, nil)
	defer cleanup()

	_, err := executeCommand("sessions", "new", "My research")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ticker")
}

func TestSessionsNewCmd_CreatesAndActivates(t *testing.T) {
	sessions, cleanup := setupTestServices(t, nil)
	defer cleanup()

	out, err := executeCommand("sessions", "new", "My research", "--ticker", "aapl")
	require.NoError(t, err)
	assert.Contains(t, out, "Created session")
	assert.Contains(t, out, "AAPL")

	list := sessions.Sessions()
	require.Len(t, list, 1)
	assert.Equal(t, list[0].ID, sessions.ActiveSessionID())
}

func TestSessionsListCmd_Empty(t *testing.T) {
	_, cleanup := setupTestServices(t, nil)
	defer cleanup()

	out, err := executeCommand("sessions", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions")
}

func TestSessionsListCmd_MarksActive(t *testing.T) {
	sessions, cleanup := setupTestServices(t, nil)
	defer cleanup()
	ctx := context.Background()

	_, err := sessions.CreateSession(ctx, "First", "AAPL")
	require.NoError(t, err)
	second, err := sessions.CreateSession(ctx, "Second", "MSFT")
	require.NoError(t, err)

	out, err := executeCommand("sessions", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "* ["+second+"]")
	assert.Contains(t, out, "First")
	assert.Contains(t, out, "Second")
}

func TestSessionsListCmd_JSON(t *testing.T) {
	sessions, cleanup := setupTestServices(t, nil)
	defer cleanup()

	_, err := sessions.CreateSession(context.Background(), "Research", "NVDA")
	require.NoError(t, err)

	out, err := executeCommand("sessions", "list", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"ticker": "NVDA"`)
}

func TestSessionsUseCmd(t *testing.T) {
	sessions, cleanup := setupTestServices(t, nil)
	defer cleanup()
	ctx := context.Background()

	first, err := sessions.CreateSession(ctx, "First", "AAPL")
	require.NoError(t, err)
	_, err = sessions.CreateSession(ctx, "Second", "MSFT")
	require.NoError(t, err)

	_, err = executeCommand("sessions", "use", first)
	require.NoError(t, err)
	assert.Equal(t, first, sessions.ActiveSessionID())
}

func TestSessionsUseCmd_Unknown(t *testing.T) {
	_, cleanup := setupTestServices(t, nil)
	defer cleanup()

	_, err := executeCommand("sessions", "use", "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionsRenameCmd(t *testing.T) {
	sessions, cleanup := setupTestServices(t, nil)
	defer cleanup()

	id, err := sessions.CreateSession(context.Background(), "Old", "AAPL")
	require.NoError(t, err)

	_, err = executeCommand("sessions", "rename", id, "New title")
	require.NoError(t, err)
	assert.Equal(t, "New title", sessions.Session(id).Title)
}

func TestSessionsDeleteCmd(t *testing.T) {
	sessions, cleanup := setupTestServices(t, nil)
	defer cleanup()

	id, err := sessions.CreateSession(context.Background(), "Doomed", "AAPL")
	require.NoError(t, err)

	out, err := executeCommand("sessions", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted")
	assert.Empty(t, sessions.Sessions())
}

func TestSessionsExportCmd_Markdown(t *testing.T) {
	sessions, cleanup := setupTestServices(t, nil)
	defer cleanup()
	ctx := context.Background()

	id, err := sessions.CreateSession(ctx, "Earnings", "AAPL")
	require.NoError(t, err)
	_, err = sessions.AddMessage(ctx, id, domain.MessageDraft{
		Role:    domain.RoleUser,
		Content: "How did margins develop?",
	})
	require.NoError(t, err)
	_, err = sessions.AddMessage(ctx, id, domain.MessageDraft{
		Role:    domain.RoleAssistant,
		Content: "Gross margin expanded.",
		Sources: []domain.Source{{ID: "0", Title: "10-K", Snippet: "Relevance: 91.0%"}},
	})
	require.NoError(t, err)

	out, err := executeCommand("sessions", "export", id)
	require.NoError(t, err)
	assert.Contains(t, out, "# Earnings (AAPL)")
	assert.Contains(t, out, "## You")
	assert.Contains(t, out, "## Assistant")
	assert.Contains(t, out, "Gross margin expanded.")
	assert.Contains(t, out, "- 10-K (Relevance: 91.0%)")
}

func TestSessionsExportCmd_UnknownFormat(t *testing.T) {
	sessions, cleanup := setupTestServices(t, nil)
	defer cleanup()

	id, err := sessions.CreateSession(context.Background(), "S", "AAPL")
	require.NoError(t, err)

	_, err = executeCommand("sessions", "export", id, "--format", "pdf")
	assert.Error(t, err)
}

func TestAskCmd_UsesActiveSession(t *testing.T) {
	api := &stubAPI{
		answer: "Revenue grew 12%.",
		sources: []domain.QuerySource{
			{Source: "10-K 2025", ChunkIndex: 2, Score: 0.88},
		},
	}
	sessions, cleanup := setupTestServices(t, api)
	defer cleanup()

	id, err := sessions.CreateSession(context.Background(), "S", "AAPL")
	require.NoError(t, err)

	out, err := executeCommand("ask", "How did revenue do?", "--sources")
	require.NoError(t, err)
	assert.Contains(t, out, "Revenue grew 12%.")
	assert.Contains(t, out, "[0] 10-K 2025")

	session := sessions.Session(id)
	require.Len(t, session.Messages, 2)
}

func TestAskCmd_NoActiveSession(t *testing.T) {
	_, cleanup := setupTestServices(t, nil)
	defer cleanup()

	_, err := executeCommand("ask", "question")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no active session")
}
