package newsession

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/marketsight-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/marketsight-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/marketsight-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/marketsight-cli/internal/core/services"
)

func newTestView(t *testing.T) (*View, *services.SessionService) {
	t.Helper()
	svc, err := services.NewSessionService(context.Background(), memory.NewStateStore())
	require.NoError(t, err)
	view := NewView(styles.DefaultStyles(), svc)
	view.SetDimensions(80, 24)
	view.Reset()
	return view, svc
}

func typeText(view *View, text string) *View {
	for _, r := range text {
		view, _ = view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return view
}

func TestView_Reset(t *testing.T) {
	view, _ := newTestView(t)
	assert.Empty(t, view.Title())
	assert.Empty(t, view.Ticker())
	assert.NoError(t, view.Err())
}

func TestView_FillAndSubmit(t *testing.T) {
	view, svc := newTestView(t)

	view = typeText(view, "Earnings research")
	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyTab})
	view = typeText(view, "aapl")

	view, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg, ok := cmd().(messages.SessionCreated)
	require.True(t, ok)
	require.NoError(t, msg.Err)

	session := svc.Session(msg.ID)
	require.NotNil(t, session)
	assert.Equal(t, "Earnings research", session.Title)
	assert.Equal(t, "AAPL", session.Ticker)
}

func TestView_EnterOnTitleMovesFocus(t *testing.T) {
	view, _ := newTestView(t)

	view = typeText(view, "Title")
	view, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd, "enter on the title field moves focus, not submits")

	view = typeText(view, "msft")
	assert.Equal(t, "msft", view.Ticker())
}

func TestView_SubmitEmptyFails(t *testing.T) {
	view, _ := newTestView(t)

	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyTab})
	view, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Error(t, view.Err())
}

func TestView_EscReturnsToSessions(t *testing.T) {
	view, _ := newTestView(t)

	view, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	msg, ok := cmd().(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewSessions, msg.View)
	_ = view
}
