package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPorts_Validate(t *testing.T) {
	ports, _ := newTestPorts(t)
	assert.NoError(t, ports.Validate())
}

func TestPorts_Validate_MissingSession(t *testing.T) {
	ports, _ := newTestPorts(t)
	ports.Session = nil
	assert.ErrorIs(t, ports.Validate(), ErrMissingSessionService)
}

func TestPorts_Validate_MissingChat(t *testing.T) {
	ports, _ := newTestPorts(t)
	ports.Chat = nil
	assert.ErrorIs(t, ports.Validate(), ErrMissingChatService)
}

func TestNewPorts(t *testing.T) {
	ports, sessions := newTestPorts(t)
	require.NotNil(t, ports)
	assert.Equal(t, sessions, ports.Session)
	assert.NotNil(t, ports.Chat)
	assert.Nil(t, ports.Auth, "auth is optional")
}
