package oauth

import (
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startTestServer(t *testing.T) *CallbackServer {
	t.Helper()
	server := NewCallbackServer(0)
	require.NoError(t, server.Start())
	t.Cleanup(func() { _ = server.Stop() })
	return server
}

func TestCallbackServer_Start_RandomPort(t *testing.T) {
	server := startTestServer(t)
	assert.NotZero(t, server.Port())
	assert.Equal(t, fmt.Sprintf("http://localhost:%d/callback", server.Port()), server.RedirectURI())
}

func TestCallbackServer_TokenViaQuery(t *testing.T) {
	server := startTestServer(t)

	url := fmt.Sprintf("http://127.0.0.1:%d/callback?access_token=tok-xyz", server.Port())
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Sign-in successful")

	token, err := server.WaitForToken(time.Second)
	require.NoError(t, err)
	assert.Equal(t, "tok-xyz", token)
}

func TestCallbackServer_FragmentRelay(t *testing.T) {
	server := startTestServer(t)

	// The first hop has no query parameters: the token is in the URL
	// fragment, which never reaches the server. The response must be
	// the relay page that re-submits the fragment as a query.
	url := fmt.Sprintf("http://127.0.0.1:%d/callback", server.Port())
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "window.location.hash")
	assert.Contains(t, string(body), "window.location.replace")
}

func TestCallbackServer_ProviderError(t *testing.T) {
	server := startTestServer(t)

	url := fmt.Sprintf("http://127.0.0.1:%d/callback?error=access_denied&error_description=user+cancelled", server.Port())
	resp, err := http.Get(url)
	require.NoError(t, err)
	resp.Body.Close()

	_, err = server.WaitForToken(time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access_denied")
}

func TestCallbackServer_WaitForToken_Timeout(t *testing.T) {
	server := startTestServer(t)

	_, err := server.WaitForToken(50 * time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}

func TestCallbackServer_Stop_BeforeStart(t *testing.T) {
	server := NewCallbackServer(0)
	assert.NoError(t, server.Stop())
}
