// Package oauth provides the local callback server and browser helpers
// for the Google sign-in flow. The backend owns the actual OAuth
// exchange; this server only catches the final redirect carrying the
// issued access token.
package oauth

import (
	"context"
	"fmt"
	"html"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"sync"
	"time"
)

// CallbackServer handles the sign-in redirect.
// It starts a local HTTP server to receive the access token. The
// backend delivers the token in the URL fragment, which never reaches a
// server, so /callback serves a small relay page that re-submits the
// fragment as a query parameter.
type CallbackServer struct {
	mu        sync.Mutex
	port      int
	tokenChan chan string
	errChan   chan error
	server    *http.Server
	listener  net.Listener
}

// NewCallbackServer creates a new sign-in callback server.
func NewCallbackServer(port int) *CallbackServer {
	return &CallbackServer{
		port:      port,
		tokenChan: make(chan string, 1),
		errChan:   make(chan error, 1),
	}
}

// Start starts the callback server on the configured port.
// If port is 0, a random available port will be chosen.
func (s *CallbackServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", s.handleCallback)

	s.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	// Create listener
	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener

	// Store the actual port (important when port was 0)
	if tcpAddr, ok := listener.Addr().(*net.TCPAddr); ok {
		s.port = tcpAddr.Port
	}

	// Start server in goroutine
	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			select {
			case s.errChan <- err:
			default:
			}
		}
	}()

	return nil
}

// handleCallback processes the sign-in redirect.
func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	// Check for error from provider
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		errDesc := r.URL.Query().Get("error_description")
		s.errChan <- fmt.Errorf("sign-in error: %s - %s", errParam, errDesc)
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, resultHTML("Sign-in failed: "+html.EscapeString(errDesc), ""))
		return
	}

	// Token delivered as a query parameter (second hop of the relay,
	// or a backend that redirects with a query directly)
	if token := r.URL.Query().Get("access_token"); token != "" {
		select {
		case s.tokenChan <- token:
		default:
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, resultHTML("Sign-in successful!", "You can close this window and return to the terminal."))
		return
	}

	// First hop: the token is in the fragment. Serve the relay page.
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, relayHTML)
}

// WaitForToken blocks until the access token is received or timeout.
func (s *CallbackServer) WaitForToken(timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	select {
	case token := <-s.tokenChan:
		return token, nil
	case err := <-s.errChan:
		return "", err
	case <-ctx.Done():
		return "", fmt.Errorf("timeout waiting for sign-in callback")
	}
}

// Stop shuts down the callback server.
func (s *CallbackServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(ctx)
	}
	return nil
}

// Port returns the port the server is listening on.
func (s *CallbackServer) Port() int {
	return s.port
}

// RedirectURI returns the redirect URI for this callback server.
func (s *CallbackServer) RedirectURI() string {
	return fmt.Sprintf("http://localhost:%d/callback", s.port)
}

// OpenBrowser opens the given URL in the default browser.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

// relayHTML re-submits the URL fragment as a query parameter so the
// server can read the token.
const relayHTML = `<!DOCTYPE html>
<html>
<head><title>MarketSight - Signing in...</title></head>
<body>
<p>Completing sign-in...</p>
<script>
  var hash = window.location.hash.startsWith('#') ? window.location.hash.substring(1) : '';
  window.location.replace('/callback?' + hash);
</script>
</body>
</html>`

func resultHTML(title, message string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <title>MarketSight - Sign-in</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            display: flex;
            justify-content: center;
            align-items: center;
            height: 100vh;
            margin: 0;
            background: #FAFAFA;
        }
        .container {
            text-align: center;
            background: white;
            padding: 48px 64px;
            border-radius: 16px;
            border: 1px solid #C7C8CC;
        }
        h1 { color: #333F50; margin: 0 0 8px 0; font-size: 24px; }
        p { color: #7B8088; margin: 0; font-size: 16px; }
    </style>
</head>
<body>
    <div class="container">
        <h1>%s</h1>
        <p>%s</p>
    </div>
</body>
</html>`, title, message)
}
