package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/marketsight-cli/internal/adapters/driving/oauth"
	"github.com/custodia-labs/marketsight-cli/internal/core/ports/driven"
)

var (
	loginEmail  string
	loginGoogle bool

	signupEmail string
	signupName  string
)

// googleCallbackTimeout bounds how long login --google waits for the
// browser redirect.
const googleCallbackTimeout = 3 * time.Minute

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the research backend",
	Long: `Signs in with email and password, or with Google via --google.
The bearer token is stored locally and used for all queries.`,
	RunE: runLogin,
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	RunE:  runSignup,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and discard the stored token",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if authService == nil {
			return errors.New("auth service not configured")
		}
		if err := authService.Logout(context.Background()); err != nil {
			return fmt.Errorf("logout failed: %w", err)
		}
		cmd.Println("Signed out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if sessionService == nil {
			return errors.New("session service not configured")
		}
		user := sessionService.User()
		if user == nil {
			cmd.Println("Not signed in.")
			return nil
		}
		cmd.Printf("%s <%s>\n", user.Name, user.Email)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	loginCmd.Flags().BoolVar(&loginGoogle, "google", false, "sign in with Google via the browser")
	signupCmd.Flags().StringVar(&signupEmail, "email", "", "account email")
	signupCmd.Flags().StringVar(&signupName, "name", "", "display name")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}
	ctx := context.Background()

	if loginGoogle {
		return runGoogleLogin(ctx, cmd)
	}

	email := strings.TrimSpace(loginEmail)
	if email == "" {
		return errors.New("--email is required (or use --google)")
	}

	password, err := promptPassword(cmd, "Password: ")
	if err != nil {
		return err
	}

	user, err := authService.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	cmd.Printf("Signed in as %s <%s>\n", user.Name, user.Email)
	return nil
}

func runGoogleLogin(ctx context.Context, cmd *cobra.Command) error {
	server := oauth.NewCallbackServer(0)
	if err := server.Start(); err != nil {
		return fmt.Errorf("starting callback server: %w", err)
	}
	defer server.Stop() //nolint:errcheck // best-effort shutdown

	authURL, err := authService.GoogleAuthURL(ctx, server.RedirectURI())
	if err != nil {
		return fmt.Errorf("getting authorization URL: %w", err)
	}

	cmd.Println("Opening browser for Google sign-in...")
	if err := oauth.OpenBrowser(authURL); err != nil {
		cmd.Printf("Could not open browser. Visit:\n  %s\n", authURL)
	}

	token, err := server.WaitForToken(googleCallbackTimeout)
	if err != nil {
		return fmt.Errorf("sign-in failed: %w", err)
	}

	user, err := authService.LoginWithToken(ctx, token)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	cmd.Printf("Signed in as %s <%s>\n", user.Name, user.Email)
	return nil
}

func runSignup(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	email := strings.TrimSpace(signupEmail)
	if email == "" {
		return errors.New("--email is required")
	}

	password, err := promptPassword(cmd, "Password: ")
	if err != nil {
		return err
	}
	confirm, err := promptPassword(cmd, "Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return errors.New("passwords do not match")
	}

	result, err := authService.Signup(context.Background(), driven.SignupRequest{
		Email:    email,
		Password: password,
		Name:     signupName,
	})
	if err != nil {
		return fmt.Errorf("signup failed: %w", err)
	}

	cmd.Printf("Account created for %s. Run 'marketsight login' to sign in.\n", result.Email)
	return nil
}

// promptPassword reads a password without echo when stdin is a
// terminal, falling back to a plain line read otherwise (tests, pipes).
func promptPassword(cmd *cobra.Command, prompt string) (string, error) {
	cmd.Print(prompt)
	fd := int(syscall.Stdin)
	if term.IsTerminal(fd) {
		data, err := term.ReadPassword(fd)
		cmd.Println()
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(data), nil
	}

	var line string
	if _, err := fmt.Fscanln(os.Stdin, &line); err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return line, nil
}
