package cmd

import (
	"fmt"
	"os"
	"strings"

	"uhc/internal/localstore"
	"uhc/internal/logger"
	"uhc/internal/state"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// loginCmd stores a token pair issued by the website's OAuth flow. The
// terminal client cannot run the browser redirect itself, so the user
// pastes the tokens shown on the site's "connect a client" page.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store a session token pair",
	Long: `Login stores the access and refresh tokens issued by the hosting
website. Visit the site's client connection page to obtain a pair, then
paste each token when prompted. Input is hidden.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := Context()

		access, err := promptToken("Access token: ")
		if err != nil {
			return err
		}
		claims := state.DecodeClaims(access)
		if claims == nil {
			return fmt.Errorf("access token is not a valid session token")
		}

		refresh, err := promptToken("Refresh token: ")
		if err != nil {
			return err
		}
		if state.DecodeClaims(refresh) == nil {
			return fmt.Errorf("refresh token is not a valid session token")
		}

		kv, err := localstore.Open(cfg.LocalStorePath())
		if err != nil {
			return fmt.Errorf("failed to open local store: %w", err)
		}
		defer kv.Close()

		if err := kv.Set(ctx, localstore.KeyAccessToken, access); err != nil {
			return err
		}
		if err := kv.Set(ctx, localstore.KeyRefreshToken, refresh); err != nil {
			return err
		}

		AuditLog().LogSession(ctx, logger.AuditActionLogin, claims.Username)

		out := Output()
		out.Success(fmt.Sprintf("logged in as %s", claims.Username))
		if len(claims.Permissions) > 0 {
			out.Printf("permissions: %s\n", strings.Join(claims.Permissions, ", "))
		}
		return nil
	},
}

// logoutCmd drops the stored token pair.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := Context()

		kv, err := localstore.Open(cfg.LocalStorePath())
		if err != nil {
			return fmt.Errorf("failed to open local store: %w", err)
		}
		defer kv.Close()

		username := ""
		if v, ok, _ := kv.Get(ctx, localstore.KeyAccessToken); ok {
			if c := state.DecodeClaims(v); c != nil {
				username = c.Username
			}
		}

		if err := kv.Delete(ctx, localstore.KeyAccessToken); err != nil {
			return err
		}
		if err := kv.Delete(ctx, localstore.KeyRefreshToken); err != nil {
			return err
		}

		AuditLog().LogSession(ctx, logger.AuditActionLogout, username)
		Output().Success("logged out")
		return nil
	},
}

// promptToken reads a secret from the terminal without echo. Falls back
// to a plain line read when stdin is not a terminal, so tokens can be
// piped in scripts.
func promptToken(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("failed to read token: %w", err)
		}
		return strings.TrimSpace(string(raw)), nil
	}

	var line string
	if _, err := fmt.Fscanln(os.Stdin, &line); err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}
