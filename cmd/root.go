// ABOUTME: Root command for the lostfound CLI
// ABOUTME: Handles global flags, configuration, and session wiring shared by subcommands

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lostfound/lostfound/internal/client"
	"github.com/lostfound/lostfound/internal/config"
	"github.com/lostfound/lostfound/internal/logger"
	"github.com/lostfound/lostfound/internal/session"
	"github.com/spf13/cobra"
)

var (
	apiURL     string
	jsonOutput bool
	configDir  string
)

// Exit codes shared by every command
const (
	exitOK       = 0
	exitRejected = 1 // backend or policy said no
	exitError    = 2 // could not get an answer
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "lostfound",
	Short: "Client for the Lost & Found item tracker",
	Long: `lostfound is a command-line and terminal UI client for a Lost & Found backend.

Sign in, browse LOST, FOUND, and CLAIMED items, claim items, and review claim
requests. Run 'lostfound ui' for the interactive dashboard.

Environment Variables:
  LOSTFOUND_API_URL       Backend API URL (default: http://localhost:8080)
  LOSTFOUND_CONFIG_DIR    Directory holding session.json and debug.log
  LOSTFOUND_HTTP_TIMEOUT  Backend call timeout in seconds, 0 disables (default: 30)
  LOG_LEVEL               debug, info, warn, error (default: info)
  LOG_FORMAT              text, json (default: text)`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			return
		}
		logger.Init(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides LOSTFOUND_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Directory for local session state (overrides LOSTFOUND_CONFIG_DIR)")
}

// loadConfig reads the environment and applies flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIURL = strings.TrimRight(apiURL, "/")
	}
	if configDir != "" {
		cfg.ConfigDir = configDir
	}
	return cfg, nil
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// newSession wires the backend gateway and a session manager over the
// persisted session file
func newSession() (*client.Client, *session.Manager, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	c := client.New(cfg.APIURL, client.WithTimeout(cfg.HTTPTimeout))
	m := session.NewManager(session.NewFileStore(cfg.ConfigDir), c)
	return c, m, cfg, nil
}

// requireSession restores the persisted session and reports why it is not
// usable. It returns exitOK when the session is ACTIVE.
func requireSession(ctx context.Context, w io.Writer, m *session.Manager) int {
	err := m.Restore(ctx)
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, session.ErrNoSession):
		fmt.Fprintln(w, "Not signed in. Run 'lostfound login' first.")
		return exitRejected
	case errors.Is(err, session.ErrSessionExpired):
		fmt.Fprintln(w, "Session expired. Run 'lostfound login' to sign in again.")
		return exitRejected
	case isRejection(err):
		fmt.Fprintf(w, "Session rejected by backend (%s). Run 'lostfound login' to sign in again.\n", describe(err))
		return exitRejected
	default:
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
}

// isRejection reports whether err is an answer from the backend rather than
// a failure to reach it
func isRejection(err error) bool {
	var apiErr *client.APIError
	return errors.As(err, &apiErr)
}

// failureCode maps err to the exit code for a command that got no success
func failureCode(err error) int {
	if isRejection(err) {
		return exitRejected
	}
	return exitError
}

// describe returns the most useful text for err
func describe(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Detail() != "" {
		return apiErr.Detail()
	}
	return err.Error()
}

