// ABOUTME: Whoami command for the lostfound CLI
// ABOUTME: Validates the stored session against the backend and prints the profile

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/lostfound/lostfound/internal/client"
	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Long: `Check the stored token with the backend and print the profile it belongs to.
A token the backend rejects is discarded.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runWhoami(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

// runWhoami executes the identity check and returns exit code
func runWhoami(ctx context.Context, w io.Writer) int {
	_, m, cfg, err := newSession()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	if code := requireSession(ctx, w, m); code != exitOK {
		return code
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatUserJSON(m.User()))
	} else {
		fmt.Fprintln(w, formatWhoamiHuman(cfg.APIURL, m.User()))
	}
	return exitOK
}

// formatWhoamiHuman formats the profile for human readability
func formatWhoamiHuman(url string, user *client.User) string {
	return fmt.Sprintf(`Backend:  %s
User:     %s
ID:       %d
Role:     %s`, url, user.Username, user.ID, user.Role)
}
