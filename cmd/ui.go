// ABOUTME: UI command for the lostfound CLI
// ABOUTME: Launches the interactive terminal dashboard with logging sent to a file

package cmd

import (
	"fmt"
	"os"

	"github.com/lostfound/lostfound/internal/logger"
	"github.com/lostfound/lostfound/internal/tui"
	"github.com/spf13/cobra"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive dashboard",
	Long: `Open the terminal dashboard. The stored session is checked first; without a
valid session the login form is shown. Logs go to debug.log in the config directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUI()
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)
}

func runUI() error {
	c, m, cfg, err := newSession()
	if err != nil {
		return err
	}

	logFile, err := logger.OpenFile(cfg.ConfigDir)
	if err != nil {
		return fmt.Errorf("open debug log: %w", err)
	}
	defer logFile.Close()
	logger.Init(logFile, cfg.LogLevel, cfg.LogFormat)

	if err := tui.Run(m, c, cfg.APIURL); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		return err
	}
	return nil
}
