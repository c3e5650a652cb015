// ABOUTME: Status command for the lostfound CLI
// ABOUTME: Shows the stored session without contacting the backend

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/lostfound/lostfound/internal/session"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the stored session",
	Long: `Display what is stored locally: whether a token is present, the role cached at
login, and the token's expiry when it is a JWT. The backend is not contacted; use
'lostfound whoami' to validate the session.`,
	Run: func(cmd *cobra.Command, args []string) {
		exitCode := runStatus(os.Stdout, time.Now())
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// sessionStatus is the offline view of the session file
type sessionStatus struct {
	Path      string     `json:"path"`
	SignedIn  bool       `json:"signed_in"`
	Role      string     `json:"cached_role,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Expired   bool       `json:"expired"`
}

// runStatus reads the session file and returns exit code
func runStatus(w io.Writer, now time.Time) int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	store := session.NewFileStore(cfg.ConfigDir)
	token, err := store.Token()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	role, err := store.Role()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	st := sessionStatus{Path: store.Path(), SignedIn: token != "", Role: role}
	if exp, ok := session.Expiry(token); ok {
		st.ExpiresAt = &exp
		st.Expired = exp.Before(now)
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatStatusJSON(st))
	} else {
		fmt.Fprintln(w, formatStatusHuman(st, now))
	}
	return exitOK
}

// formatStatusHuman formats the session view for human readability
func formatStatusHuman(st sessionStatus, now time.Time) string {
	if !st.SignedIn {
		return fmt.Sprintf("Session file: %s\nSigned in:    no\nRun 'lostfound login' to sign in.", st.Path)
	}

	role := st.Role
	if role == "" {
		role = "unknown"
	}

	expiry := "unknown (opaque token)"
	if st.ExpiresAt != nil {
		expiry = st.ExpiresAt.Local().Format(time.RFC1123)
		if st.Expired {
			expiry += " [expired]"
		} else {
			expiry += fmt.Sprintf(" [in %s]", st.ExpiresAt.Sub(now).Round(time.Minute))
		}
	}

	return fmt.Sprintf(`Session file: %s
Signed in:    yes
Cached role:  %s
Expires:      %s`, st.Path, role, expiry)
}

// formatStatusJSON formats the session view as JSON
func formatStatusJSON(st sessionStatus) string {
	data, _ := json.MarshalIndent(st, "", "  ")
	return string(data)
}
