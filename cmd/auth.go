// ABOUTME: Login, signup, and logout commands for the lostfound CLI
// ABOUTME: Prompts for missing credentials and manages the persisted session

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/lostfound/lostfound/internal/client"
	"github.com/lostfound/lostfound/internal/tui/authform"
	"github.com/spf13/cobra"
)

var (
	authUsername string
	authPassword string
	signupRole   string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session token",
	Long: `Sign in to the backend, confirm the identity behind the issued token, and
store the token for later commands. Missing credentials are prompted for.`,
	Run: func(cmd *cobra.Command, args []string) {
		fields := authform.Fields{Username: authUsername, Password: authPassword}
		if err := authform.Prompt(authform.ModeLogin, &fields); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(exitError)
		}

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runLogin(ctx, os.Stdout, fields)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	Long:  `Register a new account with a role of USER, STAFF, or ADMIN. Sign in afterwards with 'lostfound login'.`,
	Run: func(cmd *cobra.Command, args []string) {
		fields := authform.Fields{Username: authUsername, Password: authPassword, Role: client.Role(signupRole)}
		if err := authform.Prompt(authform.ModeSignup, &fields); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(exitError)
		}

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runSignup(ctx, os.Stdout, fields)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Long:  `Clear the stored token and cached role. The backend is not contacted.`,
	Run: func(cmd *cobra.Command, args []string) {
		exitCode := runLogout(os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, signupCmd} {
		c.Flags().StringVarP(&authUsername, "username", "u", "", "Username")
		c.Flags().StringVarP(&authPassword, "password", "p", "", "Password")
	}
	signupCmd.Flags().StringVar(&signupRole, "role", "", "Role: USER, STAFF, or ADMIN")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(logoutCmd)
}

// runLogin signs in and returns exit code
func runLogin(ctx context.Context, w io.Writer, fields authform.Fields) int {
	_, m, _, err := newSession()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	if err := m.Login(ctx, fields.Username, fields.Password); err != nil {
		if isRejection(err) {
			fmt.Fprintf(w, "Login failed: %s\n", describe(err))
			return exitRejected
		}
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	user := m.User()
	if IsJSONOutput() {
		fmt.Fprintln(w, formatUserJSON(user))
	} else {
		fmt.Fprintf(w, "Signed in as %s (%s)\n", user.Username, user.Role)
	}
	return exitOK
}

// runSignup registers an account and returns exit code
func runSignup(ctx context.Context, w io.Writer, fields authform.Fields) int {
	if !fields.Role.Valid() {
		fmt.Fprintf(w, "Error: invalid role %q (want USER, STAFF, or ADMIN)\n", fields.Role)
		return exitError
	}

	c, _, _, err := newSession()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	message, err := c.Signup(ctx, client.SignupInput{
		Username: fields.Username,
		Password: fields.Password,
		Role:     fields.Role,
	})
	if err != nil {
		if isRejection(err) {
			fmt.Fprintf(w, "Sign-up failed: %s\n", describe(err))
			return exitRejected
		}
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(map[string]string{
			"username": fields.Username,
			"role":     string(fields.Role),
			"message":  message,
		}, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		if message == "" {
			message = "Account created."
		}
		fmt.Fprintln(w, message)
		fmt.Fprintln(w, "Run 'lostfound login' to sign in.")
	}
	return exitOK
}

// runLogout clears the local session and returns exit code
func runLogout(w io.Writer) int {
	_, m, _, err := newSession()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	m.Logout()

	if IsJSONOutput() {
		fmt.Fprintln(w, `{"signed_in": false}`)
	} else {
		fmt.Fprintln(w, "Signed out.")
	}
	return exitOK
}

// formatUserJSON formats a profile as JSON
func formatUserJSON(user *client.User) string {
	data, _ := json.MarshalIndent(user, "", "  ")
	return string(data)
}
