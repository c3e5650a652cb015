// ABOUTME: Request list and review commands for the lostfound CLI
// ABOUTME: Lists claim requests and approves or rejects pending ones

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/lostfound/lostfound/internal/client"
	"github.com/lostfound/lostfound/internal/review"
	"github.com/spf13/cobra"
)

var listAll bool

var requestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "List claim requests",
	Long: `List your own claim requests, or every request with --all (STAFF and ADMIN).
Permissions come from the profile the backend returns, not the cached role.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		scope := review.ScopeMine
		if listAll {
			scope = review.ScopeAll
		}
		exitCode := runRequests(ctx, os.Stdout, scope)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var approveCmd = &cobra.Command{
	Use:   "approve REQUEST_ID",
	Short: "Approve a pending claim request (ADMIN)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runReviewCommand(args[0], client.RequestApproved)
	},
}

var rejectCmd = &cobra.Command{
	Use:   "reject REQUEST_ID",
	Short: "Reject a pending claim request (ADMIN)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runReviewCommand(args[0], client.RequestRejected)
	},
}

func init() {
	requestsCmd.Flags().BoolVar(&listAll, "all", false, "List every user's requests")
	rootCmd.AddCommand(requestsCmd)
	rootCmd.AddCommand(approveCmd)
	rootCmd.AddCommand(rejectCmd)
}

func runReviewCommand(arg string, status client.RequestStatus) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stdout, "Error: invalid request ID %q\n", arg)
		os.Exit(exitError)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	exitCode := runReview(ctx, os.Stdout, id, status)
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

// runRequests lists requests in scope and returns exit code
func runRequests(ctx context.Context, w io.Writer, scope review.Scope) int {
	c, m, _, err := newSession()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	if code := requireSession(ctx, w, m); code != exitOK {
		return code
	}

	user, err := m.Refresh(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return failureCode(err)
	}
	if !review.CanList(scope, user) {
		fmt.Fprintf(w, "Role %s cannot list all requests.\n", user.Role)
		return exitRejected
	}

	queue := review.NewQueue(scope)
	if err := queue.Load(ctx, c, m.Token()); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return failureCode(err)
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatRequestsJSON(queue.Requests()))
	} else {
		fmt.Fprintln(w, formatRequestsHuman(scope, queue.Requests(), review.CanReview(user)))
	}
	return exitOK
}

// runReview applies a decision to request id and returns exit code
func runReview(ctx context.Context, w io.Writer, id int64, status client.RequestStatus) int {
	c, m, _, err := newSession()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	if code := requireSession(ctx, w, m); code != exitOK {
		return code
	}

	user, err := m.Refresh(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return failureCode(err)
	}
	if !review.CanReview(user) {
		fmt.Fprintf(w, "Role %s cannot approve or reject requests.\n", user.Role)
		return exitRejected
	}

	queue := review.NewQueue(review.ScopeAll)
	if err := queue.Load(ctx, c, m.Token()); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return failureCode(err)
	}

	target, ok := findRequest(queue.Requests(), id)
	if !ok {
		fmt.Fprintf(w, "Request #%d not found.\n", id)
		return exitRejected
	}
	if !review.Actionable(target) {
		fmt.Fprintf(w, "Request #%d is already %s.\n", id, target.Status)
		return exitRejected
	}

	if err := queue.UpdateStatus(ctx, c, id, status); err != nil {
		fmt.Fprintf(w, "Failed to update request #%d: %s\n", id, describe(err))
		return failureCode(err)
	}

	updated, _ := findRequest(queue.Requests(), id)
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(updated, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintf(w, "Request #%d for %s by %s is now %s.\n", id, updated.Item.Name, updated.User.Username, updated.Status)
	}
	return exitOK
}

func findRequest(list []client.Request, id int64) (client.Request, bool) {
	for _, r := range list {
		if r.ID == id {
			return r, true
		}
	}
	return client.Request{}, false
}

// formatRequestsHuman formats a request list for human readability
func formatRequestsHuman(scope review.Scope, list []client.Request, reviewer bool) string {
	title := "My Requests"
	if scope == review.ScopeAll {
		title = "All Requests"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%d)\n", title, len(list))
	if len(list) == 0 {
		sb.WriteString("No requests found.")
		return sb.String()
	}

	for _, r := range list {
		line := fmt.Sprintf("  #%-5d %-24s %-9s %s", r.ID, r.Item.Name, r.Status, r.CreatedAt.Date())
		if scope == review.ScopeAll && r.User.Username != "" {
			line += "  by " + r.User.Username
		}
		if reviewer && scope == review.ScopeAll && review.Actionable(r) {
			line += "  [approve/reject]"
		}
		sb.WriteString(strings.TrimRight(line, " "))
		sb.WriteString("\n")
		if r.Item.Description != "" {
			fmt.Fprintf(&sb, "         %s\n", r.Item.Description)
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// formatRequestsJSON formats a request list as JSON
func formatRequestsJSON(list []client.Request) string {
	if list == nil {
		list = []client.Request{}
	}
	data, _ := json.MarshalIndent(list, "", "  ")
	return string(data)
}
