// ABOUTME: Items and request commands for the lostfound CLI
// ABOUTME: Lists the item board and submits claim requests for requestable items

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

	"github.com/lostfound/lostfound/internal/catalog"
	"github.com/lostfound/lostfound/internal/client"
	"github.com/spf13/cobra"
)

var itemStatus string

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List LOST, FOUND, and CLAIMED items",
	Long: `Show the item board for the signed-in user. Items the user can claim are
marked; use 'lostfound request ITEM_ID' to claim one.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runItems(ctx, os.Stdout, itemStatus)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var requestCmd = &cobra.Command{
	Use:   "request ITEM_ID",
	Short: "Submit a claim request for an item",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stdout, "Error: invalid item ID %q\n", args[0])
			os.Exit(exitError)
		}

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runRequest(ctx, os.Stdout, id)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	itemsCmd.Flags().StringVar(&itemStatus, "status", "", "Only show one status: LOST, FOUND, or CLAIMED")
	rootCmd.AddCommand(itemsCmd)
	rootCmd.AddCommand(requestCmd)
}

// runItems loads the board and returns exit code
func runItems(ctx context.Context, w io.Writer, status string) int {
	var statuses []client.ItemStatus
	if status != "" {
		s, ok := client.ParseItemStatus(status)
		if !ok {
			fmt.Fprintf(w, "Error: unknown status %q (want LOST, FOUND, or CLAIMED)\n", status)
			return exitError
		}
		statuses = append(statuses, s)
	}

	c, m, _, err := newSession()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	if code := requireSession(ctx, w, m); code != exitOK {
		return code
	}

	board, err := catalog.Load(ctx, m, c, statuses...)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return failureCode(err)
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatItemsJSON(board))
	} else {
		fmt.Fprintln(w, formatItemsHuman(board))
	}
	return exitOK
}

// runRequest claims itemID for the signed-in user and returns exit code
func runRequest(ctx context.Context, w io.Writer, itemID int64) int {
	c, m, _, err := newSession()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	if code := requireSession(ctx, w, m); code != exitOK {
		return code
	}

	board, err := catalog.Load(ctx, m, c)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return failureCode(err)
	}

	item, ok := findItem(board, itemID)
	if !ok {
		fmt.Fprintf(w, "Item #%d not found.\n", itemID)
		return exitRejected
	}
	if !catalog.CanRequest(board.User, item) {
		fmt.Fprintf(w, "Item #%d (%s) cannot be requested: role %s, status %s.\n", item.ID, item.Name, board.User.Role, item.Status)
		return exitRejected
	}

	created, err := catalog.RequestItem(ctx, c, m.Token(), board.User, item.ID)
	if err != nil {
		fmt.Fprintf(w, "Failed to request %s: %s\n", item.Name, catalog.FailureText(err))
		return failureCode(err)
	}

	if IsJSONOutput() {
		output := map[string]interface{}{"item": item, "request": created}
		data, _ := json.MarshalIndent(output, "", "  ")
		fmt.Fprintln(w, string(data))
	} else if created != nil {
		fmt.Fprintf(w, "Request #%d submitted for %s (%s).\n", created.ID, item.Name, created.Status)
	} else {
		fmt.Fprintf(w, "Request submitted for %s.\n", item.Name)
	}
	return exitOK
}

func findItem(board *catalog.Board, id int64) (client.Item, bool) {
	for _, status := range board.Statuses {
		for _, item := range board.Column(status) {
			if item.ID == id {
				return item, true
			}
		}
	}
	return client.Item{}, false
}

// formatItemsHuman formats the board for human readability
func formatItemsHuman(board *catalog.Board) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Signed in as %s (%s)\n", board.User.Username, board.User.Role)

	for _, status := range board.Statuses {
		column := board.Column(status)
		fmt.Fprintf(&sb, "\n%s (%d)\n", status, len(column))
		if len(column) == 0 {
			fmt.Fprintf(&sb, "  No %s items found.\n", strings.ToLower(string(status)))
			continue
		}
		for _, item := range column {
			line := fmt.Sprintf("  #%-5d %-24s %s", item.ID, item.Name, item.CreatedAt.Date())
			if catalog.CanRequest(board.User, item) {
				line += "  [requestable]"
			}
			sb.WriteString(strings.TrimRight(line, " "))
			sb.WriteString("\n")
			if item.Description != "" {
				fmt.Fprintf(&sb, "         %s\n", item.Description)
			}
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// formatItemsJSON formats the board as JSON
func formatItemsJSON(board *catalog.Board) string {
	items := make(map[client.ItemStatus][]client.Item, len(board.Statuses))
	requestable := []int64{}
	for _, status := range board.Statuses {
		column := board.Column(status)
		items[status] = column
		for _, item := range column {
			if catalog.CanRequest(board.User, item) {
				requestable = append(requestable, item.ID)
			}
		}
	}

	output := map[string]interface{}{
		"user":        board.User,
		"items":       items,
		"requestable": requestable,
	}
	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data)
}
