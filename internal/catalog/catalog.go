// ABOUTME: Item dashboard state: profile plus items grouped by status
// ABOUTME: Fans out one fetch per status and decides which items can be claimed

package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lostfound/lostfound/internal/client"
	"golang.org/x/sync/errgroup"
)

// ProfileSource yields the authoritative profile for the current session
type ProfileSource interface {
	Refresh(ctx context.Context) (*client.User, error)
}

// ItemSource lists items in one status
type ItemSource interface {
	ItemsByStatus(ctx context.Context, status client.ItemStatus) ([]client.Item, error)
}

// RequestCreator submits claim requests
type RequestCreator interface {
	CreateRequest(ctx context.Context, token string, input client.CreateRequestInput) (*client.Request, error)
}

// Board is a fully loaded dashboard
type Board struct {
	User     *client.User
	Statuses []client.ItemStatus
	Items    map[client.ItemStatus][]client.Item
}

// Column returns the items for status, never nil
func (b *Board) Column(status client.ItemStatus) []client.Item {
	if items, ok := b.Items[status]; ok && items != nil {
		return items
	}
	return []client.Item{}
}

// Total returns the number of items across all columns
func (b *Board) Total() int {
	n := 0
	for _, items := range b.Items {
		n += len(items)
	}
	return n
}

// Load fetches the profile, then every requested status concurrently. The
// board is returned only once all fetches have finished. A failed status
// fetch becomes an empty column; only a profile failure is an error.
func Load(ctx context.Context, profiles ProfileSource, items ItemSource, statuses ...client.ItemStatus) (*Board, error) {
	user, err := profiles.Refresh(ctx)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	if len(statuses) == 0 {
		statuses = client.ItemStatuses
	}

	columns := make([][]client.Item, len(statuses))
	var g errgroup.Group
	for i, status := range statuses {
		g.Go(func() error {
			list, err := items.ItemsByStatus(ctx, status)
			if err != nil {
				slog.Warn("Item fetch failed, showing empty column", "status", status, "error", err)
				list = nil
			}
			if list == nil {
				list = []client.Item{}
			}
			// The column an item was listed under is its status
			for j := range list {
				list[j].Status = status
			}
			columns[i] = list
			return nil
		})
	}
	g.Wait()

	board := &Board{
		User:     user,
		Statuses: statuses,
		Items:    make(map[client.ItemStatus][]client.Item, len(statuses)),
	}
	for i, status := range statuses {
		board.Items[status] = columns[i]
	}
	return board, nil
}

// CanRequest reports whether user may submit a claim for item
func CanRequest(user *client.User, item client.Item) bool {
	return user != nil && user.Role == client.RoleUser && item.Status != client.ItemClaimed
}

// RequestItem submits a claim for itemID on behalf of user. The local board
// is not touched; the next Load reflects whatever the backend decided.
func RequestItem(ctx context.Context, creator RequestCreator, token string, user *client.User, itemID int64) (*client.Request, error) {
	if user == nil {
		return nil, errors.New("no user for request")
	}
	created, err := creator.CreateRequest(ctx, token, client.CreateRequestInput{
		UserID: user.ID,
		ItemID: itemID,
	})
	if err != nil {
		return nil, err
	}
	slog.Info("Claim request submitted", "item_id", itemID, "username", user.Username)
	return created, nil
}

// FailureText returns the text to show for a failed claim: the raw response
// body when the backend sent one, otherwise the error itself.
func FailureText(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Body != "" {
		return apiErr.Body
	}
	return err.Error()
}
