// ABOUTME: Claim request list component for the my-requests and all-requests views
// ABOUTME: Renders request rows with badges and offers approve/reject to reviewers

package requests

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lostfound/lostfound/internal/client"
	"github.com/lostfound/lostfound/internal/review"
	"github.com/lostfound/lostfound/internal/tui/icons"
	"github.com/lostfound/lostfound/internal/tui/styles"
	"github.com/lostfound/lostfound/internal/tui/widgets"
)

// List displays one request queue
type List struct {
	queue    *review.Queue
	reviewer bool
	loading  bool
	spinner  string
	cursor   int
	width    int
	height   int
}

// New creates a list over queue
func New(queue *review.Queue, width, height int) *List {
	return &List{queue: queue, width: width, height: height}
}

// Queue returns the underlying queue
func (l *List) Queue() *review.Queue {
	return l.queue
}

// SetReviewer enables approve/reject actions on pending rows
func (l *List) SetReviewer(reviewer bool) {
	l.reviewer = reviewer
}

// Reviewer reports whether review actions are offered
func (l *List) Reviewer() bool {
	return l.reviewer
}

// SetLoading toggles the loading placeholder
func (l *List) SetLoading(loading bool) {
	l.loading = loading
}

// Loading reports whether the list is waiting for the backend
func (l *List) Loading() bool {
	return l.loading
}

// SetSpinner sets the frame shown while loading
func (l *List) SetSpinner(frame string) {
	l.spinner = frame
}

// SetSize updates the list dimensions
func (l *List) SetSize(width, height int) {
	l.width = width
	l.height = height
}

// MoveUp moves the cursor to the previous request
func (l *List) MoveUp() {
	if l.cursor > 0 {
		l.cursor--
	}
}

// MoveDown moves the cursor to the next request
func (l *List) MoveDown() {
	if l.cursor < l.queue.Len()-1 {
		l.cursor++
	}
}

// Selected returns the request under the cursor
func (l *List) Selected() (client.Request, bool) {
	list := l.queue.Requests()
	if len(list) == 0 {
		return client.Request{}, false
	}
	if l.cursor >= len(list) {
		l.cursor = len(list) - 1
	}
	return list[l.cursor], true
}

// CanDecide reports whether the selected request can be approved or rejected
func (l *List) CanDecide() (client.Request, bool) {
	if !l.reviewer || l.queue.Scope() != review.ScopeAll {
		return client.Request{}, false
	}
	r, ok := l.Selected()
	if !ok || !review.Actionable(r) {
		return client.Request{}, false
	}
	return r, true
}

// View renders the list
func (l *List) View() string {
	var sb strings.Builder

	title := "My Requests"
	if l.queue.Scope() == review.ScopeAll {
		title = "All Requests"
	}
	sb.WriteString(styles.Title.Render(title))
	sb.WriteString("\n")

	switch {
	case l.loading:
		sb.WriteString(styles.Dim.Render(fmt.Sprintf("%s Loading requests...", l.spinner)))
	case l.queue.Len() == 0:
		sb.WriteString(styles.Dim.Render("No requests found."))
	default:
		for i, r := range l.queue.Requests() {
			sb.WriteString(l.renderRow(r, i == l.cursor))
			sb.WriteString("\n")
		}
	}

	return lipgloss.NewStyle().
		Width(l.width).
		Height(l.height).
		Render(strings.TrimRight(sb.String(), "\n"))
}

func (l *List) renderRow(r client.Request, selected bool) string {
	pointer := "  "
	name := r.Item.Name
	if selected {
		pointer = styles.Cursor.Render("> ")
		name = styles.Cursor.Render(name)
	} else {
		name = styles.ValueStyle.Render(name)
	}

	badge := widgets.RequestBadge(r.Status)
	if r.Status == client.RequestPending {
		badge = styles.Dim.Render(icons.Pending.String()) + " " + badge
	}
	line := fmt.Sprintf("%s#%d %s %s", pointer, r.ID, name, badge)
	if r.Item.Status != "" {
		line += " " + widgets.ItemBadge(r.Item.Status)
	}

	var meta []string
	if l.queue.Scope() == review.ScopeAll && r.User.Username != "" {
		meta = append(meta, "by "+r.User.Username)
	}
	meta = append(meta, r.CreatedAt.Date())
	line += " " + styles.Dim.Render(strings.Join(meta, " · "))

	if l.reviewer && l.queue.Scope() == review.ScopeAll && review.Actionable(r) {
		line += " " + styles.KeyStyle.Render("[a]") + " Approve " + styles.KeyStyle.Render("[x]") + " Reject"
	}
	if r.Item.Description != "" {
		line += "\n    " + styles.Dim.Render(r.Item.Description)
	}
	return line
}
