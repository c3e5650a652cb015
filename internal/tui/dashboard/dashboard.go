// ABOUTME: Item board component listing LOST, FOUND, and CLAIMED items
// ABOUTME: Tracks a cursor over all items and marks the ones the user can claim

package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lostfound/lostfound/internal/catalog"
	"github.com/lostfound/lostfound/internal/client"
	"github.com/lostfound/lostfound/internal/tui/icons"
	"github.com/lostfound/lostfound/internal/tui/styles"
	"github.com/lostfound/lostfound/internal/tui/widgets"
)

// Dashboard displays the item board
type Dashboard struct {
	board   *catalog.Board
	spinner string
	cursor  int
	width   int
	height  int
}

// New creates a dashboard for board; a nil board renders loading placeholders
func New(board *catalog.Board, width, height int) *Dashboard {
	return &Dashboard{
		board:  board,
		width:  width,
		height: height,
	}
}

// SetBoard replaces the board, keeping the cursor in range
func (d *Dashboard) SetBoard(board *catalog.Board) {
	d.board = board
	d.clampCursor()
}

// Board returns the current board, or nil while loading
func (d *Dashboard) Board() *catalog.Board {
	return d.board
}

// SetSpinner sets the frame shown in loading placeholders
func (d *Dashboard) SetSpinner(frame string) {
	d.spinner = frame
}

// SetSize updates the dashboard dimensions
func (d *Dashboard) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// MoveUp moves the cursor to the previous item
func (d *Dashboard) MoveUp() {
	if d.cursor > 0 {
		d.cursor--
	}
}

// MoveDown moves the cursor to the next item
func (d *Dashboard) MoveDown() {
	if d.cursor < len(d.items())-1 {
		d.cursor++
	}
}

// Selected returns the item under the cursor
func (d *Dashboard) Selected() (client.Item, bool) {
	items := d.items()
	if len(items) == 0 {
		return client.Item{}, false
	}
	return items[d.cursor], true
}

// items flattens the board in display order
func (d *Dashboard) items() []client.Item {
	if d.board == nil {
		return nil
	}
	var all []client.Item
	for _, status := range d.board.Statuses {
		all = append(all, d.board.Column(status)...)
	}
	return all
}

func (d *Dashboard) clampCursor() {
	n := len(d.items())
	if d.cursor >= n {
		d.cursor = n - 1
	}
	if d.cursor < 0 {
		d.cursor = 0
	}
}

// View renders the dashboard
func (d *Dashboard) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render("Items"))
	sb.WriteString("\n")

	if d.board == nil {
		for _, status := range client.ItemStatuses {
			sb.WriteString(sectionHeader(status, -1))
			sb.WriteString("\n")
			sb.WriteString(styles.Dim.Render(fmt.Sprintf("  %s Loading %s items...", d.spinner, strings.ToLower(string(status)))))
			sb.WriteString("\n\n")
		}
		return d.frame(sb.String())
	}

	idx := 0
	for _, status := range d.board.Statuses {
		column := d.board.Column(status)
		sb.WriteString(sectionHeader(status, len(column)))
		sb.WriteString("\n")

		if len(column) == 0 {
			sb.WriteString(styles.Dim.Render(fmt.Sprintf("  No %s items found.", strings.ToLower(string(status)))))
			sb.WriteString("\n\n")
			continue
		}

		for _, item := range column {
			sb.WriteString(d.renderItem(item, idx == d.cursor))
			sb.WriteString("\n")
			idx++
		}
		sb.WriteString("\n")
	}

	return d.frame(sb.String())
}

func (d *Dashboard) frame(content string) string {
	return lipgloss.NewStyle().
		Width(d.width).
		Height(d.height).
		Render(strings.TrimRight(content, "\n"))
}

func sectionHeader(status client.ItemStatus, count int) string {
	var icon icons.Icon
	switch status {
	case client.ItemLost:
		icon = icons.Lost
	case client.ItemFound:
		icon = icons.Found
	default:
		icon = icons.Claimed
	}
	title := fmt.Sprintf("%s %s Items", icon.String(), titleCase(string(status)))
	if count >= 0 {
		title += fmt.Sprintf(" (%d)", count)
	}
	return styles.SectionTitle.Render(title)
}

func (d *Dashboard) renderItem(item client.Item, selected bool) string {
	pointer := "  "
	name := item.Name
	if selected {
		pointer = styles.Cursor.Render("> ")
		name = styles.Cursor.Render(name)
	} else {
		name = styles.ValueStyle.Render(name)
	}

	line := fmt.Sprintf("%s%s %s %s", pointer, name, widgets.ItemBadge(item.Status), styles.Dim.Render(item.CreatedAt.Date()))
	if d.board != nil && catalog.CanRequest(d.board.User, item) {
		line += " " + styles.KeyStyle.Render(icons.Request.String()+" Request")
	}
	if item.Description != "" {
		line += "\n    " + styles.Dim.Render(item.Description)
	}
	return line
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
