// ABOUTME: View selection tabs for the signed-in surface
// ABOUTME: Switches between the item board and the two request lists, gated by role

package menu

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lostfound/lostfound/internal/client"
	"github.com/lostfound/lostfound/internal/review"
	"github.com/lostfound/lostfound/internal/tui/styles"
)

// View is a protected view reachable from the dashboard surface
type View int

const (
	ViewItems View = iota
	ViewMyRequests
	ViewAllRequests
)

type option struct {
	label   string
	value   View
	enabled bool
}

// Menu is the tab bar shown above the protected views
type Menu struct {
	options  []option
	selected int
}

// New creates tabs for user. All Requests is only enabled for roles that may list it.
func New(user *client.User) *Menu {
	return &Menu{
		options: []option{
			{label: "Items", value: ViewItems, enabled: true},
			{label: "My Requests", value: ViewMyRequests, enabled: user != nil},
			{label: "All Requests", value: ViewAllRequests, enabled: review.CanList(review.ScopeAll, user)},
		},
	}
}

// Selected returns the active view
func (m *Menu) Selected() View {
	return m.options[m.selected].value
}

// Enabled reports whether v can be selected
func (m *Menu) Enabled(v View) bool {
	for _, opt := range m.options {
		if opt.value == v {
			return opt.enabled
		}
	}
	return false
}

// Select activates v if it is enabled and reports whether it did
func (m *Menu) Select(v View) bool {
	for i, opt := range m.options {
		if opt.value == v && opt.enabled {
			m.selected = i
			return true
		}
	}
	return false
}

// Next moves to the next enabled tab, wrapping around
func (m *Menu) Next() View {
	return m.step(1)
}

// Prev moves to the previous enabled tab, wrapping around
func (m *Menu) Prev() View {
	return m.step(-1)
}

func (m *Menu) step(dir int) View {
	n := len(m.options)
	for i := 1; i <= n; i++ {
		idx := ((m.selected+dir*i)%n + n) % n
		if m.options[idx].enabled {
			m.selected = idx
			break
		}
	}
	return m.Selected()
}

// View renders the tab bar
func (m *Menu) View() string {
	active := lipgloss.NewStyle().
		Foreground(styles.Text).
		Background(styles.Primary).
		Bold(true).
		Padding(0, 1)
	inactive := lipgloss.NewStyle().
		Foreground(styles.Text).
		Padding(0, 1)
	disabled := lipgloss.NewStyle().
		Foreground(styles.Surface).
		Padding(0, 1)

	var tabs []string
	for i, opt := range m.options {
		switch {
		case i == m.selected:
			tabs = append(tabs, active.Render(opt.label))
		case !opt.enabled:
			tabs = append(tabs, disabled.Render(opt.label))
		default:
			tabs = append(tabs, inactive.Render(opt.label))
		}
	}
	return strings.Join(tabs, " ")
}

// String returns the string representation of a View
func (v View) String() string {
	switch v {
	case ViewItems:
		return "items"
	case ViewMyRequests:
		return "my-requests"
	case ViewAllRequests:
		return "all-requests"
	default:
		return "unknown"
	}
}
