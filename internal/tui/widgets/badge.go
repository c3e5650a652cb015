// ABOUTME: Status badge widgets for quick visual status indication
// ABOUTME: Maps item, request, and role values to colored inline badges

package widgets

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/lostfound/lostfound/internal/client"
	"github.com/lostfound/lostfound/internal/tui/icons"
)

// StatusLevel represents the color family of a badge
type StatusLevel int

const (
	StatusOK StatusLevel = iota
	StatusWarning
	StatusCritical
	StatusInfo
	StatusNeutral
)

// Badge colors
var (
	BadgeOKBg      = lipgloss.Color("#10B981")
	BadgeOKFg      = lipgloss.Color("#FFFFFF")
	BadgeWarnBg    = lipgloss.Color("#F59E0B")
	BadgeWarnFg    = lipgloss.Color("#000000")
	BadgeCritBg    = lipgloss.Color("#EF4444")
	BadgeCritFg    = lipgloss.Color("#FFFFFF")
	BadgeInfoBg    = lipgloss.Color("#3B82F6")
	BadgeInfoFg    = lipgloss.Color("#FFFFFF")
	BadgeNeutralBg = lipgloss.Color("#6B7280")
	BadgeNeutralFg = lipgloss.Color("#FFFFFF")
)

// Badge renders a colored status badge
func Badge(text string, level StatusLevel) string {
	var bg, fg lipgloss.Color

	switch level {
	case StatusOK:
		bg, fg = BadgeOKBg, BadgeOKFg
	case StatusWarning:
		bg, fg = BadgeWarnBg, BadgeWarnFg
	case StatusCritical:
		bg, fg = BadgeCritBg, BadgeCritFg
	case StatusInfo:
		bg, fg = BadgeInfoBg, BadgeInfoFg
	default:
		bg, fg = BadgeNeutralBg, BadgeNeutralFg
	}

	style := lipgloss.NewStyle().
		Background(bg).
		Foreground(fg).
		Padding(0, 1).
		Bold(true)

	return style.Render(text)
}

// ItemLevel returns the badge color for an item status
func ItemLevel(status client.ItemStatus) StatusLevel {
	switch status {
	case client.ItemLost:
		return StatusCritical
	case client.ItemFound:
		return StatusOK
	case client.ItemClaimed:
		return StatusInfo
	default:
		return StatusNeutral
	}
}

// RequestLevel returns the badge color for a request status
func RequestLevel(status client.RequestStatus) StatusLevel {
	switch status {
	case client.RequestPending:
		return StatusWarning
	case client.RequestApproved:
		return StatusOK
	case client.RequestRejected:
		return StatusCritical
	default:
		return StatusNeutral
	}
}

// RoleLevel returns the badge color for a role
func RoleLevel(role client.Role) StatusLevel {
	switch role {
	case client.RoleAdmin:
		return StatusCritical
	case client.RoleStaff:
		return StatusInfo
	case client.RoleUser:
		return StatusOK
	default:
		return StatusNeutral
	}
}

// ItemBadge renders an item status badge
func ItemBadge(status client.ItemStatus) string {
	return Badge(string(status), ItemLevel(status))
}

// RequestBadge renders a request status badge
func RequestBadge(status client.RequestStatus) string {
	return Badge(string(status), RequestLevel(status))
}

// RoleBadge renders a role badge
func RoleBadge(role client.Role) string {
	if role == "" {
		return ""
	}
	return Badge(string(role), RoleLevel(role))
}

// StatusIcon returns the appropriate icon for a status level
func StatusIcon(level StatusLevel) string {
	switch level {
	case StatusOK:
		return lipgloss.NewStyle().Foreground(BadgeOKBg).Render(icons.CheckOK.String())
	case StatusWarning:
		return lipgloss.NewStyle().Foreground(BadgeWarnBg).Render(icons.Warning.String())
	case StatusCritical:
		return lipgloss.NewStyle().Foreground(BadgeCritBg).Render(icons.Critical.String())
	case StatusInfo:
		return lipgloss.NewStyle().Foreground(BadgeInfoBg).Render(icons.Info.String())
	default:
		return lipgloss.NewStyle().Foreground(BadgeNeutralBg).Render("•")
	}
}

// StatusText returns styled status text with icon
func StatusText(text string, level StatusLevel) string {
	icon := StatusIcon(level)

	var color lipgloss.Color
	switch level {
	case StatusOK:
		color = BadgeOKBg
	case StatusWarning:
		color = BadgeWarnBg
	case StatusCritical:
		color = BadgeCritBg
	case StatusInfo:
		color = BadgeInfoBg
	default:
		color = BadgeNeutralBg
	}

	textStyle := lipgloss.NewStyle().Foreground(color)
	return fmt.Sprintf("%s %s", icon, textStyle.Render(text))
}
