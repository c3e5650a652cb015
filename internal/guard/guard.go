// ABOUTME: Route guard mapping session status to the surface to render
// ABOUTME: Pure function; holds no state of its own

package guard

import "github.com/lostfound/lostfound/internal/session"

// Surface is what the client shows for a given session status
type Surface int

const (
	// SurfaceLoading is shown while the persisted token is unchecked
	SurfaceLoading Surface = iota
	SurfaceLogin
	SurfaceDashboard
)

func (s Surface) String() string {
	switch s {
	case SurfaceLoading:
		return "loading"
	case SurfaceLogin:
		return "login"
	case SurfaceDashboard:
		return "dashboard"
	default:
		return "unknown"
	}
}

// Route picks the surface for status. Protected surfaces are reachable only
// from StatusActive; an unchecked session never falls through to login.
func Route(status session.Status) Surface {
	switch status {
	case session.StatusActive:
		return SurfaceDashboard
	case session.StatusAnonymous:
		return SurfaceLogin
	default:
		return SurfaceLoading
	}
}

// Allowed reports whether a protected surface may be rendered for status
func Allowed(status session.Status) bool {
	return Route(status) == SurfaceDashboard
}
