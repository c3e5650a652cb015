// ABOUTME: Integration tests for TUI app
// ABOUTME: Tests guard routing, session transitions, and blocking alerts

package tui

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lostfound/lostfound/internal/client"
	"github.com/lostfound/lostfound/internal/review"
	"github.com/lostfound/lostfound/internal/session"
	"github.com/lostfound/lostfound/internal/tui/authform"
	"github.com/lostfound/lostfound/internal/tui/menu"
)

// fakeBackend serves a small Lost & Found API. users maps bearer tokens to
// profile JSON; a token not in the map gets a 401.
func fakeBackend(t *testing.T, users map[string]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/api/users/me":
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			profile, ok := users[token]
			if !ok {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte(profile))
		case r.URL.Path == "/auth/signin":
			w.Write([]byte(`{"token":"abc"}`))
		case r.URL.Path == "/api/items/status/LOST":
			w.Write([]byte(`[{"id":1,"name":"Umbrella","status":"LOST"}]`))
		case r.URL.Path == "/api/items/status/FOUND":
			w.Write([]byte(`[{"id":2,"name":"Keys","status":"FOUND"}]`))
		case r.URL.Path == "/api/items/status/CLAIMED":
			w.Write([]byte(`[{"id":3,"name":"Phone","status":"CLAIMED"}]`))
		case r.URL.Path == "/api/requests" || r.URL.Path == "/api/requests/my":
			w.Write([]byte(`[{"id":42,"status":"PENDING","user":{"username":"alice"},"item":{"id":1,"name":"Umbrella"}}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

const aliceJSON = `{"id":1,"username":"alice","role":"USER"}`
const adminJSON = `{"id":2,"username":"root","role":"ADMIN"}`

func newTestApp(t *testing.T, token string, users map[string]string) (*App, session.Store) {
	t.Helper()
	server := fakeBackend(t, users)
	c := client.New(server.URL)
	store := session.NewMemoryStore(token)
	app := New(session.NewManager(store, c), c, server.URL)
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return app, store
}

// restored runs the restore command synchronously and feeds its result back
func restored(app *App) {
	app.Update(app.restore()())
}

func TestAppInitialState(t *testing.T) {
	app, _ := newTestApp(t, "", nil)

	if app.screen() != ScreenLoading {
		t.Errorf("expected loading screen before restore, got %d", app.screen())
	}
	if !strings.Contains(app.View(), "Checking session") {
		t.Error("expected loading view before restore")
	}
}

func TestScreenConstants(t *testing.T) {
	if ScreenLoading != 0 {
		t.Errorf("expected ScreenLoading to be 0, got %d", ScreenLoading)
	}
	if ScreenLogin != 1 {
		t.Errorf("expected ScreenLogin to be 1, got %d", ScreenLogin)
	}
	if ScreenItems != 2 {
		t.Errorf("expected ScreenItems to be 2, got %d", ScreenItems)
	}
}

func TestAppNoTokenShowsLogin(t *testing.T) {
	app, _ := newTestApp(t, "", nil)
	restored(app)

	if app.screen() != ScreenLogin {
		t.Fatalf("expected login screen without a token, got %d", app.screen())
	}
	view := app.View()
	if !strings.Contains(view, "Need an account?") {
		t.Error("expected login form in view")
	}
	if strings.Contains(view, "Lost Items") {
		t.Error("expected the dashboard never to render without a session")
	}
	if !strings.Contains(view, "Guest") {
		t.Error("expected Guest in header")
	}
}

func TestAppRejectedTokenShowsLoginWithNotice(t *testing.T) {
	app, store := newTestApp(t, "stale", map[string]string{})
	restored(app)

	if app.screen() != ScreenLogin {
		t.Fatalf("expected login screen, got %d", app.screen())
	}
	if token, _ := store.Token(); token != "" {
		t.Errorf("expected rejected token cleared, got %q", token)
	}
	if app.authForm.Err() != sessionEndedText {
		t.Errorf("expected session-ended notice, got %q", app.authForm.Err())
	}
}

func TestAppValidTokenLoadsDashboard(t *testing.T) {
	app, _ := newTestApp(t, "abc", map[string]string{"abc": aliceJSON})
	restored(app)

	if app.screen() != ScreenItems {
		t.Fatalf("expected items screen, got %d", app.screen())
	}
	if !app.boardLoading {
		t.Error("expected board load to start")
	}

	app.Update(app.loadBoard("abc")())

	if app.boardLoading {
		t.Error("expected board load to finish")
	}
	view := app.View()
	for _, s := range []string{"Umbrella", "Keys", "Phone", "alice", "USER"} {
		if !strings.Contains(view, s) {
			t.Errorf("expected view to contain %q", s)
		}
	}
	if board := app.dashboard.View(); strings.Count(board, "Request") != 2 {
		t.Errorf("expected Request offered on LOST and FOUND only\nView:\n%s", board)
	}
}

func TestAppLoginFlow(t *testing.T) {
	app, store := newTestApp(t, "", map[string]string{"abc": aliceJSON})
	restored(app)

	_, cmd := app.Update(authform.SubmitMsg{Mode: authform.ModeLogin, Fields: authform.Fields{Username: "alice", Password: "pw"}})
	if cmd == nil {
		t.Fatal("expected login command")
	}
	app.Update(cmd())

	if app.screen() != ScreenItems {
		t.Errorf("expected items screen after login, got %d", app.screen())
	}
	if token, _ := store.Token(); token != "abc" {
		t.Errorf("expected persisted token abc, got %q", token)
	}
}

func TestAppLoginFailureShowsInlineError(t *testing.T) {
	app, _ := newTestApp(t, "", nil)
	restored(app)

	app.Update(loggedInMsg{err: &client.APIError{StatusCode: http.StatusUnauthorized, Message: "Bad credentials"}})

	if app.screen() != ScreenLogin {
		t.Errorf("expected to stay on login, got %d", app.screen())
	}
	if app.authForm.Err() != "Bad credentials" {
		t.Errorf("expected inline error, got %q", app.authForm.Err())
	}
	if app.alert != "" {
		t.Error("expected no blocking alert for a login failure")
	}
}

func TestAppSignupReturnsToLogin(t *testing.T) {
	app, _ := newTestApp(t, "", nil)
	restored(app)
	app.authForm.Toggle()

	app.Update(signedUpMsg{message: "User registered successfully!"})

	if app.authForm.Mode() != authform.ModeLogin {
		t.Errorf("expected login mode after signup, got %s", app.authForm.Mode())
	}
	if app.authForm.Notice() != "User registered successfully!" {
		t.Errorf("expected server message as notice, got %q", app.authForm.Notice())
	}
}

func TestAppLogout(t *testing.T) {
	app, store := newTestApp(t, "abc", map[string]string{"abc": aliceJSON})
	restored(app)
	app.Update(app.loadBoard("abc")())

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})

	if app.screen() != ScreenLogin {
		t.Errorf("expected login screen after logout, got %d", app.screen())
	}
	if token, _ := store.Token(); token != "" {
		t.Errorf("expected token cleared, got %q", token)
	}
	if app.authForm.Err() != "" {
		t.Error("expected no error after a voluntary logout")
	}

	// A board load finishing after logout is dropped
	app.Update(boardLoadedMsg{token: "abc"})
	if app.authForm.Err() != "" {
		t.Error("expected stale board result to be ignored")
	}
}

func TestAppStaleBoardDropped(t *testing.T) {
	app, _ := newTestApp(t, "abc", map[string]string{"abc": aliceJSON})
	restored(app)

	app.Update(boardLoadedMsg{token: "other", err: &client.APIError{StatusCode: 500}})
	if app.alert != "" {
		t.Error("expected result for another token to be dropped")
	}
	if !app.boardLoading {
		t.Error("expected the current load to still be pending")
	}
}

func TestAppRequestFailureAlertBlocksKeys(t *testing.T) {
	app, _ := newTestApp(t, "abc", map[string]string{"abc": aliceJSON})
	restored(app)
	app.Update(app.loadBoard("abc")())

	app.Update(itemRequestedMsg{
		token: "abc",
		item:  client.Item{ID: 1, Name: "Umbrella"},
		err:   &client.APIError{StatusCode: http.StatusConflict, Body: "Request already exists"},
	})

	if !strings.Contains(app.View(), "Request already exists") {
		t.Error("expected alert with the raw response body")
	}

	// The first key only dismisses the alert
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd != nil {
		t.Error("expected the dismissing key to be swallowed")
	}
	if app.alert != "" {
		t.Error("expected alert dismissed")
	}
}

func TestAppReviewDecisions(t *testing.T) {
	app, _ := newTestApp(t, "abc", map[string]string{"abc": adminJSON})
	restored(app)
	app.Update(app.loadBoard("abc")())

	app.tabs.Select(menu.ViewAllRequests)
	app.Update(app.loadRequests(review.ScopeAll, "abc")())

	if app.screen() != ScreenAllRequests {
		t.Fatalf("expected all-requests screen, got %d", app.screen())
	}
	if !app.all.Reviewer() {
		t.Fatal("expected ADMIN to be a reviewer")
	}

	// Forbidden leaves the list unchanged and raises an alert
	app.Update(reviewedMsg{token: "abc", id: 42, status: client.RequestApproved, err: &client.APIError{StatusCode: http.StatusForbidden}})
	if got := app.all.Queue().Requests()[0].Status; got != client.RequestPending {
		t.Errorf("expected PENDING after failed approve, got %s", got)
	}
	if app.alert == "" {
		t.Error("expected blocking alert")
	}
	app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	// Success patches the request
	app.Update(reviewedMsg{token: "abc", id: 42, status: client.RequestApproved})
	if got := app.all.Queue().Requests()[0].Status; got != client.RequestApproved {
		t.Errorf("expected APPROVED, got %s", got)
	}
}

func TestAppRequestsLoadedOncePerToken(t *testing.T) {
	app, _ := newTestApp(t, "abc", map[string]string{"abc": aliceJSON})
	restored(app)

	app.Update(app.loadRequests(review.ScopeMine, "abc")())
	if cmd := app.startRequestsLoad(app.mine, false); cmd != nil {
		t.Error("expected no refetch for the same token")
	}
	if cmd := app.startRequestsLoad(app.mine, true); cmd == nil {
		t.Error("expected a forced refresh to refetch")
	}
}

func TestAppUserCannotOpenAllRequests(t *testing.T) {
	app, _ := newTestApp(t, "abc", map[string]string{"abc": aliceJSON})
	restored(app)
	app.Update(app.loadBoard("abc")())

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("3")})
	if app.screen() != ScreenItems {
		t.Errorf("expected USER to stay on items, got %d", app.screen())
	}
}
