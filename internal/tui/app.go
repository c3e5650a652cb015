// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Routes between the guarded surfaces and runs backend calls as commands

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lostfound/lostfound/internal/catalog"
	"github.com/lostfound/lostfound/internal/client"
	"github.com/lostfound/lostfound/internal/guard"
	"github.com/lostfound/lostfound/internal/review"
	"github.com/lostfound/lostfound/internal/session"
	"github.com/lostfound/lostfound/internal/tui/authform"
	"github.com/lostfound/lostfound/internal/tui/dashboard"
	"github.com/lostfound/lostfound/internal/tui/icons"
	"github.com/lostfound/lostfound/internal/tui/menu"
	"github.com/lostfound/lostfound/internal/tui/requests"
	"github.com/lostfound/lostfound/internal/tui/styles"
	"github.com/lostfound/lostfound/internal/tui/widgets"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLoading Screen = iota
	ScreenLogin
	ScreenItems
	ScreenMyRequests
	ScreenAllRequests
)

// Layout constants
const (
	minTerminalWidth = 80 // Frame never renders narrower than this
	panelChrome      = 6  // Panel border plus horizontal padding
	frameOverhead    = 9  // Header, tabs, panel border and padding, footer
)

const sessionEndedText = "Your session has ended. Please sign in again."

var errNotPermitted = errors.New("your role cannot view this list")

// Backend is the part of the gateway the TUI calls directly
type Backend interface {
	catalog.ItemSource
	catalog.RequestCreator
	review.Lister
	review.Updater
	Signup(ctx context.Context, input client.SignupInput) (string, error)
}

// restoredMsg is sent when the persisted session has been checked
type restoredMsg struct {
	err error
}

// loggedInMsg is sent when a login attempt finishes
type loggedInMsg struct {
	err error
}

// signedUpMsg is sent when a sign-up attempt finishes
type signedUpMsg struct {
	message string
	err     error
}

// boardLoadedMsg is sent when the item board has been fetched for token
type boardLoadedMsg struct {
	token string
	board *catalog.Board
	err   error
}

// requestsLoadedMsg is sent when a request list has been fetched for token
type requestsLoadedMsg struct {
	scope    review.Scope
	token    string
	user     *client.User
	requests []client.Request
	err      error
}

// itemRequestedMsg is sent when a claim submission finishes
type itemRequestedMsg struct {
	token string
	item  client.Item
	err   error
}

// reviewedMsg is sent when an approve or reject call finishes
type reviewedMsg struct {
	token  string
	id     int64
	status client.RequestStatus
	err    error
}

// App is the root model for the TUI
type App struct {
	session *session.Manager
	backend Backend
	apiURL  string
	width   int
	height  int

	spinner      spinner.Model
	boardLoading bool
	busy         bool
	lastUpdate   time.Time

	// Blocking alert; any key dismisses it
	alert      string
	alertLevel widgets.StatusLevel

	// Child models
	authForm  *authform.Form
	tabs      *menu.Menu
	dashboard *dashboard.Dashboard
	mine      *requests.List
	all       *requests.List
}

// New creates a new TUI application. The session starts unchecked; Init
// restores it.
func New(manager *session.Manager, backend Backend, apiURL string) *App {
	a := &App{
		session: manager,
		backend: backend,
		apiURL:  apiURL,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.Primary)),
		),
		authForm: authform.New(authform.ModeLogin),
	}
	a.resetViews(nil)
	return a
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.restore())
}

// screen derives the current screen from the guard and the selected tab
func (a *App) screen() Screen {
	switch guard.Route(a.session.Status()) {
	case guard.SurfaceLoading:
		return ScreenLoading
	case guard.SurfaceLogin:
		return ScreenLogin
	}

	switch a.tabs.Selected() {
	case menu.ViewMyRequests:
		return ScreenMyRequests
	case menu.ViewAllRequests:
		return ScreenAllRequests
	default:
		return ScreenItems
	}
}

// loading reports whether anything the spinner represents is in flight
func (a *App) loading() bool {
	return a.session.Status() == session.StatusUnknown ||
		a.boardLoading || a.busy || a.mine.Loading() || a.all.Loading()
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a.updateAuthForm(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.alert != "" {
			a.alert = ""
			return a, nil
		}

		switch a.screen() {
		case ScreenLoading:
			if msg.String() == "q" {
				return a, tea.Quit
			}
			return a, nil
		case ScreenLogin:
			return a.updateAuthForm(msg)
		case ScreenItems:
			return a.updateItems(msg)
		case ScreenMyRequests, ScreenAllRequests:
			return a.updateRequests(msg)
		}

	case spinner.TickMsg:
		if !a.loading() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		frame := a.spinner.View()
		a.dashboard.SetSpinner(frame)
		a.mine.SetSpinner(frame)
		a.all.SetSpinner(frame)
		return a, cmd

	case authform.SubmitMsg:
		return a.handleSubmit(msg)

	case authform.CancelledMsg:
		return a, tea.Quit

	case restoredMsg:
		return a.handleRestored(msg)

	case loggedInMsg:
		if msg.err != nil {
			return a, a.authForm.Fail(describe(msg.err))
		}
		return a, a.enterDashboard()

	case signedUpMsg:
		if msg.err != nil {
			return a, a.authForm.Fail(describe(msg.err))
		}
		notice := msg.message
		if notice == "" {
			notice = "Account created. Please sign in."
		}
		return a, a.authForm.Reset(authform.ModeLogin, notice)

	case boardLoadedMsg:
		return a.handleBoardLoaded(msg)

	case requestsLoadedMsg:
		return a.handleRequestsLoaded(msg)

	case itemRequestedMsg:
		a.busy = false
		if msg.token != a.session.Token() {
			return a, nil
		}
		if msg.err != nil {
			a.showAlert(fmt.Sprintf("Failed to request %s: %s", msg.item.Name, catalog.FailureText(msg.err)), widgets.StatusCritical)
			return a, nil
		}
		a.showAlert(fmt.Sprintf("Request submitted for %s.", msg.item.Name), widgets.StatusOK)
		return a, nil

	case reviewedMsg:
		a.busy = false
		if msg.token != a.session.Token() {
			return a, nil
		}
		if msg.err != nil {
			a.showAlert(fmt.Sprintf("Failed to update request #%d: %s", msg.id, describe(msg.err)), widgets.StatusCritical)
			return a, nil
		}
		a.all.Queue().Apply(msg.id, msg.status)
		return a, nil

	default:
		// huh forms need their own internal messages
		if a.screen() == ScreenLogin {
			return a.updateAuthForm(msg)
		}
	}

	return a, nil
}

func (a *App) updateAuthForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := a.authForm.Update(msg)
	a.authForm = model.(*authform.Form)
	return a, cmd
}

func (a *App) updateItems(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cmd, handled := a.updateCommon(msg); handled {
		return a, cmd
	}

	switch msg.String() {
	case "up", "k":
		a.dashboard.MoveUp()
	case "down", "j":
		a.dashboard.MoveDown()
	case "r":
		return a, a.startBoardLoad()
	case "enter":
		board := a.dashboard.Board()
		item, ok := a.dashboard.Selected()
		if a.busy || board == nil || !ok || !catalog.CanRequest(board.User, item) {
			return a, nil
		}
		a.busy = true
		return a, tea.Batch(a.spinner.Tick, a.requestItem(board.User, item))
	}
	return a, nil
}

func (a *App) updateRequests(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cmd, handled := a.updateCommon(msg); handled {
		return a, cmd
	}

	list := a.mine
	if a.screen() == ScreenAllRequests {
		list = a.all
	}

	switch msg.String() {
	case "up", "k":
		list.MoveUp()
	case "down", "j":
		list.MoveDown()
	case "r":
		return a, a.startRequestsLoad(list, true)
	case "a", "x":
		r, ok := list.CanDecide()
		if a.busy || !ok {
			return a, nil
		}
		status := client.RequestApproved
		if msg.String() == "x" {
			status = client.RequestRejected
		}
		a.busy = true
		return a, tea.Batch(a.spinner.Tick, a.decide(r.ID, status))
	}
	return a, nil
}

// updateCommon handles keys shared by every signed-in screen
func (a *App) updateCommon(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "q":
		return tea.Quit, true
	case "l":
		return a.logout(), true
	case "tab":
		return a.switchView(a.tabs.Next()), true
	case "shift+tab":
		return a.switchView(a.tabs.Prev()), true
	case "1":
		return a.selectView(menu.ViewItems), true
	case "2":
		return a.selectView(menu.ViewMyRequests), true
	case "3":
		return a.selectView(menu.ViewAllRequests), true
	}
	return nil, false
}

func (a *App) selectView(v menu.View) tea.Cmd {
	if !a.tabs.Select(v) {
		return nil
	}
	return a.switchView(v)
}

// switchView loads the newly selected view if it has nothing for this token yet
func (a *App) switchView(v menu.View) tea.Cmd {
	switch v {
	case menu.ViewMyRequests:
		return a.startRequestsLoad(a.mine, false)
	case menu.ViewAllRequests:
		return a.startRequestsLoad(a.all, false)
	}
	return nil
}

func (a *App) handleSubmit(msg authform.SubmitMsg) (tea.Model, tea.Cmd) {
	f := msg.Fields
	if msg.Mode == authform.ModeSignup {
		return a, func() tea.Msg {
			text, err := a.backend.Signup(context.Background(), client.SignupInput{
				Username: f.Username,
				Password: f.Password,
				Role:     f.Role,
			})
			return signedUpMsg{message: text, err: err}
		}
	}
	return a, func() tea.Msg {
		return loggedInMsg{err: a.session.Login(context.Background(), f.Username, f.Password)}
	}
}

func (a *App) handleRestored(msg restoredMsg) (tea.Model, tea.Cmd) {
	if a.session.Status() == session.StatusActive {
		return a, a.enterDashboard()
	}
	if msg.err != nil && !errors.Is(msg.err, session.ErrNoSession) {
		return a, a.authForm.Fail(sessionEndedText)
	}
	return a, a.authForm.Init()
}

func (a *App) handleBoardLoaded(msg boardLoadedMsg) (tea.Model, tea.Cmd) {
	// A load still pending after the session went away means its profile
	// fetch tore the session down; after a logout nothing is pending.
	if a.session.Status() != session.StatusActive {
		if !a.boardLoading {
			return a, nil
		}
		a.boardLoading = false
		return a, a.authForm.Fail(sessionEndedText)
	}
	if msg.token != a.session.Token() {
		return a, nil
	}
	a.boardLoading = false
	if msg.err != nil {
		a.showAlert("Failed to load items: "+describe(msg.err), widgets.StatusCritical)
		return a, nil
	}

	selected := a.tabs.Selected()
	a.tabs = menu.New(msg.board.User)
	a.tabs.Select(selected)
	a.dashboard.SetBoard(msg.board)
	a.lastUpdate = time.Now()
	return a, nil
}

func (a *App) handleRequestsLoaded(msg requestsLoadedMsg) (tea.Model, tea.Cmd) {
	list := a.mine
	if msg.scope == review.ScopeAll {
		list = a.all
	}

	if a.session.Status() != session.StatusActive {
		if !list.Loading() {
			return a, nil
		}
		list.SetLoading(false)
		return a, a.authForm.Fail(sessionEndedText)
	}
	if msg.token != a.session.Token() {
		return a, nil
	}
	list.SetLoading(false)
	if msg.err != nil {
		a.showAlert("Failed to load requests: "+describe(msg.err), widgets.StatusCritical)
		return a, nil
	}

	list.Queue().Set(msg.token, msg.requests)
	list.SetReviewer(review.CanReview(msg.user))
	a.lastUpdate = time.Now()
	return a, nil
}

// enterDashboard builds fresh views for the signed-in user and loads the board
func (a *App) enterDashboard() tea.Cmd {
	a.resetViews(a.session.User())
	return a.startBoardLoad()
}

func (a *App) resetViews(user *client.User) {
	w, h := a.contentWidth(), a.contentHeight()
	a.tabs = menu.New(user)
	a.dashboard = dashboard.New(nil, w, h)
	a.mine = requests.New(review.NewQueue(review.ScopeMine), w, h)
	a.all = requests.New(review.NewQueue(review.ScopeAll), w, h)
	a.boardLoading = false
	a.busy = false
	a.lastUpdate = time.Time{}
}

func (a *App) logout() tea.Cmd {
	a.session.Logout()
	a.alert = ""
	a.resetViews(nil)
	return a.authForm.Reset(authform.ModeLogin, "")
}

func (a *App) showAlert(text string, level widgets.StatusLevel) {
	a.alert = text
	a.alertLevel = level
}

func (a *App) resize() {
	w, h := a.contentWidth(), a.contentHeight()
	a.dashboard.SetSize(w, h)
	a.mine.SetSize(w, h)
	a.all.SetSize(w, h)
	a.authForm.SetWidth(w)
}

// restore checks the persisted session
func (a *App) restore() tea.Cmd {
	return func() tea.Msg {
		return restoredMsg{err: a.session.Restore(context.Background())}
	}
}

func (a *App) startBoardLoad() tea.Cmd {
	a.boardLoading = true
	return tea.Batch(a.spinner.Tick, a.loadBoard(a.session.Token()))
}

// loadBoard fetches the profile and every item column for token
func (a *App) loadBoard(token string) tea.Cmd {
	return func() tea.Msg {
		board, err := catalog.Load(context.Background(), a.session, a.backend)
		return boardLoadedMsg{token: token, board: board, err: err}
	}
}

// startRequestsLoad fetches list's queue unless it already holds this token's
// list. force refetches regardless.
func (a *App) startRequestsLoad(list *requests.List, force bool) tea.Cmd {
	token := a.session.Token()
	if !force && !list.Queue().NeedsLoad(token) {
		return nil
	}
	list.SetLoading(true)
	return tea.Batch(a.spinner.Tick, a.loadRequests(list.Queue().Scope(), token))
}

// loadRequests re-fetches the profile, then the list it is allowed to see
func (a *App) loadRequests(scope review.Scope, token string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		user, err := a.session.Refresh(ctx)
		if err != nil {
			return requestsLoadedMsg{scope: scope, token: token, err: err}
		}
		if !review.CanList(scope, user) {
			return requestsLoadedMsg{scope: scope, token: token, user: user, err: errNotPermitted}
		}
		list, err := review.Fetch(ctx, a.backend, scope, token)
		return requestsLoadedMsg{scope: scope, token: token, user: user, requests: list, err: err}
	}
}

func (a *App) requestItem(user *client.User, item client.Item) tea.Cmd {
	token := a.session.Token()
	return func() tea.Msg {
		_, err := catalog.RequestItem(context.Background(), a.backend, token, user, item.ID)
		return itemRequestedMsg{token: token, item: item, err: err}
	}
}

func (a *App) decide(id int64, status client.RequestStatus) tea.Cmd {
	token := a.session.Token()
	return func() tea.Msg {
		err := review.Submit(context.Background(), a.backend, token, id, status)
		return reviewedMsg{token: token, id: id, status: status, err: err}
	}
}

// describe returns the most useful text for err
func describe(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Detail() != "" {
		return apiErr.Detail()
	}
	return err.Error()
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen() {
	case ScreenLoading:
		content = a.viewLoading()
	case ScreenLogin:
		content = styles.Panel.Width(a.panelWidth()).Render(a.authForm.View())
	case ScreenItems:
		content = a.viewSignedIn(a.dashboard.View())
	case ScreenMyRequests:
		content = a.viewSignedIn(a.mine.View())
	case ScreenAllRequests:
		content = a.viewSignedIn(a.all.View())
	}

	if a.alert != "" {
		content = a.viewAlert()
	}

	return a.wrapWithFrame(content)
}

func (a *App) viewLoading() string {
	return styles.Panel.Width(a.panelWidth()).Render(
		a.spinner.View() + " Checking session with " + a.apiURL + "...",
	)
}

func (a *App) viewSignedIn(body string) string {
	return a.tabs.View() + "\n" + styles.ActivePanel.Width(a.panelWidth()).Render(body)
}

// viewAlert renders the blocking alert in place of the screen content
func (a *App) viewAlert() string {
	text := widgets.StatusText(a.alert, a.alertLevel)
	box := styles.AlertPanel.Render(text + "\n\n" + styles.Dim.Render("Press any key to continue"))
	return lipgloss.Place(a.frameWidth(), a.contentHeight()+3, lipgloss.Center, lipgloss.Center, box)
}

// frameWidth is the rendered width of header and footer
func (a *App) frameWidth() int {
	// width - 1 keeps some terminals from wrapping the last column
	width := a.width - 1
	if width < minTerminalWidth {
		width = minTerminalWidth
	}
	return width
}

// panelWidth is the lipgloss width of the main panel, excluding its border
func (a *App) panelWidth() int {
	return a.frameWidth() - 2
}

// contentWidth is the width available to child views inside the panel
func (a *App) contentWidth() int {
	return a.frameWidth() - panelChrome
}

// contentHeight calculates the height available for child views
func (a *App) contentHeight() int {
	h := a.height - frameOverhead
	if h < 0 {
		return 0
	}
	return h
}

// renderHeader creates the header bar with app branding and identity
func (a *App) renderHeader() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := fmt.Sprintf(" %s %s ", icons.App.String(), titleStyle.Render("Lost & Found"))

	rightText := " " + contextStyle.Render(icons.User.String()+" Guest") + " "
	if user := a.session.User(); user != nil {
		rightText = " " + contextStyle.Render(icons.User.String()+" "+user.Username) + " " + widgets.RoleBadge(user.Role) + " "
	}

	fillWidth := width - 4 - lipgloss.Width(leftText) - lipgloss.Width(rightText) // -4 for ╭─ and ─╮
	if fillWidth < 0 {
		fillWidth = 0
	}

	return borderStyle.Render("╭─") + leftText + borderStyle.Render(strings.Repeat("─", fillWidth)) + rightText + borderStyle.Render("─╮")
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	var shortcuts []string
	switch {
	case a.alert != "":
		shortcuts = []string{"Enter Dismiss"}
	default:
		switch a.screen() {
		case ScreenLoading:
			shortcuts = []string{"q Quit"}
		case ScreenLogin:
			shortcuts = []string{"Enter Submit", authform.ToggleKey + " Toggle", "Esc Quit"}
		case ScreenItems:
			shortcuts = []string{"↑↓ Navigate", "Enter Request", "Tab Views", "r Refresh", "l Logout", "q Quit"}
		case ScreenMyRequests:
			shortcuts = []string{"↑↓ Navigate", "Tab Views", "r Refresh", "l Logout", "q Quit"}
		case ScreenAllRequests:
			shortcuts = []string{"↑↓ Navigate", "Tab Views", "r Refresh", "l Logout", "q Quit"}
			if a.all.Reviewer() {
				shortcuts = []string{"↑↓ Navigate", "a Approve", "x Reject", "Tab Views", "r Refresh", "l Logout", "q Quit"}
			}
		}
	}

	var styledShortcuts []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		if len(parts) == 2 {
			styledShortcuts = append(styledShortcuts, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
		} else {
			styledShortcuts = append(styledShortcuts, s)
		}
	}
	leftText := " " + strings.Join(styledShortcuts, "  ") + " "

	rightText := ""
	if !a.lastUpdate.IsZero() && a.session.Status() == session.StatusActive {
		rightText = " " + statusStyle.Render("Updated "+formatTimeSince(a.lastUpdate)) + " "
	}

	fillWidth := width - 4 - lipgloss.Width(leftText) - lipgloss.Width(rightText) // -4 for ╰─ and ─╯
	if fillWidth < 0 {
		fillWidth = 0
	}

	return borderStyle.Render("╰─") + leftText + borderStyle.Render(strings.Repeat("─", fillWidth)) + rightText + borderStyle.Render("─╯")
}

// formatTimeSince formats a duration since the given time in human-readable form
func formatTimeSince(t time.Time) string {
	d := time.Since(t)

	if d < time.Minute {
		secs := int(d.Seconds())
		if secs < 5 {
			return "just now"
		}
		return fmt.Sprintf("%ds ago", secs)
	}

	if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}

	return fmt.Sprintf("%dh ago", int(d.Hours()))
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// Run starts the TUI
func Run(manager *session.Manager, backend Backend, apiURL string) error {
	p := tea.NewProgram(
		New(manager, backend, apiURL),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
