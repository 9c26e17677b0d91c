// Package app holds the root Bubble Tea model: routing between the auth
// screen and the three-panel main view, and the glue between the UI
// components, the session manager, the store adapter, and the calendar
// loader.
package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/temperhq/taskcal/internal/backend/supabase"
	"github.com/temperhq/taskcal/internal/keys"
	"github.com/temperhq/taskcal/internal/model"
	"github.com/temperhq/taskcal/internal/session"
	"github.com/temperhq/taskcal/internal/source/gcal"
	"github.com/temperhq/taskcal/internal/store"
	"github.com/temperhq/taskcal/internal/theme"
	"github.com/temperhq/taskcal/internal/ui"
	"github.com/temperhq/taskcal/internal/ui/authform"
	"github.com/temperhq/taskcal/internal/ui/calview"
	"github.com/temperhq/taskcal/internal/ui/sidebar"
	"github.com/temperhq/taskcal/internal/ui/taskpanel"
)

// Panel identifies which main-view panel receives keystrokes.
type Panel int

const (
	PanelSidebar Panel = iota
	PanelTasks
	PanelCalendar
)

// sessionChangedMsg carries a session transition from the manager's
// subscription into the Bubble Tea loop.
type sessionChangedMsg struct {
	session *model.Session
}

// authResultMsg reports the outcome of a sign-in or sign-up attempt.
type authResultMsg struct {
	err     error
	pending bool
}

// storeChangedMsg signals that the task collections changed and the
// panels should re-render from a fresh snapshot.
type storeChangedMsg struct{}

// calFeedMsg signals that the calendar loader state changed.
type calFeedMsg struct{}

// Model is the root Bubble Tea model.
type Model struct {
	layout  ui.Layout
	keys    *keys.KeyMap
	backend *supabase.Client
	session *session.Manager
	store   *store.Adapter
	loader  *gcal.Loader

	authView authform.Model
	sideView sidebar.Model
	taskView taskpanel.Model
	calView  calview.Model
	showHelp bool

	signedIn     bool
	focus        Panel
	selectedList string
	redirectURL  string
	pkce         *supabase.PKCEFlow

	sessionCh   chan *model.Session
	unsubscribe func()

	// initCmds is prepared in New because Init runs on a copy whose
	// mutations Bubble Tea discards.
	initCmds []tea.Cmd

	ready bool
}

// New creates the root model. The session manager should already have
// been resolved so a persisted session is visible immediately.
func New(
	backend *supabase.Client,
	sess *session.Manager,
	adapter *store.Adapter,
	loader *gcal.Loader,
	redirectURL string,
	loc *time.Location,
) Model {
	k := keys.DefaultKeyMap()

	ch := make(chan *model.Session, 8)
	unsub := sess.Subscribe(func(s *model.Session) {
		ch <- s
	})

	m := Model{
		keys:        k,
		backend:     backend,
		session:     sess,
		store:       adapter,
		loader:      loader,
		authView:    authform.New(80, 24),
		sideView:    sidebar.New(k, 24, 22),
		taskView:    taskpanel.New(k, 28, 22),
		calView:     calview.New(k, loc, 48, 22),
		signedIn:    sess.Current() != nil,
		redirectURL: redirectURL,
		sessionCh:   ch,
		unsubscribe: unsub,
	}

	if m.signedIn {
		m.initCmds = m.bootstrapSession(sess.Current())
	} else {
		m.initCmds = []tea.Cmd{m.authView.Start()}
	}

	return m
}

// Init starts the session watcher and, when a resumed session exists,
// kicks off the initial data loads.
func (m Model) Init() tea.Cmd {
	cmds := append([]tea.Cmd{m.waitForSession()}, m.initCmds...)
	return tea.Batch(cmds...)
}

// waitForSession blocks on the subscription channel and forwards the
// next session transition as a message.
func (m Model) waitForSession() tea.Cmd {
	ch := m.sessionCh
	return func() tea.Msg {
		return sessionChangedMsg{session: <-ch}
	}
}

// bootstrapSession returns the commands run when a session appears:
// cached data first, then a remote refresh, then the calendar feed.
func (m *Model) bootstrapSession(sess *model.Session) []tea.Cmd {
	user := sess.User
	token := sess.AccessToken

	cmds := []tea.Cmd{m.loadCachedCmd(user.ID), m.refreshStoreCmd(token, user.ID)}

	if m.loader.SetToken(sess.ProviderToken) {
		cmds = append(cmds, m.connectCalendarCmd())
	}
	m.calView.SetFeed(m.loader.Snapshot())

	return cmds
}

func (m Model) loadCachedCmd(userID string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		s.LoadCached(context.Background(), userID)
		return storeChangedMsg{}
	}
}

func (m Model) refreshStoreCmd(token, userID string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		s.Refresh(context.Background(), token, userID)
		return storeChangedMsg{}
	}
}

// connectCalendarCmd initializes the calendar client and runs the first
// fetch. Both steps publish their state through the loader snapshot.
func (m Model) connectCalendarCmd() tea.Cmd {
	l := m.loader
	return func() tea.Msg {
		if err := l.Initialize(context.Background()); err != nil {
			return calFeedMsg{}
		}
		l.Fetch(context.Background())
		return calFeedMsg{}
	}
}

func (m Model) fetchCalendarCmd() tea.Cmd {
	l := m.loader
	return func() tea.Msg {
		l.Fetch(context.Background())
		return calFeedMsg{}
	}
}

// Update handles messages and dispatches to the focused component.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		m.resizePanels()
		if !m.signedIn {
			var cmd tea.Cmd
			m.authView, cmd = m.authView.Update(msg)
			return m, cmd
		}
		return m, nil

	case sessionChangedMsg:
		return m.handleSessionChange(msg.session)

	case authResultMsg:
		return m.handleAuthResult(msg)

	case storeChangedMsg:
		m.syncPanels()
		return m, nil

	case calFeedMsg:
		m.calView.SetFeed(m.loader.Snapshot())
		return m, nil

	case authform.SignInMsg:
		return m, m.signInCmd(msg.Email, msg.Password)

	case authform.SignUpMsg:
		return m, m.signUpCmd(msg.Email, msg.Password)

	case authform.OAuthStartMsg:
		flow := m.backend.StartOAuth(m.redirectURL)
		m.pkce = &flow
		return m, m.authView.StartOAuth(flow.URL)

	case authform.OAuthCodeMsg:
		return m, m.exchangeCodeCmd(msg.Code)

	case sidebar.ListSelectedMsg:
		m.selectedList = msg.ListID
		m.syncPanels()
		return m, nil

	case sidebar.CreateFolderMsg:
		return m, m.mutateCmd(func(ctx context.Context, token, userID string) {
			m.store.CreateFolder(ctx, token, userID, msg.Name, msg.Color)
		})

	case sidebar.CreateListMsg:
		return m, m.mutateCmd(func(ctx context.Context, token, userID string) {
			m.store.CreateList(ctx, token, userID, msg.FolderID, msg.Name, msg.Color)
		})

	case sidebar.DeleteFolderMsg:
		return m, m.mutateCmd(func(ctx context.Context, token, userID string) {
			m.store.DeleteFolder(ctx, token, userID, msg.FolderID)
		})

	case sidebar.DeleteListMsg:
		if m.selectedList == msg.ListID {
			m.selectedList = ""
		}
		return m, m.mutateCmd(func(ctx context.Context, token, userID string) {
			m.store.DeleteList(ctx, token, userID, msg.ListID)
		})

	case taskpanel.AddTaskMsg:
		return m, m.mutateCmd(func(ctx context.Context, token, userID string) {
			m.store.AddTask(ctx, token, userID, msg.ListID, msg.Title)
		})

	case taskpanel.ToggleTaskMsg:
		return m, m.mutateCmd(func(ctx context.Context, token, userID string) {
			m.store.ToggleTask(ctx, token, userID, msg.TaskID, msg.Completed)
		})

	case calview.RefreshMsg:
		m.calView.SetFeed(m.loader.Snapshot())
		return m, m.fetchCalendarCmd()

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	return m.updateFocused(msg)
}

func (m Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.signedIn {
		if msg.String() == "ctrl+c" {
			m.teardown()
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.authView, cmd = m.authView.Update(msg)
		return m, cmd
	}

	// Panels own most keys while an inline input is open, so only a few
	// globals are intercepted here.
	switch msg.String() {
	case "ctrl+c":
		m.teardown()
		return m, tea.Quit

	case "q":
		if !m.panelEditing() {
			m.teardown()
			return m, tea.Quit
		}

	case "?":
		if !m.panelEditing() {
			m.showHelp = !m.showHelp
			return m, nil
		}

	case "tab":
		if !m.panelEditing() {
			m.focus = (m.focus + 1) % 3
			return m, nil
		}

	case "ctrl+o":
		return m, m.signOutCmd()
	}

	return m.updateFocused(msg)
}

func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if !m.signedIn {
		m.authView, cmd = m.authView.Update(msg)
		return m, cmd
	}

	switch m.focus {
	case PanelSidebar:
		m.sideView, cmd = m.sideView.Update(msg)
	case PanelTasks:
		m.taskView, cmd = m.taskView.Update(msg)
	case PanelCalendar:
		m.calView, cmd = m.calView.Update(msg)
	}

	return m, cmd
}

// panelEditing reports whether the focused panel has an inline text
// input open and should therefore see printable keys.
func (m Model) panelEditing() bool {
	switch m.focus {
	case PanelSidebar:
		return m.sideView.Editing()
	case PanelTasks:
		return m.taskView.Editing()
	}
	return false
}

func (m Model) handleSessionChange(sess *model.Session) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.waitForSession()}

	if sess == nil {
		m.signedIn = false
		m.selectedList = ""
		m.loader.SetToken("")
		m.calView.SetFeed(m.loader.Snapshot())
		s := m.store
		cmds = append(cmds,
			func() tea.Msg {
				s.Reset(context.Background())
				return storeChangedMsg{}
			},
			m.authView.Start(),
		)
		return m, tea.Batch(cmds...)
	}

	m.signedIn = true
	m.pkce = nil
	cmds = append(cmds, m.bootstrapSession(sess)...)
	return m, tea.Batch(cmds...)
}

func (m Model) handleAuthResult(msg authResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, m.authView.SetError(authMessage(msg.err))
	}
	if msg.pending {
		return m, m.authView.SetInfo("Account created. Check your inbox to confirm, then sign in.")
	}
	// success arrives separately via sessionChangedMsg
	return m, nil
}

func (m Model) signInCmd(email, password string) tea.Cmd {
	sess := m.session
	return func() tea.Msg {
		err := sess.SignIn(context.Background(), email, password)
		return authResultMsg{err: err}
	}
}

func (m Model) signUpCmd(email, password string) tea.Cmd {
	sess := m.session
	return func() tea.Msg {
		pending, err := sess.SignUp(context.Background(), email, password)
		return authResultMsg{err: err, pending: pending}
	}
}

func (m Model) exchangeCodeCmd(code string) tea.Cmd {
	backend := m.backend
	manager := m.session
	pkce := m.pkce
	return func() tea.Msg {
		if pkce == nil {
			return authResultMsg{err: errNoFlow}
		}
		sess, err := backend.ExchangeCode(context.Background(), code, pkce.Verifier)
		if err != nil {
			return authResultMsg{err: err}
		}
		manager.Set(sess)
		return authResultMsg{}
	}
}

func (m Model) signOutCmd() tea.Cmd {
	sess := m.session
	return func() tea.Msg {
		sess.SignOut(context.Background())
		return nil
	}
}

// mutateCmd runs a store mutation with the current credentials and then
// refreshes the panels. Failed mutations leave the snapshot unchanged,
// which is exactly what re-rendering shows.
func (m Model) mutateCmd(fn func(ctx context.Context, token, userID string)) tea.Cmd {
	token := m.session.AccessToken()
	user := m.session.User()
	if user == nil {
		return nil
	}
	userID := user.ID
	return func() tea.Msg {
		fn(context.Background(), token, userID)
		return storeChangedMsg{}
	}
}

// syncPanels pushes a fresh store snapshot into the side and task panels.
func (m *Model) syncPanels() {
	snap := m.store.Snapshot()
	m.sideView.SetData(snap.Folders, snap.Lists)
	if m.selectedList == "" {
		m.selectedList = m.sideView.SelectedListID()
	}
	m.taskView.SetData(snap.Tasks, m.selectedList)
}

// Panel frames cost two columns of border plus two of padding, and two
// rows of border.
const (
	panelFrameWidth  = 4
	panelFrameHeight = 2
)

func (m *Model) resizePanels() {
	contentHeight := m.layout.ContentHeight() - panelFrameHeight
	sideW, taskW, calW := m.layout.SplitWidths()
	m.sideView.SetSize(sideW-panelFrameWidth, contentHeight)
	m.taskView.SetSize(taskW-panelFrameWidth, contentHeight)
	m.calView.SetSize(calW-panelFrameWidth, contentHeight)
	m.authView.SetSize(m.layout.Width, m.layout.ContentHeight())
}

// teardown releases the session subscription before quitting.
func (m *Model) teardown() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// View renders the full terminal UI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if !m.signedIn {
		header := m.layout.RenderHeader("taskcal", "signed out")
		statusBar := m.layout.RenderStatusBar("enter submit | esc back | ctrl+c quit")
		return m.layout.RenderWithFrame(header, m.authView.View(), statusBar)
	}

	email := ""
	if u := m.session.User(); u != nil {
		email = u.Email
	}
	header := m.layout.RenderHeader("taskcal", email)

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.framePanel(PanelSidebar, m.sideView.View()),
		m.framePanel(PanelTasks, m.taskView.View()),
		m.framePanel(PanelCalendar, m.calView.View()),
	)

	statusBar := m.layout.RenderStatusBar(m.keyHints())
	return m.layout.RenderWithFrame(header, content, statusBar)
}

// framePanel draws a panel border, highlighted when the panel has focus.
func (m Model) framePanel(p Panel, view string) string {
	if m.focus == p {
		return theme.FocusedPanelStyle.Render(view)
	}
	return theme.PanelStyle.Render(view)
}

func (m Model) keyHints() string {
	if m.showHelp {
		return "tab panel | j/k move | a add | A folder | x delete | space toggle | h/l page | t today | m/w/d view | r refresh | ctrl+o sign out | q quit"
	}

	switch m.focus {
	case PanelSidebar:
		return "j/k move | enter select | a add list | A add folder | x delete | tab next panel | ? help"
	case PanelTasks:
		return "j/k move | a add task | space toggle | tab next panel | ? help"
	default:
		return "h/l page | t today | m/w/d view | r refresh | tab next panel | ? help"
	}
}
