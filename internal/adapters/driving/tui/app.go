package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sbsheik/sc-gconnector-gis/internal/adapters/driving/tui/components/status"
	"github.com/sbsheik/sc-gconnector-gis/internal/adapters/driving/tui/keymap"
	"github.com/sbsheik/sc-gconnector-gis/internal/adapters/driving/tui/messages"
	"github.com/sbsheik/sc-gconnector-gis/internal/adapters/driving/tui/styles"
	"github.com/sbsheik/sc-gconnector-gis/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles    *styles.Styles
	keymap    *keymap.KeyMap
	statusBar *status.Bar
	spinner   spinner.Model
	help      help.Model

	// status is the last session snapshot received.
	status domain.SessionStatus

	// bridge carries session status changes into the program.
	bridge *statusBridge

	// err holds the last error returned by an action.
	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(s.Spinner),
	)

	a := &App{
		ports:     ports,
		ctx:       context.Background(),
		styles:    s,
		keymap:    km,
		statusBar: status.NewBar(s, km),
		spinner:   sp,
		help:      help.New(),
		bridge:    newStatusBridge(),
	}
	a.setStatus(ports.Session.Status())
	a.bridge.unsubscribe = ports.Session.Subscribe(a.bridge.publish)

	return a, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
// It starts revalidation and begins listening for status changes.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("gconnector - Google Drive"),
		a.spinner.Tick,
		a.initSession(),
		a.waitForStatus(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.StatusChanged:
		a.setStatus(msg.Status)
		return a, a.waitForStatus()

	case messages.InitCompleted:
		a.err = msg.Err
		a.setStatus(a.ports.Session.Status())
		return a, nil

	case messages.ActionCompleted:
		a.err = msg.Err
		a.setStatus(a.ports.Session.Status())
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()

	switch {
	case keymap.Matches(k, a.keymap.Quit):
		a.Close()
		return a, tea.Quit

	case keymap.Matches(k, a.keymap.Help):
		a.help.ShowAll = !a.help.ShowAll
		return a, nil

	case keymap.Matches(k, a.keymap.Connect):
		a.err = nil
		return a, a.runAction(messages.ActionConnect)

	case keymap.Matches(k, a.keymap.Disconnect):
		a.err = nil
		return a, a.runAction(messages.ActionDisconnect)

	case keymap.Matches(k, a.keymap.Refresh):
		return a, a.runAction(messages.ActionRefresh)
	}

	return a, nil
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(a.styles.Title.Render("Google Drive"))
	b.WriteString("\n")
	b.WriteString(a.styles.Subtitle.Render("Connect an account to browse and pick files"))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Card.Render(a.viewAccount()))
	b.WriteString("\n")

	if line := a.viewEnterprise(); line != "" {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if a.err != nil {
		b.WriteString(a.styles.Error.Render(a.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(a.styles.Help.Render(a.help.View(a.keymap)))
	b.WriteString("\n")
	b.WriteString(a.statusBar.View())

	return b.String()
}

func (a *App) viewAccount() string {
	st := a.status

	switch {
	case st.IsLoading():
		return a.spinner.View() + " " + a.styles.Muted.Render(domain.StateLoading.Description())

	case st.IsConnected():
		lines := []string{a.styles.Success.Render("Connected")}
		if st.Profile.Name != "" {
			lines = append(lines, a.styles.Normal.Render(st.Profile.Name))
		}
		lines = append(lines, a.styles.Muted.Render(st.Profile.Email))
		return strings.Join(lines, "\n")

	case st.State == domain.StateError:
		lines := []string{a.styles.Error.Render(st.Message)}
		if st.Profile != nil {
			lines = append(lines, a.styles.Muted.Render("Still signed in as "+st.Profile.Email))
		}
		lines = append(lines, a.styles.Muted.Render("Press c to try again"))
		return strings.Join(lines, "\n")

	default:
		return a.styles.Normal.Render("Not connected") + "\n" +
			a.styles.Muted.Render("Press c to connect your Google account")
	}
}

func (a *App) viewEnterprise() string {
	guard := a.ports.Enterprise
	if guard == nil {
		return ""
	}
	if guard.Enabled() {
		return a.styles.Muted.Render("Enterprise sign-in: enabled")
	}
	return a.styles.Warning.Render("Enterprise sign-in disabled: " + guard.Reason())
}

func (a *App) setStatus(st domain.SessionStatus) {
	a.status = st
	a.statusBar.SetStatus(st)
	a.keymap.SetConnectEnabled(st.CanConnect())
}

// initSession revalidates any stored credential.
func (a *App) initSession() tea.Cmd {
	session := a.ports.Session
	ctx := a.ctx
	return func() tea.Msg {
		return messages.InitCompleted{Err: session.Init(ctx)}
	}
}

// runAction calls the session off the update loop.
func (a *App) runAction(action messages.Action) tea.Cmd {
	session := a.ports.Session
	ctx := a.ctx
	return func() tea.Msg {
		var err error
		switch action {
		case messages.ActionConnect:
			err = session.Connect(ctx)
		case messages.ActionDisconnect:
			err = session.Disconnect(ctx)
		case messages.ActionRefresh:
			return messages.StatusChanged{Status: session.Status()}
		}
		return messages.ActionCompleted{Action: action, Err: err}
	}
}

// waitForStatus blocks until the session publishes a change.
func (a *App) waitForStatus() tea.Cmd {
	bridge := a.bridge
	ctx := a.ctx
	return func() tea.Msg {
		st, ok := bridge.next(ctx)
		if !ok {
			return nil
		}
		return messages.StatusChanged{Status: st}
	}
}

// Run starts the TUI application.
func (a *App) Run() error {
	defer a.Close()
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// Close stops listening for status changes. Safe to call repeatedly.
func (a *App) Close() {
	a.bridge.close()
}

// Status returns the last session status received.
func (a *App) Status() domain.SessionStatus {
	return a.status
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.statusBar.SetWidth(width)
	a.help.Width = width
}

// statusBridge keeps the latest published status and wakes one waiter.
// Intermediate statuses may be coalesced; the latest is never lost.
type statusBridge struct {
	mu          sync.Mutex
	latest      domain.SessionStatus
	pending     bool
	notify      chan struct{}
	done        chan struct{}
	closeOnce   sync.Once
	unsubscribe func()
}

func newStatusBridge() *statusBridge {
	return &statusBridge{
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

func (b *statusBridge) publish(st domain.SessionStatus) {
	b.mu.Lock()
	b.latest = st
	b.pending = true
	b.mu.Unlock()

	select {
	case b.notify <- struct{}{}:
	default:
	}
}

func (b *statusBridge) next(ctx context.Context) (domain.SessionStatus, bool) {
	for {
		b.mu.Lock()
		if b.pending {
			b.pending = false
			st := b.latest
			b.mu.Unlock()
			return st, true
		}
		b.mu.Unlock()

		select {
		case <-b.notify:
		case <-b.done:
			return domain.SessionStatus{}, false
		case <-ctx.Done():
			return domain.SessionStatus{}, false
		}
	}
}

func (b *statusBridge) close() {
	b.closeOnce.Do(func() {
		if b.unsubscribe != nil {
			b.unsubscribe()
		}
		close(b.done)
	})
}
