package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/clockctl/internal/clockapi"
	"github.com/five82/clockctl/internal/prefs"
	"github.com/five82/clockctl/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewClock View = iota
	ViewLogs
)

const (
	uiTick         = time.Second
	commandTimeout = 5 * time.Second
	flashDuration  = 4 * time.Second
)

// Options configures the UI.
type Options struct {
	Store     *state.Store
	Commander clockapi.Commander
	Fetcher   clockapi.StatusFetcher
	Prefs     prefs.Prefs
	PrefsPath string
	Server    string // host:port shown in the status panel
	LogPath   string // clockctl's own log file for the log view
	Logger    *zap.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	store     *state.Store
	commander clockapi.Commander
	fetcher   clockapi.StatusFetcher
	prefs     prefs.Prefs
	prefsPath string
	server    string
	log       *zap.Logger
	keys      keyMap

	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool

	snapshot state.Snapshot

	// Transient result of the last command
	flash      string
	flashErr   bool
	flashUntil time.Time
	pending    string

	logViewport viewport.Model
	logState    logState
}

// New creates a new Bubble Tea model.
func New(ctx context.Context, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	p := opts.Prefs
	if p.Theme == "" {
		p = prefs.Defaults()
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	m := Model{
		ctx:         ctx,
		store:       opts.Store,
		commander:   opts.Commander,
		fetcher:     opts.Fetcher,
		prefs:       p,
		prefsPath:   prefsPath,
		server:      opts.Server,
		log:         logger.Named("ui"),
		keys:        defaultKeyMap(),
		theme:       GetTheme(p.Theme),
		currentView: ViewClock,
		logState:    logState{path: opts.LogPath, follow: true},
	}
	if opts.Store != nil {
		m.snapshot = opts.Store.Snapshot()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(uiTick)}
	if m.store != nil {
		cmds = append(cmds, waitForChangeCmd(m.ctx, m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.updateLogViewport()
		return m, nil

	case tickMsg:
		return m.handleTick(time.Time(msg))

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		return m, waitForChangeCmd(m.ctx, m.store)

	case commandDoneMsg:
		m.pending = ""
		if msg.err != nil {
			m.log.Warn("command failed", zap.String("command", msg.action), zap.Error(msg.err))
			m.setFlash(fmt.Sprintf("%s failed: %v", msg.action, msg.err), true)
		} else {
			m.setFlash(msg.action+" sent", false)
		}
		return m, nil

	case logBatchMsg:
		m.handleLogBatch(msg)
		return m, nil

	case logErrorMsg:
		m.logState.err = msg.err
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	switch m.currentView {
	case ViewLogs:
		b.WriteString(m.renderLogs())
	default:
		b.WriteString(m.renderClockView())
	}
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.flash != "" && now.After(m.flashUntil) {
		m.flash = ""
	}
	cmds := []tea.Cmd{tickCmd(uiTick)}
	if m.currentView == ViewLogs && m.logState.follow {
		cmds = append(cmds, m.refreshLogs())
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) setFlash(text string, isErr bool) {
	m.flash = text
	m.flashErr = isErr
	m.flashUntil = time.Now().Add(flashDuration)
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type commandDoneMsg struct {
	action string
	err    error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForChangeCmd blocks until the store signals a change. Only one of
// these is outstanding at a time; snapshotMsg re-arms it.
func waitForChangeCmd(ctx context.Context, store *state.Store) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-store.Changed():
			return snapshotMsg(store.Snapshot())
		case <-ctx.Done():
			return nil
		}
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, opts Options) error {
	if opts.Store == nil {
		return fmt.Errorf("ui requires a data store")
	}
	p := tea.NewProgram(New(ctx, opts), tea.WithAltScreen())

	stop := context.AfterFunc(ctx, p.Quit)
	defer stop()

	_, err := p.Run()
	return err
}
