package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeanpaul/launchpad/internal/config"
	"github.com/jeanpaul/launchpad/internal/executor"
	"github.com/jeanpaul/launchpad/internal/launcher"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Options configure the console. Zero values are usable.
type Options struct {
	View          launcher.View
	Query         launcher.Query
	SessionType   executor.SessionType
	LaunchOptions executor.LaunchOptions

	// AgentsDir is rediscovered whenever Changes fires.
	AgentsDir string
	Changes   <-chan struct{}

	// ReleaseTerminal hands the terminal to the agent while it runs. Leave
	// it off when the executor does not need the terminal.
	ReleaseTerminal bool

	Config *config.Config
	Log    *slog.Logger
}

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusErr
)

type catalogChangedMsg struct{}

// launchDoneMsg carries a finished launch and the error bubbletea reported
// while handing the terminal over and back, if any.
type launchDoneMsg struct {
	req *launchRequest
	err error
}

// Model is the interactive console. All state changes happen in Update;
// View is a pure function of the model.
type Model struct {
	width, height int

	launcher *launcher.Launcher
	state    *launcher.State
	keys     keyMap

	search    textinput.Model
	searching bool

	status     string
	statusKind statusKind

	opts     Options
	log      *slog.Logger
	quitting bool
}

func NewModel(l *launcher.Launcher, opts Options) Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "name, description or author"
	ti.CharLimit = 128

	if opts.SessionType == "" {
		opts.SessionType = executor.SessionInteractive
	}
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}

	st := l.Store()
	records := launcher.Build(l.Catalog().All(), st.Favorites, st.Stats)

	return Model{
		launcher: l,
		state:    launcher.NewState(records, opts.View, opts.Query),
		keys:     defaultKeyMap(),
		search:   ti,
		opts:     opts,
		log:      log,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		waitForChange(m.opts.Changes),
	)
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return catalogChangedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.searching && m.state.Overlay == launcher.OverlayNone {
			return m.updateSearch(msg)
		}
		cmd := modes[m.state.Overlay].handleKey(&m, msg)
		return m, cmd

	case tea.MouseMsg:
		if m.state.Overlay != launcher.OverlayNone || msg.Action != tea.MouseActionPress {
			return m, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.state.Move(-1)
		case tea.MouseButtonWheelDown:
			m.state.Move(1)
		}
		return m, nil

	case launchDoneMsg:
		m.finishLaunch(msg.req, msg.err)
		return m, nil

	case catalogChangedMsg:
		m.reloadCatalog()
		return m, waitForChange(m.opts.Changes)
	}
	return m, nil
}

// updateSearch feeds keys to the search field. Enter keeps the query, Escape
// clears it; both leave editing.
func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return m, nil
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.state.SetSearch("")
		return m, nil
	case tea.KeyUp:
		m.state.Move(-1)
		return m, nil
	case tea.KeyDown:
		m.state.Move(1)
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.state.SetSearch(m.search.Value())
	return m, cmd
}

// handleMainKey handles keys when no overlay is open.
func handleMainKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	k := m.keys
	s := m.state
	switch {
	case key.Matches(msg, k.Quit):
		m.quitting = true
		return tea.Quit
	case key.Matches(msg, k.Escape):
		if s.Query.Search != "" {
			m.search.SetValue("")
			s.SetSearch("")
		}
	case key.Matches(msg, k.Up):
		s.Move(-1)
	case key.Matches(msg, k.Down):
		s.Move(1)
	case key.Matches(msg, k.Launch):
		return m.launchSelected()
	case key.Matches(msg, k.Help):
		s.ToggleOverlay(launcher.OverlayHelp)
	case key.Matches(msg, k.Config):
		s.ToggleOverlay(launcher.OverlayConfig)
	case key.Matches(msg, k.Dashboard):
		s.ToggleOverlay(launcher.OverlayDashboard)
	case key.Matches(msg, k.Grid):
		s.View = launcher.ViewGrid
	case key.Matches(msg, k.List):
		s.View = launcher.ViewList
	case key.Matches(msg, k.Table):
		s.View = launcher.ViewTable
	case key.Matches(msg, k.Compact):
		s.View = launcher.ViewCompact
	case key.Matches(msg, k.Search):
		m.searching = true
		m.search.SetValue(s.Query.Search)
		m.search.CursorEnd()
		return m.search.Focus()
	case key.Matches(msg, k.FavoritesOnly):
		s.ToggleFavoritesOnly()
	case key.Matches(msg, k.ToggleFavorite):
		m.toggleFavorite()
	case key.Matches(msg, k.Sort):
		s.SetSort(s.Query.SortBy.Next(), s.Query.Ascending)
	case key.Matches(msg, k.Reverse):
		s.SetSort(s.Query.SortBy, !s.Query.Ascending)
	}
	return nil
}

// overlayKeys builds the key handler of an overlay: Escape or the overlay's
// own key closes it, quit still quits, everything else is ignored.
func overlayKeys(toggle func(keyMap) key.Binding) func(*Model, tea.KeyMsg) tea.Cmd {
	return func(m *Model, msg tea.KeyMsg) tea.Cmd {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return tea.Quit
		case key.Matches(msg, m.keys.Escape), key.Matches(msg, toggle(m.keys)):
			m.state.Overlay = launcher.OverlayNone
		}
		return nil
	}
}

func (m *Model) toggleFavorite() {
	rec, ok := m.state.Selection()
	if !ok {
		return
	}
	rec.IsFavorite = m.launcher.ToggleFavorite(rec.Name())
	if m.state.Query.FavoritesOnly {
		m.state.Recompute()
	}
	if rec.IsFavorite {
		m.setStatus(statusOK, fmt.Sprintf("★ %s added to favorites", rec.Name()))
	} else {
		m.setStatus(statusInfo, fmt.Sprintf("%s removed from favorites", rec.Name()))
	}
}

// launchRequest runs one launch through the orchestrator. It satisfies
// tea.ExecCommand so bubbletea can release the terminal around it; the
// executor writes to the process's own stdio, so the Set* hooks are unused.
type launchRequest struct {
	l           *launcher.Launcher
	name        string
	sessionType executor.SessionType
	opts        executor.LaunchOptions

	ran     bool
	outcome launcher.Outcome
	err     error
}

func (r *launchRequest) Run() error {
	r.ran = true
	r.outcome, r.err = r.l.LaunchAgent(context.Background(), r.name, r.sessionType, r.opts)
	return r.err
}

func (r *launchRequest) SetStdin(io.Reader)  {}
func (r *launchRequest) SetStdout(io.Writer) {}
func (r *launchRequest) SetStderr(io.Writer) {}

func (m *Model) launchSelected() tea.Cmd {
	rec, ok := m.state.Selection()
	if !ok {
		return nil
	}
	req := &launchRequest{
		l:           m.launcher,
		name:        rec.Name(),
		sessionType: m.opts.SessionType,
		opts:        m.opts.LaunchOptions,
	}
	if m.opts.ReleaseTerminal {
		m.setStatus(statusInfo, fmt.Sprintf("launching %s…", req.name))
		return tea.Exec(req, func(err error) tea.Msg { return launchDoneMsg{req: req, err: err} })
	}
	_ = req.Run()
	m.finishLaunch(req, nil)
	return nil
}

// finishLaunch reports a launch. execErr is the terminal handover error; it
// equals req.err when the launch itself failed.
func (m *Model) finishLaunch(req *launchRequest, execErr error) {
	if !req.ran {
		err := execErr
		if err == nil {
			err = errors.New("launch did not run")
		}
		m.log.Error("terminal handover failed", "agent", req.name, "error", err)
		m.setStatus(statusErr, fmt.Sprintf("%s not launched: %s", req.name, err))
		return
	}
	if req.err != nil {
		m.setStatus(statusErr, req.err.Error())
		return
	}
	out := req.outcome
	if d, ok := m.state.Find(req.name); ok {
		d.Apply(out.Stats)
	}
	// Usage-based sort orders may have changed; keep the cursor on the agent.
	m.state.ReplaceAgents(m.state.Agents)

	switch {
	case execErr != nil:
		m.log.Warn("terminal restore failed", "agent", req.name, "error", execErr)
		m.setStatus(statusErr, fmt.Sprintf("%s ended, but the terminal was not restored: %s", req.name, execErr))
	case out.Success:
		m.setStatus(statusOK, fmt.Sprintf("%s finished in %s", req.name, out.Duration.Round(10*time.Millisecond)))
	default:
		m.setStatus(statusErr, fmt.Sprintf("%s failed: %s", req.name, out.Error))
	}
}

func (m *Model) reloadCatalog() {
	cat := m.launcher.Catalog()
	if err := cat.Discover(m.opts.AgentsDir); err != nil {
		m.log.Warn("catalog reload failed", "path", m.opts.AgentsDir, "error", err)
		m.setStatus(statusErr, err.Error())
		return
	}
	st := m.launcher.Store()
	m.state.ReplaceAgents(launcher.Build(cat.All(), st.Favorites, st.Stats))
	m.log.Info("catalog reloaded", "agents", len(m.state.Agents))
	m.setStatus(statusInfo, fmt.Sprintf("catalog reloaded: %d agents", len(m.state.Agents)))
}

func (m *Model) setStatus(kind statusKind, text string) {
	m.statusKind = kind
	m.status = text
}

// Quitting reports whether the user asked to quit.
func (m Model) Quitting() bool { return m.quitting }

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	w, h := m.width, m.height
	if w <= 0 || h <= 0 {
		w, h = defaultWidth, defaultHeight
	}
	c := NewCanvas(w, h)
	if err := m.render(c); err != nil {
		return err.Error()
	}
	return c.String()
}
