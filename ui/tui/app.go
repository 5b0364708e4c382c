package tui

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-isatty"

	"labdoctor/internal/engine"
	"labdoctor/internal/health"
	"labdoctor/pkg/logging"
	"labdoctor/ui/tui/components"
	"labdoctor/ui/tui/state"
	"labdoctor/ui/tui/views"
)

const (
	subsystem       = "TUI"
	defaultInterval = 2 * time.Second
)

// Collector produces one snapshot per call.
type Collector interface {
	Collect(ctx context.Context) (health.Snapshot, error)
}

// Launcher starts a remediation and returns a function that waits for it.
type Launcher func(engine.Action) (wait func() error, err error)

// ExecutorLauncher adapts an engine.Executor to a Launcher.
func ExecutorLauncher(e *engine.Executor) Launcher {
	return func(a engine.Action) (func() error, error) {
		p, err := e.Start(a)
		if err != nil {
			return nil, err
		}
		return p.Wait, nil
	}
}

type Options struct {
	Collector    Collector
	Remediations engine.Remediations
	Launch       Launcher
	Interval     time.Duration
	Copy         func(string) error
}

// TerminalSetupError reports that the dashboard could not take over or
// release the terminal.
type TerminalSetupError struct {
	Err error
}

func (e *TerminalSetupError) Error() string {
	return "terminal setup failed: " + e.Err.Error()
}

func (e *TerminalSetupError) Unwrap() error {
	return e.Err
}

// MainModel is the Bubble Tea Model acting as the Controller
type MainModel struct {
	ctx          context.Context
	collector    Collector
	remediations engine.Remediations
	launch       Launcher
	copy         func(string) error
	interval     time.Duration

	state   state.AppState
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	latency *components.LatencyWidget

	spring    harmonica.Spring
	tabAnim   float64
	velocity  float64
	animating bool

	refreshing bool
	tickGen    int
	quitting   bool
	width      int
	height     int
	now        func() time.Time
}

// Messages
type TickMsg struct {
	Gen int
	At  time.Time
}
type AnimateMsg time.Time
type SnapshotMsg struct {
	Snapshot health.Snapshot
	Err      error
}
type ActionFinishedMsg struct {
	Label string
	Err   error
}

func InitialModel(ctx context.Context, opts Options) *MainModel {
	zone.NewGlobal()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	interval := opts.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	copyFn := opts.Copy
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	return &MainModel{
		ctx:          ctx,
		collector:    opts.Collector,
		remediations: opts.Remediations,
		launch:       opts.Launch,
		copy:         copyFn,
		interval:     interval,
		keys:         defaultKeyMap(),
		help:         help.New(),
		spinner:      s,
		latency:      components.NewLatencyWidget(30, 8),
		// Fast and nearly critically damped so the tab indicator settles without overshoot
		spring: harmonica.NewSpring(harmonica.FPS(60), 12.0, 0.9),
		now:    time.Now,
	}
}

func (m *MainModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.startRefresh(),
	)
}

// Commands
func tickCmd(gen int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg{Gen: gen, At: t}
	})
}

func animateCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*16, func(t time.Time) tea.Msg {
		return AnimateMsg(t)
	})
}

func collectCmd(ctx context.Context, c Collector) tea.Cmd {
	return func() tea.Msg {
		snap, err := c.Collect(ctx)
		return SnapshotMsg{Snapshot: snap, Err: err}
	}
}

func waitActionCmd(label string, wait func() error) tea.Cmd {
	return func() tea.Msg {
		return ActionFinishedMsg{Label: label, Err: wait()}
	}
}

func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case AnimateMsg:
		return m.handleAnimateMsg(msg)

	case tea.WindowSizeMsg:
		return m.handleWindowSizeMsg(msg)

	case TickMsg:
		return m.handleTickMsg(msg)

	case SnapshotMsg:
		return m.handleSnapshotMsg(msg)

	case ActionFinishedMsg:
		return m.handleActionFinishedMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)
	}

	return m, nil
}

// startRefresh launches a collection unless one is already running. The
// generation bump makes any pending timer tick stale.
func (m *MainModel) startRefresh() tea.Cmd {
	if m.refreshing {
		logging.Debug(subsystem, "Refresh already in flight, coalescing")
		return nil
	}
	m.refreshing = true
	m.tickGen++
	return collectCmd(m.ctx, m.collector)
}

func (m *MainModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.state.MoveRow(-1)
	case key.Matches(msg, m.keys.Down):
		m.state.MoveRow(1)
	case key.Matches(msg, m.keys.Left):
		if m.state.MoveSection(-1) {
			return m, m.animateTabs()
		}
	case key.Matches(msg, m.keys.Right):
		if m.state.MoveSection(1) {
			return m, m.animateTabs()
		}
	case key.Matches(msg, m.keys.Refresh):
		return m, m.startRefresh()
	case key.Matches(msg, m.keys.Enter):
		return m, m.runSelectedAction()
	case key.Matches(msg, m.keys.Copy):
		m.copySelectedCommand()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *MainModel) runSelectedAction() tea.Cmd {
	a, ok := m.state.SelectedAction()
	if !ok {
		return nil
	}
	if !a.Runnable() {
		m.state.SetNotice(a.Label + ": " + a.Description)
		return nil
	}
	if m.launch == nil {
		m.state.ApplyError(&engine.ActionExecutionError{Label: a.Label, Command: a.Command, Err: errors.New("actions are disabled")})
		return nil
	}

	wait, err := m.launch(a)
	if err != nil {
		logging.Error(subsystem, err, "Failed to launch action %s", a.Label)
		m.state.ApplyError(err)
		return nil
	}
	m.state.SetNotice(fmt.Sprintf("Started %s: %s", a.Label, a.CommandLine()))
	return waitActionCmd(a.Label, wait)
}

func (m *MainModel) copySelectedCommand() {
	a, ok := m.state.SelectedAction()
	if !ok || !a.Runnable() {
		return
	}
	if err := m.copy(a.CommandLine()); err != nil {
		m.state.SetNotice("Clipboard unavailable: " + err.Error())
		return
	}
	m.state.SetNotice("Copied: " + a.CommandLine())
}

func (m *MainModel) animateTabs() tea.Cmd {
	if m.animating {
		return nil
	}
	m.animating = true
	return animateCmd()
}

func (m *MainModel) handleAnimateMsg(msg AnimateMsg) (tea.Model, tea.Cmd) {
	target := float64(m.state.SelectedSection)
	m.tabAnim, m.velocity = m.spring.Update(m.tabAnim, m.velocity, target)

	if math.Abs(target-m.tabAnim) < 0.01 && math.Abs(m.velocity) < 0.01 {
		m.tabAnim, m.velocity = target, 0
		m.animating = false
		return m, nil
	}
	return m, animateCmd()
}

func (m *MainModel) handleWindowSizeMsg(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.help.Width = msg.Width
	if msg.Height > 24 {
		m.latency.Resize(30, 10)
	} else {
		m.latency.Resize(30, 6)
	}
	return m, nil
}

func (m *MainModel) handleTickMsg(msg TickMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != m.tickGen {
		return m, nil
	}
	return m, m.startRefresh()
}

func (m *MainModel) handleSnapshotMsg(msg SnapshotMsg) (tea.Model, tea.Cmd) {
	m.refreshing = false
	if m.quitting {
		return m, nil
	}

	if msg.Err != nil {
		logging.Error(subsystem, msg.Err, "Refresh failed, keeping previous snapshot")
		m.state.ApplyError(msg.Err)
	} else {
		actions := engine.DeriveActions(msg.Snapshot, m.remediations)
		m.state.ApplySnapshot(msg.Snapshot, actions, m.now())
		m.latency.SetHistory(m.state.LatencyHistory)
	}

	// The next refresh is timed from the end of this one
	cmds := []tea.Cmd{tickCmd(m.tickGen, m.interval)}
	if m.tabAnim != float64(m.state.SelectedSection) {
		cmds = append(cmds, m.animateTabs())
	}
	return m, tea.Batch(cmds...)
}

func (m *MainModel) handleActionFinishedMsg(msg ActionFinishedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.state.ApplyError(msg.Err)
		return m, nil
	}
	m.state.SetNotice(msg.Label + " finished")
	return m, m.startRefresh()
}

func (m *MainModel) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	for si, sec := range m.state.Snapshot.Sections {
		if zone.Get(views.TabZoneID(si)).InBounds(msg) {
			if si != m.state.SelectedSection && m.state.Select(si, 0) {
				return m, m.animateTabs()
			}
			return m, nil
		}
		if si != m.state.SelectedSection {
			continue
		}
		for ri := range sec.Rows {
			if zone.Get(views.RowZoneID(si, ri)).InBounds(msg) {
				m.state.Select(si, ri)
				return m, nil
			}
		}
	}
	return m, nil
}

func (m *MainModel) View() string {
	if m.quitting {
		return "Bye!\n"
	}

	chart := ""
	if len(m.state.LatencyHistory) > 1 {
		chart = m.latency.View()
	}
	return views.RenderDashboard(m.state, views.ViewProps{
		Width:       m.width,
		Height:      m.height,
		Now:         m.now(),
		Refreshing:  m.refreshing,
		SpinnerView: m.spinner.View(),
		ChartView:   chart,
		HelpView:    m.help.View(m.keys),
		TabAnim:     m.tabAnim,
	})
}

// Start runs the dashboard until the user quits or ctx is cancelled.
func Start(ctx context.Context, opts Options) error {
	for name, f := range map[string]*os.File{"stdin": os.Stdin, "stdout": os.Stdout} {
		if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
			return &TerminalSetupError{Err: fmt.Errorf("%s is not a terminal", name)}
		}
	}

	m := InitialModel(ctx, opts)
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil && errors.Is(err, tea.ErrProgramKilled) {
			logging.Info(subsystem, "Dashboard stopped: %v", ctx.Err())
			return nil
		}
		return &TerminalSetupError{Err: err}
	}
	return nil
}
