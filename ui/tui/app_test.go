package tui

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labdoctor/internal/collector"
	"labdoctor/internal/engine"
	"labdoctor/internal/health"
)

type fakeCollector struct {
	calls atomic.Int32
	snap  health.Snapshot
	err   error
}

func (f *fakeCollector) Collect(ctx context.Context) (health.Snapshot, error) {
	f.calls.Add(1)
	return f.snap, f.err
}

func fixtureSnapshot() health.Snapshot {
	return health.Snapshot{
		Sections: []health.Section{
			{Title: "System", Rows: []health.Row{
				health.OK("node", "v20.11.0"),
				health.Warn("java", "Java 17 not detected"),
				health.OK("disk", "120 GiB free"),
			}},
			{Title: "Ports", Rows: []health.Row{
				health.Warn("port:3000", "idle"),
			}},
		},
		Took: 40 * time.Millisecond,
	}
}

func testRemediations() engine.Remediations {
	return engine.Remediations{
		"java":      {Description: "Install JDK 17", Command: []string{"brew", "install", "--cask", "zulu@17"}},
		"port:3000": {Description: "Start the dev stack", Command: []string{"node", "scripts/dev-stack.mjs"}},
	}
}

func newTestModel(c Collector, launch Launcher) *MainModel {
	return InitialModel(context.Background(), Options{
		Collector:    c,
		Remediations: testRemediations(),
		Launch:       launch,
		Interval:     time.Second,
		Copy:         func(string) error { return nil },
	})
}

func press(t *testing.T, m *MainModel, msg tea.KeyMsg) (*MainModel, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	next, ok := updated.(*MainModel)
	require.True(t, ok)
	return next, cmd
}

// loaded returns a model that has applied one snapshot.
func loaded(t *testing.T, c *fakeCollector, launch Launcher) *MainModel {
	t.Helper()
	m := newTestModel(c, launch)
	cmd := m.startRefresh()
	require.NotNil(t, cmd)
	updated, _ := m.Update(cmd())
	return updated.(*MainModel)
}

func TestNavigation(t *testing.T) {
	m := loaded(t, &fakeCollector{snap: fixtureSnapshot()}, nil)
	assert.Equal(t, 0, m.state.SelectedSection)
	assert.Equal(t, 0, m.state.SelectedRow)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, m.state.SelectedRow, "row stays on the last entry")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, m.state.SelectedRow)

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.state.SelectedSection)
	assert.Equal(t, 0, m.state.SelectedRow, "row resets on section change")
	assert.NotNil(t, cmd, "section change starts the tab animation")

	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.state.SelectedSection)
	assert.Nil(t, cmd)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 0, m.state.SelectedSection)
}

func TestNavigationBeforeFirstSnapshot(t *testing.T) {
	m := newTestModel(&fakeCollector{}, nil)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 0, m.state.SelectedSection)
	assert.Equal(t, 0, m.state.SelectedRow)

	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestForcedRefreshIsCoalesced(t *testing.T) {
	c := &fakeCollector{snap: fixtureSnapshot()}
	m := newTestModel(c, nil)

	m, first := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	require.NotNil(t, first)
	m, second := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	m, third := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Nil(t, second)
	assert.Nil(t, third)
	assert.True(t, m.refreshing)

	msg := first()
	assert.Equal(t, int32(1), c.calls.Load())

	updated, next := m.Update(msg)
	m = updated.(*MainModel)
	assert.False(t, m.refreshing)
	assert.NotNil(t, next, "next tick is scheduled after the refresh ends")
	assert.Len(t, m.state.Snapshot.Sections, 2)

	_, again := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.NotNil(t, again)
}

func TestStaleTickIsIgnored(t *testing.T) {
	m := loaded(t, &fakeCollector{snap: fixtureSnapshot()}, nil)
	gen := m.tickGen

	// A forced refresh supersedes the pending timer.
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	require.NotNil(t, cmd)
	updated, _ := m.Update(cmd())
	m = updated.(*MainModel)

	updated, cmd = m.Update(TickMsg{Gen: gen, At: time.Now()})
	m = updated.(*MainModel)
	assert.Nil(t, cmd)
	assert.False(t, m.refreshing)

	_, cmd = m.Update(TickMsg{Gen: m.tickGen, At: time.Now()})
	assert.NotNil(t, cmd)
}

func TestCollectionErrorKeepsPreviousSnapshot(t *testing.T) {
	c := &fakeCollector{snap: fixtureSnapshot()}
	m := loaded(t, c, nil)
	updatedAt := m.state.LastUpdated

	c.err = &collector.CollectionError{Op: "resolve ANDROID_HOME", Err: errors.New("no home directory")}
	c.snap = health.Snapshot{}
	cmd := m.startRefresh()
	require.NotNil(t, cmd)
	updated, _ := m.Update(cmd())
	m = updated.(*MainModel)

	assert.Len(t, m.state.Snapshot.Sections, 2)
	assert.Equal(t, updatedAt, m.state.LastUpdated)
	assert.Contains(t, m.state.LastError, "resolve ANDROID_HOME")
	assert.Contains(t, m.View(), "Error:")
}

func TestEnterLaunchesSelectedAction(t *testing.T) {
	var launched []engine.Action
	launch := func(a engine.Action) (func() error, error) {
		launched = append(launched, a)
		return func() error { return nil }, nil
	}
	m := loaded(t, &fakeCollector{snap: fixtureSnapshot()}, launch)

	// node has no remediation
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Empty(t, launched)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	require.Len(t, launched, 1)
	assert.Equal(t, "java", launched[0].Label)
	assert.Contains(t, m.state.Notice, "Started java")

	msg := cmd()
	finished, ok := msg.(ActionFinishedMsg)
	require.True(t, ok)
	assert.NoError(t, finished.Err)

	updated, refresh := m.Update(finished)
	m = updated.(*MainModel)
	assert.NotNil(t, refresh, "a finished action triggers a refresh")
	assert.Equal(t, "java finished", m.state.Notice)
}

func TestActionFailureIsReported(t *testing.T) {
	m := loaded(t, &fakeCollector{snap: fixtureSnapshot()}, nil)

	actErr := &engine.ActionExecutionError{
		Label:   "java",
		Command: []string{"brew", "install", "--cask", "zulu@17"},
		Output:  "Error: no such cask",
		Err:     errors.New("exit status 1"),
	}
	updated, cmd := m.Update(ActionFinishedMsg{Label: "java", Err: actErr})
	m = updated.(*MainModel)
	assert.Nil(t, cmd)
	assert.Contains(t, m.state.LastError, "java")
	assert.Len(t, m.state.Snapshot.Sections, 2)
}

func TestLaunchErrorIsReported(t *testing.T) {
	launch := func(a engine.Action) (func() error, error) {
		return nil, &engine.ActionExecutionError{Label: a.Label, Command: a.Command, Err: errors.New("not found")}
	}
	m := loaded(t, &fakeCollector{snap: fixtureSnapshot()}, launch)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Contains(t, m.state.LastError, "not found")
}

func TestCopyCommand(t *testing.T) {
	var copied string
	m := loaded(t, &fakeCollector{snap: fixtureSnapshot()}, nil)
	m.copy = func(s string) error {
		copied = s
		return nil
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	assert.Equal(t, "brew install --cask zulu@17", copied)
	assert.Contains(t, m.state.Notice, "Copied")
}

func TestQuit(t *testing.T) {
	for _, k := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyCtrlC},
	} {
		m := newTestModel(&fakeCollector{}, nil)
		m, cmd := press(t, m, k)
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
		assert.True(t, m.quitting)
	}
}

func TestSnapshotAfterQuitIsDropped(t *testing.T) {
	m := newTestModel(&fakeCollector{}, nil)
	m.refreshing = true
	m.quitting = true

	updated, cmd := m.Update(SnapshotMsg{Snapshot: fixtureSnapshot()})
	m = updated.(*MainModel)
	assert.Nil(t, cmd)
	assert.Empty(t, m.state.Snapshot.Sections)
}

func TestTabAnimationSettles(t *testing.T) {
	m := loaded(t, &fakeCollector{snap: fixtureSnapshot()}, nil)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	require.True(t, m.animating)

	var cmd tea.Cmd
	for i := 0; i < 500 && m.animating; i++ {
		var updated tea.Model
		updated, cmd = m.Update(AnimateMsg(time.Now()))
		m = updated.(*MainModel)
	}
	assert.False(t, m.animating)
	assert.Nil(t, cmd)
	assert.Equal(t, 1.0, m.tabAnim)
}
