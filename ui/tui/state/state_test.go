package state

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labdoctor/internal/engine"
	"labdoctor/internal/health"
)

func rows(labels ...string) []health.Row {
	out := make([]health.Row, len(labels))
	for i, l := range labels {
		out[i] = health.OK(l, "")
	}
	return out
}

func twoSections() health.Snapshot {
	return health.Snapshot{Sections: []health.Section{
		{Title: "A", Rows: rows("a1", "a2", "a3")},
		{Title: "B", Rows: rows("b1", "b2")},
	}}
}

func TestMoveRowClampsAtEdges(t *testing.T) {
	s := AppState{}
	s.ApplySnapshot(twoSections(), nil, time.Now())

	s.SelectedRow = 2
	assert.False(t, s.MoveRow(1))
	assert.Equal(t, 2, s.SelectedRow, "no wraparound past the last row")

	s.SelectedRow = 0
	assert.False(t, s.MoveRow(-1))
	assert.Equal(t, 0, s.SelectedRow)

	assert.True(t, s.MoveRow(1))
	assert.Equal(t, 1, s.SelectedRow)
}

func TestMoveSectionResetsRow(t *testing.T) {
	s := AppState{}
	s.ApplySnapshot(twoSections(), nil, time.Now())
	s.SelectedRow = 2

	assert.True(t, s.MoveSection(1))
	assert.Equal(t, 1, s.SelectedSection)
	assert.Equal(t, 0, s.SelectedRow)

	assert.False(t, s.MoveSection(1), "already at the last section")
	assert.Equal(t, 1, s.SelectedSection)
}

func TestNavigationOnEmptyState(t *testing.T) {
	s := AppState{}
	assert.False(t, s.MoveRow(1))
	assert.False(t, s.MoveSection(1))
	assert.Equal(t, 0, s.SelectedSection)
	assert.Equal(t, 0, s.SelectedRow)
}

func TestApplySnapshotReclampsCursor(t *testing.T) {
	s := AppState{}
	s.ApplySnapshot(twoSections(), nil, time.Now())
	s.SelectedSection, s.SelectedRow = 0, 2

	shrunk := health.Snapshot{Sections: []health.Section{{Title: "A", Rows: rows("a1")}}}
	s.ApplySnapshot(shrunk, nil, time.Now())
	assert.Equal(t, 0, s.SelectedSection)
	assert.Equal(t, 0, s.SelectedRow)

	s.ApplySnapshot(health.Snapshot{}, nil, time.Now())
	assert.Equal(t, 0, s.SelectedSection)
	assert.Equal(t, 0, s.SelectedRow)
}

func TestApplyErrorKeepsPreviousSnapshot(t *testing.T) {
	s := AppState{}
	first := twoSections()
	actions := []engine.Action{{Label: "a2", SectionIdx: 0, RowIdx: 1}}
	updated := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	s.ApplySnapshot(first, actions, updated)

	s.ApplyError(errors.New("collection failed: resolve ANDROID_HOME"))

	assert.Equal(t, twoSections(), s.Snapshot)
	assert.Equal(t, actions, s.Actions)
	assert.Equal(t, updated, s.LastUpdated)
	assert.NotEmpty(t, s.LastError)

	s.ApplySnapshot(first, actions, updated.Add(2*time.Second))
	assert.Empty(t, s.LastError, "a good refresh clears the error")
}

func TestSelectedAction(t *testing.T) {
	s := AppState{}
	s.ApplySnapshot(twoSections(), []engine.Action{{Label: "b2", SectionIdx: 1, RowIdx: 1}}, time.Now())

	_, ok := s.SelectedAction()
	assert.False(t, ok)

	require.True(t, s.Select(1, 1))
	a, ok := s.SelectedAction()
	require.True(t, ok)
	assert.Equal(t, "b2", a.Label)

	assert.False(t, s.Select(5, 0))
	assert.False(t, s.Select(0, 9))
}

func TestLatencyHistoryIsBounded(t *testing.T) {
	s := AppState{}
	for i := 0; i < LatencyHistoryCapacity+5; i++ {
		s.ApplySnapshot(health.Snapshot{Took: time.Duration(i) * time.Millisecond}, nil, time.Now())
	}
	assert.Len(t, s.LatencyHistory, LatencyHistoryCapacity)
	assert.Equal(t, float64(LatencyHistoryCapacity+4), s.LatencyHistory[len(s.LatencyHistory)-1])
}

func TestViewHeader(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	s := AppState{}
	assert.Equal(t, "waiting for first refresh", s.View(now).Updated)

	s.ApplySnapshot(twoSections(), nil, now.Add(-3*time.Second))
	assert.Equal(t, "updated 3 seconds ago", s.View(now).Updated)
}

func TestApplySnapshotKeepsOwnCopy(t *testing.T) {
	snap := twoSections()
	s := AppState{}
	s.ApplySnapshot(snap, nil, time.Now())

	snap.Sections[0].Rows[0] = health.Fail("a1", "changed")
	snap.Sections[1].Title = "changed"

	row, ok := s.Snapshot.RowAt(0, 0)
	require.True(t, ok)
	assert.Equal(t, health.StateOK, row.State)
	assert.Equal(t, "B", s.Snapshot.Sections[1].Title)
}
