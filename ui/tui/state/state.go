package state

import (
	"time"

	"github.com/dustin/go-humanize"

	"labdoctor/internal/engine"
	"labdoctor/internal/health"
	"labdoctor/internal/output"
)

const LatencyHistoryCapacity = 31

// AppState holds the latest snapshot, the actions derived from it and the
// navigation cursor. The event loop owns the only instance.
type AppState struct {
	Snapshot        health.Snapshot
	Actions         []engine.Action
	LastError       string
	LastUpdated     time.Time
	SelectedSection int
	SelectedRow     int
	Notice          string
	LatencyHistory  []float64 // collection time per refresh, in ms
}

// ApplySnapshot replaces the sections and actions wholesale, clears the
// error and pulls the cursor back into range if rows disappeared. The state
// keeps its own copy of the rows.
func (s *AppState) ApplySnapshot(snap health.Snapshot, actions []engine.Action, now time.Time) {
	s.Snapshot = snap.Clone()
	s.Actions = actions
	s.LastError = ""
	s.LastUpdated = now

	s.LatencyHistory = append(s.LatencyHistory, float64(snap.Took)/float64(time.Millisecond))
	if len(s.LatencyHistory) > LatencyHistoryCapacity {
		s.LatencyHistory = s.LatencyHistory[1:]
	}
	s.clamp()
}

// ApplyError records a failure and keeps the previous snapshot on screen.
func (s *AppState) ApplyError(err error) {
	if err == nil {
		return
	}
	s.LastError = err.Error()
}

func (s *AppState) SetNotice(msg string) {
	s.Notice = msg
}

// MoveRow moves the cursor within the current section without wrapping.
func (s *AppState) MoveRow(delta int) bool {
	n := s.Snapshot.RowCount(s.SelectedSection)
	if n == 0 {
		return false
	}
	next := clampIndex(s.SelectedRow+delta, n)
	if next == s.SelectedRow {
		return false
	}
	s.SelectedRow = next
	return true
}

// MoveSection moves to a neighbouring section without wrapping and resets
// the row to the top.
func (s *AppState) MoveSection(delta int) bool {
	n := len(s.Snapshot.Sections)
	if n == 0 {
		return false
	}
	next := clampIndex(s.SelectedSection+delta, n)
	if next == s.SelectedSection {
		return false
	}
	s.SelectedSection = next
	s.SelectedRow = 0
	return true
}

// Select jumps to a position, e.g. from a mouse click. Out of range
// positions are ignored.
func (s *AppState) Select(section, row int) bool {
	if section < 0 || section >= len(s.Snapshot.Sections) {
		return false
	}
	if _, ok := s.Snapshot.RowAt(section, row); !ok && row != 0 {
		return false
	}
	s.SelectedSection = section
	s.SelectedRow = row
	return true
}

func (s *AppState) SelectedAction() (engine.Action, bool) {
	return engine.ActionAt(s.Actions, s.SelectedSection, s.SelectedRow)
}

func (s *AppState) clamp() {
	n := len(s.Snapshot.Sections)
	if n == 0 {
		s.SelectedSection, s.SelectedRow = 0, 0
		return
	}
	s.SelectedSection = clampIndex(s.SelectedSection, n)
	if rows := s.Snapshot.RowCount(s.SelectedSection); rows == 0 {
		s.SelectedRow = 0
	} else {
		s.SelectedRow = clampIndex(s.SelectedRow, rows)
	}
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// View builds the read-only view model the renderers consume.
func (s AppState) View(now time.Time) output.DashboardView {
	v := output.BuildDashboard(s.Snapshot, s.Actions, output.Cursor{Section: s.SelectedSection, Row: s.SelectedRow})
	v.Error = s.LastError
	v.Notice = s.Notice
	if s.LastUpdated.IsZero() {
		v.Updated = "waiting for first refresh"
	} else {
		v.Updated = "updated " + humanize.RelTime(s.LastUpdated, now, "ago", "from now")
	}
	return v
}
