package engine

import (
	"strings"

	"labdoctor/internal/health"
)

// Action is a remediation bound to the row it fixes, by position in the
// snapshot it was derived from.
type Action struct {
	Label       string
	SectionIdx  int
	RowIdx      int
	Command     []string
	Description string
}

func (a Action) Runnable() bool {
	return len(a.Command) > 0
}

// CommandLine renders Command as a shell-quoted string.
func (a Action) CommandLine() string {
	quoted := make([]string, len(a.Command))
	for i, arg := range a.Command {
		quoted[i] = shellQuote(arg)
	}
	return strings.Join(quoted, " ")
}

// DeriveActions emits one action per WARN or FAIL row that has a known
// remediation, in section then row order.
func DeriveActions(snap health.Snapshot, remediations Remediations) []Action {
	var actions []Action
	for si, sec := range snap.Sections {
		for ri, row := range sec.Rows {
			if row.State == health.StateOK {
				continue
			}
			rem, ok := remediations[row.Label]
			if !ok {
				continue
			}
			actions = append(actions, Action{
				Label:       row.Label,
				SectionIdx:  si,
				RowIdx:      ri,
				Command:     append([]string(nil), rem.Command...),
				Description: rem.Description,
			})
		}
	}
	return actions
}

// ActionAt returns the action bound to a cursor position.
func ActionAt(actions []Action, section, row int) (Action, bool) {
	for _, a := range actions {
		if a.SectionIdx == section && a.RowIdx == row {
			return a, true
		}
	}
	return Action{}, false
}

func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if strings.IndexFunc(s, needsQuote) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func needsQuote(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	case strings.ContainsRune("-_./:=@+,%", r):
		return false
	}
	return true
}
