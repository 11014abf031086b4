// Package shellmarks tracks the shell's working directory (OSC 7) and
// prompt marks (OSC 133), supplementing the distilled spec's example
// module list with the shell-integration surface a complete terminal core
// exposes to status lines and jump-to-prompt navigation.
package shellmarks

import (
	"net/url"
	"strings"

	"github.com/mossgrove/vtcore"
)

// PromptMarkKind distinguishes the OSC 133 sub-marks.
type PromptMarkKind byte

const (
	MarkPromptStart PromptMarkKind = 'A'
	MarkCommandStart PromptMarkKind = 'B'
	MarkCommandEnd   PromptMarkKind = 'C'
	MarkOutputEnd    PromptMarkKind = 'D'
)

// PromptMark is one recorded OSC 133 event.
type PromptMark struct {
	Kind PromptMarkKind
	Row  int
}

const maxMarks = 1000

// Module tracks the working directory (OSC 7) and a bounded ring of
// prompt marks (OSC 133) for the currently active screen.
type Module struct {
	priority   vtcore.Priority
	workingDir string
	marks      []PromptMark
}

// New returns a shellmarks module at normal priority.
func New() *Module {
	return &Module{priority: vtcore.PriorityNormal}
}

func (m *Module) Name() string             { return "shellmarks" }
func (m *Module) Priority() vtcore.Priority { return m.priority }

func (m *Module) Configure(config map[string]any) error     { return nil }
func (m *Module) Activate(reg *vtcore.ServiceRegistry) error { return nil }
func (m *Module) Deactivate()                                { m.marks = nil }

// WorkingDir returns the last directory reported via OSC 7.
func (m *Module) WorkingDir() string {
	return m.workingDir
}

// Marks returns the recorded prompt marks, oldest first.
func (m *Module) Marks() []PromptMark {
	return m.marks
}

// HandleEscapeString claims OSC 7 (working directory, as a "file://host/path"
// URI) and OSC 133 (prompt marks: "133;A", "133;B", "133;C", "133;D").
func (m *Module) HandleEscapeString(kind vtcore.EscapeKind, payload []byte, term *vtcore.Terminal) vtcore.Disposition {
	if kind != vtcore.EscapeOSC {
		return vtcore.Pass
	}
	code, rest, ok := splitOSC(string(payload))
	if !ok {
		return vtcore.Pass
	}

	switch code {
	case "7":
		m.handleWorkingDir(rest)
		return vtcore.Consumed
	case "133":
		m.handlePromptMark(rest, term)
		return vtcore.Consumed
	default:
		return vtcore.Pass
	}
}

func (m *Module) handleWorkingDir(uri string) {
	u, err := url.Parse(uri)
	if err != nil {
		return
	}
	m.workingDir = u.Path
}

func (m *Module) handlePromptMark(rest string, term *vtcore.Terminal) {
	if rest == "" {
		return
	}
	kind := PromptMarkKind(rest[0])
	switch kind {
	case MarkPromptStart, MarkCommandStart, MarkCommandEnd, MarkOutputEnd:
	default:
		return
	}
	row := term.GetCursor().Y
	m.marks = append(m.marks, PromptMark{Kind: kind, Row: row})
	if len(m.marks) > maxMarks {
		m.marks = m.marks[len(m.marks)-maxMarks:]
	}
}

func splitOSC(s string) (head, rest string, ok bool) {
	if i := strings.IndexByte(s, ';'); i >= 0 {
		return s[:i], s[i+1:], true
	}
	return s, "", true
}

var _ vtcore.EscapeHandler = (*Module)(nil)
var _ vtcore.Module = (*Module)(nil)
