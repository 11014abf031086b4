// Package osc52 implements clipboard read/write via OSC 52, the exclusive
// module territory the core's parser leaves unhandled for OSC numbers
// other than 0/1/2.
package osc52

import (
	"encoding/base64"
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/mossgrove/vtcore"
)

// Module is the OSC 52 clipboard bridge. Wire format:
// "OSC 52 ; <sel> ; <base64|?> ST", sel one of c/p/s/0 (c/s -> clipboard,
// p/0 -> primary; this implementation backs both by the OS clipboard).
type Module struct {
	priority   vtcore.Priority
	allowRead  bool
	allowWrite bool
	maxBytes   int
}

// New returns an OSC 52 module at normal priority.
func New() *Module {
	return &Module{priority: vtcore.PriorityNormal, allowWrite: true, maxBytes: 100000}
}

func (m *Module) Name() string            { return "osc52" }
func (m *Module) Priority() vtcore.Priority { return m.priority }

func (m *Module) Configure(config map[string]any) error {
	m.allowRead = boolOr(config, "allow_read", false)
	m.allowWrite = boolOr(config, "allow_write", true)
	m.maxBytes = intOr(config, "max_bytes", 100000)
	return nil
}

func (m *Module) Activate(reg *vtcore.ServiceRegistry) error { return nil }
func (m *Module) Deactivate()                                {}

// HandleEscapeString claims OSC payloads shaped "52;<sel>;<data>".
func (m *Module) HandleEscapeString(kind vtcore.EscapeKind, payload []byte, term *vtcore.Terminal) vtcore.Disposition {
	if kind != vtcore.EscapeOSC {
		return vtcore.Pass
	}
	code, rest, ok := splitOSC(string(payload))
	if !ok || code != "52" {
		return vtcore.Pass
	}
	sel, data, ok := splitOSC(rest)
	if !ok {
		return vtcore.Consumed
	}

	if data == "?" {
		if !m.allowRead {
			return vtcore.Consumed
		}
		text, err := clipboard.ReadAll()
		if err != nil {
			return vtcore.Consumed
		}
		resp := fmt.Sprintf("\x1b]52;%s;%s\x1b\\", sel, base64.StdEncoding.EncodeToString([]byte(text)))
		term.Respond([]byte(resp))
		return vtcore.Consumed
	}

	if !m.allowWrite {
		return vtcore.Consumed
	}
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil || len(decoded) > m.maxBytes {
		return vtcore.Consumed
	}
	_ = clipboard.WriteAll(string(decoded))
	return vtcore.Consumed
}

func splitOSC(s string) (head, rest string, ok bool) {
	for i, c := range s {
		if c == ';' {
			return s[:i], s[i+1:], true
		}
	}
	return "", "", false
}

func boolOr(m map[string]any, key string, def bool) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return def
}

func intOr(m map[string]any, key string, def int) int {
	switch v := m[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

var _ vtcore.EscapeHandler = (*Module)(nil)
var _ vtcore.Module = (*Module)(nil)
