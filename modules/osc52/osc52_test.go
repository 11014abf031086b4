package osc52

import (
	"encoding/base64"
	"testing"

	"github.com/mossgrove/vtcore"
)

func TestHandleEscapeStringIgnoresNonOSC52(t *testing.T) {
	m := New()
	got := m.HandleEscapeString(vtcore.EscapeOSC, []byte("7;file:///tmp"), nil)
	if got != vtcore.Pass {
		t.Errorf("non-osc52 payload should be passed on, got %v", got)
	}
}

func TestHandleEscapeStringIgnoresNonOSCKind(t *testing.T) {
	m := New()
	got := m.HandleEscapeString(vtcore.EscapeDCS, []byte("52;c;?"), nil)
	if got != vtcore.Pass {
		t.Errorf("non-OSC escape kind should be passed on, got %v", got)
	}
}

func TestHandleEscapeStringWriteRespectsAllowWrite(t *testing.T) {
	m := New()
	m.Configure(map[string]any{"allow_write": false})
	payload := []byte("52;c;" + base64.StdEncoding.EncodeToString([]byte("hello")))
	got := m.HandleEscapeString(vtcore.EscapeOSC, payload, nil)
	if got != vtcore.Consumed {
		t.Errorf("osc52 write should still be Consumed even when disallowed, got %v", got)
	}
}

func TestHandleEscapeStringReadRespectsAllowRead(t *testing.T) {
	m := New() // allow_read defaults to false
	got := m.HandleEscapeString(vtcore.EscapeOSC, []byte("52;c;?"), nil)
	if got != vtcore.Consumed {
		t.Errorf("osc52 read should still be Consumed even when disallowed, got %v", got)
	}
}

func TestConfigureOverridesMaxBytes(t *testing.T) {
	m := New()
	m.Configure(map[string]any{"max_bytes": 4})
	// Oversized payload beyond max_bytes must still report Consumed (the
	// OSC 52 number is claimed regardless of whether the write is applied).
	payload := []byte("52;c;" + base64.StdEncoding.EncodeToString([]byte("too long")))
	got := m.HandleEscapeString(vtcore.EscapeOSC, payload, nil)
	if got != vtcore.Consumed {
		t.Errorf("oversized osc52 write should still be Consumed, got %v", got)
	}
}
