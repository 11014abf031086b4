package webview

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mossgrove/vtcore"
)

func TestConfigureClampsUpdateInterval(t *testing.T) {
	m := New()
	m.Configure(map[string]any{"update_interval": 1})
	if m.updateInterval != 16*time.Millisecond {
		t.Errorf("update_interval should clamp to 16ms, got %v", m.updateInterval)
	}
	m.Configure(map[string]any{"update_interval": 5000})
	if m.updateInterval != 1000*time.Millisecond {
		t.Errorf("update_interval should clamp to 1000ms, got %v", m.updateInterval)
	}
}

func TestConfigureOverridesHostAndPort(t *testing.T) {
	m := New()
	m.Configure(map[string]any{"host": "0.0.0.0", "port": 9000, "read_only": false})
	if m.host != "0.0.0.0" || m.port != 9000 || m.readOnly {
		t.Errorf("Configure did not apply host/port/read_only overrides")
	}
}

func TestConfigureOverridesAuth(t *testing.T) {
	m := New()
	m.Configure(map[string]any{"auth": "token", "token": "secret"})
	if m.auth != AuthToken || m.token != "secret" {
		t.Errorf("auth = %q, token = %q, want token/secret", m.auth, m.token)
	}
}

func TestConfigureRejectsUnknownAuthMode(t *testing.T) {
	m := New()
	m.Configure(map[string]any{"auth": "bogus"})
	if m.auth != AuthNone {
		t.Errorf("unrecognized auth mode should leave auth at its default, got %q", m.auth)
	}
}

func TestAuthorizedNoneAcceptsAnyRequest(t *testing.T) {
	m := New()
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	if !m.authorized(req) {
		t.Errorf("AuthNone should accept every request")
	}
}

func TestAuthorizedTokenRequiresMatchingQueryParam(t *testing.T) {
	m := New()
	m.auth = AuthToken
	m.token = "secret"

	req := httptest.NewRequest(http.MethodGet, "/ws?token=secret", nil)
	if !m.authorized(req) {
		t.Errorf("matching token should authorize")
	}
	req = httptest.NewRequest(http.MethodGet, "/ws?token=wrong", nil)
	if m.authorized(req) {
		t.Errorf("mismatched token should not authorize")
	}
	req = httptest.NewRequest(http.MethodGet, "/ws", nil)
	if m.authorized(req) {
		t.Errorf("missing token should not authorize")
	}
}

func TestAuthorizedTokenFailsClosedWhenUnconfigured(t *testing.T) {
	m := New()
	m.auth = AuthToken // m.token left empty
	req := httptest.NewRequest(http.MethodGet, "/ws?token=", nil)
	if m.authorized(req) {
		t.Errorf("an empty configured token must fail closed, not accept an empty query value")
	}
}

func TestAuthorizedPasswordRequiresMatchingBasicAuth(t *testing.T) {
	m := New()
	m.auth = AuthPassword
	m.password = "hunter2"

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.SetBasicAuth("anyuser", "hunter2")
	if !m.authorized(req) {
		t.Errorf("matching password should authorize regardless of username")
	}

	req = httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.SetBasicAuth("anyuser", "wrong")
	if m.authorized(req) {
		t.Errorf("mismatched password should not authorize")
	}
}

func TestActivateDegradesWithoutTerminalService(t *testing.T) {
	m := New()
	reg := vtcore.NewServiceRegistry() // no "terminal" registered
	if err := m.Activate(reg); err != nil {
		t.Fatalf("Activate should degrade gracefully, not error: %v", err)
	}
	if m.term != nil {
		t.Errorf("term should remain nil when the registry has no terminal service")
	}
}
