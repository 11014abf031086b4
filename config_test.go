package vtcore

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	doc := []byte(`
[scrollback]
lines = 5000

[osc52]
allow_read = true
`)
	cfg, err := LoadConfig(doc, zerolog.Nop())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if got := cfg.Int("scrollback", "lines", 0, 0, 1_000_000); got != 5000 {
		t.Errorf("scrollback.lines = %d, want 5000", got)
	}
	if got := cfg.Int("scrollback", "mouse_scroll_lines", 0, 0, 100); got != 3 {
		t.Errorf("scrollback.mouse_scroll_lines should keep its default 3, got %d", got)
	}
	if got := cfg.Bool("osc52", "allow_read", false); !got {
		t.Errorf("osc52.allow_read should be overridden to true")
	}
	if got := cfg.Bool("osc52", "allow_write", false); !got {
		t.Errorf("osc52.allow_write should keep its default true")
	}
}

func TestLoadConfigInvalidTOMLReturnsError(t *testing.T) {
	_, err := LoadConfig([]byte("not = [valid toml"), zerolog.Nop())
	if err == nil {
		t.Fatalf("expected an error for malformed TOML")
	}
}

func TestLoadConfigDropsUnknownComponentsAndKeys(t *testing.T) {
	doc := []byte(`
[scrollback]
lines = 5000
bogus_key = "x"

[nonexistent_component]
key = 1
`)
	cfg, err := LoadConfig(doc, zerolog.Nop())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if _, ok := cfg["nonexistent_component"]; ok {
		t.Errorf("unknown component should be dropped, not kept in the returned Config")
	}
	if _, ok := cfg["scrollback"]["bogus_key"]; ok {
		t.Errorf("unknown key within a known component should be dropped")
	}
	if got := cfg.Int("scrollback", "lines", 0, 0, 1_000_000); got != 5000 {
		t.Errorf("scrollback.lines = %d, want 5000 (known key still applied)", got)
	}
}

func TestConfigIntClamping(t *testing.T) {
	cfg := defaultConfig()
	cfg["webview"]["port"] = 999999
	if got := cfg.Int("webview", "port", 0, 1, 65535); got != 65535 {
		t.Errorf("port should clamp to 65535, got %d", got)
	}
}

func TestConfigStringFallback(t *testing.T) {
	cfg := defaultConfig()
	if got := cfg.String("urlclick", "opener", "fallback"); got != "xdg-open" {
		t.Errorf("urlclick.opener default = %q, want xdg-open", got)
	}
	if got := cfg.String("nonexistent", "key", "fallback"); got != "fallback" {
		t.Errorf("missing component should return the fallback")
	}
}
