package urlclick

import "testing"

func TestMatchFindsURL(t *testing.T) {
	m := New()
	got, ok := m.Match("see https://example.com/path?q=1 for details")
	if !ok {
		t.Fatalf("expected a match")
	}
	if got != "https://example.com/path?q=1" {
		t.Errorf("match = %q, want the full URL", got)
	}
}

func TestMatchNoURL(t *testing.T) {
	m := New()
	if _, ok := m.Match("no links here"); ok {
		t.Errorf("expected no match")
	}
}

func TestConfigureInvalidRegexKeepsDefault(t *testing.T) {
	m := New()
	err := m.Configure(map[string]any{"regex": "("}) // invalid regex
	if err != nil {
		t.Fatalf("Configure should not error on an invalid regex (degrade gracefully): %v", err)
	}
	if _, ok := m.Match("https://example.com"); !ok {
		t.Errorf("default regex should still match after a rejected override")
	}
}

func TestConfigureCustomOpener(t *testing.T) {
	m := New()
	m.Configure(map[string]any{"opener": "open"})
	if m.opener != "open" {
		t.Errorf("opener = %q, want %q", m.opener, "open")
	}
}
