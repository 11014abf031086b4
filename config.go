package vtcore

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/rs/zerolog"
)

// Config is a per-component map of configuration tables, one sub-table per
// component name (e.g. "scrollback", "osc52", "webview"). Unknown
// components and keys are logged and ignored (error-handling kind 5); the
// core never fails to start over a bad config file.
type Config map[string]map[string]any

// defaultConfig returns the documented defaults for every recognized
// component.
func defaultConfig() Config {
	return Config{
		"scrollback": {
			"lines":              10000,
			"mouse_scroll_lines": 3,
		},
		"osc52": {
			"allow_read":  false,
			"allow_write": true,
			"max_bytes":   100000,
		},
		"dyncolors": {
			"allow_query": true,
			"allow_set":   true,
		},
		"ligatures": {
			"features":   []any{"calt", "liga"},
			"cache_size": 4096,
		},
		"kbselect": {
			"key":             "Ctrl+Shift+Escape",
			"show_crosshair":  true,
			"highlight_alpha": 100,
			"search_alpha":    150,
		},
		"urlclick": {
			"opener": "xdg-open",
			"regex":  DefaultURLRegex,
		},
		"webview": {
			"host":            "127.0.0.1",
			"port":            7681,
			"read_only":       true,
			"auth":            "none",
			"token":           "",
			"password":        "",
			"update_interval": 50,
			"max_clients":     10,
		},
	}
}

// DefaultURLRegex is the pattern the urlclick module matches when its own
// config does not override it.
const DefaultURLRegex = `(https?|ftp|file)://[\w\-_.~:/?#\[\]@!$&'()*+,;=%]+`

// LoadConfig decodes TOML bytes into a Config, starting from the
// documented defaults and overlaying whatever the document supplies.
// Unknown components and unknown keys within a known component are
// logged at warning level and dropped (error-handling kind 5); a decode
// error is returned so the caller can fall back to defaultConfig
// entirely. Pass zerolog.Nop() to silence the kind-5 warnings.
func LoadConfig(data []byte, log zerolog.Logger) (Config, error) {
	cfg := defaultConfig()

	var doc map[string]map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("vtcore: parse config: %w", err)
	}

	for component, table := range doc {
		dst, ok := cfg[component]
		if !ok {
			log.Warn().Str("component", component).Msg("vtcore: unknown config component ignored")
			continue
		}
		for k, v := range table {
			if _, known := dst[k]; !known {
				log.Warn().Str("component", component).Str("key", k).
					Msg("vtcore: unknown config key ignored")
				continue
			}
			dst[k] = v
		}
		cfg[component] = dst
	}

	return cfg, nil
}

// Int reads an integer key from a component's table, clamped to [lo, hi],
// falling back to def if absent or not a number.
func (c Config) Int(component, key string, def, lo, hi int) int {
	table, ok := c[component]
	if !ok {
		return def
	}
	v, ok := table[key]
	if !ok {
		return def
	}
	n, ok := toInt(v)
	if !ok {
		return def
	}
	if n < lo {
		n = lo
	}
	if n > hi {
		n = hi
	}
	return n
}

// Bool reads a boolean key, falling back to def if absent or not a bool.
func (c Config) Bool(component, key string, def bool) bool {
	table, ok := c[component]
	if !ok {
		return def
	}
	v, ok := table[key]
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		return def
	}
	return b
}

// String reads a string key, falling back to def if absent or not a string.
func (c Config) String(component, key, def string) string {
	table, ok := c[component]
	if !ok {
		return def
	}
	v, ok := table[key]
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok {
		return def
	}
	return s
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
