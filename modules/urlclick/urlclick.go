// Package urlclick implements the UrlHandler capability: opening a URL
// found under a click with an external opener command.
package urlclick

import (
	"os/exec"
	"regexp"

	"github.com/rs/zerolog"

	"github.com/mossgrove/vtcore"
)

// DefaultRegex matches the default URL pattern the core's configuration
// table documents for this module.
const DefaultRegex = `(https?|ftp|file)://[\w\-_.~:/?#\[\]@!$&'()*+,;=%]+`

// Module opens URLs via an external opener command (xdg-open by default).
type Module struct {
	priority vtcore.Priority
	opener   string
	regex    *regexp.Regexp
	log      zerolog.Logger
}

// Option configures a Module at construction time.
type Option func(*Module)

// WithLogger installs a zerolog.Logger for config-fallback warnings
// (error-handling kind 5). Defaults to a no-op logger.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Module) { m.log = l }
}

// New returns a urlclick module at normal priority with the default opener
// and URL pattern.
func New(opts ...Option) *Module {
	m := &Module{
		priority: vtcore.PriorityNormal,
		opener:   "xdg-open",
		regex:    regexp.MustCompile(DefaultRegex),
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Module) Name() string             { return "urlclick" }
func (m *Module) Priority() vtcore.Priority { return m.priority }

func (m *Module) Configure(config map[string]any) error {
	if opener, ok := config["opener"].(string); ok && opener != "" {
		m.opener = opener
	}
	if pattern, ok := config["regex"].(string); ok && pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			// Invalid regex in config: fall back to the previous pattern
			// (error-handling kind 5), keep the module usable.
			m.log.Warn().Err(err).Str("pattern", pattern).
				Msg("urlclick: invalid regex in config, keeping previous pattern")
			return nil
		}
		m.regex = re
	}
	return nil
}

func (m *Module) Activate(reg *vtcore.ServiceRegistry) error { return nil }
func (m *Module) Deactivate()                                {}

// Match reports whether s contains a URL by this module's pattern.
func (m *Module) Match(s string) (string, bool) {
	match := m.regex.FindString(s)
	return match, match != ""
}

// OpenURL spawns the configured opener against url. The spawn is
// fire-and-forget: a failure to start is the caller's concern to log
// (error-handling kind 3 propagates up through the bus's DispatchURL).
func (m *Module) OpenURL(url string) error {
	return exec.Command(m.opener, url).Start()
}

var _ vtcore.UrlHandler = (*Module)(nil)
var _ vtcore.Module = (*Module)(nil)
