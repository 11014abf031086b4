package vtcore

import (
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Mode is a DECSET/DECRST private mode number, or a non-private mode such
// as IRM (insert mode, CSI 4 h/l).
type Mode int

const (
	ModeCursorKeysApp Mode = 1
	ModeOrigin        Mode = 6
	ModeAutoWrap      Mode = 7
	ModeCursorBlink    Mode = 12
	ModeCursorVisible Mode = 25
	ModeMouseX10      Mode = 1000
	ModeMouseBtn      Mode = 1002
	ModeMouseAny      Mode = 1003
	ModeFocusReport   Mode = 1004
	ModeMouseUTF8     Mode = 1005
	ModeMouseSGR      Mode = 1006
	ModeAltScreen     Mode = 1049
	ModeBracketPaste  Mode = 2004

	// modeInsert is IRM, CSI 4 h/l — not a DECSET private mode (no '?').
	modeInsert Mode = -4
)

// ContentsChangedFunc observes the contents-changed signal.
type ContentsChangedFunc func()

// ResizeFunc observes the resize(cols, rows) signal.
type ResizeFunc func(cols, rows int)

// TitleChangedFunc observes the title-changed(title) signal.
type TitleChangedFunc func(title string)

// BellFunc observes the bell signal.
type BellFunc func()

// ResponseFunc observes the response(bytes) signal; the caller feeds these
// bytes back into the PTY write direction. The parser never writes to the
// PTY directly.
type ResponseFunc func(data []byte)

// LineScrolledOutFunc observes the line-scrolled-out signal raised when a
// full-screen primary scroll discards the top row.
type LineScrolledOutFunc func(l *Line, cols int)

// Terminal is the public core API: byte-stream input, resize, state
// queries, and the signal set observers subscribe to. It owns both
// screens, the cursor, the pen, the color scheme, and the module bus.
//
// The core is designed for single-threaded, cooperative use (one feeder
// goroutine calling Write; observers read back but never re-enter Write).
// The mutex below guards against accidental concurrent access the way the
// terminal cores this package is modeled on defensively do, but it is not
// a substitute for honoring that ordering contract.
type Terminal struct {
	mu sync.RWMutex

	screen             *Screen
	cursor             Cursor
	primarySavedCursor SavedCursor
	colors             *ColorScheme
	scrollback         *ScrollbackRing
	bus                *Bus
	parser             *Parser

	title      string
	titleStack []string

	modes      map[Mode]bool
	tabStops   []bool

	lastPrintable    rune
	lastPrintableSet bool

	config Config
	log    zerolog.Logger

	onContentsChanged []ContentsChangedFunc
	onResize          []ResizeFunc
	onTitleChanged    []TitleChangedFunc
	onBell            []BellFunc
	onResponse        []ResponseFunc
	onLineScrolledOut []LineScrolledOutFunc
}

// Option configures a Terminal at construction time.
type Option func(*Terminal)

// WithScrollback sets the scrollback ring's initial capacity.
func WithScrollback(capacity int) Option {
	return func(t *Terminal) {
		t.scrollback = NewScrollbackRing(capacity)
	}
}

// WithConfig installs a loaded Config, overriding the built-in defaults.
func WithConfig(cfg Config) Option {
	return func(t *Terminal) { t.config = cfg }
}

// WithLogger installs a zerolog.Logger for module-failure and parser-
// recovery messages. Defaults to a disabled logger.
func WithLogger(l zerolog.Logger) Option {
	return func(t *Terminal) { t.log = l }
}

// WithBus installs a pre-built module bus in place of an empty one.
func WithBus(b *Bus) Option {
	return func(t *Terminal) { t.bus = b }
}

// WithResponse subscribes f to the response signal.
func WithResponse(f ResponseFunc) Option {
	return func(t *Terminal) { t.onResponse = append(t.onResponse, f) }
}

// WithBell subscribes f to the bell signal.
func WithBell(f BellFunc) Option {
	return func(t *Terminal) { t.onBell = append(t.onBell, f) }
}

// WithTitle subscribes f to the title-changed signal.
func WithTitle(f TitleChangedFunc) Option {
	return func(t *Terminal) { t.onTitleChanged = append(t.onTitleChanged, f) }
}

// WithResize subscribes f to the resize signal.
func WithResize(f ResizeFunc) Option {
	return func(t *Terminal) { t.onResize = append(t.onResize, f) }
}

// WithContentsChanged subscribes f to the contents-changed signal.
func WithContentsChanged(f ContentsChangedFunc) Option {
	return func(t *Terminal) { t.onContentsChanged = append(t.onContentsChanged, f) }
}

// WithLineScrolledOut subscribes f to the line-scrolled-out signal, in
// addition to the terminal's own scrollback ring.
func WithLineScrolledOut(f LineScrolledOutFunc) Option {
	return func(t *Terminal) { t.onLineScrolledOut = append(t.onLineScrolledOut, f) }
}

// New returns a Terminal of the given size. Screen allocation failure is
// the only fatal condition this constructor can hit (error-handling kind
// 6); in Go that surfaces as an allocation panic, not a return value, so
// callers with extreme sizes should sanity-check before calling New.
func New(cols, rows int, opts ...Option) *Terminal {
	t := &Terminal{
		screen:     NewScreen(cols, rows),
		cursor:     NewCursor(),
		colors:     NewColorScheme(),
		scrollback: NewScrollbackRing(10000),
		modes:      map[Mode]bool{ModeAutoWrap: true, ModeCursorVisible: true},
		config:     defaultConfig(),
		log:        zerolog.Nop(),
	}
	t.tabStops = defaultTabStops(cols)
	t.bus = NewBus(nil)

	for _, opt := range opts {
		opt(t)
	}

	t.bus.SetWarnLogger(func(format string, args ...any) {
		t.log.Warn().Msgf(format, args...)
	})
	t.bus.Registry().Register("terminal", t)
	t.bus.Registry().Register("colors", t.colors)
	t.bus.Registry().Register("scrollback", t.scrollback)

	t.screen.SetEvictFunc(t.evictLine)
	t.parser = NewParser(t)

	return t
}

func defaultTabStops(cols int) []bool {
	stops := make([]bool, cols)
	for i := 0; i < cols; i += 8 {
		stops[i] = true
	}
	return stops
}

func (t *Terminal) evictLine(l *Line, cols int) {
	t.scrollback.Append(l, cols)
	if len(t.onLineScrolledOut) == 0 {
		return
	}
	handlers := append([]LineScrolledOutFunc(nil), t.onLineScrolledOut...)
	t.mu.Unlock()
	defer t.mu.Lock()
	for _, f := range handlers {
		f(l, cols)
	}
}

// Bus returns the module bus so callers can Load modules.
func (t *Terminal) Bus() *Bus {
	return t.bus
}

// Colors returns the terminal's color scheme.
func (t *Terminal) Colors() *ColorScheme {
	return t.colors
}

// Scrollback returns the terminal's scrollback ring.
func (t *Terminal) Scrollback() *ScrollbackRing {
	return t.scrollback
}

// Write feeds bytes to the parser. Bytes are applied in order; signals
// raised during this call fire before it returns.
func (t *Terminal) Write(data []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.parser.Feed(data)
}

// WriteString is a convenience wrapper around Write.
func (t *Terminal) WriteString(s string) {
	t.Write([]byte(s))
}

// Respond raises the response signal with data, the mechanism a module's
// EscapeHandler must use to answer a query (e.g. an OSC 52 read) instead
// of calling Write: Write re-enters the parser, which is not reentrant,
// while Respond only hands bytes to the caller's own PTY-write observer.
func (t *Terminal) Respond(data []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.raiseResponse(data)
}

// Resize mutates both screens and clamps the cursor, then raises resize.
func (t *Terminal) Resize(cols, rows int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resizeLocked(cols, rows)
}

func (t *Terminal) resizeLocked(cols, rows int) {
	t.screen.Resize(cols, rows)
	if t.cursor.X >= cols {
		t.cursor.X = cols - 1
	}
	if t.cursor.Y >= rows {
		t.cursor.Y = rows - 1
	}
	t.cursor.ClearWrapNext()
	t.tabStops = defaultTabStops(cols)
	t.raiseResize(cols, rows)
	t.raiseContentsChanged()
}

// GetSize returns (cols, rows).
func (t *Terminal) GetSize() (cols, rows int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.screen.Size()
}

// GetCursor returns a copy of the current cursor state.
func (t *Terminal) GetCursor() Cursor {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cursor
}

// GetLine returns row y of the active screen, or nil if out of range.
// The returned Line borrows the screen; callers must not retain it past
// the next Write.
func (t *Terminal) GetLine(y int) *Line {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.screen.Line(y)
}

// GetGlyph returns the glyph at (x,y), an empty glyph if out of range.
func (t *Terminal) GetGlyph(x, y int) Glyph {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.screen.Glyph(x, y)
}

// GetTitle returns the current window title.
func (t *Terminal) GetTitle() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.title
}

// GetScrollRegion returns the active scroll region, 0-based inclusive.
func (t *Terminal) GetScrollRegion() (top, bottom int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.screen.ScrollRegion()
}

// IsAltScreen reports whether the alternate buffer is selected.
func (t *Terminal) IsAltScreen() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.screen.IsAlternate()
}

// HasMode reports whether a DECSET/DECRST mode (or IRM) is set.
func (t *Terminal) HasMode(m Mode) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.modes[m]
}

// MarkDirty marks row y dirty.
func (t *Terminal) MarkDirty(y int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if l := t.screen.Line(y); l != nil {
		l.markDirty()
	}
}

// SetCursorPos moves the cursor to (x, y), clamped to the grid, and clears
// WRAPNEXT unconditionally (this is an explicit cursor-addressing call).
func (t *Terminal) SetCursorPos(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	cols, rows := t.screen.Size()
	if x < 0 {
		x = 0
	}
	if x >= cols {
		x = cols - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= rows {
		y = rows - 1
	}
	t.cursor.X, t.cursor.Y = x, y
	t.cursor.ClearWrapNext()
	t.raiseContentsChanged()
}

// String renders the active screen's visible text, one line per row.
func (t *Terminal) String() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var b strings.Builder
	grid := t.screen.Active()
	for i, l := range grid {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(l.String())
	}
	return b.String()
}

// Signal emission runs with the write lock released so that an observer
// is free to re-enter the API to read state (permitted by the ordering
// contract; re-entering Write itself is still undefined behavior). Every
// raise* call happens while the caller holds the full write lock, never
// just RLock, so it is safe to drop and retake it here.

func (t *Terminal) raiseContentsChanged() {
	if len(t.onContentsChanged) == 0 {
		return
	}
	handlers := append([]ContentsChangedFunc(nil), t.onContentsChanged...)
	t.mu.Unlock()
	defer t.mu.Lock()
	for _, f := range handlers {
		f()
	}
}

func (t *Terminal) raiseResize(cols, rows int) {
	if len(t.onResize) == 0 {
		return
	}
	handlers := append([]ResizeFunc(nil), t.onResize...)
	t.mu.Unlock()
	defer t.mu.Lock()
	for _, f := range handlers {
		f(cols, rows)
	}
}

func (t *Terminal) raiseBell() {
	if len(t.onBell) == 0 {
		return
	}
	handlers := append([]BellFunc(nil), t.onBell...)
	t.mu.Unlock()
	defer t.mu.Lock()
	for _, f := range handlers {
		f()
	}
}

func (t *Terminal) raiseResponse(data []byte) {
	if len(t.onResponse) == 0 {
		return
	}
	handlers := append([]ResponseFunc(nil), t.onResponse...)
	t.mu.Unlock()
	defer t.mu.Lock()
	for _, f := range handlers {
		f(data)
	}
}

func (t *Terminal) raiseTitleChanged(title string) {
	if len(t.onTitleChanged) == 0 {
		return
	}
	handlers := append([]TitleChangedFunc(nil), t.onTitleChanged...)
	t.mu.Unlock()
	defer t.mu.Lock()
	for _, f := range handlers {
		f(title)
	}
}

// SetTitle sets the window title and raises title-changed.
func (t *Terminal) SetTitle(title string) {
	t.title = title
	t.raiseTitleChanged(title)
}

// PushTitle saves the current title to the stack (XTWINOPS title push,
// invoked by the CSI 22 t handler).
func (t *Terminal) PushTitle() {
	t.titleStack = append(t.titleStack, t.title)
}

// PopTitle restores the title from the stack, if any.
func (t *Terminal) PopTitle() {
	if len(t.titleStack) == 0 {
		return
	}
	n := len(t.titleStack) - 1
	t.SetTitle(t.titleStack[n])
	t.titleStack = t.titleStack[:n]
}
