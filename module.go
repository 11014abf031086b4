package vtcore

import "sort"

// Disposition is the result a handler returns to say whether it claimed an
// event or left it for the next handler (or the core's own fallback).
type Disposition int

const (
	// Pass leaves the event for the next handler in priority order.
	Pass Disposition = iota
	// Consumed stops the dispatch walk.
	Consumed
)

// Priority orders modules for dispatch. Higher values run first; modules
// registered at the same priority are ordered by registration index.
type Priority int

const (
	PriorityLow    Priority = -100
	PriorityNormal Priority = 0
	PriorityHigh   Priority = 100
)

// KeyModifiers is a bitmask of the shift/control/alt/super modifier keys
// that modules match their triggers against. It has no lock bits: callers
// must strip NumLock/CapsLock before dispatch.
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota
	ModControl
	ModAlt
	ModSuper
)

// EscapeKind identifies which string-escape introducer produced a payload
// handed to EscapeHandler.
type EscapeKind byte

const (
	EscapeOSC EscapeKind = ']'
	EscapeDCS EscapeKind = 'P'
	EscapeSOS EscapeKind = 'X'
	EscapePM  EscapeKind = '^'
	EscapeAPC EscapeKind = '_'
)

// InputHandler lets a module observe key events before the core's default
// handling. The bus stops at the first Consumed.
type InputHandler interface {
	HandleKey(keysym rune, keycode int, mods KeyModifiers) Disposition
}

// EscapeHandler lets a module claim an escape-string payload (OSC/DCS/SOS/
// PM/APC) before the parser's own OSC 0/1/2 fallback. Any number of
// modules may observe; the first Consumed stops the walk.
type EscapeHandler interface {
	HandleEscapeString(kind EscapeKind, payload []byte, term *Terminal) Disposition
}

// RenderOverlay lets a module draw on top of the painted grid. All modules
// implementing it are invoked, in priority order.
type RenderOverlay interface {
	Render(ctx any, width, height int)
}

// GlyphTransformer lets a module replace the default paint of a cell,
// e.g. to shape a ligature spanning multiple columns. Implementers that
// return Consumed for (x,y) are responsible for resetting their own
// per-row skip-map whenever y changes between calls.
type GlyphTransformer interface {
	TransformGlyph(r rune, ctx any, x, y, w, h int) Disposition
}

// PipeData lets a module receive a command and bytes from the bus, e.g. to
// pipe the bytes into that command's stdin.
type PipeData interface {
	PipeData(command string, data []byte)
}

// UrlHandler lets a module react to a clicked or activated URL.
type UrlHandler interface {
	OpenURL(url string) error
}

// Module is the unit the bus registers. Name and Priority are required;
// a module exposes whichever capability interfaces it implements by
// type-asserting on the value the Bus holds — callers do not need a
// separate registration call per capability.
type Module interface {
	Name() string
	Priority() Priority

	// Configure is called once after Load, and again on config reload.
	Configure(config map[string]any) error
	// Activate prepares the module for dispatch. A returned error leaves
	// the module registered but inactive: it is skipped in subsequent
	// dispatch and logged at warning level (error-handling kind 3).
	Activate(reg *ServiceRegistry) error
	// Deactivate releases subscriptions, caches, and spawned children's
	// stdin ownership before Unload.
	Deactivate()
}

// ServiceRegistry is a name-keyed lookup the module manager exposes in
// place of the reach-through-by-symbol-name pattern this core replaces
// (see the design notes on cross-module resolution). Modules consult it at
// dispatch time; they never import each other at build time.
type ServiceRegistry struct {
	services map[string]any
}

// NewServiceRegistry returns an empty registry.
func NewServiceRegistry() *ServiceRegistry {
	return &ServiceRegistry{services: make(map[string]any)}
}

// Register binds name to svc, replacing any prior binding.
func (r *ServiceRegistry) Register(name string, svc any) {
	r.services[name] = svc
}

// Lookup returns the service bound to name, or ok=false if absent. A
// required peer being absent is error-handling kind 4: the caller must
// degrade gracefully, never panic.
func (r *ServiceRegistry) Lookup(name string) (any, bool) {
	svc, ok := r.services[name]
	return svc, ok
}

type registeredModule struct {
	mod      Module
	index    int
	active   bool
}

// Bus is the priority-ordered module registry. It owns the module list and
// a ServiceRegistry for shared-service lookup (terminal, color scheme,
// scrollback, ...).
type Bus struct {
	modules  []*registeredModule
	registry *ServiceRegistry
	nextIdx  int

	logWarn func(format string, args ...any)
}

// NewBus returns an empty bus backed by reg.
func NewBus(reg *ServiceRegistry) *Bus {
	if reg == nil {
		reg = NewServiceRegistry()
	}
	return &Bus{registry: reg}
}

// SetWarnLogger installs the sink used for module-failure logging (error
// kind 3). A nil logger silences these messages.
func (b *Bus) SetWarnLogger(f func(format string, args ...any)) {
	b.logWarn = f
}

func (b *Bus) warn(format string, args ...any) {
	if b.logWarn != nil {
		b.logWarn(format, args...)
	}
}

// Registry returns the bus's shared-service registry.
func (b *Bus) Registry() *ServiceRegistry {
	return b.registry
}

// Load registers mod, calls Configure, then Activate. A Configure or
// Activate failure leaves the module registered but inactive.
func (b *Bus) Load(mod Module, config map[string]any) {
	rm := &registeredModule{mod: mod, index: b.nextIdx}
	b.nextIdx++
	b.modules = append(b.modules, rm)
	b.sortModules()

	if err := mod.Configure(config); err != nil {
		b.warn("module %q: configure failed: %v", mod.Name(), err)
		return
	}
	if err := mod.Activate(b.registry); err != nil {
		b.warn("module %q: activate failed: %v", mod.Name(), err)
		return
	}
	rm.active = true
}

// Reconfigure calls Configure again on every active module (config reload).
func (b *Bus) Reconfigure(config map[string]any) {
	for _, rm := range b.modules {
		if !rm.active {
			continue
		}
		if err := rm.mod.Configure(config); err != nil {
			b.warn("module %q: reconfigure failed: %v", rm.mod.Name(), err)
		}
	}
}

// Unload deactivates and removes mod by name.
func (b *Bus) Unload(name string) {
	for i, rm := range b.modules {
		if rm.mod.Name() != name {
			continue
		}
		if rm.active {
			rm.mod.Deactivate()
		}
		b.modules = append(b.modules[:i], b.modules[i+1:]...)
		return
	}
}

func (b *Bus) sortModules() {
	sort.SliceStable(b.modules, func(i, j int) bool {
		pi, pj := b.modules[i].mod.Priority(), b.modules[j].mod.Priority()
		if pi != pj {
			return pi > pj
		}
		return b.modules[i].index < b.modules[j].index
	})
}

// active iterates registered, active modules in priority order.
func (b *Bus) active() []*registeredModule {
	out := make([]*registeredModule, 0, len(b.modules))
	for _, rm := range b.modules {
		if rm.active {
			out = append(out, rm)
		}
	}
	return out
}

// DispatchKey walks InputHandler modules by descending priority, stopping
// at the first Consumed.
func (b *Bus) DispatchKey(keysym rune, keycode int, mods KeyModifiers) Disposition {
	for _, rm := range b.active() {
		h, ok := rm.mod.(InputHandler)
		if !ok {
			continue
		}
		if h.HandleKey(keysym, keycode, mods) == Consumed {
			return Consumed
		}
	}
	return Pass
}

// DispatchEscape offers an escape payload to every EscapeHandler module in
// priority order, stopping at the first Consumed.
func (b *Bus) DispatchEscape(kind EscapeKind, payload []byte, term *Terminal) Disposition {
	for _, rm := range b.active() {
		h, ok := rm.mod.(EscapeHandler)
		if !ok {
			continue
		}
		if h.HandleEscapeString(kind, payload, term) == Consumed {
			return Consumed
		}
	}
	return Pass
}

// DispatchOverlay invokes every RenderOverlay module in priority order.
func (b *Bus) DispatchOverlay(ctx any, width, height int) {
	for _, rm := range b.active() {
		if h, ok := rm.mod.(RenderOverlay); ok {
			h.Render(ctx, width, height)
		}
	}
}

// DispatchTransform offers cell (x,y) to every GlyphTransformer module in
// priority order, stopping at the first Consumed (the transformer that
// claimed the cell owns its paint).
func (b *Bus) DispatchTransform(r rune, ctx any, x, y, w, h int) Disposition {
	for _, rm := range b.active() {
		h2, ok := rm.mod.(GlyphTransformer)
		if !ok {
			continue
		}
		if h2.TransformGlyph(r, ctx, x, y, w, h) == Consumed {
			return Consumed
		}
	}
	return Pass
}

// DispatchPipe feeds data to every PipeData module in priority order.
func (b *Bus) DispatchPipe(command string, data []byte) {
	for _, rm := range b.active() {
		if h, ok := rm.mod.(PipeData); ok {
			h.PipeData(command, data)
		}
	}
}

// DispatchURL offers a URL to every UrlHandler module in priority order.
// A module's error is logged (kind 3) and does not stop the walk.
func (b *Bus) DispatchURL(url string) {
	for _, rm := range b.active() {
		h, ok := rm.mod.(UrlHandler)
		if !ok {
			continue
		}
		if err := h.OpenURL(url); err != nil {
			b.warn("module %q: open url failed: %v", rm.mod.Name(), err)
		}
	}
}
