// Package vtcore is a headless VT500-family terminal core.
//
// It turns a byte stream from a pseudo-terminal into a structured, queryable
// cell grid and routes escape sequences through a pluggable module bus. It
// does not open a PTY, draw pixels, or manage child processes — those are
// external collaborators that consume the [Terminal] API and the module
// capability interfaces in this package.
//
// # Quick start
//
//	term := vtcore.New(80, 24)
//	term.Write([]byte("\x1b[31mHello \x1b[32mWorld\x1b[0m!"))
//	fmt.Println(term.String())
//
// # Architecture
//
//   - [Glyph] / [Line]: the cell grid's value types.
//   - [Screen]: primary and alternate buffers, scroll region, line eviction.
//   - [Cursor]: position, shape, wrap-next latch, pen.
//   - [Terminal]: public API — write, resize, query, and the signal set
//     (contents-changed, resize, title-changed, bell, response,
//     line-scrolled-out).
//   - [Bus]: the module registry — capability interfaces dispatched by
//     priority to pluggable extensions (see modules/ for examples).
//   - [ScrollbackRing]: bounded ring of evicted lines.
//
// # Concurrency
//
// The core is intended for cooperative, single-threaded use: one goroutine
// feeds [Terminal.Write], and signal observers may read the terminal back but
// must not call Write reentrantly. [Terminal] still guards its state with an
// internal mutex, matching the defensive style of the terminal cores this
// package is modeled on, but this is not a substitute for respecting that
// ordering contract.
package vtcore
