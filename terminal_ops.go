package vtcore

import "fmt"

// putChar writes a single printable rune through the deferred-wrap path:
// every printable write and every REP repetition goes through this
// function so WRAPNEXT latches and resolves identically either way.
func (t *Terminal) putChar(r rune) {
	if t.cursor.HasWrapNext() {
		t.cursor.ClearWrapNext()
		t.cursor.X = 0
		t.lineFeed()
	}

	cols, _ := t.screen.Size()
	w := runeWidth(r)
	if w == 0 {
		// Combining / zero-width: merged into the cell behind the cursor
		// would need grapheme clustering, out of scope here; drop it
		// rather than corrupt the grid (matches the "never advance past
		// printable width" invariant).
		return
	}

	g := Glyph{Rune: r, Attr: t.cursor.Pen.Attr, Fg: t.cursor.Pen.Fg, Bg: t.cursor.Pen.Bg}
	if w == 2 {
		g.SetAttr(AttrWide)
	}

	line := t.screen.Line(t.cursor.Y)
	if line == nil {
		return
	}

	if t.modes[modeInsert] {
		line.InsertBlanks(t.cursor.X, w)
	}

	line.SetGlyph(t.cursor.X, g)
	if w == 2 && t.cursor.X+1 < cols {
		dummy := Glyph{Rune: 0, Fg: t.cursor.Pen.Fg, Bg: t.cursor.Pen.Bg, Attr: AttrWDummy}
		line.SetGlyph(t.cursor.X+1, dummy)
	}

	t.lastPrintable = r
	t.lastPrintableSet = true

	if t.cursor.X+w >= cols {
		t.cursor.X = cols - 1
		if t.modes[ModeAutoWrap] {
			t.cursor.SetWrapNext()
		}
	} else {
		t.cursor.X += w
	}
}

// repeatLastPrintable implements REP (CSI b): repeats the last printed
// rune n times through putChar, so wrapping behaves identically to
// ordinary typed repetition. A no-op if nothing printable has been seen.
func (t *Terminal) repeatLastPrintable(n int) {
	if !t.lastPrintableSet {
		return
	}
	r := t.lastPrintable
	for i := 0; i < n; i++ {
		t.putChar(r)
	}
	// putChar overwrites lastPrintable with r on every iteration, which is
	// a no-op here since r is unchanged.
}

// lineFeed moves down one row within the scroll region, scrolling the
// region if already at its bottom.
func (t *Terminal) lineFeed() {
	top, bottom := t.screen.ScrollRegion()
	if t.cursor.Y == bottom {
		t.screen.ScrollUp(1)
		return
	}
	if t.cursor.Y < top || t.cursor.Y >= bottom {
		_, rows := t.screen.Size()
		if t.cursor.Y < rows-1 {
			t.cursor.Y++
		}
		return
	}
	t.cursor.Y++
}

// reverseIndex (ESC M, RI) moves up one row within the region, scrolling
// down if already at its top.
func (t *Terminal) reverseIndex() {
	top, bottom := t.screen.ScrollRegion()
	if t.cursor.Y == top {
		t.screen.ScrollDown(1)
		return
	}
	if t.cursor.Y <= top || t.cursor.Y > bottom {
		if t.cursor.Y > 0 {
			t.cursor.Y--
		}
		return
	}
	t.cursor.Y--
}

func (t *Terminal) moveCursorVertical(delta int) {
	top, bottom := t.screen.ScrollRegion()
	lo, hi := 0, t.rowsCached()-1
	if t.cursor.IsOrigin() {
		lo, hi = top, bottom
	}
	y := t.cursor.Y + delta
	if y < lo {
		y = lo
	}
	if y > hi {
		y = hi
	}
	t.cursor.Y = y
	t.cursor.ClearWrapNext()
}

func (t *Terminal) moveCursorHorizontal(delta int) {
	cols, _ := t.screen.Size()
	x := t.cursor.X + delta
	if x < 0 {
		x = 0
	}
	if x >= cols {
		x = cols - 1
	}
	t.cursor.X = x
	t.cursor.ClearWrapNext()
}

func (t *Terminal) rowsCached() int {
	_, rows := t.screen.Size()
	return rows
}

func (t *Terminal) cursorToColumn(x int) {
	cols, _ := t.screen.Size()
	if x < 0 {
		x = 0
	}
	if x >= cols {
		x = cols - 1
	}
	t.cursor.X = x
	t.cursor.ClearWrapNext()
}

func (t *Terminal) cursorToRow(y int) {
	top, bottom := t.screen.ScrollRegion()
	lo, hi := 0, t.rowsCached()-1
	if t.cursor.IsOrigin() {
		lo, hi = top, bottom
		y += top
	}
	if y < lo {
		y = lo
	}
	if y > hi {
		y = hi
	}
	t.cursor.Y = y
	t.cursor.ClearWrapNext()
}

// cursorToPosition implements CUP/HVP. x and y are 0-based already
// (caller subtracted the 1-based CSI params). Origin mode makes the
// target relative to the scroll region.
func (t *Terminal) cursorToPosition(x, y int) {
	cols, _ := t.screen.Size()
	top, bottom := t.screen.ScrollRegion()
	if t.cursor.IsOrigin() {
		y += top
		if y > bottom {
			y = bottom
		}
	}
	if x < 0 {
		x = 0
	}
	if x >= cols {
		x = cols - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= t.rowsCached() {
		y = t.rowsCached() - 1
	}
	t.cursor.X, t.cursor.Y = x, y
	t.cursor.ClearWrapNext()
}

// eraseInDisplay implements ED: 0 = cursor..end, 1 = start..cursor, 2 = all.
func (t *Terminal) eraseInDisplay(mode int) {
	grid := t.screen.Active()
	y := t.cursor.Y
	switch mode {
	case 0:
		if l := t.screen.Line(y); l != nil {
			l.ClearToEnd(t.cursor.X)
		}
		for i := y + 1; i < len(grid); i++ {
			grid[i].Clear()
		}
	case 1:
		for i := 0; i < y; i++ {
			grid[i].Clear()
		}
		if l := t.screen.Line(y); l != nil {
			l.ClearToStart(t.cursor.X)
		}
	case 2:
		t.screen.ClearAll()
	}
}

// eraseInLine implements EL: 0 = cursor..end, 1 = start..cursor, 2 = all.
func (t *Terminal) eraseInLine(mode int) {
	l := t.screen.Line(t.cursor.Y)
	if l == nil {
		return
	}
	switch mode {
	case 0:
		l.ClearToEnd(t.cursor.X)
	case 1:
		l.ClearToStart(t.cursor.X)
	case 2:
		l.Clear()
	}
}

// eraseChars implements ECH: clears n cells from the cursor, without
// shifting (unlike DCH).
func (t *Terminal) eraseChars(n int) {
	l := t.screen.Line(t.cursor.Y)
	if l == nil {
		return
	}
	l.ClearRange(t.cursor.X, t.cursor.X+n)
}

func (t *Terminal) advanceTabStop() {
	cols, _ := t.screen.Size()
	for x := t.cursor.X + 1; x < cols; x++ {
		if t.tabStops[x] {
			t.cursor.X = x
			t.cursor.ClearWrapNext()
			return
		}
	}
	t.cursor.X = cols - 1
	t.cursor.ClearWrapNext()
}

func (t *Terminal) reverseTabStop() {
	for x := t.cursor.X - 1; x >= 0; x-- {
		if t.tabStops[x] {
			t.cursor.X = x
			t.cursor.ClearWrapNext()
			return
		}
	}
	t.cursor.X = 0
	t.cursor.ClearWrapNext()
}

// clearTabStops implements TBC: 0 clears the stop at the cursor, 3 clears
// all stops.
func (t *Terminal) clearTabStops(mode int) {
	switch mode {
	case 0:
		if t.cursor.X < len(t.tabStops) {
			t.tabStops[t.cursor.X] = false
		}
	case 3:
		for i := range t.tabStops {
			t.tabStops[i] = false
		}
	}
}

// saveCursorCurrentBuffer implements DECSC / SCOSC: both CSI variants
// share one saved-cursor slot per buffer in this implementation.
func (t *Terminal) saveCursorCurrentBuffer() {
	if t.screen.IsAlternate() {
		t.screen.SaveAlternateCursor(t.cursor.Save())
		return
	}
	t.primarySavedCursor = t.cursor.Save()
}

// restoreCursorCurrentBuffer implements DECRC / SCORC, restoring
// including WRAPNEXT.
func (t *Terminal) restoreCursorCurrentBuffer() {
	if t.screen.IsAlternate() {
		t.cursor.Restore(t.screen.AlternateCursor())
		return
	}
	t.cursor.Restore(t.primarySavedCursor)
}

// deviceStatusReport implements DSR: 5 = device status OK, 6 = CPR.
func (t *Terminal) deviceStatusReport(code int) {
	switch code {
	case 5:
		t.raiseResponse([]byte("\x1b[0n"))
	case 6:
		t.raiseResponse([]byte(fmt.Sprintf("\x1b[%d;%dR", t.cursor.Y+1, t.cursor.X+1)))
	}
}

// setScrollRegionFromCSI implements DECSTBM. No arguments resets the
// region to the full screen and homes the cursor.
func (t *Terminal) setScrollRegionFromCSI(a *csiArgs) {
	rows := t.rowsCached()
	if a.numParams == 0 {
		t.screen.ResetScrollRegion()
		t.cursor.X, t.cursor.Y = 0, 0
		t.cursor.ClearWrapNext()
		return
	}
	top := a.arg(0, 1) - 1
	bottom := a.arg(1, rows) - 1
	t.screen.SetScrollRegion(top, bottom)
	t.cursor.X, t.cursor.Y = 0, 0
	t.cursor.ClearWrapNext()
}

// setModes implements SM/RM and DECSET/DECRST, dispatched by the
// private-mark byte recorded on the CSI vector.
func (t *Terminal) setModes(a *csiArgs, set bool) {
	if a.privateMark != '?' {
		// Only IRM is implemented as a non-private mode.
		for i := 0; i < a.numParams; i++ {
			if a.arg(i, 0) == 4 {
				t.modes[modeInsert] = set
			}
		}
		return
	}
	for i := 0; i < a.numParams; i++ {
		m := Mode(a.arg(i, 0))
		switch m {
		case ModeAltScreen:
			t.setAltScreen(set)
		case ModeCursorVisible:
			t.cursor.SetVisible(set)
			t.modes[m] = set
		case ModeOrigin:
			t.cursor.SetOrigin(set)
			t.modes[m] = set
		default:
			t.modes[m] = set
		}
	}
}

// setAltScreen implements the 1049 semantics. On set: save the primary
// cursor, switch to alternate, clear it — the cursor is NOT homed (open
// question preserved deliberately). On reset: switch back and restore.
func (t *Terminal) setAltScreen(enter bool) {
	if enter {
		if t.screen.IsAlternate() {
			return
		}
		t.screen.SwitchToAlternate(t.cursor.Save())
		t.modes[ModeAltScreen] = true
		return
	}
	if !t.screen.IsAlternate() {
		return
	}
	saved := t.screen.SwitchToPrimary()
	t.cursor.Restore(saved)
	t.modes[ModeAltScreen] = false
}

// applySGR folds CSI Pn...m into the pen. Unrecognized params are ignored;
// missing parameters default to 0.
func (t *Terminal) applySGR(a *csiArgs) {
	n := a.numParams
	if n == 0 {
		n = 1 // bare "CSI m" behaves as "CSI 0 m"
	}
	for i := 0; i < n; i++ {
		p := a.arg(i, 0)
		switch {
		case p == 0:
			t.cursor.Pen = DefaultPen()
		case p == 1:
			t.cursor.Pen.Attr |= AttrBold
		case p == 2:
			t.cursor.Pen.Attr |= AttrFaint
		case p == 3:
			t.cursor.Pen.Attr |= AttrItalic
		case p == 4:
			t.cursor.Pen.Attr |= AttrUnderline
		case p == 5:
			t.cursor.Pen.Attr |= AttrBlink
		case p == 7:
			t.cursor.Pen.Attr |= AttrReverse
		case p == 8:
			t.cursor.Pen.Attr |= AttrInvisible
		case p == 9:
			t.cursor.Pen.Attr |= AttrStruck
		case p == 22:
			t.cursor.Pen.Attr &^= AttrBold | AttrFaint
		case p == 23:
			t.cursor.Pen.Attr &^= AttrItalic
		case p == 24:
			t.cursor.Pen.Attr &^= AttrUnderline
		case p == 25:
			t.cursor.Pen.Attr &^= AttrBlink
		case p == 27:
			t.cursor.Pen.Attr &^= AttrReverse
		case p == 28:
			t.cursor.Pen.Attr &^= AttrInvisible
		case p == 29:
			t.cursor.Pen.Attr &^= AttrStruck
		case p >= 30 && p <= 37:
			t.cursor.Pen.Fg = PaletteColor(uint8(p - 30))
		case p >= 90 && p <= 97:
			t.cursor.Pen.Fg = PaletteColor(uint8(p-90) + 8)
		case p == 39:
			t.cursor.Pen.Fg = DefaultFgColor
		case p >= 40 && p <= 47:
			t.cursor.Pen.Bg = PaletteColor(uint8(p - 40))
		case p >= 100 && p <= 107:
			t.cursor.Pen.Bg = PaletteColor(uint8(p-100) + 8)
		case p == 49:
			t.cursor.Pen.Bg = DefaultBgColor
		case p == 38 || p == 48:
			consumed := t.applyExtendedColor(a, i, p == 38)
			i += consumed
		}
	}
}

// applyExtendedColor parses the "38;5;N" / "38;2;R;G;B" (and 48;...)
// forms starting at index i (which holds 38/48). Returns how many
// additional parameter slots were consumed so the caller's loop can skip
// them.
func (t *Terminal) applyExtendedColor(a *csiArgs, i int, fg bool) int {
	mode := a.arg(i+1, -1)
	switch mode {
	case 5:
		idx := a.arg(i+2, 0)
		c := PaletteColor(uint8(idx))
		if fg {
			t.cursor.Pen.Fg = c
		} else {
			t.cursor.Pen.Bg = c
		}
		return 2
	case 2:
		r := a.arg(i+2, 0)
		g := a.arg(i+3, 0)
		b := a.arg(i+4, 0)
		c := TrueColor(uint8(r), uint8(g), uint8(b))
		if fg {
			t.cursor.Pen.Fg = c
		} else {
			t.cursor.Pen.Bg = c
		}
		return 4
	default:
		return 0
	}
}

// windowManipulation implements the CSI t (XTWINOPS) subset this core
// supports: 22;2 pushes the window title, 23;2 pops it. Other Ps values
// are window-manager operations this headless core has no window to
// perform and are silently ignored.
func (t *Terminal) windowManipulation(a *csiArgs) {
	switch a.arg(0, 0) {
	case 22:
		if a.arg(1, 0) == 2 || a.numParams < 2 {
			t.PushTitle()
		}
	case 23:
		if a.arg(1, 0) == 2 || a.numParams < 2 {
			t.PopTitle()
		}
	}
}

// fullReset implements ESC c (RIS): reinitialize cursor, pen, scroll
// region, tab stops, and clear both screens.
func (t *Terminal) fullReset() {
	cols, rows := t.screen.Size()
	t.screen = NewScreen(cols, rows)
	t.screen.SetEvictFunc(t.evictLine)
	t.cursor = NewCursor()
	t.primarySavedCursor = SavedCursor{}
	t.tabStops = defaultTabStops(cols)
	t.modes = map[Mode]bool{ModeAutoWrap: true, ModeCursorVisible: true}
	t.title = ""
	t.titleStack = nil
	_ = rows
}
