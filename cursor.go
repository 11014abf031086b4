package vtcore

// CursorShape selects how the cursor is rendered.
type CursorShape int

const (
	CursorBlock CursorShape = iota
	CursorUnderline
	CursorBar
)

// CursorStateBit is a bitset of cursor mode flags.
type CursorStateBit uint8

const (
	// CursorVisible is DECTCEM visibility (inverted sense of the "hide" bit).
	CursorVisible CursorStateBit = 1 << iota
	// CursorWrapNext is the deferred-wrap latch: set when a glyph is
	// written into the rightmost column without advancing x. The next
	// printable rune or any cursor-motion that reads x must consume the
	// latch first.
	CursorWrapNext
	// CursorOrigin is DECOM: cursor-position commands become relative to
	// the active scroll region.
	CursorOrigin
)

// Charset selects a G0-G3 character-set slot's translation table.
type Charset int

const (
	CharsetASCII Charset = iota
	CharsetLineDrawing
)

// Pen is the current SGR state applied to newly written glyphs.
type Pen struct {
	Attr GlyphAttr
	Fg   Color
	Bg   Color
}

// DefaultPen returns the reset pen: no attributes, default colors.
func DefaultPen() Pen {
	return Pen{Fg: DefaultFgColor, Bg: DefaultBgColor}
}

// Cursor holds position, shape, the wrap-next latch, and the active pen.
type Cursor struct {
	X, Y    int
	Shape   CursorShape
	State   CursorStateBit
	Pen     Pen
	Charset Charset
	// G is the selected G0/G1 slot (SO/SI), indexing into Charsets.
	G        int
	Charsets [2]Charset
}

// NewCursor returns a cursor at the origin, visible, with the default pen.
func NewCursor() Cursor {
	return Cursor{State: CursorVisible, Pen: DefaultPen()}
}

// IsVisible reports DECTCEM visibility.
func (c *Cursor) IsVisible() bool {
	return c.State&CursorVisible != 0
}

// SetVisible sets or clears DECTCEM visibility.
func (c *Cursor) SetVisible(v bool) {
	if v {
		c.State |= CursorVisible
	} else {
		c.State &^= CursorVisible
	}
}

// HasWrapNext reports whether the wrap-next latch is armed.
func (c *Cursor) HasWrapNext() bool {
	return c.State&CursorWrapNext != 0
}

// SetWrapNext arms the wrap-next latch without moving x.
func (c *Cursor) SetWrapNext() {
	c.State |= CursorWrapNext
}

// ClearWrapNext disarms the latch unconditionally. CR, BS, and any
// cursor-addressing or explicit column-set command call this.
func (c *Cursor) ClearWrapNext() {
	c.State &^= CursorWrapNext
}

// IsOrigin reports whether DECOM (origin mode) is active.
func (c *Cursor) IsOrigin() bool {
	return c.State&CursorOrigin != 0
}

// SetOrigin sets or clears DECOM.
func (c *Cursor) SetOrigin(v bool) {
	if v {
		c.State |= CursorOrigin
	} else {
		c.State &^= CursorOrigin
	}
}

// activeCharset returns the charset currently selected via SO/SI.
func (c *Cursor) activeCharset() Charset {
	return c.Charsets[c.G]
}

// SavedCursor is a snapshot taken by DECSC/SCOSC, restored by DECRC/SCORC.
// Restoring must preserve CursorWrapNext exactly as saved.
type SavedCursor struct {
	X, Y     int
	State    CursorStateBit
	Pen      Pen
	G        int
	Charsets [2]Charset
}

// Save captures the cursor's full restorable state, including WRAPNEXT.
func (c *Cursor) Save() SavedCursor {
	return SavedCursor{
		X:        c.X,
		Y:        c.Y,
		State:    c.State,
		Pen:      c.Pen,
		G:        c.G,
		Charsets: c.Charsets,
	}
}

// Restore copies a saved snapshot back in full, including WRAPNEXT.
func (c *Cursor) Restore(s SavedCursor) {
	c.X = s.X
	c.Y = s.Y
	c.State = s.State
	c.Pen = s.Pen
	c.G = s.G
	c.Charsets = s.Charsets
}
