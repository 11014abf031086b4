package vtcore

// GlyphAttr is a bitset of rendering attributes for a single glyph.
type GlyphAttr uint16

const (
	AttrBold GlyphAttr = 1 << iota
	AttrFaint
	AttrItalic
	AttrUnderline
	AttrReverse
	AttrStruck
	AttrInvisible
	// AttrWide marks the left cell of a double-width character.
	AttrWide
	// AttrWDummy marks the right cell of a double-width character; its rune
	// is ignored by all readers (text extraction, hashing, search).
	AttrWDummy
	AttrBlink
)

// Glyph is one grid cell: a rune plus its attributes and colors.
type Glyph struct {
	Rune rune
	Attr GlyphAttr
	Fg   Color
	Bg   Color
}

// NewGlyph returns an empty glyph: a space on the scheme's default colors.
func NewGlyph() Glyph {
	return Glyph{Rune: ' ', Fg: DefaultFgColor, Bg: DefaultBgColor}
}

// Copy returns a value copy (Glyph has no reference fields, so this is
// equivalent to plain assignment; kept for symmetry with the Line/Screen
// copy operations that do need to deep-copy).
func (g Glyph) Copy() Glyph {
	return g
}

// Equal reports component-wise equality.
func (g Glyph) Equal(o Glyph) bool {
	return g == o
}

// IsEmpty reports whether the glyph is a blank cell: a space or NUL rune, or
// the dummy half of a wide character.
func (g Glyph) IsEmpty() bool {
	return g.Rune == ' ' || g.Rune == 0 || g.Attr&AttrWDummy != 0
}

// IsWide reports whether this is the left cell of a double-width character.
func (g Glyph) IsWide() bool {
	return g.Attr&AttrWide != 0
}

// IsDummy reports whether this is the right (spacer) cell of a double-width
// character.
func (g Glyph) IsDummy() bool {
	return g.Attr&AttrWDummy != 0
}

// HasAttr reports whether all bits in mask are set (all-of semantics).
func (g Glyph) HasAttr(mask GlyphAttr) bool {
	return g.Attr&mask == mask
}

// SetAttr sets the given attribute bits without affecting others.
func (g *Glyph) SetAttr(mask GlyphAttr) {
	g.Attr |= mask
}

// ClearAttr clears the given attribute bits without affecting others.
func (g *Glyph) ClearAttr(mask GlyphAttr) {
	g.Attr &^= mask
}

// Reset restores the glyph to its empty state.
func (g *Glyph) Reset() {
	*g = NewGlyph()
}
