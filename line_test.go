package vtcore

import "testing"

func TestLineResizePreservesPrefix(t *testing.T) {
	l := NewLine(5)
	for i, r := range "hello" {
		l.SetGlyph(i, Glyph{Rune: r, Fg: DefaultFgColor, Bg: DefaultBgColor})
	}
	l.Resize(3)
	if got := l.String(); got != "hel" {
		t.Errorf("after shrink = %q, want %q", got, "hel")
	}
	l.Resize(6)
	if got := l.String(); got != "hel   " {
		t.Errorf("after grow = %q, want %q", got, "hel   ")
	}
	if !l.IsDirty() {
		t.Errorf("resize must mark dirty")
	}
}

func TestLineDeleteChars(t *testing.T) {
	l := NewLine(5)
	for i, r := range "abcde" {
		l.SetGlyph(i, Glyph{Rune: r, Fg: DefaultFgColor, Bg: DefaultBgColor})
	}
	l.DeleteChars(1, 2)
	if got := l.String(); got != "de   " {
		t.Errorf("delete_chars = %q, want %q", got, "de   ")
	}
}

func TestLineInsertBlanks(t *testing.T) {
	l := NewLine(5)
	for i, r := range "abcde" {
		l.SetGlyph(i, Glyph{Rune: r, Fg: DefaultFgColor, Bg: DefaultBgColor})
	}
	l.InsertBlanks(1, 2)
	if got := l.String(); got != "a  bc" {
		t.Errorf("insert_blanks = %q, want %q", got, "a  bc")
	}
}

func TestLineFindLastNonspace(t *testing.T) {
	l := NewLine(5)
	if l.FindLastNonspace() != -1 {
		t.Errorf("empty line should report -1")
	}
	l.SetGlyph(2, Glyph{Rune: 'x', Fg: DefaultFgColor, Bg: DefaultBgColor})
	if l.FindLastNonspace() != 2 {
		t.Errorf("find_last_nonspace = %d, want 2", l.FindLastNonspace())
	}
}

func TestLineCopyIsIndependent(t *testing.T) {
	l := NewLine(3)
	cp := l.Copy()
	cp.SetGlyph(0, Glyph{Rune: 'z', Fg: DefaultFgColor, Bg: DefaultBgColor})
	if l.Glyph(0).Rune == 'z' {
		t.Errorf("copy must not alias the original's backing array")
	}
}

func TestGlyphIsEmptyAndWide(t *testing.T) {
	g := NewGlyph()
	if !g.IsEmpty() {
		t.Errorf("fresh glyph should be empty")
	}
	g.Rune = '中'
	g.SetAttr(AttrWide)
	if !g.IsWide() {
		t.Errorf("glyph with AttrWide should report IsWide")
	}
	if g.IsEmpty() {
		t.Errorf("non-space glyph should not be empty")
	}
}

func TestGlyphHasAttrAllOf(t *testing.T) {
	g := NewGlyph()
	g.SetAttr(AttrBold | AttrItalic)
	if !g.HasAttr(AttrBold | AttrItalic) {
		t.Errorf("HasAttr should be true when all requested bits are set")
	}
	if g.HasAttr(AttrBold | AttrUnderline) {
		t.Errorf("HasAttr should be false when only some bits are set")
	}
}
