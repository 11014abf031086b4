package vtcore

import "fmt"

// SnapshotDetail selects how much detail Snapshot includes.
type SnapshotDetail int

const (
	// SnapshotText includes only plain text per line.
	SnapshotText SnapshotDetail = iota
	// SnapshotStyled includes run-length-encoded style segments per line.
	SnapshotStyled
	// SnapshotFull includes every cell individually.
	SnapshotFull
)

// Snapshot is a JSON-serializable view of the screen, consumed by the
// webview module and any other read-only observer that wants a
// point-in-time copy instead of borrowing live Line pointers.
type Snapshot struct {
	Cols       int             `json:"cols"`
	Rows       int             `json:"rows"`
	CursorX    int             `json:"cursor_x"`
	CursorY    int             `json:"cursor_y"`
	CursorVisible bool         `json:"cursor_visible"`
	Title      string          `json:"title"`
	AltScreen  bool            `json:"alt_screen"`
	Lines      []SnapshotLine  `json:"lines"`
}

// SnapshotLine is one row's rendering, in the detail level requested.
type SnapshotLine struct {
	Text     string            `json:"text,omitempty"`
	Segments []SnapshotSegment `json:"segments,omitempty"`
	Cells    []SnapshotCell    `json:"cells,omitempty"`
	Wrapped  bool              `json:"wrapped"`
}

// SnapshotSegment is a run of glyphs sharing the same attrs.
type SnapshotSegment struct {
	Text  string         `json:"text"`
	Attrs SnapshotAttrs  `json:"attrs"`
}

// SnapshotCell is a single glyph, used at SnapshotFull detail.
type SnapshotCell struct {
	Rune  rune          `json:"rune"`
	Attrs SnapshotAttrs `json:"attrs"`
}

// SnapshotAttrs is the hex-color, named-flag rendering of a Pen/Glyph pair.
type SnapshotAttrs struct {
	Fg     string `json:"fg"`
	Bg     string `json:"bg"`
	Bold   bool   `json:"bold,omitempty"`
	Faint  bool   `json:"faint,omitempty"`
	Italic bool   `json:"italic,omitempty"`
	Underline bool `json:"underline,omitempty"`
	Reverse bool  `json:"reverse,omitempty"`
	Struck bool   `json:"struck,omitempty"`
	Invisible bool `json:"invisible,omitempty"`
	Blink  bool   `json:"blink,omitempty"`
}

// Snapshot captures the active screen at the requested detail level.
func (t *Terminal) Snapshot(detail SnapshotDetail) Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	cols, rows := t.screen.Size()
	snap := Snapshot{
		Cols:          cols,
		Rows:          rows,
		CursorX:       t.cursor.X,
		CursorY:       t.cursor.Y,
		CursorVisible: t.cursor.IsVisible(),
		Title:         t.title,
		AltScreen:     t.screen.IsAlternate(),
		Lines:         make([]SnapshotLine, rows),
	}

	grid := t.screen.Active()
	for y, l := range grid {
		snap.Lines[y] = t.lineToSnapshot(l, detail)
	}
	return snap
}

func (t *Terminal) lineToSnapshot(l *Line, detail SnapshotDetail) SnapshotLine {
	out := SnapshotLine{Wrapped: l.IsWrapped()}
	switch detail {
	case SnapshotText:
		out.Text = l.String()
	case SnapshotFull:
		out.Cells = make([]SnapshotCell, 0, len(l.Glyphs))
		for _, g := range l.Glyphs {
			if g.IsDummy() {
				continue
			}
			out.Cells = append(out.Cells, SnapshotCell{
				Rune:  g.Rune,
				Attrs: t.glyphAttrsToSnapshot(g),
			})
		}
	default: // SnapshotStyled
		out.Segments = t.lineToSegments(l)
	}
	return out
}

func (t *Terminal) lineToSegments(l *Line) []SnapshotSegment {
	var segs []SnapshotSegment
	var curAttrs SnapshotAttrs
	haveCur := false

	flush := func(text string, attrs SnapshotAttrs) {
		segs = append(segs, SnapshotSegment{Text: text, Attrs: attrs})
	}

	var buf []rune
	for _, g := range l.Glyphs {
		if g.IsDummy() {
			continue
		}
		attrs := t.glyphAttrsToSnapshot(g)
		if !haveCur {
			curAttrs = attrs
			haveCur = true
			buf = append(buf, g.Rune)
			continue
		}
		if attrs == curAttrs {
			buf = append(buf, g.Rune)
			continue
		}
		flush(string(buf), curAttrs)
		buf = buf[:0]
		buf = append(buf, g.Rune)
		curAttrs = attrs
	}
	if haveCur {
		flush(string(buf), curAttrs)
	}
	return segs
}

func (t *Terminal) glyphAttrsToSnapshot(g Glyph) SnapshotAttrs {
	fg := t.colors.Resolve(g.Fg, true)
	bg := t.colors.Resolve(g.Bg, false)
	if g.Attr&AttrReverse != 0 {
		fg, bg = bg, fg
	}
	return SnapshotAttrs{
		Fg:        colorToHex(fg),
		Bg:        colorToHex(bg),
		Bold:      g.Attr&AttrBold != 0,
		Faint:     g.Attr&AttrFaint != 0,
		Italic:    g.Attr&AttrItalic != 0,
		Underline: g.Attr&AttrUnderline != 0,
		Reverse:   g.Attr&AttrReverse != 0,
		Struck:    g.Attr&AttrStruck != 0,
		Invisible: g.Attr&AttrInvisible != 0,
		Blink:     g.Attr&AttrBlink != 0,
	}
}

func colorToHex(c RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
