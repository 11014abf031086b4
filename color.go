package vtcore

// Color is a 32-bit tagged color value. Values 0-255 are palette indices.
// DefaultFgColor/DefaultBgColor select the scheme's default foreground and
// background. Values with colorTruecolorBit set carry an inline RGB payload
// and bypass the palette entirely.
type Color uint32

const (
	// DefaultFgColor selects the color scheme's default foreground.
	DefaultFgColor Color = 256
	// DefaultBgColor selects the color scheme's default background.
	DefaultBgColor Color = 257

	colorTruecolorBit Color = 1 << 24
)

// PaletteColor returns a Color referencing palette index i (0-255).
func PaletteColor(i uint8) Color {
	return Color(i)
}

// TrueColor returns a Color carrying an inline 24-bit RGB payload.
func TrueColor(r, g, b uint8) Color {
	return colorTruecolorBit | Color(r)<<16 | Color(g)<<8 | Color(b)
}

// IsTruecolor reports whether c carries an inline RGB payload rather than
// referencing the palette or a default slot.
func (c Color) IsTruecolor() bool {
	return c&colorTruecolorBit != 0
}

// IsPaletteIndex reports whether c is a direct palette index (0-255).
func (c Color) IsPaletteIndex() bool {
	return c < 256
}

// RGB extracts the inline RGB payload. Only meaningful when IsTruecolor is true.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// RGBA is a resolved 24-bit color with 8-bit alpha, used as the output of
// ColorScheme resolution.
type RGBA struct {
	R, G, B, A uint8
}

// ColorScheme holds the 256-entry palette plus default foreground,
// background, and cursor colors. The first dynamic mutation snapshots the
// scheme's state into originals so a full-reset escape sequence can restore
// it; originals stays nil until that first mutation (spec §4.G, §9: OSC 104
// with no prior mutation is a silent no-op).
type ColorScheme struct {
	Palette      [256]RGBA
	DefaultFg    RGBA
	DefaultBg    RGBA
	CursorColor  RGBA
	originals    *colorSchemeSnapshot
}

type colorSchemeSnapshot struct {
	palette     [256]RGBA
	defaultFg   RGBA
	defaultBg   RGBA
	cursorColor RGBA
}

// NewColorScheme builds a scheme from the standard 16-color ANSI set, the
// 6x6x6 color cube, and 24-step grayscale ramp (the conventional xterm
// 256-color palette), with a light-gray-on-black default pen.
func NewColorScheme() *ColorScheme {
	cs := &ColorScheme{
		DefaultFg:   RGBA{229, 229, 229, 255},
		DefaultBg:   RGBA{0, 0, 0, 255},
		CursorColor: RGBA{229, 229, 229, 255},
	}

	copy(cs.Palette[:16], ansiPalette16[:])

	i := 16
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				cs.Palette[i] = RGBA{R: cube6(r), G: cube6(g), B: cube6(b), A: 255}
				i++
			}
		}
	}
	for j := 0; j < 24; j++ {
		gray := uint8(8 + j*10)
		cs.Palette[232+j] = RGBA{gray, gray, gray, 255}
	}

	return cs
}

func cube6(v int) uint8 {
	if v == 0 {
		return 0
	}
	return uint8(55 + v*40)
}

var ansiPalette16 = [16]RGBA{
	{0, 0, 0, 255}, {205, 49, 49, 255}, {13, 188, 121, 255}, {229, 229, 16, 255},
	{36, 114, 200, 255}, {188, 63, 188, 255}, {17, 168, 205, 255}, {229, 229, 229, 255},
	{102, 102, 102, 255}, {241, 76, 76, 255}, {35, 209, 139, 255}, {245, 245, 67, 255},
	{59, 142, 234, 255}, {214, 112, 214, 255}, {41, 184, 219, 255}, {255, 255, 255, 255},
}

// Resolve converts a Color to RGBA, consulting the palette and defaults.
func (cs *ColorScheme) Resolve(c Color, fg bool) RGBA {
	switch {
	case c.IsTruecolor():
		r, g, b := c.RGB()
		return RGBA{r, g, b, 255}
	case c == DefaultFgColor:
		return cs.DefaultFg
	case c == DefaultBgColor:
		return cs.DefaultBg
	case c.IsPaletteIndex():
		return cs.Palette[c]
	default:
		if fg {
			return cs.DefaultFg
		}
		return cs.DefaultBg
	}
}

// snapshotIfNeeded takes the first-mutation snapshot used by full-reset
// restoration. Safe to call before every mutation; only the first call acts.
func (cs *ColorScheme) snapshotIfNeeded() {
	if cs.originals != nil {
		return
	}
	cs.originals = &colorSchemeSnapshot{
		palette:     cs.Palette,
		defaultFg:   cs.DefaultFg,
		defaultBg:   cs.DefaultBg,
		cursorColor: cs.CursorColor,
	}
}

// SetColor mutates palette index i.
func (cs *ColorScheme) SetColor(i int, c RGBA) {
	if i < 0 || i >= 256 {
		return
	}
	cs.snapshotIfNeeded()
	cs.Palette[i] = c
}

// SetForeground mutates the default foreground color.
func (cs *ColorScheme) SetForeground(c RGBA) {
	cs.snapshotIfNeeded()
	cs.DefaultFg = c
}

// SetBackground mutates the default background color.
func (cs *ColorScheme) SetBackground(c RGBA) {
	cs.snapshotIfNeeded()
	cs.DefaultBg = c
}

// SetCursorColor mutates the cursor rendering color.
func (cs *ColorScheme) SetCursorColor(c RGBA) {
	cs.snapshotIfNeeded()
	cs.CursorColor = c
}

// ResetAll restores the snapshot taken on first mutation. A no-op (not an
// error) if no mutation has happened yet — spec §9 open question.
func (cs *ColorScheme) ResetAll() {
	if cs.originals == nil {
		return
	}
	cs.Palette = cs.originals.palette
	cs.DefaultFg = cs.originals.defaultFg
	cs.DefaultBg = cs.originals.defaultBg
	cs.CursorColor = cs.originals.cursorColor
}

// ResetIndex restores a single palette index from the snapshot, if one
// exists; otherwise it is a no-op.
func (cs *ColorScheme) ResetIndex(i int) {
	if cs.originals == nil || i < 0 || i >= 256 {
		return
	}
	cs.Palette[i] = cs.originals.palette[i]
}
