package vtcore

import "strings"

// ExtractText renders the inclusive row range [fromY, toY] of the active
// screen as a single string, the way a visual-line selection is copied to
// the clipboard. Each row is trimmed of trailing spaces (via
// Line.FindLastNonspace) before joining, but a row that is entirely blank
// still contributes an empty line to the output — trailing blank rows in
// the range are preserved, not dropped. A row marked LineWrapped joins to
// the previous row without an inserted newline, so a soft-wrapped
// paragraph reads back as one line.
func (t *Terminal) ExtractText(fromY, toY int) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	grid := t.screen.Active()
	if fromY < 0 {
		fromY = 0
	}
	if toY > len(grid)-1 {
		toY = len(grid) - 1
	}
	if fromY > toY {
		return ""
	}

	var b strings.Builder
	for y := fromY; y <= toY; y++ {
		l := grid[y]
		if y > fromY && !l.IsWrapped() {
			b.WriteByte('\n')
		}
		last := l.FindLastNonspace()
		if last < 0 {
			continue
		}
		b.WriteString(l.StringRange(0, last+1))
	}
	return b.String()
}
