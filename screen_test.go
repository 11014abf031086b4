package vtcore

import "testing"

func TestScreenScrollUpEvictsOnlyFullScreenPrimary(t *testing.T) {
	s := NewScreen(5, 3)
	var evicted []rune
	s.SetEvictFunc(func(l *Line, cols int) {
		evicted = append(evicted, l.Glyph(0).Rune)
	})
	s.Line(0).SetGlyph(0, Glyph{Rune: 'a', Fg: DefaultFgColor, Bg: DefaultBgColor})
	s.ScrollUp(1)
	if len(evicted) != 1 || evicted[0] != 'a' {
		t.Fatalf("full-screen primary scroll-up should evict the discarded row")
	}
}

func TestScreenScrollUpNoEvictOnSubRegion(t *testing.T) {
	s := NewScreen(5, 5)
	evictCount := 0
	s.SetEvictFunc(func(l *Line, cols int) { evictCount++ })
	s.SetScrollRegion(1, 3)
	s.ScrollUp(1)
	if evictCount != 0 {
		t.Errorf("scrolling a sub-region must never evict, got %d evictions", evictCount)
	}
}

func TestScreenScrollUpNoEvictOnAlternate(t *testing.T) {
	s := NewScreen(5, 3)
	evictCount := 0
	s.SetEvictFunc(func(l *Line, cols int) { evictCount++ })
	s.SwitchToAlternate(SavedCursor{})
	s.ScrollUp(1)
	if evictCount != 0 {
		t.Errorf("scrolling the alternate screen must never evict, got %d evictions", evictCount)
	}
}

func TestScreenSwitchToAlternateDoesNotTouchCursor(t *testing.T) {
	s := NewScreen(5, 3)
	saved := SavedCursor{X: 3, Y: 2}
	s.SwitchToAlternate(saved)
	if !s.IsAlternate() {
		t.Fatalf("should have switched to alternate")
	}
	got := s.SwitchToPrimary()
	if got != saved {
		t.Errorf("SwitchToPrimary should return the cursor stashed at SwitchToAlternate")
	}
}

func TestScreenInsertDeleteLines(t *testing.T) {
	s := NewScreen(3, 4)
	for y := 0; y < 4; y++ {
		s.Line(y).SetGlyph(0, Glyph{Rune: rune('0' + y), Fg: DefaultFgColor, Bg: DefaultBgColor})
	}
	s.InsertLines(1, 1)
	if s.Glyph(0, 1).Rune != 0 && s.Glyph(0, 1).Rune != ' ' {
		t.Errorf("inserted line at row 1 should be blank, got %q", s.Glyph(0, 1).Rune)
	}
	if s.Glyph(0, 2).Rune != '1' {
		t.Errorf("row 1's old content should shift to row 2, got %q", s.Glyph(0, 2).Rune)
	}

	s2 := NewScreen(3, 4)
	for y := 0; y < 4; y++ {
		s2.Line(y).SetGlyph(0, Glyph{Rune: rune('0' + y), Fg: DefaultFgColor, Bg: DefaultBgColor})
	}
	s2.DeleteLines(1, 1)
	if s2.Glyph(0, 1).Rune != '2' {
		t.Errorf("delete_lines should pull row 2's content up to row 1, got %q", s2.Glyph(0, 1).Rune)
	}
}

func TestScreenResizePreservesGlyphsAtMatchingCoords(t *testing.T) {
	s := NewScreen(5, 3)
	s.Line(0).SetGlyph(0, Glyph{Rune: 'z', Fg: DefaultFgColor, Bg: DefaultBgColor})
	s.Resize(8, 6)
	if s.Glyph(0, 0).Rune != 'z' {
		t.Errorf("resize should preserve glyphs at matching coordinates")
	}
	top, bottom := s.ScrollRegion()
	if top != 0 || bottom != 5 {
		t.Errorf("resize should reset the scroll region to the full new screen, got (%d,%d)", top, bottom)
	}
}

func TestScreenSetScrollRegionRejectsInverted(t *testing.T) {
	s := NewScreen(5, 10)
	s.SetScrollRegion(5, 2)
	top, bottom := s.ScrollRegion()
	if top != 0 || bottom != 9 {
		t.Errorf("inverted region request should be ignored, got (%d,%d)", top, bottom)
	}
}
