package vtcore

import "testing"

func TestScrollbackRingCapacityClamped(t *testing.T) {
	r := NewScrollbackRing(1)
	if r.Capacity() != minScrollbackCapacity {
		t.Errorf("capacity = %d, want %d", r.Capacity(), minScrollbackCapacity)
	}
	r2 := NewScrollbackRing(10_000_000)
	if r2.Capacity() != maxScrollbackCapacity {
		t.Errorf("capacity = %d, want %d", r2.Capacity(), maxScrollbackCapacity)
	}
}

func TestScrollbackRingNewestIsIndexZero(t *testing.T) {
	r := NewScrollbackRing(100)
	for i := 0; i < 3; i++ {
		l := NewLine(5)
		l.SetGlyph(0, Glyph{Rune: rune('a' + i), Fg: DefaultFgColor, Bg: DefaultBgColor})
		r.Append(l, 5)
	}
	newest, ok := r.Get(0)
	if !ok || newest.Glyphs[0].Rune != 'c' {
		t.Fatalf("get(0) should be the most recently appended entry")
	}
	oldest, ok := r.Get(2)
	if !ok || oldest.Glyphs[0].Rune != 'a' {
		t.Fatalf("get(2) should be the first appended entry")
	}
}

func TestScrollbackRingResizePreservesNewest(t *testing.T) {
	r := NewScrollbackRing(100)
	for i := 0; i < 10; i++ {
		l := NewLine(1)
		l.SetGlyph(0, Glyph{Rune: rune('0' + i), Fg: DefaultFgColor, Bg: DefaultBgColor})
		r.Append(l, 1)
	}
	r.Resize(100) // clamps up to min capacity but keeps the 10 entries
	if r.Count() != 10 {
		t.Fatalf("count after resize = %d, want 10", r.Count())
	}
	for i := 0; i < 10; i++ {
		e, ok := r.Get(i)
		if !ok {
			t.Fatalf("get(%d) missing after resize", i)
		}
		want := rune('9' - i)
		if e.Glyphs[0].Rune != want {
			t.Errorf("get(%d).Glyphs[0].Rune = %q, want %q", i, e.Glyphs[0].Rune, want)
		}
	}
}

func TestScrollbackRingResizeShrinkKeepsNewestOnly(t *testing.T) {
	r := NewScrollbackRing(1000)
	for i := 0; i < 500; i++ {
		l := NewLine(1)
		l.SetGlyph(0, Glyph{Rune: rune(i % 10), Fg: DefaultFgColor, Bg: DefaultBgColor})
		r.Append(l, 1)
	}
	r.Resize(100)
	if r.Count() != 100 {
		t.Fatalf("count after shrink = %d, want 100", r.Count())
	}
	newest, _ := r.Get(0)
	if newest.Glyphs[0].Rune != rune(499%10) {
		t.Errorf("newest entry lost after shrink")
	}
}

func TestScrollbackRingScrollOffsetClamped(t *testing.T) {
	r := NewScrollbackRing(100)
	for i := 0; i < 5; i++ {
		r.Append(NewLine(1), 1)
	}
	if changed := r.SetScrollOffset(-5); changed || r.ScrollOffset() != 0 {
		t.Errorf("negative offset should clamp to 0 (already 0, so no change is reported)")
	}
	if changed := r.SetScrollOffset(1000); !changed || r.ScrollOffset() != 5 {
		t.Errorf("oversized offset should clamp to count (5)")
	}
	if changed := r.SetScrollOffset(5); changed {
		t.Errorf("setting to the same value should report no change")
	}
}
