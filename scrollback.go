package vtcore

const (
	minScrollbackCapacity = 100
	maxScrollbackCapacity = 1_000_000
)

// ScrollbackEntry is an owned snapshot of an evicted line's glyphs, wide
// enough to outlive the screen row it was copied from.
type ScrollbackEntry struct {
	Glyphs []Glyph
	Cols   int
}

// ScrollbackRing is a fixed-capacity ring buffer of evicted lines. Index 0
// addresses the most recently evicted line; entries beyond Count are
// absent. The ring owns its glyphs — eviction always copies.
type ScrollbackRing struct {
	lines []ScrollbackEntry
	head  int // next write slot
	count int

	scrollOffset int
}

// NewScrollbackRing returns a ring clamped to [100, 1_000_000] capacity.
func NewScrollbackRing(capacity int) *ScrollbackRing {
	capacity = clampCapacity(capacity)
	return &ScrollbackRing{lines: make([]ScrollbackEntry, capacity)}
}

func clampCapacity(c int) int {
	if c < minScrollbackCapacity {
		return minScrollbackCapacity
	}
	if c > maxScrollbackCapacity {
		return maxScrollbackCapacity
	}
	return c
}

// Capacity returns the ring's current capacity.
func (r *ScrollbackRing) Capacity() int {
	return len(r.lines)
}

// Count returns the number of entries currently held.
func (r *ScrollbackRing) Count() int {
	return r.count
}

// Append copies l's glyphs into the ring, evicting the oldest entry by
// overwrite if the ring is saturated. Intended to be wired as the
// Screen's EvictFunc via the terminal's line-scrolled-out signal.
func (r *ScrollbackRing) Append(l *Line, cols int) {
	ringCap := len(r.lines)
	if ringCap == 0 {
		return
	}
	entry := ScrollbackEntry{Glyphs: make([]Glyph, cols), Cols: cols}
	copy(entry.Glyphs, l.Glyphs)
	r.lines[r.head] = entry
	r.head = (r.head + 1) % ringCap
	if r.count < ringCap {
		r.count++
	}
}

// Get returns the index-th-most-recently evicted line (0 = newest) and
// whether an entry exists at that index.
func (r *ScrollbackRing) Get(index int) (ScrollbackEntry, bool) {
	if index < 0 || index >= r.count {
		return ScrollbackEntry{}, false
	}
	ringCap := len(r.lines)
	slot := ((r.head-1-index)%ringCap + ringCap) % ringCap
	return r.lines[slot], true
}

// ScrollOffset returns how many rows the viewer has scrolled into history;
// 0 means live.
func (r *ScrollbackRing) ScrollOffset() int {
	return r.scrollOffset
}

// SetScrollOffset clamps and sets the viewer's scroll offset. Returns true
// if the offset actually changed (an observable state change that should
// trigger contents-changed).
func (r *ScrollbackRing) SetScrollOffset(n int) bool {
	if n < 0 {
		n = 0
	}
	if n > r.count {
		n = r.count
	}
	if n == r.scrollOffset {
		return false
	}
	r.scrollOffset = n
	return true
}

// Resize changes capacity, preserving the newest min(count, newCap)
// entries. Read semantics (Get indexing) are unchanged afterward.
func (r *ScrollbackRing) Resize(newCap int) {
	newCap = clampCapacity(newCap)
	keep := r.count
	if keep > newCap {
		keep = newCap
	}

	newLines := make([]ScrollbackEntry, newCap)
	for i := 0; i < keep; i++ {
		entry, _ := r.Get(i)
		newLines[keep-1-i] = entry
	}
	// newLines is laid out so that the i-th most recent entry sits at slot
	// keep-1-i, matching a ring whose head is keep and has keep entries.
	r.lines = newLines
	r.count = keep
	r.head = keep % newCap
	if r.scrollOffset > r.count {
		r.scrollOffset = r.count
	}
}
