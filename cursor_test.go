package vtcore

import "testing"

func TestCursorWrapNextLatch(t *testing.T) {
	c := NewCursor()
	if c.HasWrapNext() {
		t.Fatalf("fresh cursor should not have WRAPNEXT armed")
	}
	c.SetWrapNext()
	if !c.HasWrapNext() {
		t.Errorf("SetWrapNext should arm the latch")
	}
	c.ClearWrapNext()
	if c.HasWrapNext() {
		t.Errorf("ClearWrapNext should disarm the latch")
	}
}

func TestCursorSaveRestoreRoundTrip(t *testing.T) {
	c := NewCursor()
	c.X, c.Y = 5, 7
	c.SetWrapNext()
	c.Pen.Attr = AttrBold
	c.G = 1
	c.Charsets[1] = CharsetLineDrawing

	saved := c.Save()

	c.X, c.Y = 0, 0
	c.ClearWrapNext()
	c.Pen.Attr = 0
	c.G = 0

	c.Restore(saved)
	if c.X != 5 || c.Y != 7 {
		t.Errorf("restored position = (%d,%d), want (5,7)", c.X, c.Y)
	}
	if !c.HasWrapNext() {
		t.Errorf("restore should bring back WRAPNEXT")
	}
	if c.Pen.Attr != AttrBold {
		t.Errorf("restore should bring back the saved pen")
	}
	if c.G != 1 || c.Charsets[1] != CharsetLineDrawing {
		t.Errorf("restore should bring back the charset slot selection")
	}
}

func TestCursorVisibilityToggle(t *testing.T) {
	c := NewCursor()
	if !c.IsVisible() {
		t.Fatalf("cursor should start visible")
	}
	c.SetVisible(false)
	if c.IsVisible() {
		t.Errorf("SetVisible(false) should hide the cursor")
	}
}

func TestCursorOriginMode(t *testing.T) {
	c := NewCursor()
	if c.IsOrigin() {
		t.Fatalf("origin mode should start off")
	}
	c.SetOrigin(true)
	if !c.IsOrigin() {
		t.Errorf("SetOrigin(true) should enable origin mode")
	}
}
