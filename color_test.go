package vtcore

import "testing"

func TestColorTruecolorRoundTrip(t *testing.T) {
	c := TrueColor(10, 20, 30)
	if !c.IsTruecolor() {
		t.Fatalf("TrueColor value should report IsTruecolor")
	}
	r, g, b := c.RGB()
	if r != 10 || g != 20 || b != 30 {
		t.Errorf("RGB() = (%d,%d,%d), want (10,20,30)", r, g, b)
	}
}

func TestColorSchemeResolveDefaults(t *testing.T) {
	cs := NewColorScheme()
	if got := cs.Resolve(DefaultFgColor, true); got != cs.DefaultFg {
		t.Errorf("resolving DefaultFgColor should return DefaultFg")
	}
	if got := cs.Resolve(DefaultBgColor, false); got != cs.DefaultBg {
		t.Errorf("resolving DefaultBgColor should return DefaultBg")
	}
}

func TestColorSchemeResetAllNoopBeforeMutation(t *testing.T) {
	cs := NewColorScheme()
	original := cs.DefaultFg
	cs.ResetAll() // no prior mutation: must be a silent no-op
	if cs.DefaultFg != original {
		t.Errorf("reset_all before any mutation must not alter state")
	}
}

func TestColorSchemeResetAllRestoresAfterMutation(t *testing.T) {
	cs := NewColorScheme()
	original := cs.DefaultFg
	cs.SetForeground(RGBA{1, 2, 3, 255})
	cs.ResetAll()
	if cs.DefaultFg != original {
		t.Errorf("reset_all after a mutation should restore the first-snapshot value")
	}
}

func TestColorSchemeResetIndex(t *testing.T) {
	cs := NewColorScheme()
	original := cs.Palette[5]
	cs.SetColor(5, RGBA{9, 9, 9, 255})
	cs.ResetIndex(5)
	if cs.Palette[5] != original {
		t.Errorf("reset_index should restore the snapshotted palette entry")
	}
}
