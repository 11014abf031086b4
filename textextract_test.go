package vtcore

import "testing"

func TestExtractTextTrimsTrailingSpacesPerRow(t *testing.T) {
	term := New(10, 3)
	term.WriteString("hi")
	term.SetCursorPos(0, 1)
	term.WriteString("there")

	got := term.ExtractText(0, 1)
	want := "hi\nthere"
	if got != want {
		t.Errorf("ExtractText = %q, want %q", got, want)
	}
}

func TestExtractTextPreservesTrailingEmptyRows(t *testing.T) {
	term := New(10, 3)
	term.WriteString("hi")

	got := term.ExtractText(0, 2)
	want := "hi\n\n"
	if got != want {
		t.Errorf("ExtractText with trailing blank rows = %q, want %q", got, want)
	}
}

func TestExtractTextJoinsWrappedRowsWithoutNewline(t *testing.T) {
	term := New(5, 2)
	term.WriteString("abcde") // fills row 0, arms WRAPNEXT
	term.WriteString("fg")    // wraps onto row 1
	term.GetLine(1).SetWrapped(true)

	got := term.ExtractText(0, 1)
	want := "abcdefg"
	if got != want {
		t.Errorf("ExtractText across a wrapped row = %q, want %q", got, want)
	}
}
