package vtcore

import (
	"unicode/utf8"
)

// parserState names a VT500-family parser state.
type parserState int

const (
	stateGround parserState = iota
	stateEscape
	stateEscInt
	stateCSIEntry
	stateCSIParam
	stateCSIInt
	stateOSCString
	stateDCSString
	stateStrEscape
)

const (
	maxCSIParams  = 16
	maxIntermeds  = 2
	maxStringBody = 4096 // default OSC/DCS payload bound, error-handling kind 2
)

// csiArgs is the CSI parameter vector. Zeroed on every transition out of
// CSI_PARAM, not merely on entry — stale carryover across sequences is the
// bug class this guards against.
type csiArgs struct {
	params      [maxCSIParams]int
	paramSet    [maxCSIParams]bool
	numParams   int
	privateMark byte // '?', '>', '=', or 0
	intermeds   [maxIntermeds]byte
	numIntermeds int
}

func (a *csiArgs) reset() {
	*a = csiArgs{}
}

// arg returns params[i] if present, else def. A present-but-empty
// parameter (consecutive ';') is also treated as def, per "missing
// parameters default to 0" plus the caller's own default for that slot.
func (a *csiArgs) arg(i, def int) int {
	if i < 0 || i >= a.numParams || !a.paramSet[i] {
		return def
	}
	return a.params[i]
}

// Parser is the VT parser/executor: a byte-oriented, resumable state
// machine that mutates term's screen/cursor/colors and emits signals
// through it. UTF-8 continuation bytes may straddle Feed calls; rawUTF8
// holds partial-sequence state across calls.
type Parser struct {
	term  *Terminal
	state parserState

	csi csiArgs

	escIntermeds   [maxIntermeds]byte
	numEscIntermeds int

	stringKind EscapeKind
	stringBuf  []byte
	stringOverflowed bool

	// strEscapeReturn is the state STR_ESCAPE falls back to if the byte
	// after ESC turns out not to be '\' (not a real ST).
	strEscapeReturn parserState

	rawUTF8    [4]byte
	rawUTF8Len int
	rawUTF8Need int
}

// NewParser returns a parser bound to term, starting in GROUND.
func NewParser(term *Terminal) *Parser {
	return &Parser{term: term}
}

// Feed advances the state machine over data, byte by byte.
func (p *Parser) Feed(data []byte) {
	for _, b := range data {
		p.step(b)
	}
}

func (p *Parser) step(b byte) {
	switch p.state {
	case stateGround:
		p.stepGround(b)
	case stateEscape:
		p.stepEscape(b)
	case stateEscInt:
		p.stepEscInt(b)
	case stateCSIEntry:
		p.stepCSIEntry(b)
	case stateCSIParam:
		p.stepCSIParam(b)
	case stateCSIInt:
		p.stepCSIInt(b)
	case stateOSCString, stateDCSString:
		p.stepString(b)
	case stateStrEscape:
		p.stepStrEscape(b)
	}
}

// ---- GROUND ----

func (p *Parser) stepGround(b byte) {
	if b < 0x20 || b == 0x7F {
		p.controlCode(b)
		return
	}
	p.decodeAndPrint(b)
}

// decodeAndPrint assembles UTF-8 runes across possibly multiple Feed
// calls and writes each completed rune to the grid.
func (p *Parser) decodeAndPrint(b byte) {
	if p.rawUTF8Need == 0 {
		n := utf8SeqLen(b)
		if n == 1 {
			p.putChar(rune(b))
			return
		}
		if n == 0 {
			// Invalid lead byte: malformed UTF-8, kind 1 recovery.
			p.putChar(utf8.RuneError)
			return
		}
		p.rawUTF8[0] = b
		p.rawUTF8Len = 1
		p.rawUTF8Need = n
		return
	}

	if b&0xC0 != 0x80 {
		// Expected a continuation byte and didn't get one: drop the
		// partial sequence, emit replacement, reprocess b fresh.
		p.resetUTF8()
		p.putChar(utf8.RuneError)
		p.stepGround(b)
		return
	}

	p.rawUTF8[p.rawUTF8Len] = b
	p.rawUTF8Len++
	if p.rawUTF8Len < p.rawUTF8Need {
		return
	}

	r, size := utf8.DecodeRune(p.rawUTF8[:p.rawUTF8Len])
	if r == utf8.RuneError && size <= 1 {
		r = utf8.RuneError
	}
	p.resetUTF8()
	p.putChar(r)
}

func (p *Parser) resetUTF8() {
	p.rawUTF8Len = 0
	p.rawUTF8Need = 0
}

func utf8SeqLen(lead byte) int {
	switch {
	case lead&0x80 == 0x00:
		return 1
	case lead&0xE0 == 0xC0:
		return 2
	case lead&0xF0 == 0xE0:
		return 3
	case lead&0xF8 == 0xF0:
		return 4
	default:
		return 0
	}
}

// controlCode executes a C0 control that arrived in GROUND. ESC (0x1B)
// transitions to the escape state; everything else executes immediately.
// C0 bytes arriving in other states never reach this function: the ESC
// and CSI step functions abort on CAN/SUB/ESC and otherwise ignore the
// byte or drop the sequence, and string states treat C0 bytes other than
// CAN/SUB/ESC (and BEL, for OSC) as payload.
func (p *Parser) controlCode(b byte) {
	t := p.term
	switch b {
	case 0x07: // BEL
		t.raiseBell()
	case 0x08: // BS
		if t.cursor.X > 0 {
			t.cursor.X--
		}
		t.cursor.ClearWrapNext()
	case 0x09: // HT
		t.advanceTabStop()
	case 0x0A, 0x0B, 0x0C: // LF/VT/FF
		t.lineFeed()
	case 0x0D: // CR
		t.cursor.X = 0
		t.cursor.ClearWrapNext()
	case 0x0E: // SO
		t.cursor.G = 1
	case 0x0F: // SI
		t.cursor.G = 0
	case 0x1B:
		p.state = stateEscape
		p.numEscIntermeds = 0
		return
	default:
		// Other C0 controls (NUL, ENQ, ACK, ...) are no-ops.
	}
	t.raiseContentsChanged()
}

// ---- ESCAPE ----

func (p *Parser) stepEscape(b byte) {
	switch {
	case b == '[':
		p.csi.reset()
		p.state = stateCSIEntry
	case b == ']':
		p.beginString(EscapeOSC)
	case b == 'P':
		p.beginString(EscapeDCS)
	case b == 'X':
		p.beginString(EscapeSOS)
	case b == '^':
		p.beginString(EscapePM)
	case b == '_':
		p.beginString(EscapeAPC)
	case b >= 0x20 && b <= 0x2F:
		p.numEscIntermeds = 0
		p.escIntermeds[0] = b
		p.numEscIntermeds = 1
		p.state = stateEscInt
	case b >= 0x30 && b <= 0x7E:
		p.dispatchEsc(b, nil)
		p.state = stateGround
	default:
		p.state = stateGround
	}
}

func (p *Parser) stepEscInt(b byte) {
	switch {
	case b >= 0x20 && b <= 0x2F:
		if p.numEscIntermeds < maxIntermeds {
			p.escIntermeds[p.numEscIntermeds] = b
			p.numEscIntermeds++
		}
	case b >= 0x30 && b <= 0x7E:
		p.dispatchEsc(b, p.escIntermeds[:p.numEscIntermeds])
		p.state = stateGround
	default:
		p.state = stateGround
	}
}

func (p *Parser) beginString(kind EscapeKind) {
	p.stringKind = kind
	p.stringBuf = p.stringBuf[:0]
	p.stringOverflowed = false
	if kind == EscapeOSC {
		p.state = stateOSCString
	} else {
		p.state = stateDCSString
	}
}

func (p *Parser) dispatchEsc(final byte, intermeds []byte) {
	t := p.term
	switch final {
	case '7':
		t.saveCursorCurrentBuffer()
	case '8':
		t.restoreCursorCurrentBuffer()
	case 'D':
		t.lineFeed()
	case 'E':
		t.cursor.X = 0
		t.cursor.ClearWrapNext()
		t.lineFeed()
	case 'M':
		t.reverseIndex()
	case 'c':
		t.fullReset()
	case 'B', '0', 'A', '1', '2':
		if len(intermeds) > 0 {
			g := 0
			if intermeds[0] == ')' {
				g = 1
			}
			t.cursor.Charsets[g] = charsetForDesignator(final)
		}
	}
	t.raiseContentsChanged()
}

func charsetForDesignator(d byte) Charset {
	if d == '0' {
		return CharsetLineDrawing
	}
	return CharsetASCII
}

// ---- CSI ----

func (p *Parser) stepCSIEntry(b byte) {
	p.stepCSIParam(b)
}

func (p *Parser) stepCSIParam(b byte) {
	switch {
	case b >= '0' && b <= '9':
		if p.csi.numParams == 0 {
			p.csi.numParams = 1
		}
		i := p.csi.numParams - 1
		if i < maxCSIParams {
			p.csi.params[i] = p.csi.params[i]*10 + int(b-'0')
			p.csi.paramSet[i] = true
		}
		p.state = stateCSIParam
	case b == ';':
		if p.csi.numParams < maxCSIParams {
			p.csi.numParams++
		}
		p.state = stateCSIParam
	case b == '?' || b == '>' || b == '=':
		if p.csi.privateMark == 0 {
			p.csi.privateMark = b
		}
		p.state = stateCSIParam
	case b >= 0x20 && b <= 0x2F:
		if p.csi.numIntermeds < maxIntermeds {
			p.csi.intermeds[p.csi.numIntermeds] = b
			p.csi.numIntermeds++
		}
		p.state = stateCSIInt
	case b >= 0x40 && b <= 0x7E:
		p.dispatchCSI(b)
		p.csi.reset()
		p.state = stateGround
	case b == 0x18 || b == 0x1A:
		p.term.log.Debug().Msg("parser: CSI sequence aborted by CAN/SUB")
		p.csi.reset()
		p.state = stateGround
	case b == 0x1B:
		p.csi.reset()
		p.state = stateEscape
		p.numEscIntermeds = 0
	default:
		// Malformed: ignore the byte, stay in CSI_PARAM (error-handling
		// kind 1).
		p.term.log.Debug().Uint8("byte", b).Msg("parser: ignoring malformed byte in CSI_PARAM")
	}
}

func (p *Parser) stepCSIInt(b byte) {
	switch {
	case b >= 0x20 && b <= 0x2F:
		if p.csi.numIntermeds < maxIntermeds {
			p.csi.intermeds[p.csi.numIntermeds] = b
			p.csi.numIntermeds++
		}
	case b >= 0x40 && b <= 0x7E:
		p.dispatchCSI(b)
		p.csi.reset()
		p.state = stateGround
	case b == 0x18 || b == 0x1A:
		p.csi.reset()
		p.state = stateGround
	case b == 0x1B:
		p.csi.reset()
		p.state = stateEscape
		p.numEscIntermeds = 0
	default:
		p.csi.reset()
		p.state = stateGround
	}
}

// ---- OSC / DCS / SOS / PM / APC string capture ----

func (p *Parser) stepString(b byte) {
	switch b {
	case 0x07:
		if p.state == stateOSCString {
			p.finishString()
			p.state = stateGround
			return
		}
		p.appendStringByte(b)
	case 0x18, 0x1A:
		p.stringBuf = p.stringBuf[:0]
		p.state = stateGround
	case 0x1B:
		p.strEscapeReturn = p.state
		p.state = stateStrEscape
	default:
		p.appendStringByte(b)
	}
}

func (p *Parser) stepStrEscape(b byte) {
	if b == '\\' {
		p.finishString()
		p.state = stateGround
		return
	}
	// Not a real ST: abort the string capture and reprocess b as if it
	// had arrived right after a bare ESC.
	p.stringBuf = p.stringBuf[:0]
	p.state = stateEscape
	p.numEscIntermeds = 0
	p.stepEscape(b)
}

func (p *Parser) appendStringByte(b byte) {
	if len(p.stringBuf) >= maxStringBody {
		p.stringOverflowed = true
		return
	}
	p.stringBuf = append(p.stringBuf, b)
}

func (p *Parser) finishString() {
	payload := append([]byte(nil), p.stringBuf...)
	p.stringBuf = p.stringBuf[:0]
	kind := p.stringKind
	t := p.term

	if p.stringOverflowed {
		// String body exceeded maxStringBody: truncated-but-recoverable,
		// error-handling kind 2.
		t.log.Debug().Int("kind", int(kind)).Int("bytes", len(payload)).
			Msg("parser: string escape payload truncated at max length")
		p.stringOverflowed = false
	}

	// Modules may read terminal state during dispatch (the ordering
	// contract permits re-entrant reads, just not re-entrant Write), so
	// the write lock is released for the duration of the bus call.
	t.mu.Unlock()
	consumed := t.bus.DispatchEscape(kind, payload, t) == Consumed
	t.mu.Lock()

	if consumed {
		return
	}
	if kind == EscapeOSC {
		p.handleOSCFallback(payload)
	}
}

// handleOSCFallback implements the core's own OSC 0/1/2 handling. Other
// OSC numbers are exclusive module territory (spec's OSC-dispatch rule).
func (p *Parser) handleOSCFallback(payload []byte) {
	s := string(payload)
	semi := -1
	for i, c := range s {
		if c == ';' {
			semi = i
			break
		}
	}
	if semi < 0 {
		return
	}
	code := s[:semi]
	text := s[semi+1:]
	switch code {
	case "0", "2":
		p.term.SetTitle(text)
	case "1":
		// Icon name only: no dedicated field, title is left untouched.
	}
}

// ---- CSI dispatch table ----

func (p *Parser) dispatchCSI(final byte) {
	t := p.term
	a := &p.csi

	switch final {
	case '@':
		n := clampAtLeast1(a.arg(0, 1))
		if l := t.screen.Line(t.cursor.Y); l != nil {
			l.InsertBlanks(t.cursor.X, n)
		}
	case 'A':
		t.moveCursorVertical(-clampAtLeast1(a.arg(0, 1)))
	case 'B':
		t.moveCursorVertical(clampAtLeast1(a.arg(0, 1)))
	case 'C':
		t.moveCursorHorizontal(clampAtLeast1(a.arg(0, 1)))
	case 'D':
		t.moveCursorHorizontal(-clampAtLeast1(a.arg(0, 1)))
	case 'E':
		t.moveCursorVertical(clampAtLeast1(a.arg(0, 1)))
		t.cursor.X = 0
		t.cursor.ClearWrapNext()
	case 'F':
		t.moveCursorVertical(-clampAtLeast1(a.arg(0, 1)))
		t.cursor.X = 0
		t.cursor.ClearWrapNext()
	case 'G':
		t.cursorToColumn(a.arg(0, 1) - 1)
	case 'H', 'f':
		t.cursorToPosition(a.arg(1, 1)-1, a.arg(0, 1)-1)
	case 'I':
		for i := 0; i < clampAtLeast1(a.arg(0, 1)); i++ {
			t.advanceTabStop()
		}
	case 'J':
		t.eraseInDisplay(a.arg(0, 0))
	case 'K':
		t.eraseInLine(a.arg(0, 0))
	case 'L':
		t.screen.InsertLines(t.cursor.Y, clampAtLeast1(a.arg(0, 1)))
	case 'M':
		t.screen.DeleteLines(t.cursor.Y, clampAtLeast1(a.arg(0, 1)))
	case 'P':
		if l := t.screen.Line(t.cursor.Y); l != nil {
			l.DeleteChars(t.cursor.X, clampAtLeast1(a.arg(0, 1)))
		}
	case 'S':
		t.screen.ScrollUp(clampAtLeast1(a.arg(0, 1)))
	case 'T':
		t.screen.ScrollDown(clampAtLeast1(a.arg(0, 1)))
	case 'X':
		t.eraseChars(clampAtLeast1(a.arg(0, 1)))
	case 'Z':
		for i := 0; i < clampAtLeast1(a.arg(0, 1)); i++ {
			t.reverseTabStop()
		}
	case 'b':
		t.repeatLastPrintable(clampAtLeast1(a.arg(0, 1)))
	case 'c':
		t.raiseResponse([]byte("\x1b[?6c"))
	case 'd':
		t.cursorToRow(a.arg(0, 1) - 1)
	case 'g':
		t.clearTabStops(a.arg(0, 0))
	case 'h':
		t.setModes(a, true)
	case 'l':
		t.setModes(a, false)
	case 'm':
		t.applySGR(a)
	case 'n':
		t.deviceStatusReport(a.arg(0, 0))
	case 'r':
		t.setScrollRegionFromCSI(a)
	case 's':
		t.saveCursorCurrentBuffer()
	case 'u':
		t.restoreCursorCurrentBuffer()
	case 't':
		t.windowManipulation(a)
	default:
		// Unrecognized final byte: malformed-input recovery, kind 1.
		t.log.Debug().Str("final", string(final)).Msg("parser: ignoring unrecognized CSI final byte")
	}
	t.raiseContentsChanged()
}

func clampAtLeast1(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}
