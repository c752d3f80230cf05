package term

import (
	"bufio"
	"strconv"
	"strings"
	"unicode"

	"github.com/dshills/linestorm/key"
)

// decoder turns the terminal's raw input bytes into key events. It handles
// UTF-8 characters, C0 control bytes, and the common CSI/SS3 escape
// sequences including xterm-style modifier parameters.
type decoder struct {
	r *bufio.Reader
}

func newDecoder(r *bufio.Reader) *decoder {
	return &decoder{r: r}
}

// next decodes one key event. Events with KeyNone signal input the decoder
// recognized but has no mapping for; callers skip them.
func (d *decoder) next() (key.Event, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return key.Event{}, err
	}

	switch b {
	case 0x1b:
		return d.decodeEscape()
	case '\r':
		// Raw mode delivers Enter as CR; a bare LF can only be Ctrl+J,
		// which falls through to the C0 mapping below.
		return key.NewSpecialEvent(key.KeyEnter, key.ModNone), nil
	case '\t':
		return key.NewSpecialEvent(key.KeyTab, key.ModNone), nil
	case 0x7f, 0x08:
		return key.NewSpecialEvent(key.KeyBackspace, key.ModNone), nil
	}

	// Remaining C0 bytes are Ctrl+letter.
	if b < 0x20 {
		if b >= 0x01 && b <= 0x1a {
			return key.NewRuneEvent(rune('a'+b-1), key.ModCtrl), nil
		}
		return key.Event{}, nil
	}

	// UTF-8 character; multi-byte sequences decode via the buffered reader.
	if b < 0x80 {
		return key.NewRuneEvent(rune(b), key.ModNone), nil
	}
	if err := d.r.UnreadByte(); err != nil {
		return key.Event{}, err
	}
	r, _, err := d.r.ReadRune()
	if err != nil {
		return key.Event{}, err
	}
	return key.NewRuneEvent(r, key.ModNone), nil
}

// decodeEscape handles input after an ESC byte: CSI and SS3 sequences, an
// Alt-prefixed key, or a bare Escape press.
func (d *decoder) decodeEscape() (key.Event, error) {
	// A lone ESC has no follow-up bytes buffered.
	if d.r.Buffered() == 0 {
		return key.NewSpecialEvent(key.KeyEscape, key.ModNone), nil
	}

	b, err := d.r.ReadByte()
	if err != nil {
		return key.Event{}, err
	}

	switch b {
	case '[':
		return d.decodeCSI()
	case 'O':
		return d.decodeSS3()
	case '\r', '\n':
		return key.NewSpecialEvent(key.KeyEnter, key.ModAlt), nil
	case 0x7f, 0x08:
		return key.NewSpecialEvent(key.KeyBackspace, key.ModAlt), nil
	}

	if r := rune(b); unicode.IsPrint(r) {
		return key.NewRuneEvent(r, key.ModAlt), nil
	}
	return key.Event{}, nil
}

// decodeCSI reads a CSI sequence: parameter bytes up to a final byte in
// [0x40, 0x7e], then maps it.
func (d *decoder) decodeCSI() (key.Event, error) {
	var params strings.Builder
	var final byte
	for {
		b, err := d.r.ReadByte()
		if err != nil {
			return key.Event{}, err
		}
		if b >= 0x40 && b <= 0x7e {
			final = b
			break
		}
		params.WriteByte(b)
	}

	p := strings.Split(params.String(), ";")
	mods := csiModifiers(p)

	switch final {
	case 'A':
		return key.NewSpecialEvent(key.KeyUp, mods), nil
	case 'B':
		return key.NewSpecialEvent(key.KeyDown, mods), nil
	case 'C':
		return key.NewSpecialEvent(key.KeyRight, mods), nil
	case 'D':
		return key.NewSpecialEvent(key.KeyLeft, mods), nil
	case 'H':
		return key.NewSpecialEvent(key.KeyHome, mods), nil
	case 'F':
		return key.NewSpecialEvent(key.KeyEnd, mods), nil
	case 'Z':
		return key.NewSpecialEvent(key.KeyTab, key.ModShift), nil
	case '~':
		return tildeKey(p, mods), nil
	}
	return key.Event{}, nil
}

// decodeSS3 reads the single byte after ESC O.
func (d *decoder) decodeSS3() (key.Event, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return key.Event{}, err
	}
	switch b {
	case 'A':
		return key.NewSpecialEvent(key.KeyUp, key.ModNone), nil
	case 'B':
		return key.NewSpecialEvent(key.KeyDown, key.ModNone), nil
	case 'C':
		return key.NewSpecialEvent(key.KeyRight, key.ModNone), nil
	case 'D':
		return key.NewSpecialEvent(key.KeyLeft, key.ModNone), nil
	case 'H':
		return key.NewSpecialEvent(key.KeyHome, key.ModNone), nil
	case 'F':
		return key.NewSpecialEvent(key.KeyEnd, key.ModNone), nil
	case 'P':
		return key.NewSpecialEvent(key.KeyF1, key.ModNone), nil
	case 'Q':
		return key.NewSpecialEvent(key.KeyF2, key.ModNone), nil
	case 'R':
		return key.NewSpecialEvent(key.KeyF3, key.ModNone), nil
	case 'S':
		return key.NewSpecialEvent(key.KeyF4, key.ModNone), nil
	}
	return key.Event{}, nil
}

// tildeKey maps "CSI n ~" sequences.
func tildeKey(params []string, mods key.Modifier) key.Event {
	n, _ := strconv.Atoi(params[0])
	switch n {
	case 1, 7:
		return key.NewSpecialEvent(key.KeyHome, mods)
	case 2:
		return key.NewSpecialEvent(key.KeyInsert, mods)
	case 3:
		return key.NewSpecialEvent(key.KeyDelete, mods)
	case 4, 8:
		return key.NewSpecialEvent(key.KeyEnd, mods)
	case 5:
		return key.NewSpecialEvent(key.KeyPageUp, mods)
	case 6:
		return key.NewSpecialEvent(key.KeyPageDown, mods)
	}
	return key.Event{}
}

// csiModifiers extracts xterm modifier encoding from the second CSI
// parameter: the parameter minus one is a bitmask of Shift(1), Alt(2),
// Ctrl(4).
func csiModifiers(params []string) key.Modifier {
	if len(params) < 2 {
		return key.ModNone
	}
	n, err := strconv.Atoi(params[1])
	if err != nil || n < 2 {
		return key.ModNone
	}
	bits := n - 1
	var mods key.Modifier
	if bits&1 != 0 {
		mods = mods.With(key.ModShift)
	}
	if bits&2 != 0 {
		mods = mods.With(key.ModAlt)
	}
	if bits&4 != 0 {
		mods = mods.With(key.ModCtrl)
	}
	return mods
}
