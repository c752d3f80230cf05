package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dshills/linestorm/internal/grapheme"
)

// Escape sequences used for painting. Plain CSI, no styling.
const (
	seqEraseDown   = "\x1b[J"  // erase from cursor to end of screen
	seqEraseLine   = "\x1b[2K" // erase entire current line
	seqClearScreen = "\x1b[2J\x1b[H"
)

// State records what is currently painted on the terminal.
type State struct {
	rows      []string
	cursorRow int // visual row of the cursor within the block
	cursorCol int // visual column of the cursor

	// valid is false when no block is painted (before the first draw and
	// after Commit); painting then starts at the current terminal line.
	valid bool

	// trailingOpen marks an unfinished foreign output line above the
	// block; trailingWidth is its display width so the next flush can
	// continue it.
	trailingOpen  bool
	trailingWidth int
}

// Renderer owns the terminal sink and the last-painted state.
type Renderer struct {
	out   io.Writer
	width int
	state State
}

// New creates a renderer writing to out at the given terminal width.
func New(out io.Writer, width int) *Renderer {
	if width < 1 {
		width = 1
	}
	return &Renderer{out: out, width: width}
}

// Width returns the terminal width used for painting.
func (r *Renderer) Width() int {
	return r.width
}

// Rows returns the number of visual rows in the painted block.
func (r *Renderer) Rows() int {
	return len(r.state.rows)
}

// Draw paints the frame, emitting the minimal update relative to the last
// painted state. State is updated only after the write succeeds.
func (r *Renderer) Draw(f Frame) error {
	l := computeLayout(f, r.width)
	var b bytes.Buffer

	switch {
	case !r.state.valid:
		b.WriteString("\r")
		b.WriteString(seqEraseDown)
		r.paintRows(&b, l)
	case len(l.rows) != len(r.state.rows):
		// Structural change: erase and repaint the whole block.
		r.moveToBlockStart(&b)
		b.WriteString(seqEraseDown)
		r.paintRows(&b, l)
	default:
		first := firstDiff(r.state.rows, l.rows)
		if first == -1 {
			r.reposition(&b, r.state.cursorRow, r.state.cursorCol, l.cursorRow, l.cursorCol)
			break
		}
		if first < r.state.cursorRow {
			// Content changed above the previous cursor: repaint.
			r.moveToBlockStart(&b)
			b.WriteString(seqEraseDown)
			r.paintRows(&b, l)
			break
		}
		r.paintTail(&b, l, first)
	}

	if err := r.flush(b.Bytes()); err != nil {
		return err
	}
	r.state.rows = l.rows
	r.state.cursorRow = l.cursorRow
	r.state.cursorCol = l.cursorCol
	r.state.valid = true
	return nil
}

// Redraw erases the painted block and repaints it in full.
func (r *Renderer) Redraw(f Frame) error {
	l := computeLayout(f, r.width)
	var b bytes.Buffer
	if r.state.valid {
		r.moveToBlockStart(&b)
	} else {
		b.WriteString("\r")
	}
	b.WriteString(seqEraseDown)
	r.paintRows(&b, l)

	if err := r.flush(b.Bytes()); err != nil {
		return err
	}
	r.setPainted(l)
	return nil
}

// Resize adopts a new terminal width and repaints. The previous block
// geometry is unreliable after a resize, so the erase is best-effort and
// the render state is rebuilt from scratch.
func (r *Renderer) Resize(width int, f Frame) error {
	if width < 1 {
		width = 1
	}
	var b bytes.Buffer
	if r.state.valid {
		r.moveToBlockStart(&b)
		b.WriteString(seqEraseDown)
	}
	r.width = width
	l := computeLayout(f, r.width)
	b.WriteString("\r")
	r.paintRows(&b, l)

	if err := r.flush(b.Bytes()); err != nil {
		return err
	}
	r.state.trailingOpen = false
	r.state.trailingWidth = 0
	r.setPainted(l)
	return nil
}

// ClearScreen clears the whole terminal and repaints the block at the top.
func (r *Renderer) ClearScreen(f Frame) error {
	l := computeLayout(f, r.width)
	var b bytes.Buffer
	b.WriteString(seqClearScreen)
	r.paintRows(&b, l)

	if err := r.flush(b.Bytes()); err != nil {
		return err
	}
	r.state.trailingOpen = false
	r.state.trailingWidth = 0
	r.setPainted(l)
	return nil
}

// FlushOutput writes a foreign message above the prompt: the block is
// erased, the message written with newlines expanded to CR/LF, and the
// block repainted beneath with its cursor unchanged.
func (r *Renderer) FlushOutput(data []byte, f Frame) error {
	l := computeLayout(f, r.width)
	var b bytes.Buffer

	if r.state.valid {
		r.moveToBlockStart(&b)
		b.WriteString(seqEraseDown)
	} else {
		b.WriteString("\r")
	}

	// Continue an unfinished foreign line from the previous flush. A
	// trailing width of zero means the open line exactly filled its last
	// row; the continuation then starts on the fresh row the cursor is
	// already on, without moving up.
	if r.state.trailingOpen && r.state.trailingWidth > 0 {
		b.WriteString("\x1b[1A\r")
		moveRight(&b, r.state.trailingWidth)
	}

	text := string(data)
	b.WriteString(strings.ReplaceAll(text, "\n", "\r\n"))

	trailingOpen := r.state.trailingOpen
	trailingWidth := r.state.trailingWidth
	if strings.HasSuffix(text, "\n") {
		trailingOpen = false
		trailingWidth = 0
	} else {
		last := text
		if i := strings.LastIndexByte(text, '\n'); i >= 0 {
			last = text[i+1:]
			trailingWidth = 0
		}
		trailingWidth += grapheme.Width(last)
		// Account for wrapping when a partial line grows across
		// flushes; zero marks the last row as exactly full.
		if trailingWidth >= r.width {
			trailingWidth %= r.width
		}
		trailingOpen = true
		// Open a fresh line for the block; the next flush moves back up.
		b.WriteString("\r\n")
	}

	r.paintRows(&b, l)

	if err := r.flush(b.Bytes()); err != nil {
		return err
	}
	r.state.trailingOpen = trailingOpen
	r.state.trailingWidth = trailingWidth
	r.setPainted(l)
	return nil
}

// Commit finishes the current block at the end of a read: with echo the
// block is left on screen and the cursor moves below it; without echo the
// block is erased. Either way the render state forgets the block.
func (r *Renderer) Commit(echo bool) error {
	var b bytes.Buffer
	if r.state.valid {
		if echo {
			moveDown(&b, len(r.state.rows)-1-r.state.cursorRow)
			b.WriteString("\r\n")
		} else {
			r.moveToBlockStart(&b)
			b.WriteString(seqEraseDown)
		}
	}

	if err := r.flush(b.Bytes()); err != nil {
		return err
	}
	r.state = State{}
	return nil
}

// flush writes the pending sequence to the sink. Write failures are fatal
// to the caller; nothing is retried.
func (r *Renderer) flush(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	if _, err := r.out.Write(p); err != nil {
		return fmt.Errorf("terminal write: %w", err)
	}
	return nil
}

// setPainted records a freshly painted layout.
func (r *Renderer) setPainted(l layout) {
	r.state.rows = l.rows
	r.state.cursorRow = l.cursorRow
	r.state.cursorCol = l.cursorCol
	r.state.valid = true
}

// moveToBlockStart moves the physical cursor from its recorded position to
// the first column of the block's first row.
func (r *Renderer) moveToBlockStart(b *bytes.Buffer) {
	moveUp(b, r.state.cursorRow)
	b.WriteString("\r")
}

// paintRows writes every visual row and leaves the physical cursor at the
// layout's cursor position. The caller has positioned the cursor at the
// start of the block.
func (r *Renderer) paintRows(b *bytes.Buffer, l layout) {
	for i, row := range l.rows {
		b.WriteString(row)
		if i < len(l.rows)-1 {
			b.WriteString("\r\n")
		}
	}
	last := len(l.rows) - 1
	r.reposition(b, last, grapheme.Width(l.rows[last]), l.cursorRow, l.cursorCol)
}

// paintTail rewrites rows from first (at or below the previous cursor row)
// through the last changed row, then repositions the cursor.
func (r *Renderer) paintTail(b *bytes.Buffer, l layout, first int) {
	last := lastDiff(r.state.rows, l.rows)

	moveDown(b, first-r.state.cursorRow)
	moveUp(b, r.state.cursorRow-first)
	b.WriteString("\r")
	for i := first; i <= last; i++ {
		b.WriteString(seqEraseLine)
		b.WriteString(l.rows[i])
		if i < last {
			b.WriteString("\r\n")
		}
	}
	r.reposition(b, last, grapheme.Width(l.rows[last]), l.cursorRow, l.cursorCol)
}

// reposition moves the physical cursor from (fromRow, fromCol) to
// (toRow, toCol) within the block.
func (r *Renderer) reposition(b *bytes.Buffer, fromRow, fromCol, toRow, toCol int) {
	moveUp(b, fromRow-toRow)
	moveDown(b, toRow-fromRow)
	if fromCol != toCol {
		b.WriteString("\r")
		moveRight(b, toCol)
	}
}

func moveUp(b *bytes.Buffer, n int) {
	if n > 0 {
		fmt.Fprintf(b, "\x1b[%dA", n)
	}
}

func moveDown(b *bytes.Buffer, n int) {
	if n > 0 {
		fmt.Fprintf(b, "\x1b[%dB", n)
	}
}

func moveRight(b *bytes.Buffer, n int) {
	if n > 0 {
		fmt.Fprintf(b, "\x1b[%dC", n)
	}
}
