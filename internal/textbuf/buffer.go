package textbuf

import (
	"strings"

	"github.com/dshills/linestorm/internal/grapheme"
)

// Buffer is a multiline text buffer with a grapheme-cluster cursor.
type Buffer struct {
	lines []string
	line  int // cursor line index
	col   int // cursor column in grapheme clusters
}

// New creates an empty buffer: one empty line, cursor at the origin.
func New() *Buffer {
	return &Buffer{lines: []string{""}}
}

// Reset restores the buffer to its initial empty state.
func (b *Buffer) Reset() {
	b.lines = []string{""}
	b.line = 0
	b.col = 0
}

// String returns the buffer content with lines joined by newlines.
func (b *Buffer) String() string {
	return strings.Join(b.lines, "\n")
}

// SetText replaces the buffer content and places the cursor at the end.
func (b *Buffer) SetText(s string) {
	b.lines = strings.Split(s, "\n")
	b.line = len(b.lines) - 1
	b.col = grapheme.Count(b.lines[b.line])
}

// Lines returns a copy of the logical lines.
func (b *Buffer) Lines() []string {
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// Cursor returns the cursor position as (line index, cluster column).
func (b *Buffer) Cursor() (line, col int) {
	return b.line, b.col
}

// IsEmpty returns true if the buffer holds no text.
func (b *Buffer) IsEmpty() bool {
	return len(b.lines) == 1 && b.lines[0] == ""
}

// LineCount returns the number of logical lines.
func (b *Buffer) LineCount() int {
	return len(b.lines)
}

// LineLen returns the cluster count of the given line, or 0 when out of range.
func (b *Buffer) LineLen(i int) int {
	if i < 0 || i >= len(b.lines) {
		return 0
	}
	return grapheme.Count(b.lines[i])
}

// OnFirstLine returns true if the cursor is on the first logical line.
func (b *Buffer) OnFirstLine() bool {
	return b.line == 0
}

// OnLastLine returns true if the cursor is on the last logical line.
func (b *Buffer) OnLastLine() bool {
	return b.line == len(b.lines)-1
}

// Editing

// Insert inserts text (typically a single cluster) at the cursor and places
// the cursor after it. A combining mark that merges into the preceding
// cluster leaves the column unchanged, since the merged text is still one
// cluster.
func (b *Buffer) Insert(text string) {
	if text == "" {
		return
	}
	line := b.lines[b.line]
	off := grapheme.ByteOffset(line, b.col)
	b.lines[b.line] = line[:off] + text + line[off:]
	b.col = grapheme.Count(b.lines[b.line][:off+len(text)])
}

// InsertNewline splits the current line at the cursor. The cursor moves to
// the start of the new (second) line.
func (b *Buffer) InsertNewline() {
	line := b.lines[b.line]
	off := grapheme.ByteOffset(line, b.col)
	head, tail := line[:off], line[off:]

	b.lines[b.line] = head
	b.lines = append(b.lines, "")
	copy(b.lines[b.line+2:], b.lines[b.line+1:])
	b.lines[b.line+1] = tail

	b.line++
	b.col = 0
}

// Backspace removes the cluster before the cursor. At column 0 of a
// non-first line it merges the current line into the previous one.
func (b *Buffer) Backspace() {
	if b.col > 0 {
		b.lines[b.line] = grapheme.DeleteRange(b.lines[b.line], b.col-1, b.col)
		b.col--
		return
	}
	if b.line == 0 {
		return
	}
	prev := b.lines[b.line-1]
	b.col = grapheme.Count(prev)
	b.lines[b.line-1] = prev + b.lines[b.line]
	b.lines = append(b.lines[:b.line], b.lines[b.line+1:]...)
	b.line--
}

// DeleteForward removes the cluster after the cursor. At the end of a
// non-last line it merges the next line into the current one.
func (b *Buffer) DeleteForward() {
	n := grapheme.Count(b.lines[b.line])
	if b.col < n {
		b.lines[b.line] = grapheme.DeleteRange(b.lines[b.line], b.col, b.col+1)
		return
	}
	if b.line == len(b.lines)-1 {
		return
	}
	b.lines[b.line] += b.lines[b.line+1]
	b.lines = append(b.lines[:b.line+1], b.lines[b.line+2:]...)
}

// ClearBeforeCursor deletes everything before the cursor on the current
// line. It never crosses a line boundary.
func (b *Buffer) ClearBeforeCursor() {
	b.lines[b.line] = grapheme.Slice(b.lines[b.line], b.col, grapheme.Count(b.lines[b.line]))
	b.col = 0
}

// DeleteWordBack deletes from the cursor back to the previous word boundary.
// At column 0 it first merges with the previous line, matching Backspace.
func (b *Buffer) DeleteWordBack() {
	if b.col == 0 {
		b.Backspace()
		return
	}
	start := grapheme.PrevWordBoundary(b.lines[b.line], b.col)
	b.lines[b.line] = grapheme.DeleteRange(b.lines[b.line], start, b.col)
	b.col = start
}

// Movement

// MoveLeft moves the cursor one cluster left, wrapping to the end of the
// previous line at column 0.
func (b *Buffer) MoveLeft() {
	if b.col > 0 {
		b.col--
		return
	}
	if b.line > 0 {
		b.line--
		b.col = grapheme.Count(b.lines[b.line])
	}
}

// MoveRight moves the cursor one cluster right, wrapping to the start of the
// next line at the end of a line.
func (b *Buffer) MoveRight() {
	if b.col < grapheme.Count(b.lines[b.line]) {
		b.col++
		return
	}
	if b.line < len(b.lines)-1 {
		b.line++
		b.col = 0
	}
}

// MoveUp moves the cursor to the previous logical line, keeping the closest
// valid column.
func (b *Buffer) MoveUp() {
	if b.line == 0 {
		return
	}
	b.line--
	if n := grapheme.Count(b.lines[b.line]); b.col > n {
		b.col = n
	}
}

// MoveDown moves the cursor to the next logical line, keeping the closest
// valid column.
func (b *Buffer) MoveDown() {
	if b.line == len(b.lines)-1 {
		return
	}
	b.line++
	if n := grapheme.Count(b.lines[b.line]); b.col > n {
		b.col = n
	}
}

// MoveWordLeft moves the cursor to the previous word boundary: across any
// whitespace, then to the start of the adjacent word. At column 0 it first
// wraps to the end of the previous line.
func (b *Buffer) MoveWordLeft() {
	if b.col == 0 {
		if b.line == 0 {
			return
		}
		b.line--
		b.col = grapheme.Count(b.lines[b.line])
	}
	b.col = grapheme.PrevWordBoundary(b.lines[b.line], b.col)
}

// MoveWordRight moves the cursor to the next word boundary: across any
// whitespace, then past the end of the adjacent word. At the end of a line
// it first wraps to the start of the next line.
func (b *Buffer) MoveWordRight() {
	if b.col == grapheme.Count(b.lines[b.line]) {
		if b.line == len(b.lines)-1 {
			return
		}
		b.line++
		b.col = 0
	}
	b.col = grapheme.NextWordBoundary(b.lines[b.line], b.col)
}

// MoveHome moves the cursor to the start of the current line.
func (b *Buffer) MoveHome() {
	b.col = 0
}

// MoveEnd moves the cursor to the end of the current line.
func (b *Buffer) MoveEnd() {
	b.col = grapheme.Count(b.lines[b.line])
}
