// Package keybind translates parsed key events into edit commands.
//
// The translation is a pure table lookup over (event, context): the context
// carries the few pieces of buffer state that affect the mapping, such as
// whether the buffer is empty (Ctrl+D) and which logical line holds the
// cursor (Up/Down double as history navigation). The interpreter never
// mutates anything.
package keybind

import "fmt"

// Op identifies an edit command.
type Op int

const (
	// OpNone is the no-op sentinel for unrecognized events.
	OpNone Op = iota

	OpInsert
	OpInsertNewline
	OpBackspace
	OpDeleteForward
	OpMoveLeft
	OpMoveRight
	OpMoveUp
	OpMoveDown
	OpMoveWordLeft
	OpMoveWordRight
	OpMoveHome
	OpMoveEnd
	OpClearBeforeCursor
	OpDeleteWordBack
	OpClearScreen
	OpHistoryPrev
	OpHistoryNext
	OpSubmit
	OpInterrupt
	OpEOF
	OpResize
)

// String returns the command name.
func (o Op) String() string {
	switch o {
	case OpNone:
		return "none"
	case OpInsert:
		return "insert"
	case OpInsertNewline:
		return "insertNewline"
	case OpBackspace:
		return "backspace"
	case OpDeleteForward:
		return "deleteForward"
	case OpMoveLeft:
		return "moveLeft"
	case OpMoveRight:
		return "moveRight"
	case OpMoveUp:
		return "moveUp"
	case OpMoveDown:
		return "moveDown"
	case OpMoveWordLeft:
		return "moveWordLeft"
	case OpMoveWordRight:
		return "moveWordRight"
	case OpMoveHome:
		return "moveHome"
	case OpMoveEnd:
		return "moveEnd"
	case OpClearBeforeCursor:
		return "clearBeforeCursor"
	case OpDeleteWordBack:
		return "deleteWordBack"
	case OpClearScreen:
		return "clearScreen"
	case OpHistoryPrev:
		return "historyPrev"
	case OpHistoryNext:
		return "historyNext"
	case OpSubmit:
		return "submit"
	case OpInterrupt:
		return "interrupt"
	case OpEOF:
		return "eof"
	case OpResize:
		return "resize"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// Command is a single edit command derived from a key event.
type Command struct {
	Op Op

	// Text is the cluster to insert for OpInsert.
	Text string

	// Cols and Rows carry the new terminal size for OpResize.
	Cols int
	Rows int
}

// None is the no-op command.
var None = Command{Op: OpNone}

// Insert returns an insert command for the given text.
func Insert(text string) Command {
	return Command{Op: OpInsert, Text: text}
}

// Resize returns a resize command for the given terminal size.
func Resize(cols, rows int) Command {
	return Command{Op: OpResize, Cols: cols, Rows: rows}
}

// IsTerminal returns true for commands that end a read-line call.
func (c Command) IsTerminal() bool {
	return c.Op == OpSubmit || c.Op == OpInterrupt || c.Op == OpEOF
}

// IsEdit returns true for commands that change buffer content.
func (c Command) IsEdit() bool {
	switch c.Op {
	case OpInsert, OpInsertNewline, OpBackspace, OpDeleteForward,
		OpClearBeforeCursor, OpDeleteWordBack:
		return true
	default:
		return false
	}
}
