package keybind

import "github.com/dshills/linestorm/key"

// Context carries the buffer state consulted during interpretation.
type Context struct {
	// BufferEmpty is true when the edit buffer holds no text.
	// Decides between EOF and forward deletion for Ctrl+D.
	BufferEmpty bool

	// CursorOnFirstLine is true when the cursor is on the first logical
	// line. Up navigates history there; otherwise it moves the cursor.
	CursorOnFirstLine bool

	// CursorOnLastLine is the Down counterpart.
	CursorOnLastLine bool
}

// Interpreter maps key events to edit commands.
type Interpreter struct {
	// emacs enables the Ctrl+A / Ctrl+E aliases for Home / End.
	emacs bool
}

// NewInterpreter creates an interpreter. When emacs is false, Ctrl+A and
// Ctrl+E fall through unrecognized so host applications can bind them;
// Home and End stay active either way.
func NewInterpreter(emacs bool) *Interpreter {
	return &Interpreter{emacs: emacs}
}

// Interpret translates one key event into a command. Unrecognized events
// yield the no-op sentinel, which the editor loop ignores.
func (in *Interpreter) Interpret(ev key.Event, ctx Context) Command {
	if ev.Modifiers.HasCtrl() {
		return in.interpretCtrl(ev, ctx)
	}
	return in.interpretPlain(ev, ctx)
}

// interpretCtrl handles events with the Control modifier held.
func (in *Interpreter) interpretCtrl(ev key.Event, ctx Context) Command {
	switch ev.Key {
	// Ctrl+Left/Right always resolve to word motion, never plain motion.
	case key.KeyLeft:
		return Command{Op: OpMoveWordLeft}
	case key.KeyRight:
		return Command{Op: OpMoveWordRight}
	case key.KeyEnter:
		return Command{Op: OpInsertNewline}
	}

	if ev.Key != key.KeyRune {
		return None
	}

	switch ev.Rune {
	case 'c':
		// Always Interrupt, whatever the buffer holds.
		return Command{Op: OpInterrupt}
	case 'd':
		// EOF only on an empty buffer; otherwise conventional
		// forward deletion.
		if ctx.BufferEmpty {
			return Command{Op: OpEOF}
		}
		return Command{Op: OpDeleteForward}
	case 'l':
		return Command{Op: OpClearScreen}
	case 'u':
		return Command{Op: OpClearBeforeCursor}
	case 'w':
		return Command{Op: OpDeleteWordBack}
	case 'h':
		return Command{Op: OpBackspace}
	case 'j', 'm':
		return Command{Op: OpInsertNewline}
	case 'a':
		if in.emacs {
			return Command{Op: OpMoveHome}
		}
	case 'e':
		if in.emacs {
			return Command{Op: OpMoveEnd}
		}
	}
	return None
}

// interpretPlain handles events without Control held.
func (in *Interpreter) interpretPlain(ev key.Event, ctx Context) Command {
	switch ev.Key {
	case key.KeyEnter:
		if ev.Modifiers.HasAlt() {
			return Command{Op: OpInsertNewline}
		}
		return Command{Op: OpSubmit}
	case key.KeyBackspace:
		return Command{Op: OpBackspace}
	case key.KeyDelete:
		return Command{Op: OpDeleteForward}
	case key.KeyLeft:
		return Command{Op: OpMoveLeft}
	case key.KeyRight:
		return Command{Op: OpMoveRight}
	case key.KeyUp:
		if ctx.CursorOnFirstLine {
			return Command{Op: OpHistoryPrev}
		}
		return Command{Op: OpMoveUp}
	case key.KeyDown:
		if ctx.CursorOnLastLine {
			return Command{Op: OpHistoryNext}
		}
		return Command{Op: OpMoveDown}
	case key.KeyHome:
		return Command{Op: OpMoveHome}
	case key.KeyEnd:
		return Command{Op: OpMoveEnd}
	}

	// A printable character with no control modifier inserts itself.
	if ev.IsChar() && !ev.Modifiers.HasAlt() {
		return Insert(string(ev.Rune))
	}
	return None
}
