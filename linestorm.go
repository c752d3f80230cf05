package linestorm

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dshills/linestorm/internal/history"
	"github.com/dshills/linestorm/internal/keybind"
	"github.com/dshills/linestorm/internal/render"
	"github.com/dshills/linestorm/internal/textbuf"
)

// ResultKind classifies the outcome of a read.
type ResultKind int

const (
	// ResultLine means a line was submitted; Result.Line holds it.
	ResultLine ResultKind = iota

	// ResultInterrupt means the user pressed Ctrl+C.
	ResultInterrupt

	// ResultEOF means the user pressed Ctrl+D on an empty buffer.
	ResultEOF
)

// String returns the result kind's name.
func (k ResultKind) String() string {
	switch k {
	case ResultLine:
		return "line"
	case ResultInterrupt:
		return "interrupt"
	case ResultEOF:
		return "eof"
	default:
		return fmt.Sprintf("ResultKind(%d)", int(k))
	}
}

// Result is the outcome of a single ReadLine call.
type Result struct {
	Kind ResultKind
	Line string
}

// Editor is the line editing engine. Create one with New, read lines with
// ReadLine, and hand SharedWriter handles to goroutines that need to print.
//
// The editor has two states: editing (the default) and closed. After Close,
// every operation returns ErrEditorClosed.
type Editor struct {
	term   Terminal
	buf    *textbuf.Buffer
	hist   *history.History
	rend   *render.Renderer
	interp *keybind.Interpreter
	queue  *msgQueue

	cfg    Config
	mu     sync.Mutex // guards cfg.Prompt
	readMu sync.Mutex // serializes ReadLine calls

	closed atomic.Bool
	done   chan struct{}
}

// New creates an editor over the given terminal.
func New(t Terminal, cfg Config) (*Editor, error) {
	if t == nil {
		return nil, fmt.Errorf("nil terminal")
	}
	size, err := t.Size()
	if err != nil {
		return nil, fmt.Errorf("querying terminal size: %w", err)
	}

	return &Editor{
		term:   t,
		buf:    textbuf.New(),
		hist:   history.New(cfg.HistoryCapacity),
		rend:   render.New(t, size.Cols),
		interp: keybind.NewInterpreter(cfg.EmacsKeybindings),
		queue:  newMsgQueue(),
		cfg:    cfg,
		done:   make(chan struct{}),
	}, nil
}

// Writer returns a new producer handle for printing above the prompt. The
// handle may be cloned freely by calling Writer again or by sharing it;
// all handles feed the same ordered queue.
func (e *Editor) Writer() *SharedWriter {
	return &SharedWriter{queue: e.queue}
}

// SetPrompt changes the prompt. When a read is in progress the block is
// repainted in place with the buffer and cursor unchanged.
func (e *Editor) SetPrompt(prompt string) error {
	if e.closed.Load() {
		return ErrEditorClosed
	}
	e.mu.Lock()
	e.cfg.Prompt = prompt
	e.mu.Unlock()

	// An empty message asks the loop for a repaint.
	_ = e.queue.push(nil)
	return nil
}

// History returns a copy of the submitted entries, oldest first. It never
// blocks on a read in progress, and it keeps working after Close so hosts
// can persist entries during shutdown.
func (e *Editor) History() []string {
	return e.hist.Entries()
}

// SetHistory replaces the history entries, e.g. with lines a host loaded
// from disk. It never blocks on a read in progress.
func (e *Editor) SetHistory(entries []string) error {
	if e.closed.Load() {
		return ErrEditorClosed
	}
	e.hist.SetEntries(entries)
	return nil
}

// Close shuts the editor down. A read in progress ends at its next
// suspension point with ErrEditorClosed, and SharedWriter sends fail fast
// from now on. Close is not idempotent: a second call reports the closed
// state like any other operation.
func (e *Editor) Close() error {
	if e.closed.Swap(true) {
		return ErrEditorClosed
	}
	e.queue.close()
	close(e.done)
	return nil
}

// ReadLine reads one line. It suspends on whichever comes first, a key
// event or a queued output message, processes it, and repeats until a
// submit, interrupt, or EOF. Foreign output and resizes are handled
// between keystrokes, never mid-keystroke.
func (e *Editor) ReadLine(ctx context.Context) (Result, error) {
	if e.closed.Load() {
		return Result{}, ErrEditorClosed
	}
	e.readMu.Lock()
	defer e.readMu.Unlock()

	if err := e.rend.Draw(e.frame()); err != nil {
		return Result{}, err
	}

	for {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()

		case <-e.done:
			return Result{}, ErrEditorClosed

		case ev, ok := <-e.term.Events():
			if !ok {
				return Result{}, ErrInputClosed
			}
			cmd := e.interp.Interpret(ev, keybind.Context{
				BufferEmpty:       e.buf.IsEmpty(),
				CursorOnFirstLine: e.buf.OnFirstLine(),
				CursorOnLastLine:  e.buf.OnLastLine(),
			})
			res, done, err := e.apply(cmd)
			if err != nil {
				return Result{}, err
			}
			if done {
				return res, nil
			}

		case sz := <-e.term.Resizes():
			if _, _, err := e.apply(keybind.Resize(sz.Cols, sz.Rows)); err != nil {
				return Result{}, err
			}

		case <-e.queue.ready:
			msg, ok := e.queue.pop()
			if !ok {
				continue
			}
			var err error
			if len(msg) == 0 {
				err = e.rend.Redraw(e.frame())
			} else {
				err = e.rend.FlushOutput(msg, e.frame())
			}
			if err != nil {
				return Result{}, err
			}
		}
	}
}

// apply executes one command against the buffer, history, and renderer.
// done is true for commands that end the read.
func (e *Editor) apply(cmd keybind.Command) (res Result, done bool, err error) {
	// Any content edit ends history browsing for good; the saved draft
	// must not resurface after a fresh edit.
	if cmd.IsEdit() {
		e.hist.ResetNavigation()
	}

	switch cmd.Op {
	case keybind.OpNone:
		return Result{}, false, nil

	case keybind.OpInsert:
		e.buf.Insert(cmd.Text)
	case keybind.OpInsertNewline:
		e.buf.InsertNewline()
	case keybind.OpBackspace:
		e.buf.Backspace()
	case keybind.OpDeleteForward:
		e.buf.DeleteForward()
	case keybind.OpClearBeforeCursor:
		e.buf.ClearBeforeCursor()
	case keybind.OpDeleteWordBack:
		e.buf.DeleteWordBack()

	case keybind.OpMoveLeft:
		e.buf.MoveLeft()
	case keybind.OpMoveRight:
		e.buf.MoveRight()
	case keybind.OpMoveUp:
		e.buf.MoveUp()
	case keybind.OpMoveDown:
		e.buf.MoveDown()
	case keybind.OpMoveWordLeft:
		e.buf.MoveWordLeft()
	case keybind.OpMoveWordRight:
		e.buf.MoveWordRight()
	case keybind.OpMoveHome:
		e.buf.MoveHome()
	case keybind.OpMoveEnd:
		e.buf.MoveEnd()

	case keybind.OpHistoryPrev:
		if text, ok := e.hist.Prev(e.buf.String()); ok {
			e.buf.SetText(text)
		}
	case keybind.OpHistoryNext:
		if text, ok := e.hist.Next(); ok {
			e.buf.SetText(text)
		}

	case keybind.OpClearScreen:
		return Result{}, false, e.rend.ClearScreen(e.frame())
	case keybind.OpResize:
		return Result{}, false, e.rend.Resize(cmd.Cols, e.frame())

	case keybind.OpSubmit:
		text := e.buf.String()
		if err := e.rend.Commit(e.cfg.EchoOnSubmit); err != nil {
			return Result{}, false, err
		}
		e.hist.Push(text)
		e.buf.Reset()
		return Result{Kind: ResultLine, Line: text}, true, nil

	case keybind.OpInterrupt:
		if err := e.rend.Commit(e.cfg.EchoOnInterrupt); err != nil {
			return Result{}, false, err
		}
		e.hist.ResetNavigation()
		e.buf.Reset()
		return Result{Kind: ResultInterrupt}, true, nil

	case keybind.OpEOF:
		if err := e.rend.Commit(false); err != nil {
			return Result{}, false, err
		}
		e.buf.Reset()
		return Result{Kind: ResultEOF}, true, nil
	}

	return Result{}, false, e.rend.Draw(e.frame())
}

// frame snapshots the current prompt, buffer, and cursor for the renderer.
func (e *Editor) frame() render.Frame {
	e.mu.Lock()
	prompt := e.cfg.Prompt
	e.mu.Unlock()

	line, col := e.buf.Cursor()
	return render.Frame{
		Prompt:     prompt,
		Lines:      e.buf.Lines(),
		CursorLine: line,
		CursorCol:  col,
	}
}
