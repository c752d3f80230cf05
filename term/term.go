// Package term provides the default terminal collaborator for the editor:
// raw mode entry/exit over a real TTY, decoding of the terminal's input
// bytes into parsed key events, and size queries.
//
// Hosts that run on something other than a TTY (tests, embedded panes)
// can implement linestorm.Terminal themselves; nothing in the core editor
// depends on this package.
package term

import (
	"bufio"
	"fmt"
	"os"
	"sync"

	xterm "golang.org/x/term"

	"github.com/dshills/linestorm"
	"github.com/dshills/linestorm/key"
)

// Term is a linestorm.Terminal over a real TTY.
type Term struct {
	in  *os.File
	out *os.File

	saved   *xterm.State
	events  chan key.Event
	resizes chan linestorm.Size

	done      chan struct{}
	closeOnce sync.Once
}

// Open puts the input TTY into raw mode and starts decoding key events.
// Callers must Close to restore the terminal state.
func Open(in, out *os.File) (*Term, error) {
	fd := int(in.Fd())
	if !xterm.IsTerminal(fd) {
		return nil, fmt.Errorf("input is not a terminal")
	}
	saved, err := xterm.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("entering raw mode: %w", err)
	}

	t := &Term{
		in:      in,
		out:     out,
		saved:   saved,
		events:  make(chan key.Event),
		resizes: make(chan linestorm.Size, 1),
		done:    make(chan struct{}),
	}
	go t.readLoop()
	return t, nil
}

// Close restores the terminal state and stops the read loop.
func (t *Term) Close() error {
	var err error
	t.closeOnce.Do(func() {
		close(t.done)
		err = xterm.Restore(int(t.in.Fd()), t.saved)
	})
	return err
}

// Write writes raw bytes to the terminal.
func (t *Term) Write(p []byte) (int, error) {
	return t.out.Write(p)
}

// Events returns the stream of parsed key presses. The channel is closed
// when the input stream ends or the terminal is closed.
func (t *Term) Events() <-chan key.Event {
	return t.events
}

// Resizes returns the stream of size change notifications.
func (t *Term) Resizes() <-chan linestorm.Size {
	return t.resizes
}

// Size reports the current terminal dimensions.
func (t *Term) Size() (linestorm.Size, error) {
	cols, rows, err := xterm.GetSize(int(t.out.Fd()))
	if err != nil {
		return linestorm.Size{}, fmt.Errorf("querying terminal size: %w", err)
	}
	return linestorm.Size{Cols: cols, Rows: rows}, nil
}

// NotifyResize queries the terminal size and publishes it on the resize
// stream. Hosts call this from their SIGWINCH handler; signal handling
// itself stays with the host.
func (t *Term) NotifyResize() {
	size, err := t.Size()
	if err != nil {
		return
	}
	select {
	case t.resizes <- size:
	default:
		// A pending notification is stale; replace it.
		select {
		case <-t.resizes:
		default:
		}
		select {
		case t.resizes <- size:
		default:
		}
	}
}

// readLoop decodes input bytes into key events until the input stream ends
// or the terminal is closed.
func (t *Term) readLoop() {
	defer close(t.events)

	d := newDecoder(bufio.NewReader(t.in))
	for {
		ev, err := d.next()
		if err != nil {
			return
		}
		if ev.Key == key.KeyNone {
			continue
		}
		select {
		case t.events <- ev:
		case <-t.done:
			return
		}
	}
}
