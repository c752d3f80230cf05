package linestorm

import (
	"io"

	"github.com/dshills/linestorm/key"
)

// Size is a terminal size in character cells.
type Size struct {
	Cols int
	Rows int
}

// Terminal is the collaborator that delivers parsed key events and accepts
// raw terminal writes. Raw-mode handling and byte-level event decoding live
// behind this interface; the term package provides the default
// implementation over a real TTY.
//
// The editor is the only goroutine that writes to the sink; hosts must not
// write to the terminal directly while a read is in progress (use the
// editor's SharedWriter instead).
type Terminal interface {
	io.Writer

	// Events returns the stream of parsed key presses. Closing the
	// channel ends the current read with ErrInputClosed.
	Events() <-chan key.Event

	// Resizes returns the stream of terminal size changes.
	Resizes() <-chan Size

	// Size reports the current terminal dimensions.
	Size() (Size, error)
}
