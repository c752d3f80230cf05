package linestorm

import "errors"

// Errors returned by editor operations.
var (
	// ErrEditorClosed is returned by any operation invoked after Close.
	ErrEditorClosed = errors.New("editor is closed")

	// ErrWriterClosed is returned by SharedWriter sends after the editor
	// consuming them has shut down.
	ErrWriterClosed = errors.New("output writer is closed")

	// ErrInputClosed is returned when the terminal's key event stream
	// ends while a read is in progress.
	ErrInputClosed = errors.New("input stream closed")
)
