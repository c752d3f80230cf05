// Package render paints the prompt and edit buffer onto the terminal and
// keeps the record of what is currently visible.
//
// The renderer receives a Frame (prompt, logical lines, cursor) and computes
// the wrapped visual layout at the current terminal width, using display
// widths per grapheme cluster so wide characters occupy two cells and never
// split across rows. It then emits the smallest escape/write sequence that
// turns the previously painted block into the new one: a tail rewrite when
// only content at or below the previous cursor row changed, a full block
// repaint on structural changes, and a whole-screen clear for Ctrl+L.
//
// The recorded state is only updated after the sink write succeeds, so a failed
// write leaves the record of the visible screen intact and the error is
// surfaced to the caller; the renderer never retries.
//
// Foreign output (log lines arriving through the shared writer) is flushed
// by erasing the block, writing the message with newlines expanded to
// CR/LF, and repainting the block beneath it. A message without a trailing
// newline leaves the visual line open; the next flush continues it.
package render
