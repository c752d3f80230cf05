// Package textbuf provides the multiline edit buffer and its cursor.
//
// A Buffer holds an ordered sequence of logical lines; newlines exist only
// as the boundaries between lines, never inside one. The cursor is a
// (line, column) pair where the column counts grapheme clusters, so combining
// marks and emoji sequences move and delete as single units.
//
// Invariants maintained by every operation:
//
//   - At least one line always exists; a fresh or reset buffer holds a single
//     empty line with the cursor at the origin.
//   - The cursor line always indexes an existing line.
//   - The cursor column stays within [0, cluster count of the current line].
//
// Operations never fail: out-of-range requests are clamped and edge cases
// (backspace at the origin, delete at the end) are no-ops. The buffer does
// no I/O and is not safe for concurrent use; the editor loop is its sole
// owner.
package textbuf
